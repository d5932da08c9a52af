package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/teer-platform-poc/internal/result-worker/repo"
	"github.com/radieske/teer-platform-poc/internal/result-worker/settle"
	"github.com/radieske/teer-platform-poc/internal/shared/cache"
	"github.com/radieske/teer-platform-poc/internal/shared/config"
	"github.com/radieske/teer-platform-poc/internal/shared/db"
	"github.com/radieske/teer-platform-poc/internal/shared/kafka"
	"github.com/radieske/teer-platform-poc/internal/shared/logger"
	"github.com/radieske/teer-platform-poc/internal/shared/metrics"
	ev "github.com/radieske/teer-platform-poc/pkg/contracts/events"

	goredis "github.com/redis/go-redis/v9"
)

// Métricas Prometheus do pipeline de liquidação
var (
	resultsConsumed = prometheus.NewCounter(prometheus.CounterOpts{Name: "settle_results_consumed_total", Help: "resultados consumidos do Kafka"})
	betsSettled     = prometheus.NewCounter(prometheus.CounterOpts{Name: "settle_bets_settled_total", Help: "apostas liquidadas"})
	ticketsSettled  = prometheus.NewCounter(prometheus.CounterOpts{Name: "settle_tickets_settled_total", Help: "tickets consolidados"})
	errorsBy        = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settle_errors_total", Help: "erros por estágio"}, []string{"stage"})
)

// worker agrupa as dependências do loop de liquidação.
type worker struct {
	log           *zap.Logger
	repo          *repo.Postgres
	rdb           *goredis.Client
	settledWriter *kafkago.Writer
	dlqWriter     *kafkago.Writer
	walletURL     string
	pubsubChannel string
}

func main() {
	cfg := config.Load()
	log, err := logger.New("result-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Consome result_published; publica ticket_settled e o broadcast
	// de resultado no canal Redis do round-service.
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicResultPublished, "result-worker")
	defer reader.Close()

	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicTicketSettled)
	defer settledWriter.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicResultPublishedDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultPublishedDLQ)
		defer dlqWriter.Close()
	}

	prometheus.MustRegister(resultsConsumed, betsSettled, ticketsSettled, errorsBy)
	metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)

	w := &worker{
		log:           log,
		repo:          repo.NewPostgres(pg),
		rdb:           rdb,
		settledWriter: settledWriter,
		dlqWriter:     dlqWriter,
		walletURL:     cfg.WalletURL,
		pubsubChannel: cfg.RedisPubSubChannel,
	}

	log.Info("result-worker started",
		zap.String("consume", cfg.TopicResultPublished),
		zap.String("publish", cfg.TopicTicketSettled),
	)

	ctx := context.Background()
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			errorsBy.WithLabelValues("kafka_read").Inc()
			time.Sleep(time.Second)
			continue
		}
		var result ev.ResultPublished
		if jerr := json.Unmarshal(msg.Value, &result); jerr != nil {
			log.Error("unmarshal result_published", zap.Error(jerr))
			errorsBy.WithLabelValues("unmarshal").Inc()
			continue
		}
		resultsConsumed.Inc()
		if err := w.processResult(ctx, &result); err != nil {
			log.Error("process result", zap.Int64("roundId", result.RoundID), zap.Error(err))
			errorsBy.WithLabelValues("process").Inc()
			if w.dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, w.dlqWriter, strconv.FormatInt(result.RoundID, 10), mustJSON(result))
			}
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// processResult executa o fluxo de liquidação de um resultado:
// 1. Grava o número no round (idempotente)
// 2. Liquida as apostas FR/SR do round
// 3. Liquida os forecasts que já têm os dois números
// 4. Consolida tickets completos, paga prêmios e emite ticket_settled
// 5. Publica o resultado no canal Redis pro feed WebSocket
func (w *worker) processResult(ctx context.Context, r *ev.ResultPublished) error {
	applied, err := w.repo.SetRoundResult(ctx, r.RoundID, r.Number)
	if err != nil {
		return err
	}
	if !applied {
		w.log.Info("result already applied", zap.Int64("roundId", r.RoundID))
	}

	touched := map[string]bool{}

	bets, err := w.repo.PendingBetsForRound(ctx, r.RoundID)
	if err != nil {
		return err
	}
	for _, b := range bets {
		out := settle.Evaluate(b, r.Number)
		if err := w.repo.SettleBet(ctx, b.ID, out.Won, out.PayoutPaise); err != nil {
			return err
		}
		betsSettled.Inc()
		touched[b.TicketID] = true
	}

	forecasts, err := w.repo.ReadyForecastBets(ctx, r.RoundID)
	if err != nil {
		return err
	}
	for _, fb := range forecasts {
		out := settle.EvaluateForecast(fb.Bet, fb.FRResult, fb.SRResult)
		if err := w.repo.SettleBet(ctx, fb.ID, out.Won, out.PayoutPaise); err != nil {
			return err
		}
		betsSettled.Inc()
		touched[fb.TicketID] = true
	}

	for ticketID := range touched {
		if err := w.finalizeTicket(ctx, ticketID); err != nil {
			w.log.Error("finalize ticket", zap.String("ticketId", ticketID), zap.Error(err))
		}
	}

	return w.broadcastResult(ctx, r)
}

// finalizeTicket consolida o ticket quando não resta aposta pendente,
// credita o prêmio e publica ticket_settled.
func (w *worker) finalizeTicket(ctx context.Context, ticketID string) error {
	tp, err := w.repo.GetTicketProgress(ctx, ticketID)
	if err != nil {
		return err
	}
	if tp.Pending > 0 {
		return nil // aguarda o outro round
	}

	status := settle.TicketStatus(tp.Won, tp.Lost)
	applied, err := w.repo.FinalizeTicket(ctx, ticketID, status)
	if err != nil {
		return err
	}
	if !applied {
		return nil // já consolidado por outro evento
	}
	ticketsSettled.Inc()

	if tp.TotalPayoutPaise > 0 {
		if err := w.walletPayout(ctx, tp.UserID, tp.TotalPayoutPaise, ticketID); err != nil {
			w.log.Error("wallet payout", zap.String("ticketId", ticketID), zap.Error(err))
			// Compensação manual: o ledger do wallet é idempotente por
			// ticketId, reprocessar o evento tenta de novo.
		}
	}

	return kafka.WriteJSON(ctx, w.settledWriter, ticketID, mustJSON(ev.TicketSettled{
		TicketID:         ticketID,
		UserID:           tp.UserID,
		Status:           status,
		WonBets:          tp.Won,
		LostBets:         tp.Lost,
		TotalPayoutPaise: tp.TotalPayoutPaise,
		Ts:               time.Now(),
	}))
}

// broadcastResult empurra o resultado pro canal Redis que alimenta o
// hub WebSocket do round-service.
func (w *worker) broadcastResult(ctx context.Context, r *ev.ResultPublished) error {
	// Shape do envelope segue o ResultUpdate do hub: houseId roteia a
	// inscrição, payload vai íntegro pro cliente.
	payload := mustJSON(map[string]any{
		"houseId": r.HouseID,
		"payload": map[string]any{
			"roundId":    r.RoundID,
			"round_type": r.RoundType,
			"number":     r.Number,
		},
	})
	return w.rdb.Publish(ctx, w.pubsubChannel, payload).Err()
}

// walletPayout chama o wallet-service pra creditar o prêmio.
func (w *worker) walletPayout(ctx context.Context, userID string, paise int64, ticketID string) error {
	body := mustJSON(map[string]any{
		"userId":       userID,
		"amount_paise": paise,
		"external_ref": ticketID,
	})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, w.walletURL+"/wallet/payout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New("wallet payout http " + resp.Status)
	}
	return nil
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
