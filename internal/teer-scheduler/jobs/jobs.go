package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/teer-platform-poc/internal/shared/kafka"
	"github.com/radieske/teer-platform-poc/internal/teer-scheduler/feed"
	"github.com/radieske/teer-platform-poc/internal/teer-scheduler/repo"
	ev "github.com/radieske/teer-platform-poc/pkg/contracts/events"
)

// Jobs agrupa as rotinas agendadas do ciclo de vida dos rounds.
type Jobs struct {
	Log          *zap.Logger
	Repo         *repo.Postgres
	Feed         *feed.Client
	ResultWriter *kafkago.Writer

	// Tolerância antes de cancelar um round sem resultado.
	StaleAfter time.Duration
}

// MaterializeToday cria os rounds FR/SR do dia pra cada banca ativa
// que joga hoje. Reexecutar é inofensivo, o insert ignora duplicata.
func (j *Jobs) MaterializeToday(ctx context.Context) error {
	houses, err := j.Repo.ListActiveHouses(ctx)
	if err != nil {
		return err
	}

	created := 0
	for _, h := range houses {
		loc, err := time.LoadLocation(h.Timezone)
		if err != nil {
			j.Log.Warn("bad house timezone", zap.Int64("houseId", h.ID), zap.String("tz", h.Timezone))
			loc = time.Local
		}
		now := time.Now().In(loc)
		if !h.RunsOn[int(now.Weekday())] {
			continue
		}
		window := time.Duration(h.BettingWindowMinutes) * time.Minute
		for roundType, hhmm := range map[string]string{"FR": h.FRTime, "SR": h.SRTime} {
			at, err := atToday(now, hhmm, loc)
			if err != nil {
				j.Log.Warn("bad schedule time", zap.Int64("houseId", h.ID), zap.String("time", hhmm))
				continue
			}
			ok, err := j.Repo.CreateRound(ctx, h.ID, roundType, at, at.Add(-window))
			if err != nil {
				return err
			}
			if ok {
				created++
			}
		}
	}
	j.Log.Info("daily rounds materialized", zap.Int("created", created))
	return nil
}

// PullResults consulta o provedor pra cada round vencido e publica
// result_published quando o número sai. Round sem número fica pra
// próxima rodada do job.
func (j *Jobs) PullResults(ctx context.Context) error {
	due, err := j.Repo.ListDueRounds(ctx, time.Now())
	if err != nil {
		return err
	}
	for _, r := range due {
		number, source, err := j.Feed.Fetch(ctx, r.HouseID, r.RoundType, r.ScheduledTime)
		if errors.Is(err, feed.ErrNotReady) {
			continue
		}
		if err != nil {
			j.Log.Warn("results feed", zap.Int64("roundId", r.ID), zap.Error(err))
			continue
		}
		payload, _ := json.Marshal(ev.ResultPublished{
			RoundID:     r.ID,
			HouseID:     r.HouseID,
			RoundType:   r.RoundType,
			Number:      number,
			PublishedAt: time.Now(),
			Source:      source,
		})
		if err := kafka.WriteJSON(ctx, j.ResultWriter, strconv.FormatInt(r.ID, 10), payload); err != nil {
			return err
		}
		j.Log.Info("result published",
			zap.Int64("roundId", r.ID),
			zap.String("roundType", r.RoundType),
			zap.Int("number", number),
		)
	}
	return nil
}

// CancelStale cancela rounds que passaram da tolerância sem número.
// O estorno das apostas fica com o fluxo de cancelamento do ticket.
func (j *Jobs) CancelStale(ctx context.Context) error {
	ids, err := j.Repo.CancelStaleRounds(ctx, time.Now().Add(-j.StaleAfter))
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		j.Log.Warn("stale rounds cancelled", zap.Int64s("roundIds", ids))
	}
	return nil
}

// atToday resolve "15:45" pro instante de hoje no fuso da banca.
func atToday(now time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
