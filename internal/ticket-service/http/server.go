package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/teer-platform-poc/internal/ticket-service/dto"
	"github.com/radieske/teer-platform-poc/internal/ticket-service/repo"
	"github.com/radieske/teer-platform-poc/internal/ticket-service/validate"
	"github.com/radieske/teer-platform-poc/internal/ticket-service/wallet"
	"github.com/radieske/teer-platform-poc/pkg/contracts/events"
)

type Publisher interface {
	PublishTicketPlaced(context.Context, events.TicketPlaced) error
}

type Server struct {
	log        *zap.Logger
	repo       *repo.Postgres
	wcli       *wallet.Client
	publ       Publisher
	dailyLimit int64

	// OnPlaced é um callback opcional de instrumentação, chamado a cada
	// ticket aceito.
	OnPlaced func()
}

func NewServer(log *zap.Logger, r *repo.Postgres, w *wallet.Client, p Publisher, dailyLimit int64) *Server {
	return &Server{log: log, repo: r, wcli: w, publ: p, dailyLimit: dailyLimit}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/tickets", s.placeTicket)
	r.Get("/v1/tickets/{ticketId}", s.getTicket)
	r.Get("/v1/users/{userId}/tickets", s.listUserTickets)
	return r
}

func (s *Server) placeTicket(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.HouseID <= 0 || req.ClientRef == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	// 1) Idempotência: mesmo client_ref já aceito devolve o ticket original
	if prev, err := s.repo.FindByClientRef(ctx, req.UserID, req.ClientRef); err == nil {
		writeJSON(w, http.StatusOK, dto.PlaceTicketResponse{
			TicketID:                  prev.TicketID,
			Status:                    prev.Status,
			TotalAmountPaise:          prev.TotalAmountPaise,
			TotalPotentialPayoutPaise: prev.TotalPotentialPayoutPaise,
			Message:                   "duplicate client_ref; returning existing ticket",
		})
		return
	}

	// 2) Banca ativa + tabela de payout
	house, err := s.repo.GetHouseRates(ctx, req.HouseID)
	if err != nil {
		http.Error(w, "house not found", http.StatusNotFound)
		return
	}
	if !house.Active {
		http.Error(w, "house inactive", http.StatusConflict)
		return
	}

	// 3) Revalida números e precifica; o serviço não confia no cliente
	res, err := validate.Ticket(&req, house.Rates)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// 4) Rounds alvo ainda abertos AGORA (deadline é autoritativo aqui)
	var frRound, srRound *repo.OpenRound
	if res.NeedsFR {
		if frRound, err = s.openRound(ctx, req.FRRoundID, req.HouseID, "FR"); err != nil {
			httpRoundError(w, err)
			return
		}
	}
	if res.NeedsSR {
		if srRound, err = s.openRound(ctx, req.SRRoundID, req.HouseID, "SR"); err != nil {
			httpRoundError(w, err)
			return
		}
	}

	// 5) Limite diário por usuário
	spent, err := s.repo.DailySpent(ctx, req.UserID, time.Now())
	if err != nil {
		http.Error(w, "daily limit check failed", http.StatusInternalServerError)
		return
	}
	if spent+res.TotalPaise > s.dailyLimit {
		http.Error(w, "daily bet limit exceeded", http.StatusConflict)
		return
	}

	// 6) Reserva saldo (external_ref = ticketID; wallet é idempotente por ref)
	ticketID := uuid.NewString()
	if _, err := s.wcli.Reserve(ctx, req.UserID, res.TotalPaise, ticketID); err != nil {
		s.log.Warn("wallet reserve failed", zap.String("userId", req.UserID), zap.Error(err))
		http.Error(w, "insufficient balance", http.StatusConflict)
		return
	}

	// 7) Persiste ticket + apostas; falhou, devolve a reserva
	t := &repo.Ticket{
		TicketID:                  ticketID,
		UserID:                    req.UserID,
		HouseID:                   req.HouseID,
		Status:                    "PENDING",
		TotalAmountPaise:          res.TotalPaise,
		TotalPotentialPayoutPaise: res.MaxPotentialPaise,
		ClientRef:                 req.ClientRef,
	}
	bindRounds(res.Bets, t, frRound, srRound)
	if err := s.repo.CreateTicket(ctx, t, res.Bets); err != nil {
		s.log.Error("create ticket failed", zap.String("ticketId", ticketID), zap.Error(err))
		if rerr := s.wcli.Refund(ctx, req.UserID, ticketID); rerr != nil {
			s.log.Error("refund after failed persist", zap.String("ticketId", ticketID), zap.Error(rerr))
		}
		http.Error(w, "could not persist ticket", http.StatusInternalServerError)
		return
	}

	// 8) Efetiva o débito e publica o evento
	if err := s.wcli.Commit(ctx, req.UserID, ticketID); err != nil {
		s.log.Error("wallet commit failed", zap.String("ticketId", ticketID), zap.Error(err))
	}
	betIDs := make([]string, 0, len(res.Bets))
	for _, b := range res.Bets {
		betIDs = append(betIDs, b.ID)
	}
	if err := s.publ.PublishTicketPlaced(ctx, events.TicketPlaced{
		TicketID:         ticketID,
		UserID:           req.UserID,
		HouseID:          req.HouseID,
		FRRoundID:        t.FRRoundID,
		SRRoundID:        t.SRRoundID,
		BetIDs:           betIDs,
		TotalAmountPaise: res.TotalPaise,
		ClientRef:        req.ClientRef,
	}); err != nil {
		s.log.Error("publish ticket_placed failed", zap.String("ticketId", ticketID), zap.Error(err))
	}

	if s.OnPlaced != nil {
		s.OnPlaced()
	}

	writeJSON(w, http.StatusCreated, dto.PlaceTicketResponse{
		TicketID:                  ticketID,
		Status:                    "PENDING",
		TotalAmountPaise:          res.TotalPaise,
		TotalPotentialPayoutPaise: res.MaxPotentialPaise,
	})
}

// openRound valida que o round existe, está aberto e pertence à banca.
func (s *Server) openRound(ctx context.Context, roundID, houseID int64, roundType string) (*repo.OpenRound, error) {
	if roundID <= 0 {
		return nil, repo.ErrRoundClosed
	}
	rd, err := s.repo.GetOpenRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if rd.HouseID != houseID || rd.RoundType != roundType {
		return nil, errRoundMismatch
	}
	return rd, nil
}

var errRoundMismatch = errors.New("round does not match house or type")

func httpRoundError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrRoundClosed):
		http.Error(w, "betting closed for round", http.StatusConflict)
	case errors.Is(err, errRoundMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "round lookup failed", http.StatusInternalServerError)
	}
}

// bindRounds amarra cada aposta aos rounds corretos:
// FR/SR usam round_id; forecast referencia os dois.
func bindRounds(bets []repo.Bet, t *repo.Ticket, fr, sr *repo.OpenRound) {
	if fr != nil {
		t.FRRoundID = fr.ID
	}
	if sr != nil {
		t.SRRoundID = sr.ID
	}
	for i := range bets {
		switch bets[i].PlayType {
		case "FR":
			bets[i].RoundID = t.FRRoundID
		case "SR":
			bets[i].RoundID = t.SRRoundID
		case "FORECAST":
			bets[i].FRRoundID = t.FRRoundID
			bets[i].SRRoundID = t.SRRoundID
		}
	}
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ticketId")
	t, bets, err := s.repo.GetTicket(r.Context(), id)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toDetail(t, bets))
}

func (s *Server) listUserTickets(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	tickets, err := s.repo.ListUserTickets(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	out := make([]dto.TicketDetail, 0, len(tickets))
	for i := range tickets {
		out = append(out, toDetail(&tickets[i], nil))
	}
	writeJSON(w, http.StatusOK, out)
}

func toDetail(t *repo.Ticket, bets []repo.Bet) dto.TicketDetail {
	d := dto.TicketDetail{
		TicketID:                  t.TicketID,
		UserID:                    t.UserID,
		HouseID:                   t.HouseID,
		Status:                    t.Status,
		TotalAmountPaise:          t.TotalAmountPaise,
		TotalPotentialPayoutPaise: t.TotalPotentialPayoutPaise,
		CreatedAt:                 t.CreatedAt,
	}
	for _, b := range bets {
		d.Bets = append(d.Bets, dto.BetDetail{
			BetID:                b.ID,
			RoundID:              b.RoundID,
			PlayType:             b.PlayType,
			Mode:                 b.Mode,
			BetValue:             b.BetValue,
			AmountPaise:          b.AmountPaise,
			PotentialPayoutPaise: b.PotentialPayoutPaise,
			ActualPayoutPaise:    b.ActualPayoutPaise,
			Status:               b.Status,
		})
	}
	return d
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
