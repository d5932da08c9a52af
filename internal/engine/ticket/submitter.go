package ticket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/teer-platform-poc/internal/engine/roundclock"
	"github.com/radieske/teer-platform-poc/internal/engine/teer"
	"github.com/radieske/teer-platform-poc/internal/engine/ticket/dto"
)

var (
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrRoundClosed         = errors.New("betting round is closed")
	ErrSubmitInFlight      = errors.New("a submission is already in flight")
)

// SubmissionError embrulha falha de rede/servidor na submissão.
// Opaca pro engine: a seleção fica intacta pro usuário tentar de novo.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return fmt.Sprintf("ticket submission failed: %v", e.Err) }
func (e *SubmissionError) Unwrap() error { return e.Err }

type SubmitState string

const (
	StateIdle       SubmitState = "IDLE"
	StateValidating SubmitState = "VALIDATING"
	StateSubmitting SubmitState = "SUBMITTING"
)

// Poster envia o payload montado pro endpoint de submissão.
type Poster interface {
	PlaceTicket(ctx context.Context, p dto.TicketPayload) (dto.TicketResponse, error)
}

// BalanceReader relê o saldo após sucesso (refresh da carteira).
type BalanceReader interface {
	Balance(ctx context.Context, userID string) (int64, error)
}

// Submitter orquestra IDLE -> VALIDATING -> SUBMITTING e volta pra
// IDLE nos dois desfechos. Sucesso limpa a seleção; falha preserva
// tudo pro usuário corrigir e reenviar — sem retry automático.
type Submitter struct {
	Log    *zap.Logger
	Post   Poster
	Wallet BalanceReader

	mu    sync.Mutex
	state SubmitState

	// clientRef persiste entre tentativas do MESMO ticket, pra
	// idempotência no servidor; zera quando a submissão é aceita.
	clientRef string
}

func NewSubmitter(log *zap.Logger, post Poster, wallet BalanceReader) *Submitter {
	return &Submitter{Log: log, Post: post, Wallet: wallet, state: StateIdle}
}

// SubmitRequest carrega tudo que a submissão precisa observar:
// a banca, os rounds alvo, a seleção e o saldo visto pelo cliente.
// Now vem de fora — o relógio é do caller.
type SubmitRequest struct {
	UserID       string
	House        *teer.House
	FRRound      *teer.Round // nil quando nenhum bucket FR/forecast é usado
	SRRound      *teer.Round
	Selections   *Selections
	BalancePaise int64
	Now          time.Time
}

// Outcome é o desfecho de uma submissão aceita.
type Outcome struct {
	TicketID                  string
	TotalAmountPaise          int64
	TotalPotentialPayoutPaise int64
	NewBalancePaise           int64
}

// State devolve o estado corrente da máquina.
func (s *Submitter) State() SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit roda uma tentativa completa. Exatamente um payload por ação
// do usuário; chamada concorrente enquanto SUBMITTING é rejeitada
// com ErrSubmitInFlight.
func (s *Submitter) Submit(ctx context.Context, req SubmitRequest) (*Outcome, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	s.state = StateValidating
	if s.clientRef == "" {
		s.clientRef = uuid.NewString()
	}
	ref := s.clientRef
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
	}()

	// 1) Gate local de deadline: nada vai pra rede com round fechado
	if req.Selections.NeedsFR() && !openAt(req.FRRound, req.Now) {
		return nil, ErrRoundClosed
	}
	if req.Selections.NeedsSR() && !openAt(req.SRRound, req.Now) {
		return nil, ErrRoundClosed
	}

	// 2) Monta o payload (falha cedo em ticket vazio)
	refs := RoundRefs{}
	if req.FRRound != nil {
		refs.FRRoundID = req.FRRound.ID
	}
	if req.SRRound != nil {
		refs.SRRoundID = req.SRRound.ID
	}
	payload, err := Assemble(req.UserID, houseID(req.House), refs, req.Selections, ref)
	if err != nil {
		return nil, err
	}

	// 3) Guarda local de saldo; o check autoritativo é do servidor e
	// uma corrida entre guarda e processamento vira FAILED normal
	total := req.Selections.TotalAmount()
	if total > req.BalancePaise {
		return nil, ErrInsufficientBalance
	}

	// 4) Submete: uma chamada por ação do usuário, sem retry
	s.mu.Lock()
	s.state = StateSubmitting
	s.mu.Unlock()

	res, err := s.Post.PlaceTicket(ctx, payload)
	if err != nil {
		if s.Log != nil {
			s.Log.Warn("ticket submission failed", zap.String("clientRef", ref), zap.Error(err))
		}
		return nil, &SubmissionError{Err: err}
	}

	// 5) Sucesso: limpa a seleção, libera o clientRef e atualiza o saldo
	req.Selections.Clear()
	s.mu.Lock()
	s.clientRef = ""
	s.mu.Unlock()

	out := &Outcome{
		TicketID:                  res.TicketID,
		TotalAmountPaise:          res.TotalAmountPaise,
		TotalPotentialPayoutPaise: res.TotalPotentialPayoutPaise,
		NewBalancePaise:           req.BalancePaise - total,
	}
	if s.Wallet != nil {
		if bal, berr := s.Wallet.Balance(ctx, req.UserID); berr == nil {
			out.NewBalancePaise = bal
		}
	}

	if s.Log != nil {
		s.Log.Info("ticket accepted",
			zap.String("ticketId", res.TicketID),
			zap.Int64("total_paise", out.TotalAmountPaise),
		)
	}
	return out, nil
}

func openAt(r *teer.Round, now time.Time) bool {
	return r != nil && roundclock.Open(*r, now)
}

func houseID(h *teer.House) int64 {
	if h == nil {
		return 0
	}
	return h.ID
}
