package roundclock

import (
	"time"

	"github.com/radieske/teer-platform-poc/internal/engine/teer"
)

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

type Urgency string

const (
	UrgencyNone     Urgency = "NONE"
	UrgencyWarning  Urgency = "WARNING"
	UrgencyCritical Urgency = "CRITICAL"
)

// Thresholds define a partir de quanto tempo restante o countdown
// muda de cor. Warning > Critical; os dois call sites do produto
// divergiam (15/30), aqui é um par único configurável.
type Thresholds struct {
	Warning  time.Duration
	Critical time.Duration
}

var DefaultThresholds = Thresholds{
	Warning:  30 * time.Minute,
	Critical: 15 * time.Minute,
}

// State é o estado derivado de um round em relação ao deadline.
// Remaining só é significativo quando Status == OPEN.
type State struct {
	Status    Status
	Remaining time.Duration
	Urgency   Urgency
}

// At calcula o estado do round no instante now. Função pura: o caller
// fornece now a partir de um ticker; nada aqui tem timer próprio.
// CLOSED exatamente quando now >= BettingClosesAt, inclusive no
// instante do deadline.
func At(r teer.Round, now time.Time, th Thresholds) State {
	if !now.Before(r.BettingClosesAt) {
		return State{Status: StatusClosed, Urgency: UrgencyNone}
	}

	remaining := r.BettingClosesAt.Sub(now)
	urgency := UrgencyNone
	switch {
	case remaining <= th.Critical:
		urgency = UrgencyCritical
	case remaining <= th.Warning:
		urgency = UrgencyWarning
	}

	return State{Status: StatusOpen, Remaining: remaining, Urgency: urgency}
}

// Open é um atalho pra checagem de gate: mutações de seleção e
// submissão só são permitidas com o round aberto.
func Open(r teer.Round, now time.Time) bool {
	return now.Before(r.BettingClosesAt)
}
