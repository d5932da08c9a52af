package repo

import "time"

// Ticket é o agregado persistido em ticket_tickets.
type Ticket struct {
	TicketID                  string
	UserID                    string
	HouseID                   int64
	FRRoundID                 int64 // 0 quando não usado
	SRRoundID                 int64
	Status                    string // PENDING | WON | LOST | CANCELLED
	TotalAmountPaise          int64
	TotalPotentialPayoutPaise int64
	ClientRef                 string
	CreatedAt                 time.Time
}

// Bet é uma aposta individual dentro de um ticket.
type Bet struct {
	ID                   string
	TicketID             string
	UserID               string
	RoundID              int64  // round FR ou SR; 0 em forecast
	FRRoundID            int64  // só forecast
	SRRoundID            int64  // só forecast
	PlayType             string // FR | SR | FORECAST
	Mode                 string // direct | house | ending
	BetValue             string // "05", "7" ou "07-41"
	AmountPaise          int64
	PotentialPayoutPaise int64
	ActualPayoutPaise    int64
	Status               string
}

// OpenRound é a visão mínima de round que a validação precisa.
type OpenRound struct {
	ID              int64
	HouseID         int64
	RoundType       string
	BettingClosesAt time.Time
}

// HouseRates carrega os multiplicadores da banca pro cálculo de payout.
type HouseRates struct {
	ID     int64
	Name   string
	Active bool
	Rates  map[string]int64 // "fr_direct" -> 80, ...
}
