package events

import "time"

// Evento emitido pelo result-worker após liquidar as apostas de um ticket.
type TicketSettled struct {
	TicketID         string    `json:"ticketId"`
	UserID           string    `json:"userId"`
	Status           string    `json:"status"` // "WON" | "LOST" | "PARTIAL"
	WonBets          int       `json:"won_bets"`
	LostBets         int       `json:"lost_bets"`
	TotalPayoutPaise int64     `json:"total_payout_paise"`
	Ts               time.Time `json:"ts"`
}
