package dto

import "time"

type PlaceTicketResponse struct {
	TicketID                  string `json:"ticket_id"`
	Status                    string `json:"status"` // PENDING
	TotalAmountPaise          int64  `json:"total_amount_paise"`
	TotalPotentialPayoutPaise int64  `json:"total_potential_payout_paise"`
	Message                   string `json:"message,omitempty"`
}

// TicketDetail é a visão de histórico de um ticket com suas apostas.
type TicketDetail struct {
	TicketID                  string      `json:"ticket_id"`
	UserID                    string      `json:"userId"`
	HouseID                   int64       `json:"house_id"`
	Status                    string      `json:"status"`
	TotalAmountPaise          int64       `json:"total_amount_paise"`
	TotalPotentialPayoutPaise int64       `json:"total_potential_payout_paise"`
	Bets                      []BetDetail `json:"bets"`
	CreatedAt                 time.Time   `json:"created_at"`
}

type BetDetail struct {
	BetID                string `json:"bet_id"`
	RoundID              int64  `json:"round_id,omitempty"`
	PlayType             string `json:"play_type"` // FR | SR | FORECAST
	Mode                 string `json:"mode"`      // direct | house | ending
	BetValue             string `json:"bet_value"` // "05" ou "07-41"
	AmountPaise          int64  `json:"amount_paise"`
	PotentialPayoutPaise int64  `json:"potential_payout_paise"`
	ActualPayoutPaise    int64  `json:"actual_payout_paise"`
	Status               string `json:"status"` // PENDING | WON | LOST | CANCELLED
}
