package dto

import "time"

// House representa uma banca Teer com a tabela de payout achatada
// no formato do wire ("fr_direct" -> 80, ...).
type House struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Location    string           `json:"location,omitempty"`
	PayoutRates map[string]int64 `json:"payout_rates"`
}

// Round representa um sorteio agendado de uma banca.
type Round struct {
	ID              int64     `json:"id"`
	HouseID         int64     `json:"house_id"`
	RoundType       string    `json:"round_type"` // FR | SR
	Status          string    `json:"status"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	BettingClosesAt time.Time `json:"betting_closes_at"`
	Result          *int      `json:"result,omitempty"`
}

// OpenCount é a resposta de GET /v1/rounds/open/count.
type OpenCount struct {
	Count int `json:"count"`
}
