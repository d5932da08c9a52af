package dto

// TicketPayload é o shape aceito pelo POST /v1/tickets do
// ticket-service. Buckets vazios são omitidos — nunca mandamos
// objeto vazio no lugar.
type TicketPayload struct {
	UserID    string `json:"userId"`
	HouseID   int64  `json:"house_id"`
	FRRoundID int64  `json:"fr_round_id,omitempty"`
	SRRoundID int64  `json:"sr_round_id,omitempty"`

	FRDirect map[string]int64 `json:"fr_direct,omitempty"`
	FRHouse  map[string]int64 `json:"fr_house,omitempty"`
	FREnding map[string]int64 `json:"fr_ending,omitempty"`
	SRDirect map[string]int64 `json:"sr_direct,omitempty"`
	SRHouse  map[string]int64 `json:"sr_house,omitempty"`
	SREnding map[string]int64 `json:"sr_ending,omitempty"`

	ForecastPairs []ForecastPair `json:"forecast_pairs,omitempty"`
	ForecastType  string         `json:"forecast_type,omitempty"` // "direct" | "house"

	ClientRef string `json:"client_ref"` // idempotency key por tentativa de ticket
}

// ForecastPair é uma aposta combinada FR+SR.
type ForecastPair struct {
	FRNumber    int   `json:"fr_number"`
	SRNumber    int   `json:"sr_number"`
	AmountPaise int64 `json:"amount_paise"`
}

// TicketResponse é a resposta de sucesso do ticket-service.
type TicketResponse struct {
	TicketID                  string `json:"ticket_id"`
	Status                    string `json:"status"`
	TotalAmountPaise          int64  `json:"total_amount_paise"`
	TotalPotentialPayoutPaise int64  `json:"total_potential_payout_paise"`
	Message                   string `json:"message,omitempty"`
}
