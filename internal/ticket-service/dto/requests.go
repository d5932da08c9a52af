package dto

// PlaceTicketRequest é o payload completo de um ticket: um campo por
// bucket (jogo, modo), valores em paise. Buckets ausentes = vazios.
type PlaceTicketRequest struct {
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

	ClientRef string `json:"client_ref"` // idempotency key do cliente
}

type ForecastPair struct {
	FRNumber    int   `json:"fr_number"`
	SRNumber    int   `json:"sr_number"`
	AmountPaise int64 `json:"amount_paise"`
}
