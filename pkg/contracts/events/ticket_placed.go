package events

// Evento publicado no tópico "ticket_placed" após um ticket ser aceito
// pelo ticket-service. bet_ids carrega as apostas individuais criadas
// a partir do ticket, já na ordem em que foram inseridas.
type TicketPlaced struct {
	TicketID         string   `json:"ticket_id"`
	UserID           string   `json:"user_id"`
	HouseID          int64    `json:"house_id"`
	FRRoundID        int64    `json:"fr_round_id,omitempty"`
	SRRoundID        int64    `json:"sr_round_id,omitempty"`
	BetIDs           []string `json:"bet_ids"`
	TotalAmountPaise int64    `json:"total_amount_paise"`
	ClientRef        string   `json:"client_ref"` // idempotency key gerada pelo cliente
	TsUnixMs         int64    `json:"ts_unix_ms"`
}
