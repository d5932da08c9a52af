package events

import "time"

// Evento publicado no tópico "result_published" quando o resultado de um
// round sai. Number é sempre 0-99; o dígito de house/ending é derivado
// pelo consumidor, nunca transportado separado.
type ResultPublished struct {
	RoundID     int64     `json:"round_id"`
	HouseID     int64     `json:"house_id"`
	RoundType   string    `json:"round_type"` // "FR" | "SR"
	Number      int       `json:"number"`     // 0-99
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
}
