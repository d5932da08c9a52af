package dto

type DepositRequest struct {
	UserID      string `json:"userId"`
	AmountPaise int64  `json:"amount_paise"`
	ExternalRef string `json:"external_ref,omitempty"` // opcional p/ idempotência simples
}

type ReserveRequest struct {
	UserID      string `json:"userId"`
	AmountPaise int64  `json:"amount_paise"`
	ExternalRef string `json:"external_ref"` // ex: ticketId
}

type CommitRequest struct {
	UserID      string `json:"userId"`
	ExternalRef string `json:"external_ref"`
}

type RefundRequest struct {
	UserID      string `json:"userId"`
	ExternalRef string `json:"external_ref"`
}

// PayoutRequest credita o prêmio de um ticket liquidado.
// external_ref (ticketId) garante que o mesmo prêmio não entra duas vezes.
type PayoutRequest struct {
	UserID      string `json:"userId"`
	AmountPaise int64  `json:"amount_paise"`
	ExternalRef string `json:"external_ref"`
}
