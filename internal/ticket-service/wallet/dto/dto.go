package dto

// ReserveRequest representa o payload para reservar saldo no wallet-service.
type ReserveRequest struct {
	UserID      string `json:"userId"`
	AmountPaise int64  `json:"amount_paise"`
	ExternalRef string `json:"external_ref"`
}

// ReservationResponse representa a resposta do endpoint de reserva.
type ReservationResponse struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
}

type CommitRequest struct {
	UserID      string `json:"userId"`
	ExternalRef string `json:"external_ref"`
}

type RefundRequest struct {
	UserID      string `json:"userId"`
	ExternalRef string `json:"external_ref"`
}
