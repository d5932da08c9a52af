package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// HouseID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type    string `json:"type"`    // subscribe | unsubscribe | ping
	HouseID int64  `json:"houseId"` // requerido em subscribe/unsubscribe
}

// ResultUpdate representa um resultado publicado, enviado para os
// clientes inscritos na banca correspondente.
type ResultUpdate struct {
	HouseID int64       `json:"houseId"`
	Payload interface{} `json:"payload"`
}
