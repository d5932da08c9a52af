package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// client embrulha a conexão com um mutex de escrita: o gorilla só
// permite um writer por vez em cada conexão, e aqui tanto o Broadcast
// quanto o pong do loop de leitura escrevem nela.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub gerencia conexões WebSocket e assinaturas de resultados por banca
// subs: mapeia houseID para o conjunto de clientes inscritos
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// houseID -> set of clients
	subs map[int64]map[*client]struct{}

	// Callbacks opcionais de instrumentação do ciclo de vida das conexões
	OnConnect    func()
	OnDisconnect func()
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[int64]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe por banca e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if h.OnConnect != nil {
		h.OnConnect()
	}
	defer func() {
		if h.OnDisconnect != nil {
			h.OnDisconnect()
		}
	}()

	cl := &client{conn: conn}
	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.mu.Lock()
			if _, ok := h.subs[msg.HouseID]; !ok {
				h.subs[msg.HouseID] = make(map[*client]struct{})
			}
			h.subs[msg.HouseID][cl] = struct{}{}
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			if m, ok := h.subs[msg.HouseID]; ok {
				delete(m, cl)
				if len(m) == 0 {
					delete(h.subs, msg.HouseID)
				}
			}
			h.mu.Unlock()
		case "ping":
			_ = cl.writeJSON(map[string]string{"type": "pong"})
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for _, set := range h.subs {
		delete(set, cl)
	}
	h.mu.Unlock()
}

// Broadcast envia um resultado para todos os clientes inscritos na banca.
// Os alvos são copiados sob o lock; a escrita na rede acontece fora
// dele, pra não segurar o mapa de assinaturas enquanto a rede anda.
func (h *Hub) Broadcast(update ResultUpdate) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.subs[update.HouseID]))
	for c := range h.subs[update.HouseID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	b, _ := json.Marshal(update)
	for _, c := range targets {
		_ = c.write(websocket.TextMessage, b)
	}
}
