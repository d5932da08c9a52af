package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestHub(t *testing.T) (*Hub, string, func()) {
	t.Helper()
	hub := NewHub(func(r *http.Request) bool { return true })
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http"), srv.Close
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

// waitSubscribed espera a inscrição chegar no hub (o subscribe viaja
// pela rede, então o registro é assíncrono do ponto de vista do teste).
func waitSubscribed(t *testing.T, hub *Hub, houseID int64, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		got := len(hub.subs[houseID])
		hub.mu.RUnlock()
		if got >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("subscription for house %d not registered", houseID)
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	hub, url, closeSrv := newTestHub(t)
	defer closeSrv()

	conn := dial(t, url)
	defer conn.Close()
	if err := conn.WriteJSON(ClientMsg{Type: "subscribe", HouseID: 1}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	waitSubscribed(t, hub, 1, 1)

	hub.Broadcast(ResultUpdate{HouseID: 1, Payload: map[string]any{"number": 41}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got ResultUpdate
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.HouseID != 1 {
		t.Errorf("houseId = %d, want 1", got.HouseID)
	}
}

func TestBroadcastSkipsOtherHouses(t *testing.T) {
	hub, url, closeSrv := newTestHub(t)
	defer closeSrv()

	conn := dial(t, url)
	defer conn.Close()
	if err := conn.WriteJSON(ClientMsg{Type: "subscribe", HouseID: 2}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	waitSubscribed(t, hub, 2, 1)

	hub.Broadcast(ResultUpdate{HouseID: 1, Payload: map[string]any{"number": 41}})

	_ = conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("received broadcast for a house the client never subscribed to")
	}
}

// Broadcast concorrente com churn de subscribe/unsubscribe e pings do
// mesmo cliente; sob -race, qualquer acesso desprotegido ao mapa de
// assinaturas ou escrita simultânea na mesma conexão falha o teste.
func TestBroadcastConcurrentWithSubscriptionChurn(t *testing.T) {
	hub, url, closeSrv := newTestHub(t)
	defer closeSrv()

	steady := dial(t, url)
	defer steady.Close()
	if err := steady.WriteJSON(ClientMsg{Type: "subscribe", HouseID: 1}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	waitSubscribed(t, hub, 1, 1)

	// Drena o feed do cliente estável pra escrita nunca bloquear
	go func() {
		for {
			if _, _, err := steady.ReadMessage(); err != nil {
				return
			}
		}
	}()

	churn := dial(t, url)
	defer churn.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.Broadcast(ResultUpdate{HouseID: 1, Payload: map[string]int{"n": i}})
		}
	}()

	for i := 0; i < 200; i++ {
		_ = churn.WriteJSON(ClientMsg{Type: "subscribe", HouseID: 1})
		_ = churn.WriteJSON(ClientMsg{Type: "ping"})
		_ = churn.WriteJSON(ClientMsg{Type: "unsubscribe", HouseID: 1})
	}
	wg.Wait()
}
