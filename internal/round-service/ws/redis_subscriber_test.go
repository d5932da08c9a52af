package ws

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"
)

type recordingInvalidator struct {
	houses []int64
}

func (r *recordingInvalidator) InvalidateRounds(_ context.Context, houseID int64) error {
	r.houses = append(r.houses, houseID)
	return nil
}

func TestDispatchResultInvalidatesRoundsCache(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	inv := &recordingInvalidator{}
	log := zap.NewNop()

	dispatchResult(context.Background(), log, []byte(`{"houseId":7,"payload":{"number":41}}`), inv, hub)
	if len(inv.houses) != 1 || inv.houses[0] != 7 {
		t.Fatalf("invalidated houses = %v, want [7]", inv.houses)
	}

	// payload inválido não derruba cache nenhum
	dispatchResult(context.Background(), log, []byte("not-json"), inv, hub)
	if len(inv.houses) != 1 {
		t.Errorf("invalid payload invalidated cache: %v", inv.houses)
	}
}

func TestDispatchResultWithoutInvalidator(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	// inv nil não pode panicar
	dispatchResult(context.Background(), zap.NewNop(), []byte(`{"houseId":1,"payload":{}}`), nil, hub)
}
