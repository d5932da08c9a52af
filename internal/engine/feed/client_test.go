package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/radieske/teer-platform-poc/internal/engine/payout"
	"github.com/radieske/teer-platform-poc/internal/engine/teer"
)

func TestHousesMapsFlatRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/houses" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[{
			"id": 1, "name": "Shillong Teer", "location": "Shillong",
			"payout_rates": {"fr_direct": 85, "fr_house": 9, "forecast_direct": 450}
		}]`))
	}))
	defer srv.Close()

	houses, err := New(srv.URL).Houses(context.Background())
	if err != nil {
		t.Fatalf("Houses: %v", err)
	}
	if len(houses) != 1 {
		t.Fatalf("houses = %d", len(houses))
	}
	h := &houses[0]
	if h.Name != "Shillong Teer" {
		t.Errorf("name = %q", h.Name)
	}
	// overrides do wire valem sobre a tabela default
	if got := payout.Rate(h, teer.PlayFR, teer.ModeDirect); got != 85 {
		t.Errorf("fr direct = %d, want 85", got)
	}
	if got := payout.Rate(h, teer.PlayForecast, teer.ModeDirect); got != 450 {
		t.Errorf("forecast direct = %d, want 450", got)
	}
	// célula ausente no wire cai na tabela default
	if got := payout.Rate(h, teer.PlaySR, teer.ModeDirect); got != 80 {
		t.Errorf("sr direct = %d, want 80", got)
	}
}

func TestRoundsMapsWire(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/houses/1/rounds" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": 10, "house_id": 1, "round_type": "FR", "status": "SCHEDULED",
			 "scheduled_time": "2026-08-29T15:45:00Z", "betting_closes_at": "2026-08-29T15:30:00Z"},
			{"id": 11, "house_id": 1, "round_type": "SR", "status": "COMPLETED",
			 "scheduled_time": "2026-08-29T16:45:00Z", "betting_closes_at": "2026-08-29T16:30:00Z",
			 "result": 41}
		]`))
	}))
	defer srv.Close()

	rounds, err := New(srv.URL).Rounds(context.Background(), 1)
	if err != nil {
		t.Fatalf("Rounds: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("rounds = %d", len(rounds))
	}
	if rounds[0].Type != teer.PlayFR || rounds[0].Result != nil {
		t.Errorf("fr round = %+v", rounds[0])
	}
	if rounds[1].Result == nil || *rounds[1].Result != 41 {
		t.Errorf("sr result = %v", rounds[1].Result)
	}
}

func TestOpenRoundsCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 3}`))
	}))
	defer srv.Close()

	n, err := New(srv.URL).OpenRoundsCount(context.Background())
	if err != nil {
		t.Fatalf("OpenRoundsCount: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestHousesPropagatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Houses(context.Background()); err == nil {
		t.Error("want error on http 500")
	}
}
