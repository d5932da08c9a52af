package validate

import (
	"errors"
	"testing"

	"github.com/radieske/teer-platform-poc/internal/ticket-service/dto"
)

var testRates = map[string]int64{
	"fr_direct": 80, "fr_house": 8, "fr_ending": 8,
	"sr_direct": 80, "sr_house": 8, "sr_ending": 8,
	"forecast_direct": 400, "forecast_house": 40, "forecast_ending": 40,
}

func TestTicketPricesDirectBucket(t *testing.T) {
	req := &dto.PlaceTicketRequest{
		UserID:  "u1",
		HouseID: 1,
		FRDirect: map[string]int64{
			"05": 1000,
			"23": 2000,
		},
	}
	res, err := Ticket(req, testRates)
	if err != nil {
		t.Fatalf("Ticket: %v", err)
	}
	if len(res.Bets) != 2 {
		t.Fatalf("bets = %d, want 2", len(res.Bets))
	}
	if res.TotalPaise != 3000 {
		t.Errorf("total = %d, want 3000", res.TotalPaise)
	}
	// potencial do ticket é o maior prêmio, não a soma
	if res.MaxPotentialPaise != 2000*80 {
		t.Errorf("max potential = %d, want %d", res.MaxPotentialPaise, 2000*80)
	}
	if !res.NeedsFR || res.NeedsSR {
		t.Errorf("NeedsFR=%v NeedsSR=%v, want true/false", res.NeedsFR, res.NeedsSR)
	}
}

func TestTicketNormalizesShortDirect(t *testing.T) {
	req := &dto.PlaceTicketRequest{
		SRDirect: map[string]int64{"5": 500},
	}
	res, err := Ticket(req, testRates)
	if err != nil {
		t.Fatalf("Ticket: %v", err)
	}
	if res.Bets[0].BetValue != "05" {
		t.Errorf("bet value = %q, want \"05\"", res.Bets[0].BetValue)
	}
	if res.Bets[0].PlayType != "SR" || res.Bets[0].Mode != "direct" {
		t.Errorf("bet typed %s/%s", res.Bets[0].PlayType, res.Bets[0].Mode)
	}
}

func TestTicketForecastPair(t *testing.T) {
	req := &dto.PlaceTicketRequest{
		ForecastType:  "direct",
		ForecastPairs: []dto.ForecastPair{{FRNumber: 7, SRNumber: 41, AmountPaise: 1500}},
	}
	res, err := Ticket(req, testRates)
	if err != nil {
		t.Fatalf("Ticket: %v", err)
	}
	b := res.Bets[0]
	if b.BetValue != "07-41" {
		t.Errorf("bet value = %q, want \"07-41\"", b.BetValue)
	}
	if b.PotentialPayoutPaise != 1500*400 {
		t.Errorf("potential = %d, want %d", b.PotentialPayoutPaise, 1500*400)
	}
	if !res.NeedsFR || !res.NeedsSR {
		t.Error("forecast precisa dos dois rounds")
	}
}

func TestTicketRejections(t *testing.T) {
	cases := []struct {
		name string
		req  *dto.PlaceTicketRequest
		want error
	}{
		{"empty", &dto.PlaceTicketRequest{}, ErrNoBets},
		{"zero amount", &dto.PlaceTicketRequest{FRDirect: map[string]int64{"05": 0}}, ErrNonPositiveStake},
		{"negative amount", &dto.PlaceTicketRequest{FREnding: map[string]int64{"7": -100}}, ErrNonPositiveStake},
		{"bad forecast type", &dto.PlaceTicketRequest{
			ForecastType:  "ending",
			ForecastPairs: []dto.ForecastPair{{FRNumber: 1, SRNumber: 2, AmountPaise: 100}},
		}, ErrBadForecastType},
		{"forecast zero amount", &dto.PlaceTicketRequest{
			ForecastType:  "direct",
			ForecastPairs: []dto.ForecastPair{{FRNumber: 1, SRNumber: 2}},
		}, ErrNonPositiveStake},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Ticket(tc.req, testRates)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTicketRejectsBadNumbers(t *testing.T) {
	cases := []struct {
		name string
		req  *dto.PlaceTicketRequest
	}{
		{"direct out of range", &dto.PlaceTicketRequest{FRDirect: map[string]int64{"123": 100}}},
		{"direct not numeric", &dto.PlaceTicketRequest{FRDirect: map[string]int64{"ab": 100}}},
		{"house two digits", &dto.PlaceTicketRequest{SRHouse: map[string]int64{"12": 100}}},
		{"forecast out of range", &dto.PlaceTicketRequest{
			ForecastType:  "direct",
			ForecastPairs: []dto.ForecastPair{{FRNumber: 120, SRNumber: 2, AmountPaise: 100}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Ticket(tc.req, testRates); err == nil {
				t.Error("want validation error, got nil")
			}
		})
	}
}

func TestTicketUnknownRateFallsBackToOne(t *testing.T) {
	req := &dto.PlaceTicketRequest{FRDirect: map[string]int64{"05": 1000}}
	res, err := Ticket(req, map[string]int64{})
	if err != nil {
		t.Fatalf("Ticket: %v", err)
	}
	if res.MaxPotentialPaise != 1000 {
		t.Errorf("max potential = %d, want 1000 (rate neutro)", res.MaxPotentialPaise)
	}
}
