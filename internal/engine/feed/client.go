package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/radieske/teer-platform-poc/internal/engine/teer"
)

// Client consome o feed de bancas/rounds do round-service.
// Transporte é colaborador externo: sem retry, sem cache local.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// houseJSON espelha a resposta de GET /v1/houses.
type houseJSON struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Location string           `json:"location"`
	Rates    map[string]int64 `json:"payout_rates"` // "fr_direct" -> 80, ...
}

// roundJSON espelha a resposta de GET /v1/houses/{id}/rounds.
type roundJSON struct {
	ID              int64     `json:"id"`
	HouseID         int64     `json:"house_id"`
	RoundType       string    `json:"round_type"`
	Status          string    `json:"status"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	BettingClosesAt time.Time `json:"betting_closes_at"`
	Result          *int      `json:"result,omitempty"`
}

type openCountJSON struct {
	Count int `json:"count"`
}

// Houses lista as bancas ativas com suas tabelas de payout.
func (c *Client) Houses(ctx context.Context) ([]teer.House, error) {
	var raw []houseJSON
	if err := c.getJSON(ctx, "/v1/houses", &raw); err != nil {
		return nil, err
	}
	out := make([]teer.House, 0, len(raw))
	for _, h := range raw {
		out = append(out, toHouse(h))
	}
	return out, nil
}

// Rounds lista os próximos rounds de uma banca (FR e SR do dia).
func (c *Client) Rounds(ctx context.Context, houseID int64) ([]teer.Round, error) {
	var raw []roundJSON
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/houses/%d/rounds", houseID), &raw); err != nil {
		return nil, err
	}
	out := make([]teer.Round, 0, len(raw))
	for _, r := range raw {
		out = append(out, teer.Round{
			ID:              r.ID,
			HouseID:         r.HouseID,
			Type:            teer.PlayType(r.RoundType),
			Status:          teer.RoundStatus(r.Status),
			ScheduledTime:   r.ScheduledTime,
			BettingClosesAt: r.BettingClosesAt,
			Result:          r.Result,
		})
	}
	return out, nil
}

// OpenRoundsCount devolve quantos rounds estão abertos pra aposta
// agora (consumido pelo Poller de 30s).
func (c *Client) OpenRoundsCount(ctx context.Context) (int, error) {
	var out openCountJSON
	if err := c.getJSON(ctx, "/v1/rounds/open/count", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("round feed http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(dst)
}

// toHouse traduz o mapa achatado de taxas do wire pro modelo do engine.
func toHouse(h houseJSON) teer.House {
	rates := map[teer.PlayType]map[teer.Mode]int64{
		teer.PlayFR:       {},
		teer.PlaySR:       {},
		teer.PlayForecast: {},
	}
	set := func(play teer.PlayType, mode teer.Mode, field string) {
		if r, ok := h.Rates[field]; ok && r > 0 {
			rates[play][mode] = r
		}
	}
	set(teer.PlayFR, teer.ModeDirect, "fr_direct")
	set(teer.PlayFR, teer.ModeHouse, "fr_house")
	set(teer.PlayFR, teer.ModeEnding, "fr_ending")
	set(teer.PlaySR, teer.ModeDirect, "sr_direct")
	set(teer.PlaySR, teer.ModeHouse, "sr_house")
	set(teer.PlaySR, teer.ModeEnding, "sr_ending")
	set(teer.PlayForecast, teer.ModeDirect, "forecast_direct")
	set(teer.PlayForecast, teer.ModeHouse, "forecast_house")
	set(teer.PlayForecast, teer.ModeEnding, "forecast_ending")
	return teer.House{ID: h.ID, Name: h.Name, Location: h.Location, Rates: rates}
}
