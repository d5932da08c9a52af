package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotReady indica que o provedor ainda não divulgou o número.
var ErrNotReady = errors.New("result not published yet")

// Client consulta o provedor externo de resultados (scraper/feed).
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{BaseURL: base, HTTP: &http.Client{Timeout: 5 * time.Second}}
}

type resultJSON struct {
	Number    *int   `json:"number"`
	Published bool   `json:"published"`
	Source    string `json:"source"`
}

// Fetch busca o número de um round no provedor. ErrNotReady quando o
// sorteio ainda não saiu por lá.
func (c *Client) Fetch(ctx context.Context, houseID int64, roundType string, day time.Time) (number int, source string, err error) {
	url := fmt.Sprintf("%s/results?houseId=%d&roundType=%s&date=%s",
		c.BaseURL, houseID, roundType, day.Format("2006-01-02"))
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return 0, "", ErrNotReady
	}
	if res.StatusCode >= 300 {
		return 0, "", fmt.Errorf("results feed http %d", res.StatusCode)
	}
	var out resultJSON
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, "", err
	}
	if !out.Published || out.Number == nil {
		return 0, "", ErrNotReady
	}
	if *out.Number < 0 || *out.Number > 99 {
		return 0, "", fmt.Errorf("results feed number out of range: %d", *out.Number)
	}
	if out.Source == "" {
		out.Source = "feed"
	}
	return *out.Number, out.Source, nil
}
