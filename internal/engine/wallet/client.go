package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client lê o saldo no wallet-service. O engine só observa o saldo;
// quem debita/credita é o lado servidor.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

type balanceJSON struct {
	UserID       string `json:"userId"`
	WalletID     string `json:"walletId"`
	BalancePaise int64  `json:"balance_paise"`
}

// Balance consulta o saldo corrente do usuário (em paise).
func (c *Client) Balance(ctx context.Context, userID string) (int64, error) {
	u := c.BaseURL + "/wallet?userId=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return 0, fmt.Errorf("wallet balance http %d", res.StatusCode)
	}
	var out balanceJSON
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.BalancePaise, nil
}
