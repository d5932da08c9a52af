package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	walletdto "github.com/radieske/teer-platform-poc/internal/ticket-service/wallet/dto"
)

// Client fala com o wallet-service pra debitar o valor do ticket.
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

// Reserve bloqueia o saldo do ticket; external_ref garante
// idempotência no wallet-service.
func (c *Client) Reserve(ctx context.Context, userID string, paise int64, externalRef string) (string, error) {
	body, _ := json.Marshal(walletdto.ReserveRequest{UserID: userID, AmountPaise: paise, ExternalRef: externalRef})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/wallet/reserve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return "", fmt.Errorf("wallet reserve http %d", res.StatusCode)
	}
	var out walletdto.ReservationResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ReservationID, nil
}

// Commit efetiva a reserva depois do ticket persistido.
func (c *Client) Commit(ctx context.Context, userID, externalRef string) error {
	return c.post(ctx, "/wallet/commit", walletdto.CommitRequest{UserID: userID, ExternalRef: externalRef})
}

// Refund devolve a reserva quando a persistência falha.
func (c *Client) Refund(ctx context.Context, userID, externalRef string) error {
	return c.post(ctx, "/wallet/refund", walletdto.RefundRequest{UserID: userID, ExternalRef: externalRef})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("wallet %s http %d", path, res.StatusCode)
	}
	return nil
}
