package ticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/radieske/teer-platform-poc/internal/engine/ticket/dto"
)

// Client implementa Poster contra o ticket-service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) PlaceTicket(ctx context.Context, p dto.TicketPayload) (dto.TicketResponse, error) {
	body, _ := json.Marshal(p)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/tickets", bytes.NewReader(body))
	if err != nil {
		return dto.TicketResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return dto.TicketResponse{}, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return dto.TicketResponse{}, fmt.Errorf("ticket http %d: %s", res.StatusCode, bytes.TrimSpace(msg))
	}

	var out dto.TicketResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return dto.TicketResponse{}, err
	}
	return out, nil
}
