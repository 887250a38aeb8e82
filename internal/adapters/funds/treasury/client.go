package treasury

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-market/internal/platform/httpclient"
)

var (
	ErrTreasuryNotConfigured = errors.New("treasury client not configured")
	ErrTreasuryRejected      = errors.New("treasury rejected the transfer")
	ErrTreasuryUpstream      = errors.New("treasury upstream error")
)

// Config del cliente Treasury (el servicio de custodia de fondos).
// BaseURL y APIKey normalmente vienen de env vars (TREASURY_BASE_URL, TREASURY_API_KEY).
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header de la API key. Default "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

type creditRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
	// Reason queda fijo en "pet-sale" para trazabilidad del lado de treasury.
	Reason string `json:"reason"`
}

// Credit acredita `amount` a `account` en treasury.
// 4xx del upstream se trata como rechazo (no se reintenta: la compra falla).
func (c *Client) Credit(ctx context.Context, account string, amount uint64) error {
	if !c.IsConfigured() {
		return ErrTreasuryNotConfigured
	}
	account = strings.TrimSpace(account)
	if account == "" {
		return errors.New("account required")
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/credits",
		map[string]string{c.apiKeyHeader: c.apiKey},
		creditRequest{Account: account, Amount: amount, Reason: "pet-sale"},
		nil,
	)
	if err == nil {
		return nil
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
		return fmt.Errorf("%w: status=%d", ErrTreasuryRejected, httpErr.StatusCode)
	}
	return fmt.Errorf("%w: %v", ErrTreasuryUpstream, err)
}
