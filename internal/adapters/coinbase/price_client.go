package coinbase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/SscSPs/wallet_ledger/internal/core/ports/clients"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL      = "https://api.coinbase.com"
	DefaultCurrencyPair = "BTC-USD"
	serviceName         = "coinbase"
	maxBodyBytes        = 1 << 20
)

// PriceClient reads the spot price of a currency pair from the Coinbase public API.
type PriceClient struct {
	baseURL    string
	pair       string
	httpClient *http.Client
}

// NewPriceClient creates a client. Empty baseURL or pair fall back to the Coinbase defaults.
func NewPriceClient(baseURL, pair string, timeout time.Duration) *PriceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pair == "" {
		pair = DefaultCurrencyPair
	}
	return &PriceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pair:       pair,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ clients.PriceQuoter = (*PriceClient)(nil)

type spotPriceResponse struct {
	Data *struct {
		Base     string          `json:"base"`
		Currency string          `json:"currency"`
		Amount   decimal.Decimal `json:"amount"`
	} `json:"data"`
	Errors []struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	} `json:"errors"`
}

// GetPrice returns {price} on success. An answer without an amount is returned as an
// error-shaped quote (nil Price, Problem set); transport failures are returned as errors.
func (c *PriceClient) GetPrice(ctx context.Context) (*clients.PriceQuote, error) {
	url := fmt.Sprintf("%s/v2/prices/%s/spot", c.baseURL, c.pair)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewRemoteError(serviceName, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewRemoteError(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewRemoteError(serviceName, err)
	}

	var parsed spotPriceResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && len(parsed.Errors) > 0 {
			return &clients.PriceQuote{Problem: fmt.Sprintf("%s: %s", parsed.Errors[0].ID, parsed.Errors[0].Message)}, nil
		}
		return nil, apperrors.NewRemoteError(serviceName, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if decodeErr != nil {
		return &clients.PriceQuote{Problem: "undecodable response: " + decodeErr.Error()}, nil
	}
	if parsed.Data == nil {
		return &clients.PriceQuote{Problem: "response has no data"}, nil
	}

	price := parsed.Data.Amount
	return &clients.PriceQuote{Price: &price}, nil
}
