package firebase

import (
	"bytes"
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
	"golang.org/x/oauth2"
)

const (
	fiatBalancesFunction = "getFiatBalances"
	maxBodyBytes         = 1 << 20
)

// FunctionsBaseURL returns the default HTTPS endpoint of a project's callable functions.
func FunctionsBaseURL(region, projectID string) string {
	return fmt.Sprintf("https://%s-%s.cloudfunctions.net", region, projectID)
}

func trimSlash(url string) string {
	return strings.TrimRight(url, "/")
}

// CallableClient invokes HTTPS callable functions: it POSTs {"data": ...} and reads
// {"result": ...} or {"error": {...}}.
type CallableClient struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
}

// NewCallableClient creates a client. tokenSource may be nil for unauthenticated functions.
func NewCallableClient(baseURL string, tokenSource oauth2.TokenSource, timeout time.Duration) *CallableClient {
	return &CallableClient{
		baseURL:     trimSlash(baseURL),
		httpClient:  &http.Client{Timeout: timeout},
		tokenSource: tokenSource,
	}
}

type callableRequest struct {
	Data any `json:"data"`
}

type callableResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Call invokes the named function with data and decodes its result into out.
func (c *CallableClient) Call(ctx context.Context, name string, data any, out any) error {
	service := "function " + name

	payload, err := json.Marshal(callableRequest{Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+name, bytes.NewReader(payload))
	if err != nil {
		return apperrors.NewRemoteError(service, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokenSource != nil {
		token, err := c.tokenSource.Token()
		if err != nil {
			return apperrors.NewRemoteError(service, fmt.Errorf("failed to obtain token: %w", err))
		}
		token.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewRemoteError(service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperrors.NewRemoteError(service, err)
	}

	var parsed callableResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return apperrors.NewRemoteError(service, fmt.Errorf("unexpected status %d", resp.StatusCode))
		}
		return apperrors.NewMalformedResponseError(service, "undecodable response: "+err.Error())
	}
	if parsed.Error != nil {
		return apperrors.NewRemoteError(service, fmt.Errorf("%s: %s", parsed.Error.Status, parsed.Error.Message))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewRemoteError(service, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if len(parsed.Result) == 0 || string(parsed.Result) == "null" {
		return apperrors.NewMalformedResponseError(service, "result missing")
	}
	if err := json.Unmarshal(parsed.Result, out); err != nil {
		return apperrors.NewMalformedResponseError(service, "unexpected result shape: "+err.Error())
	}
	return nil
}

// FiatBalanceClient queries the getFiatBalances callable function.
type FiatBalanceClient struct {
	callable *CallableClient
}

// NewFiatBalanceClient creates a fiat balance querier on top of callable.
func NewFiatBalanceClient(callable *CallableClient) *FiatBalanceClient {
	return &FiatBalanceClient{callable: callable}
}

var _ clients.FiatBalanceQuerier = (*FiatBalanceClient)(nil)

// QueryFiatBalances calls the function with no parameters and exposes its result as data.
func (c *FiatBalanceClient) QueryFiatBalances(ctx context.Context) (*clients.FiatBalanceResponse, error) {
	var balances map[string]decimal.Decimal
	if err := c.callable.Call(ctx, fiatBalancesFunction, struct{}{}, &balances); err != nil {
		return nil, err
	}
	return &clients.FiatBalanceResponse{Data: balances}, nil
}
