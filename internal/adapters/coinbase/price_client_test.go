package coinbase_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/adapters/coinbase"
	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/prices/BTC-USD/spot", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetPrice_Success(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":{"base":"BTC","currency":"USD","amount":"64321.05"}}`)
	client := coinbase.NewPriceClient(srv.URL, "", time.Second)

	quote, err := client.GetPrice(context.Background())

	require.NoError(t, err)
	require.NotNil(t, quote.Price)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("64321.05")))
	assert.Empty(t, quote.Problem)
}

func TestGetPrice_ErrorShapedResults(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		problem string
	}{
		{name: "api error body", status: http.StatusNotFound, body: `{"errors":[{"id":"not_found","message":"Invalid currency"}]}`, problem: "not_found"},
		{name: "no data", status: http.StatusOK, body: `{}`, problem: "no data"},
		{name: "garbage", status: http.StatusOK, body: `<html>`, problem: "undecodable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body)
			client := coinbase.NewPriceClient(srv.URL, coinbase.DefaultCurrencyPair, time.Second)

			quote, err := client.GetPrice(context.Background())

			require.NoError(t, err)
			assert.Nil(t, quote.Price)
			assert.Contains(t, quote.Problem, tt.problem)
		})
	}
}

func TestGetPrice_RemoteFailure(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, `bad gateway`)
	client := coinbase.NewPriceClient(srv.URL, "", time.Second)

	quote, err := client.GetPrice(context.Background())

	assert.Nil(t, quote)
	assert.ErrorIs(t, err, apperrors.ErrRemote)
}

func TestGetPrice_Unreachable(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	_, err := coinbase.NewPriceClient(url, "", time.Second).GetPrice(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrRemote)
}
