package apperrors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("lookup failed: %w", apperrors.NewNotFoundError("user document not found"))

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Contains(t, err.Error(), "user document not found")
}

func TestRemoteAndMalformedErrors(t *testing.T) {
	remote := apperrors.NewRemoteError("coinbase", errors.New("connection refused"))
	malformed := apperrors.NewMalformedResponseError("coinbase", "missing price")

	assert.ErrorIs(t, remote, apperrors.ErrRemote)
	assert.NotErrorIs(t, remote, apperrors.ErrMalformedResponse)
	assert.ErrorIs(t, malformed, apperrors.ErrMalformedResponse)
	assert.Contains(t, malformed.Error(), "missing price")
}

func TestRemoteError_KeepsCause(t *testing.T) {
	err := apperrors.NewRemoteError("function getFiatBalances", context.Canceled)

	assert.ErrorIs(t, err, apperrors.ErrRemote)
	assert.ErrorIs(t, err, context.Canceled)
}
