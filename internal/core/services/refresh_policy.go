package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
)

// absorbRefreshError is the catch-log-continue policy shared by every refresh action.
// It logs err at a level matching its kind and reports whether the fetched value may be
// applied to the store, which is only the case when err is nil and ctx is still live.
// Refresh actions never surface err to their callers.
func absorbRefreshError(ctx context.Context, logger *slog.Logger, op string, err error, attrs ...any) bool {
	args := make([]any, 0, len(attrs)+2)
	args = append(args, slog.String("operation", op))
	args = append(args, attrs...)

	if err == nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Debug("Discarding refresh result, caller is gone", append(args, slog.String("reason", ctxErr.Error()))...)
			return false
		}
		return true
	}

	args = append(args, slog.String("error", err.Error()))
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Debug("Refresh abandoned, keeping last known value", args...)
	case errors.Is(err, apperrors.ErrNotSupported):
		logger.Info("Refresh not supported, keeping last known value", args...)
	case errors.Is(err, apperrors.ErrMalformedResponse),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Refresh returned unusable data, keeping last known value", args...)
	default:
		logger.Error("Refresh failed, keeping last known value", args...)
	}
	return false
}
