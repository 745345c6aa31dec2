package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/dto"
	"github.com/gin-gonic/gin"
)

// statusForKind maps the error taxonomy onto HTTP statuses. Validation kinds
// render as 422, state conflicts as 409, lock timeouts as 503 so clients know
// to retry.
func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindPermissionDenied:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindPeriodClosed,
		apperrors.KindImbalanced,
		apperrors.KindEmptyTransaction,
		apperrors.KindBothOrNeitherSide,
		apperrors.KindTypeRuleViolation,
		apperrors.KindAccountTypeMismatch,
		apperrors.KindInvalidPrecision,
		apperrors.KindSchemaVersionMismatch,
		apperrors.KindBudgetExceeded,
		apperrors.KindNegativeStock:
		return http.StatusUnprocessableEntity
	case apperrors.KindInvalidStatusTransition,
		apperrors.KindTransactionLocked,
		apperrors.KindAlreadyReversed,
		apperrors.KindDuplicateSubmission:
		return http.StatusConflict
	case apperrors.KindLockTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders a service error. The full validation report is always
// returned so clients can fix every problem in one round trip.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var valErr *apperrors.ValidationError
	if errors.As(err, &valErr) {
		logger.Warn("Request failed validation", slog.Int("violations", len(valErr.Violations)))
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationResponse{Valid: false, Violations: valErr.Violations})
		return
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status := statusForKind(appErr.Kind)
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.String("kind", string(appErr.Kind)), slog.String("error", err.Error()))
		} else {
			logger.Warn("Request rejected", slog.String("kind", string(appErr.Kind)), slog.String("error", err.Error()))
		}
		body := gin.H{"error": appErr.Message, "kind": string(appErr.Kind)}
		if len(appErr.Context) > 0 {
			body["context"] = appErr.Context
		}
		if apperrors.IsRetryable(err) {
			body["retryable"] = true
		}
		c.JSON(status, body)
		return
	}

	logger.Error("Request failed", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
