package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is sent with concurrency conflicts.
const retryAfterSeconds = "1"

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindNotFound:            http.StatusNotFound,
	apperrors.KindValidation:          http.StatusBadRequest,
	apperrors.KindUnbalanced:          http.StatusUnprocessableEntity,
	apperrors.KindNoLines:             http.StatusUnprocessableEntity,
	apperrors.KindDuplicate:           http.StatusConflict,
	apperrors.KindAlreadyPosted:       http.StatusConflict,
	apperrors.KindStateConflict:       http.StatusConflict,
	apperrors.KindConcurrencyConflict: http.StatusConflict,
	apperrors.KindUnauthorized:        http.StatusUnauthorized,
	apperrors.KindRateLimited:         http.StatusTooManyRequests,
	apperrors.KindStorage:             http.StatusInternalServerError,
}

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindStorage && apperrors.IsTimeout(err) {
		return http.StatusServiceUnavailable
	}
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes the failure envelope for err. Storage failures are logged
// with their cause and reported with a generic message.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind := apperrors.KindOf(err)
	status := statusFor(err)

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch kind {
	case apperrors.KindStorage:
		logger.Error(action+" failed", slog.String("error", err.Error()), slog.Int("status", status))
		message = action + " failed"
		if status == http.StatusServiceUnavailable {
			message = action + " timed out, please retry"
		}
	case apperrors.KindConcurrencyConflict:
		logger.Warn(action+" conflicted with a concurrent update", slog.String("error", err.Error()))
		c.Header("Retry-After", retryAfterSeconds)
	default:
		logger.Warn(action+" rejected", slog.String("error", err.Error()), slog.String("kind", string(kind)))
	}

	c.JSON(status, dto.Failure(kind, message, apperrors.FieldsOf(err)))
}

// respondBindError reports a request that could not be decoded or failed binding validation.
func respondBindError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))

	fields := dto.ValidationFields(err)
	if fields == nil {
		c.JSON(http.StatusBadRequest, dto.Failure(apperrors.KindValidation, "Invalid request format: "+err.Error(), nil))
		return
	}
	c.JSON(http.StatusBadRequest, dto.Failure(apperrors.KindValidation, "Invalid request", fields))
}

// requireUserID returns the authenticated user or answers 401.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.Failure(apperrors.KindUnauthorized, "Unauthorized", nil))
		return "", false
	}
	return userID, true
}

// optionalDate parses a date that binding has already checked.
func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil
	}
	return &d
}

// requiredDate parses a date or answers 400 naming field.
func requiredDate(c *gin.Context, field, s string) (time.Time, bool) {
	d, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Failure(apperrors.KindValidation, "Invalid request",
			map[string]string{field: "must be a date in YYYY-MM-DD format"}))
		return time.Time{}, false
	}
	return d, true
}
