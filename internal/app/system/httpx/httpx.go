// Package httpx maps errors to HTTP status codes and writes JSON responses.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/complaints/internal/domain/models"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Status returns the HTTP status code for err.
//
//	ErrValidation, ErrMalformedID, oversized body -> 400
//	ErrNotFound                                   -> 404
//	anything else                                 -> 500
func Status(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrMalformedID),
		errors.As(err, &tooLarge):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes the status for err with an empty body. Server errors are
// logged at Error level, client errors at Debug.
func Fail(w http.ResponseWriter, r *http.Request, log *zap.Logger, op string, err error) int {
	status := Status(err)
	if log != nil {
		fields := []zap.Field{
			zap.String("op", op),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("status", status),
			zap.Error(err),
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Debug("request rejected", fields...)
		}
	}
	w.WriteHeader(status)
	return status
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
