package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/fulbitoplay/prediction-pool/internal/domain/entitlement"
	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
	"github.com/fulbitoplay/prediction-pool/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "prediction-pool"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(err)
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

func mapError(err error) mappedError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, ledger.ErrKeyNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "keyNotFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{
			HTTPStatus: http.StatusUnauthorized,
			Reason:     "unauthorized",
			Status:     "UNAUTHENTICATED",
		}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{
			HTTPStatus: http.StatusServiceUnavailable,
			Reason:     "dependencyUnavailable",
			Status:     "UNAVAILABLE",
		}
	case errors.Is(err, entitlement.ErrCapabilityMissing):
		return mappedError{
			HTTPStatus: http.StatusForbidden,
			Reason:     "capabilityMissing",
			Status:     "PERMISSION_DENIED",
		}
	case errors.Is(err, entitlement.ErrAlreadyVip),
		errors.Is(err, entitlement.ErrAlreadyUnlocked):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "alreadyGranted",
			Status:     "ALREADY_EXISTS",
		}
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "insufficientBalance",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, event.ErrFinished),
		errors.Is(err, event.ErrClosed):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "eventClosed",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, match.ErrStarted):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "matchStarted",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, prediction.ErrInvalidMain),
		errors.Is(err, prediction.ErrScoreNegative),
		errors.Is(err, prediction.ErrScoreInconsistent):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidPrediction",
			Status:     "INVALID_ARGUMENT",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}
