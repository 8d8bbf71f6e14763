package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/fulbitoplay/prediction-pool/internal/domain/entitlement"
	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
	"github.com/fulbitoplay/prediction-pool/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_DomainSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{
			name:       "key not found beats generic not found",
			err:        fmt.Errorf("redeem: %w", ledger.ErrKeyNotFound),
			wantCode:   http.StatusNotFound,
			wantStatus: "NOT_FOUND",
			wantReason: "keyNotFound",
		},
		{
			name:       "generic not found",
			err:        fmt.Errorf("%w: event ev-404", usecase.ErrNotFound),
			wantCode:   http.StatusNotFound,
			wantStatus: "NOT_FOUND",
			wantReason: "notFound",
		},
		{
			name:       "unauthorized",
			err:        usecase.ErrUnauthorized,
			wantCode:   http.StatusUnauthorized,
			wantStatus: "UNAUTHENTICATED",
			wantReason: "unauthorized",
		},
		{
			name:       "dependency unavailable",
			err:        usecase.ErrDependencyUnavailable,
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "UNAVAILABLE",
			wantReason: "dependencyUnavailable",
		},
		{
			name:       "capability missing",
			err:        fmt.Errorf("score bet: %w", entitlement.ErrCapabilityMissing),
			wantCode:   http.StatusForbidden,
			wantStatus: "PERMISSION_DENIED",
			wantReason: "capabilityMissing",
		},
		{
			name:       "already vip",
			err:        entitlement.ErrAlreadyVip,
			wantCode:   http.StatusConflict,
			wantStatus: "ALREADY_EXISTS",
			wantReason: "alreadyGranted",
		},
		{
			name:       "already unlocked",
			err:        entitlement.ErrAlreadyUnlocked,
			wantCode:   http.StatusConflict,
			wantStatus: "ALREADY_EXISTS",
			wantReason: "alreadyGranted",
		},
		{
			name:       "insufficient balance",
			err:        fmt.Errorf("grant vip: %w", ledger.ErrInsufficientBalance),
			wantCode:   http.StatusConflict,
			wantStatus: "FAILED_PRECONDITION",
			wantReason: "insufficientBalance",
		},
		{
			name:       "event finished",
			err:        event.ErrFinished,
			wantCode:   http.StatusConflict,
			wantStatus: "FAILED_PRECONDITION",
			wantReason: "eventClosed",
		},
		{
			name:       "event closed",
			err:        event.ErrClosed,
			wantCode:   http.StatusConflict,
			wantStatus: "FAILED_PRECONDITION",
			wantReason: "eventClosed",
		},
		{
			name:       "match started",
			err:        match.ErrStarted,
			wantCode:   http.StatusConflict,
			wantStatus: "FAILED_PRECONDITION",
			wantReason: "matchStarted",
		},
		{
			name:       "invalid main prediction",
			err:        fmt.Errorf("match m-1: %w", prediction.ErrInvalidMain),
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_ARGUMENT",
			wantReason: "invalidPrediction",
		},
		{
			name:       "inconsistent exact score",
			err:        prediction.ErrScoreInconsistent,
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_ARGUMENT",
			wantReason: "invalidPrediction",
		},
		{
			name:       "unknown error is internal",
			err:        fmt.Errorf("boom"),
			wantCode:   http.StatusInternalServerError,
			wantStatus: "INTERNAL",
			wantReason: "internalError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(tt.err)
			if mapped.HTTPStatus != tt.wantCode {
				t.Fatalf("http status=%d want=%d", mapped.HTTPStatus, tt.wantCode)
			}
			if mapped.Status != tt.wantStatus {
				t.Fatalf("status=%q want=%q", mapped.Status, tt.wantStatus)
			}
			if mapped.Reason != tt.wantReason {
				t.Fatalf("reason=%q want=%q", mapped.Reason, tt.wantReason)
			}
		})
	}
}
