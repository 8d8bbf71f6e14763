package postgres

import (
	"strings"
	"testing"
	"time"

	qb "github.com/fulbitoplay/prediction-pool/internal/platform/querybuilder"
)

func TestActivationKeyInsertCarriesCreatedAt(t *testing.T) {
	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	query, args, err := qb.InsertModel("activation_keys", activationKeyInsertModel{
		Code:      "ABCD12",
		Quantity:  2,
		Status:    "available",
		CreatedAt: at,
	}, "")
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}

	if !strings.Contains(query, "created_at") {
		t.Fatalf("insert must write created_at, got %q", query)
	}

	found := false
	for _, arg := range args {
		if ts, ok := arg.(time.Time); ok && ts.Equal(at) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %v among insert args, got %v", at, args)
	}
}
