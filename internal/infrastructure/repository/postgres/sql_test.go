package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get row: %w", sql.ErrNoRows)) {
		t.Fatal("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fmt.Errorf("connection refused")) {
		t.Fatal("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches 23505", func(t *testing.T) {
		err := &pq.Error{Code: "23505"}
		if !isUniqueViolation(fmt.Errorf("insert: %w", err)) {
			t.Fatal("expected true for unique violation")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		err := &pq.Error{Code: "23503"}
		if isUniqueViolation(err) {
			t.Fatal("expected false for foreign key violation")
		}
	})

	t.Run("ignores non-pq errors", func(t *testing.T) {
		if isUniqueViolation(fmt.Errorf("connection refused")) {
			t.Fatal("expected false for plain error")
		}
	})
}

func TestNullInt64Conversions(t *testing.T) {
	if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil for null, got %v", *got)
	}
	if got := nullInt64ToIntPtr(sql.NullInt64{Int64: 3, Valid: true}); got == nil || *got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}

	if got := intPtrToNullInt64(nil); got.Valid {
		t.Fatal("expected invalid for nil")
	}
	n := 2
	if got := intPtrToNullInt64(&n); !got.Valid || got.Int64 != 2 {
		t.Fatalf("expected 2, got %+v", got)
	}
}

func TestNullTimeConversions(t *testing.T) {
	if got := nullTimeToTimePtr(sql.NullTime{}); got != nil {
		t.Fatalf("expected nil for null, got %v", *got)
	}

	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if got := nullTimeToTimePtr(sql.NullTime{Time: at, Valid: true}); got == nil || !got.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got)
	}
	if got := timePtrToNullTime(&at); !got.Valid || !got.Time.Equal(at) {
		t.Fatalf("expected %v, got %+v", at, got)
	}
	if got := timePtrToNullTime(nil); got.Valid {
		t.Fatal("expected invalid for nil")
	}
}
