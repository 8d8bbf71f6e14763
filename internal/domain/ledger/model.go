package ledger

import (
	"errors"
	"fmt"
	"time"
)

// ErrKeyNotFound covers both a code that never existed and one that
// was already redeemed. Callers cannot tell the two apart.
var ErrKeyNotFound = errors.New("activation key not found")

// ErrInsufficientBalance rejects a debit that would take the key
// balance below zero.
var ErrInsufficientBalance = errors.New("insufficient key balance")

// ErrCodeCollision signals a unique violation on a generated code.
// The caller retries with a fresh one.
var ErrCodeCollision = errors.New("activation key code collision")

type KeyStatus string

const (
	KeyStatusAvailable KeyStatus = "available"
	KeyStatusUsed      KeyStatus = "used"
)

// ActivationKey is a single-use voucher worth Quantity keys.
type ActivationKey struct {
	Code       string
	Quantity   int
	Status     KeyStatus
	RedeemedBy string
	RedeemedAt *time.Time
	CreatedAt  time.Time
}

func (k ActivationKey) Validate() error {
	if k.Code == "" {
		return fmt.Errorf("activation key code is required")
	}
	if k.Quantity < 1 {
		return fmt.Errorf("activation key quantity must be positive")
	}

	return nil
}
