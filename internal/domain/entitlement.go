package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OverrideState represents the billing override applied to a subject's
// entitlement window
type OverrideState string

const (
	OverrideNone      OverrideState = "NONE"
	OverrideUnlimited OverrideState = "UNLIMITED"
	OverrideExpiresAt OverrideState = "EXPIRES_AT"
)

// EntitlementWindow represents a subject's access state: either a running
// trial countdown anchored at AnchorTime, or an explicit override set by an
// external billing process. AnchorTime is immutable after creation; only the
// override fields change over the window's lifetime.
type EntitlementWindow struct {
	SubjectID      uuid.UUID
	AnchorTime     time.Time
	WindowDays     int
	Override       OverrideState
	OverrideExpiry *time.Time // set iff Override is EXPIRES_AT
}

// Validate ensures the window adheres to domain rules
// Returns an error if validation fails
func (w *EntitlementWindow) Validate() error {
	if w.WindowDays <= 0 {
		return errors.New("window length must be a positive number of days")
	}

	switch w.Override {
	case OverrideNone, OverrideUnlimited:
		if w.OverrideExpiry != nil {
			return errors.New("override expiry is only valid with EXPIRES_AT")
		}
	case OverrideExpiresAt:
		if w.OverrideExpiry == nil {
			return errors.New("EXPIRES_AT override must carry an expiry timestamp")
		}
	default:
		return errors.New("override state must be NONE, UNLIMITED, or EXPIRES_AT")
	}

	if w.AnchorTime.IsZero() {
		return errors.New("anchor timestamp cannot be zero")
	}

	return nil
}
