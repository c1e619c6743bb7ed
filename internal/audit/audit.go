package audit

import (
	"time"
)

// AccessAttempt is one immutable record of an authentication outcome.
// Rows are append-only: nothing ever updates them, the only delete path
// is the retention sweep.
type AccessAttempt struct {
	ID        int64     `db:"id" json:"id"`
	UserID    *int64    `db:"user_id" json:"userId,omitempty"`
	At        time.Time `db:"attempted_at" json:"at"`
	Success   bool      `db:"success" json:"success"`
	IP        string    `db:"ip" json:"ip,omitempty"`
	UserAgent string    `db:"user_agent" json:"userAgent,omitempty"`
	Reason    string    `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// Failure reasons recorded internally. Callers of the login flow never
// see these; they exist for the audit trail only.
const (
	ReasonUserNotFound  = "user not found"
	ReasonUserInactive  = "user inactive"
	ReasonBadPassword   = "invalid password"
	ReasonInternalError = "internal error"
)

// Store is the append-only persistence contract for access attempts.
type Store interface {
	Create(attempt *AccessAttempt) error
	FindSince(since time.Time) ([]AccessAttempt, error)
	CountByIPSince(ip string, since time.Time) (int64, error)
	CountByUserSince(userID int64, since time.Time) (int64, error)
	FindRepeatedFailures(since time.Time, threshold int) ([]AccessAttempt, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
