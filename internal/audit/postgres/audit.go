package postgres

import (
	"time"

	"github.com/frahmantamala/account-management/internal/audit"
	"github.com/jmoiron/sqlx"
)

// AttemptStore implements the audit.Store interface over sqlx.
type AttemptStore struct {
	db *sqlx.DB
}

func NewAttemptStore(db *sqlx.DB) audit.Store {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) Create(attempt *audit.AccessAttempt) error {
	query := `INSERT INTO access_attempts (user_id, attempted_at, success, ip, user_agent, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	now := time.Now()
	attempt.CreatedAt = now
	return s.db.QueryRow(query,
		attempt.UserID,
		attempt.At,
		attempt.Success,
		attempt.IP,
		attempt.UserAgent,
		attempt.Reason,
		now,
	).Scan(&attempt.ID)
}

func (s *AttemptStore) FindSince(since time.Time) ([]audit.AccessAttempt, error) {
	var attempts []audit.AccessAttempt
	query := `SELECT id, user_id, attempted_at, success, ip, user_agent, reason, created_at
	          FROM access_attempts
	          WHERE attempted_at >= $1
	          ORDER BY attempted_at DESC`
	err := s.db.Select(&attempts, query, since)
	return attempts, err
}

func (s *AttemptStore) CountByIPSince(ip string, since time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM access_attempts WHERE ip = $1 AND attempted_at >= $2`
	err := s.db.Get(&count, query, ip, since)
	return count, err
}

func (s *AttemptStore) CountByUserSince(userID int64, since time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM access_attempts WHERE user_id = $1 AND attempted_at >= $2`
	err := s.db.Get(&count, query, userID, since)
	return count, err
}

// FindRepeatedFailures returns failed attempts from addresses that failed
// at least threshold times since the cutoff.
func (s *AttemptStore) FindRepeatedFailures(since time.Time, threshold int) ([]audit.AccessAttempt, error) {
	var attempts []audit.AccessAttempt
	query := `SELECT a.id, a.user_id, a.attempted_at, a.success, a.ip, a.user_agent, a.reason, a.created_at
	          FROM access_attempts a
	          JOIN (
	              SELECT ip FROM access_attempts
	              WHERE attempted_at >= $1 AND success = false
	              GROUP BY ip
	              HAVING COUNT(*) >= $2
	          ) flagged ON flagged.ip = a.ip
	          WHERE a.attempted_at >= $1 AND a.success = false
	          ORDER BY a.attempted_at DESC`
	err := s.db.Select(&attempts, query, since, threshold)
	return attempts, err
}

func (s *AttemptStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM access_attempts WHERE attempted_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
