package audit

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/account-management/internal"
)

// Service records and queries access attempts. Record is best-effort by
// contract: a failing store write is logged and swallowed here so it can
// never alter the outcome of the login or refresh that triggered it.
type Service struct {
	store  Store
	cfg    internal.AuditConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, cfg internal.AuditConfig, logger *slog.Logger) *Service {
	cfg.ApplyDefaults()
	return &Service{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Record appends one access attempt. Errors stay inside this method.
func (s *Service) Record(attempt AccessAttempt) {
	if attempt.At.IsZero() {
		attempt.At = s.now()
	}
	if err := s.store.Create(&attempt); err != nil {
		s.logger.Error("failed to record access attempt",
			"error", err,
			"success", attempt.Success,
			"ip", attempt.IP)
	}
}

// RecentAttempts returns attempts inside the configured recent window.
func (s *Service) RecentAttempts() ([]AccessAttempt, error) {
	return s.store.FindSince(s.now().Add(-s.cfg.RecentWindow))
}

// CountRecentByIP counts attempts from one address inside the recent window.
func (s *Service) CountRecentByIP(ip string) (int64, error) {
	return s.store.CountByIPSince(ip, s.now().Add(-s.cfg.RecentWindow))
}

// CountRecentByUser counts attempts against one account inside the recent window.
func (s *Service) CountRecentByUser(userID int64) (int64, error) {
	return s.store.CountByUserSince(userID, s.now().Add(-s.cfg.RecentWindow))
}

// SuspiciousActivity returns failed attempts that repeat from the same
// address beyond the configured threshold inside the suspicious window.
func (s *Service) SuspiciousActivity() ([]AccessAttempt, error) {
	return s.store.FindRepeatedFailures(s.now().Add(-s.cfg.SuspiciousWindow), s.cfg.SuspiciousThreshold)
}

// CleanOldAttempts deletes attempts past the retention horizon and
// returns how many rows went away.
func (s *Service) CleanOldAttempts() (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.cfg.RetentionDays)
	return s.store.DeleteOlderThan(cutoff)
}
