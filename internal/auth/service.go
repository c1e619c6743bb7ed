package auth

import (
	"errors"
	"log/slog"

	"github.com/frahmantamala/account-management/internal/audit"
	"github.com/frahmantamala/account-management/internal/user"
)

// Service orchestrates login, refresh and password changes. It owns no
// state of its own: users, roles and attempts all live behind the
// injected directories.
type Service struct {
	users    UserDirectory
	roles    RoleResolver
	hasher   PasswordHasher
	tokens   TokenCodec
	attempts AttemptRecorder
	logger   *slog.Logger
}

func NewService(users UserDirectory, roles RoleResolver, hasher PasswordHasher, tokens TokenCodec, attempts AttemptRecorder, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		roles:    roles,
		hasher:   hasher,
		tokens:   tokens,
		attempts: attempts,
		logger:   logger,
	}
}

// Login runs the credential check as a single pass with no retries.
// All failure modes collapse into ErrInvalidCredentials so a caller
// cannot tell an unknown username from a wrong password or an inactive
// account. The audit record keeps the real reason.
func (s *Service) Login(dto LoginDTO, ip, userAgent string) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.FindByUsername(dto.Username)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return nil, s.failLogin(nil, ip, userAgent, audit.ReasonInternalError, err)
		}
		u, err = s.users.FindByEmail(dto.Username)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return nil, s.failLogin(nil, ip, userAgent, audit.ReasonUserNotFound, nil)
			}
			return nil, s.failLogin(nil, ip, userAgent, audit.ReasonInternalError, err)
		}
	}

	if !u.IsActive() {
		return nil, s.failLogin(&u.ID, ip, userAgent, audit.ReasonUserInactive, nil)
	}

	if !s.hasher.Verify(dto.Password, u.PasswordHash) {
		return nil, s.failLogin(&u.ID, ip, userAgent, audit.ReasonBadPassword, nil)
	}

	resp, err := s.issuePair(u)
	if err != nil {
		return nil, s.failLogin(&u.ID, ip, userAgent, audit.ReasonInternalError, err)
	}

	// best-effort: the recorder swallows its own failures
	s.attempts.Record(audit.AccessAttempt{
		UserID:    &u.ID,
		Success:   true,
		IP:        ip,
		UserAgent: userAgent,
	})

	return resp, nil
}

// Refresh verifies the refresh token, re-checks the account and
// re-resolves roles from current assignments. The role snapshot inside
// the presented token is never reused; this is how a revoked role takes
// effect at the next refresh.
func (s *Service) Refresh(refreshToken string) (*LoginResponse, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	subjectID, err := claims.SubjectID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.users.FindByID(subjectID)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.logger.Error("refresh: user lookup failed", "error", err, "user_id", subjectID)
		}
		return nil, ErrInvalidToken
	}
	if !u.IsActive() {
		return nil, ErrInvalidToken
	}

	resp, err := s.issuePair(u)
	if err != nil {
		s.logger.Error("refresh: failed to issue tokens", "error", err, "user_id", u.ID)
		return nil, ErrInvalidToken
	}
	return resp, nil
}

// VerifyAccessToken validates an access token and returns its claims.
func (s *Service) VerifyAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.VerifyAccessToken(tokenString)
}

// ChangePassword verifies the current password and replaces the stored
// digest with a fresh hash of the new one. Hash-and-replace is the only
// way a password hash ever changes.
func (s *Service) ChangePassword(userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if !s.hasher.Verify(dto.CurrentPassword, u.PasswordHash) {
		return ErrInvalidCredentials
	}

	digest, err := s.hasher.Hash(dto.NewPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePasswordHash(u.ID, digest)
}

// issuePair resolves the current role set and signs a fresh access and
// refresh token pair for the user.
func (s *Service) issuePair(u *user.User) (*LoginResponse, error) {
	roles, err := s.roles.Resolve(u.ID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(u, roles)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.IssueRefreshToken(u, roles)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
		User:         u,
	}, nil
}

// failLogin records a failed attempt and returns the one generic
// credential error every login failure maps to. Internal causes are
// logged here and never reach the caller.
func (s *Service) failLogin(userID *int64, ip, userAgent, reason string, cause error) error {
	if cause != nil {
		s.logger.Error("login failed", "reason", reason, "error", cause)
	}

	s.attempts.Record(audit.AccessAttempt{
		UserID:    userID,
		Success:   false,
		IP:        ip,
		UserAgent: userAgent,
		Reason:    reason,
	})

	return ErrInvalidCredentials
}
