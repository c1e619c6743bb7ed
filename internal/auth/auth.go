package auth

import (
	"time"

	"github.com/frahmantamala/account-management/internal"
	"github.com/frahmantamala/account-management/internal/audit"
	"github.com/frahmantamala/account-management/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// UserDirectory is the subset of the user directory the auth core needs.
type UserDirectory interface {
	FindByUsername(username string) (*user.User, error)
	FindByEmail(email string) (*user.User, error)
	FindByID(id int64) (*user.User, error)
	UpdatePasswordHash(id int64, passwordHash string) error
}

// RoleResolver maps a user id to its current role-name set. Implementations
// must read live assignment data on every call; the whole point of the
// refresh flow is that revoked roles drop out here.
type RoleResolver interface {
	Resolve(userID int64) ([]string, error)
}

// PasswordHasher is a one-way adaptive hash with verification.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenCodec signs and verifies the two bearer token kinds with their
// own secrets and lifetimes.
type TokenCodec interface {
	IssueAccessToken(u *user.User, roles []string) (string, error)
	IssueRefreshToken(u *user.User, roles []string) (string, error)
	VerifyAccessToken(tokenString string) (*Claims, error)
	VerifyRefreshToken(tokenString string) (*Claims, error)
	AccessTokenTTL() time.Duration
}

// AttemptRecorder appends authentication outcomes. Implementations are
// best-effort: Record must never fail the caller.
type AttemptRecorder interface {
	Record(attempt audit.AccessAttempt)
}

// ServiceAPI is what the HTTP layer sees of the auth service.
type ServiceAPI interface {
	Login(dto LoginDTO, ip, userAgent string) (*LoginResponse, error)
	Refresh(refreshToken string) (*LoginResponse, error)
	VerifyAccessToken(tokenString string) (*Claims, error)
	ChangePassword(userID int64, dto ChangePasswordDTO) error
}

// Claims is the token payload. Subject carries the user id; Roles is a
// snapshot taken at issuance and may lag live assignments until the
// token is refreshed.
type Claims struct {
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// LoginResponse is returned by both login and refresh.
type LoginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	TokenType    string     `json:"tokenType"`
	ExpiresIn    int64      `json:"expiresIn"`
	User         *user.User `json:"user"`
}

const TokenTypeBearer = "Bearer"

// The sentinels are the shared AppError values so the transport layer
// can map them to status codes without this package knowing about HTTP.
var (
	ErrInvalidCredentials error = internal.ErrInvalidCredentials
	ErrInvalidToken       error = internal.ErrInvalidToken
	ErrTokenExpired       error = internal.ErrTokenExpired
)
