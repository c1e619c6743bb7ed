package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/account-management/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the fallback when an expiration expression cannot
// be parsed. Misconfigured expiry should not keep the service down.
const DefaultTokenTTL = time.Hour

// JWTTokenCodec signs HS256 tokens. Access and refresh tokens use
// independent secrets and lifetimes so a leaked refresh secret cannot
// forge access tokens and vice versa.
type JWTTokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTTokenCodec creates a codec from raw secrets and expiration
// expressions ("1h", "30m", "7d").
func NewJWTTokenCodec(accessSecret, refreshSecret, accessExpiration, refreshExpiration string) *JWTTokenCodec {
	return &JWTTokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     ParseExpiration(accessExpiration),
		refreshTTL:    ParseExpiration(refreshExpiration),
	}
}

// ParseExpiration converts an "<N>h|<N>m|<N>d" expression into a
// duration. Unparseable input falls back to DefaultTokenTTL instead of
// failing.
func ParseExpiration(expr string) time.Duration {
	expr = strings.TrimSpace(expr)
	if len(expr) < 2 {
		return DefaultTokenTTL
	}

	unit := expr[len(expr)-1]
	n, err := strconv.Atoi(expr[:len(expr)-1])
	if err != nil || n <= 0 {
		return DefaultTokenTTL
	}

	switch unit {
	case 'h':
		return time.Duration(n) * time.Hour
	case 'm':
		return time.Duration(n) * time.Minute
	case 'd':
		return time.Duration(n) * 24 * time.Hour
	default:
		return DefaultTokenTTL
	}
}

func (c *JWTTokenCodec) AccessTokenTTL() time.Duration {
	return c.accessTTL
}

// IssueAccessToken signs a short-lived token carrying the user identity
// and the role snapshot taken at issuance.
func (c *JWTTokenCodec) IssueAccessToken(u *user.User, roles []string) (string, error) {
	return c.issue(u, roles, c.accessSecret, c.accessTTL)
}

// IssueRefreshToken signs the longer-lived counterpart under the refresh secret.
func (c *JWTTokenCodec) IssueRefreshToken(u *user.User, roles []string) (string, error) {
	return c.issue(u, roles, c.refreshSecret, c.refreshTTL)
}

func (c *JWTTokenCodec) issue(u *user.User, roles []string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	if roles == nil {
		roles = []string{}
	}

	claims := &Claims{
		Username: u.Username,
		Email:    u.EmailOrEmpty(),
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (c *JWTTokenCodec) VerifyAccessToken(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.accessSecret)
}

func (c *JWTTokenCodec) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.refreshSecret)
}

// verify enforces signature, shape and expiry in one pass. Expiry is a
// verification-time check; issuance never rejects.
func (c *JWTTokenCodec) verify(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// SubjectID extracts the numeric user id from the token subject.
func (cl *Claims) SubjectID() (int64, error) {
	id, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}
