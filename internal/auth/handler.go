package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/frahmantamala/account-management/internal"
	"github.com/frahmantamala/account-management/internal/transport"
	"github.com/frahmantamala/account-management/pkg/logger"
)

var errMissingToken = internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.Login(dto, clientIP(r), r.UserAgent())
	if err != nil {
		var vErr ValidationError
		switch {
		case errors.As(err, &vErr):
			h.WriteAppError(w, r, internal.NewValidationError(vErr.Error(), internal.ErrCodeValidationFailed))
		default:
			// every credential failure is the same 401 on purpose
			h.WriteAppError(w, r, internal.ErrInvalidCredentials)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, r, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.Refresh(dto.RefreshToken)
	if err != nil {
		h.WriteAppError(w, r, internal.ErrInvalidToken)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteAppError(w, r, errMissingToken)
		return
	}

	var dto ChangePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	if err := h.Service.ChangePassword(principal.UserID, dto); err != nil {
		var vErr ValidationError
		switch {
		case errors.As(err, &vErr):
			h.WriteAppError(w, r, internal.NewValidationError(vErr.Error(), internal.ErrCodeValidationFailed))
		case errors.Is(err, ErrInvalidCredentials):
			h.WriteAppError(w, r, internal.ErrInvalidCredentials)
		default:
			h.WriteAppError(w, r, internal.NewInternalError("failed to change password", err))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteAppError(w, r, errMissingToken)
		return
	}

	if _, err := h.Service.VerifyAccessToken(token); err != nil {
		h.WriteAppError(w, r, internal.ErrInvalidToken)
		return
	}

	// tokens are stateless; logout is client-side discard
	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware verifies the bearer token and attaches the principal to
// the request context. Role checks happen later in RBACAuthorization;
// this layer only answers "who is calling".
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, r, errMissingToken)
			return
		}

		claims, err := h.Service.VerifyAccessToken(token)
		if err != nil {
			logger.From(r.Context()).Warn("token validation failed", "error", err)
			h.WriteAppError(w, r, internal.ErrInvalidToken)
			return
		}

		subjectID, err := claims.SubjectID()
		if err != nil {
			logger.From(r.Context()).Warn("token has non-numeric subject", "subject", claims.Subject)
			h.WriteAppError(w, r, internal.ErrInvalidToken)
			return
		}

		principal := &internal.Principal{
			UserID:   subjectID,
			Username: claims.Username,
			Email:    claims.Email,
			Roles:    claims.Roles,
		}

		ctx := internal.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP prefers proxy headers so audit rows carry the real caller
// address when the service sits behind a load balancer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
