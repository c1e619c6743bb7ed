package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/account-management/internal"
	"github.com/frahmantamala/account-management/internal/transport"
	"github.com/frahmantamala/account-management/pkg/logger"
)

// RoleResolver is satisfied by role.Resolver; declared here so the user
// handler does not pull the whole role package in.
type RoleResolver interface {
	Resolve(userID int64) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	users Directory
	roles RoleResolver
}

func NewHandler(users Directory, roles RoleResolver) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		users:       users,
		roles:       roles,
	}
}

type currentUserResponse struct {
	*User
	Roles []string `json:"roles"`
}

// GetCurrentUser returns the caller's account with live roles. Unlike
// the token snapshot, this reads current assignments, so it shows a
// revocation before the next refresh does.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteAppError(w, r, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken))
		return
	}

	u, err := h.users.FindByID(principal.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteAppError(w, r, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound))
			return
		}
		h.WriteAppError(w, r, internal.NewInternalError("failed to load current user", err))
		return
	}

	roles, err := h.roles.Resolve(u.ID)
	if err != nil {
		h.WriteAppError(w, r, internal.NewInternalError("failed to resolve roles for current user", err))
		return
	}

	h.WriteJSON(w, http.StatusOK, currentUserResponse{User: u, Roles: roles})
}
