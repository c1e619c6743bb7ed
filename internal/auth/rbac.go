package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/account-management/internal"
	"github.com/frahmantamala/account-management/internal/transport"
	"github.com/frahmantamala/account-management/pkg/logger"
)

// Allow decides route access from required vs held role names. An empty
// requirement means the route is authenticated-only: any verified caller
// passes. Otherwise one overlapping role is enough; a route listing
// several roles accepts any of them.
func Allow(requiredRoles, heldRoles []string) bool {
	if len(requiredRoles) == 0 {
		return true
	}
	for _, required := range requiredRoles {
		for _, held := range heldRoles {
			if required == held {
				return true
			}
		}
	}
	return false
}

// RBACAuthorization gates routes on the role snapshot carried by the
// caller's access token. It must sit behind the auth middleware: a
// missing principal here is an authentication failure (401), an
// insufficient role is authorization (403).
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(lg *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(lg)}
}

// RequireRoles declares the acceptable role names for a route group.
func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				ra.WriteAppError(w, r, errMissingToken)
				return
			}

			if !Allow(roles, principal.Roles) {
				logger.From(r.Context()).Warn("access denied: insufficient roles",
					"user_id", principal.UserID,
					"required_roles", roles,
					"held_roles", principal.Roles)
				ra.WriteAppError(w, r, internal.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
