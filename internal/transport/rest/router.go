package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/account-management/internal/audit"
	"github.com/frahmantamala/account-management/internal/auth"
	"github.com/frahmantamala/account-management/internal/transport/middleware"
	"github.com/frahmantamala/account-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RoleAdministrador is the only role name the router needs to know: the
// audit endpoints are admin-only. Everything else is authenticated-only.
const RoleAdministrador = "Administrador"

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, auditHandler *audit.Handler, rbac *auth.RBACAuthorization, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})

		// Protected routes that require a verified access token
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Post("/auth/password", authHandler.ChangePassword)
			pr.Get("/users/me", userHandler.GetCurrentUser)

			// Audit queries are admin-only
			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.RequireRoles(RoleAdministrador))
				ar.Get("/audit/attempts", auditHandler.GetRecentAttempts)
				ar.Get("/audit/suspicious", auditHandler.GetSuspiciousActivity)
			})
		})
	})
}
