package audit

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/account-management/internal"
	"github.com/frahmantamala/account-management/internal/transport"
	"github.com/frahmantamala/account-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	service *Service
}

func NewHandler(service *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		service:     service,
	}
}

// GetRecentAttempts lists attempts inside the configured recent window.
func (h *Handler) GetRecentAttempts(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.service.RecentAttempts()
	if err != nil {
		h.WriteAppError(w, r, internal.NewInternalError("failed to query recent access attempts", err))
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}

// GetSuspiciousActivity lists repeated failures inside the suspicious window.
func (h *Handler) GetSuspiciousActivity(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.service.SuspiciousActivity()
	if err != nil {
		h.WriteAppError(w, r, internal.NewInternalError("failed to query suspicious activity", err))
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}
