package api

import (
	"net/http"

	respond "github.com/keepsakehq/keepsake/server/internal/api/respond"
	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/services"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// SyncUser POST /api/auth/sync
// The auth middleware has already ensured the account exists, so this simply
// returns it. Frontends call it once after login to obtain the user record.
func (h *UserHandler) SyncUser(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, auth.UserFrom(r.Context()))
}

// GetMe GET /api/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.GetUser(r.Context(), user.UserID)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
