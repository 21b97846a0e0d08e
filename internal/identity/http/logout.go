package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/driftlock/identity/internal/identity/service"
	"github.com/driftlock/identity/pkg/httpx"
	"github.com/driftlock/identity/pkg/identsdk"
	"github.com/driftlock/identity/pkg/slogx"
)

type LogoutHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /api/v1/users/logout. This acknowledges the logout
// for a known user; there is no server-side session to tear down.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req identsdk.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
			Message: "invalid JSON body",
		})
		return
	}

	if err := h.AuthService.Logout(ctx, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
				Message: "email is required",
			})
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
				Message: "user not found",
			})
		default:
			log.Error("failed to log user out", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, identsdk.ErrorResponse{
				Message: "internal server error",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identsdk.MessageResponse{
		Message: "user logged out successfully",
	})
}
