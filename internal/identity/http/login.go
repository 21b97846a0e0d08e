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

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /api/v1/users/login. Unknown email and wrong
// password both return 400, with the service's distinct messages passed
// through.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req identsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
				Message: "email and password are required",
			})
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
				Message: "user with this email does not exist",
			})
		case errors.Is(err, service.ErrInvalidPassword):
			httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
				Message: "invalid password",
			})
		default:
			log.Error("failed to log user in", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, identsdk.ErrorResponse{
				Message: "internal server error",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identsdk.UserResponse{
		Message: "user logged in successfully",
		User: identsdk.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}
