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

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /api/v1/users/register. The body is JSON with
// username, email and password; a successful registration returns 201 with
// the public view of the new user.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req identsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.AuthService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
				Message: "all fields are required",
			})
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
				Message: err.Error(),
			})
		case errors.Is(err, service.ErrUserExists):
			httpx.WriteJSON(w, http.StatusBadRequest, identsdk.ErrorResponse{
				Message: "user with this email already exists",
			})
		default:
			log.Error("failed to register user", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, identsdk.ErrorResponse{
				Message: "internal server error",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, identsdk.UserResponse{
		Message: "user registered successfully",
		User: identsdk.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}
