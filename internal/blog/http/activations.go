package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

type ActivationsHandler struct {
	UserService       *service.UserService
	CredentialService *service.CredentialService
}

type activateRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ServeHTTP consumes an activation token. The failure response is the same
// whether the account is missing, already activated, or the token is wrong,
// so the endpoint can't be used to probe which emails exist.
func (h *ActivationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Email == "" || req.Token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "invalid_request",
			ErrorDescription: "email and token are required",
		})
		return
	}

	invalid := func() {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:            "invalid_grant",
			ErrorDescription: "Activation link is invalid",
		})
	}

	user, err := h.UserService.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			invalid()
			return
		}
		log.Error("failed to fetch user for activation", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to activate user",
		})
		return
	}

	if user.Activated || !h.CredentialService.Authenticated(user, service.CredentialActivation, req.Token) {
		invalid()
		return
	}

	if err := h.CredentialService.Activate(ctx, &user); err != nil {
		log.Error("failed to activate user", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to activate user",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
