package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

type PasswordResetsHandler struct {
	UserService       *service.UserService
	CredentialService *service.CredentialService
}

type requestResetRequest struct {
	Email string `json:"email"`
}

type consumeResetRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// HandleRequest starts a password reset. Always answers 202 so callers
// can't tell whether the address has an account.
func (h *PasswordResetsHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req requestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "invalid_request",
			ErrorDescription: "email is required",
		})
		return
	}

	user, err := h.UserService.GetUserByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		log.Warn("password reset requested for unknown email")
	case err != nil:
		log.Error("failed to fetch user for reset", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to request password reset",
		})
		return
	default:
		if err := h.CredentialService.IssueReset(ctx, &user); err != nil {
			log.Error("failed to issue reset credential", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to request password reset",
			})
			return
		}
	}

	httpx.WriteJSON(w, http.StatusAccepted, statusResponse{Status: "accepted"})
}

// HandleConsume exchanges a valid, unexpired reset token for a new
// password. The token is single-use; success clears it.
func (h *PasswordResetsHandler) HandleConsume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req consumeResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Email == "" || req.Token == "" || req.Password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "invalid_request",
			ErrorDescription: "email, token, and password are required",
		})
		return
	}

	invalid := func() {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:            "invalid_grant",
			ErrorDescription: "Reset token is invalid",
		})
	}

	user, err := h.UserService.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			invalid()
			return
		}
		log.Error("failed to fetch user for reset", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to reset password",
		})
		return
	}

	if !h.CredentialService.Authenticated(user, service.CredentialReset, req.Token) {
		invalid()
		return
	}

	// Expiry is checked after token verification so an expired link still
	// requires the right token to learn it expired.
	if h.CredentialService.ResetExpired(user) {
		httpx.WriteJSON(w, http.StatusGone, errorResponse{
			Error:            "expired_grant",
			ErrorDescription: "Reset token has expired",
		})
		return
	}

	if err := h.CredentialService.ResetPassword(ctx, &user, req.Password, h.UserService.Rules); err != nil {
		if isValidationError(err) {
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Error:            "invalid_request",
				ErrorDescription: err.Error(),
			})
			return
		}
		log.Error("failed to reset password", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to reset password",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statusResponse{Status: "password_updated"})
}
