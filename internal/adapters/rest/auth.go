package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
	"github.com/ewilliams-labs/stalify/internal/core/ports"
	"github.com/ewilliams-labs/stalify/internal/core/services"
)

type loginResponse struct {
	Success bool `json:"success"`
	services.LoginResult
}

type callbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type callbackResponse struct {
	Success bool `json:"success"`
	services.AuthResult
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"accessToken"`
	ExpiresIn    int    `json:"expiresIn"`
	RefreshToken string `json:"refreshToken"`
}

type profileResponse struct {
	Success bool               `json:"success"`
	User    domain.UserProfile `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login handles GET /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	result, err := h.auth.Login(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Failed to start login", err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true, LoginResult: result})
}

// Callback handles POST /api/auth/callback
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json",
			"Send the callback parameters as a JSON object.")
		return
	}

	var req callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "The request body must be valid JSON.")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "Authorization code is required",
			"The callback must include the code returned by Spotify.")
		return
	}

	result, err := h.auth.Callback(r.Context(), req.Code, req.State)
	if err != nil {
		status, title, message := classifyAuthError(err)
		h.logger.Warn("auth callback failed", zap.Int("status", status), zap.Error(err))
		writeError(w, status, title, message)
		return
	}
	writeJSON(w, http.StatusOK, callbackResponse{Success: true, AuthResult: result})
}

// classifyAuthError turns a failed sign-in into a status and a message the
// dashboard can show as-is.
func classifyAuthError(err error) (status int, title, message string) {
	var upstream *ports.UpstreamError
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return http.StatusBadRequest, "Invalid request", err.Error()
	case errors.Is(err, ports.ErrInvalidState):
		return http.StatusBadRequest, "Invalid or expired state",
			"Your login attempt expired. Please try logging in again."
	case errors.As(err, &upstream) && strings.Contains(strings.ToLower(upstream.Message), "not registered"):
		return http.StatusForbidden, "User not registered in Spotify app",
			"Your Spotify account is not registered for this app. Please contact the developer or try again later."
	case errors.Is(err, ports.ErrInvalidGrant):
		return http.StatusBadRequest, "Invalid authorization code",
			"The authorization code has expired or is invalid. Please try logging in again."
	case errors.Is(err, ports.ErrInvalidClient):
		return http.StatusInternalServerError, "Invalid Spotify app configuration",
			"There's an issue with the Spotify app configuration. Please try again later."
	case errors.Is(err, ports.ErrAccessDenied):
		return http.StatusForbidden, "User denied access",
			"You denied access to your Spotify account. Please try again and grant the necessary permissions."
	}
	return http.StatusInternalServerError, "Authentication failed",
		"Something went wrong during authentication. Please try again."
}

// Refresh handles POST /api/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "The request body must be valid JSON.")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "Refresh token is required", "Send the refresh token issued at login.")
		return
	}

	tokens, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidGrant) {
			writeError(w, http.StatusUnauthorized, "Token refresh failed", "The refresh token is no longer valid. Please log in again.")
			return
		}
		h.logger.Error("token refresh failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Token refresh failed", "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		Success:      true,
		AccessToken:  tokens.AccessToken,
		ExpiresIn:    tokens.ExpiresIn,
		RefreshToken: tokens.RefreshToken,
	})
}

// Profile handles GET /api/auth/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.auth.Profile(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, "Failed to fetch user profile", err)
		return
	}
	if profile.Images == nil {
		profile.Images = []domain.Image{}
	}
	writeJSON(w, http.StatusOK, profileResponse{Success: true, User: profile})
}

// Session handles GET /api/auth/session; the bearer token is the app session JWT.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	claims, err := h.auth.Session(tokenFrom(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid session", "Please log in again.")
		return
	}
	writeData(w, claims)
}

// Logout handles POST /api/auth/logout. Tokens live client-side, so there is
// nothing to revoke here.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}
