package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
	"github.com/Odorikoma/booknest/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, password string) (*models.UserDB, string, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email *string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password *string `json:"password"`
}

// LoginResponse represents a successful login response. The token sits
// next to the envelope fields, as the original API shipped it.
// swagger:model LoginResponse
type LoginResponse struct {
	Success     bool             `json:"success"`
	Data        *models.UserInfo `json:"data"`
	AccessToken string           `json:"access_token"`
	Message     string           `json:"message"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate by email and password, returning the profile and a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login request"
// @Success 200 {object} handlers.LoginResponse "Profile and token returned"
// @Failure 400 {object} handlers.Response "Missing field"
// @Failure 401 {object} handlers.Response "Incorrect email or password"
// @Router /api/auth/login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Email == nil {
			writeError(w, http.StatusBadRequest, "Missing required field: email")
			return
		}
		if req.Password == nil {
			writeError(w, http.StatusBadRequest, "Missing required field: password")
			return
		}

		user, token, err := svc.Login(r.Context(), *req.Email, *req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, "Incorrect email or password")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Login failed")
			}
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			Success: true,
			Data: &models.UserInfo{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
				Role:     user.Role,
			},
			AccessToken: token,
			Message:     "Login successful",
		})
	}
}
