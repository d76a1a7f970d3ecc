package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/services"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, username, email, password, role string) (int64, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username *string `json:"username"`

	// Email
	// required: true
	// default: john@example.com
	Email *string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password *string `json:"password"`

	// Role, defaults to user
	// default: user
	Role string `json:"role"`
}

// missingField returns the name of the first absent required field, or "".
// Username is checked first, then email, then password.
func (req *RegisterRequest) missingField() string {
	switch {
	case req.Username == nil:
		return "username"
	case req.Email == nil:
		return "email"
	case req.Password == nil:
		return "password"
	}
	return ""
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. Email must be unique; the password is hashed before storing.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} handlers.Response "Registration successful"
// @Failure 400 {object} handlers.Response "Missing field / email already registered"
// @Router /api/auth/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if field := req.missingField(); field != "" {
			writeError(w, http.StatusBadRequest, "Missing required field: "+field)
			return
		}

		_, err := svc.Register(r.Context(), *req.Username, *req.Email, *req.Password, req.Role)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmailAlreadyRegistered):
				writeError(w, http.StatusBadRequest, "Email already registered")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Registration failed")
			}
			return
		}

		writeSuccess(w, http.StatusCreated, nil, "Registration successful")
	}
}
