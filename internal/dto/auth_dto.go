package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
)

type SignupRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionInfo is the request metadata stored with a new session.
type SessionInfo struct {
	UserAgent string
	IP        string
}

// LoginResult is what the auth service hands back to handlers after a
// successful login. Token goes into the session cookie.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Storage   string `json:"storage"`
}
