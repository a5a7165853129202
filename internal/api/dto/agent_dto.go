package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AgentResponse is the login user payload.
type AgentResponse struct {
	ID         int64  `json:"agent_id"`
	FullName   string `json:"agentNames"`
	Email      string `json:"email"`
	CanSupport bool   `json:"can_support"`
}

// LoginResponse payload.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      AgentResponse `json:"user"`
}
