package entities

import "time"

type InviteRequest struct {
	Email string `json:"email"`
}

type InvitationResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AcceptInvitationRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}
