package api

import (
	"encoding/json"
	"net/http"

	"mobispa/internal/auth"
	"mobispa/internal/entities"
	"mobispa/internal/errors"
	"mobispa/internal/service"
)

type InvitationHandler struct {
	Service *service.InvitationService
}

func NewInvitationHandler(svc *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{Service: svc}
}

func (h *InvitationHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req entities.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	inv, err := h.Service.Invite(auth.UserID(r.Context()), req.Email)
	if err != nil {
		errors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entities.InvitationResponse{
		Token:     inv.Token,
		Email:     inv.Email,
		Status:    inv.Status,
		ExpiresAt: inv.ExpiresAt,
	})
}

func (h *InvitationHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req entities.AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.Service.Accept(&req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"id":      user.ID,
		"email":   user.Email,
		"message": "Invitation accepted",
	})
}
