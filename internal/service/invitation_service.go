package service

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mobispa/internal/db"
	"mobispa/internal/entities"
	"mobispa/internal/errors"
	"mobispa/internal/repository"
)

const invitationTTL = 7 * 24 * time.Hour

type InvitationService struct {
	Invitations *repository.InvitationRepository
	Users       repository.UserRepository
}

func NewInvitationService(invitations *repository.InvitationRepository, users repository.UserRepository) *InvitationService {
	return &InvitationService{Invitations: invitations, Users: users}
}

// Invite issues a client invitation token on behalf of a provider.
func (s *InvitationService) Invite(providerID, email string) (*db.Invitation, error) {
	if email == "" {
		return nil, errors.ErrBadRequest("email is required")
	}
	existing, err := s.Users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.ErrConflict("A user with this email already exists")
	}

	inv := &db.Invitation{
		ID:         uuid.NewString(),
		Token:      uuid.NewString(),
		Email:      email,
		ProviderID: providerID,
		Status:     "pending",
		ExpiresAt:  time.Now().UTC().Add(invitationTTL),
	}
	if err := s.Invitations.Create(inv); err != nil {
		log.Printf("Error creating invitation: %v", err)
		return nil, fmt.Errorf("could not create invitation: %w", err)
	}
	return inv, nil
}

// Accept consumes a pending invitation and creates the client account.
func (s *InvitationService) Accept(req *entities.AcceptInvitationRequest) (*db.User, error) {
	if req.Token == "" || req.Name == "" || req.Password == "" {
		return nil, errors.ErrBadRequest("token, name and password are required")
	}
	inv, err := s.Invitations.GetByToken(req.Token)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.Status != "pending" {
		return nil, errors.ErrNotFound("Invitation not found")
	}
	if time.Now().UTC().After(inv.ExpiresAt) {
		return nil, errors.ErrConflict("Invitation has expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &db.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        inv.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		AccountType:  AccountTypeClient,
		BusinessName: sql.NullString{},
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	if err := s.Invitations.MarkAccepted(inv.ID); err != nil {
		log.Printf("Error marking invitation %s accepted: %v", inv.ID, err)
	}
	return user, nil
}
