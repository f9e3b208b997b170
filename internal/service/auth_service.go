package service

import (
	"database/sql"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mobispa/internal/db"
	"mobispa/internal/entities"
	"mobispa/internal/repository"
)

const (
	AccountTypeClient   = "CLIENT"
	AccountTypeProvider = "PROVIDER"
)

type AuthService interface {
	Register(req *entities.RegisterRequest) (*db.User, error)
	Login(email, password string) (string, error)
}

type authService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Register(req *entities.RegisterRequest) (*db.User, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email and password cannot be empty")
	}
	accountType := strings.ToUpper(req.AccountType)
	if accountType != AccountTypeClient && accountType != AccountTypeProvider {
		return nil, errors.New("account_type must be CLIENT or PROVIDER")
	}
	existing, err := s.users.GetByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		AccountType:  accountType,
	}
	if accountType == AccountTypeProvider {
		user.BusinessName = sql.NullString{String: req.BusinessName, Valid: req.BusinessName != ""}
		if req.ServiceAreaMiles > 0 {
			user.ServiceAreaLat = sql.NullFloat64{Float64: req.ServiceAreaLat, Valid: true}
			user.ServiceAreaLng = sql.NullFloat64{Float64: req.ServiceAreaLng, Valid: true}
			user.ServiceAreaMiles = sql.NullFloat64{Float64: req.ServiceAreaMiles, Valid: true}
		}
		if req.BufferMinutes > 0 {
			user.BufferMinutes = sql.NullInt64{Int64: int64(req.BufferMinutes), Valid: true}
		}
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(email, password string) (string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"user_id":      user.ID,
		"account_type": user.AccountType,
		"exp":          time.Now().Add(time.Hour * 1).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
