package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mobispa/internal/db"
	"mobispa/internal/entities"
)

// memoryUsers keeps accounts in a map keyed by email.
type memoryUsers struct {
	byEmail map[string]*db.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: map[string]*db.User{}}
}

func (m *memoryUsers) Create(user *db.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUsers) GetByEmail(email string) (*db.User, error) {
	return m.byEmail[email], nil
}

func (m *memoryUsers) GetByID(id string) (*db.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func TestRegister_Client(t *testing.T) {
	svc := NewAuthService(newMemoryUsers())

	user, err := svc.Register(&entities.RegisterRequest{
		Name:        "Ana",
		Email:       "ana@example.com",
		Password:    "s3cret",
		AccountType: "client",
	})
	require.NoError(t, err)

	assert.Equal(t, AccountTypeClient, user.AccountType)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
	assert.False(t, user.BufferMinutes.Valid)
}

func TestRegister_ProviderProfile(t *testing.T) {
	svc := NewAuthService(newMemoryUsers())

	user, err := svc.Register(&entities.RegisterRequest{
		Name:             "Mia",
		Email:            "mia@example.com",
		Password:         "s3cret",
		AccountType:      "PROVIDER",
		BusinessName:     "Mia Mobile Spa",
		ServiceAreaLat:   34.05,
		ServiceAreaLng:   -118.24,
		ServiceAreaMiles: 25,
		BufferMinutes:    30,
	})
	require.NoError(t, err)

	assert.Equal(t, AccountTypeProvider, user.AccountType)
	assert.True(t, user.ServiceAreaMiles.Valid)
	assert.Equal(t, 25.0, user.ServiceAreaMiles.Float64)
	assert.Equal(t, int64(30), user.BufferMinutes.Int64)
}

func TestRegister_Rejections(t *testing.T) {
	users := newMemoryUsers()
	svc := NewAuthService(users)

	_, err := svc.Register(&entities.RegisterRequest{Email: "x@example.com", Password: "p"})
	assert.Error(t, err) // missing name

	_, err = svc.Register(&entities.RegisterRequest{Name: "X", Email: "x@example.com", Password: "p", AccountType: "ADMIN"})
	assert.Error(t, err)

	_, err = svc.Register(&entities.RegisterRequest{Name: "X", Email: "x@example.com", Password: "p", AccountType: "CLIENT"})
	require.NoError(t, err)
	_, err = svc.Register(&entities.RegisterRequest{Name: "X", Email: "x@example.com", Password: "p", AccountType: "CLIENT"})
	assert.Error(t, err) // duplicate email
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	users := newMemoryUsers()
	svc := NewAuthService(users)

	_, err := svc.Register(&entities.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "s3cret", AccountType: "CLIENT",
	})
	require.NoError(t, err)

	tokenString, err := svc.Login("ana@example.com", "s3cret")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, AccountTypeClient, claims["account_type"])
	assert.NotEmpty(t, claims["user_id"])

	_, err = svc.Login("ana@example.com", "wrong")
	assert.Error(t, err)
	_, err = svc.Login("nobody@example.com", "s3cret")
	assert.Error(t, err)
}
