package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"mobispa/internal/db"
)

// UserRepository covers account lookup and creation; services depend on the
// interface so tests can substitute stubs.
type UserRepository interface {
	Create(user *db.User) error
	GetByEmail(email string) (*db.User, error)
	GetByID(id string) (*db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) Create(user *db.User) error {
	query := `
		INSERT INTO users
		(id, name, email, password_hash, phone, account_type,
		 business_name, service_area_lat, service_area_lng, service_area_miles, buffer_minutes,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at`
	return r.db.QueryRow(query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, user.AccountType,
		user.BusinessName, user.ServiceAreaLat, user.ServiceAreaLng, user.ServiceAreaMiles, user.BufferMinutes,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

const userColumns = `
	id, name, email, password_hash, phone, account_type,
	business_name, service_area_lat, service_area_lng, service_area_miles, buffer_minutes,
	created_at, updated_at`

func (r *userRepository) scanUser(row *sql.Row) (*db.User, error) {
	var u db.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.AccountType,
		&u.BusinessName, &u.ServiceAreaLat, &u.ServiceAreaLng, &u.ServiceAreaMiles, &u.BufferMinutes,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(email string) (*db.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByID(id string) (*db.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}
	return user, nil
}
