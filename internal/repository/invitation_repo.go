package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"mobispa/internal/db"
)

type InvitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(database *sql.DB) *InvitationRepository {
	return &InvitationRepository{DB: database}
}

func (r *InvitationRepository) Create(inv *db.Invitation) error {
	query := `
		INSERT INTO invitations (id, token, email, provider_id, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`
	return r.DB.QueryRow(query,
		inv.ID, inv.Token, inv.Email, inv.ProviderID, inv.Status, inv.ExpiresAt,
	).Scan(&inv.CreatedAt)
}

func (r *InvitationRepository) GetByToken(token string) (*db.Invitation, error) {
	query := `
		SELECT id, token, email, provider_id, status, expires_at, created_at
		FROM invitations WHERE token = $1`
	var inv db.Invitation
	err := r.DB.QueryRow(query, token).Scan(
		&inv.ID, &inv.Token, &inv.Email, &inv.ProviderID, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying invitation: %w", err)
	}
	return &inv, nil
}

func (r *InvitationRepository) MarkAccepted(id string) error {
	result, err := r.DB.Exec(`UPDATE invitations SET status = 'accepted' WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("error accepting invitation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteExpired removes pending invitations past their expiry and returns
// how many were purged.
func (r *InvitationRepository) DeleteExpired() (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM invitations WHERE status = 'pending' AND expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired invitations: %w", err)
	}
	return result.RowsAffected()
}
