package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"mobispa/internal/db"
)

type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(database *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: database}
}

// GetAutobookBlock returns the provider's bookable work window for a civil
// date, or nil when none is declared.
func (r *AvailabilityRepository) GetAutobookBlock(providerID, date string) (*db.AvailabilityBlock, error) {
	query := `
		SELECT id, provider_id, date, start_time, end_time, type, created_at
		FROM availability_blocks
		WHERE provider_id = $1 AND date = $2 AND type = 'autobook'`

	var block db.AvailabilityBlock
	err := r.DB.QueryRow(query, providerID, date).Scan(
		&block.ID, &block.ProviderID, &block.Date,
		&block.StartTime, &block.EndTime, &block.Type, &block.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying availability block: %w", err)
	}
	return &block, nil
}

func (r *AvailabilityRepository) ListBlocks(providerID, date string) ([]db.AvailabilityBlock, error) {
	query := `
		SELECT id, provider_id, date, start_time, end_time, type, created_at
		FROM availability_blocks
		WHERE provider_id = $1 AND date = $2
		ORDER BY start_time`

	rows, err := r.DB.Query(query, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("error querying availability blocks: %w", err)
	}
	defer rows.Close()

	var blocks []db.AvailabilityBlock
	for rows.Next() {
		var block db.AvailabilityBlock
		if err := rows.Scan(&block.ID, &block.ProviderID, &block.Date,
			&block.StartTime, &block.EndTime, &block.Type, &block.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning availability block: %w", err)
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

func (r *AvailabilityRepository) CreateBlock(block *db.AvailabilityBlock) error {
	query := `
		INSERT INTO availability_blocks (id, provider_id, date, start_time, end_time, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`
	return r.DB.QueryRow(query,
		block.ID, block.ProviderID, block.Date,
		block.StartTime, block.EndTime, block.Type,
	).Scan(&block.CreatedAt)
}

// DeleteBlock removes a block only when it belongs to the provider.
func (r *AvailabilityRepository) DeleteBlock(id, providerID string) error {
	result, err := r.DB.Exec(`DELETE FROM availability_blocks WHERE id = $1 AND provider_id = $2`, id, providerID)
	if err != nil {
		return fmt.Errorf("error deleting availability block: %w", err)
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
