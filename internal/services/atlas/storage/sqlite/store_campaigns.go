package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ravencote/lorekeep/internal/services/atlas/storage"
)

// CreateCampaign inserts one campaign record.
func (s *Store) CreateCampaign(ctx context.Context, record storage.CampaignRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	campaignID := strings.TrimSpace(record.ID)
	name := strings.TrimSpace(record.Name)
	ownerID := strings.TrimSpace(record.OwnerID)
	if campaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if name == "" {
		return fmt.Errorf("campaign name is required")
	}
	if ownerID == "" {
		return fmt.Errorf("campaign owner is required")
	}
	createdAt := record.CreatedAt.UTC()
	updatedAt := record.UpdatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO campaigns (
		   id, name, owner_id, description, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?)`,
		campaignID,
		name,
		ownerID,
		strings.TrimSpace(record.Description),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

// GetCampaign returns one campaign by ID.
func (s *Store) GetCampaign(ctx context.Context, campaignID string) (storage.CampaignRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CampaignRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CampaignRecord{}, fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return storage.CampaignRecord{}, fmt.Errorf("campaign id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, owner_id, description, created_at, updated_at
		   FROM campaigns
		  WHERE id = ?`,
		campaignID,
	)

	var record storage.CampaignRecord
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&record.ID,
		&record.Name,
		&record.OwnerID,
		&record.Description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CampaignRecord{}, storage.ErrNotFound
		}
		return storage.CampaignRecord{}, fmt.Errorf("get campaign: %w", err)
	}

	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// ListCampaignsByOwner returns every campaign owned by a user, newest first.
func (s *Store) ListCampaignsByOwner(ctx context.Context, ownerID string) ([]storage.CampaignRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, owner_id, description, created_at, updated_at
		   FROM campaigns
		  WHERE owner_id = ?
		  ORDER BY created_at DESC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var records []storage.CampaignRecord
	for rows.Next() {
		var record storage.CampaignRecord
		var createdAt int64
		var updatedAt int64
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.OwnerID,
			&record.Description,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("list campaigns: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return records, nil
}

// DeleteCampaign removes one campaign with its members and entities.
func (s *Store) DeleteCampaign(ctx context.Context, campaignID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return fmt.Errorf("campaign id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ?`, campaignID)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete campaign: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete campaign: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return storage.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM campaign_members WHERE campaign_id = ?`, campaignID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete campaign members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM campaign_entities WHERE campaign_id = ?`, campaignID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete campaign entities: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return nil
}
