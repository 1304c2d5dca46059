package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ravencote/lorekeep/internal/services/atlas/domain/entity"
	"github.com/ravencote/lorekeep/internal/services/atlas/storage"
)

// CreateEntity inserts one entity record.
func (s *Store) CreateEntity(ctx context.Context, record storage.EntityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	entityID := strings.TrimSpace(record.ID)
	campaignID := strings.TrimSpace(record.CampaignID)
	name := strings.TrimSpace(record.Name)
	createdByID := strings.TrimSpace(record.CreatedByID)
	if entityID == "" {
		return fmt.Errorf("entity id is required")
	}
	if campaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if name == "" {
		return fmt.Errorf("entity name is required")
	}
	if !entity.IsValidKind(record.Kind) {
		return fmt.Errorf("entity kind is required")
	}
	if createdByID == "" {
		return fmt.Errorf("entity creator is required")
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
		`INSERT INTO campaign_entities (
		   id, campaign_id, kind, name, body, created_by_id, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entityID,
		campaignID,
		int32(record.Kind),
		name,
		record.Body,
		createdByID,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create entity: %w", err)
	}
	return nil
}

// GetEntity returns one entity by campaign and entity ID.
func (s *Store) GetEntity(ctx context.Context, campaignID string, entityID string) (storage.EntityRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.EntityRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EntityRecord{}, fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	entityID = strings.TrimSpace(entityID)
	if campaignID == "" {
		return storage.EntityRecord{}, fmt.Errorf("campaign id is required")
	}
	if entityID == "" {
		return storage.EntityRecord{}, fmt.Errorf("entity id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, campaign_id, kind, name, body, created_by_id, created_at, updated_at
		   FROM campaign_entities
		  WHERE campaign_id = ? AND id = ?`,
		campaignID,
		entityID,
	)

	record, err := scanEntity(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.EntityRecord{}, storage.ErrNotFound
		}
		return storage.EntityRecord{}, fmt.Errorf("get entity: %w", err)
	}
	return record, nil
}

// UpdateEntity replaces the mutable fields of one entity record.
func (s *Store) UpdateEntity(ctx context.Context, record storage.EntityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	campaignID := strings.TrimSpace(record.CampaignID)
	entityID := strings.TrimSpace(record.ID)
	name := strings.TrimSpace(record.Name)
	if campaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if entityID == "" {
		return fmt.Errorf("entity id is required")
	}
	if name == "" {
		return fmt.Errorf("entity name is required")
	}
	updatedAt := record.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE campaign_entities
		    SET name = ?, body = ?, updated_at = ?
		  WHERE campaign_id = ? AND id = ?`,
		name,
		record.Body,
		toMillis(updatedAt),
		campaignID,
		entityID,
	)
	if err != nil {
		return fmt.Errorf("update entity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entity: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteEntity removes one entity record.
func (s *Store) DeleteEntity(ctx context.Context, campaignID string, entityID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	entityID = strings.TrimSpace(entityID)
	if campaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if entityID == "" {
		return fmt.Errorf("entity id is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM campaign_entities WHERE campaign_id = ? AND id = ?`,
		campaignID,
		entityID,
	)
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListEntities returns a campaign's entities, newest first.
func (s *Store) ListEntities(ctx context.Context, campaignID string) ([]storage.EntityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, fmt.Errorf("campaign id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, campaign_id, kind, name, body, created_by_id, created_at, updated_at
		   FROM campaign_entities
		  WHERE campaign_id = ?
		  ORDER BY created_at DESC, id ASC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var records []storage.EntityRecord
	for rows.Next() {
		record, err := scanEntity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list entities: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	return records, nil
}

func scanEntity(scan func(...any) error) (storage.EntityRecord, error) {
	var record storage.EntityRecord
	var kind int32
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&record.CampaignID,
		&kind,
		&record.Name,
		&record.Body,
		&record.CreatedByID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.EntityRecord{}, err
	}
	record.Kind = entity.Kind(kind)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
