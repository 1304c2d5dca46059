package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ravencote/lorekeep/internal/services/atlas/domain/member"
	"github.com/ravencote/lorekeep/internal/services/atlas/storage"
)

// CreateMember inserts one membership row.
// The composite primary key enforces (campaign_id, user_id) uniqueness, so
// concurrent creates for the same pair cannot both succeed.
func (s *Store) CreateMember(ctx context.Context, record storage.MemberRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	campaignID := strings.TrimSpace(record.CampaignID)
	userID := strings.TrimSpace(record.UserID)
	if campaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if !member.IsValidRole(record.Role) {
		return fmt.Errorf("member role is required")
	}
	if err := member.ValidateOverrides(record.Overrides); err != nil {
		return fmt.Errorf("member overrides: %w", err)
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
		`INSERT INTO campaign_members (
		   campaign_id, user_id, role, is_admin,
		   grant_view_entities, grant_create_entities, grant_edit_entities,
		   grant_delete_entities, grant_manage_members,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		campaignID,
		userID,
		int32(record.Role),
		boolToInt(record.IsAdmin),
		int32(record.Overrides.ViewEntities),
		int32(record.Overrides.CreateEntities),
		int32(record.Overrides.EditEntities),
		int32(record.Overrides.DeleteEntities),
		int32(record.Overrides.ManageMembers),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

// GetMember returns one membership row by its composite key.
func (s *Store) GetMember(ctx context.Context, campaignID string, userID string) (storage.MemberRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.MemberRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.MemberRecord{}, fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	userID = strings.TrimSpace(userID)
	if campaignID == "" {
		return storage.MemberRecord{}, fmt.Errorf("campaign id is required")
	}
	if userID == "" {
		return storage.MemberRecord{}, fmt.Errorf("user id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT campaign_id, user_id, role, is_admin,
		        grant_view_entities, grant_create_entities, grant_edit_entities,
		        grant_delete_entities, grant_manage_members,
		        created_at, updated_at
		   FROM campaign_members
		  WHERE campaign_id = ? AND user_id = ?`,
		campaignID,
		userID,
	)

	record, err := scanMember(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.MemberRecord{}, storage.ErrNotFound
		}
		return storage.MemberRecord{}, fmt.Errorf("get member: %w", err)
	}
	return record, nil
}

// UpdateMember replaces the mutable fields of one membership row.
func (s *Store) UpdateMember(ctx context.Context, record storage.MemberRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	campaignID := strings.TrimSpace(record.CampaignID)
	userID := strings.TrimSpace(record.UserID)
	if campaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if !member.IsValidRole(record.Role) {
		return fmt.Errorf("member role is required")
	}
	if err := member.ValidateOverrides(record.Overrides); err != nil {
		return fmt.Errorf("member overrides: %w", err)
	}
	updatedAt := record.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE campaign_members
		    SET role = ?, is_admin = ?,
		        grant_view_entities = ?, grant_create_entities = ?, grant_edit_entities = ?,
		        grant_delete_entities = ?, grant_manage_members = ?,
		        updated_at = ?
		  WHERE campaign_id = ? AND user_id = ?`,
		int32(record.Role),
		boolToInt(record.IsAdmin),
		int32(record.Overrides.ViewEntities),
		int32(record.Overrides.CreateEntities),
		int32(record.Overrides.EditEntities),
		int32(record.Overrides.DeleteEntities),
		int32(record.Overrides.ManageMembers),
		toMillis(updatedAt),
		campaignID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteMember removes one membership row.
func (s *Store) DeleteMember(ctx context.Context, campaignID string, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	userID = strings.TrimSpace(userID)
	if campaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM campaign_members WHERE campaign_id = ? AND user_id = ?`,
		campaignID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListMembers returns a campaign's members, highest role first, then by join time.
func (s *Store) ListMembers(ctx context.Context, campaignID string) ([]storage.MemberRecord, error) {
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
		`SELECT campaign_id, user_id, role, is_admin,
		        grant_view_entities, grant_create_entities, grant_edit_entities,
		        grant_delete_entities, grant_manage_members,
		        created_at, updated_at
		   FROM campaign_members
		  WHERE campaign_id = ?
		  ORDER BY role DESC, created_at ASC, user_id ASC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var records []storage.MemberRecord
	for rows.Next() {
		record, err := scanMember(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return records, nil
}

func scanMember(scan func(...any) error) (storage.MemberRecord, error) {
	var record storage.MemberRecord
	var role int32
	var isAdmin int32
	var grantView, grantCreate, grantEdit, grantDelete, grantMembers int32
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.CampaignID,
		&record.UserID,
		&role,
		&isAdmin,
		&grantView,
		&grantCreate,
		&grantEdit,
		&grantDelete,
		&grantMembers,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.MemberRecord{}, err
	}
	record.Role = member.Role(role)
	record.IsAdmin = isAdmin != 0
	record.Overrides = member.Overrides{
		ViewEntities:   member.Grant(grantView),
		CreateEntities: member.Grant(grantCreate),
		EditEntities:   member.Grant(grantEdit),
		DeleteEntities: member.Grant(grantDelete),
		ManageMembers:  member.Grant(grantMembers),
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func boolToInt(value bool) int32 {
	if value {
		return 1
	}
	return 0
}
