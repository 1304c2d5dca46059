// Package storage defines persistence contracts for atlas service state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ravencote/lorekeep/internal/services/atlas/domain/entity"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/member"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// CampaignRecord stores one campaign with its permanent owner.
type CampaignRecord struct {
	ID          string
	Name        string
	OwnerID     string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MemberRecord stores one campaign membership row.
// The (CampaignID, UserID) pair is unique per campaign; the backing store
// enforces the constraint so concurrent creates cannot both succeed.
type MemberRecord struct {
	CampaignID string
	UserID     string
	Role       member.Role
	IsAdmin    bool
	Overrides  member.Overrides
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EntityRecord stores one campaign-scoped worldbuilding entity.
type EntityRecord struct {
	ID          string
	CampaignID  string
	Kind        entity.Kind
	Name        string
	Body        string
	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CampaignStore persists campaign records.
type CampaignStore interface {
	CreateCampaign(ctx context.Context, record CampaignRecord) error
	GetCampaign(ctx context.Context, campaignID string) (CampaignRecord, error)
	ListCampaignsByOwner(ctx context.Context, ownerID string) ([]CampaignRecord, error)
	DeleteCampaign(ctx context.Context, campaignID string) error
}

// MemberStore persists campaign membership rows.
type MemberStore interface {
	CreateMember(ctx context.Context, record MemberRecord) error
	GetMember(ctx context.Context, campaignID string, userID string) (MemberRecord, error)
	UpdateMember(ctx context.Context, record MemberRecord) error
	DeleteMember(ctx context.Context, campaignID string, userID string) error
	// ListMembers returns members ordered by role, then join time.
	ListMembers(ctx context.Context, campaignID string) ([]MemberRecord, error)
}

// EntityStore persists campaign-scoped entities.
type EntityStore interface {
	CreateEntity(ctx context.Context, record EntityRecord) error
	GetEntity(ctx context.Context, campaignID string, entityID string) (EntityRecord, error)
	UpdateEntity(ctx context.Context, record EntityRecord) error
	DeleteEntity(ctx context.Context, campaignID string, entityID string) error
	ListEntities(ctx context.Context, campaignID string) ([]EntityRecord, error)
}

// Store aggregates the persistence contracts the atlas service depends on.
type Store interface {
	CampaignStore
	MemberStore
	EntityStore
}
