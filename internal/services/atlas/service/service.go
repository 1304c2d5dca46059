// Package service exposes campaign and entity operations gated by the
// authorization engine. The serving lifecycle lives in the app package.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
	"github.com/ravencote/lorekeep/internal/platform/id"
	"github.com/ravencote/lorekeep/internal/services/atlas/access"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/campaign"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/entity"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/member"
	"github.com/ravencote/lorekeep/internal/services/atlas/storage"
)

// Service exposes campaign and entity operations gated by the authorizer.
// The handlers are deliberately thin: authorize, then one storage call.
type Service struct {
	store      storage.Store
	authorizer *access.Authorizer
	clock      func() time.Time
	newID      func() (string, error)
}

// NewService creates an atlas service over one storage backend.
func NewService(store storage.Store) *Service {
	return &Service{
		store:      store,
		authorizer: access.NewAuthorizer(store),
		clock:      time.Now,
		newID:      id.NewID,
	}
}

// Authorizer exposes the underlying authorization engine.
func (s *Service) Authorizer() *access.Authorizer {
	if s == nil {
		return nil
	}
	return s.authorizer
}

func (s *Service) ready() error {
	if s == nil || s.store == nil || s.authorizer == nil {
		return apperrors.New(apperrors.CodeStorageFailure, "service is not configured")
	}
	return nil
}

// CreateCampaign creates a campaign owned by the caller.
func (s *Service) CreateCampaign(ctx context.Context, ownerID string, in campaign.CreateCampaignInput) (storage.CampaignRecord, error) {
	if err := s.ready(); err != nil {
		return storage.CampaignRecord{}, err
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return storage.CampaignRecord{}, apperrors.New(apperrors.CodeUnauthenticated, "caller identity is required")
	}
	in.OwnerID = ownerID

	created, err := campaign.CreateCampaign(in, s.clock, s.newID)
	if err != nil {
		return storage.CampaignRecord{}, err
	}
	record := storage.CampaignRecord{
		ID:          created.ID,
		Name:        created.Name,
		OwnerID:     created.OwnerID,
		Description: created.Description,
		CreatedAt:   created.CreatedAt,
		UpdatedAt:   created.UpdatedAt,
	}
	if err := s.store.CreateCampaign(ctx, record); err != nil {
		return storage.CampaignRecord{}, apperrors.Wrap(apperrors.CodeStorageFailure, "create campaign", err)
	}
	return record, nil
}

// GetCampaign returns a campaign the caller can access.
func (s *Service) GetCampaign(ctx context.Context, campaignID, userID string) (storage.CampaignRecord, error) {
	if err := s.ready(); err != nil {
		return storage.CampaignRecord{}, err
	}
	if err := s.authorizer.RequireCampaignAccess(ctx, campaignID, userID); err != nil {
		return storage.CampaignRecord{}, err
	}
	record, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.CampaignRecord{}, apperrors.New(apperrors.CodeNotFound, "campaign not found")
		}
		return storage.CampaignRecord{}, apperrors.Wrap(apperrors.CodeStorageFailure, "get campaign", err)
	}
	return record, nil
}

// ListCampaigns returns the campaigns the caller owns.
func (s *Service) ListCampaigns(ctx context.Context, ownerID string) ([]storage.CampaignRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "caller identity is required")
	}
	records, err := s.store.ListCampaignsByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageFailure, "list campaigns", err)
	}
	return records, nil
}

// DeleteCampaign removes a campaign. Only the owner may delete.
func (s *Service) DeleteCampaign(ctx context.Context, campaignID, userID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperrors.New(apperrors.CodeUnauthenticated, "caller identity is required")
	}
	record, err := s.store.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "campaign not found")
		}
		return apperrors.Wrap(apperrors.CodeStorageFailure, "get campaign", err)
	}
	if record.OwnerID != userID {
		return apperrors.WithMetadata(apperrors.CodePermissionDenied, "only the owner may delete a campaign", map[string]string{
			"Reason": "DENY_NOT_OWNER",
		})
	}
	if err := s.store.DeleteCampaign(ctx, record.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "campaign not found")
		}
		return apperrors.Wrap(apperrors.CodeStorageFailure, "delete campaign", err)
	}
	return nil
}

// CreateEntity creates an entity in a campaign the caller can write to.
func (s *Service) CreateEntity(ctx context.Context, campaignID, userID string, in entity.CreateEntityInput) (storage.EntityRecord, error) {
	if err := s.ready(); err != nil {
		return storage.EntityRecord{}, err
	}
	if err := s.authorizer.RequirePermission(ctx, campaignID, userID, member.PermissionCreateEntities); err != nil {
		return storage.EntityRecord{}, err
	}
	in.CampaignID = strings.TrimSpace(campaignID)
	in.CreatedByID = strings.TrimSpace(userID)

	created, err := entity.CreateEntity(in, s.clock, s.newID)
	if err != nil {
		return storage.EntityRecord{}, err
	}
	record := storage.EntityRecord{
		ID:          created.ID,
		CampaignID:  created.CampaignID,
		Kind:        created.Kind,
		Name:        created.Name,
		Body:        created.Body,
		CreatedByID: created.CreatedByID,
		CreatedAt:   created.CreatedAt,
		UpdatedAt:   created.UpdatedAt,
	}
	if err := s.store.CreateEntity(ctx, record); err != nil {
		return storage.EntityRecord{}, apperrors.Wrap(apperrors.CodeStorageFailure, "create entity", err)
	}
	return record, nil
}

// GetEntity returns one entity from a campaign the caller can view.
func (s *Service) GetEntity(ctx context.Context, campaignID, entityID, userID string) (storage.EntityRecord, error) {
	if err := s.ready(); err != nil {
		return storage.EntityRecord{}, err
	}
	if err := s.authorizer.RequirePermission(ctx, campaignID, userID, member.PermissionViewEntities); err != nil {
		return storage.EntityRecord{}, err
	}
	record, err := s.store.GetEntity(ctx, campaignID, entityID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.EntityRecord{}, apperrors.New(apperrors.CodeNotFound, "entity not found")
		}
		return storage.EntityRecord{}, apperrors.Wrap(apperrors.CodeStorageFailure, "get entity", err)
	}
	return record, nil
}

// ListEntities returns a campaign's entities for callers who can view them.
func (s *Service) ListEntities(ctx context.Context, campaignID, userID string) ([]storage.EntityRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := s.authorizer.RequirePermission(ctx, campaignID, userID, member.PermissionViewEntities); err != nil {
		return nil, err
	}
	records, err := s.store.ListEntities(ctx, campaignID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageFailure, "list entities", err)
	}
	return records, nil
}

// EntityPatch carries partial entity updates.
type EntityPatch struct {
	Name *string
	Body *string
}

// UpdateEntity applies a partial patch to one entity.
//
// Access follows the entity mutation rule: campaign-wide edit permission,
// authorship, or campaign ownership.
func (s *Service) UpdateEntity(ctx context.Context, campaignID, entityID, userID string, patch EntityPatch) (storage.EntityRecord, error) {
	if err := s.ready(); err != nil {
		return storage.EntityRecord{}, err
	}
	record, err := s.loadEntityForMutation(ctx, campaignID, entityID, userID, member.PermissionEditEntities)
	if err != nil {
		return storage.EntityRecord{}, err
	}
	if patch.Name == nil && patch.Body == nil {
		return storage.EntityRecord{}, apperrors.New(apperrors.CodeEntityUpdateEmpty, "entity update requires at least one field")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return storage.EntityRecord{}, entity.ErrEmptyName
		}
		record.Name = name
	}
	if patch.Body != nil {
		record.Body = *patch.Body
	}
	record.UpdatedAt = s.clock().UTC()

	if err := s.store.UpdateEntity(ctx, record); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.EntityRecord{}, apperrors.New(apperrors.CodeNotFound, "entity not found")
		}
		return storage.EntityRecord{}, apperrors.Wrap(apperrors.CodeStorageFailure, "update entity", err)
	}
	return record, nil
}

// DeleteEntity removes one entity under the entity mutation rule.
func (s *Service) DeleteEntity(ctx context.Context, campaignID, entityID, userID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	record, err := s.loadEntityForMutation(ctx, campaignID, entityID, userID, member.PermissionDeleteEntities)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEntity(ctx, record.CampaignID, record.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "entity not found")
		}
		return apperrors.Wrap(apperrors.CodeStorageFailure, "delete entity", err)
	}
	return nil
}

// loadEntityForMutation loads the entity and applies the three-way mutation
// rule once. Callers observe only allow or deny.
func (s *Service) loadEntityForMutation(ctx context.Context, campaignID, entityID, userID string, permission member.Permission) (storage.EntityRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.EntityRecord{}, apperrors.New(apperrors.CodeUnauthenticated, "caller identity is required")
	}
	record, err := s.store.GetEntity(ctx, strings.TrimSpace(campaignID), strings.TrimSpace(entityID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.EntityRecord{}, apperrors.New(apperrors.CodeNotFound, "entity not found")
		}
		return storage.EntityRecord{}, apperrors.Wrap(apperrors.CodeStorageFailure, "get entity", err)
	}
	allowed, err := s.authorizer.CanModifyEntity(ctx, record.CampaignID, userID, record.CreatedByID, permission)
	if err != nil {
		return storage.EntityRecord{}, err
	}
	if !allowed {
		return storage.EntityRecord{}, apperrors.New(apperrors.CodePermissionDenied, "cannot modify entity")
	}
	return record, nil
}
