package service

import (
	"context"
	"path/filepath"
	"testing"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
	"github.com/ravencote/lorekeep/internal/services/atlas/access"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/campaign"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/entity"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/member"
	"github.com/ravencote/lorekeep/internal/services/atlas/storage/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "atlas.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store)
}

func seedCampaign(t *testing.T, service *Service, ownerID string) string {
	t.Helper()
	record, err := service.CreateCampaign(context.Background(), ownerID, campaign.CreateCampaignInput{Name: "Vale"})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return record.ID
}

func TestCreateCampaignRequiresCaller(t *testing.T) {
	t.Parallel()

	service := newTestService(t)
	_, err := service.CreateCampaign(context.Background(), "  ", campaign.CreateCampaignInput{Name: "Vale"})
	if !apperrors.IsCode(err, apperrors.CodeUnauthenticated) {
		t.Fatalf("error = %v, want CodeUnauthenticated", err)
	}
}

func TestDeleteCampaignOwnerOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := newTestService(t)
	campaignID := seedCampaign(t, service, "user-owner")

	_, err := service.Authorizer().AddMember(ctx, campaignID, "user-owner", access.AddMemberInput{
		UserID: "user-admin", Role: member.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("add admin: %v", err)
	}

	// Even an admin-role member cannot delete the campaign itself.
	err = service.DeleteCampaign(ctx, campaignID, "user-admin")
	if !apperrors.IsCode(err, apperrors.CodePermissionDenied) {
		t.Fatalf("admin delete error = %v, want CodePermissionDenied", err)
	}

	if err := service.DeleteCampaign(ctx, campaignID, "user-owner"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := service.GetCampaign(ctx, campaignID, "user-owner"); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("get after delete error = %v, want CodeNotFound", err)
	}
}

func TestUpdateEntityPatchSemantics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := newTestService(t)
	campaignID := seedCampaign(t, service, "user-owner")

	created, err := service.CreateEntity(ctx, campaignID, "user-owner", entity.CreateEntityInput{
		Kind: entity.KindNote, Name: "Tidal charts", Body: "First draft.",
	})
	if err != nil {
		t.Fatalf("create entity: %v", err)
	}

	_, err = service.UpdateEntity(ctx, campaignID, created.ID, "user-owner", EntityPatch{})
	if !apperrors.IsCode(err, apperrors.CodeEntityUpdateEmpty) {
		t.Fatalf("empty patch error = %v, want CodeEntityUpdateEmpty", err)
	}

	body := "Second draft."
	updated, err := service.UpdateEntity(ctx, campaignID, created.ID, "user-owner", EntityPatch{Body: &body})
	if err != nil {
		t.Fatalf("update entity: %v", err)
	}
	if updated.Name != "Tidal charts" {
		t.Fatalf("name = %q, want unchanged", updated.Name)
	}
	if updated.Body != body {
		t.Fatalf("body = %q, want %q", updated.Body, body)
	}

	blank := "  "
	if _, err := service.UpdateEntity(ctx, campaignID, created.ID, "user-owner", EntityPatch{Name: &blank}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestEntityMutationDenialIsOpaque(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := newTestService(t)
	campaignID := seedCampaign(t, service, "user-owner")

	_, err := service.Authorizer().AddMember(ctx, campaignID, "user-owner", access.AddMemberInput{
		UserID: "user-viewer", Role: member.RoleViewer,
	})
	if err != nil {
		t.Fatalf("add viewer: %v", err)
	}
	created, err := service.CreateEntity(ctx, campaignID, "user-owner", entity.CreateEntityInput{
		Kind: entity.KindQuest, Name: "Recover the bell",
	})
	if err != nil {
		t.Fatalf("create entity: %v", err)
	}

	err = service.DeleteEntity(ctx, campaignID, created.ID, "user-viewer")
	if !apperrors.IsCode(err, apperrors.CodePermissionDenied) {
		t.Fatalf("viewer delete error = %v, want CodePermissionDenied", err)
	}
	// The denial never says which branch failed.
	if md := apperrors.GetMetadata(err); len(md) != 0 {
		t.Fatalf("metadata = %v, want none", md)
	}
}
