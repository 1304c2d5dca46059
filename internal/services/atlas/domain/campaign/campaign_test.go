package campaign

import (
	"errors"
	"testing"
	"time"
)

func TestCreateCampaignValidatesInput(t *testing.T) {
	t.Parallel()

	if _, err := CreateCampaign(CreateCampaignInput{OwnerID: "user-1"}, nil, nil); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("error = %v, want %v", err, ErrEmptyName)
	}
	if _, err := CreateCampaign(CreateCampaignInput{Name: "The Sunken Vale"}, nil, nil); !errors.Is(err, ErrMissingOwner) {
		t.Fatalf("error = %v, want %v", err, ErrMissingOwner)
	}
}

func TestCreateCampaignPopulatesRecord(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 5, 2, 18, 30, 0, 0, time.UTC)
	created, err := CreateCampaign(CreateCampaignInput{
		Name:        "  The Sunken Vale  ",
		OwnerID:     " user-1 ",
		Description: " Coastal intrigue. ",
	}, func() time.Time { return fixed }, func() (string, error) { return "campaign-1", nil })
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}

	if created.ID != "campaign-1" {
		t.Fatalf("id = %q, want %q", created.ID, "campaign-1")
	}
	if created.Name != "The Sunken Vale" {
		t.Fatalf("name = %q, want trimmed name", created.Name)
	}
	if created.OwnerID != "user-1" {
		t.Fatalf("owner = %q, want %q", created.OwnerID, "user-1")
	}
	if created.Description != "Coastal intrigue." {
		t.Fatalf("description = %q, want trimmed description", created.Description)
	}
	if !created.CreatedAt.Equal(fixed) || !created.UpdatedAt.Equal(fixed) {
		t.Fatalf("timestamps = %v/%v, want %v", created.CreatedAt, created.UpdatedAt, fixed)
	}
}

func TestCreateCampaignPropagatesIDError(t *testing.T) {
	t.Parallel()

	boom := errors.New("id backend down")
	_, err := CreateCampaign(CreateCampaignInput{Name: "x", OwnerID: "user-1"}, nil, func() (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
}

func TestCreateCampaignGeneratesUniqueIDs(t *testing.T) {
	t.Parallel()

	first, err := CreateCampaign(CreateCampaignInput{Name: "a", OwnerID: "user-1"}, nil, nil)
	if err != nil {
		t.Fatalf("create first campaign: %v", err)
	}
	second, err := CreateCampaign(CreateCampaignInput{Name: "b", OwnerID: "user-1"}, nil, nil)
	if err != nil {
		t.Fatalf("create second campaign: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct generated ids, got %q twice", first.ID)
	}
}
