// Package campaign defines campaign records and creation rules.
package campaign

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
	"github.com/ravencote/lorekeep/internal/platform/id"
)

var (
	// ErrEmptyName indicates a missing campaign name.
	ErrEmptyName = apperrors.New(apperrors.CodeCampaignNameEmpty, "campaign name is required")
	// ErrMissingOwner indicates a missing campaign owner id.
	ErrMissingOwner = apperrors.New(apperrors.CodeCampaignOwnerMissing, "campaign owner is required")
)

// Campaign represents metadata for a campaign.
//
// OwnerID is permanent: the owner holds every permission implicitly, is never
// represented as a member row, and cannot be demoted or removed through
// membership operations.
type Campaign struct {
	ID      string
	Name    string
	OwnerID string
	// Description provides optional free-form campaign notes.
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateCampaignInput describes the metadata needed to create a campaign.
type CreateCampaignInput struct {
	Name        string
	OwnerID     string
	Description string
}

// CreateCampaign creates a new campaign with a generated ID and timestamps.
func CreateCampaign(input CreateCampaignInput, now func() time.Time, idGenerator func() (string, error)) (Campaign, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateCampaignInput(input)
	if err != nil {
		return Campaign{}, err
	}

	campaignID, err := idGenerator()
	if err != nil {
		return Campaign{}, fmt.Errorf("generate campaign id: %w", err)
	}

	createdAt := now().UTC()
	return Campaign{
		ID:          campaignID,
		Name:        normalized.Name,
		OwnerID:     normalized.OwnerID,
		Description: normalized.Description,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// NormalizeCreateCampaignInput trims and validates campaign input metadata.
func NormalizeCreateCampaignInput(input CreateCampaignInput) (CreateCampaignInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateCampaignInput{}, ErrEmptyName
	}
	input.OwnerID = strings.TrimSpace(input.OwnerID)
	if input.OwnerID == "" {
		return CreateCampaignInput{}, ErrMissingOwner
	}
	input.Description = strings.TrimSpace(input.Description)
	return input, nil
}
