// Package entity defines campaign-scoped worldbuilding records.
package entity

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
	"github.com/ravencote/lorekeep/internal/platform/id"
)

// Kind describes the type of a worldbuilding entity.
type Kind int

const (
	// KindUnspecified represents an invalid entity kind value.
	KindUnspecified Kind = iota
	// KindCharacter is a person or creature in the campaign world.
	KindCharacter
	// KindLocation is a place in the campaign world.
	KindLocation
	// KindItem is an object of note.
	KindItem
	// KindQuest is a storyline or objective.
	KindQuest
	// KindMap is a drawn or imported map.
	KindMap
	// KindNote is free-form prose.
	KindNote
)

var (
	// ErrEmptyCampaignID indicates a missing campaign id.
	ErrEmptyCampaignID = apperrors.New(apperrors.CodeEntityEmptyCampaignID, "campaign id is required")
	// ErrEmptyName indicates a missing entity name.
	ErrEmptyName = apperrors.New(apperrors.CodeEntityEmptyName, "entity name is required")
	// ErrInvalidKind indicates a missing or invalid entity kind.
	ErrInvalidKind = apperrors.New(apperrors.CodeEntityInvalidKind, "entity kind is required")
	// ErrMissingCreator indicates a missing creator id.
	ErrMissingCreator = apperrors.New(apperrors.CodeEntityCreatorMissing, "entity creator is required")
)

// Entity is one campaign-scoped worldbuilding record.
//
// CreatedByID is immutable and feeds the creator bypass: the author of an
// entity may always edit or delete it regardless of campaign-wide grants.
type Entity struct {
	ID         string
	CampaignID string
	Kind       Kind
	Name       string
	// Body holds free-form entity content.
	Body        string
	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// KindLabel returns a stable label for an entity kind.
func KindLabel(kind Kind) string {
	switch kind {
	case KindCharacter:
		return "CHARACTER"
	case KindLocation:
		return "LOCATION"
	case KindItem:
		return "ITEM"
	case KindQuest:
		return "QUEST"
	case KindMap:
		return "MAP"
	case KindNote:
		return "NOTE"
	default:
		return "UNSPECIFIED"
	}
}

// KindFromLabel parses a string label into a Kind.
// It trims whitespace and matches case-insensitively.
func KindFromLabel(value string) (Kind, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return KindUnspecified, fmt.Errorf("entity kind is required")
	}
	upper := strings.ToUpper(trimmed)
	switch upper {
	case "CHARACTER", "ENTITY_KIND_CHARACTER":
		return KindCharacter, nil
	case "LOCATION", "ENTITY_KIND_LOCATION":
		return KindLocation, nil
	case "ITEM", "ENTITY_KIND_ITEM":
		return KindItem, nil
	case "QUEST", "ENTITY_KIND_QUEST":
		return KindQuest, nil
	case "MAP", "ENTITY_KIND_MAP":
		return KindMap, nil
	case "NOTE", "ENTITY_KIND_NOTE":
		return KindNote, nil
	default:
		return KindUnspecified, fmt.Errorf("unknown entity kind: %s", trimmed)
	}
}

// IsValidKind reports whether the kind is a defined, non-zero value.
func IsValidKind(kind Kind) bool {
	switch kind {
	case KindCharacter, KindLocation, KindItem, KindQuest, KindMap, KindNote:
		return true
	default:
		return false
	}
}

// CreateEntityInput describes the fields needed to create an entity.
type CreateEntityInput struct {
	CampaignID  string
	Kind        Kind
	Name        string
	Body        string
	CreatedByID string
}

// CreateEntity creates a new entity with a generated ID and timestamps.
func CreateEntity(input CreateEntityInput, now func() time.Time, idGenerator func() (string, error)) (Entity, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateEntityInput(input)
	if err != nil {
		return Entity{}, err
	}

	entityID, err := idGenerator()
	if err != nil {
		return Entity{}, fmt.Errorf("generate entity id: %w", err)
	}

	createdAt := now().UTC()
	return Entity{
		ID:          entityID,
		CampaignID:  normalized.CampaignID,
		Kind:        normalized.Kind,
		Name:        normalized.Name,
		Body:        normalized.Body,
		CreatedByID: normalized.CreatedByID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// NormalizeCreateEntityInput trims and validates entity input.
func NormalizeCreateEntityInput(input CreateEntityInput) (CreateEntityInput, error) {
	input.CampaignID = strings.TrimSpace(input.CampaignID)
	if input.CampaignID == "" {
		return CreateEntityInput{}, ErrEmptyCampaignID
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateEntityInput{}, ErrEmptyName
	}
	if !IsValidKind(input.Kind) {
		return CreateEntityInput{}, ErrInvalidKind
	}
	input.CreatedByID = strings.TrimSpace(input.CreatedByID)
	if input.CreatedByID == "" {
		return CreateEntityInput{}, ErrMissingCreator
	}
	return input, nil
}
