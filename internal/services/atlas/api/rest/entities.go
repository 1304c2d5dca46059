package rest

import (
	"net/http"
	"time"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/entity"
	"github.com/ravencote/lorekeep/internal/services/atlas/service"
	"github.com/ravencote/lorekeep/internal/services/atlas/storage"
)

type entityJSON struct {
	ID          string `json:"id"`
	CampaignID  string `json:"campaignId"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Body        string `json:"body,omitempty"`
	CreatedByID string `json:"createdById"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func entityToJSON(record storage.EntityRecord) entityJSON {
	return entityJSON{
		ID:          record.ID,
		CampaignID:  record.CampaignID,
		Kind:        entity.KindLabel(record.Kind),
		Name:        record.Name,
		Body:        record.Body,
		CreatedByID: record.CreatedByID,
		CreatedAt:   record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type createEntityRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Body string `json:"body"`
}

func (h *Handler) createEntity(w http.ResponseWriter, r *http.Request) {
	var body createEntityRequest
	if err := decodeBody(r, &body); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, string(apperrors.CodeUnknown), "invalid request body")
		return
	}
	kind, err := entity.KindFromLabel(body.Kind)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeEntityInvalidKind, "parse kind", err))
		return
	}
	record, err := h.service.CreateEntity(r.Context(), r.PathValue("campaignID"), callerID(r), entity.CreateEntityInput{
		Kind: kind,
		Name: body.Name,
		Body: body.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entityToJSON(record))
}

func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListEntities(r.Context(), r.PathValue("campaignID"), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	payload := struct {
		Entities []entityJSON `json:"entities"`
	}{Entities: make([]entityJSON, 0, len(records))}
	for _, record := range records {
		payload.Entities = append(payload.Entities, entityToJSON(record))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) getEntity(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetEntity(r.Context(), r.PathValue("campaignID"), r.PathValue("entityID"), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToJSON(record))
}

type updateEntityRequest struct {
	Name *string `json:"name"`
	Body *string `json:"body"`
}

func (h *Handler) updateEntity(w http.ResponseWriter, r *http.Request) {
	var body updateEntityRequest
	if err := decodeBody(r, &body); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, string(apperrors.CodeUnknown), "invalid request body")
		return
	}
	record, err := h.service.UpdateEntity(r.Context(), r.PathValue("campaignID"), r.PathValue("entityID"), callerID(r), service.EntityPatch{
		Name: body.Name,
		Body: body.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToJSON(record))
}

func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEntity(r.Context(), r.PathValue("campaignID"), r.PathValue("entityID"), callerID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
