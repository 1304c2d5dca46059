package rest

import (
	"net/http"
	"time"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/campaign"
	"github.com/ravencote/lorekeep/internal/services/atlas/storage"
)

type campaignJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OwnerID     string `json:"ownerId"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func campaignToJSON(record storage.CampaignRecord) campaignJSON {
	return campaignJSON{
		ID:          record.ID,
		Name:        record.Name,
		OwnerID:     record.OwnerID,
		Description: record.Description,
		CreatedAt:   record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type createCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	var body createCampaignRequest
	if err := decodeBody(r, &body); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, string(apperrors.CodeUnknown), "invalid request body")
		return
	}
	record, err := h.service.CreateCampaign(r.Context(), callerID(r), campaign.CreateCampaignInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaignToJSON(record))
}

func (h *Handler) listCampaigns(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListCampaigns(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	payload := struct {
		Campaigns []campaignJSON `json:"campaigns"`
	}{Campaigns: make([]campaignJSON, 0, len(records))}
	for _, record := range records {
		payload.Campaigns = append(payload.Campaigns, campaignToJSON(record))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) getCampaign(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetCampaign(r.Context(), r.PathValue("campaignID"), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaignToJSON(record))
}

func (h *Handler) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCampaign(r.Context(), r.PathValue("campaignID"), callerID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
