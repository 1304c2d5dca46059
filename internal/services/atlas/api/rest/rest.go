// Package rest exposes the atlas HTTP JSON API.
//
// Handlers stay thin: resolve the caller, call the service or authorizer,
// and translate structured errors into HTTP statuses.
package rest

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
	"github.com/ravencote/lorekeep/internal/platform/requestctx"
	"github.com/ravencote/lorekeep/internal/services/atlas/service"
)

// Handler serves the atlas REST API.
type Handler struct {
	service *service.Service
}

// NewHandler builds the atlas HTTP routes wrapped with authentication and
// request tracing.
func NewHandler(svc *service.Service, tokenSecret []byte) http.Handler {
	h := &Handler{service: svc}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/campaigns", h.createCampaign)
	mux.HandleFunc("GET /v1/campaigns", h.listCampaigns)
	mux.HandleFunc("GET /v1/campaigns/{campaignID}", h.getCampaign)
	mux.HandleFunc("DELETE /v1/campaigns/{campaignID}", h.deleteCampaign)

	mux.HandleFunc("GET /v1/campaigns/{campaignID}/members", h.listMembers)
	mux.HandleFunc("POST /v1/campaigns/{campaignID}/members", h.addMember)
	mux.HandleFunc("PATCH /v1/campaigns/{campaignID}/members/{userID}", h.updateMember)
	mux.HandleFunc("DELETE /v1/campaigns/{campaignID}/members/{userID}", h.removeMember)
	mux.HandleFunc("POST /v1/campaigns/{campaignID}/leave", h.leaveCampaign)

	mux.HandleFunc("POST /v1/campaigns/{campaignID}/entities", h.createEntity)
	mux.HandleFunc("GET /v1/campaigns/{campaignID}/entities", h.listEntities)
	mux.HandleFunc("GET /v1/campaigns/{campaignID}/entities/{entityID}", h.getEntity)
	mux.HandleFunc("PATCH /v1/campaigns/{campaignID}/entities/{entityID}", h.updateEntity)
	mux.HandleFunc("DELETE /v1/campaigns/{campaignID}/entities/{entityID}", h.deleteEntity)

	return otelhttp.NewHandler(authenticate(tokenSecret, mux), "atlas.rest")
}

// callerID returns the authenticated user id, or empty for anonymous calls.
func callerID(r *http.Request) string {
	return requestctx.UserIDFromContext(r.Context())
}

type errorBody struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	body := errorBody{
		Code:     string(code),
		Message:  err.Error(),
		Metadata: apperrors.GetMetadata(err),
	}
	writeJSON(w, code.HTTPStatus(), errorResponse{Error: body})
}

func writeErrorStatus(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func decodeBody(r *http.Request, target any) error {
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
