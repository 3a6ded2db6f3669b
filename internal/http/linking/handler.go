package linking

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/http/respond"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/linking"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

type Handler struct {
	orchestrator *linking.Orchestrator
	links        *linkage.Service
}

func NewHandler(orchestrator *linking.Orchestrator, links *linkage.Service) *Handler {
	return &Handler{orchestrator: orchestrator, links: links}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/batch", h.runBatch)
	r.Get("/stats", h.stats)
	r.Get("/instruments/{id}/link", h.getLink)
	r.Post("/instruments/{id}/link", h.manualLink)
	r.Delete("/instruments/{id}/link", h.unlink)
	r.Get("/instruments/{id}/suggestions", h.suggestions)
}

func (h *Handler) runBatch(w http.ResponseWriter, r *http.Request) {
	res, err := h.orchestrator.RunAll(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBatchResponse(res))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.orchestrator.Stats(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toStatsResponse(st))
}

func (h *Handler) getLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rec, err := h.links.FindByInstrument(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if rec == nil {
		http.Error(w, "instrument not linked", http.StatusNotFound)
		return
	}

	respond.JSON(w, http.StatusOK, toLinkResponse(rec))
}

type manualLinkRequest struct {
	PartyID   uuid.UUID  `json:"party_id"`
	PartyType party.Type `json:"party_type"`
	LinkedBy  string     `json:"linked_by"`
}

func (h *Handler) manualLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req manualLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.orchestrator.ManualLink(r.Context(), id, req.PartyID, req.PartyType, req.LinkedBy)
	if rec == nil {
		respond.Error(w, err)
		return
	}

	resp := toLinkResponse(rec)

	if err != nil {
		slog.Error("link stored but reconciliation failed", "instrument_id", id, "error", err)
		resp.ReconcileError = err.Error()
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) unlink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	removed, err := h.orchestrator.Unlink(r.Context(), id)
	if err != nil && !removed {
		respond.Error(w, err)
		return
	}

	if err != nil {
		slog.Error("link removed but reconciliation failed", "instrument_id", id, "error", err)
	}

	respond.JSON(w, http.StatusOK, unlinkResponse{Removed: removed})
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	s, err := h.orchestrator.Suggestions(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSuggestionList(s))
}
