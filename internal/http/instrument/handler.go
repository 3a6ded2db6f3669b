package instrument

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	enc "github.com/MrJamesThe3rd/partylink/internal/encoding"
	"github.com/MrJamesThe3rd/partylink/internal/http/respond"
	"github.com/MrJamesThe3rd/partylink/internal/importer"
	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

// Reconciler refreshes the aggregate of one party.
type Reconciler interface {
	Reconcile(ctx context.Context, partyID uuid.UUID, partyType party.Type) (party.Aggregate, error)
}

type Handler struct {
	svc        *instrument.Service
	links      *linkage.Service
	reconciler Reconciler
	importSvc  *importer.Service
}

func NewHandler(svc *instrument.Service, links *linkage.Service, reconciler Reconciler, importSvc *importer.Service) *Handler {
	return &Handler{
		svc:        svc,
		links:      links,
		reconciler: reconciler,
		importSvc:  importSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/import", h.importCSV)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
}

type createInstrumentRequest struct {
	Kind          instrument.Kind   `json:"kind"`
	Amount        int64             `json:"amount"`
	DueDate       time.Time         `json:"due_date"`
	Status        instrument.Status `json:"status"`
	RawOwnerName  string            `json:"raw_owner_name"`
	RawOwnerPhone string            `json:"raw_owner_phone"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInstrumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inst, err := h.svc.Create(r.Context(), instrument.CreateParams{
		Kind:          req.Kind,
		Amount:        req.Amount,
		DueDate:       req.DueDate,
		Status:        req.Status,
		RawOwnerName:  req.RawOwnerName,
		RawOwnerPhone: req.RawOwnerPhone,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(inst))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := instrument.ListFilter{}

	if s := r.URL.Query().Get("kind"); s != "" {
		k := instrument.Kind(s)
		if !k.Valid() {
			http.Error(w, "invalid instrument kind", http.StatusBadRequest)
			return
		}

		filter.Kind = &k
	}

	insts, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(insts))
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var opts importer.Options

	if s := r.FormValue("charset"); s != "" {
		cs, err := enc.ParseCharset(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		opts.Charset = cs
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, meta, err := h.importSvc.ParseInstruments(file, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	insts, err := h.svc.CreateBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		Profile:     meta.Profile,
		Charset:     string(meta.Charset),
		Imported:    len(insts),
		Instruments: toResponseList(insts),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inst, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inst))
}

type updateStatusRequest struct {
	Status instrument.Status `json:"status"`
}

// updateStatus records an upstream status change and refreshes the owner's aggregate, if linked.
func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respond.Error(w, err)
		return
	}

	rec, err := h.links.FindByInstrument(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if rec != nil {
		if _, err := h.reconciler.Reconcile(r.Context(), rec.PartyID, rec.PartyType); err != nil {
			slog.Error("failed to reconcile owner after status change",
				"instrument_id", id,
				"party_id", rec.PartyID,
				"error", err,
			)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
