package party

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	enc "github.com/MrJamesThe3rd/partylink/internal/encoding"
	"github.com/MrJamesThe3rd/partylink/internal/http/respond"
	"github.com/MrJamesThe3rd/partylink/internal/importer"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

// Reconciler refreshes the aggregate of one party.
type Reconciler interface {
	Reconcile(ctx context.Context, partyID uuid.UUID, partyType party.Type) (party.Aggregate, error)
}

type Handler struct {
	svc        *party.Service
	links      *linkage.Service
	reconciler Reconciler
	importSvc  *importer.Service
}

func NewHandler(svc *party.Service, links *linkage.Service, reconciler Reconciler, importSvc *importer.Service) *Handler {
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
	r.Get("/{type}/{id}", h.get)
	r.Get("/{type}/{id}/links", h.listLinks)
	r.Post("/{type}/{id}/reconcile", h.reconcile)
}

type createPartyRequest struct {
	Type  party.Type `json:"type"`
	Name  string     `json:"name"`
	Phone string     `json:"phone"`
	Email string     `json:"email"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Create(r.Context(), party.CreateParams{
		Type:  req.Type,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := party.ListFilter{}

	if s := r.URL.Query().Get("type"); s != "" {
		t := party.Type(s)
		if !t.Valid() {
			http.Error(w, "invalid party type", http.StatusBadRequest)
			return
		}

		filter.Type = &t
	}

	ps, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(ps))
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts, err := importOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, meta, err := h.importSvc.ParseParties(file, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{
		Profile: meta.Profile,
		Charset: string(meta.Charset),
		Parties: make([]partyResponse, 0, len(params)),
	}

	for _, p := range params {
		created, err := h.svc.Create(r.Context(), p)
		if err != nil {
			respond.Error(w, fmt.Errorf("creating party %q: %w", p.Name, err))
			return
		}

		resp.Parties = append(resp.Parties, toResponse(created))
	}

	resp.Imported = len(resp.Parties)

	respond.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, t, ok := partyRef(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id, t)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) listLinks(w http.ResponseWriter, r *http.Request) {
	id, t, ok := partyRef(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Get(r.Context(), id, t); err != nil {
		respond.Error(w, err)
		return
	}

	recs, err := h.links.FindByParty(r.Context(), id, t)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toLinkList(recs))
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	id, t, ok := partyRef(w, r)
	if !ok {
		return
	}

	agg, err := h.reconciler.Reconcile(r.Context(), id, t)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toAggregateResponse(agg))
}

func partyRef(w http.ResponseWriter, r *http.Request) (uuid.UUID, party.Type, bool) {
	t := party.Type(chi.URLParam(r, "type"))
	if !t.Valid() {
		http.Error(w, "invalid party type", http.StatusBadRequest)
		return uuid.Nil, "", false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, "", false
	}

	return id, t, true
}

func importOptions(r *http.Request) (importer.Options, error) {
	var opts importer.Options

	if s := r.FormValue("charset"); s != "" {
		cs, err := enc.ParseCharset(s)
		if err != nil {
			return opts, err
		}

		opts.Charset = cs
	}

	return opts, nil
}
