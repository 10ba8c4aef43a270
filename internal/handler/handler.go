package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"dte.casinoexpress.cl/internal/reconcile"
	"dte.casinoexpress.cl/internal/store"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store     *store.Store
	validator *reconcile.Validator
}

// NewHandler creates a new Handler instance over the given store.
func NewHandler(s *store.Store) *Handler {
	return &Handler{
		store:     s,
		validator: reconcile.NewValidator(s.DB()),
	}
}

// documentView is the JSON shape of a stored document. Absent references
// render as null rather than 0 so clients can tell "no reference" apart
// from a folio.
type documentView struct {
	Fila          int64   `json:"fila"`
	TipoDocumento string  `json:"tipo_documento"`
	Folio         int64   `json:"folio"`
	RutEmisor     string  `json:"rut_emisor"`
	RazonSocial   string  `json:"razon_social"`
	FechaEmision  string  `json:"fecha_emision"`
	MontoTotal    float64 `json:"monto_total"`
	Descripcion   string  `json:"descripcion"`
	GuiaExtraida  *int64  `json:"guia_extraida"`
	RefNCND       *int64  `json:"ref_nc_nd_extraida"`
	OCExtraida    string  `json:"oc_extraida"`
}

// Documents lists stored documents, narrowed by query parameters
// (tipo, folio, guia, ref, oc, rut, desde, hasta).
func (h *Handler) Documents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	f := store.Filter{
		Type:     q.Get("tipo"),
		OC:       q.Get("oc"),
		RUT:      q.Get("rut"),
		DateFrom: q.Get("desde"),
		DateTo:   q.Get("hasta"),
	}
	var err error
	if f.Folio, err = intParam(q.Get("folio")); err != nil {
		http.Error(w, "Invalid folio", http.StatusBadRequest)
		return
	}
	if f.Guide, err = intParam(q.Get("guia")); err != nil {
		http.Error(w, "Invalid guia", http.StatusBadRequest)
		return
	}
	if f.NoteRef, err = intParam(q.Get("ref")); err != nil {
		http.Error(w, "Invalid ref", http.StatusBadRequest)
		return
	}

	docs, err := h.store.List(r.Context(), f)
	if err != nil {
		log.Printf("listing documents: %v", err)
		http.Error(w, "Error loading documents", http.StatusInternalServerError)
		return
	}

	views := make([]documentView, len(docs))
	for i, d := range docs {
		v := documentView{
			Fila:          d.Index,
			TipoDocumento: d.Type,
			Folio:         d.Folio,
			RutEmisor:     d.IssuerRUT,
			RazonSocial:   d.IssuerName,
			FechaEmision:  d.IssueDate,
			MontoTotal:    d.Total,
			Descripcion:   d.Description,
			OCExtraida:    d.PurchaseOrder,
		}
		if d.Guide.Valid {
			g := d.Guide.Int64
			v.GuiaExtraida = &g
		}
		if d.NoteRef.Valid {
			n := d.NoteRef.Int64
			v.RefNCND = &n
		}
		views[i] = v
	}

	writeJSON(w, views)
}

// ReconcileErrors reports every cross-reference integrity violation.
func (h *Handler) ReconcileErrors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	errs, err := h.validator.Errors(r.Context())
	if err != nil {
		log.Printf("validating references: %v", err)
		http.Error(w, "Error validating references", http.StatusInternalServerError)
		return
	}
	if errs == nil {
		errs = []reconcile.ReferenceError{}
	}
	writeJSON(w, errs)
}

// ReconcileNotes pairs credit/debit notes with their invoices and
// classifies the amount difference.
func (h *Handler) ReconcileNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	matches, err := h.validator.MatchNotes(r.Context())
	if err != nil {
		log.Printf("matching notes: %v", err)
		http.Error(w, "Error matching notes", http.StatusInternalServerError)
		return
	}
	if matches == nil {
		matches = []reconcile.NoteMatch{}
	}
	writeJSON(w, matches)
}

func intParam(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
