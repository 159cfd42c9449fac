package reportserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/camronh/Twevals/internal/report"
	"github.com/camronh/Twevals/internal/store"
)

// NewHandler builds the HTTP handler over a results store.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("reportserver: store is required")
	}
	srv := &handler{store: cfg.Store}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", srv.index)
	mux.HandleFunc("GET /runs/{id}", srv.runPage)
	mux.HandleFunc("GET /api/runs/{id}", srv.runJSON)
	return mux, nil
}

type handler struct {
	store *store.Store
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List(r.URL.Query().Get("session"))
	if err != nil {
		http.Error(w, "list runs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.IndexPage(records).Render(r.Context(), w); err != nil {
		http.Error(w, "render index", http.StatusInternalServerError)
	}
}

func (h *handler) runPage(w http.ResponseWriter, r *http.Request) {
	record, err := h.store.Load(r.PathValue("id"))
	if errors.Is(err, store.ErrRunNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "load run: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RunPage(record).Render(r.Context(), w); err != nil {
		http.Error(w, "render run", http.StatusInternalServerError)
	}
}

func (h *handler) runJSON(w http.ResponseWriter, r *http.Request) {
	record, err := h.store.Load(r.PathValue("id"))
	if errors.Is(err, store.ErrRunNotFound) {
		http.Error(w, `{"error":"run not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"load run failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(record)
}
