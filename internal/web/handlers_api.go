package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/facetview/internal/core"
	"github.com/JonMunkholm/facetview/internal/logging"
	"github.com/JonMunkholm/facetview/internal/source"
)

// RowsPageSize is the number of rows per page of visible rows.
const RowsPageSize = 100

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// datasetEntry is one dataset in the listing.
type datasetEntry struct {
	source.Info
	Current bool `json:"current"`
}

// datasetState describes the dataset a session currently holds.
type datasetState struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Kind      string `json:"kind,omitempty"`
	Available bool   `json:"available"`
	Rows      int    `json:"rows"`
}

// stateResponse is the full view of a session snapshot.
type stateResponse struct {
	Dataset      datasetState            `json:"dataset"`
	Version      uint64                  `json:"version"`
	Columns      []core.ColumnDescriptor `json:"columns"`
	Filters      core.FilterState        `json:"filters"`
	Options      core.FacetOptions       `json:"options"`
	Visible      int                     `json:"visible"`
	Total        int                     `json:"total"`
	Aggregations core.Aggregations       `json:"aggregations"`
	Error        *ErrorResponse          `json:"error,omitempty"`
}

type optionsResponse struct {
	Column   string        `json:"column"`
	Query    string        `json:"query,omitempty"`
	Options  []core.Option `json:"options"`
	Selected []string      `json:"selected"`
}

type rowsResponse struct {
	Page     int        `json:"page"`
	Pages    int        `json:"pages"`
	PageSize int        `json:"page_size"`
	Visible  int        `json:"visible"`
	Rows     []core.Row `json:"rows"`
}

type filterRequest struct {
	Values []string `json:"values"`
}

// handleListDatasets lists every registered dataset.
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	current := ""
	if sess, err := sessionFrom(r.Context()); err == nil {
		current = sess.Snapshot().DatasetID
	}

	sources := s.loader.Registry().All()
	out := make([]datasetEntry, len(sources))
	for i, src := range sources {
		out[i] = datasetEntry{Info: source.Describe(src), Current: src.ID() == current}
	}
	writeJSON(w, r, out)
}

// handleSwitchDataset switches the session to another dataset.
// A dataset that fails to load still switches; the response reports it as
// unavailable.
func (s *Server) handleSwitchDataset(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	snap, err := s.switchDataset(r.Context(), sess, urlParam(r, "datasetID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, s.buildState(snap))
}

// handleState returns the session's current state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, s.buildState(sess.Snapshot()))
}

// handleApplyFilter replaces one column's selection.
func (s *Server) handleApplyFilter(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	var req filterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	column := urlParam(r, "column")
	snap, err := sess.ApplyFilter(column, req.Values)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Info("filter applied",
		"column", column,
		"values", len(req.Values),
		"version", snap.Version,
	)
	writeJSON(w, r, s.buildState(snap))
}

// handleClearFilters empties every selection.
func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	snap := sess.ClearAll()
	logging.FromContext(r.Context()).Info("filters cleared", "version", snap.Version)
	writeJSON(w, r, s.buildState(snap))
}

// handleOptions returns one column's options, optionally narrowed by ?q=.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	snap := sess.Snapshot()
	column := urlParam(r, "column")
	opts, err := snap.Options(column)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	query := r.URL.Query().Get("q")
	writeJSON(w, r, optionsResponse{
		Column:   column,
		Query:    query,
		Options:  nonNil(core.SearchOptions(opts, query)),
		Selected: nonNil(snap.State.Selection(column)),
	})
}

// handleRows returns one page of visible rows (?page=N, 1-based).
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	rows := sess.Snapshot().VisibleRows()
	page, pages, pageRows := paginate(rows, r.URL.Query().Get("page"))
	writeJSON(w, r, rowsResponse{
		Page:     page,
		Pages:    pages,
		PageSize: RowsPageSize,
		Visible:  len(rows),
		Rows:     nonNil(pageRows),
	})
}

// handleHealth reports liveness with session and load counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
		"loads":    s.loader.Limiter().Status(),
		"datasets": s.loader.Registry().Len(),
	})
}

// buildState renders a snapshot for the API.
func (s *Server) buildState(snap core.Snapshot) stateResponse {
	ds := snap.Dataset
	visible := snap.VisibleRows()

	info := datasetState{
		ID:        snap.DatasetID,
		Label:     snap.DatasetID,
		Available: snap.Available(),
		Rows:      ds.Len(),
	}
	if src, err := s.loader.Registry().Get(snap.DatasetID); err == nil {
		info.Label = src.Label()
		info.Kind = src.Kind()
	}

	filters := make(core.FilterState, len(snap.State))
	for key, values := range snap.State {
		filters[key] = nonNil(values)
	}
	options := snap.Facets()
	for key, opts := range options {
		options[key] = nonNil(opts)
	}

	resp := stateResponse{
		Dataset:      info,
		Version:      snap.Version,
		Columns:      nonNil(ds.Columns()),
		Filters:      filters,
		Options:      options,
		Visible:      len(visible),
		Total:        ds.Len(),
		Aggregations: core.Summarize(ds, visible),
	}
	if snap.LoadErr != nil {
		er := newErrorResponse(core.MapError(snap.LoadErr))
		resp.Error = &er
	}
	return resp
}

// paginate returns the clamped page number, the page count, and that
// page's rows. An unparsable page is page 1.
func paginate(rows []core.Row, pageParam string) (page, pages int, out []core.Row) {
	pages = (len(rows) + RowsPageSize - 1) / RowsPageSize
	if pages < 1 {
		pages = 1
	}

	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * RowsPageSize
	end := min(start+RowsPageSize, len(rows))
	return page, pages, rows[start:end]
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
