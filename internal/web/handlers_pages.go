package web

import (
	"net/http"

	"github.com/JonMunkholm/facetview/internal/core"
	"github.com/JonMunkholm/facetview/internal/logging"
	"github.com/JonMunkholm/facetview/internal/web/templates"
)

// handleDashboard renders the dashboard page.
//
// Query parameters:
//   - page: 1-based page of visible rows
//   - col, q: narrow the options of column col to those matching q
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	data := s.buildDashboard(sess.Snapshot(), r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleFilterForm applies the checked values of one column's form.
func (s *Server) handleFilterForm(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if err := r.ParseForm(); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	column := urlParam(r, "column")
	values := r.PostForm["value"]
	snap, err := sess.ApplyFilter(column, values)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Info("filter applied",
		"column", column,
		"values", len(values),
		"version", snap.Version,
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleClearForm empties every selection.
func (s *Server) handleClearForm(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	snap := sess.ClearAll()
	logging.FromContext(r.Context()).Info("filters cleared", "version", snap.Version)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDatasetForm switches to the dataset chosen in the switcher.
func (s *Server) handleDatasetForm(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if err := r.ParseForm(); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if _, err := s.switchDataset(r.Context(), sess, r.PostForm.Get("dataset")); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// buildDashboard assembles the template data for snap.
func (s *Server) buildDashboard(snap core.Snapshot, r *http.Request) templates.DashboardData {
	ds := snap.Dataset
	query := r.URL.Query()
	searchCol, searchTerm := query.Get("col"), query.Get("q")

	visible := snap.VisibleRows()
	page, pages, rows := paginate(visible, query.Get("page"))

	data := templates.DashboardData{
		Current:      snap.DatasetID,
		Columns:      ds.Columns(),
		Rows:         rows,
		Aggregations: core.Summarize(ds, visible),
		Page:         page,
		Pages:        pages,
		Visible:      len(visible),
		Total:        ds.Len(),
		Active:       snap.State.Active(),
	}

	for _, src := range s.loader.Registry().All() {
		data.Datasets = append(data.Datasets, templates.DatasetOption{
			ID:       src.ID(),
			Label:    src.Label(),
			Selected: src.ID() == snap.DatasetID,
		})
	}

	if snap.LoadErr != nil {
		msg := core.MapError(snap.LoadErr)
		data.Error = &templates.ErrorInfo{Message: msg.Message, Action: msg.Action, Code: msg.Code}
	}

	facets := snap.Facets()
	for _, col := range ds.FilterableColumns() {
		group := templates.FilterGroup{
			Column:   col,
			Selected: len(snap.State.Selection(col.Key)),
		}
		opts := facets[col.Key]
		if col.Key == searchCol {
			group.Search = searchTerm
			opts = core.SearchOptions(opts, searchTerm)
		}
		group.Options, group.Hidden = optionItems(opts, snap.State.Selection(col.Key), facets[col.Key])
		data.Filters = append(data.Filters, group)
	}

	return data
}

// optionItems marks the selected options as checked. Selected values that
// are no longer options are appended as phantoms so they stay visible and can
// be unchecked. Selected options that the search hides are returned
// separately so the form still submits them.
func optionItems(shown []core.Option, selected []string, all []core.Option) (items []templates.OptionItem, hidden []string) {
	isSelected := make(map[string]bool, len(selected))
	for _, v := range selected {
		isSelected[v] = true
	}

	items = make([]templates.OptionItem, 0, len(shown)+len(selected))
	isShown := make(map[string]bool, len(shown))
	for _, opt := range shown {
		isShown[opt.Value] = true
		items = append(items, templates.OptionItem{Value: opt.Value, Checked: isSelected[opt.Value]})
	}

	isOption := make(map[string]bool, len(all))
	for _, opt := range all {
		isOption[opt.Value] = true
	}
	for _, v := range selected {
		switch {
		case !isOption[v]:
			items = append(items, templates.OptionItem{Value: v, Checked: true, Phantom: true})
		case !isShown[v]:
			hidden = append(hidden, v)
		}
	}
	return items, hidden
}
