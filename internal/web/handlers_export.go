package web

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/facetview/internal/core"
	"github.com/JonMunkholm/facetview/internal/logging"
)

// handleExport streams the visible rows as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	snap := sess.Snapshot()
	if !snap.Available() {
		err := snap.LoadErr
		if err == nil {
			err = fmt.Errorf("%w: %s: no data", core.ErrSourceUnavailable, snap.DatasetID)
		}
		respondError(w, r, err, statusFor(err))
		return
	}

	filename := snap.DatasetID + "-filtered.csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	rows := snap.VisibleRows()
	if err := writeRowsCSV(w, snap.Dataset.Columns(), rows); err != nil {
		// Headers are sent; all that is left is to log.
		logging.FromContext(r.Context()).Error("export failed", "error", err)
		return
	}

	logging.FromContext(r.Context()).Info("rows exported",
		"dataset", snap.DatasetID,
		"rows", len(rows),
	)
}

// writeRowsCSV writes a header of column keys followed by rows.
func writeRowsCSV(w http.ResponseWriter, columns []core.ColumnDescriptor, rows []core.Row) error {
	cw := csv.NewWriter(w)

	record := make([]string, len(columns))
	for i, col := range columns {
		record[i] = col.Key
	}
	if err := cw.Write(record); err != nil {
		return err
	}

	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[col.Key]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
