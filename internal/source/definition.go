package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Source kinds accepted in dataset definitions.
const (
	KindCSV      = "csv"
	KindXLSX     = "xlsx"
	KindPostgres = "pg"
)

// Definition is a parsed dataset definition of the form
//
//	id=kind:location
//
// where location is a file path for csv, path[#Sheet] for xlsx and
// [schema.]table for pg. Examples:
//
//	large=csv:data/dataset_large.csv
//	budget=xlsx:data/budget.xlsx#2024
//	orders=pg:public.orders
type Definition struct {
	ID       string
	Kind     string
	Location string
}

// ParseDefinition parses one dataset definition.
func ParseDefinition(def string) (Definition, error) {
	id, rest, ok := strings.Cut(strings.TrimSpace(def), "=")
	if !ok {
		return Definition{}, fmt.Errorf("dataset %q: expected id=kind:location", def)
	}
	kind, location, ok := strings.Cut(rest, ":")
	if !ok {
		return Definition{}, fmt.Errorf("dataset %q: expected id=kind:location", def)
	}

	d := Definition{
		ID:       strings.TrimSpace(id),
		Kind:     strings.ToLower(strings.TrimSpace(kind)),
		Location: strings.TrimSpace(location),
	}
	if d.ID == "" {
		return Definition{}, fmt.Errorf("dataset %q: empty id", def)
	}
	if strings.ContainsAny(d.ID, "/?#& ") {
		return Definition{}, fmt.Errorf("dataset %q: id must not contain '/', '?', '#', '&' or spaces", def)
	}
	if d.Location == "" {
		return Definition{}, fmt.Errorf("dataset %q: empty location", def)
	}

	switch d.Kind {
	case KindCSV, KindXLSX, KindPostgres:
	default:
		return Definition{}, fmt.Errorf("dataset %q: unknown kind %q (want csv, xlsx or pg)", def, d.Kind)
	}
	return d, nil
}

// ParseDefinitions parses every entry, stopping at the first error.
func ParseDefinitions(defs []string) ([]Definition, error) {
	out := make([]Definition, 0, len(defs))
	for _, def := range defs {
		d, err := ParseDefinition(def)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// NeedsDatabase reports whether any definition reads from PostgreSQL.
func NeedsDatabase(defs []Definition) bool {
	for _, d := range defs {
		if d.Kind == KindPostgres {
			return true
		}
	}
	return false
}

// Build turns a definition into a Source. db may be nil unless the
// definition is a pg dataset.
func (d Definition) Build(db Querier) (Source, error) {
	switch d.Kind {
	case KindCSV:
		return NewCSVSource(d.ID, "", d.Location), nil

	case KindXLSX:
		path, sheet, _ := strings.Cut(d.Location, "#")
		return NewXLSXSource(d.ID, "", path, sheet), nil

	case KindPostgres:
		if db == nil {
			return nil, fmt.Errorf("dataset %s: pg source requires DATABASE_URL", d.ID)
		}
		schema, table, ok := strings.Cut(d.Location, ".")
		if !ok {
			schema, table = "", d.Location
		}
		return NewPostgresSource(d.ID, "", db, schema, table), nil
	}
	return nil, fmt.Errorf("dataset %s: unknown kind %q", d.ID, d.Kind)
}

// FromPath builds a file source from its extension: .xlsx is read as a
// workbook, everything else as CSV. The ID is the file's base name.
func FromPath(path string) Source {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	id := strings.TrimSuffix(base, ext)

	if strings.EqualFold(ext, ".xlsx") {
		return NewXLSXSource(id, "", path, "")
	}
	return NewCSVSource(id, "", path)
}
