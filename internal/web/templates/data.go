// Package templates renders the dashboard HTML.
//
// Components are written in templ; run `templ generate` after editing a
// .templ file.
package templates

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/facetview/internal/core"
)

// DatasetOption is one entry in the dataset switcher.
type DatasetOption struct {
	ID       string
	Label    string
	Selected bool
}

// OptionItem is one checkbox in a filter group.
type OptionItem struct {
	Value   string
	Checked bool
	Phantom bool // selected but no longer an option
}

// FilterGroup is the filter panel section for one column.
type FilterGroup struct {
	Column   core.ColumnDescriptor
	Options  []OptionItem
	Hidden   []string // selected options the search does not show
	Selected int
	Search   string // active search term, if this group is being searched
}

// ErrorInfo is a mapped error shown above the table.
type ErrorInfo struct {
	Message string
	Action  string
	Code    string
}

// DashboardData is everything the dashboard page renders.
type DashboardData struct {
	Datasets     []DatasetOption
	Current      string
	Error        *ErrorInfo
	Columns      []core.ColumnDescriptor
	Filters      []FilterGroup
	Rows         []core.Row
	Aggregations core.Aggregations
	Page         int
	Pages        int
	Visible      int
	Total        int
	Active       int
}

func filterAction(key string) templ.SafeURL {
	return templ.URL("/filters/" + url.PathEscape(key))
}

func pageURL(page int) templ.SafeURL {
	return templ.URL("/?page=" + strconv.Itoa(page))
}

func optionText(kind core.Kind, value string) string {
	if kind == core.KindNumber {
		return FormatNumber(value)
	}
	return value
}

// numericCell reports whether column i is rendered as a formatted number.
// The identifier column is shown verbatim.
func numericCell(col core.ColumnDescriptor, i int) bool {
	return col.Kind == core.KindNumber && i > 0
}
