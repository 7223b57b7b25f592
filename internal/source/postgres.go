package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/facetview/internal/core"
)

// Querier is the subset of pgxpool.Pool used to read a table.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads every row of one table. Column order follows the
// table definition, so the first column should be the row identifier.
type PostgresSource struct {
	id     string
	label  string
	db     Querier
	schema string
	table  string
}

// NewPostgresSource creates a source for schema.table. An empty schema uses
// the connection's search path.
func NewPostgresSource(id, label string, db Querier, schema, table string) *PostgresSource {
	if label == "" {
		label = DefaultLabel(id)
	}
	return &PostgresSource{id: id, label: label, db: db, schema: schema, table: table}
}

func (s *PostgresSource) ID() string    { return s.id }
func (s *PostgresSource) Label() string { return s.label }
func (s *PostgresSource) Kind() string  { return KindPostgres }

// Table returns the quoted table identifier.
func (s *PostgresSource) Table() string {
	if s.schema == "" {
		return pgx.Identifier{s.table}.Sanitize()
	}
	return pgx.Identifier{s.schema, s.table}.Sanitize()
}

// Load runs SELECT * against the table and renders every value as text.
func (s *PostgresSource) Load(ctx context.Context) (*core.Dataset, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%s: no database connection configured", s.Table())
	}

	rows, err := s.db.Query(ctx, "SELECT * FROM "+s.Table())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table(), err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}

	var records [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Table(), err)
		}
		rec := make([]string, len(values))
		for i, v := range values {
			rec[i] = formatCell(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Table(), err)
	}

	return core.NewDataset(header, records)
}

// formatCell renders a decoded column value as the string the engine
// filters on. NULL becomes the empty cell.
func formatCell(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case pgtype.Numeric:
		if !val.Valid {
			return ""
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)

	case pgtype.Date:
		if !val.Valid {
			return ""
		}
		return val.Time.Format("2006-01-02")

	case pgtype.Text:
		if !val.Valid {
			return ""
		}
		return val.String

	case pgtype.Bool:
		if !val.Valid {
			return ""
		}
		return strconv.FormatBool(val.Bool)

	case time.Time:
		if val.IsZero() {
			return ""
		}
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)

	case [16]byte:
		return uuid.UUID(val).String()

	case bool:
		return strconv.FormatBool(val)

	case string:
		return val

	case []byte:
		return string(val)

	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)

	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)

	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
