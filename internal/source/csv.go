package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/facetview/internal/core"
)

// ctxCheckInterval is how many records are read between context checks.
const ctxCheckInterval = 1000

// CSVSource reads a comma-separated file with a header row.
type CSVSource struct {
	id    string
	label string
	path  string
}

// NewCSVSource creates a CSV source. An empty label uses DefaultLabel.
func NewCSVSource(id, label, path string) *CSVSource {
	if label == "" {
		label = DefaultLabel(id)
	}
	return &CSVSource{id: id, label: label, path: path}
}

func (s *CSVSource) ID() string    { return s.id }
func (s *CSVSource) Label() string { return s.label }
func (s *CSVSource) Kind() string  { return KindCSV }

// Path returns the file path.
func (s *CSVSource) Path() string { return s.path }

// Load opens and parses the file.
func (s *CSVSource) Load(ctx context.Context) (*core.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	ds, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return ds, nil
}

// ReadCSV parses CSV from r into a Dataset.
//
// A leading byte order mark is removed and invalid UTF-8 is replaced with
// U+FFFD. Records may have any number of fields; NewDataset pads or truncates
// them to the header. Blank lines are skipped.
func ReadCSV(ctx context.Context, r io.Reader) (*core.Dataset, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records [][]string
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		records = append(records, rec)
	}

	return core.NewDataset(header, records)
}
