package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/facetview/internal/core"
)

// XLSXSource reads one sheet of an Excel workbook. The first row is the
// header.
type XLSXSource struct {
	id    string
	label string
	path  string
	sheet string // empty means the first sheet
}

// NewXLSXSource creates an Excel source. An empty sheet reads the first
// sheet in the workbook.
func NewXLSXSource(id, label, path, sheet string) *XLSXSource {
	if label == "" {
		label = DefaultLabel(id)
	}
	return &XLSXSource{id: id, label: label, path: path, sheet: sheet}
}

func (s *XLSXSource) ID() string    { return s.id }
func (s *XLSXSource) Label() string { return s.label }
func (s *XLSXSource) Kind() string  { return KindXLSX }

// Load opens the workbook and reads the configured sheet.
func (s *XLSXSource) Load(ctx context.Context) (*core.Dataset, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	ds, err := readWorkbook(ctx, f, s.sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return ds, nil
}

// ReadXLSX parses a workbook from r. An empty sheet reads the first sheet.
func ReadXLSX(ctx context.Context, r io.Reader, sheet string) (*core.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(ctx, f, sheet)
}

func readWorkbook(ctx context.Context, f *excelize.File, sheet string) (*core.Dataset, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	return core.NewDataset(rows[0], rows[1:])
}
