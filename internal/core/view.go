package core

import "github.com/montanaflynn/stats"

// VisibleRows returns the rows of ds that satisfy every selection in state,
// in dataset order. Unlike facet computation no column is excluded.
func VisibleRows(ds *Dataset, state FilterState) []Row {
	if ds == nil {
		return nil
	}
	out := make([]Row, 0, len(ds.rows))
	for _, row := range ds.rows {
		if isLive(row, state, "") {
			out = append(out, row)
		}
	}
	return out
}

// CountVisible returns len(VisibleRows(ds, state)) without building the slice.
func CountVisible(ds *Dataset, state FilterState) int {
	if ds == nil {
		return 0
	}
	n := 0
	for _, row := range ds.rows {
		if isLive(row, state, "") {
			n++
		}
	}
	return n
}

// Summarize computes count, sum, mean, median, min and max for every
// filterable KindNumber column of ds over rows. Cells that do not parse as numbers are
// skipped. Columns with no numeric cells get a zero Count and nil values.
func Summarize(ds *Dataset, rows []Row) Aggregations {
	aggs := make(Aggregations)
	for _, col := range ds.FilterableColumns() {
		if col.Kind != KindNumber {
			continue
		}

		data := make(stats.Float64Data, 0, len(rows))
		for _, row := range rows {
			if f, ok := parseNumber(row[col.Key]); ok {
				data = append(data, f)
			}
		}

		agg := &ColumnAggregation{Column: col.Key, Count: len(data)}
		if len(data) > 0 {
			agg.Sum = statOrNil(stats.Sum(data))
			agg.Mean = statOrNil(stats.Mean(data))
			agg.Median = statOrNil(stats.Median(data))
			agg.Min = statOrNil(stats.Min(data))
			agg.Max = statOrNil(stats.Max(data))
		}
		aggs[col.Key] = agg
	}
	return aggs
}

func statOrNil(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}
