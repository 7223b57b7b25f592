package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/facetview/internal/core"
)

func TestReadCSV(t *testing.T) {
	input := "id,name,age\n1,Alice,30\n2,Bob,25\n\n3,Carol,30\n"

	ds, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	cols := ds.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "name", cols[1].Key)
	assert.Equal(t, core.KindText, cols[1].Kind)
	assert.Equal(t, core.KindNumber, cols[2].Kind)
	assert.Equal(t, "Carol", ds.Rows()[2]["name"])
}

func TestReadCSV_BOMAndWhitespace(t *testing.T) {
	input := "\xEF\xBB\xBFid , region\n1,  EU \n2,US\n"

	ds, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	id, ok := ds.IDColumn()
	require.True(t, ok)
	assert.Equal(t, "id", id.Key, "BOM must not leak into the first header")
	assert.Equal(t, "EU", ds.Rows()[0]["region"])
}

func TestReadCSV_RaggedRecords(t *testing.T) {
	input := "id,a,b\n1,x\n2,y,z,extra\n"

	ds, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	rows := ds.Rows()
	assert.Equal(t, core.Row{"id": "1", "a": "x", "b": ""}, rows[0])
	assert.Equal(t, core.Row{"id": "2", "a": "y", "b": "z"}, rows[1])
}

func TestReadCSV_QuotedFields(t *testing.T) {
	input := "id,product\n1,\"Widget, large\"\n"

	ds, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Widget, large", ds.Rows()[0]["product"])
}

func TestReadCSV_InvalidUTF8(t *testing.T) {
	input := "id,name\n1,caf\xE9\n"

	ds, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "caf\uFFFD", ds.Rows()[0]["name"])
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(context.Background(), strings.NewReader("id,name,name\n1,a,b\n"))
	assert.Error(t, err)
}

func TestReadCSV_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadCSV(ctx, strings.NewReader("id,name\n1,a\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCSVSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,Alice\n"), 0o600))

	src := NewCSVSource("people", "", path)
	assert.Equal(t, "People Dataset", src.Label())
	assert.Equal(t, KindCSV, src.Kind())

	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource("ghost", "Ghost", filepath.Join(t.TempDir(), "missing.csv"))

	_, err := src.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
