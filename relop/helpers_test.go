package relop

import (
	"testing"

	"gotest.tools/assert"

	"github.com/aita/blockjoin/db"
)

func newTestDB(t *testing.T, initialExtent int) *db.DB {
	t.Helper()
	opts := db.DefaultOptions()
	opts.InitialExtentSize = initialExtent
	d, err := db.CreateSink(db.NewMemSink(), opts)
	assert.NilError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

// createTable creates name with the given header and inserts rows, each a
// list of values in header order.
func createTable(t *testing.T, d *db.DB, name string, header []db.Attribute, rows ...Values) {
	t.Helper()
	assert.NilError(t, d.CreateTable(name, header, db.SegmentTable))
	for _, values := range rows {
		row := db.Row{}
		for i, v := range values {
			row.Add(v.Type, header[i].Name, v.Raw)
		}
		assert.NilError(t, d.InsertRow(name, row))
	}
}

func attrs(pairs ...interface{}) []db.Attribute {
	var header []db.Attribute
	for i := 0; i < len(pairs); i += 2 {
		header = append(header, db.Attribute{Name: pairs[i].(string), Type: pairs[i+1].(db.DataType)})
	}
	return header
}

func names(header []db.Attribute) []string {
	out := make([]string, len(header))
	for i, attr := range header {
		out[i] = attr.Name
	}
	return out
}

func selectAll(t *testing.T, d *db.DB, table string) []db.Row {
	t.Helper()
	rows, err := d.Select(table)
	assert.NilError(t, err)
	return rows
}
