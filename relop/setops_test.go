package relop

import (
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"

	"github.com/aita/blockjoin/db"
)

func intColumn(t *testing.T, rows []db.Row) []int32 {
	t.Helper()
	out := make([]int32, len(rows))
	for i, row := range rows {
		out[i] = db.BytesInt(row[0].Value)
	}
	return out
}

func fixtureSets(t *testing.T, d *db.DB) {
	header := attrs("n", db.TypeInt, "label", db.TypeVarchar)
	createTable(t, d, "left", header,
		Values{Int(1), Varchar("one")},
		Values{Int(2), Varchar("two")},
		Values{Int(3), Varchar("three")},
		Values{Int(3), Varchar("three")},
	)
	createTable(t, d, "right", header,
		Values{Int(2), Varchar("two")},
		Values{Int(3), Varchar("three")},
		Values{Int(4), Varchar("four")},
		Values{Int(1), Varchar("uno")},
	)
}

func TestDifference(t *testing.T) {
	d := newTestDB(t, 2)
	fixtureSets(t, d)

	assert.NilError(t, Difference(d, "left", "right", "diff"))
	rows := selectAll(t, d, "diff")
	assert.DeepEqual(t, []int32{1}, intColumn(t, rows))

	header, err := d.Header("diff")
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{"n", "label"}, names(header))
}

func TestIntersect(t *testing.T) {
	d := newTestDB(t, 2)
	fixtureSets(t, d)

	assert.NilError(t, Intersect(d, "left", "right", "both"))
	assert.DeepEqual(t, []int32{2, 3, 3}, intColumn(t, selectAll(t, d, "both")))
}

func TestSetOpsRequireSameHeader(t *testing.T) {
	d := newTestDB(t, 2)
	fixtureSets(t, d)
	createTable(t, d, "other", attrs("n", db.TypeInt))

	err := Difference(d, "left", "other", "out")
	assert.Assert(t, errors.Is(err, ErrSchemaMismatch))
	_, err = d.TableAddresses("out")
	assert.Assert(t, errors.Is(err, ErrNotFound))

	err = Intersect(d, "left", "missing", "out")
	assert.Assert(t, errors.Is(err, ErrNotFound))
}

func TestIntersectEmptyInput(t *testing.T) {
	d := newTestDB(t, 2)
	fixtureSets(t, d)
	createTable(t, d, "empty", attrs("n", db.TypeInt, "label", db.TypeVarchar))

	assert.NilError(t, Intersect(d, "left", "empty", "none"))
	assert.Assert(t, is.Len(selectAll(t, d, "none"), 0))
	assert.NilError(t, Difference(d, "left", "empty", "all"))
	assert.Assert(t, is.Len(selectAll(t, d, "all"), 4))
}
