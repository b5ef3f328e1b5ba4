package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/magiconair/properties"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"

	"github.com/aita/blockjoin/db"
)

const fixture = `
tables = department, professor
department.header = manager:varchar, dept_name:varchar
department.row.1 = Jones, Physics
department.row.0 = Smith, Mathematics
professor.header = lastname:varchar, id:int
professor.row.0 = Smith, 1
professor.row.1 = Brown, 2
professor.segment = table
`

func TestParseRow(t *testing.T) {
	header, err := parseHeader("name:varchar, age:int, score:number, ok:bool, raw:blob")
	assert.NilError(t, err)
	assert.Equal(t, 5, len(header))
	assert.Equal(t, db.TypeNumber, header[2].Type)

	row, err := parseRow(header, []string{"ana", "-4", "2.5", "true", "cafe"})
	assert.NilError(t, err)
	assert.Equal(t, "name=ana age=-4 score=2.5 ok=true raw=cafe", formatRow(row))

	_, err = parseRow(header, []string{"ana", "x", "2.5", "true", "cafe"})
	assert.ErrorContains(t, err, "attribute age")
	_, err = parseRow(header, []string{"ana"})
	assert.ErrorContains(t, err, "got 1 values")
	_, err = parseHeader("name")
	assert.ErrorContains(t, err, "want name:type")
	_, err = parseHeader("name:decimal")
	assert.ErrorContains(t, err, "unknown type")
}

func TestLoadFixture(t *testing.T) {
	d, err := db.CreateSink(db.NewMemSink(), db.DefaultOptions())
	assert.NilError(t, err)
	defer d.Close()

	p, err := properties.LoadString(fixture)
	assert.NilError(t, err)
	assert.NilError(t, loadFixture(d, p))

	assert.DeepEqual(t, []string{"department", "professor"}, d.Tables())
	rows, err := d.Select("department")
	assert.NilError(t, err)
	assert.Assert(t, is.Len(rows, 2))
	assert.Equal(t, "manager=Smith dept_name=Mathematics", formatRow(rows[0]))
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	fixturePath := filepath.Join(dir, "fixture.properties")
	assert.NilError(t, os.WriteFile(fixturePath, []byte(fixture), 0644))

	for _, args := range [][]string{
		{"create", path},
		{"load", path, fixturePath},
		{"join", path, "department", "professor", "theta_join_test", "manager lastname ="},
		{"insert", path, "professor", "Jones", "3"},
		{"intersect", path, "professor", "department", "professor"},
	} {
		rootCmd.SetArgs(args)
		if args[0] == "intersect" {
			assert.ErrorContains(t, rootCmd.Execute(), "destination must differ")
			continue
		}
		assert.NilError(t, rootCmd.Execute(), "%v", args)
	}

	d, err := db.Open(path, db.DefaultOptions())
	assert.NilError(t, err)
	defer d.Close()
	rows, err := d.Select("theta_join_test")
	assert.NilError(t, err)
	assert.Assert(t, is.Len(rows, 1))
	assert.Equal(t, "manager=Smith dept_name=Mathematics lastname=Smith id=1", formatRow(rows[0]))

	rows, err = d.Select("professor")
	assert.NilError(t, err)
	assert.Assert(t, is.Len(rows, 3))
}
