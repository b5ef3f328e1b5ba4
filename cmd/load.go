package cmd

import (
	"sort"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aita/blockjoin/db"
)

// A fixture file lists tables and their rows:
//
//	tables = department, professor
//	department.header = manager:varchar, dept_name:varchar
//	department.row.0 = Smith, Mathematics
//	department.row.1 = Jones, Physics
//	department.segment = table
var loadCmd = &cobra.Command{
	Use:   "load [file name] [fixture.properties]",
	Short: "Create tables and rows from a properties fixture",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := properties.LoadFile(args[1], properties.UTF8)
		if err != nil {
			return err
		}
		return withDB(args[0], func(d *db.DB) error {
			return loadFixture(d, p)
		})
	},
}

var segmentNames = map[string]db.SegmentType{
	"system":      db.SegmentSystemTable,
	"table":       db.SegmentTable,
	"index":       db.SegmentIndex,
	"transaction": db.SegmentTransaction,
	"temp":        db.SegmentTemp,
}

func loadFixture(d *db.DB, p *properties.Properties) error {
	for _, name := range splitList(p.GetString("tables", "")) {
		spec, ok := p.Get(name + ".header")
		if !ok {
			return errors.Errorf("fixture: table %s has no header", name)
		}
		header, err := parseHeader(spec)
		if err != nil {
			return errors.Wrapf(err, "fixture: table %s", name)
		}
		seg, ok := segmentNames[p.GetString(name+".segment", "table")]
		if !ok {
			return errors.Errorf("fixture: table %s has unknown segment %q", name, p.GetString(name+".segment", ""))
		}
		if err := d.CreateTable(name, header, seg); err != nil {
			return err
		}
		for _, key := range rowKeys(p, name) {
			row, err := parseRow(header, strings.Split(p.GetString(key, ""), ","))
			if err != nil {
				return errors.Wrapf(err, "fixture: %s", key)
			}
			if err := d.InsertRow(name, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// rowKeys returns the table's row keys ordered by row number.
func rowKeys(p *properties.Properties, table string) []string {
	prefix := table + ".row."
	type numbered struct {
		n   int
		key string
	}
	var keys []numbered
	for _, key := range p.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
		if err != nil {
			continue
		}
		keys = append(keys, numbered{n, key})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].n < keys[j].n })
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.key
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
