package relop

import (
	"github.com/pkg/errors"

	"github.com/aita/blockjoin/db"
	"github.com/aita/blockjoin/debug"
)

// BuildJoinHeader builds the header of a join result: every attribute of
// header1 in order, followed by every attribute of header2 in order. When an
// attribute name occurs in both inputs, both occurrences are renamed to
// "<table>.<attribute>" using the table each one comes from. Joining a table
// with itself, or any other input that still leaves two attributes with the
// same name, fails with ErrAmbiguousAttribute.
func BuildJoinHeader(header1, header2 []db.Attribute, table1, table2 string) ([]db.Attribute, error) {
	if n := len(header1) + len(header2); n > db.MaxAttributes {
		return nil, errors.Wrapf(db.ErrCapacityExceeded, "join of %s and %s has %d attributes, at most %d", table1, table2, n, db.MaxAttributes)
	}

	header := make([]db.Attribute, 0, len(header1)+len(header2))
	for _, attr := range header1 {
		debug.Printf(debug.High, debug.RelOp, "join header: copying %s from %s", attr.Name, table1)
		header = append(header, attr)
	}

	for _, attr := range header2 {
		debug.Printf(debug.High, debug.RelOp, "join header: copying %s from %s", attr.Name, table2)
		match := -1
		for i, other := range header1 {
			if other.Name == attr.Name {
				match = i
				break
			}
		}
		if match >= 0 {
			debug.Printf(debug.High, debug.RelOp, "join header: renaming %s", attr.Name)
			left, err := qualify(table1, header1[match].Name)
			if err != nil {
				return nil, err
			}
			right, err := qualify(table2, attr.Name)
			if err != nil {
				return nil, err
			}
			header[match].Name = left
			attr.Name = right
		}
		header = append(header, attr)
	}

	seen := make(map[string]bool, len(header))
	for _, attr := range header {
		if seen[attr.Name] {
			return nil, errors.Wrapf(ErrAmbiguousAttribute, "%q in join of %s and %s", attr.Name, table1, table2)
		}
		seen[attr.Name] = true
	}
	return header, nil
}

func qualify(table, attr string) (string, error) {
	name := table + "." + attr
	if len(name) > db.MaxAttNameLength {
		return "", errors.Wrapf(ErrSchemaOverflow, "%q is %d bytes, at most %d", name, len(name), db.MaxAttNameLength)
	}
	return name, nil
}
