package relop

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/aita/blockjoin/db"
	"github.com/aita/blockjoin/debug"
)

// Difference writes into dst every row of table1 that has no identical row
// in table2. Both tables must have the same header.
func Difference(s Storage, table1, table2, dst string) error {
	return filterRows(s, table1, table2, dst, false)
}

// Intersect writes into dst every row of table1 that has an identical row
// in table2. Both tables must have the same header.
func Intersect(s Storage, table1, table2, dst string) error {
	return filterRows(s, table1, table2, dst, true)
}

func filterRows(s Storage, table1, table2, dst string, keepMatched bool) error {
	in1, in2, err := openInputs(s, table1, table2, dst)
	if err != nil {
		return err
	}
	if !sameHeader(in1.Header, in2.Header) {
		return errors.Wrapf(ErrSchemaMismatch, "%s and %s", table1, table2)
	}

	return withDestination(s, dst, in1.Header, func() error {
		return in1.forEachBlock(s, func(b1 *db.Block) error {
			matched := make([]bool, b1.NumRows())
			err := in2.forEachBlock(s, func(b2 *db.Block) error {
				return in1.forEachRow(b1, func(r1 int) error {
					if matched[r1/in1.width] {
						return nil
					}
					return in2.forEachRow(b2, func(r2 int) error {
						if !matched[r1/in1.width] && sameRow(b1, r1, b2, r2, in1.width) {
							matched[r1/in1.width] = true
						}
						return nil
					})
				})
			})
			if err != nil {
				return err
			}
			return in1.forEachRow(b1, func(r1 int) error {
				if matched[r1/in1.width] != keepMatched {
					return nil
				}
				debug.Printf(debug.High, debug.RelOp, "%s: copying row %d of block %d", dst, r1/in1.width, b1.ID)
				row := make(db.Row, 0, in1.width)
				appendFields(&row, b1, r1, in1.Header)
				return s.InsertRow(dst, row)
			})
		})
	})
}

func sameHeader(h1, h2 []db.Attribute) bool {
	if len(h1) != len(h2) {
		return false
	}
	for i := range h1 {
		if h1[i] != h2[i] {
			return false
		}
	}
	return true
}

func sameRow(b1 *db.Block, r1 int, b2 *db.Block, r2 int, width int) bool {
	for col := 0; col < width; col++ {
		t1, v1 := b1.RowField(r1, col)
		t2, v2 := b2.RowField(r2, col)
		if t1 != t2 || !bytes.Equal(v1, v2) {
			return false
		}
	}
	return true
}
