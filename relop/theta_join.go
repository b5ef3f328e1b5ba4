package relop

import (
	"github.com/aita/blockjoin/db"
	"github.com/aita/blockjoin/debug"
)

// ThetaJoin writes into the new table dst every pair of rows of table1 and
// table2 for which expr holds. The columns of dst are the columns of table1
// followed by those of table2, see BuildJoinHeader.
//
// References in expr are resolved before dst is created, and dst is dropped
// again if the scan fails, so on error no destination table exists.
func ThetaJoin(s Storage, table1, table2, dst string, expr Expression) error {
	in1, in2, err := openInputs(s, table1, table2, dst)
	if err != nil {
		debug.Printf(debug.Low, debug.RelOp, "theta join: %v", err)
		return err
	}
	prog, err := Compile(expr, in1.Source, in2.Source)
	if err != nil {
		return err
	}
	header, err := BuildJoinHeader(in1.Header, in2.Header, table1, table2)
	if err != nil {
		return err
	}

	rows := 0
	err = withDestination(s, dst, header, func() error {
		debug.Printf(debug.Low, debug.RelOp, "table %s created from %s and %s", dst, table1, table2)
		left, right := &blockRow{}, &blockRow{}
		return in1.forEachBlock(s, func(b1 *db.Block) error {
			left.block = b1
			return in2.forEachBlock(s, func(b2 *db.Block) error {
				right.block = b2
				return in1.forEachRow(b1, func(r1 int) error {
					left.start = r1
					return in2.forEachRow(b2, func(r2 int) error {
						right.start = r2
						ok, err := prog.Eval(left, right)
						if err != nil || !ok {
							return err
						}
						row := make(db.Row, 0, len(header))
						appendFields(&row, b1, r1, header[:in1.width])
						appendFields(&row, b2, r2, header[in1.width:])
						if err := s.InsertRow(dst, row); err != nil {
							return err
						}
						rows++
						return nil
					})
				})
			})
		})
	})
	if err != nil {
		return err
	}
	debug.Printf(debug.Low, debug.RelOp, "theta join %s: %d rows", dst, rows)
	return nil
}
