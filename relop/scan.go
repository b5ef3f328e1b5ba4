package relop

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/aita/blockjoin/db"
	"github.com/aita/blockjoin/debug"
)

// Storage is what the relational operators need from the storage layer.
// *db.DB implements it.
type Storage interface {
	TableAddresses(table string) ([]db.Extent, error)
	AcquireBlock(id db.BlockID) (*db.Block, error)
	Header(table string) ([]db.Attribute, error)
	AttributeCount(table string) (int, error)
	CreateTable(table string, header []db.Attribute, seg db.SegmentType) error
	InsertRow(table string, row db.Row) error
	DropTable(table string) error
}

// input is a source table resolved for the duration of one operator call.
type input struct {
	Source
	extents []db.Extent
	width   int
}

func openInput(s Storage, table string) (*input, error) {
	extents, err := s.TableAddresses(table)
	if err != nil {
		return nil, err
	}
	if len(extents) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "table %q has no extents", table)
	}
	header, err := s.Header(table)
	if err != nil {
		return nil, err
	}
	width, err := s.AttributeCount(table)
	if err != nil {
		return nil, err
	}
	if width < 1 {
		return nil, errors.Wrapf(ErrNotFound, "table %q has no attributes", table)
	}
	return &input{
		Source:  Source{Name: table, Header: header},
		extents: extents,
		width:   width,
	}, nil
}

func openInputs(s Storage, table1, table2, dst string) (*input, *input, error) {
	if dst == table1 || dst == table2 {
		return nil, nil, errors.Wrapf(ErrSameTable, "%s", dst)
	}
	in1, err := openInput(s, table1)
	if err != nil {
		return nil, nil, err
	}
	in2, err := openInput(s, table2)
	if err != nil {
		return nil, nil, err
	}
	return in1, in2, nil
}

// forEachBlock calls fn for every block of the input that holds data,
// extent by extent.
func (in *input) forEachBlock(s Storage, fn func(*db.Block) error) error {
	for i, e := range in.extents {
		debug.Printf(debug.Middle, debug.RelOp, "%s: extent %d [%d, %d)", in.Name, i, e.From, e.To)
		for id := e.From; id < e.To; id++ {
			b, err := s.AcquireBlock(id)
			if err != nil {
				return err
			}
			if !b.HasData() {
				continue
			}
			if err := fn(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// forEachRow calls fn with the tuple dictionary index of every row of b. The
// scan stops at the first unused dictionary slot.
func (in *input) forEachRow(b *db.Block, fn func(start int) error) error {
	for start := 0; b.HasMoreRows(start); start += in.width {
		if err := fn(start); err != nil {
			return err
		}
	}
	return nil
}

// appendFields stages the fields of one block row under the given names.
func appendFields(row *db.Row, b *db.Block, start int, names []db.Attribute) {
	for col, attr := range names {
		typ, raw := b.RowField(start, col)
		row.Add(typ, attr.Name, raw)
	}
}

// withDestination creates dst, runs fill and drops dst again when fill
// fails, so a failed operator leaves no destination table behind.
func withDestination(s Storage, dst string, header []db.Attribute, fill func() error) error {
	if err := s.CreateTable(dst, header, db.SegmentTable); err != nil {
		return err
	}
	if err := fill(); err != nil {
		debug.Printf(debug.Low, debug.RelOp, "dropping %s after failure: %v", dst, err)
		return multierr.Append(err, s.DropTable(dst))
	}
	return nil
}
