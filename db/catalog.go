package db

import (
	"github.com/pkg/errors"

	"github.com/aita/blockjoin/debug"
)

const catalogTable = "kk_catalog"

var catalogHeader = []Attribute{
	{Name: "obj_name", Type: TypeVarchar},
	{Name: "segment_type", Type: TypeInt},
	{Name: "address_from", Type: TypeInt},
	{Name: "address_to", Type: TypeInt},
}

func (db *DB) catalogBlocks() BlockID {
	return BlockID(db.file.hdr.CatalogBlocks)
}

func (db *DB) formatCatalog() error {
	for id := BlockID(0); id < db.catalogBlocks(); id++ {
		b, err := db.cache.get(id)
		if err != nil {
			return err
		}
		b.reset(BlockTypeNormal, catalogHeader)
		if err := db.cache.put(b); err != nil {
			return err
		}
	}
	return nil
}

// loadCatalog rebuilds the table list from the catalog segment. Every row
// describes one extent; extents of a table appear in allocation order.
func (db *DB) loadCatalog() error {
	db.tables = nil
	db.byName = map[string]*Table{}
	for id := BlockID(0); id < db.catalogBlocks(); id++ {
		b, err := db.cache.get(id)
		if err != nil {
			return err
		}
		if !b.HasData() {
			continue
		}
		for row := 0; b.HasMoreRows(row); row += len(catalogHeader) {
			_, name := b.RowField(row, 0)
			_, seg := b.RowField(row, 1)
			_, from := b.RowField(row, 2)
			_, to := b.RowField(row, 3)
			t, ok := db.byName[string(name)]
			if !ok {
				t = &Table{Name: string(name), Segment: SegmentType(BytesInt(seg))}
				db.byName[t.Name] = t
				db.tables = append(db.tables, t)
			}
			t.Extents = append(t.Extents, Extent{From: BlockID(BytesInt(from)), To: BlockID(BytesInt(to))})
		}
	}
	for _, t := range db.tables {
		if len(t.Extents) == 0 {
			continue
		}
		b, err := db.cache.get(t.Extents[0].From)
		if err != nil {
			return errors.Wrapf(err, "db: load header of %q", t.Name)
		}
		t.Header = append([]Attribute(nil), b.Header...)
	}
	debug.Printf(debug.Middle, debug.FileMan, "catalog loaded: %d tables", len(db.tables))
	return nil
}

// saveCatalog rewrites the catalog segment from the in-memory table list.
func (db *DB) saveCatalog() error {
	if err := db.formatCatalog(); err != nil {
		return err
	}
	id := BlockID(0)
	for _, t := range db.tables {
		for _, e := range t.Extents {
			types := []DataType{TypeVarchar, TypeInt, TypeInt, TypeInt}
			values := [][]byte{
				[]byte(t.Name),
				IntBytes(int32(t.Segment)),
				IntBytes(int32(e.From)),
				IntBytes(int32(e.To)),
			}
			for {
				if id >= db.catalogBlocks() {
					return errors.Wrap(ErrCapacityExceeded, "db: catalog segment is full")
				}
				b, err := db.cache.get(id)
				if err != nil {
					return err
				}
				err = b.appendRow(types, values)
				if err == ErrNoEmptySpace {
					id++
					continue
				}
				if err != nil {
					return err
				}
				if err := db.cache.put(b); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}
