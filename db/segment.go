package db

import (
	"github.com/pkg/errors"

	"github.com/aita/blockjoin/debug"
)

// allocateExtent reserves size contiguous blocks, reusing a run of free
// blocks when one exists and growing the file otherwise. Every block of the
// new extent is initialized with header.
func (db *DB) allocateExtent(size int, header []Attribute) (Extent, error) {
	if size < 1 {
		return Extent{}, errors.Errorf("db: invalid extent size %d", size)
	}
	from, ok, err := db.findFreeRun(size)
	if err != nil {
		return Extent{}, err
	}
	if !ok {
		from, err = db.file.addBlocks(size)
		if err != nil {
			return Extent{}, err
		}
	}
	e := Extent{From: from, To: from + BlockID(size)}
	for id := e.From; id < e.To; id++ {
		b, err := db.cache.get(id)
		if err != nil {
			return Extent{}, err
		}
		b.reset(BlockTypeNormal, header)
		if err := db.cache.put(b); err != nil {
			return Extent{}, err
		}
	}
	debug.Printf(debug.High, debug.FileMan, "allocated extent [%d, %d)", e.From, e.To)
	return e, nil
}

func (db *DB) findFreeRun(size int) (BlockID, bool, error) {
	n, err := db.file.numBlocks()
	if err != nil {
		return 0, false, err
	}
	run := 0
	for id := db.catalogBlocks(); int(id) < n; id++ {
		b, err := db.cache.get(id)
		if err != nil {
			return 0, false, err
		}
		if b.Type != BlockTypeFree {
			run = 0
			continue
		}
		run++
		if run == size {
			return id - BlockID(size) + 1, true, nil
		}
	}
	return 0, false, nil
}

// growTable appends one extent to t, sized by the segment's growth factor.
func (db *DB) growTable(t *Table) (Extent, error) {
	if len(t.Extents) >= MaxExtents {
		return Extent{}, errors.Wrapf(ErrCapacityExceeded, "table %q has %d extents", t.Name, len(t.Extents))
	}
	size := db.opts.InitialExtentSize
	if n := len(t.Extents); n > 0 {
		size = nextExtentSize(t.Extents[n-1].Len(), db.opts.growth(t.Segment))
	}
	e, err := db.allocateExtent(size, t.Header)
	if err != nil {
		return Extent{}, err
	}
	t.Extents = append(t.Extents, e)
	if err := db.saveCatalog(); err != nil {
		t.Extents = t.Extents[:len(t.Extents)-1]
		return Extent{}, err
	}
	return e, nil
}

func (db *DB) freeExtents(t *Table) error {
	for _, e := range t.Extents {
		for id := e.From; id < e.To; id++ {
			b, err := db.cache.get(id)
			if err != nil {
				return err
			}
			b.reset(BlockTypeFree, nil)
			if err := db.cache.put(b); err != nil {
				return err
			}
		}
	}
	return nil
}
