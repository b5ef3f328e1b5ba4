package db

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/aita/blockjoin/debug"
)

// DB is a block file together with its cache and system catalog.
type DB struct {
	file   *dbFile
	cache  *blockCache
	opts   Options
	tables []*Table
	byName map[string]*Table
}

// Create makes a new database file at path.
func Create(path string, opts Options) (*DB, error) {
	opts = opts.normalize()
	file, err := createFile(path, opts.InitialExtentSize)
	if err != nil {
		return nil, err
	}
	return initialize(file, opts)
}

// Open opens an existing database file.
func Open(path string, opts Options) (*DB, error) {
	file, err := openFile(path)
	if err != nil {
		return nil, err
	}
	return load(file, opts)
}

// CreateSink formats sink as a new database.
func CreateSink(sink Sink, opts Options) (*DB, error) {
	opts = opts.normalize()
	file, err := newFile(sink, opts.InitialExtentSize)
	if err != nil {
		return nil, err
	}
	return initialize(file, opts)
}

// OpenSink opens a database previously written to sink.
func OpenSink(sink Sink, opts Options) (*DB, error) {
	file, err := loadFile(sink)
	if err != nil {
		return nil, err
	}
	return load(file, opts)
}

func initialize(file *dbFile, opts Options) (*DB, error) {
	db := newDB(file, opts)
	if _, err := file.addBlocks(int(file.hdr.CatalogBlocks)); err != nil {
		return nil, multierr.Append(err, file.close())
	}
	if err := db.formatCatalog(); err != nil {
		return nil, multierr.Append(err, file.close())
	}
	if err := db.cache.flushAll(); err != nil {
		return nil, multierr.Append(err, file.close())
	}
	debug.Printf(debug.Low, debug.FileMan, "created database %s with %d catalog blocks", file.hdr.FileID, file.hdr.CatalogBlocks)
	return db, nil
}

func load(file *dbFile, opts Options) (*DB, error) {
	db := newDB(file, opts)
	if err := db.loadCatalog(); err != nil {
		return nil, multierr.Append(err, file.close())
	}
	return db, nil
}

func newDB(file *dbFile, opts Options) *DB {
	opts = opts.normalize()
	return &DB{
		file:   file,
		cache:  newBlockCache(file, opts.CacheSize),
		opts:   opts,
		byName: map[string]*Table{},
	}
}

func (db *DB) Close() error {
	err := db.Sync()
	err = multierr.Append(err, db.file.close())
	return err
}

// Sync writes every dirty cached block to the file.
func (db *DB) Sync() error {
	return db.cache.flushAll()
}

// FileID identifies the database file.
func (db *DB) FileID() uuid.UUID {
	return db.file.hdr.FileID
}

func (db *DB) Stats() CacheStats {
	return db.cache.stats()
}

// Tables lists table names in creation order.
func (db *DB) Tables() []string {
	names := make([]string, 0, len(db.tables))
	for _, t := range db.tables {
		names = append(names, t.Name)
	}
	return names
}

// Table returns a copy of the catalog entry of name.
func (db *DB) Table(name string) (*Table, error) {
	t, ok := db.byName[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "table %q", name)
	}
	return t.clone(), nil
}

// TableAddresses returns the extents of a table in allocation order.
func (db *DB) TableAddresses(name string) ([]Extent, error) {
	t, ok := db.byName[name]
	if !ok || len(t.Extents) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "table %q", name)
	}
	return append([]Extent(nil), t.Extents...), nil
}

// AcquireBlock returns the cached block id. Callers must not modify it.
func (db *DB) AcquireBlock(id BlockID) (*Block, error) {
	return db.cache.get(id)
}

func (db *DB) Header(name string) ([]Attribute, error) {
	t, ok := db.byName[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "table %q", name)
	}
	return append([]Attribute(nil), t.Header...), nil
}

func (db *DB) AttributeCount(name string) (int, error) {
	t, ok := db.byName[name]
	if !ok {
		return 0, errors.Wrapf(ErrNotFound, "table %q", name)
	}
	return len(t.Header), nil
}

// CreateTable registers a new table and allocates its first extent.
func (db *DB) CreateTable(name string, header []Attribute, seg SegmentType) error {
	if name == "" || len(name) > MaxAttNameLength {
		return errors.Errorf("db: invalid table name %q", name)
	}
	if name == catalogTable {
		return errors.Wrapf(ErrTableExists, "table %q", name)
	}
	if _, ok := db.byName[name]; ok {
		return errors.Wrapf(ErrTableExists, "table %q", name)
	}
	if err := ValidateHeader(header); err != nil {
		return err
	}
	t := &Table{
		Name:    name,
		Segment: seg,
		Header:  append([]Attribute(nil), header...),
	}
	e, err := db.allocateExtent(db.opts.InitialExtentSize, t.Header)
	if err != nil {
		return err
	}
	t.Extents = []Extent{e}
	db.tables = append(db.tables, t)
	db.byName[name] = t
	if err := db.saveCatalog(); err != nil {
		db.forget(name)
		return multierr.Append(err, db.freeExtents(t))
	}
	debug.Printf(debug.Low, debug.FileMan, "table %s created with %d attributes", name, len(header))
	return nil
}

// DropTable releases a table's extents and removes it from the catalog.
func (db *DB) DropTable(name string) error {
	t, ok := db.byName[name]
	if !ok {
		return errors.Wrapf(ErrNotFound, "table %q", name)
	}
	db.forget(name)
	err := db.saveCatalog()
	err = multierr.Append(err, db.freeExtents(t))
	debug.Printf(debug.Low, debug.FileMan, "table %s dropped", name)
	return err
}

func (db *DB) forget(name string) {
	delete(db.byName, name)
	for i, t := range db.tables {
		if t.Name == name {
			db.tables = append(db.tables[:i], db.tables[i+1:]...)
			return
		}
	}
}

// InsertRow appends row to table. Fields are matched to attributes by name.
func (db *DB) InsertRow(table string, row Row) error {
	t, ok := db.byName[table]
	if !ok {
		return errors.Wrapf(ErrNotFound, "table %q", table)
	}
	types, values, err := row.ordered(t.Header)
	if err != nil {
		return errors.Wrapf(err, "insert into %q", table)
	}
	for _, e := range t.Extents {
		for id := e.From; id < e.To; id++ {
			ok, err := db.appendTo(id, types, values)
			if err != nil || ok {
				return err
			}
		}
	}
	e, err := db.growTable(t)
	if err != nil {
		return err
	}
	ok, err = db.appendTo(e.From, types, values)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrNoEmptySpace, "row does not fit in an empty block of %q", table)
	}
	return nil
}

func (db *DB) appendTo(id BlockID, types []DataType, values [][]byte) (bool, error) {
	b, err := db.cache.get(id)
	if err != nil {
		return false, err
	}
	if err := b.appendRow(types, values); err != nil {
		if err == ErrNoEmptySpace {
			return false, nil
		}
		return false, err
	}
	return true, db.cache.put(b)
}

// Select reads every row of a table.
func (db *DB) Select(table string) ([]Row, error) {
	c, err := db.Scan(table)
	if err != nil {
		return nil, err
	}
	rows := []Row{}
	for {
		ok, err := c.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		row, err := c.Scan()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// DumpBlock renders the decoded contents of a block.
func (db *DB) DumpBlock(id BlockID) (string, error) {
	b, err := db.cache.get(id)
	if err != nil {
		return "", err
	}
	view := struct {
		ID          BlockID
		Type        int32
		ChainedWith int32
		FreeSpace   int32
		Header      []Attribute
		TupleDict   []TupleSlot
		Data        []byte
	}{b.ID, b.Type, b.ChainedWith, b.FreeSpace, b.Header, b.TupleDict, b.Data[:b.FreeSpace]}
	return spew.Sdump(view), nil
}
