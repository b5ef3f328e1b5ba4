package db

// Cursor walks the rows of one table, extent by extent and block by block.
type Cursor struct {
	db       *DB
	extents  []Extent
	ext      int
	blockID  BlockID
	block    *Block
	rowIndex int
}

// Scan opens a cursor over table.
func (db *DB) Scan(table string) (*Cursor, error) {
	extents, err := db.TableAddresses(table)
	if err != nil {
		return nil, err
	}
	return &Cursor{
		db:      db,
		extents: extents,
		blockID: extents[0].From,
	}, nil
}

// Next reports whether another row is available.
func (c *Cursor) Next() (bool, error) {
	for c.ext < len(c.extents) {
		if c.block == nil {
			b, err := c.db.AcquireBlock(c.blockID)
			if err != nil {
				return false, err
			}
			c.block = b
		}
		if c.block.HasData() && c.block.HasMoreRows(c.rowIndex) {
			return true, nil
		}
		c.block = nil
		c.rowIndex = 0
		c.blockID++
		if c.blockID >= c.extents[c.ext].To {
			c.ext++
			if c.ext < len(c.extents) {
				c.blockID = c.extents[c.ext].From
			}
		}
	}
	return false, nil
}

// Scan copies the current row and advances. Next must have returned true.
func (c *Cursor) Scan() (Row, error) {
	if ok, err := c.Next(); err != nil || !ok {
		return nil, err
	}
	row := Row{}
	for col, attr := range c.block.Header {
		typ, value := c.block.RowField(c.rowIndex, col)
		row.Add(typ, attr.Name, value)
	}
	c.rowIndex += c.block.AttributeCount()
	return row, nil
}
