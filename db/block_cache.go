package db

import (
	"container/list"

	"go.uber.org/atomic"
)

type blockList struct {
	lst      *list.List
	elements map[BlockID]*list.Element
}

func newBlockList() *blockList {
	l := &blockList{
		lst:      list.New(),
		elements: map[BlockID]*list.Element{},
	}
	return l
}

func (l *blockList) len() int {
	return l.lst.Len()
}

func (l *blockList) find(id BlockID) *Block {
	e, ok := l.elements[id]
	if !ok {
		return nil
	}
	l.lst.MoveToFront(e)
	return e.Value.(*Block)
}

func (l *blockList) add(b *Block) {
	e, ok := l.elements[b.ID]
	if !ok {
		l.elements[b.ID] = l.lst.PushFront(b)
	} else {
		e.Value = b
		l.lst.MoveToFront(e)
	}
}

func (l *blockList) remove(id BlockID) {
	e, ok := l.elements[id]
	if !ok {
		return
	}
	l.lst.Remove(e)
	delete(l.elements, id)
}

func (l *blockList) getLast() *Block {
	last := l.lst.Back()
	if last == nil {
		return nil
	}
	return last.Value.(*Block)
}

// CacheStats counts block cache activity.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// blockCache keeps recently used blocks in memory and writes dirty blocks
// back when they are evicted or flushed.
type blockCache struct {
	file    *dbFile
	blocks  *blockList
	maxSize int

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

func newBlockCache(file *dbFile, maxSize int) *blockCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &blockCache{
		file:    file,
		blocks:  newBlockList(),
		maxSize: maxSize,
	}
}

func (c *blockCache) get(id BlockID) (*Block, error) {
	if b := c.blocks.find(id); b != nil {
		c.hits.Inc()
		return b, nil
	}
	c.misses.Inc()
	b, err := c.file.readBlock(id)
	if err != nil {
		return nil, err
	}
	if err := c.put(b); err != nil {
		return nil, err
	}
	return b, nil
}

// put makes b the cached copy of its block.
func (c *blockCache) put(b *Block) error {
	if c.blocks.find(b.ID) == nil && c.blocks.len() >= c.maxSize {
		if err := c.evict(); err != nil {
			return err
		}
	}
	c.blocks.add(b)
	return nil
}

func (c *blockCache) evict() error {
	b := c.blocks.getLast()
	if b == nil {
		return nil
	}
	if err := c.flushBlock(b); err != nil {
		return err
	}
	c.blocks.remove(b.ID)
	c.evictions.Inc()
	return nil
}

func (c *blockCache) flushBlock(b *Block) error {
	if !b.dirty {
		return nil
	}
	if err := c.file.writeBlock(b); err != nil {
		return err
	}
	b.dirty = false
	return nil
}

func (c *blockCache) flushAll() error {
	for _, e := range c.blocks.elements {
		if err := c.flushBlock(e.Value.(*Block)); err != nil {
			return err
		}
	}
	return nil
}

func (c *blockCache) stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
