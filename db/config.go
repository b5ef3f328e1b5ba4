package db

// Layout constants. They define the on-disk block format and must not change
// for an existing file.
const (
	MaxAttributes    = 10
	MaxAttNameLength = 255
	MaxExtents       = 20
	DataBlockSize    = 500
	DataEntrySize    = 10
	DataAreaSize     = DataBlockSize * DataEntrySize

	// FreeInt marks unused integer slots (tuple dictionary, chaining).
	FreeInt = -1
)

const (
	BlockTypeFree    = -1
	BlockTypeNormal  = 0
	BlockTypeChained = 1

	NotChained = -1
)

// SegmentType distinguishes what a segment's extents are used for.
type SegmentType int32

const (
	SegmentSystemTable SegmentType = iota
	SegmentTable
	SegmentIndex
	SegmentTransaction
	SegmentTemp
)

func (s SegmentType) String() string {
	switch s {
	case SegmentSystemTable:
		return "system"
	case SegmentTable:
		return "table"
	case SegmentIndex:
		return "index"
	case SegmentTransaction:
		return "transaction"
	case SegmentTemp:
		return "temp"
	}
	return "unknown"
}

// Options are the runtime tunables of a database.
type Options struct {
	CacheSize         int
	InitialExtentSize int
	Growth            map[SegmentType]float64
}

func DefaultOptions() Options {
	return Options{
		CacheSize:         1024,
		InitialExtentSize: 20,
		Growth: map[SegmentType]float64{
			SegmentSystemTable: 0.5,
			SegmentTable:       0.5,
			SegmentIndex:       0.2,
			SegmentTransaction: 0.2,
			SegmentTemp:        0.5,
		},
	}
}

func (o Options) growth(seg SegmentType) float64 {
	if g, ok := o.Growth[seg]; ok {
		return g
	}
	return 0.5
}

func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.CacheSize < 1 {
		o.CacheSize = def.CacheSize
	}
	if o.InitialExtentSize < 1 {
		o.InitialExtentSize = def.InitialExtentSize
	}
	if o.Growth == nil {
		o.Growth = def.Growth
	}
	return o
}
