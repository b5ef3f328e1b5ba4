package db

import (
	"math"

	"github.com/pkg/errors"
)

// Extent is a half-open range [From, To) of block ids owned by one table.
type Extent struct {
	From BlockID
	To   BlockID
}

func (e Extent) Len() int {
	return int(e.To - e.From)
}

// Table is the catalog entry of a segment.
type Table struct {
	Name    string
	Segment SegmentType
	Header  []Attribute
	Extents []Extent
}

func (t *Table) clone() *Table {
	return &Table{
		Name:    t.Name,
		Segment: t.Segment,
		Header:  append([]Attribute(nil), t.Header...),
		Extents: append([]Extent(nil), t.Extents...),
	}
}

// ValidateHeader checks the limits a table header must respect.
func ValidateHeader(header []Attribute) error {
	if len(header) == 0 {
		return errors.New("db: header has no attributes")
	}
	if len(header) > MaxAttributes {
		return errors.Wrapf(ErrCapacityExceeded, "%d attributes, at most %d", len(header), MaxAttributes)
	}
	seen := map[string]bool{}
	for _, attr := range header {
		if attr.Name == "" {
			return errors.New("db: empty attribute name")
		}
		if len(attr.Name) > MaxAttNameLength {
			return errors.Wrapf(ErrSchemaOverflow, "attribute %q", attr.Name)
		}
		if seen[attr.Name] {
			return errors.Errorf("db: duplicate attribute %q", attr.Name)
		}
		if _, ok := typeNames[attr.Type]; !ok || attr.Type == TypeFree {
			return errors.Errorf("db: attribute %q has invalid type %d", attr.Name, attr.Type)
		}
		seen[attr.Name] = true
	}
	return nil
}

func nextExtentSize(prev int, growth float64) int {
	n := int(math.Ceil(float64(prev) * (1 + growth)))
	if n <= prev {
		n = prev + 1
	}
	return n
}
