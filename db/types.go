package db

import "strings"

// DataType is the column type tag stored in headers and tuple dictionaries.
type DataType int32

const (
	TypeInternal DataType = iota
	TypeInt
	TypeFloat
	TypeNumber
	TypeVarchar
	TypeDate
	TypeDatetime
	TypeTime
	TypeBlob
	TypeBool

	// TypeFree marks an unused tuple dictionary slot.
	TypeFree DataType = FreeInt
)

var typeNames = map[DataType]string{
	TypeInternal: "internal",
	TypeInt:      "int",
	TypeFloat:    "float",
	TypeNumber:   "number",
	TypeVarchar:  "varchar",
	TypeDate:     "date",
	TypeDatetime: "datetime",
	TypeTime:     "time",
	TypeBlob:     "blob",
	TypeBool:     "bool",
	TypeFree:     "free",
}

func (t DataType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseDataType accepts the names produced by DataType.String.
func ParseDataType(s string) (DataType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s && t != TypeFree {
			return t, true
		}
	}
	return TypeFree, false
}

// Size returns the fixed encoded width of t, or 0 for variable-length types.
func (t DataType) Size() int {
	switch t {
	case TypeInt, TypeFloat:
		return 4
	case TypeNumber:
		return 8
	case TypeBool:
		return 1
	}
	return 0
}
