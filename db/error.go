package db

import "github.com/pkg/errors"

var (
	ErrInvalidMagic     = errors.New("db: invalid magic number")
	ErrNoEmptySpace     = errors.New("db: no empty space")
	ErrNotFound         = errors.New("db: table not found")
	ErrTableExists      = errors.New("db: table already exists")
	ErrSchemaOverflow   = errors.New("db: attribute name too long")
	ErrCapacityExceeded = errors.New("db: capacity exceeded")
	ErrBlockOutOfRange  = errors.New("db: block out of range")
	ErrTypeMismatch     = errors.New("db: field type does not match header")
	ErrCorruptBlock     = errors.New("db: corrupt block")
)
