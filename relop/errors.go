package relop

import (
	"github.com/pkg/errors"

	"github.com/aita/blockjoin/db"
)

var (
	// ErrNotFound and ErrSchemaOverflow are shared with the storage layer so
	// callers can classify failures from either package the same way.
	ErrNotFound       = db.ErrNotFound
	ErrSchemaOverflow = db.ErrSchemaOverflow

	ErrUnresolvedReference = errors.New("relop: unresolved attribute reference")
	ErrInvalidExpression   = errors.New("relop: invalid constraint expression")
	ErrUncomparable        = errors.New("relop: values are not comparable")
	ErrSchemaMismatch      = errors.New("relop: table headers do not match")
	ErrSameTable           = errors.New("relop: destination must differ from source tables")
	ErrAmbiguousAttribute  = errors.New("relop: attribute name is not unique in join header")
)
