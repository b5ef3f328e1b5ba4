package relop

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"gotest.tools/assert"

	"github.com/aita/blockjoin/db"
)

func TestBuildJoinHeaderDisjoint(t *testing.T) {
	h1 := attrs("manager", db.TypeVarchar, "dept_name", db.TypeVarchar)
	h2 := attrs("lastname", db.TypeVarchar, "id", db.TypeInt)

	got, err := BuildJoinHeader(h1, h2, "department", "professor")
	assert.NilError(t, err)
	if diff := cmp.Diff(append(append([]db.Attribute{}, h1...), h2...), got); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildJoinHeaderQualifiesCollisions(t *testing.T) {
	h1 := attrs("id", db.TypeInt, "name", db.TypeVarchar)
	h2 := attrs("id", db.TypeInt, "age", db.TypeInt)

	got, err := BuildJoinHeader(h1, h2, "t1", "t2")
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{"t1.id", "name", "t2.id", "age"}, names(got))
	for _, attr := range got {
		assert.Assert(t, attr.Name != "id")
	}
	assert.Equal(t, db.TypeInt, got[2].Type)

	// inputs are left untouched
	assert.Equal(t, "id", h1[0].Name)
	assert.Equal(t, "id", h2[0].Name)
}

func TestBuildJoinHeaderRenamesMatchedAttribute(t *testing.T) {
	h1 := attrs("a", db.TypeInt, "b", db.TypeInt, "c", db.TypeInt)
	h2 := attrs("x", db.TypeInt, "c", db.TypeInt, "a", db.TypeInt)

	got, err := BuildJoinHeader(h1, h2, "left", "right")
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{"left.a", "b", "left.c", "x", "right.c", "right.a"}, names(got))
}

func TestBuildJoinHeaderSelfJoin(t *testing.T) {
	h := attrs("id", db.TypeInt, "name", db.TypeVarchar)

	_, err := BuildJoinHeader(h, h, "person", "person")
	assert.Assert(t, errors.Is(err, ErrAmbiguousAttribute))

	// a qualified name already present in the other input
	_, err = BuildJoinHeader(attrs("t2.id", db.TypeInt), attrs("id", db.TypeInt, "x", db.TypeInt), "t1", "t2")
	assert.NilError(t, err)
	_, err = BuildJoinHeader(attrs("id", db.TypeInt, "t2.id", db.TypeInt), attrs("id", db.TypeInt), "t1", "t2")
	assert.Assert(t, errors.Is(err, ErrAmbiguousAttribute))
}

func TestBuildJoinHeaderNameTooLong(t *testing.T) {
	long := strings.Repeat("t", db.MaxAttNameLength-len(".name"))
	h := attrs("name1", db.TypeVarchar)

	_, err := BuildJoinHeader(h, h, long, "short")
	assert.Assert(t, errors.Is(err, ErrSchemaOverflow))

	_, err = BuildJoinHeader(attrs("name", db.TypeVarchar), attrs("name", db.TypeVarchar), long, "short")
	assert.NilError(t, err)
}

func TestBuildJoinHeaderTooManyAttributes(t *testing.T) {
	var h1, h2 []db.Attribute
	for i := 0; i < 6; i++ {
		h1 = append(h1, db.Attribute{Name: "a" + string(rune('0'+i)), Type: db.TypeInt})
		h2 = append(h2, db.Attribute{Name: "b" + string(rune('0'+i)), Type: db.TypeInt})
	}
	_, err := BuildJoinHeader(h1, h2, "t1", "t2")
	assert.Assert(t, errors.Is(err, db.ErrCapacityExceeded))
}
