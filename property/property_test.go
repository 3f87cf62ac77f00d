package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/format"
)

func testSchema() Schema {
	return Schema{Fields: []Field{
		{Name: "name", Kind: format.PropertyString},
		{Name: "population", Kind: format.PropertyI64},
		{Name: "active", Kind: format.PropertyBool},
	}}
}

func TestSchema_EncodeDecode(t *testing.T) {
	s := testSchema()
	buf := s.Encode(nil)
	got, n, err := DecodeSchema(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, s, got)
}

func TestSchema_IndexOf(t *testing.T) {
	s := testSchema()
	assert.Equal(t, 1, s.IndexOf("population"))
	assert.Equal(t, -1, s.IndexOf("missing"))
}

func TestSchema_DecodeRejectsUnknownKind(t *testing.T) {
	buf := []byte{1, 3, 'f', 'o', 'o', 0x63}
	_, _, err := DecodeSchema(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrSchemaInvalid)
}

func TestMap_EncodeDecode_Sparse(t *testing.T) {
	s := testSchema()
	m := Map{0: String("Seattle"), 2: Bool(true)} // population omitted

	buf, err := Encode(nil, s, m)
	require.NoError(t, err)

	got, n, err := Decode(buf, s)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, m, got)
	_, hasPop := got[1]
	assert.False(t, hasPop)
}

func TestMap_EncodeDecode_AllKinds(t *testing.T) {
	s := Schema{Fields: []Field{
		{Name: "b", Kind: format.PropertyBool},
		{Name: "i", Kind: format.PropertyI64},
		{Name: "u", Kind: format.PropertyU64},
		{Name: "f", Kind: format.PropertyF64},
		{Name: "s", Kind: format.PropertyString},
		{Name: "x", Kind: format.PropertyBytes},
	}}
	m := Map{
		0: Bool(true),
		1: I64(-42),
		2: U64(42),
		3: F64(3.5),
		4: String("hello"),
		5: Bytes{0xde, 0xad, 0xbe, 0xef},
	}
	buf, err := Encode(nil, s, m)
	require.NoError(t, err)
	got, n, err := Decode(buf, s)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, m, got)
}

func TestMap_Validate_RejectsKindMismatch(t *testing.T) {
	s := testSchema()
	m := Map{1: String("not a number")}
	_, err := Encode(nil, s, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPropertyKindMismatch)
}

func TestMap_Validate_RejectsOutOfRangeIndex(t *testing.T) {
	s := testSchema()
	m := Map{99: Bool(true)}
	_, err := Encode(nil, s, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrSchemaIndexOutOfRange)
}

func TestDecode_RejectsInvalidUtf8(t *testing.T) {
	s := Schema{Fields: []Field{{Name: "name", Kind: format.PropertyString}}}
	buf := []byte{1, 0, 2, 0xff, 0xfe} // one property at index 0, 2-byte invalid utf8 string
	_, _, err := Decode(buf, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUtf8)
}

func TestDecode_EmptyMap(t *testing.T) {
	s := testSchema()
	got, n, err := Decode([]byte{0}, s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, got)
}
