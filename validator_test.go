package avro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIntBoundaries(t *testing.T) {
	s := MustParse(`"int"`)
	assert.True(t, Validate(s, int64(-1)<<31))
	assert.True(t, Validate(s, int64(1)<<31-1))
	assert.False(t, Validate(s, int64(1)<<31))
}

func TestValidatePrimitives(t *testing.T) {
	assert.True(t, Validate(MustParse(`"null"`), nil))
	assert.False(t, Validate(MustParse(`"null"`), 0))
	assert.True(t, Validate(MustParse(`"boolean"`), true))
	assert.True(t, Validate(MustParse(`"string"`), "hi"))
	assert.True(t, Validate(MustParse(`"bytes"`), []byte{1, 2}))
	assert.True(t, Validate(MustParse(`"float"`), float32(1.5)))
	assert.True(t, Validate(MustParse(`"double"`), 1.5))
}

func TestValidateFixedChecksLength(t *testing.T) {
	s := MustParse(`{"type":"fixed","name":"F","size":3}`)
	assert.True(t, Validate(s, []byte{1, 2, 3}))
	assert.False(t, Validate(s, []byte{1, 2}))
}

func TestValidateEnum(t *testing.T) {
	s := MustParse(`{"type":"enum","name":"E","symbols":["A","B"]}`)
	assert.True(t, Validate(s, "A"))
	assert.False(t, Validate(s, "C"))
}

func TestValidateArrayAndMap(t *testing.T) {
	arr := MustParse(`{"type":"array","items":"int"}`)
	assert.True(t, Validate(arr, []interface{}{int64(1), int64(2)}))
	assert.False(t, Validate(arr, []interface{}{"nope"}))

	m := MustParse(`{"type":"map","values":"string"}`)
	assert.True(t, Validate(m, map[string]interface{}{"k": "v"}))
	assert.False(t, Validate(m, map[string]interface{}{"k": 5}))
}

func TestValidateUnionRequiresOneMatchingBranch(t *testing.T) {
	u := MustParse(`["null","string"]`)
	assert.True(t, Validate(u, nil))
	assert.True(t, Validate(u, "x"))
	assert.False(t, Validate(u, int64(1)))
}

func TestValidateRecordRejectsExtraKeysAndFillsMissingWithNull(t *testing.T) {
	s := MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":["null","int"]}]}`)
	assert.True(t, Validate(s, map[string]interface{}{}), "missing field validates as null")
	assert.True(t, Validate(s, map[string]interface{}{"a": int64(1)}))
	assert.False(t, Validate(s, map[string]interface{}{"a": int64(1), "extra": true}))
}

func TestValidateDetailedReturnsTypeError(t *testing.T) {
	err := ValidateDetailed(MustParse(`"int"`), "nope")
	require.Error(t, err)
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Contains(t, typeErr.Error(), "nope")
}
