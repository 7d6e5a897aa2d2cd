package avro

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helloLogicalType implements spec.md 8 scenario 7: appends/strips a
// trailing "H" around the wire value.
type helloLogicalType struct{}

func (helloLogicalType) ToValue(_ context.Context, domainValue interface{}, _ Schema) (interface{}, error) {
	return domainValue.(string) + "H", nil
}

func (helloLogicalType) FromValue(_ context.Context, avroValue interface{}, _ Schema) (interface{}, error) {
	s := avroValue.(string)
	return s[:len(s)-1], nil
}

func (helloLogicalType) ValidateBeforeToValue(domainValue interface{}, _ Schema, _ *Options) bool {
	_, ok := domainValue.(string)
	return ok
}

func (helloLogicalType) ValidateBeforeFromValue(avroValue interface{}, _ Schema, _ *Options) bool {
	_, ok := avroValue.(string)
	return ok
}

func TestLogicalTypeHookAppliesOnWrite(t *testing.T) {
	schema := MustParse(`{"type":"string","logicalType":"hello"}`)
	opt := WithLogicalType("hello", helloLogicalType{})

	w := NewDatumWriter(schema, opt)
	cur := NewCursor(nil)
	require.NoError(t, w.Write(context.Background(), "Hello", cur))

	// The payload is length-prefixed; "HelloH" is 6 bytes, so byte at
	// offset +5 (0-indexed within the payload) is 'H' == 0x48.
	payload := cur.Bytes()[1:] // 1-byte long-length prefix for a 6-char string
	require.Len(t, payload, 6)
	assert.Equal(t, byte(0x48), payload[5])
	assert.Equal(t, "HelloH", string(payload))
}

func TestLogicalTypeHookAppliesOnRead(t *testing.T) {
	schema := MustParse(`{"type":"string","logicalType":"hello"}`)
	opt := WithLogicalType("hello", helloLogicalType{})

	cur := NewCursor(nil)
	cur.WriteString("HelloH")
	buf := cur.Bytes()

	withHook := NewDatumReader(schema, nil, opt)
	v, err := withHook.Read(context.Background(), NewCursor(buf))
	require.NoError(t, err)
	assert.Equal(t, "Hello", v)

	withoutHook := NewDatumReader(schema, nil)
	v2, err := withoutHook.Read(context.Background(), NewCursor(buf))
	require.NoError(t, err)
	assert.Equal(t, "HelloH", v2)
}
