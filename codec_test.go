package avro

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1 (spec.md 8): parse "int", encode 1234, check the literal
// zig-zag bytes, then decode back.
func TestCodecScenarioInt(t *testing.T) {
	schema := MustParse(`"int"`)
	cur := NewCursor(nil)
	require.NoError(t, NewDatumWriter(schema).Write(context.Background(), 1234, cur))
	assert.Equal(t, []byte{0xa4, 0x13}, cur.Bytes())

	v, err := NewDatumReader(schema, nil).Read(context.Background(), NewCursor(cur.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, int32(1234), v)
}

// Scenario 2: a single-field long record.
func TestCodecScenarioRecord(t *testing.T) {
	schema := MustParse(`{"type":"record","name":"Test","fields":[{"name":"f","type":"long"}]}`)
	cur := NewCursor(nil)
	value := map[string]interface{}{"f": 5}
	require.NoError(t, NewDatumWriter(schema).Write(context.Background(), value, cur))
	assert.Equal(t, []byte{0x0a}, cur.Bytes())

	v, err := NewDatumReader(schema, nil).Read(context.Background(), NewCursor(cur.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"f": int64(5)}, v)
}

// Scenario 3: int writer, double reader, primitive promotion.
func TestCodecScenarioPromotion(t *testing.T) {
	writerSchema := MustParse(`"int"`)
	readerSchema := MustParse(`"double"`)

	cur := NewCursor(nil)
	require.NoError(t, NewDatumWriter(writerSchema).Write(context.Background(), 219, cur))
	assert.Equal(t, []byte{0xb6, 0x03}, cur.Bytes())

	v, err := NewDatumReader(writerSchema, readerSchema).Read(context.Background(), NewCursor(cur.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 219.0, v)
}

func longRecordSchema(name string, fields []string) string {
	out := `{"type":"record","name":"` + name + `","fields":[`
	for i, f := range fields {
		if i > 0 {
			out += ","
		}
		out += `{"name":"` + f + `","type":"int"}`
	}
	return out + "]}"
}

// Scenario 4: field-by-name projection drops fields the reader doesn't
// declare.
func TestCodecScenarioProjection(t *testing.T) {
	writerSchema := MustParse(longRecordSchema("LongRecord", []string{"A", "B", "C", "D", "E", "F", "G"}))
	readerSchema := MustParse(longRecordSchema("LongRecord", []string{"E", "F"}))

	value := map[string]interface{}{"A": 1, "B": 2, "C": 3, "D": 4, "E": 5, "F": 6, "G": 7}
	cur := NewCursor(nil)
	require.NoError(t, NewDatumWriter(writerSchema).Write(context.Background(), value, cur))

	v, err := NewDatumReader(writerSchema, readerSchema).Read(context.Background(), NewCursor(cur.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"E": int32(5), "F": int32(6)}, v)
}

// Scenario 5: reader field absent from the writer schema is filled from
// its field-level default.
func TestCodecScenarioDefaults(t *testing.T) {
	writerSchema := MustParse(longRecordSchema("LongRecord", []string{"A", "B", "C", "D", "E", "F", "G"}))
	readerSchema := MustParse(`{"type":"record","name":"LongRecord","fields":[{"name":"H","type":"int","default":0}]}`)

	value := map[string]interface{}{"A": 1, "B": 2, "C": 3, "D": 4, "E": 5, "F": 6, "G": 7}
	cur := NewCursor(nil)
	require.NoError(t, NewDatumWriter(writerSchema).Write(context.Background(), value, cur))

	v, err := NewDatumReader(writerSchema, readerSchema).Read(context.Background(), NewCursor(cur.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"H": int32(0)}, v)
}

// Scenario 6: recursive "Lisp" schema, a union of null/string/Cons, where
// Cons.car and Cons.cdr refer back to the enclosing record by name.
func TestCodecScenarioRecursiveLisp(t *testing.T) {
	schema := MustParse(`{
		"type":"record","name":"LispNode",
		"fields":[
			{"name":"value","type":["null","string",
				{"type":"record","name":"Cons","fields":[
					{"name":"car","type":"LispNode"},
					{"name":"cdr","type":"LispNode"}
				]}
			]}
		]
	}`)

	value := map[string]interface{}{
		"value": map[string]interface{}{
			"car": map[string]interface{}{"value": "head"},
			"cdr": map[string]interface{}{"value": nil},
		},
	}

	cur := NewCursor(nil)
	require.NoError(t, NewDatumWriter(schema).Write(context.Background(), value, cur))

	got, err := NewDatumReader(schema, nil).Read(context.Background(), NewCursor(cur.Bytes()))
	require.NoError(t, err)
	if diff := cmp.Diff(value, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// spec.md 8 invariant 5: every encoded array/map ends with a 0x00
// terminator.
func TestArrayAndMapEncodeEndWithTerminator(t *testing.T) {
	arr := MustParse(`{"type":"array","items":"int"}`)
	cur := NewCursor(nil)
	require.NoError(t, NewDatumWriter(arr).Write(context.Background(), []interface{}{1, 2, 3}, cur))
	assert.Equal(t, byte(0x00), cur.Bytes()[len(cur.Bytes())-1])

	m := MustParse(`{"type":"map","values":"int"}`)
	cur2 := NewCursor(nil)
	require.NoError(t, NewDatumWriter(m).Write(context.Background(), map[string]interface{}{"k": 1}, cur2))
	assert.Equal(t, byte(0x00), cur2.Bytes()[len(cur2.Bytes())-1])
}

func TestUnionWriteWithNoMatchingBranchRaisesTypeError(t *testing.T) {
	u := MustParse(`["null","int"]`)
	err := NewDatumWriter(u).Write(context.Background(), "not allowed", NewCursor(nil))
	require.Error(t, err)
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestEnumIndexOutOfRangeRaisesSchemaResolutionError(t *testing.T) {
	schema := MustParse(`{"type":"enum","name":"E","symbols":["A","B"]}`)
	cur := NewCursor(nil)
	cur.WriteLong(2) // == len(symbols); spec.md 8 boundary behavior
	_, err := NewDatumReader(schema, nil).Read(context.Background(), NewCursor(cur.Bytes()))
	require.Error(t, err)
	var resErr *SchemaResolutionError
	require.ErrorAs(t, err, &resErr)
}

func TestWriterFieldMissingFromReaderIsSkipped(t *testing.T) {
	writerSchema := MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"},{"name":"b","type":"string"}]}`)
	readerSchema := MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)

	cur := NewCursor(nil)
	require.NoError(t, NewDatumWriter(writerSchema).Write(context.Background(), map[string]interface{}{"a": 1, "b": "ignored"}, cur))

	v, err := NewDatumReader(writerSchema, readerSchema).Read(context.Background(), NewCursor(cur.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": int32(1)}, v)
}

func TestReaderFieldMissingFromWriterWithoutDefaultErrors(t *testing.T) {
	writerSchema := MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	readerSchema := MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"},{"name":"b","type":"string"}]}`)

	cur := NewCursor(nil)
	require.NoError(t, NewDatumWriter(writerSchema).Write(context.Background(), map[string]interface{}{"a": 1}, cur))

	_, err := NewDatumReader(writerSchema, readerSchema).Read(context.Background(), NewCursor(cur.Bytes()))
	require.Error(t, err)
	var resErr *SchemaResolutionError
	require.ErrorAs(t, err, &resErr)
}

func TestContextCancellationStopsWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	schema := MustParse(`"int"`)
	err := NewDatumWriter(schema).Write(ctx, 1, NewCursor(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
