package avro

import "context"

// DatumWriter encodes host values to the Avro binary wire format under a
// fixed writer schema.
type DatumWriter struct {
	writer Schema
	opts   *Options
}

// NewDatumWriter constructs a DatumWriter bound to writerSchema.
func NewDatumWriter(writerSchema Schema, opts ...Option) *DatumWriter {
	return &DatumWriter{writer: writerSchema, opts: newOptions(opts)}
}

// Write validates value against the writer schema, then encodes it onto
// cur. ctx is checked for cancellation between logical-type hook
// invocations and between record fields; once ctx is done no further
// cursor operations are attempted.
func (dw *DatumWriter) Write(ctx context.Context, value interface{}, cur *Cursor) error {
	if !validate(dw.writer, value, dw.opts) {
		return &TypeError{Message: "value does not conform to writer schema", Schema: dw.writer, Value: value}
	}
	return writeData(ctx, dw.writer, value, cur, dw.opts)
}

func writeData(ctx context.Context, schema Schema, value interface{}, cur *Cursor, opts *Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if lt, ok := opts.logicalType(schema); ok {
		v, err := lt.ToValue(ctx, value, schema)
		if err != nil {
			return err
		}
		value = v
	}

	switch s := schema.(type) {
	case *PrimitiveSchema:
		return writePrimitive(s.kind, value, cur)
	case *FixedSchema:
		b, _ := asBytes(value)
		cur.WriteFixed(b)
		return nil
	case *EnumSchema:
		sym, _ := value.(string)
		idx := s.IndexOf(sym)
		if idx < 0 {
			return &TypeError{Message: "enum value is not a declared symbol", Schema: schema, Value: value}
		}
		cur.WriteLong(int64(idx))
		return nil
	case *ArraySchema:
		items, _ := asSlice(value)
		if len(items) > 0 {
			cur.WriteLong(int64(len(items)))
			for _, item := range items {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := writeData(ctx, s.Items, item, cur, opts); err != nil {
					return err
				}
			}
		}
		cur.WriteLong(0)
		return nil
	case *MapSchema:
		m, _ := value.(map[string]interface{})
		if len(m) > 0 {
			cur.WriteLong(int64(len(m)))
			for k, v := range m {
				if err := ctx.Err(); err != nil {
					return err
				}
				cur.WriteString(k)
				if err := writeData(ctx, s.Values, v, cur, opts); err != nil {
					return err
				}
			}
		}
		cur.WriteLong(0)
		return nil
	case *ErrorUnionSchema:
		return writeUnion(ctx, s.Branches, value, cur, opts)
	case *UnionSchema:
		return writeUnion(ctx, s.Branches, value, cur, opts)
	case *RecordSchema:
		return writeRecord(ctx, s, value, cur, opts)
	}
	return &TypeError{Message: "unsupported schema kind for write", Schema: schema, Value: value}
}

func writePrimitive(kind Kind, value interface{}, cur *Cursor) error {
	switch kind {
	case KindNull:
		return nil
	case KindBoolean:
		b, _ := value.(bool)
		cur.WriteBoolean(b)
	case KindString:
		str, _ := value.(string)
		cur.WriteString(str)
	case KindBytes:
		b, _ := asBytes(value)
		cur.WriteBytes(b)
	case KindInt, KindLong:
		n, _ := asInt64(value)
		cur.WriteLong(n)
	case KindFloat:
		f, _ := asFloat64(value)
		cur.WriteFloat(float32(f))
	case KindDouble:
		f, _ := asFloat64(value)
		cur.WriteDouble(f)
	}
	return nil
}

// writeUnion chooses the first branch that validates the value.
func writeUnion(ctx context.Context, branches []Schema, value interface{}, cur *Cursor, opts *Options) error {
	for i, b := range branches {
		if validate(b, value, opts) {
			cur.WriteLong(int64(i))
			return writeData(ctx, b, value, cur, opts)
		}
	}
	return &TypeError{Message: "no union branch matches value", Value: value}
}

func writeRecord(ctx context.Context, s *RecordSchema, value interface{}, cur *Cursor, opts *Options) error {
	m, ok := value.(map[string]interface{})
	if !ok {
		return &TypeError{Message: "record value must be a string-keyed mapping", Schema: s, Value: value}
	}
	for _, f := range s.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, present := m[f.Name]
		if !present {
			v = nil
		}
		if err := writeData(ctx, f.Type, v, cur, opts); err != nil {
			return err
		}
	}
	return nil
}
