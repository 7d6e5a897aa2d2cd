package avro

import "context"

// DatumReader decodes the Avro binary wire format written under a writer
// schema, projecting the result through an independent reader schema. A
// nil readerSchema at construction means reader == writer.
type DatumReader struct {
	writer Schema
	reader Schema
	opts   *Options
}

// NewDatumReader constructs a DatumReader. If readerSchema is nil, the
// writer schema is used as the reader schema too.
func NewDatumReader(writerSchema, readerSchema Schema, opts ...Option) *DatumReader {
	if readerSchema == nil {
		readerSchema = writerSchema
	}
	return &DatumReader{writer: writerSchema, reader: readerSchema, opts: newOptions(opts)}
}

// Read decodes one datum from cur. ctx is checked for cancellation between
// logical-type hook invocations and between record fields.
func (dr *DatumReader) Read(ctx context.Context, cur *Cursor) (interface{}, error) {
	return readData(ctx, dr.writer, dr.reader, cur, dr.opts)
}

func readData(ctx context.Context, w, r Schema, cur *Cursor, opts *Options) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !matchSchemas(w, r) {
		return nil, newResolutionError("writer and reader schemas do not match", w, r)
	}

	activeReader := r
	if w.Type() != KindUnion && w.Type() != KindErrorUnion {
		if branches, ok := unionBranches(r); ok {
			found := false
			for _, b := range branches {
				if matchSchemas(w, b) {
					activeReader = b
					found = true
					break
				}
			}
			if !found {
				return nil, newResolutionError("no reader union branch matches writer schema", w, r)
			}
		}
	}

	value, err := readByWriterKind(ctx, w, activeReader, cur, opts)
	if err != nil {
		return nil, err
	}

	if lt, ok := opts.logicalType(activeReader); ok {
		if lt.ValidateBeforeFromValue(value, activeReader, opts) {
			v, err := lt.FromValue(ctx, value, activeReader)
			if err != nil {
				return nil, err
			}
			value = v
		}
	}

	return value, nil
}

func unionBranches(s Schema) ([]Schema, bool) {
	switch v := s.(type) {
	case *ErrorUnionSchema:
		return v.Branches, true
	case *UnionSchema:
		return v.Branches, true
	}
	return nil, false
}

func readByWriterKind(ctx context.Context, w, r Schema, cur *Cursor, opts *Options) (interface{}, error) {
	switch ws := w.(type) {
	case *PrimitiveSchema:
		raw := readPrimitive(ws.kind, cur)
		return promote(ws.kind, r.Type(), raw), nil
	case *FixedSchema:
		return cur.ReadFixed(ws.Size), nil
	case *EnumSchema:
		idx := cur.ReadLong()
		if idx < 0 || int(idx) >= len(ws.Symbols) {
			return nil, newResolutionError("enum index out of range for writer symbols", w, r)
		}
		sym := ws.Symbols[idx]
		if re, ok := r.(*EnumSchema); ok && re.IndexOf(sym) < 0 {
			return nil, newResolutionError("enum symbol absent from reader symbols", w, r)
		}
		return sym, nil
	case *ArraySchema:
		itemReader := ws.Items
		if rs, ok := r.(*ArraySchema); ok {
			itemReader = rs.Items
		}
		var out []interface{}
		err := readBlocks(cur, func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := readData(ctx, ws.Items, itemReader, cur, opts)
			if err != nil {
				return err
			}
			out = append(out, v)
			return nil
		})
		if out == nil {
			out = []interface{}{}
		}
		return out, err
	case *MapSchema:
		valueReader := ws.Values
		if rs, ok := r.(*MapSchema); ok {
			valueReader = rs.Values
		}
		out := make(map[string]interface{})
		err := readBlocks(cur, func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := cur.ReadString()
			v, err := readData(ctx, ws.Values, valueReader, cur, opts)
			if err != nil {
				return err
			}
			out[key] = v
			return nil
		})
		return out, err
	case *ErrorUnionSchema:
		return readUnionBranch(ctx, ws.Branches, r, cur, opts)
	case *UnionSchema:
		return readUnionBranch(ctx, ws.Branches, r, cur, opts)
	case *RecordSchema:
		rs, ok := r.(*RecordSchema)
		if !ok {
			return nil, newResolutionError("reader schema is not a record", w, r)
		}
		return readRecord(ctx, ws, rs, cur, opts)
	}
	return nil, newResolutionError("unsupported writer schema kind", w, r)
}

func readPrimitive(kind Kind, cur *Cursor) interface{} {
	switch kind {
	case KindNull:
		return nil
	case KindBoolean:
		return cur.ReadBoolean()
	case KindInt:
		return int32(cur.ReadLong())
	case KindLong:
		return cur.ReadLong()
	case KindFloat:
		return cur.ReadFloat()
	case KindDouble:
		return cur.ReadDouble()
	case KindBytes:
		return cur.ReadBytes()
	case KindString:
		return cur.ReadString()
	}
	return nil
}

// promote widens a just-read writer-width value to the reader's primitive
// kind, per the Avro specification's promotion table. No-op when the
// kinds match or the reader isn't a primitive (e.g. the reader is the
// writer's own kind wrapped behind a union branch already resolved by the
// caller).
func promote(writerKind, readerKind Kind, value interface{}) interface{} {
	if writerKind == readerKind {
		return value
	}
	switch writerKind {
	case KindInt:
		n, _ := value.(int32)
		switch readerKind {
		case KindLong:
			return int64(n)
		case KindFloat:
			return float32(n)
		case KindDouble:
			return float64(n)
		}
	case KindLong:
		n, _ := value.(int64)
		switch readerKind {
		case KindFloat:
			return float32(n)
		case KindDouble:
			return float64(n)
		}
	case KindFloat:
		n, _ := value.(float32)
		if readerKind == KindDouble {
			return float64(n)
		}
	}
	return value
}

func readUnionBranch(ctx context.Context, writerBranches []Schema, originalReader Schema, cur *Cursor, opts *Options) (interface{}, error) {
	idx := cur.ReadLong()
	if idx < 0 || int(idx) >= len(writerBranches) {
		return nil, &SchemaResolutionError{Message: "union branch index out of range"}
	}
	return readData(ctx, writerBranches[idx], originalReader, cur, opts)
}

func readRecord(ctx context.Context, w, r *RecordSchema, cur *Cursor, opts *Options) (interface{}, error) {
	out := make(map[string]interface{}, len(r.Fields))
	populated := make(map[string]bool, len(r.Fields))

	for _, wf := range w.Fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rf := r.FieldByName(wf.Name)
		if rf == nil {
			if err := skipData(wf.Type, cur); err != nil {
				return nil, err
			}
			continue
		}
		v, err := readData(ctx, wf.Type, rf.Type, cur, opts)
		if err != nil {
			return nil, err
		}
		out[rf.Name] = v
		populated[rf.Name] = true
	}

	for _, rf := range r.Fields {
		if populated[rf.Name] {
			continue
		}
		if !rf.HasDefault {
			return nil, newResolutionError("writer schema omits reader field with no default", w, r)
		}
		v, err := readDefaultValue(rf.Type, rf.Default)
		if err != nil {
			return nil, err
		}
		out[rf.Name] = v
	}

	return out, nil
}

// readBlocks walks the array/map block protocol, honoring the
// negative-count-with-byte-size form: a naive reader like this one decodes
// the items and ignores the byte size rather than using it to skip.
func readBlocks(cur *Cursor, readElement func() error) error {
	for {
		count := cur.ReadLong()
		if count == 0 {
			return nil
		}
		if count < 0 {
			count = -count
			cur.ReadLong() // block byte size, unused by this reader
		}
		for i := int64(0); i < count; i++ {
			if err := readElement(); err != nil {
				return err
			}
		}
	}
}
