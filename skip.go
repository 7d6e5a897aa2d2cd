package avro

// skipData advances cur past a value encoded under schema, without
// materializing it. Used by the decoder to discard writer fields the
// reader schema does not project.
func skipData(schema Schema, cur *Cursor) error {
	switch s := schema.(type) {
	case *PrimitiveSchema:
		skipPrimitive(s.kind, cur)
		return nil
	case *FixedSchema:
		cur.SkipFixed(s.Size)
		return nil
	case *EnumSchema:
		cur.SkipLong()
		return nil
	case *ArraySchema:
		return skipBlocks(cur, func() error { return skipData(s.Items, cur) })
	case *MapSchema:
		return skipBlocks(cur, func() error {
			cur.SkipString()
			return skipData(s.Values, cur)
		})
	case *ErrorUnionSchema:
		return skipUnion(s.Branches, cur)
	case *UnionSchema:
		return skipUnion(s.Branches, cur)
	case *RecordSchema:
		for _, f := range s.Fields {
			if err := skipData(f.Type, cur); err != nil {
				return err
			}
		}
		return nil
	}
	return &EncodingError{Message: "cannot skip unknown schema kind"}
}

func skipPrimitive(kind Kind, cur *Cursor) {
	switch kind {
	case KindBoolean:
		cur.SkipBoolean()
	case KindInt, KindLong:
		cur.SkipLong()
	case KindFloat:
		cur.SkipFloat()
	case KindDouble:
		cur.SkipDouble()
	case KindBytes, KindString:
		cur.SkipBytes()
	}
}

func skipUnion(branches []Schema, cur *Cursor) error {
	idx := cur.ReadLong()
	if idx < 0 || int(idx) >= len(branches) {
		return &SchemaResolutionError{Message: "union branch index out of range while skipping"}
	}
	return skipData(branches[idx], cur)
}

// skipBlocks walks the array/map block protocol, preferring the byte-size
// field of a negative-count block to jump over the whole block in one
// cursor move.
func skipBlocks(cur *Cursor, skipElement func() error) error {
	for {
		count := cur.ReadLong()
		if count == 0 {
			return nil
		}
		if count < 0 {
			byteSize := cur.ReadLong()
			cur.SkipFixed(int(byteSize))
			continue
		}
		for i := int64(0); i < count; i++ {
			if err := skipElement(); err != nil {
				return err
			}
		}
	}
}
