package avro

// matchSchemas reports whether a value written under w can be read under r,
// per the Avro specification's schema resolution rules. The map/array
// branch is deliberately shallow (top-level type of values/items only); a
// deep mismatch is instead caught recursively while readData walks the
// actual value.
func matchSchemas(w, r Schema) bool {
	if w == nil || r == nil {
		return false
	}
	if w.Type() == KindUnion || w.Type() == KindErrorUnion {
		return true
	}
	if r.Type() == KindUnion || r.Type() == KindErrorUnion {
		return true
	}

	switch ws := w.(type) {
	case *PrimitiveSchema:
		rs, ok := r.(*PrimitiveSchema)
		if ok && ws.kind == rs.kind {
			return true
		}
		return canPromote(ws.kind, r.Type())
	case *RecordSchema:
		rs, ok := r.(*RecordSchema)
		if !ok {
			return false
		}
		if ws.SubType == SubTypeRequest && rs.SubType == SubTypeRequest {
			return true
		}
		if (ws.SubType == SubTypeRecord && rs.SubType == SubTypeRecord) ||
			(ws.SubType == SubTypeError && rs.SubType == SubTypeError) {
			return ws.fullName == rs.fullName
		}
		return false
	case *FixedSchema:
		rs, ok := r.(*FixedSchema)
		return ok && ws.fullName == rs.fullName && ws.Size == rs.Size
	case *EnumSchema:
		rs, ok := r.(*EnumSchema)
		return ok && ws.fullName == rs.fullName
	case *MapSchema:
		rs, ok := r.(*MapSchema)
		return ok && ws.Values.Type() == rs.Values.Type()
	case *ArraySchema:
		rs, ok := r.(*ArraySchema)
		return ok && ws.Items.Type() == rs.Items.Type()
	}
	return false
}

// canPromote reports whether a writer primitive kind may be widened to
// reader kind r, per the Avro specification's promotion table.
func canPromote(w, r Kind) bool {
	switch w {
	case KindInt:
		return r == KindLong || r == KindFloat || r == KindDouble
	case KindLong:
		return r == KindFloat || r == KindDouble
	case KindFloat:
		return r == KindDouble
	}
	return false
}
