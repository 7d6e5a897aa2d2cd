package avro

import (
	"reflect"

	"github.com/davecgh/go-spew/spew"
)

// Validate reports whether value structurally conforms to schema, per the
// per-kind rules the Avro specification defines for each type.
func Validate(schema Schema, value interface{}, opts ...Option) bool {
	return validate(schema, value, newOptions(opts))
}

// ValidateDetailed is like Validate but returns a *TypeError describing the
// failure instead of a bare bool.
func ValidateDetailed(schema Schema, value interface{}, opts ...Option) error {
	if validate(schema, value, newOptions(opts)) {
		return nil
	}
	return &TypeError{Message: "value does not conform to schema", Schema: schema, Value: value}
}

func validate(schema Schema, value interface{}, opts *Options) bool {
	if lt, ok := opts.logicalType(schema); ok {
		return lt.ValidateBeforeToValue(value, schema, opts)
	}

	switch s := schema.(type) {
	case *PrimitiveSchema:
		return validatePrimitive(s.kind, value)
	case *FixedSchema:
		b, ok := asBytes(value)
		return ok && len(b) == s.Size
	case *EnumSchema:
		sym, ok := value.(string)
		if !ok {
			return false
		}
		return s.IndexOf(sym) >= 0
	case *ArraySchema:
		items, ok := asSlice(value)
		if !ok {
			return false
		}
		for _, item := range items {
			if !validate(s.Items, item, opts) {
				return false
			}
		}
		return true
	case *MapSchema:
		m, ok := value.(map[string]interface{})
		if !ok {
			return false
		}
		for _, v := range m {
			if !validate(s.Values, v, opts) {
				return false
			}
		}
		return true
	case *ErrorUnionSchema:
		return validateUnion(s.Branches, value, opts)
	case *UnionSchema:
		return validateUnion(s.Branches, value, opts)
	case *RecordSchema:
		return validateRecord(s, value, opts)
	}
	return false
}

func validatePrimitive(kind Kind, value interface{}) bool {
	switch kind {
	case KindNull:
		return value == nil
	case KindBoolean:
		_, ok := value.(bool)
		return ok
	case KindString:
		_, ok := value.(string)
		return ok
	case KindBytes:
		_, ok := asBytes(value)
		return ok
	case KindInt:
		n, ok := asInt64(value)
		return ok && n >= -(1<<31) && n < (1<<31)
	case KindLong:
		_, ok := asInt64(value)
		return ok
	case KindFloat, KindDouble:
		_, ok := asFloat64(value)
		return ok
	}
	return false
}

func validateUnion(branches []Schema, value interface{}, opts *Options) bool {
	for _, b := range branches {
		if validate(b, value, opts) {
			return true
		}
	}
	return false
}

func validateRecord(s *RecordSchema, value interface{}, opts *Options) bool {
	m, ok := value.(map[string]interface{})
	if !ok {
		return false
	}
	declared := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		declared[f.Name] = true
		v, present := m[f.Name]
		if !present {
			// Missing keys validate as the null sentinel against the field
			// type.
			if !validate(f.Type, nil, opts) {
				return false
			}
			continue
		}
		if !validate(f.Type, v, opts) {
			return false
		}
	}
	for k := range m {
		if !declared[k] {
			return false
		}
	}
	return true
}

// asBytes accepts both []byte and string, since a decoded bytes/fixed
// value and a literal JSON default for the same schema can arrive as
// either depending on the caller.
func asBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	}
	return nil, false
}

func asSlice(value interface{}) ([]interface{}, bool) {
	if v, ok := value.([]interface{}); ok {
		return v, true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func asInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float32:
		return int64(v), v == float32(int64(v))
	case float64:
		return int64(v), v == float64(int64(v))
	}
	return 0, false
}

func asFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// dumpValue renders an offending value for inclusion in a TypeError
// message.
func dumpValue(v interface{}) string {
	return spew.Sdump(v)
}
