package avro

import (
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
)

// readDefaultValue synthesizes a host value from a field's JSON default
// literal, per the Avro specification's default-value rules. The result is
// passed through deepcopy before being handed back so that two decode calls
// materializing the same reader-side default never share backing
// arrays/maps.
func readDefaultValue(fieldSchema Schema, defaultJSON interface{}) (interface{}, error) {
	v, err := synthesizeDefault(fieldSchema, defaultJSON)
	if err != nil {
		return nil, err
	}
	return deepcopy.Copy(v), nil
}

func synthesizeDefault(schema Schema, defaultJSON interface{}) (interface{}, error) {
	switch s := schema.(type) {
	case *PrimitiveSchema:
		return synthesizePrimitiveDefault(s.kind, defaultJSON)
	case *FixedSchema:
		str, ok := defaultJSON.(string)
		if !ok {
			return nil, errors.Errorf("fixed default must be a string, got %T", defaultJSON)
		}
		return latin1Decode(str), nil
	case *EnumSchema:
		sym, ok := defaultJSON.(string)
		if !ok {
			return nil, errors.Errorf("enum default must be a string, got %T", defaultJSON)
		}
		return sym, nil
	case *ArraySchema:
		items, ok := defaultJSON.([]interface{})
		if !ok {
			return nil, errors.Errorf("array default must be a JSON array, got %T", defaultJSON)
		}
		out := make([]interface{}, len(items))
		for i, item := range items {
			v, err := synthesizeDefault(s.Items, item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *MapSchema:
		m, ok := defaultJSON.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("map default must be a JSON object, got %T", defaultJSON)
		}
		out := make(map[string]interface{}, len(m))
		for k, raw := range m {
			v, err := synthesizeDefault(s.Values, raw)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case *ErrorUnionSchema:
		return synthesizeUnionDefault(s.Branches, defaultJSON)
	case *UnionSchema:
		return synthesizeUnionDefault(s.Branches, defaultJSON)
	case *RecordSchema:
		return synthesizeRecordDefault(s, defaultJSON)
	}
	return nil, errors.Errorf("cannot synthesize default for schema kind %s", schema.Type())
}

func synthesizePrimitiveDefault(kind Kind, defaultJSON interface{}) (interface{}, error) {
	switch kind {
	case KindNull:
		return nil, nil
	case KindBoolean:
		b, ok := defaultJSON.(bool)
		if !ok {
			return nil, errors.Errorf("boolean default must be a bool, got %T", defaultJSON)
		}
		return b, nil
	case KindString:
		str, ok := defaultJSON.(string)
		if !ok {
			return nil, errors.Errorf("string default must be a string, got %T", defaultJSON)
		}
		return str, nil
	case KindBytes:
		str, ok := defaultJSON.(string)
		if !ok {
			return nil, errors.Errorf("bytes default must be a string, got %T", defaultJSON)
		}
		return latin1Decode(str), nil
	case KindInt:
		n, ok := defaultJSON.(float64)
		if !ok {
			return nil, errors.Errorf("int default must be a number, got %T", defaultJSON)
		}
		return int32(n), nil
	case KindLong:
		n, ok := defaultJSON.(float64)
		if !ok {
			return nil, errors.Errorf("long default must be a number, got %T", defaultJSON)
		}
		return int64(n), nil
	case KindFloat:
		n, ok := defaultJSON.(float64)
		if !ok {
			return nil, errors.Errorf("float default must be a number, got %T", defaultJSON)
		}
		return float32(n), nil
	case KindDouble:
		n, ok := defaultJSON.(float64)
		if !ok {
			return nil, errors.Errorf("double default must be a number, got %T", defaultJSON)
		}
		return n, nil
	}
	return nil, errors.Errorf("unknown primitive kind %s", kind)
}

// synthesizeUnionDefault always resolves against the union's first branch,
// regardless of what shape the JSON literal happens to be.
func synthesizeUnionDefault(branches []Schema, defaultJSON interface{}) (interface{}, error) {
	if len(branches) == 0 {
		return nil, errors.New("union has no branches to default against")
	}
	return synthesizeDefault(branches[0], defaultJSON)
}

func synthesizeRecordDefault(s *RecordSchema, defaultJSON interface{}) (interface{}, error) {
	m, ok := defaultJSON.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("record default must be a JSON object, got %T", defaultJSON)
	}
	out := make(map[string]interface{}, len(s.Fields))
	for _, f := range s.Fields {
		raw, present := m[f.Name]
		if !present {
			if !f.HasDefault {
				return nil, errors.Errorf("record default omits field %q with no field-level default", f.Name)
			}
			raw = f.Default
		}
		v, err := synthesizeDefault(f.Type, raw)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", f.Name)
		}
		out[f.Name] = v
	}
	return out, nil
}

// latin1Decode interprets s as Latin-1, one code unit per byte, the JSON
// convention Avro uses to smuggle raw bytes through a JSON string literal.
func latin1Decode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}
	return out
}
