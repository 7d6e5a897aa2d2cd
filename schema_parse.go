package avro

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slices"
)

// Parse parses an Avro schema expressed as JSON (or, per the Avro
// specification, a bare primitive type name) into a typed Schema tree.
func Parse(jsonOrString string) (Schema, error) {
	return ParseWithRegistry(jsonOrString, newNames())
}

// ParseWithRegistry parses a schema using (and populating) the given Names
// registry, so later schemas may reference named types registered by
// earlier ones.
func ParseWithRegistry(jsonOrString string, names *Names) (Schema, error) {
	var node interface{}
	if err := json.Unmarshal([]byte(jsonOrString), &node); err != nil {
		// If input is a string, first parse as JSON; failure raises a
		// ParseError naming the input and underlying message.
		// A bare primitive name like `int` is not valid JSON on its own
		// account of quoting, so fall back to treating the raw text as the
		// node itself (matches a bare, unquoted type name).
		if _, ok := primitiveKindByName(jsonOrString); !ok {
			return nil, newParseError("invalid schema JSON", jsonOrString, err)
		}
		node = jsonOrString
	}
	return makeAvscObject(node, names, &nsStack{}, true)
}

// MustParse is like Parse, but panics if the schema cannot be parsed.
func MustParse(jsonOrString string) Schema {
	s, err := Parse(jsonOrString)
	if err != nil {
		panic(err)
	}
	return s
}

func primitiveKindByName(name string) (Kind, bool) {
	switch name {
	case "null":
		return KindNull, true
	case "boolean":
		return KindBoolean, true
	case "int":
		return KindInt, true
	case "long":
		return KindLong, true
	case "float":
		return KindFloat, true
	case "double":
		return KindDouble, true
	case "bytes":
		return KindBytes, true
	case "string":
		return KindString, true
	}
	return 0, false
}

// makeAvscObject is the JSON-tree walker that turns a decoded JSON node
// into a Schema. top is true only for the outermost call; the walker does
// not consult it, and a {"type":"request",...} node is rejected at every
// depth, so parsing never produces a SubTypeRequest record.
func makeAvscObject(node interface{}, names *Names, ns *nsStack, top bool) (Schema, error) {
	switch v := node.(type) {
	case nil:
		return &PrimitiveSchema{kind: KindNull}, nil

	case string:
		if kind, ok := primitiveKindByName(v); ok {
			return &PrimitiveSchema{kind: kind}, nil
		}
		fullName := v
		if !containsDot(v) {
			fullName = computeFullName(v, "", ns.current())
		}
		schema, ok := names.lookup(fullName)
		if !ok {
			return nil, &NameError{Message: "reference to unknown type name", Name: v}
		}
		return schema, nil

	case []interface{}:
		return parseUnion(v, names, ns)

	case map[string]interface{}:
		if branches, ok := v["type"].([]interface{}); ok {
			return parseUnion(branches, names, ns)
		}
		t, _ := v["type"].(string)
		switch t {
		case "null", "boolean", "int", "long", "float", "double", "bytes", "string":
			kind, _ := primitiveKindByName(t)
			logicalType, _ := v["logicalType"].(string)
			return &PrimitiveSchema{kind: kind, commonProps: commonProps{logicalType: logicalType, properties: extraProperties(v)}}, nil
		case "array":
			itemsNode, ok := v["items"]
			if !ok {
				return nil, newParseError("array schema missing required 'items'", jsonValue(v), nil)
			}
			items, err := makeAvscObject(itemsNode, names, ns, false)
			if err != nil {
				return nil, err
			}
			return &ArraySchema{Items: items, commonProps: commonProps{properties: extraProperties(v)}}, nil
		case "map":
			valuesNode, ok := v["values"]
			if !ok {
				return nil, newParseError("map schema missing required 'values'", jsonValue(v), nil)
			}
			values, err := makeAvscObject(valuesNode, names, ns, false)
			if err != nil {
				return nil, err
			}
			return &MapSchema{Values: values, commonProps: commonProps{properties: extraProperties(v)}}, nil
		case "enum":
			return parseEnum(v, names, ns)
		case "fixed":
			return parseFixed(v, names, ns)
		case "record":
			return parseRecord(v, names, ns, SubTypeRecord)
		case "error":
			return parseRecord(v, names, ns, SubTypeError)
		case "error_union":
			return parseErrorUnion(v, names, ns)
		case "request":
			// Rejected as a top-level (and, absent any other entry point,
			// always) schema in this library.
			return nil, newParseError("request schema is not supported as a parseable top-level schema", jsonValue(v), nil)
		case "":
			return nil, newParseError("schema object missing required 'type'", jsonValue(v), nil)
		default:
			// A type reference can also be spelled {"type": "otherType"}.
			return makeAvscObject(t, names, ns, false)
		}
	}

	return nil, ErrInvalidSchema
}

func parseEnum(v map[string]interface{}, names *Names, ns *nsStack) (Schema, error) {
	name, ok := v["name"].(string)
	if !ok || name == "" {
		return nil, newParseError("enum schema missing required 'name'", jsonValue(v), nil)
	}
	namespace, _ := v["namespace"].(string)
	fullName := computeFullName(name, namespace, ns.current())

	symbolsRaw, ok := v["symbols"].([]interface{})
	if !ok {
		return nil, newParseError("enum schema missing required 'symbols' array", jsonValue(v), nil)
	}
	symbols := make([]string, len(symbolsRaw))
	for i, sv := range symbolsRaw {
		sym, ok := sv.(string)
		if !ok {
			return nil, newParseError("enum symbol must be a string", jsonValue(v), nil)
		}
		if slices.Contains(symbols[:i], sym) {
			return nil, newParseError("enum symbols must be unique", jsonValue(v), nil)
		}
		symbols[i] = sym
	}
	doc, _ := v["doc"].(string)

	schema := &EnumSchema{
		namedCommon: namedCommon{fullName: fullName},
		Symbols:     symbols,
		Doc:         doc,
		commonProps: commonProps{properties: extraProperties(v)},
	}
	if err := names.register(fullName, schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func parseFixed(v map[string]interface{}, names *Names, ns *nsStack) (Schema, error) {
	name, ok := v["name"].(string)
	if !ok || name == "" {
		return nil, newParseError("fixed schema missing required 'name'", jsonValue(v), nil)
	}
	namespace, _ := v["namespace"].(string)
	fullName := computeFullName(name, namespace, ns.current())

	sizeRaw, ok := v["size"].(float64)
	if !ok || sizeRaw < 0 {
		return nil, newParseError("fixed schema requires a non-negative 'size'", jsonValue(v), nil)
	}
	logicalType, _ := v["logicalType"].(string)

	schema := &FixedSchema{
		namedCommon: namedCommon{fullName: fullName},
		Size:        int(sizeRaw),
		commonProps: commonProps{logicalType: logicalType, properties: extraProperties(v)},
	}
	if err := names.register(fullName, schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func parseRecord(v map[string]interface{}, names *Names, ns *nsStack, subType RecordSubType) (Schema, error) {
	name, ok := v["name"].(string)
	if !ok || name == "" {
		return nil, newParseError("record schema missing required 'name'", jsonValue(v), nil)
	}
	namespace, _ := v["namespace"].(string)
	fullName := computeFullName(name, namespace, ns.current())
	doc, _ := v["doc"].(string)

	schema := &RecordSchema{
		namedCommon: namedCommon{fullName: fullName},
		SubType:     subType,
		Doc:         doc,
		commonProps: commonProps{properties: extraProperties(v)},
	}
	// Register before parsing fields so the record can reference itself
	// (cyclic schemas).
	if err := names.register(fullName, schema); err != nil {
		return nil, err
	}

	fieldsRaw, ok := v["fields"].([]interface{})
	if !ok {
		return nil, newParseError("record schema missing required 'fields' array", jsonValue(v), nil)
	}

	ns.push(namespaceOf(fullName))
	defer ns.pop()

	fields := make([]*Field, len(fieldsRaw))
	seenNames := make(map[string]bool, len(fieldsRaw))
	for i, fv := range fieldsRaw {
		field, err := parseField(fv, names, ns)
		if err != nil {
			return nil, err
		}
		if seenNames[field.Name] {
			return nil, newParseError("duplicate field name in record", field.Name, nil)
		}
		seenNames[field.Name] = true
		fields[i] = field
	}
	schema.Fields = fields
	return schema, nil
}

func parseField(node interface{}, names *Names, ns *nsStack) (*Field, error) {
	v, ok := node.(map[string]interface{})
	if !ok {
		return nil, newParseError("record field must be a JSON object", jsonValue(node), nil)
	}
	name, ok := v["name"].(string)
	if !ok || name == "" {
		return nil, newParseError("record field missing required 'name'", jsonValue(v), nil)
	}
	typeNode, ok := v["type"]
	if !ok {
		return nil, newParseError("record field missing required 'type'", jsonValue(v), nil)
	}
	fieldType, err := makeAvscObject(typeNode, names, ns, false)
	if err != nil {
		return nil, err
	}

	field := &Field{
		Name:       name,
		Type:       fieldType,
		Properties: fieldProperties(v),
	}
	if doc, ok := v["doc"].(string); ok {
		field.Doc = doc
	}
	if order, ok := v["order"].(string); ok {
		switch order {
		case "ascending":
			field.Order = OrderAscending
		case "descending":
			field.Order = OrderDescending
		case "ignore":
			field.Order = OrderIgnore
		default:
			return nil, newParseError(fmt.Sprintf("invalid field order %q", order), jsonValue(v), nil)
		}
	}
	if def, exists := v["default"]; exists {
		field.HasDefault = true
		field.Default = def
	}
	return field, nil
}

func parseUnion(branches []interface{}, names *Names, ns *nsStack) (Schema, error) {
	types := make([]Schema, len(branches))
	seenPrimitiveKinds := make(map[Kind]bool)
	for i, b := range branches {
		t, err := makeAvscObject(b, names, ns, false)
		if err != nil {
			return nil, err
		}
		if t.Type() == KindUnion || t.Type() == KindErrorUnion {
			return nil, newParseError("union may not directly contain another union", jsonValue(b), nil)
		}
		if _, named := t.(NamedSchema); !named {
			if seenPrimitiveKinds[t.Type()] {
				return nil, newParseError(fmt.Sprintf("union has duplicate non-named branch type %q", t.Type()), jsonValue(branches), nil)
			}
			seenPrimitiveKinds[t.Type()] = true
		}
		types[i] = t
	}
	return &UnionSchema{Branches: types}, nil
}

// parseErrorUnion parses this library's JSON encoding of an error_union
// node: {"type": "error_union", "types": [...]}. The declared branches are
// parsed the same way a plain union's branches are, then the implicit
// leading "string" system-error branch is prepended.
func parseErrorUnion(v map[string]interface{}, names *Names, ns *nsStack) (Schema, error) {
	branchesRaw, ok := v["types"].([]interface{})
	if !ok {
		return nil, newParseError("error_union schema missing required 'types' array", jsonValue(v), nil)
	}
	declared, err := parseUnion(branchesRaw, names, ns)
	if err != nil {
		return nil, err
	}
	u := declared.(*UnionSchema)
	branches := make([]Schema, 0, len(u.Branches)+1)
	branches = append(branches, &PrimitiveSchema{kind: KindString})
	branches = append(branches, u.Branches...)
	return &ErrorUnionSchema{UnionSchema: UnionSchema{Branches: branches}}, nil
}

func extraProperties(v map[string]interface{}) map[string]interface{} {
	return filterProperties(v, reservedSchemaKeys)
}

func fieldProperties(v map[string]interface{}) map[string]interface{} {
	return filterProperties(v, reservedFieldPropKeys)
}

func filterProperties(v map[string]interface{}, reserved map[string]bool) map[string]interface{} {
	props := make(map[string]interface{})
	for k, val := range v {
		if !reserved[k] {
			props[k] = val
		}
	}
	if len(props) == 0 {
		return nil
	}
	return props
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}
