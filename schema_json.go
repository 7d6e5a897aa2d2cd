package avro

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// toJSON renders schema as canonical JSON. seen tracks named schemas
// already emitted during this single call tree (a fresh seen set per
// top-level String()/MarshalJSON() call): a named schema seen a second
// time is emitted as a bare name reference instead of being re-expanded,
// which is what makes cyclic schemas representable at all.
// enclosingNamespace is the defaultNamespace in effect at this point in the
// walk, used both to prune a named schema's own "namespace" key when it
// matches, and to decide whether a repeat reference needs the full name or
// just the short name.
func toJSON(s Schema, seen map[string]bool, enclosingNamespace string) string {
	switch v := s.(type) {
	case *PrimitiveSchema:
		return primitiveJSON(v)
	case *FixedSchema:
		if seen[v.fullName] {
			return nameReferenceJSON(v.fullName, enclosingNamespace)
		}
		seen[v.fullName] = true
		return fixedJSON(v, enclosingNamespace)
	case *EnumSchema:
		if seen[v.fullName] {
			return nameReferenceJSON(v.fullName, enclosingNamespace)
		}
		seen[v.fullName] = true
		return enumJSON(v, enclosingNamespace)
	case *RecordSchema:
		if v.fullName != "" && seen[v.fullName] {
			return nameReferenceJSON(v.fullName, enclosingNamespace)
		}
		if v.fullName != "" {
			seen[v.fullName] = true
		}
		return recordJSON(v, seen, enclosingNamespace)
	case *ArraySchema:
		var buf bytes.Buffer
		buf.WriteString(`{"type":"array","items":`)
		buf.WriteString(toJSON(v.Items, seen, enclosingNamespace))
		writeExtraProps(&buf, v.properties)
		buf.WriteString(`}`)
		return buf.String()
	case *MapSchema:
		var buf bytes.Buffer
		buf.WriteString(`{"type":"map","values":`)
		buf.WriteString(toJSON(v.Values, seen, enclosingNamespace))
		writeExtraProps(&buf, v.properties)
		buf.WriteString(`}`)
		return buf.String()
	case *ErrorUnionSchema:
		return unionJSON(v.DeclaredBranches(), seen, enclosingNamespace)
	case *UnionSchema:
		return unionJSON(v.Branches, seen, enclosingNamespace)
	}
	return "null"
}

func primitiveJSON(p *PrimitiveSchema) string {
	if p.logicalType == "" && len(p.properties) == 0 {
		return `"` + p.kind.String() + `"`
	}
	var buf bytes.Buffer
	buf.WriteString(`{"type":"`)
	buf.WriteString(p.kind.String())
	buf.WriteString(`"`)
	if p.logicalType != "" {
		buf.WriteString(`,"logicalType":`)
		buf.WriteString(jsonString(p.logicalType))
	}
	writeExtraProps(&buf, p.properties)
	buf.WriteString(`}`)
	return buf.String()
}

func fixedJSON(f *FixedSchema, enclosingNamespace string) string {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"fixed","name":`)
	buf.WriteString(jsonString(shortName(f.fullName)))
	if ns := namespaceOf(f.fullName); ns != "" && ns != enclosingNamespace {
		buf.WriteString(`,"namespace":`)
		buf.WriteString(jsonString(ns))
	}
	buf.WriteString(`,"size":`)
	buf.WriteString(jsonNumber(f.Size))
	if f.logicalType != "" {
		buf.WriteString(`,"logicalType":`)
		buf.WriteString(jsonString(f.logicalType))
	}
	writeExtraProps(&buf, f.properties)
	buf.WriteString(`}`)
	return buf.String()
}

func enumJSON(e *EnumSchema, enclosingNamespace string) string {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"enum","name":`)
	buf.WriteString(jsonString(shortName(e.fullName)))
	if ns := namespaceOf(e.fullName); ns != "" && ns != enclosingNamespace {
		buf.WriteString(`,"namespace":`)
		buf.WriteString(jsonString(ns))
	}
	if e.Doc != "" {
		buf.WriteString(`,"doc":`)
		buf.WriteString(jsonString(e.Doc))
	}
	buf.WriteString(`,"symbols":[`)
	for i, sym := range e.Symbols {
		if i > 0 {
			buf.WriteRune(',')
		}
		buf.WriteString(jsonString(sym))
	}
	buf.WriteString(`]`)
	writeExtraProps(&buf, e.properties)
	buf.WriteString(`}`)
	return buf.String()
}

func recordJSON(r *RecordSchema, seen map[string]bool, enclosingNamespace string) string {
	var buf bytes.Buffer
	typeName := "record"
	if r.SubType == SubTypeError {
		typeName = "error"
	}
	buf.WriteString(`{"type":"`)
	buf.WriteString(typeName)
	buf.WriteString(`"`)

	nextEnclosing := ""
	if r.SubType != SubTypeRequest && r.fullName != "" {
		buf.WriteString(`,"name":`)
		buf.WriteString(jsonString(shortName(r.fullName)))
		ns := namespaceOf(r.fullName)
		if ns != "" && ns != enclosingNamespace {
			buf.WriteString(`,"namespace":`)
			buf.WriteString(jsonString(ns))
		}
		nextEnclosing = ns
	}
	if r.Doc != "" {
		buf.WriteString(`,"doc":`)
		buf.WriteString(jsonString(r.Doc))
	}
	buf.WriteString(`,"fields":[`)
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteRune(',')
		}
		buf.WriteString(fieldJSON(f, seen, nextEnclosing))
	}
	buf.WriteString(`]`)
	writeExtraProps(&buf, r.properties)
	buf.WriteString(`}`)
	return buf.String()
}

func fieldJSON(f *Field, seen map[string]bool, enclosingNamespace string) string {
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	buf.WriteString(jsonString(f.Name))
	buf.WriteString(`,"type":`)
	buf.WriteString(toJSON(f.Type, seen, enclosingNamespace))
	if f.HasDefault {
		buf.WriteString(`,"default":`)
		buf.WriteString(jsonValue(f.Default))
	}
	if f.Doc != "" {
		buf.WriteString(`,"doc":`)
		buf.WriteString(jsonString(f.Doc))
	}
	switch f.Order {
	case OrderDescending:
		buf.WriteString(`,"order":"descending"`)
	case OrderIgnore:
		buf.WriteString(`,"order":"ignore"`)
	}
	writeExtraProps(&buf, f.Properties)
	buf.WriteString(`}`)
	return buf.String()
}

func unionJSON(branches []Schema, seen map[string]bool, enclosingNamespace string) string {
	var buf bytes.Buffer
	buf.WriteRune('[')
	for i, b := range branches {
		if i > 0 {
			buf.WriteRune(',')
		}
		buf.WriteString(toJSON(b, seen, enclosingNamespace))
	}
	buf.WriteRune(']')
	return buf.String()
}

// nameReferenceJSON implements the "already-seen named schema" emission
// rule: the fullName if it lies outside enclosingNamespace, or just the
// short name otherwise.
func nameReferenceJSON(fullName, enclosingNamespace string) string {
	if namespaceOf(fullName) == enclosingNamespace {
		return jsonString(shortName(fullName))
	}
	return jsonString(fullName)
}

func shortName(fullName string) string {
	idx := strings.LastIndexByte(fullName, '.')
	if idx < 0 {
		return fullName
	}
	return fullName[idx+1:]
}

func writeExtraProps(buf *bytes.Buffer, props map[string]interface{}) {
	if len(props) == 0 {
		return
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteRune(',')
		buf.WriteString(jsonString(k))
		buf.WriteRune(':')
		buf.WriteString(jsonValue(props[k]))
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func jsonNumber(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func jsonValue(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func (s *PrimitiveSchema) String() string  { return toJSON(s, map[string]bool{}, "") }
func (s *FixedSchema) String() string      { return toJSON(s, map[string]bool{}, "") }
func (s *EnumSchema) String() string       { return toJSON(s, map[string]bool{}, "") }
func (s *RecordSchema) String() string     { return toJSON(s, map[string]bool{}, "") }
func (s *ArraySchema) String() string      { return toJSON(s, map[string]bool{}, "") }
func (s *MapSchema) String() string        { return toJSON(s, map[string]bool{}, "") }
func (s *UnionSchema) String() string      { return toJSON(s, map[string]bool{}, "") }
func (s *ErrorUnionSchema) String() string { return toJSON(s, map[string]bool{}, "") }
