// Copyright [2019] LinkedIn Corp. Licensed under the Apache License, Version
// 2.0 (the "License"); you may not use this file except in compliance with the
// License.  You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.

// Package avro parses Avro JSON schemas, validates host values against them,
// and encodes/decodes the Avro binary wire format, including schema
// resolution between a writer's and a reader's schema.
package avro

import (
	"hash/crc64"

	"golang.org/x/exp/slices"
)

// Kind identifies the variant of a Schema node.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBytes
	KindString
	KindRecord
	KindEnum
	KindArray
	KindMap
	KindUnion
	KindFixed
	// KindErrorUnion is a Union whose first branch is the implicit "string"
	// system-error branch.
	KindErrorUnion
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindUnion:
		return "union"
	case KindFixed:
		return "fixed"
	case KindErrorUnion:
		return "error_union"
	}
	return "unknown"
}

// RecordSubType distinguishes record, error and request variants.
type RecordSubType int

const (
	SubTypeRecord RecordSubType = iota
	SubTypeError
	SubTypeRequest
)

// FieldOrder is the optional sort order carried by a record field.
type FieldOrder int

const (
	OrderAscending FieldOrder = iota
	OrderDescending
	OrderIgnore
)

func (o FieldOrder) String() string {
	switch o {
	case OrderDescending:
		return "descending"
	case OrderIgnore:
		return "ignore"
	default:
		return "ascending"
	}
}

// The polynomial matches the one the Avro specification's canonical-form
// fingerprinting guidance uses for CRC64 schema fingerprints.
var polynomialTable = crc64.MakeTable(0xc15d213aa4d7a795)

// hashable is embedded by every concrete Schema to give it a cached
// Fingerprint() without recomputing the canonical form on every call.
type hashable struct {
	hash  uint64
	valid bool
}

func (h *hashable) fingerprint(self Schema) uint64 {
	if h.valid {
		return h.hash
	}
	data := []byte(self.String())
	sum := crc64.New(polynomialTable)
	sum.Write(data)
	h.hash = sum.Sum64()
	h.valid = true
	return h.hash
}

// Schema is a single parsed Avro schema node, primitive or complex.
type Schema interface {
	// Type reports which variant this node is.
	Type() Kind
	// String returns the canonical JSON form of this node.
	String() string
	// Equal reports whether two schemas are equal, defined as equality of
	// their round-tripped JSON forms.
	Equal(other Schema) bool
	// Fingerprint returns a CRC64 of the canonical form, cached after first use.
	Fingerprint() uint64
	// Prop returns a non-reserved property of this node, if any.
	Prop(key string) (interface{}, bool)
	// LogicalType returns the schema-level logicalType annotation, if any.
	LogicalType() string
}

// commonProps is embedded by schema kinds that can carry logicalType and
// arbitrary non-reserved properties.
type commonProps struct {
	logicalType string
	properties  map[string]interface{}
}

func (c *commonProps) LogicalType() string { return c.logicalType }

func (c *commonProps) Prop(key string) (interface{}, bool) {
	if c.properties == nil {
		return nil, false
	}
	v, ok := c.properties[key]
	return v, ok
}

// namedCommon is embedded by record/enum/fixed: the three named types.
type namedCommon struct {
	fullName string
}

func (n *namedCommon) FullName() string { return n.fullName }

// NamedSchema is implemented by record, enum and fixed schemas: the types
// that participate in the Names registry.
type NamedSchema interface {
	Schema
	FullName() string
}

// PrimitiveSchema implements Schema for null/boolean/int/long/float/double/bytes/string.
type PrimitiveSchema struct {
	hashable
	commonProps
	kind Kind
}

func (s *PrimitiveSchema) Type() Kind { return s.kind }

func (s *PrimitiveSchema) Fingerprint() uint64 { return s.fingerprint(s) }

// FixedSchema implements Schema for Avro "fixed" (named, fixed-size bytes).
type FixedSchema struct {
	hashable
	commonProps
	namedCommon
	Size int
}

func (s *FixedSchema) Type() Kind { return KindFixed }

func (s *FixedSchema) Fingerprint() uint64 { return s.fingerprint(s) }

// EnumSchema implements Schema for Avro "enum" (named, ordered symbol list).
type EnumSchema struct {
	hashable
	commonProps
	namedCommon
	Symbols []string
	Doc     string
}

func (s *EnumSchema) Type() Kind { return KindEnum }

func (s *EnumSchema) Fingerprint() uint64 { return s.fingerprint(s) }

// IndexOf returns the zero-based index of symbol, or -1 if absent.
func (s *EnumSchema) IndexOf(symbol string) int {
	return slices.Index(s.Symbols, symbol)
}

// Field is a single record field.
type Field struct {
	Name       string
	Type       Schema
	HasDefault bool
	Default    interface{}
	Order      FieldOrder
	Doc        string
	Properties map[string]interface{}
}

func (f *Field) Prop(key string) (interface{}, bool) {
	if f.Properties == nil {
		return nil, false
	}
	v, ok := f.Properties[key]
	return v, ok
}

// RecordSchema implements Schema for Avro record/error/request.
type RecordSchema struct {
	hashable
	commonProps
	namedCommon
	SubType RecordSubType
	Fields  []*Field
	Doc     string
}

func (s *RecordSchema) Type() Kind { return KindRecord }

func (s *RecordSchema) Fingerprint() uint64 { return s.fingerprint(s) }

// FieldByName returns the field with the given name, or nil.
func (s *RecordSchema) FieldByName(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// ArraySchema implements Schema for Avro "array".
type ArraySchema struct {
	hashable
	commonProps
	Items Schema
}

func (s *ArraySchema) Type() Kind { return KindArray }

func (s *ArraySchema) Fingerprint() uint64 { return s.fingerprint(s) }

// MapSchema implements Schema for Avro "map" (string-keyed).
type MapSchema struct {
	hashable
	commonProps
	Values Schema
}

func (s *MapSchema) Type() Kind { return KindMap }

func (s *MapSchema) Fingerprint() uint64 { return s.fingerprint(s) }

// UnionSchema implements Schema for Avro unions.
type UnionSchema struct {
	hashable
	Branches []Schema
}

func (s *UnionSchema) Type() Kind { return KindUnion }

func (s *UnionSchema) Fingerprint() uint64 { return s.fingerprint(s) }

func (s *UnionSchema) LogicalType() string          { return "" }
func (s *UnionSchema) Prop(string) (interface{}, bool) { return nil, false }

// ErrorUnionSchema is a UnionSchema whose first branch is an implicit
// "string" system-error branch, suppressed on JSON emission.
type ErrorUnionSchema struct {
	UnionSchema
}

func (s *ErrorUnionSchema) Type() Kind { return KindErrorUnion }

func (s *ErrorUnionSchema) Fingerprint() uint64 { return s.hashable.fingerprint(s) }

// DeclaredBranches returns the branches excluding the implicit string head,
// i.e. what the caller originally declared.
func (s *ErrorUnionSchema) DeclaredBranches() []Schema {
	if len(s.Branches) == 0 {
		return nil
	}
	return s.Branches[1:]
}

// reservedTypeNames are the Avro built-in type names; a named schema cannot
// register itself under one of these.
var reservedTypeNames = map[string]bool{
	"null": true, "boolean": true, "int": true, "long": true, "float": true,
	"double": true, "bytes": true, "string": true, "record": true,
	"enum": true, "array": true, "map": true, "union": true, "fixed": true,
	"error": true, "request": true,
}

// reservedSchemaKeys are JSON keys that never appear in a schema node's
// properties map because they carry structural meaning.
var reservedSchemaKeys = map[string]bool{
	"type": true, "name": true, "namespace": true, "fields": true,
	"items": true, "size": true, "symbols": true, "values": true,
	"doc": true, "logicalType": true,
}

// reservedFieldPropKeys are the JSON keys reserved on a record field
// specifically, distinct from reservedSchemaKeys.
var reservedFieldPropKeys = map[string]bool{
	"name": true, "type": true, "default": true, "order": true, "doc": true,
}
