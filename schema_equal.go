package avro

// Equal implementations: two schemas are equal iff their round-tripped
// JSON forms are equal.

func (s *PrimitiveSchema) Equal(other Schema) bool  { return schemaEqual(s, other) }
func (s *FixedSchema) Equal(other Schema) bool      { return schemaEqual(s, other) }
func (s *EnumSchema) Equal(other Schema) bool       { return schemaEqual(s, other) }
func (s *RecordSchema) Equal(other Schema) bool     { return schemaEqual(s, other) }
func (s *ArraySchema) Equal(other Schema) bool      { return schemaEqual(s, other) }
func (s *MapSchema) Equal(other Schema) bool        { return schemaEqual(s, other) }
func (s *UnionSchema) Equal(other Schema) bool      { return schemaEqual(s, other) }
func (s *ErrorUnionSchema) Equal(other Schema) bool { return schemaEqual(s, other) }

func schemaEqual(a, b Schema) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}
