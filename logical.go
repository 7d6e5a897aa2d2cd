package avro

import "context"

// LogicalType transforms a domain value to/from its underlying Avro
// representation, registered under a schema node's logicalType property.
// Hooks are synchronous in this package, since Go has no async/await;
// cooperative cancellation instead threads a context.Context through the
// codec, checked between hook invocations rather than awaited mid-hook.
type LogicalType interface {
	// ToValue is called before encoding, replacing the domain value with
	// its Avro-level representation.
	ToValue(ctx context.Context, domainValue interface{}, schema Schema) (interface{}, error)
	// FromValue is called after decoding, replacing the raw Avro value
	// with its domain-level representation.
	FromValue(ctx context.Context, avroValue interface{}, schema Schema) (interface{}, error)
	// ValidateBeforeToValue reports whether domainValue is acceptable
	// input to ToValue.
	ValidateBeforeToValue(domainValue interface{}, schema Schema, opts *Options) bool
	// ValidateBeforeFromValue reports whether avroValue is acceptable
	// input to FromValue. If false, the raw decoded value is passed
	// through unchanged, effectively ignoring the logical type.
	ValidateBeforeFromValue(avroValue interface{}, schema Schema, opts *Options) bool
}
