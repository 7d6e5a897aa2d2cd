package avro

// Options carries the caller-configurable behavior of the validator and
// codec: which logical types are registered, keyed by the schema-level
// logicalType name they annotate.
type Options struct {
	LogicalTypes map[string]LogicalType
}

// Option mutates an Options value; constructed via the With* functions
// below (the functional-options pattern).
type Option func(*Options)

func newOptions(opts []Option) *Options {
	o := &Options{LogicalTypes: make(map[string]LogicalType)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogicalType registers a LogicalType handler under name, matched
// against a schema node's logicalType property.
func WithLogicalType(name string, lt LogicalType) Option {
	return func(o *Options) {
		o.LogicalTypes[name] = lt
	}
}

func (o *Options) logicalType(schema Schema) (LogicalType, bool) {
	name := schema.LogicalType()
	if name == "" {
		return nil, false
	}
	lt, ok := o.LogicalTypes[name]
	return lt, ok
}
