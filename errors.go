package avro

import (
	"fmt"

	"github.com/pkg/errors"
)

// schemaJSON renders a schema as JSON for inclusion in an error message, or
// "<nil>" if none was supplied.
func schemaJSON(s Schema) string {
	if s == nil {
		return "<nil>"
	}
	return s.String()
}

// ParseError reports malformed schema JSON or a structurally invalid schema.
type ParseError struct {
	Message string
	Input   string
	cause   error
}

func (e *ParseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("avro: parse error: %s: %v (input: %s)", e.Message, e.cause, e.Input)
	}
	return fmt.Sprintf("avro: parse error: %s (input: %s)", e.Message, e.Input)
}

func (e *ParseError) Unwrap() error { return e.cause }

func newParseError(message, input string, cause error) *ParseError {
	if cause != nil {
		cause = errors.Wrap(cause, message)
	}
	return &ParseError{Message: message, Input: input, cause: cause}
}

// NameError reports a reserved-name collision, a duplicate registration, or
// a reference to an unknown name.
type NameError struct {
	Message string
	Name    string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("avro: name error: %s: %q", e.Message, e.Name)
}

// TypeError reports a host value that does not conform to a schema on
// write, including a union with no matching branch.
type TypeError struct {
	Message string
	Schema  Schema
	Value   interface{}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("avro: type error: %s: schema=%s value=%s", e.Message, schemaJSON(e.Schema), dumpValue(e.Value))
}

// SchemaResolutionError reports a failed matchSchemas, an out-of-range enum
// index or union branch, or a missing reader-side default.
type SchemaResolutionError struct {
	Message string
	Writer  Schema
	Reader  Schema
	cause   error
}

func (e *SchemaResolutionError) Error() string {
	msg := fmt.Sprintf("avro: schema resolution error: %s: writer=%s reader=%s", e.Message, schemaJSON(e.Writer), schemaJSON(e.Reader))
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *SchemaResolutionError) Unwrap() error { return e.cause }

func newResolutionError(message string, writer, reader Schema) *SchemaResolutionError {
	return &SchemaResolutionError{Message: message, Writer: writer, Reader: reader}
}

// EncodingError reports an unrecoverable cursor condition. Reserved for
// cases that can't be expressed through Cursor.IsValid alone.
type EncodingError struct {
	Message string
	cause   error
}

func (e *EncodingError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("avro: encoding error: %s: %v", e.Message, e.cause)
	}
	return fmt.Sprintf("avro: encoding error: %s", e.Message)
}

func (e *EncodingError) Unwrap() error { return e.cause }

// ErrInvalidSchema is returned when a schema JSON node cannot be classified
// as any known Avro type.
var ErrInvalidSchema = errors.New("avro: invalid schema")
