package avro

import "strings"

// computeFullName implements Avro's fullName resolution algorithm.
func computeFullName(name, namespace, defaultNamespace string) string {
	if strings.ContainsRune(name, '.') {
		return name
	}
	if namespace != "" {
		return namespace + "." + name
	}
	if defaultNamespace != "" {
		return defaultNamespace + "." + name
	}
	return name
}

// namespaceOf returns the namespace portion of a fullName: the prefix up to
// the last dot, or empty.
func namespaceOf(fullName string) string {
	idx := strings.LastIndexByte(fullName, '.')
	if idx < 0 {
		return ""
	}
	return fullName[:idx]
}

// nsStack is the explicit defaultNamespace stack threaded through the
// recursive schema parser: push on entering a record, pop on exit.
type nsStack struct {
	frames []string
}

func (s *nsStack) current() string {
	if len(s.frames) == 0 {
		return ""
	}
	return s.frames[len(s.frames)-1]
}

func (s *nsStack) push(ns string) {
	s.frames = append(s.frames, ns)
}

func (s *nsStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Names is the registry of fullName -> schema built up during Parse. It is
// mutated only during parsing and is not safe to share across concurrent
// parses.
type Names struct {
	byFullName map[string]Schema
}

func newNames() *Names {
	return &Names{byFullName: make(map[string]Schema)}
}

func (n *Names) lookup(fullName string) (Schema, bool) {
	s, ok := n.byFullName[fullName]
	return s, ok
}

// register binds fullName to schema, failing if the name is reserved or
// already bound.
func (n *Names) register(fullName string, schema Schema) error {
	if reservedTypeNames[fullName] {
		return &NameError{Message: "name collides with a reserved Avro type name", Name: fullName}
	}
	if _, exists := n.byFullName[fullName]; exists {
		return &NameError{Message: "name is already bound in this schema", Name: fullName}
	}
	n.byFullName[fullName] = schema
	return nil
}
