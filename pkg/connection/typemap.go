package connection

import "reflect"

// TypeMap is the mutable view of a per-type override table handed to the
// MapTypeIndices and MapTypeNames callbacks. It is only valid while the
// callback runs.
type TypeMap struct {
	entries map[reflect.Type]string
	closed  bool
}

func newTypeMap(entries map[reflect.Type]string) *TypeMap {
	return &TypeMap{entries: entries}
}

// Add maps t (pointer indirections stripped) to name, replacing any
// existing entry.
func (m *TypeMap) Add(t reflect.Type, name string) *TypeMap {
	m.mustBeOpen()
	if t = indirect(t); t != nil {
		m.entries[t] = name
	}
	return m
}

// Remove deletes the entry for t. Removing a missing entry is a no-op.
func (m *TypeMap) Remove(t reflect.Type) *TypeMap {
	m.mustBeOpen()
	delete(m.entries, indirect(t))
	return m
}

// Get returns the entry for t.
func (m *TypeMap) Get(t reflect.Type) (string, bool) {
	name, ok := m.entries[indirect(t)]
	return name, ok
}

// Len returns the number of entries.
func (m *TypeMap) Len() int {
	return len(m.entries)
}

func (m *TypeMap) mustBeOpen() {
	if m.closed {
		panic("connection: TypeMap used after its mapping callback returned")
	}
}

// AddType maps T to name.
func AddType[T any](m *TypeMap, name string) *TypeMap {
	return m.Add(reflect.TypeFor[T](), name)
}

// RemoveType deletes the entry for T.
func RemoveType[T any](m *TypeMap) *TypeMap {
	return m.Remove(reflect.TypeFor[T]())
}
