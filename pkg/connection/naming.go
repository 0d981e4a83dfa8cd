package connection

import (
	"reflect"
	"strings"

	"github.com/jinzhu/inflection"
)

// TypeNameResolver derives the wire-level type name for an application type.
type TypeNameResolver func(t reflect.Type) string

// DefaultTypeName lowercases the simple name of t, so Order becomes "order".
// Type arguments are dropped: Page[Order] becomes "page". Unnamed types such
// as []int have no name and yield "".
func DefaultTypeName(t reflect.Type) string {
	return strings.ToLower(simpleName(t))
}

// PluralTypeName lowercases and pluralizes the simple name of t using English
// rules: Order becomes "orders", Category "categories", Person "people".
func PluralTypeName(t reflect.Type) string {
	name := simpleName(t)
	if name == "" {
		return ""
	}
	return strings.ToLower(inflection.Plural(name))
}

// simpleName is the name of t without pointer indirections or type
// arguments.
func simpleName(t reflect.Type) string {
	t = indirect(t)
	if t == nil {
		return ""
	}
	name, _, _ := strings.Cut(t.Name(), "[")
	return name
}

// indirect strips pointer indirections so *Order and Order share one key.
func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
