// Package typereg resolves declared type names to default values.
package typereg

import (
	"strings"
	"sync"

	"github.com/zurustar/varholder/pkg/value"
)

// Registry returns the default value of a declared type.
// Implementations must be total over every type name a loaded
// script definition can contain.
type Registry interface {
	DefaultValue(typeName string) value.Value
}

// Builtin knows the primitive script types. Any other name is taken to be
// a script object type (or an array of something) and defaults to a null
// reference of that type.
type Builtin struct {
	mu     sync.RWMutex
	protos map[string]value.Value
}

// NewBuiltin creates a registry preloaded with the primitive types.
func NewBuiltin() *Builtin {
	return &Builtin{
		protos: map[string]value.Value{
			"int":    value.Int(0),
			"float":  value.Float(0),
			"bool":   value.Bool(false),
			"string": value.String(""),
		},
	}
}

// Register sets the default value for a type name, replacing any previous one.
func (r *Builtin) Register(typeName string, proto value.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.protos[strings.ToLower(typeName)] = proto
}

// DefaultValue implements Registry.
func (r *Builtin) DefaultValue(typeName string) value.Value {
	r.mu.RLock()
	proto, ok := r.protos[strings.ToLower(typeName)]
	r.mu.RUnlock()
	if ok {
		return proto
	}
	return value.NullObject(typeName)
}

var defaultRegistry = NewBuiltin()

// Default returns the process-wide builtin registry.
func Default() *Builtin {
	return defaultRegistry
}
