// Package script holds the loaded, read-only form of compiled script
// definitions. A Definition is shared by every instance created from it
// and must not be modified after loading.
package script

import (
	"errors"
	"fmt"

	"github.com/zurustar/varholder/pkg/value"
)

// ErrNoObjects is returned by Validate for a definition without object records.
var ErrNoObjects = errors.New("script: definition has no objects")

// Variable is one declared variable of an object record.
type Variable struct {
	Name string
	Type string
	// Default is nil when the declaration carries no serialized default.
	Default *value.Value
}

// HasDefault reports whether the declaration carries its own default value.
func (v Variable) HasDefault() bool {
	return v.Default != nil
}

// Object is one object record: its variable declarations and the state
// an instance starts in.
type Object struct {
	Name         string
	InitialState string
	Variables    []Variable
}

// InitialStateName returns the state an instance starts in.
func (o *Object) InitialStateName() string {
	return o.InitialState
}

// Declarations returns the variable declarations in declaration order.
func (o *Object) Declarations() []Variable {
	return o.Variables
}

// Definition is a compiled script definition. Inherited declarations are
// expected to be flattened into Objects by the loader.
type Definition struct {
	Name    string
	Objects []Object
}

// ObjectRecords returns the object records in their fixed order.
func (d *Definition) ObjectRecords() []Object {
	return d.Objects
}

// VariableCount returns the number of declarations across all objects,
// duplicates included.
func (d *Definition) VariableCount() int {
	n := 0
	for i := range d.Objects {
		n += len(d.Objects[i].Variables)
	}
	return n
}

// Validate checks the preconditions the variable holder relies on.
func (d *Definition) Validate() error {
	if len(d.Objects) == 0 {
		return fmt.Errorf("%s: %w", d.Name, ErrNoObjects)
	}
	for i := range d.Objects {
		obj := &d.Objects[i]
		for j, v := range obj.Variables {
			if v.Name == "" {
				return fmt.Errorf("%s: object %q: variable %d has no name", d.Name, obj.Name, j)
			}
			if v.Type == "" {
				return fmt.Errorf("%s: object %q: variable %q has no type", d.Name, obj.Name, v.Name)
			}
		}
	}
	return nil
}
