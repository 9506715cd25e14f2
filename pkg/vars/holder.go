package vars

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zurustar/varholder/pkg/logger"
	"github.com/zurustar/varholder/pkg/script"
	"github.com/zurustar/varholder/pkg/typereg"
	"github.com/zurustar/varholder/pkg/value"
)

// Holder owns the variable storage of one script instance.
type Holder struct {
	scriptName string
	id         uuid.UUID
	registry   typereg.Registry
	log        *slog.Logger

	// vars is nil until the first non-state lookup.
	vars *Table

	state      value.Value
	stateReady bool
}

// Option is a functional option for configuring a Holder.
type Option func(*Holder)

// WithTypeRegistry sets the registry used for declarations without a default.
func WithTypeRegistry(r typereg.Registry) Option {
	return func(h *Holder) {
		h.registry = r
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Holder) {
		h.log = log
	}
}

// New creates an empty Holder for an instance of the named script.
// Nothing is read from the definition until Resolve is called.
func New(scriptName string, opts ...Option) *Holder {
	h := &Holder{
		scriptName: scriptName,
		id:         uuid.New(),
		registry:   typereg.Default(),
		log:        logger.GetLogger(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// ScriptName returns the name of the owning instance's script.
func (h *Holder) ScriptName() string {
	return h.scriptName
}

// ID returns a random identifier used to tell holders apart in logs.
func (h *Holder) ID() uuid.UUID {
	return h.id
}

// Resolve returns the storage of the named variable, or nil when def
// declares no such variable. Names are case-insensitive.
//
// StateToken resolves to the instance's current state, initialized to the
// first object's initial state name. Every other name resolves against a
// table built from all of def's declarations on first use.
//
// The returned pointer aliases the Holder's storage: writes through it are
// seen by every later Resolve of the same name.
//
// def must be the definition the instance was created from and must have
// at least one object.
func (h *Holder) Resolve(name string, def *script.Definition) *value.Value {
	key := NewName(name)

	if key == stateName {
		if !h.stateReady {
			h.fillState(def)
		}
		return &h.state
	}

	if h.vars == nil {
		h.fillNormalVariables(def)
	}

	return h.vars.lookup(key)
}

func (h *Holder) fillNormalVariables(def *script.Definition) {
	t := newTable(def.VariableCount())
	objects := def.ObjectRecords()
	for i := range objects {
		for _, decl := range objects[i].Declarations() {
			var v value.Value
			if decl.HasDefault() {
				v = *decl.Default
			} else {
				v = h.registry.DefaultValue(decl.Type)
			}
			t.set(decl.Name, v)
		}
	}
	h.vars = t

	h.log.Debug("variable table built",
		"script", h.scriptName, "holder", h.id, "variables", t.Len())
}

func (h *Holder) fillState(def *script.Definition) {
	objects := def.ObjectRecords()
	if len(objects) == 0 {
		panic(fmt.Sprintf("vars: %s: definition %q has no objects", h.scriptName, def.Name))
	}
	h.state = value.String(objects[0].InitialStateName())
	h.stateReady = true

	h.log.Debug("state initialized",
		"script", h.scriptName, "holder", h.id, "state", objects[0].InitialStateName())
}

// Len returns the number of variables in the table, or 0 if it has not
// been built yet. It never builds the table.
func (h *Holder) Len() int {
	if h.vars == nil {
		return 0
	}
	return h.vars.Len()
}

// Names returns the variable names in the table, sorted. It never builds
// the table.
func (h *Holder) Names() []string {
	if h.vars == nil {
		return nil
	}
	return h.vars.Names()
}

// Built reports which parts of the Holder have been materialized.
func (h *Holder) Built() (vars, state bool) {
	return h.vars != nil, h.stateReady
}
