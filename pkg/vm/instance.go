package vm

import (
	"log/slog"

	"github.com/zurustar/varholder/pkg/logger"
	"github.com/zurustar/varholder/pkg/script"
	"github.com/zurustar/varholder/pkg/typereg"
	"github.com/zurustar/varholder/pkg/value"
	"github.com/zurustar/varholder/pkg/vars"
)

// Instance is one running object created from a script definition.
// The definition is shared with every other instance of the same script;
// the variable storage belongs to this instance alone.
//
// An Instance is driven by one goroutine at a time.
type Instance struct {
	def    *script.Definition
	holder *vars.Holder
	log    *slog.Logger
}

// Option is a functional option for configuring an Instance.
type Option func(*instanceConfig)

type instanceConfig struct {
	registry typereg.Registry
	log      *slog.Logger
}

// WithTypeRegistry sets the registry used for variables declared without a default.
func WithTypeRegistry(r typereg.Registry) Option {
	return func(c *instanceConfig) {
		c.registry = r
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *instanceConfig) {
		c.log = log
	}
}

// NewInstance creates an instance of def. The definition is checked once
// here so later variable access can rely on it.
func NewInstance(def *script.Definition, opts ...Option) (*Instance, error) {
	if err := def.Validate(); err != nil {
		return nil, NewInvalidDefinitionError(def.Name, err)
	}

	cfg := instanceConfig{
		registry: typereg.Default(),
		log:      logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	holder := vars.New(def.Name,
		vars.WithTypeRegistry(cfg.registry),
		vars.WithLogger(cfg.log),
	)

	return &Instance{
		def:    def,
		holder: holder,
		log:    cfg.log.With("script", def.Name, "instance", holder.ID()),
	}, nil
}

// Definition returns the shared definition the instance was created from.
func (in *Instance) Definition() *script.Definition {
	return in.def
}

// Holder returns the instance's variable storage.
func (in *Instance) Holder() *vars.Holder {
	return in.holder
}

// Handle returns the storage of the named variable for direct reads and
// writes. vars.StateToken is accepted and yields the current state.
func (in *Instance) Handle(name string) (*value.Value, error) {
	h := in.holder.Resolve(name, in.def)
	if h == nil {
		in.log.Debug("variable not found", "name", name)
		return nil, NewUndefinedVariableError(name, in.def.Name)
	}
	return h, nil
}

// Variable returns the current value of the named variable.
func (in *Instance) Variable(name string) (value.Value, error) {
	h, err := in.Handle(name)
	if err != nil {
		return value.None(), err
	}
	return *h, nil
}

// SetVariable assigns v to the named variable. A variable that already
// holds a value only accepts values of the same kind.
func (in *Instance) SetVariable(name string, v value.Value) error {
	h, err := in.Handle(name)
	if err != nil {
		return err
	}
	if !h.IsNone() && h.Kind() != v.Kind() {
		return NewTypeMismatchError(name, h.Kind(), v.Kind(), in.def.Name)
	}
	*h = v
	return nil
}

// State returns the name of the active state.
func (in *Instance) State() string {
	s, _ := in.holder.Resolve(vars.StateToken, in.def).AsString()
	return s
}

// RecordState stores name as the active state. The transition itself
// (leaving the old state, entering the new one) is the caller's job.
func (in *Instance) RecordState(name string) error {
	if name == "" {
		return NewRuntimeErrorWithScript(ErrorInvalidState, "empty state name", in.def.Name)
	}
	h := in.holder.Resolve(vars.StateToken, in.def)
	prev, _ := h.AsString()
	*h = value.String(name)

	in.log.Debug("state recorded", "from", prev, "to", name)
	return nil
}
