package script

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/zurustar/varholder/pkg/value"
)

type tomlDefinition struct {
	Name    string       `toml:"name"`
	Objects []tomlObject `toml:"objects"`
}

type tomlObject struct {
	Name         string         `toml:"name"`
	InitialState string         `toml:"initial_state"`
	Variables    []tomlVariable `toml:"variables"`
}

type tomlVariable struct {
	Name    string `toml:"name"`
	Type    string `toml:"type"`
	Default any    `toml:"default"`
}

// ParseTOML decodes a script definition from its TOML description and
// validates it.
func ParseTOML(data []byte) (*Definition, error) {
	var raw tomlDefinition
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	def := &Definition{
		Name:    raw.Name,
		Objects: make([]Object, 0, len(raw.Objects)),
	}
	for _, ro := range raw.Objects {
		obj := Object{
			Name:         ro.Name,
			InitialState: ro.InitialState,
			Variables:    make([]Variable, 0, len(ro.Variables)),
		}
		for _, rv := range ro.Variables {
			v := Variable{Name: rv.Name, Type: rv.Type}
			if rv.Default != nil {
				dv, err := convertDefault(rv.Type, rv.Default)
				if err != nil {
					return nil, fmt.Errorf("%s: object %q: variable %q: %w", raw.Name, ro.Name, rv.Name, err)
				}
				v.Default = &dv
			}
			obj.Variables = append(obj.Variables, v)
		}
		def.Objects = append(def.Objects, obj)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// LoadTOML reads and parses a TOML script definition file.
func LoadTOML(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	def, err := ParseTOML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// convertDefault turns a decoded TOML scalar into a value of the declared type.
func convertDefault(typeName string, raw any) (value.Value, error) {
	switch strings.ToLower(typeName) {
	case "int":
		n, ok := raw.(int64)
		if !ok {
			return value.None(), fmt.Errorf("default %v is not an integer", raw)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return value.None(), fmt.Errorf("default %d overflows int", n)
		}
		return value.Int(int32(n)), nil
	case "float":
		switch f := raw.(type) {
		case float64:
			return value.Float(float32(f)), nil
		case int64:
			return value.Float(float32(f)), nil
		}
		return value.None(), fmt.Errorf("default %v is not a number", raw)
	case "bool":
		b, ok := raw.(bool)
		if !ok {
			return value.None(), fmt.Errorf("default %v is not a boolean", raw)
		}
		return value.Bool(b), nil
	case "string":
		s, ok := raw.(string)
		if !ok {
			return value.None(), fmt.Errorf("default %v is not a string", raw)
		}
		return value.String(s), nil
	default:
		return value.None(), fmt.Errorf("type %q cannot carry a default", typeName)
	}
}
