package typereg

import (
	"testing"

	"github.com/zurustar/varholder/pkg/value"
)

func TestBuiltin_Primitives(t *testing.T) {
	r := NewBuiltin()

	tests := []struct {
		typeName string
		want     value.Value
	}{
		{"int", value.Int(0)},
		{"Int", value.Int(0)},
		{"FLOAT", value.Float(0)},
		{"bool", value.Bool(false)},
		{"String", value.String("")},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			if got := r.DefaultValue(tt.typeName); !got.Equal(tt.want) {
				t.Errorf("DefaultValue(%q) = %v, want %v", tt.typeName, got, tt.want)
			}
		})
	}
}

func TestBuiltin_ObjectTypesDefaultToNull(t *testing.T) {
	r := NewBuiltin()

	for _, typeName := range []string{"Actor", "ObjectReference", "int[]", "Quest[]"} {
		got := r.DefaultValue(typeName)
		ref, ok := got.AsObject()
		if !ok {
			t.Errorf("DefaultValue(%q) kind = %s, want object", typeName, got.Kind())
			continue
		}
		if !ref.IsNull() || ref.Type != typeName {
			t.Errorf("DefaultValue(%q) = %+v, want null %s", typeName, ref, typeName)
		}
	}
}

func TestBuiltin_Register(t *testing.T) {
	r := NewBuiltin()
	r.Register("GlobalVariable", value.Float(1))

	if got := r.DefaultValue("globalvariable"); !got.Equal(value.Float(1)) {
		t.Errorf("registered default = %v, want 1", got)
	}
	if got := Default().DefaultValue("GlobalVariable"); got.Kind() != value.KindObject {
		t.Error("Register on one registry must not affect Default()")
	}
}
