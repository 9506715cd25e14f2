package value

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("value: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// EncMode returns the canonical CBOR encoding mode used for values.
// Encoders embedding values should use it too so the whole document
// stays canonical.
func EncMode() cbor.EncMode {
	return cborEncMode
}

// wireValue is the CBOR form of a Value.
type wireValue struct {
	Kind  Kind    `cbor:"1,keyasint"`
	Int   int32   `cbor:"2,keyasint,omitempty"`
	Float float32 `cbor:"3,keyasint,omitempty"`
	Bool  bool    `cbor:"4,keyasint,omitempty"`
	Str   string  `cbor:"5,keyasint,omitempty"`
	Type  string  `cbor:"6,keyasint,omitempty"`
	ID    uint64  `cbor:"7,keyasint,omitempty"`
}

// MarshalCBOR implements cbor.Marshaler.
func (v Value) MarshalCBOR() ([]byte, error) {
	return cborEncMode.Marshal(wireValue{
		Kind:  v.kind,
		Int:   v.i,
		Float: v.f,
		Bool:  v.b,
		Str:   v.s,
		Type:  v.obj.Type,
		ID:    v.obj.ID,
	})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (v *Value) UnmarshalCBOR(data []byte) error {
	var w wireValue
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("value: unmarshal: %w", err)
	}
	if w.Kind > KindObject {
		return fmt.Errorf("value: unknown kind %d", w.Kind)
	}
	*v = Value{
		kind: w.Kind,
		i:    w.Int,
		f:    w.Float,
		b:    w.Bool,
		s:    w.Str,
		obj:  ObjectRef{Type: w.Type, ID: w.ID},
	}
	return nil
}
