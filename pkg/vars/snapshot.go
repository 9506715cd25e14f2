package vars

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/zurustar/varholder/pkg/script"
	"github.com/zurustar/varholder/pkg/value"
)

// snapshot is the encoded form of a Holder. Parts that were never
// materialized are left out.
type snapshot struct {
	Script string                 `cbor:"1,keyasint"`
	State  *value.Value           `cbor:"2,keyasint,omitempty"`
	Vars   map[string]value.Value `cbor:"3,keyasint,omitempty"`
	Built  bool                   `cbor:"4,keyasint,omitempty"`
}

// Snapshot encodes the materialized variables and state as CBOR.
func (h *Holder) Snapshot() ([]byte, error) {
	s := snapshot{Script: h.scriptName}
	if h.stateReady {
		state := h.state
		s.State = &state
	}
	if h.vars != nil {
		s.Built = true
		s.Vars = make(map[string]value.Value, h.vars.Len())
		for _, e := range h.vars.entries {
			s.Vars[e.spelling] = *e.cell
		}
	}

	data, err := value.EncMode().Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("vars: marshal snapshot: %w", err)
	}
	return data, nil
}

// Restore merges a snapshot taken from a Holder of the same script into
// h. The variable table is first built from def if it does not exist yet,
// then every snapshot value whose name def still declares is written into
// the existing storage; names def no longer declares are dropped.
// Variables and state missing from the snapshot keep their current
// values, and pointers returned by Resolve before the call keep aliasing
// the merged values. A state present in the snapshot counts as
// materialized afterwards.
func (h *Holder) Restore(data []byte, def *script.Definition) error {
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("vars: unmarshal snapshot: %w", err)
	}
	if s.Script != h.scriptName {
		return fmt.Errorf("vars: snapshot of %q cannot be restored into %q", s.Script, h.scriptName)
	}

	if s.State != nil {
		h.state = *s.State
		h.stateReady = true
	}

	restored := 0
	if s.Built {
		if h.vars == nil {
			h.fillNormalVariables(def)
		}
		for name, v := range s.Vars {
			if cell := h.vars.lookup(NewName(name)); cell != nil {
				*cell = v
				restored++
			}
		}
	}

	h.log.Debug("snapshot restored",
		"script", h.scriptName, "holder", h.id, "variables", restored,
		"dropped", len(s.Vars)-restored, "state", s.State != nil)
	return nil
}
