// Package vars resolves script variable names to per-instance storage.
//
// A Holder belongs to exactly one script instance. It builds its variable
// table from the shared script definition the first time a variable is
// read, materializes the "::State" pseudo-variable on first use, and hands
// out pointers that stay valid and aliased for the life of the Holder.
//
// A Holder is not safe for concurrent use. Instances may run in parallel
// as long as each one has its own Holder.
package vars

import (
	"golang.org/x/text/cases"
)

// Name is a case-folded variable name. Two spellings that differ only in
// case produce the same Name.
type Name string

// NewName folds s into a Name.
func NewName(s string) Name {
	// cases.Caser keeps internal state, so one is made per call.
	return Name(cases.Fold().String(s))
}

// StateToken is the reserved name of the current-state pseudo-variable.
const StateToken = "::State"

var stateName = NewName(StateToken)

// IsStateToken reports whether name refers to the state pseudo-variable.
func IsStateToken(name string) bool {
	return NewName(name) == stateName
}
