package vars

import (
	"sort"

	"github.com/zurustar/varholder/pkg/value"
)

type entry struct {
	spelling string
	cell     *value.Value
}

// Table maps case-insensitive variable names to value cells.
// Cells are allocated once per name, so pointers into the table stay
// valid while it grows or its entries are overwritten.
type Table struct {
	entries map[Name]*entry
}

func newTable(capacity int) *Table {
	return &Table{entries: make(map[Name]*entry, capacity)}
}

// set stores v under name, reusing the existing cell when there is one.
func (t *Table) set(name string, v value.Value) {
	key := NewName(name)
	if e, ok := t.entries[key]; ok {
		e.spelling = name
		*e.cell = v
		return
	}
	cell := v
	t.entries[key] = &entry{spelling: name, cell: &cell}
}

func (t *Table) lookup(key Name) *value.Value {
	if e, ok := t.entries[key]; ok {
		return e.cell
	}
	return nil
}

// Len returns the number of distinct names.
func (t *Table) Len() int {
	return len(t.entries)
}

// Names returns the stored names as last declared, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		names = append(names, e.spelling)
	}
	sort.Strings(names)
	return names
}
