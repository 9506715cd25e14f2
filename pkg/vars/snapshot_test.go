package vars

import (
	"bytes"
	"testing"

	"github.com/zurustar/varholder/pkg/script"
	"github.com/zurustar/varholder/pkg/value"
)

func snapshotDefinition() *script.Definition {
	return &script.Definition{
		Name: "Door",
		Objects: []script.Object{{
			InitialState: "Closed",
			Variables: []script.Variable{
				{Name: "iOpened", Type: "int"},
				{Name: "sOwner", Type: "string"},
				{Name: "Key", Type: "MiscObject"},
			},
		}},
	}
}

func TestSnapshot_RestoresIntoFreshHolder(t *testing.T) {
	def := snapshotDefinition()
	src := New("Door")
	*src.Resolve("iOpened", def) = value.Int(3)
	*src.Resolve("Key", def) = value.Object(value.ObjectRef{Type: "MiscObject", ID: 42})
	*src.Resolve(StateToken, def) = value.String("Open")

	data, err := src.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst := New("Door")
	if err := dst.Restore(data, def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if vars, state := dst.Built(); !vars || !state {
		t.Errorf("restored parts should count as built, got %v, %v", vars, state)
	}
	if got := dst.Resolve("IOPENED", def); !got.Equal(value.Int(3)) {
		t.Errorf("iOpened = %v, want 3", got)
	}
	if got := dst.Resolve("key", def); !got.Equal(value.Object(value.ObjectRef{Type: "MiscObject", ID: 42})) {
		t.Errorf("Key = %v, want MiscObject#42", got)
	}
	if got := dst.Resolve("sOwner", def); !got.Equal(value.String("")) {
		t.Errorf("sOwner = %v, want empty string", got)
	}
	if got := dst.Resolve(StateToken, def); !got.Equal(value.String("Open")) {
		t.Errorf("state = %v, want Open", got)
	}
}

func TestSnapshot_KeepsHandles(t *testing.T) {
	def := snapshotDefinition()
	src := New("Door")
	*src.Resolve("iOpened", def) = value.Int(8)
	data, err := src.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst := New("Door")
	handle := dst.Resolve("iOpened", def)
	state := dst.Resolve(StateToken, def)
	if err := dst.Restore(data, def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !handle.Equal(value.Int(8)) {
		t.Errorf("existing handle should see the restored value, got %v", handle)
	}
	if !state.Equal(value.String("Closed")) {
		t.Errorf("state not in the snapshot should be left alone, got %v", state)
	}
}

func TestSnapshot_UnbuiltPartsStayLazy(t *testing.T) {
	def := snapshotDefinition()
	data, err := New("Door").Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst := New("Door")
	if err := dst.Restore(data, def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vars, state := dst.Built(); vars || state {
		t.Errorf("nothing should be built, got %v, %v", vars, state)
	}
}

func TestRestore_Errors(t *testing.T) {
	data, err := New("Door").Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := New("Chest").Restore(data, snapshotDefinition()); err == nil {
		t.Error("expected error restoring a snapshot of another script")
	}
	if err := New("Door").Restore([]byte{0xff, 0x00}, snapshotDefinition()); err == nil {
		t.Error("expected error for malformed data")
	}
}

func TestSnapshot_RestoreIntoGrownDefinition(t *testing.T) {
	old := &script.Definition{
		Name: "Door",
		Objects: []script.Object{{
			InitialState: "Closed",
			Variables: []script.Variable{
				{Name: "iOpened", Type: "int"},
				{Name: "sRemoved", Type: "string"},
			},
		}},
	}
	src := New("Door")
	*src.Resolve("iOpened", old) = value.Int(4)
	*src.Resolve("sRemoved", old) = value.String("gone")
	data, err := src.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cur := &script.Definition{
		Name: "Door",
		Objects: []script.Object{{
			InitialState: "Closed",
			Variables: []script.Variable{
				{Name: "iOpened", Type: "int"},
				{Name: "bLocked", Type: "bool", Default: ptr(value.Bool(true))},
			},
		}},
	}
	dst := New("Door")
	if err := dst.Restore(data, cur); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := dst.Resolve("iOpened", cur); got == nil || !got.Equal(value.Int(4)) {
		t.Errorf("iOpened = %v, want 4", got)
	}
	if got := dst.Resolve("bLocked", cur); got == nil || !got.Equal(value.Bool(true)) {
		t.Errorf("bLocked declared after the snapshot = %v, want its default true", got)
	}
	if got := dst.Resolve("sRemoved", cur); got != nil {
		t.Errorf("sRemoved is no longer declared and must stay absent, got %v", got)
	}
	if dst.Len() != cur.VariableCount() {
		t.Errorf("table should hold one entry per declaration, got %d", dst.Len())
	}
}

func TestSnapshot_MergesIntoBuiltHolder(t *testing.T) {
	def := snapshotDefinition()
	src := New("Door")
	*src.Resolve("iOpened", def) = value.Int(1)
	data, err := src.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst := New("Door")
	*dst.Resolve(StateToken, def) = value.String("Busy")
	if err := dst.Restore(data, def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := dst.Resolve(StateToken, def); !got.Equal(value.String("Busy")) {
		t.Errorf("state missing from the snapshot should be kept, got %v", got)
	}
	if got := dst.Resolve("iOpened", def); !got.Equal(value.Int(1)) {
		t.Errorf("iOpened = %v, want 1", got)
	}
}

func TestSnapshot_IsCanonical(t *testing.T) {
	def := snapshotDefinition()
	def.Objects[0].Variables = append(def.Objects[0].Variables, script.Variable{Name: "fAngle", Type: "float"})

	h := New("Door")
	*h.Resolve("fAngle", def) = value.Float(1.5)
	data, err := h.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1.5 in its shortest (half-precision) form
	if !bytes.Contains(data, []byte{0xf9, 0x3e, 0x00}) {
		t.Errorf("nested float should be encoded in shortest form: % x", data)
	}

	again, err := h.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("encoding the same holder twice should give identical bytes")
	}
}
