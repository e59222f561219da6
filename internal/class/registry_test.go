package class

import (
	"errors"
	"sync"
	"testing"
)

func newClass(name string) (*Table, *VTable) {
	return NewTable(name, ClassScope, nil), NewVTable(name)
}

func TestRegistry_RegisterAndRetrieve(t *testing.T) {
	r := NewRegistry()

	table, vt := newClass("Point")
	vt.Set("Length", "Point")

	handle, err := r.Register("Point", table, vt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handle != 0 {
		t.Errorf("expected first handle 0, got %d", handle)
	}

	got, ok := r.Class("Point")
	if !ok || got != table {
		t.Error("expected registered table")
	}
	gotVT, ok := r.VTable("Point")
	if !ok || gotVT != vt {
		t.Error("expected registered vtable")
	}

	if _, ok := r.Class("Missing"); ok {
		t.Error("expected no table for Missing")
	}
	if _, ok := r.VTable("Missing"); ok {
		t.Error("expected no vtable for Missing")
	}
}

func TestRegistry_Handles(t *testing.T) {
	r := NewRegistry()

	for i, name := range []string{"A", "B", "C"} {
		table, vt := newClass(name)
		h, err := r.Register(name, table, vt)
		if err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
		if h != i {
			t.Errorf("expected handle %d for %s, got %d", i, name, h)
		}
	}

	if h, ok := r.Handle("B"); !ok || h != 1 {
		t.Errorf("expected handle 1, got %d (%v)", h, ok)
	}
	if name, ok := r.NameOf(2); !ok || name != "C" {
		t.Errorf("expected C, got %q (%v)", name, ok)
	}
	if _, ok := r.NameOf(7); ok {
		t.Error("expected unknown handle")
	}
}

func TestRegistry_RegisterErrors(t *testing.T) {
	r := NewRegistry()
	table, vt := newClass("Dup")
	if _, err := r.Register("Dup", table, vt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		class    string
		table    *Table
		vtable   *VTable
		expected error
	}{
		{"duplicate", "Dup", table, vt, ErrDuplicateClass},
		{"nil table", "NoTable", nil, vt, ErrIncomplete},
		{"nil vtable", "NoVTable", table, nil, ErrIncomplete},
		{"empty name", "", table, vt, ErrIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Register(tt.class, tt.table, tt.vtable)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}

	if r.Len() != 1 {
		t.Errorf("failed registrations must not be stored, have %d", r.Len())
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		table, vt := newClass(name)
		r.Register(name, table, vt)
	}

	names := r.Names()
	expected := []string{"Alpha", "Mid", "Zeta"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, names)
			break
		}
	}
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry()
	table, vt := newClass("A")
	r.Register("A", table, vt)

	r.Reset()

	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}
	if _, ok := r.Handle("A"); ok {
		t.Error("expected handle cleared")
	}

	h, err := r.Register("A", table, vt)
	if err != nil || h != 0 {
		t.Errorf("expected re-registration with handle 0, got %d (%v)", h, err)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			table, vt := newClass(name)
			if _, err := r.Register(name, table, vt); err != nil {
				t.Errorf("register %s: %v", name, err)
			}
			r.Class(name)
			r.Names()
		}(name)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, name := range names {
		h, ok := r.Handle(name)
		if !ok {
			t.Fatalf("missing handle for %s", name)
		}
		if seen[h] {
			t.Errorf("handle %d assigned twice", h)
		}
		seen[h] = true
	}
}
