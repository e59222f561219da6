package class

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gizbox-lang/gizbox/internal/bimap"
)

var (
	ErrDuplicateClass = errors.New("class already registered")
	ErrIncomplete     = errors.New("class metadata incomplete")
)

// entry is the shared metadata of one class.
type entry struct {
	table  *Table
	vtable *VTable
}

// Registry holds the metadata of every loaded class. Each class gets a small
// integer handle, stable for the registry's lifetime, so that compact
// encodings can refer to a class without carrying its name.
type Registry struct {
	mu sync.RWMutex

	classes map[string]entry
	handles *bimap.Map[string, int]
	next    int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]entry),
		handles: bimap.New[string, int](),
	}
}

// Register adds a class and returns its handle. Both the symbol table and the
// vtable are required.
func (r *Registry) Register(name string, table *Table, vtable *VTable) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty class name", ErrIncomplete)
	}
	if table == nil || vtable == nil {
		return 0, fmt.Errorf("%w: %s", ErrIncomplete, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; exists {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateClass, name)
	}

	handle := r.next
	r.handles.Add(name, handle)
	r.next++
	r.classes[name] = entry{table: table, vtable: vtable}
	return handle, nil
}

// Class returns the symbol table of the named class.
func (r *Registry) Class(name string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.classes[name]
	return e.table, ok
}

// VTable returns the vtable of the named class.
func (r *Registry) VTable(name string) (*VTable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.classes[name]
	return e.vtable, ok
}

// Handle returns the handle assigned to the named class.
func (r *Registry) Handle(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handles.Value(name)
}

// NameOf returns the class a handle was assigned to.
func (r *Registry) NameOf(handle int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handles.Key(handle)
}

// Names returns every registered class name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Reset clears the registry. Handles restart from zero.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.classes = make(map[string]entry)
	r.handles.Clear()
	r.next = 0
}
