// Package object implements runtime class instances.
//
// Instances share their class metadata: the symbol table and vtable belong to
// a class.Registry and outlive every object that points at them.
package object

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/gizbox-lang/gizbox/internal/class"
	"github.com/gizbox-lang/gizbox/internal/diag"
	"github.com/gizbox-lang/gizbox/internal/value"
)

var (
	ErrClassNotFound  = errors.New("class not found")
	ErrVTableNotFound = errors.New("vtable not found")
)

// LookupError reports a class whose metadata could not be resolved.
type LookupError struct {
	Class   string
	Missing error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %s", e.Missing, e.Class)
}

func (e *LookupError) Unwrap() error { return e.Missing }

func (e *LookupError) Code() string { return diag.ErrClassLookup }

// Resolver finds the shared metadata of a class by name.
type Resolver interface {
	Class(name string) (*class.Table, bool)
	VTable(name string) (*class.VTable, bool)
}

// Factory creates objects and hands out their ids. Ids start at 1 and are
// never reused. A Factory is safe for concurrent use.
type Factory struct {
	resolver Resolver
	lastID   atomic.Int64
}

// NewFactory returns a Factory that resolves classes through r.
func NewFactory(r Resolver) *Factory {
	return &Factory{resolver: r}
}

// New creates an instance of the named class. Metadata is resolved before an
// id is allocated, so a failed lookup leaves the id sequence untouched.
func (f *Factory) New(className string) (*Object, error) {
	meta, ok := f.resolver.Class(className)
	if !ok {
		return nil, &LookupError{Class: className, Missing: ErrClassNotFound}
	}
	vt, ok := f.resolver.VTable(className)
	if !ok {
		return nil, &LookupError{Class: className, Missing: ErrVTableNotFound}
	}
	return f.NewResolved(className, meta, vt), nil
}

// NewResolved creates an instance from metadata the caller already holds.
func (f *Factory) NewResolved(className string, meta *class.Table, vt *class.VTable) *Object {
	return &Object{
		id:     f.lastID.Add(1),
		typ:    className,
		meta:   meta,
		vtable: vt,
		fields: make(map[string]value.Value),
	}
}

// Count returns the number of ids handed out.
func (f *Factory) Count() int64 {
	return f.lastID.Load()
}

// Object is a class instance. Fields are not safe for concurrent mutation.
type Object struct {
	id     int64
	typ    string
	meta   *class.Table
	vtable *class.VTable
	fields map[string]value.Value
}

func (o *Object) ID() int64 { return o.id }

// Type returns the declared class name.
func (o *Object) Type() string { return o.typ }

func (o *Object) Class() *class.Table { return o.meta }

func (o *Object) VTable() *class.VTable { return o.vtable }

// Get returns a field value.
func (o *Object) Get(field string) (value.Value, bool) {
	v, ok := o.fields[field]
	return v, ok
}

// Set stores a field value, replacing any previous one.
func (o *Object) Set(field string, v value.Value) {
	o.fields[field] = v
}

// Fields returns the names of the set fields, sorted.
func (o *Object) Fields() []string {
	names := make([]string, 0, len(o.fields))
	for name := range o.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Method dispatches name through the vtable.
func (o *Object) Method(name string) (class.Slot, bool) {
	if o.vtable == nil {
		return class.Slot{}, false
	}
	_, slot, ok := o.vtable.Query(name)
	return slot, ok
}

func (o *Object) String() string {
	return fmt.Sprintf("Object(id:%d type:%s)", o.id, o.typ)
}
