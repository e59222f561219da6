// Package class holds the metadata shared by every instance of a class:
// symbol tables, vtables and the registry that owns them.
package class

import (
	"errors"
	"fmt"
	"sort"
)

// TableKind is the scope a symbol table describes.
type TableKind int

const (
	GlobalScope TableKind = iota
	BlockScope
	ClassScope
	LoopScope
	FuncScope
)

func (k TableKind) String() string {
	switch k {
	case GlobalScope:
		return "global"
	case BlockScope:
		return "block"
	case ClassScope:
		return "class"
	case LoopScope:
		return "loop"
	case FuncScope:
		return "func"
	default:
		return fmt.Sprintf("TableKind(%d)", int(k))
	}
}

// Category classifies a record.
type Category int

const (
	Variable Category = iota
	Constant
	Param
	Function
	Class
	Other
)

func (c Category) String() string {
	switch c {
	case Variable:
		return "var"
	case Constant:
		return "const"
	case Param:
		return "param"
	case Function:
		return "func"
	case Class:
		return "class"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// BaseRecord is the record name under which a class table stores a link to
// its base class table.
const BaseRecord = "base"

var (
	// ErrNotClassScope is returned by Member on tables that are not class scopes.
	ErrNotClassScope = errors.New("member lookup outside class scope")

	ErrMemberNotFound = errors.New("member not found")
)

// Record is one entry of a symbol table.
type Record struct {
	Name     string
	RawName  string
	Category Category
	TypeExpr string
	Index    int64
	Init     string

	// Env is the table introduced by this symbol, if any: a function body,
	// a class body, or the base class for BaseRecord.
	Env *Table
}

// Table is a named symbol table in the scope tree.
type Table struct {
	Name     string
	Kind     TableKind
	Depth    int
	Parent   *Table
	Children []*Table

	records map[string]*Record
}

// NewTable creates a table and links it under parent, if given.
func NewTable(name string, kind TableKind, parent *Table) *Table {
	t := &Table{
		Name:    name,
		Kind:    kind,
		Parent:  parent,
		records: make(map[string]*Record),
	}
	if parent != nil {
		t.Depth = parent.Depth + 1
		parent.Children = append(parent.Children, t)
	}
	return t
}

// Add stores rec under its name, replacing any previous record of that name.
// A blank RawName defaults to Name.
func (t *Table) Add(rec *Record) *Record {
	if rec.RawName == "" {
		rec.RawName = rec.Name
	}
	t.records[rec.Name] = rec
	return rec
}

// Lookup finds a record in this table only.
func (t *Table) Lookup(name string) (*Record, bool) {
	rec, ok := t.records[name]
	return rec, ok
}

// LookupRaw finds a record by its source name in this table only.
func (t *Table) LookupRaw(raw string) (*Record, bool) {
	if rec, ok := t.records[raw]; ok {
		return rec, true
	}
	for _, rec := range t.records {
		if rec.RawName == raw {
			return rec, true
		}
	}
	return nil, false
}

// Resolve finds a record in this table or the nearest enclosing one.
func (t *Table) Resolve(name string) (*Record, *Table, bool) {
	for cur := t; cur != nil; cur = cur.Parent {
		if rec, ok := cur.records[name]; ok {
			return rec, cur, true
		}
	}
	return nil, nil, false
}

// Member finds a record in a class table or, failing that, along its chain of
// base classes.
func (t *Table) Member(name string) (*Record, error) {
	if t.Kind != ClassScope {
		return nil, fmt.Errorf("%w: %s is a %s table", ErrNotClassScope, t.Name, t.Kind)
	}
	for cur := t; cur != nil; {
		if rec, ok := cur.records[name]; ok {
			return rec, nil
		}
		base, ok := cur.records[BaseRecord]
		if !ok || base.Env == nil {
			break
		}
		cur = base.Env
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrMemberNotFound, t.Name, name)
}

// Records returns the records of the given category ordered by index, then
// by name.
func (t *Table) Records(c Category) []*Record {
	var out []*Record
	for _, rec := range t.records {
		if rec.Category == c {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Child returns the direct child table with the given name.
func (t *Table) Child(name string) (*Table, bool) {
	for _, c := range t.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
