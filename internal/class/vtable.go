package class

// Slot is one dispatch entry: the function name and the class whose
// implementation it resolves to.
type Slot struct {
	Func     string
	Class    string
	FullName string
}

// VTable maps function names to the implementing class. Slots keep the
// position they were first given so a subclass override reuses the slot
// number of the method it replaces.
type VTable struct {
	Name string

	slots []Slot
	index map[string]int
}

// NewVTable returns an empty vtable for the named class.
func NewVTable(name string) *VTable {
	return &VTable{Name: name, index: make(map[string]int)}
}

// Set binds fn to class's implementation.
func (v *VTable) Set(fn, class string) {
	slot := Slot{Func: fn, Class: class, FullName: class + "." + fn}
	if i, ok := v.index[fn]; ok {
		v.slots[i] = slot
		return
	}
	v.index[fn] = len(v.slots)
	v.slots = append(v.slots, slot)
}

// Query returns the slot number and binding of fn.
func (v *VTable) Query(fn string) (int, Slot, bool) {
	i, ok := v.index[fn]
	if !ok {
		return -1, Slot{}, false
	}
	return i, v.slots[i], true
}

// Derive copies every slot into a new vtable for a subclass.
func (v *VTable) Derive(name string) *VTable {
	d := &VTable{
		Name:  name,
		slots: make([]Slot, len(v.slots)),
		index: make(map[string]int, len(v.index)),
	}
	copy(d.slots, v.slots)
	for fn, i := range v.index {
		d.index[fn] = i
	}
	return d
}

// Slots returns the slots in slot order.
func (v *VTable) Slots() []Slot {
	out := make([]Slot, len(v.slots))
	copy(out, v.slots)
	return out
}

func (v *VTable) Len() int {
	return len(v.slots)
}
