package table

import "git.sr.ht/~rookery/rc/internal/value"

// VarEntry is one variable binding. Next implements lexical stacking: a
// local assignment pushes a new VarEntry in front of the previous one;
// leaving that scope pops it. At most one entry per name is ever directly
// reachable from the table slot — the rest are reached only via Next.
//
// Grounded on hash.c's `Variable` struct and get_var_place/delete_var.
type VarEntry struct {
	ExtDef *string // cached exported "NAME=value\0" form, nil until computed
	Def    *value.List
	Next   *VarEntry
}

// Vars is the variable table (spec.md §3 "Variable entry", §4.B).
type Vars struct {
	t     *openTable[*VarEntry]
	dirty *bool // shared with Funcs so either mutation invalidates MakeEnv's cache
}

func newVars(dirty *bool) *Vars {
	return &Vars{t: newOpenTable[*VarEntry](), dirty: dirty}
}

// Lookup returns the current (top-of-stack) value list for name.
func (v *Vars) Lookup(name string) (*value.List, bool) {
	e, ok := v.t.lookup(name)
	if !ok {
		return nil, false
	}
	return e.Def, true
}

// Place implements get_var_place: find-or-insert, pushing a new stack
// frame if stack is true, otherwise overwriting the current top's value.
func (v *Vars) Place(name string, stack bool) *VarEntry {
	*v.dirty = true
	idx, existed := v.t.place(name)
	if !existed {
		e := &VarEntry{}
		v.t.slots[idx].val = e
		return e
	}
	cur := v.t.slots[idx].val
	if stack {
		n := &VarEntry{Next: cur}
		v.t.slots[idx].val = n
		return n
	}
	cur.ExtDef = nil
	cur.Def = nil
	return cur
}

// Set is a convenience wrapper over Place for assigning a whole word list.
func (v *Vars) Set(name string, words []string, stack bool) {
	e := v.Place(name, stack)
	e.Def = value.NewList(words...)
}

// Delete implements delete_var's three cases: pop a stack frame, clear the
// top frame's value while keeping the shadow chain, or remove the name
// entirely from the table.
func (v *Vars) Delete(name string, stack bool) {
	idx, found := v.t.find(name)
	if !found {
		return
	}
	*v.dirty = true
	e := v.t.slots[idx].val
	e.ExtDef = nil
	e.Def = nil
	switch {
	case e.Next != nil && stack:
		v.t.slots[idx].val = e.Next
	case e.Next != nil:
		// already cleared above; keep the shadow chain in place
	default:
		v.t.delete(name)
	}
}

// Names returns all currently-bound variable names (table order).
func (v *Vars) Names() []string { return v.t.names() }
