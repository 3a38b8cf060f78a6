// Package table implements the shell's three open-addressed hash tables —
// variables, functions, and the command path cache — plus the exported
// environment they jointly produce.
//
// Grounded directly on original_source/hash.c: same hash function (Paul
// Haahr's byte-mixing integer hash), same linear-probing/tombstone scheme,
// same initial capacity (64) and 50%-load rehash trigger, same
// collapse-vs-tombstone deletion rule. The C version keys tables by
// swapping on a shared `Htab*`; here each concern gets its own generic
// openTable[V], which is the idiomatic Go shape for "three hash tables
// with identical probing logic but different value types."
package table

const initialCapacity = 64

// hash is Paul Haahr's byte-mixing hash, as used by rc's hash.c. It reads
// the name 4 bytes at a time, each group folded in with different shifts,
// and masks the result to a power-of-two table size.
func hash(s string, size int) int {
	var n int32
	b := []byte(s)
	for len(b) > 0 {
		var c [4]int32
		for i := range c {
			if len(b) == 0 {
				break
			}
			c[i] = int32(b[0])
			b = b[1:]
		}
		n += (c[0] << 17) ^ (c[0] << 11) ^ (c[0] << 5) ^ (c[0] >> 1)
		n ^= (c[1] << 14) + (c[1] << 7) + (c[1] << 4) + c[1]
		n ^= (^c[2] << 11) | ((c[2] << 3) ^ (c[2] >> 1))
		n -= (c[3] << 16) | (c[3] << 9) | (c[3] << 2) | (c[3] & 3)
	}
	if n < 0 {
		n = ^n
	}
	return int(n) & (size - 1)
}

type slot[V any] struct {
	name string
	dead bool // tombstone: logically empty, but probing must continue past it
	val  V
}

func (s *slot[V]) empty() bool { return s.name == "" && !s.dead }

// openTable is the shared open-addressing, linear-probing core used by
// Vars, Funcs, and CmdCache.
type openTable[V any] struct {
	slots []slot[V]
	used  int
}

func newOpenTable[V any]() *openTable[V] {
	return &openTable[V]{slots: make([]slot[V], initialCapacity)}
}

// find returns the index of the slot holding name, or — if name is not
// present — the index of the first empty-or-tombstone slot a caller
// should use to insert it. probeFound reports which case occurred.
func (t *openTable[V]) find(name string) (idx int, probeFound bool) {
	size := len(t.slots)
	h := hash(name, size)
	for {
		s := &t.slots[h]
		if s.name == "" && !s.dead {
			return h, false
		}
		if !s.dead && s.name == name {
			return h, true
		}
		h = (h + 1) & (size - 1)
	}
}

func (t *openTable[V]) lookup(name string) (V, bool) {
	idx, found := t.find(name)
	if !found {
		var zero V
		return zero, false
	}
	return t.slots[idx].val, true
}

// rehashIfNeeded doubles capacity and reinserts all live entries whenever
// the load factor exceeds 50%, matching hash.c's `size > 2*used` guard
// (inverted: we rehash when NOT size > 2*used, i.e. used*2 >= size).
func (t *openTable[V]) rehashIfNeeded() {
	if len(t.slots) > 2*t.used {
		return
	}
	old := t.slots
	t.slots = make([]slot[V], 2*len(old))
	t.used = 0
	for _, s := range old {
		if s.name == "" || s.dead {
			continue
		}
		idx, _ := t.find(s.name)
		t.slots[idx] = slot[V]{name: s.name, val: s.val}
		t.used++
	}
}

// place finds or creates a slot for name and returns its index plus
// whether it already existed. Callers that insert must call
// rehashIfNeeded first so the returned index isn't invalidated by growth.
func (t *openTable[V]) place(name string) (idx int, existed bool) {
	idx, found := t.find(name)
	if found {
		return idx, true
	}
	t.rehashIfNeeded()
	idx, _ = t.find(name)
	t.slots[idx].name = name
	t.slots[idx].dead = false
	t.used++
	return idx, false
}

// delete removes name, applying the collapse-vs-tombstone rule: if the
// next slot is empty, this slot collapses to empty too (and the chain of
// empties can keep collapsing backward in principle, but rc's C
// implementation only ever collapses one slot, so we match that exactly);
// otherwise the slot becomes a tombstone so later probes still find
// whatever comes after it.
func (t *openTable[V]) delete(name string) bool {
	idx, found := t.find(name)
	if !found {
		return false
	}
	size := len(t.slots)
	var zero V
	t.slots[idx].val = zero
	next := (idx + 1) & (size - 1)
	if t.slots[next].empty() {
		t.slots[idx] = slot[V]{}
		t.used--
	} else {
		t.slots[idx] = slot[V]{dead: true}
	}
	return true
}

// names returns the live key names in table order (not sorted).
func (t *openTable[V]) names() []string {
	out := make([]string, 0, t.used)
	for _, s := range t.slots {
		if s.name != "" && !s.dead {
			out = append(out, s.name)
		}
	}
	return out
}

func (t *openTable[V]) reset() {
	t.slots = make([]slot[V], initialCapacity)
	t.used = 0
}

func (t *openTable[V]) size() int { return t.used }
