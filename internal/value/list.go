// Package value implements the shell's argument-list representation: a
// linked sequence of words, each carrying an optional metadata byte string
// consumed by the (external) glob layer.
//
// This mirrors rc's List (one cons cell per word, w + m + n) rather than a
// Go slice, because the hash-table package borrows *pointers* into a
// variable's List — see table.Vars.Set and the path-cache invariant in
// internal/probe.
package value

// List is one node of a singly linked list of words. A nil *List is the
// empty list.
type List struct {
	Word     string
	Metadata []byte // glob-quote metadata; nil if the word carries none
	Next     *List
}

// NewList builds a List out of the given words, in order, with no metadata.
func NewList(words ...string) *List {
	var head, tail *List
	for _, w := range words {
		n := &List{Word: w}
		if tail == nil {
			head = n
		} else {
			tail.Next = n
		}
		tail = n
	}
	return head
}

// Len returns the number of nodes in l.
func (l *List) Len() int {
	n := 0
	for ; l != nil; l = l.Next {
		n++
	}
	return n
}

// Strings flattens l into a slice of words, dropping metadata.
func (l *List) Strings() []string {
	out := make([]string, 0, l.Len())
	for ; l != nil; l = l.Next {
		out = append(out, l.Word)
	}
	return out
}

// Append returns a new list with word appended after l (l is not mutated:
// every node of l is copied into the result, so the two share no nodes).
func Append(l *List, word string) *List {
	if l == nil {
		return &List{Word: word}
	}
	return &List{Word: l.Word, Metadata: l.Metadata, Next: Append(l.Next, word)}
}

// Reverse returns a new list with the words of l in reverse order.
func Reverse(l *List) *List {
	var out *List
	for ; l != nil; l = l.Next {
		out = &List{Word: l.Word, Metadata: l.Metadata, Next: out}
	}
	return out
}

// ToArgv materializes l into a contiguous array of strings, as the
// dispatcher does before handing a command to the OS. If flag is true, a
// leading "-" is prepended as argv[0] (used when rc forces a command to
// look like it was invoked with a leading dash, e.g. a login shell).
func ToArgv(l *List, flag bool) []string {
	argv := make([]string, 0, l.Len()+1)
	if flag {
		argv = append(argv, "-")
	}
	return append(argv, l.Strings()...)
}
