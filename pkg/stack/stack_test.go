package stack

import "testing"

func TestPushPeekPop(t *testing.T) {
	s := New[int](0)
	if s.Peek() != nil {
		t.Fatalf("Peek on empty stack returned non-nil")
	}
	s.Push(1)
	s.Push(69)
	s.Push(420)

	if !s.TopIs(420) {
		t.Fatalf("TopIs(420) returned false after pushing 420")
	}

	for _, want := range []int{420, 69, 1} {
		got := s.Pop()
		if got == nil || *got != want {
			t.Fatalf("Pop() = %v, want %d", got, want)
		}
	}
	if s.Pop() != nil {
		t.Fatalf("Pop on empty stack returned non-nil")
	}
}

func TestTopIsOnEmpty(t *testing.T) {
	s := New[string](0)
	if s.TopIs("x") {
		t.Fatalf("TopIs on empty stack returned true")
	}
}
