package syscallx

import (
	"os"
	"testing"
	"time"
)

func TestReadInterrupted(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %s", err)
	}
	defer r.Close()
	defer w.Close()

	c := NewCanceler()
	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Cancel()
	}()

	buf := make([]byte, 16)
	_, err = Read(c, r, buf)
	if _, ok := err.(Interrupted); !ok {
		t.Fatalf("Read() err = %v, want Interrupted", err)
	}
}

func TestReadCompletesWithoutCancel(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %s", err)
	}
	defer r.Close()
	defer w.Close()

	c := NewCanceler()
	go w.Write([]byte("hi"))

	buf := make([]byte, 16)
	n, err := Read(c, r, buf)
	if err != nil {
		t.Fatalf("Read() err = %v", err)
	}
	if string(buf[:n]) != "hi" {
		t.Fatalf("Read() = %q, want %q", buf[:n], "hi")
	}
}

func TestWriteAllWritesEverything(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %s", err)
	}
	defer r.Close()
	defer w.Close()

	c := NewCanceler()
	payload := []byte("hello, world")
	done := make(chan error, 1)
	go func() { done <- WriteAll(c, w, payload) }()

	buf := make([]byte, len(payload))
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("Read: %s", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("WriteAll() err = %v", err)
	}
	if string(buf) != string(payload) {
		t.Fatalf("got %q, want %q", buf, payload)
	}
}

func TestWaitInterrupted(t *testing.T) {
	c := NewCanceler()
	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Cancel()
	}()

	block := make(chan struct{})
	defer close(block)
	_, _, err := Wait(c, func(pid int) (int, int, error) {
		<-block
		return pid, 0, nil
	}, 123)
	if _, ok := err.(Interrupted); !ok {
		t.Fatalf("Wait() err = %v, want Interrupted", err)
	}
}

func TestSignalTableRoundTrip(t *testing.T) {
	tab := NewTable()
	sig := tab.ByName("sigint")
	if sig < 0 {
		t.Fatalf("ByName(sigint) = %d, want a valid signal number", sig)
	}
	if got := tab.Name(sig); got != "sigint" {
		t.Fatalf("Name(%d) = %q, want sigint", sig, got)
	}
	if tab.Msg(sig) == "" {
		t.Fatalf("Msg(%d) is empty", sig)
	}
	if !IsSignalName("sigint") {
		t.Fatalf("IsSignalName(sigint) = false")
	}
	if IsSignalName("notasignal") {
		t.Fatalf("IsSignalName(notasignal) = true")
	}
}
