package queue

import (
	"errors"
	"net"
	"testing"
)

func TestInFlightOwnership(t *testing.T) {
	f := NewInFlight()
	r := rec("a", 1)

	if err := f.Acquire(r); err != nil {
		t.Fatal(err)
	}
	if err := f.Acquire(r); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("second acquire: err = %v, want ErrAlreadyOwned", err)
	}
	if !f.Release(r) {
		t.Error("release of a registered record returned false")
	}
	if f.Release(r) {
		t.Error("double release returned true")
	}
	if f.Len() != 0 {
		t.Errorf("Len = %d, want 0", f.Len())
	}
}

func TestInFlightCloseAll(t *testing.T) {
	f := NewInFlight()
	server, client := net.Pipe()
	defer client.Close()

	r := NewRecord(server)
	if err := f.Acquire(r); err != nil {
		t.Fatal(err)
	}
	if n := f.CloseAll(); n != 1 {
		t.Errorf("CloseAll = %d, want 1", n)
	}
	if _, err := server.Write([]byte("x")); err == nil {
		t.Error("connection still open after CloseAll")
	}
	if f.Len() != 0 {
		t.Errorf("Len = %d, want 0", f.Len())
	}
}
