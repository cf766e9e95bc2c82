package id

import "testing"

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
	if !Valid(first) || !Valid(second) {
		t.Fatalf("expected uuid ids, got %q and %q", first, second)
	}
	if Valid("ticket-1") {
		t.Fatalf("non uuid value should not be valid")
	}
}

func TestSequence_NewID(t *testing.T) {
	t.Parallel()

	seq := &Sequence{IDs: []string{"a"}}
	if got, err := seq.NewID(); err != nil || got != "a" {
		t.Fatalf("expected a, got %q err=%v", got, err)
	}
	if _, err := seq.NewID(); err == nil {
		t.Fatalf("expected error once the sequence is exhausted")
	}
}
