package vm

import "testing"

func push(t *testing.T, s *Stack, v uint64) {
	t.Helper()
	w := wordFromUint64(v)
	if err := s.Push(&w); err != nil {
		t.Fatalf("Push(%d) failed: %v", v, err)
	}
}

func TestStackPushPop(t *testing.T) {
	s := NewStack()
	push(t, s, 42)
	push(t, s, 99)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	val, err := s.Pop()
	if err != nil || val.Uint64() != 99 {
		t.Errorf("Pop() = %v, %v, want 99, nil", val.Uint64(), err)
	}

	val, err = s.Pop()
	if err != nil || val.Uint64() != 42 {
		t.Errorf("Pop() = %v, %v, want 42, nil", val.Uint64(), err)
	}

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStackPopUnderflow(t *testing.T) {
	s := NewStack()
	if _, err := s.Pop(); err == nil {
		t.Error("expected underflow error, got nil")
	}
}

func TestStackPeekN(t *testing.T) {
	s := NewStack()
	push(t, s, 10)
	push(t, s, 20)
	push(t, s, 30)

	top, err := s.Peek()
	if err != nil || top.Uint64() != 30 {
		t.Errorf("Peek() = %v, %v, want 30, nil", top, err)
	}
	for i, want := range []uint64{30, 20, 10} {
		got, err := s.PeekN(i)
		if err != nil || got.Uint64() != want {
			t.Errorf("PeekN(%d) = %v, %v, want %d, nil", i, got, err, want)
		}
	}
}

func TestStackDupIndependentCopy(t *testing.T) {
	s := NewStack()
	push(t, s, 10)
	push(t, s, 20)
	push(t, s, 30)

	if err := s.Dup(2); err != nil { // duplicate the 2nd from top (20)
		t.Fatalf("Dup(2) failed: %v", err)
	}
	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
	top, _ := s.Peek()
	if top.Uint64() != 20 {
		t.Errorf("after Dup(2), top = %v, want 20", top)
	}

	// Mutating the duplicate must not affect the original.
	top.SetUint64(999)
	below, _ := s.PeekN(2)
	if below.Uint64() != 20 {
		t.Errorf("Dup must create an independent copy, got %v", below)
	}
}

func TestStackDupThenPopRoundTrips(t *testing.T) {
	s := NewStack()
	for n := 1; n <= 16; n++ {
		s2 := NewStack()
		for i := 0; i < n; i++ {
			push(t, s2, uint64(i))
		}
		before := s2.Len()
		if err := s2.Dup(n); err != nil {
			t.Fatalf("Dup(%d) failed: %v", n, err)
		}
		if _, err := s2.Pop(); err != nil {
			t.Fatalf("Pop after Dup(%d) failed: %v", n, err)
		}
		if s2.Len() != before {
			t.Errorf("Dup(%d) then Pop changed length: got %d, want %d", n, s2.Len(), before)
		}
	}
	_ = s
}

func TestStackSwap(t *testing.T) {
	s := NewStack()
	push(t, s, 1)
	push(t, s, 2)
	push(t, s, 3)

	if err := s.Swap(2); err != nil { // swap top (3) with 2nd below (1)
		t.Fatalf("Swap(2) failed: %v", err)
	}
	top, _ := s.Peek()
	if top.Uint64() != 1 {
		t.Errorf("after Swap(2), top = %v, want 1", top)
	}
	bottom, _ := s.PeekN(2)
	if bottom.Uint64() != 3 {
		t.Errorf("after Swap(2), bottom = %v, want 3", bottom)
	}
}

func TestStackSwapTwiceIsIdentity(t *testing.T) {
	for n := 1; n <= 16; n++ {
		s := NewStack()
		for i := 0; i <= n; i++ {
			push(t, s, uint64(i))
		}
		var before [stackLimit]Word
		copy(before[:s.top], s.data[:s.top])

		if err := s.Swap(n); err != nil {
			t.Fatalf("Swap(%d) failed: %v", n, err)
		}
		if err := s.Swap(n); err != nil {
			t.Fatalf("second Swap(%d) failed: %v", n, err)
		}
		for i := 0; i < s.top; i++ {
			if !before[i].Eq(&s.data[i]) {
				t.Errorf("Swap(%d) twice did not restore stack at index %d", n, i)
			}
		}
	}
}

func TestStackOverflow(t *testing.T) {
	s := NewStack()
	for i := 0; i < stackLimit; i++ {
		push(t, s, uint64(i))
	}
	w := wordFromUint64(9999)
	if err := s.Push(&w); err == nil {
		t.Error("expected stack overflow error, got nil")
	}
}

func TestStackSwapOutOfRange(t *testing.T) {
	s := NewStack()
	push(t, s, 1)
	push(t, s, 2)
	if err := s.Swap(17); err == nil {
		t.Error("expected ArgOutOfRange error for SWAP17, got nil")
	}
}

func TestStackDupOutOfRange(t *testing.T) {
	s := NewStack()
	push(t, s, 1)
	if err := s.Dup(17); err == nil {
		t.Error("expected ArgOutOfRange error for DUP17, got nil")
	}
}
