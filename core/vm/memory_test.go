package vm

import (
	"bytes"
	"testing"
)

func TestMemoryAutoExtendsOnLoad(t *testing.T) {
	m := NewMemory()
	data, err := m.Load(64, 32)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(data) != 32 || !bytes.Equal(data, make([]byte, 32)) {
		t.Errorf("Load past-end should zero-fill, got %x", data)
	}
	if m.Len() != 96 {
		t.Errorf("Len() = %d, want 96 (rounded up to 32-byte multiple)", m.Len())
	}
}

func TestMemoryStoreThenLoadRoundTrips(t *testing.T) {
	m := NewMemory()
	w := wordFromUint64(0xdeadbeef)
	if err := m.StoreWord(0, &w); err != nil {
		t.Fatalf("StoreWord: %v", err)
	}
	got, err := m.LoadWord(0)
	if err != nil {
		t.Fatalf("LoadWord: %v", err)
	}
	if got.Uint64() != 0xdeadbeef {
		t.Errorf("LoadWord() = %#x, want 0xdeadbeef", got.Uint64())
	}
}

func TestMemoryStoreByte(t *testing.T) {
	m := NewMemory()
	v := wordFromUint64(0xff)
	if err := m.StoreByte(5, &v); err != nil {
		t.Fatalf("StoreByte: %v", err)
	}
	data, _ := m.Load(0, 32)
	for i, b := range data {
		if i == 5 {
			if b != 0xff {
				t.Errorf("byte 5 = %#x, want 0xff", b)
			}
		} else if b != 0 {
			t.Errorf("byte %d = %#x, want 0", i, b)
		}
	}
}

func TestMemoryGrowthCappedNotOverflowed(t *testing.T) {
	m := NewMemory()
	_, err := m.Load(memoryMaxSize+1, 1)
	if err == nil {
		t.Fatal("expected InvalidMemoryAccess past the size cap, got nil")
	}
	ee, ok := err.(*ExecutionError)
	if !ok || ee.Status != StatusInvalidMemoryAccess {
		t.Errorf("expected StatusInvalidMemoryAccess, got %v", err)
	}
}

func TestMemoryOffsetLengthOverflowIsInvalidAccess(t *testing.T) {
	m := NewMemory()
	_, err := m.Load(^uint64(0), 2)
	if err == nil {
		t.Fatal("expected overflow to be rejected")
	}
	ee, ok := err.(*ExecutionError)
	if !ok || ee.Status != StatusInvalidMemoryAccess {
		t.Errorf("expected StatusInvalidMemoryAccess, got %v", err)
	}
}

func TestMemoryZeroLengthNoOp(t *testing.T) {
	m := NewMemory()
	if _, err := m.Load(0, 0); err != nil {
		t.Fatalf("zero-length Load should never fail: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("zero-length Load should not grow memory, got Len()=%d", m.Len())
	}
}
