package vm

// memoryMaxSize bounds how large Memory may grow (32 MiB). Without this
// cap a single crafted MLOAD/MSTORE offset could force an unbounded
// allocation; the overflow/DoS case that would trigger it is reported
// as StatusInvalidMemoryAccess rather than left to panic or OOM.
const memoryMaxSize = 32 * 1024 * 1024

// Memory is the frame's byte-addressable working memory. Reads and writes
// auto-extend (zero-filling) memory up to the offset and length accessed;
// the only failures are an access that would grow memory past
// memoryMaxSize and an offset+length that overflows uint64.
// Memory size is always a multiple of 32 bytes.
type Memory struct {
	store []byte
}

// NewMemory returns a new, empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Len returns the current memory size in bytes.
func (m *Memory) Len() int {
	return len(m.store)
}

// Data returns the backing slice. Callers must not retain it across a
// mutating call, since grow may reallocate.
func (m *Memory) Data() []byte {
	return m.store
}

// roundUpTo32 rounds n up to the nearest multiple of 32. The bool result
// is false if doing so would overflow uint64.
func roundUpTo32(n uint64) (uint64, bool) {
	if n > (^uint64(0))-31 {
		return 0, false
	}
	return (n + 31) / 32 * 32, true
}

// grow ensures memory is at least `end` bytes (rounded up to a multiple
// of 32), zero-filling the newly-visible region.
func (m *Memory) grow(end uint64) error {
	if end <= uint64(len(m.store)) {
		return nil
	}
	rounded, ok := roundUpTo32(end)
	if !ok || rounded > memoryMaxSize {
		return haltError(StatusInvalidMemoryAccess, 0, "memory growth exceeds limit")
	}
	m.store = append(m.store, make([]byte, rounded-uint64(len(m.store)))...)
	return nil
}

// boundsFor validates an offset/length pair and returns its end,
// reporting StatusInvalidMemoryAccess only for the degenerate case of
// offset+length overflowing uint64.
func boundsFor(offset, length uint64) (uint64, error) {
	end := offset + length
	if end < offset {
		return 0, haltError(StatusInvalidMemoryAccess, 0, "offset+length overflow")
	}
	return end, nil
}

// Load reads length bytes starting at offset, auto-extending memory as
// needed, and returns a copy.
func (m *Memory) Load(offset, length uint64) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	end, err := boundsFor(offset, length)
	if err != nil {
		return nil, err
	}
	if err := m.grow(end); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.store[offset:end])
	return out, nil
}

// LoadWord reads a 32-byte word starting at offset (MLOAD).
func (m *Memory) LoadWord(offset uint64) (Word, error) {
	b, err := m.Load(offset, 32)
	if err != nil {
		return Word{}, err
	}
	return wordFromBytes32(b), nil
}

// Store writes data at offset, auto-extending memory as needed.
func (m *Memory) Store(offset uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	end, err := boundsFor(offset, uint64(len(data)))
	if err != nil {
		return err
	}
	if err := m.grow(end); err != nil {
		return err
	}
	copy(m.store[offset:end], data)
	return nil
}

// StoreWord writes a 32-byte big-endian word at offset (MSTORE).
func (m *Memory) StoreWord(offset uint64, val *Word) error {
	b := val.Bytes32()
	return m.Store(offset, b[:])
}

// StoreByte writes the low byte of val at offset (MSTORE8).
func (m *Memory) StoreByte(offset uint64, val *Word) error {
	return m.Store(offset, []byte{byte(val.Uint64())})
}
