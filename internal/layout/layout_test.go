package layout

import (
	"encoding/binary"
	"testing"

	"github.com/helixlang/bridge/errors"
)

// fakeMemory is a flat little-endian byte store with a bump allocator,
// standing in for engine linear memory.
type fakeMemory struct {
	data []byte
	brk  uint32
}

func newFakeMemory(size int) *fakeMemory {
	return &fakeMemory{data: make([]byte, size), brk: 8}
}

func (m *fakeMemory) Read(off, length uint32) ([]byte, error) {
	if int(off)+int(length) > len(m.data) {
		return nil, errors.OutOfBounds(errors.PhaseHeap, off, length, uint32(len(m.data)))
	}
	out := make([]byte, length)
	copy(out, m.data[off:])
	return out, nil
}

func (m *fakeMemory) Write(off uint32, b []byte) error {
	if int(off)+len(b) > len(m.data) {
		return errors.OutOfBounds(errors.PhaseHeap, off, uint32(len(b)), uint32(len(m.data)))
	}
	copy(m.data[off:], b)
	return nil
}

func (m *fakeMemory) ReadU32(off uint32) (uint32, error) {
	b, err := m.Read(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (m *fakeMemory) ReadU64(off uint32) (uint64, error) {
	b, err := m.Read(off, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (m *fakeMemory) WriteU32(off uint32, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return m.Write(off, b[:])
}

func (m *fakeMemory) WriteU64(off uint32, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return m.Write(off, b[:])
}

func (m *fakeMemory) Alloc(size, align uint32) (uint32, error) {
	off := (m.brk + align - 1) &^ (align - 1)
	if int(off)+int(size) > len(m.data) {
		return 0, errors.AllocationFailed(size, align)
	}
	m.brk = off + size
	return off, nil
}

func mustContract(t *testing.T) *Contract {
	t.Helper()
	c, err := ForBuild("115.0.0")
	if err != nil {
		t.Fatalf("ForBuild: %v", err)
	}
	return c
}

func TestForBuild(t *testing.T) {
	tests := []struct {
		build  string
		wantOK bool
	}{
		{"102.0.0", true},
		{"115.0.0", true},
		{"128.9.1", true},
		{"129.0.0", false},
		{"101.0.0", false},
		{"not-a-version", false},
	}

	for _, tc := range tests {
		t.Run(tc.build, func(t *testing.T) {
			c, err := ForBuild(tc.build)
			if tc.wantOK {
				if err != nil {
					t.Fatalf("ForBuild(%q) = %v", tc.build, err)
				}
				if c.Build() != tc.build {
					t.Errorf("Build() = %q, want %q", c.Build(), tc.build)
				}
			} else if err == nil {
				t.Fatalf("ForBuild(%q) should fail", tc.build)
			}
		})
	}
}

func TestContract_InlineCell(t *testing.T) {
	c := mustContract(t)
	mem := newFakeMemory(1 << 12)

	cell, err := mem.Alloc(c.CellSize(), 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if err := c.WriteHeader(mem, cell, false, 1); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := c.WriteInlineDigit(mem, cell, 0xDEADBEEFCAFE); err != nil {
		t.Fatalf("WriteInlineDigit: %v", err)
	}

	neg, err := c.ReadSign(mem, cell)
	if err != nil || neg {
		t.Fatalf("ReadSign = %v, %v; want false, nil", neg, err)
	}
	count, err := c.ReadDigitCount(mem, cell)
	if err != nil || count != 1 {
		t.Fatalf("ReadDigitCount = %d, %v; want 1, nil", count, err)
	}
	digits, err := c.ReadDigits(mem, cell, count)
	if err != nil {
		t.Fatalf("ReadDigits: %v", err)
	}
	if got := binary.LittleEndian.Uint64(digits); got != 0xDEADBEEFCAFE {
		t.Errorf("digit = %#x, want %#x", got, uint64(0xDEADBEEFCAFE))
	}
}

func TestContract_HeapCell(t *testing.T) {
	c := mustContract(t)
	mem := newFakeMemory(1 << 12)

	cell, _ := mem.Alloc(c.CellSize(), 8)
	if err := c.WriteHeader(mem, cell, true, 3); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	stored := make([]byte, 3*DigitBytes)
	binary.LittleEndian.PutUint64(stored[0:], 1)
	binary.LittleEndian.PutUint64(stored[8:], 2)
	binary.LittleEndian.PutUint64(stored[16:], 3)
	if err := c.WriteHeapDigits(mem, mem, cell, stored); err != nil {
		t.Fatalf("WriteHeapDigits: %v", err)
	}

	neg, err := c.ReadSign(mem, cell)
	if err != nil || !neg {
		t.Fatalf("ReadSign = %v, %v; want true, nil", neg, err)
	}
	digits, err := c.ReadDigits(mem, cell, 3)
	if err != nil {
		t.Fatalf("ReadDigits: %v", err)
	}
	for i, want := range []uint64{1, 2, 3} {
		if got := binary.LittleEndian.Uint64(digits[i*8:]); got != want {
			t.Errorf("digit[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestContract_WriteSignBit(t *testing.T) {
	c := mustContract(t)
	mem := newFakeMemory(1 << 10)

	cell, _ := mem.Alloc(c.CellSize(), 8)
	if err := c.WriteHeader(mem, cell, false, 1); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := c.WriteInlineDigit(mem, cell, 7); err != nil {
		t.Fatalf("WriteInlineDigit: %v", err)
	}

	if err := c.WriteSignBit(mem, cell); err != nil {
		t.Fatalf("WriteSignBit: %v", err)
	}
	neg, err := c.ReadSign(mem, cell)
	if err != nil || !neg {
		t.Fatalf("sign after WriteSignBit = %v, %v; want true, nil", neg, err)
	}

	// The digit and count fields must be untouched.
	count, _ := c.ReadDigitCount(mem, cell)
	if count != 1 {
		t.Errorf("digit count changed to %d", count)
	}
	digits, _ := c.ReadDigits(mem, cell, 1)
	if got := binary.LittleEndian.Uint64(digits); got != 7 {
		t.Errorf("digit changed to %d", got)
	}
}

func TestContract_ZeroDigits(t *testing.T) {
	c := mustContract(t)
	mem := newFakeMemory(1 << 10)

	cell, _ := mem.Alloc(c.CellSize(), 8)
	if err := c.WriteHeader(mem, cell, false, 0); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	digits, err := c.ReadDigits(mem, cell, 0)
	if err != nil {
		t.Fatalf("ReadDigits: %v", err)
	}
	if digits != nil {
		t.Errorf("zero-digit cell returned %v", digits)
	}
}

func TestContract_MisalignedHeapDigits(t *testing.T) {
	c := mustContract(t)
	mem := newFakeMemory(1 << 10)

	cell, _ := mem.Alloc(c.CellSize(), 8)
	err := c.WriteHeapDigits(mem, mem, cell, make([]byte, 12))
	if !errors.IsKind(err, errors.KindBadValue) {
		t.Fatalf("WriteHeapDigits with 12 bytes = %v, want bad_value", err)
	}
}
