package layout

import (
	"encoding/binary"

	"github.com/coreos/go-semver/semver"

	bridge "github.com/helixlang/bridge"
	"github.com/helixlang/bridge/errors"
)

// Digit geometry shared by every supported engine build. The engine stores
// one digit per native word; only 64-bit builds exist.
const (
	DigitBits  = 64
	DigitBytes = DigitBits / 8
)

// Contract gives the codec access to one engine build family's cell layout.
type Contract struct {
	build          semver.Version
	cellHeaderLen  uint32
	signBitMask    uint32
	digitCountOff  uint32
	inlineDigitMax uint32
}

// versions is the table of validated build ranges. Each entry is revalidated
// against the engine's private headers whenever the engine is upgraded.
var versions = []struct {
	min, max string // [min, max)
	contract Contract
}{
	{
		min: "102.0.0",
		max: "129.0.0",
		contract: Contract{
			cellHeaderLen:  8,
			signBitMask:    1 << 3,
			digitCountOff:  4,
			inlineDigitMax: 1,
		},
	},
}

// hostIsLittleEndian reports the byte order the process runs under.
func hostIsLittleEndian() bool {
	return binary.NativeEndian.Uint16([]byte{0x01, 0x00}) == 1
}

// ForBuild selects the contract covering the given engine build version.
// Big-endian hosts are rejected here, before any digit bytes can be
// misread.
func ForBuild(build string) (*Contract, error) {
	if !hostIsLittleEndian() {
		return nil, errors.ArchUnsupported()
	}

	v, err := semver.NewVersion(build)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLayout, errors.KindLayoutVersion, err, "parse engine build version")
	}

	for _, entry := range versions {
		minV := semver.New(entry.min)
		maxV := semver.New(entry.max)
		if !v.LessThan(*minV) && v.LessThan(*maxV) {
			c := entry.contract
			c.build = *v
			return &c, nil
		}
	}
	return nil, errors.LayoutVersion(build)
}

// Build returns the engine build version this contract was selected for.
func (c *Contract) Build() string {
	return c.build.String()
}

// CellSize returns the allocation size of a big-integer cell: the header
// plus one inline digit slot.
func (c *Contract) CellSize() uint32 {
	return c.cellHeaderLen + DigitBytes
}

// ReadSign reports whether the cell's sign bit is set.
func (c *Contract) ReadSign(mem bridge.Memory, cell uint32) (bool, error) {
	flags, err := mem.ReadU32(cell)
	if err != nil {
		return false, err
	}
	return flags&c.signBitMask != 0, nil
}

// ReadDigitCount returns the number of stored digits. Zero means the value
// is the canonical zero.
func (c *Contract) ReadDigitCount(mem bridge.Memory, cell uint32) (uint32, error) {
	return mem.ReadU32(cell + c.digitCountOff)
}

// ReadDigits returns the digit storage as a flat little-endian byte
// sequence, least-significant digit first. When the count exceeds the
// inline threshold the header field holds the address of an out-of-line
// array instead of a digit.
func (c *Contract) ReadDigits(mem bridge.Memory, cell uint32, count uint32) ([]byte, error) {
	if count == 0 {
		return nil, nil
	}
	at := cell + c.cellHeaderLen
	if count > c.inlineDigitMax {
		ptr, err := mem.ReadU64(at)
		if err != nil {
			return nil, err
		}
		at = uint32(ptr)
	}
	return mem.Read(at, count*DigitBytes)
}

// WriteSignBit sets the cell's sign bit. The engine has no public negate
// operation, so this is the only way to mark a constructed value negative.
func (c *Contract) WriteSignBit(mem bridge.Memory, cell uint32) error {
	flags, err := mem.ReadU32(cell)
	if err != nil {
		return err
	}
	return mem.WriteU32(cell, flags|c.signBitMask)
}

// Engine-side accessors. The engine itself builds cells through the same
// contract so that the offsets live in exactly one place.

// WriteHeader writes the flags and digit-count fields of a fresh cell.
func (c *Contract) WriteHeader(mem bridge.Memory, cell uint32, negative bool, count uint32) error {
	var flags uint32
	if negative {
		flags |= c.signBitMask
	}
	if err := mem.WriteU32(cell, flags); err != nil {
		return err
	}
	return mem.WriteU32(cell+c.digitCountOff, count)
}

// WriteInlineDigit stores a single digit in the cell's inline slot.
func (c *Contract) WriteInlineDigit(mem bridge.Memory, cell uint32, digit uint64) error {
	return mem.WriteU64(cell+c.cellHeaderLen, digit)
}

// WriteHeapDigits allocates an out-of-line digit array, fills it, and
// points the cell's storage field at it. digits is a little-endian byte
// sequence whose length must be a whole number of digits.
func (c *Contract) WriteHeapDigits(mem bridge.Memory, alloc bridge.Allocator, cell uint32, digits []byte) error {
	if len(digits)%DigitBytes != 0 {
		return errors.BadValue(errors.PhaseLayout, "digit storage of %d bytes is not digit-aligned", len(digits))
	}
	ptr, err := alloc.Alloc(uint32(len(digits)), DigitBytes)
	if err != nil {
		return err
	}
	if err := mem.Write(ptr, digits); err != nil {
		return err
	}
	return mem.WriteU64(cell+c.cellHeaderLen, uint64(ptr))
}

// InlineDigitMax returns the largest digit count stored inline.
func (c *Contract) InlineDigitMax() uint32 {
	return c.inlineDigitMax
}
