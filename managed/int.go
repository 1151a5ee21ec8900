package managed

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Int digit geometry. Digits are 30 bits wide in 32-bit words,
// least-significant first.
const (
	DigitBits = 30
	digitMask = 1<<DigitBits - 1
)

// Int is the managed arbitrary-precision integer. The sign lives in the
// signed digit-count field: Size() is negative for negative values. The
// magnitude digits themselves are always non-negative.
type Int struct {
	Base
	digits  []uint32
	size    int
	foreign bool
}

func (*Int) Type() Type { return TypeInt }

// Small-value cache, one shared immortal object per value in [-5, 256].
const (
	smallMin = -5
	smallMax = 256
)

var smallInts [smallMax - smallMin + 1]*Int

func init() {
	for v := smallMin; v <= smallMax; v++ {
		mag := uint64(v)
		neg := v < 0
		if neg {
			mag = uint64(-v)
		}
		d := digits30(mag)
		size := len(d)
		if neg {
			size = -size
		}
		smallInts[v-smallMin] = &Int{Base: newImmortalBase(), digits: d, size: size}
	}
}

func digits30(mag uint64) []uint32 {
	var d []uint32
	for mag > 0 {
		d = append(d, uint32(mag&digitMask))
		mag >>= DigitBits
	}
	return d
}

// NewInt constructs an integer. Values in [-5, 256] come from the shared
// small-value cache.
func NewInt(v int64) *Int {
	if v >= smallMin && v <= smallMax {
		return smallInts[v-smallMin]
	}
	neg := v < 0
	mag := uint64(v)
	if neg {
		mag = -mag
	}
	d := digits30(mag)
	size := len(d)
	if neg {
		size = -size
	}
	return &Int{Base: NewBase(), digits: d, size: size}
}

// NewZero constructs a fresh zero, deliberately bypassing the small-value
// cache so the result never aliases a shared object.
func NewZero() *Int {
	return &Int{Base: NewBase()}
}

// IntFromLEBytes constructs a non-negative integer from an unsigned
// little-endian byte sequence. The result is always a fresh object.
func IntFromLEBytes(b []byte) *Int {
	var (
		digits []uint32
		acc    uint64
		nbits  uint
	)
	for _, by := range b {
		acc |= uint64(by) << nbits
		nbits += 8
		if nbits >= DigitBits {
			digits = append(digits, uint32(acc&digitMask))
			acc >>= DigitBits
			nbits -= DigitBits
		}
	}
	if acc != 0 {
		digits = append(digits, uint32(acc))
	}
	for len(digits) > 0 && digits[len(digits)-1] == 0 {
		digits = digits[:len(digits)-1]
	}
	return &Int{Base: NewBase(), digits: digits, size: len(digits)}
}

// ParseInt parses a decimal integer with an optional sign.
func ParseInt(s string) (*Int, error) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return nil, fmt.Errorf("managed: empty integer literal")
	}
	var digits []uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("managed: invalid decimal digit %q", c)
		}
		digits = mulAdd30(digits, 10, uint32(c-'0'))
	}
	size := len(digits)
	if neg {
		size = -size
	}
	return &Int{Base: NewBase(), digits: digits, size: size}, nil
}

func mulAdd30(digits []uint32, m, a uint32) []uint32 {
	carry := uint64(a)
	for i, d := range digits {
		t := uint64(d)*uint64(m) + carry
		digits[i] = uint32(t & digitMask)
		carry = t >> DigitBits
	}
	for carry > 0 {
		digits = append(digits, uint32(carry&digitMask))
		carry >>= DigitBits
	}
	return digits
}

// Size returns the signed digit count. Negative values have a negative
// size; zero has size 0.
func (n *Int) Size() int { return n.size }

// SetSize overwrites the signed digit-count field. This is the mutation
// conversion code uses to strip and restore the sign; it is not safe
// against concurrent use of the same value.
func (n *Int) SetSize(s int) { n.size = s }

// Sign returns -1, 0, or 1.
func (n *Int) Sign() int {
	switch {
	case n.size < 0:
		return -1
	case n.size > 0:
		return 1
	default:
		return 0
	}
}

// MarkForeign tags the value as having come from the source engine. The
// tag changes no numeric behavior.
func (n *Int) MarkForeign() { n.foreign = true }

// IsForeign reports the source-engine tag.
func (n *Int) IsForeign() bool { return n.foreign }

// BitLen measures the magnitude's bit length, 0 for zero. It fails when
// the value's representation is corrupt, for example after a SetSize that
// no longer matches the stored digits.
func (n *Int) BitLen() (uint64, error) {
	size := n.size
	if size < 0 {
		size = -size
	}
	if size == 0 {
		if len(n.digits) != 0 {
			return 0, fmt.Errorf("managed: zero-sized int holds %d digits", len(n.digits))
		}
		return 0, nil
	}
	if size != len(n.digits) {
		return 0, fmt.Errorf("managed: sign-count %d does not match %d stored digits", n.size, len(n.digits))
	}
	top := n.digits[size-1]
	if top == 0 || top > digitMask {
		return 0, fmt.Errorf("managed: top digit %#x out of range", top)
	}
	return uint64(size-1)*DigitBits + uint64(bits.Len32(top)), nil
}

// AsUint64 extracts a magnitude fitting one unsigned native word. The
// value must be non-negative.
func (n *Int) AsUint64() (uint64, error) {
	if n.size < 0 {
		return 0, fmt.Errorf("managed: cannot extract a negative value as uint64")
	}
	bitLen, err := n.BitLen()
	if err != nil {
		return 0, err
	}
	if bitLen > 64 {
		return 0, fmt.Errorf("managed: %d-bit magnitude does not fit in 64 bits", bitLen)
	}
	var v uint64
	for i := len(n.digits) - 1; i >= 0; i-- {
		v = v<<DigitBits | uint64(n.digits[i])
	}
	return v, nil
}

// AsBEBytes serializes the magnitude as exactly count big-endian bytes.
// The value must be non-negative; callers strip the sign first.
func (n *Int) AsBEBytes(count int) ([]byte, error) {
	if n.size < 0 {
		return nil, fmt.Errorf("managed: cannot serialize a negative value")
	}
	buf := make([]byte, count)
	idx := 0
	emit := func(b byte) error {
		if idx < count {
			buf[idx] = b
		} else if b != 0 {
			return fmt.Errorf("managed: magnitude needs more than %d bytes", count)
		}
		idx++
		return nil
	}

	var acc uint64
	var nbits uint
	for _, d := range n.digits {
		acc |= uint64(d) << nbits
		nbits += DigitBits
		for nbits >= 8 {
			if err := emit(byte(acc)); err != nil {
				return nil, err
			}
			acc >>= 8
			nbits -= 8
		}
	}
	for nbits > 0 {
		if err := emit(byte(acc)); err != nil {
			return nil, err
		}
		acc >>= 8
		if nbits >= 8 {
			nbits -= 8
		} else {
			nbits = 0
		}
	}

	for i, j := 0, count-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf, nil
}

// Cmp compares two integers, returning -1, 0, or 1.
func (n *Int) Cmp(o *Int) int {
	switch {
	case n.Sign() != o.Sign():
		if n.Sign() < o.Sign() {
			return -1
		}
		return 1
	case n.Sign() == 0:
		return 0
	}
	// Same nonzero sign: compare magnitudes.
	mag := compareMagnitude(n.digits, o.digits)
	if n.Sign() < 0 {
		return -mag
	}
	return mag
}

func compareMagnitude(a, b []uint32) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// String renders the value in decimal.
func (n *Int) String() string {
	if n.size == 0 {
		return "0"
	}
	const chunk = 1_000_000_000 // 10^9, fits one digit
	digits := append([]uint32(nil), n.digits...)

	var parts []string
	for len(digits) > 0 {
		var rem uint64
		for i := len(digits) - 1; i >= 0; i-- {
			cur := rem<<DigitBits | uint64(digits[i])
			digits[i] = uint32(cur / chunk)
			rem = cur % chunk
		}
		for len(digits) > 0 && digits[len(digits)-1] == 0 {
			digits = digits[:len(digits)-1]
		}
		s := strconv.FormatUint(rem, 10)
		if len(digits) > 0 {
			s = strings.Repeat("0", 9-len(s)) + s
		}
		parts = append(parts, s)
	}

	var b strings.Builder
	if n.size < 0 {
		b.WriteByte('-')
	}
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
	}
	return b.String()
}
