package script

import (
	"encoding/binary"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/helixlang/bridge/errors"
	"github.com/helixlang/bridge/internal/layout"
)

// newBigInt builds a cell from a sign and 64-bit magnitude digits,
// least-significant first. The representation is canonicalized: high zero
// digits are stripped and zero is non-negative with no digits.
func (cx *Context) newBigInt(negative bool, digits []uint64) (Value, error) {
	for len(digits) > 0 && digits[len(digits)-1] == 0 {
		digits = digits[:len(digits)-1]
	}
	if len(digits) == 0 {
		negative = false
	}

	lay := cx.layout
	cell, err := cx.arena.Alloc(lay.CellSize(), layout.DigitBytes)
	if err != nil {
		return Value{}, err
	}
	count := uint32(len(digits))
	if err := lay.WriteHeader(cx.arena, cell, negative, count); err != nil {
		return Value{}, err
	}

	if count <= lay.InlineDigitMax() {
		var d uint64
		if count == 1 {
			d = digits[0]
		}
		if err := lay.WriteInlineDigit(cx.arena, cell, d); err != nil {
			return Value{}, err
		}
	} else {
		buf := make([]byte, count*layout.DigitBytes)
		for i, d := range digits {
			binary.LittleEndian.PutUint64(buf[i*layout.DigitBytes:], d)
		}
		if err := lay.WriteHeapDigits(cx.arena, cx.arena, cell, buf); err != nil {
			return Value{}, err
		}
	}
	return Value{kind: KindBigInt, cell: cell}, nil
}

// BigIntFromUint64 constructs a big integer from an unsigned native word.
// This and SimpleStringToBigInt are the engine's only public construction
// APIs.
func (cx *Context) BigIntFromUint64(v uint64) (Value, error) {
	if v == 0 {
		return cx.newBigInt(false, nil)
	}
	return cx.newBigInt(false, []uint64{v})
}

// SimpleStringToBigInt parses an unsigned digit string in the given radix
// (2 to 36). The span is consumed exactly as given: a stray terminator
// byte is an invalid digit, not ignored.
func (cx *Context) SimpleStringToBigInt(chars []byte, radix int) (Value, error) {
	if radix < 2 || radix > 36 {
		return Value{}, errors.InvalidRadix("radix %d out of range [2, 36]", radix)
	}
	if len(chars) == 0 {
		return Value{}, errors.InvalidRadix("empty digit string")
	}

	var digits []uint64
	for _, ch := range chars {
		d := digitVal(ch)
		if d < 0 || d >= radix {
			return Value{}, errors.InvalidRadix("invalid character %q for radix %d", ch, radix)
		}
		digits = mulAddSmall(digits, uint64(radix), uint64(d))
	}
	return cx.newBigInt(false, digits)
}

// BigIntIsNegative reports the sign of a big integer.
func (cx *Context) BigIntIsNegative(v Value) bool {
	if v.Kind() != KindBigInt {
		return false
	}
	neg, err := cx.layout.ReadSign(cx.arena, v.Cell())
	if err != nil {
		return false
	}
	return neg
}

// BigIntToString renders a big integer in the given radix (2 to 36).
func (cx *Context) BigIntToString(v Value, radix int) (string, error) {
	if v.Kind() != KindBigInt {
		return "", errors.BadValue(errors.PhaseEngine, "value of kind %s is not a bigint", v.Kind())
	}
	if radix < 2 || radix > 36 {
		return "", errors.InvalidRadix("radix %d out of range [2, 36]", radix)
	}

	neg, digits, err := cx.bigIntDigits(v)
	if err != nil {
		return "", err
	}
	if len(digits) == 0 {
		return "0", nil
	}

	// Chop off the largest radix power fitting a word at a time.
	chop := uint64(radix)
	perChop := 1
	for chop <= math.MaxUint64/uint64(radix) {
		chop *= uint64(radix)
		perChop++
	}

	var chunks []string
	for len(digits) > 0 {
		var rem uint64
		digits, rem = divModSmall(digits, chop)
		s := strconv.FormatUint(rem, radix)
		if len(digits) > 0 {
			s = strings.Repeat("0", perChop-len(s)) + s
		}
		chunks = append(chunks, s)
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := len(chunks) - 1; i >= 0; i-- {
		b.WriteString(chunks[i])
	}
	return b.String(), nil
}

// bigIntDigits reads a big integer's sign and digit words through the
// layout contract.
func (cx *Context) bigIntDigits(v Value) (bool, []uint64, error) {
	lay := cx.layout
	neg, err := lay.ReadSign(cx.arena, v.Cell())
	if err != nil {
		return false, nil, err
	}
	count, err := lay.ReadDigitCount(cx.arena, v.Cell())
	if err != nil {
		return false, nil, err
	}
	raw, err := lay.ReadDigits(cx.arena, v.Cell(), count)
	if err != nil {
		return false, nil, err
	}
	digits := make([]uint64, count)
	for i := range digits {
		digits[i] = binary.LittleEndian.Uint64(raw[i*layout.DigitBytes:])
	}
	return neg, digits, nil
}

// mulAddSmall computes digits*m + a in place, least-significant first.
func mulAddSmall(digits []uint64, m, a uint64) []uint64 {
	carry := a
	for i, d := range digits {
		hi, lo := bits.Mul64(d, m)
		lo, c := bits.Add64(lo, carry, 0)
		digits[i] = lo
		carry = hi + c
	}
	if carry != 0 {
		digits = append(digits, carry)
	}
	return digits
}

// divModSmall divides digits by base in place and returns the remainder.
func divModSmall(digits []uint64, base uint64) ([]uint64, uint64) {
	var rem uint64
	for i := len(digits) - 1; i >= 0; i-- {
		digits[i], rem = bits.Div64(rem, digits[i], base)
	}
	for len(digits) > 0 && digits[len(digits)-1] == 0 {
		digits = digits[:len(digits)-1]
	}
	return digits, rem
}

func digitVal(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		return int(ch-'A') + 10
	default:
		return -1
	}
}
