package transcode

import (
	"github.com/helixlang/bridge/errors"
	"github.com/helixlang/bridge/managed"
	"github.com/helixlang/bridge/script"
)

const hexDigits = "0123456789ABCDEF"

// BigIntToScript converts a managed integer to an engine big-integer value.
//
// The engine exposes no signed constructor, so the sign is stripped from the
// source's sign-count field for the duration of the conversion and restored
// before returning; a negative result then has its sign bit set directly
// through the layout contract. The source object is mutated transiently and
// must not be shared with concurrent readers.
func (t *Transcoder) BigIntToScript(n *managed.Int) (script.Value, error) {
	bitLen, err := n.BitLen()
	if err != nil {
		return script.Value{}, errors.Measurement(err)
	}
	// Engine digit count for this magnitude. Zero still occupies one digit
	// slot in the sizing arithmetic.
	digitCount := (bitLen + 63) / 64
	if digitCount == 0 {
		digitCount = 1
	}

	size := n.Size()
	neg := size < 0
	if neg {
		n.SetSize(-size)
	}

	var v script.Value
	if digitCount <= 1 {
		var u uint64
		u, err = n.AsUint64()
		if err == nil {
			v, err = t.cx.BigIntFromUint64(u)
		}
	} else {
		var be []byte
		be, err = n.AsBEBytes(int(digitCount) * 8)
		if err == nil {
			hex := make([]byte, 0, len(be)*2)
			for _, b := range be {
				hex = append(hex, hexDigits[b>>4], hexDigits[b&0xf])
			}
			v, err = t.cx.SimpleStringToBigInt(hex, 16)
		}
	}

	if neg {
		n.SetSize(size)
	}
	if err != nil {
		if _, ok := err.(*errors.Error); ok {
			return script.Value{}, err
		}
		return script.Value{}, errors.Wrap(errors.PhaseCodec, errors.KindOverflow, err, "serialize magnitude for the engine")
	}
	if neg {
		if err := t.cx.Layout().WriteSignBit(t.cx.Heap(), v.Cell()); err != nil {
			return script.Value{}, err
		}
	}
	return v, nil
}

// BigIntFromScript converts an engine big-integer value to a managed
// integer. The result is always a fresh object tagged as foreign; zero is
// never the shared cached zero.
func (t *Transcoder) BigIntFromScript(v script.Value) (*managed.Int, error) {
	if !v.IsBigInt() {
		return nil, errors.BadValue(errors.PhaseCodec, "value of kind %s is not a bigint", v.Kind())
	}

	lay := t.cx.Layout()
	heap := t.cx.Heap()
	cell := v.Cell()

	neg, err := lay.ReadSign(heap, cell)
	if err != nil {
		return nil, err
	}
	count, err := lay.ReadDigitCount(heap, cell)
	if err != nil {
		return nil, err
	}

	var n *managed.Int
	if count == 0 {
		n = managed.NewZero()
	} else {
		raw, err := lay.ReadDigits(heap, cell, count)
		if err != nil {
			return nil, err
		}
		n = managed.IntFromLEBytes(raw)
		if neg {
			n.SetSize(-n.Size())
		}
	}
	n.MarkForeign()
	return n, nil
}
