package transcode

import (
	"context"
	"math/big"
	"testing"

	"github.com/helixlang/bridge/errors"
	"github.com/helixlang/bridge/managed"
	"github.com/helixlang/bridge/script"
)

func newTranscoder(t *testing.T) *Transcoder {
	t.Helper()
	cx, err := script.NewContext(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	t.Cleanup(func() {
		if err := cx.Close(context.Background()); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return New(cx)
}

func mustParse(t *testing.T, s string) *managed.Int {
	t.Helper()
	n, err := managed.ParseInt(s)
	if err != nil {
		t.Fatalf("ParseInt(%q): %v", s, err)
	}
	return n
}

func TestBigIntRoundTrip(t *testing.T) {
	big300 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 300), big.NewInt(12345))

	tests := []string{
		"0",
		"1",
		"-1",
		"256",
		"9223372036854775807",                      // 2^63-1, single engine digit
		"-9223372036854775808",                     // -2^63
		"9223372036854775808",                      // 2^63, still one digit
		"18446744073709551615",                     // 2^64-1, largest single digit
		"18446744073709551616",                     // 2^64, first two-digit value
		"-1267650600228229401496703205376",         // -2^100
		"340282366920938463463374607431768211455",  // 2^128-1
		big300.String(),
		new(big.Int).Neg(big300).String(),
	}

	tc := newTranscoder(t)
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			n := mustParse(t, s)
			v, err := tc.BigIntToScript(n)
			if err != nil {
				t.Fatalf("BigIntToScript: %v", err)
			}
			if got, err := tc.Context().BigIntToString(v, 10); err != nil || got != s {
				t.Errorf("engine rendering = %q (%v), want %q", got, err, s)
			}

			back, err := tc.BigIntFromScript(v)
			if err != nil {
				t.Fatalf("BigIntFromScript: %v", err)
			}
			if got := back.String(); got != s {
				t.Errorf("round trip = %q, want %q", got, s)
			}
			if !back.IsForeign() {
				t.Error("round-tripped value not tagged foreign")
			}
			if back == n {
				t.Error("round trip aliases the source object")
			}
			managed.Decref(n)
			managed.Decref(back)
		})
	}
}

func TestBigIntToScriptPreservesSource(t *testing.T) {
	tc := newTranscoder(t)
	const s = "-1267650600228229401496703205376"
	n := mustParse(t, s)
	size := n.Size()

	if _, err := tc.BigIntToScript(n); err != nil {
		t.Fatalf("BigIntToScript: %v", err)
	}
	if n.Size() != size {
		t.Errorf("sign-count mutated: %d, want %d", n.Size(), size)
	}
	if got := n.String(); got != s {
		t.Errorf("source value mutated: %q", got)
	}
	managed.Decref(n)
}

func TestBigIntZeroNeverCached(t *testing.T) {
	tc := newTranscoder(t)
	v, err := tc.BigIntToScript(managed.NewInt(0))
	if err != nil {
		t.Fatal(err)
	}
	a, err := tc.BigIntFromScript(v)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tc.BigIntFromScript(v)
	if err != nil {
		t.Fatal(err)
	}
	if a.Sign() != 0 || b.Sign() != 0 {
		t.Fatal("zero did not survive the round trip")
	}
	if a == b || a == managed.NewInt(0) {
		t.Error("foreign zero aliases a shared object")
	}
	managed.Decref(a)
	managed.Decref(b)
}

func TestBigIntSignBit(t *testing.T) {
	tc := newTranscoder(t)
	tests := []struct {
		in  string
		neg bool
	}{
		{"-5", true},
		{"5", false},
		{"-18446744073709551616", true},
		{"0", false},
	}
	for _, tt := range tests {
		n := mustParse(t, tt.in)
		v, err := tc.BigIntToScript(n)
		if err != nil {
			t.Fatalf("BigIntToScript(%s): %v", tt.in, err)
		}
		if got := tc.Context().BigIntIsNegative(v); got != tt.neg {
			t.Errorf("BigIntIsNegative(%s) = %v, want %v", tt.in, got, tt.neg)
		}
		managed.Decref(n)
	}
}

func TestMeasurementFailurePropagates(t *testing.T) {
	tc := newTranscoder(t)
	n := mustParse(t, "18446744073709551616")
	n.SetSize(1) // corrupt: no longer matches the stored digits

	_, err := tc.BigIntToScript(n)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsKind(err, errors.KindMeasurement) {
		t.Errorf("kind = %v, want measurement", err)
	}
}

func TestBigIntFromScriptRejectsNonBigInt(t *testing.T) {
	tc := newTranscoder(t)
	if _, err := tc.BigIntFromScript(script.Number(4.5)); err == nil {
		t.Error("expected error for non-bigint value")
	}
}

func TestBigIntHexAgainstReference(t *testing.T) {
	// The wide path serializes through a hex digit string; check the engine
	// ends up with exactly the value the reference implementation computes.
	tc := newTranscoder(t)
	ref, ok := new(big.Int).SetString("123456789abcdef0123456789abcdef0123456789", 16)
	if !ok {
		t.Fatal("reference parse failed")
	}

	n := mustParse(t, ref.String())
	v, err := tc.BigIntToScript(n)
	if err != nil {
		t.Fatal(err)
	}
	got, err := tc.Context().BigIntToString(v, 16)
	if err != nil {
		t.Fatal(err)
	}
	if want := ref.Text(16); got != want {
		t.Errorf("hex rendering = %q, want %q", got, want)
	}
	managed.Decref(n)
}
