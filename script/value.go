package script

// Kind is the runtime tag of a dynamic value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindSymbol
	KindBigInt
	KindObject
	KindMagic
)

var kindNames = [...]string{
	KindUndefined: "undefined",
	KindNull:      "null",
	KindBoolean:   "boolean",
	KindNumber:    "number",
	KindString:    "string",
	KindSymbol:    "symbol",
	KindBigInt:    "bigint",
	KindObject:    "object",
	KindMagic:     "magic",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a tagged dynamic value. The zero Value is undefined.
type Value struct {
	obj  *Object
	str  string
	num  float64
	cell uint32
	b    bool
	kind Kind
}

func Undefined() Value { return Value{kind: KindUndefined} }
func Null() Value      { return Value{kind: KindNull} }

func Boolean(b bool) Value   { return Value{kind: KindBoolean, b: b} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func String(s string) Value  { return Value{kind: KindString, str: s} }

// Symbol creates a new symbol with the given description. Symbols have no
// analog on the managed side.
func Symbol(desc string) Value { return Value{kind: KindSymbol, str: desc} }

// Magic creates an internal engine value. It never escapes the engine in a
// well-behaved program; the dispatcher refuses it with a diagnostic.
func Magic() Value { return Value{kind: KindMagic} }

func ObjectValue(o *Object) Value { return Value{kind: KindObject, obj: o} }

func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload. Only meaningful for KindBoolean.
func (v Value) Bool() bool { return v.b }

// Number returns the float64 payload. Only meaningful for KindNumber.
func (v Value) Number() float64 { return v.num }

// Str returns the string payload. Only meaningful for KindString.
func (v Value) Str() string { return v.str }

// Description returns a symbol's description.
func (v Value) Description() string { return v.str }

// Object returns the object payload, or nil for non-objects.
func (v Value) Object() *Object { return v.obj }

// Cell returns the heap address of a big integer's cell. The address is
// only meaningful to the layout contract of the owning Context.
func (v Value) Cell() uint32 { return v.cell }

func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsObject() bool    { return v.kind == KindObject }
func (v Value) IsBigInt() bool    { return v.kind == KindBigInt }
