package managed

// NoneObject is the managed none sentinel, mirroring undefined.
type NoneObject struct{ Base }

func (*NoneObject) Type() Type { return TypeNone }

// NullObject is the managed null sentinel, mirroring null. Distinct from
// None.
type NullObject struct{ Base }

func (*NullObject) Type() Type { return TypeNull }

var (
	None = &NoneObject{Base: newImmortalBase()}
	Null = &NullObject{Base: newImmortalBase()}
)

// Bool is the managed boolean. True and False are the only instances.
type Bool struct {
	Base
	V bool
}

func (*Bool) Type() Type { return TypeBool }

var (
	True  = &Bool{Base: newImmortalBase(), V: true}
	False = &Bool{Base: newImmortalBase(), V: false}
)

// NewBool returns the shared True or False singleton.
func NewBool(v bool) *Bool {
	if v {
		return True
	}
	return False
}

// Float is the managed IEEE double.
type Float struct {
	Base
	V float64
}

func (*Float) Type() Type { return TypeFloat }

func NewFloat(v float64) *Float {
	return &Float{Base: NewBase(), V: v}
}

// Str is the managed string.
type Str struct {
	Base
	V string
}

func (*Str) Type() Type { return TypeStr }

func NewStr(v string) *Str {
	return &Str{Base: NewBase(), V: v}
}

// Bytes is the managed byte buffer.
type Bytes struct {
	Base
	Data []byte
}

func (*Bytes) Type() Type { return TypeBytes }

func NewBytes(data []byte) *Bytes {
	b := make([]byte, len(data))
	copy(b, data)
	return &Bytes{Base: NewBase(), Data: b}
}

// Dict is the managed string-keyed mapping. It preserves insertion order
// and owns a reference to every value.
type Dict struct {
	Base
	keys []string
	m    map[string]Object
}

func (*Dict) Type() Type { return TypeDict }

func NewDict() *Dict {
	return &Dict{Base: NewBase(), m: map[string]Object{}}
}

// SetItem stores a value under key, acquiring a reference to it and
// releasing any previous value.
func (d *Dict) SetItem(key string, v Object) {
	if old, ok := d.m[key]; ok {
		Incref(v)
		d.m[key] = v
		Decref(old)
		return
	}
	Incref(v)
	d.keys = append(d.keys, key)
	d.m[key] = v
}

func (d *Dict) GetItem(key string) (Object, bool) {
	v, ok := d.m[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

func (d *Dict) Len() int { return len(d.keys) }

func (d *Dict) Drop() {
	for _, k := range d.keys {
		Decref(d.m[k])
	}
	d.keys = nil
	d.m = nil
}

// List is the managed mutable sequence. It owns a reference to every
// element.
type List struct {
	Base
	items []Object
}

func (*List) Type() Type { return TypeList }

func NewList() *List {
	return &List{Base: NewBase()}
}

func (l *List) Append(v Object) {
	Incref(v)
	l.items = append(l.items, v)
}

func (l *List) Get(i int) Object { return l.items[i] }
func (l *List) Len() int         { return len(l.items) }

func (l *List) Drop() {
	for _, it := range l.items {
		Decref(it)
	}
	l.items = nil
}

// Tuple is the managed fixed-size sequence. It owns a reference to every
// element.
type Tuple struct {
	Base
	items []Object
}

func (*Tuple) Type() Type { return TypeTuple }

func NewTuple(items ...Object) *Tuple {
	t := &Tuple{Base: NewBase(), items: make([]Object, len(items))}
	for i, it := range items {
		Incref(it)
		t.items[i] = it
	}
	return t
}

func (t *Tuple) Get(i int) Object { return t.items[i] }
func (t *Tuple) Len() int         { return len(t.items) }

func (t *Tuple) Drop() {
	for _, it := range t.items {
		Decref(it)
	}
	t.items = nil
}

// Func is the managed callable.
type Func struct {
	Base
	Name string
	Call func(args []Object) (Object, error)
}

func (*Func) Type() Type { return TypeFunc }

func NewFunc(name string, call func(args []Object) (Object, error)) *Func {
	return &Func{Base: NewBase(), Name: name, Call: call}
}

// Wrapped is the catch-all for native values carried into the managed
// space without a dedicated type.
type Wrapped struct {
	Base
	Kind   string
	Native any
}

func (*Wrapped) Type() Type { return TypeWrapped }

func NewWrapped(kind string, native any) *Wrapped {
	return &Wrapped{Base: NewBase(), Kind: kind, Native: native}
}
