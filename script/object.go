package script

import (
	"github.com/helixlang/bridge/errors"
)

// Class is an object's built-in class as reported by the class probe.
type Class uint8

const (
	ClassPlain Class = iota
	ClassBoolean
	ClassNumber
	ClassString
	ClassBigInt
	ClassDate
	ClassPromise
	ClassError
	ClassFunction
	ClassBoundFunction
	ClassArray
	ClassArrayBuffer
)

var classNames = [...]string{
	ClassPlain:         "Object",
	ClassBoolean:       "Boolean",
	ClassNumber:        "Number",
	ClassString:        "String",
	ClassBigInt:        "BigInt",
	ClassDate:          "Date",
	ClassPromise:       "Promise",
	ClassError:         "Error",
	ClassFunction:      "Function",
	ClassBoundFunction: "BoundFunction",
	ClassArray:         "Array",
	ClassArrayBuffer:   "ArrayBuffer",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// PromiseState models the three promise states.
type PromiseState uint8

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// NativeHook identifies a native function implementation. Identity is by
// pointer: the dispatcher recognizes its own wrappers by comparing hooks.
type NativeHook struct {
	Name string
	Call func(cx *Context, fn *Object, this Value, args []Value) (Value, error)
}

// Function is the callable payload of a function object. Reserved slots
// carry private data for native functions, such as a wrapped callable from
// the other side of the boundary.
type Function struct {
	Hook     *NativeHook
	Name     string
	Reserved [2]any
	invoke   func(cx *Context, this Value, args []Value) (Value, error)
}

// ProxyFamily is a stable identity for one family of boundary proxies.
// Families are process-wide immutable configuration: created once at
// initialization and only ever compared by pointer.
type ProxyFamily struct {
	name string
}

func NewProxyFamily(name string) *ProxyFamily {
	return &ProxyFamily{name: name}
}

func (f *ProxyFamily) Name() string { return f.name }

// Proxy makes an object a transparent view over a value owned by the other
// side of the boundary. The private referent stays alive for the proxy's
// whole lifetime; the release hook breaks that hold when the proxy dies.
type Proxy struct {
	Family   *ProxyFamily
	Private  any
	release  func()
	released bool
}

// Released reports whether the proxy's hold on its referent is broken.
func (p *Proxy) Released() bool { return p.released }

// Release runs the proxy's release hook once.
func (p *Proxy) Release() {
	if p.released {
		return
	}
	p.released = true
	if p.release != nil {
		p.release()
	}
}

// Object is a script engine object.
type Object struct {
	class   Class
	keys    []string
	props   map[string]Value
	elems   []Value
	buf     []byte
	boxed   Value
	dateMS  int64
	pstate  PromiseState
	presult Value
	errmsg  string
	fn      *Function
	proxy   *Proxy
}

func NewPlainObject() *Object {
	return &Object{class: ClassPlain, props: map[string]Value{}}
}

func NewArray(elems ...Value) *Object {
	return &Object{class: ClassArray, elems: elems}
}

func NewArrayBuffer(data []byte) *Object {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Object{class: ClassArrayBuffer, buf: buf}
}

func NewDate(msec int64) *Object {
	return &Object{class: ClassDate, dateMS: msec}
}

func NewPromise(state PromiseState, result Value) *Object {
	return &Object{class: ClassPromise, pstate: state, presult: result}
}

func NewErrorObject(msg string) *Object {
	return &Object{class: ClassError, errmsg: msg}
}

// NewBox wraps a primitive in its box class. Only the four box classes are
// valid.
func NewBox(class Class, prim Value) (*Object, error) {
	switch class {
	case ClassBoolean, ClassNumber, ClassString, ClassBigInt:
		return &Object{class: class, boxed: prim}, nil
	default:
		return nil, errors.BadValue(errors.PhaseEngine, "class %s is not a box class", class)
	}
}

// NewProxy creates a boundary proxy of the given family. The release hook,
// if any, runs when Proxy.Release is called.
func NewProxy(family *ProxyFamily, private any, release func()) *Object {
	return &Object{
		class: ClassPlain,
		proxy: &Proxy{Family: family, Private: private, release: release},
	}
}

// NewScriptFunction creates an ordinary (non-native) function object.
func NewScriptFunction(name string, impl func(cx *Context, this Value, args []Value) (Value, error)) *Object {
	return &Object{class: ClassFunction, fn: &Function{Name: name, invoke: impl}}
}

// NewNativeFunction creates a function object backed by a native hook. The
// hook receives the function object itself so it can read reserved slots.
func NewNativeFunction(hook *NativeHook) *Object {
	o := &Object{class: ClassFunction, fn: &Function{Hook: hook, Name: hook.Name}}
	o.fn.invoke = func(cx *Context, this Value, args []Value) (Value, error) {
		return hook.Call(cx, o, this, args)
	}
	return o
}

// NewBoundFunction creates a bound function over target with a fixed this
// and leading arguments. Note the class probe does not report bound
// functions as Function.
func NewBoundFunction(target *Object, boundThis Value, bound []Value) (*Object, error) {
	if target == nil || target.fn == nil {
		return nil, errors.BadValue(errors.PhaseEngine, "bind target is not callable")
	}
	o := &Object{class: ClassBoundFunction, fn: &Function{Name: "bound " + target.fn.Name}}
	o.fn.invoke = func(cx *Context, _ Value, args []Value) (Value, error) {
		full := make([]Value, 0, len(bound)+len(args))
		full = append(full, bound...)
		full = append(full, args...)
		return target.fn.invoke(cx, boundThis, full)
	}
	return o, nil
}

// IsCallable reports whether the object can be invoked.
func (o *Object) IsCallable() bool { return o.fn != nil }

// FunctionName returns a callable's name, or "" for non-callables.
func (o *Object) FunctionName() string {
	if o.fn == nil {
		return ""
	}
	return o.fn.Name
}

// IsBoundFunction reports the bound-function case the class probe misses.
func IsBoundFunction(o *Object) bool { return o.class == ClassBoundFunction }

// IsNativeFunction reports whether o is a native function built on hook.
func IsNativeFunction(o *Object, hook *NativeHook) bool {
	return o != nil && o.fn != nil && o.fn.Hook == hook
}

// GetReserved reads a native function's reserved slot.
func (o *Object) GetReserved(slot int) any {
	if o.fn == nil || slot < 0 || slot >= len(o.fn.Reserved) {
		return nil
	}
	return o.fn.Reserved[slot]
}

// SetReserved stores private data in a native function's reserved slot.
func (o *Object) SetReserved(slot int, v any) {
	if o.fn != nil && slot >= 0 && slot < len(o.fn.Reserved) {
		o.fn.Reserved[slot] = v
	}
}

// ProxyHandler returns the object's proxy record, or nil.
func (o *Object) ProxyHandler() *Proxy { return o.proxy }

func IsProxy(o *Object) bool { return o != nil && o.proxy != nil }

// Unbox returns the primitive inside a box object.
func (o *Object) Unbox() (Value, error) {
	switch o.class {
	case ClassBoolean, ClassNumber, ClassString, ClassBigInt:
		return o.boxed, nil
	default:
		return Value{}, errors.BadValue(errors.PhaseEngine, "class %s is not a box class", o.class)
	}
}

// Set defines or overwrites an own property, keeping insertion order.
func (o *Object) Set(name string, v Value) {
	if o.props == nil {
		o.props = map[string]Value{}
	}
	if _, seen := o.props[name]; !seen {
		o.keys = append(o.keys, name)
	}
	o.props[name] = v
}

// Get returns an own property.
func (o *Object) Get(name string) (Value, bool) {
	v, ok := o.props[name]
	return v, ok
}

// OwnPropertyKeys returns own enumerable property names in insertion order.
func (o *Object) OwnPropertyKeys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Elements returns an array's element slice. The slice is shared with the
// object.
func (o *Object) Elements() []Value { return o.elems }

// BufferBytes returns a copy of an ArrayBuffer's contents.
func (o *Object) BufferBytes() []byte {
	out := make([]byte, len(o.buf))
	copy(out, o.buf)
	return out
}

// DateMillis returns a Date's epoch milliseconds.
func (o *Object) DateMillis() int64 { return o.dateMS }

// PromiseInfo returns a Promise's state and, when settled, its result.
func (o *Object) PromiseInfo() (PromiseState, Value) { return o.pstate, o.presult }

// ErrorMessage returns an Error object's message.
func (o *Object) ErrorMessage() string { return o.errmsg }
