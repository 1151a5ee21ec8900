package managed

import "fmt"

// Type is the runtime type tag of a managed object.
type Type uint8

const (
	TypeInt Type = iota
	TypeFloat
	TypeStr
	TypeBool
	TypeNone
	TypeNull
	TypeDict
	TypeList
	TypeTuple
	TypeFunc
	TypeBytes
	TypeWrapped
)

var typeNames = [...]string{
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeStr:     "str",
	TypeBool:    "bool",
	TypeNone:    "none",
	TypeNull:    "null",
	TypeDict:    "dict",
	TypeList:    "list",
	TypeTuple:   "tuple",
	TypeFunc:    "func",
	TypeBytes:   "bytes",
	TypeWrapped: "wrapped",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Object is a managed runtime value.
type Object interface {
	Type() Type
	Ref() *Base
}

// Dropper is implemented by objects that own other references; Drop runs
// when the last reference goes away.
type Dropper interface {
	Drop()
}

// Base carries an object's reference count. Embed it by value and construct
// it with NewBase. The runtime is single-threaded; counts are plain ints.
type Base struct {
	refs     int32
	immortal bool
}

// NewBase returns a Base holding the caller's single strong reference.
func NewBase() Base {
	liveObjects++
	return Base{refs: 1}
}

func newImmortalBase() Base {
	return Base{refs: 1, immortal: true}
}

// Ref returns the Base itself; it makes any embedder an Object half.
func (b *Base) Ref() *Base { return b }

// RefCount returns the current reference count.
func (b *Base) RefCount() int32 { return b.refs }

// Incref acquires a strong reference and returns o for chaining.
func Incref(o Object) Object {
	b := o.Ref()
	if !b.immortal {
		b.refs++
	}
	return o
}

// Decref releases a strong reference, dropping owned references when the
// count reaches zero. Releasing more references than were acquired is a
// use-after-free; it panics rather than corrupting the heap.
func Decref(o Object) {
	b := o.Ref()
	if b.immortal {
		return
	}
	b.refs--
	if b.refs < 0 {
		panic(fmt.Sprintf("managed: refcount of %s went negative", o.Type()))
	}
	if b.refs == 0 {
		if d, ok := o.(Dropper); ok {
			d.Drop()
		}
		liveObjects--
	}
}

var liveObjects int64

// LiveObjects returns the number of mortal objects with a nonzero refcount.
func LiveObjects() int64 { return liveObjects }
