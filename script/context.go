package script

import (
	"context"
	"fmt"
	"strconv"

	bridge "github.com/helixlang/bridge"
	"github.com/helixlang/bridge/errors"
	"github.com/helixlang/bridge/internal/layout"
)

// DefaultBuild is the engine build the layout contract is validated
// against by default.
const DefaultBuild = "115.0.0"

// Config holds configuration for engine context creation
type Config struct {
	// MaxHeapPages limits the engine heap in 64KB pages. 0 means the
	// wazero default.
	MaxHeapPages uint32

	// Build selects the engine build version, which in turn selects the
	// big-integer cell layout contract. Empty means DefaultBuild.
	Build string
}

// Context is one engine execution context: the engine heap plus the layout
// contract matching the engine build. It is not safe for concurrent use.
type Context struct {
	arena  *arena
	layout *layout.Contract
	build  string
}

// NewContext creates an engine context.
func NewContext(ctx context.Context, cfg *Config) (*Context, error) {
	build := DefaultBuild
	var maxPages uint32
	if cfg != nil {
		if cfg.Build != "" {
			build = cfg.Build
		}
		maxPages = cfg.MaxHeapPages
	}

	contract, err := layout.ForBuild(build)
	if err != nil {
		return nil, err
	}
	a, err := newArena(ctx, maxPages)
	if err != nil {
		return nil, err
	}
	return &Context{arena: a, layout: contract, build: build}, nil
}

// Close releases the engine heap. Values created by this context are
// invalid afterwards.
func (cx *Context) Close(ctx context.Context) error {
	return cx.arena.close(ctx)
}

// Heap exposes the engine heap for layout-contract consumers.
func (cx *Context) Heap() bridge.Memory { return cx.arena }

// Allocator exposes the engine cell allocator.
func (cx *Context) Allocator() bridge.Allocator { return cx.arena }

// Layout returns the cell layout contract for this engine build.
func (cx *Context) Layout() *layout.Contract { return cx.layout }

// Build returns the engine build version.
func (cx *Context) Build() string { return cx.build }

// BuiltinClass probes an object's built-in class. Bound functions are not
// classified as Function by the probe; callers that care must check
// IsBoundFunction separately.
func (cx *Context) BuiltinClass(o *Object) Class {
	if o.class == ClassBoundFunction {
		return ClassPlain
	}
	return o.class
}

// Call invokes a callable value.
func (cx *Context) Call(fn Value, this Value, args []Value) (Value, error) {
	if fn.Kind() != KindObject || fn.Object() == nil || fn.Object().fn == nil {
		return Value{}, errors.BadValue(errors.PhaseEngine, "value of kind %s is not callable", fn.Kind())
	}
	return fn.Object().fn.invoke(cx, this, args)
}

// DisplayString renders a value for diagnostics, the way the engine's own
// string coercion would.
func (cx *Context) DisplayString(v Value) string {
	switch v.Kind() {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(v.Bool())
	case KindNumber:
		return strconv.FormatFloat(v.Number(), 'g', -1, 64)
	case KindString:
		return v.Str()
	case KindSymbol:
		return "Symbol(" + v.Description() + ")"
	case KindBigInt:
		s, err := cx.BigIntToString(v, 10)
		if err != nil {
			return "<corrupt bigint>"
		}
		return s + "n"
	case KindObject:
		o := v.Object()
		if o.IsCallable() {
			return "function " + o.fn.Name
		}
		return "[object " + o.class.String() + "]"
	case KindMagic:
		return "<magic>"
	default:
		return fmt.Sprintf("<kind %d>", v.Kind())
	}
}
