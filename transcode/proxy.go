package transcode

import (
	"go.uber.org/zap"

	"github.com/helixlang/bridge/errors"
	"github.com/helixlang/bridge/managed"
	"github.com/helixlang/bridge/script"
)

// Proxy families for managed containers handed to the script side. One
// family per container shape; membership is how the dispatcher recognizes
// its own products on the way back.
var (
	mappingFamily  = script.NewProxyFamily("managed.dict")
	sequenceFamily = script.NewProxyFamily("managed.list")
	tupleFamily    = script.NewProxyFamily("managed.tuple")
)

func unwrapProxy(p *script.Proxy) (managed.Object, bool) {
	switch p.Family {
	case mappingFamily, sequenceFamily, tupleFamily:
		obj, ok := p.Private.(managed.Object)
		return obj, ok
	default:
		return nil, false
	}
}

// FromManaged converts a managed object to a script value. The second
// result reports whether the object's type crosses the boundary at all;
// types that do not are not an error.
//
// Containers are not copied: they become boundary proxies holding a strong
// reference to the referent, released when the proxy is.
func (t *Transcoder) FromManaged(obj managed.Object) (script.Value, bool, error) {
	switch m := obj.(type) {
	case *managed.Int:
		v, err := t.BigIntToScript(m)
		if err != nil {
			return script.Value{}, false, err
		}
		return v, true, nil
	case *managed.Str:
		return script.String(m.V), true, nil
	case *managed.Func:
		return t.funcToScript(m), true, nil
	case *managed.Dict:
		return t.proxyValue(mappingFamily, m), true, nil
	case *managed.List:
		return t.proxyValue(sequenceFamily, m), true, nil
	case *managed.Tuple:
		return t.proxyValue(tupleFamily, m), true, nil
	default:
		return script.Value{}, false, nil
	}
}

// proxyValue builds a boundary proxy over obj. The proxy holds a strong
// reference for its whole lifetime; the release hook gives it back.
func (t *Transcoder) proxyValue(fam *script.ProxyFamily, obj managed.Object) script.Value {
	managed.Incref(obj)
	o := script.NewProxy(fam, obj, func() {
		managed.Decref(obj)
	})
	return script.ObjectValue(o)
}

// callManagedHook backs every native function wrapping a managed callable.
// Reserved slot 0 holds the callable, slot 1 the owning transcoder.
var callManagedHook *script.NativeHook

func init() {
	callManagedHook = &script.NativeHook{
		Name: "callManaged",
		Call: func(cx *script.Context, fn *script.Object, this script.Value, args []script.Value) (script.Value, error) {
			f, _ := fn.GetReserved(0).(*managed.Func)
			t, _ := fn.GetReserved(1).(*Transcoder)
			if f == nil || t == nil {
				return script.Value{}, errors.BadValue(errors.PhaseToScript, "native function lost its managed callable")
			}
			return t.callManaged(f, args)
		},
	}
}

func (t *Transcoder) callManaged(f *managed.Func, args []script.Value) (script.Value, error) {
	margs := make([]managed.Object, 0, len(args))
	defer func() {
		for _, m := range margs {
			managed.Decref(m)
		}
	}()
	// Arguments cross through the safe entry: an engine-invoked call must
	// not fail half-way through argument conversion.
	for _, a := range args {
		w := t.ToManagedSafe(a)
		obj, _ := w.Object()
		managed.Incref(obj)
		w.Release()
		margs = append(margs, obj)
	}

	res, err := f.Call(margs)
	if err != nil {
		return script.Value{}, err
	}
	defer managed.Decref(res)

	v, ok, err := t.FromManaged(res)
	if err != nil {
		return script.Value{}, err
	}
	if !ok {
		t.log.Debug("call result has no script representation",
			zap.String("type", res.Type().String()))
		return script.Undefined(), nil
	}
	return v, nil
}

// funcToScript wraps a managed callable as a native function object. The
// function object holds a strong reference to the callable for its whole
// lifetime.
func (t *Transcoder) funcToScript(f *managed.Func) script.Value {
	managed.Incref(f)
	o := script.NewNativeFunction(callManagedHook)
	o.SetReserved(0, f)
	o.SetReserved(1, t)
	return script.ObjectValue(o)
}
