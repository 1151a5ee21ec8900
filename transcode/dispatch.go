package transcode

import (
	"time"

	"go.uber.org/zap"

	"github.com/helixlang/bridge/errors"
	"github.com/helixlang/bridge/managed"
	"github.com/helixlang/bridge/script"
)

// Transcoder converts values between one engine context and the managed
// object space. It is not safe for concurrent use, matching the context it
// wraps.
type Transcoder struct {
	cx  *script.Context
	log *zap.Logger
}

// New creates a transcoder over an engine context.
func New(cx *script.Context) *Transcoder {
	return &Transcoder{cx: cx, log: Logger()}
}

// Context returns the engine context the transcoder operates on.
func (t *Transcoder) Context() *script.Context { return t.cx }

// ToManaged converts a script value to its managed counterpart. The result
// wrapper owns one strong reference; callers Release it when done.
//
// Unsupported kinds (symbols, engine-internal values) fail with a
// distinguishable diagnostic; see errors.IsKind with KindUnsupported.
// Objects no dispatch rule matches fail hard with the value's rendering.
func (t *Transcoder) ToManaged(v script.Value) (*Wrapper, error) {
	obj, err := t.toManaged(v)
	if err != nil {
		return nil, err
	}
	return NewWrapper(obj), nil
}

// ToManagedSafe converts like ToManaged but never fails: any error is
// logged and the managed null is substituted.
func (t *Transcoder) ToManagedSafe(v script.Value) *Wrapper {
	w, err := t.ToManaged(v)
	if err != nil {
		t.log.Debug("conversion failed, substituting null",
			zap.String("kind", v.Kind().String()),
			zap.Error(err))
		return NewWrapper(managed.Null)
	}
	return w
}

// toManaged returns an object with one strong reference owned by the
// caller. Immortal sentinels are returned directly; existing referents are
// returned with a fresh reference.
func (t *Transcoder) toManaged(v script.Value) (managed.Object, error) {
	switch v.Kind() {
	case script.KindUndefined:
		return managed.None, nil
	case script.KindNull:
		return managed.Null, nil
	case script.KindBoolean:
		return managed.NewBool(v.Bool()), nil
	case script.KindNumber:
		return managed.NewFloat(v.Number()), nil
	case script.KindString:
		return managed.NewStr(v.Str()), nil
	case script.KindBigInt:
		return t.BigIntFromScript(v)
	case script.KindSymbol, script.KindMagic:
		return nil, errors.Unsupported(errors.PhaseToManaged, v.Kind().String())
	case script.KindObject:
		return t.objectToManaged(v)
	default:
		return nil, errors.Unrecognized(errors.PhaseToManaged, v.Kind().String(), t.cx.DisplayString(v))
	}
}

func (t *Transcoder) objectToManaged(v script.Value) (managed.Object, error) {
	o := v.Object()

	// Values we handed out come back by identity, not by re-conversion.
	if p := o.ProxyHandler(); p != nil {
		if ref, ok := unwrapProxy(p); ok {
			if p.Released() {
				return nil, errors.Released("proxy referent")
			}
			return managed.Incref(ref), nil
		}
	}
	if script.IsNativeFunction(o, callManagedHook) {
		if f, ok := o.GetReserved(0).(*managed.Func); ok {
			return managed.Incref(f), nil
		}
	}

	switch t.cx.BuiltinClass(o) {
	case script.ClassBoolean, script.ClassNumber, script.ClassString, script.ClassBigInt:
		prim, err := o.Unbox()
		if err != nil {
			return nil, err
		}
		return t.toManaged(prim)
	case script.ClassDate:
		return managed.NewWrapped("datetime", time.UnixMilli(o.DateMillis()).UTC()), nil
	case script.ClassPromise:
		return t.promiseToManaged(o), nil
	case script.ClassError:
		return newException(o.ErrorMessage()), nil
	case script.ClassFunction:
		return t.functionToManaged(v, o), nil
	case script.ClassArray:
		return t.arrayToManaged(o)
	case script.ClassArrayBuffer:
		return managed.NewBytes(o.BufferBytes()), nil
	default:
		// The class probe reports bound functions as plain objects.
		if o.IsCallable() {
			return t.functionToManaged(v, o), nil
		}
		return t.mappingToManaged(o)
	}
}

// mappingToManaged converts a plain object's own enumerable properties into
// a dict, in insertion order. Unsupported property values are dropped with
// a diagnostic; any other failure aborts the whole conversion.
func (t *Transcoder) mappingToManaged(o *script.Object) (managed.Object, error) {
	d := managed.NewDict()
	for _, key := range o.OwnPropertyKeys() {
		pv, _ := o.Get(key)
		obj, err := t.toManaged(pv)
		if err != nil {
			if errors.IsKind(err, errors.KindUnsupported) {
				t.log.Debug("dropping unsupported property",
					zap.String("key", key),
					zap.String("kind", pv.Kind().String()))
				continue
			}
			managed.Decref(d)
			return nil, err
		}
		d.SetItem(key, obj)
		managed.Decref(obj)
	}
	return d, nil
}

// arrayToManaged converts array elements into a list. An unsupported
// element becomes the managed none so later indices keep their positions.
func (t *Transcoder) arrayToManaged(o *script.Object) (managed.Object, error) {
	l := managed.NewList()
	for i, ev := range o.Elements() {
		obj, err := t.toManaged(ev)
		if err != nil {
			if errors.IsKind(err, errors.KindUnsupported) {
				t.log.Debug("substituting none for unsupported element",
					zap.Int("index", i),
					zap.String("kind", ev.Kind().String()))
				obj = managed.None
			} else {
				managed.Decref(l)
				return nil, err
			}
		}
		l.Append(obj)
		managed.Decref(obj)
	}
	return l, nil
}

// functionToManaged wraps a script callable as a managed callable. Calls
// re-enter the engine: arguments cross through FromManaged, the result
// comes back through ToManaged.
func (t *Transcoder) functionToManaged(fv script.Value, o *script.Object) managed.Object {
	return managed.NewFunc(o.FunctionName(), func(args []managed.Object) (managed.Object, error) {
		sargs := make([]script.Value, len(args))
		for i, a := range args {
			sv, ok, err := t.FromManaged(a)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.New(errors.PhaseToScript, errors.KindUnsupported).
					Managed(a.Type().String()).
					Detail("argument %d has no script representation", i).
					Build()
			}
			sargs[i] = sv
		}
		res, err := t.cx.Call(fv, script.Undefined(), sargs)
		if err != nil {
			return nil, err
		}
		// Reentrant path: the engine already ran, so the result must
		// produce an object no matter what.
		w := t.ToManagedSafe(res)
		obj, _ := w.Object()
		managed.Incref(obj)
		w.Release()
		return obj, nil
	})
}
