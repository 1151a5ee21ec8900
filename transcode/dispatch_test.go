package transcode

import (
	"testing"
	"time"

	"github.com/helixlang/bridge/errors"
	"github.com/helixlang/bridge/managed"
	"github.com/helixlang/bridge/script"
)

func mustObject(t *testing.T, w *Wrapper) managed.Object {
	t.Helper()
	obj, err := w.Object()
	if err != nil {
		t.Fatalf("Object: %v", err)
	}
	return obj
}

func TestToManagedScalars(t *testing.T) {
	tc := newTranscoder(t)

	tests := []struct {
		name  string
		in    script.Value
		check func(t *testing.T, obj managed.Object)
	}{
		{"undefined", script.Undefined(), func(t *testing.T, obj managed.Object) {
			if obj != managed.Object(managed.None) {
				t.Error("undefined must map to the None sentinel")
			}
		}},
		{"null", script.Null(), func(t *testing.T, obj managed.Object) {
			if obj != managed.Object(managed.Null) {
				t.Error("null must map to the Null sentinel")
			}
		}},
		{"boolean", script.Boolean(true), func(t *testing.T, obj managed.Object) {
			if obj != managed.Object(managed.True) {
				t.Error("true must map to the True singleton")
			}
		}},
		{"number", script.Number(4.25), func(t *testing.T, obj managed.Object) {
			f, ok := obj.(*managed.Float)
			if !ok || f.V != 4.25 {
				t.Errorf("got %T", obj)
			}
		}},
		{"string", script.String("héllo"), func(t *testing.T, obj managed.Object) {
			s, ok := obj.(*managed.Str)
			if !ok || s.V != "héllo" {
				t.Errorf("got %T", obj)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := tc.ToManaged(tt.in)
			if err != nil {
				t.Fatalf("ToManaged: %v", err)
			}
			tt.check(t, mustObject(t, w))
			w.Release()
		})
	}
}

func TestToManagedUnsupportedKinds(t *testing.T) {
	tc := newTranscoder(t)

	for _, v := range []script.Value{script.Symbol("id"), script.Magic()} {
		_, err := tc.ToManaged(v)
		if err == nil {
			t.Fatalf("%s: expected error", v.Kind())
		}
		if !errors.IsKind(err, errors.KindUnsupported) {
			t.Errorf("%s: kind = %v, want unsupported", v.Kind(), err)
		}

		w := tc.ToManagedSafe(v)
		if obj := mustObject(t, w); obj != managed.Object(managed.Null) {
			t.Errorf("%s: safe entry substituted %T, want Null", v.Kind(), obj)
		}
		w.Release()
	}
}

func TestToManagedBoxedPrimitives(t *testing.T) {
	tc := newTranscoder(t)

	box, err := script.NewBox(script.ClassNumber, script.Number(7))
	if err != nil {
		t.Fatal(err)
	}
	w, err := tc.ToManaged(script.ObjectValue(box))
	if err != nil {
		t.Fatal(err)
	}
	f, ok := mustObject(t, w).(*managed.Float)
	if !ok || f.V != 7 {
		t.Errorf("boxed number unboxed to %T", mustObject(t, w))
	}
	w.Release()

	bv, err := tc.BigIntToScript(managed.NewInt(99))
	if err != nil {
		t.Fatal(err)
	}
	bigBox, err := script.NewBox(script.ClassBigInt, bv)
	if err != nil {
		t.Fatal(err)
	}
	w, err = tc.ToManaged(script.ObjectValue(bigBox))
	if err != nil {
		t.Fatal(err)
	}
	n, ok := mustObject(t, w).(*managed.Int)
	if !ok || n.String() != "99" {
		t.Errorf("boxed bigint unboxed to %T", mustObject(t, w))
	}
	w.Release()
}

func TestToManagedDate(t *testing.T) {
	tc := newTranscoder(t)
	const ms = int64(1700000000123)

	w, err := tc.ToManaged(script.ObjectValue(script.NewDate(ms)))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()

	wr, ok := mustObject(t, w).(*managed.Wrapped)
	if !ok || wr.Kind != "datetime" {
		t.Fatalf("got %T", mustObject(t, w))
	}
	ts, ok := wr.Native.(time.Time)
	if !ok || ts.UnixMilli() != ms {
		t.Errorf("timestamp = %v", wr.Native)
	}
}

func TestToManagedPromise(t *testing.T) {
	tc := newTranscoder(t)

	w, err := tc.ToManaged(script.ObjectValue(
		script.NewPromise(script.PromiseFulfilled, script.Number(7))))
	if err != nil {
		t.Fatal(err)
	}
	p, ok := mustObject(t, w).(*Promise)
	if !ok || p.State != script.PromiseFulfilled {
		t.Fatalf("got %T", mustObject(t, w))
	}
	res, err := p.Result()
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := res.(*managed.Float); !ok || f.V != 7 {
		t.Errorf("result = %T", res)
	}
	w.Release()

	w, err = tc.ToManaged(script.ObjectValue(
		script.NewPromise(script.PromisePending, script.Undefined())))
	if err != nil {
		t.Fatal(err)
	}
	p = mustObject(t, w).(*Promise)
	if res, _ := p.Result(); res != nil {
		t.Error("pending promise has a result")
	}
	w.Release()
}

func TestToManagedError(t *testing.T) {
	tc := newTranscoder(t)

	w, err := tc.ToManaged(script.ObjectValue(script.NewErrorObject("boom")))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()

	exc, ok := mustObject(t, w).(*Exception)
	if !ok {
		t.Fatalf("got %T", mustObject(t, w))
	}
	var goErr error = exc
	if goErr.Error() != "boom" {
		t.Errorf("Error() = %q", goErr.Error())
	}
}

func TestToManagedArray(t *testing.T) {
	tc := newTranscoder(t)

	arr := script.NewArray(
		script.Number(1),
		script.Symbol("skipme"),
		script.String("x"),
	)
	w, err := tc.ToManaged(script.ObjectValue(arr))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()

	l, ok := mustObject(t, w).(*managed.List)
	if !ok {
		t.Fatalf("got %T", mustObject(t, w))
	}
	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
	if l.Get(1) != managed.Object(managed.None) {
		t.Error("unsupported element should hold its index as None")
	}
	if s, ok := l.Get(2).(*managed.Str); !ok || s.V != "x" {
		t.Error("later elements shifted")
	}
}

func TestToManagedMapping(t *testing.T) {
	tc := newTranscoder(t)

	o := script.NewPlainObject()
	o.Set("b", script.Number(2))
	o.Set("a", script.String("one"))
	o.Set("sym", script.Symbol("dropme"))
	o.Set("nested", script.ObjectValue(script.NewArray(script.Boolean(true))))

	w, err := tc.ToManaged(script.ObjectValue(o))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()

	d, ok := mustObject(t, w).(*managed.Dict)
	if !ok {
		t.Fatalf("got %T", mustObject(t, w))
	}

	keys := d.Keys()
	want := []string{"b", "a", "nested"} // unsupported entry dropped
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys = %v, want %v", keys, want)
		}
	}

	nested, _ := d.GetItem("nested")
	if l, ok := nested.(*managed.List); !ok || l.Len() != 1 {
		t.Errorf("nested = %T", nested)
	}
}

func TestToManagedArrayBuffer(t *testing.T) {
	tc := newTranscoder(t)

	w, err := tc.ToManaged(script.ObjectValue(script.NewArrayBuffer([]byte{1, 2, 3})))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()

	b, ok := mustObject(t, w).(*managed.Bytes)
	if !ok || len(b.Data) != 3 || b.Data[0] != 1 {
		t.Errorf("got %T %v", mustObject(t, w), b)
	}
}

func TestToManagedFunction(t *testing.T) {
	tc := newTranscoder(t)

	concat := script.NewScriptFunction("concat",
		func(cx *script.Context, this script.Value, args []script.Value) (script.Value, error) {
			return script.String(args[0].Str() + args[1].Str()), nil
		})

	w, err := tc.ToManaged(script.ObjectValue(concat))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()

	f, ok := mustObject(t, w).(*managed.Func)
	if !ok {
		t.Fatalf("got %T", mustObject(t, w))
	}
	if f.Name != "concat" {
		t.Errorf("Name = %q", f.Name)
	}

	a, b := managed.NewStr("foo"), managed.NewStr("bar")
	res, err := f.Call([]managed.Object{a, b})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if s, ok := res.(*managed.Str); !ok || s.V != "foobar" {
		t.Errorf("result = %T", res)
	}
	managed.Decref(res)
	managed.Decref(a)
	managed.Decref(b)
}

func TestToManagedBoundFunction(t *testing.T) {
	tc := newTranscoder(t)

	base := script.NewScriptFunction("echo",
		func(cx *script.Context, this script.Value, args []script.Value) (script.Value, error) {
			return args[0], nil
		})
	bound, err := script.NewBoundFunction(base, script.Undefined(), []script.Value{script.String("fixed")})
	if err != nil {
		t.Fatal(err)
	}

	// The class probe reports bound functions as plain objects; the
	// dispatcher must still treat them as callables.
	if tc.Context().BuiltinClass(bound) != script.ClassPlain {
		t.Fatal("probe precondition changed")
	}

	w, err := tc.ToManaged(script.ObjectValue(bound))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()

	f, ok := mustObject(t, w).(*managed.Func)
	if !ok {
		t.Fatalf("got %T", mustObject(t, w))
	}
	res, err := f.Call(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := res.(*managed.Str); !ok || s.V != "fixed" {
		t.Errorf("result = %T", res)
	}
	managed.Decref(res)
}

func TestProxyIdentityRoundTrip(t *testing.T) {
	tc := newTranscoder(t)

	tests := []struct {
		name string
		obj  managed.Object
	}{
		{"dict", managed.NewDict()},
		{"list", managed.NewList()},
		{"tuple", managed.NewTuple()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok, err := tc.FromManaged(tt.obj)
			if err != nil || !ok {
				t.Fatalf("FromManaged: ok=%v err=%v", ok, err)
			}
			if !script.IsProxy(v.Object()) {
				t.Fatal("container did not become a proxy")
			}

			w, err := tc.ToManaged(v)
			if err != nil {
				t.Fatalf("ToManaged: %v", err)
			}
			if mustObject(t, w) != tt.obj {
				t.Error("identity lost across the boundary")
			}
			w.Release()

			v.Object().ProxyHandler().Release()
			managed.Decref(tt.obj)
		})
	}
}

func TestProxyReleaseBreaksHold(t *testing.T) {
	tc := newTranscoder(t)
	before := managed.LiveObjects()

	l := managed.NewList()
	v, ok, err := tc.FromManaged(l)
	if err != nil || !ok {
		t.Fatal(err)
	}
	managed.Decref(l) // proxy keeps its own reference

	p := v.Object().ProxyHandler()
	p.Release()
	p.Release() // idempotent

	if _, err := tc.ToManaged(v); !errors.IsKind(err, errors.KindReleased) {
		t.Errorf("err = %v, want released", err)
	}
	if managed.LiveObjects() != before {
		t.Errorf("live = %d, want %d", managed.LiveObjects(), before)
	}
}

func TestFuncIdentityRoundTrip(t *testing.T) {
	tc := newTranscoder(t)

	f := managed.NewFunc("noop", func(args []managed.Object) (managed.Object, error) {
		return managed.None, nil
	})
	v, ok, err := tc.FromManaged(f)
	if err != nil || !ok {
		t.Fatal(err)
	}

	w, err := tc.ToManaged(v)
	if err != nil {
		t.Fatal(err)
	}
	if mustObject(t, w) != managed.Object(f) {
		t.Error("callable identity lost across the boundary")
	}
	w.Release()
	managed.Decref(f)
}

func TestFromManagedUnhandledTypes(t *testing.T) {
	tc := newTranscoder(t)

	for _, obj := range []managed.Object{managed.None, managed.True, managed.NewFloat(1)} {
		v, ok, err := tc.FromManaged(obj)
		if err != nil {
			t.Fatalf("%s: %v", obj.Type(), err)
		}
		if ok || !v.IsUndefined() {
			t.Errorf("%s: ok=%v, want a silent miss", obj.Type(), ok)
		}
	}
}

func TestCallManagedThroughEngine(t *testing.T) {
	tc := newTranscoder(t)

	echo := managed.NewFunc("echo", func(args []managed.Object) (managed.Object, error) {
		return managed.Incref(args[0]), nil
	})
	v, ok, err := tc.FromManaged(echo)
	if err != nil || !ok {
		t.Fatal(err)
	}

	res, err := tc.Context().Call(v, script.Undefined(), []script.Value{script.String("ping")})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Kind() != script.KindString || res.Str() != "ping" {
		t.Errorf("result = %s %q", res.Kind(), tc.Context().DisplayString(res))
	}

	// A result with no script representation degrades to undefined.
	none := managed.NewFunc("none", func(args []managed.Object) (managed.Object, error) {
		return managed.None, nil
	})
	nv, _, err := tc.FromManaged(none)
	if err != nil {
		t.Fatal(err)
	}
	res, err = tc.Context().Call(nv, script.Undefined(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsUndefined() {
		t.Errorf("result kind = %s, want undefined", res.Kind())
	}

	managed.Decref(echo)
	managed.Decref(none)
}

func TestConversionLeavesNoLiveObjects(t *testing.T) {
	tc := newTranscoder(t)
	before := managed.LiveObjects()

	o := script.NewPlainObject()
	o.Set("nums", script.ObjectValue(script.NewArray(script.Number(1), script.String("two"))))
	o.Set("err", script.ObjectValue(script.NewErrorObject("e")))
	o.Set("p", script.ObjectValue(script.NewPromise(script.PromiseRejected, script.String("no"))))

	w, err := tc.ToManaged(script.ObjectValue(o))
	if err != nil {
		t.Fatal(err)
	}
	w.Release()

	if got := managed.LiveObjects(); got != before {
		t.Errorf("live = %d, want %d after release", got, before)
	}
}
