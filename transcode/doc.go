// Package transcode moves values across the script/managed boundary.
//
// ToManaged dispatches on a script value's runtime kind and, for objects, on
// the built-in class probe, producing the managed counterpart wrapped in a
// Wrapper that owns one strong reference. ToManagedSafe is the never-failing
// entry point used where a result must always exist; it substitutes the
// managed null on any failure.
//
// FromManaged is the narrower reverse direction: integers go through the
// big-integer codec, strings copy, callables become native functions that
// re-enter the managed side, and containers become boundary proxies that
// keep their referent alive until released.
//
// The big-integer codec bridges two digit geometries: the engine's 64-bit
// digits, read and written through the layout contract, and the managed
// side's 30-bit digits. Conversion to the engine goes through the engine's
// own public constructors (a native word for small magnitudes, a hex digit
// string otherwise) and patches the sign bit afterwards, because the engine
// exposes no negative constructor.
package transcode
