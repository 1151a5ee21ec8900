// Package script models the source scripting engine's value space.
//
// A Value is a tagged dynamic value: undefined, null, boolean, number,
// string, symbol, bigint, object, or an internal magic value. Objects carry
// a built-in class resolved by Context.BuiltinClass, may be boundary proxies
// (identified by a per-family identity pointer, never by class), and may be
// native functions with reserved slots.
//
// The engine owns its heap: big-integer cells live in linear memory backed
// by a wazero instance, not in Go-managed memory. The only public ways to
// construct a big integer are BigIntFromUint64 and SimpleStringToBigInt;
// there is no public negate and no public digit accessor. Code that needs
// the digits goes through the layout contract in internal/layout.
//
// A Context is single-threaded. Values are only meaningful against the
// Context that created them.
package script
