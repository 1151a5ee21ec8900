// Package managed models the managed-language object space.
//
// Objects are reference counted: constructors hand the caller one strong
// reference, Incref/Decref share and release it, and containers own a
// reference to each element. The package keeps a live-object count so tests
// can assert that conversions neither leak references nor over-release.
//
// Int is the arbitrary-precision integer: sign-magnitude with 30-bit digits
// stored least-significant first in 32-bit words. The sign is carried by a
// signed digit-count field (Size/SetSize), which conversion code mutates
// transiently; that mutation is not safe against concurrent use of the same
// value.
//
// None and Null are distinct immortal sentinels: None mirrors the scripting
// side's undefined, Null its null. They are never collapsed into one
// null-like value.
package managed
