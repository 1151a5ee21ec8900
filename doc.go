// Package bridge marshals values between two independently garbage-collected
// object models: a dynamic scripting-engine value space and a managed-language
// object space.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│ script.Value ←→ [transcode dispatcher + int codec] ←→ managed │
//	└──────────────────────────────────────────────────────────────┘
//
// The script engine (package script) owns its heap: big-integer cells live in
// engine linear memory and are only reachable through a versioned layout
// contract (package internal/layout). The managed runtime (package managed)
// uses reference counting with sign-magnitude big integers in 30-bit digits.
//
// Package transcode is the core: a dispatcher that inspects a value's runtime
// tag or class on one side and produces the correctly-typed wrapper on the
// other, and an arbitrary-precision integer codec that converts losslessly
// between the two digit representations.
//
// # Key Packages
//
//	script          - source engine values, classes, proxies, bigint cells
//	managed         - managed runtime objects and refcounting
//	transcode       - dispatcher, integer codec, wrappers, collaborators
//	internal/layout - versioned bigint cell layout contract
//	errors          - structured error type shared by all packages
//
// # Conversion Flow
//
//	tc := transcode.New(cx)
//	w, err := tc.ToManaged(v)          // script → managed, may fail
//	w := tc.ToManagedSafe(v)           // never fails, Null on error
//	v, ok, err := tc.FromManaged(obj)  // managed → script
//
// Every conversion runs to completion on the calling thread. The codec's sign
// manipulation transiently mutates shared fields on engine-owned values and is
// not safe to run concurrently against the same value.
//
// # Ownership
//
// A Wrapper owns one strong reference to its managed object; Release drops it.
// Boundary proxies hold their referent alive for the proxy's whole lifetime.
// Big-endian hosts are rejected at layout-contract construction rather than
// risking silent numeric corruption.
package bridge
