// Package layout is the versioned contract over the script engine's
// big-integer cell layout.
//
// The engine exposes no public API for reading a big integer's digit storage
// or for negating an already-constructed value, so the codec has to reach
// into the cell directly. Everything layout-specific lives here: header
// offsets, the sign-bit position, the inline-digit threshold, and the
// out-of-line digit pointer. A contract is selected by engine build version;
// upgrading the engine means revalidating one table entry, not the codec.
//
//	Cell layout (64-bit engine build):
//
//	offset 0  u32  flags (bit 3 = sign)
//	offset 4  u32  digit count
//	offset 8  u64  inline digit, or heap address of the digit array
//	               when the count exceeds the inline threshold (1)
//
// Digits are 64 bits wide, least-significant first, native byte order within
// a digit. Only little-endian hosts are supported; contract construction
// fails fast on anything else rather than risking silent miscomputation.
package layout
