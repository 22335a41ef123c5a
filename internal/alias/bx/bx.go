// stand for bytes helper
package bx

import "encoding/binary"

var LE = binary.LittleEndian

// --- LE: read ---
func U32(b []byte) uint32 { return LE.Uint32(b) }
func I32(b []byte) int32  { return int32(U32(b)) }

// --- LE: write ---
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }
func PutI32(b []byte, v int32)  { PutU32(b, uint32(v)) }

// --- LE: At (offset) ---
func I32At(b []byte, off int) int32       { return I32(b[off:]) }
func PutI32At(b []byte, off int, v int32) { PutI32(b[off:], v) }

// PutPadded copies src into the fixed-width field dst and zeroes the
// remainder. It returns the number of bytes copied.
func PutPadded(dst, src []byte) int {
	n := copy(dst, src)
	clear(dst[n:])
	return n
}
