package ui

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// encodeFloats packs floats little-endian into a byte slice, the layout
// CmdPushConstants expects.
func encodeFloats(values ...float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func bytesPointer(b []byte) unsafe.Pointer {
	return unsafe.Pointer(&b[0])
}
