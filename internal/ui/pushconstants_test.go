package ui

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFloatsRoundTrips(t *testing.T) {
	bytes := encodeFloats(1920, 1080, 0, 0, 1, 0.5, 0.25, 1)
	require.Len(t, bytes, 32)

	got := make([]float32, 8)
	for i := range got {
		got[i] = math.Float32frombits(binary.LittleEndian.Uint32(bytes[i*4:]))
	}
	assert.Equal(t, []float32{1920, 1080, 0, 0, 1, 0.5, 0.25, 1}, got)
}
