package meshpool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/material"
	"github.com/forgelight/enginecore/internal/pipeline"
)

func TestKindMapsStandardPBROpaque(t *testing.T) {
	m := material.Material{Kind: material.KindStandardPBR, AlphaMode: material.AlphaOpaque}
	assert.Equal(t, pipeline.StandardPBR, Kind(m))
}

func TestKindMapsUnlitOpaque(t *testing.T) {
	m := material.Material{Kind: material.KindUnlit, AlphaMode: material.AlphaOpaque}
	assert.Equal(t, pipeline.Unlit, Kind(m))
}

func TestKindMapsTransparentPBR(t *testing.T) {
	m := material.Material{Kind: material.KindTransparent, AlphaMode: material.AlphaBlend}
	assert.Equal(t, pipeline.TransparentPBR, Kind(m))
}

func TestKindMapsTransparentUnlit(t *testing.T) {
	m := material.Material{Kind: material.KindUnlit, AlphaMode: material.AlphaBlend}
	assert.Equal(t, pipeline.TransparentUnlit, Kind(m))
}

func newTestPool(capacity uint32) *Pool {
	slots := make([]slotState, capacity)
	freeList := make([]uint32, capacity)
	for i := range freeList {
		freeList[i] = capacity - 1 - uint32(i)
	}
	return &Pool{
		capacity:  capacity,
		maxSize:   capacity,
		slots:     slots,
		freeList:  freeList,
		activeSet: make(map[uint32]struct{}),
		instBuf:   nil,
	}
}

func TestFreeInstanceIgnoresStaleGeneration(t *testing.T) {
	p := newTestPool(4)
	p.slots[0].alive = true
	p.activeSet[0] = struct{}{}
	p.freeList = p.freeList[:len(p.freeList)-1]

	stale := Handle{Index: 0, Generation: 99}
	p.FreeInstance(stale)

	assert.True(t, p.slots[0].alive, "a stale-generation free must not touch the live slot")
	assert.Equal(t, 1, p.ActiveCount())
}

func TestFreeInstanceBumpsGenerationAndReturnsToFreeList(t *testing.T) {
	p := newTestPool(4)
	p.slots[0].alive = true
	p.activeSet[0] = struct{}{}
	p.freeList = p.freeList[:len(p.freeList)-1]

	h := Handle{Index: 0, Generation: 0}
	p.FreeInstance(h)

	assert.False(t, p.slots[0].alive)
	assert.Equal(t, uint32(1), p.slots[0].generation)
	assert.Equal(t, 0, p.ActiveCount())
	assert.Equal(t, 4, p.FreeCount())
}

func TestWriteDynamicInstanceRejectsIndexAtOrPastCapacity(t *testing.T) {
	p := newTestPool(4)

	assert.False(t, p.WriteDynamicInstance(4, mathx.Mat4{}), "index equal to capacity must be rejected")
	assert.False(t, p.WriteDynamicInstance(5, mathx.Mat4{}), "index past capacity must be rejected")
}

func TestActivePlusFreeEqualsCapacity(t *testing.T) {
	p := newTestPool(8)
	assert.EqualValues(t, p.Capacity(), p.ActiveCount()+p.FreeCount())

	p.slots[0].alive = true
	p.activeSet[0] = struct{}{}
	p.freeList = p.freeList[:len(p.freeList)-1]
	assert.EqualValues(t, p.Capacity(), p.ActiveCount()+p.FreeCount())
}
