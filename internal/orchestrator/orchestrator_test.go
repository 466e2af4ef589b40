package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/meshpool"
)

func TestSortAscendingOrdersFrontToBack(t *testing.T) {
	objs := []bucketed{{viewZ: 3}, {viewZ: 1}, {viewZ: 2}}
	sortAscending(objs)
	assert.Equal(t, []float32{1, 2, 3}, viewZs(objs))
}

func TestSortDescendingOrdersBackToFront(t *testing.T) {
	objs := []bucketed{{viewZ: 1}, {viewZ: 3}, {viewZ: 2}}
	sortDescending(objs)
	assert.Equal(t, []float32{3, 2, 1}, viewZs(objs))
}

func TestWriteAndPlanSkipsObjectsPastPoolCapacity(t *testing.T) {
	pool := &meshpool.Pool{} // zero-value: capacity 0, nothing fits this frame
	objs := []bucketed{
		{data: DynamicRenderData{MeshType: "crate"}, pool: pool},
		{data: DynamicRenderData{MeshType: "crate"}, pool: pool},
	}
	missed := map[meshpool.MeshType]int{}

	calls := writeAndPlan(objs, missed)

	assert.Empty(t, calls, "an overflowing pool must plan no draw for the objects it couldn't hold")
	assert.Equal(t, 2, missed[meshpool.MeshType("crate")])
}

func TestSubmitReportsPoolOverflowThroughLogMisses(t *testing.T) {
	pool := &meshpool.Pool{}
	objects := map[ecs.Entity]DynamicRenderData{
		{Index: 1}: {MeshType: "crate"},
		{Index: 2}: {MeshType: "crate"},
		{Index: 3}: {MeshType: "crate"},
	}
	lookup := func(meshpool.MeshType) (*meshpool.Pool, bool) { return pool, true }

	var loggedType meshpool.MeshType
	var loggedCount int
	logMisses := func(meshType meshpool.MeshType, count int) {
		loggedType, loggedCount = meshType, count
	}

	calls := Submit(objects, mathx.Vec3{}, mathx.Vec3{0, 0, -1}, lookup, logMisses)

	assert.Empty(t, calls)
	assert.Equal(t, meshpool.MeshType("crate"), loggedType)
	assert.Equal(t, 3, loggedCount)
}

func viewZs(objs []bucketed) []float32 {
	out := make([]float32, len(objs))
	for i, o := range objs {
		out[i] = o.viewZ
	}
	return out
}
