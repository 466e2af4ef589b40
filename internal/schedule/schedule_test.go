package schedule

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transformComponent struct{}
type movementComponent struct{}
type lightComponent struct{}

func TestBatchSeparatesWriteWriteConflict(t *testing.T) {
	a := System{Name: "a", Writes: []ComponentType{TypeOf[transformComponent]()}}
	b := System{Name: "b", Writes: []ComponentType{TypeOf[transformComponent]()}}

	batches := Batch([]System{a, b})
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 1)
	assert.Len(t, batches[1], 1)
}

func TestBatchSeparatesReadWriteConflict(t *testing.T) {
	reader := System{Name: "reader", Reads: []ComponentType{TypeOf[transformComponent]()}}
	writer := System{Name: "writer", Writes: []ComponentType{TypeOf[transformComponent]()}}

	batches := Batch([]System{writer, reader})
	require.Len(t, batches, 2)
}

func TestBatchMergesDisjointAccess(t *testing.T) {
	movement := System{Name: "movement", Reads: []ComponentType{TypeOf[movementComponent]()}, Writes: []ComponentType{TypeOf[transformComponent]()}}
	lighting := System{Name: "lighting", Reads: []ComponentType{TypeOf[lightComponent]()}}

	batches := Batch([]System{movement, lighting})
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)
}

func TestBatchMergesConcurrentReaders(t *testing.T) {
	a := System{Name: "a", Reads: []ComponentType{TypeOf[transformComponent]()}}
	b := System{Name: "b", Reads: []ComponentType{TypeOf[transformComponent]()}}

	batches := Batch([]System{a, b})
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)
}

func TestBatchHonorsExplicitPredecessorWithNoSharedComponents(t *testing.T) {
	first := System{Name: "first"}
	second := System{Name: "second", After: []string{"first"}}

	batches := Batch([]System{first, second})
	require.Len(t, batches, 2)
	assert.Equal(t, "first", batches[0][0].Name)
	assert.Equal(t, "second", batches[1][0].Name)
}

func TestBatchPredecessorDoesNotDelayUnrelatedSystems(t *testing.T) {
	first := System{Name: "first"}
	second := System{Name: "second", After: []string{"first"}}
	unrelated := System{Name: "unrelated"}

	batches := Batch([]System{first, second, unrelated})
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2) // first and unrelated share batch 0
	assert.Len(t, batches[1], 1)
}

func TestPoolRunPhaseRunsEverySystem(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	var count int32
	systems := make([]System, 0, 8)
	for i := 0; i < 8; i++ {
		systems = append(systems, System{
			Name: "counter",
			Run:  func() { atomic.AddInt32(&count, 1) },
		})
	}

	pool.RunPhase(systems)
	assert.EqualValues(t, 8, count)
}

func TestPoolRunPhaseOrdersBatchesAsBarriers(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	var mu sync.Mutex
	var order []string

	first := System{
		Name:   "first",
		Writes: []ComponentType{TypeOf[transformComponent]()},
		Run: func() {
			mu.Lock()
			order = append(order, "first")
			mu.Unlock()
		},
	}
	second := System{
		Name:  "second",
		Reads: []ComponentType{TypeOf[transformComponent]()},
		Run: func() {
			mu.Lock()
			order = append(order, "second")
			mu.Unlock()
		},
	}

	pool.RunPhase([]System{first, second})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestNewPoolClampsToAtLeastOneWorker(t *testing.T) {
	pool := NewPool(0)
	defer pool.Close()

	var ran bool
	pool.RunPhase([]System{{Name: "only", Run: func() { ran = true }}})
	assert.True(t, ran)
}
