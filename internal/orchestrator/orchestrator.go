// Package orchestrator groups one frame's live dynamic objects by pipeline,
// uploads each pool's instance data once, and issues sorted draws: opaque
// front-to-back for early-depth rejection, transparent back-to-front for
// correct alpha compositing without order-independent transparency. New
// code (spec.md §4.I has no teacher analogue — the teacher never batches
// or sorts draws), built on meshpool.Pool and pipeline.Kind.
package orchestrator

import (
	"sort"

	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/material"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/meshpool"
	"github.com/forgelight/enginecore/internal/pipeline"
	"github.com/forgelight/enginecore/vulkango"
)

// DynamicRenderData is one live dynamic object's per-frame render state.
type DynamicRenderData struct {
	MeshType  meshpool.MeshType
	Transform mathx.Mat4
	Material  material.Material
}

// PoolLookup resolves a MeshType to the pool that draws it. A miss is not
// an error: the orchestrator skips that object and logs it once per frame,
// per spec.md §4.I's failure contract.
type PoolLookup func(meshpool.MeshType) (*meshpool.Pool, bool)

// Logger receives at most one line per frame per missed mesh type,
// regardless of how many objects referenced it.
type Logger func(meshType meshpool.MeshType, count int)

const bucketCount = 4 // pipeline.StandardPBR..pipeline.TransparentUnlit

type bucketed struct {
	data  DynamicRenderData
	pool  *meshpool.Pool
	kind  pipeline.Kind
	viewZ float32
}

// DrawCall is one contiguous instanced draw: instances [FirstInstance,
// FirstInstance+InstanceCount) of Pool, already written into the
// per-instance buffer in the orchestrator's sorted order.
type DrawCall struct {
	Pool          *meshpool.Pool
	PipelineKind  pipeline.Kind
	FirstInstance uint32
	InstanceCount uint32
}

// Submit groups objects by pipeline.Kind, sorts each group by camera-space
// depth, writes sorted instance data into each pool's per-instance buffer
// starting at index 0 (a dynamic frame fully replaces the prior one, so
// the buffer never re-uploads mid-frame), and returns the draw plan.
// Consecutive objects against the same pool and pipeline merge into a
// single instanced draw, so a pipeline switch within the transparent stream
// flushes the current batch.
func Submit(objects map[ecs.Entity]DynamicRenderData, cameraPos, cameraForward mathx.Vec3, lookup PoolLookup, logMisses Logger) []DrawCall {
	var buckets [bucketCount][]bucketed
	missed := map[meshpool.MeshType]int{}

	for _, data := range objects {
		pool, ok := lookup(data.MeshType)
		if !ok {
			missed[data.MeshType]++
			continue
		}
		translation := mathx.Vec3{data.Transform[12], data.Transform[13], data.Transform[14]}
		viewZ := translation.Sub(cameraPos).Dot(cameraForward)

		kind := meshpool.Kind(data.Material)
		buckets[kind] = append(buckets[kind], bucketed{data: data, pool: pool, kind: kind, viewZ: viewZ})
	}

	sortAscending(buckets[pipeline.StandardPBR])
	sortAscending(buckets[pipeline.Unlit])

	transparent := append(append([]bucketed{}, buckets[pipeline.TransparentPBR]...), buckets[pipeline.TransparentUnlit]...)
	sortDescending(transparent)

	// missed also collects objects dropped because more live instances
	// routed to a pool this frame than its instance buffer has capacity
	// for, so both failure modes surface through the one per-frame log.
	var calls []DrawCall
	calls = append(calls, writeAndPlan(buckets[pipeline.StandardPBR], missed)...)
	calls = append(calls, writeAndPlan(buckets[pipeline.Unlit], missed)...)
	calls = append(calls, writeAndPlan(transparent, missed)...)

	if logMisses != nil {
		for meshType, count := range missed {
			logMisses(meshType, count)
		}
	}

	return calls
}

func sortAscending(objs []bucketed) {
	sort.Slice(objs, func(i, j int) bool { return objs[i].viewZ < objs[j].viewZ })
}

func sortDescending(objs []bucketed) {
	sort.Slice(objs, func(i, j int) bool { return objs[i].viewZ > objs[j].viewZ })
}

// writeAndPlan writes objs into their pools' instance buffers starting at
// index 0 per pool and plans the resulting draw calls. An object that would
// land at or past its pool's capacity is skipped and tallied into missed
// instead of written, so a scene that outgrows a pool's sizing degrades to
// under-drawing that frame rather than writing past the mapped buffer.
func writeAndPlan(objs []bucketed, missed map[meshpool.MeshType]int) []DrawCall {
	var calls []DrawCall
	perPoolNext := map[*meshpool.Pool]uint32{}

	var current *DrawCall
	for _, b := range objs {
		index := perPoolNext[b.pool]
		if !b.pool.WriteDynamicInstance(index, b.data.Transform) {
			missed[b.data.MeshType]++
			continue
		}
		perPoolNext[b.pool] = index + 1

		if current != nil && current.Pool == b.pool && current.PipelineKind == b.kind {
			current.InstanceCount++
			continue
		}
		if current != nil {
			calls = append(calls, *current)
		}
		current = &DrawCall{Pool: b.pool, PipelineKind: b.kind, FirstInstance: index, InstanceCount: 1}
	}
	if current != nil {
		calls = append(calls, *current)
	}
	return calls
}

// Draw issues every planned draw call in order against cmd.
func Draw(cmd vulkango.CommandBuffer, calls []DrawCall, table *pipeline.Table, layout vulkango.PipelineLayout, perFrameSet vulkango.DescriptorSet) {
	for _, call := range calls {
		call.Pool.Draw(cmd, table.Get(call.PipelineKind), layout, perFrameSet, call.FirstInstance, call.InstanceCount)
	}
}
