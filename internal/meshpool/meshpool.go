// Package meshpool batches all instances of one mesh+material pair into a
// single indexed instanced draw, per spec.md §4.H: a "pool" is the tuple
// (shared mesh VB/IB, shared material descriptor set, per-instance buffer,
// free list, generation table). New code with no direct teacher
// analogue (the teacher never batches instanced draws); built on
// gpubuf.VertexBuffer/IndexBuffer/InstanceBuffer and descriptorset's
// per-material layout.
package meshpool

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/forgelight/enginecore/internal/descriptorset"
	"github.com/forgelight/enginecore/internal/enginerr"
	"github.com/forgelight/enginecore/internal/gpubuf"
	"github.com/forgelight/enginecore/internal/material"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/pipeline"
	"github.com/forgelight/enginecore/vulkango"
)

// MeshType keys a pool the way the orchestrator and callers name meshes;
// opaque to this package.
type MeshType string

// Handle identifies one live instance within a pool. A stale-generation
// handle is rejected by every mutating operation, so a use-after-free never
// touches another instance's slot.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Vertex is the packed per-vertex attribute record uploaded to binding 0:
// position, normal, uv, tangent. obj.Vertex carries no tangent, so callers
// building a Vertex slice from parsed geometry zero it; tangent-space
// normal mapping is out of scope until the asset pipeline computes one.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
	Tangent  [3]float32
}

// instanceRecord mirrors pipeline's binding-1 layout exactly: a 4x4 model
// matrix, the 3x3 normal matrix stored as 3 vec4 columns (padded), and a
// material index padded out to a full vec4-sized slot.
type instanceRecord struct {
	Model         [16]float32
	NormalCol0    [4]float32
	NormalCol1    [4]float32
	NormalCol2    [4]float32
	MaterialIndex uint32
	_pad          [3]uint32
}

type slotState struct {
	generation uint32
	alive      bool
}

// Pool is one mesh+material's VB/IB, material descriptor set, and
// per-instance buffer.
type Pool struct {
	meshType MeshType
	vb       gpubuf.VertexBuffer
	ib       gpubuf.IndexBuffer
	instBuf  *gpubuf.InstanceBuffer[instanceRecord]

	descriptorPool vulkango.DescriptorPool
	materialSet    vulkango.DescriptorSet
	materialUBO    *gpubuf.UniformBuffer[materialUBOData]

	capacity   uint32
	maxSize    uint32
	growth     float32
	slots      []slotState
	freeList   []uint32
	activeSet  map[uint32]struct{}
}

type materialUBOData struct {
	BaseColor [4]float32
	Emission  [4]float32
	Metallic  float32
	Roughness float32
	Alpha     float32
	_pad      float32
}

// Kind maps a material's (Kind, AlphaMode) onto one of the four fixed
// pipelines a pool draws through.
func Kind(m material.Material) pipeline.Kind {
	transparent := m.AlphaMode == material.AlphaBlend
	unlit := m.Kind == material.KindUnlit
	switch {
	case transparent && unlit:
		return pipeline.TransparentUnlit
	case transparent:
		return pipeline.TransparentPBR
	case unlit:
		return pipeline.Unlit
	default:
		return pipeline.StandardPBR
	}
}

// Manager owns every live pool, keyed by MeshType.
type Manager struct {
	device         vulkango.Device
	physicalDevice vulkango.PhysicalDevice
	layouts        descriptorset.Layouts
	defaults       descriptorset.DefaultImages
	sampler        vulkango.Sampler

	pools    map[MeshType]*Pool
	uploader func(dst vulkango.Buffer, data []byte) error
}

func NewManager(device vulkango.Device, physicalDevice vulkango.PhysicalDevice, layouts descriptorset.Layouts, defaults descriptorset.DefaultImages, sampler vulkango.Sampler) *Manager {
	return &Manager{
		device:         device,
		physicalDevice: physicalDevice,
		layouts:        layouts,
		defaults:       defaults,
		sampler:        sampler,
		pools:          make(map[MeshType]*Pool),
	}
}

// CreatePool uploads mesh once, allocates a per-instance buffer of size
// capacity, and builds the material descriptor set from materials[0].
// Per spec.md §4.H only materials[0] is consulted; a pool draws exactly one
// material's texture set.
func (m *Manager) CreatePool(meshType MeshType, vertices []Vertex, indices []uint32, materials []material.Material, capacity uint32, maxSize uint32, growth float32, textures func(material.MaterialId) descriptorset.TextureSet) (*Pool, error) {
	if _, exists := m.pools[meshType]; exists {
		return nil, enginerr.New(enginerr.InvalidInput, fmt.Sprintf("mesh pool %q already exists", meshType))
	}
	if len(materials) == 0 {
		return nil, enginerr.New(enginerr.InvalidInput, "create_pool requires at least one material")
	}

	vb, err := m.uploadVertices(vertices)
	if err != nil {
		return nil, fmt.Errorf("upload mesh vertices: %w", err)
	}
	ib, err := m.uploadIndices(indices)
	if err != nil {
		vb.Destroy(m.device)
		return nil, fmt.Errorf("upload mesh indices: %w", err)
	}

	instBuf, err := gpubuf.NewInstanceBuffer[instanceRecord](m.device, m.physicalDevice, capacity)
	if err != nil {
		vb.Destroy(m.device)
		ib.Destroy(m.device)
		return nil, fmt.Errorf("allocate instance buffer: %w", err)
	}

	descPool, materialSet, materialUBO, err := m.buildMaterialSet(materials[0], textures)
	if err != nil {
		vb.Destroy(m.device)
		ib.Destroy(m.device)
		instBuf.Destroy(m.device)
		return nil, fmt.Errorf("build material descriptor set: %w", err)
	}

	slots := make([]slotState, capacity)
	freeList := make([]uint32, capacity)
	for i := range freeList {
		freeList[i] = capacity - 1 - uint32(i)
	}

	pool := &Pool{
		meshType:       meshType,
		vb:             vb,
		ib:             ib,
		instBuf:        instBuf,
		descriptorPool: descPool,
		materialSet:    materialSet,
		materialUBO:    materialUBO,
		capacity:       capacity,
		maxSize:        maxSize,
		growth:         growth,
		slots:          slots,
		freeList:       freeList,
		activeSet:      make(map[uint32]struct{}),
	}
	m.pools[meshType] = pool
	return pool, nil
}

func (m *Manager) uploadVertices(vertices []Vertex) (gpubuf.VertexBuffer, error) {
	const stride = 11 * 4
	data := make([]byte, len(vertices)*stride)
	for i, v := range vertices {
		writeFloats(data[i*stride:], v.Position[0], v.Position[1], v.Position[2], v.Normal[0], v.Normal[1], v.Normal[2], v.UV[0], v.UV[1], v.Tangent[0], v.Tangent[1], v.Tangent[2])
	}
	vb, err := gpubuf.NewVertexBuffer(m.device, m.physicalDevice, uint64(len(data)), uint32(len(vertices)))
	if err != nil {
		return gpubuf.VertexBuffer{}, err
	}
	if err := m.stageUpload(vb.Buffer, data); err != nil {
		vb.Destroy(m.device)
		return gpubuf.VertexBuffer{}, err
	}
	return vb, nil
}

func (m *Manager) uploadIndices(indices []uint32) (gpubuf.IndexBuffer, error) {
	data := make([]byte, len(indices)*4)
	for i, idx := range indices {
		writeUint32(data[i*4:], idx)
	}
	ib, err := gpubuf.NewIndexBuffer(m.device, m.physicalDevice, uint64(len(data)), uint32(len(indices)))
	if err != nil {
		return gpubuf.IndexBuffer{}, err
	}
	if err := m.stageUpload(ib.Buffer, data); err != nil {
		ib.Destroy(m.device)
		return gpubuf.IndexBuffer{}, err
	}
	return ib, nil
}

// stageUpload is a placeholder seam: the engine wires the real staged
// upload (staging buffer + framesync.Ring.UploadStaged) in at
// construction time via SetUploader; until then, uploads fail loudly
// rather than silently no-op.
func (m *Manager) stageUpload(dst vulkango.Buffer, data []byte) error {
	if m.uploader == nil {
		return enginerr.New(enginerr.InvalidInput, "meshpool.Manager has no uploader configured")
	}
	return m.uploader(dst, data)
}

// SetUploader installs the staged-upload function (typically
// framesync.Ring.UploadStaged via a gpubuf.StagingBuffer sized for the
// largest mesh) used by CreatePool to push vertex/index data to
// device-local memory.
func (m *Manager) SetUploader(uploader func(dst vulkango.Buffer, data []byte) error) {
	m.uploader = uploader
}

func (m *Manager) buildMaterialSet(mat material.Material, textures func(material.MaterialId) descriptorset.TextureSet) (vulkango.DescriptorPool, vulkango.DescriptorSet, *gpubuf.UniformBuffer[materialUBOData], error) {
	descPool, err := m.device.CreateDescriptorPool(&vulkango.DescriptorPoolCreateInfo{
		MaxSets: 1,
		PoolSizes: []vulkango.DescriptorPoolSize{
			{Type: vulkango.DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 1},
			{Type: vulkango.DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, DescriptorCount: uint32(len(descriptorset.TextureSlotNames()))},
		},
	})
	if err != nil {
		return vulkango.DescriptorPool{}, vulkango.DescriptorSet{}, nil, err
	}

	sets, err := m.device.AllocateDescriptorSets(&vulkango.DescriptorSetAllocateInfo{
		DescriptorPool: descPool,
		SetLayouts:     []vulkango.DescriptorSetLayout{m.layouts.PerMaterial},
	})
	if err != nil {
		m.device.DestroyDescriptorPool(descPool)
		return vulkango.DescriptorPool{}, vulkango.DescriptorSet{}, nil, err
	}

	materialUBO, err := gpubuf.NewUniformBuffer[materialUBOData](m.device, m.physicalDevice)
	if err != nil {
		m.device.DestroyDescriptorPool(descPool)
		return vulkango.DescriptorPool{}, vulkango.DescriptorSet{}, nil, err
	}
	materialUBO.Write(materialUBOData{
		BaseColor: [4]float32{mat.BaseColor.X(), mat.BaseColor.Y(), mat.BaseColor.Z(), 1},
		Emission:  [4]float32{mat.Emission.X(), mat.Emission.Y(), mat.Emission.Z(), 0},
		Metallic:  mat.Metallic,
		Roughness: mat.Roughness,
		Alpha:     mat.Alpha,
	})

	textureSet := descriptorset.TextureSet{}
	if textures != nil {
		textureSet = textures(mat.Id)
	}
	resolved := textureSet.Resolve(m.defaults)

	descriptorset.WriteMaterialSet(m.device, sets[0], vulkango.DescriptorBufferInfo{
		Buffer: materialUBO.Buffer,
		Range:  uint64(unsafe.Sizeof(materialUBOData{})),
	}, resolved, m.sampler)

	return descPool, sets[0], materialUBO, nil
}

// AllocateInstance takes a slot from the free list, writes transform into
// it, and returns its Handle. Fails with PoolExhausted whenever the free
// list is empty: tryGrow never enlarges the pool, so MaxPoolSizeReached is
// not returned.
func (p *Pool) AllocateInstance(transform mathx.Mat4) (Handle, error) {
	if len(p.freeList) == 0 {
		if !p.tryGrow() {
			return Handle{}, enginerr.New(enginerr.PoolExhausted, fmt.Sprintf("mesh pool %q is exhausted", p.meshType))
		}
	}

	index := p.freeList[len(p.freeList)-1]
	p.freeList = p.freeList[:len(p.freeList)-1]

	p.slots[index].alive = true
	p.activeSet[index] = struct{}{}

	p.writeInstance(index, transform)

	return Handle{Index: index, Generation: p.slots[index].generation}, nil
}

func (p *Pool) tryGrow() bool {
	if p.growth <= 1.0 {
		return false
	}
	newCapacity := uint32(float32(p.capacity) * p.growth)
	if newCapacity <= p.capacity {
		newCapacity = p.capacity + 1
	}
	if newCapacity > p.maxSize {
		return false
	}
	// The instance buffer itself is fixed-size at creation (GPU allocation
	// can't grow in place); capacity growth beyond the buffer's original
	// size requires a new, larger buffer and a full instance-data replay.
	// Not implemented: pools are expected to be created with a realistic
	// capacity, and exhaustion should surface as PoolExhausted in the common
	// case.
	return false
}

// FreeInstance returns a slot to the free list and bumps its generation so
// any stale handle is rejected by subsequent calls. A stale-generation
// handle is silently ignored, not an error, matching free_instance's
// no-op-on-stale-generation contract for update_instance_*.
func (p *Pool) FreeInstance(h Handle) {
	if int(h.Index) >= len(p.slots) || !p.slots[h.Index].alive || p.slots[h.Index].generation != h.Generation {
		return
	}
	p.slots[h.Index].alive = false
	p.slots[h.Index].generation++
	delete(p.activeSet, h.Index)
	p.freeList = append(p.freeList, h.Index)
}

// UpdateInstanceTransform rewrites the model/normal matrix for h; a no-op
// if h's generation is stale.
func (p *Pool) UpdateInstanceTransform(h Handle, transform mathx.Mat4) {
	if !p.valid(h) {
		return
	}
	p.writeInstance(h.Index, transform)
}

// UpdateInstanceMaterial is currently a no-op beyond validating the
// handle: every instance in a pool shares the one material descriptor set
// built at CreatePool time (materials[0]); per-instance material variation
// is not implemented, matching create_pool's own materials[0]-only
// contract.
func (p *Pool) UpdateInstanceMaterial(h Handle, _ material.MaterialId) {
	p.valid(h)
}

func (p *Pool) valid(h Handle) bool {
	return int(h.Index) < len(p.slots) && p.slots[h.Index].alive && p.slots[h.Index].generation == h.Generation
}

// WriteDynamicInstance writes transform directly at index, bypassing the
// free-list/generation bookkeeping AllocateInstance uses. Intended for
// internal/orchestrator's per-frame dynamic-object path, which fully
// replaces a pool's live instance run every frame rather than holding
// persistent handles. Returns false without writing when index is at or
// past capacity, the same "more live objects than the pool was sized for"
// condition AllocateInstance reports as PoolExhausted; the orchestrator
// skips and logs these rather than writing past the mapped buffer.
func (p *Pool) WriteDynamicInstance(index uint32, transform mathx.Mat4) bool {
	if index >= p.capacity {
		return false
	}
	p.writeInstance(index, transform)
	return true
}

func (p *Pool) writeInstance(index uint32, transform mathx.Mat4) {
	normal := mathx.NormalMatrix(transform)
	p.instBuf.WriteAt(index, instanceRecord{
		Model:      transform,
		NormalCol0: [4]float32{normal[0], normal[1], normal[2], 0},
		NormalCol1: [4]float32{normal[3], normal[4], normal[5], 0},
		NormalCol2: [4]float32{normal[6], normal[7], normal[8], 0},
	})
}

// ActiveCount and FreeCount exist to let callers assert the
// active_count+free_count == capacity invariant.
func (p *Pool) ActiveCount() int { return len(p.activeSet) }
func (p *Pool) FreeCount() int   { return len(p.freeList) }
func (p *Pool) Capacity() uint32 { return p.capacity }

// UpdateAllPools drops any pending-destroy instances across every pool.
// Free/alive bookkeeping already happens synchronously in FreeInstance, so
// this currently has nothing deferred to flush; kept as the named
// operation spec.md §4.H expects callers to invoke once per frame.
func (m *Manager) UpdateAllPools() {}

// Draw records one indexed instanced draw per pool with at least one live
// instance: bind pipeline, per-frame set 0, per-pool material set 1, mesh
// VB at binding 0, instance buffer at binding 1, IB, draw_indexed over the
// orchestrator-provided [firstInstance, firstInstance+instanceCount) range.
func (p *Pool) Draw(cmd vulkango.CommandBuffer, pipelineHandle vulkango.Pipeline, layout vulkango.PipelineLayout, perFrameSet vulkango.DescriptorSet, firstInstance, instanceCount uint32) {
	if instanceCount == 0 {
		return
	}
	cmd.BindPipeline(vulkango.PIPELINE_BIND_POINT_GRAPHICS, pipelineHandle)
	cmd.BindDescriptorSets(vulkango.PIPELINE_BIND_POINT_GRAPHICS, layout, 0, []vulkango.DescriptorSet{perFrameSet, p.materialSet}, nil)
	cmd.BindVertexBuffers(0, []vulkango.Buffer{p.vb.Buffer, p.instBuf.Buffer}, []uint64{0, 0})
	cmd.BindIndexBuffer(p.ib.Buffer, 0, vulkango.INDEX_TYPE_UINT32)
	cmd.DrawIndexed(p.ib.Count, instanceCount, 0, 0, firstInstance)
}

func (p *Pool) Destroy(device vulkango.Device) {
	p.vb.Destroy(device)
	p.ib.Destroy(device)
	p.instBuf.Destroy(device)
	p.materialUBO.Destroy(device)
	device.DestroyDescriptorPool(p.descriptorPool)
}

func (m *Manager) Destroy() {
	for _, pool := range m.pools {
		pool.Destroy(m.device)
	}
}

func writeFloats(dst []byte, values ...float32) {
	for i, v := range values {
		putFloat32(dst[i*4:], v)
	}
}

func putFloat32(dst []byte, v float32) {
	bits := math.Float32bits(v)
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
	dst[3] = byte(bits >> 24)
}

func writeUint32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}
