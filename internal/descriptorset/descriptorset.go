// Package descriptorset builds the two descriptor-set layouts the pipeline
// table shares (per-frame set 0, per-material set 1) plus the push-constant
// range, and batches descriptor writes the way vulkango/descriptor.go's
// UpdateDescriptorSets is shaped to be called: one batched call per update,
// not one call per binding.
package descriptorset

import (
	"github.com/forgelight/enginecore/vulkango"
)

// PushConstantByteSize is the reserved push-constant range: model matrix
// (64 bytes) + normal matrix (as a 3x4, 48 bytes) + material color (16
// bytes) = 128 bytes, visible to both vertex and fragment stages.
const PushConstantByteSize = 128

// Layouts holds the two shared descriptor-set layouts and the pipeline
// layout built from them plus the push-constant range.
type Layouts struct {
	PerFrame    vulkango.DescriptorSetLayout
	PerMaterial vulkango.DescriptorSetLayout
	Pipeline    vulkango.PipelineLayout
}

// CreateLayouts builds the per-frame (camera + lighting UBO) and
// per-material (material UBO + 6 combined-image-samplers) set layouts, and
// the pipeline layout combining both plus the push-constant range.
func CreateLayouts(device vulkango.Device) (Layouts, error) {
	perFrame, err := device.CreateDescriptorSetLayout(&vulkango.DescriptorSetLayoutCreateInfo{
		Bindings: []vulkango.DescriptorSetLayoutBinding{
			{Binding: 0, DescriptorType: vulkango.DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 1, StageFlags: vulkango.SHADER_STAGE_VERTEX_BIT | vulkango.SHADER_STAGE_FRAGMENT_BIT},
			{Binding: 1, DescriptorType: vulkango.DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 1, StageFlags: vulkango.SHADER_STAGE_FRAGMENT_BIT},
		},
	})
	if err != nil {
		return Layouts{}, err
	}

	materialBindings := []vulkango.DescriptorSetLayoutBinding{
		{Binding: 0, DescriptorType: vulkango.DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 1, StageFlags: vulkango.SHADER_STAGE_FRAGMENT_BIT},
	}
	for binding := uint32(1); binding <= uint32(len(TextureSlotNames())); binding++ {
		materialBindings = append(materialBindings, vulkango.DescriptorSetLayoutBinding{
			Binding: binding, DescriptorType: vulkango.DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, DescriptorCount: 1, StageFlags: vulkango.SHADER_STAGE_FRAGMENT_BIT,
		})
	}
	perMaterial, err := device.CreateDescriptorSetLayout(&vulkango.DescriptorSetLayoutCreateInfo{Bindings: materialBindings})
	if err != nil {
		device.DestroyDescriptorSetLayout(perFrame)
		return Layouts{}, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&vulkango.PipelineLayoutCreateInfo{
		SetLayouts: []vulkango.DescriptorSetLayout{perFrame, perMaterial},
		PushConstantRanges: []vulkango.PushConstantRange{
			{StageFlags: vulkango.SHADER_STAGE_VERTEX_BIT | vulkango.SHADER_STAGE_FRAGMENT_BIT, Offset: 0, Size: PushConstantByteSize},
		},
	})
	if err != nil {
		device.DestroyDescriptorSetLayout(perFrame)
		device.DestroyDescriptorSetLayout(perMaterial)
		return Layouts{}, err
	}

	return Layouts{PerFrame: perFrame, PerMaterial: perMaterial, Pipeline: pipelineLayout}, nil
}

func (l Layouts) Destroy(device vulkango.Device) {
	device.DestroyPipelineLayout(l.Pipeline)
	device.DestroyDescriptorSetLayout(l.PerFrame)
	device.DestroyDescriptorSetLayout(l.PerMaterial)
}

// TextureSlotNames enumerates the six combined-image-sampler bindings of
// the per-material set, in binding order starting at binding 1.
func TextureSlotNames() []string {
	return []string{"baseColor", "normal", "metallicRoughness", "ambientOcclusion", "emission", "opacity"}
}

// DefaultImages holds the two 1x1 fallback images (white, flat-normal) and
// their shared sampler, bound wherever a material omits a texture map:
// FlatNormal for the normal slot, White for every other slot.
type DefaultImages struct {
	White      vulkango.ImageView
	FlatNormal vulkango.ImageView
	Sampler    vulkango.Sampler
}

// TextureSet is one material's six resolved texture bindings, already
// defaulted where the material left a slot empty.
type TextureSet struct {
	BaseColor         vulkango.ImageView
	Normal            vulkango.ImageView
	MetallicRoughness vulkango.ImageView
	AmbientOcclusion  vulkango.ImageView
	Emission          vulkango.ImageView
	Opacity           vulkango.ImageView
}

// Resolve fills any empty ImageView in t with the default image, preferring
// FlatNormal for the normal slot and White for every other slot.
func (t TextureSet) Resolve(defaults DefaultImages) TextureSet {
	fallback := func(v, def vulkango.ImageView) vulkango.ImageView {
		if v == (vulkango.ImageView{}) {
			return def
		}
		return v
	}
	return TextureSet{
		BaseColor:         fallback(t.BaseColor, defaults.White),
		Normal:            fallback(t.Normal, defaults.FlatNormal),
		MetallicRoughness: fallback(t.MetallicRoughness, defaults.White),
		AmbientOcclusion:  fallback(t.AmbientOcclusion, defaults.White),
		Emission:          fallback(t.Emission, defaults.White),
		Opacity:           fallback(t.Opacity, defaults.White),
	}
}

// WriteMaterialSet batches the material UBO write plus all six
// combined-image-sampler writes into a single UpdateDescriptorSets call.
func WriteMaterialSet(device vulkango.Device, set vulkango.DescriptorSet, materialUBO vulkango.DescriptorBufferInfo, textures TextureSet, sampler vulkango.Sampler) {
	views := []vulkango.ImageView{textures.BaseColor, textures.Normal, textures.MetallicRoughness, textures.AmbientOcclusion, textures.Emission, textures.Opacity}

	writes := make([]vulkango.WriteDescriptorSet, 0, 1+len(views))
	writes = append(writes, vulkango.WriteDescriptorSet{
		DstSet: set, DstBinding: 0, DescriptorType: vulkango.DESCRIPTOR_TYPE_UNIFORM_BUFFER,
		BufferInfo: []vulkango.DescriptorBufferInfo{materialUBO},
	})
	for i, view := range views {
		writes = append(writes, vulkango.WriteDescriptorSet{
			DstSet: set, DstBinding: uint32(i + 1), DescriptorType: vulkango.DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER,
			ImageInfo: []vulkango.DescriptorImageInfo{{Sampler: sampler, ImageView: view, ImageLayout: vulkango.IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL}},
		})
	}
	device.UpdateDescriptorSets(writes)
}

// WritePerFrameSet batches the camera and lighting UBO writes for set 0.
func WritePerFrameSet(device vulkango.Device, set vulkango.DescriptorSet, camera, lighting vulkango.DescriptorBufferInfo) {
	device.UpdateDescriptorSets([]vulkango.WriteDescriptorSet{
		{DstSet: set, DstBinding: 0, DescriptorType: vulkango.DESCRIPTOR_TYPE_UNIFORM_BUFFER, BufferInfo: []vulkango.DescriptorBufferInfo{camera}},
		{DstSet: set, DstBinding: 1, DescriptorType: vulkango.DESCRIPTOR_TYPE_UNIFORM_BUFFER, BufferInfo: []vulkango.DescriptorBufferInfo{lighting}},
	})
}
