// Package material converts parsed MTL data into the engine's PBR-facing
// Material and caches materials per (mtl path, material name) keyed on disk
// mtime, mirroring original_source's material_cache.rs.
package material

import (
	"hash/fnv"
	"math"

	"github.com/forgelight/enginecore/internal/asset/mtl"
	"github.com/forgelight/enginecore/internal/mathx"
)

// MaterialId is a stable 32-bit identifier derived from a material's
// (path, name), used as a hash input for mesh-pool keys.
type MaterialId uint32

type Kind int

const (
	KindStandardPBR Kind = iota
	KindUnlit
	KindTransparent
)

type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaBlend
)

// Material is the tagged-variant material record the renderer consumes.
// StandardPBR/Unlit/Transparent share the same struct; Kind selects which
// fields the pipeline-selection logic (internal/pipeline) honors.
type Material struct {
	Id   MaterialId
	Kind Kind

	BaseColor mathx.Vec3
	Emission  mathx.Vec3
	Metallic  float32
	Roughness float32
	Alpha     float32
	AlphaMode AlphaMode

	BaseColorMap         string
	NormalMap            string
	MetallicRoughnessMap string
	AmbientOcclusionMap  string
	EmissionMap          string
	OpacityMap           string
}

// NewId derives a stable MaterialId from an MTL path and material name.
func NewId(mtlPath, name string) MaterialId {
	h := fnv.New32a()
	h.Write([]byte(mtlPath))
	h.Write([]byte{0})
	h.Write([]byte(name))
	return MaterialId(h.Sum32())
}

// FromMtl derives a StandardPBR (or Transparent, if dissolve < 1) Material
// from Wavefront Phong data. Metallic/roughness are derived from the
// specular color and exponent the way common Phong->PBR conversions do:
// roughness from the Blinn-Phong exponent, metallic from specular
// intensity relative to diffuse.
func FromMtl(mtlPath string, d mtl.Data) Material {
	roughness := specularExponentToRoughness(d.SpecularExponent)
	metallic := specularToMetallic(d.Specular, d.Diffuse)

	kind := KindStandardPBR
	alphaMode := AlphaOpaque
	if d.Dissolve < 1.0 {
		kind = KindTransparent
		alphaMode = AlphaBlend
	}

	return Material{
		Id:                   NewId(mtlPath, d.Name),
		Kind:                 kind,
		BaseColor:            d.Diffuse,
		Emission:             d.Emission,
		Metallic:             metallic,
		Roughness:            roughness,
		Alpha:                d.Dissolve,
		AlphaMode:            alphaMode,
		BaseColorMap:         d.DiffuseMap,
		NormalMap:            d.NormalMap,
		MetallicRoughnessMap: d.MetallicRoughnessMap,
		AmbientOcclusionMap:  d.AmbientOcclusionMap,
		EmissionMap:          d.EmissionMap,
		OpacityMap:           "",
	}
}

func specularExponentToRoughness(ns float32) float32 {
	if ns < 0 {
		ns = 0
	}
	if ns > 1000 {
		ns = 1000
	}
	r := float32(math.Sqrt(2.0 / (float64(ns) + 2.0)))
	if r > 1 {
		r = 1
	}
	if r < 0 {
		r = 0
	}
	return r
}

func specularToMetallic(specular, diffuse mathx.Vec3) float32 {
	specLuma := luminance(specular)
	diffLuma := luminance(diffuse)
	if specLuma+diffLuma == 0 {
		return 0
	}
	m := specLuma / (specLuma + diffLuma)
	if m > 1 {
		m = 1
	}
	if m < 0 {
		m = 0
	}
	return m
}

func luminance(c mathx.Vec3) float32 {
	return 0.2126*c.X() + 0.7152*c.Y() + 0.0722*c.Z()
}
