package mtl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleMaterial(t *testing.T) {
	content := `
# Simple material
newmtl TestMaterial
Ka 1.0 1.0 1.0
Kd 0.8 0.2 0.2
Ks 0.5 0.5 0.5
Ns 250.0
d 1.0
illum 2
`
	materials, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, materials, 1)

	mat := materials["TestMaterial"]
	assert.Equal(t, "TestMaterial", mat.Name)
	assert.Equal(t, float32(0.8), mat.Diffuse.X())
	assert.Equal(t, float32(0.2), mat.Diffuse.Y())
	assert.Equal(t, float32(250.0), mat.SpecularExponent)
	assert.Equal(t, float32(1.0), mat.Dissolve)
}

func TestParseMaterialWithTextures(t *testing.T) {
	content := `
newmtl TexturedMaterial
Kd 1.0 1.0 1.0
map_Kd textures/diffuse.png
map_Bump textures/normal.png
map_Ke textures/emission.png
`
	materials, err := Parse(content)
	require.NoError(t, err)
	mat := materials["TexturedMaterial"]

	assert.Equal(t, "textures/diffuse.png", mat.DiffuseMap)
	assert.Equal(t, "textures/normal.png", mat.NormalMap)
	assert.Equal(t, "textures/emission.png", mat.EmissionMap)
}

func TestParseMultipleMaterials(t *testing.T) {
	content := `
newmtl Material1
Kd 1.0 0.0 0.0

newmtl Material2
Kd 0.0 1.0 0.0
`
	materials, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, materials, 2)

	assert.Equal(t, float32(1.0), materials["Material1"].Diffuse.X())
	assert.Equal(t, float32(1.0), materials["Material2"].Diffuse.Y())
}

func TestParseTransparencyInvertsDissolve(t *testing.T) {
	content := "newmtl TransparentMat\nTr 0.3\n"
	materials, err := Parse(content)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, materials["TransparentMat"].Dissolve, 0.001)
}

func TestParseUnknownCommandIgnored(t *testing.T) {
	content := "newmtl M\nNi 1.45\nsharpness 60\nKd 1 0 0\n"
	materials, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, float32(1), materials["M"].Diffuse.X())
}

func TestParseMissingValueFailsWithLineNumber(t *testing.T) {
	content := "newmtl M\nKd 1.0 0.0\n"
	_, err := Parse(content)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseTexturePathWithSpaces(t *testing.T) {
	content := "newmtl M\nmap_Kd some dir/diffuse map.png\n"
	materials, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "some dir/diffuse map.png", materials["M"].DiffuseMap)
}
