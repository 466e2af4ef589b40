package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStringNamesAllFour(t *testing.T) {
	assert.Equal(t, "StandardPBR", StandardPBR.String())
	assert.Equal(t, "Unlit", Unlit.String())
	assert.Equal(t, "TransparentPBR", TransparentPBR.String())
	assert.Equal(t, "TransparentUnlit", TransparentUnlit.String())
}

func TestIsTransparentSplitsTableInTwo(t *testing.T) {
	assert.False(t, StandardPBR.IsTransparent())
	assert.False(t, Unlit.IsTransparent())
	assert.True(t, TransparentPBR.IsTransparent())
	assert.True(t, TransparentUnlit.IsTransparent())
}

func TestIsLitMatchesPBRKinds(t *testing.T) {
	assert.True(t, StandardPBR.IsLit())
	assert.True(t, TransparentPBR.IsLit())
	assert.False(t, Unlit.IsLit())
	assert.False(t, TransparentUnlit.IsLit())
}

func TestVertexInputStateHasTwoBindings(t *testing.T) {
	vis := vertexInputState()
	assert.Len(t, vis.Bindings, 2)
	assert.EqualValues(t, perVertexStride, vis.Bindings[0].Stride)
	assert.EqualValues(t, perInstanceStride, vis.Bindings[1].Stride)
}

func TestVertexInputStateAttributesCoverBothBindings(t *testing.T) {
	vis := vertexInputState()
	var binding0, binding1 int
	for _, a := range vis.Attributes {
		switch a.Binding {
		case 0:
			binding0++
		case 1:
			binding1++
		}
	}
	assert.Equal(t, 4, binding0)
	assert.Equal(t, 8, binding1)
}
