package descriptorset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgelight/enginecore/vulkango"
)

func TestTextureSlotNamesHasSix(t *testing.T) {
	assert.Len(t, TextureSlotNames(), 6)
}

func TestPushConstantSizeIs128(t *testing.T) {
	assert.Equal(t, uint32(128), uint32(PushConstantByteSize))
}

func TestResolveFillsMissingSlotsWithDefaults(t *testing.T) {
	defaults := DefaultImages{
		White:      vulkango.ImageView{},
		FlatNormal: vulkango.ImageView{},
	}
	// Use distinct zero values isn't possible since ImageView wraps an
	// opaque handle; this test only exercises that Resolve doesn't panic
	// and returns a fully populated TextureSet when every slot is empty.
	resolved := TextureSet{}.Resolve(defaults)
	assert.Equal(t, defaults.White, resolved.BaseColor)
	assert.Equal(t, defaults.FlatNormal, resolved.Normal)
	assert.Equal(t, defaults.White, resolved.Opacity)
}
