package ui

import (
	"github.com/forgelight/enginecore/internal/gpubuf"
	"github.com/forgelight/enginecore/vulkango"
)

// glyphVertex mirrors vala/systems/text.go's TextVertex: screen-space
// position plus atlas UV, 16 bytes.
type glyphVertex struct {
	PosX, PosY float32
	U, V       float32
}

// panelVertex is a screen-space position plus an RGBA color, 24 bytes.
type panelVertex struct {
	PosX, PosY float32
	Color      [4]float32
}

func newFrameBuffers(device vulkango.Device, physicalDevice vulkango.PhysicalDevice) (frameBuffers, error) {
	textVB, err := gpubuf.NewDynamicBuffer[glyphVertex](device, physicalDevice, MaxGlyphs*4, vulkango.BUFFER_USAGE_VERTEX_BUFFER_BIT)
	if err != nil {
		return frameBuffers{}, err
	}
	textIB, err := gpubuf.NewDynamicBuffer[uint32](device, physicalDevice, MaxGlyphs*6, vulkango.BUFFER_USAGE_INDEX_BUFFER_BIT)
	if err != nil {
		textVB.Destroy(device)
		return frameBuffers{}, err
	}
	panelVB, err := gpubuf.NewDynamicBuffer[panelVertex](device, physicalDevice, MaxPanels*6, vulkango.BUFFER_USAGE_VERTEX_BUFFER_BIT)
	if err != nil {
		textVB.Destroy(device)
		textIB.Destroy(device)
		return frameBuffers{}, err
	}
	return frameBuffers{textVB: textVB, textIB: textIB, panelVB: panelVB}, nil
}

func (fb frameBuffers) destroy(device vulkango.Device) {
	if fb.textVB != nil {
		fb.textVB.Destroy(device)
	}
	if fb.textIB != nil {
		fb.textIB.Destroy(device)
	}
	if fb.panelVB != nil {
		fb.panelVB.Destroy(device)
	}
}
