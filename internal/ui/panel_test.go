package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePanelQuadsSixVerticesPerPanel(t *testing.T) {
	panels := []Panel{
		{X: 0, Y: 0, Width: 10, Height: 10, Color: [4]float32{1, 0, 0, 1}},
		{X: 5, Y: 5, Width: 20, Height: 20, Color: [4]float32{0, 1, 0, 1}},
	}
	vertices := generatePanelQuads(panels)
	assert.Len(t, vertices, 12)
}

func TestGeneratePanelQuadsCoversCorners(t *testing.T) {
	vertices := generatePanelQuads([]Panel{{X: 1, Y: 2, Width: 3, Height: 4, Color: [4]float32{1, 1, 1, 1}}})
	// top-left, top-right, bottom-right, top-left, bottom-right, bottom-left
	assert.Equal(t, float32(1), vertices[0].PosX)
	assert.Equal(t, float32(2), vertices[0].PosY)
	assert.Equal(t, float32(4), vertices[1].PosX)
	assert.Equal(t, float32(6), vertices[2].PosY)
}

func TestGeneratePanelQuadsEmpty(t *testing.T) {
	assert.Empty(t, generatePanelQuads(nil))
}
