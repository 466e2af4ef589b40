package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAtlas() *Atlas {
	a := &Atlas{FirstChar: firstChar}
	for i := range a.Glyphs {
		a.Glyphs[i] = Glyph{
			U0: 0, V0: 0, U1: 0.1, V1: 0.1,
			Width: 10, Height: 10,
			XOffset: 0, YOffset: 0,
			XAdvance: nativePixelHeight / 2, // 24px advance at native size
		}
	}
	return a
}

func TestGlyphLookupRejectsOutOfRange(t *testing.T) {
	a := testAtlas()
	_, ok := a.Glyph(rune(firstChar - 1))
	assert.False(t, ok)
	_, ok = a.Glyph(rune(firstChar + numChars))
	assert.False(t, ok)
}

func TestGlyphLookupAcceptsInRange(t *testing.T) {
	a := testAtlas()
	g, ok := a.Glyph('A')
	require.True(t, ok)
	assert.Equal(t, float32(10), g.Width)
}

func TestMeasureTextSumsAdvances(t *testing.T) {
	a := testAtlas()
	width := MeasureText(a, "abc", nativePixelHeight)
	assert.Equal(t, float32(3)*(nativePixelHeight/2), width)
}

func TestGenerateTextQuadsProducesFourVerticesPerChar(t *testing.T) {
	a := testAtlas()
	vertices, indices := generateTextQuads(a, TextDraw{Content: "hi", X: 0, Y: 0, FontSize: nativePixelHeight}, 0)
	assert.Len(t, vertices, 8)
	assert.Len(t, indices, 12)
}

func TestGenerateTextQuadsAdvancesCursor(t *testing.T) {
	a := testAtlas()
	vertices, _ := generateTextQuads(a, TextDraw{Content: "ab", X: 0, Y: 0, FontSize: nativePixelHeight}, 0)
	require.Len(t, vertices, 8)
	assert.Equal(t, float32(0), vertices[0].PosX)
	assert.Equal(t, float32(nativePixelHeight/2), vertices[4].PosX)
}

func TestGenerateTextQuadsRespectsBaseIndex(t *testing.T) {
	a := testAtlas()
	_, indices := generateTextQuads(a, TextDraw{Content: "a", X: 0, Y: 0, FontSize: nativePixelHeight}, 100)
	for _, idx := range indices {
		assert.GreaterOrEqual(t, idx, uint32(100))
	}
}

func TestGenerateTextQuadsSkipsUnbakedRunes(t *testing.T) {
	a := testAtlas()
	vertices, _ := generateTextQuads(a, TextDraw{Content: "a\x01b", X: 0, Y: 0, FontSize: nativePixelHeight}, 0)
	assert.Len(t, vertices, 8) // \x01 falls outside [firstChar, firstChar+numChars)
}
