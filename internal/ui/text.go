package ui

// TextDraw is one string to lay out at (X, Y) in screen-space pixels, top-
// left origin, at FontSize pixels tall, tinted Color.
type TextDraw struct {
	Content  string
	X, Y     float32
	FontSize float32
	Color    [4]float32
}

// nativePixelHeight is the size BuildAtlas baked the font at; FontSize
// scales the baked glyph metrics relative to it, the same ratio
// vala/systems/text.go's GenerateTextQuads computes from atlas.FontSize.
const nativePixelHeight = 48.0

// MeasureText returns the pixel width text.Content would occupy at
// fontSize, summing each baked glyph's advance. Used to center labels
// before generating their quads.
func MeasureText(atlas *Atlas, content string, fontSize float32) float32 {
	scale := fontSize / nativePixelHeight
	var width float32
	for _, r := range content {
		g, ok := atlas.Glyph(r)
		if !ok {
			continue
		}
		width += g.XAdvance * scale
	}
	return width
}

// generateTextQuads lays out one string's glyph quads left to right from
// (x, y), returning vertices and indices ready to append into a shared
// per-frame buffer; baseIndex offsets the index values so multiple strings
// can be concatenated into one draw.
func generateTextQuads(atlas *Atlas, draw TextDraw, baseIndex uint32) ([]glyphVertex, []uint32) {
	scale := draw.FontSize / nativePixelHeight
	vertices := make([]glyphVertex, 0, len(draw.Content)*4)
	indices := make([]uint32, 0, len(draw.Content)*6)

	cursorX := draw.X
	cursorY := draw.Y
	next := baseIndex

	for _, r := range draw.Content {
		g, ok := atlas.Glyph(r)
		if !ok {
			continue
		}

		x0 := cursorX + g.XOffset*scale
		y0 := cursorY + g.YOffset*scale
		x1 := x0 + g.Width*scale
		y1 := y0 + g.Height*scale

		vertices = append(vertices,
			glyphVertex{PosX: x0, PosY: y0, U: g.U0, V: g.V0},
			glyphVertex{PosX: x1, PosY: y0, U: g.U1, V: g.V0},
			glyphVertex{PosX: x1, PosY: y1, U: g.U1, V: g.V1},
			glyphVertex{PosX: x0, PosY: y1, U: g.U0, V: g.V1},
		)
		indices = append(indices,
			next+0, next+1, next+2,
			next+0, next+2, next+3,
		)

		cursorX += g.XAdvance * scale
		next += 4
	}

	return vertices, indices
}
