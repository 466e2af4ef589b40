package ui

// Panel is one solid-color screen-space rectangle, top-left origin.
type Panel struct {
	X, Y, Width, Height float32
	Color               [4]float32
}

// generatePanelQuads emits two triangles (6 vertices, no index buffer) per
// panel directly, since a panel batch has no shared-vertex structure worth
// indexing.
func generatePanelQuads(panels []Panel) []panelVertex {
	vertices := make([]panelVertex, 0, len(panels)*6)
	for _, p := range panels {
		x0, y0 := p.X, p.Y
		x1, y1 := p.X+p.Width, p.Y+p.Height
		tl := panelVertex{PosX: x0, PosY: y0, Color: p.Color}
		tr := panelVertex{PosX: x1, PosY: y0, Color: p.Color}
		br := panelVertex{PosX: x1, PosY: y1, Color: p.Color}
		bl := panelVertex{PosX: x0, PosY: y1, Color: p.Color}
		vertices = append(vertices, tl, tr, br, tl, br, bl)
	}
	return vertices
}
