// Package obj reads the Wavefront OBJ subset the core consumes: v/vn/vt
// and triangulated f lines with v/t/n triplets. Groups and objects are
// ignored for geometry purposes; degenerate triangles are dropped, and
// identical (v,vn,vt) triplets are deduplicated into a shared vertex,
// per spec.md §6's external-interface contract.
package obj

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/forgelight/enginecore/internal/mathx"
)

// Vertex is the packed, C-compatible per-vertex attribute record the
// renderer uploads: position, normal, texture coordinates.
type Vertex struct {
	Position mathx.Vec3
	Normal   mathx.Vec3
	UV       [2]float32
}

// Mesh is a dedup'd vertex buffer plus a triangle index buffer.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

type triplet struct {
	v, vt, vn int
}

// Parse reads OBJ text contents into a Mesh.
func Parse(contents string) (Mesh, error) {
	var positions []mathx.Vec3
	var normals []mathx.Vec3
	var uvs [][2]float32

	var vertices []Vertex
	index := make(map[triplet]uint32)
	var indices []uint32

	lines := strings.Split(contents, "\n")
	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		command := tokens[0]
		rest := tokens[1:]

		switch command {
		case "v":
			p, err := parseVec3(rest, lineNum, "v")
			if err != nil {
				return Mesh{}, err
			}
			positions = append(positions, p)

		case "vn":
			n, err := parseVec3(rest, lineNum, "vn")
			if err != nil {
				return Mesh{}, err
			}
			normals = append(normals, n)

		case "vt":
			uv, err := parseVec2(rest, lineNum, "vt")
			if err != nil {
				return Mesh{}, err
			}
			uvs = append(uvs, uv)

		case "f":
			if len(rest) < 3 {
				return Mesh{}, fmt.Errorf("line %d: f needs at least 3 vertices", lineNum)
			}
			faceIndices := make([]uint32, 0, len(rest))
			for _, tok := range rest {
				t, err := parseTriplet(tok, lineNum)
				if err != nil {
					return Mesh{}, err
				}
				idx, ok := index[t]
				if !ok {
					v, err := resolveVertex(t, positions, normals, uvs, lineNum)
					if err != nil {
						return Mesh{}, err
					}
					idx = uint32(len(vertices))
					vertices = append(vertices, v)
					index[t] = idx
				}
				faceIndices = append(faceIndices, idx)
			}
			// fan-triangulate the face, dropping degenerate triangles
			for k := 1; k+1 < len(faceIndices); k++ {
				a, b, c := faceIndices[0], faceIndices[k], faceIndices[k+1]
				if isDegenerate(vertices, a, b, c) {
					continue
				}
				indices = append(indices, a, b, c)
			}

		case "g", "o", "s", "usemtl", "mtllib":
			// groups/objects/smoothing/material bindings ignored for geometry

		default:
			// unknown commands silently ignored
		}
	}

	return Mesh{Vertices: vertices, Indices: indices}, nil
}

func resolveVertex(t triplet, positions, normals []mathx.Vec3, uvs [][2]float32, lineNum int) (Vertex, error) {
	if t.v < 1 || t.v > len(positions) {
		return Vertex{}, fmt.Errorf("line %d: vertex index %d out of range", lineNum, t.v)
	}
	v := Vertex{Position: positions[t.v-1]}
	if t.vn > 0 {
		if t.vn > len(normals) {
			return Vertex{}, fmt.Errorf("line %d: normal index %d out of range", lineNum, t.vn)
		}
		v.Normal = normals[t.vn-1]
	}
	if t.vt > 0 {
		if t.vt > len(uvs) {
			return Vertex{}, fmt.Errorf("line %d: texcoord index %d out of range", lineNum, t.vt)
		}
		v.UV = uvs[t.vt-1]
	}
	return v, nil
}

func isDegenerate(vertices []Vertex, a, b, c uint32) bool {
	if a == b || b == c || a == c {
		return true
	}
	pa, pb, pc := vertices[a].Position, vertices[b].Position, vertices[c].Position
	edge1 := pb.Sub(pa)
	edge2 := pc.Sub(pa)
	return edge1.Cross(edge2).Len() < 1e-12
}

// parseTriplet parses "v", "v/vt", "v//vn", or "v/vt/vn"; missing texcoord
// or normal indices are represented as 0 (OBJ indices are 1-based).
func parseTriplet(tok string, lineNum int) (triplet, error) {
	parts := strings.Split(tok, "/")
	v, err := strconv.Atoi(parts[0])
	if err != nil {
		return triplet{}, fmt.Errorf("line %d: invalid vertex index %q", lineNum, parts[0])
	}
	t := triplet{v: v}
	if len(parts) >= 2 && parts[1] != "" {
		vt, err := strconv.Atoi(parts[1])
		if err != nil {
			return triplet{}, fmt.Errorf("line %d: invalid texcoord index %q", lineNum, parts[1])
		}
		t.vt = vt
	}
	if len(parts) >= 3 && parts[2] != "" {
		vn, err := strconv.Atoi(parts[2])
		if err != nil {
			return triplet{}, fmt.Errorf("line %d: invalid normal index %q", lineNum, parts[2])
		}
		t.vn = vn
	}
	return t, nil
}

func parseVec3(tokens []string, lineNum int, command string) (mathx.Vec3, error) {
	if len(tokens) < 3 {
		return mathx.Vec3{}, fmt.Errorf("line %d: %s needs 3 components", lineNum, command)
	}
	x, err := strconv.ParseFloat(tokens[0], 32)
	if err != nil {
		return mathx.Vec3{}, fmt.Errorf("line %d: %s invalid value %q", lineNum, command, tokens[0])
	}
	y, err := strconv.ParseFloat(tokens[1], 32)
	if err != nil {
		return mathx.Vec3{}, fmt.Errorf("line %d: %s invalid value %q", lineNum, command, tokens[1])
	}
	z, err := strconv.ParseFloat(tokens[2], 32)
	if err != nil {
		return mathx.Vec3{}, fmt.Errorf("line %d: %s invalid value %q", lineNum, command, tokens[2])
	}
	return mathx.Vec3{float32(x), float32(y), float32(z)}, nil
}

func parseVec2(tokens []string, lineNum int, command string) ([2]float32, error) {
	if len(tokens) < 2 {
		return [2]float32{}, fmt.Errorf("line %d: %s needs 2 components", lineNum, command)
	}
	u, err := strconv.ParseFloat(tokens[0], 32)
	if err != nil {
		return [2]float32{}, fmt.Errorf("line %d: %s invalid value %q", lineNum, command, tokens[0])
	}
	v, err := strconv.ParseFloat(tokens[1], 32)
	if err != nil {
		return [2]float32{}, fmt.Errorf("line %d: %s invalid value %q", lineNum, command, tokens[1])
	}
	return [2]float32{float32(u), float32(v)}, nil
}
