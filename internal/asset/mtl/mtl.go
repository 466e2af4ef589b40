// Package mtl parses Wavefront .mtl files into Data records keyed by
// material name. Parsing follows the command-by-command token scan of
// the original MTL parser: unknown commands are ignored, comments and
// blank lines are skipped, and value errors report a 1-based line number.
package mtl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/forgelight/enginecore/internal/mathx"
)

// Data is one newmtl block's parsed Phong-model material data.
type Data struct {
	Name string

	Ambient  mathx.Vec3 // Ka
	Diffuse  mathx.Vec3 // Kd
	Specular mathx.Vec3 // Ks
	Emission mathx.Vec3 // Ke

	SpecularExponent float32 // Ns, 0..1000
	Dissolve         float32 // d, 0..1 (Tr is stored as 1-Tr)
	IlluminationModel uint32  // illum, 0..10

	DiffuseMap             string
	SpecularMap            string
	NormalMap              string // map_Bump or bump
	EmissionMap            string // map_Ke
	MetallicRoughnessMap   string // map_Pr / map_Pm
	AmbientOcclusionMap    string // map_Ka
}

func defaultData(name string) Data {
	return Data{
		Name:              name,
		Ambient:           mathx.Vec3{1, 1, 1},
		Diffuse:           mathx.Vec3{0.8, 0.8, 0.8},
		Specular:          mathx.Vec3{0.5, 0.5, 0.5},
		Emission:          mathx.Vec3{0, 0, 0},
		SpecularExponent:  250.0,
		Dissolve:          1.0,
		IlluminationModel: 2,
	}
}

// Parse reads the text contents of an .mtl file into name -> Data.
func Parse(contents string) (map[string]Data, error) {
	materials := make(map[string]Data)
	var current *Data

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
		case "newmtl":
			if current != nil {
				materials[current.Name] = *current
			}
			if len(rest) < 1 {
				return nil, fmt.Errorf("line %d: newmtl missing material name", lineNum)
			}
			d := defaultData(rest[0])
			current = &d

		case "Ka":
			if current != nil {
				v, err := parseVec3(rest, lineNum, "Ka")
				if err != nil {
					return nil, err
				}
				current.Ambient = v
			}

		case "Kd":
			if current != nil {
				v, err := parseVec3(rest, lineNum, "Kd")
				if err != nil {
					return nil, err
				}
				current.Diffuse = v
			}

		case "Ks":
			if current != nil {
				v, err := parseVec3(rest, lineNum, "Ks")
				if err != nil {
					return nil, err
				}
				current.Specular = v
			}

		case "Ke":
			if current != nil {
				v, err := parseVec3(rest, lineNum, "Ke")
				if err != nil {
					return nil, err
				}
				current.Emission = v
			}

		case "Ns":
			if current != nil {
				v, err := parseF32(rest, lineNum, "Ns")
				if err != nil {
					return nil, err
				}
				current.SpecularExponent = v
			}

		case "d":
			if current != nil {
				v, err := parseF32(rest, lineNum, "d")
				if err != nil {
					return nil, err
				}
				current.Dissolve = v
			}

		case "Tr":
			if current != nil {
				v, err := parseF32(rest, lineNum, "Tr")
				if err != nil {
					return nil, err
				}
				current.Dissolve = 1.0 - v
			}

		case "illum":
			if current != nil {
				v, err := parseU32(rest, lineNum, "illum")
				if err != nil {
					return nil, err
				}
				current.IlluminationModel = v
			}

		case "map_Kd":
			if current != nil {
				v, err := parseTexturePath(rest, lineNum, "map_Kd")
				if err != nil {
					return nil, err
				}
				current.DiffuseMap = v
			}

		case "map_Ks":
			if current != nil {
				v, err := parseTexturePath(rest, lineNum, "map_Ks")
				if err != nil {
					return nil, err
				}
				current.SpecularMap = v
			}

		case "map_Bump", "bump":
			if current != nil {
				v, err := parseTexturePath(rest, lineNum, command)
				if err != nil {
					return nil, err
				}
				current.NormalMap = v
			}

		case "map_Ke":
			if current != nil {
				v, err := parseTexturePath(rest, lineNum, "map_Ke")
				if err != nil {
					return nil, err
				}
				current.EmissionMap = v
			}

		case "map_Ka":
			if current != nil {
				v, err := parseTexturePath(rest, lineNum, "map_Ka")
				if err != nil {
					return nil, err
				}
				current.AmbientOcclusionMap = v
			}

		case "map_Pr", "map_Pm":
			if current != nil {
				v, err := parseTexturePath(rest, lineNum, command)
				if err != nil {
					return nil, err
				}
				current.MetallicRoughnessMap = v
			}

		default:
			// unknown commands (Ni, sharpness, map_d, ...) are ignored
		}
	}

	if current != nil {
		materials[current.Name] = *current
	}

	return materials, nil
}

func parseF32(tokens []string, lineNum int, command string) (float32, error) {
	if len(tokens) < 1 {
		return 0, fmt.Errorf("line %d: %s missing value", lineNum, command)
	}
	v, err := strconv.ParseFloat(tokens[0], 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s invalid float value '%s'", lineNum, command, tokens[0])
	}
	return float32(v), nil
}

func parseU32(tokens []string, lineNum int, command string) (uint32, error) {
	if len(tokens) < 1 {
		return 0, fmt.Errorf("line %d: %s missing value", lineNum, command)
	}
	v, err := strconv.ParseUint(tokens[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s invalid integer value '%s'", lineNum, command, tokens[0])
	}
	return uint32(v), nil
}

func parseVec3(tokens []string, lineNum int, command string) (mathx.Vec3, error) {
	r, err := parseF32(tokens, lineNum, command)
	if err != nil {
		return mathx.Vec3{}, err
	}
	if len(tokens) < 2 {
		return mathx.Vec3{}, fmt.Errorf("line %d: %s missing value", lineNum, command)
	}
	g, err := parseF32(tokens[1:], lineNum, command)
	if err != nil {
		return mathx.Vec3{}, err
	}
	if len(tokens) < 3 {
		return mathx.Vec3{}, fmt.Errorf("line %d: %s missing value", lineNum, command)
	}
	b, err := parseF32(tokens[2:], lineNum, command)
	if err != nil {
		return mathx.Vec3{}, err
	}
	return mathx.Vec3{r, g, b}, nil
}

func parseTexturePath(tokens []string, lineNum int, command string) (string, error) {
	if len(tokens) == 0 {
		return "", fmt.Errorf("line %d: %s missing texture path", lineNum, command)
	}
	return strings.Join(tokens, " "), nil
}
