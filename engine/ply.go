package engine

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var defaultPLYColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

type plyVertex struct {
	pos mgl64.Vec3
	col color.RGBA
}

type plyHeader struct {
	vertexCount, faceCount       int
	hasVertexColor, hasFaceColor bool
}

// LoadPLYFile reads an ASCII PLY model from fsys.
func LoadPLYFile(fsys fs.FS, path string, reverse int) (*Model, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open PLY file %s: %w", path, err)
	}
	defer file.Close()

	m, err := LoadPLY(file, path, reverse)
	if err != nil {
		return nil, fmt.Errorf("error parsing PLY file %s: %w", path, err)
	}
	return m, nil
}

// LoadPLY parses an ASCII PLY model. Faces take their colour from the face
// element, else the average of their vertex colours, else grey.
func LoadPLY(r io.Reader, name string, reverse int) (*Model, error) {
	scanner := bufio.NewScanner(r)

	h, err := readPLYHeader(scanner)
	if err != nil {
		return nil, err
	}

	vertices := make([]plyVertex, 0, h.vertexCount)
	for i := 0; i < h.vertexCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected end of file while reading vertices")
		}
		v, err := parsePLYVertex(strings.Fields(scanner.Text()), h.hasVertexColor)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		vertices = append(vertices, v)
	}

	m := NewModel(name)
	for i := 0; i < h.faceCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected end of file while reading faces")
		}
		f, err := parsePLYFace(strings.Fields(scanner.Text()), vertices, h)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		f.Finished(reverse)
		m.AddFace(f)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from PLY source: %w", err)
	}
	return m, nil
}

func readPLYHeader(scanner *bufio.Scanner) (plyHeader, error) {
	var h plyHeader
	var element string

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return h, fmt.Errorf("missing ply magic")
	}
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "format":
			if len(parts) < 2 || parts[1] != "ascii" {
				return h, fmt.Errorf("unsupported format %q", strings.Join(parts[1:], " "))
			}
		case "element":
			if len(parts) != 3 {
				return h, fmt.Errorf("bad element line %q", scanner.Text())
			}
			n, err := strconv.Atoi(parts[2])
			if err != nil || n < 0 {
				return h, fmt.Errorf("bad %s count %q", parts[1], parts[2])
			}
			element = parts[1]
			switch element {
			case "vertex":
				h.vertexCount = n
			case "face":
				h.faceCount = n
			}
		case "property":
			if len(parts) > 2 {
				prop := parts[len(parts)-1]
				if prop == "red" || prop == "diffuse_red" {
					h.hasVertexColor = h.hasVertexColor || element == "vertex"
					h.hasFaceColor = h.hasFaceColor || element == "face"
				}
			}
		case "end_header":
			return h, nil
		}
	}
	return h, fmt.Errorf("missing end_header")
}

func parsePLYVertex(parts []string, withColor bool) (plyVertex, error) {
	want := 3
	if withColor {
		want = 6
	}
	if len(parts) < want {
		return plyVertex{}, fmt.Errorf("want %d values, got %d", want, len(parts))
	}

	v := plyVertex{col: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return plyVertex{}, err
		}
		v.pos[i] = f
	}
	if withColor {
		c, err := parsePLYColor(parts[3:6])
		if err != nil {
			return plyVertex{}, err
		}
		v.col = c
	}
	return v, nil
}

func parsePLYFace(parts []string, vertices []plyVertex, h plyHeader) (*Face, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty face")
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil || n < 3 {
		return nil, fmt.Errorf("bad vertex count %q", parts[0])
	}
	want := n + 1
	if h.hasFaceColor {
		want += 3
	}
	if len(parts) != want {
		return nil, fmt.Errorf("want %d values, got %d", want, len(parts))
	}

	f := NewFaceEmpty(defaultPLYColor)
	var r, g, b int
	for j := 1; j <= n; j++ {
		idx, err := strconv.Atoi(parts[j])
		if err != nil || idx < 0 || idx >= len(vertices) {
			return nil, fmt.Errorf("bad vertex index %q", parts[j])
		}
		v := vertices[idx]
		f.AddPoint(v.pos.X(), v.pos.Y(), v.pos.Z())
		r += int(v.col.R)
		g += int(v.col.G)
		b += int(v.col.B)
	}

	switch {
	case h.hasFaceColor:
		c, err := parsePLYColor(parts[n+1 : n+4])
		if err != nil {
			return nil, err
		}
		f.SetColor(c)
	case h.hasVertexColor:
		f.SetColor(color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255})
	}
	return f, nil
}

func parsePLYColor(parts []string) (color.RGBA, error) {
	var c [3]uint8
	for i, s := range parts {
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return color.RGBA{}, err
		}
		c[i] = uint8(v)
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}, nil
}
