package assets

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/uvstudio/internal/uvmap"
)

// objVertex identifies a unique position/texcoord pair within a component.
type objVertex struct {
	v, vt int
}

type objDecoder struct {
	positions [][3]float32
	uvs       [][2]float32

	components []*uvmap.Component
	current    *uvmap.Component
	remap      map[objVertex]uint32
	line       int
}

// DecodeOBJ reads a Wavefront OBJ stream into one component per object or
// group. Polygons are fan-triangulated. Normals and materials are ignored.
// A component whose faces carry no texture coordinates has no UV channel.
func DecodeOBJ(r io.Reader) ([]*uvmap.Component, error) {
	dec := &objDecoder{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		dec.line++
		if err := dec.parseLine(sc.Text()); err != nil {
			return nil, fmt.Errorf("%w: obj line %d: %w", ErrAssetLoad, dec.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: obj: %w", ErrAssetLoad, err)
	}

	var out []*uvmap.Component
	for _, c := range dec.components {
		if len(c.Indices) > 0 {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: obj: no faces", ErrAssetLoad)
	}
	return out, nil
}

func (dec *objDecoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "o", "g":
		name := ""
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		dec.begin(name)
	case "v":
		p, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		dec.positions = append(dec.positions, [3]float32{p[0], p[1], p[2]})
	case "vt":
		t, err := parseFloats(fields[1:], 2)
		if err != nil {
			return fmt.Errorf("texcoord: %w", err)
		}
		dec.uvs = append(dec.uvs, [2]float32{t[0], t[1]})
	case "f":
		return dec.parseFace(fields[1:])
	}
	return nil
}

// begin starts a new component. An unused component with no faces is
// renamed instead so "o" followed by "g" yields one component.
func (dec *objDecoder) begin(name string) {
	if dec.current != nil && len(dec.current.Indices) == 0 {
		dec.current.Name = name
		return
	}
	dec.current = &uvmap.Component{Name: name}
	dec.components = append(dec.components, dec.current)
	dec.remap = make(map[objVertex]uint32)
}

func (dec *objDecoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face with %d vertices", len(fields))
	}
	if dec.current == nil {
		dec.begin("")
	}
	idx := make([]uint32, len(fields))
	for i, f := range fields {
		key, err := dec.parseRef(f)
		if err != nil {
			return err
		}
		idx[i] = dec.vertex(key)
	}
	c := dec.current
	for i := 1; i+1 < len(idx); i++ {
		c.Indices = append(c.Indices, idx[0], idx[i], idx[i+1])
	}
	return nil
}

// parseRef decodes "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// indices; vt is -1 when absent.
func (dec *objDecoder) parseRef(f string) (objVertex, error) {
	parts := strings.Split(f, "/")
	v, err := resolveIndex(parts[0], len(dec.positions))
	if err != nil {
		return objVertex{}, fmt.Errorf("face vertex %q: %w", f, err)
	}
	vt := -1
	if len(parts) > 1 && parts[1] != "" {
		vt, err = resolveIndex(parts[1], len(dec.uvs))
		if err != nil {
			return objVertex{}, fmt.Errorf("face texcoord %q: %w", f, err)
		}
	}
	return objVertex{v: v, vt: vt}, nil
}

func (dec *objDecoder) vertex(key objVertex) uint32 {
	if i, ok := dec.remap[key]; ok {
		return i
	}
	c := dec.current
	i := uint32(len(c.Positions))
	c.Positions = append(c.Positions, dec.positions[key.v])
	if key.vt >= 0 {
		// Pad earlier vertices that had no texcoord so the channels stay aligned.
		for len(c.UVs) < len(c.Positions)-1 {
			c.UVs = append(c.UVs, [2]float32{})
		}
		c.UVs = append(c.UVs, dec.uvs[key.vt])
	} else if len(c.UVs) > 0 {
		c.UVs = append(c.UVs, [2]float32{})
	}
	dec.remap[key] = i
	return i
}

// resolveIndex converts a one-based (or negative, relative) OBJ index.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range [1,%d]", i, n)
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// LoadModel reads and decodes an OBJ model through the manager.
func (m *Manager) LoadModel(name string) ([]*uvmap.Component, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	comps, err := DecodeOBJ(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return comps, nil
}
