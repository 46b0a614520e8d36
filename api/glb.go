package api

import (
	"bytes"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/voxelsplace/plyslim/ply"
)

// shC0 is the order-zero real spherical harmonic, 1/(2*sqrt(pi)).
const shC0 = 0.28209479177387814

type colorSource int

const (
	colorNone colorSource = iota
	colorSH               // f_dc_0..2
	colorRGB              // red, green, blue (uchar)
)

// PLYToGLB renders the vertices of a PLY file as a glTF point cloud.
// Colours come from the SH DC terms when present, otherwise from
// red/green/blue; opacity is passed through a sigmoid into alpha.
func PLYToGLB(input []byte) ([]byte, error) {
	data, err := maybeDecompress(input)
	if err != nil {
		return nil, err
	}
	h, _, err := ply.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Vertex.Count == 0 {
		return nil, fmt.Errorf("no vertices to export")
	}
	declared := make(map[string]bool, len(h.Vertex.Properties))
	for _, p := range h.Vertex.Properties {
		declared[p.Name] = true
	}
	has := func(names ...string) bool {
		for _, n := range names {
			if !declared[n] {
				return false
			}
		}
		return true
	}

	names := []string{"x", "y", "z"}
	src := colorNone
	switch {
	case has("f_dc_0", "f_dc_1", "f_dc_2"):
		src = colorSH
		names = append(names, "f_dc_0", "f_dc_1", "f_dc_2")
	case has("red", "green", "blue"):
		src = colorRGB
		names = append(names, "red", "green", "blue")
	}
	withAlpha := has("opacity")
	if withAlpha {
		names = append(names, "opacity")
	}
	cols, err := ply.ReadColumns(data, names...)
	if err != nil {
		return nil, err
	}

	n := h.Vertex.Count
	positions := make([][3]float32, n)
	colors := make([][4]float32, n)
	hasAlpha := false
	for i := 0; i < n; i++ {
		positions[i] = [3]float32{float32(cols["x"][i]), float32(cols["y"][i]), float32(cols["z"][i])}
		rgba := [4]float32{1, 1, 1, 1}
		switch src {
		case colorSH:
			rgba[0] = shToColor(cols["f_dc_0"][i])
			rgba[1] = shToColor(cols["f_dc_1"][i])
			rgba[2] = shToColor(cols["f_dc_2"][i])
		case colorRGB:
			rgba[0] = float32(cols["red"][i] / 255)
			rgba[1] = float32(cols["green"][i] / 255)
			rgba[2] = float32(cols["blue"][i] / 255)
		}
		if withAlpha {
			rgba[3] = float32(1 / (1 + math.Exp(-cols["opacity"][i])))
			if rgba[3] < 1.0 {
				hasAlpha = true
			}
		}
		colors[i] = rgba
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "plyslim PLY -> GLB"
	posAccessor := modeler.WritePosition(doc, positions)
	colorAccessor := modeler.WriteColor(doc, colors)
	prim := &gltf.Primitive{
		Mode: gltf.PrimitivePoints,
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
			gltf.COLOR_0:  uint32(colorAccessor),
		},
	}
	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{1, 1, 1, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	material := &gltf.Material{PBRMetallicRoughness: pbr}
	if hasAlpha {
		material.AlphaMode = gltf.AlphaBlend
	} else {
		material.AlphaMode = gltf.AlphaOpaque
	}
	doc.Materials = []*gltf.Material{material}
	prim.Material = gltf.Index(0)
	doc.Meshes = []*gltf.Mesh{{Name: "Splats", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "Splats", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func shToColor(dc float64) float32 {
	v := 0.5 + shC0*dc
	return float32(min(max(v, 0), 1))
}
