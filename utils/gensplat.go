package utils

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/voxelsplace/plyslim/ply"
)

// MaxSHDegree is the highest spherical harmonic degree GenerateSplatPLY writes.
const MaxSHDegree = 3

// SplatPropertyNames returns the vertex layout written by 3D Gaussian
// splatting trainers for the given SH degree: 3 f_rest_ coefficients per
// colour channel for degree 1, 8 for degree 2, 15 for degree 3.
func SplatPropertyNames(degree int) []string {
	names := []string{"x", "y", "z", "nx", "ny", "nz", "f_dc_0", "f_dc_1", "f_dc_2"}
	rest := 3 * ((degree+1)*(degree+1) - 1)
	for i := 0; i < rest; i++ {
		names = append(names, fmt.Sprintf("%s%d", ply.HigherOrderPrefix, i))
	}
	return append(names, "opacity", "scale_0", "scale_1", "scale_2", "rot_0", "rot_1", "rot_2", "rot_3")
}

// GenerateSplatPLY builds a binary little-endian splat file with random
// gaussians drawn from r.
func GenerateSplatPLY(r *rand.Rand, vertices, degree int) ([]byte, error) {
	if degree < 0 || degree > MaxSHDegree {
		return nil, fmt.Errorf("sh degree must be in [0,%d], got %d", MaxSHDegree, degree)
	}
	if vertices < 0 {
		return nil, fmt.Errorf("vertex count must not be negative, got %d", vertices)
	}
	names := SplatPropertyNames(degree)

	var hb strings.Builder
	hb.WriteString("ply\nformat binary_little_endian 1.0\ncomment generated by plyslim gen\n")
	fmt.Fprintf(&hb, "element vertex %d\n", vertices)
	for _, n := range names {
		fmt.Fprintf(&hb, "property float %s\n", n)
	}
	hb.WriteString("end_header\n")

	var buf bytes.Buffer
	buf.Grow(hb.Len() + vertices*len(names)*4)
	buf.WriteString(hb.String())

	rec := make([]float32, len(names))
	for v := 0; v < vertices; v++ {
		for i, n := range names {
			rec[i] = sampleProperty(r, n)
		}
		// unit quaternion
		q := rec[len(rec)-4:]
		norm := float32(math.Sqrt(float64(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])))
		if norm == 0 {
			q[0], norm = 1, 1
		}
		for i := range q {
			q[i] /= norm
		}
		if err := binary.Write(&buf, binary.LittleEndian, rec); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func sampleProperty(r *rand.Rand, name string) float32 {
	switch {
	case name == "x" || name == "y" || name == "z":
		return float32(r.NormFloat64() * 2)
	case strings.HasPrefix(name, "n"):
		return 0
	case strings.HasPrefix(name, "f_dc_"):
		return float32(r.NormFloat64() * 0.5)
	case strings.HasPrefix(name, ply.HigherOrderPrefix):
		return float32(r.NormFloat64() * 0.05)
	case name == "opacity":
		return float32(r.NormFloat64() * 2)
	case strings.HasPrefix(name, "scale_"):
		return float32(-5 + 2*r.Float64())
	default:
		return float32(r.NormFloat64())
	}
}

// GenerateOptions controls RunGenerateSplats.
type GenerateOptions struct {
	Amount   int
	Vertices int
	Degree   int
	// Seed 0 picks a time based seed.
	Seed int64
}

// RunGenerateSplats writes Amount files named 0.ply..(Amount-1).ply into
// outDir and returns their paths.
func RunGenerateSplats(opts GenerateOptions, outDir string) ([]string, error) {
	if opts.Amount < 0 {
		opts.Amount = 0
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	baseSeed := uint64(opts.Seed)
	if baseSeed == 0 {
		baseSeed = uint64(time.Now().UnixNano())
	}
	paths := make([]string, 0, opts.Amount)
	for i := 0; i < opts.Amount; i++ {
		// derive a seed per file using a Weyl-like progression (unsigned math)
		const weyl = uint64(0x9e3779b97f4a7c15)
		seed := baseSeed ^ (uint64(i)+1)*weyl
		r := rand.New(rand.NewSource(int64(seed & 0x7fffffffffffffff)))

		data, err := GenerateSplatPLY(r, opts.Vertices, opts.Degree)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(outDir, fmt.Sprintf("%d.ply", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
