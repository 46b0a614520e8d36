package utils

import (
	"os"

	"github.com/voxelsplace/plyslim/api"
)

// RunPLY2GLB writes a glTF point-cloud preview of inPath to outPath.
func RunPLY2GLB(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	glb, err := api.PLYToGLB(data)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, glb, 0o644)
}
