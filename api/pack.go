package api

import (
	"fmt"
	"sort"

	"github.com/voxelsplace/plyslim/ply"
	"github.com/voxelsplace/plyslim/plypack"
)

// PackPLYs builds a .plypack from file blobs keyed by name. Every blob must
// carry a valid PLY header; entries are stored in name order.
func PackPLYs(files map[string][]byte, comp plypack.Compression) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files")
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	pack := &plypack.Pack{Entries: make([]plypack.Entry, 0, len(names))}
	for _, name := range names {
		data, err := maybeDecompress(files[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if _, _, err := ply.ParseHeader(data); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pack.Entries = append(pack.Entries, plypack.Entry{Name: name, Data: data})
	}
	return pack.Marshal(comp)
}

// UnpackPLYPACKToMemory returns a map of file name -> PLY bytes from a .plypack blob.
func UnpackPLYPACKToMemory(packBytes []byte) (map[string][]byte, error) {
	pack, _, err := plypack.Unmarshal(packBytes)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(pack.Entries))
	for _, e := range pack.Entries {
		out[e.Name] = e.Data
	}
	return out, nil
}
