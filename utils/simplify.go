package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/voxelsplace/plyslim/api"
	"github.com/voxelsplace/plyslim/internal/logging"
	"github.com/voxelsplace/plyslim/ply"
)

// ErrNotPLY is returned for inputs without a .ply extension.
var ErrNotPLY = errors.New("not a .ply file")

// SimplifyOptions configures RunSimplifyFile and RunSimplifyFiles.
type SimplifyOptions struct {
	Keep ply.Predicate
	// Suffix is inserted before the extension of each output name.
	Suffix string
	// Output overrides the derived output path. Single input only.
	Output string
	// Workers bounds how many files are processed at once. With a single
	// input it is passed to the binary codec instead.
	Workers int
	// Compress writes zstd output with a .zst extension appended.
	Compress bool
}

// Status is the per-file result of a batch.
type Status string

const (
	StatusSimplified Status = "simplified"
	StatusUnchanged  Status = "unchanged"
	StatusFailed     Status = "failed"
)

// Outcome records what happened to one input.
type Outcome struct {
	Input        string `yaml:"input"`
	Output       string `yaml:"output,omitempty"`
	Status       Status `yaml:"status"`
	Vertices     int    `yaml:"vertices,omitempty"`
	Removed      int    `yaml:"removed_properties,omitempty"`
	InputBytes   int    `yaml:"input_bytes"`
	OutputBytes  int    `yaml:"output_bytes,omitempty"`
	InputDigest  string `yaml:"input_xxhash,omitempty"`
	OutputDigest string `yaml:"output_xxhash,omitempty"`
	Error        string `yaml:"error,omitempty"`

	Err error `yaml:"-"`
}

// Reduction is the fraction of input bytes saved, 0 when nothing was written.
func (o Outcome) Reduction() float64 {
	if o.InputBytes == 0 || o.OutputBytes == 0 {
		return 0
	}
	return 1 - float64(o.OutputBytes)/float64(o.InputBytes)
}

// OutputPath derives <dir>/<stem><suffix><ext> from in, adding .zst when
// compress is set.
func OutputPath(in, suffix string, compress bool) string {
	ext := filepath.Ext(in)
	out := strings.TrimSuffix(in, ext) + suffix + ext
	if compress {
		out += ".zst"
	}
	return out
}

func trimZst(p string) string {
	if strings.HasSuffix(strings.ToLower(p), ".zst") {
		return p[:len(p)-len(".zst")]
	}
	return p
}

func isPLYPath(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".ply") || strings.HasSuffix(lower, ".ply.zst")
}

// RunSimplifyFile transforms inPath into outPath. The output file is written
// only after the whole transform succeeded. A file with nothing to remove
// yields StatusUnchanged and ply.ErrNoChange.
func RunSimplifyFile(inPath, outPath string, opts SimplifyOptions) (Outcome, error) {
	o := Outcome{Input: inPath, Status: StatusFailed}
	fail := func(err error) (Outcome, error) {
		o.Err = err
		o.Error = err.Error()
		return o, err
	}
	if !isPLYPath(inPath) {
		return fail(fmt.Errorf("%w: %s", ErrNotPLY, inPath))
	}
	if outPath == "" {
		outPath = OutputPath(trimZst(inPath), opts.Suffix, opts.Compress)
	}
	if samePath(inPath, outPath) {
		return fail(fmt.Errorf("output %s would overwrite the input", outPath))
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fail(err)
	}
	o.InputBytes = len(data)
	o.InputDigest = api.Fingerprint(data)

	res, err := api.TransformResult(data, ply.Options{Keep: opts.Keep, Workers: opts.Workers})
	if errors.Is(err, ply.ErrNoChange) {
		o.Status = StatusUnchanged
		o.Err = err
		return o, err
	}
	if err != nil {
		return fail(fmt.Errorf("%s: %w", inPath, err))
	}

	out := res.Output
	if opts.Compress {
		out = api.Compress(out)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fail(err)
	}
	o.Status = StatusSimplified
	o.Output = outPath
	o.Vertices = res.Header.Vertex.Count
	o.Removed = res.Plan.Removed()
	o.OutputBytes = len(out)
	o.OutputDigest = api.Fingerprint(out)
	return o, nil
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}

// RunSimplifyFiles processes every input, opts.Workers at a time, and
// returns one Outcome per input in input order. Unchanged files are not
// failures. The returned error wraps the first failure; ctx cancellation
// stops files that have not started yet.
func RunSimplifyFiles(ctx context.Context, inputs []string, opts SimplifyOptions, log logging.Logger) ([]Outcome, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no .ply files provided")
	}
	if opts.Output != "" && len(inputs) > 1 {
		return nil, fmt.Errorf("-o/--output needs exactly one input, got %d", len(inputs))
	}
	if log == nil {
		log = logging.NewNullLogger()
	}
	fileWorkers := max(opts.Workers, 1)
	codecOpts := opts
	codecOpts.Workers = 1
	if len(inputs) == 1 {
		codecOpts.Workers = fileWorkers
	}

	outcomes := make([]Outcome, len(inputs))
	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fileWorkers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{Input: in, Status: StatusFailed, Err: err, Error: err.Error()}
				return err
			}
			log.Verbose("simplifying %s", in)
			o, err := RunSimplifyFile(in, opts.Output, codecOpts)
			outcomes[i] = o
			switch {
			case o.Status == StatusUnchanged:
				log.Warn("%s: no properties to remove, skipped", in)
			case err != nil:
				failed.Add(1)
				log.Error("%v", err)
			default:
				log.Info("%s -> %s: %d vertices, %d properties removed, %.1f%% smaller",
					in, o.Output, o.Vertices, o.Removed, 100*o.Reduction())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}

	simplified := 0
	var first error
	for _, o := range outcomes {
		if o.Status == StatusSimplified {
			simplified++
		}
		if o.Status == StatusFailed && first == nil {
			first = o.Err
		}
	}
	log.Verbose("%d of %d files simplified", simplified, len(inputs))
	if first != nil {
		return outcomes, fmt.Errorf("%d of %d files failed: %w", failed.Load(), len(inputs), first)
	}
	if len(inputs) == 1 && outcomes[0].Status == StatusUnchanged {
		return outcomes, outcomes[0].Err
	}
	return outcomes, nil
}
