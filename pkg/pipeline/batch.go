package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	fberrors "github.com/matzehuels/fbnet/pkg/errors"
	fbio "github.com/matzehuels/fbnet/pkg/io"
	"github.com/matzehuels/fbnet/pkg/typelib"
)

// BatchExtensions are the document extensions a batch conversion visits.
var BatchExtensions = []string{".fbt", ".sub"}

// OutputSuffix is inserted before the format extension of batch outputs.
const OutputSuffix = ".network"

// BatchFailure records a document that could not be converted.
type BatchFailure struct {
	Path string
	Err  error
}

// BatchResult summarizes a directory conversion.
type BatchResult struct {
	Converted []string // output paths, sorted
	Skipped   int      // documents without a network
	Failures  []BatchFailure
}

// OutputName maps an input path to its rendering: "Conveyor.sub" with
// format "svg" becomes "Conveyor.network.svg".
func OutputName(path, format string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + OutputSuffix + "." + format
}

// ConvertDir converts every network document under in and writes the
// renderings to the mirrored location under out. Documents without a
// network are skipped. A document that fails is logged and recorded in the
// result; the remaining documents are still converted. The returned error
// is reserved for failures that stop the walk itself, such as a missing
// input directory or a cancelled context.
func (r *Runner) ConvertDir(ctx context.Context, in, out string, opts Options, recursive bool) (*BatchResult, error) {
	info, err := os.Stat(in)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fberrors.Wrap(fberrors.ErrCodeFileNotFound, err, "input directory %s", in)
		}
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidInput, err, "input directory %s", in)
	}
	if !info.IsDir() {
		return nil, fberrors.New(fberrors.ErrCodeInvalidInput, "%s is not a directory", in)
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.InputPath = in // satisfies validation; each job sets its own
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Fonts are parsed once and shared; a bad font stops the run up front.
	if opts.Measurer, err = Measurer(opts); err != nil {
		return nil, err
	}

	files, err := collect(in, recursive)
	if err != nil {
		return nil, err
	}

	// One index serves every document; the input tree doubles as a library.
	if opts.Library == nil {
		opts.Library = typelib.New(append(append([]string(nil), opts.TypeLibs...), in),
			typelib.WithLogger(opts.Logger))
	}
	if err := opts.Library.Index(); err != nil {
		return nil, fmt.Errorf("index type library: %w", err)
	}

	result := &BatchResult{}
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			written, skipped, err := r.convertFile(gctx, in, out, path, opts)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				opts.Logger.Error("conversion failed", "file", path, "err", err)
				result.Failures = append(result.Failures, BatchFailure{Path: path, Err: err})
			case skipped:
				result.Skipped++
			default:
				result.Converted = append(result.Converted, written...)
			}
			done++
			if opts.Progress != nil {
				opts.Progress(done, len(files))
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return result, err
	}

	sort.Strings(result.Converted)
	sort.Slice(result.Failures, func(i, j int) bool { return result.Failures[i].Path < result.Failures[j].Path })
	opts.Logger.Info("batch complete",
		"converted", len(result.Converted),
		"skipped", result.Skipped,
		"failed", len(result.Failures))
	return result, nil
}

func (r *Runner) convertFile(ctx context.Context, in, out, path string, opts Options) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	if !fbio.HasNetwork(data) {
		return nil, true, nil
	}
	rel, err := filepath.Rel(in, path)
	if err != nil {
		return nil, false, err
	}
	if err := fberrors.ValidateOutputPath(filepath.ToSlash(rel)); err != nil {
		return nil, false, err
	}

	jobOpts := opts
	jobOpts.InputPath = path
	jobOpts.Input = data
	jobOpts.Logger = opts.Logger.With("file", rel)
	res, err := r.Execute(ctx, jobOpts)
	if err != nil {
		return nil, false, err
	}

	var written []string
	for _, format := range jobOpts.Formats {
		dst := filepath.Join(out, OutputName(rel, format))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, false, err
		}
		if err := os.WriteFile(dst, res.Artifacts[format], 0o644); err != nil {
			return written, false, err
		}
		written = append(written, dst)
	}
	return written, false, nil
}

func collect(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range BatchExtensions {
			if ext == want {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	return files, err
}
