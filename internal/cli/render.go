package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fbnet/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	conversionFlags
	output  string // output file, or base path for several formats
	formats string // comma-separated output formats
	stdout  bool   // write the single rendering to stdout
}

// renderCommand creates the render command. A directory argument is
// converted like "fbnet batch" with recursion.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a network document (.sub, .fbt, .sys) to SVG",
		Long: `Render a subapplication, composite function block, or system document.

Without -o the drawing is written next to the input as NAME.network.svg.
Interfaces of referenced types are looked up in --type-lib directories and
in the input's own directory; types that cannot be found get pins inferred
from their connections.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(opts.formats)
			if err != nil {
				return err
			}
			if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
				b := batchOpts{conversionFlags: opts.conversionFlags, output: opts.output, formats: formats}
				return c.runBatch(cmd.Context(), args[0], &b)
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], formats, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "write the rendering to stdout")
	opts.conversionFlags.register(cmd)

	return cmd
}

// runRender converts one document and writes every requested format.
func (c *CLI) runRender(ctx context.Context, stdout io.Writer, input string, formats []string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	if opts.stdout && len(formats) != 1 {
		return fmt.Errorf("--stdout takes exactly one format, got %d", len(formats))
	}

	po, err := opts.options(ctx)
	if err != nil {
		return err
	}
	po.InputPath = input
	po.Formats = formats

	prog := newProgress(logger)
	result, err := c.newRunner(0).Execute(ctx, po)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", input))

	if opts.stdout {
		_, err := stdout.Write(result.Artifacts[formats[0]])
		return err
	}

	for _, format := range formats {
		path := outputPath(opts.output, input, format, len(formats) > 1)
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		logger.Debug("wrote output", "path", path, "bytes", len(result.Artifacts[format]))
		printFile(path)
	}
	printStats(result.Stats)
	return nil
}

// outputPath derives where a rendering goes. Without an explicit output the
// input's extension is replaced by ".network.FORMAT". With several formats
// the output is a base path whose known format extension is dropped.
func outputPath(output, input, format string, multiple bool) string {
	if output == "" {
		return pipeline.OutputName(input, format)
	}
	if !multiple {
		return output
	}
	return basePath(output) + "." + format
}

// basePath strips a known format extension from path.
func basePath(path string) string {
	ext := filepath.Ext(path)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(path, ext)
	}
	return path
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
