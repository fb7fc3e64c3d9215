package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	fberrors "github.com/matzehuels/fbnet/pkg/errors"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	conversionFlags
	output      string
	formats     []string
	noRecursive bool
}

// batchCommand creates the batch command converting a directory tree.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts
	var formats string

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Render every network document in a directory",
		Long: `Render every .sub and .fbt document under a directory that contains a
network. Outputs mirror the input tree under the output directory
(default: DIR_network_svg). Documents that fail are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.formats, err = parseFormats(formats); err != nil {
				return err
			}
			return c.runBatch(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().BoolVar(&opts.noRecursive, "no-recursive", false, "only convert the top-level directory")
	opts.conversionFlags.register(cmd)

	return cmd
}

// runBatch converts a directory with a progress spinner. Per-document
// pipeline logs are shown only in verbose mode.
func (c *CLI) runBatch(ctx context.Context, input string, opts *batchOpts) error {
	logger := loggerFromContext(ctx)

	out := opts.output
	if out == "" {
		out = strings.TrimRight(filepath.Clean(input), string(filepath.Separator)) + batchDirSuffix
	}

	po, err := opts.options(ctx)
	if err != nil {
		return err
	}
	po.Formats = opts.formats
	po.Logger = logger.With()
	if logger.GetLevel() > log.DebugLevel {
		po.Logger.SetLevel(log.WarnLevel)
	}

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Converting %s", input))
	po.Progress = func(done, total int) {
		spin.SetMessage(fmt.Sprintf("Converting %s (%d/%d)", input, done, total))
	}
	spin.Start()
	result, err := c.newRunner(0).ConvertDir(ctx, input, out, po, !opts.noRecursive)
	spin.Stop()
	if err != nil {
		return err
	}

	printSuccess("Converted %s network files to %s",
		StyleNumber.Render(fmt.Sprint(len(result.Converted))), StyleValue.Render(out))
	if result.Skipped > 0 {
		printDetail("%d documents without a network skipped", result.Skipped)
	}
	if len(result.Failures) == 0 {
		return nil
	}
	for _, f := range result.Failures {
		printError("%s: %s", f.Path, fberrors.UserMessage(f.Err))
	}
	return fmt.Errorf("%d documents failed", len(result.Failures))
}
