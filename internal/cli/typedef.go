package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fbnet/pkg/pipeline"
)

// typeOpts holds the command-line flags for the type command.
type typeOpts struct {
	conversionFlags
	output     string
	stdout     bool
	noComments bool
	noTypes    bool
}

// typeCommand creates the type command, which draws the interface of a
// single type definition rather than a network.
func (c *CLI) typeCommand() *cobra.Command {
	var opts typeOpts

	cmd := &cobra.Command{
		Use:   "type [file]",
		Short: "Draw the interface of a type definition (.fbt, .adp, .sub)",
		Long: `Draw the interface of a function block, adapter, or subapplication type.

The block is shown with its pins, WITH associations between events and
variables, and each port's comment and type beside it. Without -o the
drawing is written next to the input as NAME.svg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runType(cmd.Context(), cmd.OutOrStdout(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "write the drawing to stdout")
	cmd.Flags().BoolVar(&opts.noComments, "no-comments", false, "hide port comments")
	cmd.Flags().BoolVar(&opts.noTypes, "no-types", false, "hide port types")
	cmd.Flags().BoolVar(&opts.noShadow, "no-shadow", false, "disable the drop shadow")
	cmd.Flags().StringVar(&opts.settings, "settings", "", "block size settings file (TOML)")
	cmd.Flags().StringVar(&opts.font, "font", "", "TrueType font for text measurement")
	cmd.Flags().StringVar(&opts.fontItalic, "font-italic", "", "italic TrueType font for type names")

	return cmd
}

func (c *CLI) runType(ctx context.Context, stdout io.Writer, input string, opts *typeOpts) error {
	logger := loggerFromContext(ctx)

	po, err := opts.options(ctx)
	if err != nil {
		return err
	}
	po.InputPath = input
	po.NoComments = opts.noComments
	po.NoTypes = opts.noTypes

	svg, def, err := pipeline.RenderType(ctx, po)
	if err != nil {
		return err
	}
	if opts.stdout {
		_, err := stdout.Write(svg)
		return err
	}

	path := opts.output
	if path == "" {
		path = pipeline.TypeOutputName(input)
	}
	if err := writeOutput(path, svg); err != nil {
		return err
	}
	logger.Debug("wrote output", "path", path, "bytes", len(svg))
	printSuccess("Drew type %s", def.Name)
	printFile(path)
	return nil
}
