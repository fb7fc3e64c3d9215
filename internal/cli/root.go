package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fbnet/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Every command logs through c.Logger, attached to the command context
// before it runs. --verbose switches the logger to debug level.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "fbnet draws IEC 61499 function block networks as SVG",
		Long: `fbnet converts IEC 61499 composite function blocks, subapplications, and
system applications into SVG drawings in the style of the 4diac network
editor: blocks with their pins, interface sidebars, and routed connections.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.typeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
