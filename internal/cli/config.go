package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fbnet/pkg/config"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
)

// configCommand creates the settings management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the block size settings file",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var settings string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(settings)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Path == "" {
				fmt.Fprintln(out, "# defaults (no settings file found)")
			} else {
				fmt.Fprintf(out, "# %s\n", cfg.Path)
			}
			for _, key := range cfg.Unknown {
				fmt.Fprintf(out, "# unknown key ignored: %s\n", key)
			}
			return config.Encode(out, cfg.Settings)
		},
	}
	cmd.Flags().StringVar(&settings, "settings", "", "settings file to show instead of the default")
	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a settings file with the default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initPath(args)
			if err != nil {
				return err
			}
			return writeDefaults(path, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List the settings search locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.SearchPaths() {
				status := "missing"
				if _, err := os.Stat(p); err == nil {
					status = "found"
				}
				printKeyValue(status, p)
			}
			return nil
		},
	}
}

func initPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	paths := config.SearchPaths()
	if len(paths) == 0 {
		return "", fmt.Errorf("no config directory; pass a path")
	}
	return paths[0], nil
}

func writeDefaults(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := config.Encode(f, layout.DefaultSettings()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printSuccess("Wrote %s", path)
	return nil
}
