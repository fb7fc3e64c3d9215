package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fbnet/internal/server"
	"github.com/matzehuels/fbnet/pkg/cache"
	"github.com/matzehuels/fbnet/pkg/observability"
	"github.com/matzehuels/fbnet/pkg/typelib"
)

const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 15 * time.Second
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	conversionFlags
	addr      string
	cacheSize int
	maxBody   int64
}

// serveCommand creates the serve command running the HTTP render API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API:

  POST /v1/render?format=svg|json&scale=&grid=&shadow=&routes=   (document as body)
  GET  /healthz

Type libraries are indexed once at startup and shared by all requests.
Identical requests are answered from an in-memory cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", cache.DefaultMaxEntries, "rendered documents kept in memory (0 disables)")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", server.DefaultMaxBody, "largest accepted document in bytes")
	opts.conversionFlags.registerResolution(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	po, err := opts.options(ctx)
	if err != nil {
		return err
	}

	lib := typelib.New(po.TypeLibs, typelib.WithLogger(logger))
	if err := lib.Index(); err != nil {
		return err
	}
	logger.Info("type library ready", "dirs", len(po.TypeLibs), "types", lib.Len())

	counters := observability.NewCounters()
	observability.Use(counters)
	defer observability.Reset()

	srv := server.New(c.newRunner(opts.cacheSize),
		server.WithLogger(logger),
		server.WithLibrary(lib),
		server.WithSettings(*po.Settings),
		server.WithMeasurer(po.Measurer),
		server.WithCounters(counters),
		server.WithMaxBody(opts.maxBody),
	)
	return srv.ListenAndServe(ctx, opts.addr, defaultShutdownTimeout)
}
