package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtree/internal/server"
	"github.com/matzehuels/seqtree/pkg/observability"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "Serve the row tree over HTTP",
		Long: `Serve a scene's row tree and collapse state over HTTP.

Endpoints:
  GET    /healthz             liveness check
  GET    /tree?format=json    rendered tree (json, text, dot, svg)
  GET    /rows?from=&to=      flat rows by index range
  POST   /collapse            {"object": "box", "path": ["position"], "collapsed": true}
  DELETE /collapse            expand all rows

Collapse changes are saved to the scene's collapse state file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = c.Config.Listen
			}
			return c.runServe(cmd.Context(), args[0], listen, noCache)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config, else "+defaultListen+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, listen string, noCache bool) error {
	sheet, fs, store, err := c.loadState(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	runner.Keyer = sheetKeyer(runner.Keyer, sheet.Address())

	observability.SetHTTPHooks(observability.LogHTTPHooks{Logger: c.Logger})

	srv, err := server.New(server.Config{
		Sheet:   sheet,
		Store:   store,
		Persist: fs,
		Runner:  runner,
		Options: c.pipelineOptions(),
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}

	printInfo("Serving %s on %s", StyleValue.Render(sheet.Address().SheetID), StyleValue.Render("http://"+listen))
	printKeyValue("State", fs.Path())
	return srv.ListenAndServe(ctx, listen)
}
