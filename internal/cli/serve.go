package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-studyform/components/timezones"
	"github.com/goliatone/go-studyform/internal/preview"
	"github.com/goliatone/go-studyform/pkg/render"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview procedure forms in a browser",
		Long: `Serve every procedure of the schema directory as an HTML form:

  GET  /forms/{key}        render the form (sticky answers pre-filled)
  POST /forms/{key}        validate and echo the procedure_data payload
  GET  /api/procedures     list procedures
  GET  /openapi.json       payload contract
  GET  /api/timezones?q=   timezone picker options`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			catalog, err := a.catalog(ctx)
			if err != nil {
				return err
			}
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			themes, err := render.NewThemeCatalog()
			if err != nil {
				return err
			}

			opts := []preview.Option{
				preview.WithLogger(a.logger),
				preview.WithStickyStore(store),
				preview.WithTheme(themes, a.cfg.Theme, a.cfg.ThemeVariant),
				preview.WithTimezones(timezones.New(timezones.WithSite(a.cfg.Timezone))),
			}
			if a.cfg.StrictNumbers {
				opts = append(opts, preview.WithStrictNumbers())
			}
			server, err := preview.New(catalog, opts...)
			if err != nil {
				return err
			}

			listen := preview.Addr(firstNonEmpty(addr, a.cfg.ListenAddr))
			srv := &http.Server{
				Addr:              listen,
				Handler:           server.Handler(),
				ReadHeaderTimeout: a.cfg.HTTPTimeout,
			}
			return serve(ctx, a, srv, len(catalog.Keys()))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func serve(ctx context.Context, a *app, srv *http.Server, procedures int) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("preview server listening", "addr", "http://"+srv.Addr, "procedures", procedures)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
