// Package cli provides the command-line interface for studyform.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-studyform/internal/config"
	studyloader "github.com/goliatone/go-studyform/internal/schema/loader"
	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/schema"
	"github.com/goliatone/go-studyform/pkg/sticky"
	"github.com/goliatone/go-studyform/pkg/tz"
)

// Version is set at build time.
var Version = "0.1.0"

// app carries what every command needs once the configuration is loaded.
type app struct {
	configPath string
	verbose    bool

	cfg     config.Config
	logger  *slog.Logger
	cleanup func() error
}

// NewRootCommand builds the studyform command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "studyform",
		Short: "Procedure data capture forms for clinical research studies",
		Long: `studyform renders, fills and validates procedure data capture forms
described by form_data_schema documents, and converts event times between UTC
and the configured site timezone.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.cleanup != nil {
				return a.cleanup()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newFillCmd(a),
		newRenderCmd(a),
		newValidateCmd(a),
		newExportCmd(a),
		newTZCmd(a),
		newEventCmd(a),
		newCalendarCmd(a),
		newServeCmd(a),
	)
	return root
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.cfg = cfg
	a.logger, a.cleanup = config.SetupLogger(cfg.LogFile, level)
	a.logger.Debug("configuration loaded", "timezone", cfg.Timezone, "sticky", cfg.Backend())
	return nil
}

func (a *app) converter() (*tz.Converter, error) {
	return tz.NewConverter(a.cfg.Timezone)
}

func (a *app) openStore(ctx context.Context) (sticky.Store, error) {
	store, err := sticky.Open(ctx, a.cfg.Backend(), a.cfg.StickyTarget())
	if err != nil {
		return nil, fmt.Errorf("open sticky store: %w", err)
	}
	return store, nil
}

func (a *app) loader() schema.Loader {
	return studyloader.New(schema.NewLoaderOptions(
		schema.WithFileSystem(os.DirFS(a.cfg.SchemaDir)),
		schema.WithDefaultHTTP(),
		schema.WithRequestTimeout(a.cfg.HTTPTimeout),
	))
}

func (a *app) catalog(ctx context.Context) (*schema.Catalog, error) {
	catalog, err := schema.LoadCatalog(ctx, a.loader(), os.DirFS(a.cfg.SchemaDir), ".")
	if err != nil {
		return nil, fmt.Errorf("load schemas from %s: %w", a.cfg.SchemaDir, err)
	}
	return catalog, nil
}

// procedure resolves arg as a file path or URL, else as a catalog key.
func (a *app) procedure(ctx context.Context, arg string) (model.Procedure, error) {
	if isLocation(arg) {
		src, err := schema.ParseSource(arg)
		if err != nil {
			return model.Procedure{}, err
		}
		doc, err := a.loader().Load(ctx, src)
		if err != nil {
			return model.Procedure{}, err
		}
		return schema.DecodeProcedure(doc)
	}
	catalog, err := a.catalog(ctx)
	if err != nil {
		return model.Procedure{}, err
	}
	procedure, ok := catalog.Get(arg)
	if !ok {
		return model.Procedure{}, fmt.Errorf("procedure %q not found (known: %s)", arg, strings.Join(catalog.Keys(), ", "))
	}
	return procedure, nil
}

func isLocation(arg string) bool {
	if u, err := url.Parse(arg); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return true
	}
	_, err := os.Stat(arg)
	return err == nil
}

// readValues loads a values document (JSON or YAML object).
func (a *app) readValues(ctx context.Context, path string) (model.Values, error) {
	if path == "" {
		return nil, nil
	}
	src, err := schema.ParseSource(path)
	if err != nil {
		return nil, err
	}
	doc, err := a.loader().Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	return schema.DecodeValues(doc)
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
