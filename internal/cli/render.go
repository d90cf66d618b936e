package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/orchestrator"
	"github.com/goliatone/go-studyform/pkg/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		outPath    string
		valuesPath string
		errorsPath string
		action     string
		cancelURL  string
		eventID    string
		csrf       string
		themeName  string
		variant    string
	)
	cmd := &cobra.Command{
		Use:   "render <procedure|file|url>",
		Short: "Render a procedure form as HTML",
		Long: `Render the data capture form of a procedure as an HTML fragment.

--errors takes the error payload returned by the API (a JSON object of
path to messages); messages are attached to their fields.

Examples:
  studyform render VITALS > vitals.html
  studyform render VITALS --values data.json --errors errors.json
  studyform render schemas/blood_draw.json --variant dark --event 0190...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			procedure, err := a.procedure(ctx, args[0])
			if err != nil {
				return err
			}
			values, err := a.readValues(ctx, valuesPath)
			if err != nil {
				return err
			}

			opts := render.RenderOptions{
				Action:    action,
				CancelURL: cancelURL,
				Values:    values,
			}
			if errorsPath != "" {
				mapping, err := readErrorPayload(errorsPath, procedure)
				if err != nil {
					return err
				}
				opts.Errors = mapping.Fields
				opts.FormErrors = mapping.Form
			}
			var hidden []render.HiddenField
			if eventID != "" {
				hidden = append(hidden, render.EventField(eventID))
			}
			if csrf != "" {
				hidden = append(hidden, render.CSRFToken("_csrf", csrf))
			}
			opts.Hidden = render.MergeHiddenFields(nil, hidden...)

			themeName = firstNonEmpty(themeName, a.cfg.Theme)
			variant = firstNonEmpty(variant, a.cfg.ThemeVariant)
			result, err := generate(ctx, procedure, themeName, variant, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outPath, result.Output)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the markup to a file instead of stdout")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON/YAML file with values to pre-fill")
	cmd.Flags().StringVar(&errorsPath, "errors", "", "JSON file with an API error payload")
	cmd.Flags().StringVar(&action, "action", "", "form action URL")
	cmd.Flags().StringVar(&cancelURL, "cancel-url", "", "render cancel as a link to this URL")
	cmd.Flags().StringVar(&eventID, "event", "", "event id carried as a hidden field")
	cmd.Flags().StringVar(&csrf, "csrf", "", "anti-forgery token carried as a hidden field")
	cmd.Flags().StringVar(&themeName, "theme", "", "theme name (default from config)")
	cmd.Flags().StringVar(&variant, "variant", "", "theme variant (default from config)")
	return cmd
}

func generate(ctx context.Context, procedure model.Procedure, themeName, variant string, opts render.RenderOptions) (orchestrator.Result, error) {
	catalog, err := render.NewThemeCatalog()
	if err != nil {
		return orchestrator.Result{}, err
	}
	gen := orchestrator.New(orchestrator.WithThemeSelector(catalog, themeName, variant))
	return gen.Generate(ctx, orchestrator.Request{
		Procedure:     &procedure,
		RenderOptions: opts,
	})
}

func readErrorPayload(path string, procedure model.Procedure) (render.ErrorMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return render.ErrorMapping{}, fmt.Errorf("read errors: %w", err)
	}
	var payload map[string][]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return render.ErrorMapping{}, fmt.Errorf("decode errors: %w", err)
	}
	return render.MapErrorPayload(&procedure.FormDataSchema, payload), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
