package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-studyform/pkg/render"
	"github.com/goliatone/go-studyform/pkg/renderers/tui"
)

func newFillCmd(a *app) *cobra.Command {
	var (
		output     string
		outPath    string
		valuesPath string
		noSticky   bool
	)
	cmd := &cobra.Command{
		Use:   "fill <procedure|file|url>",
		Short: "Capture procedure data interactively in the terminal",
		Long: `Prompt for every field of a procedure form, confirm the save and print
the procedure_data payload.

Answers are remembered in the configured sticky store and offered as
defaults next time.

Examples:
  studyform fill VITALS
  studyform fill schemas/blood_draw.json --output pretty
  studyform fill VITALS --values previous.json --out data.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			procedure, err := a.procedure(ctx, args[0])
			if err != nil {
				return err
			}
			initial, err := a.readValues(ctx, valuesPath)
			if err != nil {
				return err
			}

			opts := []tui.Option{tui.WithOutputFormat(tui.OutputFormat(output))}
			if a.cfg.StrictNumbers {
				opts = append(opts, tui.WithStrictNumbers())
			}
			if !noSticky {
				store, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				opts = append(opts, tui.WithStickyStore(store, stickyFormName(procedure.RefCode, procedure.Name)))
			}
			renderer, err := tui.New(opts...)
			if err != nil {
				return err
			}

			out, err := renderer.Render(ctx, &procedure.FormDataSchema, render.RenderOptions{
				Title:  procedure.Name,
				Values: initial,
			})
			if errors.Is(err, tui.ErrCancelled) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled; nothing saved.")
				return nil
			}
			if err != nil {
				return err
			}
			a.logger.Debug("procedure data captured", "procedure", procedure.Name)
			return writeOutput(cmd.OutOrStdout(), outPath, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(tui.OutputFormatJSON), "output format: json, pretty or form")
	cmd.Flags().StringVar(&outPath, "out", "", "write the payload to a file instead of stdout")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON/YAML file with previously captured values")
	cmd.Flags().BoolVar(&noSticky, "no-sticky", false, "do not read or remember answers")
	return cmd
}

func stickyFormName(refCode, name string) string {
	if refCode != "" {
		return "procedure/" + refCode
	}
	return "procedure/" + name
}
