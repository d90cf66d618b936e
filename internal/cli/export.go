package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/validation"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		outPath string
		title   string
	)
	cmd := &cobra.Command{
		Use:   "export [procedure|file|url...]",
		Short: "Export the OpenAPI contract of procedure payloads",
		Long: `Build an OpenAPI 3 document describing the event and procedure_data
payloads of the given procedures, or of every procedure in the schema
directory when none is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var procedures []model.Procedure
			if len(args) == 0 {
				catalog, err := a.catalog(ctx)
				if err != nil {
					return err
				}
				procedures = catalog.Procedures()
			}
			for _, arg := range args {
				procedure, err := a.procedure(ctx, arg)
				if err != nil {
					return err
				}
				procedures = append(procedures, procedure)
			}
			if len(procedures) == 0 {
				return fmt.Errorf("no procedures found in %s", a.cfg.SchemaDir)
			}

			doc := validation.Document(title, Version, procedures)
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode openapi document: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), outPath, append(data, '\n'))
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the document to a file instead of stdout")
	cmd.Flags().StringVar(&title, "title", "Study procedures", "document title")
	return cmd
}
