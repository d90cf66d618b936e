package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-studyform/pkg/form"
	"github.com/goliatone/go-studyform/pkg/validation"
)

// ErrInvalidData is returned when captured data fails validation.
var ErrInvalidData = errors.New("procedure data is invalid")

type validationReport struct {
	Procedure string                   `json:"procedure"`
	Valid     bool                     `json:"valid"`
	Errors    map[string]string        `json:"errors,omitempty"`
	Contract  []validation.SchemaIssue `json:"contract,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	var valuesPath string
	cmd := &cobra.Command{
		Use:   "validate <procedure|file|url> --values data.json",
		Short: "Validate captured procedure data",
		Long: `Check procedure data against the form rules (required fields, numbers)
and against the OpenAPI contract of the procedure_data payload. Prints a JSON
report and exits non-zero when the data is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			procedure, err := a.procedure(ctx, args[0])
			if err != nil {
				return err
			}
			if err := procedure.FormDataSchema.Validate(); err != nil {
				return err
			}
			values, err := a.readValues(ctx, valuesPath)
			if err != nil {
				return err
			}

			f := form.New(&procedure.FormDataSchema, values, formOptions(a)...)
			f.Submit()
			contract := validation.ValidateProcedureData(ctx, &procedure.FormDataSchema, f.Values())

			report := validationReport{
				Procedure: procedure.Name,
				Errors:    f.Errors(),
				Contract:  contract.Issues,
			}
			report.Valid = len(report.Errors) == 0 && contract.Valid

			if err := printJSON(cmd, report); err != nil {
				return err
			}
			if !report.Valid {
				return ErrInvalidData
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON/YAML file with the captured values")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func formOptions(a *app) []form.Option {
	if a.cfg.StrictNumbers {
		return []form.Option{form.WithStrictNumbers()}
	}
	return nil
}
