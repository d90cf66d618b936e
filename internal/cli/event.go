package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-studyform/pkg/form"
	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/scheduling"
)

func newEventCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Prepare event payloads for the scheduling API",
	}
	cmd.AddCommand(newEventNewCmd(a), newEventCompleteCmd(a))
	return cmd
}

func newEventNewCmd(a *app) *cobra.Command {
	var (
		study, subject, procedureArg string
		start, end, notes, status    string
		exact                        bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Build the payload of a new event",
		Long: `Build the JSON payload creating an event. Start and end are site-local
YYYY-MM-DDTHH:mm values and default to now and one hour later; they are sent
as UTC.

The study and procedure are remembered in the sticky store and reused when
the flags are omitted next time.`,
		Example: `  studyform event new --study 0190... --subject 0190... --procedure VITALS --start 2024-03-04T09:30`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			conv, err := a.converter()
			if err != nil {
				return err
			}
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			opts := []scheduling.Option{scheduling.WithStore(store)}
			if exact {
				opts = append(opts, scheduling.WithExactConversion())
			}
			scheduler := scheduling.New(conv, opts...)

			catalog, err := a.catalog(ctx)
			if err != nil {
				return err
			}
			procedures := catalog.Procedures()

			draft, err := scheduler.NewDraft(ctx)
			if err != nil {
				return err
			}
			if study != "" {
				if draft, err = scheduler.SelectStudy(ctx, draft, study, procedures); err != nil {
					return err
				}
			}
			if subject != "" {
				draft.SubjectID = subject
			}
			if procedureArg != "" {
				draft.ProcedureID = procedureID(procedureArg, catalog.Get)
			}
			if start != "" {
				draft.Start = start
			}
			if end != "" {
				draft.End = end
			}
			draft.Notes = notes
			if draft.Status, err = model.ParseEventStatus(status); err != nil {
				return err
			}

			event, err := scheduler.Payload(draft)
			if err != nil {
				return err
			}
			if err := scheduler.Remember(ctx, draft); err != nil {
				a.logger.Warn("could not remember event defaults", "error", err)
			}
			return printJSON(cmd, event)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&study, "study", "", "study id (default: last used)")
	flags.StringVar(&subject, "subject", "", "subject id")
	flags.StringVar(&procedureArg, "procedure", "", "procedure id or catalog key (default: last used for the study)")
	flags.StringVar(&start, "start", "", "local start, YYYY-MM-DDTHH:mm")
	flags.StringVar(&end, "end", "", "local end, YYYY-MM-DDTHH:mm")
	flags.StringVar(&notes, "notes", "", "event notes")
	flags.StringVar(&status, "status", "", "pending, completed, cancelled or no_show")
	flags.BoolVar(&exact, "exact", false, "resolve the UTC offset at the event time")
	return cmd
}

func newEventCompleteCmd(a *app) *cobra.Command {
	var valuesPath string
	cmd := &cobra.Command{
		Use:   "complete <event.json> --values data.json",
		Short: "Attach captured procedure data to an event",
		Long: `Validate captured data against the event's procedure form and print the
event with procedure_data set and status completed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var event model.Event
			if err := readJSON(args[0], &event); err != nil {
				return err
			}
			catalog, err := a.catalog(ctx)
			if err != nil {
				return err
			}
			procedure, ok := procedureByID(catalog.Procedures(), event.ProcedureID)
			if !ok {
				return fmt.Errorf("procedure %s of event is not in %s", event.ProcedureID, a.cfg.SchemaDir)
			}
			values, err := a.readValues(ctx, valuesPath)
			if err != nil {
				return err
			}

			var submitted model.Values
			opts := append(formOptions(a), form.WithSubmit(func(v model.Values) { submitted = v }))
			f, err := scheduling.ProcedureForm(procedure, event, opts...)
			if err != nil {
				return err
			}
			for name, value := range values {
				f.Set(name, value)
			}
			if !f.Submit() {
				for _, field := range procedure.FormDataSchema.Fields {
					if msg := f.Error(field.Name); msg != "" {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field.Name, msg)
					}
				}
				return ErrInvalidData
			}
			return printJSON(cmd, scheduling.Complete(event, submitted))
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON/YAML file with the captured values")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

// procedureID accepts a UUID or a catalog key.
func procedureID(arg string, lookup func(string) (model.Procedure, bool)) string {
	if _, err := uuid.Parse(arg); err == nil {
		return arg
	}
	if p, ok := lookup(arg); ok {
		return p.ID.String()
	}
	return arg
}

func procedureByID(procedures []model.Procedure, id uuid.UUID) (model.Procedure, bool) {
	for _, p := range procedures {
		if p.ID == id {
			return p, true
		}
	}
	return model.Procedure{}, false
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
