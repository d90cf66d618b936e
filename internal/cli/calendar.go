package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-studyform/pkg/calendar"
	"github.com/goliatone/go-studyform/pkg/model"
)

// agenda is the events file read by the calendar command. A bare JSON array
// of events is accepted too.
type agenda struct {
	Events   []model.Event   `json:"events"`
	Studies  []model.Study   `json:"studies"`
	Subjects []model.Subject `json:"subjects"`
}

func newCalendarCmd(a *app) *cobra.Command {
	var (
		week   string
		shift  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "calendar <events.json>",
		Short: "Print the weekly agenda of events in the site timezone",
		Long: `Lay events out on a Monday-start week in the configured timezone.

The file holds either a JSON array of events or an object with "events",
"studies" and "subjects"; procedure names come from the schema directory.`,
		Example: `  studyform calendar events.json
  studyform calendar events.json --week 2024-03-04 --shift 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conv, err := a.converter()
			if err != nil {
				return err
			}
			data, err := readAgenda(args[0])
			if err != nil {
				return err
			}
			lookups := calendar.Lookups{Studies: data.Studies, Subjects: data.Subjects}
			if catalog, err := a.catalog(ctx); err == nil {
				lookups.Procedures = catalog.Procedures()
			} else {
				a.logger.Warn("procedure names unavailable", "error", err)
			}

			anchor := conv.Now()
			if week != "" {
				if anchor, err = time.ParseInLocation(time.DateOnly, week, conv.Location()); err != nil {
					return fmt.Errorf("--week: %w", err)
				}
			}
			w := calendar.NewWeek(anchor, conv)
			for ; shift > 0; shift-- {
				w = w.Next()
			}
			for ; shift < 0; shift++ {
				w = w.Prev()
			}

			placed, err := w.Place(data.Events, lookups)
			if err != nil {
				a.logger.Warn("some events were skipped", "error", err)
			}
			if asJSON {
				return printJSON(cmd, placed)
			}
			printWeek(cmd.OutOrStdout(), placed)
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "any date of the week to show, YYYY-MM-DD (default: this week)")
	cmd.Flags().IntVar(&shift, "shift", 0, "move forward (or back, when negative) by whole weeks")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the week as JSON")
	return cmd
}

func readAgenda(path string) (agenda, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return agenda{}, err
	}
	var out agenda
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &out.Events)
	} else {
		err = json.Unmarshal(raw, &out)
	}
	if err != nil {
		return agenda{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

const clockLayout = "15:04"

func printWeek(w io.Writer, week calendar.Week) {
	fmt.Fprintln(w, week.Title)
	for _, day := range week.Days {
		marker := ""
		if day.Today {
			marker = " (today)"
		}
		fmt.Fprintf(w, "\n%s %s%s\n", day.Weekday, day.Number, marker)
		if len(day.Entries) == 0 {
			fmt.Fprintln(w, "  -")
			continue
		}
		for _, e := range day.Entries {
			fmt.Fprintf(w, "  %s-%s  %s  %s  [%s] %s\n",
				e.Start.Format(clockLayout),
				e.End.Format(clockLayout),
				e.Title, e.Subject, e.Status, e.Study)
		}
	}
}
