package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-studyform/components/timezones"
	"github.com/goliatone/go-studyform/pkg/tz"
)

func newTZCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tz",
		Short: "Convert event times between UTC and the site timezone",
		Long: `Convert and format datetimes using the configured timezone
(STUDYFORM_TIMEZONE). Use --timezone to override it for one call.`,
	}
	var zone string
	cmd.PersistentFlags().StringVar(&zone, "timezone", "", "IANA timezone (default from config)")
	conv := func() (*tz.Converter, error) {
		if zone != "" {
			return tz.NewConverter(zone)
		}
		return a.converter()
	}
	cmd.AddCommand(newTZFromCmd(conv), newTZToCmd(conv), newTZFormatCmd(conv), newTZSearchCmd())
	return cmd
}

type converterFunc func() (*tz.Converter, error)

func newTZFromCmd(conv converterFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "from <utc-datetime>",
		Short: "Show a UTC datetime as an editing value in the site timezone",
		Example: `  studyform tz from 2024-01-15T02:30:00Z
  studyform tz from 2024-01-15T02:30:00   # no designator means UTC`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conv()
			if err != nil {
				return err
			}
			local, err := c.FromUTCString(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tz.FormatLocalInput(local))
			return nil
		},
	}
}

func newTZToCmd(conv converterFunc) *cobra.Command {
	var exact bool
	cmd := &cobra.Command{
		Use:   "to <local-datetime>",
		Short: "Convert a site-local editing value to UTC",
		Long: `Convert YYYY-MM-DDTHH:mm[:ss] to a UTC ISO-8601 string.

By default the offset is measured at the current moment, which is off by the
DST shift for values on the other side of a transition. --exact resolves the
offset at the converted wall-clock time instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conv()
			if err != nil {
				return err
			}
			var out string
			if exact {
				out, err = c.ToUTCExact(args[0])
			} else {
				out, err = c.ToUTC(args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&exact, "exact", false, "resolve the offset at the given time")
	return cmd
}

func newTZFormatCmd(conv converterFunc) *cobra.Command {
	var (
		opts   tz.FormatOptions
		styles struct{ weekday, day, month, year, hour, minute, second string }
	)
	cmd := &cobra.Command{
		Use:   "format <utc-datetime>",
		Short: "Format a UTC datetime for display in the site timezone",
		Example: `  studyform tz format 2024-01-15T02:30:00Z
  studyform tz format 2024-01-15T02:30:00Z --day numeric --month short --year numeric --hour 2-digit --minute 2-digit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conv()
			if err != nil {
				return err
			}
			instant, err := tz.ParseInstant(args[0])
			if err != nil {
				return err
			}
			opts.Weekday = tz.Style(styles.weekday)
			opts.Day = tz.Style(styles.day)
			opts.Month = tz.Style(styles.month)
			opts.Year = tz.Style(styles.year)
			opts.Hour = tz.Style(styles.hour)
			opts.Minute = tz.Style(styles.minute)
			opts.Second = tz.Style(styles.second)
			fmt.Fprintln(cmd.OutOrStdout(), c.Format(instant, opts))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&styles.weekday, "weekday", "", "weekday style: short, long, narrow")
	flags.StringVar(&styles.day, "day", "", "day style: numeric, 2-digit")
	flags.StringVar(&styles.month, "month", "", "month style: numeric, 2-digit, short, long, narrow")
	flags.StringVar(&styles.year, "year", "", "year style: numeric, 2-digit")
	flags.StringVar(&styles.hour, "hour", "", "hour style: numeric, 2-digit")
	flags.StringVar(&styles.minute, "minute", "", "minute style: numeric, 2-digit")
	flags.StringVar(&styles.second, "second", "", "second style: numeric, 2-digit")
	flags.BoolVar(&opts.Hour12, "hour12", false, "12-hour clock")
	return cmd
}

func newTZSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the IANA timezone list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			results, err := timezones.New(timezones.WithEmptySearchMode(timezones.EmptySearchTop)).Search(query, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, results)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of results")
	return cmd
}
