package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"now-and-here/internal/recurrence"
)

var parseCmd = &cobra.Command{
	Use:   "parse <phrase...>",
	Short: "Show how a phrase is understood",
	Long: `Parse a repeat phrase and print its kind, canonical wording and JSON form.

Examples:
  recur parse every 2 weeks on monday and thursday at 18:00
  recur parse the last day of every month`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(cmd.OutOrStdout(), strings.Join(args, " "))
	},
}

var nextCmd = &cobra.Command{
	Use:   "next <phrase...>",
	Short: "List upcoming occurrences of a phrase",
	Long: `List the next occurrences of a repeat phrase.

Examples:
  recur next every day at 9am
  recur next --count 10 --tz Europe/Berlin every month on the 31st
  recur next --from "2025-01-31 10:00" every month on the 31st`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		count, _ := cmd.Flags().GetInt("count")
		tz, _ := cmd.Flags().GetString("tz")

		loc, err := loadZone(tz)
		if err != nil {
			return err
		}
		start, err := parseFrom(from, loc, time.Now())
		if err != nil {
			return err
		}
		return runNext(cmd.OutOrStdout(), strings.Join(args, " "), start, count)
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <json>",
	Short: "Read a stored rule back into words",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecode(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	nextCmd.Flags().String("from", "", "start time, \"2006-01-02 15:04\" or RFC 3339 (default now)")
	nextCmd.Flags().IntP("count", "n", 5, "number of occurrences")
	nextCmd.Flags().String("tz", "", "IANA timezone to evaluate in (default local)")
}

func runParse(w io.Writer, phrase string) error {
	rule, ok := recurrence.Parse(phrase)
	if !ok {
		return fmt.Errorf("could not understand %q", phrase)
	}
	data, err := recurrence.Marshal(rule)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", green("✓"), recurrence.Display(rule))
	fmt.Fprintf(w, "  %s %s\n", cyan("kind:"), rule.Kind())
	fmt.Fprintf(w, "  %s %s\n", cyan("json:"), data)
	return nil
}

func runNext(w io.Writer, phrase string, from time.Time, count int) error {
	if count < 1 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	rule, ok := recurrence.Parse(phrase)
	if !ok {
		return fmt.Errorf("could not understand %q", phrase)
	}

	bold := color.New(color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", bold(recurrence.Display(rule)), gray("from "+from.Format("Mon 2006-01-02 15:04 MST")))
	for i, t := range recurrence.Upcoming(rule, from, count) {
		fmt.Fprintf(w, "%3d. %s\n", i+1, t.Format("Mon 2006-01-02 15:04 MST"))
	}
	return nil
}

func runDecode(w io.Writer, raw string) error {
	rule, err := recurrence.Unmarshal([]byte(raw))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s (%s)\n", recurrence.Display(rule), rule.Kind())
	return nil
}

func loadZone(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

func parseFrom(value string, loc *time.Location, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --from %q, expected \"2006-01-02 15:04\" or RFC 3339", value)
}
