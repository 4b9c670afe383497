package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/autobot/internal/history"
	"github.com/gorewood/autobot/internal/output"
)

// newHistoryCmd creates the history command.
func newHistoryCmd() *cobra.Command {
	var (
		specName string
		last     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent AI tool runs",
		Long: `Show the AI tool runs recorded by generate, refine, update and infer,
newest first.

Examples:
  autobot history
  autobot history --spec todo-app --last 5
  autobot history --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, history.Filter{Spec: specName, Limit: last})
		},
	}
	cmd.Flags().StringVar(&specName, "spec", "", "Only show runs for this spec")
	cmd.Flags().IntVarP(&last, "last", "n", 20, "Number of runs to show")
	return cmd
}

func runHistory(cmd *cobra.Command, filter history.Filter) error {
	a := newApp(cmd, withHistory())
	defer a.close()

	if filter.Limit < 0 {
		return fail(a.printer, output.NewUserError("--last must not be negative"))
	}
	if a.history == nil {
		return fail(a.printer, output.NewSystemError("run history is unavailable: cannot open "+history.FileName+" in the config directory"))
	}

	records, err := a.history.List(cmd.Context(), filter)
	if err != nil {
		return fail(a.printer, err)
	}

	if a.printer.IsJSON() {
		return a.printer.WriteJSON(map[string]any{"runs": records})
	}
	if len(records) == 0 {
		a.printer.Println("No runs recorded.")
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Verb,
			rec.Spec,
			rec.Adapter,
			rec.Outcome,
			strconv.Itoa(rec.ExitCode),
			formatDuration(rec.Duration),
		})
	}
	a.printer.Table([]string{"STARTED", "VERB", "SPEC", "TOOL", "OUTCOME", "EXIT", "DURATION"}, rows)
	return nil
}
