package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daybook/internal/ui"
	"daybook/task"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics",
	RunE:  runStats,
}

var statsJSON bool

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	stats := task.Compute(session.store.Snapshot(), session.now())

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Println(ui.StyleHeader("Tasks"))
	fmt.Printf("  Total:      %d\n", stats.TotalTasks)
	fmt.Printf("  Active:     %d\n", stats.ActiveTasks)
	fmt.Printf("  Completed:  %d (%d%%)\n", stats.CompletedTasks, stats.CompletionRate)
	fmt.Printf("  Important:  %d\n", stats.ImportantTasks)
	fmt.Printf("  Overdue:    %d\n", stats.OverdueTasks)
	fmt.Printf("  Last 7d:    %d created\n", stats.CreatedLastWeek)

	fmt.Println(ui.StyleHeader("Priorities"))
	for _, p := range task.ValidPriorities() {
		fmt.Printf("  %-8s %d\n", p, stats.PriorityCounts[p])
	}

	if len(stats.Categories) > 0 {
		fmt.Println(ui.StyleHeader("Categories"))
		for _, cs := range stats.Categories {
			fmt.Printf("  %-16s %d (%d done)\n", cs.Category.Name, cs.Count, cs.Completed)
		}
	}

	if len(stats.Labels) > 0 {
		fmt.Println(ui.StyleHeader("Labels"))
		for _, ls := range stats.Labels {
			fmt.Printf("  %-16s %d\n", ls.Label.Name, ls.Count)
		}
	}

	if stats.TotalSubtasks > 0 {
		fmt.Println(ui.StyleHeader("Subtasks"))
		fmt.Printf("  Total:      %d\n", stats.TotalSubtasks)
		fmt.Printf("  Completed:  %d (%d%%)\n", stats.CompletedSubtasks, stats.SubtaskCompletionRate)
	}

	fmt.Println(ui.StyleHeader("Time"))
	fmt.Printf("  Tracked:    %s\n", ui.FormatClock(stats.TotalTracked))
	return nil
}
