package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"daybook/internal/ui"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Track time against tasks",
}

var timerStartCmd = &cobra.Command{
	Use:   "start <task-id>",
	Short: "Start a timer on a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerStart,
}

var timerStopCmd = &cobra.Command{
	Use:   "stop <task-id>",
	Short: "Stop the running timer on a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerStop,
}

var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show running timers and today's total",
	RunE:  runTimerStatus,
}

var timerLogCmd = &cobra.Command{
	Use:   "log <task-id>",
	Short: "Show recent time entries for a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerLog,
}

var timerLogLimit int

var timerDeleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerDelete,
}

func init() {
	rootCmd.AddCommand(timerCmd)
	timerCmd.AddCommand(timerStartCmd, timerStopCmd, timerStatusCmd, timerLogCmd, timerDeleteCmd)

	timerLogCmd.Flags().IntVar(&timerLogLimit, "limit", 10, "Maximum number of entries to show")
}

func runTimerStart(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	target, err := session.resolveTask(args[0])
	if err != nil {
		return err
	}

	entry, err := session.store.StartTimer(target.ID)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Started timer %s on %s\n", entry.ID, target.Title)
	return nil
}

func runTimerStop(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	target, err := session.resolveTask(args[0])
	if err != nil {
		return err
	}

	active, ok := session.store.ActiveEntry(target.ID)
	if !ok {
		return fmt.Errorf("no running timer on %s", target.Title)
	}

	stopped, err := session.store.StopTimer(target.ID, active.ID)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Stopped timer on %s after %s\n", target.Title, ui.FormatClock(stopped.Elapsed(session.now())))
	return nil
}

func runTimerStatus(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	now := session.now()
	running := false
	for _, entry := range session.store.TimeEntries() {
		if !entry.IsActive {
			continue
		}
		running = true
		title := entry.TaskID
		if t, err := session.store.Task(entry.TaskID); err == nil {
			title = t.Title
		}
		fmt.Printf("%s %s  %s\n", ui.StyleActive("▶"), title, ui.FormatClock(entry.Elapsed(now)))
	}
	if !running {
		fmt.Println("No running timers.")
	}

	fmt.Printf("Today: %s\n", ui.FormatClock(session.store.DayDuration(now)))
	return nil
}

func runTimerLog(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	target, err := session.resolveTask(args[0])
	if err != nil {
		return err
	}

	entries := session.store.RecentEntries(target.ID, timerLogLimit)
	if len(entries) == 0 {
		fmt.Println("No time entries.")
		return nil
	}

	now := session.now()
	builder := ui.NewTableBuilder([]string{"ID", "STARTED", "DURATION", "STATE"}, len(entries))
	for _, entry := range entries {
		state := "stopped"
		if entry.IsActive {
			state = ui.StyleActive("running")
		}
		builder.AddRow([]string{
			entry.ID,
			entry.StartTime.Format("2006-01-02 15:04"),
			ui.FormatClock(entry.Elapsed(now)),
			state,
		})
	}
	fmt.Print(builder.String())

	fmt.Printf("Total: %s\n", ui.FormatClock(session.store.TaskDuration(target.ID)))
	return nil
}

func runTimerDelete(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	if err := session.store.DeleteTimeEntry(args[0]); err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Deleted time entry %s\n", args[0])
	return nil
}
