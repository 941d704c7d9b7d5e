package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"daybook/internal/markdown"
	"daybook/internal/ui"
	"daybook/internal/validation"
	"daybook/task"
)

var errInvalidTab = errors.New("invalid tab")

// add
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var (
	addDescription string
	addPriority    string
	addCategory    string
	addDue         string
	addImportant   bool
	addLabels      []string
)

// list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runList,
}

var (
	listTab      string
	listPriority string
	listCategory string
	listLabels   []string
	listDue      string
	listSubtasks string
	listTracked  string
	listSearch   string
	listJSON     bool
	listCounts   bool
)

// show
var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

// update
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var (
	updateTitle       string
	updateDescription string
	updatePriority    string
	updateCategory    string
	updateDue         string
	updateClearDue    bool
)

// done
var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Toggle task completion",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDone,
}

// important
var importantCmd = &cobra.Command{
	Use:   "important <id>...",
	Short: "Toggle task importance",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImportant,
}

// delete
var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete tasks and their time entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, showCmd, updateCmd, doneCmd, importantCmd, deleteCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority (low, medium, high, urgent)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category name or ID")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().BoolVar(&addImportant, "important", false, "Mark as important")
	addCmd.Flags().StringArrayVarP(&addLabels, "label", "l", nil, "Attach a label by name or ID (repeatable)")

	listCmd.Flags().StringVarP(&listTab, "tab", "t", "all", "Tab (all, active, completed, important)")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Filter by priority")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category name or ID")
	listCmd.Flags().StringArrayVarP(&listLabels, "label", "l", nil, "Filter by label (repeatable, matches any)")
	listCmd.Flags().StringVar(&listDue, "due", "", "Filter by due bucket (today, tomorrow, thisWeek, nextWeek, overdue)")
	listCmd.Flags().StringVar(&listSubtasks, "subtasks", "", "Filter by subtask presence (with, without)")
	listCmd.Flags().StringVar(&listTracked, "tracked", "", "Filter by tracked time presence (with, without)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search title, description, and subtasks")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listCounts, "counts", false, "Show per-tab counts instead of tasks")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "New description")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "New priority")
	updateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "New category name or ID (empty clears)")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "New due date (YYYY-MM-DD)")
	updateCmd.Flags().BoolVar(&updateClearDue, "clear-due", false, "Remove the due date")
}

func runAdd(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	opts := task.CreateTaskOptions{
		Description: addDescription,
		Priority:    task.Priority(addPriority),
		Important:   addImportant,
	}

	if opts.Priority == "" && session.cfg.Tasks.DefaultPriority != "" {
		opts.Priority = task.Priority(session.cfg.Tasks.DefaultPriority)
	}

	category := addCategory
	if category == "" {
		category = session.cfg.Tasks.DefaultCategory
	}
	if category != "" {
		resolved, err := session.resolveCategory(category)
		if err != nil {
			return err
		}
		opts.Category = resolved.ID
	}

	if addDue != "" {
		due, err := session.parseDueDate(addDue)
		if err != nil {
			return err
		}
		opts.DueDate = due
	}

	for _, ref := range addLabels {
		label, err := session.resolveLabel(ref)
		if err != nil {
			return err
		}
		opts.Labels = append(opts.Labels, label.ID)
	}

	created, err := session.store.CreateTask(args[0], opts)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Added task %s: %s\n", created.ID, created.Title)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	tasks := session.store.Tasks()

	if listCounts {
		counts := task.CountTabs(tasks)
		fmt.Printf("all: %d  active: %d  completed: %d  important: %d\n",
			counts.All, counts.Active, counts.Completed, counts.Important)
		return nil
	}

	tab := task.Tab(listTab)
	if !tab.IsValid() {
		return validation.FormatInvalidValueError(errInvalidTab, tab, task.ValidTabs())
	}

	filter := task.Filter{
		Priority:  task.Priority(listPriority),
		DateRange: task.DateRange(listDue),
	}
	if listCategory != "" {
		category, err := session.resolveCategory(listCategory)
		if err != nil {
			return err
		}
		filter.Category = category.ID
	}
	for _, ref := range listLabels {
		label, err := session.resolveLabel(ref)
		if err != nil {
			return err
		}
		filter.Labels = append(filter.Labels, label.ID)
	}
	if listSubtasks != "" {
		filter.HasSubtasks = task.Presence(listSubtasks)
	}
	if listTracked != "" {
		filter.TimeTracked = task.Presence(listTracked)
	}

	filtered := task.FilterTasks(tasks, session.store.TimeEntries(), tab, filter, "", session.now())
	if listSearch != "" {
		matched := filtered[:0]
		for i := range filtered {
			if task.MatchesSearch(&filtered[i], listSearch, task.SearchTitle, task.SearchDescription, task.SearchSubtasks) {
				matched = append(matched, filtered[i])
			}
		}
		filtered = matched
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(filtered)
	}

	if len(filtered) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	printTaskTable(session, filtered)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	var tasks []task.Task
	for _, ref := range args {
		t, err := session.resolveTask(ref)
		if err != nil {
			return err
		}
		tasks = append(tasks, *t)
	}

	if showJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}

	for i, t := range tasks {
		if i > 0 {
			fmt.Println()
		}
		printTaskDetail(session, t)
	}
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	target, err := session.resolveTask(args[0])
	if err != nil {
		return err
	}

	opts := task.UpdateTaskOptions{}

	// Only set fields that were explicitly provided
	if cmd.Flags().Changed("title") {
		opts.Title = &updateTitle
	}
	if cmd.Flags().Changed("description") {
		opts.Description = &updateDescription
	}
	if cmd.Flags().Changed("priority") {
		priority := task.Priority(updatePriority)
		opts.Priority = &priority
	}
	if cmd.Flags().Changed("category") {
		categoryID := ""
		if updateCategory != "" {
			category, err := session.resolveCategory(updateCategory)
			if err != nil {
				return err
			}
			categoryID = category.ID
		}
		opts.Category = &categoryID
	}
	if updateClearDue {
		opts.ClearDueDate = true
	} else if cmd.Flags().Changed("due") {
		due, err := session.parseDueDate(updateDue)
		if err != nil {
			return err
		}
		opts.DueDate = due
	}

	updated, err := session.store.UpdateTask(target.ID, opts)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Updated %s: %s\n", updated.ID, updated.Title)
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	for _, ref := range args {
		target, err := session.resolveTask(ref)
		if err != nil {
			return err
		}
		updated, err := session.store.ToggleComplete(target.ID)
		if err != nil {
			return err
		}
		state := "active"
		if updated.Completed {
			state = "completed"
		}
		fmt.Printf("%s %s: %s\n", ui.Glyph(updated.Completed), updated.Title, state)
	}
	return session.save()
}

func runImportant(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	for _, ref := range args {
		target, err := session.resolveTask(ref)
		if err != nil {
			return err
		}
		updated, err := session.store.ToggleImportant(target.ID)
		if err != nil {
			return err
		}
		state := "not important"
		if updated.Important {
			state = "important"
		}
		fmt.Printf("%s: %s (priority %s)\n", updated.Title, state, updated.Priority)
	}
	return session.save()
}

func runDelete(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	for _, ref := range args {
		target, err := session.resolveTask(ref)
		if err != nil {
			return err
		}
		if err := session.store.DeleteTask(target.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s: %s\n", target.ID, target.Title)
	}
	return session.save()
}

func printTaskDetail(session *session, t task.Task) {
	fmt.Printf("%s %s\n", ui.Glyph(t.Completed), ui.StyleTitle(t))
	fmt.Printf("  ID:       %s\n", t.ID)
	fmt.Printf("  Priority: %s\n", ui.StylePriority(t.Priority))
	fmt.Printf("  Category: %s\n", categoryName(session, t.Category))
	fmt.Printf("  Due:      %s\n", ui.FormatDate(t.DueDate))
	fmt.Printf("  Created:  %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	if t.Important {
		fmt.Printf("  Important: yes\n")
	}
	if tracked := session.store.TaskDuration(t.ID); tracked > 0 {
		fmt.Printf("  Tracked:  %s\n", ui.FormatDurationShort(tracked))
	}
	if len(t.LabelIDs) > 0 {
		fmt.Printf("  Labels:   %s\n", strings.Join(labelNames(session, t.LabelIDs), ", "))
	}
	if t.Description != "" {
		render := markdown.Render
		if !ui.ColorsEnabled() {
			render = markdown.RenderPlain
		}
		if rendered := render(80, 2, []byte(t.Description)); len(rendered) > 0 {
			fmt.Printf("\n%s\n", rendered)
		}
	}
	if len(t.Subtasks) > 0 {
		fmt.Println()
		for _, sub := range t.Subtasks {
			fmt.Printf("    %s %s\n", ui.Glyph(sub.Completed), sub.Title)
		}
	}
}

func categoryName(session *session, id string) string {
	if id == "" {
		return "-"
	}
	for _, c := range session.store.Categories() {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

func labelNames(session *session, ids []string) []string {
	labels := session.store.Labels()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name := id
		for _, l := range labels {
			if l.ID == id {
				name = l.Name
				break
			}
		}
		names = append(names, name)
	}
	return names
}
