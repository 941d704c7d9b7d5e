package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"daybook/internal/ui"
	"daybook/task"
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Manage subtasks of a task",
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add <task-id> <title>",
	Short: "Add a subtask to a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskAdd,
}

var subtaskDoneCmd = &cobra.Command{
	Use:   "done <task-id> <subtask-id>",
	Short: "Toggle subtask completion",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskDone,
}

var subtaskUpdateCmd = &cobra.Command{
	Use:   "update <task-id> <subtask-id>",
	Short: "Update a subtask",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskUpdate,
}

var subtaskUpdateTitle string

var subtaskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id> <subtask-id>",
	Short: "Delete a subtask",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskDelete,
}

func init() {
	rootCmd.AddCommand(subtaskCmd)
	subtaskCmd.AddCommand(subtaskAddCmd, subtaskDoneCmd, subtaskUpdateCmd, subtaskDeleteCmd)

	subtaskUpdateCmd.Flags().StringVar(&subtaskUpdateTitle, "title", "", "New title")
}

func runSubtaskAdd(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	parent, err := session.resolveTask(args[0])
	if err != nil {
		return err
	}

	created, err := session.store.AddSubtask(parent.ID, args[1])
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Added subtask %s: %s\n", created.ID, created.Title)
	return nil
}

func resolveSubtask(parent *task.Task, ref string) (*task.Subtask, error) {
	for i := range parent.Subtasks {
		if parent.Subtasks[i].ID == ref {
			return &parent.Subtasks[i], nil
		}
	}
	var matches []*task.Subtask
	for i := range parent.Subtasks {
		if strings.HasPrefix(parent.Subtasks[i].ID, ref) {
			matches = append(matches, &parent.Subtasks[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", task.ErrSubtaskNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("subtask ID %q is ambiguous (%d matches)", ref, len(matches))
}

func runSubtaskDone(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	parent, err := session.resolveTask(args[0])
	if err != nil {
		return err
	}
	sub, err := resolveSubtask(parent, args[1])
	if err != nil {
		return err
	}

	completed := !sub.Completed
	updated, err := session.store.UpdateSubtask(parent.ID, sub.ID, task.UpdateSubtaskOptions{Completed: &completed})
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("%s %s\n", ui.Glyph(updated.Completed), updated.Title)
	return nil
}

func runSubtaskUpdate(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	parent, err := session.resolveTask(args[0])
	if err != nil {
		return err
	}
	sub, err := resolveSubtask(parent, args[1])
	if err != nil {
		return err
	}

	opts := task.UpdateSubtaskOptions{}
	if cmd.Flags().Changed("title") {
		opts.Title = &subtaskUpdateTitle
	}

	updated, err := session.store.UpdateSubtask(parent.ID, sub.ID, opts)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Updated subtask %s: %s\n", updated.ID, updated.Title)
	return nil
}

func runSubtaskDelete(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	parent, err := session.resolveTask(args[0])
	if err != nil {
		return err
	}
	sub, err := resolveSubtask(parent, args[1])
	if err != nil {
		return err
	}

	if err := session.store.DeleteSubtask(parent.ID, sub.ID); err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Deleted subtask %s: %s\n", sub.ID, sub.Title)
	return nil
}
