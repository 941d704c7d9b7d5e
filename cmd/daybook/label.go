package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daybook/internal/ui"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage labels",
}

var labelCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a label",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabelCreate,
}

var labelCreateColor string

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labels",
	RunE:  runLabelList,
}

var labelListJSON bool

var labelDeleteCmd = &cobra.Command{
	Use:   "delete <label>",
	Short: "Delete a label everywhere",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabelDelete,
}

var labelAddCmd = &cobra.Command{
	Use:   "add <task-id> <label>",
	Short: "Attach a label to a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runLabelAdd,
}

var labelRemoveCmd = &cobra.Command{
	Use:   "remove <task-id> <label>",
	Short: "Detach a label from a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runLabelRemove,
}

func init() {
	rootCmd.AddCommand(labelCmd)
	labelCmd.AddCommand(labelCreateCmd, labelListCmd, labelDeleteCmd, labelAddCmd, labelRemoveCmd)

	labelCreateCmd.Flags().StringVar(&labelCreateColor, "color", "", "Display color")
	labelListCmd.Flags().BoolVar(&labelListJSON, "json", false, "Output as JSON")
}

func runLabelCreate(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	created, err := session.store.CreateLabel(args[0], labelCreateColor)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Created label %s: %s\n", created.ID, created.Name)
	return nil
}

func runLabelList(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	labels := session.store.Labels()

	if labelListJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(labels)
	}

	if len(labels) == 0 {
		fmt.Println("No labels.")
		return nil
	}

	usage := make(map[string]int)
	for _, t := range session.store.Tasks() {
		for _, id := range t.LabelIDs {
			usage[id]++
		}
	}

	builder := ui.NewTableBuilder([]string{"ID", "NAME", "COLOR", "TASKS"}, len(labels))
	for _, l := range labels {
		builder.AddRow([]string{l.ID, l.Name, l.Color, fmt.Sprintf("%d", usage[l.ID])})
	}
	fmt.Print(builder.String())
	return nil
}

func runLabelDelete(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	label, err := session.resolveLabel(args[0])
	if err != nil {
		return err
	}

	if err := session.store.DeleteLabel(label.ID); err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Deleted label %s\n", label.Name)
	return nil
}

func runLabelAdd(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	target, err := session.resolveTask(args[0])
	if err != nil {
		return err
	}
	label, err := session.resolveLabel(args[1])
	if err != nil {
		return err
	}

	if err := session.store.AddLabelToTask(target.ID, label.ID); err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Labeled %s with %s\n", target.Title, label.Name)
	return nil
}

func runLabelRemove(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	target, err := session.resolveTask(args[0])
	if err != nil {
		return err
	}
	label, err := session.resolveLabel(args[1])
	if err != nil {
		return err
	}

	if err := session.store.RemoveLabelFromTask(target.ID, label.ID); err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Removed %s from %s\n", label.Name, target.Title)
	return nil
}
