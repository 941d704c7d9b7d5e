package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daybook/internal/ui"
	"daybook/task"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage task templates",
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateCreate,
}

var (
	templateCreateDescription string
	templateCreatePriority    string
	templateCreateCategory    string
	templateCreateSubtasks    []string
)

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE:  runTemplateList,
}

var templateListJSON bool

var templateUpdateCmd = &cobra.Command{
	Use:   "update <template>",
	Short: "Update a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateUpdate,
}

var (
	templateUpdateName        string
	templateUpdateDescription string
	templateUpdatePriority    string
	templateUpdateCategory    string
	templateUpdateSubtasks    []string
)

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <template>",
	Short: "Delete a template (instantiated tasks are kept)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateDelete,
}

var templateUseCmd = &cobra.Command{
	Use:   "use <template>",
	Short: "Create a fresh task from a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateUse,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateCreateCmd, templateListCmd, templateUpdateCmd, templateDeleteCmd, templateUseCmd)

	templateCreateCmd.Flags().StringVarP(&templateCreateDescription, "description", "d", "", "Description")
	templateCreateCmd.Flags().StringVarP(&templateCreatePriority, "priority", "p", "", "Priority")
	templateCreateCmd.Flags().StringVarP(&templateCreateCategory, "category", "c", "", "Category name or ID")
	templateCreateCmd.Flags().StringArrayVar(&templateCreateSubtasks, "subtask", nil, "Subtask title (repeatable)")

	templateUpdateCmd.Flags().StringVar(&templateUpdateName, "name", "", "New name")
	templateUpdateCmd.Flags().StringVarP(&templateUpdateDescription, "description", "d", "", "New description")
	templateUpdateCmd.Flags().StringVarP(&templateUpdatePriority, "priority", "p", "", "New priority")
	templateUpdateCmd.Flags().StringVarP(&templateUpdateCategory, "category", "c", "", "New category name or ID (empty clears)")
	templateUpdateCmd.Flags().StringArrayVar(&templateUpdateSubtasks, "subtask", nil, "Replace subtask blueprints (repeatable)")

	templateListCmd.Flags().BoolVar(&templateListJSON, "json", false, "Output as JSON")
}

func runTemplateCreate(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	opts := task.CreateTemplateOptions{
		Description: templateCreateDescription,
		Priority:    task.Priority(templateCreatePriority),
		Subtasks:    templateCreateSubtasks,
	}
	if templateCreateCategory != "" {
		category, err := session.resolveCategory(templateCreateCategory)
		if err != nil {
			return err
		}
		opts.Category = category.ID
	}

	created, err := session.store.CreateTemplate(args[0], opts)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Created template %s: %s\n", created.ID, created.Name)
	return nil
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	templates := session.store.Templates()

	if templateListJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(templates)
	}

	if len(templates) == 0 {
		fmt.Println("No templates.")
		return nil
	}

	builder := ui.NewTableBuilder([]string{"ID", "NAME", "PRIORITY", "CATEGORY", "SUBTASKS"}, len(templates))
	for _, t := range templates {
		builder.AddRow([]string{
			t.ID,
			t.Name,
			string(t.Priority),
			categoryName(session, t.Category),
			fmt.Sprintf("%d", len(t.Subtasks)),
		})
	}
	fmt.Print(builder.String())
	return nil
}

func runTemplateUpdate(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	target, err := session.resolveTemplate(args[0])
	if err != nil {
		return err
	}

	opts := task.UpdateTemplateOptions{}
	if cmd.Flags().Changed("name") {
		opts.Name = &templateUpdateName
	}
	if cmd.Flags().Changed("description") {
		opts.Description = &templateUpdateDescription
	}
	if cmd.Flags().Changed("priority") {
		priority := task.Priority(templateUpdatePriority)
		opts.Priority = &priority
	}
	if cmd.Flags().Changed("category") {
		categoryID := ""
		if templateUpdateCategory != "" {
			category, err := session.resolveCategory(templateUpdateCategory)
			if err != nil {
				return err
			}
			categoryID = category.ID
		}
		opts.Category = &categoryID
	}
	if cmd.Flags().Changed("subtask") {
		blueprints := make([]task.SubtaskBlueprint, 0, len(templateUpdateSubtasks))
		for _, title := range templateUpdateSubtasks {
			blueprints = append(blueprints, task.SubtaskBlueprint{Title: title})
		}
		opts.Subtasks = blueprints
	}

	updated, err := session.store.UpdateTemplate(target.ID, opts)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Updated template %s: %s\n", updated.ID, updated.Name)
	return nil
}

func runTemplateDelete(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	target, err := session.resolveTemplate(args[0])
	if err != nil {
		return err
	}

	if err := session.store.DeleteTemplate(target.ID); err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Deleted template %s\n", target.Name)
	return nil
}

func runTemplateUse(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	target, err := session.resolveTemplate(args[0])
	if err != nil {
		return err
	}

	created, err := session.store.Instantiate(target.ID)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Created task %s from template %s\n", created.ID, target.Name)
	return nil
}
