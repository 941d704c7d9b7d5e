package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daybook/internal/ui"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryCreate,
}

var categoryCreateColor string

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE:  runCategoryList,
}

var categoryListJSON bool

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <category>",
	Short: "Delete a category (its tasks become uncategorized)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryDelete,
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryCreateCmd, categoryListCmd, categoryDeleteCmd)

	categoryCreateCmd.Flags().StringVar(&categoryCreateColor, "color", "", "Display color")
	categoryListCmd.Flags().BoolVar(&categoryListJSON, "json", false, "Output as JSON")
}

func runCategoryCreate(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	created, err := session.store.CreateCategory(args[0], categoryCreateColor)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Created category %s: %s\n", created.ID, created.Name)
	return nil
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	categories := session.store.Categories()

	if categoryListJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(categories)
	}

	if len(categories) == 0 {
		fmt.Println("No categories.")
		return nil
	}

	counts := make(map[string]int)
	for _, t := range session.store.Tasks() {
		counts[t.Category]++
	}

	builder := ui.NewTableBuilder([]string{"ID", "NAME", "COLOR", "TASKS"}, len(categories))
	for _, c := range categories {
		builder.AddRow([]string{c.ID, c.Name, c.Color, fmt.Sprintf("%d", counts[c.ID])})
	}
	fmt.Print(builder.String())
	return nil
}

func runCategoryDelete(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	category, err := session.resolveCategory(args[0])
	if err != nil {
		return err
	}

	if err := session.store.DeleteCategory(category.ID); err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Deleted category %s\n", category.Name)
	return nil
}
