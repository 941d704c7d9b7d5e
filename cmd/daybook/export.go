package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"daybook/export"
	"daybook/internal/validation"
)

var errInvalidFormat = errors.New("invalid export format")

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export tasks to JSON, CSV, or text",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var (
	exportFormat            string
	exportExcludeCompleted  bool
	exportExcludeSubtasks   bool
	exportExcludeLabels     bool
	exportExcludeCategories bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tasks from a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var (
	importMerge         bool
	importSkipCompleted bool
	importSkipSubtasks  bool
	importSkipLabels    bool
	importForce         bool
)

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Export format (json, csv, txt)")
	exportCmd.Flags().BoolVar(&exportExcludeCompleted, "exclude-completed", false, "Leave out completed tasks")
	exportCmd.Flags().BoolVar(&exportExcludeSubtasks, "exclude-subtasks", false, "Leave out subtasks")
	exportCmd.Flags().BoolVar(&exportExcludeLabels, "exclude-labels", false, "Leave out labels")
	exportCmd.Flags().BoolVar(&exportExcludeCategories, "exclude-categories", false, "Leave out categories")

	importCmd.Flags().BoolVar(&importMerge, "merge", false, "Merge with existing tasks instead of replacing them")
	importCmd.Flags().BoolVar(&importSkipCompleted, "skip-completed", false, "Skip completed tasks")
	importCmd.Flags().BoolVar(&importSkipSubtasks, "skip-subtasks", false, "Skip subtasks")
	importCmd.Flags().BoolVar(&importSkipLabels, "skip-labels", false, "Skip labels")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Replace existing tasks without confirmation")
}

func runExport(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	format := export.Format(exportFormat)
	if exportFormat == "" {
		format = export.JSON
		if session.cfg.Export.Format != "" {
			format = export.Format(session.cfg.Export.Format)
		}
	}
	if !format.IsValid() {
		return validation.FormatInvalidValueError(errInvalidFormat, format, export.Formats)
	}

	opts := export.Options{
		ExcludeCompleted:  exportExcludeCompleted,
		ExcludeSubtasks:   exportExcludeSubtasks,
		ExcludeLabels:     exportExcludeLabels,
		ExcludeCategories: exportExcludeCategories,
	}
	if !cmd.Flags().Changed("exclude-completed") {
		opts.ExcludeCompleted = session.cfg.Export.ExcludeCompleted
	}

	data, err := export.Export(session.store.Snapshot(), format, opts, session.now())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(args[0], data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Exported to %s\n", args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	batch, err := export.Parse(data, export.ImportOptions{
		SkipCompleted: importSkipCompleted,
		SkipSubtasks:  importSkipSubtasks,
		SkipLabels:    importSkipLabels,
		Location:      session.loc,
	})
	if err != nil {
		return err
	}

	if !importMerge && !importForce && len(session.store.Tasks()) > 0 {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("import would replace %d existing tasks; pass --merge or --force", len(session.store.Tasks()))
		}
		fmt.Printf("Replace %d existing tasks with %d imported ones? [y/n]: ", len(session.store.Tasks()), len(batch.Tasks))
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" && response != "yes" {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	imported, err := session.store.Import(batch, importMerge)
	if err != nil {
		return err
	}
	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Imported %d tasks\n", len(imported))
	return nil
}
