package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"daybook/task"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed the store with starter categories and labels",
	RunE:  runInit,
}

var seedCategories = []struct {
	name  string
	color string
}{
	{"personal", "#3b82f6"},
	{"work", "#8b5cf6"},
	{"shopping", "#f59e0b"},
	{"health", "#10b981"},
}

var seedLabels = []struct {
	name  string
	color string
}{
	{"quick", "#22c55e"},
	{"waiting", "#eab308"},
	{"deep-work", "#a855f7"},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	created := 0
	for _, seed := range seedCategories {
		_, err := session.store.CreateCategory(seed.name, seed.color)
		if errors.Is(err, task.ErrCategoryExists) {
			continue
		}
		if err != nil {
			return err
		}
		created++
	}

	existing := make(map[string]bool)
	for _, l := range session.store.Labels() {
		existing[l.Name] = true
	}
	for _, seed := range seedLabels {
		if existing[seed.name] {
			continue
		}
		if _, err := session.store.CreateLabel(seed.name, seed.color); err != nil {
			return err
		}
		created++
	}

	if err := session.save(); err != nil {
		return err
	}

	fmt.Printf("Initialized daybook (%d records created)\n", created)
	return nil
}
