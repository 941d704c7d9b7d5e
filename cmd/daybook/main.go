// Package main implements the daybook CLI tool.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"daybook/internal/config"
	"daybook/persist"
	"daybook/task"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "daybook",
	Short:         "Daybook - track tasks and where your time goes",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// session bundles the config, the storage backend, and the in-memory
// store for the duration of one command.
type session struct {
	cfg     *config.Config
	loc     *time.Location
	storage persist.Storage
	store   *task.Store
}

func openSession() (*session, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := config.Load(wd)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}

	storage, err := persist.Open(persist.Backend(cfg.Storage.Backend), dir)
	if err != nil {
		return nil, err
	}

	collections, err := storage.Load()
	if err != nil {
		return nil, err
	}

	store := task.NewStore(task.StoreOptions{})
	if err := store.ReplaceAll(collections); err != nil {
		return nil, err
	}

	return &session{cfg: cfg, loc: loc, storage: storage, store: store}, nil
}

// now returns the current time in the configured timezone, which decides
// where calendar-day boundaries fall.
func (s *session) now() time.Time {
	return time.Now().In(s.loc)
}

// save persists the current store snapshot.
func (s *session) save() error {
	return s.storage.Save(s.store.Snapshot())
}

func (s *session) close() {
	if closer, ok := s.storage.(io.Closer); ok {
		closer.Close()
	}
}

// resolveTask finds a task by full ID or by unique ID prefix.
func (s *session) resolveTask(ref string) (*task.Task, error) {
	if t, err := s.store.Task(ref); err == nil {
		return t, nil
	}

	var matches []task.Task
	for _, t := range s.store.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, ref)
	case 1:
		return &matches[0], nil
	}
	return nil, fmt.Errorf("task ID %q is ambiguous (%d matches)", ref, len(matches))
}

// resolveLabel finds a label by ID, ID prefix, or name.
func (s *session) resolveLabel(ref string) (*task.Label, error) {
	labels := s.store.Labels()
	for i := range labels {
		if labels[i].ID == ref || labels[i].Name == ref {
			return &labels[i], nil
		}
	}
	var matches []task.Label
	for _, l := range labels {
		if strings.HasPrefix(l.ID, ref) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", task.ErrLabelNotFound, ref)
	case 1:
		return &matches[0], nil
	}
	return nil, fmt.Errorf("label %q is ambiguous (%d matches)", ref, len(matches))
}

// resolveCategory finds a category by ID or name.
func (s *session) resolveCategory(ref string) (*task.Category, error) {
	for _, c := range s.store.Categories() {
		if c.ID == ref || c.Name == ref {
			copied := c
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", task.ErrCategoryNotFound, ref)
}

// resolveTemplate finds a template by ID, ID prefix, or name.
func (s *session) resolveTemplate(ref string) (*task.Template, error) {
	templates := s.store.Templates()
	for i := range templates {
		if templates[i].ID == ref || templates[i].Name == ref {
			return &templates[i], nil
		}
	}
	var matches []task.Template
	for _, t := range templates {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", task.ErrTemplateNotFound, ref)
	case 1:
		return &matches[0], nil
	}
	return nil, fmt.Errorf("template %q is ambiguous (%d matches)", ref, len(matches))
}

// parseDueDate parses a --due flag value as a calendar day in the
// session's timezone.
func (s *session) parseDueDate(value string) (*time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", value, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (expected YYYY-MM-DD)", value)
	}
	return &day, nil
}
