// Package export serializes task collections to interchange formats and
// parses them back. JSON round-trips every field, CSV carries a flat
// spreadsheet-friendly projection, and text is a human-readable report.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"daybook/task"
)

// Format identifies an interchange format.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	Text Format = "txt"
)

// Formats lists every supported format.
var Formats = []Format{JSON, CSV, Text}

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	switch f {
	case JSON, CSV, Text:
		return true
	}
	return false
}

// Extension returns the conventional file extension for f.
func (f Format) Extension() string { return string(f) }

const (
	dueDateLayout = "2006-01-02"
	docVersion    = "1.0"
)

// Options controls which parts of the collection an export includes.
// The zero value exports everything.
type Options struct {
	ExcludeCompleted  bool
	ExcludeSubtasks   bool
	ExcludeLabels     bool
	ExcludeCategories bool
}

// Document is the JSON export envelope.
type Document struct {
	Tasks      []taskRecord     `json:"tasks"`
	Metadata   Metadata         `json:"metadata"`
	Labels     []labelRecord    `json:"labels,omitempty"`
	Categories []categoryRecord `json:"categories,omitempty"`
}

// Metadata describes a JSON export.
type Metadata struct {
	ExportDate string `json:"exportDate"`
	Version    string `json:"version"`
	TotalTasks int    `json:"totalTasks"`
}

type taskRecord struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Completed   bool            `json:"completed"`
	Important   bool            `json:"important,omitempty"`
	Priority    string          `json:"priority"`
	Category    string          `json:"category,omitempty"`
	DueDate     string          `json:"due_date,omitempty"`
	CreatedAt   string          `json:"created_at"`
	Labels      []string        `json:"labels,omitempty"`
	Subtasks    []subtaskRecord `json:"subtasks,omitempty"`
}

type subtaskRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at,omitempty"`
}

type labelRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type categoryRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Export serializes the collection in the given format. The now argument
// stamps the export metadata.
func Export(c task.Collections, format Format, opts Options, now time.Time) ([]byte, error) {
	tasks := selectTasks(c.Tasks, opts)
	switch format {
	case JSON:
		return exportJSON(tasks, c, opts, now)
	case CSV:
		return exportCSV(tasks, c)
	case Text:
		return exportText(tasks, c, opts, now), nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

func selectTasks(tasks []task.Task, opts Options) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if opts.ExcludeCompleted && t.Completed {
			continue
		}
		if opts.ExcludeSubtasks {
			t.Subtasks = nil
		}
		if opts.ExcludeLabels {
			t.LabelIDs = nil
		}
		out = append(out, t)
	}
	return out
}

func exportJSON(tasks []task.Task, c task.Collections, opts Options, now time.Time) ([]byte, error) {
	doc := Document{
		Tasks: make([]taskRecord, 0, len(tasks)),
		Metadata: Metadata{
			ExportDate: now.Format(time.RFC3339Nano),
			Version:    docVersion,
			TotalTasks: len(tasks),
		},
	}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, toRecord(t))
	}
	if !opts.ExcludeLabels {
		for _, l := range c.Labels {
			doc.Labels = append(doc.Labels, labelRecord{ID: l.ID, Name: l.Name, Color: l.Color})
		}
	}
	if !opts.ExcludeCategories {
		for _, cat := range c.Categories {
			doc.Categories = append(doc.Categories, categoryRecord{ID: cat.ID, Name: cat.Name, Color: cat.Color})
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

func toRecord(t task.Task) taskRecord {
	rec := taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Important:   t.Important,
		Priority:    string(t.Priority),
		Category:    t.Category,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
		Labels:      t.LabelIDs,
	}
	if t.DueDate != nil {
		rec.DueDate = t.DueDate.Format(dueDateLayout)
	}
	for _, sub := range t.Subtasks {
		rec.Subtasks = append(rec.Subtasks, subtaskRecord{
			ID:        sub.ID,
			Title:     sub.Title,
			Completed: sub.Completed,
			CreatedAt: sub.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return rec
}

var csvHeader = []string{"Title", "Description", "Status", "Priority", "Category", "Due Date", "Created At"}

func exportCSV(tasks []task.Task, c task.Collections) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	names := categoryNames(c.Categories)
	for _, t := range tasks {
		status := "Active"
		if t.Completed {
			status = "Completed"
		}
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(dueDateLayout)
		}
		row := []string{
			t.Title,
			t.Description,
			status,
			string(t.Priority),
			displayCategory(t.Category, names),
			due,
			t.CreatedAt.Format(dueDateLayout),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportText(tasks []task.Task, c task.Collections, opts Options, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Task List Export\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total: %d tasks\n\n", len(tasks))

	names := categoryNames(c.Categories)
	labels := labelNames(c.Labels)
	for _, t := range tasks {
		glyph := "○"
		if t.Completed {
			glyph = "✓"
		}
		fmt.Fprintf(&b, "%s %s\n", glyph, t.Title)
		if t.Description != "" {
			fmt.Fprintf(&b, "  %s\n", t.Description)
		}
		fmt.Fprintf(&b, "  Priority: %s | Category: %s\n", t.Priority, displayCategory(t.Category, names))
		if t.DueDate != nil {
			fmt.Fprintf(&b, "  Due: %s\n", t.DueDate.Format(dueDateLayout))
		}
		if !opts.ExcludeLabels && len(t.LabelIDs) > 0 {
			parts := make([]string, 0, len(t.LabelIDs))
			for _, id := range t.LabelIDs {
				if name, ok := labels[id]; ok {
					parts = append(parts, name)
				} else {
					parts = append(parts, id)
				}
			}
			fmt.Fprintf(&b, "  Labels: %s\n", strings.Join(parts, ", "))
		}
		for _, sub := range t.Subtasks {
			subGlyph := "○"
			if sub.Completed {
				subGlyph = "✓"
			}
			fmt.Fprintf(&b, "    %s %s\n", subGlyph, sub.Title)
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func categoryNames(categories []task.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

func labelNames(labels []task.Label) map[string]string {
	names := make(map[string]string, len(labels))
	for _, l := range labels {
		names[l.ID] = l.Name
	}
	return names
}

func displayCategory(id string, names map[string]string) string {
	if id == "" {
		return "uncategorized"
	}
	if name, ok := names[id]; ok {
		return name
	}
	return id
}
