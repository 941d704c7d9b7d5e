package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"daybook/task"
)

var exportNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func sampleCollections() task.Collections {
	due := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 5, 30, 14, 30, 0, 0, time.UTC)
	return task.Collections{
		Tasks: []task.Task{
			{
				ID:          "t1",
				Title:       "Write report",
				Description: "quarterly numbers",
				Priority:    task.PriorityHigh,
				Category:    "work",
				DueDate:     &due,
				CreatedAt:   created,
				LabelIDs:    []string{"l1"},
				Subtasks: []task.Subtask{
					{ID: "s1", Title: "Gather data", Completed: true, CreatedAt: created},
					{ID: "s2", Title: "Draft", CreatedAt: created},
				},
			},
			{
				ID:        "t2",
				Title:     "Water plants",
				Completed: true,
				Priority:  task.PriorityLow,
				CreatedAt: created,
			},
		},
		Labels:     []task.Label{{ID: "l1", Name: "deep-work", Color: "#0000ff"}},
		Categories: []task.Category{{ID: "work", Name: "Work"}},
	}
}

func TestFormatIsValid(t *testing.T) {
	for _, f := range Formats {
		if !f.IsValid() {
			t.Errorf("expected %q valid", f)
		}
	}
	if Format("yaml").IsValid() {
		t.Error("expected unknown format invalid")
	}
}

func TestExportJSONShape(t *testing.T) {
	data, err := Export(sampleCollections(), JSON, Options{}, exportNow)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var doc struct {
		Tasks []map[string]any `json:"tasks"`
		Metadata struct {
			ExportDate string `json:"exportDate"`
			Version    string `json:"version"`
			TotalTasks int    `json:"totalTasks"`
		} `json:"metadata"`
		Labels     []map[string]any `json:"labels"`
		Categories []map[string]any `json:"categories"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}

	if doc.Metadata.Version != "1.0" || doc.Metadata.TotalTasks != 2 {
		t.Errorf("unexpected metadata: %+v", doc.Metadata)
	}
	if _, err := time.Parse(time.RFC3339Nano, doc.Metadata.ExportDate); err != nil {
		t.Errorf("exportDate not RFC3339: %v", err)
	}
	if len(doc.Tasks) != 2 || len(doc.Labels) != 1 || len(doc.Categories) != 1 {
		t.Fatalf("unexpected collection sizes: %d tasks, %d labels, %d categories",
			len(doc.Tasks), len(doc.Labels), len(doc.Categories))
	}
	if doc.Tasks[0]["due_date"] != "2025-06-10" {
		t.Errorf("expected date-only due_date, got %v", doc.Tasks[0]["due_date"])
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	src := sampleCollections()
	data, err := Export(src, JSON, Options{}, exportNow)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	batch, err := Parse(data, ImportOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(batch.Tasks) != 2 {
		t.Fatalf("expected 2 tasks back, got %d", len(batch.Tasks))
	}

	got := batch.Tasks[0]
	want := src.Tasks[0]
	if got.Title != want.Title || got.Description != want.Description {
		t.Errorf("text fields lost: %+v", got)
	}
	if got.Priority != want.Priority || got.Category != want.Category {
		t.Errorf("priority or category lost: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(*want.DueDate) {
		t.Errorf("due date lost: %v", got.DueDate)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("created_at lost: %v", got.CreatedAt)
	}
	if len(got.Subtasks) != 2 || got.Subtasks[0].Title != "Gather data" || !got.Subtasks[0].Completed {
		t.Errorf("subtasks lost: %+v", got.Subtasks)
	}
	if len(got.LabelIDs) != 1 || got.LabelIDs[0] != "l1" {
		t.Errorf("labels lost: %v", got.LabelIDs)
	}
	if len(batch.Labels) != 1 || batch.Labels[0].Name != "deep-work" || batch.Labels[0].Color != "#0000ff" {
		t.Errorf("label collection lost: %+v", batch.Labels)
	}
	if len(batch.Categories) != 1 || batch.Categories[0].ID != "work" {
		t.Errorf("category collection lost: %+v", batch.Categories)
	}
}

func TestExportOptions(t *testing.T) {
	c := sampleCollections()

	data, err := Export(c, JSON, Options{ExcludeCompleted: true}, exportNow)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	batch, err := Parse(data, ImportOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(batch.Tasks) != 1 || batch.Tasks[0].Title != "Write report" {
		t.Errorf("expected completed task excluded, got %d tasks", len(batch.Tasks))
	}

	data, err = Export(c, JSON, Options{ExcludeSubtasks: true, ExcludeLabels: true, ExcludeCategories: true}, exportNow)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Tasks[0].Subtasks) != 0 || len(doc.Tasks[0].Labels) != 0 {
		t.Errorf("expected subtasks and labels stripped, got %+v", doc.Tasks[0])
	}
	if doc.Labels != nil || doc.Categories != nil {
		t.Errorf("expected label and category collections omitted")
	}
}

func TestExportCSV(t *testing.T) {
	data, err := Export(sampleCollections(), CSV, Options{}, exportNow)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Title,Description,Status,Priority,Category,Due Date,Created At" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Write report") || !strings.Contains(lines[1], "Active") {
		t.Errorf("unexpected first row: %q", lines[1])
	}
	if !strings.Contains(lines[1], "Work") {
		t.Errorf("expected the category display name, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "Completed") {
		t.Errorf("expected completed status, got %q", lines[2])
	}
}

func TestExportText(t *testing.T) {
	data, err := Export(sampleCollections(), Text, Options{}, exportNow)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Total: 2 tasks") {
		t.Errorf("expected task total, got:\n%s", out)
	}
	if !strings.Contains(out, "○ Write report") || !strings.Contains(out, "✓ Water plants") {
		t.Errorf("expected status glyphs, got:\n%s", out)
	}
	if !strings.Contains(out, "✓ Gather data") {
		t.Errorf("expected completed subtask glyph, got:\n%s", out)
	}
	if !strings.Contains(out, "Labels: deep-work") {
		t.Errorf("expected label names resolved, got:\n%s", out)
	}
	if !strings.Contains(out, "Category: uncategorized") {
		t.Errorf("expected uncategorized fallback, got:\n%s", out)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if _, err := Export(task.Collections{}, Format("yaml"), Options{}, exportNow); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
