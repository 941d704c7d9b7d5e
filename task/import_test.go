package task

import (
	"errors"
	"testing"
	"time"
)

func TestImportMergeAppendsWithFreshIDs(t *testing.T) {
	s, _ := newTestStore(t)
	existing := mustCreateTask(t, s, "Existing", CreateTaskOptions{})

	batch := Collections{
		Tasks: []Task{
			{ID: "old-1", Title: "Imported one", Priority: PriorityHigh},
			{ID: "old-2", Title: "Imported two", Priority: PriorityLow, Subtasks: []Subtask{{ID: "old-s", Title: "Step"}}},
		},
	}

	imported, err := s.Import(batch, true)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(imported) != 2 {
		t.Fatalf("expected 2 imported tasks, got %d", len(imported))
	}
	for _, got := range imported {
		if got.ID == "old-1" || got.ID == "old-2" {
			t.Errorf("expected fresh IDs, got %q", got.ID)
		}
		if got.CreatedAt.IsZero() {
			t.Errorf("expected CreatedAt stamped for %q", got.Title)
		}
	}
	if imported[1].Subtasks[0].ID == "old-s" {
		t.Error("expected a fresh subtask ID")
	}

	tasks := s.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks after merge, got %d", len(tasks))
	}
	if _, err := s.Task(existing.ID); err != nil {
		t.Errorf("expected existing task kept: %v", err)
	}
}

func TestImportReplaceClearsTasksAndEntries(t *testing.T) {
	s, clock := newTestStore(t)
	old := mustCreateTask(t, s, "Old", CreateTaskOptions{})
	if _, err := s.StartTimer(old.ID); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	clock.Advance(time.Minute)

	imported, err := s.Import(Collections{Tasks: []Task{{Title: "New"}}}, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != imported[0].ID {
		t.Fatalf("expected only the imported task, got %v", taskIDs(tasks))
	}
	if entries := s.TimeEntries(); len(entries) != 0 {
		t.Errorf("expected time entries cleared on replace, got %d", len(entries))
	}
}

func TestImportLabelDedupeAndRemap(t *testing.T) {
	s, _ := newTestStore(t)
	existing, err := s.CreateLabel("quick", "#ff0000")
	if err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}

	batch := Collections{
		Labels: []Label{
			{ID: "in-quick", Name: "quick", Color: "#ff0000"},
			{ID: "in-deep", Name: "deep-work", Color: "#0000ff"},
		},
		Tasks: []Task{
			{Title: "Labeled", LabelIDs: []string{"in-quick", "in-deep", "unknown"}},
		},
	}

	imported, err := s.Import(batch, true)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	labels := s.Labels()
	if len(labels) != 2 {
		t.Fatalf("expected the matching label deduped, got %d labels", len(labels))
	}

	got := imported[0].LabelIDs
	if len(got) != 2 {
		t.Fatalf("expected unknown references dropped, got %v", got)
	}
	if got[0] != existing.ID {
		t.Errorf("expected the matching label remapped to %q, got %q", existing.ID, got[0])
	}
	if got[1] == "in-deep" {
		t.Error("expected the new label to get a fresh ID")
	}
}

func TestImportLabelColorMismatchCreatesNewLabel(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.CreateLabel("quick", "#ff0000"); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}

	batch := Collections{
		Labels: []Label{{ID: "in", Name: "quick", Color: "#00ff00"}},
		Tasks:  []Task{{Title: "x", LabelIDs: []string{"in"}}},
	}
	if _, err := s.Import(batch, true); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if labels := s.Labels(); len(labels) != 2 {
		t.Errorf("expected a same-name different-color label created, got %d", len(labels))
	}
}

func TestImportPreservesExistingLabelReference(t *testing.T) {
	s, _ := newTestStore(t)
	label := mustCreateLabel(t, s, "kept")

	batch := Collections{Tasks: []Task{{Title: "x", LabelIDs: []string{label.ID}}}}
	imported, err := s.Import(batch, true)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(imported[0].LabelIDs) != 1 || imported[0].LabelIDs[0] != label.ID {
		t.Errorf("expected reference to an existing label kept, got %v", imported[0].LabelIDs)
	}
}

func TestImportCategoryMergeAndStubs(t *testing.T) {
	s, _ := newTestStore(t)
	work := mustCreateCategory(t, s, "Work")

	batch := Collections{
		Categories: []Category{
			{ID: work.ID, Name: "Work duplicate"},
			{ID: "errands", Name: "Errands"},
		},
		Tasks: []Task{
			{Title: "a", Category: work.ID},
			{Title: "b", Category: "dangling"},
		},
	}
	if _, err := s.Import(batch, true); err != nil {
		t.Fatalf("Import: %v", err)
	}

	categories := s.Categories()
	if len(categories) != 3 {
		t.Fatalf("expected work + errands + dangling stub, got %d", len(categories))
	}
	byID := make(map[string]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	if byID[work.ID].Name != "Work" {
		t.Errorf("expected the existing category to win the merge, got %q", byID[work.ID].Name)
	}
	if _, ok := byID["errands"]; !ok {
		t.Error("expected the batch category added")
	}
	if stub, ok := byID["dangling"]; !ok || stub.Name != "dangling" {
		t.Errorf("expected a stub for the dangling reference, got %+v", stub)
	}
}

func TestImportAuthRequired(t *testing.T) {
	s := NewStore(StoreOptions{Auth: deniedAuth{}})
	if _, err := s.Import(Collections{Tasks: []Task{{Title: "x"}}}, true); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
