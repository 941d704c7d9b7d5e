package task

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCreateTaskDefaults(t *testing.T) {
	store, clock := newTestStore(t)

	created := mustCreateTask(t, store, "  Write   report  ", CreateTaskOptions{})

	if created.ID == "" {
		t.Fatal("expected generated ID")
	}
	if created.Title != "Write report" {
		t.Fatalf("expected normalized title, got %q", created.Title)
	}
	if created.Priority != PriorityMedium {
		t.Fatalf("expected default priority medium, got %q", created.Priority)
	}
	if created.Completed {
		t.Fatal("expected new task to be active")
	}
	if !created.CreatedAt.Equal(clock.Now()) {
		t.Fatalf("expected CreatedAt %v, got %v", clock.Now(), created.CreatedAt)
	}
}

func TestCreateTaskPrependsToHead(t *testing.T) {
	store, _ := newTestStore(t)

	mustCreateTask(t, store, "first", CreateTaskOptions{})
	mustCreateTask(t, store, "second", CreateTaskOptions{})

	tasks := store.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "second" || tasks[1].Title != "first" {
		t.Fatalf("expected most-recent-first order, got %q then %q", tasks[0].Title, tasks[1].Title)
	}
}

func TestCreateTaskUniqueIDsAtSameInstant(t *testing.T) {
	store, _ := newTestStore(t)

	// Same title, same frozen clock: IDs must still differ.
	a := mustCreateTask(t, store, "duplicate", CreateTaskOptions{})
	b := mustCreateTask(t, store, "duplicate", CreateTaskOptions{})

	if a.ID == b.ID {
		t.Fatalf("expected distinct IDs, both were %q", a.ID)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.CreateTask("   ", CreateTaskOptions{}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := store.CreateTask(strings.Repeat("x", MaxTitleLength+1), CreateTaskOptions{}); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
	if _, err := store.CreateTask("ok", CreateTaskOptions{Priority: "sometime"}); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
	if _, err := store.CreateTask("ok", CreateTaskOptions{Category: "nope"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := store.CreateTask("ok", CreateTaskOptions{Labels: []string{"nope"}}); !errors.Is(err, ErrLabelNotFound) {
		t.Fatalf("expected ErrLabelNotFound, got %v", err)
	}

	if len(store.Tasks()) != 0 {
		t.Fatalf("expected no tasks after failed creates, got %d", len(store.Tasks()))
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	store, _ := newTestStore(t)
	created := mustCreateTask(t, store, "original", CreateTaskOptions{Description: "keep me"})

	title := "renamed"
	updated, err := store.UpdateTask(created.ID, UpdateTaskOptions{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Title != "renamed" {
		t.Fatalf("expected renamed title, got %q", updated.Title)
	}
	if updated.Description != "keep me" {
		t.Fatalf("expected untouched description, got %q", updated.Description)
	}
}

func TestUpdateTaskFailureLeavesStoreUntouched(t *testing.T) {
	store, _ := newTestStore(t)
	created := mustCreateTask(t, store, "original", CreateTaskOptions{})

	title := "renamed"
	bad := Priority("sometime")
	_, err := store.UpdateTask(created.ID, UpdateTaskOptions{Title: &title, Priority: &bad})
	if !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}

	current, err := store.Task(created.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if current.Title != "original" {
		t.Fatalf("expected title unchanged after failed update, got %q", current.Title)
	}
}

func TestUpdateTaskDueDate(t *testing.T) {
	store, _ := newTestStore(t)
	created := mustCreateTask(t, store, "dated", CreateTaskOptions{})

	due := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	updated, err := store.UpdateTask(created.ID, UpdateTaskOptions{DueDate: &due})
	if err != nil {
		t.Fatalf("set due date: %v", err)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Fatalf("expected due date %v, got %v", due, updated.DueDate)
	}

	cleared, err := store.UpdateTask(created.ID, UpdateTaskOptions{ClearDueDate: true})
	if err != nil {
		t.Fatalf("clear due date: %v", err)
	}
	if cleared.DueDate != nil {
		t.Fatalf("expected cleared due date, got %v", cleared.DueDate)
	}
}

func TestDeleteTaskCascadesTimeEntries(t *testing.T) {
	store, clock := newTestStore(t)
	created := mustCreateTask(t, store, "tracked", CreateTaskOptions{})

	entry, err := store.StartTimer(created.ID)
	if err != nil {
		t.Fatalf("start timer: %v", err)
	}
	clock.Advance(time.Minute)
	if _, err := store.StopTimer(created.ID, entry.ID); err != nil {
		t.Fatalf("stop timer: %v", err)
	}

	if err := store.DeleteTask(created.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}

	if len(store.TimeEntries()) != 0 {
		t.Fatalf("expected time entries deleted with task, got %d", len(store.TimeEntries()))
	}
	if err := store.DeleteTask(created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second delete, got %v", err)
	}
}

func TestToggleComplete(t *testing.T) {
	store, _ := newTestStore(t)
	created := mustCreateTask(t, store, "toggle", CreateTaskOptions{})

	toggled, err := store.ToggleComplete(created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("expected completed after first toggle")
	}

	toggled, err = store.ToggleComplete(created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Completed {
		t.Fatal("expected active after second toggle")
	}
}

func TestToggleImportantSwapsPriority(t *testing.T) {
	store, _ := newTestStore(t)
	created := mustCreateTask(t, store, "priority swap", CreateTaskOptions{})

	marked, err := store.ToggleImportant(created.ID)
	if err != nil {
		t.Fatalf("toggle important: %v", err)
	}
	if !marked.Important || marked.Priority != PriorityHigh {
		t.Fatalf("expected important high, got important=%v priority=%q", marked.Important, marked.Priority)
	}

	unmarked, err := store.ToggleImportant(created.ID)
	if err != nil {
		t.Fatalf("toggle important: %v", err)
	}
	if unmarked.Important || unmarked.Priority != PriorityMedium {
		t.Fatalf("expected not-important medium, got important=%v priority=%q", unmarked.Important, unmarked.Priority)
	}
}

func TestSubtaskLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	parent := mustCreateTask(t, store, "parent", CreateTaskOptions{})

	sub, err := store.AddSubtask(parent.ID, "step one")
	if err != nil {
		t.Fatalf("add subtask: %v", err)
	}
	if sub.ID == "" || sub.Completed {
		t.Fatalf("expected fresh active subtask, got %+v", sub)
	}

	completed := true
	updated, err := store.UpdateSubtask(parent.ID, sub.ID, UpdateSubtaskOptions{Completed: &completed})
	if err != nil {
		t.Fatalf("update subtask: %v", err)
	}
	if !updated.Completed {
		t.Fatal("expected completed subtask")
	}

	if err := store.DeleteSubtask(parent.ID, sub.ID); err != nil {
		t.Fatalf("delete subtask: %v", err)
	}
	if _, err := store.UpdateSubtask(parent.ID, sub.ID, UpdateSubtaskOptions{}); !errors.Is(err, ErrSubtaskNotFound) {
		t.Fatalf("expected ErrSubtaskNotFound, got %v", err)
	}
}

func TestLabelAttachDetach(t *testing.T) {
	store, _ := newTestStore(t)
	label := mustCreateLabel(t, store, "urgent-ish")
	created := mustCreateTask(t, store, "labeled", CreateTaskOptions{})

	if err := store.AddLabelToTask(created.ID, label.ID); err != nil {
		t.Fatalf("add label: %v", err)
	}
	// attaching twice is a no-op, not a duplicate
	if err := store.AddLabelToTask(created.ID, label.ID); err != nil {
		t.Fatalf("re-add label: %v", err)
	}

	current, err := store.Task(created.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(current.LabelIDs) != 1 {
		t.Fatalf("expected 1 label reference, got %d", len(current.LabelIDs))
	}

	if err := store.RemoveLabelFromTask(created.ID, label.ID); err != nil {
		t.Fatalf("remove label: %v", err)
	}
	current, _ = store.Task(created.ID)
	if len(current.LabelIDs) != 0 {
		t.Fatalf("expected no label references, got %d", len(current.LabelIDs))
	}
}

func TestDeleteLabelCascades(t *testing.T) {
	store, _ := newTestStore(t)
	label := mustCreateLabel(t, store, "doomed")
	a := mustCreateTask(t, store, "a", CreateTaskOptions{Labels: []string{label.ID}})
	b := mustCreateTask(t, store, "b", CreateTaskOptions{Labels: []string{label.ID}})

	if err := store.DeleteLabel(label.ID); err != nil {
		t.Fatalf("delete label: %v", err)
	}

	for _, id := range []string{a.ID, b.ID} {
		current, err := store.Task(id)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if len(current.LabelIDs) != 0 {
			t.Fatalf("expected label reference removed from %s, got %v", id, current.LabelIDs)
		}
	}
}

func TestCreateCategorySlugIDAndDuplicates(t *testing.T) {
	store, _ := newTestStore(t)

	created := mustCreateCategory(t, store, "Deep Work")
	if created.ID != "deep-work" {
		t.Fatalf("expected slug ID deep-work, got %q", created.ID)
	}

	if _, err := store.CreateCategory("Deep Work", ""); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
}

func TestDeleteCategoryUncategorizesTasks(t *testing.T) {
	store, _ := newTestStore(t)
	category := mustCreateCategory(t, store, "work")
	created := mustCreateTask(t, store, "meeting", CreateTaskOptions{Category: category.ID})

	if err := store.DeleteCategory(category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	current, err := store.Task(created.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if current.Category != "" {
		t.Fatalf("expected uncategorized task, got %q", current.Category)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	store, _ := newTestStore(t)
	mustCreateTask(t, store, "guarded", CreateTaskOptions{})

	tasks := store.Tasks()
	tasks[0].Title = "mutated"

	if store.Tasks()[0].Title != "guarded" {
		t.Fatal("expected accessor to return a copy")
	}
}

func TestAuthenticatorGatesMutations(t *testing.T) {
	denied := deniedAuth{}
	store := NewStore(StoreOptions{Auth: denied})

	if _, err := store.CreateTask("nope", CreateTaskOptions{}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if len(store.Tasks()) != 0 {
		t.Fatal("expected no tasks created")
	}
}

type deniedAuth struct{}

func (deniedAuth) IsAuthenticated() bool { return false }
