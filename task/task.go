// Package task implements the daybook task engine.
//
// The Store owns the canonical collections (tasks, labels, categories,
// templates, time entries) and enforces referential invariants on every
// mutation. Everything else — filtering, search, statistics — is a pure
// function over snapshots of those collections.
//
// The public API mirrors the CLI commands:
//   - CreateTask, UpdateTask, DeleteTask and subtask/label mutations
//   - StartTimer, StopTimer for time tracking
//   - CreateTemplate, Instantiate for template-driven task creation
//   - FilterTasks and Compute for derived views
package task

import "time"

// Task is the primary planning unit tracked by daybook.
type Task struct {
	// ID is a unique identifier (8-char alphanumeric, store-generated).
	ID string `json:"id"`

	// Title is the short summary of the task.
	Title string `json:"title"`

	// Description provides additional context about the task.
	Description string `json:"description,omitempty"`

	// Completed marks the task as finished.
	Completed bool `json:"completed"`

	// Important flags the task for the important view.
	Important bool `json:"important"`

	// Priority is the importance level (low, medium, high, urgent).
	Priority Priority `json:"priority"`

	// Category references a Category by ID. Empty means uncategorized.
	Category string `json:"category,omitempty"`

	// DueDate is the calendar day the task is due (nil when unscheduled).
	DueDate *time.Time `json:"due_date,omitempty"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`

	// Subtasks are owned by this task and deleted with it.
	Subtasks []Subtask `json:"subtasks,omitempty"`

	// LabelIDs references shared labels by ID.
	LabelIDs []string `json:"label_ids,omitempty"`
}

// HasLabel reports whether the task references the given label.
func (t *Task) HasLabel(labelID string) bool {
	for _, id := range t.LabelIDs {
		if id == labelID {
			return true
		}
	}
	return false
}

// Subtask is a checklist item owned by exactly one task.
type Subtask struct {
	// ID is unique within the owning task.
	ID string `json:"id"`

	// Title is the checklist line.
	Title string `json:"title"`

	// Completed marks the subtask as done.
	Completed bool `json:"completed"`

	// CreatedAt is when the subtask was added.
	CreatedAt time.Time `json:"created_at"`
}

// Label is a shared, reusable tag applicable to many tasks.
// Labels are referenced by ID, not owned: a label outlives removal from
// any one task.
type Label struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Category is a single-valued classification of a task, distinct from
// labels. Category IDs are slugs derived from the name.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TimeEntry is a recorded or in-progress interval of work against a task.
type TimeEntry struct {
	ID string `json:"id"`

	// TaskID is the owning task.
	TaskID string `json:"task_id"`

	// StartTime is when the timer started.
	StartTime time.Time `json:"start_time"`

	// EndTime is when the timer stopped (nil while active).
	EndTime *time.Time `json:"end_time,omitempty"`

	// Duration is the recorded interval in milliseconds. It is
	// authoritative only once EndTime is set; readers must compute a
	// running entry's elapsed time from the clock instead.
	Duration int64 `json:"duration"`

	// IsActive reports whether the timer is still running.
	IsActive bool `json:"is_active"`
}

// Elapsed returns the entry's contribution at the given instant. For an
// active entry this is now minus the start time; the stored duration is
// not trusted until the entry is stopped.
func (e *TimeEntry) Elapsed(now time.Time) time.Duration {
	if e.IsActive {
		elapsed := now.Sub(e.StartTime)
		if elapsed < 0 {
			return 0
		}
		return elapsed
	}
	return time.Duration(e.Duration) * time.Millisecond
}

// Template is a reusable blueprint for creating a pre-configured task.
// Templates never reference labels or a due date.
type Template struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category,omitempty"`
	Priority    Priority           `json:"priority"`
	Subtasks    []SubtaskBlueprint `json:"subtasks,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// SubtaskBlueprint describes a subtask to create when a template is
// instantiated. Completed is carried for import fidelity but ignored:
// instantiation always starts subtasks unchecked.
type SubtaskBlueprint struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed,omitempty"`
}

// Collections is a snapshot of every entity collection the store owns.
// It is the unit exchanged with persistence collaborators.
type Collections struct {
	Tasks       []Task      `json:"tasks"`
	Labels      []Label     `json:"labels"`
	Categories  []Category  `json:"categories"`
	Templates   []Template  `json:"templates"`
	TimeEntries []TimeEntry `json:"time_entries"`
}
