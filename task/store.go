package task

import (
	"fmt"
	"sync"
	"time"

	"daybook/internal/ids"
	internalstrings "daybook/internal/strings"
)

// Authenticator gates mutating operations. The store never parses or
// validates credentials itself.
type Authenticator interface {
	// IsAuthenticated reports whether the caller may mutate the store.
	IsAuthenticated() bool
}

// StoreOptions configures a new store.
type StoreOptions struct {
	// Clock supplies the current time. Defaults to time.Now.
	// Tests inject a fixed clock for deterministic timestamps.
	Clock func() time.Time

	// Auth gates mutations. If nil, all mutations are allowed.
	Auth Authenticator
}

// Store owns the canonical entity collections and enforces referential
// invariants on every mutation. All operations hold a single store-wide
// mutex, which also guards the at-most-one-active-timer invariant.
type Store struct {
	mu   sync.Mutex
	now  func() time.Time
	auth Authenticator
	seq  uint64

	tasks      []Task
	labels     []Label
	categories []Category
	templates  []Template
	entries    []TimeEntry
}

// NewStore returns an empty store.
func NewStore(opts StoreOptions) *Store {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:  now,
		auth: opts.Auth,
	}
}

// guard refuses mutations when the authentication collaborator says no.
func (s *Store) guard() error {
	if s.auth != nil && !s.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// nextID generates a fresh identifier. The caller must hold s.mu.
func (s *Store) nextID(input string) string {
	s.seq++
	return ids.GenerateWithSequence(input, s.now(), s.seq, ids.DefaultLength)
}

// Snapshot returns a deep copy of every collection.
func (s *Store) Snapshot() Collections {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Collections{
		Tasks:       cloneTasks(s.tasks),
		Labels:      append([]Label(nil), s.labels...),
		Categories:  append([]Category(nil), s.categories...),
		Templates:   cloneTemplates(s.templates),
		TimeEntries: append([]TimeEntry(nil), s.entries...),
	}
}

// ReplaceAll replaces every collection with the given snapshot, e.g. after
// a persistence collaborator's Load.
func (s *Store) ReplaceAll(c Collections) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = cloneTasks(c.Tasks)
	s.labels = append([]Label(nil), c.Labels...)
	s.categories = append([]Category(nil), c.Categories...)
	s.templates = cloneTemplates(c.Templates)
	s.entries = append([]TimeEntry(nil), c.TimeEntries...)
	return nil
}

// Tasks returns a copy of the task collection in insertion order,
// most recent first.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Labels returns a copy of the label collection.
func (s *Store) Labels() []Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Label(nil), s.labels...)
}

// Categories returns a copy of the category collection.
func (s *Store) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Category(nil), s.categories...)
}

// Templates returns a copy of the template collection.
func (s *Store) Templates() []Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTemplates(s.templates)
}

// TimeEntries returns a copy of the time entry collection.
func (s *Store) TimeEntries() []TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TimeEntry(nil), s.entries...)
}

// Task returns the task with the given ID.
func (s *Store) Task(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTask(id)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	copied := cloneTask(*t)
	return &copied, nil
}

// CreateTaskOptions configures a new task.
type CreateTaskOptions struct {
	// Description provides additional context.
	Description string

	// Priority defaults to PriorityMedium when empty.
	Priority Priority

	// Category references a category by ID; empty means uncategorized.
	Category string

	// DueDate is the calendar day the task is due.
	DueDate *time.Time

	// Important flags the task for the important view.
	Important bool

	// Labels references existing labels by ID.
	Labels []string
}

// CreateTask creates a new task and inserts it at the head of the
// collection (most-recent-first).
func (s *Store) CreateTask(title string, opts CreateTaskOptions) (*Task, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	title = internalstrings.NormalizeWhitespace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if opts.Priority == "" {
		opts.Priority = PriorityMedium
	}
	opts.Priority = Priority(internalstrings.NormalizeLowerTrimSpace(string(opts.Priority)))
	if err := ValidatePriority(opts.Priority); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.Category != "" && s.findCategory(opts.Category) == nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, opts.Category)
	}
	for _, labelID := range opts.Labels {
		if s.findLabel(labelID) == nil {
			return nil, fmt.Errorf("%w: %s", ErrLabelNotFound, labelID)
		}
	}

	now := s.now()
	t := Task{
		ID:          s.nextID(title),
		Title:       title,
		Description: opts.Description,
		Priority:    opts.Priority,
		Category:    opts.Category,
		DueDate:     copyTime(opts.DueDate),
		Important:   opts.Important,
		CreatedAt:   now,
		LabelIDs:    dedupeIDs(opts.Labels),
	}

	s.tasks = append([]Task{t}, s.tasks...)
	created := cloneTask(t)
	return &created, nil
}

// UpdateTaskOptions configures fields to update on a task.
// Nil pointers mean "don't update this field".
type UpdateTaskOptions struct {
	Title       *string
	Description *string
	Completed   *bool
	Important   *bool
	Priority    *Priority
	// Category updates the category reference; pointing at an empty
	// string makes the task uncategorized.
	Category *string
	DueDate  *time.Time
	// ClearDueDate removes the due date; it wins over DueDate.
	ClearDueDate bool
}

// UpdateTask applies a partial update to a task. The update is validated
// in full before any field changes, so a failed update leaves the store
// untouched.
func (s *Store) UpdateTask(id string, opts UpdateTaskOptions) (*Task, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if opts.Title != nil {
		normalized := internalstrings.NormalizeWhitespace(*opts.Title)
		if err := ValidateTitle(normalized); err != nil {
			return nil, err
		}
		opts.Title = &normalized
	}
	if opts.Priority != nil {
		normalized := Priority(internalstrings.NormalizeLowerTrimSpace(string(*opts.Priority)))
		if err := ValidatePriority(normalized); err != nil {
			return nil, err
		}
		opts.Priority = &normalized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTask(id)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if opts.Category != nil && *opts.Category != "" && s.findCategory(*opts.Category) == nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, *opts.Category)
	}

	if opts.Title != nil {
		t.Title = *opts.Title
	}
	if opts.Description != nil {
		t.Description = *opts.Description
	}
	if opts.Completed != nil {
		t.Completed = *opts.Completed
	}
	if opts.Important != nil {
		t.Important = *opts.Important
	}
	if opts.Priority != nil {
		t.Priority = *opts.Priority
	}
	if opts.Category != nil {
		t.Category = *opts.Category
	}
	if opts.ClearDueDate {
		t.DueDate = nil
	} else if opts.DueDate != nil {
		t.DueDate = copyTime(opts.DueDate)
	}

	updated := cloneTask(*t)
	return &updated, nil
}

// DeleteTask deletes a task along with its subtasks and time entries.
func (s *Store) DeleteTask(id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.taskIndex(id)
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)

	kept := s.entries[:0]
	for _, entry := range s.entries {
		if entry.TaskID != id {
			kept = append(kept, entry)
		}
	}
	s.entries = kept
	return nil
}

// ToggleComplete flips a task's completed flag.
func (s *Store) ToggleComplete(id string) (*Task, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTask(id)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t.Completed = !t.Completed
	updated := cloneTask(*t)
	return &updated, nil
}

// ToggleImportant flips a task's important flag and swaps its priority
// between high and medium in the same motion. Important and priority stay
// independently settable through UpdateTask; this helper exists for the
// single "mark important" action that moves both.
func (s *Store) ToggleImportant(id string) (*Task, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTask(id)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t.Important = !t.Important
	if t.Priority == PriorityHigh {
		t.Priority = PriorityMedium
	} else {
		t.Priority = PriorityHigh
	}
	updated := cloneTask(*t)
	return &updated, nil
}

// AddSubtask appends a subtask to a task's checklist.
func (s *Store) AddSubtask(taskID, title string) (*Subtask, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	title = internalstrings.NormalizeWhitespace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTask(taskID)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	sub := Subtask{
		ID:        s.nextID(title),
		Title:     title,
		CreatedAt: s.now(),
	}
	t.Subtasks = append(t.Subtasks, sub)
	return &sub, nil
}

// UpdateSubtaskOptions configures fields to update on a subtask.
type UpdateSubtaskOptions struct {
	Title     *string
	Completed *bool
}

// UpdateSubtask applies a partial update to a subtask.
func (s *Store) UpdateSubtask(taskID, subtaskID string, opts UpdateSubtaskOptions) (*Subtask, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if opts.Title != nil {
		normalized := internalstrings.NormalizeWhitespace(*opts.Title)
		if err := ValidateTitle(normalized); err != nil {
			return nil, err
		}
		opts.Title = &normalized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTask(taskID)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].ID != subtaskID {
			continue
		}
		if opts.Title != nil {
			t.Subtasks[i].Title = *opts.Title
		}
		if opts.Completed != nil {
			t.Subtasks[i].Completed = *opts.Completed
		}
		sub := t.Subtasks[i]
		return &sub, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSubtaskNotFound, subtaskID)
}

// DeleteSubtask removes a subtask from its task.
func (s *Store) DeleteSubtask(taskID, subtaskID string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTask(taskID)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSubtaskNotFound, subtaskID)
}

// CreateLabel adds a label to the shared label collection.
func (s *Store) CreateLabel(name, color string) (*Label, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	name = internalstrings.NormalizeWhitespace(name)
	if err := ValidateLabelName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	label := Label{
		ID:        s.nextID(name),
		Name:      name,
		Color:     color,
		CreatedAt: s.now(),
	}
	s.labels = append(s.labels, label)
	return &label, nil
}

// AddLabelToTask attaches an existing label to a task. Attaching a label
// the task already holds is a no-op.
func (s *Store) AddLabelToTask(taskID, labelID string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTask(taskID)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if s.findLabel(labelID) == nil {
		return fmt.Errorf("%w: %s", ErrLabelNotFound, labelID)
	}
	if t.HasLabel(labelID) {
		return nil
	}
	t.LabelIDs = append(t.LabelIDs, labelID)
	return nil
}

// RemoveLabelFromTask detaches a label from one task. The label stays in
// the shared collection and on every other task.
func (s *Store) RemoveLabelFromTask(taskID, labelID string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTask(taskID)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if s.findLabel(labelID) == nil {
		return fmt.Errorf("%w: %s", ErrLabelNotFound, labelID)
	}
	removeID(&t.LabelIDs, labelID)
	return nil
}

// DeleteLabel removes a label globally: from every task's label set and
// from the label collection. The non-global variant of label removal is
// RemoveLabelFromTask.
func (s *Store) DeleteLabel(labelID string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.labels {
		if s.labels[i].ID == labelID {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrLabelNotFound, labelID)
	}
	s.labels = append(s.labels[:index], s.labels[index+1:]...)
	for i := range s.tasks {
		removeID(&s.tasks[i].LabelIDs, labelID)
	}
	return nil
}

// CreateCategory adds a category. The ID is a slug derived from the name,
// so references like "work" stay readable.
func (s *Store) CreateCategory(name, color string) (*Category, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	name = internalstrings.NormalizeWhitespace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := ids.Slug(name)
	if s.findCategory(id) != nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoryExists, id)
	}
	category := Category{ID: id, Name: name, Color: color}
	s.categories = append(s.categories, category)
	return &category, nil
}

// DeleteCategory removes a category. Tasks referencing it become
// uncategorized.
func (s *Store) DeleteCategory(id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.categories {
		if s.categories[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	s.categories = append(s.categories[:index], s.categories[index+1:]...)
	for i := range s.tasks {
		if s.tasks[i].Category == id {
			s.tasks[i].Category = ""
		}
	}
	return nil
}

// findTask returns a pointer into s.tasks. The caller must hold s.mu.
func (s *Store) findTask(id string) *Task {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i]
		}
	}
	return nil
}

func (s *Store) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findLabel(id string) *Label {
	for i := range s.labels {
		if s.labels[i].ID == id {
			return &s.labels[i]
		}
	}
	return nil
}

func (s *Store) findCategory(id string) *Category {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return &s.categories[i]
		}
	}
	return nil
}

func cloneTask(t Task) Task {
	t.Subtasks = append([]Subtask(nil), t.Subtasks...)
	t.LabelIDs = append([]string(nil), t.LabelIDs...)
	t.DueDate = copyTime(t.DueDate)
	return t
}

func cloneTasks(tasks []Task) []Task {
	cloned := make([]Task, len(tasks))
	for i, t := range tasks {
		cloned[i] = cloneTask(t)
	}
	return cloned
}

func cloneTemplates(templates []Template) []Template {
	cloned := make([]Template, len(templates))
	for i, tpl := range templates {
		tpl.Subtasks = append([]SubtaskBlueprint(nil), tpl.Subtasks...)
		cloned[i] = tpl
	}
	return cloned
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

func removeID(ids *[]string, id string) {
	kept := (*ids)[:0]
	for _, existing := range *ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		*ids = nil
		return
	}
	*ids = kept
}

func dedupeIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	deduped := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	return deduped
}
