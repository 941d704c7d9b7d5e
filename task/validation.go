package task

import (
	"errors"
	"fmt"

	internalstrings "daybook/internal/strings"
)

var (
	// ErrEmptyTitle is returned when a title is empty or blank.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrEmptyLabelName is returned when a label name is empty or blank.
	ErrEmptyLabelName = errors.New("label name cannot be empty")

	// ErrEmptyCategoryName is returned when a category name is empty or blank.
	ErrEmptyCategoryName = errors.New("category name cannot be empty")

	// ErrInvalidPriority is returned when an invalid priority is provided.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrTaskNotFound is returned when a task with the given ID doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSubtaskNotFound is returned when a subtask doesn't exist on its task.
	ErrSubtaskNotFound = errors.New("subtask not found")

	// ErrLabelNotFound is returned when a label with the given ID doesn't exist.
	ErrLabelNotFound = errors.New("label not found")

	// ErrCategoryNotFound is returned when a category with the given ID doesn't exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryExists is returned when creating a category whose slug is taken.
	ErrCategoryExists = errors.New("category already exists")

	// ErrTemplateNotFound is returned when a template with the given ID doesn't exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTimeEntryNotFound is returned when a time entry with the given ID doesn't exist.
	ErrTimeEntryNotFound = errors.New("time entry not found")

	// ErrTimerAlreadyRunning is returned when starting a timer on a task
	// that already has an active time entry.
	ErrTimerAlreadyRunning = errors.New("timer already running")

	// ErrTimerNotRunning is returned when stopping a time entry that is not active.
	ErrTimerNotRunning = errors.New("timer not running")

	// ErrNotAuthenticated is returned when the authentication collaborator
	// refuses a mutation.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// ValidateTitle checks if a task or template title is valid.
func ValidateTitle(title string) error {
	if internalstrings.IsBlank(title) {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

// ValidatePriority checks if the priority is valid.
func ValidatePriority(p Priority) error {
	if !p.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
	}
	return nil
}

// ValidateLabelName checks if a label name is valid. Names need not be
// unique across the label collection.
func ValidateLabelName(name string) error {
	if internalstrings.IsBlank(name) {
		return ErrEmptyLabelName
	}
	return nil
}
