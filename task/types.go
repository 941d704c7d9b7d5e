package task

// Priority represents the importance level of a task.
type Priority string

const (
	// PriorityLow is the lowest importance level.
	PriorityLow Priority = "low"

	// PriorityMedium is the default importance level.
	PriorityMedium Priority = "medium"

	// PriorityHigh marks a task as high importance.
	PriorityHigh Priority = "high"

	// PriorityUrgent marks a task as needing immediate attention.
	PriorityUrgent Priority = "urgent"
)

// ValidPriorities returns all valid priority values, highest first.
func ValidPriorities() []Priority {
	return []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// PriorityRank returns the sort rank for a priority (0 = most urgent).
func PriorityRank(p Priority) int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// DefaultCategory is the fallback category assigned to tasks that arrive
// without one, e.g. during import.
const DefaultCategory = "personal"

// MaxTitleLength is the maximum allowed length for a task title.
const MaxTitleLength = 500
