package task

import (
	"strings"
	"time"
)

// Tab selects one of the list views.
type Tab string

const (
	TabAll       Tab = "all"
	TabActive    Tab = "active"
	TabCompleted Tab = "completed"
	TabImportant Tab = "important"
)

// ValidTabs returns all valid tab values.
func ValidTabs() []Tab {
	return []Tab{TabAll, TabActive, TabCompleted, TabImportant}
}

// IsValid returns true if the tab is a known valid value. The empty tab is
// valid and means TabAll.
func (t Tab) IsValid() bool {
	if t == "" {
		return true
	}
	for _, valid := range ValidTabs() {
		if t == valid {
			return true
		}
	}
	return false
}

func (t Tab) matches(task *Task) bool {
	switch t {
	case TabActive:
		return !task.Completed
	case TabCompleted:
		return task.Completed
	case TabImportant:
		return task.Important
	default:
		return true
	}
}

// DateRange buckets tasks by due date relative to the current instant.
// Boundaries are midnight-aligned in the instant's location.
type DateRange string

const (
	DateRangeAll      DateRange = "all"
	DateRangeToday    DateRange = "today"
	DateRangeTomorrow DateRange = "tomorrow"
	DateRangeThisWeek DateRange = "thisWeek"
	DateRangeNextWeek DateRange = "nextWeek"
	DateRangeOverdue  DateRange = "overdue"
)

// ValidDateRanges returns all valid date range values.
func ValidDateRanges() []DateRange {
	return []DateRange{DateRangeAll, DateRangeToday, DateRangeTomorrow, DateRangeThisWeek, DateRangeNextWeek, DateRangeOverdue}
}

// IsValid returns true if the date range is a known valid value. The empty
// range is valid and means DateRangeAll.
func (r DateRange) IsValid() bool {
	if r == "" {
		return true
	}
	for _, valid := range ValidDateRanges() {
		if r == valid {
			return true
		}
	}
	return false
}

// matches evaluates the bucket against a due date. A task without a due
// date never matches a bucket other than "all".
func (r DateRange) matches(dueDate *time.Time, now time.Time) bool {
	if r == "" || r == DateRangeAll {
		return true
	}
	if dueDate == nil {
		return false
	}

	today := midnight(now)
	tomorrow := today.AddDate(0, 0, 1)
	thisWeekEnd := today.AddDate(0, 0, 7)
	nextWeekEnd := today.AddDate(0, 0, 14)
	due := dueDate.In(now.Location())

	switch r {
	case DateRangeToday:
		return !due.Before(today) && due.Before(tomorrow)
	case DateRangeTomorrow:
		return !due.Before(tomorrow) && due.Before(tomorrow.AddDate(0, 0, 1))
	case DateRangeThisWeek:
		return !due.Before(today) && due.Before(thisWeekEnd)
	case DateRangeNextWeek:
		return !due.Before(thisWeekEnd) && due.Before(nextWeekEnd)
	case DateRangeOverdue:
		return due.Before(today)
	default:
		return false
	}
}

// Presence filters on whether a task has a related record.
type Presence string

const (
	PresenceAll     Presence = "all"
	PresenceWith    Presence = "with"
	PresenceWithout Presence = "without"
)

func (p Presence) matches(has bool) bool {
	switch p {
	case PresenceWith:
		return has
	case PresenceWithout:
		return !has
	default:
		return true
	}
}

// Filter is the structured multi-field task filter. Zero values impose no
// constraint, so the zero Filter matches everything.
type Filter struct {
	// Priority filters by exact priority match; empty matches all.
	Priority Priority

	// Category filters by category ID; empty matches all.
	Category string

	// Labels matches tasks whose label set intersects this set (OR
	// within the set); empty imposes no constraint.
	Labels []string

	// DateRange buckets by due date; empty or "all" matches all.
	DateRange DateRange

	// HasSubtasks filters on the presence of subtasks.
	HasSubtasks Presence

	// TimeTracked filters on the presence of time entries.
	TimeTracked Presence
}

// matches evaluates every non-neutral field conjunctively.
func (f Filter) matches(task *Task, tracked map[string]bool, now time.Time) bool {
	if f.Priority != "" && task.Priority != f.Priority {
		return false
	}
	if f.Category != "" && task.Category != f.Category {
		return false
	}
	if len(f.Labels) > 0 && !intersects(task.LabelIDs, f.Labels) {
		return false
	}
	if !f.DateRange.matches(task.DueDate, now) {
		return false
	}
	if !f.HasSubtasks.matches(len(task.Subtasks) > 0) {
		return false
	}
	if !f.TimeTracked.matches(tracked[task.ID]) {
		return false
	}
	return true
}

// FilterTasks returns the ordered subsequence of tasks satisfying the tab
// predicate, every non-neutral structured filter field, and a
// case-insensitive title substring match of query. Composition is
// conjunctive; an empty query imposes no constraint. The input order is
// preserved and the function never errors.
func FilterTasks(tasks []Task, entries []TimeEntry, tab Tab, filter Filter, query string, now time.Time) []Task {
	tracked := trackedTaskIDs(entries)
	query = strings.ToLower(strings.TrimSpace(query))

	var result []Task
	for i := range tasks {
		t := &tasks[i]
		if !tab.matches(t) {
			continue
		}
		if !filter.matches(t, tracked, now) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Title), query) {
			continue
		}
		result = append(result, cloneTask(*t))
	}
	return result
}

// SearchField names a textual field consulted by MatchesSearch. Views that
// search across more than the title declare their own field set.
type SearchField int

const (
	SearchTitle SearchField = iota
	SearchDescription
	SearchSubtasks
)

// MatchesSearch reports whether the query matches any of the given fields,
// case-insensitively. An empty query matches everything.
func MatchesSearch(t *Task, query string, fields ...SearchField) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range fields {
		switch field {
		case SearchTitle:
			if strings.Contains(strings.ToLower(t.Title), query) {
				return true
			}
		case SearchDescription:
			if strings.Contains(strings.ToLower(t.Description), query) {
				return true
			}
		case SearchSubtasks:
			for i := range t.Subtasks {
				if strings.Contains(strings.ToLower(t.Subtasks[i].Title), query) {
					return true
				}
			}
		}
	}
	return false
}

// TabCounts holds the per-tab task counts shown alongside the list views.
type TabCounts struct {
	All       int
	Active    int
	Completed int
	Important int
}

// CountTabs computes the task count behind each tab.
func CountTabs(tasks []Task) TabCounts {
	counts := TabCounts{All: len(tasks)}
	for i := range tasks {
		if tasks[i].Completed {
			counts.Completed++
		} else {
			counts.Active++
		}
		if tasks[i].Important {
			counts.Important++
		}
	}
	return counts
}

func trackedTaskIDs(entries []TimeEntry) map[string]bool {
	if len(entries) == 0 {
		return nil
	}
	tracked := make(map[string]bool, len(entries))
	for i := range entries {
		tracked[entries[i].TaskID] = true
	}
	return tracked
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
