package task

import (
	"math"
	"sort"
	"time"
)

// Statistics summarizes a task collection. Every field is recomputed from
// scratch on each Compute call; there is no cached state.
type Statistics struct {
	TotalTasks     int
	ActiveTasks    int
	CompletedTasks int
	ImportantTasks int
	OverdueTasks   int

	// CompletionRate is completed/total as an integer percentage,
	// rounded half-up; 0 when there are no tasks.
	CompletionRate int

	// PriorityCounts is the histogram over the four priority values.
	PriorityCounts map[Priority]int

	// Categories holds per-category counts for every known category,
	// in category collection order.
	Categories []CategoryStats

	// Labels holds usage counts for labels referenced by at least one
	// task, ranked descending by count.
	Labels []LabelStats

	TotalSubtasks         int
	CompletedSubtasks     int
	SubtaskCompletionRate int

	// TotalTracked is the time tracked across all entries. Active
	// entries contribute their live elapsed time.
	TotalTracked time.Duration

	// CreatedLastWeek counts tasks created within the trailing 7-day
	// window ending at the Compute instant.
	CreatedLastWeek int
}

// CategoryStats is the per-category slice of the statistics.
type CategoryStats struct {
	Category  Category
	Count     int
	Completed int
}

// LabelStats is the per-label slice of the statistics.
type LabelStats struct {
	Label Label
	Count int
}

// Compute derives statistics from a snapshot of the collections. It is a
// total function: missing optional data degrades to zeroes and empty
// slices rather than errors.
func Compute(c Collections, now time.Time) Statistics {
	stats := Statistics{
		TotalTasks: len(c.Tasks),
		PriorityCounts: map[Priority]int{
			PriorityUrgent: 0,
			PriorityHigh:   0,
			PriorityMedium: 0,
			PriorityLow:    0,
		},
	}

	weekAgo := now.AddDate(0, 0, -7)
	for i := range c.Tasks {
		t := &c.Tasks[i]
		if t.Completed {
			stats.CompletedTasks++
		}
		if t.Important {
			stats.ImportantTasks++
		}
		if !t.Completed && t.DueDate != nil && t.DueDate.Before(now) {
			stats.OverdueTasks++
		}
		if t.Priority.IsValid() {
			stats.PriorityCounts[t.Priority]++
		}
		if !t.CreatedAt.Before(weekAgo) {
			stats.CreatedLastWeek++
		}
		stats.TotalSubtasks += len(t.Subtasks)
		for j := range t.Subtasks {
			if t.Subtasks[j].Completed {
				stats.CompletedSubtasks++
			}
		}
	}
	stats.ActiveTasks = stats.TotalTasks - stats.CompletedTasks
	stats.CompletionRate = percentage(stats.CompletedTasks, stats.TotalTasks)
	stats.SubtaskCompletionRate = percentage(stats.CompletedSubtasks, stats.TotalSubtasks)

	for _, category := range c.Categories {
		entry := CategoryStats{Category: category}
		for i := range c.Tasks {
			if c.Tasks[i].Category != category.ID {
				continue
			}
			entry.Count++
			if c.Tasks[i].Completed {
				entry.Completed++
			}
		}
		stats.Categories = append(stats.Categories, entry)
	}

	for _, label := range c.Labels {
		count := 0
		for i := range c.Tasks {
			if c.Tasks[i].HasLabel(label.ID) {
				count++
			}
		}
		if count > 0 {
			stats.Labels = append(stats.Labels, LabelStats{Label: label, Count: count})
		}
	}
	sort.SliceStable(stats.Labels, func(i, j int) bool {
		return stats.Labels[i].Count > stats.Labels[j].Count
	})

	for i := range c.TimeEntries {
		stats.TotalTracked += c.TimeEntries[i].Elapsed(now)
	}

	return stats
}

// percentage rounds half-up to an integer percent; 0 when total is 0.
func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
