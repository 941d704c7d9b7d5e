package task

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

var filterNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func day(offset int) *time.Time {
	d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return &d
}

func TestTabMatches(t *testing.T) {
	active := Task{ID: "a"}
	completed := Task{ID: "b", Completed: true}
	important := Task{ID: "c", Important: true}
	tasks := []Task{active, completed, important}

	cases := []struct {
		tab  Tab
		want []string
	}{
		{TabAll, []string{"a", "b", "c"}},
		{Tab(""), []string{"a", "b", "c"}},
		{TabActive, []string{"a", "c"}},
		{TabCompleted, []string{"b"}},
		{TabImportant, []string{"c"}},
	}
	for _, tc := range cases {
		got := FilterTasks(tasks, nil, tc.tab, Filter{}, "", filterNow)
		if len(got) != len(tc.want) {
			t.Fatalf("tab %q: expected %d tasks, got %d", tc.tab, len(tc.want), len(got))
		}
		for i, id := range tc.want {
			if got[i].ID != id {
				t.Errorf("tab %q: expected %s at %d, got %s", tc.tab, id, i, got[i].ID)
			}
		}
	}
}

func TestDateRangeBuckets(t *testing.T) {
	cases := []struct {
		name    string
		rng     DateRange
		dueDate *time.Time
		want    bool
	}{
		{"all matches nil", DateRangeAll, nil, true},
		{"today matches same day", DateRangeToday, day(0), true},
		{"today rejects tomorrow", DateRangeToday, day(1), false},
		{"today rejects yesterday", DateRangeToday, day(-1), false},
		{"tomorrow matches next day", DateRangeTomorrow, day(1), true},
		{"tomorrow rejects today", DateRangeTomorrow, day(0), false},
		{"thisWeek matches today", DateRangeThisWeek, day(0), true},
		{"thisWeek matches day six", DateRangeThisWeek, day(6), true},
		{"thisWeek rejects day seven", DateRangeThisWeek, day(7), false},
		{"nextWeek matches day seven", DateRangeNextWeek, day(7), true},
		{"nextWeek matches day thirteen", DateRangeNextWeek, day(13), true},
		{"nextWeek rejects day fourteen", DateRangeNextWeek, day(14), false},
		{"overdue matches yesterday", DateRangeOverdue, day(-1), true},
		{"overdue rejects today", DateRangeOverdue, day(0), false},
		{"no due date never matches today", DateRangeToday, nil, false},
		{"no due date never matches overdue", DateRangeOverdue, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rng.matches(tc.dueDate, filterNow); got != tc.want {
				t.Fatalf("matches(%v) = %v, expected %v", tc.dueDate, got, tc.want)
			}
		})
	}
}

func TestFilterConjunction(t *testing.T) {
	tasks := []Task{
		{ID: "match", Priority: PriorityHigh, Category: "work", LabelIDs: []string{"l1"}, DueDate: day(0)},
		{ID: "wrong-priority", Priority: PriorityLow, Category: "work", LabelIDs: []string{"l1"}, DueDate: day(0)},
		{ID: "wrong-category", Priority: PriorityHigh, Category: "home", LabelIDs: []string{"l1"}, DueDate: day(0)},
		{ID: "wrong-label", Priority: PriorityHigh, Category: "work", LabelIDs: []string{"l2"}, DueDate: day(0)},
		{ID: "no-due", Priority: PriorityHigh, Category: "work", LabelIDs: []string{"l1"}},
	}

	filter := Filter{
		Priority:  PriorityHigh,
		Category:  "work",
		Labels:    []string{"l1"},
		DateRange: DateRangeToday,
	}

	got := FilterTasks(tasks, nil, TabAll, filter, "", filterNow)
	if len(got) != 1 || got[0].ID != "match" {
		t.Fatalf("expected only the fully matching task, got %v", taskIDs(got))
	}
}

func TestFilterAppliesOnEveryTab(t *testing.T) {
	tasks := []Task{
		{ID: "done-high", Completed: true, Priority: PriorityHigh},
		{ID: "done-low", Completed: true, Priority: PriorityLow},
		{ID: "open-high", Priority: PriorityHigh},
	}

	got := FilterTasks(tasks, nil, TabCompleted, Filter{Priority: PriorityHigh}, "", filterNow)
	if len(got) != 1 || got[0].ID != "done-high" {
		t.Fatalf("expected the structured filter to apply on the completed tab, got %v", taskIDs(got))
	}
}

func TestFilterLabelSetIsDisjunctive(t *testing.T) {
	tasks := []Task{
		{ID: "a", LabelIDs: []string{"l1"}},
		{ID: "b", LabelIDs: []string{"l2"}},
		{ID: "c", LabelIDs: []string{"l3"}},
	}

	got := FilterTasks(tasks, nil, TabAll, Filter{Labels: []string{"l1", "l2"}}, "", filterNow)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("expected tasks with either label, got %v", taskIDs(got))
	}
}

func TestFilterPresence(t *testing.T) {
	entries := []TimeEntry{{ID: "e1", TaskID: "tracked"}}
	tasks := []Task{
		{ID: "tracked"},
		{ID: "untracked", Subtasks: []Subtask{{ID: "s1", Title: "step"}}},
	}

	got := FilterTasks(tasks, entries, TabAll, Filter{TimeTracked: PresenceWith}, "", filterNow)
	if len(got) != 1 || got[0].ID != "tracked" {
		t.Fatalf("expected tracked task, got %v", taskIDs(got))
	}

	got = FilterTasks(tasks, entries, TabAll, Filter{HasSubtasks: PresenceWithout}, "", filterNow)
	if len(got) != 1 || got[0].ID != "tracked" {
		t.Fatalf("expected subtask-free task, got %v", taskIDs(got))
	}
}

func TestFilterQueryCaseInsensitive(t *testing.T) {
	tasks := []Task{
		{ID: "a", Title: "Water the Plants"},
		{ID: "b", Title: "File taxes"},
	}

	got := FilterTasks(tasks, nil, TabAll, Filter{}, "  PLANTS ", filterNow)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected case-insensitive trimmed match, got %v", taskIDs(got))
	}
}

func TestFilterPreservesOrderAndInput(t *testing.T) {
	tasks := []Task{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	got := FilterTasks(tasks, nil, TabAll, Filter{}, "", filterNow)
	for i, id := range []string{"1", "2", "3"} {
		if got[i].ID != id {
			t.Fatalf("expected order preserved, got %v", taskIDs(got))
		}
	}

	got[0].Title = "mutated"
	if tasks[0].Title == "mutated" {
		t.Fatal("expected filter output to be a copy")
	}
}

func TestMatchesSearchFields(t *testing.T) {
	item := Task{
		Title:       "Clean garage",
		Description: "also sweep the floor",
		Subtasks:    []Subtask{{Title: "buy broom"}},
	}

	if !MatchesSearch(&item, "garage", SearchTitle) {
		t.Error("expected title match")
	}
	if MatchesSearch(&item, "sweep", SearchTitle) {
		t.Error("expected no match when description is excluded")
	}
	if !MatchesSearch(&item, "sweep", SearchTitle, SearchDescription) {
		t.Error("expected description match")
	}
	if !MatchesSearch(&item, "broom", SearchSubtasks) {
		t.Error("expected subtask match")
	}
	if !MatchesSearch(&item, "   ", SearchTitle) {
		t.Error("expected blank query to match everything")
	}
}

func TestCountTabs(t *testing.T) {
	tasks := []Task{
		{ID: "a"},
		{ID: "b", Completed: true},
		{ID: "c", Completed: true, Important: true},
		{ID: "d", Important: true},
	}

	counts := CountTabs(tasks)
	if counts.All != 4 || counts.Active != 2 || counts.Completed != 2 || counts.Important != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

// TestFilterRandomized cross-checks FilterTasks against an independent
// per-task evaluation of the same predicates.
func TestFilterRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	priorities := ValidPriorities()
	categories := []string{"", "work", "home"}
	labels := [][]string{nil, {"l1"}, {"l2"}, {"l1", "l2"}}
	dueDates := []*time.Time{nil, day(-2), day(0), day(1), day(5), day(9)}

	var tasks []Task
	for i := 0; i < 200; i++ {
		tasks = append(tasks, Task{
			ID:        strings.Repeat("x", 1+i%3) + string(rune('a'+i%26)),
			Title:     []string{"alpha", "beta", "gamma"}[i%3],
			Completed: rng.Intn(2) == 0,
			Important: rng.Intn(3) == 0,
			Priority:  priorities[rng.Intn(len(priorities))],
			Category:  categories[rng.Intn(len(categories))],
			LabelIDs:  labels[rng.Intn(len(labels))],
			DueDate:   dueDates[rng.Intn(len(dueDates))],
		})
	}
	entries := []TimeEntry{{TaskID: tasks[3].ID}, {TaskID: tasks[7].ID}}

	tabs := ValidTabs()
	ranges := ValidDateRanges()
	for trial := 0; trial < 50; trial++ {
		tab := tabs[rng.Intn(len(tabs))]
		filter := Filter{
			Priority:  priorities[rng.Intn(len(priorities))],
			Category:  categories[rng.Intn(len(categories))],
			Labels:    labels[rng.Intn(len(labels))],
			DateRange: ranges[rng.Intn(len(ranges))],
		}
		query := []string{"", "alpha", "ALPHA", "zzz"}[rng.Intn(4)]

		got := FilterTasks(tasks, entries, tab, filter, query, filterNow)

		tracked := map[string]bool{tasks[3].ID: true, tasks[7].ID: true}
		var want []string
		for i := range tasks {
			task := &tasks[i]
			if !tab.matches(task) {
				continue
			}
			if !filter.matches(task, tracked, filterNow) {
				continue
			}
			q := strings.ToLower(strings.TrimSpace(query))
			if q != "" && !strings.Contains(strings.ToLower(task.Title), q) {
				continue
			}
			want = append(want, task.ID)
		}

		if len(got) != len(want) {
			t.Fatalf("trial %d: expected %d tasks, got %d", trial, len(want), len(got))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Fatalf("trial %d: expected %s at %d, got %s", trial, want[i], i, got[i].ID)
			}
		}
	}
}

func taskIDs(tasks []Task) []string {
	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	return ids
}
