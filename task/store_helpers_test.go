package task

import (
	"testing"
	"time"
)

// testClock is an injectable clock so tests get deterministic timestamps.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*Store, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
	return NewStore(StoreOptions{Clock: clock.Now}), clock
}

func mustCreateTask(t *testing.T, s *Store, title string, opts CreateTaskOptions) *Task {
	t.Helper()
	created, err := s.CreateTask(title, opts)
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return created
}

func mustCreateLabel(t *testing.T, s *Store, name string) *Label {
	t.Helper()
	created, err := s.CreateLabel(name, "")
	if err != nil {
		t.Fatalf("create label %q: %v", name, err)
	}
	return created
}

func mustCreateCategory(t *testing.T, s *Store, name string) *Category {
	t.Helper()
	created, err := s.CreateCategory(name, "")
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return created
}
