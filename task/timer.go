package task

import (
	"fmt"
	"sort"
	"time"
)

// StartTimer begins tracking time against a task. At most one time entry
// per task may be active; starting a second timer fails with
// ErrTimerAlreadyRunning and leaves the store unchanged. The check and the
// insert happen under the store mutex, so concurrent callers cannot race
// two active entries onto the same task.
func (s *Store) StartTimer(taskID string) (*TimeEntry, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findTask(taskID) == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if active := s.activeEntry(taskID); active != nil {
		return nil, fmt.Errorf("%w: task %s has active entry %s", ErrTimerAlreadyRunning, taskID, active.ID)
	}

	entry := TimeEntry{
		ID:        s.nextID(taskID),
		TaskID:    taskID,
		StartTime: s.now(),
		Duration:  0,
		IsActive:  true,
	}
	s.entries = append(s.entries, entry)
	return &entry, nil
}

// StopTimer stops an active time entry, recording its end time and
// authoritative duration. Stopping an entry that is not active fails with
// ErrTimerNotRunning.
func (s *Store) StopTimer(taskID, entryID string) (*TimeEntry, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		entry := &s.entries[i]
		if entry.ID != entryID || entry.TaskID != taskID {
			continue
		}
		if !entry.IsActive {
			return nil, fmt.Errorf("%w: entry %s", ErrTimerNotRunning, entryID)
		}
		end := s.now()
		entry.EndTime = &end
		entry.Duration = end.Sub(entry.StartTime).Milliseconds()
		entry.IsActive = false
		stopped := *entry
		return &stopped, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTimeEntryNotFound, entryID)
}

// ActiveEntry returns the task's running time entry, if any.
func (s *Store) ActiveEntry(taskID string) (*TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.activeEntry(taskID)
	if entry == nil {
		return nil, false
	}
	copied := *entry
	return &copied, true
}

// activeEntry returns a pointer into s.entries. The caller must hold s.mu.
func (s *Store) activeEntry(taskID string) *TimeEntry {
	for i := range s.entries {
		if s.entries[i].TaskID == taskID && s.entries[i].IsActive {
			return &s.entries[i]
		}
	}
	return nil
}

// TaskDuration returns the total time tracked against a task. A running
// entry contributes its live elapsed time rather than its stored duration.
func (s *Store) TaskDuration(taskID string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var total time.Duration
	for i := range s.entries {
		if s.entries[i].TaskID == taskID {
			total += s.entries[i].Elapsed(now)
		}
	}
	return total
}

// DayDuration returns the total time tracked across all tasks for the
// calendar day containing the given instant, using midnight-aligned day
// bounds in the instant's location. Entries count toward the day their
// start time falls in.
func (s *Store) DayDuration(day time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := midnight(day)
	end := start.AddDate(0, 0, 1)
	now := s.now()

	var total time.Duration
	for i := range s.entries {
		startTime := s.entries[i].StartTime.In(day.Location())
		if startTime.Before(start) || !startTime.Before(end) {
			continue
		}
		total += s.entries[i].Elapsed(now)
	}
	return total
}

// RecentEntries returns a task's finished entries, most recent first,
// limited to the given count (0 means no limit).
func (s *Store) RecentEntries(taskID string, limit int) []TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recent []TimeEntry
	for i := range s.entries {
		if s.entries[i].TaskID == taskID && !s.entries[i].IsActive {
			recent = append(recent, s.entries[i])
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[j].StartTime.Before(recent[i].StartTime)
	})
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// DeleteTimeEntry removes a time entry.
func (s *Store) DeleteTimeEntry(entryID string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == entryID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTimeEntryNotFound, entryID)
}

// midnight returns the start of the calendar day containing t, in t's
// location.
func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
