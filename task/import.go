package task

// Import applies a batch of parsed task records to the store. Imported
// tasks always receive freshly generated identifiers; identifiers carried
// in the batch are never reused. When merge is true the batch is appended
// to the current task collection; otherwise the task collection (and its
// dependent time entries) is replaced wholesale.
//
// Batch labels are matched against existing labels by name and color and
// created with fresh identifiers otherwise; task label references are
// remapped accordingly. Batch categories merge by slug, and any category
// reference left dangling gets a stub record so the reference stays valid.
func (s *Store) Import(batch Collections, merge bool) ([]Task, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !merge {
		s.tasks = nil
		s.entries = nil
	}

	labelIDs := make(map[string]string, len(batch.Labels))
	for _, label := range batch.Labels {
		if existing := s.findLabelByName(label.Name, label.Color); existing != nil {
			labelIDs[label.ID] = existing.ID
			continue
		}
		created := Label{
			ID:        s.nextID(label.Name),
			Name:      label.Name,
			Color:     label.Color,
			CreatedAt: label.CreatedAt,
		}
		if created.CreatedAt.IsZero() {
			created.CreatedAt = s.now()
		}
		s.labels = append(s.labels, created)
		labelIDs[label.ID] = created.ID
	}

	for _, category := range batch.Categories {
		if s.findCategory(category.ID) == nil {
			s.categories = append(s.categories, category)
		}
	}

	now := s.now()
	imported := make([]Task, 0, len(batch.Tasks))
	for _, record := range batch.Tasks {
		t := cloneTask(record)
		t.ID = s.nextID(t.Title)
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		for i := range t.Subtasks {
			t.Subtasks[i].ID = s.nextID(t.Subtasks[i].Title)
			if t.Subtasks[i].CreatedAt.IsZero() {
				t.Subtasks[i].CreatedAt = now
			}
		}

		remapped := t.LabelIDs[:0]
		for _, old := range t.LabelIDs {
			if fresh, ok := labelIDs[old]; ok {
				remapped = append(remapped, fresh)
			} else if s.findLabel(old) != nil {
				remapped = append(remapped, old)
			}
		}
		if len(remapped) == 0 {
			t.LabelIDs = nil
		} else {
			t.LabelIDs = remapped
		}

		if t.Category != "" && s.findCategory(t.Category) == nil {
			s.categories = append(s.categories, Category{ID: t.Category, Name: t.Category})
		}

		imported = append(imported, t)
	}

	s.tasks = append(s.tasks, imported...)
	return cloneTasks(imported), nil
}

func (s *Store) findLabelByName(name, color string) *Label {
	for i := range s.labels {
		if s.labels[i].Name == name && s.labels[i].Color == color {
			return &s.labels[i]
		}
	}
	return nil
}
