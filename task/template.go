package task

import (
	"fmt"

	internalstrings "daybook/internal/strings"
)

// CreateTemplateOptions configures a new template.
type CreateTemplateOptions struct {
	Description string

	// Priority defaults to PriorityMedium when empty.
	Priority Priority

	// Category references a category by ID; empty means uncategorized.
	Category string

	// Subtasks are blueprint titles, one subtask per line item.
	Subtasks []string
}

// CreateTemplate adds a template to the template collection.
func (s *Store) CreateTemplate(name string, opts CreateTemplateOptions) (*Template, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	name = internalstrings.NormalizeWhitespace(name)
	if err := ValidateTitle(name); err != nil {
		return nil, err
	}
	opts.Priority = Priority(internalstrings.NormalizeLowerTrimSpace(string(opts.Priority)))
	if opts.Priority == "" {
		opts.Priority = PriorityMedium
	}
	if err := ValidatePriority(opts.Priority); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.Category != "" && s.findCategory(opts.Category) == nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, opts.Category)
	}

	now := s.now()
	tpl := Template{
		ID:          s.nextID(name),
		Name:        name,
		Description: opts.Description,
		Category:    opts.Category,
		Priority:    opts.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, title := range opts.Subtasks {
		title = internalstrings.NormalizeWhitespace(title)
		if title == "" {
			continue
		}
		tpl.Subtasks = append(tpl.Subtasks, SubtaskBlueprint{Title: title})
	}

	s.templates = append(s.templates, tpl)
	created := tpl
	created.Subtasks = append([]SubtaskBlueprint(nil), tpl.Subtasks...)
	return &created, nil
}

// UpdateTemplateOptions configures fields to update on a template.
// Nil pointers mean "don't update this field"; a nil Subtasks slice keeps
// the existing blueprints.
type UpdateTemplateOptions struct {
	Name        *string
	Description *string
	Category    *string
	Priority    *Priority
	Subtasks    []SubtaskBlueprint
}

// UpdateTemplate applies a partial update to a template. Previously
// instantiated tasks are never touched.
func (s *Store) UpdateTemplate(id string, opts UpdateTemplateOptions) (*Template, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if opts.Name != nil {
		normalized := internalstrings.NormalizeWhitespace(*opts.Name)
		if err := ValidateTitle(normalized); err != nil {
			return nil, err
		}
		opts.Name = &normalized
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

	tpl := s.findTemplate(id)
	if tpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	if opts.Category != nil && *opts.Category != "" && s.findCategory(*opts.Category) == nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, *opts.Category)
	}

	if opts.Name != nil {
		tpl.Name = *opts.Name
	}
	if opts.Description != nil {
		tpl.Description = *opts.Description
	}
	if opts.Category != nil {
		tpl.Category = *opts.Category
	}
	if opts.Priority != nil {
		tpl.Priority = *opts.Priority
	}
	if opts.Subtasks != nil {
		tpl.Subtasks = append([]SubtaskBlueprint(nil), opts.Subtasks...)
	}
	tpl.UpdatedAt = s.now()

	updated := *tpl
	updated.Subtasks = append([]SubtaskBlueprint(nil), tpl.Subtasks...)
	return &updated, nil
}

// DeleteTemplate removes a template from the template collection.
func (s *Store) DeleteTemplate(id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.templates {
		if s.templates[i].ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}

// Instantiate creates a new task from a template and inserts it at the
// head of the task collection. The task copies the template's name,
// description, category, and priority; every subtask blueprint becomes a
// fresh, unchecked subtask regardless of any state recorded on the
// blueprint. The new task starts incomplete, unimportant, undated, and
// unlabeled.
func (s *Store) Instantiate(templateID string) (*Task, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl := s.findTemplate(templateID)
	if tpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}

	now := s.now()
	t := Task{
		ID:          s.nextID(tpl.Name),
		Title:       tpl.Name,
		Description: tpl.Description,
		Category:    tpl.Category,
		Priority:    tpl.Priority,
		CreatedAt:   now,
	}
	for _, blueprint := range tpl.Subtasks {
		t.Subtasks = append(t.Subtasks, Subtask{
			ID:        s.nextID(blueprint.Title),
			Title:     blueprint.Title,
			CreatedAt: now,
		})
	}

	s.tasks = append([]Task{t}, s.tasks...)
	created := cloneTask(t)
	return &created, nil
}

// findTemplate returns a pointer into s.templates. The caller must hold s.mu.
func (s *Store) findTemplate(id string) *Template {
	for i := range s.templates {
		if s.templates[i].ID == id {
			return &s.templates[i]
		}
	}
	return nil
}
