package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"daybook/internal/ids"
	"daybook/task"
)

// leadingCutset strips insignificant bytes, including a UTF-8 byte-order
// mark, before format detection and decoding.
const leadingCutset = " \t\r\n\uFEFF"

// ParseError reports that a payload could not be parsed for import. It
// carries the format Detect classified the payload as, so callers can
// tell "malformed JSON" apart from "this is a CSV file".
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot import %s data", e.Format)
	}
	return fmt.Sprintf("cannot import %s data: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Detect classifies a payload by inspecting its leading bytes. It never
// fails; unrecognized content is classified as text.
func Detect(data []byte) Format {
	trimmed := bytes.TrimLeft(data, leadingCutset)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return JSON
	}
	line, _, _ := bytes.Cut(trimmed, []byte("\n"))
	if bytes.Contains(line, []byte("Title")) && bytes.Count(line, []byte(",")) >= 2 {
		return CSV
	}
	return Text
}

// ImportOptions controls which parts of a payload Parse keeps.
type ImportOptions struct {
	SkipCompleted bool
	SkipSubtasks  bool
	SkipLabels    bool

	// Location resolves bare calendar dates (due dates, CSV created
	// dates) to midnight in a timezone. Nil means UTC.
	Location *time.Location
}

// Parse reads an import payload into a collection batch ready for the
// store. JSON payloads may be a bare task array or a full export
// document; CSV payloads carry the flat export column set. Records are
// normalized on the way in: a missing title becomes "Untitled Task", an
// unknown priority falls back to medium, and a missing category falls
// back to the default. Snake_case date fields win over their camelCase
// twins when both are present.
func Parse(data []byte, opts ImportOptions) (task.Collections, error) {
	var (
		raws []rawTask
		doc  rawDocument
	)
	switch format := Detect(data); format {
	case JSON:
		decoded, document, err := decodeJSON(data)
		if err != nil {
			return task.Collections{}, &ParseError{Format: JSON, Err: err}
		}
		raws, doc = decoded, document
	case CSV:
		decoded, err := decodeCSV(data)
		if err != nil {
			return task.Collections{}, &ParseError{Format: CSV, Err: err}
		}
		raws = decoded
	default:
		return task.Collections{}, &ParseError{Format: format}
	}

	var batch task.Collections
	labels := newLabelIndex(doc.Labels)
	for _, raw := range raws {
		t := normalize(raw, labels, opts)
		if opts.SkipCompleted && t.Completed {
			continue
		}
		batch.Tasks = append(batch.Tasks, t)
	}
	if !opts.SkipLabels {
		batch.Labels = labels.all()
	}
	for _, c := range doc.Categories {
		batch.Categories = append(batch.Categories, task.Category{ID: c.ID, Name: c.Name, Color: c.Color})
	}
	return batch, nil
}

type rawTask struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Completed    bool              `json:"completed"`
	Important    bool              `json:"important"`
	Priority     string            `json:"priority"`
	Category     string            `json:"category"`
	DueSnake     string            `json:"due_date"`
	DueCamel     string            `json:"dueDate"`
	CreatedSnake string            `json:"created_at"`
	CreatedCamel string            `json:"createdAt"`
	Labels       []json.RawMessage `json:"labels"`
	Subtasks     []rawSubtask      `json:"subtasks"`
}

type rawSubtask struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Completed    bool   `json:"completed"`
	CreatedSnake string `json:"created_at"`
	CreatedCamel string `json:"createdAt"`
}

type rawDocument struct {
	Tasks      []rawTask        `json:"tasks"`
	Labels     []labelRecord    `json:"labels"`
	Categories []categoryRecord `json:"categories"`
}

func decodeJSON(data []byte) ([]rawTask, rawDocument, error) {
	trimmed := bytes.TrimLeft(data, leadingCutset)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tasks []rawTask
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, rawDocument{}, err
		}
		return tasks, rawDocument{}, nil
	}
	var doc rawDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, rawDocument{}, err
	}
	if doc.Tasks == nil {
		return nil, rawDocument{}, fmt.Errorf("document has no tasks field")
	}
	return doc.Tasks, doc, nil
}

// decodeCSV reads the flat export column set back into candidate
// records. Columns are matched by header name, so reordered or partial
// spreadsheets still import.
func decodeCSV(data []byte) ([]rawTask, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimLeft(data, leadingCutset)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
		columns[key] = i
	}
	field := func(row []string, key string) string {
		i, ok := columns[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var tasks []rawTask
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, rawTask{
			Title:        field(row, "title"),
			Description:  field(row, "description"),
			Completed:    strings.EqualFold(field(row, "status"), "completed"),
			Priority:     strings.ToLower(field(row, "priority")),
			Category:     ids.Slug(field(row, "category")),
			DueSnake:     field(row, "due_date"),
			CreatedSnake: field(row, "created_at"),
		})
	}
	return tasks, nil
}

const fallbackTitle = "Untitled Task"

func normalize(raw rawTask, labels *labelIndex, opts ImportOptions) task.Task {
	t := task.Task{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		Completed:   raw.Completed,
		Important:   raw.Important,
		Priority:    task.Priority(raw.Priority),
		Category:    raw.Category,
	}
	if t.Title == "" {
		t.Title = fallbackTitle
	}
	if !t.Priority.IsValid() {
		t.Priority = task.PriorityMedium
	}
	if t.Category == "" {
		t.Category = task.DefaultCategory
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	if due := parseDate(firstOf(raw.DueSnake, raw.DueCamel), loc); due != nil {
		t.DueDate = due
	}
	t.CreatedAt = parseTimestamp(firstOf(raw.CreatedSnake, raw.CreatedCamel), loc)

	if !opts.SkipLabels {
		for _, entry := range raw.Labels {
			if id := labels.resolve(entry); id != "" {
				t.LabelIDs = append(t.LabelIDs, id)
			}
		}
	}
	if !opts.SkipSubtasks {
		for _, raw := range raw.Subtasks {
			sub := task.Subtask{
				ID:        raw.ID,
				Title:     raw.Title,
				Completed: raw.Completed,
				CreatedAt: parseTimestamp(firstOf(raw.CreatedSnake, raw.CreatedCamel), loc),
			}
			if sub.Title == "" {
				continue
			}
			t.Subtasks = append(t.Subtasks, sub)
		}
	}
	return t
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseDate resolves a date string to an instant. Bare calendar dates
// become midnight in loc, matching how the CLI creates due dates, so an
// exported "due today" stays due today after a round trip.
func parseDate(s string, loc *time.Location) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.ParseInLocation(dueDateLayout, s, loc); err == nil {
		return &t
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseTimestamp(s string, loc *time.Location) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(dueDateLayout, s, loc); err == nil {
		return t
	}
	return time.Time{}
}

// labelIndex tracks every label a payload mentions, whether declared in
// the document's label collection or inline on a task.
type labelIndex struct {
	order []task.Label
	byID  map[string]int
}

func newLabelIndex(declared []labelRecord) *labelIndex {
	idx := &labelIndex{byID: make(map[string]int)}
	for _, l := range declared {
		idx.add(task.Label{ID: l.ID, Name: l.Name, Color: l.Color})
	}
	return idx
}

func (idx *labelIndex) add(l task.Label) string {
	if l.ID == "" {
		l.ID = l.Name
	}
	if l.ID == "" {
		return ""
	}
	if _, ok := idx.byID[l.ID]; !ok {
		if l.Name == "" {
			l.Name = l.ID
		}
		idx.byID[l.ID] = len(idx.order)
		idx.order = append(idx.order, l)
	}
	return l.ID
}

// resolve maps one entry of a task's labels array to a label ID. Entries
// may be bare strings (an ID or a name) or inline label objects.
func (idx *labelIndex) resolve(entry json.RawMessage) string {
	var s string
	if err := json.Unmarshal(entry, &s); err == nil {
		return idx.add(task.Label{ID: s, Name: s})
	}
	var obj labelRecord
	if err := json.Unmarshal(entry, &obj); err == nil {
		return idx.add(task.Label{ID: obj.ID, Name: obj.Name, Color: obj.Color})
	}
	return ""
}

func (idx *labelIndex) all() []task.Label {
	out := make([]task.Label, len(idx.order))
	copy(out, idx.order)
	return out
}
