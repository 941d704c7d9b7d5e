package persist

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"daybook/task"
)

const (
	tasksFile      = "tasks.jsonl"
	labelsFile     = "labels.jsonl"
	categoriesFile = "categories.jsonl"
	templatesFile  = "templates.jsonl"
	entriesFile    = "time_entries.jsonl"

	lockFile = ".lock"

	maxJSONLineBytes = 1024 * 1024
)

// FileStore persists collections as JSONL files in a directory, one file
// per collection. Writes go through a temp file and an atomic rename,
// and an exclusive flock on a lock file serializes concurrent processes.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is
// created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory the store writes to.
func (fs *FileStore) Dir() string { return fs.dir }

// Load reads every collection file. Missing files yield empty
// collections, so loading from a fresh directory succeeds.
func (fs *FileStore) Load() (task.Collections, error) {
	var c task.Collections
	err := fs.withLock(func() error {
		var err error
		if c.Tasks, err = readJSONL[task.Task](filepath.Join(fs.dir, tasksFile)); err != nil {
			return err
		}
		if c.Labels, err = readJSONL[task.Label](filepath.Join(fs.dir, labelsFile)); err != nil {
			return err
		}
		if c.Categories, err = readJSONL[task.Category](filepath.Join(fs.dir, categoriesFile)); err != nil {
			return err
		}
		if c.Templates, err = readJSONL[task.Template](filepath.Join(fs.dir, templatesFile)); err != nil {
			return err
		}
		if c.TimeEntries, err = readJSONL[task.TimeEntry](filepath.Join(fs.dir, entriesFile)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return task.Collections{}, err
	}
	return c, nil
}

// Save writes every collection file, replacing previous contents.
func (fs *FileStore) Save(c task.Collections) error {
	return fs.withLock(func() error {
		if err := writeJSONL(filepath.Join(fs.dir, tasksFile), c.Tasks); err != nil {
			return err
		}
		if err := writeJSONL(filepath.Join(fs.dir, labelsFile), c.Labels); err != nil {
			return err
		}
		if err := writeJSONL(filepath.Join(fs.dir, categoriesFile), c.Categories); err != nil {
			return err
		}
		if err := writeJSONL(filepath.Join(fs.dir, templatesFile), c.Templates); err != nil {
			return err
		}
		return writeJSONL(filepath.Join(fs.dir, entriesFile), c.TimeEntries)
	})
}

// withLock executes fn while holding an exclusive lock on the store's
// lock file, creating the directory if needed.
func (fs *FileStore) withLock(fn func() error) error {
	if err := os.MkdirAll(fs.dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(fs.dir, lockFile), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

// readJSONL reads all JSON objects from a JSONL file into a slice.
// A missing file is not an error.
func readJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return readJSONLFromReader[T](f)
}

func readJSONLFromReader[T any](reader io.Reader) ([]T, error) {
	var items []T
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return items, nil
}

// writeJSONL writes a slice of items to a JSONL file, overwriting any
// existing content.
func writeJSONL[T any](path string, items []T) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	encoder := json.NewEncoder(f)
	for i, item := range items {
		if err := encoder.Encode(item); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("encode item %d: %w", i, err)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
