package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ubuntu/decorate"

	"jirarecon/pkg/errors"
)

const jsonIndent = "    "

// Manager writes fetched resources below a base directory. Every write goes
// to a temporary file in the target directory first and is renamed into
// place, so an interrupted run never leaves a half-written file behind.
type Manager struct {
	baseDir string
	saved   map[string]bool
	mu      sync.RWMutex
}

// NewManager creates a new storage manager rooted at baseDir
func NewManager(baseDir string) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.NewFileSystem(baseDir, err)
	}

	return &Manager{
		baseDir: baseDir,
		saved:   make(map[string]bool),
	}, nil
}

// Path resolves rel against the base directory
func (m *Manager) Path(rel string) string {
	return filepath.Join(m.baseDir, rel)
}

// Save writes data to rel atomically and returns the absolute path written
func (m *Manager) Save(rel string, data []byte) (path string, err error) {
	path = m.Path(rel)
	defer decorate.OnError(&err, "could not save %s", rel)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.NewFileSystem(filepath.Dir(path), err)
	}

	if err := atomicWrite(path, data); err != nil {
		return "", errors.NewFileSystem(path, err)
	}

	m.mu.Lock()
	m.saved[path] = true
	m.mu.Unlock()

	return path, nil
}

// SaveDocument re-indents a raw JSON document and saves it. Member order is
// kept exactly as the server sent it.
func (m *Manager) SaveDocument(rel string, raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", jsonIndent); err != nil {
		return "", errors.NewMalformed(rel, err)
	}
	return m.Save(rel, buf.Bytes())
}

// SaveJSON marshals v with four space indentation and saves it
func (m *Manager) SaveJSON(rel string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", jsonIndent)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", rel, err)
	}
	return m.Save(rel, data)
}

// SavedCount returns the number of distinct files written by this manager
func (m *Manager) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}

// CountFiles counts regular files with the given extension directly inside
// relDir. A missing directory is reported as a filesystem error.
func (m *Manager) CountFiles(relDir, ext string) (int, error) {
	dir := m.Path(relDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.NewFileSystem(dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		count++
	}
	return count, nil
}

func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temporary file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("could not write to temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temporary file: %w", err)
	}
	// CreateTemp uses 0600
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("could not set file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not rename temporary file: %w", err)
	}
	return nil
}
