package urlcache

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pixabaydl/pkg/logger"
	"pixabaydl/pkg/models"
)

// SaveOptions controls how records are written
type SaveOptions struct {
	// IgnoreNone drops unresolved records instead of writing them as "id,None"
	IgnoreNone bool
}

// Manager handles the persisted id,url cache file
type Manager struct {
	path   string
	logger logger.Logger
}

// NewManager creates a cache manager for the file at path
func NewManager(path string, log logger.Logger) *Manager {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Manager{
		path:   path,
		logger: log.WithField("component", "urlcache"),
	}
}

// Path returns the cache file path
func (m *Manager) Path() string {
	return m.path
}

// Exists checks if the cache file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Save writes records to disk atomically, replacing any previous cache
func (m *Manager) Save(records []models.Record, opts SaveOptions) error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	tempPath := m.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}

	written, err := Encode(file, records, opts)
	if err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode image urls: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync cache file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tempPath, m.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	m.logger.DebugWithFields("Image urls saved", map[string]interface{}{
		"path":    m.path,
		"records": written,
		"skipped": len(records) - written,
	})

	return nil
}

// Load reads every record from the cache file
func (m *Manager) Load() ([]models.Record, error) {
	file, err := os.Open(m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image urls file: %w", err)
	}
	defer file.Close()

	records, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.path, err)
	}

	m.logger.DebugWithFields("Image urls loaded", map[string]interface{}{
		"path":    m.path,
		"records": len(records),
	})

	return records, nil
}

// Delete removes the cache file
func (m *Manager) Delete() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image urls file: %w", err)
	}
	return nil
}

// Encode writes records as "id,url" lines and returns how many were written
func Encode(w io.Writer, records []models.Record, opts SaveOptions) (int, error) {
	bw := bufio.NewWriter(w)
	written := 0
	for _, r := range records {
		if opts.IgnoreNone && !r.Resolved {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%d,%s\n", r.ID, r.URLString()); err != nil {
			return written, err
		}
		written++
	}
	return written, bw.Flush()
}

// Decode parses "id,url" lines. Each line is split on its first comma and both
// fields are trimmed; a url of "None" yields an unresolved record.
func Decode(r io.Reader) ([]models.Record, error) {
	var records []models.Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		idField, urlField, found := strings.Cut(line, ",")
		if !found {
			return nil, fmt.Errorf("line %d: expected \"id,url\", got %q", lineNo, line)
		}

		idField = strings.TrimSpace(idField)
		id, err := strconv.Atoi(idField)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("line %d: invalid image id %q", lineNo, idField)
		}

		urlField = strings.TrimSpace(urlField)
		switch urlField {
		case "":
			return nil, fmt.Errorf("line %d: missing url for image %d", lineNo, id)
		case models.NoneSentinel:
			records = append(records, models.Unresolved(models.ImageID(id)))
		default:
			records = append(records, models.Resolved(models.ImageID(id), urlField))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read image urls: %w", err)
	}

	return records, nil
}
