package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"pixabaydl/pkg/models"
)

// Manager handles the download directory and atomic image writes
type Manager struct {
	outputDir        string
	downloadedImages map[models.ImageID]bool
	mu               sync.RWMutex
}

// NewManager creates a new storage manager, creating outputDir if needed
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir:        outputDir,
		downloadedImages: make(map[models.ImageID]bool),
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles records every {id}.jpg already present in the output directory
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".jpg" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".jpg"))
		if err != nil || n <= 0 {
			continue
		}
		m.downloadedImages[models.ImageID(n)] = true
	}

	return nil
}

// Path returns the destination path for an image
func (m *Manager) Path(id models.ImageID) string {
	return filepath.Join(m.outputDir, id.FileName())
}

// IsDownloaded checks if the image file already exists
func (m *Manager) IsDownloaded(id models.ImageID) bool {
	m.mu.RLock()
	known := m.downloadedImages[id]
	m.mu.RUnlock()
	if known {
		return true
	}

	if _, err := os.Stat(m.Path(id)); err != nil {
		return false
	}

	m.mu.Lock()
	m.downloadedImages[id] = true
	m.mu.Unlock()
	return true
}

// SaveImage streams r into {id}.jpg and returns the number of bytes written.
// Data goes to a temporary file first, so a failed copy leaves no partial image.
func (m *Manager) SaveImage(r io.Reader, id models.ImageID) (int64, error) {
	filename := m.Path(id)

	out, err := os.CreateTemp(m.outputDir, id.FileName()+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	size, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to save image data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.downloadedImages[id] = true
	m.mu.Unlock()

	return size, nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetDownloadedCount returns the number of images known to be on disk
func (m *Manager) GetDownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.downloadedImages)
}
