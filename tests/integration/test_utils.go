package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pixabaydl/pkg/config"
	"pixabaydl/pkg/logger"
	"pixabaydl/pkg/ui"
)

const testAPIKey = "integration-key"

// TestHelper provides common test utilities
type TestHelper struct {
	t          *testing.T
	mockServer *MockPixabayServer
	tempDir    string
	output     *bytes.Buffer
	logger     *logger.TestLogger
}

// NewTestHelper creates a helper with a fresh temp dir and mock server
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	h := &TestHelper{
		t:          t,
		mockServer: NewMockPixabayServer(testAPIKey),
		tempDir:    t.TempDir(),
		output:     &bytes.Buffer{},
		logger:     logger.NewTestLogger(),
	}
	t.Cleanup(h.mockServer.Close)
	return h
}

// Server returns the mock Pixabay server
func (h *TestHelper) Server() *MockPixabayServer { return h.mockServer }

// Logger returns the capturing logger handed to the pipeline
func (h *TestHelper) Logger() *logger.TestLogger { return h.logger }

// Printer returns a printer writing into the helper's buffer
func (h *TestHelper) Printer() *ui.Printer { return ui.NewPrinter(h.output, false) }

// Output is everything printed so far
func (h *TestHelper) Output() string { return h.output.String() }

// Path joins name onto the temp dir
func (h *TestHelper) Path(name string) string {
	return filepath.Join(h.tempDir, name)
}

// CreateTestConfig returns a config pointed at the temp dir and mock server
func (h *TestHelper) CreateTestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Pixabay.APIKey = testAPIKey
	cfg.Pixabay.APIURL = h.mockServer.APIURL()
	cfg.Files.ImageIDsFilepath = h.Path(config.DefaultImageIDsFilepath)
	cfg.Files.ImageURLsFilepath = h.Path(config.DefaultImageURLsFilepath)
	cfg.Files.DownloadDir = h.Path(config.DefaultDownloadDir)
	return cfg
}

// WriteIDs writes the ids file, one id per line
func (h *TestHelper) WriteIDs(ids ...int) {
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = strconv.Itoa(id)
	}
	h.WriteFile(config.DefaultImageIDsFilepath, strings.Join(lines, "\n")+"\n")
}

// WriteFile writes content to name in the temp dir
func (h *TestHelper) WriteFile(name, content string) {
	require.NoError(h.t, os.WriteFile(h.Path(name), []byte(content), 0644))
}

// ReadFile reads name from the temp dir
func (h *TestHelper) ReadFile(name string) string {
	data, err := os.ReadFile(h.Path(name))
	require.NoError(h.t, err)
	return string(data)
}

// DownloadedFiles lists the file names in the download dir, sorted
func (h *TestHelper) DownloadedFiles() []string {
	entries, err := os.ReadDir(h.Path(config.DefaultDownloadDir))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(h.t, err)

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
