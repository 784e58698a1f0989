package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixabaydl/pkg/config"
	"pixabaydl/pkg/errors"
	"pixabaydl/pkg/pipeline"
)

func TestEndToEndTwoPhaseRun(t *testing.T) {
	h := NewTestHelper(t)
	server := h.Server()
	server.SetLookupError(2, http.StatusNotFound)
	h.WriteIDs(1, 2, 3)

	cfg := h.CreateTestConfig()
	summary, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.QueriedAPI)
	assert.Equal(t, 3, summary.IDs)
	assert.Equal(t, 2, summary.Resolved)
	assert.Equal(t, 1, summary.Unresolved)
	assert.Equal(t, 2, summary.Fetch.Downloaded)
	assert.Equal(t, 1, summary.Fetch.Unresolved)

	expected := "1," + server.ImageURL(1) + "\n" +
		"2,None\n" +
		"3," + server.ImageURL(3) + "\n"
	assert.Equal(t, expected, h.ReadFile(config.DefaultImageURLsFilepath))

	assert.Equal(t, []string{"1.jpg", "3.jpg"}, h.DownloadedFiles())
	data, err := os.ReadFile(h.Path("pixabay/3.jpg"))
	require.NoError(t, err)
	assert.Equal(t, ImageBytes("3"), data)

	assert.Equal(t, 3, server.APIRequests())
	assert.Equal(t, 2, server.ImageRequests())

	out := h.Output()
	assert.Contains(t, out, "Reading image ids...")
	assert.Contains(t, out, "Query Time Elapsed:")
	assert.Contains(t, out, "Download Time Elapsed:")
	assert.NotEmpty(t, h.Logger().GetMessagesByLevel("WARN"))
}

func TestEndToEndReusesCacheWithoutKey(t *testing.T) {
	h := NewTestHelper(t)
	server := h.Server()
	h.WriteIDs(10, 11)

	cfg := h.CreateTestConfig()
	_, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())
	require.NoError(t, err)
	server.ResetCounters()

	cfg.Pixabay.APIKey = ""
	summary, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())
	require.NoError(t, err)

	assert.False(t, summary.QueriedAPI)
	assert.Equal(t, 0, server.APIRequests())
	assert.Equal(t, 2, server.ImageRequests())
	assert.Equal(t, 2, summary.Fetch.Downloaded)
}

func TestEndToEndPersistedNoneIsNotRetried(t *testing.T) {
	h := NewTestHelper(t)
	server := h.Server()
	h.WriteFile(config.DefaultImageURLsFilepath, "5,None\n6,"+server.ImageURL(6)+"\n")

	cfg := h.CreateTestConfig()
	summary, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, server.APIRequests())
	assert.Equal(t, 1, server.ImageRequests())
	assert.Equal(t, 1, summary.Fetch.Unresolved)
	assert.Equal(t, []string{"6.jpg"}, h.DownloadedFiles())
}

func TestEndToEndUpdateImageURLs(t *testing.T) {
	h := NewTestHelper(t)
	server := h.Server()
	h.WriteIDs(7)
	h.WriteFile(config.DefaultImageURLsFilepath, "7,None\n")

	cfg := h.CreateTestConfig()
	cfg.Download.UpdateImageURLs = true
	summary, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.QueriedAPI)
	assert.Equal(t, 1, server.APIRequests())
	assert.Equal(t, "7,"+server.ImageURL(7)+"\n", h.ReadFile(config.DefaultImageURLsFilepath))
	assert.Equal(t, []string{"7.jpg"}, h.DownloadedFiles())
}

func TestEndToEndMissingKeyFailsBeforeNetwork(t *testing.T) {
	h := NewTestHelper(t)
	h.WriteIDs(1, 2)

	cfg := h.CreateTestConfig()
	cfg.Pixabay.APIKey = ""
	_, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())

	require.ErrorIs(t, err, errors.ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "https://pixabay.com/")
	assert.Equal(t, 0, h.Server().APIRequests())
	assert.NoFileExists(t, h.Path(config.DefaultImageURLsFilepath))
}

func TestEndToEndFailuresDoNotAbortRun(t *testing.T) {
	h := NewTestHelper(t)
	server := h.Server()
	server.SetLookupError(2, http.StatusTooManyRequests)
	server.SetLookupError(3, http.StatusInternalServerError)
	server.SetImageError(4, http.StatusForbidden)
	h.WriteIDs(1, 2, 3, 4)

	cfg := h.CreateTestConfig()
	summary, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Resolved)
	assert.Equal(t, 1, summary.Fetch.Downloaded)
	assert.Equal(t, 1, summary.Fetch.Failed)
	assert.Equal(t, []string{"1.jpg"}, h.DownloadedFiles())
}

func TestEndToEndInvalidIDsFile(t *testing.T) {
	h := NewTestHelper(t)
	h.WriteFile(config.DefaultImageIDsFilepath, "1\nabc\n")

	cfg := h.CreateTestConfig()
	_, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 0, h.Server().APIRequests())
}

func TestConcurrencyIsBounded(t *testing.T) {
	h := NewTestHelper(t)
	server := h.Server()
	server.SetDelay(20 * time.Millisecond)
	h.WriteIDs(1, 2, 3, 4, 5, 6, 7, 8)

	cfg := h.CreateTestConfig()
	cfg.Download.Concurrency = 2
	summary, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, summary.Fetch.Downloaded)
	assert.LessOrEqual(t, server.MaxInFlight(), 2)
}

func TestRequestTimeout(t *testing.T) {
	h := NewTestHelper(t)
	server := h.Server()
	server.SetDelay(200 * time.Millisecond)
	h.WriteIDs(1)

	cfg := h.CreateTestConfig()
	cfg.Download.Timeout = 20 * time.Millisecond
	summary, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Unresolved)
	assert.Equal(t, "1,None\n", h.ReadFile(config.DefaultImageURLsFilepath))
}

func TestCancelledRunStops(t *testing.T) {
	h := NewTestHelper(t)
	h.WriteIDs(1, 2, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.New(h.CreateTestConfig(), h.Printer(), h.Logger()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConfigLoadDrivesRun(t *testing.T) {
	h := NewTestHelper(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PIXABAYDL_API_KEY", "")
	t.Setenv("PIXABAY_API_KEY", testAPIKey)
	t.Setenv("PIXABAYDL_API_URL", h.Server().APIURL())
	t.Setenv("PIXABAYDL_IMAGE_URLS_FILEPATH", h.Path("urls.txt"))
	h.WriteIDs(42)

	cfg, err := config.Load("", map[string]interface{}{
		"image-ids-filepath": h.Path(config.DefaultImageIDsFilepath),
		"download-dir":       h.Path("out"),
	})
	require.NoError(t, err)

	summary, err := pipeline.New(cfg, h.Printer(), h.Logger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Fetch.Downloaded)
	assert.FileExists(t, h.Path("out/42.jpg"))
	assert.Equal(t, "42,"+h.Server().ImageURL(42)+"\n", h.ReadFile("urls.txt"))
}
