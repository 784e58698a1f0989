package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixabaydl/pkg/logger"
	"pixabaydl/pkg/models"
	"pixabaydl/pkg/pixabay"
)

// newImageServer serves "image-<name>" for every path except /missing/*
func newImageServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if filepath.Dir(r.URL.Path) == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprintf(w, "image-%s", filepath.Base(r.URL.Path))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestFetchAll(t *testing.T) {
	server, hits := newImageServer(t)
	dir := filepath.Join(t.TempDir(), "pixabay")
	client := pixabay.NewClient(pixabay.Options{}, logger.NewNopLogger())

	records := []models.Record{
		models.Resolved(1, server.URL+"/a.jpg"),
		models.Unresolved(2),
		models.Resolved(3, server.URL+"/missing/c.jpg"),
		models.Resolved(4, server.URL+"/d.png"),
	}

	var mu sync.Mutex
	outcomes := map[models.ImageID]Outcome{}
	f := New(client, Options{DownloadDir: dir}, logger.NewNopLogger())
	f.OnFetched = func(r models.Record, o Outcome) {
		mu.Lock()
		outcomes[r.ID] = o
		mu.Unlock()
	}

	result, err := f.FetchAll(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, Result{Downloaded: 2, Failed: 1, Unresolved: 1}, result)
	assert.Equal(t, 4, result.Total())
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
	assert.Equal(t, []string{"1.jpg", "4.jpg"}, listDir(t, dir))
	assert.Equal(t, map[models.ImageID]Outcome{1: Downloaded, 3: Failed, 4: Downloaded}, outcomes)

	content, err := os.ReadFile(filepath.Join(dir, "4.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image-d.png", string(content))
}

func TestFetchAllUnresolvedMakesNoRequests(t *testing.T) {
	_, hits := newImageServer(t)
	dir := t.TempDir()
	client := pixabay.NewClient(pixabay.Options{}, logger.NewNopLogger())

	f := New(client, Options{DownloadDir: dir}, logger.NewNopLogger())
	result, err := f.FetchAll(context.Background(), []models.Record{models.Unresolved(1), models.Unresolved(2)})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Unresolved)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
	assert.Empty(t, listDir(t, dir))
}

func TestFetchAllIdempotent(t *testing.T) {
	server, _ := newImageServer(t)
	dir := t.TempDir()
	client := pixabay.NewClient(pixabay.Options{}, logger.NewNopLogger())
	records := []models.Record{
		models.Resolved(10, server.URL+"/x.jpg"),
		models.Resolved(11, server.URL+"/y.jpg"),
	}

	f := New(client, Options{DownloadDir: dir, Concurrency: 1}, logger.NewNopLogger())
	_, err := f.FetchAll(context.Background(), records)
	require.NoError(t, err)
	first := listDir(t, dir)
	firstContent, _ := os.ReadFile(filepath.Join(dir, "10.jpg"))

	result, err := f.FetchAll(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Downloaded)
	assert.Equal(t, first, listDir(t, dir))
	secondContent, _ := os.ReadFile(filepath.Join(dir, "10.jpg"))
	assert.Equal(t, firstContent, secondContent)
}

func TestFetchAllSkipExisting(t *testing.T) {
	server, hits := newImageServer(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "5.jpg"), []byte("old"), 0644))
	client := pixabay.NewClient(pixabay.Options{}, logger.NewNopLogger())

	f := New(client, Options{DownloadDir: dir, SkipExisting: true}, logger.NewNopLogger())
	result, err := f.FetchAll(context.Background(), []models.Record{
		models.Resolved(5, server.URL+"/five.jpg"),
		models.Resolved(6, server.URL+"/six.jpg"),
	})
	require.NoError(t, err)

	assert.Equal(t, Result{Downloaded: 1, Skipped: 1}, result)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	content, _ := os.ReadFile(filepath.Join(dir, "5.jpg"))
	assert.Equal(t, "old", string(content))
}

func TestFetchAllLogsFailures(t *testing.T) {
	server, _ := newImageServer(t)
	log := logger.NewTestLogger()
	client := pixabay.NewClient(pixabay.Options{}, logger.NewNopLogger())

	f := New(client, Options{DownloadDir: t.TempDir()}, log)
	_, err := f.FetchAll(context.Background(), []models.Record{models.Resolved(7, server.URL+"/missing/7.jpg")})
	require.NoError(t, err)

	assert.True(t, log.HasMessage("Unable to download image"))
}

func TestFetchAllBadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	f := New(pixabay.NewClient(pixabay.Options{}, nil), Options{DownloadDir: filepath.Join(file, "sub")}, logger.NewNopLogger())
	_, err := f.FetchAll(context.Background(), nil)
	assert.Error(t, err)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "downloaded", Downloaded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "skipped", Skipped.String())
}
