package pixabay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixabaydl/pkg/errors"
	"pixabaydl/pkg/logger"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestLookupImage(t *testing.T) {
	var gotKey, gotID, gotAgent string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotID = r.URL.Query().Get("id")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total":1,"totalHits":1,"hits":[{"id":195893,"largeImageURL":"https://cdn.example/195893_1280.jpg"}]}`)
	})

	log := logger.NewTestLogger()
	client := NewClient(Options{BaseURL: server.URL, UserAgent: "pixabaydl-test"}, log)

	hit, err := client.LookupImage(context.Background(), "secret-key", 195893)
	require.NoError(t, err)
	assert.Equal(t, 195893, hit.ID)
	assert.Equal(t, "https://cdn.example/195893_1280.jpg", hit.LargeImageURL)

	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "195893", gotID)
	assert.Equal(t, "pixabaydl-test", gotAgent)

	// the key never reaches the log
	assert.NotContains(t, log.String(), "secret-key")
	msgs := log.GetMessagesByLevel("DEBUG")
	require.NotEmpty(t, msgs)
	assert.Equal(t, 200, msgs[0].Fields["status_code"])
}

func TestLookupImageStatusErrors(t *testing.T) {
	tests := []struct {
		status   int
		expected errors.ErrorType
	}{
		{http.StatusNotFound, errors.ErrorTypeNotFound},
		{http.StatusUnauthorized, errors.ErrorTypeAuth},
		{http.StatusTooManyRequests, errors.ErrorTypeRateLimit},
		{http.StatusBadGateway, errors.ErrorTypeServerError},
		{http.StatusBadRequest, errors.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, "[ERROR] something went wrong")
			})
			client := NewClient(Options{BaseURL: server.URL}, logger.NewNopLogger())

			_, err := client.LookupImage(context.Background(), "k", 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
			assert.Contains(t, err.Error(), "something went wrong")
		})
	}
}

func TestLookupImageParsingErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"hits": [`},
		{"no hits", `{"total":0,"totalHits":0,"hits":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			client := NewClient(Options{BaseURL: server.URL}, logger.NewNopLogger())

			_, err := client.LookupImage(context.Background(), "k", 1)
			assert.True(t, errors.Is(err, errors.ErrorTypeParsing), "got %v", err)
		})
	}
}

func TestLookupImageNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Options{BaseURL: url}, logger.NewNopLogger())
	_, err := client.LookupImage(context.Background(), "k", 1)
	assert.True(t, errors.Is(err, errors.ErrorTypeNetwork), "got %v", err)
}

func TestLookupImageTimeout(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})

	client := NewClient(Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, logger.NewNopLogger())
	_, err := client.LookupImage(context.Background(), "k", 1)
	assert.True(t, errors.Is(err, errors.ErrorTypeNetwork), "got %v", err)
}

func TestOpenImage(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, "jpeg-bytes")
	})
	client := NewClient(Options{}, logger.NewNopLogger())
	assert.Equal(t, DefaultAPIURL, client.BaseURL())

	body, err := client.OpenImage(context.Background(), server.URL+"/1.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "jpeg-bytes", string(data))

	_, err = client.OpenImage(context.Background(), server.URL+"/missing.jpg")
	assert.True(t, errors.Is(err, errors.ErrorTypeNotFound), "got %v", err)
}
