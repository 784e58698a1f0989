package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MockPixabayServer simulates the Pixabay API and its image CDN
type MockPixabayServer struct {
	server *httptest.Server
	apiKey string

	apiRequests   int32
	imageRequests int32
	inFlight      int32
	maxInFlight   int32

	mu             sync.RWMutex
	errorResponses map[string]int // "api/{id}" or "image/{id}" to status code
	delay          time.Duration
}

// NewMockPixabayServer starts a server that accepts apiKey
func NewMockPixabayServer(apiKey string) *MockPixabayServer {
	m := &MockPixabayServer{
		apiKey:         apiKey,
		errorResponses: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/", m.handleLookup)
	mux.HandleFunc("/get/", m.handleImage)

	m.server = httptest.NewServer(mux)
	return m
}

func (m *MockPixabayServer) handleLookup(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.apiRequests, 1)
	defer m.track()()

	if r.URL.Query().Get("key") != m.apiKey {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "[ERROR 400] Invalid or missing API key ([key] parameter).")
		return
	}

	id := r.URL.Query().Get("id")
	if code := m.getErrorResponse("api/" + id); code > 0 {
		w.WriteHeader(code)
		fmt.Fprintf(w, "[ERROR %d]", code)
		return
	}

	n, err := strconv.Atoi(id)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "[ERROR 400] \"id\" is out of valid range.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total":     1,
		"totalHits": 1,
		"hits": []map[string]interface{}{{
			"id":            n,
			"pageURL":       fmt.Sprintf("https://pixabay.com/photos/%d/", n),
			"type":          "photo",
			"largeImageURL": m.ImageURL(n),
			"user":          "mock",
		}},
	})
}

func (m *MockPixabayServer) handleImage(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.imageRequests, 1)
	defer m.track()()

	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/get/"), "_1280.jpg")
	if code := m.getErrorResponse("image/" + id); code > 0 {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(ImageBytes(id))
}

// track counts concurrent requests and applies the configured delay
func (m *MockPixabayServer) track() func() {
	n := atomic.AddInt32(&m.inFlight, 1)
	for {
		peak := atomic.LoadInt32(&m.maxInFlight)
		if n <= peak || atomic.CompareAndSwapInt32(&m.maxInFlight, peak, n) {
			break
		}
	}

	m.mu.RLock()
	delay := m.delay
	m.mu.RUnlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	return func() { atomic.AddInt32(&m.inFlight, -1) }
}

// ImageBytes is the body served for an image id
func ImageBytes(id string) []byte {
	return []byte("\xff\xd8\xff\xe0mock-jpeg-" + id)
}

// ImageURL is the largeImageURL the API reports for id
func (m *MockPixabayServer) ImageURL(id int) string {
	return fmt.Sprintf("%s/get/%d_1280.jpg", m.server.URL, id)
}

// APIURL is the base url to configure the client with
func (m *MockPixabayServer) APIURL() string {
	return m.server.URL + "/api/"
}

// SetLookupError makes the API answer code for id
func (m *MockPixabayServer) SetLookupError(id int, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses["api/"+strconv.Itoa(id)] = code
}

// SetImageError makes the CDN answer code for id
func (m *MockPixabayServer) SetImageError(id int, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses["image/"+strconv.Itoa(id)] = code
}

// SetDelay delays every response by d
func (m *MockPixabayServer) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

func (m *MockPixabayServer) getErrorResponse(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errorResponses[key]
}

func (m *MockPixabayServer) APIRequests() int   { return int(atomic.LoadInt32(&m.apiRequests)) }
func (m *MockPixabayServer) ImageRequests() int { return int(atomic.LoadInt32(&m.imageRequests)) }
func (m *MockPixabayServer) MaxInFlight() int   { return int(atomic.LoadInt32(&m.maxInFlight)) }

// ResetCounters zeroes the request counters
func (m *MockPixabayServer) ResetCounters() {
	atomic.StoreInt32(&m.apiRequests, 0)
	atomic.StoreInt32(&m.imageRequests, 0)
	atomic.StoreInt32(&m.maxInFlight, 0)
}

// Close shuts down the server
func (m *MockPixabayServer) Close() {
	m.server.Close()
}
