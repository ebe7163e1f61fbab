package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/handpong/internal/detector"
	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"
)

// fakeSource serves a fixed frame and detection result.
type fakeSource struct {
	mu       sync.Mutex
	result   detector.Result
	lastSeen int64
	seen     bool
	device   int
	hasFrame bool
}

func (f *fakeSource) AnnotatedMat() (gocv.Mat, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasFrame {
		return gocv.Mat{}, false
	}
	return gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3), true
}

func (f *fakeSource) Snapshot() (detector.Result, int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.lastSeen, f.seen
}

func (f *fakeSource) ActiveDevice() (int, bool) {
	return f.device, true
}

func oneHandSource() *fakeSource {
	return &fakeSource{
		result:   detector.Result{Hands: []detector.HandLandmarks{detector.OpenPalmLandmarks(0.5)}},
		lastSeen: 1234,
		seen:     true,
		device:   2,
	}
}

func TestServer_Health(t *testing.T) {
	s := New(Config{Tracking: oneHandSource()})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response struct {
			Status   string `json:"status"`
			Uptime   string `json:"uptime"`
			Camera   *int   `json:"camera"`
			HandSeen bool   `json:"hand_seen"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response.Status != "ok" {
			t.Errorf("expected status 'ok', got %v", response.Status)
		}
		if response.Uptime == "" {
			t.Error("expected 'uptime' field in response")
		}
		if response.Camera == nil || *response.Camera != 2 {
			t.Errorf("expected camera 2, got %v", response.Camera)
		}
		if !response.HandSeen {
			t.Error("expected hand_seen true")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/nonexistent", "/api/stream", "/api/landmarks"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	h := NewStreamHandler(&fakeSource{}, time.Millisecond)

	req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestStreamHandler_ServesJPEGParts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OpenCV encode test in short mode")
	}

	src := oneHandSource()
	src.hasFrame = true
	ts := httptest.NewServer(New(Config{Tracking: src, Interval: 10 * time.Millisecond}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/stream")
	if err != nil {
		t.Fatalf("GET /api/stream error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Fatalf("Content-Type = %s, want multipart/x-mixed-replace", ct)
	}

	reader := bufio.NewReader(resp.Body)
	var sawBoundary, sawJPEG bool
	for i := 0; i < 4; i++ {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		switch strings.TrimSpace(line) {
		case "--frame":
			sawBoundary = true
		case "Content-Type: image/jpeg":
			sawJPEG = true
		}
	}
	if !sawBoundary || !sawJPEG {
		t.Errorf("boundary = %v, jpeg header = %v, want both", sawBoundary, sawJPEG)
	}
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

func TestLandmarksHandler_Broadcast(t *testing.T) {
	src := oneHandSource()
	h := NewLandmarksHandler(src, 10*time.Millisecond)
	ts := httptest.NewServer(h)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg LandmarksMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if len(msg.Hands) != 1 {
		t.Errorf("len(hands) = %d, want 1", len(msg.Hands))
	}
	if !msg.HandSeen || msg.LastSeenMs != 1234 {
		t.Errorf("hand_seen = %v, last_seen_ms = %d, want true, 1234", msg.HandSeen, msg.LastSeenMs)
	}
}

func TestLandmarksHandler_RunStopsWithContext(t *testing.T) {
	h := NewLandmarksHandler(&fakeSource{}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServer_RunShutsDown(t *testing.T) {
	s := New(Config{Tracking: &fakeSource{}})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNew(t *testing.T) {
	t.Run("defaults interval", func(t *testing.T) {
		s := New(Config{})
		if s.config.Interval <= 0 {
			t.Errorf("Interval = %v, want positive default", s.config.Interval)
		}
	})

	t.Run("server implements http.Handler", func(t *testing.T) {
		var _ http.Handler = New(Config{})
	})
}
