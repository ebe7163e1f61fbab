// Package server provides an optional local HTTP server for watching what
// the hand tracker sees: an annotated MJPEG stream and a landmark feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ayusman/handpong/internal/detector"
	"gocv.io/x/gocv"
)

// Source is the tracking cache the server reads. The server never touches
// the camera. *tracking.Context satisfies it.
type Source interface {
	AnnotatedMat() (gocv.Mat, bool)
	Snapshot() (result detector.Result, lastSeenMs int64, seen bool)
	ActiveDevice() (int, bool)
}

// Config holds the server configuration.
type Config struct {
	Tracking Source
	// Interval between stream frames and landmark broadcasts. Defaults to
	// about 15 per second.
	Interval time.Duration
}

// Server represents the preview HTTP server.
type Server struct {
	config    Config
	mux       *http.ServeMux
	start     time.Time
	landmarks *LandmarksHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Interval <= 0 {
		config.Interval = 66 * time.Millisecond
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Tracking != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Tracking, s.config.Interval))

		s.landmarks = NewLandmarksHandler(s.config.Tracking, s.config.Interval)
		s.mux.Handle("/api/landmarks", s.landmarks)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Tracking != nil {
		if id, ok := s.config.Tracking.ActiveDevice(); ok {
			response["camera"] = id
		}
		_, _, seen := s.config.Tracking.Snapshot()
		response["hand_seen"] = seen
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Run serves on addr until ctx is cancelled, then shuts down. The landmark
// broadcaster runs for the same lifetime.
func (s *Server) Run(ctx context.Context, addr string) error {
	if s.landmarks != nil {
		go s.landmarks.Run(ctx)
	}

	srv := &http.Server{Addr: addr, Handler: s}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down preview server: %v", err)
		}
	}()

	log.Printf("Preview server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
