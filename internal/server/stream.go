package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"
)

// StreamHandler serves the annotated preview as MJPEG.
type StreamHandler struct {
	source   Source
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler reading from source.
func NewStreamHandler(source Source, interval time.Duration) *StreamHandler {
	return &StreamHandler{source: source, interval: interval}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.writeFrame(w); err != nil {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// writeFrame writes the current preview, if any. Only write errors are
// returned; a missing frame is skipped.
func (h *StreamHandler) writeFrame(w http.ResponseWriter) error {
	frame, ok := h.source.AnnotatedMat()
	if !ok {
		return nil
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	frame.Close()
	if err != nil {
		return nil
	}
	defer buf.Close()

	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", buf.Len()); err != nil {
		return err
	}
	if _, err := w.Write(buf.GetBytes()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\r\n"); err != nil {
		return err
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
