package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera(t *testing.T) {
	for _, id := range []int{0, 1, 2} {
		cam := NewCamera(id)

		if got := cam.DeviceID(); got != id {
			t.Errorf("DeviceID() = %d, want %d", got, id)
		}
		if got := cam.FPS(); got != DefaultFPS {
			t.Errorf("camera %d: FPS() = %d, want %d", id, got, DefaultFPS)
		}
		if cam.IsOpen() {
			t.Errorf("camera %d open before Open()", id)
		}
	}
}

func TestCamera_SetFPS(t *testing.T) {
	tests := []struct {
		name string
		fps  int
		want int
	}{
		{name: "lower rate", fps: 15, want: 15},
		{name: "zero keeps default", fps: 0, want: DefaultFPS},
		{name: "negative keeps default", fps: -5, want: DefaultFPS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(0)
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.want {
				t.Errorf("FPS() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOpenWithFPS(t *testing.T) {
	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera(4, []*gocv.Mat{&frame}, true)
	if err := OpenWithFPS(cam, 12); err != nil {
		t.Fatalf("OpenWithFPS() error = %v", err)
	}
	defer cam.Close()

	if !cam.IsOpen() {
		t.Error("camera not open after OpenWithFPS()")
	}
	if got := cam.FPS(); got != 12 {
		t.Errorf("FPS() = %d, want 12", got)
	}
}

func TestCamera_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera = %v, want nil", err)
	}
}

func TestOpenCamera_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam, err := OpenCamera(0, 15)
	if err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}
	defer cam.Close()

	if cam.FPS() != 15 {
		t.Errorf("FPS() = %d, want 15", cam.FPS())
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	defer mat.Close()
	if mat.Empty() {
		t.Error("ReadFrame() returned empty mat")
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() = true after Close()")
	}
}
