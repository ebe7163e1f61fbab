package capture

import (
	"log"

	"gocv.io/x/gocv"
)

// maxDeadDevices is how many consecutive unopenable indices end a scan.
const maxDeadDevices = 2

// ProbeFunc tries a device index. opened reports whether the device could be
// opened at all; working reports whether it also produced a frame.
type ProbeFunc func(deviceID int) (opened, working bool)

// EnumerateWorkingDevices returns the indices of cameras that open and
// deliver at least one frame. OpenCV offers no device listing, so indices
// are probed from 0 upward until two consecutive ones fail to open.
//
// This is slow (around a second) and blocking; never call it from the
// render loop.
func EnumerateWorkingDevices(probe ProbeFunc) []int {
	working := []int{}
	dead := 0

	for id := 0; dead < maxDeadDevices; id++ {
		opened, ok := probe(id)
		if !opened {
			dead++
			continue
		}
		dead = 0
		if ok {
			working = append(working, id)
		}
	}

	return working
}

// ProbeDevice is the GoCV-backed ProbeFunc.
func ProbeDevice(deviceID int) (opened, working bool) {
	vc, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return false, false
	}
	defer vc.Close()

	if !vc.IsOpened() {
		return false, false
	}

	img := gocv.NewMat()
	defer img.Close()

	if !vc.Read(&img) || img.Empty() {
		log.Printf("Camera %d opened but produced no frame", deviceID)
		return true, false
	}

	return true, true
}

// ScanDevices enumerates working cameras using GoCV.
func ScanDevices() []int {
	return EnumerateWorkingDevices(ProbeDevice)
}
