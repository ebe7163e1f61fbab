package capture

import (
	"reflect"
	"testing"
)

func TestEnumerateWorkingDevices(t *testing.T) {
	type device struct{ opened, working bool }

	tests := []struct {
		name       string
		devices    map[int]device
		want       []int
		wantProbes int
	}{
		{
			name:       "no cameras",
			devices:    map[int]device{},
			want:       []int{},
			wantProbes: 2,
		},
		{
			name:       "single camera",
			devices:    map[int]device{0: {true, true}},
			want:       []int{0},
			wantProbes: 3,
		},
		{
			name:       "gap of one is bridged",
			devices:    map[int]device{0: {true, true}, 2: {true, true}},
			want:       []int{0, 2},
			wantProbes: 5,
		},
		{
			name:       "gap of two ends the scan",
			devices:    map[int]device{0: {true, true}, 3: {true, true}},
			want:       []int{0},
			wantProbes: 3,
		},
		{
			name:       "opens but no frame",
			devices:    map[int]device{0: {true, false}, 1: {true, true}},
			want:       []int{1},
			wantProbes: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probes := 0
			got := EnumerateWorkingDevices(func(id int) (bool, bool) {
				probes++
				d := tt.devices[id]
				return d.opened, d.working
			})

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EnumerateWorkingDevices() = %v, want %v", got, tt.want)
			}
			if probes != tt.wantProbes {
				t.Errorf("probed %d indices, want %d", probes, tt.wantProbes)
			}
		})
	}
}

func TestScanDevices_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	devices := ScanDevices()
	t.Logf("found %d working camera(s): %v", len(devices), devices)
}
