package models

import "time"

// Frame is a single radar snapshot, identified by its capture timestamp.
type Frame struct {
	Time int64  // epoch seconds
	Path string // tile path fragment supplied by the timeline source
}

// DisplayTime formats the frame's timestamp for the timeline readout.
func (f Frame) DisplayTime() string {
	return time.Unix(f.Time, 0).Local().Format("3:04 PM")
}

// Timeline is a bounded, chronologically ordered window of recent frames.
type Timeline []Frame

// Latest returns the index of the newest frame, or -1 for an empty timeline.
func (t Timeline) Latest() int {
	return len(t) - 1
}

// IsOrdered reports whether timestamps are non-decreasing.
func (t Timeline) IsOrdered() bool {
	for i := 1; i < len(t); i++ {
		if t[i].Time < t[i-1].Time {
			return false
		}
	}
	return true
}
