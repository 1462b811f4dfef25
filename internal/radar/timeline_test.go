package radar

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mwhitfield/stormview/internal/models"
)

// stubTimelineClient serves a canned timeline.
type stubTimelineClient struct {
	timeline models.Timeline
	err      error
	calls    int
}

func (s *stubTimelineClient) GetTimeline(ctx context.Context) (models.Timeline, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.timeline, nil
}

func (s *stubTimelineClient) TileURL(frame models.Frame) string {
	return fmt.Sprintf("https://tiles.example%s/256/{z}/{x}/{y}/4/1_1.png", frame.Path)
}

func makeTimeline(n int) models.Timeline {
	tl := make(models.Timeline, 0, n)
	for i := 0; i < n; i++ {
		tl = append(tl, models.Frame{Time: 1700000000 + int64(i)*600, Path: fmt.Sprintf("/f/%d", i)})
	}
	return tl
}

func TestTimelineManager_Fetch(t *testing.T) {
	stub := &stubTimelineClient{timeline: makeTimeline(3)}
	m := NewTimelineManager(stub)

	tl, err := m.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(tl) != 3 {
		t.Fatalf("len(timeline) = %d, want 3", len(tl))
	}
	if !tl.IsOrdered() {
		t.Error("fetched timeline should be ordered")
	}
}

func TestTimelineManager_FetchFailureKeepsTimeline(t *testing.T) {
	stub := &stubTimelineClient{timeline: makeTimeline(3)}
	m := NewTimelineManager(stub)

	if _, err := m.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	stub.err = errors.New("network down")
	if _, err := m.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() should propagate the failure")
	}

	if len(m.Timeline()) != 3 {
		t.Errorf("failed fetch should keep the previous timeline, got len %d", len(m.Timeline()))
	}
}

func TestTimelineManager_Frame(t *testing.T) {
	m := NewTimelineManager(&stubTimelineClient{timeline: makeTimeline(3)})
	m.Fetch(context.Background())

	if _, ok := m.Frame(-1); ok {
		t.Error("Frame(-1) should be rejected")
	}
	if _, ok := m.Frame(3); ok {
		t.Error("Frame(len) should be rejected")
	}
	frame, ok := m.Frame(1)
	if !ok {
		t.Fatal("Frame(1) should exist")
	}
	if frame.Time != 1700000600 {
		t.Errorf("Frame(1).Time = %d, want 1700000600", frame.Time)
	}
}

func TestLayoutMarkers(t *testing.T) {
	tests := []struct {
		name        string
		frames      int
		width       int
		wantIndices []int
	}{
		{"empty", 0, 100, nil},
		{"single frame", 1, 100, []int{0}},
		{"two frames", 2, 100, []int{0, 1}},
		{"short timeline labels all", 4, 100, []int{0, 1, 2, 3}},
		{"five frames", 5, 100, []int{0, 1, 2, 3, 4}},
		{"eleven frames strided", 11, 100, []int{0, 2, 5, 7, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markers := LayoutMarkers(makeTimeline(tt.frames), tt.width)
			if len(markers) != len(tt.wantIndices) {
				t.Fatalf("got %d markers, want %d", len(markers), len(tt.wantIndices))
			}
			for i, m := range markers {
				if m.Index != tt.wantIndices[i] {
					t.Errorf("marker[%d].Index = %d, want %d", i, m.Index, tt.wantIndices[i])
				}
			}
		})
	}
}

func TestLayoutMarkers_Invariants(t *testing.T) {
	for n := 1; n <= 30; n++ {
		markers := LayoutMarkers(makeTimeline(n), 200)

		if len(markers) == 0 {
			t.Fatalf("n=%d: no markers", n)
		}
		if len(markers) > MaxMarkers {
			t.Errorf("n=%d: %d markers exceeds cap", n, len(markers))
		}
		if markers[0].Index != 0 {
			t.Errorf("n=%d: first marker index = %d, want 0", n, markers[0].Index)
		}
		last := markers[len(markers)-1]
		if last.Index != n-1 {
			t.Errorf("n=%d: last marker index = %d, want %d", n, last.Index, n-1)
		}

		seen := map[int]bool{}
		prevX := -1
		for _, m := range markers {
			if seen[m.Index] {
				t.Errorf("n=%d: duplicate marker index %d", n, m.Index)
			}
			seen[m.Index] = true
			if m.X < prevX {
				t.Errorf("n=%d: marker positions not monotonic", n)
			}
			prevX = m.X
		}
	}
}
