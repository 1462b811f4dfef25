package rainviewer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mwhitfield/stormview/internal/models"
)

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}

	if client.baseURL != "https://api.rainviewer.com" {
		t.Errorf("baseURL = %s, want https://api.rainviewer.com", client.baseURL)
	}

	if client.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", client.httpClient.Timeout)
	}
}

func TestClient_GetTimeline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("User-Agent header not set")
		}
		if r.URL.Path != "/public/weather-maps.json" {
			t.Errorf("path = %s, want /public/weather-maps.json", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"radar":{"past":[
			{"time":1700000000,"path":"/v2/radar/1700000000"},
			{"time":1700000600,"path":"/v2/radar/1700000600"},
			{"time":1700001200,"path":"/v2/radar/1700001200"}
		]}}`))
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL

	timeline, err := client.GetTimeline(context.Background())
	if err != nil {
		t.Fatalf("GetTimeline() error = %v", err)
	}

	if len(timeline) != 3 {
		t.Fatalf("len(timeline) = %d, want 3", len(timeline))
	}

	if !timeline.IsOrdered() {
		t.Error("timeline should be chronologically ordered")
	}

	if timeline[0].Time != 1700000000 {
		t.Errorf("first frame time = %d, want 1700000000", timeline[0].Time)
	}
}

func TestClient_GetTimeline_WindowTruncation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"radar":{"past":[`)
		for i := 0; i < 20; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"time":%d,"path":"/v2/radar/%d"}`, 1700000000+int64(i)*600, i)
		}
		fmt.Fprint(w, `]}}`)
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL

	timeline, err := client.GetTimeline(context.Background())
	if err != nil {
		t.Fatalf("GetTimeline() error = %v", err)
	}

	if len(timeline) != DefaultWindow {
		t.Fatalf("len(timeline) = %d, want %d", len(timeline), DefaultWindow)
	}

	// The newest frames survive truncation.
	wantLast := 1700000000 + int64(19)*600
	if timeline[len(timeline)-1].Time != wantLast {
		t.Errorf("last frame time = %d, want %d", timeline[len(timeline)-1].Time, wantLast)
	}

	if !timeline.IsOrdered() {
		t.Error("truncated timeline should remain ordered")
	}
}

func TestClient_GetTimeline_SortsUnorderedFrames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"radar":{"past":[
			{"time":1700001200,"path":"/v2/radar/1700001200"},
			{"time":1700000000,"path":"/v2/radar/1700000000"},
			{"time":1700000600,"path":"/v2/radar/1700000600"}
		]}}`))
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL

	timeline, err := client.GetTimeline(context.Background())
	if err != nil {
		t.Fatalf("GetTimeline() error = %v", err)
	}

	if !timeline.IsOrdered() {
		t.Fatalf("timeline not chronologically ordered: %+v", timeline)
	}
	if timeline[0].Time != 1700000000 || timeline[2].Time != 1700001200 {
		t.Errorf("timeline = %+v, want oldest first", timeline)
	}
	if timeline[0].Path != "/v2/radar/1700000000" {
		t.Errorf("frame paths should move with their timestamps, got %+v", timeline[0])
	}
}

func TestClient_GetTimeline_WindowsAfterSorting(t *testing.T) {
	// Newest frames listed first: truncation must follow sorting or the
	// window would keep the oldest frames instead.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"radar":{"past":[`)
		for i := 19; i >= 0; i-- {
			if i < 19 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"time":%d,"path":"/v2/radar/%d"}`, 1700000000+int64(i)*600, i)
		}
		fmt.Fprint(w, `]}}`)
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL

	timeline, err := client.GetTimeline(context.Background())
	if err != nil {
		t.Fatalf("GetTimeline() error = %v", err)
	}

	if len(timeline) != DefaultWindow {
		t.Fatalf("len(timeline) = %d, want %d", len(timeline), DefaultWindow)
	}
	if !timeline.IsOrdered() {
		t.Fatalf("timeline not chronologically ordered: %+v", timeline)
	}
	wantFirst := 1700000000 + int64(20-DefaultWindow)*600
	if timeline[0].Time != wantFirst {
		t.Errorf("first frame time = %d, want %d (newest frames must survive)", timeline[0].Time, wantFirst)
	}
	wantLast := 1700000000 + int64(19)*600
	if timeline[len(timeline)-1].Time != wantLast {
		t.Errorf("last frame time = %d, want %d", timeline[len(timeline)-1].Time, wantLast)
	}
}

func TestClient_GetTimeline_InvalidFormat(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty past list", `{"radar":{"past":[]}}`},
		{"not json", `<html>rate limited</html>`},
		{"zero timestamp", `{"radar":{"past":[{"time":0,"path":"/x"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient()
			client.baseURL = server.URL

			_, err := client.GetTimeline(context.Background())
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("GetTimeline() error = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestClient_GetTimeline_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL

	_, err := client.GetTimeline(context.Background())
	if err == nil {
		t.Fatal("GetTimeline() should fail on 500")
	}
	if errors.Is(err, ErrInvalidFormat) {
		t.Error("server error should not be classified as invalid format")
	}
}

func TestClient_TileURL(t *testing.T) {
	client := NewClient()
	frame := models.Frame{Time: 1700000000, Path: "/v2/radar/1700000000"}

	url := client.TileURL(frame)
	want := "https://tilecache.rainviewer.com/v2/radar/1700000000/256/{z}/{x}/{y}/4/1_1.png"
	if url != want {
		t.Errorf("TileURL() = %s, want %s", url, want)
	}
}
