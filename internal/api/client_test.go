package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// startMockBackend serves canned JSON for a fixed set of routes and records
// the requests it sees.
func startMockBackend(t *testing.T, routes map[string]any) (*Client, *[]string) {
	t.Helper()

	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.RequestURI()
		seen = append(seen, key)
		body, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "not found"})
			return
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	return New(srv.URL), &seen
}

func TestChunks(t *testing.T) {
	client, _ := startMockBackend(t, map[string]any{
		"GET /api/chunks": ChunkList{
			Chunks: []Chunk{
				{ID: 1, FilePath: "/audio/chunk_001.mp4", StartTime: 0, EndTime: 600},
				{ID: 2, FilePath: "/audio/chunk_002.mp4", StartTime: 600, EndTime: 1200},
			},
			Total: 2,
		},
	})

	chunks, err := client.Chunks(context.Background())
	if err != nil {
		t.Fatalf("chunks: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if chunks[1].StartTime != 600 {
		t.Errorf("chunks[1].StartTime = %v, want 600", chunks[1].StartTime)
	}
}

func TestSegmentsFiltersByChunk(t *testing.T) {
	client, seen := startMockBackend(t, map[string]any{
		"GET /api/segments?chunk_id=3": SegmentList{
			Segments: []Segment{
				{ID: 7, ChunkID: 3, StartSec: 1200.5, EndSec: 1203.25, Text: "hello"},
			},
			Total: 1,
		},
	})

	segs, err := client.Segments(context.Background(), 3)
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	if len(segs) != 1 || segs[0].ID != 7 {
		t.Fatalf("segments = %+v", segs)
	}
	if (*seen)[0] != "GET /api/segments?chunk_id=3" {
		t.Errorf("request = %q", (*seen)[0])
	}
}

func TestUpdateSegment(t *testing.T) {
	var gotBody SegmentUpdate
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/segments/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(UpdateResult{
			Success: true,
			Segment: Segment{ID: 42, StartSec: 10.5, EndSec: 12.0, Text: "fixed"},
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	seg, err := client.UpdateSegment(context.Background(), 42, SegmentUpdate{
		StartSec: Float64Ptr(10.5),
		Text:     StringPtr("fixed"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if seg.Text != "fixed" {
		t.Errorf("text = %q", seg.Text)
	}
	if gotBody.StartSec == nil || *gotBody.StartSec != 10.5 {
		t.Errorf("body start_sec = %v", gotBody.StartSec)
	}
	if gotBody.EndSec != nil {
		t.Error("end_sec should be omitted from a partial update")
	}
}

func TestDeleteSegmentNotFound(t *testing.T) {
	client, _ := startMockBackend(t, map[string]any{})

	err := client.DeleteSegment(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error for unknown segment")
	}
}

func TestSegmentIDAcceptsStringAndNumber(t *testing.T) {
	cases := []struct {
		in   string
		want SegmentID
	}{
		{`{"segment_id": 42}`, 42},
		{`{"segment_id": "42"}`, 42},
		{`{"segment_id": 42.0}`, 42},
		{`{"segment_id": null}`, 0},
	}
	for _, c := range cases {
		var seg Segment
		if err := json.Unmarshal([]byte(c.in), &seg); err != nil {
			t.Fatalf("unmarshal %s: %v", c.in, err)
		}
		if seg.ID != c.want {
			t.Errorf("id from %s = %d, want %d", c.in, seg.ID, c.want)
		}
	}
}

func TestDownloadAudio(t *testing.T) {
	payload := []byte("not really audio")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/audio/1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(payload)
	}))
	defer srv.Close()

	client := New(srv.URL)
	dir := t.TempDir()

	path, err := client.DownloadAudio(context.Background(), 1, dir)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("payload = %q", data)
	}

	// Second call reuses the cached file.
	again, err := client.DownloadAudio(context.Background(), 1, dir)
	if err != nil {
		t.Fatalf("download again: %v", err)
	}
	if again != path {
		t.Errorf("path = %q, want %q", again, path)
	}
}
