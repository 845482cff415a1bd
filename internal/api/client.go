package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client talks to the segment editor backend over HTTP/JSON.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:8100".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the JSON error body the backend returns on failure.
type apiError struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ae apiError
		if err := json.NewDecoder(resp.Body).Decode(&ae); err == nil {
			msg := ae.Detail
			if msg == "" {
				msg = ae.Error
			}
			if msg != "" {
				return fmt.Errorf("%s %s: %s (status %d)", method, path, msg, resp.StatusCode)
			}
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Project fetches project information. Absence of a project endpoint is not
// fatal to the session, so callers may ignore the error.
func (c *Client) Project(ctx context.Context) (ProjectInfo, error) {
	var info ProjectInfo
	err := c.do(ctx, http.MethodGet, "/api/project", nil, &info)
	return info, err
}

// Chunks fetches all chunk metadata. Chunk ids are 1-based and contiguous.
func (c *Client) Chunks(ctx context.Context) ([]Chunk, error) {
	var list ChunkList
	if err := c.do(ctx, http.MethodGet, "/api/chunks", nil, &list); err != nil {
		return nil, err
	}
	return list.Chunks, nil
}

// Segments fetches the segments belonging to one chunk.
func (c *Client) Segments(ctx context.Context, chunkID int) ([]Segment, error) {
	var list SegmentList
	path := fmt.Sprintf("/api/segments?chunk_id=%d", chunkID)
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Segments, nil
}

// UpdateSegment applies a partial update to one segment.
func (c *Client) UpdateSegment(ctx context.Context, id int, upd SegmentUpdate) (Segment, error) {
	var res UpdateResult
	path := fmt.Sprintf("/api/segments/%d", id)
	if err := c.do(ctx, http.MethodPut, path, upd, &res); err != nil {
		return Segment{}, err
	}
	return res.Segment, nil
}

// DeleteSegment permanently removes one segment.
func (c *Client) DeleteSegment(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/segments/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// DownloadAudio fetches a chunk's audio into destDir and returns the local
// file path. The file is reused if it already exists.
func (c *Client) DownloadAudio(ctx context.Context, chunkID int, destDir string) (string, error) {
	dest := filepath.Join(destDir, fmt.Sprintf("chunk_%03d.audio", chunkID))
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	path := fmt.Sprintf("/api/audio/%d", chunkID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch audio %d: %w", chunkID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch audio %d: status %d", chunkID, resp.StatusCode)
	}

	tmp := dest + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close audio file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return "", fmt.Errorf("finalize audio file: %w", err)
	}
	return dest, nil
}
