package server

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"segedit/internal/api"
)

// Server exposes the segment service over HTTP.
type Server struct {
	svc     *Service
	journal *Journal
}

// NewServer wraps a service and an optional journal. A nil journal
// disables audit logging.
func NewServer(svc *Service, journal *Journal) *Server {
	return &Server{svc: svc, journal: journal}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/project", s.handleProject)
	mux.HandleFunc("GET /api/projects", s.handleProjects)
	mux.HandleFunc("GET /api/chunks", s.handleChunks)
	mux.HandleFunc("GET /api/segments", s.handleSegments)
	mux.HandleFunc("GET /api/segments/{id}", s.handleGetSegment)
	mux.HandleFunc("PUT /api/segments/{id}", s.handleUpdateSegment)
	mux.HandleFunc("DELETE /api/segments/{id}", s.handleDeleteSegment)
	mux.HandleFunc("GET /api/audio/{chunk_id}", s.handleAudio)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	return id, err == nil
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.ProjectInfo{
		Name: s.svc.ProjectName(),
		Path: s.svc.ProjectPath(),
	})
}

// handleProjects lists the served projects with their total duration. This
// server fronts exactly one project directory, so the list has one entry.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	chunks, err := s.svc.AllChunks()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var duration float64
	for _, c := range chunks {
		if c.EndTime > duration {
			duration = c.EndTime
		}
	}
	info := api.ProjectInfo{
		Name:        s.svc.ProjectName(),
		Path:        s.svc.ProjectPath(),
		DurationSec: duration,
	}
	writeJSON(w, http.StatusOK, api.ProjectList{Projects: []api.ProjectInfo{info}, Total: 1})
}

func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	chunks, err := s.svc.AllChunks()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, api.ChunkList{Chunks: chunks, Total: len(chunks)})
}

func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	var (
		segs []api.Segment
		err  error
	)
	if q := r.URL.Query().Get("chunk_id"); q != "" {
		chunkID, convErr := strconv.Atoi(q)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "invalid chunk_id")
			return
		}
		segs, err = s.svc.SegmentsByChunk(chunkID)
	} else {
		segs, err = s.svc.AllSegments()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, api.SegmentList{Segments: segs, Total: len(segs)})
}

func (s *Server) handleGetSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid segment id")
		return
	}
	seg, found, err := s.svc.Segment(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "segment not found")
		return
	}
	writeJSON(w, http.StatusOK, seg)
}

func (s *Server) handleUpdateSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid segment id")
		return
	}

	var upd api.SegmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if upd.IsEmpty() {
		writeError(w, http.StatusBadRequest, "no editable fields in request")
		return
	}

	prev, found, err := s.svc.Segment(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "segment not found")
		return
	}

	seg, found, err := s.svc.UpdateSegment(id, upd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "segment not found")
		return
	}

	s.auditUpdate(id, prev, upd)
	writeJSON(w, http.StatusOK, api.UpdateResult{Success: true, Segment: seg})
}

func (s *Server) auditUpdate(id int, prev api.Segment, upd api.SegmentUpdate) {
	if upd.StartSec != nil {
		s.journalErr(s.journal.RecordUpdate(id, "start_sec",
			formatFloat(prev.StartSec), formatFloat(*upd.StartSec)))
	}
	if upd.EndSec != nil {
		s.journalErr(s.journal.RecordUpdate(id, "end_sec",
			formatFloat(prev.EndSec), formatFloat(*upd.EndSec)))
	}
	if upd.Text != nil {
		s.journalErr(s.journal.RecordUpdate(id, "text", prev.Text, *upd.Text))
	}
}

// journalErr logs journal failures without failing the request; the CSV
// write already succeeded and is the source of truth.
func (s *Server) journalErr(err error) {
	if err != nil {
		log.Printf("journal: %v", err)
	}
}

func (s *Server) handleDeleteSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid segment id")
		return
	}

	prev, found, err := s.svc.Segment(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "segment not found")
		return
	}

	deleted, err := s.svc.DeleteSegment(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "segment not found")
		return
	}

	snapshot, _ := json.Marshal(prev)
	s.journalErr(s.journal.RecordDelete(id, string(snapshot)))
	writeJSON(w, http.StatusOK, api.DeleteResult{Success: true, DeletedID: api.SegmentID(id)})
}

// handleAudio serves a chunk's audio file with Range support, so clients
// can seek without downloading the whole file.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	chunkID, ok := pathID(r, "chunk_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chunk id")
		return
	}
	path, found, err := s.svc.ChunkFilePath(chunkID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "chunk not found")
		return
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.svc.ProjectPath(), path)
	}

	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "audio file not found")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
}
