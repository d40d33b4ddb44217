package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/bidguide/internal/intake"
	"github.com/dgallion1/bidguide/internal/session"
	"github.com/dgallion1/bidguide/internal/wizard"
	"github.com/go-chi/chi/v5"
)

const maxJSONBody = 1 << 20

type sessionView struct {
	ID        string          `json:"id"`
	Filename  string          `json:"filename,omitempty"`
	Questions []string        `json:"questions"`
	CreatedAt time.Time       `json:"created_at"`
	Wizard    wizard.Snapshot `json:"wizard"`
}

func viewOf(sess *session.Session) sessionView {
	filename, _ := sess.Document()
	return sessionView{
		ID:        sess.ID,
		Filename:  filename,
		Questions: sess.Questions.Questions(),
		CreatedAt: sess.CreatedAt,
		Wizard:    sess.Engine.Snapshot(),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.generator, s.defaultQuestions, s.log)
	s.sessions.Put(sess)
	s.log.Info("session created", "session_id", sess.ID)
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleEditQuestions(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	var req struct {
		Questions []string `json:"questions"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Questions == nil {
		jsonError(w, "questions is required", http.StatusBadRequest)
		return
	}
	if _, ok := sess.Engine.State().(wizard.Initial); !ok {
		jsonError(w, "questions can only be edited before a document is uploaded", http.StatusConflict)
		return
	}

	sess.Questions.Edit(req.Questions)
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if _, ok := sess.Engine.State().(wizard.Initial); !ok {
		jsonError(w, "a document was already uploaded; restart first", http.StatusConflict)
		return
	}

	// Limit total request size; intake enforces the file limit itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.rejectUpload(w, sess, "", intake.TooLargeError(s.cfg.MaxUploadBytes, err))
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	doc, err := s.intake.Ingest(r.Context(), intake.File{
		Name:        filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		s.rejectUpload(w, sess, filename, err)
		return
	}

	step, err := sess.Engine.Start(sess.Questions.ActiveQuestions(), doc.Text)
	if err != nil {
		s.engineError(w, err)
		return
	}
	sess.SetDocument(filename, doc.ContentHash)
	s.log.Info("document accepted",
		"session_id", sess.ID,
		"filename", filename,
		"pages", doc.Pages,
		"content_hash", doc.ContentHash,
	)
	s.afterStep(w, sess, step)
}

// rejectUpload fails the wizard with the ingestion error and replies 422
// with the failed session.
func (s *Server) rejectUpload(w http.ResponseWriter, sess *session.Session, filename string, cause error) {
	if err := sess.Engine.Reject(cause); err != nil {
		s.engineError(w, err)
		return
	}
	s.log.Warn("document rejected", "session_id", sess.ID, "filename", filename, "error", cause)
	sess.SetDocument(filename, "")
	writeJSON(w, http.StatusUnprocessableEntity, viewOf(sess))
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	var req struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	step, err := sess.Engine.Submit(req.Answer)
	if err != nil {
		s.engineError(w, err)
		return
	}
	s.afterStep(w, sess, step)
}

// afterStep queues generation when the wizard asked for it and replies
// with the session view.
func (s *Server) afterStep(w http.ResponseWriter, sess *session.Session, step wizard.Step) {
	if step != wizard.StepGenerate {
		writeJSON(w, http.StatusOK, viewOf(sess))
		return
	}
	if err := s.orchestrator.Submit(sess); err != nil {
		s.log.Warn("generation not queued", "session_id", sess.ID, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, viewOf(sess))
		return
	}
	writeJSON(w, http.StatusAccepted, viewOf(sess))
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if err := sess.Engine.Restart(); err != nil {
		s.engineError(w, err)
		return
	}
	sess.ClearDocument()
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	id := chi.URLParam(r, "sessionID")
	sess := s.sessions.Get(id)
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
	}
	return sess
}

func (s *Server) engineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrBlankAnswer):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, wizard.ErrInvalidState), errors.Is(err, wizard.ErrGenerationRunning):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("wizard event failed", "error", err)
		jsonError(w, wizard.UserMessage(err), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
