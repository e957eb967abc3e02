// Package httpapi exposes form sessions over JSON HTTP endpoints. Each session
// owns an engine; requests against the same session are serialised by it.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/persist"
)

const maxBodyBytes = 1 << 20

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

type session struct {
	id     string
	formID string
	engine *engine.Engine
}

// Server holds the live sessions.
type Server struct {
	opts   Options
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

// New constructs a Server with default options plus any overrides.
func New(fns ...OptionFn) *Server {
	opts := NewOptions(fns...)
	return &Server{
		opts:     opts,
		logger:   opts.Logger,
		sessions: make(map[string]*session),
	}
}

// Handler returns the routed endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /forms", s.listForms)
	mux.HandleFunc("POST /forms/{form}/sessions", s.createSession)
	mux.HandleFunc("GET /sessions/{id}", s.withSession(s.getSession))
	mux.HandleFunc("PUT /sessions/{id}/fields/{field}", s.withSession(s.setField))
	mux.HandleFunc("POST /sessions/{id}/next", s.withSession(s.nextStep))
	mux.HandleFunc("POST /sessions/{id}/prev", s.withSession(s.prevStep))
	mux.HandleFunc("POST /sessions/{id}/goto", s.withSession(s.goToStep))
	mux.HandleFunc("POST /sessions/{id}/reset", s.withSession(s.resetSession))
	mux.HandleFunc("POST /sessions/{id}/submit", s.withSession(s.submitSession))
	mux.HandleFunc("DELETE /sessions/{id}", s.deleteSession)
	return mux
}

// RegisterRoutes mounts the handler under basePath on mux and returns the
// registered pattern.
func (s *Server) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("httpapi: missing mux")
	}
	base := "/" + strings.Trim(strings.TrimSpace(basePath), "/")
	if base == "/" {
		mux.Handle("/", s.Handler())
		return "/", nil
	}
	pattern := base + "/"
	mux.Handle(pattern, http.StripPrefix(base, s.Handler()))
	return pattern, nil
}

type formSummary struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Steps int    `json:"steps"`
}

func (s *Server) listForms(w http.ResponseWriter, _ *http.Request) {
	out := make([]formSummary, 0, len(s.opts.Forms))
	for id, form := range s.opts.Forms {
		out = append(out, formSummary{ID: id, Title: form.Title, Steps: len(form.Steps)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

type createRequest struct {
	SessionID string `json:"sessionId"`
}

// createSession starts a session. A sessionId in the body resumes a
// previously persisted session instead of generating a new id.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	formID := r.PathValue("form")
	form, ok := s.opts.Forms[formID]
	if !ok {
		s.writeError(w, fmt.Errorf("%w: %s", ErrUnknownForm, formID))
		return
	}

	var req createRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, err)
		return
	}
	id := strings.TrimSpace(req.SessionID)
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			s.writeError(w, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("invalid session id %q", id)})
			return
		}
	} else {
		id = s.opts.NewID()
	}

	s.mu.Lock()
	if existing, live := s.sessions[id]; live {
		s.mu.Unlock()
		if existing.formID != formID {
			s.writeError(w, StatusError{Code: http.StatusConflict, Err: fmt.Errorf("session %s belongs to form %s", id, existing.formID)})
			return
		}
		writeJSON(w, http.StatusOK, snapshot(existing))
		return
	}
	sess := &session{id: id, formID: formID, engine: s.newEngine(form, id)}
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("session created", zap.String("form", formID), zap.String("session", id))
	writeJSON(w, http.StatusCreated, snapshot(sess))
}

func (s *Server) newEngine(form model.Form, id string) *engine.Engine {
	opts := append([]engine.Option{}, s.opts.EngineOptions...)
	opts = append(opts, engine.WithLogger(s.logger.With(zap.String("session", id))))
	if s.opts.KV != nil {
		store := persist.NewStore(s.opts.KV,
			persist.WithKey(SessionKey(s.opts.KeyPrefix, form.ID, id)),
			persist.WithLogger(s.logger),
		)
		opts = append(opts, engine.WithPersistence(store))
	}
	return engine.New(form, opts...)
}

// SessionKey builds the persistence key of a session.
func SessionKey(prefix, formID, sessionID string) string {
	return prefix + ":" + formID + ":" + sessionID
}

func (s *Server) withSession(next func(http.ResponseWriter, *http.Request, *session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		s.mu.RLock()
		sess, ok := s.sessions[id]
		s.mu.RUnlock()
		if !ok {
			s.writeError(w, fmt.Errorf("%w: %s", ErrUnknownSession, id))
			return
		}
		next(w, r, sess)
	}
}

func (s *Server) getSession(w http.ResponseWriter, _ *http.Request, sess *session) {
	writeJSON(w, http.StatusOK, snapshot(sess))
}

type fieldRequest struct {
	Value any `json:"value"`
}

func (s *Server) setField(w http.ResponseWriter, r *http.Request, sess *session) {
	name := r.PathValue("field")
	if _, ok := sess.engine.Form().Field(name); !ok {
		s.writeError(w, StatusError{Code: http.StatusNotFound, Err: fmt.Errorf("unknown field %q", name)})
		return
	}
	var req fieldRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	sess.engine.SetField(name, req.Value)
	writeJSON(w, http.StatusOK, snapshot(sess))
}

func (s *Server) nextStep(w http.ResponseWriter, _ *http.Request, sess *session) {
	result := sess.engine.NextStep()
	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, snapshot(sess))
}

func (s *Server) prevStep(w http.ResponseWriter, _ *http.Request, sess *session) {
	sess.engine.PrevStep()
	writeJSON(w, http.StatusOK, snapshot(sess))
}

type gotoRequest struct {
	Step *int `json:"step"`
}

func (s *Server) goToStep(w http.ResponseWriter, r *http.Request, sess *session) {
	var req gotoRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Step == nil {
		s.writeError(w, StatusError{Code: http.StatusBadRequest, Err: errors.New("step is required")})
		return
	}
	if err := sess.engine.GoToStep(*req.Step); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(sess))
}

func (s *Server) resetSession(w http.ResponseWriter, _ *http.Request, sess *session) {
	sess.engine.Reset()
	writeJSON(w, http.StatusOK, snapshot(sess))
}

func (s *Server) submitSession(w http.ResponseWriter, r *http.Request, sess *session) {
	if !sess.engine.IsLastStep() {
		s.writeError(w, ErrNotLastStep)
		return
	}
	result, err := sess.engine.Advance(r.Context(), s.opts.Submit)
	switch {
	case err != nil && errors.Is(err, engine.ErrSubmitInProgress):
		s.writeError(w, err)
	case err != nil:
		s.writeError(w, StatusError{Code: http.StatusBadGateway, Err: fmt.Errorf("submit: %w", err)})
	case !result.Valid:
		writeJSON(w, http.StatusUnprocessableEntity, snapshot(sess))
	default:
		// A submitted session is finished: reply with its final state, then
		// drop it and its persisted record.
		final := snapshot(sess)
		s.forget(sess)
		s.logger.Info("session submitted", zap.String("form", sess.formID), zap.String("session", sess.id))
		writeJSON(w, http.StatusOK, final)
	}
}

func (s *Server) forget(sess *session) {
	s.mu.Lock()
	if s.sessions[sess.id] == sess {
		delete(s.sessions, sess.id)
	}
	s.mu.Unlock()
	sess.engine.Reset()
}

// deleteSession drops the session and its persisted record.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		s.writeError(w, fmt.Errorf("%w: %s", ErrUnknownSession, id))
		return
	}
	s.forget(sess)
	s.logger.Info("session deleted", zap.String("form", sess.formID), zap.String("session", id))
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request, dst any, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return StatusError{Code: http.StatusBadRequest, Err: errors.New("request body is required")}
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil
		}
		return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", code), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.Int("status", code), zap.Error(err))
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
