package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jgalan247/schemeofLearning/internal/adapted"
	"github.com/jgalan247/schemeofLearning/internal/ai"
	"github.com/jgalan247/schemeofLearning/internal/conditions"
	"github.com/jgalan247/schemeofLearning/internal/curriculum"
	"github.com/jgalan247/schemeofLearning/internal/export"
	"github.com/jgalan247/schemeofLearning/internal/planning"
	"github.com/jgalan247/schemeofLearning/internal/scheme"
)

var (
	errTopicNotFound  = errors.New("topic not found")
	errUnitNotFound   = errors.New("unit not found")
	errLessonNotFound = errors.New("lesson not found")
)

// Server wires the planning store, curriculum catalog and synthesis
// adapter behind the HTTP API.
type Server struct {
	store  planning.Store
	loader *curriculum.Loader
	router *ai.Router
	synth  *scheme.Synthesizer
	events planning.EventLogger

	// One synthesis call per session at a time; duplicates get 409.
	inflightMu sync.Mutex
	inflight   map[string]bool
}

func newServer(store planning.Store, loader *curriculum.Loader, router *ai.Router, synth *scheme.Synthesizer, events planning.EventLogger) *Server {
	if events == nil {
		events = planning.NopEventLogger{}
	}
	return &Server{
		store:    store,
		loader:   loader,
		router:   router,
		synth:    synth,
		events:   events,
		inflight: make(map[string]bool),
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /api/specifications", s.handleListSpecifications)
	mux.HandleFunc("GET /api/conditions", s.handleListConditions)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)

	mux.HandleFunc("POST /api/sessions/{id}/topics", s.handleAddTopic)
	mux.HandleFunc("POST /api/sessions/{id}/topics/move", s.handleMoveTopic)
	mux.HandleFunc("POST /api/sessions/{id}/topics/{topicId}/toggle", s.handleToggleTopic)
	mux.HandleFunc("PUT /api/sessions/{id}/topics/{topicId}/weeks", s.handleSetTopicWeeks)
	mux.HandleFunc("DELETE /api/sessions/{id}/topics/{topicId}", s.handleRemoveTopic)

	mux.HandleFunc("POST /api/sessions/{id}/units/generate", s.handleGenerateUnits)
	mux.HandleFunc("POST /api/sessions/{id}/units", s.handleAddUnit)
	mux.HandleFunc("PUT /api/sessions/{id}/units/{unitId}", s.handleUpdateUnit)
	mux.HandleFunc("DELETE /api/sessions/{id}/units/{unitId}", s.handleRemoveUnit)
	mux.HandleFunc("POST /api/sessions/{id}/units/{unitId}/lessons", s.handleAddLesson)

	mux.HandleFunc("PUT /api/sessions/{id}/lessons/{lessonId}", s.handleUpdateLesson)
	mux.HandleFunc("DELETE /api/sessions/{id}/lessons/{lessonId}", s.handleRemoveLesson)

	mux.HandleFunc("POST /api/sessions/{id}/synthesize", s.handleSynthesize)
	mux.HandleFunc("GET /api/sessions/{id}/export.xlsx", s.handleExport)
	mux.HandleFunc("GET /api/sessions/{id}/adapted.json", s.handleAdaptedExport)
	mux.HandleFunc("GET /api/sessions/{id}/adaptations/report", s.handleAdaptationReport)

	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	// The catalog and store are in-process; only the completion provider
	// is external, and it is optional.
	status := map[string]string{"status": "ready", "ai": "unconfigured"}
	if s.router != nil && s.router.HasProvider() {
		status["ai"] = "configured"
	}
	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleListSpecifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.loader.All())
}

func (s *Server) handleListConditions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, conditions.All())
}

type createSessionRequest struct {
	SpecID       string `json:"specId"`
	YearGroup    string `json:"yearGroup"`
	AcademicYear string `json:"academicYear"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.YearGroup == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("yearGroup is required"))
		return
	}

	var plan planning.Plan
	if req.SpecID == "" {
		plan = planning.NewCustom(req.YearGroup, req.AcademicYear)
	} else {
		spec, ok := s.loader.GetByKey(req.SpecID)
		if !ok {
			respondError(w, http.StatusNotFound, fmt.Errorf("specification %q not found", req.SpecID))
			return
		}
		plan = planning.New(spec, req.YearGroup, req.AcademicYear)
	}

	sess, err := s.store.Create(plan)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.logEvent(sess.ID, "session_created", map[string]any{"spec_id": req.SpecID})
	respondJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addTopicRequest struct {
	Title string `json:"title"`
	Weeks int    `json:"weeks"`
}

func (s *Server) handleAddTopic(w http.ResponseWriter, r *http.Request) {
	var req addTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}
	s.updatePlan(w, r, "topic_added", func(p planning.Plan) (planning.Plan, error) {
		return p.AddCustomTopic(req.Title, req.Weeks), nil
	})
}

func (s *Server) handleToggleTopic(w http.ResponseWriter, r *http.Request) {
	topicID := r.PathValue("topicId")
	s.updatePlan(w, r, "topic_toggled", func(p planning.Plan) (planning.Plan, error) {
		next, ok := p.ToggleTopic(topicID)
		if !ok {
			return p, errTopicNotFound
		}
		return next, nil
	})
}

type setWeeksRequest struct {
	Weeks int `json:"weeks"`
}

func (s *Server) handleSetTopicWeeks(w http.ResponseWriter, r *http.Request) {
	var req setWeeksRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Weeks < 1 {
		respondError(w, http.StatusBadRequest, fmt.Errorf("weeks must be at least 1"))
		return
	}
	topicID := r.PathValue("topicId")
	s.updatePlan(w, r, "topic_weeks_set", func(p planning.Plan) (planning.Plan, error) {
		next, ok := p.SetTopicWeeks(topicID, req.Weeks)
		if !ok {
			return p, errTopicNotFound
		}
		return next, nil
	})
}

type moveTopicRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (s *Server) handleMoveTopic(w http.ResponseWriter, r *http.Request) {
	var req moveTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	s.updatePlan(w, r, "topic_moved", func(p planning.Plan) (planning.Plan, error) {
		next, ok := p.MoveTopic(req.From, req.To)
		if !ok {
			return p, fmt.Errorf("%w: index out of range", errTopicNotFound)
		}
		return next, nil
	})
}

func (s *Server) handleRemoveTopic(w http.ResponseWriter, r *http.Request) {
	topicID := r.PathValue("topicId")
	s.updatePlan(w, r, "topic_removed", func(p planning.Plan) (planning.Plan, error) {
		next, ok := p.RemoveTopic(topicID)
		if !ok {
			return p, errTopicNotFound
		}
		return next, nil
	})
}

func (s *Server) handleGenerateUnits(w http.ResponseWriter, r *http.Request) {
	s.updatePlan(w, r, "units_generated", func(p planning.Plan) (planning.Plan, error) {
		return p.GenerateUnits(), nil
	})
}

type addUnitRequest struct {
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

func (s *Server) handleAddUnit(w http.ResponseWriter, r *http.Request) {
	var req addUnitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}
	s.updatePlan(w, r, "unit_added", func(p planning.Plan) (planning.Plan, error) {
		return p.AddUnit(req.Title, req.Duration), nil
	})
}

func (s *Server) handleUpdateUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.Atoi(r.PathValue("unitId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid unit id"))
		return
	}
	var unit planning.Unit
	if err := decodeJSON(r, &unit); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	unit.ID = unitID
	s.updatePlan(w, r, "unit_updated", func(p planning.Plan) (planning.Plan, error) {
		next, ok := p.UpdateUnit(unit)
		if !ok {
			return p, errUnitNotFound
		}
		return next, nil
	})
}

func (s *Server) handleRemoveUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.Atoi(r.PathValue("unitId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid unit id"))
		return
	}
	s.updatePlan(w, r, "unit_removed", func(p planning.Plan) (planning.Plan, error) {
		next, ok := p.RemoveUnit(unitID)
		if !ok {
			return p, errUnitNotFound
		}
		return next, nil
	})
}

func (s *Server) handleAddLesson(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.Atoi(r.PathValue("unitId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid unit id"))
		return
	}
	s.updatePlan(w, r, "lesson_added", func(p planning.Plan) (planning.Plan, error) {
		next, _, ok := p.AddLesson(unitID)
		if !ok {
			return p, errUnitNotFound
		}
		return next, nil
	})
}

func (s *Server) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := strconv.Atoi(r.PathValue("lessonId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid lesson id"))
		return
	}
	var lesson planning.Lesson
	if err := decodeJSON(r, &lesson); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	lesson.ID = lessonID
	s.updatePlan(w, r, "lesson_updated", func(p planning.Plan) (planning.Plan, error) {
		next, ok := p.UpdateLesson(lesson)
		if !ok {
			return p, errLessonNotFound
		}
		return next, nil
	})
}

func (s *Server) handleRemoveLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := strconv.Atoi(r.PathValue("lessonId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid lesson id"))
		return
	}
	s.updatePlan(w, r, "lesson_removed", func(p planning.Plan) (planning.Plan, error) {
		next, ok := p.RemoveLesson(lessonID)
		if !ok {
			return p, errLessonNotFound
		}
		return next, nil
	})
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if s.synth == nil {
		respondError(w, http.StatusServiceUnavailable, fmt.Errorf("no completion provider configured"))
		return
	}
	id := r.PathValue("id")
	if !s.beginSynthesis(id) {
		respondError(w, http.StatusConflict, fmt.Errorf("synthesis already in progress for this session"))
		return
	}
	defer s.endSynthesis(id)

	sess, err := s.store.Get(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if len(sess.Plan.EnabledTopics()) == 0 {
		respondError(w, http.StatusUnprocessableEntity, fmt.Errorf("at least one enabled topic is required"))
		return
	}

	doc, err := s.synth.Synthesize(r.Context(), sess.Plan)
	if err != nil {
		// The stored scheme is only replaced on success.
		respondError(w, http.StatusBadGateway, err)
		return
	}

	sess, err = s.store.Update(id, func(sess planning.Session) (planning.Session, error) {
		sess.Scheme = doc
		return sess, nil
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	s.logEvent(id, "scheme_synthesized", nil)
	respondJSON(w, http.StatusOK, sess.Scheme)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if len(sess.Plan.EnabledTopics()) == 0 {
		respondError(w, http.StatusUnprocessableEntity, fmt.Errorf("at least one enabled topic is required"))
		return
	}

	f, err := export.Export(sess.Plan, conditionIDs(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.logEvent(sess.ID, "workbook_exported", map[string]any{"conditions": conditionIDs(r)})

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(sess.Plan)))
	if err := f.Write(w); err != nil {
		slog.Error("writing workbook", "error", err)
	}
}

func (s *Server) handleAdaptedExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	data, err := adapted.Encode(adapted.Format(sess.Plan))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if err := adapted.Validate(data); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.logEvent(sess.ID, "adapted_exported", nil)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", adapted.Filename(sess.Plan, time.Now())))
	w.Write(data)
}

func (s *Server) handleAdaptationReport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, adapted.Report(sess.Plan, conditionIDs(r)))
}

// updatePlan runs one plan transition under the store's lock and writes
// the updated session back to the client.
func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request, event string, fn func(planning.Plan) (planning.Plan, error)) {
	id := r.PathValue("id")
	sess, err := s.store.Update(id, func(sess planning.Session) (planning.Session, error) {
		next, err := fn(sess.Plan)
		if err != nil {
			return sess, err
		}
		sess.Plan = next
		return sess, nil
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	s.logEvent(id, event, nil)
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) beginSynthesis(id string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if s.inflight[id] {
		return false
	}
	s.inflight[id] = true
	return true
}

func (s *Server) endSynthesis(id string) {
	s.inflightMu.Lock()
	delete(s.inflight, id)
	s.inflightMu.Unlock()
}

func (s *Server) logEvent(sessionID, eventType string, data map[string]any) {
	err := s.events.LogEvent(planning.Event{
		SessionID: sessionID,
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		slog.Warn("event log failed", "type", eventType, "error", err)
	}
}

func conditionIDs(r *http.Request) []string {
	raw := r.URL.Query().Get("conditions")
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planning.ErrSessionNotFound),
		errors.Is(err, errTopicNotFound),
		errors.Is(err, errUnitNotFound),
		errors.Is(err, errLessonNotFound):
		respondError(w, http.StatusNotFound, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
