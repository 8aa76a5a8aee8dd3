package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prepquest/prepquest-backend/internal/middleware"
	"github.com/prepquest/prepquest-backend/internal/model"
	"github.com/prepquest/prepquest-backend/internal/response"
	"github.com/prepquest/prepquest-backend/internal/session"
	"github.com/prepquest/prepquest-backend/internal/validator"
)

// SessionHandler exposes the study/exam session flow.
type SessionHandler struct {
	mgr *session.Manager
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(mgr *session.Manager) *SessionHandler {
	return &SessionHandler{mgr: mgr}
}

// CreateSession godoc
// POST /api/v1/sessions
// Starts a study or exam session from the configured subject options.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	s := h.mgr.Create(c.Request.Context(), req, middleware.GetSubject(c))
	response.Success(c, http.StatusCreated, s.Snapshot())
}

// GetSession godoc
// GET /api/v1/sessions/:id
// Returns the current position, loaded questions and derived labels.
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, s.Snapshot())
}

// Next godoc
// POST /api/v1/sessions/:id/next
// Advances one question (exam mode) or one page (study mode). A no-op at the
// last position.
func (h *SessionHandler) Next(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}
	s.Next(c.Request.Context())
	response.Success(c, http.StatusOK, s.Snapshot())
}

// Prev godoc
// POST /api/v1/sessions/:id/prev
// Moves one step backwards. A no-op at the first position.
func (h *SessionHandler) Prev(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}
	s.Prev(c.Request.Context())
	response.Success(c, http.StatusOK, s.Snapshot())
}

// Answer godoc
// POST /api/v1/sessions/:id/answer
// Records the selected option for a question; overwrites a prior selection.
func (h *SessionHandler) Answer(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	if s.Result() != nil {
		response.Fail(c, http.StatusConflict, response.ErrSessionSubmitted)
		return
	}

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	s.SelectAnswer(req.Subject, *req.Ordinal, req.Option)
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

// ChangeSubject godoc
// POST /api/v1/sessions/:id/subject
// Switches the active subject tab; the new subject starts at page 1.
func (h *SessionHandler) ChangeSubject(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	var req model.ChangeSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	s.ChangeSubject(c.Request.Context(), *req.Index)
	response.Success(c, http.StatusOK, s.Snapshot())
}

// ChangePage godoc
// POST /api/v1/sessions/:id/page
// Jumps to a page of the active subject, clamped into range.
func (h *SessionHandler) ChangePage(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	var req model.ChangePageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	s.ChangePage(c.Request.Context(), *req.Page)
	response.Success(c, http.StatusOK, s.Snapshot())
}

// Submit godoc
// POST /api/v1/sessions/:id/submit
// Compiles and returns the result set. The confirmation dialog lives on the
// client; reaching this endpoint is the confirmation.
func (h *SessionHandler) Submit(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	if s.Mode != model.ModeExam {
		response.Fail(c, http.StatusBadRequest, response.ErrStudyModeSubmit)
		return
	}

	rs := s.Submit()
	response.Success(c, http.StatusOK, gin.H{
		"results": rs,
		"grade":   model.Grade(rs.OverallPercentage()),
	})
}

// GetResults godoc
// GET /api/v1/sessions/:id/results
// Re-reads the compiled result set of an already submitted session, so the
// client can revisit the result screen without resubmitting.
func (h *SessionHandler) GetResults(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	rs := s.Result()
	if rs == nil {
		response.Fail(c, http.StatusConflict, response.ErrNotSubmitted)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"results": rs,
		"grade":   model.Grade(rs.OverallPercentage()),
	})
}

// DeleteSession godoc
// DELETE /api/v1/sessions/:id
// Discards the session. Unsubmitted answers are lost.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	h.mgr.Remove(s.ID)
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// resolve looks up the session from the :id param and verifies the caller
// owns it. Responds and returns ok=false on any failure.
func (h *SessionHandler) resolve(c *gin.Context) (*session.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}

	s, err := h.mgr.Get(id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return nil, false
	}

	if s.Owner() != middleware.GetSubject(c) {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return nil, false
	}

	return s, true
}
