package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prepquest/prepquest-backend/internal/middleware"
	"github.com/prepquest/prepquest-backend/internal/response"
	"github.com/prepquest/prepquest-backend/internal/store"
)

// HistoryHandler serves the performance screen: recent attempts and
// per-subject aggregates from the results history.
type HistoryHandler struct {
	store *store.Store
	log   zerolog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(st *store.Store, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		store: st,
		log:   log.With().Str("component", "history_handler").Logger(),
	}
}

// ListAttempts godoc
// GET /api/v1/history?limit=20
func (h *HistoryHandler) ListAttempts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	attempts, err := h.store.ListAttempts(c.Request.Context(), middleware.GetSubject(c), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("List attempts failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if attempts == nil {
		attempts = []store.Attempt{}
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// Summary godoc
// GET /api/v1/history/summary
func (h *HistoryHandler) Summary(c *gin.Context) {
	summaries, err := h.store.SubjectSummaries(c.Request.Context(), middleware.GetSubject(c))
	if err != nil {
		h.log.Error().Err(err).Msg("Subject summaries failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if summaries == nil {
		summaries = []store.SubjectSummary{}
	}

	response.Success(c, http.StatusOK, gin.H{"subjects": summaries})
}
