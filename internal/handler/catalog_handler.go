package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prepquest/prepquest-backend/internal/quest"
	"github.com/prepquest/prepquest-backend/internal/response"
)

// defaultYears backs the options screen when the upstream catalog is down;
// the questions themselves degrade to the sample bank separately.
var defaultYears = []string{"2020", "2021", "2022", "2023", "2024"}

var defaultExams = []string{"JAMB"}

// CatalogHandler proxies the question-bank catalog (exams, years, subjects,
// raw question pages) for the subject-selection and options screens.
type CatalogHandler struct {
	quest *quest.Client
	log   zerolog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(qc *quest.Client, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		quest: qc,
		log:   log.With().Str("component", "catalog_handler").Logger(),
	}
}

// ListExams godoc
// GET /api/v1/catalog/exams
func (h *CatalogHandler) ListExams(c *gin.Context) {
	exams, err := h.quest.ListExams(c.Request.Context())
	if err != nil || len(exams) == 0 {
		h.log.Warn().Err(err).Msg("Exam catalog unavailable, serving defaults")
		exams = defaultExams
	}
	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// ListYears godoc
// GET /api/v1/catalog/exams/:exam/years
func (h *CatalogHandler) ListYears(c *gin.Context) {
	exam := c.Param("exam")
	years, err := h.quest.ListYears(c.Request.Context(), exam)
	if err != nil || len(years) == 0 {
		h.log.Warn().Err(err).Str("exam", exam).Msg("Year catalog unavailable, serving defaults")
		years = defaultYears
	}
	response.Success(c, http.StatusOK, gin.H{"years": years})
}

// ListSubjects godoc
// GET /api/v1/catalog/exams/:exam/years/:year/subjects
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	exam := c.Param("exam")
	year := c.Param("year")
	subjects, err := h.quest.ListSubjects(c.Request.Context(), exam, year)
	if err != nil {
		h.log.Warn().Err(err).Str("exam", exam).Str("year", year).
			Msg("Subject catalog unavailable")
		subjects = nil
	}
	if subjects == nil {
		subjects = []string{}
	}
	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// GetQuestions godoc
// GET /api/v1/catalog/questions?exam=&year=&subject=&page=
// Serves a normalized question page. The options screen uses the total to cap
// the per-subject count picker.
func (h *CatalogHandler) GetQuestions(c *gin.Context) {
	exam := c.Query("exam")
	year := c.Query("year")
	subject := c.Query("subject")
	if exam == "" || year == "" || subject == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	questions, total := h.quest.FetchPage(c.Request.Context(), exam, year, subject, page)
	response.Success(c, http.StatusOK, gin.H{
		"questions": questions,
		"pagination": gin.H{
			"page":  page,
			"total": total,
		},
	})
}
