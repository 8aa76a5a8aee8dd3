package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prepquest/prepquest-backend/internal/config"
	"github.com/prepquest/prepquest-backend/internal/handler"
	"github.com/prepquest/prepquest-backend/internal/model"
	"github.com/prepquest/prepquest-backend/internal/quest"
	"github.com/prepquest/prepquest-backend/internal/router"
	"github.com/prepquest/prepquest-backend/internal/session"
	"github.com/prepquest/prepquest-backend/internal/store"
	"github.com/prepquest/prepquest-backend/internal/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

// fakeSource serves deterministic pages without a network round trip.
type fakeSource struct {
	total int
}

func (f fakeSource) FetchPage(_ context.Context, _, _, subject string, page int) ([]model.Question, int) {
	start := (page - 1) * quest.PageSize
	if start >= f.total {
		return nil, f.total
	}
	n := f.total - start
	if n > quest.PageSize {
		n = quest.PageSize
	}
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			Text:    fmt.Sprintf("%s-%d", subject, start+i),
			Options: []string{"a", "b", "c", "d"},
			Answer:  "a",
		}
	}
	return qs, f.total
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	log := zerolog.Nop()
	mgr := session.NewManager(fakeSource{total: 25}, 0, log)
	cfg := &config.Config{GinMode: gin.TestMode}

	return router.SetupRouter(&router.Handlers{
		Session: handler.NewSessionHandler(mgr),
		Catalog: handler.NewCatalogHandler(quest.NewClient("http://127.0.0.1:0", 0, log), log),
		History: handler.NewHistoryHandler(st, log),
		WS:      handler.NewWSHandler(mgr, log, nil),
	}, cfg)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	Metadata struct {
		RequestID string `json:"request_id"`
	} `json:"metadata"`
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, w.Body.String())
	}
	return w.Code, env
}

func createExamSession(t *testing.T, r *gin.Engine) session.Snapshot {
	t.Helper()
	code, env := doRequest(t, r, http.MethodPost, "/api/v1/sessions", gin.H{
		"exam": "JAMB",
		"mode": "exam",
		"subjects": []gin.H{
			{"subject": "Physics", "count": 25},
		},
	})
	if code != http.StatusCreated {
		t.Fatalf("create status = %d, body error: %+v", code, env.Error)
	}
	var snap session.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestSessionFlow(t *testing.T) {
	r := newTestRouter(t)

	snap := createExamSession(t, r)
	if snap.ID == "" {
		t.Fatal("no session ID in snapshot")
	}
	if snap.Mode != model.ModeExam || snap.Subject != "Physics" {
		t.Fatalf("unexpected snapshot: mode=%s subject=%s", snap.Mode, snap.Subject)
	}
	if len(snap.Questions) != 10 {
		t.Fatalf("questions = %d, want 10", len(snap.Questions))
	}
	if snap.Label != "Question 1 of 25" {
		t.Errorf("label = %q", snap.Label)
	}
	if snap.PrevEnabled {
		t.Error("PrevEnabled at origin")
	}

	base := "/api/v1/sessions/" + snap.ID

	// GET returns the same position.
	code, env := doRequest(t, r, http.MethodGet, base, nil)
	if code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}

	// Advance one question.
	code, env = doRequest(t, r, http.MethodPost, base+"/next", nil)
	if code != http.StatusOK {
		t.Fatalf("next status = %d", code)
	}
	json.Unmarshal(env.Data, &snap)
	if snap.Ordinal != 1 || snap.Label != "Question 2 of 25" {
		t.Fatalf("after next: ordinal=%d label=%q", snap.Ordinal, snap.Label)
	}

	// Record an answer.
	code, _ = doRequest(t, r, http.MethodPost, base+"/answer", gin.H{
		"subject": "Physics", "ordinal": 1, "option": "a",
	})
	if code != http.StatusOK {
		t.Fatalf("answer status = %d", code)
	}

	// Jump pages and back.
	code, env = doRequest(t, r, http.MethodPost, base+"/page", gin.H{"page": 3})
	if code != http.StatusOK {
		t.Fatalf("page status = %d", code)
	}
	json.Unmarshal(env.Data, &snap)
	if snap.Page != 3 {
		t.Fatalf("page = %d, want 3", snap.Page)
	}

	// Submit and read the grade.
	code, env = doRequest(t, r, http.MethodPost, base+"/submit", nil)
	if code != http.StatusOK {
		t.Fatalf("submit status = %d", code)
	}
	var result struct {
		Results *model.ResultSet `json:"results"`
		Grade   string           `json:"grade"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Results == nil || result.Results.OverallTotal != 25 {
		t.Fatalf("unexpected results: %+v", result.Results)
	}
	if result.Grade != model.Grade(result.Results.OverallPercentage()) {
		t.Errorf("grade = %q inconsistent with percentage", result.Grade)
	}

	// Delete, then the session is gone.
	code, _ = doRequest(t, r, http.MethodDelete, base, nil)
	if code != http.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	code, env = doRequest(t, r, http.MethodGet, base, nil)
	if code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", code)
	}
	if env.Error == nil || env.Error.Code != "SESSION_NOT_FOUND" {
		t.Errorf("error = %+v, want SESSION_NOT_FOUND", env.Error)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	r := newTestRouter(t)

	code, env := doRequest(t, r, http.MethodPost, "/api/v1/sessions", gin.H{
		"exam":     "JAMB",
		"mode":     "cram", // not a valid mode
		"subjects": []gin.H{{"subject": "Physics", "count": 25}},
	})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v, want VALIDATION_ERROR", env.Error)
	}
	if _, ok := env.Error.Fields["mode"]; !ok {
		t.Errorf("fields = %v, want a 'mode' entry", env.Error.Fields)
	}
}

func TestStudySessionRejectsSubmit(t *testing.T) {
	r := newTestRouter(t)

	code, env := doRequest(t, r, http.MethodPost, "/api/v1/sessions", gin.H{
		"exam":     "JAMB",
		"mode":     "study",
		"subjects": []gin.H{{"subject": "English", "count": 20}},
	})
	if code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}
	var snap session.Snapshot
	json.Unmarshal(env.Data, &snap)

	code, env = doRequest(t, r, http.MethodPost, "/api/v1/sessions/"+snap.ID+"/submit", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("submit status = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "STUDY_MODE_SUBMIT" {
		t.Errorf("error = %+v, want STUDY_MODE_SUBMIT", env.Error)
	}
}

func TestResultsLifecycle(t *testing.T) {
	r := newTestRouter(t)
	snap := createExamSession(t, r)
	base := "/api/v1/sessions/" + snap.ID

	// Nothing to revisit before submission.
	code, env := doRequest(t, r, http.MethodGet, base+"/results", nil)
	if code != http.StatusConflict {
		t.Fatalf("results status = %d, want 409", code)
	}
	if env.Error == nil || env.Error.Code != "SESSION_NOT_SUBMITTED" {
		t.Errorf("error = %+v, want SESSION_NOT_SUBMITTED", env.Error)
	}

	code, _ = doRequest(t, r, http.MethodPost, base+"/submit", nil)
	if code != http.StatusOK {
		t.Fatalf("submit status = %d", code)
	}

	code, env = doRequest(t, r, http.MethodGet, base+"/results", nil)
	if code != http.StatusOK {
		t.Fatalf("results status = %d, want 200", code)
	}
	var body struct {
		Results model.ResultSet `json:"results"`
		Grade   string          `json:"grade"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if body.Grade == "" {
		t.Error("no grade in results payload")
	}

	// The answer sheet is frozen once graded.
	code, env = doRequest(t, r, http.MethodPost, base+"/answer", gin.H{
		"subject": "Physics", "ordinal": 0, "option": "a",
	})
	if code != http.StatusConflict {
		t.Fatalf("answer status = %d, want 409", code)
	}
	if env.Error == nil || env.Error.Code != "SESSION_ALREADY_SUBMITTED" {
		t.Errorf("error = %+v, want SESSION_ALREADY_SUBMITTED", env.Error)
	}
}

func TestInvalidSessionID(t *testing.T) {
	r := newTestRouter(t)

	code, env := doRequest(t, r, http.MethodGet, "/api/v1/sessions/not-a-uuid", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "INVALID_ID" {
		t.Errorf("error = %+v, want INVALID_ID", env.Error)
	}
	if env.Metadata.RequestID == "" {
		t.Error("no request ID in metadata")
	}
}

func TestHistoryEmpty(t *testing.T) {
	r := newTestRouter(t)

	code, env := doRequest(t, r, http.MethodGet, "/api/v1/history", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var data struct {
		Attempts []store.Attempt `json:"attempts"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Attempts == nil || len(data.Attempts) != 0 {
		t.Errorf("attempts = %v, want empty non-nil", data.Attempts)
	}

	code, env = doRequest(t, r, http.MethodGet, "/api/v1/history/summary", nil)
	if code != http.StatusOK {
		t.Fatalf("summary status = %d", code)
	}
}

func TestCatalogFallsBackToDefaults(t *testing.T) {
	// The quest client points at an unreachable address; the catalog degrades
	// to its built-in defaults instead of failing.
	r := newTestRouter(t)

	code, env := doRequest(t, r, http.MethodGet, "/api/v1/catalog/exams", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var exams struct {
		Exams []string `json:"exams"`
	}
	if err := json.Unmarshal(env.Data, &exams); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(exams.Exams) == 0 || exams.Exams[0] != "JAMB" {
		t.Errorf("exams = %v, want default list", exams.Exams)
	}

	code, env = doRequest(t, r, http.MethodGet, "/api/v1/catalog/exams/JAMB/years", nil)
	if code != http.StatusOK {
		t.Fatalf("years status = %d", code)
	}
	var years struct {
		Years []string `json:"years"`
	}
	if err := json.Unmarshal(env.Data, &years); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(years.Years) != 5 {
		t.Errorf("years = %v, want 5 defaults", years.Years)
	}
}

func TestCatalogQuestionsRequireParams(t *testing.T) {
	r := newTestRouter(t)

	code, env := doRequest(t, r, http.MethodGet, "/api/v1/catalog/questions?exam=JAMB", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "INVALID_PAYLOAD" {
		t.Errorf("error = %+v, want INVALID_PAYLOAD", env.Error)
	}
}
