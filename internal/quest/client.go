package quest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepquest/prepquest-backend/internal/model"
)

// PageSize is the fixed page size of the question-bank service.
const PageSize = 10

// Client talks to the remote question-bank service. It is stateless across
// calls; every method takes a context for cancellation.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewClient creates a question-bank client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "quest_client").Logger(),
	}
}

// ListExams returns the exam identifiers known to the upstream (e.g. JAMB, WAEC).
func (c *Client) ListExams(ctx context.Context) ([]string, error) {
	var body struct {
		Data []string `json:"data"`
	}
	if err := c.getJSON(ctx, "/exams", nil, &body); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return body.Data, nil
}

// ListYears returns the available years for an exam, oldest first.
func (c *Client) ListYears(ctx context.Context, exam string) ([]string, error) {
	var body struct {
		Data []json.Number `json:"data"`
	}
	path := "/exams/" + url.PathEscape(exam) + "/years"
	if err := c.getJSON(ctx, path, nil, &body); err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	// Years arrive as numbers or strings depending on the deployment.
	years := make([]string, 0, len(body.Data))
	for _, y := range body.Data {
		years = append(years, y.String())
	}
	return years, nil
}

// ListSubjects returns the subjects offered for an exam and year.
func (c *Client) ListSubjects(ctx context.Context, exam, year string) ([]string, error) {
	var body struct {
		Data []string `json:"data"`
	}
	path := "/exams/" + url.PathEscape(exam) + "/years/" + url.PathEscape(year) + "/subjects"
	if err := c.getJSON(ctx, path, nil, &body); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return body.Data, nil
}

// questionsEnvelope mirrors the upstream response for the questions endpoint.
// Total is a pointer so an absent pagination block can be told apart from an
// explicit zero.
type questionsEnvelope struct {
	Data struct {
		Questions  []map[string]any `json:"questions"`
		Pagination struct {
			Total *int `json:"total"`
		} `json:"pagination"`
	} `json:"data"`
}

// FetchPage fetches one page of questions for an exam/year/subject and
// normalizes it into canonical records. It never fails: on network or parse
// errors, and on responses too short for the claimed total, it substitutes the
// corresponding slice of the local sample bank so the caller always has
// something to show. The returned total is the upstream total count when
// known, otherwise the size of whatever bank the page came from.
func (c *Client) FetchPage(ctx context.Context, exam, year, subject string, page int) ([]model.Question, int) {
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("exam", exam)
	query.Set("year", year)
	query.Set("subject", subject)
	query.Set("page", strconv.Itoa(page))

	var body questionsEnvelope
	if err := c.getJSON(ctx, "/questions", query, &body); err != nil {
		c.log.Debug().Err(err).
			Str("subject", subject).
			Int("page", page).
			Msg("Question fetch failed, serving sample bank")
		return samplePage(page), sampleSize
	}

	items := make([]model.Question, 0, len(body.Data.Questions))
	for _, raw := range body.Data.Questions {
		items = append(items, Normalize(raw))
	}

	total := len(items)
	if body.Data.Pagination.Total != nil {
		total = *body.Data.Pagination.Total
	}

	// Some deployments ignore the page parameter and return the whole bank;
	// slice it down to the requested window.
	start := (page - 1) * PageSize
	if len(items) > PageSize {
		if start >= len(items) {
			items = nil
		} else {
			end := start + PageSize
			if end > len(items) {
				end = len(items)
			}
			items = items[start:end]
		}
	}

	// A short page is only legitimate as the trailing page of the bank. An
	// empty or under-filled page with a total that promises more is treated
	// as upstream trouble and degraded to the sample bank.
	if len(items) == 0 || (len(items) < PageSize && total > start+len(items)) {
		c.log.Debug().
			Str("subject", subject).
			Int("page", page).
			Int("received", len(items)).
			Int("total", total).
			Msg("Upstream page under-filled, serving sample bank")
		if total == 0 {
			total = sampleSize
		}
		return samplePage(page), total
	}

	return items, total
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
