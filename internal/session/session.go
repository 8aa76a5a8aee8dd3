package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prepquest/prepquest-backend/internal/model"
	"github.com/prepquest/prepquest-backend/internal/quest"
)

// Source supplies pages of questions for a subject. Implementations absorb
// upstream failures and always return a usable page (see internal/quest).
type Source interface {
	FetchPage(ctx context.Context, exam, year, subject string, page int) ([]model.Question, int)
}

// Config carries the immutable parameters of a new session.
type Config struct {
	Exam    string
	Mode    model.Mode
	Options []model.SubjectOption
	// TimerSeconds enables the countdown when positive (exam mode only).
	TimerSeconds int
	Owner        string
}

// Session owns the complete state of one study or exam flow: the active
// position (subject, page, question), recorded answers, the loaded page and
// the optional countdown. It exists only in memory; leaving the flow discards
// it, submitting converts it into a ResultSet.
//
// All exported methods are safe for concurrent use. Page fetches run outside
// the lock; a fetch that completes after the session has navigated elsewhere
// is dropped (staleness guard), so answers recorded meanwhile are never lost.
type Session struct {
	ID        uuid.UUID
	Exam      string
	Mode      model.Mode
	Options   []model.SubjectOption
	CreatedAt time.Time

	mu          sync.Mutex
	subjects    []string
	subjectIdx  int
	page        int
	questionIdx int
	loaded      []model.Question
	loadGen     uint64
	pages       *PageTracker
	answers     map[string]string
	seen        []seenQuestion
	seenIdx     map[string]int
	timer       *Countdown
	submitted   bool
	result      *model.ResultSet
	done        chan struct{}
	lastActive  time.Time

	owner    string
	nav      navigator
	src      Source
	onResult func(*Session, *model.ResultSet)
	log      zerolog.Logger
}

// New builds a session from its configuration. Call Begin to load the first
// page and start the countdown.
func New(cfg Config, src Source, log zerolog.Logger) *Session {
	subjects := make([]string, 0, len(cfg.Options))
	options := make([]model.SubjectOption, len(cfg.Options))
	copy(options, cfg.Options)
	for i := range options {
		if options[i].Year == "" {
			options[i].Year = "2024"
		}
		subjects = append(subjects, options[i].Subject)
	}

	s := &Session{
		ID:         uuid.New(),
		Exam:       cfg.Exam,
		Mode:       cfg.Mode,
		Options:    options,
		CreatedAt:  time.Now(),
		subjects:   subjects,
		page:       1,
		pages:      NewPageTracker(),
		answers:    make(map[string]string),
		seenIdx:    make(map[string]int),
		done:       make(chan struct{}),
		lastActive: time.Now(),
		owner:      cfg.Owner,
		src:        src,
	}
	s.log = log.With().Str("session_id", s.ID.String()).Logger()

	if cfg.Mode == model.ModeExam {
		s.nav = examNavigator{}
		if cfg.TimerSeconds > 0 {
			s.timer = NewCountdown(cfg.TimerSeconds, func() {
				s.log.Info().Msg("Timer expired, forcing submission")
				s.submit()
			})
		}
	} else {
		s.nav = studyNavigator{}
	}

	return s
}

// Begin loads the first page of the first subject and starts the countdown.
func (s *Session) Begin(ctx context.Context) {
	s.loadCurrent(ctx)
	if s.timer != nil {
		s.timer.Start()
	}
}

// Next advances the session one step: one question in exam mode (crossing
// page and subject boundaries as needed), one page in study mode. At the last
// position it is a no-op.
func (s *Session) Next(ctx context.Context) {
	s.mu.Lock()
	if s.submitted {
		s.mu.Unlock()
		return
	}
	needLoad := s.nav.next(s)
	s.lastActive = time.Now()
	s.mu.Unlock()

	if needLoad {
		s.loadCurrent(ctx)
	}
}

// Prev is the mirror of Next. At the first position it is a no-op.
func (s *Session) Prev(ctx context.Context) {
	s.mu.Lock()
	if s.submitted {
		s.mu.Unlock()
		return
	}
	needLoad := s.nav.prev(s)
	s.lastActive = time.Now()
	s.mu.Unlock()

	if needLoad {
		s.loadCurrent(ctx)
	}
}

// SelectAnswer records the chosen option for the question identified by its
// subject and absolute ordinal, overwriting any prior selection. The option
// value is trusted as-is; it is not checked against the question's options.
func (s *Session) SelectAnswer(subject string, ordinal int, option string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return
	}
	s.answers[answerKey(subject, ordinal)] = option
	s.lastActive = time.Now()
}

// ChangeSubject switches to the subject tab at index. The new subject always
// starts at page 1, question 0. Out-of-range indexes are ignored.
func (s *Session) ChangeSubject(ctx context.Context, index int) {
	s.mu.Lock()
	if s.submitted || index < 0 || index >= len(s.subjects) {
		s.mu.Unlock()
		return
	}
	s.subjectIdx = index
	s.page = 1
	s.questionIdx = 0
	s.lastActive = time.Now()
	s.mu.Unlock()

	s.loadCurrent(ctx)
}

// ChangePage jumps to a page of the active subject, clamped into the valid
// range. The question cursor resets to the top of the page.
func (s *Session) ChangePage(ctx context.Context, page int) {
	s.mu.Lock()
	if s.submitted {
		s.mu.Unlock()
		return
	}
	subject := s.subjects[s.subjectIdx]
	clamped := s.pages.Clamp(subject, page)
	if clamped == s.page {
		s.mu.Unlock()
		return
	}
	s.page = clamped
	s.questionIdx = 0
	s.lastActive = time.Now()
	s.mu.Unlock()

	s.loadCurrent(ctx)
}

// Submit compiles the result set from everything seen and answered so far.
// Idempotent: a second call (or a call racing the timer) returns the already
// compiled result.
func (s *Session) Submit() *model.ResultSet {
	return s.submit()
}

func (s *Session) submit() *model.ResultSet {
	s.mu.Lock()
	if s.submitted {
		r := s.result
		s.mu.Unlock()
		return r
	}
	s.submitted = true
	rs := Compile(s.Options, s.seen, s.answers)
	s.result = rs
	timer := s.timer
	hook := s.onResult
	close(s.done)
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if hook != nil {
		hook(s, rs)
	}
	return rs
}

// End releases the session's resources (the countdown goroutine). Called when
// the user leaves the flow or the reaper collects the session.
func (s *Session) End() {
	s.mu.Lock()
	timer := s.timer
	s.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
}

// Done is closed when the session has been submitted, whether manually or by
// timer expiry. Used by the live stream to push the graded event.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Result returns the compiled result set, nil before submission.
func (s *Session) Result() *model.ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Remaining reports the countdown's remaining seconds. ok is false when the
// session has no timer.
func (s *Session) Remaining() (seconds int, ok bool) {
	s.mu.Lock()
	timer := s.timer
	s.mu.Unlock()
	if timer == nil {
		return 0, false
	}
	return timer.Remaining(), true
}

// Owner returns the subject claim the session was created under.
func (s *Session) Owner() string {
	return s.owner
}

// LastActive returns the time of the most recent user interaction.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// loadCurrent fetches the page at the session's current position, applies the
// configured shuffle with a fresh seed and records the served questions for
// scoring. The fetch runs outside the lock; if the session navigated away
// while it was in flight the result is discarded.
func (s *Session) loadCurrent(ctx context.Context) {
	s.mu.Lock()
	subject := s.subjects[s.subjectIdx]
	page := s.page
	opt := s.optionForLocked(subject)
	s.loadGen++
	gen := s.loadGen
	s.mu.Unlock()

	questions, total := s.src.FetchPage(ctx, s.Exam, opt.Year, subject, page)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen || s.subjects[s.subjectIdx] != subject || s.page != page {
		return
	}

	s.pages.RecordTotal(subject, total)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s.loaded = Shuffle(questions, opt.ShuffleQuestions, opt.ShuffleOptions, rng)

	// Keep the cursor inside the loaded page. A backwards page cross lands on
	// index 9 assuming a full page; shorter pages pull it in.
	if s.questionIdx >= len(s.loaded) {
		if len(s.loaded) == 0 {
			s.questionIdx = 0
		} else {
			s.questionIdx = len(s.loaded) - 1
		}
	}

	if s.Mode == model.ModeExam {
		s.recordSeenLocked(subject, page)
	}
}

// recordSeenLocked registers the loaded page's questions under their absolute
// ordinals. Reloading a page overwrites the earlier presentation so scoring
// matches what the candidate last saw.
func (s *Session) recordSeenLocked(subject string, page int) {
	for i, q := range s.loaded {
		ordinal := (page-1)*quest.PageSize + i
		key := answerKey(subject, ordinal)
		sq := seenQuestion{subject: subject, ordinal: ordinal, question: q}
		if idx, ok := s.seenIdx[key]; ok {
			s.seen[idx] = sq
			continue
		}
		s.seenIdx[key] = len(s.seen)
		s.seen = append(s.seen, sq)
	}
}

func (s *Session) optionForLocked(subject string) model.SubjectOption {
	for _, opt := range s.Options {
		if opt.Subject == subject {
			return opt
		}
	}
	return model.SubjectOption{Subject: subject, Year: "2024"}
}

// answerKey is the composite key for answer storage and result aggregation:
// subject plus the absolute question ordinal within that subject.
func answerKey(subject string, ordinal int) string {
	return fmt.Sprintf("%s-%d", subject, ordinal)
}
