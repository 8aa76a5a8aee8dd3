package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/prepquest/prepquest-backend/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS attempts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    exam TEXT NOT NULL,
    mode TEXT NOT NULL,
    score INTEGER NOT NULL,
    total INTEGER NOT NULL,
    percentage INTEGER NOT NULL,
    grade TEXT NOT NULL,
    taken_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS attempt_subjects (
    attempt_id INTEGER NOT NULL,
    subject TEXT NOT NULL,
    score INTEGER NOT NULL,
    total INTEGER NOT NULL,
    percentage INTEGER NOT NULL,
    FOREIGN KEY (attempt_id) REFERENCES attempts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id, taken_at);
`

// Store is the embedded results-history database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the history database at path. Use ":memory:" for an
// ephemeral store.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertAttempts writes a batch of attempts in one transaction.
func (s *Store) InsertAttempts(ctx context.Context, attempts []Attempt) error {
	if len(attempts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for i := range attempts {
		if err := insertAttemptTx(ctx, tx, &attempts[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertAttemptTx(ctx context.Context, tx *sql.Tx, a *Attempt) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO attempts (session_id, user_id, exam, mode, score, total, percentage, grade, taken_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.SessionID, a.UserID, a.Exam, a.Mode, a.Score, a.Total, a.Percentage, a.Grade, a.TakenAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("attempt id: %w", err)
	}
	a.ID = id

	for _, sub := range a.Subjects {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO attempt_subjects (attempt_id, subject, score, total, percentage)
			 VALUES (?, ?, ?, ?, ?)`,
			id, sub.Subject, sub.Score, sub.Total, sub.Percentage,
		)
		if err != nil {
			return fmt.Errorf("insert attempt subject: %w", err)
		}
	}

	return nil
}

// ListAttempts returns a user's most recent attempts, newest first.
func (s *Store) ListAttempts(ctx context.Context, userID string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_id, exam, mode, score, total, percentage, grade, taken_at
		 FROM attempts WHERE user_id = ? ORDER BY taken_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.SessionID, &a.UserID, &a.Exam, &a.Mode,
			&a.Score, &a.Total, &a.Percentage, &a.Grade, &a.TakenAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range attempts {
		subjects, err := s.attemptSubjects(ctx, attempts[i].ID)
		if err != nil {
			return nil, err
		}
		attempts[i].Subjects = subjects
	}

	return attempts, nil
}

func (s *Store) attemptSubjects(ctx context.Context, attemptID int64) ([]model.SubjectResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, score, total, percentage FROM attempt_subjects WHERE attempt_id = ?`,
		attemptID,
	)
	if err != nil {
		return nil, fmt.Errorf("attempt subjects: %w", err)
	}
	defer rows.Close()

	var subjects []model.SubjectResult
	for rows.Next() {
		var sr model.SubjectResult
		if err := rows.Scan(&sr.Subject, &sr.Score, &sr.Total, &sr.Percentage); err != nil {
			return nil, fmt.Errorf("scan subject result: %w", err)
		}
		subjects = append(subjects, sr)
	}
	return subjects, rows.Err()
}

// SubjectSummaries aggregates a user's history per subject: attempt count,
// average and best percentage.
func (s *Store) SubjectSummaries(ctx context.Context, userID string) ([]SubjectSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ats.subject,
		        COUNT(*),
		        CAST(ROUND(AVG(ats.percentage)) AS INTEGER),
		        MAX(ats.percentage)
		 FROM attempt_subjects ats
		 JOIN attempts a ON a.id = ats.attempt_id
		 WHERE a.user_id = ?
		 GROUP BY ats.subject
		 ORDER BY ats.subject`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("subject summaries: %w", err)
	}
	defer rows.Close()

	var summaries []SubjectSummary
	for rows.Next() {
		var sum SubjectSummary
		if err := rows.Scan(&sum.Subject, &sum.Attempts, &sum.AvgPercentage, &sum.BestPercentage); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
