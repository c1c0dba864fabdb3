package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campusapti/aptitude-platform/internal/aptitude"
)

// SubmissionRepository persists scored submissions. The table's unique
// constraint on (regno, aptitude_test_id) is the authoritative guard against
// duplicate submissions; a violated insert surfaces as ErrAlreadySubmitted.
type SubmissionRepository struct {
	db dbtx
}

// NewSubmissionRepository constructs a submission repository.
func NewSubmissionRepository(db dbtx) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Insert writes a new submission and fills in its id. Concurrent inserts for
// the same (regno, test) race on the constraint; exactly one wins.
func (r *SubmissionRepository) Insert(ctx context.Context, sub *aptitude.Submission) error {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO user_responses (regno, aptitude_test_id, answers, response_time, marks)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		sub.Regno, sub.TestID, answers, sub.SubmittedAt, sub.Marks)

	if err := row.Scan(&sub.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return aptitude.ErrAlreadySubmitted
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// Exists reports whether a submission is already recorded for (test, regno).
// Callers treat this as an optimization; Insert remains the race-breaker.
func (r *SubmissionRepository) Exists(ctx context.Context, testID int64, regno string) (bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM user_responses WHERE aptitude_test_id = $1 AND regno = $2
		 )`, testID, regno)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check submission: %w", err)
	}
	return exists, nil
}

// Get fetches one participant's submission for a test.
func (r *SubmissionRepository) Get(ctx context.Context, testID int64, regno string) (aptitude.Submission, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, regno, aptitude_test_id, answers, response_time, marks
		 FROM user_responses
		 WHERE aptitude_test_id = $1 AND regno = $2`, testID, regno)

	var sub aptitude.Submission
	var answers []byte
	if err := row.Scan(&sub.ID, &sub.Regno, &sub.TestID, &answers, &sub.SubmittedAt, &sub.Marks); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return aptitude.Submission{}, aptitude.ErrNoSubmission
		}
		return aptitude.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	if err := json.Unmarshal(answers, &sub.Answers); err != nil {
		return aptitude.Submission{}, fmt.Errorf("decode answers: %w", err)
	}
	return sub, nil
}

// ListResults returns every submission for a test joined with its
// participant, ordered by marks descending and submission time ascending.
// Rank numbers are assigned in memory by the ranking pass.
func (r *SubmissionRepository) ListResults(ctx context.Context, testID int64) ([]aptitude.ResultRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.regno, u.name, u.trade, COALESCE(u.avatar, ''), ur.marks, ur.response_time
		 FROM user_responses ur
		 INNER JOIN users u ON ur.regno = u.regno
		 WHERE ur.aptitude_test_id = $1
		 ORDER BY ur.marks DESC, ur.response_time ASC`, testID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []aptitude.ResultRow
	for rows.Next() {
		var row aptitude.ResultRow
		if err := rows.Scan(&row.Regno, &row.Name, &row.Trade, &row.Avatar, &row.Marks, &row.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
