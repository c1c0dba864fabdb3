package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusapti/aptitude-platform/internal/aptitude"
	"github.com/campusapti/aptitude-platform/internal/testmgmt"
)

const testColumns = "id, name, test_timestamp, duration, total_questions"

// TestRepository reads and writes aptitude test definitions.
type TestRepository struct {
	db dbtx
}

// NewTestRepository constructs a test repository.
func NewTestRepository(db dbtx) *TestRepository {
	return &TestRepository{db: db}
}

// GetTest fetches one test definition.
func (r *TestRepository) GetTest(ctx context.Context, id int64) (aptitude.Test, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+testColumns+` FROM aptitude_tests WHERE id = $1`, id)
	return scanTest(row)
}

// CreateTest persists a new test definition.
func (r *TestRepository) CreateTest(ctx context.Context, in testmgmt.TestInput) (aptitude.Test, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO aptitude_tests (name, test_timestamp, duration, total_questions)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+testColumns,
		in.Name, in.StartTime, in.Duration, in.TotalQuestions)
	t, err := scanTest(row)
	if err != nil {
		return aptitude.Test{}, fmt.Errorf("create test: %w", err)
	}
	return t, nil
}

// UpdateTest edits an existing test definition.
func (r *TestRepository) UpdateTest(ctx context.Context, id int64, in testmgmt.TestInput) (aptitude.Test, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE aptitude_tests
		 SET name = $1, test_timestamp = $2, duration = $3, total_questions = $4
		 WHERE id = $5
		 RETURNING `+testColumns,
		in.Name, in.StartTime, in.Duration, in.TotalQuestions, id)
	return scanTest(row)
}

// DeleteTest removes a test definition.
func (r *TestRepository) DeleteTest(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM aptitude_tests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete test: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return aptitude.ErrTestNotFound
	}
	return nil
}

// ListTests returns all test definitions, newest first.
func (r *TestRepository) ListTests(ctx context.Context) ([]aptitude.Test, error) {
	return r.listTests(ctx,
		`SELECT `+testColumns+` FROM aptitude_tests ORDER BY id DESC`)
}

// ListUpcoming returns tests starting after now, soonest first.
func (r *TestRepository) ListUpcoming(ctx context.Context, nowUnix int64) ([]aptitude.Test, error) {
	return r.listTests(ctx,
		`SELECT `+testColumns+` FROM aptitude_tests
		 WHERE test_timestamp > $1 ORDER BY test_timestamp ASC`, nowUnix)
}

// ListPast returns tests that started before now, most recent first.
func (r *TestRepository) ListPast(ctx context.Context, nowUnix int64) ([]aptitude.Test, error) {
	return r.listTests(ctx,
		`SELECT `+testColumns+` FROM aptitude_tests
		 WHERE test_timestamp < $1 ORDER BY test_timestamp DESC`, nowUnix)
}

func (r *TestRepository) listTests(ctx context.Context, sql string, args ...any) ([]aptitude.Test, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	defer rows.Close()

	var tests []aptitude.Test
	for rows.Next() {
		var t aptitude.Test
		if err := rows.Scan(&t.ID, &t.Name, &t.StartTime, &t.Duration, &t.TotalQuestions); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func scanTest(row pgx.Row) (aptitude.Test, error) {
	var t aptitude.Test
	if err := row.Scan(&t.ID, &t.Name, &t.StartTime, &t.Duration, &t.TotalQuestions); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return aptitude.Test{}, aptitude.ErrTestNotFound
		}
		return aptitude.Test{}, fmt.Errorf("scan test: %w", err)
	}
	return t, nil
}
