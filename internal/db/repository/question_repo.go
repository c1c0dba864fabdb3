package repository

import (
	"context"
	"fmt"

	"github.com/campusapti/aptitude-platform/internal/aptitude"
)

const questionColumns = "q.id, q.description, q.options, q.correct_option, q.difficulty_level, q.question_type, q.format, q.topic_tags, q.last_used"

// QuestionRepository reads the question bank and maintains test-question
// links. Question authoring itself lives in a separate service.
type QuestionRepository struct {
	db dbtx
}

// NewQuestionRepository constructs a question repository.
func NewQuestionRepository(db dbtx) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListForTest returns every question linked to a test.
func (r *QuestionRepository) ListForTest(ctx context.Context, testID int64) ([]aptitude.Question, error) {
	return r.listQuestions(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q
		 INNER JOIN aptitude_questions aq ON q.id = aq.question_id
		 WHERE aq.aptitude_test_id = $1`, testID)
}

// ListForTestByTrade returns questions visible to one trade: the trade's own
// plus GENERAL ones.
func (r *QuestionRepository) ListForTestByTrade(ctx context.Context, testID int64, trade string) ([]aptitude.Question, error) {
	return r.listQuestions(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q
		 INNER JOIN aptitude_questions aq ON q.id = aq.question_id
		 WHERE aq.aptitude_test_id = $1 AND (q.question_type = $2 OR q.question_type = 'GENERAL')`,
		testID, trade)
}

// CorrectOptions resolves correct options for a set of question ids in one
// round trip. Ids not present in the bank are absent from the result.
func (r *QuestionRepository) CorrectOptions(ctx context.Context, ids []int64) (map[int64]int, error) {
	correct := make(map[int64]int, len(ids))
	if len(ids) == 0 {
		return correct, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, correct_option FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch correct options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var option int
		if err := rows.Scan(&id, &option); err != nil {
			return nil, fmt.Errorf("scan correct option: %w", err)
		}
		correct[id] = option
	}
	return correct, rows.Err()
}

// ListLinkedIDs returns the ids of questions already linked to a test.
func (r *QuestionRepository) ListLinkedIDs(ctx context.Context, testID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT question_id FROM aptitude_questions WHERE aptitude_test_id = $1`, testID)
	if err != nil {
		return nil, fmt.Errorf("list linked questions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan linked question: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LinkQuestions attaches questions to a test and stamps their last_used time.
// The pair constraint keeps a question in a test at most once.
func (r *QuestionRepository) LinkQuestions(ctx context.Context, testID int64, ids []int64, nowUnix int64) error {
	if len(ids) == 0 {
		return nil
	}

	if _, err := r.db.Exec(ctx,
		`INSERT INTO aptitude_questions (aptitude_test_id, question_id)
		 SELECT $1, unnest($2::bigint[])
		 ON CONFLICT DO NOTHING`, testID, ids); err != nil {
		return fmt.Errorf("link questions: %w", err)
	}

	if _, err := r.db.Exec(ctx,
		`UPDATE questions SET last_used = $1 WHERE id = ANY($2)`, nowUnix, ids); err != nil {
		return fmt.Errorf("stamp last_used: %w", err)
	}
	return nil
}

// UnlinkQuestion detaches one question from a test.
func (r *QuestionRepository) UnlinkQuestion(ctx context.Context, testID, questionID int64) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM aptitude_questions WHERE aptitude_test_id = $1 AND question_id = $2`,
		testID, questionID); err != nil {
		return fmt.Errorf("unlink question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) listQuestions(ctx context.Context, sql string, args ...any) ([]aptitude.Question, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []aptitude.Question
	for rows.Next() {
		var q aptitude.Question
		if err := rows.Scan(&q.ID, &q.Description, &q.Options, &q.CorrectOption,
			&q.DifficultyLevel, &q.Type, &q.Format, &q.TopicTags, &q.LastUsed); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
