package aptitude

import (
	"context"
	"time"
)

// Test is an aptitude test definition. Start time is epoch seconds and the
// window spans [StartTime, StartTime+Duration*60). Owned by the authoring side.
type Test struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	StartTime      int64  `json:"test_timestamp"`
	Duration       int    `json:"duration"` // minutes
	TotalQuestions int    `json:"total_questions"`
}

// Question is a question-bank entry, read-only from this package's view.
// Type is a trade code, or "GENERAL" meaning visible to every trade.
type Question struct {
	ID              int64    `json:"id"`
	Description     string   `json:"description"`
	Options         []string `json:"options"`
	CorrectOption   int      `json:"correct_option"`
	DifficultyLevel int      `json:"difficulty_level"`
	Type            string   `json:"question_type"`
	Format          string   `json:"format"`
	TopicTags       []string `json:"topic_tags"`
	LastUsed        int64    `json:"last_used,omitempty"`
}

// GatedQuestion is a question as served to participants, correct option stripped.
type GatedQuestion struct {
	ID              int64    `json:"id"`
	Description     string   `json:"description"`
	Options         []string `json:"options"`
	DifficultyLevel int      `json:"difficulty_level"`
	Type            string   `json:"question_type"`
	Format          string   `json:"format"`
	TopicTags       []string `json:"topic_tags"`
}

// Gated projects a question for participant delivery.
func (q Question) Gated() GatedQuestion {
	return GatedQuestion{
		ID:              q.ID,
		Description:     q.Description,
		Options:         q.Options,
		DifficultyLevel: q.DifficultyLevel,
		Type:            q.Type,
		Format:          q.Format,
		TopicTags:       q.TopicTags,
	}
}

// Participant is an account registered for tests, keyed by registration number.
type Participant struct {
	Regno   string `json:"regno"`
	Name    string `json:"name"`
	Trade   string `json:"trade"`
	Avatar  string `json:"avatar,omitempty"`
	Blocked bool   `json:"-"`
}

// Answer is one selected option for one question.
type Answer struct {
	QuestionID     int64 `json:"question_id"`
	SelectedOption int   `json:"selected_option"`
}

// Submission is the single scored attempt of one participant at one test.
// At most one exists per (Regno, TestID); it is created once and never mutated.
type Submission struct {
	ID          int64    `json:"id"`
	Regno       string   `json:"regno"`
	TestID      int64    `json:"aptitude_test_id"`
	Answers     []Answer `json:"answers"`
	SubmittedAt int64    `json:"response_time"` // epoch seconds
	Marks       int      `json:"marks"`
}

// ResultRow is one submission joined with its participant, as read back for
// ranking. Rows come pre-ordered by marks desc, submission time asc.
type ResultRow struct {
	Regno       string `json:"regno"`
	Name        string `json:"name"`
	Trade       string `json:"trade"`
	Avatar      string `json:"avatar,omitempty"`
	Marks       int    `json:"marks"`
	SubmittedAt int64  `json:"response_time"`
}

// RankedEntry is a result row with its competition rank assigned.
type RankedEntry struct {
	Rank        int    `json:"rank"`
	Regno       string `json:"regno"`
	Name        string `json:"name"`
	Trade       string `json:"trade"`
	Avatar      string `json:"avatar,omitempty"`
	Marks       int    `json:"marks"`
	SubmittedAt int64  `json:"response_time"`
}

// AppearResult is the gated view served to a participant during the window.
type AppearResult struct {
	Aptitude  Test            `json:"aptitude"`
	Questions []GatedQuestion `json:"questions"`
}

// ResponsesPage is one page of the ranked response listing.
type ResponsesPage struct {
	CurrentPage    int           `json:"currentPage"`
	TotalPages     int           `json:"totalPages"`
	TotalResponses int           `json:"totalResponses"`
	Responses      []RankedEntry `json:"responses"`
}

// Toppers holds the overall and trade-partitioned top entries for a test.
type Toppers struct {
	Overall []RankedEntry `json:"overall"`
	Trade   []RankedEntry `json:"trade"`
}

// QuestionReview pairs a question with the option the participant selected.
type QuestionReview struct {
	Question       Question `json:"question"`
	SelectedOption int      `json:"answer"`
}

// ParticipantResult is one participant's outcome for a test.
type ParticipantResult struct {
	Rank       int              `json:"rank"`
	TotalUsers int              `json:"total_users"`
	Marks      int              `json:"marks"`
	Responses  []QuestionReview `json:"responses"`
}

// TestStore reads test definitions.
type TestStore interface {
	GetTest(ctx context.Context, id int64) (Test, error)
}

// QuestionStore reads the question bank.
type QuestionStore interface {
	ListForTest(ctx context.Context, testID int64) ([]Question, error)
	ListForTestByTrade(ctx context.Context, testID int64, trade string) ([]Question, error)
	// CorrectOptions resolves correct options for a set of question ids in a
	// single batched lookup. Unknown ids are simply absent from the result.
	CorrectOptions(ctx context.Context, ids []int64) (map[int64]int, error)
}

// ParticipantStore reads participant accounts.
type ParticipantStore interface {
	GetParticipant(ctx context.Context, regno string) (Participant, error)
}

// SubmissionStore persists and reads scored submissions. Insert must enforce
// the one-submission-per-(regno, test) invariant itself and return
// ErrAlreadySubmitted when it is violated.
type SubmissionStore interface {
	Insert(ctx context.Context, sub *Submission) error
	Exists(ctx context.Context, testID int64, regno string) (bool, error)
	Get(ctx context.Context, testID int64, regno string) (Submission, error)
	ListResults(ctx context.Context, testID int64) ([]ResultRow, error)
}

// Cache is the non-authoritative key/value store used for cache-aside reads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
