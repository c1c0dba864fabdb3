package testmgmt

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusapti/aptitude-platform/internal/aptitude"
)

// ErrQuestionAlreadyLinked reports an attempt to add a question that is
// already part of the test.
var ErrQuestionAlreadyLinked = errors.New("question already exists in aptitude test")

// TestInput carries the editable fields of a test definition.
type TestInput struct {
	Name           string `json:"name"`
	StartTime      int64  `json:"test_timestamp"`
	Duration       int    `json:"duration"`
	TotalQuestions int    `json:"total_questions"`
}

// Store persists test definitions.
type Store interface {
	GetTest(ctx context.Context, id int64) (aptitude.Test, error)
	CreateTest(ctx context.Context, in TestInput) (aptitude.Test, error)
	UpdateTest(ctx context.Context, id int64, in TestInput) (aptitude.Test, error)
	DeleteTest(ctx context.Context, id int64) error
	ListTests(ctx context.Context) ([]aptitude.Test, error)
	ListUpcoming(ctx context.Context, nowUnix int64) ([]aptitude.Test, error)
	ListPast(ctx context.Context, nowUnix int64) ([]aptitude.Test, error)
}

// QuestionLinker maintains test-question links and reads linked questions.
type QuestionLinker interface {
	ListForTest(ctx context.Context, testID int64) ([]aptitude.Question, error)
	ListLinkedIDs(ctx context.Context, testID int64) ([]int64, error)
	LinkQuestions(ctx context.Context, testID int64, ids []int64, nowUnix int64) error
	UnlinkQuestion(ctx context.Context, testID, questionID int64) error
}

// Service covers the test-authoring surface: definitions and their question
// links. It never touches submissions or scoring.
type Service struct {
	store     Store
	questions QuestionLinker
	now       func() time.Time
	logger    zerolog.Logger
}

// NewService constructs a test-authoring service.
func NewService(store Store, questions QuestionLinker, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		questions: questions,
		now:       time.Now,
		logger:    logger.With().Str("component", "testmgmt").Logger(),
	}
}

// Create persists a new test definition.
func (s *Service) Create(ctx context.Context, in TestInput) (aptitude.Test, error) {
	test, err := s.store.CreateTest(ctx, in)
	if err != nil {
		return aptitude.Test{}, err
	}
	s.logger.Info().Int64("test_id", test.ID).Str("name", test.Name).Msg("aptitude test created")
	return test, nil
}

// Update edits an existing test definition.
func (s *Service) Update(ctx context.Context, id int64, in TestInput) (aptitude.Test, error) {
	return s.store.UpdateTest(ctx, id, in)
}

// Delete removes a test definition.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteTest(ctx, id)
}

// List returns all tests, newest first.
func (s *Service) List(ctx context.Context) ([]aptitude.Test, error) {
	return s.store.ListTests(ctx)
}

// Upcoming returns tests that have not started yet.
func (s *Service) Upcoming(ctx context.Context) ([]aptitude.Test, error) {
	return s.store.ListUpcoming(ctx, s.now().Unix())
}

// Past returns tests that already started.
func (s *Service) Past(ctx context.Context) ([]aptitude.Test, error) {
	return s.store.ListPast(ctx, s.now().Unix())
}

// Detail returns a test with its full question list, correct options
// included. Authoring-side view only.
func (s *Service) Detail(ctx context.Context, id int64) (aptitude.Test, []aptitude.Question, error) {
	test, err := s.store.GetTest(ctx, id)
	if err != nil {
		return aptitude.Test{}, nil, err
	}
	questions, err := s.questions.ListForTest(ctx, id)
	if err != nil {
		return aptitude.Test{}, nil, err
	}
	return test, questions, nil
}

// AddQuestions links questions to a test. Linking a question twice is a
// conflict; successful links stamp the question's last_used time.
func (s *Service) AddQuestions(ctx context.Context, testID int64, questionIDs []int64) error {
	if _, err := s.store.GetTest(ctx, testID); err != nil {
		return err
	}

	linked, err := s.questions.ListLinkedIDs(ctx, testID)
	if err != nil {
		return err
	}
	present := make(map[int64]struct{}, len(linked))
	for _, id := range linked {
		present[id] = struct{}{}
	}
	for _, id := range questionIDs {
		if _, ok := present[id]; ok {
			return ErrQuestionAlreadyLinked
		}
	}

	return s.questions.LinkQuestions(ctx, testID, questionIDs, s.now().Unix())
}

// RemoveQuestion detaches one question from a test.
func (s *Service) RemoveQuestion(ctx context.Context, testID, questionID int64) error {
	return s.questions.UnlinkQuestion(ctx, testID, questionID)
}
