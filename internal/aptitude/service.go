package aptitude

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/campusapti/aptitude-platform/internal/cache"
)

// ServiceOptions configures staleness bounds and toppers size.
type ServiceOptions struct {
	ViewTTL time.Duration    // expiry for cached question-set and toppers views, default 600s
	TopN    int              // toppers cutoff rank, default 3
	Clock   func() time.Time // injectable for tests, default time.Now
}

// Service runs the gated read, submit and reporting paths for aptitude tests.
// Every dependency is an explicitly passed collaborator; the persistent store
// is the single source of truth and the cache is purely auxiliary.
type Service struct {
	tests        TestStore
	questions    QuestionStore
	participants ParticipantStore
	submissions  SubmissionStore
	cache        Cache
	viewTTL      time.Duration
	topN         int
	now          func() time.Time
	logger       zerolog.Logger
}

// NewService constructs the aptitude service.
func NewService(
	tests TestStore,
	questions QuestionStore,
	participants ParticipantStore,
	submissions SubmissionStore,
	resultCache Cache,
	opts ServiceOptions,
	logger zerolog.Logger,
) *Service {
	if opts.ViewTTL <= 0 {
		opts.ViewTTL = 600 * time.Second
	}
	if opts.TopN <= 0 {
		opts.TopN = 3
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Service{
		tests:        tests,
		questions:    questions,
		participants: participants,
		submissions:  submissions,
		cache:        resultCache,
		viewTTL:      opts.ViewTTL,
		topN:         opts.TopN,
		now:          opts.Clock,
		logger:       logger.With().Str("component", "aptitude").Logger(),
	}
}

// Appear returns the trade-visible question set for an active test, correct
// options stripped. The window is classified fresh before the cache is even
// consulted, so a cached set is never served outside the window.
func (s *Service) Appear(ctx context.Context, testID int64, trade string) (*AppearResult, error) {
	test, err := s.tests.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if state := Classify(test, s.now()); state != WindowActive {
		return nil, windowErr(state)
	}

	key := cache.QuestionSetKey(testID, trade)
	var cached AppearResult
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	questions, err := s.questions.ListForTestByTrade(ctx, testID, trade)
	if err != nil {
		return nil, err
	}
	gated := make([]GatedQuestion, 0, len(questions))
	for _, q := range questions {
		gated = append(gated, q.Gated())
	}

	result := &AppearResult{Aptitude: test, Questions: gated}
	s.cacheSet(ctx, key, result)
	return result, nil
}

// Submit runs the write path: window gate, submission guard, scoring, persist.
// The store's uniqueness constraint on (regno, test) is the race-breaker for
// concurrent duplicates; the Exists pre-check is only a cheap early exit.
func (s *Service) Submit(ctx context.Context, testID int64, regno string, answers []Answer) (*Submission, error) {
	test, err := s.tests.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if state := Classify(test, s.now()); state != WindowActive {
		return nil, windowErr(state)
	}

	participant, err := s.participants.GetParticipant(ctx, regno)
	if err != nil {
		return nil, err
	}
	if participant.Blocked {
		return nil, ErrParticipantBlocked
	}

	exists, err := s.submissions.Exists(ctx, testID, regno)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubmitted
	}

	correct, err := s.questions.CorrectOptions(ctx, QuestionIDs(answers))
	if err != nil {
		return nil, err
	}

	sub := &Submission{
		Regno:       regno,
		TestID:      testID,
		Answers:     answers,
		SubmittedAt: s.now().Unix(),
		Marks:       Score(answers, correct),
	}
	if err := s.submissions.Insert(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("regno", regno).
		Int64("test_id", testID).
		Int("marks", sub.Marks).
		Msg("submission recorded")
	return sub, nil
}

// Responses returns one page of the ranked response listing for a test.
func (s *Service) Responses(ctx context.Context, testID int64, page, items int) (*ResponsesPage, error) {
	if page < 1 {
		page = 1
	}
	if items <= 0 {
		items = 20
	}

	rows, err := s.submissions.ListResults(ctx, testID)
	if err != nil {
		return nil, err
	}
	entries := Rank(rows)

	total := len(entries)
	totalPages := (total + items - 1) / items
	start := (page - 1) * items
	if start > total {
		start = total
	}
	end := start + items
	if end > total {
		end = total
	}

	return &ResponsesPage{
		CurrentPage:    page,
		TotalPages:     totalPages,
		TotalResponses: total,
		Responses:      entries[start:end],
	}, nil
}

// Toppers returns the overall and trade-wise top entries, served cache-aside
// with the configured TTL. A new submission may lag in this view for up to
// the TTL; that staleness bound is accepted, not invalidated on write.
func (s *Service) Toppers(ctx context.Context, testID int64) (*Toppers, error) {
	key := cache.ToppersKey(testID)
	var cached Toppers
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	rows, err := s.submissions.ListResults(ctx, testID)
	if err != nil {
		return nil, err
	}

	result := &Toppers{
		Overall: TopN(Rank(rows), s.topN),
		Trade:   TopN(RankByTrade(rows), s.topN),
	}
	s.cacheSet(ctx, key, result)
	return result, nil
}

// ParticipantResult returns one participant's rank, stored marks and a
// per-question review for a test. The three store reads are independent and
// run concurrently.
func (s *Service) ParticipantResult(ctx context.Context, testID int64, regno string) (*ParticipantResult, error) {
	var (
		sub       Submission
		questions []Question
		rows      []ResultRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sub, err = s.submissions.Get(gctx, testID, regno)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.questions.ListForTest(gctx, testID)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.submissions.ListResults(gctx, testID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rank, total, ok := RankOf(rows, regno)
	if !ok {
		return nil, ErrNoSubmission
	}

	byID := make(map[int64]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	reviews := make([]QuestionReview, 0, len(sub.Answers))
	for _, ans := range sub.Answers {
		q, found := byID[ans.QuestionID]
		if !found {
			continue
		}
		reviews = append(reviews, QuestionReview{Question: q, SelectedOption: ans.SelectedOption})
	}

	return &ParticipantResult{
		Rank:       rank,
		TotalUsers: total,
		Marks:      sub.Marks,
		Responses:  reviews,
	}, nil
}

// cacheGet reads and decodes a cached view. A read or decode failure is
// treated exactly like a miss; the caller falls through to the store.
func (s *Service) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache payload decode failed")
		return false
	}
	return true
}

// cacheSet stores a computed view. Write failures are logged and ignored; the
// cache is never allowed to block a correct response.
func (s *Service) cacheSet(ctx context.Context, key string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache payload encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.viewTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
