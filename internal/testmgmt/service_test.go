package testmgmt

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusapti/aptitude-platform/internal/aptitude"
)

type stubStore struct {
	tests  map[int64]aptitude.Test
	nextID int64
}

func newStubStore() *stubStore {
	return &stubStore{tests: make(map[int64]aptitude.Test)}
}

func (s *stubStore) GetTest(_ context.Context, id int64) (aptitude.Test, error) {
	if t, ok := s.tests[id]; ok {
		return t, nil
	}
	return aptitude.Test{}, aptitude.ErrTestNotFound
}

func (s *stubStore) CreateTest(_ context.Context, in TestInput) (aptitude.Test, error) {
	s.nextID++
	t := aptitude.Test{
		ID:             s.nextID,
		Name:           in.Name,
		StartTime:      in.StartTime,
		Duration:       in.Duration,
		TotalQuestions: in.TotalQuestions,
	}
	s.tests[t.ID] = t
	return t, nil
}

func (s *stubStore) UpdateTest(_ context.Context, id int64, in TestInput) (aptitude.Test, error) {
	t, ok := s.tests[id]
	if !ok {
		return aptitude.Test{}, aptitude.ErrTestNotFound
	}
	t.Name = in.Name
	t.StartTime = in.StartTime
	t.Duration = in.Duration
	t.TotalQuestions = in.TotalQuestions
	s.tests[id] = t
	return t, nil
}

func (s *stubStore) DeleteTest(_ context.Context, id int64) error {
	if _, ok := s.tests[id]; !ok {
		return aptitude.ErrTestNotFound
	}
	delete(s.tests, id)
	return nil
}

func (s *stubStore) ListTests(_ context.Context) ([]aptitude.Test, error) {
	var out []aptitude.Test
	for _, t := range s.tests {
		out = append(out, t)
	}
	return out, nil
}

func (s *stubStore) ListUpcoming(_ context.Context, nowUnix int64) ([]aptitude.Test, error) {
	var out []aptitude.Test
	for _, t := range s.tests {
		if t.StartTime > nowUnix {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubStore) ListPast(_ context.Context, nowUnix int64) ([]aptitude.Test, error) {
	var out []aptitude.Test
	for _, t := range s.tests {
		if t.StartTime < nowUnix {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubLinker struct {
	linked   map[int64][]int64
	lastUsed map[int64]int64
}

func newStubLinker() *stubLinker {
	return &stubLinker{linked: make(map[int64][]int64), lastUsed: make(map[int64]int64)}
}

func (s *stubLinker) ListForTest(_ context.Context, testID int64) ([]aptitude.Question, error) {
	var out []aptitude.Question
	for _, id := range s.linked[testID] {
		out = append(out, aptitude.Question{ID: id})
	}
	return out, nil
}

func (s *stubLinker) ListLinkedIDs(_ context.Context, testID int64) ([]int64, error) {
	return s.linked[testID], nil
}

func (s *stubLinker) LinkQuestions(_ context.Context, testID int64, ids []int64, nowUnix int64) error {
	s.linked[testID] = append(s.linked[testID], ids...)
	for _, id := range ids {
		s.lastUsed[id] = nowUnix
	}
	return nil
}

func (s *stubLinker) UnlinkQuestion(_ context.Context, testID, questionID int64) error {
	kept := s.linked[testID][:0]
	for _, id := range s.linked[testID] {
		if id != questionID {
			kept = append(kept, id)
		}
	}
	s.linked[testID] = kept
	return nil
}

func newTestService() (*Service, *stubStore, *stubLinker) {
	store := newStubStore()
	linker := newStubLinker()
	return NewService(store, linker, zerolog.Nop()), store, linker
}

func TestCreateAndUpdateTest(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, TestInput{Name: "Round 1", StartTime: 1000, Duration: 30, TotalQuestions: 20})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	updated, err := svc.Update(ctx, created.ID, TestInput{Name: "Round 1 (rescheduled)", StartTime: 2000, Duration: 30, TotalQuestions: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), updated.StartTime)

	_, err = svc.Update(ctx, 999, TestInput{})
	assert.ErrorIs(t, err, aptitude.ErrTestNotFound)
}

func TestDeleteTest(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, TestInput{Name: "Round 1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, store.tests)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), aptitude.ErrTestNotFound)
}

func TestAddQuestionsLinksAndStampsLastUsed(t *testing.T) {
	svc, _, linker := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, TestInput{Name: "Round 1"})
	require.NoError(t, err)

	require.NoError(t, svc.AddQuestions(ctx, created.ID, []int64{5, 6}))
	assert.ElementsMatch(t, []int64{5, 6}, linker.linked[created.ID])
	assert.NotZero(t, linker.lastUsed[5])
}

func TestAddQuestionsRejectsDuplicateLink(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, TestInput{Name: "Round 1"})
	require.NoError(t, err)

	require.NoError(t, svc.AddQuestions(ctx, created.ID, []int64{5}))
	assert.ErrorIs(t, svc.AddQuestions(ctx, created.ID, []int64{5, 6}), ErrQuestionAlreadyLinked)
}

func TestAddQuestionsUnknownTest(t *testing.T) {
	svc, _, _ := newTestService()
	assert.ErrorIs(t, svc.AddQuestions(context.Background(), 42, []int64{5}), aptitude.ErrTestNotFound)
}

func TestRemoveQuestion(t *testing.T) {
	svc, _, linker := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, TestInput{Name: "Round 1"})
	require.NoError(t, err)
	require.NoError(t, svc.AddQuestions(ctx, created.ID, []int64{5, 6}))

	require.NoError(t, svc.RemoveQuestion(ctx, created.ID, 5))
	assert.Equal(t, []int64{6}, linker.linked[created.ID])
}

func TestUpcomingAndPastPartitionByStart(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	now := svc.now().Unix()
	store.tests[1] = aptitude.Test{ID: 1, StartTime: now + 3600}
	store.tests[2] = aptitude.Test{ID: 2, StartTime: now - 3600}

	upcoming, err := svc.Upcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, int64(1), upcoming[0].ID)

	past, err := svc.Past(ctx)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, int64(2), past[0].ID)
}
