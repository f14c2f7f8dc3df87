package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finQuestAPI/internal/achievement"
	"finQuestAPI/internal/activity"
	"finQuestAPI/internal/notification"
)

func intp(v int) *int { return &v }

type recordKey struct {
	userID        uuid.UUID
	achievementID uuid.UUID
}

// memoryStore mirrors the SQL store's compare-and-swap behavior in memory so
// the engine can be exercised without a database.
type memoryStore struct {
	mu      sync.Mutex
	defs    map[uuid.UUID]*achievement.Achievement
	records map[recordKey]*achievement.UserAchievement
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		defs:    make(map[uuid.UUID]*achievement.Achievement),
		records: make(map[recordKey]*achievement.UserAchievement),
	}
}

func (m *memoryStore) InsertDefinition(ctx context.Context, def *achievement.Achievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.defs {
		if existing.CanonicalKey == def.CanonicalKey {
			return nil
		}
	}
	copied := *def
	m.defs[def.ID] = &copied
	return nil
}

func (m *memoryStore) GetDefinition(ctx context.Context, achievementID uuid.UUID) (*achievement.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	def, ok := m.defs[achievementID]
	if !ok {
		return nil, achievement.ErrUnknownDefinition
	}
	copied := *def
	return &copied, nil
}

func (m *memoryStore) DefinitionsForTypes(ctx context.Context, types []achievement.RequirementType) ([]*achievement.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[achievement.RequirementType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	var out []*achievement.Achievement
	for _, def := range m.defs {
		if wanted[def.Requirement.Type] {
			copied := *def
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryStore) EnsureRecord(ctx context.Context, userID, achievementID uuid.UUID, canonicalKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := recordKey{userID, achievementID}
	if _, ok := m.records[key]; ok {
		return nil
	}
	m.records[key] = &achievement.UserAchievement{
		ID:            uuid.New(),
		UserID:        userID,
		AchievementID: achievementID,
		CanonicalKey:  canonicalKey,
	}
	return nil
}

func (m *memoryStore) GetRecord(ctx context.Context, userID, achievementID uuid.UUID) (*achievement.UserAchievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey{userID, achievementID}]
	if !ok {
		return nil, achievement.ErrUnknownDefinition
	}
	copied := *rec
	return &copied, nil
}

func (m *memoryStore) ApplyProgress(ctx context.Context, userID, achievementID uuid.UUID, metric int, monotonic bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey{userID, achievementID}]
	if !ok {
		return 0, achievement.ErrUnknownDefinition
	}
	if rec.Completed {
		return rec.Progress, nil
	}
	if monotonic {
		if metric > rec.Progress {
			rec.Progress = metric
		}
	} else {
		rec.Progress = metric
	}
	return rec.Progress, nil
}

func (m *memoryStore) TryComplete(ctx context.Context, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey{userID, achievementID}]
	if !ok {
		return false, achievement.ErrUnknownDefinition
	}
	if rec.Completed {
		return false, nil
	}
	rec.Completed = true
	rec.CompletedAt = &at
	return true, nil
}

func (m *memoryStore) ListWithStatus(ctx context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*achievement.AchievementWithStatus
	for _, def := range m.defs {
		status := &achievement.AchievementWithStatus{Achievement: *def}
		if rec, ok := m.records[recordKey{userID, def.ID}]; ok {
			status.Progress = rec.Progress
			status.Completed = rec.Completed
			status.CompletedAt = rec.CompletedAt
		}
		out = append(out, status)
	}
	return out, nil
}

func (m *memoryStore) ListRecordSnapshots(ctx context.Context, missingKeyOnly bool) ([]*achievement.RecordSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*achievement.RecordSnapshot
	for _, rec := range m.records {
		if missingKeyOnly && rec.CanonicalKey != "" {
			continue
		}
		def, ok := m.defs[rec.AchievementID]
		if !ok {
			continue
		}
		out = append(out, &achievement.RecordSnapshot{
			RecordID:     rec.ID,
			CanonicalKey: rec.CanonicalKey,
			Requirement:  def.Requirement,
		})
	}
	return out, nil
}

func (m *memoryStore) SetCanonicalKey(ctx context.Context, recordID uuid.UUID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID == recordID {
			rec.CanonicalKey = key
			return nil
		}
	}
	return achievement.ErrUnknownDefinition
}

func (m *memoryStore) record(userID, achievementID uuid.UUID) *achievement.UserAchievement {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[recordKey{userID, achievementID}]
	if rec == nil {
		return nil
	}
	copied := *rec
	return &copied
}

// stubAggregator returns a scripted metric per requirement type.
type stubAggregator struct {
	mu      sync.Mutex
	metrics map[achievement.RequirementType]int
}

func (s *stubAggregator) Metric(ctx context.Context, userID uuid.UUID, t achievement.RequirementType) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics[t], nil
}

func (s *stubAggregator) set(t achievement.RequirementType, v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[t] = v
}

type captureNotifier struct {
	mu       sync.Mutex
	requests []*notification.CreateNotificationRequest
}

func (c *captureNotifier) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	return &notification.Notification{ID: uuid.New(), UserID: req.UserID, Type: req.Type}, nil
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func newTestService(t *testing.T) (*AchievementService, *memoryStore, *stubAggregator, *captureNotifier) {
	t.Helper()
	store := newMemoryStore()
	agg := &stubAggregator{metrics: make(map[achievement.RequirementType]int)}
	notifier := &captureNotifier{}
	return NewAchievementService(store, agg, notifier), store, agg, notifier
}

func seedDefinition(t *testing.T, store *memoryStore, spec achievement.RequirementSpec, key string) *achievement.Achievement {
	t.Helper()
	def := &achievement.Achievement{
		ID:           uuid.New(),
		Title:        "Test " + key,
		Requirement:  spec,
		CanonicalKey: key,
	}
	require.NoError(t, store.InsertDefinition(context.Background(), def))
	return def
}

func TestEvaluateAccumulatesMonotonically(t *testing.T) {
	svc, store, agg, _ := newTestService(t)
	def := seedDefinition(t, store, achievement.RequirementSpec{
		Type:  achievement.RequirementExpenseCount,
		Count: intp(10),
	}, "EXPENSE_COUNT_10")
	userID := uuid.New()

	agg.set(achievement.RequirementExpenseCount, 5)
	require.NoError(t, svc.Evaluate(context.Background(), userID, def.ID))
	assert.Equal(t, 5, store.record(userID, def.ID).Progress)

	// A lower metric later must not pull recorded progress backwards.
	agg.set(achievement.RequirementExpenseCount, 3)
	require.NoError(t, svc.Evaluate(context.Background(), userID, def.ID))
	assert.Equal(t, 5, store.record(userID, def.ID).Progress)
}

func TestEvaluateStreakResets(t *testing.T) {
	svc, store, agg, _ := newTestService(t)
	def := seedDefinition(t, store, achievement.RequirementSpec{
		Type: achievement.RequirementTaskStreak,
		Days: intp(14),
	}, "TASK_STREAK_14")
	userID := uuid.New()

	agg.set(achievement.RequirementTaskStreak, 7)
	require.NoError(t, svc.Evaluate(context.Background(), userID, def.ID))
	assert.Equal(t, 7, store.record(userID, def.ID).Progress)

	// A broken streak is stored as-is, not kept at the best-seen value.
	agg.set(achievement.RequirementTaskStreak, 0)
	require.NoError(t, svc.Evaluate(context.Background(), userID, def.ID))
	assert.Equal(t, 0, store.record(userID, def.ID).Progress)
}

func TestEvaluateCompletesAtTarget(t *testing.T) {
	svc, store, agg, notifier := newTestService(t)
	def := seedDefinition(t, store, achievement.RequirementSpec{
		Type:  achievement.RequirementExpenseCount,
		Count: intp(1),
	}, "EXPENSE_COUNT_1")
	userID := uuid.New()

	agg.set(achievement.RequirementExpenseCount, 1)
	require.NoError(t, svc.Evaluate(context.Background(), userID, def.ID))

	rec := store.record(userID, def.ID)
	assert.True(t, rec.Completed)
	require.NotNil(t, rec.CompletedAt)
	assert.Equal(t, 1, notifier.count())
}

func TestEvaluateCompletedRecordIsTerminal(t *testing.T) {
	svc, store, agg, notifier := newTestService(t)
	def := seedDefinition(t, store, achievement.RequirementSpec{
		Type: achievement.RequirementTaskStreak,
		Days: intp(3),
	}, "TASK_STREAK_3")
	userID := uuid.New()

	agg.set(achievement.RequirementTaskStreak, 3)
	require.NoError(t, svc.Evaluate(context.Background(), userID, def.ID))

	first := store.record(userID, def.ID)
	require.True(t, first.Completed)
	require.NotNil(t, first.CompletedAt)

	// The streak breaking afterwards must not reopen or restamp the record.
	agg.set(achievement.RequirementTaskStreak, 0)
	require.NoError(t, svc.Evaluate(context.Background(), userID, def.ID))

	second := store.record(userID, def.ID)
	assert.True(t, second.Completed)
	assert.Equal(t, first.Progress, second.Progress)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)
	assert.Equal(t, 1, notifier.count())
}

func TestConcurrentEvaluationCompletesOnce(t *testing.T) {
	svc, store, agg, notifier := newTestService(t)
	def := seedDefinition(t, store, achievement.RequirementSpec{
		Type:  achievement.RequirementTaskCount,
		Count: intp(5),
	}, "TASK_COUNT_5")
	userID := uuid.New()

	agg.set(achievement.RequirementTaskCount, 5)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.HandleActivityEvent(context.Background(), userID, activity.EventTaskCompleted)
		}()
	}
	wg.Wait()

	rec := store.record(userID, def.ID)
	require.NotNil(t, rec)
	assert.True(t, rec.Completed)
	assert.Equal(t, 1, notifier.count())
}

func TestHandleActivityEventSkipsUnrelatedDefinitions(t *testing.T) {
	svc, store, agg, _ := newTestService(t)
	expenseDef := seedDefinition(t, store, achievement.RequirementSpec{
		Type:  achievement.RequirementExpenseCount,
		Count: intp(10),
	}, "EXPENSE_COUNT_10")
	incomeDef := seedDefinition(t, store, achievement.RequirementSpec{
		Type:  achievement.RequirementIncomeCount,
		Count: intp(10),
	}, "INCOME_COUNT_10")
	userID := uuid.New()

	agg.set(achievement.RequirementExpenseCount, 2)
	agg.set(achievement.RequirementIncomeCount, 2)

	svc.HandleActivityEvent(context.Background(), userID, activity.EventExpenseRecorded)

	assert.NotNil(t, store.record(userID, expenseDef.ID))
	assert.Nil(t, store.record(userID, incomeDef.ID))
}

func TestEvaluateUnknownRequirementType(t *testing.T) {
	svc, store, _, notifier := newTestService(t)
	def := seedDefinition(t, store, achievement.RequirementSpec{
		Type: achievement.RequirementType("retired_rule"),
	}, "RETIRED_RULE")
	userID := uuid.New()

	err := svc.Evaluate(context.Background(), userID, def.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, achievement.ErrUnknownDefinition)
	assert.Equal(t, 0, notifier.count())
}

func TestSeedCatalogStoresDerivedKeys(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	require.NoError(t, svc.SeedCatalog(context.Background()))

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Equal(t, len(achievement.DefaultCatalog()), len(store.defs))
	for _, def := range store.defs {
		assert.NotEmpty(t, def.CanonicalKey, "definition %q", def.Title)
	}
}

func TestRecomputeCanonicalKeysBackfillsMissing(t *testing.T) {
	svc, store, agg, _ := newTestService(t)
	def := seedDefinition(t, store, achievement.RequirementSpec{
		Type:  achievement.RequirementExpenseCount,
		Count: intp(10),
	}, "EXPENSE_COUNT_10")
	userID := uuid.New()

	agg.set(achievement.RequirementExpenseCount, 4)
	require.NoError(t, svc.Evaluate(context.Background(), userID, def.ID))

	// Simulate a legacy record written before keys existed.
	rec := store.record(userID, def.ID)
	require.NoError(t, store.SetCanonicalKey(context.Background(), rec.ID, ""))

	report, err := svc.RecomputeCanonicalKeys(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Failed)

	after := store.record(userID, def.ID)
	assert.Equal(t, "EXPENSE_COUNT_10", after.CanonicalKey)
	assert.Equal(t, 4, after.Progress)
	assert.False(t, after.Completed)
}

func TestRecomputeCanonicalKeysIsIdempotent(t *testing.T) {
	svc, store, agg, _ := newTestService(t)
	def := seedDefinition(t, store, achievement.RequirementSpec{
		Type: achievement.RequirementFirstBudget,
	}, "FIRST_BUDGET")
	userID := uuid.New()

	agg.set(achievement.RequirementFirstBudget, 1)
	require.NoError(t, svc.Evaluate(context.Background(), userID, def.ID))

	first, err := svc.RecomputeCanonicalKeys(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Updated)
	assert.Equal(t, 1, first.Skipped)

	before := store.record(userID, def.ID)

	second, err := svc.RecomputeCanonicalKeys(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, *first, *second)

	after := store.record(userID, def.ID)
	assert.Equal(t, before.Completed, after.Completed)
	assert.Equal(t, before.CompletedAt, after.CompletedAt)
	assert.Equal(t, before.Progress, after.Progress)
}

func TestRecomputeCanonicalKeysCountsMalformed(t *testing.T) {
	svc, store, agg, _ := newTestService(t)
	good := seedDefinition(t, store, achievement.RequirementSpec{
		Type:  achievement.RequirementTaskCount,
		Count: intp(5),
	}, "TASK_COUNT_5")
	bad := seedDefinition(t, store, achievement.RequirementSpec{
		Type: achievement.RequirementType("retired_rule"),
	}, "RETIRED_RULE")
	userID := uuid.New()

	agg.set(achievement.RequirementTaskCount, 1)
	require.NoError(t, svc.Evaluate(context.Background(), userID, good.ID))
	require.NoError(t, store.EnsureRecord(context.Background(), userID, bad.ID, "RETIRED_RULE"))

	report, err := svc.RecomputeCanonicalKeys(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Updated)
}
