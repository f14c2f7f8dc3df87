package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"finQuestAPI/internal/achievement"
	"finQuestAPI/internal/activity"
	"finQuestAPI/internal/notification"
	"finQuestAPI/middleware"
)

// AchievementStore is the persistence collaborator for achievement state.
// Progress/completion writes go through compare-and-swap shaped primitives so
// concurrent evaluation ticks can never regress progress or complete twice.
type AchievementStore interface {
	InsertDefinition(ctx context.Context, def *achievement.Achievement) error
	GetDefinition(ctx context.Context, achievementID uuid.UUID) (*achievement.Achievement, error)
	DefinitionsForTypes(ctx context.Context, types []achievement.RequirementType) ([]*achievement.Achievement, error)

	EnsureRecord(ctx context.Context, userID, achievementID uuid.UUID, canonicalKey string) error
	GetRecord(ctx context.Context, userID, achievementID uuid.UUID) (*achievement.UserAchievement, error)

	// ApplyProgress writes the metric into an uncompleted record and returns
	// the stored progress afterwards. Monotonic writes keep the best-seen
	// value (GREATEST, not overwrite); streak writes store the metric as-is.
	// Completed records are left untouched.
	ApplyProgress(ctx context.Context, userID, achievementID uuid.UUID, metric int, monotonic bool) (int, error)

	// TryComplete flips completed false->true exactly once. Returns false
	// when another evaluation already won the transition.
	TryComplete(ctx context.Context, userID, achievementID uuid.UUID, at time.Time) (bool, error)

	ListWithStatus(ctx context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error)
	ListRecordSnapshots(ctx context.Context, missingKeyOnly bool) ([]*achievement.RecordSnapshot, error)
	SetCanonicalKey(ctx context.Context, recordID uuid.UUID, key string) error
}

// ActivityAggregator answers "what is the current metric for this user and
// requirement type". Read-only; it never mutates anything.
type ActivityAggregator interface {
	Metric(ctx context.Context, userID uuid.UUID, t achievement.RequirementType) (int, error)
}

type CompletionNotifier interface {
	CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

type AchievementService struct {
	store    AchievementStore
	activity ActivityAggregator
	notifier CompletionNotifier
	registry *achievement.Registry
}

func NewAchievementService(store AchievementStore, aggregator ActivityAggregator, notifier CompletionNotifier) *AchievementService {
	return &AchievementService{
		store:    store,
		activity: aggregator,
		notifier: notifier,
		registry: achievement.DefaultRegistry(),
	}
}

// SeedCatalog publishes the default catalog. Key derivation failure here is
// fatal: a catalog with underivable keys must not ship.
func (s *AchievementService) SeedCatalog(ctx context.Context) error {
	for _, def := range achievement.DefaultCatalog() {
		key, err := s.registry.DeriveKey(def.Requirement)
		if err != nil {
			return fmt.Errorf("catalog definition %q: %w", def.Title, err)
		}

		def.ID = uuid.New()
		def.CanonicalKey = key

		if err := s.store.InsertDefinition(ctx, &def); err != nil {
			return fmt.Errorf("failed to seed achievement %q: %w", def.Title, err)
		}
	}

	return nil
}

func (s *AchievementService) GetAchievements(ctx context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error) {
	return s.store.ListWithStatus(ctx, userID)
}

// HandleActivityEvent runs one evaluation tick per definition the event can
// move. Per-record failures are logged and skipped; achievement bookkeeping
// is best-effort relative to the activity write that triggered it.
func (s *AchievementService) HandleActivityEvent(ctx context.Context, userID uuid.UUID, event activity.Event) {
	types := event.Touches()
	if len(types) == 0 {
		return
	}

	defs, err := s.store.DefinitionsForTypes(ctx, types)
	if err != nil {
		log.Printf("Achievement evaluation: failed to load definitions for %s: %v", event, err)
		return
	}

	for _, def := range defs {
		if err := s.evaluate(ctx, userID, def); err != nil {
			if errors.Is(err, achievement.ErrCompletionConflict) {
				continue
			}
			log.Printf("Achievement evaluation: %s for user %s: %v", def.CanonicalKey, userID, err)
		}
	}
}

// Evaluate runs a single tick for one definition by ID. A missing definition
// is reported as ErrUnknownDefinition and skipped by callers, never fatal.
func (s *AchievementService) Evaluate(ctx context.Context, userID, achievementID uuid.UUID) error {
	def, err := s.store.GetDefinition(ctx, achievementID)
	if err != nil {
		return err
	}
	return s.evaluate(ctx, userID, def)
}

func (s *AchievementService) evaluate(ctx context.Context, userID uuid.UUID, def *achievement.Achievement) error {
	if def == nil {
		return fmt.Errorf("%w: nil definition", achievement.ErrUnknownDefinition)
	}

	policy, err := s.registry.Policy(def.Requirement.Type)
	if err != nil {
		return fmt.Errorf("%w: definition %s: %v", achievement.ErrUnknownDefinition, def.ID, err)
	}

	// Records are materialized lazily on the first qualifying event, so the
	// catalog can grow without rewriting every user's rows.
	if err := s.store.EnsureRecord(ctx, userID, def.ID, def.CanonicalKey); err != nil {
		return fmt.Errorf("failed to ensure achievement record: %w", err)
	}

	record, err := s.store.GetRecord(ctx, userID, def.ID)
	if err != nil {
		return fmt.Errorf("failed to load achievement record: %w", err)
	}
	if record.Completed {
		// Terminal state. Re-evaluating must not touch progress,
		// completed_at, or fire another notification.
		return nil
	}

	metric, err := s.activity.Metric(ctx, userID, def.Requirement.Type)
	if err != nil {
		return fmt.Errorf("failed to aggregate %s: %w", def.Requirement.Type, err)
	}

	progress, err := s.store.ApplyProgress(ctx, userID, def.ID, metric, policy == achievement.PolicyAccumulate)
	if err != nil {
		return fmt.Errorf("failed to apply progress: %w", err)
	}

	if progress < def.Requirement.Target() {
		return nil
	}

	won, err := s.store.TryComplete(ctx, userID, def.ID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to complete achievement: %w", err)
	}
	if !won {
		return achievement.ErrCompletionConflict
	}

	middleware.CountAchievementCompletion()
	s.notifyCompletion(ctx, userID, def)
	return nil
}

func (s *AchievementService) notifyCompletion(ctx context.Context, userID uuid.UUID, def *achievement.Achievement) {
	if s.notifier == nil {
		return
	}

	req := &notification.CreateNotificationRequest{
		UserID:  userID,
		Type:    notification.NotificationAchievement,
		Title:   "Achievement unlocked!",
		Message: def.Title,
		Data: map[string]any{
			"achievement_id": def.ID.String(),
			"canonical_key":  def.CanonicalKey,
			"icon":           def.Icon,
		},
	}

	if _, err := s.notifier.CreateNotification(ctx, req); err != nil {
		log.Printf("Failed to create completion notification for %s: %v", def.CanonicalKey, err)
	}
}

// RecomputeCanonicalKeys re-derives the canonical key for persisted records
// from their stored requirements snapshot. With force=false only records
// missing a key are touched. Malformed records are logged and counted, never
// abort the batch. Progress, completed, and completed_at are left alone, so
// the batch is idempotent and safe to interrupt and resume.
func (s *AchievementService) RecomputeCanonicalKeys(ctx context.Context, force bool) (*achievement.BackfillReport, error) {
	snapshots, err := s.store.ListRecordSnapshots(ctx, !force)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement records: %w", err)
	}

	report := &achievement.BackfillReport{}
	for _, snap := range snapshots {
		key, err := s.registry.DeriveKey(snap.Requirement)
		if err != nil {
			log.Printf("Backfill: skipping record %s: %v", snap.RecordID, err)
			report.Failed++
			continue
		}

		if snap.CanonicalKey == key {
			report.Skipped++
			continue
		}

		if err := s.store.SetCanonicalKey(ctx, snap.RecordID, key); err != nil {
			log.Printf("Backfill: failed to persist key for record %s: %v", snap.RecordID, err)
			report.Failed++
			continue
		}
		report.Updated++
	}

	log.Printf("Backfill: %d updated, %d skipped, %d failed", report.Updated, report.Skipped, report.Failed)
	return report, nil
}
