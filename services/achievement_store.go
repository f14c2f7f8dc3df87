package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finQuestAPI/internal/achievement"
)

// PostgresAchievementStore is the pgx-backed AchievementStore. Uniqueness on
// (user_id, achievement_id) and the completed flag are enforced in SQL so
// concurrent ticks race on the database row, not on in-process state.
type PostgresAchievementStore struct {
	db *pgxpool.Pool
}

func NewPostgresAchievementStore(db *pgxpool.Pool) *PostgresAchievementStore {
	return &PostgresAchievementStore{db: db}
}

func (s *PostgresAchievementStore) InsertDefinition(ctx context.Context, def *achievement.Achievement) error {
	query := `
		INSERT INTO achievements (
			id, title, description, icon, image_url,
			requirement_type, req_count, req_days, req_threshold,
			req_percentage, req_months, req_minutes, canonical_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (canonical_key) DO NOTHING
	`

	r := def.Requirement
	_, err := s.db.Exec(ctx, query,
		def.ID, def.Title, def.Description, def.Icon, def.ImageURL,
		r.Type, r.Count, r.Days, r.Threshold, r.Percentage, r.Months, r.Minutes,
		def.CanonicalKey,
	)
	if err != nil {
		return fmt.Errorf("failed to insert achievement definition: %w", err)
	}

	return nil
}

func (s *PostgresAchievementStore) GetDefinition(ctx context.Context, achievementID uuid.UUID) (*achievement.Achievement, error) {
	query := `
		SELECT id, title, description, icon, image_url,
			requirement_type, req_count, req_days, req_threshold,
			req_percentage, req_months, req_minutes, canonical_key, created_at
		FROM achievements
		WHERE id = $1
	`

	def := &achievement.Achievement{}
	r := &def.Requirement
	err := s.db.QueryRow(ctx, query, achievementID).Scan(
		&def.ID, &def.Title, &def.Description, &def.Icon, &def.ImageURL,
		&r.Type, &r.Count, &r.Days, &r.Threshold, &r.Percentage, &r.Months, &r.Minutes,
		&def.CanonicalKey, &def.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", achievement.ErrUnknownDefinition, achievementID)
		}
		return nil, fmt.Errorf("failed to fetch achievement definition: %w", err)
	}

	return def, nil
}

func (s *PostgresAchievementStore) DefinitionsForTypes(ctx context.Context, types []achievement.RequirementType) ([]*achievement.Achievement, error) {
	typeStrings := make([]string, len(types))
	for i, t := range types {
		typeStrings[i] = string(t)
	}

	query := `
		SELECT id, title, description, icon, image_url,
			requirement_type, req_count, req_days, req_threshold,
			req_percentage, req_months, req_minutes, canonical_key, created_at
		FROM achievements
		WHERE requirement_type = ANY($1)
	`

	rows, err := s.db.Query(ctx, query, typeStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievement definitions: %w", err)
	}
	defer rows.Close()

	var defs []*achievement.Achievement
	for rows.Next() {
		def := &achievement.Achievement{}
		r := &def.Requirement
		err := rows.Scan(
			&def.ID, &def.Title, &def.Description, &def.Icon, &def.ImageURL,
			&r.Type, &r.Count, &r.Days, &r.Threshold, &r.Percentage, &r.Months, &r.Minutes,
			&def.CanonicalKey, &def.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement definition: %w", err)
		}
		defs = append(defs, def)
	}

	return defs, nil
}

func (s *PostgresAchievementStore) EnsureRecord(ctx context.Context, userID, achievementID uuid.UUID, canonicalKey string) error {
	query := `
		INSERT INTO user_achievements (id, user_id, achievement_id, canonical_key, progress, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, false, NOW(), NOW())
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`

	_, err := s.db.Exec(ctx, query, uuid.New(), userID, achievementID, canonicalKey)
	if err != nil {
		return fmt.Errorf("failed to create achievement record: %w", err)
	}

	return nil
}

func (s *PostgresAchievementStore) GetRecord(ctx context.Context, userID, achievementID uuid.UUID) (*achievement.UserAchievement, error) {
	query := `
		SELECT id, user_id, achievement_id, COALESCE(canonical_key, ''), progress, completed, completed_at, created_at, updated_at
		FROM user_achievements
		WHERE user_id = $1 AND achievement_id = $2
	`

	rec := &achievement.UserAchievement{}
	err := s.db.QueryRow(ctx, query, userID, achievementID).Scan(
		&rec.ID, &rec.UserID, &rec.AchievementID, &rec.CanonicalKey,
		&rec.Progress, &rec.Completed, &rec.CompletedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievement record: %w", err)
	}

	return rec, nil
}

func (s *PostgresAchievementStore) ApplyProgress(ctx context.Context, userID, achievementID uuid.UUID, metric int, monotonic bool) (int, error) {
	// GREATEST keeps the write monotonic under concurrency: a stale tick can
	// never pull recorded progress back down. Streak requirements skip the
	// clamp because a broken streak legitimately resets.
	query := `
		UPDATE user_achievements
		SET progress = GREATEST(progress, $3), updated_at = NOW()
		WHERE user_id = $1 AND achievement_id = $2 AND completed = false
		RETURNING progress
	`
	if !monotonic {
		query = `
			UPDATE user_achievements
			SET progress = $3, updated_at = NOW()
			WHERE user_id = $1 AND achievement_id = $2 AND completed = false
			RETURNING progress
		`
	}

	var progress int
	err := s.db.QueryRow(ctx, query, userID, achievementID, metric).Scan(&progress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Completed out from under us; report the stored value untouched.
			rec, getErr := s.GetRecord(ctx, userID, achievementID)
			if getErr != nil {
				return 0, getErr
			}
			return rec.Progress, nil
		}
		return 0, fmt.Errorf("failed to update achievement progress: %w", err)
	}

	return progress, nil
}

func (s *PostgresAchievementStore) TryComplete(ctx context.Context, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	// Compare-and-set on the completed flag: out of any number of concurrent
	// ticks exactly one sees a row here.
	query := `
		UPDATE user_achievements
		SET completed = true, completed_at = $3, updated_at = NOW()
		WHERE user_id = $1 AND achievement_id = $2 AND completed = false
	`

	tag, err := s.db.Exec(ctx, query, userID, achievementID, at)
	if err != nil {
		return false, fmt.Errorf("failed to complete achievement: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *PostgresAchievementStore) ListWithStatus(ctx context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error) {
	query := `
		SELECT
			a.id, a.title, a.description, a.icon, a.image_url,
			a.requirement_type, a.req_count, a.req_days, a.req_threshold,
			a.req_percentage, a.req_months, a.req_minutes, a.canonical_key, a.created_at,
			COALESCE(ua.progress, 0) as progress,
			COALESCE(ua.completed, false) as completed,
			ua.completed_at
		FROM achievements a
		LEFT JOIN user_achievements ua ON a.id = ua.achievement_id AND ua.user_id = $1
		ORDER BY completed DESC, a.created_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*achievement.AchievementWithStatus
	for rows.Next() {
		ach := &achievement.AchievementWithStatus{}
		r := &ach.Requirement
		err := rows.Scan(
			&ach.ID, &ach.Title, &ach.Description, &ach.Icon, &ach.ImageURL,
			&r.Type, &r.Count, &r.Days, &r.Threshold, &r.Percentage, &r.Months, &r.Minutes,
			&ach.CanonicalKey, &ach.CreatedAt,
			&ach.Progress, &ach.Completed, &ach.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, ach)
	}

	return achievements, nil
}

func (s *PostgresAchievementStore) ListRecordSnapshots(ctx context.Context, missingKeyOnly bool) ([]*achievement.RecordSnapshot, error) {
	query := `
		SELECT ua.id, COALESCE(ua.canonical_key, ''),
			a.requirement_type, a.req_count, a.req_days, a.req_threshold,
			a.req_percentage, a.req_months, a.req_minutes
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
	`
	if missingKeyOnly {
		query += ` WHERE ua.canonical_key IS NULL OR ua.canonical_key = ''`
	}

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement records: %w", err)
	}
	defer rows.Close()

	var snapshots []*achievement.RecordSnapshot
	for rows.Next() {
		snap := &achievement.RecordSnapshot{}
		r := &snap.Requirement
		err := rows.Scan(
			&snap.RecordID, &snap.CanonicalKey,
			&r.Type, &r.Count, &r.Days, &r.Threshold, &r.Percentage, &r.Months, &r.Minutes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement record: %w", err)
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}

func (s *PostgresAchievementStore) SetCanonicalKey(ctx context.Context, recordID uuid.UUID, key string) error {
	// Touches the key column only. Progress and completion state are owned
	// by the progress engine, not the backfill.
	query := `
		UPDATE user_achievements
		SET canonical_key = $2, updated_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.Exec(ctx, query, recordID, key)
	if err != nil {
		return fmt.Errorf("failed to set canonical key: %w", err)
	}

	return nil
}
