package repository

import (
	"context"
	"database/sql"
	"fmt"

	"rift-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type ProgressionRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewProgressionRepository(db *sql.DB, logger zerolog.Logger) *ProgressionRepository {
	return &ProgressionRepository{db: db, logger: logger}
}

// InsertSteps persists reconstructed steps with duplicate suppression on
// (puuid, match_id); steps already seen by an earlier reconstruction
// are left untouched.
func (r *ProgressionRepository) InsertSteps(ctx context.Context, puuid string, steps []domain.RankStep) error {
	if len(steps) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin progression insert for %s: %v", domain.ErrStoreFailure, puuid, err)
	}
	defer tx.Rollback()

	for _, step := range steps {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("%w: generate step id: %v", domain.ErrStoreFailure, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO match_rank_progress
				(id, puuid, match_id, game_creation, lp_before, lp_after, lp_delta,
				 result, tier_before, division_before, tier_after, division_after, exact)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (puuid, match_id) DO NOTHING`,
			id, puuid, step.MatchID, step.GameCreation,
			step.LPBefore, step.LPAfter, step.LPDelta, step.Result,
			step.TierBefore, step.DivisionBefore, step.TierAfter, step.DivisionAfter,
			step.Exact)
		if err != nil {
			return fmt.Errorf("%w: insert step %s/%s: %v", domain.ErrStoreFailure, puuid, step.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit progression insert for %s: %v", domain.ErrStoreFailure, puuid, err)
	}
	return nil
}

// CountSteps reports how many steps are cached for the player.
func (r *ProgressionRepository) CountSteps(ctx context.Context, puuid string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM match_rank_progress WHERE puuid = ?`, puuid).Scan(&n)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("%w: count steps for %s: %v", domain.ErrStoreFailure, puuid, err)
	}
	return n, nil
}
