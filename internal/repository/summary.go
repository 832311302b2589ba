package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"rift-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type SummaryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSummaryRepository(db *sql.DB, logger zerolog.Logger) *SummaryRepository {
	return &SummaryRepository{db: db, logger: logger}
}

// Replace overwrites the cached summary for the player; the compiler
// fully recomputes, so last compile wins.
func (r *SummaryRepository) Replace(ctx context.Context, s *domain.PlayerSummary) error {
	topChamps, err := json.Marshal(s.TopChamps)
	if err != nil {
		return fmt.Errorf("%w: encode top champions for %s: %v", domain.ErrStoreFailure, s.PUUID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO player_summary
			(puuid, queue_id, games, wins, losses, avg_kda, winrate, streak, top_champs, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (puuid) DO UPDATE SET
			queue_id    = excluded.queue_id,
			games       = excluded.games,
			wins        = excluded.wins,
			losses      = excluded.losses,
			avg_kda     = excluded.avg_kda,
			winrate     = excluded.winrate,
			streak      = excluded.streak,
			top_champs  = excluded.top_champs,
			computed_at = excluded.computed_at`,
		s.PUUID, s.QueueID, s.Games, s.Wins, s.Losses,
		s.KDA, s.Winrate, s.Streak, string(topChamps), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: replace summary for %s: %v", domain.ErrStoreFailure, s.PUUID, err)
	}
	return nil
}

func (r *SummaryRepository) Get(ctx context.Context, puuid string) (*domain.PlayerSummary, error) {
	var (
		s         domain.PlayerSummary
		topChamps []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT puuid, queue_id, games, wins, losses, avg_kda, winrate, streak, top_champs, computed_at
		FROM player_summary WHERE puuid = ?`, puuid).
		Scan(&s.PUUID, &s.QueueID, &s.Games, &s.Wins, &s.Losses,
			&s.KDA, &s.Winrate, &s.Streak, &topChamps, &s.ComputedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get summary for %s: %v", domain.ErrStoreFailure, puuid, err)
	}
	if err := json.Unmarshal(topChamps, &s.TopChamps); err != nil {
		return nil, fmt.Errorf("%w: decode top champions for %s: %v", domain.ErrStoreFailure, puuid, err)
	}
	return &s, nil
}
