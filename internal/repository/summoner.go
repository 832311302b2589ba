package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rift-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type SummonerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSummonerRepository(db *sql.DB, logger zerolog.Logger) *SummonerRepository {
	return &SummonerRepository{db: db, logger: logger}
}

// Upsert is the only write path for identity snapshots; last_updated is
// refreshed on every call.
func (r *SummonerRepository) Upsert(ctx context.Context, s *domain.Summoner) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO summoners (puuid, game_name, tag_line, region, tier, division, lp, last_updated)
		VALUES (?, ?, ?, ?, COALESCE(?, 'UNRANKED'), ?, COALESCE(?, 0), ?)
		ON CONFLICT (puuid) DO UPDATE SET
			game_name    = excluded.game_name,
			tag_line     = excluded.tag_line,
			region       = excluded.region,
			tier         = excluded.tier,
			division     = excluded.division,
			lp           = excluded.lp,
			last_updated = excluded.last_updated`,
		s.PUUID, s.GameName, s.TagLine, s.Region,
		nullIfEmpty(s.Tier), s.Division, s.LP, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: upsert summoner %s: %v", domain.ErrStoreFailure, s.PUUID, err)
	}
	return nil
}

func (r *SummonerRepository) Get(ctx context.Context, puuid string) (*domain.Summoner, error) {
	var s domain.Summoner
	err := r.db.QueryRowContext(ctx, `
		SELECT puuid, game_name, tag_line, region, tier, division, lp, last_updated
		FROM summoners WHERE puuid = ?`, puuid).
		Scan(&s.PUUID, &s.GameName, &s.TagLine, &s.Region, &s.Tier, &s.Division, &s.LP, &s.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get summoner %s: %v", domain.ErrStoreFailure, puuid, err)
	}
	return &s, nil
}

// DisplayNames returns "name#tag" for every requested puuid already
// present in the store.
func (r *SummonerRepository) DisplayNames(ctx context.Context, puuids []string) (map[string]string, error) {
	if len(puuids) == 0 {
		return map[string]string{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(puuids)), ",")
	args := make([]any, len(puuids))
	for i, p := range puuids {
		args[i] = p
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT puuid, game_name, tag_line FROM summoners WHERE puuid IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: display names: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var puuid, name, tag string
		if err := rows.Scan(&puuid, &name, &tag); err != nil {
			return nil, fmt.Errorf("%w: display names: %v", domain.ErrStoreFailure, err)
		}
		names[puuid] = name + "#" + tag
	}
	return names, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
