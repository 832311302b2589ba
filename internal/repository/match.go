package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"rift-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(db *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: db, logger: logger}
}

func (r *MatchRepository) Exists(ctx context.Context, matchID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM match_details WHERE match_id = ?)`, matchID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: exists %s: %v", domain.ErrStoreFailure, matchID, err)
	}
	return exists, nil
}

// LatestMatchID returns the newest locally-known match id for the
// player, or "" when none is cached.
func (r *MatchRepository) LatestMatchID(ctx context.Context, puuid string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT match_id FROM match_details
		WHERE entry_puuid = ?
		ORDER BY game_creation DESC
		LIMIT 1`, puuid).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: latest match for %s: %v", domain.ErrStoreFailure, puuid, err)
	}
	return id, nil
}

func (r *MatchRepository) HasMatches(ctx context.Context, puuid string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM match_details WHERE entry_puuid = ?)`, puuid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: has matches for %s: %v", domain.ErrStoreFailure, puuid, err)
	}
	return exists, nil
}

func (r *MatchRepository) RecentMatches(ctx context.Context, puuid string, limit int) ([]domain.MatchRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT mid, match_id, entry_puuid, game_creation, game_duration,
		       queue_id, game_version, participants, teams, created_at
		FROM match_details
		WHERE entry_puuid = ?
		ORDER BY game_creation DESC
		LIMIT ?`, puuid, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: recent matches for %s: %v", domain.ErrStoreFailure, puuid, err)
	}
	defer rows.Close()

	var records []domain.MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *MatchRepository) GetByMatchID(ctx context.Context, matchID string) (*domain.MatchRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT mid, match_id, entry_puuid, game_creation, game_duration,
		       queue_id, game_version, participants, teams, created_at
		FROM match_details
		WHERE match_id = ?`, matchID)
	rec, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// RecentOutcomes projects the player's qualifying records (queue and
// minimum duration filters) onto win/loss and scoreline data, newest
// first. limit <= 0 means no limit.
func (r *MatchRepository) RecentOutcomes(ctx context.Context, puuid string, queueID int, minDuration int64, limit int) ([]domain.MatchOutcome, error) {
	q := `
		SELECT match_id, game_creation, participants
		FROM match_details
		WHERE entry_puuid = ? AND queue_id = ? AND game_duration >= ?
		ORDER BY game_creation DESC`
	args := []any{puuid, queueID, minDuration}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: recent outcomes for %s: %v", domain.ErrStoreFailure, puuid, err)
	}
	defer rows.Close()

	var outcomes []domain.MatchOutcome
	for rows.Next() {
		var (
			matchID      string
			gameCreation int64
			blob         []byte
		)
		if err := rows.Scan(&matchID, &gameCreation, &blob); err != nil {
			return nil, fmt.Errorf("%w: recent outcomes for %s: %v", domain.ErrStoreFailure, puuid, err)
		}
		var participants []domain.Participant
		if err := json.Unmarshal(blob, &participants); err != nil {
			return nil, fmt.Errorf("%w: decode participants of %s: %v", domain.ErrStoreFailure, matchID, err)
		}
		for _, p := range participants {
			if p.PUUID != puuid {
				continue
			}
			outcomes = append(outcomes, domain.MatchOutcome{
				MatchID:      matchID,
				GameCreation: gameCreation,
				Win:          p.Win,
				Kills:        p.Kills,
				Deaths:       p.Deaths,
				Assists:      p.Assists,
				Champion:     p.ChampionName,
			})
			break
		}
	}
	return outcomes, rows.Err()
}

// IngestMatch persists one record and its optional timeline frames in a
// single transaction. The record insert is duplicate-suppressed on
// match_id; on conflict the existing surrogate id is re-read. Frames are
// individually skipped when their (mid, frame_index) pair already
// exists, so a partially-ingested record can be resumed by re-running
// the same call.
func (r *MatchRepository) IngestMatch(ctx context.Context, rec *domain.MatchRecord, frames []domain.TimelineFrame) (int64, error) {
	participants, err := json.Marshal(rec.Participants)
	if err != nil {
		return 0, fmt.Errorf("%w: encode participants of %s: %v", domain.ErrStoreFailure, rec.MatchID, err)
	}
	teams := rec.Teams
	if len(teams) == 0 {
		teams = json.RawMessage(`{}`)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin ingest of %s: %v", domain.ErrStoreFailure, rec.MatchID, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO match_details
			(match_id, entry_puuid, game_creation, game_duration, queue_id, game_version, participants, teams)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id) DO NOTHING`,
		rec.MatchID, rec.EntryPUUID, rec.GameCreation, rec.GameDuration,
		rec.QueueID, rec.GameVersion, string(participants), string(teams))
	if err != nil {
		return 0, fmt.Errorf("%w: insert match %s: %v", domain.ErrStoreFailure, rec.MatchID, err)
	}

	var mid int64
	if affected, _ := res.RowsAffected(); affected > 0 {
		mid, err = res.LastInsertId()
	} else {
		// A concurrent sync already inserted this record; treat as
		// success and reuse its surrogate id.
		err = tx.QueryRowContext(ctx,
			`SELECT mid FROM match_details WHERE match_id = ?`, rec.MatchID).Scan(&mid)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: surrogate id for %s: %v", domain.ErrStoreFailure, rec.MatchID, err)
	}
	if mid == 0 {
		return 0, fmt.Errorf("%w: no surrogate id returned for match %s", domain.ErrStoreFailure, rec.MatchID)
	}

	for _, f := range frames {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM match_timeline WHERE mid = ? AND frame_index = ?)`,
			mid, f.Index).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("%w: frame check %s/%d: %v", domain.ErrStoreFailure, rec.MatchID, f.Index, err)
		}
		if exists {
			r.logger.Debug().Str("match_id", rec.MatchID).Int("frame", f.Index).Msg("timeline frame exists, skipping")
			continue
		}

		participantFrames := f.ParticipantFrames
		if len(participantFrames) == 0 {
			participantFrames = json.RawMessage(`{}`)
		}
		events := f.Events
		if len(events) == 0 {
			events = json.RawMessage(`[]`)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO match_timeline
				(mid, entry_puuid, frame_index, timestamp_ms, participant_frames, events)
			VALUES (?, ?, ?, ?, ?, ?)`,
			mid, rec.EntryPUUID, f.Index, f.Timestamp, string(participantFrames), string(events))
		if err != nil {
			return 0, fmt.Errorf("%w: insert frame %s/%d: %v", domain.ErrStoreFailure, rec.MatchID, f.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit ingest of %s: %v", domain.ErrStoreFailure, rec.MatchID, err)
	}
	return mid, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*domain.MatchRecord, error) {
	var (
		rec          domain.MatchRecord
		participants []byte
		teams        []byte
	)
	err := row.Scan(&rec.MID, &rec.MatchID, &rec.EntryPUUID, &rec.GameCreation,
		&rec.GameDuration, &rec.QueueID, &rec.GameVersion, &participants, &teams, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scan match: %v", domain.ErrStoreFailure, err)
	}
	if err := json.Unmarshal(participants, &rec.Participants); err != nil {
		return nil, fmt.Errorf("%w: decode participants of %s: %v", domain.ErrStoreFailure, rec.MatchID, err)
	}
	rec.Teams = json.RawMessage(teams)
	return &rec, nil
}
