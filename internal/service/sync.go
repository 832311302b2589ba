package service

import (
	"context"
	"encoding/json"
	"fmt"

	"rift-tracker/internal/constants"
	"rift-tracker/internal/domain"
	"rift-tracker/internal/repository"
	"rift-tracker/internal/riot"

	"github.com/rs/zerolog"
)

// RecordProvider is the slice of the remote API the sync engine needs.
type RecordProvider interface {
	MatchIDs(ctx context.Context, regional, puuid string, start, count int) ([]string, error)
	MatchByID(ctx context.Context, regional, matchID string) (*riot.Match, error)
	TimelineByID(ctx context.Context, regional, matchID string) ([]domain.TimelineFrame, error)
}

type SyncService struct {
	provider RecordProvider
	matches  *repository.MatchRepository
	logger   zerolog.Logger
}

func NewSyncService(provider RecordProvider, matches *repository.MatchRepository, logger zerolog.Logger) *SyncService {
	return &SyncService{provider: provider, matches: matches, logger: logger}
}

// Reconcile brings the local cache up to the provider's current window
// of recent records for one player and returns up to 10 cached records,
// newest first.
//
// Each of the provider's recent ids is tested for local existence
// individually; the newest locally-known id alone cannot certify the
// presence of older ids that a previous partial sync skipped. On a cold
// start only the first 3 missing records are fetched, without timeline
// frames, to bound the latency of a user-visible request; the remainder
// is picked up by a later reconcile. A fetch failure for any record
// aborts the whole call.
func (s *SyncService) Reconcile(ctx context.Context, regional, puuid string) ([]domain.MatchRecord, error) {
	latest, err := s.matches.LatestMatchID(ctx, puuid)
	if err != nil {
		return nil, err
	}
	hasHistory, err := s.matches.HasMatches(ctx, puuid)
	if err != nil {
		return nil, err
	}

	ids, err := s.provider.MatchIDs(ctx, regional, puuid, 0, constants.RecentWindow)
	if err != nil {
		return nil, fmt.Errorf("list recent match ids: %w", err)
	}

	var missing []string
	for _, id := range ids {
		exists, err := s.matches.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, id)
		}
	}

	s.logger.Debug().
		Str("puuid", puuid).
		Str("local_latest", latest).
		Int("remote_ids", len(ids)).
		Int("missing", len(missing)).
		Bool("cold_start", !hasHistory).
		Msg("reconcile state")

	if len(missing) == 0 {
		return s.matches.RecentMatches(ctx, puuid, constants.RecentWindow)
	}

	fetch := missing
	withTimeline := true
	if !hasHistory {
		withTimeline = false
		if len(fetch) > constants.ColdStartFetchLimit {
			fetch = fetch[:constants.ColdStartFetchLimit]
		}
		s.logger.Info().
			Str("puuid", puuid).
			Int("fetching", len(fetch)).
			Int("deferred", len(missing)-len(fetch)).
			Msg("cold start, deferring remaining records to a later sync")
	}

	for _, id := range fetch {
		if err := s.ingest(ctx, regional, puuid, id, withTimeline); err != nil {
			return nil, err
		}
	}

	return s.matches.RecentMatches(ctx, puuid, constants.RecentWindow)
}

// ingest fetches one record (and its timeline on warm syncs) and hands
// it to the store. Fetches stay sequential to respect provider rate
// limits.
func (s *SyncService) ingest(ctx context.Context, regional, puuid, matchID string, withTimeline bool) error {
	m, err := s.provider.MatchByID(ctx, regional, matchID)
	if err != nil {
		return fmt.Errorf("fetch match %s: %w", matchID, err)
	}

	var frames []domain.TimelineFrame
	if withTimeline {
		frames, err = s.provider.TimelineByID(ctx, regional, matchID)
		if err != nil {
			return fmt.Errorf("fetch timeline %s: %w", matchID, err)
		}
	}

	teams, err := json.Marshal(map[string]int{"queueId": m.Info.QueueID})
	if err != nil {
		return fmt.Errorf("encode teams for %s: %w", matchID, err)
	}

	rec := &domain.MatchRecord{
		MatchID:      matchID,
		EntryPUUID:   puuid,
		GameCreation: m.Info.GameCreation,
		GameDuration: m.Info.GameDuration,
		QueueID:      m.Info.QueueID,
		GameVersion:  m.Info.GameVersion,
		Participants: m.Info.Participants,
		Teams:        teams,
	}

	mid, err := s.matches.IngestMatch(ctx, rec, frames)
	if err != nil {
		return err
	}

	s.logger.Debug().
		Str("match_id", matchID).
		Int64("mid", mid).
		Int("frames", len(frames)).
		Msg("match ingested")
	return nil
}
