package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"rift-tracker/internal/database"
	"rift-tracker/internal/domain"
	"rift-tracker/internal/repository"
	"rift-tracker/internal/riot"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeProvider serves a fixed recent window and counts how many record
// bodies and timelines are actually pulled.
type fakeProvider struct {
	ids           []string
	matches       map[string]*riot.Match
	matchCalls    int
	timelineCalls int
}

func newFakeProvider(puuid string, n int) *fakeProvider {
	f := &fakeProvider{matches: make(map[string]*riot.Match)}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("EUW1_%d", n-i) // newest first
		f.ids = append(f.ids, id)
		f.matches[id] = &riot.Match{Info: riot.MatchInfo{
			GameCreation: int64((n - i) * 1000),
			GameDuration: 1800,
			QueueID:      420,
			GameVersion:  "15.1.648",
			Participants: []domain.Participant{
				{PUUID: puuid, ChampionName: "Ahri", Kills: 5, Deaths: 3, Assists: 8, Win: i%2 == 0},
			},
		}}
	}
	return f
}

func (f *fakeProvider) MatchIDs(_ context.Context, _, _ string, _, count int) ([]string, error) {
	if count < len(f.ids) {
		return f.ids[:count], nil
	}
	return f.ids, nil
}

func (f *fakeProvider) MatchByID(_ context.Context, _, matchID string) (*riot.Match, error) {
	f.matchCalls++
	m, ok := f.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("unknown match %s", matchID)
	}
	return m, nil
}

func (f *fakeProvider) TimelineByID(_ context.Context, _, _ string) ([]domain.TimelineFrame, error) {
	f.timelineCalls++
	return []domain.TimelineFrame{
		{Index: 0, Timestamp: 0, ParticipantFrames: json.RawMessage(`{}`), Events: json.RawMessage(`[]`)},
	}, nil
}

func seedMatch(t *testing.T, repo *repository.MatchRepository, provider *fakeProvider, puuid, matchID string) {
	t.Helper()
	m := provider.matches[matchID]
	_, err := repo.IngestMatch(context.Background(), &domain.MatchRecord{
		MatchID:      matchID,
		EntryPUUID:   puuid,
		GameCreation: m.Info.GameCreation,
		GameDuration: m.Info.GameDuration,
		QueueID:      m.Info.QueueID,
		GameVersion:  m.Info.GameVersion,
		Participants: m.Info.Participants,
	}, nil)
	require.NoError(t, err)
}

func TestReconcileColdStart(t *testing.T) {
	db := testDB(t)
	repo := repository.NewMatchRepository(db, zerolog.Nop())
	provider := newFakeProvider("player-1", 10)
	svc := NewSyncService(provider, repo, zerolog.Nop())

	records, err := svc.Reconcile(context.Background(), "europe", "player-1")
	require.NoError(t, err)

	assert.Equal(t, 3, provider.matchCalls, "cold start fetches only the first three records")
	assert.Zero(t, provider.timelineCalls, "cold start skips timelines")
	require.Len(t, records, 3)
	assert.Equal(t, "EUW1_10", records[0].MatchID)

	var frameRows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM match_timeline`).Scan(&frameRows))
	assert.Zero(t, frameRows)
}

func TestReconcileColdStartResumesLater(t *testing.T) {
	db := testDB(t)
	repo := repository.NewMatchRepository(db, zerolog.Nop())
	provider := newFakeProvider("player-1", 10)
	svc := NewSyncService(provider, repo, zerolog.Nop())

	_, err := svc.Reconcile(context.Background(), "europe", "player-1")
	require.NoError(t, err)
	require.Equal(t, 3, provider.matchCalls)

	// The second pass sees history and backfills the deferred seven,
	// timelines included.
	records, err := svc.Reconcile(context.Background(), "europe", "player-1")
	require.NoError(t, err)

	assert.Equal(t, 10, provider.matchCalls)
	assert.Equal(t, 7, provider.timelineCalls)
	assert.Len(t, records, 10)
}

func TestReconcileNothingMissing(t *testing.T) {
	db := testDB(t)
	repo := repository.NewMatchRepository(db, zerolog.Nop())
	provider := newFakeProvider("player-1", 10)
	svc := NewSyncService(provider, repo, zerolog.Nop())

	for _, id := range provider.ids {
		seedMatch(t, repo, provider, "player-1", id)
	}

	records, err := svc.Reconcile(context.Background(), "europe", "player-1")
	require.NoError(t, err)

	assert.Zero(t, provider.matchCalls, "a fully-cached window must fetch no record bodies")
	assert.Zero(t, provider.timelineCalls)
	assert.Len(t, records, 10)
}

func TestReconcileFetchesGapsNotJustNewest(t *testing.T) {
	db := testDB(t)
	repo := repository.NewMatchRepository(db, zerolog.Nop())
	provider := newFakeProvider("player-1", 10)
	svc := NewSyncService(provider, repo, zerolog.Nop())

	// Seed everything except an older record in the middle of the
	// window: the newest id being cached must not hide the gap.
	for _, id := range provider.ids {
		if id == "EUW1_5" {
			continue
		}
		seedMatch(t, repo, provider, "player-1", id)
	}

	records, err := svc.Reconcile(context.Background(), "europe", "player-1")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.matchCalls)
	assert.Equal(t, 1, provider.timelineCalls)
	assert.Len(t, records, 10)

	exists, err := repo.Exists(context.Background(), "EUW1_5")
	require.NoError(t, err)
	assert.True(t, exists)
}
