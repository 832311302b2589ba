package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"rift-tracker/internal/database"
	"rift-tracker/internal/domain"

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

func testRecord(matchID, puuid string, gameCreation int64) *domain.MatchRecord {
	return &domain.MatchRecord{
		MatchID:      matchID,
		EntryPUUID:   puuid,
		GameCreation: gameCreation,
		GameDuration: 1800,
		QueueID:      420,
		GameVersion:  "15.1.648",
		Participants: []domain.Participant{
			{PUUID: puuid, ChampionName: "Ahri", Kills: 7, Deaths: 2, Assists: 9, Win: true},
			{PUUID: "other", ChampionName: "Zed", Kills: 2, Deaths: 7, Assists: 1, Win: false},
		},
		Teams: json.RawMessage(`{"queueId": 420}`),
	}
}

func testFrames(n int) []domain.TimelineFrame {
	frames := make([]domain.TimelineFrame, n)
	for i := range frames {
		frames[i] = domain.TimelineFrame{
			Index:             i,
			Timestamp:         int64(i) * 60000,
			ParticipantFrames: json.RawMessage(`{"1":{"totalGold":500}}`),
			Events:            json.RawMessage(`[]`),
		}
	}
	return frames
}

func TestIngestMatchIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()

	rec := testRecord("EUW1_100", "player-1", 1000)

	mid1, err := repo.IngestMatch(ctx, rec, nil)
	require.NoError(t, err)
	require.NotZero(t, mid1)

	mid2, err := repo.IngestMatch(ctx, rec, nil)
	require.NoError(t, err)
	assert.Equal(t, mid1, mid2, "re-ingest must reuse the existing surrogate id")

	var count int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM match_details WHERE match_id = ?`, rec.MatchID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestIngestMatchResumesFrames(t *testing.T) {
	db := testDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()

	rec := testRecord("EUW1_101", "player-1", 1000)

	mid1, err := repo.IngestMatch(ctx, rec, testFrames(2))
	require.NoError(t, err)

	// Re-running with a longer frame set must keep the first two rows
	// and add only the third.
	mid2, err := repo.IngestMatch(ctx, rec, testFrames(3))
	require.NoError(t, err)
	assert.Equal(t, mid1, mid2)

	var count int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM match_timeline WHERE mid = ?`, mid1).Scan(&count))
	assert.Equal(t, 3, count)
}

func TestRecentOutcomesFilters(t *testing.T) {
	db := testDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()

	ranked := testRecord("EUW1_200", "player-1", 3000)
	_, err := repo.IngestMatch(ctx, ranked, nil)
	require.NoError(t, err)

	normal := testRecord("EUW1_201", "player-1", 2000)
	normal.QueueID = 400
	_, err = repo.IngestMatch(ctx, normal, nil)
	require.NoError(t, err)

	remake := testRecord("EUW1_202", "player-1", 1000)
	remake.GameDuration = 180
	_, err = repo.IngestMatch(ctx, remake, nil)
	require.NoError(t, err)

	outcomes, err := repo.RecentOutcomes(ctx, "player-1", 420, 300, 0)
	require.NoError(t, err)
	require.Len(t, outcomes, 1, "normal-queue and short games must be excluded")
	assert.Equal(t, "EUW1_200", outcomes[0].MatchID)
	assert.True(t, outcomes[0].Win)
	assert.Equal(t, "Ahri", outcomes[0].Champion)
}

func TestRecentOutcomesNewestFirst(t *testing.T) {
	db := testDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()

	for i, id := range []string{"EUW1_300", "EUW1_301", "EUW1_302"} {
		_, err := repo.IngestMatch(ctx, testRecord(id, "player-1", int64(1000+i)), nil)
		require.NoError(t, err)
	}

	outcomes, err := repo.RecentOutcomes(ctx, "player-1", 420, 300, 2)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "EUW1_302", outcomes[0].MatchID)
	assert.Equal(t, "EUW1_301", outcomes[1].MatchID)
}

func TestLatestMatchID(t *testing.T) {
	db := testDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()

	latest, err := repo.LatestMatchID(ctx, "player-1")
	require.NoError(t, err)
	assert.Empty(t, latest)

	_, err = repo.IngestMatch(ctx, testRecord("EUW1_400", "player-1", 1000), nil)
	require.NoError(t, err)
	_, err = repo.IngestMatch(ctx, testRecord("EUW1_401", "player-1", 2000), nil)
	require.NoError(t, err)

	latest, err = repo.LatestMatchID(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, "EUW1_401", latest)
}
