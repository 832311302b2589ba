package repository

import (
	"context"
	"testing"

	"rift-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSteps() []domain.RankStep {
	return []domain.RankStep{
		{MatchID: "EUW1_1", GameCreation: 1000, LabelIndex: 1, LPBefore: 85, LPAfter: 100, LPDelta: 15, Result: "Win", TierBefore: "GOLD", DivisionBefore: "II", TierAfter: "GOLD", DivisionAfter: "II"},
		{MatchID: "EUW1_2", GameCreation: 2000, LabelIndex: 2, LPBefore: 100, LPAfter: 85, LPDelta: -15, Result: "Loss", TierBefore: "GOLD", DivisionBefore: "II", TierAfter: "GOLD", DivisionAfter: "II"},
	}
}

func TestInsertStepsDuplicateSuppression(t *testing.T) {
	db := testDB(t)
	repo := NewProgressionRepository(db, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.InsertSteps(ctx, "player-1", testSteps()))
	require.NoError(t, repo.InsertSteps(ctx, "player-1", testSteps()))

	n, err := repo.CountSteps(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "re-inserting the same steps must not add rows")
}

func TestInsertStepsScopedPerPlayer(t *testing.T) {
	db := testDB(t)
	repo := NewProgressionRepository(db, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.InsertSteps(ctx, "player-1", testSteps()))
	require.NoError(t, repo.InsertSteps(ctx, "player-2", testSteps()))

	n, err := repo.CountSteps(ctx, "player-2")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "the same match ids under another player are distinct rows")
}

func TestInsertStepsEmpty(t *testing.T) {
	db := testDB(t)
	repo := NewProgressionRepository(db, zerolog.Nop())

	require.NoError(t, repo.InsertSteps(context.Background(), "player-1", nil))
}
