package service

import (
	"context"
	"testing"

	"rift-tracker/internal/domain"
	"rift-tracker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructStepsBackwardWalk(t *testing.T) {
	rank := &domain.SoloRank{Tier: "GOLD", Division: "II", LP: 100}
	// Newest first: Win, Loss, Win.
	outcomes := []domain.MatchOutcome{
		outcome("m3", true, 5, 2, 7, "Ahri", 3000),
		outcome("m2", false, 1, 5, 2, "Ahri", 2000),
		outcome("m1", true, 3, 1, 4, "Ahri", 1000),
	}

	steps := reconstructSteps(outcomes, rank)
	require.Len(t, steps, 3)

	// Oldest first with labels 1..N.
	assert.Equal(t, "m1", steps[0].MatchID)
	assert.Equal(t, 1, steps[0].LabelIndex)
	assert.Equal(t, 85, steps[0].LPBefore)
	assert.Equal(t, 100, steps[0].LPAfter)
	assert.Equal(t, 15, steps[0].LPDelta)
	assert.Equal(t, "Win", steps[0].Result)

	assert.Equal(t, "m2", steps[1].MatchID)
	assert.Equal(t, 2, steps[1].LabelIndex)
	assert.Equal(t, 100, steps[1].LPBefore)
	assert.Equal(t, 85, steps[1].LPAfter)
	assert.Equal(t, -15, steps[1].LPDelta)
	assert.Equal(t, "Loss", steps[1].Result)

	assert.Equal(t, "m3", steps[2].MatchID)
	assert.Equal(t, 3, steps[2].LabelIndex)
	assert.Equal(t, 85, steps[2].LPBefore)
	assert.Equal(t, 100, steps[2].LPAfter, "the newest step must land on the current score")
	assert.Equal(t, 15, steps[2].LPDelta)

	for _, s := range steps {
		assert.False(t, s.Exact)
		assert.Equal(t, "GOLD", s.TierBefore)
		assert.Equal(t, "GOLD", s.TierAfter)
		assert.Equal(t, "II", s.DivisionBefore)
		assert.Equal(t, "II", s.DivisionAfter)
	}

	// Adjacent steps chain: each after equals the next step's before.
	for i := 0; i < len(steps)-1; i++ {
		assert.Equal(t, steps[i].LPAfter, steps[i+1].LPBefore)
	}
}

func TestReconstructSkipsUnranked(t *testing.T) {
	db := testDB(t)
	matches := repository.NewMatchRepository(db, zerolog.Nop())
	stepsRepo := repository.NewProgressionRepository(db, zerolog.Nop())
	svc := NewProgressionService(matches, stepsRepo, zerolog.Nop())

	steps, err := svc.Reconstruct(context.Background(), "player-1", nil)
	require.NoError(t, err)
	assert.Nil(t, steps)

	steps, err = svc.Reconstruct(context.Background(), "player-1", &domain.SoloRank{Tier: "UNRANKED"})
	require.NoError(t, err)
	assert.Nil(t, steps)
}

func TestReconstructPersistsOnce(t *testing.T) {
	db := testDB(t)
	matches := repository.NewMatchRepository(db, zerolog.Nop())
	stepsRepo := repository.NewProgressionRepository(db, zerolog.Nop())
	svc := NewProgressionService(matches, stepsRepo, zerolog.Nop())
	ctx := context.Background()

	provider := newFakeProvider("player-1", 3)
	for _, id := range provider.ids {
		seedMatch(t, matches, provider, "player-1", id)
	}

	rank := &domain.SoloRank{Tier: "PLATINUM", Division: "IV", LP: 42}

	steps, err := svc.Reconstruct(ctx, "player-1", rank)
	require.NoError(t, err)
	require.Len(t, steps, 3)

	again, err := svc.Reconstruct(ctx, "player-1", rank)
	require.NoError(t, err)
	assert.Equal(t, steps, again, "reconstruction is deterministic for an unchanged cache")

	n, err := stepsRepo.CountSteps(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "a re-run must not duplicate persisted steps")
}
