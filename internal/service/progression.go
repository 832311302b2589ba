package service

import (
	"context"

	"rift-tracker/internal/constants"
	"rift-tracker/internal/domain"
	"rift-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type ProgressionService struct {
	matches *repository.MatchRepository
	steps   *repository.ProgressionRepository
	logger  zerolog.Logger
}

func NewProgressionService(matches *repository.MatchRepository, steps *repository.ProgressionRepository, logger zerolog.Logger) *ProgressionService {
	return &ProgressionService{matches: matches, steps: steps, logger: logger}
}

// Reconstruct infers a step-by-step LP timeline from the current rank
// and the last qualifying outcomes. The provider exposes no per-game LP
// deltas, so a fixed ±15 per game is assumed and tier/division are held
// constant across the window; this is a known approximation and steps
// are marked exact=false. Steps are persisted with duplicate
// suppression, but the returned slice is always computed fresh.
func (p *ProgressionService) Reconstruct(ctx context.Context, puuid string, rank *domain.SoloRank) ([]domain.RankStep, error) {
	if rank == nil {
		p.logger.Debug().Str("puuid", puuid).Msg("rank unknown, skipping progression")
		return nil, nil
	}
	if _, ok := domain.ParseTier(rank.Tier); !ok {
		p.logger.Debug().Str("puuid", puuid).Str("tier", rank.Tier).Msg("tier not on the ladder, skipping progression")
		return nil, nil
	}

	outcomes, err := p.matches.RecentOutcomes(ctx, puuid,
		constants.RankedQueueID, constants.MinQualifyingDurationSec, constants.RecentWindow)
	if err != nil {
		return nil, err
	}

	steps := reconstructSteps(outcomes, rank)
	if err := p.steps.InsertSteps(ctx, puuid, steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// reconstructSteps walks the outcomes newest to oldest, treating the
// current LP as the score after the newest game and subtracting each
// assumed delta to find the score before it. Labels run 1..N oldest
// first.
func reconstructSteps(outcomes []domain.MatchOutcome, rank *domain.SoloRank) []domain.RankStep {
	steps := make([]domain.RankStep, len(outcomes))
	lp := rank.LP
	for i, o := range outcomes {
		delta := constants.LPDeltaPerGame
		result := "Win"
		if !o.Win {
			delta = -constants.LPDeltaPerGame
			result = "Loss"
		}
		before := lp - delta

		steps[len(outcomes)-1-i] = domain.RankStep{
			MatchID:        o.MatchID,
			GameCreation:   o.GameCreation,
			LabelIndex:     len(outcomes) - i,
			LPBefore:       before,
			LPAfter:        lp,
			LPDelta:        delta,
			Result:         result,
			TierBefore:     rank.Tier,
			DivisionBefore: rank.Division,
			TierAfter:      rank.Tier,
			DivisionAfter:  rank.Division,
			Exact:          false,
		}
		lp = before
	}
	return steps
}
