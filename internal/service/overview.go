package service

import (
	"context"
	"fmt"
	"strings"

	"rift-tracker/internal/constants"
	"rift-tracker/internal/domain"
	"rift-tracker/internal/repository"
	"rift-tracker/internal/riot"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AccountProvider is the identity/rank slice of the remote API.
type AccountProvider interface {
	Ping(ctx context.Context) error
	AccountByRiotID(ctx context.Context, regional, name, tag string) (*riot.Account, error)
	SummonerByPUUID(ctx context.Context, platform, puuid string) (*riot.SummonerInfo, error)
	SoloRank(ctx context.Context, platform, puuid string) (*domain.SoloRank, error)
	LatestDataVersion(ctx context.Context) (string, error)
}

type OverviewService struct {
	accounts    AccountProvider
	summoners   *repository.SummonerRepository
	sync        *SyncService
	stats       *StatsService
	progression *ProgressionService
	views       *MatchViewService
	logger      zerolog.Logger
}

func NewOverviewService(
	accounts AccountProvider,
	summoners *repository.SummonerRepository,
	sync *SyncService,
	stats *StatsService,
	progression *ProgressionService,
	views *MatchViewService,
	logger zerolog.Logger,
) *OverviewService {
	return &OverviewService{
		accounts:    accounts,
		summoners:   summoners,
		sync:        sync,
		stats:       stats,
		progression: progression,
		views:       views,
		logger:      logger,
	}
}

// GetOverview runs one full pull cycle for a player: resolve identity,
// refresh the identity snapshot, reconcile the match cache, then derive
// summaries, activity and progression. Identity resolution and the
// reconcile are fatal; the derived parts fail independently so the
// caller still gets whatever could be computed.
func (s *OverviewService) GetOverview(ctx context.Context, region, name, tag string) (*domain.PlayerOverview, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	platform, regional, err := riot.MapRegion(region)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Ping(ctx); err != nil {
		return nil, err
	}

	acct, err := s.accounts.AccountByRiotID(ctx, regional, name, tag)
	if err != nil {
		return nil, err
	}

	// Summoner and rank only depend on the resolved id, fetch both at once.
	g, gCtx := errgroup.WithContext(ctx)
	var sum *riot.SummonerInfo
	var rank *domain.SoloRank
	g.Go(func() error {
		var err error
		sum, err = s.accounts.SummonerByPUUID(gCtx, platform, acct.PUUID)
		return err
	})
	g.Go(func() error {
		var err error
		rank, err = s.accounts.SoloRank(gCtx, platform, acct.PUUID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch player state: %w", err)
	}

	displayName := sum.Name
	if displayName == "" {
		displayName = acct.GameName
	}

	snapshot := &domain.Summoner{
		PUUID:    acct.PUUID,
		GameName: displayName,
		TagLine:  acct.TagLine,
		Region:   strings.ToUpper(region),
	}
	if rank != nil {
		snapshot.Tier = rank.Tier
		snapshot.Division = &rank.Division
		snapshot.LP = rank.LP
	}
	if err := s.summoners.Upsert(ctx, snapshot); err != nil {
		return nil, err
	}

	records, err := s.sync.Reconcile(ctx, regional, acct.PUUID)
	if err != nil {
		return nil, fmt.Errorf("reconcile matches: %w", err)
	}

	version := ""
	if v, err := s.accounts.LatestDataVersion(ctx); err == nil {
		version = v
	} else {
		s.logger.Warn().Err(err).Msg("data version unavailable, asset urls omitted")
	}

	overview := &domain.PlayerOverview{
		Profile: buildProfile(acct, sum, rank, region, version),
		Matches: []domain.MatchSummary{},
	}
	overview.Profile.Name = displayName

	for i := range records {
		ms, err := s.views.Summarize(&records[i], acct.PUUID, version)
		if err != nil {
			s.logger.Warn().Err(err).Str("match_id", records[i].MatchID).Msg("skipping match summary")
			continue
		}
		overview.Matches = append(overview.Matches, *ms)
	}

	// Derived parts are independent of each other: a failure in one
	// leaves the others in the response.
	if stats, err := s.stats.Compile(ctx, acct.PUUID); err != nil {
		s.logger.Warn().Err(err).Str("puuid", acct.PUUID).Msg("summary compilation failed, falling back to cache")
		if cached, cErr := s.stats.CachedSummary(ctx, acct.PUUID); cErr == nil {
			overview.Stats = cached
		}
	} else {
		overview.Stats = stats
	}

	if activity, err := s.stats.DailyActivity(ctx, acct.PUUID); err != nil {
		s.logger.Warn().Err(err).Str("puuid", acct.PUUID).Msg("daily activity failed")
	} else {
		overview.Activity = activity
	}

	if steps, err := s.progression.Reconstruct(ctx, acct.PUUID, rank); err != nil {
		s.logger.Warn().Err(err).Str("puuid", acct.PUUID).Msg("progression reconstruction failed")
	} else {
		overview.RankedProgress = steps
	}

	return overview, nil
}

func buildProfile(acct *riot.Account, sum *riot.SummonerInfo, rank *domain.SoloRank, region, version string) domain.PlayerProfile {
	profile := domain.PlayerProfile{
		Name:          acct.GameName,
		Tagline:       acct.TagLine,
		Region:        strings.ToUpper(region),
		SummonerLevel: sum.SummonerLevel,
	}
	if version != "" {
		profile.ProfileIconURL = fmt.Sprintf(
			"https://ddragon.leagueoflegends.com/cdn/%s/img/profileicon/%d.png", version, sum.ProfileIconID)
	}
	if rank != nil {
		profile.Tier = &rank.Tier
		profile.Division = &rank.Division
		lp := rank.LP
		profile.LP = &lp
	}
	return profile
}

