package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"rift-tracker/internal/constants"
	"rift-tracker/internal/domain"
	"rift-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// VersionProvider hands out the shared data-dragon version used to
// derive asset URLs.
type VersionProvider interface {
	LatestDataVersion(ctx context.Context) (string, error)
}

type StatsService struct {
	matches   *repository.MatchRepository
	summaries *repository.SummaryRepository
	versions  VersionProvider
	logger    zerolog.Logger
}

func NewStatsService(matches *repository.MatchRepository, summaries *repository.SummaryRepository, versions VersionProvider, logger zerolog.Logger) *StatsService {
	return &StatsService{matches: matches, summaries: summaries, versions: versions, logger: logger}
}

// Compile recomputes the rolling summary from the cached competitive
// record set and replaces the cached row.
func (s *StatsService) Compile(ctx context.Context, puuid string) (*domain.PlayerSummary, error) {
	outcomes, err := s.matches.RecentOutcomes(ctx, puuid,
		constants.RankedQueueID, constants.MinQualifyingDurationSec, 0)
	if err != nil {
		return nil, err
	}

	version := ""
	if s.versions != nil {
		version, err = s.versions.LatestDataVersion(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("data version unavailable, champion icons omitted")
			version = ""
		}
	}

	summary := compileSummary(puuid, outcomes, version)
	if err := s.summaries.Replace(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// CachedSummary returns the last persisted summary, or nil when the
// player has never been compiled.
func (s *StatsService) CachedSummary(ctx context.Context, puuid string) (*domain.PlayerSummary, error) {
	return s.summaries.Get(ctx, puuid)
}

// DailyActivity buckets qualifying-queue game counts per calendar day
// over the trailing 30 days, zero-filled: always exactly 30 entries,
// oldest first.
func (s *StatsService) DailyActivity(ctx context.Context, puuid string) ([]domain.DailyActivity, error) {
	outcomes, err := s.matches.RecentOutcomes(ctx, puuid, constants.RankedQueueID, 0, 0)
	if err != nil {
		return nil, err
	}
	return bucketDaily(outcomes, time.Now().UTC()), nil
}

func compileSummary(puuid string, outcomes []domain.MatchOutcome, version string) *domain.PlayerSummary {
	summary := &domain.PlayerSummary{
		PUUID:     puuid,
		QueueID:   constants.RankedQueueID,
		TopChamps: []domain.TopChampion{},
	}

	var tk, td, ta int
	byChamp := map[string]*domain.TopChampion{}
	champKDA := map[string][3]int{}
	for _, o := range outcomes {
		summary.Games++
		if o.Win {
			summary.Wins++
		} else {
			summary.Losses++
		}
		tk += o.Kills
		td += o.Deaths
		ta += o.Assists

		c, ok := byChamp[o.Champion]
		if !ok {
			c = &domain.TopChampion{ChampionName: o.Champion}
			byChamp[o.Champion] = c
		}
		c.Games++
		if o.Win {
			c.Wins++
		}
		kda := champKDA[o.Champion]
		champKDA[o.Champion] = [3]int{kda[0] + o.Kills, kda[1] + o.Deaths, kda[2] + o.Assists}
	}

	summary.KDA = kdaRatio(tk, td, ta)
	if summary.Games > 0 {
		summary.Winrate = int(math.Round(float64(summary.Wins) / float64(summary.Games) * 100))
	}
	summary.Streak = streak(outcomes)

	for name, c := range byChamp {
		if c.Games < constants.TopChampionMinGames {
			continue
		}
		kda := champKDA[name]
		c.KDA = kdaRatio(kda[0], kda[1], kda[2])
		c.Winrate = int(math.Round(float64(c.Wins) / float64(c.Games) * 100))
		if version != "" {
			c.IconURL = fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/%s/img/champion/%s.png", version, name)
		}
		summary.TopChamps = append(summary.TopChamps, *c)
	}
	sort.Slice(summary.TopChamps, func(i, j int) bool {
		a, b := summary.TopChamps[i], summary.TopChamps[j]
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.ChampionName < b.ChampionName
	})
	if len(summary.TopChamps) > constants.TopChampionLimit {
		summary.TopChamps = summary.TopChamps[:constants.TopChampionLimit]
	}

	return summary
}

// kdaRatio is (kills + assists) / deaths, degrading to kills + assists
// when deaths is zero.
func kdaRatio(kills, deaths, assists int) float64 {
	if deaths == 0 {
		return float64(kills + assists)
	}
	return math.Round(float64(kills+assists)/float64(deaths)*100) / 100
}

// streak counts consecutive identical outcomes from the newest record
// backward: positive for wins, negative for losses.
func streak(outcomes []domain.MatchOutcome) int {
	if len(outcomes) == 0 {
		return 0
	}
	n := 0
	for _, o := range outcomes {
		if o.Win != outcomes[0].Win {
			break
		}
		n++
	}
	if !outcomes[0].Win {
		return -n
	}
	return n
}

func bucketDaily(outcomes []domain.MatchOutcome, now time.Time) []domain.DailyActivity {
	counts := make(map[string]int)
	for _, o := range outcomes {
		day := time.UnixMilli(o.GameCreation).UTC().Format("2006-01-02")
		counts[day]++
	}

	activity := make([]domain.DailyActivity, 0, constants.ActivityWindowDays)
	for i := constants.ActivityWindowDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		activity = append(activity, domain.DailyActivity{Date: day, Games: counts[day]})
	}
	return activity
}
