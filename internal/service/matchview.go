package service

import (
	"context"
	"fmt"
	"math"

	"rift-tracker/internal/domain"
	"rift-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// NameResolver resolves display names for a batch of player ids,
// applying the provider rate-limit policy internally.
type NameResolver interface {
	ResolveNames(ctx context.Context, regional string, puuids []string) map[string]string
}

type MatchViewService struct {
	matches   *repository.MatchRepository
	summoners *repository.SummonerRepository
	resolver  NameResolver
	versions  VersionProvider
	logger    zerolog.Logger
}

func NewMatchViewService(matches *repository.MatchRepository, summoners *repository.SummonerRepository, resolver NameResolver, versions VersionProvider, logger zerolog.Logger) *MatchViewService {
	return &MatchViewService{matches: matches, summoners: summoners, resolver: resolver, versions: versions, logger: logger}
}

// Summarize shapes one cached record into the entry player's match
// summary.
func (s *MatchViewService) Summarize(rec *domain.MatchRecord, puuid, version string) (*domain.MatchSummary, error) {
	p, ok := rec.Find(puuid)
	if !ok {
		return nil, fmt.Errorf("participant %s not found in match %s", puuid, rec.MatchID)
	}
	sum := summarizeParticipant(rec, p, version)
	return &sum, nil
}

// MatchDetails builds the full scoreboard for one cached match,
// resolving every participant's display name: cached summoners first,
// the account provider for the rest.
func (s *MatchViewService) MatchDetails(ctx context.Context, regional, matchID, userPUUID string) (*domain.MatchDetails, error) {
	rec, err := s.matches.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("match %s not cached", matchID)
	}

	version := ""
	if s.versions != nil {
		if v, err := s.versions.LatestDataVersion(ctx); err == nil {
			version = v
		} else {
			s.logger.Warn().Err(err).Msg("data version unavailable for match details")
		}
	}

	puuids := make([]string, len(rec.Participants))
	for i, p := range rec.Participants {
		puuids[i] = p.PUUID
	}

	names, err := s.summoners.DisplayNames(ctx, puuids)
	if err != nil {
		return nil, err
	}
	var unknown []string
	for _, id := range puuids {
		if _, ok := names[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 && s.resolver != nil {
		for id, name := range s.resolver.ResolveNames(ctx, regional, unknown) {
			names[id] = name
		}
	}

	details := &domain.MatchDetails{
		MatchID:         rec.MatchID,
		QueueID:         rec.QueueID,
		GameCreationMS:  rec.GameCreation,
		GameDurationSec: rec.GameDuration,
		UserPUUID:       userPUUID,
		DataVersion:     version,
	}
	for i := range rec.Participants {
		p := &rec.Participants[i]
		details.Participants = append(details.Participants, domain.ParticipantSummary{
			PUUID:        p.PUUID,
			SummonerName: names[p.PUUID],
			Team:         teamLabel(i),
			MatchSummary: summarizeParticipant(rec, p, version),
		})
	}
	return details, nil
}

func summarizeParticipant(rec *domain.MatchRecord, p *domain.Participant, version string) domain.MatchSummary {
	cs := p.TotalMinionsKilled + p.NeutralMinionsKilled
	minutes := float64(rec.GameDuration) / 60.0

	sum := domain.MatchSummary{
		MatchID:         rec.MatchID,
		QueueID:         rec.QueueID,
		GameCreationMS:  rec.GameCreation,
		GameDurationSec: rec.GameDuration,
		Win:             p.Win,
		ChampionName:    p.ChampionName,
		Kills:           p.Kills,
		Deaths:          p.Deaths,
		Assists:         p.Assists,
		CS:              cs,
		KDA:             kdaRatio(p.Kills, p.Deaths, p.Assists),
		Role:            p.TeamPosition,
		GoldEarned:      p.GoldEarned,
		Items:           [6]int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5},
		Trinket:         p.Item6,
		DamageDealt:     p.TotalDamageDealtToChampions,
		DamageTaken:     p.TotalDamageTaken,
		VisionScore:     p.VisionScore,
		TurretTakedowns: p.TurretTakedowns,
		DragonKills:     p.DragonKills,
		BaronKills:      p.BaronKills,
		DataVersion:     version,
	}
	if p.Challenges != nil {
		sum.KillParticipation = p.Challenges.KillParticipation
	}
	if minutes > 0 {
		sum.GPM = round2(float64(p.GoldEarned) / minutes)
		sum.CSPerMin = round2(float64(cs) / minutes)
		sum.VisionPerMin = round2(float64(p.VisionScore) / minutes)
	}
	if version != "" {
		sum.ChampionIconURL = fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/%s/img/champion/%s.png", version, p.ChampionName)
	}
	return sum
}

// Participant order is the provider's: first five blue side, last five
// red side.
func teamLabel(index int) string {
	if index < 5 {
		return "Blue"
	}
	return "Red"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
