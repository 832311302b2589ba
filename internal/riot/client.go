package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"rift-tracker/internal/config"
	"rift-tracker/internal/constants"
	"rift-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

const ddragonVersionsURL = "https://ddragon.leagueoflegends.com/api/versions.json"

var errNotFound = errors.New("not found")

type Client struct {
	apiKey       string
	http         *fasthttp.Client
	resolveDelay time.Duration
	version      versionCell
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:       cfg.RiotAPIKey,
		resolveDelay: cfg.ResolveDelay,
		http: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type SummonerInfo struct {
	Name          string `json:"name"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int64  `json:"summonerLevel"`
}

type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
}

type Match struct {
	Info MatchInfo `json:"info"`
}

type MatchInfo struct {
	GameCreation int64                `json:"gameCreation"`
	GameDuration int64                `json:"gameDuration"`
	QueueID      int                  `json:"queueId"`
	GameVersion  string               `json:"gameVersion"`
	Participants []domain.Participant `json:"participants"`
}

type timelineResponse struct {
	Info struct {
		Frames []struct {
			Timestamp         int64           `json:"timestamp"`
			ParticipantFrames json.RawMessage `json:"participantFrames"`
			Events            json.RawMessage `json:"events"`
		} `json:"frames"`
	} `json:"info"`
}

func (c *Client) AccountByRiotID(ctx context.Context, regional, name, tag string) (*Account, error) {
	u := fmt.Sprintf("https://%s.api.riotgames.com/riot/account/v1/accounts/by-riot-id/%s/%s",
		regional, url.PathEscape(name), url.PathEscape(tag))
	acct, err := getJSON[Account](ctx, c, u)
	if errors.Is(err, errNotFound) {
		return nil, fmt.Errorf("%w: %s#%s", domain.ErrIdentityNotResolvable, name, tag)
	}
	return acct, err
}

func (c *Client) AccountByPUUID(ctx context.Context, regional, puuid string) (*Account, error) {
	u := fmt.Sprintf("https://%s.api.riotgames.com/riot/account/v1/accounts/by-puuid/%s", regional, puuid)
	return getJSON[Account](ctx, c, u)
}

func (c *Client) SummonerByPUUID(ctx context.Context, platform, puuid string) (*SummonerInfo, error) {
	u := fmt.Sprintf("https://%s.api.riotgames.com/lol/summoner/v4/summoners/by-puuid/%s", platform, puuid)
	return getJSON[SummonerInfo](ctx, c, u)
}

// SoloRank returns the player's solo-queue standing, or nil when the
// player has no ranked entry.
func (c *Client) SoloRank(ctx context.Context, platform, puuid string) (*domain.SoloRank, error) {
	u := fmt.Sprintf("https://%s.api.riotgames.com/lol/league/v4/entries/by-puuid/%s", platform, puuid)
	entries, err := getJSON[[]LeagueEntry](ctx, c, u)
	if err != nil {
		return nil, err
	}
	for _, e := range *entries {
		if e.QueueType == "RANKED_SOLO_5x5" {
			return &domain.SoloRank{Tier: e.Tier, Division: e.Rank, LP: e.LeaguePoints}, nil
		}
	}
	return nil, nil
}

func (c *Client) MatchIDs(ctx context.Context, regional, puuid string, start, count int) ([]string, error) {
	u := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/by-puuid/%s/ids?start=%d&count=%d",
		regional, puuid, start, count)
	ids, err := getJSON[[]string](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

func (c *Client) MatchByID(ctx context.Context, regional, matchID string) (*Match, error) {
	u := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/%s", regional, matchID)
	return getJSON[Match](ctx, c, u)
}

func (c *Client) TimelineByID(ctx context.Context, regional, matchID string) ([]domain.TimelineFrame, error) {
	u := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/%s/timeline", regional, matchID)
	resp, err := getJSON[timelineResponse](ctx, c, u)
	if err != nil {
		return nil, err
	}
	frames := make([]domain.TimelineFrame, len(resp.Info.Frames))
	for i, f := range resp.Info.Frames {
		frames[i] = domain.TimelineFrame{
			Index:             i,
			Timestamp:         f.Timestamp,
			ParticipantFrames: f.ParticipantFrames,
			Events:            f.Events,
		}
	}
	return frames, nil
}

// Ping declares the provider gateway unavailable unless it answers the
// version endpoint within the health-check timeout.
func (c *Client) Ping(ctx context.Context) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(ddragonVersionsURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := time.Now().Add(constants.HealthCheckTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("%w: gateway returned %d", domain.ErrProviderUnavailable, resp.StatusCode())
	}
	return nil
}

func getJSON[T any](ctx context.Context, c *Client, u string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(u)
	req.Header.SetMethod(fasthttp.MethodGet)
	if c.apiKey != "" {
		req.Header.Set("X-Riot-Token", c.apiKey)
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else {
		err = c.http.Do(req, resp)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", domain.ErrProviderRequestFailed, u, err)
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%w: GET %s: %w", domain.ErrProviderRequestFailed, u, errNotFound)
	default:
		return nil, fmt.Errorf("%w: GET %s returned %d", domain.ErrProviderRequestFailed, u, resp.StatusCode())
	}

	var out T
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrProviderRequestFailed, u, err)
	}
	return &out, nil
}
