package domain

import (
	"encoding/json"
	"time"
)

type Summoner struct {
	PUUID       string
	GameName    string
	TagLine     string
	Region      string
	Tier        string
	Division    *string
	LP          int
	LastUpdated time.Time
}

// SoloRank is the player's current competitive standing. A nil value
// means the player is unranked.
type SoloRank struct {
	Tier     string
	Division string
	LP       int
}

// Participant mirrors the provider's per-player match entry. Tags match
// the provider payload so the stored JSON round-trips unchanged.
type Participant struct {
	PUUID                       string      `json:"puuid"`
	ChampionName                string      `json:"championName"`
	Kills                       int         `json:"kills"`
	Deaths                      int         `json:"deaths"`
	Assists                     int         `json:"assists"`
	Win                         bool        `json:"win"`
	TotalMinionsKilled          int         `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int         `json:"neutralMinionsKilled"`
	GoldEarned                  int         `json:"goldEarned"`
	Item0                       int         `json:"item0"`
	Item1                       int         `json:"item1"`
	Item2                       int         `json:"item2"`
	Item3                       int         `json:"item3"`
	Item4                       int         `json:"item4"`
	Item5                       int         `json:"item5"`
	Item6                       int         `json:"item6"`
	TotalDamageDealtToChampions int         `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int         `json:"totalDamageTaken"`
	VisionScore                 int         `json:"visionScore"`
	TeamPosition                string      `json:"teamPosition"`
	TurretTakedowns             int         `json:"turretTakedowns"`
	DragonKills                 int         `json:"dragonKills"`
	BaronKills                  int         `json:"baronKills"`
	Challenges                  *Challenges `json:"challenges,omitempty"`
}

type Challenges struct {
	KillParticipation float64 `json:"killParticipation"`
}

// MatchRecord is one completed game scoped to the entry player.
// Immutable once inserted.
type MatchRecord struct {
	MID          int64
	MatchID      string
	EntryPUUID   string
	GameCreation int64 // epoch millis
	GameDuration int64 // seconds
	QueueID      int
	GameVersion  string
	Participants []Participant
	Teams        json.RawMessage
	CreatedAt    time.Time
}

// Find returns the participant entry for puuid, if present.
func (m *MatchRecord) Find(puuid string) (*Participant, bool) {
	for i := range m.Participants {
		if m.Participants[i].PUUID == puuid {
			return &m.Participants[i], true
		}
	}
	return nil, false
}

type TimelineFrame struct {
	Index             int
	Timestamp         int64
	ParticipantFrames json.RawMessage
	Events            json.RawMessage
}

// MatchOutcome is the slim projection used by the aggregate compiler
// and progression reconstructor.
type MatchOutcome struct {
	MatchID      string
	GameCreation int64
	Win          bool
	Kills        int
	Deaths       int
	Assists      int
	Champion     string
}

type TopChampion struct {
	ChampionName string  `json:"champion_name"`
	IconURL      string  `json:"icon_url"`
	Games        int     `json:"games"`
	Wins         int     `json:"wins"`
	Winrate      int     `json:"winrate"`
	KDA          float64 `json:"kda"`
}

type PlayerSummary struct {
	PUUID      string        `json:"-"`
	QueueID    int           `json:"-"`
	Games      int           `json:"games"`
	Wins       int           `json:"wins"`
	Losses     int           `json:"losses"`
	KDA        float64       `json:"kda"`
	Winrate    int           `json:"winrate"`
	Streak     int           `json:"streak"`
	TopChamps  []TopChampion `json:"top_champs"`
	ComputedAt time.Time     `json:"-"`
}

type DailyActivity struct {
	Date  string `json:"date"`
	Games int    `json:"games"`
}

type RankStep struct {
	MatchID        string `json:"match_id"`
	GameCreation   int64  `json:"-"`
	LabelIndex     int    `json:"label_index"`
	LPBefore       int    `json:"lp_before"`
	LPAfter        int    `json:"lp_after"`
	LPDelta        int    `json:"lp_delta"`
	Result         string `json:"result"`
	TierBefore     string `json:"tier_before"`
	DivisionBefore string `json:"division_before"`
	TierAfter      string `json:"tier_after"`
	DivisionAfter  string `json:"division_after"`
	Exact          bool   `json:"exact"`
}

type MatchSummary struct {
	MatchID           string  `json:"match_id"`
	QueueID           int     `json:"queue_id"`
	GameCreationMS    int64   `json:"game_creation_ms"`
	GameDurationSec   int64   `json:"game_duration_s"`
	Win               bool    `json:"win"`
	ChampionName      string  `json:"champion_name"`
	ChampionIconURL   string  `json:"champion_icon_url"`
	Kills             int     `json:"kills"`
	Deaths            int     `json:"deaths"`
	Assists           int     `json:"assists"`
	CS                int     `json:"cs"`
	KDA               float64 `json:"kda"`
	Role              string  `json:"role"`
	GoldEarned        int     `json:"gold_earned"`
	GPM               float64 `json:"gpm"`
	CSPerMin          float64 `json:"cs_per_min"`
	VisionPerMin      float64 `json:"vision_per_min"`
	Items             [6]int  `json:"items"`
	Trinket           int     `json:"trinket"`
	DamageDealt       int     `json:"damage_dealt"`
	DamageTaken       int     `json:"damage_taken"`
	VisionScore       int     `json:"vision_score"`
	KillParticipation float64 `json:"kill_participation"`
	TurretTakedowns   int     `json:"turret_takedowns"`
	DragonKills       int     `json:"dragon_kills"`
	BaronKills        int     `json:"baron_kills"`
	DataVersion       string  `json:"ddragon_version"`
}

// ParticipantSummary is the per-player row of a full match detail view,
// annotated with a resolved display name and team.
type ParticipantSummary struct {
	PUUID        string `json:"puuid"`
	SummonerName string `json:"summoner_name"`
	Team         string `json:"team"`
	MatchSummary
}

type MatchDetails struct {
	MatchID         string               `json:"match_id"`
	QueueID         int                  `json:"queue_id"`
	GameCreationMS  int64                `json:"game_creation_ms"`
	GameDurationSec int64                `json:"game_duration_s"`
	Participants    []ParticipantSummary `json:"participants"`
	UserPUUID       string               `json:"user_puuid"`
	DataVersion     string               `json:"ddragon_version"`
}

type PlayerProfile struct {
	Name           string  `json:"name"`
	Tagline        string  `json:"tagline"`
	Region         string  `json:"region"`
	SummonerLevel  int64   `json:"summoner_level"`
	ProfileIconURL string  `json:"profile_icon_url"`
	Tier           *string `json:"tier"`
	Division       *string `json:"division"`
	LP             *int    `json:"lp"`
}

type PlayerOverview struct {
	Profile        PlayerProfile   `json:"profile"`
	Matches        []MatchSummary  `json:"matches"`
	Stats          *PlayerSummary  `json:"stats"`
	Activity       []DailyActivity `json:"activity"`
	RankedProgress []RankStep      `json:"ranked_progress"`
}
