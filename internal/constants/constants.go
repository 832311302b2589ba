package constants

import "time"

// Reconciliation window and backfill policy.
const (
	RecentWindow        = 10
	ColdStartFetchLimit = 3
)

// Competitive queue scoping for summaries and progression.
const (
	RankedQueueID            = 420
	MinQualifyingDurationSec = 300
)

const (
	LPDeltaPerGame      = 15
	TopChampionMinGames = 3
	TopChampionLimit    = 10
	ActivityWindowDays  = 30
)

const (
	ExternalAPITimeout = 10 * time.Second
	HealthCheckTimeout = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

// Default inter-call delay when resolving participant identities one by
// one, to stay under the provider's rate limit.
const DefaultResolveDelay = 100 * time.Millisecond
