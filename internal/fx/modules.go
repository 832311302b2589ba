package fx

import (
	"rift-tracker/internal/config"
	"rift-tracker/internal/database"
	"rift-tracker/internal/logger"
	"rift-tracker/internal/repository"
	"rift-tracker/internal/riot"
	"rift-tracker/internal/server"
	"rift-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSummonerRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewSummaryRepository),
	fx.Provide(repository.NewProgressionRepository),
	// api client, bound to the narrow interfaces the services consume
	fx.Provide(riot.NewClient),
	fx.Provide(func(c *riot.Client) service.RecordProvider { return c }),
	fx.Provide(func(c *riot.Client) service.AccountProvider { return c }),
	fx.Provide(func(c *riot.Client) service.VersionProvider { return c }),
	fx.Provide(func(c *riot.Client) service.NameResolver { return c }),
	// svc
	fx.Provide(service.NewSyncService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewProgressionService),
	fx.Provide(service.NewMatchViewService),
	fx.Provide(service.NewOverviewService),
	// server
	fx.Provide(server.NewTrackerServer),
)
