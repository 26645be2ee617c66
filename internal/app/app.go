package app

import (
	"log/slog"

	"bukken.rehub.jp/coredb"
	"bukken.rehub.jp/internal/appconf"
	"bukken.rehub.jp/internal/clock"
	"bukken.rehub.jp/internal/match"
	"bukken.rehub.jp/internal/mergeengine"
	"bukken.rehub.jp/internal/metrics"
)

// Application holds the shared dependencies for the HTTP handlers and
// background helpers.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Clock   clock.Clock
	Metrics *metrics.Metrics

	DB               *coredb.Client
	CustomerDetector *match.CustomerDetector
	BuildingDetector *match.BuildingDetector
	Merges           *mergeengine.Engine
}

// NewApplication wires the match and merge components on top of an open
// database client.
func NewApplication(cfg appconf.Config, db *coredb.Client, logger *slog.Logger, clk clock.Clock, m *metrics.Metrics) *Application {
	source := coredb.NewMatchSource(db.Queries)

	return &Application{
		Config:           cfg,
		Logger:           logger,
		Clock:            clk,
		Metrics:          m,
		DB:               db,
		CustomerDetector: match.NewCustomerDetector(source, source),
		BuildingDetector: match.NewBuildingDetector(source, source),
		Merges:           mergeengine.NewEngine(db, logger, clk, m),
	}
}
