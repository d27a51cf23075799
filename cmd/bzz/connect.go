package main

import (
	"fmt"

	"github.com/tyatlocalbzz/localbzz-app/internal/config"
	"github.com/tyatlocalbzz/localbzz-app/internal/db"
	"github.com/tyatlocalbzz/localbzz-app/internal/events"
	"github.com/tyatlocalbzz/localbzz-app/internal/logger"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	return cfg, gormDB, nil
}

// app bundles what most commands need: a store, a logger and a generator
// wired to the configured event broker.
type app struct {
	cfg       *config.Config
	store     *store.Store
	log       *zap.Logger
	publisher events.Publisher
	generator *workflow.Generator
}

func newApp(configPath string) (*app, error) {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	pub, err := events.New(cfg.Events.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to event broker: %w", err)
	}

	st := store.New(gormDB)
	return &app{
		cfg:       cfg,
		store:     st,
		log:       log,
		publisher: pub,
		generator: workflow.NewGenerator(st, workflow.GeneratorOpts{Publisher: pub, Logger: log}),
	}, nil
}

func (a *app) Close() {
	a.publisher.Close()
	a.log.Sync()
}
