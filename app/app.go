// Package app wires the dashboard's components together from a Config.
package app

import (
	"context"
	"fmt"
	"time"

	"aquasmart/api"
	"aquasmart/cache"
	"aquasmart/confs"
	"aquasmart/db"
	"aquasmart/entities"
	"aquasmart/irrigation"
	"aquasmart/pump"
	"aquasmart/repositories"
	"aquasmart/server"
	"aquasmart/services"
	"aquasmart/session"
	"aquasmart/usecases"
	"aquasmart/ws"

	"go.uber.org/zap"
)

// ActivityRetention is how long activity events are kept.
const ActivityRetention = 30 * 24 * time.Hour

// App holds every long-lived component of a running dashboard.
type App struct {
	Config    *confs.Config
	Log       *zap.SugaredLogger
	DB        db.Database
	Client    *api.Client
	Sessions  *session.Store
	Plans     *irrigation.Catalog
	Dashboard *services.DashboardService
	Watering  *usecases.WateringUseCase
	Activity  repositories.ActivityRepository
	Readings  *cache.ReadingCache
	Poller    *services.Poller
	Hub       *ws.Manager

	mqtt *pump.MQTTCommander
}

// New connects the store and builds the components. It does not start
// background work; see Serve.
func New(cfg *confs.Config, log *zap.SugaredLogger) (*App, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	database, err := db.Connect(cfg.Store, log)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))

	sessions := session.NewStore(client, repositories.NewLocalStorageRepository(database), log)
	if err := sessions.Init(); err != nil {
		log.Warnf("restore session: %v", err)
	}

	economics, err := services.LoadEconomics(cfg.Plans.EconomicsFile)
	if err != nil {
		log.Warnf("economics unavailable, revenue estimates disabled: %v", err)
		economics = services.NewEconomics(nil, nil)
	}

	// An unreadable fixture leaves the catalog empty; Watch picks up the fix.
	plans, err := irrigation.NewCatalog(cfg.Plans.File, log)
	if err != nil {
		log.Warnf("irrigation plans unavailable: %v", err)
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		DB:       database,
		Client:   client,
		Sessions: sessions,
		Plans:    plans,
		Activity: repositories.NewActivityRepository(database),
		Readings: cache.NewReadingCache(cfg.Poll.MoistureDelta, cfg.Poll.TemperatureDelta, 0),
		Hub:      ws.NewManager(),
	}
	a.Dashboard = services.NewDashboardService(client, economics, plans, log)

	var commander pump.Commander
	switch cfg.Pump.Mode {
	case "mqtt":
		a.mqtt = pump.NewMQTTCommander(cfg.MQTT, log)
		commander = a.mqtt
	case "", "simulate":
		commander = pump.NewSimulator(log)
	default:
		database.Close()
		return nil, fmt.Errorf("unknown pump mode %q", cfg.Pump.Mode)
	}

	a.Watering = usecases.NewWateringUseCase(commander, repositories.NewWateringRunRepository(database), a.Activity, log)
	a.Watering.OnChange(func(run entities.WateringRun) {
		a.Hub.Broadcast("watering", run)
	})

	a.Poller = services.NewPoller(a.Dashboard, sessions, a.Readings, a.Activity, a.Hub, cfg.Poll.Interval, log)
	return a, nil
}

// Serve starts the background work and the HTTP server, and blocks until
// ctx ends.
func (a *App) Serve(ctx context.Context) error {
	if a.mqtt != nil {
		if err := a.mqtt.Connect(ctx); err != nil {
			return err
		}
		defer a.mqtt.Disconnect()
	}

	cutoff := time.Now().Add(-ActivityRetention).UTC().Format(time.RFC3339Nano)
	if err := a.Activity.DeleteOlderThan(cutoff); err != nil {
		a.Log.Warnf("prune activity: %v", err)
	}

	if err := a.Plans.Watch(ctx); err != nil {
		a.Log.Warnf("watch irrigation plans: %v", err)
	}
	a.Poller.Start(ctx)

	srv := server.NewServer(server.Deps{
		Sessions:  a.Sessions,
		Dashboard: a.Dashboard,
		Watering:  a.Watering,
		Activity:  a.Activity,
		Readings:  a.Readings,
		Poller:    a.Poller,
		Hub:       a.Hub,
		Log:       a.Log,
	})
	return srv.Run(ctx, a.Config.Server.Addr)
}

// Close releases the store.
func (a *App) Close() error {
	return a.DB.Close()
}
