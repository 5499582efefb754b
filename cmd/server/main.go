package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/ExploryKod/Anoria/internal/adapter/http"
	metricsinmem "github.com/ExploryKod/Anoria/internal/adapter/metrics/inmemory"
	gormrepo "github.com/ExploryKod/Anoria/internal/adapter/repo/gorm"
	"github.com/ExploryKod/Anoria/internal/adapter/repo/memory"
	sqliterepo "github.com/ExploryKod/Anoria/internal/adapter/repo/sqlite"
	"github.com/ExploryKod/Anoria/internal/adapter/stream"
	"github.com/ExploryKod/Anoria/internal/app/command"
	"github.com/ExploryKod/Anoria/internal/app/game"
	"github.com/ExploryKod/Anoria/internal/app/ledger"
	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/app/turn"
	"github.com/ExploryKod/Anoria/internal/config"
	"github.com/ExploryKod/Anoria/internal/domain/city"
	"github.com/ExploryKod/Anoria/migrations"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("ANORIA_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.Store, err)
	}
	defer st.close()

	a, err := buildApp(cfg, st, logger)
	if err != nil {
		log.Fatalf("build game: %v", err)
	}

	go a.hub.Run(ctx)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", a.hub.ServeWS)
	streamSrv := &http.Server{Addr: cfg.StreamAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := streamSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("stream server stopped", "err", err)
		}
	}()

	if err := a.ctrl.Start(ctx); err != nil {
		log.Fatalf("start game: %v", err)
	}
	runDone := make(chan struct{})
	go func() {
		a.ctrl.Run(ctx)
		close(runDone)
	}()

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	a.handler.RegisterRoutes(s)

	logger.Info("anoria listening", "http", cfg.HTTPAddr, "stream", cfg.StreamAddr, "store", cfg.Store, "grid", cfg.GridSize)
	s.Spin()

	stop()
	<-runDone
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := streamSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("stream server shutdown", "err", err)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

type stores struct {
	tx        ports.TxManager
	buildings ports.BuildingRepository
	game      ports.GameRepository
	close     func()
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := sqliterepo.Open(cfg.SQLitePath)
		if err != nil {
			return stores{}, err
		}
		return stores{
			tx:        sqliterepo.NewTxManager(db),
			buildings: sqliterepo.NewBuildingRepo(db),
			game:      sqliterepo.NewGameRepo(db),
			close:     func() { _ = db.Close() },
		}, nil
	case config.StorePostgres:
		db, err := gormrepo.Open(ctx, cfg.DatabaseDSN, migrations.Postgres())
		if err != nil {
			return stores{}, err
		}
		return stores{
			tx:        gormrepo.NewTxManager(db),
			buildings: gormrepo.NewBuildingRepo(db),
			game:      gormrepo.NewGameRepo(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	case config.StoreMemory:
		store := memory.NewStore()
		return stores{
			tx:        memory.NewTxManager(store),
			buildings: memory.NewBuildingRepo(store),
			game:      memory.NewGameRepo(store),
			close:     func() {},
		}, nil
	}
	return stores{}, fmt.Errorf("unknown store %q", cfg.Store)
}

type application struct {
	ctrl    *game.Controller
	hub     *stream.Hub
	kpi     *metricsinmem.Recorder
	handler httpadapter.Handler
}

func buildApp(cfg config.Config, st stores, logger *slog.Logger) (application, error) {
	var terrain city.TerrainFunc = city.FlatTerrain
	if cfg.TerrainSeed != 0 {
		terrain = city.NoiseTerrain(cfg.TerrainSeed, cfg.WaterLevel)
	}
	grid, err := city.NewGrid(cfg.GridSize, terrain)
	if err != nil {
		return application{}, err
	}

	kpi := metricsinmem.NewRecorder()
	hub := stream.NewHub(logger)
	tools := &game.Toolbox{}
	buildings := ledger.Buildings{TxManager: st.tx, Repo: st.buildings, Game: st.game, Logger: logger}
	gameLedger := ledger.Game{TxManager: st.tx, Repo: st.game, Logger: logger}

	sim := &turn.Simulator{
		Grid:      grid,
		Buildings: buildings,
		Game:      gameLedger,
		TxManager: st.tx,
		Visuals:   hub,
		Tools:     tools,
		Metrics:   kpi,
		Rules:     cfg.Rules(),
		Logger:    logger,
	}
	ctrl := game.New(game.Deps{
		Sim:       sim,
		Commands:  command.UseCase{Grid: grid, Buildings: buildings, Metrics: kpi, Logger: logger},
		Buildings: buildings,
		Game:      gameLedger,
		Tools:     tools,
		Publisher: hub,
		Metrics:   kpi,
		Logger:    logger,
	}, cfg.TurnInterval())

	return application{
		ctrl: ctrl,
		hub:  hub,
		kpi:  kpi,
		handler: httpadapter.Handler{
			Game:    ctrl,
			KPI:     kpi,
			Limiter: httpadapter.NewRateLimiter(cfg.CommandRate, 2*cfg.CommandRate),
			Logger:  logger,
		},
	}, nil
}
