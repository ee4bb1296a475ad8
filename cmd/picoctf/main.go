package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rriley/picoCTF/internal/api/admin"
	"github.com/rriley/picoCTF/internal/api/user"
	"github.com/rriley/picoCTF/internal/catalog"
	"github.com/rriley/picoCTF/internal/config"
	"github.com/rriley/picoCTF/internal/contest"
	"github.com/rriley/picoCTF/internal/database"

	"go.uber.org/zap"
)

var Version = "dev-build"

func main() {

	fmt.Fprintf(os.Stderr, "picoCTF %s - Competitive Exercise Platform\n\n", Version)

	// config
	var configPath string
	flag.StringVar(&configPath, "c", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// logger
	var logger *zap.Logger
	if cfg.Logger.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// database
	db, err := database.Init(cfg.Storage.Database)
	if err != nil {
		zap.S().Fatalf("failed to initialize database: %v", err)
	}
	zap.S().Info("database initialized successfully")

	// problem catalog; a broken prerequisite graph is fatal here
	cat, err := catalog.Load(cfg.Storage.ProblemsRoot)
	if err != nil {
		zap.S().Fatalf("failed to load problem catalog: %v", err)
	}
	zap.S().Infof("loaded %d problems", cat.Len())

	state := &catalog.AppState{Catalog: cat}

	// submission and scoring core
	window := contest.Window{
		Start: cfg.Competition.StartTime,
		End:   cfg.Competition.EndTime,
	}
	svc := contest.NewService(db, state, window)

	// API routers
	userEngine := user.NewUserRouter(cfg, db, svc, state)
	adminEngine := admin.NewAdminRouter(cfg, db, svc, state)

	// start servers
	go func() {
		zap.S().Infof("starting user server at %s", cfg.Listen)
		if err := userEngine.Run(cfg.Listen); err != nil {
			zap.S().Fatalf("failed to start user server: %v", err)
		}
	}()

	if cfg.Admin.Enabled {
		go func() {
			zap.S().Infof("starting admin server at %s", cfg.Admin.Listen)
			if err := adminEngine.Run(cfg.Admin.Listen); err != nil {
				zap.S().Fatalf("failed to start admin server: %v", err)
			}
		}()
	}

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("shutting down server...")
}
