package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/edusenior/eduterm/internal/stub"
	"github.com/edusenior/eduterm/pkg/config"
	"github.com/edusenior/eduterm/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := stub.OpenStore(cfg.Stub.DBPath)
	if err != nil {
		logr.Sugar().Fatalw("failed to open store", "path", cfg.Stub.DBPath, "error", err)
	}

	tokens := stub.NewTokenIssuer(cfg.Stub.JWTSecret, cfg.Stub.Expiration, cfg.Stub.RefreshExpiration)
	server := stub.NewServer(store, tokens, logr)

	addr := fmt.Sprintf(":%d", cfg.Stub.Port)
	logr.Sugar().Infow("stub backend starting", "addr", addr, "db", cfg.Stub.DBPath)
	if err := server.Router().Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
