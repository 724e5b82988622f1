package main

import (
	"log"

	_ "taskboard/docs"
	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           Task Board API
// @version         1.0
// @description     API for managing users, tags, columns and tasks of a task board.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

// @schemes http
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	s, err := server.Init(cfg, zlog)
	if err != nil {
		zlog.Fatal("Server initialization failed", zap.Error(err))
	}

	s.Run()
}
