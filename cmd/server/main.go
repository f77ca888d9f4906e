package main

import (
	"flag"
	"os"
	"strings"
	"syscall"

	"github.com/freshcart-shop/freshcart/internal/app"
	"github.com/freshcart-shop/freshcart/internal/config"
	"github.com/freshcart-shop/freshcart/internal/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	mode := flag.String("mode", app.ModeAll, "run mode: all, api or worker")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) || isWeakSecret(cfg.AdminJWT.SecretKey) {
			stdLog.Fatalf("JWT secrets are weak or default, configure strong random keys before release")
		}
		gin.SetMode(gin.ReleaseMode)
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		stdLog.Printf("warning: JWT secret is weak or default, replace it before going live")
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    *mode,
	}); err != nil {
		stdLog.Fatalf("server exited: %v", err)
	}
}

func isWeakSecret(secret string) bool {
	trimmed := strings.TrimSpace(secret)
	if len(trimmed) < 16 {
		return true
	}
	switch strings.ToLower(trimmed) {
	case "secret", "changeme", "freshcart-secret", "your-secret-key":
		return true
	}
	return false
}
