package main

import (
	"context"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bookstore-admin/internal/app"
	"bookstore-admin/internal/core/server"
	"bookstore-admin/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()

	a, err := app.New(os.Getenv("CONFIG_PATH"))
	if err != nil {
		// 日志还没建好
		os.Stderr.WriteString("bookstore api: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer a.Close()
	log := a.Log

	if err := a.RequireSecret(); err != nil {
		log.Fatal("config invalid", zap.Error(err))
	}

	// 建表 + 种子数据（可重复执行）
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = a.Bootstrap(ctx)
	cancel()
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}

	// 路由（用户端）
	r := router.NewAPIEngine(log, a.DB, a.JWT, a.RouterOptions())

	h := a.Cfg.App.HTTP
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	baseURL := app.BaseURL(h.Host, h.Port)
	log.Info("bookstore api starting",
		zap.String("addr", addr),
		zap.String("env", a.Cfg.App.Env),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	if err := a.Serve("api", srv); err != nil {
		log.Error("bookstore api exited", zap.Error(err))
		a.Close()
		os.Exit(1)
	}
}
