package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"bookstore-admin/internal/bootstrap"
	"bookstore-admin/internal/core/auth"
	"bookstore-admin/internal/core/config"
	"bookstore-admin/internal/core/database"
	"bookstore-admin/internal/core/logger"
	"bookstore-admin/internal/core/server"
	"bookstore-admin/internal/transport/http/router"
)

// App 两个进程共用的依赖：配置、日志、DB 连接池、JWT
type App struct {
	Cfg *config.Config
	Log *zap.Logger
	DB  *gorm.DB
	JWT *auth.JWTer

	closers []func()
}

// New 读配置 → 日志 → DB；失败时已打开的资源会被释放
func New(cfgPath string) (*App, error) {
	cfg, err := config.Read(cfgPath)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read config")
	}

	a := &App{Cfg: cfg}
	var sync func()
	a.Log, sync, err = newLogger(cfg.Log, map[string]string{"app": cfg.App.Name, "env": cfg.App.Env})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, sync)
	a.closers = append(a.closers, logger.RedirectStdLog(a.Log.Named("std"), zapcore.InfoLevel))
	gin.DefaultWriter = logger.ToWriter(a.Log.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(a.Log.Named("gin"), zapcore.ErrorLevel)

	a.DB, err = database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Host:               cfg.DB.Host,
		Port:               cfg.DB.Port,
		Name:               cfg.DB.Name,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             a.Log,
	})
	if err != nil {
		a.Close()
		return nil, pkgerrors.Wrapf(err, "open %s database", cfg.DB.Driver)
	}
	a.closers = append(a.closers, func() { _ = database.Close(a.DB) })
	if err := database.RegisterMetrics(a.DB, cfg.DB.Name); err != nil {
		a.Log.Warn("db metrics not registered", zap.Error(err))
	}

	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.ExpiresIn,
	}
	a.Log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	return a, nil
}

func newLogger(c config.Log, fields map[string]string) (*zap.Logger, func(), error) {
	if c.File.Enable && c.File.Filename == "" {
		return nil, nil, errors.New("log.file.filename is required when file logging is enabled")
	}
	l, sync := logger.Build(logger.Options{
		Level:       c.Level,
		JSON:        c.JSON,
		AddCaller:   true,
		Development: !c.JSON,
		Fields:      fields,
		Rotate: logger.FileRotate{
			Enable:     c.File.Enable,
			Filename:   c.File.Filename,
			MaxSizeMB:  c.File.MaxSizeMB,
			MaxBackups: c.File.MaxBackups,
			MaxAgeDays: c.File.MaxAgeDays,
			Compress:   c.File.Compress,
		},
	})
	return l, sync, nil
}

// Close 逆序释放，日志最后 Sync
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Bootstrap 建表 + 默认管理员 + 默认分类
func (a *App) Bootstrap(ctx context.Context) error {
	return bootstrap.Run(ctx, a.DB, bootstrap.Options{
		AutoMigrate:    a.Cfg.DB.AutoMigrate,
		AdminName:      a.Cfg.Seed.AdminName,
		AdminEmail:     a.Cfg.Seed.AdminEmail,
		AdminPassword:  a.Cfg.Seed.AdminPassword,
		SeedCategories: a.Cfg.Seed.Categories,
		Logger:         a.Log.Named("bootstrap"),
	})
}

// RequireSecret 对外签发 token 的进程必须配置 jwt.secret
func (a *App) RequireSecret() error {
	if len(a.JWT.Secret) == 0 {
		return errors.New("jwt.secret (APP_JWT_SECRET) is required")
	}
	return nil
}

// RouterOptions app.env 为 prod/production 时 gin 用 release 模式
func (a *App) RouterOptions() router.Options {
	mode := gin.DebugMode
	switch a.Cfg.App.Env {
	case "prod", "production":
		mode = gin.ReleaseMode
	case "test":
		mode = gin.TestMode
	}
	return router.Options{Mode: mode, CORSOrigins: a.Cfg.App.CORSOrigins, Limits: a.Cfg.Limits}
}

// Serve 启动 HTTP 并阻塞到 SIGINT/SIGTERM，然后优雅关闭
func (a *App) Serve(name string, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.StartHTTP(srv, a.Log.Named(name)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return pkgerrors.Wrapf(err, "%s server", name)
	case sig := <-quit:
		a.Log.Info("shutting down", zap.String("server", name), zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return pkgerrors.Wrapf(err, "%s shutdown", name)
	}
	a.Log.Info("stopped gracefully", zap.String("server", name))
	return nil
}

// BaseURL 启动日志里可点击的地址
func BaseURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return "http://" + server.Addr(host, port)
}
