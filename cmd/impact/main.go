package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/impact/internal/catalog"
	"github.com/hazadus/impact/internal/config"
	"github.com/hazadus/impact/internal/library"
	"github.com/hazadus/impact/internal/logger"
	"github.com/hazadus/impact/internal/metadata"
	"github.com/hazadus/impact/internal/player"
)

// Application содержит состояние приложения на время одного запуска
type Application struct {
	Config  *config.Config
	Store   catalog.Store
	Service *library.Service
}

// loadConfig загружает конфигурацию и настраивает журнал
func (app *Application) loadConfig(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	app.Config = cfg

	if err := logger.InitLogger(loggerConfig(cfg.Log)); err != nil {
		return fmt.Errorf("ошибка инициализации журнала: %w", err)
	}
	return nil
}

// loggerConfig переводит настройки журнала из конфигурации в настройки логгера
func loggerConfig(log config.LogConfig) logger.Config {
	return logger.Config{
		Level:      logger.LogLevel(log.Level),
		OutputPath: log.File,
		MaxSize:    log.MaxSize,
		MaxBackups: log.MaxBackups,
		MaxAge:     log.MaxAge,
		Compress:   log.Compress,
		Console:    log.Console,
	}
}

// service открывает каталог и плеер при первом обращении
func (app *Application) service(ctx context.Context) (*library.Service, error) {
	if app.Service != nil {
		return app.Service, nil
	}

	store, err := catalog.Open(ctx, app.Config.Catalog.Backend, app.Config.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия каталога: %w", err)
	}
	app.Store = store

	backend := player.NewBeepBackend(
		app.Config.Audio.SampleRate,
		time.Duration(app.Config.Audio.BufferMs)*time.Millisecond,
	)
	app.Service = library.NewService(store, metadata.NewExtractor(), player.NewController(backend))

	logger.Debug("каталог открыт",
		zap.String("backend", app.Config.Catalog.Backend),
		zap.String("path", app.Config.Catalog.Path))
	return app.Service, nil
}

// Close останавливает воспроизведение и закрывает каталог
func (app *Application) Close() {
	if app.Service != nil {
		if err := app.Service.Close(); err != nil {
			logger.Warn("ошибка остановки плеера", zap.Error(err))
		}
	}
	if app.Store != nil {
		if err := app.Store.Close(); err != nil {
			logger.Warn("ошибка закрытия каталога", zap.Error(err))
		}
	}
	logger.Sync()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &Application{}
	rootCmd := app.createRootCommand(ctx)

	err := rootCmd.ExecuteContext(ctx)
	app.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Ошибка: %v\n", err)
		stop()
		os.Exit(1)
	}
}
