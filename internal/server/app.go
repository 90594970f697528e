// Package server initializes and runs the hoaxify application server.
// It opens the database, wires the services together, and runs the HTTP
// API and the token sweeper until shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/samuelireke/hoaxify/internal/logging"
	"github.com/samuelireke/hoaxify/internal/server/config"
	"github.com/samuelireke/hoaxify/internal/server/email"
	"github.com/samuelireke/hoaxify/internal/server/httpapi"
	"github.com/samuelireke/hoaxify/internal/server/repositories/repomanager"
	"github.com/samuelireke/hoaxify/internal/server/services"
	"github.com/samuelireke/hoaxify/internal/server/sweeper"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *httpapi.Server
	sweeper    *sweeper.Sweeper
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := repomanager.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := &repomanager.PostgresRepositoryManager{}

	tokenService := services.NewTokenService(rm.Tokens(db), cfg)
	fileService := services.NewFileService(cfg)
	mailer := email.NewSMTPMailer(cfg)
	userService := services.NewUserService(
		rm.Users(db),
		repomanager.NewPostgresTxRunner(db, rm),
		tokenService,
		mailer,
		fileService,
		cfg,
		logger,
	)

	handler := httpapi.NewHandler(userService, tokenService, fileService, logger)

	return &App{
		config:     cfg,
		logger:     logger,
		httpServer: httpapi.NewServer(cfg.EndpointAddr, handler, logger),
		sweeper:    sweeper.NewSweeper(tokenService, cfg.TokenSweepInterval, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()
}
