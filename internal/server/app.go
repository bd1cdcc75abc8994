// Package server initializes and runs the journal server: it opens the
// database pool, runs migrations, wires the services together, and handles
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/anovikov/journalvault/internal/logging"
	"github.com/anovikov/journalvault/internal/server/audit"
	"github.com/anovikov/journalvault/internal/server/config"
	"github.com/anovikov/journalvault/internal/server/httpapi"
	"github.com/anovikov/journalvault/internal/server/keymanager"
	"github.com/anovikov/journalvault/internal/server/policy"
	"github.com/anovikov/journalvault/internal/server/repositories/repomanager"
	"github.com/anovikov/journalvault/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	auditLogger *audit.Logger
	httpServer  *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	keys := keymanager.NewManager(cfg.EncryptionSecret, rm)
	auditLogger := audit.NewLogger(db, rm, logger)
	activity := services.NewLoggingActivityTracker(logger)

	journal := services.NewJournalService(db, rm, keys, auditLogger, policy.OwnerOrSharedPolicy{}, activity, logger)
	attachments := services.NewAttachmentService(db, rm, cfg)

	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, logger, journal, attachments, cfg.SecretKey)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		auditLogger: auditLogger,
		httpServer:  httpServer,
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

	wg.Wait()

	// let in-flight audit writes drain before the pool closes
	app.auditLogger.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
