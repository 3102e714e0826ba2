// Package server wires the CityCare server together: PostgreSQL storage and
// migrations, domain services, the gRPC report API and the HTTP contact
// relay, and runs them until a shutdown signal arrives.
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
	"time"

	"github.com/citycare/citycare/internal/logging"
	"github.com/citycare/citycare/internal/ratelimit"
	"github.com/citycare/citycare/internal/server/config"
	"github.com/citycare/citycare/internal/server/httpapi"
	"github.com/citycare/citycare/internal/server/images"
	"github.com/citycare/citycare/internal/server/mail"
	"github.com/citycare/citycare/internal/server/repositories/repomanager"
	"github.com/citycare/citycare/internal/server/services"

	gs "github.com/citycare/citycare/internal/server/grpc"
)

const tokenPurgeInterval = time.Hour

var openDB = repomanager.OpenPostgres

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	reportService  *services.ReportService
	auditService   *services.AuditService
	contactService *services.ContactService
	limiter        *ratelimit.RateLimiter
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	mailer := mail.NewFromConfig(c.Mail, logger)
	if !mailer.Configured() {
		logger.Warn(ctx, "no mail provider configured, contact form will fail")
	}

	as := services.NewAuditService(db, rm, logger)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		auditService:   as,
		userService:    services.NewUserService(db, rm, as, c, logger),
		reportService:  services.NewReportService(db, rm, images.NewS3Store(c), as, logger),
		contactService: services.NewContactService(mailer, c.Mail.ContactRecipient, logger),
		limiter:        ratelimit.New(c.ContactRateLimit, c.ContactRateWindow),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.reportService, app.auditService, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.SetupRouter(app.contactService, app.limiter, app.logger)
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// purgeTokens drops expired refresh tokens every interval until ctx ends.
func (app *App) purgeTokens(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.userService.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "refresh token purge failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired refresh tokens purged", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)
	if app.config.ContactRateWindow > 0 {
		app.limiter.StartCleanup(ctx, app.config.ContactRateWindow)
	}

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.purgeTokens(ctx, tokenPurgeInterval)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
