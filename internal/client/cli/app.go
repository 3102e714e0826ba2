package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/citycare/citycare/internal/client/client"
	"github.com/citycare/citycare/internal/client/config"
	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/client/offline"
	"github.com/citycare/citycare/internal/client/repositories/kv"
	"github.com/citycare/citycare/internal/client/services"
	"github.com/citycare/citycare/internal/filex"
	"github.com/citycare/citycare/internal/logging"
)

// connectivity is the part of offline.Controller the commands need.
type connectivity interface {
	Offline() bool
	SetOffline(ctx context.Context, offline bool)
}

type App struct {
	config        *config.Config
	logger        logging.Logger
	authService   services.AuthService
	reportService services.ReportService
	adminService  services.AdminService
	conn          connectivity
	user          *models.User
	reader        *bufio.Reader

	// set by NewApp; nil in tests
	watch    func(ctx context.Context)
	shutdown func()
}

// NewApp opens the local database under cfg.DataDir and wires the transport,
// the offline queue and the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDataDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, config.DatabaseFile))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}
	store := kv.NewSQLiteRepository(db)

	a := &App{config: c, logger: logger, reader: bufio.NewReader(os.Stdin)}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr,
		client.WithTokenRefreshHandler(func(access, refresh string) {
			a.authService.TokensRefreshed(context.Background(), access, refresh)
		}))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	controller := offline.NewController(ctx, store, logger)
	queue := offline.NewQueueStore(store, logger)

	var reports services.ReportService
	manager := offline.NewManager(ctx, queue, controller, apiClient, logger,
		offline.WithCallTimeout(c.SyncCallTimeout),
		offline.WithNotifier(offline.NotifierFunc(notifyUploaded)),
		offline.WithSyncedHandler(func(_ context.Context, created []models.ServerReport) {
			reports.Merge(created...)
		}),
	)
	reports = services.NewReportService(apiClient, manager, controller, logger)

	a.authService = services.NewAuthService(apiClient, store)
	a.reportService = reports
	a.adminService = services.NewAdminService(apiClient)
	a.conn = controller
	a.watch = func(ctx context.Context) {
		offline.Watch(ctx, controller, apiClient, c.OnlineCheckInterval, logger)
	}
	a.shutdown = func() {
		manager.Cancel()
		manager.Wait()
		_ = a.authService.Close(context.Background())
		_ = db.Close()
	}

	return a, nil
}

func notifyUploaded(_ context.Context, n offline.Notification) {
	printlnFn(fmt.Sprintf("%d Report(s) Uploaded.", n.Count))
}

// Run restores the previous session, starts the background workers and
// blocks in the REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		if a.shutdown != nil {
			a.shutdown()
		}
	}()

	printlnFn("Welcome to CityCare CLI (type 'help' for commands)")

	if user, err := a.authService.Restore(ctx); err == nil {
		a.user = user
		printlnFn(fmt.Sprintf("Signed in as %s", user.Email))
	}

	go a.reportService.ServeStatusChanges(ctx)
	if a.config.AutoConnectivity && a.watch != nil {
		go a.watch(ctx)
	}

	if !a.conn.Offline() {
		if err := a.reportService.Refresh(ctx); err != nil {
			a.logger.Warn(ctx, "initial refresh failed", "error", err)
		}
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) isAdmin() bool {
	return a.user != nil && a.user.IsAdmin()
}

func (a *App) getStatus() string {
	s := ""
	if a.user != nil {
		s = a.user.Email + " "
	}
	if a.conn.Offline() {
		s += "offline"
	} else {
		s += "online"
	}
	return fmt.Sprintf("(%s)", s)
}

// fail reports err to the user and returns it.
func (a *App) fail(ctx context.Context, what string, err error) error {
	a.logger.Warn(ctx, what+" failed", "error", err)
	printlnFn(fmt.Sprintf("Error: %s", describe(err)))
	return err
}

// NewLogger is the CLI's logger: plain text on stderr, warnings and up.
func NewLogger() logging.Logger {
	return logging.NewText(os.Stderr, slog.LevelWarn)
}
