package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/senselib/f8client/internal/client/api"
	"github.com/senselib/f8client/internal/client/cache"
	"github.com/senselib/f8client/internal/client/config"
	"github.com/senselib/f8client/internal/client/content"
	"github.com/senselib/f8client/internal/client/gate"
	"github.com/senselib/f8client/internal/client/ledger"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/navigator"
	"github.com/senselib/f8client/internal/client/repositories/metadata"
	"github.com/senselib/f8client/internal/client/services"
	"github.com/senselib/f8client/internal/client/session"
	"github.com/senselib/f8client/internal/client/storage"
	"github.com/senselib/f8client/internal/logging"
)

// App is the CLI application: services, navigation and terminal I/O.
type App struct {
	config  *config.Config
	log     logging.Logger
	auth    services.AuthService
	library services.LibraryService
	wallet  services.WalletService
	account services.AccountService
	admin   services.AdminService
	nav     navigator.Navigator

	reader *bufio.Reader
	out    io.Writer

	// query is the last document search, reused by "page".
	query models.PageQuery

	registry *prometheus.Registry
	closers  []func() error
}

// NewApp opens the local store and wires every component of the client.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := storage.Open(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	persister := session.NewMetadataPersister(metadata.NewSQLRepository(db.DB, db.Dialect))
	sess := session.NewStore(session.WithPersister(persister), session.WithLogger(log))
	nav := navigator.NewTracker(navigator.Login)
	cc := cache.New(c.CacheTTL)

	reg := prometheus.NewRegistry()
	apiMetrics, err := api.NewMetrics(reg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	gateMetrics, err := gate.NewMetrics(reg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	client, err := api.New(c, sess, nav, api.WithLogger(log), api.WithMetrics(apiMetrics))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	catalog := api.NewCatalog(client)
	balances := ledger.NewService(db.DB, db.Dialect, log)

	s3cfg := content.S3Config{
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}
	fetchers := content.NewRouter().
		Handle(content.NewHTTPFetcher(client, nil, c.DownloadDir), "http", "https").
		Handle(content.NewS3Fetcher(s3cfg, c.DownloadDir), "s3")

	g := gate.New(sess, balances, fetchers,
		gate.WithRefundOnFetchFailure(c.RefundOnFetchFailure),
		gate.WithLogger(log),
		gate.WithMetrics(gateMetrics),
	)

	return &App{
		config:   c,
		log:      log,
		auth:     services.NewAuthService(client, sess, cc, nav, log),
		library:  services.NewLibraryService(catalog.Documents, client, g, cc),
		wallet:   services.NewWalletService(sess, balances, catalog.Transactions),
		account:  services.NewAccountService(client, sess, cc, log),
		admin:    services.NewAdminService(catalog, client),
		nav:      nav,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		registry: reg,
		closers:  []func() error{db.Close},
	}, nil
}

// MetricsHandler serves the client's Prometheus metrics.
func (a *App) MetricsHandler() http.Handler {
	return api.MetricsHandler(a.registry)
}

// Run resumes a persisted session when there is one and then blocks in the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to SenseLib CLI (type 'help' for commands)")
	ok, err := a.auth.Restore(ctx)
	switch {
	case err != nil:
		a.log.Warn(ctx, "session not restored", "error", err)
	case ok:
		if id, ok := a.auth.Current(); ok {
			fmt.Fprintf(a.out, "Welcome back, %s\n", id)
		}
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

// Close releases the local store.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.Current()
	return ok
}

func (a *App) isAdmin() bool {
	id, ok := a.auth.Current()
	return ok && id.IsAdmin()
}

// status is the prompt decoration: identity and current surface.
func (a *App) status() string {
	s := string(a.nav.Current())
	if id, ok := a.auth.Current(); ok {
		s = id.String() + "@" + s
	}
	return s
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
