package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/config"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/export"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/ledger"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/repositories/labels"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/repositories/submissions"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/services"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/signer"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/storage"
	"github.com/dmitrijs2005/mark3t-rep/internal/filex"
	"github.com/dmitrijs2005/mark3t-rep/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const defaultOnlineCheckInterval = 3 * time.Second

type exporter interface {
	Export(ctx context.Context, snap export.Snapshot) (string, error)
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	ledger   ledger.Client
	repos    *storage.Repositories
	labels   *services.LabelCache
	submit   *services.SubmitService
	query    *services.QueryService
	view     *services.RatingsView
	exporter exporter
	signer   signer.Signer

	// subject the current view was fetched for, nil for all ratings
	viewSubject *uint32

	modeMu sync.RWMutex
	mode   Mode

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

// NewApp opens the cache database, dials the ledger and builds the
// pipelines described by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, os.Stderr, c.Debug)
	if err != nil {
		return nil, err
	}

	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}

	repos, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	lc, err := ledger.NewLedgerClient(c.LedgerEndpoint, ledger.Options{
		APIKey:            c.APIKey,
		Timeout:           c.RequestTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.RequestBurst,
	})
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	origin, err := signer.Dev(c.OriginSeed)
	if err != nil {
		_ = lc.Close()
		_ = repos.Close()
		return nil, fmt.Errorf("origin account: %w", err)
	}

	var exp exporter
	if c.S3Bucket != "" {
		e, err := export.NewS3Exporter(ctx, export.Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		})
		if err != nil {
			logger.Warn(ctx, "export disabled", "error", err)
		} else {
			exp = e
		}
	}

	return newApp(c, logger, lc, repos, exp, origin.Address(), os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, logger logging.Logger, lc ledger.Client, repos *storage.Repositories,
	exp exporter, origin string, in io.Reader, out io.Writer) *App {

	var (
		labelRepo labels.Repository
		journal   submissions.Repository
	)
	if repos != nil {
		labelRepo = repos.Labels
		journal = repos.Submissions
	}

	cfg := services.Config{Ledger: lc, Origin: origin, Logger: logger}
	lcache := services.NewLabelCache(labelRepo, logger)

	return &App{
		config:   c,
		logger:   logger,
		ledger:   lc,
		repos:    repos,
		labels:   lcache,
		submit:   services.NewSubmitService(cfg, journal),
		query:    services.NewQueryService(cfg, lcache),
		view:     &services.RatingsView{},
		exporter: exp,
		reader:   bufio.NewReader(in),
		out:      out,
		now:      time.Now,
	}
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(ctx, "switched mode", "mode", string(mode))
	}
}

// Run starts the REPL and releases every resource once it returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.ledger != nil {
		_ = a.ledger.Close()
	}
	if a.repos != nil {
		_ = a.repos.Close()
	}
}

func (a *App) hasWallet() bool {
	return a.signer != nil
}

// StartOnlineStatusWatcher pings the ledger every interval until ctx is done.
// A non-positive interval falls back to three seconds.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultOnlineCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.ledger.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
