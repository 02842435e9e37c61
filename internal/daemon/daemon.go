package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ascendrpg/ascend/internal/api"
	"github.com/ascendrpg/ascend/internal/app/progression"
	"github.com/ascendrpg/ascend/internal/health"
	_ "github.com/ascendrpg/ascend/internal/infra/metrics" // Register Prometheus metrics
	"github.com/ascendrpg/ascend/internal/infra/sqlite"
)

// Daemon is the core Ascend runtime. It wires together all services.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Server *api.Server
	cancel context.CancelFunc

	Curve     *progression.Curve
	Debuff    *progression.DebuffPolicy
	Lifecycle *progression.Lifecycle
	Streak    *progression.StreakService
	Sweeper   *progression.Sweeper
	Health    *health.Checker
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Database.Dir
	if dataDir == "" {
		dataDir = ascendHome()
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := progression.SeedTemplates(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed templates: %w", err)
	}

	// The level-threshold table is built once here and immutable after.
	maxMemo := cfg.Progression.MaxMemoLevel
	if maxMemo < 1 {
		maxMemo = progression.DefaultMaxMemoLevel
	}
	curve := progression.NewCurve(maxMemo)

	debuff := progression.NewDebuffPolicy(db)
	lifecycle := progression.NewLifecycle(db, curve, debuff)
	streak := progression.NewStreakService(db)
	sweeper := progression.NewSweeper(db, lifecycle, debuff, streak)

	checker := health.NewChecker(db, dataDir)

	srv := api.NewServer(db, curve, debuff, lifecycle, streak, sweeper)
	srv.SetHealthChecker(checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:    cfg,
		DB:        db,
		Server:    srv,
		Curve:     curve,
		Debuff:    debuff,
		Lifecycle: lifecycle,
		Streak:    streak,
		Sweeper:   sweeper,
		Health:    checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Background services
	go d.Health.Run(ctx)
	go d.sweepLoop(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Ascend serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// sweepLoop runs the day-rollover sweep once per hour, acting only when
// the configured sweep hour arrives. Hourly ticks keep a long-sleeping
// process from missing the boundary entirely.
func (d *Daemon) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	var lastSwept string
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now().UTC()
			today := now.Format(progression.DateLayout)
			if now.Hour() < d.Config.Progression.SweepHourUTC || lastSwept == today {
				continue
			}
			if _, _, err := d.Sweeper.SweepAll(now, now); err != nil {
				log.Printf("[daemon] sweep: %v", err)
				continue
			}
			lastSwept = today
		}
	}
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
