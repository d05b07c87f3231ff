package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/duetrack/duetrack-backend/internal/adapter/repository/postgres"
	"github.com/duetrack/duetrack-backend/internal/adapter/repository/sqlite"
	"github.com/duetrack/duetrack-backend/internal/domain"
	"github.com/duetrack/duetrack-backend/internal/platform/config"
	"github.com/duetrack/duetrack-backend/internal/usecase/entitlement"
	"github.com/duetrack/duetrack-backend/internal/usecase/executor"
)

// repositories bundles the stores the scheduler ticks against.
type repositories struct {
	ChargeRules  domain.ChargeRuleRepository
	Ledgers      domain.ChargeLedgerRepository
	Transactions domain.TransactionRepository
	Entitlements domain.EntitlementRepository
}

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Open the configured store
	repos, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	clock := domain.SystemClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 3. Seed the subject's entitlement window on first run
	if err := seedEntitlement(ctx, repos.Entitlements, clock, cfg); err != nil {
		log.Fatalf("Failed to seed entitlement window: %v", err)
	}

	// 4. Initialize services
	gate := entitlement.NewGateService(repos.Entitlements, clock, cfg.SubjectID)
	execService := executor.NewService(repos.Ledgers, repos.Transactions, clock)

	log.Printf("Scheduler started: driver=%s interval=%s subject=%s",
		cfg.DBDriver, cfg.TickInterval, cfg.SubjectID)

	// 5. Tick once at startup, then on the configured interval
	runTick(ctx, gate, execService, repos.ChargeRules)

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Received shutdown signal. Stopping scheduler...")
			return
		case <-ticker.C:
			runTick(ctx, gate, execService, repos.ChargeRules)
		}
	}
}

// openStore wires the repository set for the configured driver.
func openStore(cfg config.Config) (repositories, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(cfg.PostgresDSN)
		if err != nil {
			return repositories{}, nil, err
		}
		if err := db.EnsureSchema(); err != nil {
			db.Close()
			return repositories{}, nil, err
		}
		return repositories{
			ChargeRules:  postgres.NewChargeRuleRepository(db),
			Ledgers:      postgres.NewChargeLedgerRepository(db),
			Transactions: postgres.NewTransactionRepository(db),
			Entitlements: postgres.NewEntitlementRepository(db),
		}, func() { db.Close() }, nil

	default:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return repositories{}, nil, err
		}
		return repositories{
			ChargeRules:  sqlite.NewChargeRuleRepository(store),
			Ledgers:      sqlite.NewChargeLedgerRepository(store),
			Transactions: sqlite.NewTransactionRepository(store),
			Entitlements: sqlite.NewEntitlementRepository(store),
		}, func() { store.Close() }, nil
	}
}

// seedEntitlement creates the subject's trial window if none exists yet.
// AnchorTime is set once here and never touched again.
func seedEntitlement(ctx context.Context, repo domain.EntitlementRepository, clock domain.Clock, cfg config.Config) error {
	_, err := repo.Get(ctx, cfg.SubjectID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	window := &domain.EntitlementWindow{
		SubjectID:  cfg.SubjectID,
		AnchorTime: clock.Now(),
		WindowDays: cfg.TrialDays,
		Override:   domain.OverrideNone,
	}
	if err := window.Validate(); err != nil {
		return err
	}
	if err := repo.Create(ctx, window); err != nil {
		return err
	}

	log.Printf("Entitlement window seeded: subject=%s days=%d", cfg.SubjectID, cfg.TrialDays)
	return nil
}

// runTick runs one posting pass over every charge rule. Individual rule
// failures are logged and skipped so one bad rule cannot starve the rest.
func runTick(ctx context.Context, gate *entitlement.GateService, execService *executor.Service, rules domain.ChargeRuleRepository) {
	status, err := gate.Check(ctx)
	if err != nil {
		log.Printf("Entitlement check failed: %v", err)
		return
	}
	if !status.Active {
		log.Println("Entitlement window inactive: skipping posting pass")
		return
	}

	chargeRules, err := rules.List(ctx)
	if err != nil {
		log.Printf("Failed to list charge rules: %v", err)
		return
	}

	for _, rule := range chargeRules {
		posted, err := execService.Tick(ctx, rule)
		if err != nil {
			log.Printf("Tick failed for rule %s (%s): %v", rule.Name, rule.ID, err)
			continue
		}
		if posted != nil {
			log.Printf("Posted charge: rule=%s period=%s amount=%s", rule.Name, posted.Period, posted.Amount)
		}
	}
}
