// Package wire provides dependency injection for the garden application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	cliadapter "github.com/example/garden/internal/adapters/cli"
	"github.com/example/garden/internal/adapters/notify"
	"github.com/example/garden/internal/adapters/sqlite"
	"github.com/example/garden/internal/app"
	"github.com/example/garden/internal/config"
	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/fusion"
	"github.com/example/garden/internal/db"
	"github.com/example/garden/internal/logging"
	"github.com/example/garden/internal/ports/primary"
)

var (
	configPath string

	cfg      *config.Config
	logger   *slog.Logger
	database *sql.DB
	store    *app.ProfileStore

	gardenService  primary.GardenService
	fusionService  primary.FusionService
	almanacService primary.AlmanacService
	shopService    primary.ShopService
	tradeService   primary.TradeService
	adminService   primary.AdminService
	growthService  primary.GrowthService
	logService     primary.LogService
	once           sync.Once
)

// SetConfigPath selects the config file. It must be called before the first
// service is requested; later calls have no effect.
func SetConfigPath(path string) {
	configPath = path
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the operator logger.
func Logger() *slog.Logger {
	once.Do(initServices)
	return logger
}

// GardenService returns the singleton GardenService instance.
func GardenService() primary.GardenService {
	once.Do(initServices)
	return gardenService
}

// FusionService returns the singleton FusionService instance.
func FusionService() primary.FusionService {
	once.Do(initServices)
	return fusionService
}

// AlmanacService returns the singleton AlmanacService instance.
func AlmanacService() primary.AlmanacService {
	once.Do(initServices)
	return almanacService
}

// ShopService returns the singleton ShopService instance.
func ShopService() primary.ShopService {
	once.Do(initServices)
	return shopService
}

// TradeService returns the singleton TradeService instance.
func TradeService() primary.TradeService {
	once.Do(initServices)
	return tradeService
}

// AdminService returns the singleton AdminService instance.
func AdminService() primary.AdminService {
	once.Do(initServices)
	return adminService
}

// GrowthService returns the singleton GrowthService instance.
func GrowthService() primary.GrowthService {
	once.Do(initServices)
	return growthService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	once.Do(initServices)
	return logService
}

// Scheduler returns a maturation scheduler driving the GrowthService on the
// configured cron schedule.
func Scheduler() *app.MaturationScheduler {
	once.Do(initServices)
	loc, _ := cfg.Location()
	return app.NewMaturationScheduler(growthService, cfg.Growth.TickSchedule, loc, logger)
}

// Flush writes the in-memory state to the database.
func Flush(ctx context.Context) error {
	once.Do(initServices)
	return store.Flush(ctx)
}

// Close closes the database connection.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	path, err := config.ResolvePath(configPath)
	if err != nil {
		log.Fatalf("failed to resolve config path: %v", err)
	}
	cfg, err = config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("invalid log level: %v", err)
	}
	logger = logging.New(os.Stderr, level, cfg.Log.Format)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("invalid timezone: %v", err)
	}

	// Catalog (immutable after this point)
	cat, warnings, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	for _, w := range warnings {
		logging.Critical(context.Background(), logger, "catalog integrity problem", "problem", w)
	}

	// Get database connection
	database, err = db.Open(cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	stateRepo := sqlite.NewStateRepository(database)
	events := sqlite.NewEventLogRepository(database)
	notifier := notify.NewConsoleNotifier(os.Stdout)

	store = app.NewProfileStore(stateRepo, logger)
	store.SetGlobalDefaults(cfg.Growth.DefaultDurationMinutes, cfg.Shop.PennyRefreshIntervalHours)
	if err := store.Load(context.Background()); err != nil {
		log.Fatalf("failed to load game state: %v", err)
	}

	// Create effect executor with injected repositories
	executor := app.NewEffectExecutor(store, events, logger)
	resolver := fusion.NewResolver(cat)
	locks := app.NewLockTable()
	settings := settingsFrom(cfg, loc)

	shops := app.NewShopService(store, executor, cat, locks, settings, newRand(), logger)

	// Create services (primary ports implementation)
	gardenService = app.NewGardenService(store, executor, resolver, locks, settings, logger)
	fusionService = app.NewFusionService(store, executor, resolver, locks, settings, logger)
	almanacService = app.NewAlmanacService(store, resolver, settings)
	shopService = shops
	tradeService = app.NewTradeService(store, executor, cat, locks, notifier, settings, logger)
	adminService = app.NewAdminService(store, executor, resolver, events, warnings, logger)
	growthService = app.NewGrowthService(store, cat, shops, notifier, events, newRand(), logger)
	logService = app.NewLogService(events, logger)
}

func loadCatalog(dir string) (*catalog.Catalog, []string, error) {
	var (
		data catalog.Data
		err  error
	)
	if dir == "" {
		data, err = catalog.Defaults()
	} else {
		dir, err = db.ExpandPath(dir)
		if err != nil {
			return nil, nil, err
		}
		data, err = catalog.LoadFS(os.DirFS(dir))
	}
	if err != nil {
		return nil, nil, err
	}
	return catalog.New(data)
}

func settingsFrom(c *config.Config, loc *time.Location) app.Settings {
	s := app.DefaultSettings()
	s.Currency = c.Currency
	s.DailyStipend = c.Economy.DailyStipend
	s.DefaultSeedling = c.Economy.DefaultSeedling
	s.SeedlingCost = c.Economy.SeedlingCost
	s.DiscoveryBonusRatio = c.Economy.DiscoveryBonusRatio
	s.DavePlantPrice = c.Economy.DavePlantPrice
	s.DaveRandomPlants = c.Economy.DaveRandomPlants
	s.TradeTimeout = c.TradeTimeout()
	s.FusionConfirmTimeout = c.FusionConfirmTimeout()
	s.Location = loc
	return s
}

func newRand() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>32|1))
}

// GardenAdapter returns a new GardenAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func GardenAdapter() *cliadapter.GardenAdapter {
	return GardenAdapterWithOutput(os.Stdout)
}

// GardenAdapterWithOutput returns a new GardenAdapter writing to the given output.
func GardenAdapterWithOutput(out io.Writer) *cliadapter.GardenAdapter {
	once.Do(initServices)
	return cliadapter.NewGardenAdapter(gardenService, cfg.Currency, out)
}

// FusionAdapterWithOutput returns a new FusionAdapter writing to the given output.
func FusionAdapterWithOutput(out io.Writer) *cliadapter.FusionAdapter {
	once.Do(initServices)
	return cliadapter.NewFusionAdapter(fusionService, cfg.Currency, out)
}

// AlmanacAdapterWithOutput returns a new AlmanacAdapter writing to the given output.
func AlmanacAdapterWithOutput(out io.Writer) *cliadapter.AlmanacAdapter {
	once.Do(initServices)
	return cliadapter.NewAlmanacAdapter(almanacService, out)
}

// ShopAdapterWithOutput returns a new ShopAdapter writing to the given output.
func ShopAdapterWithOutput(out io.Writer) *cliadapter.ShopAdapter {
	once.Do(initServices)
	return cliadapter.NewShopAdapter(shopService, cfg.Currency, out)
}

// TradeAdapterWithOutput returns a new TradeAdapter writing to the given output.
func TradeAdapterWithOutput(out io.Writer) *cliadapter.TradeAdapter {
	once.Do(initServices)
	return cliadapter.NewTradeAdapter(tradeService, cfg.Currency, out)
}

// AdminAdapterWithOutput returns a new AdminAdapter writing to the given output.
func AdminAdapterWithOutput(out io.Writer) *cliadapter.AdminAdapter {
	once.Do(initServices)
	return cliadapter.NewAdminAdapter(adminService, cfg.Currency, out)
}

// LogAdapterWithOutput returns a new LogAdapter writing to the given output.
func LogAdapterWithOutput(out io.Writer) *cliadapter.LogAdapter {
	once.Do(initServices)
	return cliadapter.NewLogAdapter(logService, out)
}

// SeedFixtures loads the development fixtures and reloads the state.
func SeedFixtures(ctx context.Context) error {
	once.Do(initServices)
	if err := db.SeedFixtures(database); err != nil {
		return err
	}
	return store.Load(ctx)
}

// SchemaVersion returns the applied schema version.
func SchemaVersion() (int, error) {
	once.Do(initServices)
	return db.CurrentVersion(database)
}
