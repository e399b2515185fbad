package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asakaida/gakumu/internal/infrastructure/config"
	"github.com/asakaida/gakumu/internal/infrastructure/database"
	"github.com/asakaida/gakumu/internal/infrastructure/metrics"
	"github.com/asakaida/gakumu/internal/repositories/postgres"
	"github.com/asakaida/gakumu/internal/services"
	"github.com/asakaida/gakumu/pkg/cache/memorycache"
)

// E2ETestStore represents an E2E test environment: a fully wired entity store
// over a real database.
type E2ETestStore struct {
	Store     *services.EntityService
	Registry  *services.AttributeRegistryService
	Collector *metrics.Collector
	DB        *sql.DB
	cache     *memorycache.Cache
}

// SetupE2ETest sets up an E2E test environment
func SetupE2ETest(t *testing.T) *E2ETestStore {
	t.Helper()

	// Initialize config for test environment
	config.InitConfig("test")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Connect to test database
	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations (use absolute path)
	projectRoot, err := findProjectRoot()
	if err != nil {
		t.Fatalf("failed to find project root: %v", err)
	}
	migrationsPath := projectRoot + "/internal/infrastructure/database/migrations/postgres"
	if err := pg.RunMigrations(migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Clean up existing data
	cleanupDatabase(t, pg.DB)

	// Initialize repositories
	entityRepo := postgres.NewPostgresEntityRepository(pg.DB)
	valueRepo := postgres.NewPostgresValueRepository(pg.DB)
	attrRegistry := postgres.NewPostgresAttributeRegistry(pg.DB)

	// Initialize services
	defCache := memorycache.New(cfg.Registry.MaxEntries)
	registryService := services.NewAttributeRegistryService(
		attrRegistry,
		defCache,
		time.Duration(cfg.Registry.TTLMinutes)*time.Minute,
	)
	collector := metrics.NewCollector()
	store := services.NewEntityService(pg.DB, entityRepo, valueRepo, registryService, collector)

	return &E2ETestStore{
		Store:     store,
		Registry:  registryService,
		Collector: collector,
		DB:        pg.DB,
		cache:     defCache,
	}
}

// Teardown cleans up the E2E test environment
func (e *E2ETestStore) Teardown(t *testing.T) {
	t.Helper()

	if e.cache != nil {
		e.cache.Close()
	}
	if e.DB != nil {
		cleanupDatabase(t, e.DB)
		e.DB.Close()
	}
}

// cleanupDatabase removes all data from test database
func cleanupDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Delete in correct order due to foreign key constraints
	tables := []string{"entity_values", "entities", "attributes"}
	for _, table := range tables {
		query := fmt.Sprintf("DELETE FROM %s", table)
		if _, err := db.ExecContext(ctx, query); err != nil {
			t.Logf("warning: failed to clean up table %s: %v", table, err)
		}
	}
}

// findProjectRoot finds the project root directory by looking for go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory")
		}
		dir = parent
	}
}
