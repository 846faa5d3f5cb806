package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"krubolab/internal/config"
	"krubolab/internal/database"
	"krubolab/internal/repository"
	"krubolab/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// SetupTestDB starts a PostgreSQL container, connects through the
// application's pool constructor and applies the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
	}
}

// seedProducts is the catalogue every API test starts from. Prices are
// mixed numbers and es-CO strings, the way exported documents carry them.
var seedProducts = []map[string]any{
	{"id": "P001", "name": "Llavero acrilico", "price": "12.000", "category": "Accesorios", "colours": "Rojo, Azul", "images": []string{"llavero.jpg"}, "materials": "Acrilico"},
	{"id": "P002", "name": "Lampara MDF", "price": 45000, "category": "Hogar", "measurements": []string{"20cm", "30cm"}, "materials": []string{"MDF"}},
	{"id": "P003", "name": "Porta retrato", "price": 30000, "category": "Hogar", "materials": []string{"mdf", "Vidrio"}},
}

// SeedCatalog writes seed documents to a temp dir and loads them through
// the seeder, as the API does at startup.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	dir := t.TempDir()
	writeDoc(t, dir, "products.json", map[string]any{"content": seedProducts})
	writeDoc(t, dir, "services.json", []map[string]any{
		{"id": "S001", "name": "Corte laser", "price": "30.000", "duration": "2h", "category": "Fabricacion"},
		{"id": "S002", "name": "Impresion 3D", "price": 20000, "duration": "1 dia", "category": "Fabricacion"},
	})
	writeDoc(t, dir, "contacts.json", []map[string]any{
		{"id": "C001", "name": "Ana Gomez", "email": "ana@example.com"},
	})

	logger := zerolog.Nop()
	seeder := seed.NewSeeder(
		seed.NewFileLoader(dir, logger),
		repository.NewProductRepository(pool, logger),
		repository.NewOfferingRepository(pool, logger),
		repository.NewContactRepository(pool, logger),
		logger,
	)
	if _, err := seeder.Run(context.Background(), []string{"products.json", "services.json", "contacts.json"}); err != nil {
		t.Fatalf("failed to seed catalogue: %v", err)
	}
}

func writeDoc(t *testing.T, dir, name string, doc any) {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "products", "services", "contacts"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
