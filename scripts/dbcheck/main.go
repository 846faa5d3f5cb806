// Command dbcheck verifies the database settings in the environment (or
// .env) and reports the storefront tables.
package main

import (
	"context"
	"fmt"
	"os"

	"krubolab/internal/config"

	"github.com/jackc/pgx/v5"
)

var tables = []string{"products", "services", "contacts", "orders", "order_items"}

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName, version string
	err = conn.QueryRow(ctx, "SELECT current_database(), version()").Scan(&dbName, &version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)
	fmt.Printf("Server: %s\n", version)

	fmt.Println("\nTables:")
	for _, table := range tables {
		var exists bool
		err := conn.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+table).Scan(&exists)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Lookup of %s failed: %v\n", table, err)
			os.Exit(1)
		}
		if !exists {
			fmt.Printf("  - %-12s missing (start the API once to migrate)\n", table)
			continue
		}

		var count int64
		// Table names come from the fixed list above.
		if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&count); err != nil {
			fmt.Fprintf(os.Stderr, "Count of %s failed: %v\n", table, err)
			os.Exit(1)
		}
		fmt.Printf("  - %-12s %d rows\n", table, count)
	}
}
