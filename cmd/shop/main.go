// Command shop is a terminal storefront. Cart, favorites and the admin
// session live in a local SQLite file shared by every shop process that
// opens it; products and checkout go through the storefront API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"krubolab/internal/commerce"
	"krubolab/internal/config"
	"krubolab/internal/localstore"
	"krubolab/internal/shopclient"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("shop", flag.ContinueOnError)
	fs.SetOutput(stdout)
	apiURL := fs.String("api", envOr("SHOP_API_URL", "http://localhost:8080"), "storefront API base URL")
	dbPath := fs.String("db", envOr("SHOP_DB", "shop.db"), "local store file")
	logLevel := fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintln(stdout, "usage: shop [-api url] [-db file] <command> [args]")
		fmt.Fprintln(stdout, usageText)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	logger := config.NewLogger(config.LoggerConfig{Level: *logLevel, Format: "console", Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := localstore.OpenSQLite(ctx, *dbPath, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	store := commerce.NewStore(storage, logger)
	defer store.Close()

	sh := newShop(store, shopclient.New(*apiURL, logger), stdout)
	defer sh.close()

	return sh.exec(ctx, fs.Arg(0), fs.Args()[1:])
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
