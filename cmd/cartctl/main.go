// Command cartctl drives a shopper cart from the terminal. The anonymous cart
// is kept in a local file; passing -user and a token merges it into the
// account cart on the server.
//
//	cartctl [-api URL] [-file PATH] [-user ID] show
//	cartctl add PRODUCT_ID [QTY]
//	cartctl set PRODUCT_ID QTY
//	cartctl remove PRODUCT_ID
//	cartctl clear
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/cartsync"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/joho/godotenv"
)

func main() {

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cartCfg, err := config.LoadCart()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	home, _ := os.UserHomeDir()

	apiURL := flag.String("api", envOr("CARTCTL_API_URL", "http://localhost:8080"), "storefront API base URL")
	cartFile := flag.String("file", filepath.Join(home, ".storefront", "cart.json"), "local cart file")
	userID := flag.String("user", os.Getenv("CARTCTL_USER"), "signed-in user id; empty means anonymous")
	delay := flag.Duration("delay", cartCfg.SyncDelay, "debounce before a cart write")
	verbose := flag.Bool("v", false, "log sync activity")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	httpClient := cartsync.NewHTTPClient()
	lookup := cartsync.NewHTTPProductLookup(*apiURL, httpClient)
	sync := cartsync.NewSynchronizer(
		cartsync.NewFileStore(*cartFile),
		cartsync.NewHTTPCartStore(*apiURL, httpClient),
		lookup,
		cartsync.Config{Delay: *delay, Logger: logger, IOTimeout: 15 * time.Second},
	)
	defer sync.Close()

	sync.Load(ctx)

	if *userID != "" {
		token := os.Getenv("CARTCTL_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "CARTCTL_TOKEN is required when -user is set")
			os.Exit(2)
		}

		sync.ObserveIdentity(ctx, &cartsync.Session{UserID: *userID, Token: token})
		if sync.State() != cartsync.StateAuthenticated {
			fmt.Fprintln(os.Stderr, "could not reach the account cart, working on the local cart")
		}
	}

	if err := run(ctx, sync, lookup, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	sync.Flush(ctx)
}

func run(ctx context.Context, sync *cartsync.Synchronizer, lookup cartsync.ProductLookup, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}

	switch args[0] {
	case "show":

	case "add":
		if len(args) < 2 {
			return errors.New("usage: cartctl add PRODUCT_ID [QTY]")
		}

		qty := 1
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
			qty = n
		}

		if err := addProduct(ctx, sync, lookup, args[1], qty); err != nil {
			return err
		}

	case "set":
		if len(args) < 3 {
			return errors.New("usage: cartctl set PRODUCT_ID QTY")
		}

		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		sync.SetQuantity(args[1], n)

	case "remove":
		if len(args) < 2 {
			return errors.New("usage: cartctl remove PRODUCT_ID")
		}
		sync.Remove(args[1])

	case "clear":
		sync.Clear()

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}

	printCart(sync)

	return nil
}

// addProduct resolves the product through the catalog so the view shows its
// name and price straight away.
func addProduct(ctx context.Context, sync *cartsync.Synchronizer, lookup cartsync.ProductLookup, productID string, qty int) error {
	products, err := lookup.Lookup(ctx, []string{productID})
	if err != nil {
		return fmt.Errorf("product lookup failed: %w", err)
	}

	if len(products) == 0 {
		return fmt.Errorf("product %s is not available", productID)
	}

	sync.AddLine(products[0], qty)

	return nil
}

func printCart(sync *cartsync.Synchronizer) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "cart (%s)\n", sync.State())
	fmt.Fprintln(tw, "PRODUCT\tNAME\tQTY\tPRICE\tSUBTOTAL")

	for _, line := range sync.View() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\n", line.ProductID, line.Name, line.Quantity, line.Price, line.Subtotal)
	}

	fmt.Fprintf(tw, "\t\t\tTOTAL\t%.2f\n", sync.Total())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
