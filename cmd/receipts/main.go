// Command receipts is the operator tool for the donation receipt journal.
// It lists receipts whose content-store write failed and replays or drops
// them one at a time. Nothing here runs on a schedule; every replay is an
// explicit human decision.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"youbuidl/internal/chain"
	"youbuidl/internal/donation"
	"youbuidl/internal/infra"
	"youbuidl/internal/journal"
	"youbuidl/internal/orbis"
)

func main() {
	var (
		limitFlag  int
		replayFlag string
		dropFlag   string
	)

	flag.IntVar(&limitFlag, "limit", 50, "maximum receipts to list")
	flag.StringVar(&replayFlag, "replay", "", "receipt ID to replay into the content store")
	flag.StringVar(&dropFlag, "drop", "", "receipt ID to delete without replaying")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "receipts").Logger()
	receipts := journal.New(infra.NewSQLRunner(pool, logger), logger)

	switch {
	case replayFlag != "":
		if err := replay(ctx, receipts, strings.TrimSpace(replayFlag), logger); err != nil {
			exitWithError(err)
		}
	case dropFlag != "":
		if err := receipts.Delete(ctx, strings.TrimSpace(dropFlag)); err != nil {
			exitWithError(err)
		}
		fmt.Println("receipt dropped")
	default:
		if err := list(ctx, receipts, limitFlag); err != nil {
			exitWithError(err)
		}
	}
}

func list(ctx context.Context, receipts *journal.Journal, limit int) error {
	items, err := receipts.ListPending(ctx, limit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no pending receipts")
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func replay(ctx context.Context, receipts *journal.Journal, id string, logger infra.Logger) error {
	items, err := receipts.ListPending(ctx, 500)
	if err != nil {
		return err
	}
	var target *journal.Receipt
	for i := range items {
		if items[i].ID == id {
			target = &items[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no pending receipt with id %s", id)
	}

	store, err := orbis.NewClient(orbis.Options{
		BaseURL: os.Getenv("ORBIS_BASE_URL"),
		APIKey:  os.Getenv("ORBIS_API_KEY"),
		Logger:  &logger,
	})
	if err != nil {
		return err
	}

	recorder := donation.NewRecorder(store, chain.NewRegistry(), logger)
	rec, err := recorder.Replay(ctx, target.Record)
	if err != nil {
		return fmt.Errorf("replay failed, receipt stays pending: %w", err)
	}
	if err := receipts.MarkRecorded(ctx, id, rec.StreamID); err != nil {
		return err
	}
	fmt.Printf("receipt %s recorded as %s\n", id, rec.StreamID)
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
