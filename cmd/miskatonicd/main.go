package main

import (
	"context"
	"log/slog"

	"miskatonic-backend/internal/db"
	"miskatonic-backend/lib/arkhamdb"
	"miskatonic-backend/lib/configutil"
	"miskatonic-backend/lib/serviceutil"
	"miskatonic-backend/lib/sqliteutil"
	"miskatonic-backend/lib/telemetry"
	"miskatonic-backend/services/cards"
	"miskatonic-backend/services/decks"

	"github.com/robfig/cron/v3"
)

type Config struct {
	Database string `json:"database"`
	ArkhamDB struct {
		BaseURL           string  `json:"base_url"`
		RequestsPerSecond float64 `json:"requests_per_second"`
	} `json:"arkhamdb"`
	Sync struct {
		// cron expression, e.g. "0 3 * * *"
		Schedule string `json:"schedule"`
		// refresh the card pool before each decklist sync
		FetchCards bool `json:"fetch_cards"`
	} `json:"sync"`
}

func runSync(ctx context.Context, config Config, cardSvc cards.Service, deckSvc decks.Service) {
	if config.Sync.FetchCards {
		result, err := cardSvc.FetchCards(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "card pool refresh finished with errors", "err", err)
		}
		slog.InfoContext(ctx, "card pool refreshed",
			"fetched", result.Fetched, "created", result.Created)
	}

	result, err := deckSvc.FetchLatestDecklists(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "decklist sync finished with errors", "err", err)
	}
	slog.InfoContext(ctx, "decklist sync complete",
		"days", result.Days, "decks", result.Decks)
}

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	database, err := sqliteutil.OpenDB(db.Schema, config.Database)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	defer database.Close()

	err = telemetry.SetupFromEnv(ctx, "miskatonicd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	client, err := arkhamdb.NewClient(arkhamdb.ClientOptions{
		BaseURL:           config.ArkhamDB.BaseURL,
		RequestsPerSecond: config.ArkhamDB.RequestsPerSecond,
	})
	if err != nil {
		serviceutil.Fatal("failed to create arkhamdb client", err)
	}

	cardSvc := cards.NewService(database, client)
	deckSvc := decks.NewService(database, client)

	schedule := config.Sync.Schedule
	if schedule == "" {
		schedule = "0 3 * * *"
	}
	scheduler := cron.New()
	_, err = scheduler.AddFunc(schedule, func() {
		runSync(ctx, config, cardSvc, deckSvc)
	})
	if err != nil {
		serviceutil.Fatal("failed to schedule sync", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	slog.InfoContext(ctx, "scheduled decklist sync", "schedule", schedule)
	runSync(ctx, config, cardSvc, deckSvc)

	<-ctx.Done()
}
