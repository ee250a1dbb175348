package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"miskatonic-backend/internal/db"
	"miskatonic-backend/lib/arkhamdb"
	"miskatonic-backend/lib/configutil"
	"miskatonic-backend/lib/serviceutil"
	"miskatonic-backend/lib/sqliteutil"
	"miskatonic-backend/services/cards"
	"miskatonic-backend/services/decks"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "miskatonic-cli",
	Short: "miskatonic-cli ingests and inspects arkhamdb card and decklist data.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	Database string `json:"database"`
	ArkhamDB struct {
		BaseURL           string  `json:"base_url"`
		RequestsPerSecond float64 `json:"requests_per_second"`
	} `json:"arkhamdb"`
}

type services struct {
	db    *sql.DB
	cards cards.Service
	decks decks.Service
}

func openServices() services {
	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Database == "" {
		config.Database = "miskatonic.db"
	}

	database, err := sqliteutil.OpenDB(db.Schema, config.Database)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}

	client, err := arkhamdb.NewClient(arkhamdb.ClientOptions{
		BaseURL:           config.ArkhamDB.BaseURL,
		RequestsPerSecond: config.ArkhamDB.RequestsPerSecond,
	})
	if err != nil {
		serviceutil.Fatal("failed to create arkhamdb client", err)
	}

	return services{
		db:    database,
		cards: cards.NewService(database, client),
		decks: decks.NewService(database, client),
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
