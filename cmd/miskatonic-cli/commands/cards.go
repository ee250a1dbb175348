package commands

import (
	"log/slog"
	"strings"
	"time"

	"miskatonic-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCardsCmd)
	rootCmd.AddCommand(cardCmd)
}

var fetchCardsCmd = &cobra.Command{
	Use:   "fetch-cards",
	Short: "Downloads the full player card pool and stores any new cards.",
	Run: func(cmd *cobra.Command, args []string) {
		svc := openServices()
		defer svc.db.Close()

		t1 := time.Now()
		result, err := svc.cards.FetchCards(cmd.Context())
		if err != nil {
			slog.Warn("some cards could not be stored", "err", err)
		}
		t2 := time.Now()

		slog.Info("card pool refreshed",
			"fetched", result.Fetched,
			"created", result.Created,
			"seconds", t2.Sub(t1).Seconds())
	},
}

var cardCmd = &cobra.Command{
	Use:   "card <code>",
	Short: "Shows a single card, fetching it from arkhamdb if unknown.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openServices()
		defer svc.db.Close()

		card, err := svc.cards.CardInfo(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to get card", err)
		}

		factions := make([]string, len(card.Factions))
		for i, f := range card.Factions {
			factions[i] = string(f)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Field", "Value"})
		t.AppendRow(table.Row{"Code", card.Code})
		t.AppendRow(table.Row{"Name", card.Name})
		t.AppendRow(table.Row{"Type", card.TypeName})
		t.AppendRow(table.Row{"Pack", card.PackName})
		t.AppendRow(table.Row{"Factions", strings.Join(factions, ", ")})
		t.AppendRow(table.Row{"Traits", strings.Join(card.Traits, ", ")})
		if card.Xp != nil {
			t.AppendRow(table.Row{"XP", *card.Xp})
		}
		if card.Cost != nil {
			t.AppendRow(table.Row{"Cost", *card.Cost})
		}
		t.Render()
	},
}
