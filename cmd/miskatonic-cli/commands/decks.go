package commands

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"miskatonic-backend/lib/serviceutil"
	"miskatonic-backend/services/decks"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var breakdownInvestigator *string
var breakdownOffset *int
var breakdownLimit *int

func init() {
	breakdownInvestigator = breakdownCmd.Flags().String("investigator", "", "Only include decks for this investigator.")
	breakdownOffset = breakdownCmd.Flags().Int("offset", 0, "Number of decks to skip.")
	breakdownLimit = breakdownCmd.Flags().Int("limit", 50, "Maximum number of decks to include.")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(breakdownCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetches every decklist published since the last sync.",
	Run: func(cmd *cobra.Command, args []string) {
		svc := openServices()
		defer svc.db.Close()

		t1 := time.Now()
		result, err := svc.decks.FetchLatestDecklists(cmd.Context())
		if err != nil {
			slog.Warn("some decklists could not be stored", "err", err)
		}
		t2 := time.Now()

		slog.Info("decklist sync complete",
			"days", result.Days,
			"decks", result.Decks,
			"seconds", t2.Sub(t1).Seconds())
	},
}

var deckCmd = &cobra.Command{
	Use:   "deck <id>",
	Short: "Fetches and stores a single published decklist by id.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deckID, err := strconv.Atoi(args[0])
		if err != nil {
			serviceutil.Fatal("invalid deck id", err)
		}

		svc := openServices()
		defer svc.db.Close()

		err = svc.decks.FetchDecklist(cmd.Context(), deckID)
		if err != nil {
			serviceutil.Fatal("failed to fetch decklist", err)
		}
		slog.Info("decklist stored", "deck", deckID)
	},
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <card code>...",
	Short: "Shows which stored decks play the given cards and their total xp.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openServices()
		defer svc.db.Close()

		out, err := svc.decks.DecklistBreakdown(cmd.Context(), decks.BreakdownRequest{
			InvestigatorName: *breakdownInvestigator,
			CardIDs:          args,
			Offset:           *breakdownOffset,
			Limit:            *breakdownLimit,
		})
		if err != nil {
			serviceutil.Fatal("failed to compute breakdown", err)
		}

		deckIDs := make([]int64, 0, len(out))
		for id := range out {
			deckIDs = append(deckIDs, id)
		}
		sort.Slice(deckIDs, func(i, j int) bool { return deckIDs[i] < deckIDs[j] })

		t := newTable()
		t.AppendHeader(table.Row{"Deck", "Investigator", "XP", "Plays"})
		for _, id := range deckIDs {
			breakdown := out[id]
			var plays []string
			for _, code := range args {
				if breakdown.CardPresence[code] {
					plays = append(plays, code)
				}
			}
			t.AppendRow(table.Row{
				id,
				breakdown.InvestigatorName,
				breakdown.DeckXp,
				strings.Join(plays, ", "),
			})
		}
		t.Render()
	},
}
