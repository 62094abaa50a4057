package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/footyoracle/internal/embeds"
	"github.com/footyoracle/internal/models"
	"github.com/footyoracle/internal/storage"
)

var (
	historyFilter string
	clearYes      bool
)

// errClearNotConfirmed is returned by "history clear" without --yes.
var errClearNotConfirmed = errors.New("refusing to clear history without --yes")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and settle recorded predictions",
	Long: `List, settle and clear the recorded prediction history.

Subcommands:
  list   - List predictions (--filter all|pending|settled)
  stats  - Show accuracy statistics
  mark   - Mark a prediction correct, incorrect or pending
  clear  - Delete every prediction (requires --yes)`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded predictions",
	RunE:  runHistoryList,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show prediction accuracy",
	RunE:  runHistoryStats,
}

var historyMarkCmd = &cobra.Command{
	Use:   "mark <id> <correct|incorrect|pending>",
	Short: "Set the outcome of a prediction",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryMark,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded prediction",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.PersistentFlags().StringVarP(&historyFilter, "filter", "f", string(storage.FilterAll), "View: all, pending or settled")
	historyClearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deleting the history")
}

// withHistory opens the history for the duration of fn.
func withHistory(fn func(*storage.HistoryStore) error) error {
	if err := cfg.ValidateStorage(); err != nil {
		return err
	}
	kv, history, err := openHistory(cfg, log)
	if err != nil {
		return err
	}
	defer kv.Close()
	return fn(history)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withHistory(func(history *storage.HistoryStore) error {
		printHistory(cmd.OutOrStdout(), history.Filter(embeds.ParseFilter(historyFilter)))
		return nil
	})
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	return withHistory(func(history *storage.HistoryStore) error {
		printStats(cmd.OutOrStdout(), history.Stats())
		return nil
	})
}

func runHistoryMark(cmd *cobra.Command, args []string) error {
	id, outcome := args[0], models.Outcome(args[1])
	if !outcome.Valid() {
		return fmt.Errorf("invalid outcome %q: use correct, incorrect or pending", args[1])
	}

	return withHistory(func(history *storage.HistoryStore) error {
		found, err := history.UpdateOutcome(id, outcome)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%s: %w", id, storage.ErrNotFound)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s marked %s\n", id, outcome)
		return nil
	})
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return errClearNotConfirmed
	}

	return withHistory(func(history *storage.HistoryStore) error {
		n := history.Len()
		if err := history.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d predictions.\n", n)
		return nil
	})
}

func printHistory(w io.Writer, entries []models.MatchAnalysis) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No predictions found.")
		return
	}
	for _, p := range entries {
		fmt.Fprintf(w, "%s %-36s %s [%s] 1X2: %s\n",
			embeds.OutcomeEmoji(p.EffectiveOutcome()), p.ID, p.MatchTitle, p.League, p.Prediction.Result1X2)
	}
}

func printStats(w io.Writer, s storage.Stats) {
	fmt.Fprintf(w, "Total:     %d\n", s.Total)
	fmt.Fprintf(w, "Correct:   %d\n", s.Correct)
	fmt.Fprintf(w, "Incorrect: %d\n", s.Incorrect)
	fmt.Fprintf(w, "Pending:   %d\n", s.Pending)
	fmt.Fprintf(w, "Accuracy:  %d%%\n", s.Accuracy)

	form := ""
	for _, o := range s.RecentForm {
		form += embeds.OutcomeEmoji(o)
	}
	if form == "" {
		form = "-"
	}
	fmt.Fprintf(w, "Form:      %s\n", form)
}
