package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/footyoracle/internal/embeds"
	"github.com/footyoracle/internal/models"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a one-off question and print the analysis",
	Long: `Sends a single question to the analyst and prints the reply,
any predictions, news and sources. Predictions are recorded in the
history just like in the Discord bot.

Example:
  footyoracle ask "Predict Liverpool vs Man City on Sunday"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	kv, history, err := openHistory(cfg, log)
	if err != nil {
		return err
	}
	defer kv.Close()

	conversation, err := newConversation(cmd.Context(), cfg, kv, history, log)
	if err != nil {
		return err
	}

	msg, err := conversation.Send(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	printMessage(cmd.OutOrStdout(), msg)
	return nil
}

// printMessage writes a plain-text rendering of a model message.
func printMessage(w io.Writer, msg models.Message) {
	fmt.Fprintln(w, msg.Content)
	if msg.Summary != "" {
		fmt.Fprintf(w, "\nSummary: %s\n", msg.Summary)
	}

	for _, p := range msg.Predictions {
		fmt.Fprintln(w)
		printPrediction(w, p)
	}

	if len(msg.News) > 0 {
		fmt.Fprintln(w, "\nNews:")
		for _, n := range msg.News {
			fmt.Fprintf(w, "  - %s (%s)\n", n.Title, n.SourceName)
		}
	}

	if len(msg.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, s := range msg.Sources {
			fmt.Fprintf(w, "  - %s %s\n", s.Title, s.URI)
		}
	}

	if len(msg.Predictions) > 0 {
		fmt.Fprintf(w, "\n%s\n", embeds.Disclaimer)
	}
}

func printPrediction(w io.Writer, p models.MatchAnalysis) {
	fmt.Fprintf(w, "%s %s [%s]\n", embeds.OutcomeEmoji(p.EffectiveOutcome()), p.MatchTitle, p.League)
	fmt.Fprintf(w, "  1X2: %s | Score: %s | O/U: %s | BTTS: %s\n",
		p.Prediction.Result1X2, p.Prediction.CorrectScore, p.Prediction.OverUnder, p.Prediction.BTTS)
	if p.Prediction.SafeBet != "" {
		fmt.Fprintf(w, "  Safe bet: %s\n", p.Prediction.SafeBet)
	}
	if p.Confidence != "" {
		fmt.Fprintf(w, "  Confidence: %s\n", p.Confidence)
	}
	fmt.Fprintf(w, "  ID: %s\n", p.ID)
}
