package bot

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/footyoracle/internal/embeds"
	"github.com/footyoracle/internal/models"
	"github.com/footyoracle/internal/storage"
)

// historyPageSize is how many entries /history shows.
const historyPageSize = 10

// handleHistory handles the /history command.
func (b *Bot) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	filter := embeds.ParseFilter(stringOption(i, "filter"))
	embed, components := b.historyView(filter)
	b.respond(s, i, 0, embed, components...)
}

// historyView renders the first page of a view with its outcome buttons.
func (b *Bot) historyView(filter storage.HistoryFilter) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	entries := b.history.Filter(filter)
	shown := firstPage(entries)
	return embeds.HistoryList(shown, filter, len(entries)), embeds.HistoryButtons(shown, filter)
}

// handleStats handles the /stats command.
func (b *Bot) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.respond(s, i, 0, embeds.StatsEmbed(b.history.Stats()))
}

// handleReset asks for confirmation before resetting the conversation.
func (b *Bot) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := embeds.Warning("This clears the current conversation and starts a new session. Prediction history is kept.", "🔄 Reset conversation?")
	b.respond(s, i, discordgo.MessageFlagsEphemeral, embed, embeds.ConfirmButtons(resetConfirmID, resetCancelID, "Reset"))
}

// handleClearHistory asks for confirmation before deleting the history.
func (b *Bot) handleClearHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	n := b.history.Len()
	if n == 0 {
		b.respond(s, i, discordgo.MessageFlagsEphemeral, embeds.Info("There is no history to clear.", ""))
		return
	}
	embed := embeds.Warning("This permanently deletes every recorded prediction. There is no undo.", "🗑️ Clear history?")
	b.respond(s, i, discordgo.MessageFlagsEphemeral, embed, embeds.ConfirmButtons(clearConfirmID, clearCancelID, "Delete all"))
}

// click is the answer to a button press: either a redraw of the message
// the button belongs to or an ephemeral notice.
type click struct {
	embed      *discordgo.MessageEmbed
	components []discordgo.MessageComponent
	notice     bool
}

func noticeClick(embed *discordgo.MessageEmbed) click {
	return click{embed: embed, notice: true}
}

// answer sends a click result back to Discord.
func (b *Bot) answer(s *discordgo.Session, i *discordgo.InteractionCreate, c click) {
	if c.notice {
		b.respond(s, i, discordgo.MessageFlagsEphemeral, c.embed)
		return
	}
	b.update(s, i, c.embed, c.components...)
}

// handleOutcomeButton settles a prediction from its card.
func (b *Bot) handleOutcomeButton(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	if c, ok := b.outcomeClick(customID, interactionUser(i)); ok {
		b.answer(s, i, c)
	}
}

// outcomeClick settles the card's prediction and redraws the card. Malformed
// ids are ignored.
func (b *Bot) outcomeClick(customID, user string) (click, bool) {
	outcome, matchID, ok := embeds.ParseOutcomeCustomID(customID)
	if !ok {
		b.log.Warn("malformed outcome button", zap.String("custom_id", customID))
		return click{}, false
	}
	if notice := b.settle(matchID, outcome, user); notice != nil {
		return noticeClick(notice), true
	}

	p, ok := b.conversation.FindPrediction(matchID)
	if !ok {
		return noticeClick(embeds.Success("Result saved.", "")), true
	}
	return click{embed: embeds.Prediction(p), components: []discordgo.MessageComponent{embeds.OutcomeButtons(p)}}, true
}

// handleHistoryButton settles a prediction from the history list and redraws it.
func (b *Bot) handleHistoryButton(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	if c, ok := b.historyClick(customID, interactionUser(i)); ok {
		b.answer(s, i, c)
	}
}

// historyClick settles a prediction and redraws the list in the same view.
func (b *Bot) historyClick(customID, user string) (click, bool) {
	filter, outcome, matchID, ok := embeds.ParseHistoryCustomID(customID)
	if !ok {
		b.log.Warn("malformed history button", zap.String("custom_id", customID))
		return click{}, false
	}
	if notice := b.settle(matchID, outcome, user); notice != nil {
		return noticeClick(notice), true
	}

	embed, components := b.historyView(filter)
	return click{embed: embed, components: components}, true
}

// settle records the outcome. It returns the notice to show when that fails.
func (b *Bot) settle(matchID string, outcome models.Outcome, user string) *discordgo.MessageEmbed {
	found, err := b.conversation.UpdateOutcome(matchID, outcome)
	if err != nil {
		b.log.Error("update outcome failed", zap.String("id", matchID), zap.Error(err))
		return embeds.Error("Could not save the result. Please try again.", "")
	}
	if !found {
		return embeds.Warning("This prediction is no longer in the history.", "")
	}

	b.log.Info("outcome recorded",
		zap.String("id", matchID),
		zap.String("outcome", string(outcome)),
		zap.String("user", user))
	return nil
}

func firstPage(entries []models.MatchAnalysis) []models.MatchAnalysis {
	if len(entries) > historyPageSize {
		return entries[:historyPageSize]
	}
	return entries
}
