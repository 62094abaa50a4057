package bot

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/footyoracle/internal/chat"
	"github.com/footyoracle/internal/embeds"
	"github.com/footyoracle/internal/models"
)

// handleAsk handles the /ask command.
func (b *Bot) handleAsk(s *discordgo.Session, i *discordgo.InteractionCreate) {
	query := strings.TrimSpace(stringOption(i, "query"))
	if query == "" {
		b.respond(s, i, discordgo.MessageFlagsEphemeral, embeds.Error("Please type a question.", ""))
		return
	}
	if b.conversation.Busy() {
		b.respond(s, i, discordgo.MessageFlagsEphemeral, busyEmbed())
		return
	}

	// Defer interaction (loading state)
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		b.log.Error("defer failed", zap.Error(err))
		return
	}
	b.edit(s, i, embeds.Analyzing(query))

	msg, err := b.conversation.Send(b.ctx, query)
	if err != nil {
		b.edit(s, i, sendErrorEmbed(err))
		return
	}

	b.log.Info("analysis delivered",
		zap.String("user", interactionUser(i)),
		zap.Int("predictions", len(msg.Predictions)),
		zap.Int("news", len(msg.News)),
		zap.Int("sources", len(msg.Sources)))

	b.edit(s, i, embeds.Reply(msg)...)

	for _, p := range msg.Predictions {
		if _, err := s.FollowupMessageCreate(i.Interaction, true, predictionParams(p)); err != nil {
			b.log.Error("prediction followup failed", zap.String("match", p.MatchTitle), zap.Error(err))
		}
	}
}

// onMessageCreate answers messages that mention the bot.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore bot messages
	if m.Author == nil || m.Author.Bot || s.State.User == nil {
		return
	}

	question, ok := stripMention(m.Content, s.State.User.ID)
	if !ok || question == "" {
		return
	}

	if b.conversation.Busy() {
		b.reply(s, m, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{busyEmbed()}})
		return
	}

	// Show typing indicator
	_ = s.ChannelTyping(m.ChannelID)

	msg, err := b.conversation.Send(b.ctx, question)
	if err != nil {
		b.reply(s, m, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{sendErrorEmbed(err)}})
		return
	}

	b.reply(s, m, &discordgo.MessageSend{Embeds: embeds.Reply(msg)})
	for _, p := range msg.Predictions {
		b.reply(s, m, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embeds.Prediction(p)},
			Components: []discordgo.MessageComponent{embeds.OutcomeButtons(p)},
		})
	}
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, send *discordgo.MessageSend) {
	send.Reference = m.Reference()
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, send); err != nil {
		b.log.Error("channel send failed", zap.String("channel", m.ChannelID), zap.Error(err))
	}
}

func predictionParams(p models.MatchAnalysis) *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Embeds:     []*discordgo.MessageEmbed{embeds.Prediction(p)},
		Components: []discordgo.MessageComponent{embeds.OutcomeButtons(p)},
	}
}

func busyEmbed() *discordgo.MessageEmbed {
	return embeds.Warning("I'm still working on the previous question. Try again in a moment.", "⏳ Busy")
}

func sendErrorEmbed(err error) *discordgo.MessageEmbed {
	switch {
	case errors.Is(err, chat.ErrBusy):
		return busyEmbed()
	case errors.Is(err, chat.ErrEmptyMessage):
		return embeds.Error("Please type a question.", "")
	}
	return embeds.Error(err.Error(), "")
}

// stripMention reports whether content starts with a mention of botID and
// returns the remaining text.
func stripMention(content, botID string) (string, bool) {
	content = strings.TrimSpace(content)
	for _, prefix := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if rest, ok := strings.CutPrefix(content, prefix); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}
