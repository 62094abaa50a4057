// Package bot provides the Discord bot core for FootyOracle.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/footyoracle/internal/chat"
	"github.com/footyoracle/internal/embeds"
	"github.com/footyoracle/internal/storage"
)

// Component custom ids for confirmation prompts.
const (
	resetConfirmID = "reset:confirm"
	resetCancelID  = "reset:cancel"
	clearConfirmID = "clear:confirm"
	clearCancelID  = "clear:cancel"
)

// Bot represents the Discord bot.
type Bot struct {
	session      *discordgo.Session
	conversation *chat.Conversation
	history      *storage.HistoryStore
	log          *zap.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	commands     []*discordgo.ApplicationCommand
}

// New creates a new Bot instance around the shared conversation and history.
func New(token string, conversation *chat.Conversation, history *storage.HistoryStore, log *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	ctx, cancel := context.WithCancel(context.Background())
	bot := &Bot{
		session:      session,
		conversation: conversation,
		history:      history,
		log:          log,
		ctx:          ctx,
		cancel:       cancel,
	}

	// Register handlers
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onInteractionCreate)
	session.AddHandler(bot.onMessageCreate)

	return bot, nil
}

// Start connects to Discord and registers the slash commands.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	b.log.Info("connected to Discord")

	if err := b.registerCommands(); err != nil {
		b.log.Error("register commands failed", zap.Error(err))
	}

	return nil
}

// Stop cancels in-flight analyses and closes the gateway connection.
func (b *Bot) Stop() error {
	b.cancel()
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	b.log.Info("bot ready", zap.String("user", event.User.Username))
}

// registerCommands registers all slash commands.
func (b *Bot) registerCommands() error {
	registered := make([]*discordgo.ApplicationCommand, 0, len(commands))
	for _, cmd := range commands {
		c, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			b.log.Warn("command registration failed", zap.String("command", cmd.Name), zap.Error(err))
			continue
		}
		registered = append(registered, c)
	}

	b.commands = registered
	b.log.Info("registered commands", zap.Int("count", len(registered)))
	if len(registered) == 0 {
		return fmt.Errorf("no commands registered")
	}
	return nil
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Check that the bot is alive",
	},
	{
		Name:        "ask",
		Description: "Ask for football analysis and predictions",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "e.g. Predict Arsenal vs Chelsea this weekend",
				Required:    true,
			},
		},
	},
	{
		Name:        "reset",
		Description: "Start a new conversation (history is kept)",
	},
	{
		Name:        "history",
		Description: "Show recorded predictions",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "filter",
				Description: "Which predictions to show",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "All", Value: string(storage.FilterAll)},
					{Name: "Pending", Value: string(storage.FilterPending)},
					{Name: "Settled", Value: string(storage.FilterSettled)},
				},
			},
		},
	},
	{
		Name:        "stats",
		Description: "Show prediction accuracy",
	},
	{
		Name:        "clearhistory",
		Description: "Delete every recorded prediction",
	},
}

// onInteractionCreate routes slash commands and button clicks.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		b.log.Debug("command", zap.String("name", data.Name), zap.String("user", interactionUser(i)))

		switch data.Name {
		case "ping":
			b.handlePing(s, i)
		case "ask":
			b.handleAsk(s, i)
		case "reset":
			b.handleReset(s, i)
		case "history":
			b.handleHistory(s, i)
		case "stats":
			b.handleStats(s, i)
		case "clearhistory":
			b.handleClearHistory(s, i)
		}
	case discordgo.InteractionMessageComponent:
		b.handleComponentInteraction(s, i)
	}
}

// handleComponentInteraction handles button interactions.
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, embeds.OutcomePrefix):
		b.handleOutcomeButton(s, i, customID)
	case strings.HasPrefix(customID, embeds.HistoryPrefix):
		b.handleHistoryButton(s, i, customID)
	case customID == resetConfirmID:
		b.conversation.Reset()
		b.update(s, i, embeds.Success("Started a new conversation. Your prediction history is untouched.", "🔄 Conversation reset"))
	case customID == clearConfirmID:
		if err := b.history.Clear(); err != nil {
			b.log.Error("clear history failed", zap.Error(err))
			b.update(s, i, embeds.Error("Could not clear the history. Please try again.", ""))
			return
		}
		b.update(s, i, embeds.Success("All recorded predictions were deleted.", "🗑️ History cleared"))
	case customID == resetCancelID, customID == clearCancelID:
		b.update(s, i, embeds.Info("Nothing was changed.", "Cancelled"))
	default:
		b.log.Warn("unknown component", zap.String("custom_id", customID))
	}
}

// handlePing handles the /ping command.
func (b *Bot) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	latency := s.HeartbeatLatency().Milliseconds()
	embed := embeds.Success(
		fmt.Sprintf("🏓 Pong! Latency: **%dms**", latency),
		"✅ Bot is running",
	)
	b.respond(s, i, 0, embed)
}

// respond sends an immediate reply.
func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, flags discordgo.MessageFlags, embed *discordgo.MessageEmbed, components ...discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
			Flags:      flags,
		},
	})
	if err != nil {
		b.log.Error("interaction respond failed", zap.Error(err))
	}
}

// update replaces the message a button belongs to. Without components the
// buttons are removed.
func (b *Bot) update(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components ...discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		b.log.Error("interaction update failed", zap.Error(err))
	}
}

// edit replaces a deferred response.
func (b *Bot) edit(s *discordgo.Session, i *discordgo.InteractionCreate, list ...*discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &list,
	}); err != nil {
		b.log.Error("interaction edit failed", zap.Error(err))
	}
}

func interactionUser(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.Username
	case i.User != nil:
		return i.User.Username
	}
	return ""
}

func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}
