// Package embeds provides Discord embed builders for FootyOracle.
package embeds

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/footyoracle/internal/models"
	"github.com/footyoracle/internal/storage"
)

// Colors for embeds
const (
	ColorCorrect   = 0x10B981 // Emerald
	ColorIncorrect = 0xF43F5E // Rose
	ColorInfo      = 0x3498DB // Blue
	ColorWarning   = 0xF59E0B // Amber
	ColorPending   = 0x64748B // Slate
)

// Discord limits. maxEmbedTotal applies to one embed and to all embeds of a message.
const (
	maxTitle       = 256
	maxDescription = 4096
	maxFieldName   = 256
	maxFieldValue  = 1024
	maxFields      = 25
	maxEmbedTotal  = 6000

	// minFieldValue is the smallest value worth adding once the budget runs low.
	minFieldValue = 32
)

// Button custom id prefixes.
//
//	outcome:<outcome>:<matchID>          on a prediction card
//	history:<filter>:<outcome>:<matchID> on a history list
const (
	OutcomePrefix = "outcome:"
	HistoryPrefix = "history:"
)

// historyButtonsPerRow keeps an entry's two buttons on the same row.
const historyButtonsPerRow = 4

// Disclaimer is shown under every analysis.
const Disclaimer = "This is advanced football analysis, not guaranteed results. Use responsibly."

// Success creates a success embed.
func Success(message, title string) *discordgo.MessageEmbed {
	if title == "" {
		title = "✅ Done"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       ColorCorrect,
	}
}

// Error creates an error embed.
func Error(message, title string) *discordgo.MessageEmbed {
	if title == "" {
		title = "❌ Error"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       ColorIncorrect,
	}
}

// Warning creates a warning embed.
func Warning(message, title string) *discordgo.MessageEmbed {
	if title == "" {
		title = "⚠️ Warning"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       ColorWarning,
	}
}

// Info creates an info embed.
func Info(message, title string) *discordgo.MessageEmbed {
	if title == "" {
		title = "ℹ️ Info"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       ColorInfo,
	}
}

// Analyzing creates an analyzing status embed.
func Analyzing(query string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⏳ Analyzing...",
		Description: fmt.Sprintf("Crunching the numbers for **%s**...", truncate(query, 200)),
		Color:       ColorInfo,
	}
}

// Reply renders the model message with its news and sources.
func Reply(msg models.Message) []*discordgo.MessageEmbed {
	main := &discordgo.MessageEmbed{
		Title:       "🧠 Footy Oracle",
		Description: truncate(msg.Content, maxDescription),
		Color:       ColorInfo,
	}

	if len(msg.Predictions) > 0 {
		main.Footer = &discordgo.MessageEmbedFooter{Text: Disclaimer}
	}

	if msg.Summary != "" {
		addField(main, "📝 Summary", msg.Summary, false)
	}

	if len(msg.Sources) > 0 {
		var lines []string
		for i, s := range msg.Sources {
			if i >= 5 {
				lines = append(lines, fmt.Sprintf("…and %d more", len(msg.Sources)-i))
				break
			}
			lines = append(lines, fmt.Sprintf("[%s](%s)", s.Title, s.URI))
		}
		addField(main, "🔗 Sources", strings.Join(lines, "\n"), false)
	}

	result := []*discordgo.MessageEmbed{main}
	if news := newsEmbed(msg.News, maxEmbedTotal-embedLength(main)); news != nil {
		result = append(result, news)
	}
	return result
}

// News renders news items, or nil when there are none.
func News(items []models.NewsItem) *discordgo.MessageEmbed {
	return newsEmbed(items, maxEmbedTotal)
}

// newsEmbed renders as many items as fit in budget characters, or nil when
// none do.
func newsEmbed(items []models.NewsItem, budget int) *discordgo.MessageEmbed {
	if len(items) == 0 {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title: "📰 Latest News",
		Color: ColorPending,
	}
	for _, n := range items {
		name := n.Title
		if n.Category != "" {
			name = fmt.Sprintf("[%s] %s", n.Category, n.Title)
		}
		value := n.Summary
		meta := n.SourceName
		if n.PublishedTime != "" {
			meta = fmt.Sprintf("%s · %s", meta, n.PublishedTime)
		}
		if n.URL != "" {
			meta = fmt.Sprintf("[%s](%s)", meta, n.URL)
		}
		if meta != "" {
			value = fmt.Sprintf("%s\n_%s_", value, meta)
		}
		if !addFieldWithin(embed, name, orDash(value), false, budget) {
			break
		}
	}
	if len(embed.Fields) == 0 {
		return nil
	}
	return embed
}

// Prediction renders a match analysis card.
func Prediction(m models.MatchAnalysis) *discordgo.MessageEmbed {
	desc := []string{fmt.Sprintf("🏆 %s", m.League)}
	if m.KickOff != "" {
		desc = append(desc, fmt.Sprintf("🕒 %s", m.KickOff))
	}
	if m.Status != "" {
		status := m.Status
		if m.Score != "" {
			status = fmt.Sprintf("%s · %s", status, m.Score)
		}
		if m.Minute != "" {
			status = fmt.Sprintf("%s (%s)", status, m.Minute)
		}
		desc = append(desc, fmt.Sprintf("📡 %s", status))
	}

	embed := &discordgo.MessageEmbed{
		Title:       truncate(fmt.Sprintf("%s %s", OutcomeEmoji(m.EffectiveOutcome()), m.MatchTitle), maxTitle),
		Description: truncate(strings.Join(desc, " | "), maxDescription),
		Color:       outcomeColor(m.EffectiveOutcome()),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Confidence: %s · ID: %s", orDash(string(m.Confidence)), m.ID),
		},
	}

	p := m.Prediction
	pick := []string{
		fmt.Sprintf("**1X2:** %s", orDash(p.Result1X2)),
		fmt.Sprintf("**Score:** %s", orDash(p.CorrectScore)),
		fmt.Sprintf("**O/U:** %s", orDash(p.OverUnder)),
		fmt.Sprintf("**BTTS:** %s", orDash(p.BTTS)),
		fmt.Sprintf("**Safe bet:** %s", orDash(p.SafeBet)),
	}
	if p.ValueRating != "" {
		pick = append(pick, fmt.Sprintf("**Value:** %s", p.ValueRating))
	}
	addField(embed, "🎯 Prediction", strings.Join(pick, "\n"), false)

	if m.Odds != nil {
		addField(embed, "💰 Odds", fmt.Sprintf("1: `%s` · X: `%s` · 2: `%s`", m.Odds.Home, m.Odds.Draw, m.Odds.Away), false)
	}

	addBullets(embed, "📊 Stats", firstN(m.Stats, 3))
	addBullets(embed, "♟️ Tactical Analysis", m.TacticalAnalysis)
	addBullets(embed, "🔑 Key Stats", m.KeyStats)
	addBullets(embed, "⚠️ Risk Flags", m.RiskFlags)

	if len(m.Scenarios) > 0 {
		var lines []string
		for _, s := range m.Scenarios {
			lines = append(lines, fmt.Sprintf("**%s** (%s): %s", s.Name, s.Probability, s.Description))
		}
		addField(embed, "🔮 Scenarios", strings.Join(lines, "\n"), false)
	}

	if m.Reasoning != "" {
		addField(embed, "🧠 Reasoning", m.Reasoning, false)
	}

	return embed
}

// OutcomeButtons renders the ✅/❌ verification row for a prediction.
func OutcomeButtons(m models.MatchAnalysis) discordgo.ActionsRow {
	correct := discordgo.SecondaryButton
	incorrect := discordgo.SecondaryButton
	switch m.EffectiveOutcome() {
	case models.OutcomeCorrect:
		correct = discordgo.SuccessButton
	case models.OutcomeIncorrect:
		incorrect = discordgo.DangerButton
	}

	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "✅ Correct",
				Style:    correct,
				CustomID: OutcomeCustomID(models.OutcomeCorrect, m.ID),
			},
			discordgo.Button{
				Label:    "❌ Incorrect",
				Style:    incorrect,
				CustomID: OutcomeCustomID(models.OutcomeIncorrect, m.ID),
			},
		},
	}
}

// OutcomeCustomID builds the custom id of an outcome button.
func OutcomeCustomID(outcome models.Outcome, matchID string) string {
	return OutcomePrefix + string(outcome) + ":" + matchID
}

// ParseOutcomeCustomID reverses OutcomeCustomID.
func ParseOutcomeCustomID(customID string) (models.Outcome, string, bool) {
	rest, ok := strings.CutPrefix(customID, OutcomePrefix)
	if !ok {
		return "", "", false
	}
	outcome, matchID, ok := strings.Cut(rest, ":")
	if !ok || matchID == "" || !models.Outcome(outcome).Valid() {
		return "", "", false
	}
	return models.Outcome(outcome), matchID, true
}

// HistoryButtons renders one ✅/❌ pair per entry, numbered like HistoryList.
// Discord allows five rows, so at most ten entries get buttons.
func HistoryButtons(entries []models.MatchAnalysis, filter storage.HistoryFilter) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for n, m := range entries {
		if n >= 10 {
			break
		}
		correct, incorrect := discordgo.SecondaryButton, discordgo.SecondaryButton
		switch m.EffectiveOutcome() {
		case models.OutcomeCorrect:
			correct = discordgo.SuccessButton
		case models.OutcomeIncorrect:
			incorrect = discordgo.DangerButton
		}
		row = append(row,
			discordgo.Button{
				Label:    fmt.Sprintf("✅ %d", n+1),
				Style:    correct,
				CustomID: HistoryCustomID(filter, models.OutcomeCorrect, m.ID),
			},
			discordgo.Button{
				Label:    fmt.Sprintf("❌ %d", n+1),
				Style:    incorrect,
				CustomID: HistoryCustomID(filter, models.OutcomeIncorrect, m.ID),
			},
		)
		if len(row) == historyButtonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

// HistoryCustomID builds the custom id of a history list button.
func HistoryCustomID(filter storage.HistoryFilter, outcome models.Outcome, matchID string) string {
	return HistoryPrefix + string(filter) + ":" + string(outcome) + ":" + matchID
}

// ParseHistoryCustomID reverses HistoryCustomID.
func ParseHistoryCustomID(customID string) (storage.HistoryFilter, models.Outcome, string, bool) {
	rest, ok := strings.CutPrefix(customID, HistoryPrefix)
	if !ok {
		return "", "", "", false
	}
	filter, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return "", "", "", false
	}
	outcome, matchID, ok := ParseOutcomeCustomID(OutcomePrefix + rest)
	if !ok {
		return "", "", "", false
	}
	return ParseFilter(filter), outcome, matchID, true
}

// ParseFilter maps a command option to a history view; unknown values mean all.
func ParseFilter(value string) storage.HistoryFilter {
	switch f := storage.HistoryFilter(value); f {
	case storage.FilterPending, storage.FilterSettled:
		return f
	}
	return storage.FilterAll
}

// ConfirmButtons renders a destructive-action confirmation row.
func ConfirmButtons(confirmID, cancelID, label string) discordgo.ActionsRow {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{Label: label, Style: discordgo.DangerButton, CustomID: confirmID},
			discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: cancelID},
		},
	}
}

// StatsEmbed renders the accuracy dashboard.
func StatsEmbed(s storage.Stats) *discordgo.MessageEmbed {
	color := ColorWarning
	if s.Accuracy >= 50 {
		color = ColorCorrect
	}

	form := "No settled bets yet"
	if len(s.RecentForm) > 0 {
		var icons []string
		for _, o := range s.RecentForm {
			icons = append(icons, OutcomeEmoji(o))
		}
		form = strings.Join(icons, " ")
	}

	return &discordgo.MessageEmbed{
		Title: "📈 Prediction Record",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Win Rate", Value: fmt.Sprintf("**%d%%**\n%s", s.Accuracy, accuracyBar(s.Accuracy)), Inline: true},
			{Name: "Total Predictions", Value: fmt.Sprintf("**%d**", s.Total), Inline: true},
			{Name: "Results", Value: fmt.Sprintf("✅ %d · ❌ %d · ⏳ %d", s.Correct, s.Incorrect, s.Pending), Inline: false},
			{Name: "Recent Form", Value: form, Inline: false},
		},
	}
}

// HistoryList renders one numbered line per shown entry of a filtered view.
// total is the size of the whole view.
func HistoryList(shown []models.MatchAnalysis, filter storage.HistoryFilter, total int) *discordgo.MessageEmbed {
	if len(shown) == 0 {
		msg := "No predictions recorded yet.\nUse `/ask` to get started."
		if filter != storage.FilterAll {
			msg = fmt.Sprintf("No %s predictions found.", filter)
		}
		return Info(msg, "📜 Prediction History")
	}

	var sb strings.Builder
	for n, m := range shown {
		sb.WriteString(fmt.Sprintf("`%d.` %s **%s** (%s): %s\n",
			n+1, OutcomeEmoji(m.EffectiveOutcome()), m.MatchTitle, m.League, orDash(m.Prediction.Result1X2)))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📜 Prediction History (%s)", filter),
		Description: truncate(sb.String(), maxDescription),
		Color:       ColorInfo,
	}
	if total > len(shown) {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Showing %d of %d", len(shown), total)}
	}
	return embed
}

// OutcomeEmoji returns the indicator for an outcome.
func OutcomeEmoji(o models.Outcome) string {
	switch o {
	case models.OutcomeCorrect:
		return "✅"
	case models.OutcomeIncorrect:
		return "❌"
	}
	return "⏳"
}

func outcomeColor(o models.Outcome) int {
	switch o {
	case models.OutcomeCorrect:
		return ColorCorrect
	case models.OutcomeIncorrect:
		return ColorIncorrect
	}
	return ColorPending
}

func accuracyBar(accuracy int) string {
	filled := accuracy / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("🟩", filled) + strings.Repeat("⬛", 10-filled)
}

func addBullets(embed *discordgo.MessageEmbed, name string, items []string) {
	if len(items) == 0 {
		return
	}
	addField(embed, name, "• "+strings.Join(items, "\n• "), false)
}

func addField(embed *discordgo.MessageEmbed, name, value string, inline bool) {
	addFieldWithin(embed, name, value, inline, maxEmbedTotal)
}

// addFieldWithin appends a field while the embed stays within budget
// characters, shortening the value to fit. It reports whether the field was added.
func addFieldWithin(embed *discordgo.MessageEmbed, name, value string, inline bool, budget int) bool {
	if len(embed.Fields) >= maxFields {
		return false
	}
	name = truncate(name, maxFieldName)
	room := budget - embedLength(embed) - runeCount(name)
	if room < minFieldValue {
		return false
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  truncate(value, min(maxFieldValue, room)),
		Inline: inline,
	})
	return true
}

// embedLength counts the characters Discord charges against maxEmbedTotal.
func embedLength(e *discordgo.MessageEmbed) int {
	n := runeCount(e.Title) + runeCount(e.Description)
	if e.Footer != nil {
		n += runeCount(e.Footer.Text)
	}
	if e.Author != nil {
		n += runeCount(e.Author.Name)
	}
	for _, f := range e.Fields {
		n += runeCount(f.Name) + runeCount(f.Value)
	}
	return n
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// truncate cuts s to at most max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
