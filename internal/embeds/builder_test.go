package embeds

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/footyoracle/internal/models"
	"github.com/footyoracle/internal/storage"
)

func TestOutcomeCustomID_RoundTrip(t *testing.T) {
	id := OutcomeCustomID(models.OutcomeCorrect, "3f2a-11")
	assert.Equal(t, "outcome:correct:3f2a-11", id)

	outcome, matchID, ok := ParseOutcomeCustomID(id)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeCorrect, outcome)
	assert.Equal(t, "3f2a-11", matchID)
}

func TestParseOutcomeCustomID_Rejects(t *testing.T) {
	for _, id := range []string{"", "outcome:", "outcome:correct", "outcome:correct:", "outcome:void:abc", "reset:confirm"} {
		_, _, ok := ParseOutcomeCustomID(id)
		assert.False(t, ok, id)
	}
}

func TestHistoryCustomID_RoundTrip(t *testing.T) {
	id := HistoryCustomID(storage.FilterPending, models.OutcomeIncorrect, "abc")
	assert.Equal(t, "history:pending:incorrect:abc", id)

	filter, outcome, matchID, ok := ParseHistoryCustomID(id)
	require.True(t, ok)
	assert.Equal(t, storage.FilterPending, filter)
	assert.Equal(t, models.OutcomeIncorrect, outcome)
	assert.Equal(t, "abc", matchID)

	_, _, _, ok = ParseHistoryCustomID("history:pending")
	assert.False(t, ok)
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, storage.FilterPending, ParseFilter("pending"))
	assert.Equal(t, storage.FilterSettled, ParseFilter("settled"))
	assert.Equal(t, storage.FilterAll, ParseFilter(""))
	assert.Equal(t, storage.FilterAll, ParseFilter("bogus"))
}

func TestHistoryButtons_PairsPerRow(t *testing.T) {
	var entries []models.MatchAnalysis
	for _, id := range []string{"a", "b", "c"} {
		entries = append(entries, models.MatchAnalysis{ID: id})
	}
	entries[1].Outcome = models.OutcomeCorrect

	rows := HistoryButtons(entries, storage.FilterAll)
	require.Len(t, rows, 2)

	first := rows[0].(discordgo.ActionsRow)
	require.Len(t, first.Components, 4)
	second := first.Components[2].(discordgo.Button)
	assert.Equal(t, "✅ 2", second.Label)
	assert.Equal(t, discordgo.SuccessButton, second.Style)
	assert.Equal(t, "history:all:correct:b", second.CustomID)

	assert.Len(t, rows[1].(discordgo.ActionsRow).Components, 2)
}

func TestHistoryList(t *testing.T) {
	empty := HistoryList(nil, storage.FilterAll, 0)
	assert.Contains(t, empty.Description, "No predictions recorded yet")

	emptyPending := HistoryList(nil, storage.FilterPending, 0)
	assert.Equal(t, "No pending predictions found.", emptyPending.Description)

	shown := []models.MatchAnalysis{{
		ID:         "a",
		MatchTitle: "Arsenal vs Chelsea",
		League:     "Premier League",
		Prediction: models.PredictionDetails{Result1X2: "Home"},
		Outcome:    models.OutcomeIncorrect,
	}}
	list := HistoryList(shown, storage.FilterAll, 12)
	assert.Equal(t, "`1.` ❌ **Arsenal vs Chelsea** (Premier League): Home\n", list.Description)
	require.NotNil(t, list.Footer)
	assert.Equal(t, "Showing 1 of 12", list.Footer.Text)
}

func TestPrediction_PendingCard(t *testing.T) {
	m := models.MatchAnalysis{
		ID:         "x1",
		MatchTitle: "Inter vs Milan",
		League:     "Serie A",
		Stats:      []string{"a", "b", "c", "d"},
		Odds:       &models.Odds{Home: "2.10", Draw: "3.30", Away: "3.60"},
		Confidence: models.ConfidenceHigh,
	}

	embed := Prediction(m)
	assert.Equal(t, "⏳ Inter vs Milan", embed.Title)
	assert.Equal(t, ColorPending, embed.Color)
	assert.Equal(t, "Confidence: High · ID: x1", embed.Footer.Text)

	var stats string
	for _, f := range embed.Fields {
		if f.Name == "📊 Stats" {
			stats = f.Value
		}
	}
	assert.Equal(t, "• a\n• b\n• c", stats, "only the first three stats are shown")
}

func TestReply_SourcesAndNews(t *testing.T) {
	msg := models.Message{
		Content: "Here is the analysis",
		Sources: []models.GroundingSource{{Title: "bbc.com", URI: "https://bbc.com/x"}},
		News:    []models.NewsItem{{Title: "Injury update", Summary: "Saka out", SourceName: "BBC"}},
	}

	out := Reply(msg)
	require.Len(t, out, 2)
	require.Len(t, out[0].Fields, 1)
	assert.Equal(t, "[bbc.com](https://bbc.com/x)", out[0].Fields[0].Value)
	assert.Nil(t, out[0].Footer, "no disclaimer without predictions")
	assert.Equal(t, "Injury update", out[1].Fields[0].Name)

	assert.Len(t, Reply(models.Message{Content: "hi"}), 1)
}

func TestReply_Summary(t *testing.T) {
	out := Reply(models.Message{
		Content: "Weekend preview",
		Summary: "Home sides favoured",
		Sources: []models.GroundingSource{{Title: "bbc.com", URI: "https://bbc.com"}},
	})

	require.Len(t, out[0].Fields, 2)
	assert.Equal(t, "📝 Summary", out[0].Fields[0].Name)
	assert.Equal(t, "Home sides favoured", out[0].Fields[0].Value)
	assert.Equal(t, "🔗 Sources", out[0].Fields[1].Name)
}

func TestStatsEmbed(t *testing.T) {
	embed := StatsEmbed(storage.Stats{
		Total: 6, Correct: 3, Incorrect: 1, Pending: 2, Accuracy: 75,
		RecentForm: []models.Outcome{models.OutcomeCorrect, models.OutcomeIncorrect},
	})

	assert.Equal(t, ColorCorrect, embed.Color)
	assert.Equal(t, "**75%**\n🟩🟩🟩🟩🟩🟩🟩⬛⬛⬛", embed.Fields[0].Value)
	assert.Equal(t, "✅ 3 · ❌ 1 · ⏳ 2", embed.Fields[2].Value)
	assert.Equal(t, "✅ ❌", embed.Fields[3].Value)

	empty := StatsEmbed(storage.Stats{RecentForm: []models.Outcome{}})
	assert.Equal(t, "No settled bets yet", empty.Fields[3].Value)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	got := truncate(strings.Repeat("é", 20), 10)
	assert.Equal(t, 10, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestPrediction_StaysWithinEmbedLimit(t *testing.T) {
	long := strings.Repeat("x", 1000)
	bullets := []string{long, long}
	m := models.MatchAnalysis{
		ID:               "big",
		MatchTitle:       strings.Repeat("Very Long Title ", 40),
		League:           "Premier League",
		Stats:            bullets,
		TacticalAnalysis: bullets,
		KeyStats:         bullets,
		RiskFlags:        bullets,
		Scenarios:        []models.Scenario{{Name: "Chaos", Probability: "10%", Description: long}},
		Prediction:       models.PredictionDetails{Result1X2: long},
		Reasoning:        long,
	}

	embed := Prediction(m)

	assert.LessOrEqual(t, embedLength(embed), maxEmbedTotal)
	assert.LessOrEqual(t, len([]rune(embed.Title)), maxTitle)
	for _, f := range embed.Fields {
		assert.LessOrEqual(t, len([]rune(f.Value)), maxFieldValue)
	}
	assert.Equal(t, "🎯 Prediction", embed.Fields[0].Name, "leading fields are kept")
}

func TestReply_MessageWithinEmbedLimit(t *testing.T) {
	var news []models.NewsItem
	for n := 0; n < 25; n++ {
		news = append(news, models.NewsItem{
			Title:      strings.Repeat("t", 200),
			Summary:    strings.Repeat("s", 900),
			SourceName: "BBC",
		})
	}
	msg := models.Message{
		Content:     strings.Repeat("c", 5000),
		Predictions: []models.MatchAnalysis{{ID: "p"}},
		Sources:     []models.GroundingSource{{Title: "bbc.com", URI: "https://bbc.com"}},
		News:        news,
	}

	out := Reply(msg)

	total := 0
	for _, e := range out {
		total += embedLength(e)
	}
	assert.LessOrEqual(t, total, maxEmbedTotal)
	assert.Equal(t, maxDescription, len([]rune(out[0].Description)))
}

func TestNews_AllFit(t *testing.T) {
	items := []models.NewsItem{{Title: "a", Summary: "b", SourceName: "c"}, {Title: "d", Summary: "e", SourceName: "f"}}
	assert.Len(t, News(items).Fields, 2)
	assert.Nil(t, newsEmbed(items, 10), "no room for any item")
}
