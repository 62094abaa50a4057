package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/footyoracle/internal/models"
)

func TestDecode_WholeJSON(t *testing.T) {
	text := `{"reply":"Arsenal look strong","matches":[{"matchTitle":"Arsenal vs Chelsea","league":"Premier League","stats":["Home Poss: 58%"],"prediction":{"result1X2":"Home Win","correctScore":"2-1","overUnder":"Over 2.5","btts":"Yes","safeBet":"Arsenal or Draw"},"reasoning":"Press beats build-up","confidence":"High"}],"news":[{"title":"Saka fit","summary":"Trained fully.","sourceName":"BBC"}]}`

	got := Decode(text)

	assert.Equal(t, "Arsenal look strong", got.Reply)
	require.Len(t, got.Matches, 1)
	m := got.Matches[0]
	assert.Equal(t, "Arsenal vs Chelsea", m.MatchTitle)
	assert.Equal(t, "Premier League", m.League)
	assert.Equal(t, []string{"Home Poss: 58%"}, m.Stats)
	assert.Equal(t, "Home Win", m.Prediction.Result1X2)
	assert.Equal(t, "Yes", m.Prediction.BTTS)
	assert.Equal(t, models.ConfidenceHigh, m.Confidence)
	assert.Empty(t, m.ID, "ids are assigned by the pipeline, not the decoder")
	assert.Empty(t, m.Outcome)
	require.Len(t, got.News, 1)
	assert.Equal(t, "BBC", got.News[0].SourceName)
}

func TestDecode_FencedBlockWithProse(t *testing.T) {
	text := "Here you go:\n```json\n{\"reply\":\"ok\",\"matches\":[]}\n```"

	got := Decode(text)

	assert.Equal(t, models.AnalysisResponse{Reply: "ok", Matches: []models.MatchAnalysis{}}, got)
}

func TestDecode_UntaggedFence(t *testing.T) {
	text := "Sure.\n```\n{\"reply\":\"untagged\"}\n```\nAnything else?"

	got := Decode(text)

	assert.Equal(t, "untagged", got.Reply)
}

func TestDecode_BareObjectInProse(t *testing.T) {
	text := `Analysis follows {"reply":"embedded","news":[]} hope that helps`

	got := Decode(text)

	assert.Equal(t, "embedded", got.Reply)
	assert.Equal(t, []models.NewsItem{}, got.News)
}

func TestDecode_MalformedFenceFallsThroughToSpan(t *testing.T) {
	// The fence holds broken JSON; the greedy span still fails because it
	// covers both objects, so the raw text wins.
	text := "```json\n{\"reply\": \n```\n{\"reply\":\"second\"}"

	got := Decode(text)

	assert.Equal(t, models.AnalysisResponse{Reply: text}, got)
}

func TestDecode_TopLevelArray(t *testing.T) {
	text := `[{"matchTitle":"Inter vs Milan","league":"Serie A","stats":[],"prediction":{"result1X2":"Draw"},"reasoning":"Derby","confidence":"Low"}]`

	got := Decode(text)

	assert.Empty(t, got.Reply)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "Inter vs Milan", got.Matches[0].MatchTitle)
}

func TestDecode_Fallback(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"plain prose", "Liverpool should win comfortably."},
		{"broken object", `{"reply": "unterminated`},
		{"object reply", `{"reply": {"text": "hi"}}`},
		{"string matches", `{"reply": "x", "matches": "soon"}`},
		{"array of scalars", `[1, 2]`},
		{"trailing data", `{"reply": "a"} {"reply": "b"}`},
		{"json scalar", `"just a string"`},
		{"json null", "null"},
		{"number", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.text)
			assert.Equal(t, models.AnalysisResponse{Reply: tt.text}, got)
		})
	}
}

func TestDecode_NumericDisplayFields(t *testing.T) {
	text := `{"reply":"Arsenal edge it","matches":[{"matchTitle":"Arsenal vs Chelsea","league":"Premier League","status":"Live","score":2,"minute":45,"stats":["Shots",12],"odds":{"home":2.10,"draw":3.4,"away":4},"prediction":{"result1X2":"Home Win","correctScore":"2-1","overUnder":"Over 2.5","btts":true,"safeBet":"Arsenal or Draw"},"reasoning":"Momentum","confidence":"Medium"}]}`

	got := Decode(text)

	assert.Equal(t, "Arsenal edge it", got.Reply)
	require.Len(t, got.Matches, 1)
	m := got.Matches[0]
	assert.Equal(t, "45", m.Minute)
	assert.Equal(t, "2", m.Score)
	assert.Equal(t, []string{"Shots", "12"}, m.Stats)
	require.NotNil(t, m.Odds)
	assert.Equal(t, models.Odds{Home: "2.10", Draw: "3.4", Away: "4"}, *m.Odds)
	assert.Equal(t, "true", m.Prediction.BTTS)
}

func TestDecode_NumericReply(t *testing.T) {
	assert.Equal(t, "42", Decode(`{"reply": 42}`).Reply)
}

func TestDecode_DropsUnreadableElements(t *testing.T) {
	text := `{"reply":"two fixtures","summary":"busy weekend","matches":[{"matchTitle":"Good","league":"LaLiga"},{"matchTitle":{"home":"Bad"}}],"news":["not an item",{"title":"Kept","summary":"s","sourceName":"AS"}]}`

	got := Decode(text)

	assert.Equal(t, "two fixtures", got.Reply)
	assert.Equal(t, "busy weekend", got.Summary)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "Good", got.Matches[0].MatchTitle)
	require.Len(t, got.News, 1)
	assert.Equal(t, "Kept", got.News[0].Title)
}

func TestDecode_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"no json here",
		`{"reply":"x","matches":[{"matchTitle":"A vs B"}]}`,
		"prefix ```json\n{\"reply\":\"y\"}\n``` suffix",
	}

	for _, in := range inputs {
		assert.Equal(t, Decode(in), Decode(in), "input %q", in)
	}
}
