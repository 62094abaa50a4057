package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/footyoracle/internal/models"
)

func newTestClient(session *fakeSession) *Client {
	factory := &recordingFactory{session: session}
	c := NewClient(NewSessionManager(DefaultProfile(), factory.open, zap.NewNop()), zap.NewNop())
	n := 0
	c.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return c
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func TestSendMessage_FencedReply(t *testing.T) {
	session := &fakeSession{resp: textResponse("Here you go:\n```json\n{\"reply\":\"ok\",\"matches\":[]}\n```")}
	c := newTestClient(session)

	got := c.SendMessage(context.Background(), "predict", "")

	assert.Equal(t, "ok", got.Content)
	assert.Equal(t, []models.MatchAnalysis{}, got.Predictions)
	assert.Equal(t, []models.NewsItem{}, got.News)
	assert.Equal(t, []models.GroundingSource{}, got.Sources)
}

func TestSendMessage_AssignsIDsAndPending(t *testing.T) {
	body := `{"reply":"two fixtures","matches":[{"matchTitle":"A vs B"},{"matchTitle":"C vs D","outcome":"correct"}],"news":[{"title":"N"}]}`
	c := newTestClient(&fakeSession{resp: textResponse(body)})

	got := c.SendMessage(context.Background(), "predict", "")

	require.Len(t, got.Predictions, 2)
	assert.Equal(t, "id-1", got.Predictions[0].ID)
	assert.Equal(t, "id-2", got.Predictions[1].ID)
	for _, p := range got.Predictions {
		assert.Equal(t, models.OutcomePending, p.Outcome)
	}
	require.Len(t, got.News, 1)
	assert.Equal(t, "id-3", got.News[0].ID)
}

func TestSendMessage_CarriesSummary(t *testing.T) {
	c := newTestClient(&fakeSession{resp: textResponse(`{"reply":"ok","summary":"Two home wins"}`)})

	got := c.SendMessage(context.Background(), "predict", "")

	assert.Equal(t, "Two home wins", got.Summary)
}

func TestSendMessage_DefaultContent(t *testing.T) {
	c := newTestClient(&fakeSession{resp: textResponse(`{"matches":[]}`)})

	got := c.SendMessage(context.Background(), "predict", "")

	assert.Equal(t, MsgComplete, got.Content)
}

func TestSendMessage_PlainTextReply(t *testing.T) {
	c := newTestClient(&fakeSession{resp: textResponse("No fixtures today.")})

	got := c.SendMessage(context.Background(), "predict", "")

	assert.Equal(t, "No fixtures today.", got.Content)
	assert.True(t, got.Empty())
}

func TestSendMessage_PrependsContext(t *testing.T) {
	session := &fakeSession{resp: textResponse(`{"reply":"ok"}`)}
	c := newTestClient(session)

	c.SendMessage(context.Background(), "Who wins?", "Form: 3/4 correct")
	c.SendMessage(context.Background(), "And tomorrow?", "")

	require.Len(t, session.sent, 2)
	assert.Equal(t, "Form: 3/4 correct\n\nUser Query: Who wins?", session.sent[0])
	assert.Equal(t, "And tomorrow?", session.sent[1])
}

func TestSendMessage_NoCandidates(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"empty candidates", &genai.GenerateContentResponse{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(&fakeSession{resp: tt.resp})

			got := c.SendMessage(context.Background(), "predict", "")

			assert.Equal(t, MsgNoCandidates, got.Content)
			assert.Empty(t, got.Predictions)
			assert.Empty(t, got.News)
			assert.Empty(t, got.Sources)
		})
	}
}

func TestSendMessage_Blocked(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
	}
	c := newTestClient(&fakeSession{resp: resp})

	got := c.SendMessage(context.Background(), "predict", "")

	assert.Contains(t, got.Content, "SAFETY")
	assert.True(t, got.Empty())
}

func TestSendMessage_EmptyWithStop(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
	c := newTestClient(&fakeSession{resp: resp})

	got := c.SendMessage(context.Background(), "predict", "")

	assert.Equal(t, MsgEmptyResponse, got.Content)
}

func TestSendMessage_TransportError(t *testing.T) {
	c := newTestClient(&fakeSession{err: errors.New("connection reset")})

	got := c.SendMessage(context.Background(), "predict", "")

	assert.Equal(t, "System Error: connection reset. Please try again.", got.Content)
	assert.True(t, got.Empty())
}

func TestSendMessage_SessionError(t *testing.T) {
	factory := &recordingFactory{err: errors.New("bad key")}
	c := NewClient(NewSessionManager(DefaultProfile(), factory.open, nil), nil)

	got := c.SendMessage(context.Background(), "predict", "")

	assert.Contains(t, got.Content, "System Error")
	assert.Contains(t, got.Content, "bad key")
}

func TestSendMessage_GroundingSources(t *testing.T) {
	resp := textResponse(`{"reply":"sourced"}`)
	resp.Candidates[0].GroundingMetadata = &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{URI: "https://www.bbc.co.uk/sport/football/123", Title: "BBC Sport"}},
			{Web: &genai.GroundingChunkWeb{URI: "https://www.skysports.com/football/news"}},
			{Web: &genai.GroundingChunkWeb{Title: "no uri"}},
			{},
		},
	}
	c := newTestClient(&fakeSession{resp: resp})

	got := c.SendMessage(context.Background(), "predict", "")

	assert.Equal(t, []models.GroundingSource{
		{Title: "BBC Sport", URI: "https://www.bbc.co.uk/sport/football/123"},
		{Title: "www.skysports.com", URI: "https://www.skysports.com/football/news"},
	}, got.Sources)
}

func TestClassify(t *testing.T) {
	mixedParts := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking about form", Thought: true},
				{Text: "visible"},
				{Text: ""},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
	}

	thoughtsOnly := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: "planning", Thought: true}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want responseShape
	}{
		{"no candidates", &genai.GenerateContentResponse{}, noCandidates{}},
		{"text", textResponse("hi"), textReply{text: "hi", candidate: textResponse("hi").Candidates[0]}},
		{"thoughts skipped", mixedParts, textReply{text: "visible", candidate: mixedParts.Candidates[0]}},
		{"thoughts only", thoughtsOnly, emptyReply{}},
		{"blocked", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonRecitation}}}, blockedReply{reason: genai.FinishReasonRecitation}},
		{"empty", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, emptyReply{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.resp))
		})
	}
}

func TestJoinParts_SkipsThoughts(t *testing.T) {
	candidate := &genai.Candidate{Content: &genai.Content{Parts: []*genai.Part{
		{Text: "Let me weigh the injuries first.", Thought: true},
		nil,
		{Text: `{"reply":`},
		{Text: `"Derby day"}`},
	}}}

	assert.Equal(t, `{"reply":"Derby day"}`, joinParts(candidate))
	assert.Empty(t, joinParts(&genai.Candidate{}))
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "example.com", hostname("https://example.com/a?b=c"))
	assert.Equal(t, "not a uri", hostname("not a uri"))
}
