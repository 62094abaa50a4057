package ai

import (
	"strings"

	"google.golang.org/genai"

	"github.com/footyoracle/internal/models"
)

// Soft error replies shown in the chat.
const (
	MsgNoCandidates  = "I couldn't generate a response at this moment (No Candidates). Please try asking again."
	MsgEmptyResponse = "I encountered a processing error (Empty Response). This usually happens when the data search is interrupted. Please try again."
	MsgComplete      = "Analysis complete."
)

// Reply is the result of one exchange with the model.
type Reply struct {
	Content     string
	Summary     string
	Predictions []models.MatchAnalysis
	News        []models.NewsItem
	Sources     []models.GroundingSource
}

// Empty reports whether the reply carries no structured data.
func (r Reply) Empty() bool {
	return len(r.Predictions) == 0 && len(r.News) == 0 && len(r.Sources) == 0
}

func softReply(content string) Reply {
	return Reply{
		Content:     content,
		Predictions: []models.MatchAnalysis{},
		News:        []models.NewsItem{},
		Sources:     []models.GroundingSource{},
	}
}

// responseShape is the set of provider response forms the pipeline handles.
type responseShape interface {
	isResponseShape()
}

type (
	// noCandidates: the provider returned no candidate at all.
	noCandidates struct{}

	// textReply: the convenience accessor produced text.
	textReply struct {
		text      string
		candidate *genai.Candidate
	}

	// partsReply: text had to be assembled from content parts.
	partsReply struct {
		text      string
		candidate *genai.Candidate
	}

	// blockedReply: no text and a non-normal finish reason.
	blockedReply struct {
		reason genai.FinishReason
	}

	// emptyReply: no text although generation finished normally.
	emptyReply struct{}
)

func (noCandidates) isResponseShape() {}
func (textReply) isResponseShape()    {}
func (partsReply) isResponseShape()   {}
func (blockedReply) isResponseShape() {}
func (emptyReply) isResponseShape()   {}

// classify maps a provider response onto a responseShape.
func classify(resp *genai.GenerateContentResponse) responseShape {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return noCandidates{}
	}
	candidate := resp.Candidates[0]

	if text := resp.Text(); text != "" {
		return textReply{text: text, candidate: candidate}
	}

	if text := joinParts(candidate); text != "" {
		return partsReply{text: text, candidate: candidate}
	}

	if candidate.FinishReason != "" && candidate.FinishReason != genai.FinishReasonStop {
		return blockedReply{reason: candidate.FinishReason}
	}
	return emptyReply{}
}

func joinParts(candidate *genai.Candidate) string {
	if candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		// Thought summaries are not part of the answer.
		if part != nil && !part.Thought && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
