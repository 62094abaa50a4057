package ai

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/footyoracle/internal/models"
)

// Client runs message exchanges against the chat session.
type Client struct {
	sessions *SessionManager
	log      *zap.Logger
	newID    func() string
}

// NewClient creates a new analysis client on top of sessions.
func NewClient(sessions *SessionManager, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		sessions: sessions,
		log:      log,
		newID:    uuid.NewString,
	}
}

// Reset starts a new logical conversation.
func (c *Client) Reset() {
	c.sessions.Reset()
}

// SendMessage sends userText, optionally prefixed by systemContext, and maps
// the model's answer onto domain objects. It never fails: every error is
// turned into a reply the chat can show.
func (c *Client) SendMessage(ctx context.Context, userText, systemContext string) Reply {
	message := userText
	if systemContext != "" {
		message = systemContext + contextSeparator + userText
	}

	session, err := c.sessions.GetOrCreate(ctx)
	if err != nil {
		c.log.Error("chat session unavailable", zap.Error(err))
		return systemError(err)
	}

	resp, err := session.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		c.log.Error("gemini chat error", zap.Error(err))
		return systemError(err)
	}

	switch shape := classify(resp).(type) {
	case noCandidates:
		c.log.Warn("gemini returned no candidates")
		return softReply(MsgNoCandidates)
	case blockedReply:
		c.log.Warn("gemini request blocked", zap.String("finish_reason", string(shape.reason)))
		return softReply(fmt.Sprintf(
			"I couldn't analyze that request because it was flagged by safety filters (%s). Please try rephrasing your question.",
			shape.reason))
	case emptyReply:
		c.log.Warn("gemini returned empty text with STOP reason")
		return softReply(MsgEmptyResponse)
	case textReply:
		return c.buildReply(shape.text, shape.candidate)
	case partsReply:
		c.log.Debug("reply assembled from content parts", zap.Int("length", len(shape.text)))
		return c.buildReply(shape.text, shape.candidate)
	default:
		return softReply(MsgEmptyResponse)
	}
}

func (c *Client) buildReply(text string, candidate *genai.Candidate) Reply {
	data := Decode(text)

	reply := Reply{
		Content:     data.Reply,
		Summary:     data.Summary,
		Predictions: make([]models.MatchAnalysis, 0, len(data.Matches)),
		News:        make([]models.NewsItem, 0, len(data.News)),
		Sources:     groundingSources(candidate),
	}
	if reply.Content == "" {
		reply.Content = MsgComplete
	}

	for _, m := range data.Matches {
		m.ID = c.newID()
		m.Outcome = models.OutcomePending
		reply.Predictions = append(reply.Predictions, m)
	}

	for _, n := range data.News {
		n.ID = c.newID()
		reply.News = append(reply.News, n)
	}

	c.log.Info("analysis decoded",
		zap.Int("predictions", len(reply.Predictions)),
		zap.Int("news", len(reply.News)),
		zap.Int("sources", len(reply.Sources)))

	return reply
}

// groundingSources lists the web citations attached to candidate.
func groundingSources(candidate *genai.Candidate) []models.GroundingSource {
	sources := []models.GroundingSource{}
	if candidate == nil || candidate.GroundingMetadata == nil {
		return sources
	}

	for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = hostname(chunk.Web.URI)
		}
		sources = append(sources, models.GroundingSource{
			Title: title,
			URI:   chunk.Web.URI,
		})
	}
	return sources
}

// hostname returns the host of uri, or uri itself when it cannot be parsed.
func hostname(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Hostname() == "" {
		return uri
	}
	return u.Hostname()
}

func systemError(err error) Reply {
	return softReply(fmt.Sprintf("System Error: %v. Please try again.", err))
}
