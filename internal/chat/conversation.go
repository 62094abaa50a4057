// Package chat holds the live conversation: the message log, the exchange
// pipeline and the prediction history it feeds.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/footyoracle/internal/models"
	"github.com/footyoracle/internal/services/ai"
	"github.com/footyoracle/internal/storage"
)

var (
	// ErrBusy is returned when a send is attempted while another is in flight.
	ErrBusy = errors.New("another message is still being analyzed")
	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrInvalidOutcome is returned for outcomes other than pending, correct, incorrect.
	ErrInvalidOutcome = errors.New("invalid outcome")
)

// Analyst performs one exchange with the model. *ai.Client satisfies it.
type Analyst interface {
	SendMessage(ctx context.Context, userText, systemContext string) ai.Reply
	Reset()
}

// Conversation is the single active chat.
type Conversation struct {
	analyst  Analyst
	history  *storage.HistoryStore
	hints    []HintProvider
	log      *zap.Logger
	busy     atomic.Bool
	mu       sync.RWMutex
	messages []models.Message
	now      func() time.Time
	newID    func() string
}

// New creates a conversation writing predictions into history.
func New(analyst Analyst, history *storage.HistoryStore, log *zap.Logger, hints ...HintProvider) *Conversation {
	if log == nil {
		log = zap.NewNop()
	}
	return &Conversation{
		analyst: analyst,
		history: history,
		hints:   hints,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Send posts text to the model and returns the model's message. Only one send
// may be in flight; overlapping calls fail with ErrBusy.
func (c *Conversation) Send(ctx context.Context, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, ErrEmptyMessage
	}
	if !c.busy.CompareAndSwap(false, true) {
		return models.Message{}, ErrBusy
	}
	defer c.busy.Store(false)

	c.append(models.Message{
		ID:        c.newID(),
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: c.now(),
	})

	reply := c.analyst.SendMessage(ctx, text, c.systemContext(ctx))

	msg := models.Message{
		ID:          c.newID(),
		Role:        models.RoleModel,
		Content:     reply.Content,
		Summary:     reply.Summary,
		Predictions: reply.Predictions,
		News:        reply.News,
		Sources:     reply.Sources,
		Timestamp:   c.now(),
	}
	c.append(msg)

	if len(reply.Predictions) > 0 {
		if err := c.history.Append(reply.Predictions...); err != nil {
			c.log.Error("failed to record predictions", zap.Error(err))
		}
	}

	return msg, nil
}

// Busy reports whether a send is in flight.
func (c *Conversation) Busy() bool {
	return c.busy.Load()
}

// Reset clears the message log and starts a new model session. History is kept.
func (c *Conversation) Reset() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()

	c.analyst.Reset()
	c.log.Info("conversation reset")
}

// Messages returns a snapshot of the log.
func (c *Conversation) Messages() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// UpdateOutcome settles (or re-opens) a prediction in history and in every
// message that shows it. It reports whether any copy was found.
func (c *Conversation) UpdateOutcome(matchID string, outcome models.Outcome) (bool, error) {
	if !outcome.Valid() {
		return false, ErrInvalidOutcome
	}

	found, err := c.history.UpdateOutcome(matchID, outcome)
	if err != nil {
		return found, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.messages {
		preds := c.messages[i].Predictions
		for j := range preds {
			if preds[j].ID != matchID {
				continue
			}
			// Copy on write: snapshots handed out by Messages share the old slice.
			updated := make([]models.MatchAnalysis, len(preds))
			copy(updated, preds)
			updated[j].Outcome = outcome
			c.messages[i].Predictions = updated
			found = true
			break
		}
	}

	return found, nil
}

// FindPrediction looks a prediction up in the log first, then in history.
func (c *Conversation) FindPrediction(matchID string) (models.MatchAnalysis, bool) {
	c.mu.RLock()
	for _, msg := range c.messages {
		for _, p := range msg.Predictions {
			if p.ID == matchID {
				c.mu.RUnlock()
				return p, true
			}
		}
	}
	c.mu.RUnlock()
	return c.history.Get(matchID)
}

func (c *Conversation) append(msg models.Message) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
}

func (c *Conversation) systemContext(ctx context.Context) string {
	var parts []string
	for _, hint := range c.hints {
		text, err := hint.Hint(ctx)
		if err != nil {
			c.log.Warn("context hint skipped", zap.String("hint", hint.Name()), zap.Error(err))
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
