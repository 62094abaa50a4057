package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/footyoracle/internal/models"
)

// HistoryKey is the slot holding the prediction history.
const HistoryKey = "footy_history_v2"

// ErrNotFound is returned by callers that require a prediction to exist.
var ErrNotFound = errors.New("prediction not found")

// recentFormSize is how many settled outcomes make up the form guide.
const recentFormSize = 5

// HistoryFilter selects a view of the history.
type HistoryFilter string

const (
	FilterAll     HistoryFilter = "all"
	FilterPending HistoryFilter = "pending"
	FilterSettled HistoryFilter = "settled"
)

// Match reports whether m belongs to the view.
func (f HistoryFilter) Match(m models.MatchAnalysis) bool {
	switch f {
	case FilterPending:
		return m.EffectiveOutcome() == models.OutcomePending
	case FilterSettled:
		return m.EffectiveOutcome().Settled()
	}
	return true
}

// Stats summarizes the history.
type Stats struct {
	Total      int              `json:"total"`
	Correct    int              `json:"correct"`
	Incorrect  int              `json:"incorrect"`
	Pending    int              `json:"pending"`
	Accuracy   int              `json:"accuracy"`
	RecentForm []models.Outcome `json:"recentForm"`
}

// ComputeStats derives Stats from entries in store order.
func ComputeStats(entries []models.MatchAnalysis) Stats {
	s := Stats{Total: len(entries), RecentForm: []models.Outcome{}}
	for _, m := range entries {
		switch m.Outcome {
		case models.OutcomeCorrect:
			s.Correct++
		case models.OutcomeIncorrect:
			s.Incorrect++
		default:
			continue
		}
		if len(s.RecentForm) < recentFormSize {
			s.RecentForm = append(s.RecentForm, m.Outcome)
		}
	}
	s.Pending = s.Total - s.Correct - s.Incorrect

	if resolved := s.Correct + s.Incorrect; resolved > 0 {
		s.Accuracy = int(math.Round(float64(s.Correct) / float64(resolved) * 100))
	}
	return s
}

// HistoryStore is the durable, most-recent-first list of predictions.
type HistoryStore struct {
	kv      KV
	key     string
	log     *zap.Logger
	mu      sync.RWMutex
	entries []models.MatchAnalysis
}

// NewHistoryStore creates a store persisted under key in kv.
func NewHistoryStore(kv KV, key string, log *zap.Logger) *HistoryStore {
	if key == "" {
		key = HistoryKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryStore{
		kv:      kv,
		key:     key,
		log:     log,
		entries: []models.MatchAnalysis{},
	}
}

// Load rehydrates the store. Unparseable data is discarded and the history
// starts empty.
func (s *HistoryStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.kv.Get(s.key)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	s.entries = []models.MatchAnalysis{}
	if data == "" {
		return nil
	}

	var entries []models.MatchAnalysis
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		s.log.Error("failed to parse history, starting empty", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	if entries != nil {
		s.entries = entries
	}

	s.log.Info("history loaded", zap.Int("entries", len(s.entries)))
	return nil
}

// Append prepends preds, keeping their received order.
func (s *HistoryStore) Append(preds ...models.MatchAnalysis) error {
	if len(preds) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]models.MatchAnalysis, 0, len(preds)+len(s.entries))
	entries = append(entries, preds...)
	entries = append(entries, s.entries...)

	return s.commitLocked(entries)
}

// UpdateOutcome sets the outcome of the entry with id. It reports false and
// leaves the store untouched when no entry matches. On a save error the
// store keeps the previous outcome.
func (s *HistoryStore) UpdateOutcome(id string, outcome models.Outcome) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		entries := make([]models.MatchAnalysis, len(s.entries))
		copy(entries, s.entries)
		entries[i].Outcome = outcome
		return true, s.commitLocked(entries)
	}
	return false, nil
}

// Clear empties the history. There is no undo.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commitLocked([]models.MatchAnalysis{}); err != nil {
		return err
	}
	s.log.Info("history cleared")
	return nil
}

// Stats computes the current statistics.
func (s *HistoryStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStats(s.entries)
}

// Filter returns a copy of the entries in the view.
func (s *HistoryStore) Filter(f HistoryFilter) []models.MatchAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []models.MatchAnalysis{}
	for _, m := range s.entries {
		if f.Match(m) {
			result = append(result, m)
		}
	}
	return result
}

// All returns a copy of every entry.
func (s *HistoryStore) All() []models.MatchAnalysis {
	return s.Filter(FilterAll)
}

// Get returns the entry with id.
func (s *HistoryStore) Get(id string) (models.MatchAnalysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.entries {
		if m.ID == id {
			return m, true
		}
	}
	return models.MatchAnalysis{}, false
}

// Len returns the number of entries.
func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// commitLocked persists entries, then makes them current. A failed write
// leaves the store as it was.
func (s *HistoryStore) commitLocked(entries []models.MatchAnalysis) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	s.entries = entries
	return nil
}
