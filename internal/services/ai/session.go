package ai

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Default profile values.
const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 8192
)

// harmCategories are relaxed together so match talk (derbies, violence on the
// pitch, betting) is not filtered.
var harmCategories = []genai.HarmCategory{
	genai.HarmCategoryHateSpeech,
	genai.HarmCategoryHarassment,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// Profile is the fixed behavior applied to every new chat session.
type Profile struct {
	Model             string
	SystemInstruction string
	GoogleSearch      bool
	Temperature       float32
	MaxOutputTokens   int32
	SafetyThreshold   genai.HarmBlockThreshold
}

// DefaultProfile returns the football analyst profile.
func DefaultProfile() Profile {
	return Profile{
		Model:             DefaultModel,
		SystemInstruction: SystemInstruction,
		GoogleSearch:      true,
		Temperature:       DefaultTemperature,
		MaxOutputTokens:   DefaultMaxOutputTokens,
		SafetyThreshold:   genai.HarmBlockThresholdBlockNone,
	}
}

// GenerateConfig builds the request config for a session.
func (p Profile) GenerateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.Temperature),
		MaxOutputTokens: p.MaxOutputTokens,
	}

	if p.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: p.SystemInstruction}},
		}
	}

	if p.GoogleSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	if p.SafetyThreshold != "" {
		for _, category := range harmCategories {
			cfg.SafetySettings = append(cfg.SafetySettings, &genai.SafetySetting{
				Category:  category,
				Threshold: p.SafetyThreshold,
			})
		}
	}

	return cfg
}

// ChatSession is a live conversation with the remote model. *genai.Chat
// satisfies it.
type ChatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// SessionFactory opens a new chat session for a profile.
type SessionFactory func(ctx context.Context, p Profile) (ChatSession, error)

// GenAIFactory opens sessions through the Gemini chats API.
func GenAIFactory(client *genai.Client) SessionFactory {
	return func(ctx context.Context, p Profile) (ChatSession, error) {
		chat, err := client.Chats.Create(ctx, p.Model, p.GenerateConfig(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat: %w", err)
		}
		return chat, nil
	}
}

// NewGenAIClient creates a Gemini API client.
func NewGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client, nil
}

// SessionManager owns the single active chat session. The session is created
// lazily and discarded by Reset.
type SessionManager struct {
	profile    Profile
	factory    SessionFactory
	log        *zap.Logger
	mu         sync.Mutex
	session    ChatSession
	generation int
}

// NewSessionManager creates a manager that opens sessions with factory.
func NewSessionManager(profile Profile, factory SessionFactory, log *zap.Logger) *SessionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{
		profile: profile,
		factory: factory,
		log:     log,
	}
}

// GetOrCreate returns the active session, opening one if needed.
func (m *SessionManager) GetOrCreate(ctx context.Context) (ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return m.session, nil
	}

	session, err := m.factory(ctx, m.profile)
	if err != nil {
		return nil, err
	}

	m.session = session
	m.generation++
	m.log.Info("chat session created",
		zap.String("model", m.profile.Model),
		zap.Int("generation", m.generation))
	return session, nil
}

// Reset discards the active session. The next GetOrCreate opens a fresh one
// from the same profile.
func (m *SessionManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.log.Info("chat session reset", zap.Int("generation", m.generation))
	}
	m.session = nil
}

// Active reports whether a session is currently open.
func (m *SessionManager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// Generation counts the sessions created so far.
func (m *SessionManager) Generation() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Profile returns the profile sessions are created with.
func (m *SessionManager) Profile() Profile {
	return m.profile
}
