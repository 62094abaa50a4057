package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/footyoracle/internal/chat"
	"github.com/footyoracle/internal/config"
	"github.com/footyoracle/internal/services/ai"
	"github.com/footyoracle/internal/services/scraper"
	"github.com/footyoracle/internal/storage"
)

// openHistory opens the configured store and loads the prediction history.
func openHistory(cfg *config.Config, log *zap.Logger) (storage.KV, *storage.HistoryStore, error) {
	kv, err := storage.Open(storage.Options{
		Backend:    cfg.StoreBackend,
		RedisURL:   cfg.RedisURL,
		SQLitePath: cfg.SQLitePath,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	history := storage.NewHistoryStore(kv, cfg.HistoryKey, log)
	if err := history.Load(); err != nil {
		kv.Close()
		return nil, nil, err
	}
	return kv, history, nil
}

// profileFromConfig maps the Gemini settings onto a session profile.
func profileFromConfig(cfg *config.Config) ai.Profile {
	profile := ai.DefaultProfile()
	profile.Model = cfg.GeminiModel
	profile.Temperature = cfg.GeminiTemperature
	profile.MaxOutputTokens = cfg.GeminiMaxOutputTokens
	profile.GoogleSearch = cfg.GeminiGoogleSearch
	return profile
}

// newConversation wires the Gemini pipeline, the hints and the history into a conversation.
func newConversation(ctx context.Context, cfg *config.Config, kv storage.KV, history *storage.HistoryStore, log *zap.Logger) (*chat.Conversation, error) {
	client, err := ai.NewGenAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	sessions := ai.NewSessionManager(profileFromConfig(cfg), ai.GenAIFactory(client), log)
	analyst := ai.NewClient(sessions, log)

	hints := []chat.HintProvider{chat.FormHint{Stats: history}}
	if cfg.HeadlinesEnabled {
		headlines := scraper.NewClient(cfg.HeadlinesURL, cfg.HeadlinesTTL, kv, log)
		hints = append(hints, chat.HeadlinesHint{Source: headlines, Limit: cfg.HeadlinesLimit})
	}

	return chat.New(analyst, history, log, hints...), nil
}
