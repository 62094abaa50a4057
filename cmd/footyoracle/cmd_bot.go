package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/footyoracle/internal/bot"
	"github.com/footyoracle/pkg/healthcheck"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Discord bot and the health server",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	log.Info("starting FootyOracle", zap.String("model", cfg.GeminiModel), zap.String("store", cfg.StoreBackend))

	kv, history, err := openHistory(cfg, log)
	if err != nil {
		return err
	}
	defer kv.Close()

	conversation, err := newConversation(cmd.Context(), cfg, kv, history, log)
	if err != nil {
		return err
	}

	discordBot, err := bot.New(cfg.DiscordToken, conversation, history, log.Named("bot"))
	if err != nil {
		return err
	}

	// Start health check server (lightweight)
	healthServer := healthcheck.New(cfg.HealthAddr, history.Stats)
	go func() {
		if err := healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server error", zap.Error(err))
		}
	}()

	if err := discordBot.Start(); err != nil {
		return err
	}

	log.Info("FootyOracle running", zap.String("health", cfg.HealthAddr))

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")

	// Graceful shutdown with short timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := healthServer.Stop(ctx); err != nil {
		log.Warn("health server shutdown", zap.Error(err))
	}
	if err := discordBot.Stop(); err != nil {
		log.Warn("discord shutdown", zap.Error(err))
	}

	log.Info("stopped")
	return nil
}
