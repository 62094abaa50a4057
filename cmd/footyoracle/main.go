// FootyOracle - Discord bot and CLI for football match analysis.
// Optimized for minimal resource usage.
package main

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/footyoracle/internal/config"
	"github.com/footyoracle/internal/logger"
)

func init() {
	// Optimize garbage collector for low memory
	// GOGC=50 means GC runs more frequently, using less memory
	debug.SetGCPercent(50)

	// Limit max memory usage (soft limit)
	debug.SetMemoryLimit(50 * 1024 * 1024) // 50MB

	// Use minimal number of OS threads
	runtime.GOMAXPROCS(1)
}

var (
	// Global flags
	healthFlag bool
	verbose    bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "footyoracle",
	Short: "FootyOracle - football analysis and predictions powered by Gemini",
	Long: `FootyOracle answers football questions with grounded analysis,
match predictions and news, and keeps a history of its predictions
so you can mark them right or wrong and track accuracy.

Run without a subcommand to start the Discord bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if healthFlag {
			return nil
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log, err = logger.New(level, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Health check flag for Docker
		if healthFlag {
			return runHealthCheck(cfg.HealthAddr)
		}
		return runBot(cmd, args)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&healthFlag, "health", false, "Run health check")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyMarkCmd)
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runHealthCheck performs a quick health check
func runHealthCheck(addr string) error {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(healthURL(addr))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: %d", resp.StatusCode)
	}
	return nil
}

// healthURL turns a listen address into the local health URL.
func healthURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/health"
}
