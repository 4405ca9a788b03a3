package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"sattva/internal/config"
	"sattva/internal/genai"
	"sattva/internal/logging"
	"sattva/internal/persistence"
	"sattva/internal/schedule"
	"sattva/internal/server"
	"sattva/internal/store"
)

const version = "0.3.0"

type cliOptions struct {
	configFile string
	debug      bool
	port       int
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "sattva",
		Short:         "Coherence companion state daemon",
		Long:          "sattva runs the coherence companion's state core as a local daemon:\nactivity orchestration, session lifecycle, schedules, quests, and a\nWebSocket state feed for UI clients.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Config file (default: sattva-config.yaml in $HOME or .)")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Debug mode")
	rootCmd.PersistentFlags().IntVarP(&opts.port, "port", "p", 0, "Override server port")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log level")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newScoreCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	viper.SetConfigName("sattva-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	return rootCmd
}

// loadConfig resolves the config file through viper's search paths, then
// layers env and flag overrides on top.
func loadConfig(opts *cliOptions) (config.Config, error) {
	path := opts.configFile
	if path == "" {
		if err := viper.ReadInConfig(); err == nil {
			path = viper.ConfigFileUsed()
		}
	}

	var loadOpts []config.Option
	if path != "" {
		loadOpts = append(loadOpts, config.WithFile(path))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return config.Config{}, err
	}

	if opts.port != 0 {
		cfg.ServerPort = opts.port
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func buildPersister(cfg config.Config, logger logging.Logger) (*persistence.Persister, error) {
	kv, err := persistence.NewFileKV(expandHome(cfg.DataDir), cfg.StorageQuota)
	if err != nil {
		return nil, fmt.Errorf("open data dir: %w", err)
	}
	return persistence.NewPersister(kv, logger), nil
}

// buildGenAI returns nil when no API key is configured; the store degrades
// to offline behavior in that case.
func buildGenAI(cfg config.Config, logger logging.Logger) (genai.Client, error) {
	if cfg.GenAIAPIKey == "" {
		logger.Warn("no genai api key configured, AI features disabled")
		return nil, nil
	}
	httpClient := genai.NewHTTPClient(genai.Config{
		BaseURL:    cfg.GenAIBaseURL,
		APIKey:     cfg.GenAIAPIKey,
		Model:      cfg.GenAIModel,
		Timeout:    cfg.GenAITimeout,
		MaxRetries: cfg.GenAIRetries,
	}, logger)
	return genai.NewCachedClient(httpClient, genai.CacheConfig{})
}

func newServeCommand(opts *cliOptions) *cobra.Command {
	var enableCORS bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the state daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger := logging.New(logging.Config{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Output: os.Stderr,
			})

			persister, err := buildPersister(cfg, logger)
			if err != nil {
				return err
			}
			ai, err := buildGenAI(cfg, logger)
			if err != nil {
				return err
			}

			st := store.New(store.Options{
				Persister: persister,
				GenAI:     ai,
				Logger:    logger,
			})

			srv := server.New(server.Config{
				Addr:       cfg.Addr(),
				Debug:      opts.debug,
				EnableCORS: enableCORS,
			}, st, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			poller := schedule.NewPoller(cfg.PollInterval, st.FireDueSchedules, logger)
			poller.Start(ctx)
			defer poller.Stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(srv.Start)
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("sattva stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&enableCORS, "cors", true, "Allow browser UI origins")
	return cmd
}

func newScoreCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Print the current coherence score and recommendation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			persister, err := buildPersister(cfg, logging.Nop())
			if err != nil {
				return err
			}
			st := store.New(store.Options{Persister: persister})
			snap := st.Snapshot()

			fmt.Printf("score: %d\n", snap.Score)
			fmt.Printf("streak: %d day(s), %d points\n", snap.CoherenceStreak, snap.CoherencePoints)
			fmt.Printf("recommended focus: %s (%s)\n",
				snap.Recommendation.MentorName, snap.Recommendation.DimensionLabel)
			return nil
		},
	}
}

func newConfigCommand(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			cfg.GenAIAPIKey = redact(cfg.GenAIAPIKey)
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	})
	return cmd
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sattva %s\n", version)
		},
	}
}
