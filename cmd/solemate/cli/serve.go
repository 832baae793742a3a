package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solemate/solemate/internal/config"
	"github.com/solemate/solemate/internal/server"
	"github.com/solemate/solemate/internal/service"
	"github.com/solemate/solemate/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SoleMate API server",
		Long:  "Start the HTTP server that exposes the catalog, cart, order, and account APIs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, dev bool) error {
	cfg := loadConfig()

	logLevel := slog.LevelInfo
	if dev {
		logLevel = slog.LevelDebug
	} else if cfg.Logging.Level == "debug" {
		logLevel = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(handler)

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	logger.Info("store initialized", "driver", cfg.Database.Driver)

	jwtSecret := cfg.Auth.JWTSecret
	if env := viper.GetString("auth.jwt_secret"); env != "" {
		jwtSecret = env
	}
	if jwtSecret == "" {
		jwtSecret = "solemate-dev-secret-change-me"
		logger.Warn("auth.jwt_secret not set, using development default")
	}
	authSvc := service.NewAuthService(st, jwtSecret, cfg.Auth.TokenTTLDuration())

	hasAdmin, err := st.HasAnyAdmin(context.Background())
	if err != nil {
		logger.Warn("failed to check for admin", "error", err)
	}
	if !hasAdmin {
		logger.Warn("no admin account found - run: solemate admin create")
	}

	srvCfg := server.Config{
		Host:                 host,
		Port:                 port,
		ShutdownTimeout:      cfg.Server.ShutdownTimeoutDuration(),
		CORSOrigins:          cfg.Server.CORSOrigins,
		LoginRatePerMinute:   cfg.Auth.LoginRatePerMinute,
		RequestRatePerMinute: server.DefaultConfig().RequestRatePerMinute,
	}

	srv := server.New(srvCfg, st, authSvc, logger)

	fmt.Printf("→ SoleMate API\n")
	fmt.Printf("→ Listening on http://%s:%d\n", host, port)
	fmt.Printf("→ Health:     http://%s:%d/healthz\n", host, port)
	fmt.Println()

	return srv.ListenAndServe()
}

// loadConfig reads the YAML config file when one is present, otherwise
// returns defaults. Flag and env overrides are applied by the callers via
// viper.
func loadConfig() config.Config {
	path := cfgFile
	if path == "" {
		path = "solemate.yaml"
	}
	if _, err := os.Stat(path); err != nil {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		return config.Default()
	}
	return cfg
}
