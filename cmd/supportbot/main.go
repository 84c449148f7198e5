package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/narvesen/supportbot/internal/botapi"
	"github.com/narvesen/supportbot/internal/classifier"
	"github.com/narvesen/supportbot/internal/engine"
	"github.com/narvesen/supportbot/internal/escalation"
	"github.com/narvesen/supportbot/internal/httpserver"
	"github.com/narvesen/supportbot/internal/ingress"
	"github.com/narvesen/supportbot/internal/janitor"
	"github.com/narvesen/supportbot/internal/metrics"
	"github.com/narvesen/supportbot/internal/profile"
	"github.com/narvesen/supportbot/internal/version"
	"github.com/narvesen/supportbot/internal/workerpool"
	"github.com/narvesen/supportbot/store"
	"github.com/narvesen/supportbot/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "supportbot",
	Short: "Automated Telegram customer-support triage bot.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if !isRunningAsSystemdService() {
			_ = godotenv.Load()
		}
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "postgres")
	viper.SetDefault("port", 28080)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of the process, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address the HTTP control surface binds to")
	rootCmd.PersistentFlags().Int("port", 28080, "port the HTTP control surface listens on")
	rootCmd.PersistentFlags().String("driver", "postgres", "database driver (postgres, sqlite)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (DSN)")

	for _, name := range []string{"mode", "addr", "port", "driver", "dsn"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("supportbot")
	viper.AutomaticEnv()
}

func run() error {
	instanceProfile := &profile.Profile{}
	instanceProfile.FromEnv()
	// CLI flags take precedence over their environment-variable defaults.
	if v := viper.GetString("mode"); v != "" {
		instanceProfile.Mode = v
	}
	if v := viper.GetString("addr"); v != "" {
		instanceProfile.Addr = v
	}
	if p := viper.GetInt("port"); p != 0 {
		instanceProfile.Port = p
	}
	if v := viper.GetString("driver"); v != "" {
		instanceProfile.Driver = v
	}
	if v := viper.GetString("dsn"); v != "" {
		instanceProfile.DSN = v
	}
	if err := instanceProfile.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	st := store.New(dbDriver, instanceProfile)
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	bot, err := botapi.New(instanceProfile.BotToken)
	if err != nil {
		return fmt.Errorf("connect to bot API: %w", err)
	}

	exporter := metrics.New()

	classifierClient := classifier.New(classifier.Config{
		APIKey: instanceProfile.NanoGPTAPIKey,
		Model:  instanceProfile.ClassifierModel,
	}, exporter)

	identities, err := workerpool.LoadIdentities(instanceProfile.SessionsDir, instanceProfile.Mode)
	if err != nil {
		return fmt.Errorf("load worker identities: %w", err)
	}
	proxyCfg, err := workerpool.ParseProxyAuth(instanceProfile.IProyalProxyAuth)
	if err != nil {
		return fmt.Errorf("parse egress proxy config: %w", err)
	}
	pool := workerpool.New(identities, st, proxyCfg, workerpool.DefaultGroupLimit)

	orchestrator := escalation.New(st, bot, pool, instanceProfile, exporter)

	eng := engine.New(engine.Deps{
		Store:      st,
		Bot:        bot,
		Classifier: classifierClient,
		Escalator:  orchestrator,
		Metrics:    exporter,
	})

	router := ingress.New(st, bot)
	janitorSvc := janitor.New(st, pool, exporter)
	httpSvc := httpserver.New(instanceProfile, exporter, router)

	go eng.Run(ctx)
	go func() {
		if err := janitorSvc.Start(ctx); err != nil && ctx.Err() == nil {
			slog.Error("janitor: stopped with error", "error", err)
		}
	}()
	go func() {
		if err := httpSvc.Start(ctx); err != nil {
			slog.Error("httpserver: stopped with error", "error", err)
		}
	}()

	printGreetings(instanceProfile)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, terminationSignals...)

	select {
	case <-sigCh:
		slog.Info("shutdown signal received")
	case <-ctx.Done():
	}

	cancel()
	eng.Stop()
	return nil
}

func printGreetings(p *profile.Profile) {
	fmt.Printf("supportbot %s started\n", version.GetCurrentVersion(p.Mode))
	fmt.Printf("mode=%s driver=%s\n", p.Mode, p.Driver)
	fmt.Printf("control surface listening on %s:%d\n", p.Addr, p.Port)
}

// isRunningAsSystemdService detects whether the process was started by
// systemd, which supplies its own environment instead of a .env file.
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("supportbot exited with error", "error", err)
		os.Exit(1)
	}
}
