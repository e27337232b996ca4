package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/converse/internal/profile"
	"github.com/hrygo/converse/internal/version"
	"github.com/hrygo/converse/server"
	"github.com/hrygo/converse/store"
	"github.com/hrygo/converse/store/db"
)

const (
	greetingBanner = `
  ___ ___  _ ____   _____ _ __ ___  ___
 / __/ _ \| '_ \ \ / / _ \ '__/ __|/ _ \
| (_| (_) | | | \ V /  __/ |  \__ \  __/
 \___\___/|_| |_|\_/ \___|_|  |___/\___|
`
)

var (
	rootCmd = &cobra.Command{
		Use:   "converse",
		Short: "A conversation and message persistence service.",
		Run: func(_ *cobra.Command, _ []string) {
			instanceProfile := &profile.Profile{
				Mode:           viper.GetString("mode"),
				Addr:           viper.GetString("addr"),
				Port:           viper.GetInt("port"),
				Data:           viper.GetString("data"),
				Driver:         viper.GetString("driver"),
				DSN:            viper.GetString("dsn"),
				InstanceURL:    viper.GetString("instance-url"),
				RateLimitRPS:   viper.GetInt("rate-limit-rps"),
				RateLimitBurst: viper.GetInt("rate-limit-burst"),
			}
			instanceProfile.Version = version.GetCurrentVersion(instanceProfile.Mode)
			if err := instanceProfile.Validate(); err != nil {
				slog.Error("invalid configuration", slog.String("error", err.Error()))
				return
			}

			ctx, cancel := context.WithCancel(context.Background())
			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				cancel()
				slog.Error("failed to create db driver", slog.String("error", err.Error()))
				return
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			if err := storeInstance.Migrate(ctx); err != nil {
				cancel()
				slog.Error("failed to migrate", slog.String("error", err.Error()))
				return
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				cancel()
				slog.Error("failed to create server", slog.String("error", err.Error()))
				return
			}

			c := make(chan os.Signal, 1)
			// Trigger graceful shutdown on SIGINT or SIGTERM.
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			go func() {
				sig := <-c
				slog.Info("received signal, shutting down", slog.String("signal", sig.String()))
				s.Shutdown(ctx)
				cancel()
			}()

			printGreetings(instanceProfile)

			if err := s.Start(ctx); err != nil {
				if ctx.Err() == nil {
					slog.Error("failed to start server", slog.String("error", err.Error()))
					cancel()
				}
			}

			// Wait for Ctrl+C.
			<-ctx.Done()
		},
	}
)

func init() {
	// Load environment variables from a local .env file when present.
	_ = godotenv.Load()

	viper.SetDefault("mode", "demo")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("rate-limit-rps", 10)
	viper.SetDefault("rate-limit-burst", 20)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("instance-url", "", "the url of your converse instance")
	rootCmd.PersistentFlags().Int("rate-limit-rps", 10, "requests per second allowed per client")
	rootCmd.PersistentFlags().Int("rate-limit-burst", 20, "burst size allowed per client")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("converse")
	// Flag names use dashes, env vars use underscores:
	// rate-limit-rps resolves from CONVERSE_RATE_LIMIT_RPS.
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func printGreetings(profile *profile.Profile) {
	fmt.Print(greetingBanner)
	fmt.Printf("Version %s has been started on port %d\n", profile.Version, profile.Port)
	fmt.Printf("---\nSee more in:\n👉GitHub: %s\n---\n", "https://github.com/hrygo/converse")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
