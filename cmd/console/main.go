// Command console is the desktop admin console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/LunovVladyslav/ws-tutorial/pkg/api"
	"github.com/LunovVladyslav/ws-tutorial/pkg/config"
	"github.com/LunovVladyslav/ws-tutorial/pkg/logging"
	"github.com/LunovVladyslav/ws-tutorial/pkg/version"
	"github.com/LunovVladyslav/ws-tutorial/ui"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (default: ./admin-console.yaml or the user config dir)")
	envFile := flag.String("env", ".env", "dotenv file loaded before reading the config")
	serverURL := flag.String("server", "", "server base URL (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("console " + version.Full())
		return
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", *envFile, err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	opts := cfg.LoggingOptions()
	opts.Output = os.Stdout
	if err := logging.Setup(opts); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}
	slog.Info("starting admin console", "version", version.String(), "server", cfg.ServerURL, "storage", cfg.Storage, "config", cfg.File)

	client, err := api.New(cfg.ServerURL, api.WithUserAgent(version.UserAgent("console")))
	if err != nil {
		slog.Error("create api client", "err", err)
		os.Exit(1)
	}
	app, err := ui.NewApp(cfg, client)
	if err != nil {
		slog.Error("start ui", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	app.Run(ctx)
}
