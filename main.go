// Command rustyworld runs the shared robot world.
//
// It supports three modes:
//  1. "run" (default) – serves the REST API, WebSocket feed and /mcp endpoint
//     while an interactive terminal view drives the tracked robot
//  2. "serve" – runs the HTTP server only
//  3. "stdio-mcp" – runs an MCP stdio server, reusing a running API server or
//     starting an internal one
//
// Settings come from a YAML file (--config) overridden by flags and RUSTY_*
// environment variables. A .env file in the working directory is loaded first.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/rusty-world/game/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Rusty World"
)

// main loads .env, parses the command line and runs the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatalf("%s: %v", AppName, err)
	}
}

// newCommand builds the command tree. Flags are declared on the root and are
// visible to every subcommand.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "rustyworld",
		Usage:   "a shared grid world of tiles and robots",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML settings file",
				Sources: cli.EnvVars("RUSTY_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("RUSTY_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("RUSTY_PORT"),
			},
			&cli.StringFlag{
				Name:    "store",
				Usage:   "snapshot store: file, sqlite or postgres",
				Sources: cli.EnvVars("RUSTY_STORE"),
			},
			&cli.StringFlag{
				Name:    "snapshot",
				Usage:   "snapshot file or SQLite database path",
				Sources: cli.EnvVars("RUSTY_SNAPSHOT"),
			},
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "PostgreSQL connection string for the postgres store",
				Sources: cli.EnvVars("RUSTY_DSN", "DATABASE_URL"),
			},
			&cli.DurationFlag{
				Name:    "autosave",
				Usage:   "save the world periodically (0 disables)",
				Sources: cli.EnvVars("RUSTY_AUTOSAVE"),
			},
			&cli.StringFlag{
				Name:    "journal-dir",
				Usage:   "directory for the compressed change journal (empty disables)",
				Sources: cli.EnvVars("RUSTY_JOURNAL_DIR"),
			},
			&cli.StringFlag{
				Name:    "robot",
				Usage:   "name of the robot driven from the terminal",
				Sources: cli.EnvVars("RUSTY_ROBOT"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "log destination while the terminal view is open",
				Value:   "rustyworld.log",
				Sources: cli.EnvVars("RUSTY_LOG_FILE"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("RUSTY_DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the HTTP server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "serve the world and open the terminal view (default)",
				Action: runAction,
			},
			{
				Name:   "serve",
				Usage:  "serve the REST API, WebSocket feed and /mcp endpoint",
				Action: serveAction,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "run an MCP stdio server",
				Action:  stdioMCPAction,
			},
		},
	}
}

// loadConfig reads the settings file and applies flag overrides
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}

	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("store") {
		cfg.Snapshot.Store = cmd.String("store")
		if !cmd.IsSet("snapshot") {
			cfg.Snapshot.Path = ""
		}
	}
	if cmd.IsSet("snapshot") {
		cfg.Snapshot.Path = cmd.String("snapshot")
	}
	if cmd.IsSet("dsn") {
		cfg.Snapshot.DSN = cmd.String("dsn")
	}
	if cmd.IsSet("autosave") {
		cfg.Snapshot.Autosave = cmd.Duration("autosave")
	}
	if cmd.IsSet("journal-dir") {
		cfg.Journal.Dir = cmd.String("journal-dir")
	}
	if cmd.IsSet("robot") {
		cfg.Robot.Name = cmd.String("robot")
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// tunnelOptions collects the ngrok flags
func tunnelOptions(cmd *cli.Command) TunnelOptions {
	return TunnelOptions{
		Enabled:   cmd.Bool("ngrok"),
		AuthToken: cmd.String("ngrok-auth"),
		Domain:    cmd.String("ngrok-domain"),
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The terminal view owns stdout and stderr from here on
	logFile, err := os.OpenFile(cmd.String("log-file"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	defer log.SetOutput(os.Stderr)

	log.Printf("Starting %s v%s (mode: run)", AppName, Version)

	a, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return a.run(ctx, runOptions{terminal: true, tunnel: tunnelOptions(cmd)})
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Printf("Starting %s v%s (mode: serve)", AppName, Version)

	a, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return a.run(ctx, runOptions{tunnel: tunnelOptions(cmd)})
}

func stdioMCPAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// stdout carries the protocol
	log.SetOutput(os.Stderr)
	log.Printf("Starting %s v%s (mode: stdio-mcp)", AppName, Version)

	return runStdioMCP(ctx, cfg, 2*time.Second)
}
