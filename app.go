package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/rusty-world/api"
	"github.com/wricardo/rusty-world/game/config"
	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/journal"
	"github.com/wricardo/rusty-world/game/service"
	"github.com/wricardo/rusty-world/game/session"
	"github.com/wricardo/rusty-world/transport/mcp"
	"github.com/wricardo/rusty-world/transport/websocket"
	"github.com/wricardo/rusty-world/tui"
)

// app holds the wired components of one process
type app struct {
	cfg     config.Config
	manager *session.Manager
	hub     *websocket.Hub
	journal *journal.Journal
	service service.WorldService
	api     *api.Server
	mcp     *mcp.Client
}

// newApp opens the snapshot store, restores the World and wires the service
// with its notifiers
func newApp(cfg config.Config) (*app, error) {
	store, err := session.OpenStore(cfg.Snapshot.Store, cfg.Snapshot.Path, cfg.Snapshot.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	manager := session.NewManager(store)
	manager.Load(cfg.NewWorld)
	manager.Write(func(w *engine.World) {
		if cfg.PlaceRobot(w) {
			log.Printf("[ROBOT] placed %s at (%d, %d)", cfg.Robot.Name, cfg.Robot.X, cfg.Robot.Y)
		}
	})

	a := &app{
		cfg:     cfg,
		manager: manager,
		hub:     websocket.NewHub(),
	}

	notifiers := service.Notifiers{a.hub}
	if cfg.Journal.Dir != "" {
		a.journal = journal.New(cfg.Journal.Dir)
		notifiers = append(notifiers, a.journal)
		log.Printf("[JOURNAL] recording changes under %s", cfg.Journal.Dir)
	}

	a.service = service.NewWorldService(manager, notifiers)
	a.api = api.NewServer(a.service, a.hub)
	a.mcp = mcp.NewClient(apiBaseURL(cfg))
	a.api.Handle("/mcp", a.mcp.HTTPHandler())

	return a, nil
}

// apiBaseURL is the URL the MCP client uses to reach this process
func apiBaseURL(cfg config.Config) string {
	host := cfg.Server.Host
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, fmt.Sprint(cfg.Server.Port))
}

type runOptions struct {
	terminal bool
	tunnel   TunnelOptions
	// listener overrides cfg.Addr()
	listener net.Listener
}

// run serves the world until ctx is cancelled or the terminal view quits,
// then saves the World and releases the store
func (a *app) run(ctx context.Context, opts runOptions) (err error) {
	defer func() {
		err = multierr.Append(err, a.shutdown())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listener := opts.listener
	if listener == nil {
		listener, err = net.Listen("tcp", a.cfg.Addr())
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", a.cfg.Addr(), err)
		}
	}
	addr := listener.Addr().String()

	httpServer := &http.Server{
		Handler:      a.api,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.hub.Run(gctx)
	})

	g.Go(func() error {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		// Graceful shutdown with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.manager.Autosave(gctx, a.cfg.Snapshot.Autosave)
	})

	if opts.tunnel.Enabled {
		g.Go(func() error {
			return serveTunnel(gctx, opts.tunnel, a.api)
		})
	}

	if opts.terminal {
		screen, err := tui.Open()
		if err != nil {
			cancel()
			return multierr.Append(fmt.Errorf("failed to open terminal: %w", err), g.Wait())
		}
		g.Go(func() error {
			// Quitting the terminal view stops every other actor
			defer cancel()
			return tui.Run(gctx, screen, a.service, tui.Options{
				Robot:  a.cfg.Robot.Name,
				Redraw: a.cfg.TUI.Redraw,
			})
		})
	}

	err = g.Wait()
	log.Println("Server stopped")
	return err
}

// shutdown saves the World and closes the journal and the store
func (a *app) shutdown() error {
	var err error
	if saveErr := a.manager.Save(); saveErr != nil {
		log.Printf("[SNAPSHOT] final save failed: %v", saveErr)
		err = multierr.Append(err, saveErr)
	} else {
		log.Printf("[SNAPSHOT] world saved")
	}
	if a.journal != nil {
		err = multierr.Append(err, a.journal.Close())
	}
	return multierr.Append(err, a.manager.Close())
}
