package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/multierr"

	"github.com/wricardo/rusty-world/game/config"
	"github.com/wricardo/rusty-world/transport/mcp"
)

// runStdioMCP runs an MCP stdio server. It reuses an API server already
// listening at the configured address; otherwise it serves this process's
// World on a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cfg config.Config, probeTimeout time.Duration) error {
	externalURL := apiBaseURL(cfg)
	log.Printf("Checking for external API server at %s...", externalURL)

	if apiAvailable(externalURL, probeTimeout) {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		log.Println("MCP stdio server ready (using external HTTP server)")
		return serveStdio(ctx, mcp.NewClient(externalURL))
	}

	log.Printf("No external API server found, starting internal HTTP server")

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to get available port: %w", err)
	}
	internalURL := "http://" + listener.Addr().String()
	log.Printf("Starting internal HTTP server on %s for MCP stdio", listener.Addr())

	a, err := newApp(cfg)
	if err != nil {
		listener.Close()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	served := make(chan error, 1)
	go func() {
		served <- a.run(ctx, runOptions{listener: listener})
	}()

	log.Println("MCP stdio server ready (using internal HTTP server)")
	stdioErr := serveStdio(ctx, mcp.NewClient(internalURL))
	cancel()
	return multierr.Append(stdioErr, <-served)
}

func serveStdio(ctx context.Context, client *mcp.Client) error {
	stdio := server.NewStdioServer(client.GetMCPServer())
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiAvailable reports whether a REST API answers at baseURL
func apiAvailable(baseURL string, timeout time.Duration) bool {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
