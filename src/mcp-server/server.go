// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit/session"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/logger"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/mcp-server/templates"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/version"
	"github.com/mark3labs/mcp-go/server"
)

var appVersion = version.Version // default version

// GetVersion returns the current version of the MCP server.
//
// The version is initially set to the default from the version package,
// but can be overridden when calling Run() with a specific version string.
func GetVersion() string {
	return appVersion
}

// Run starts the MCP server with RADKit device access tools.
//
// Run initializes the server with all device tools, resources, and prompts,
// and serves MCP over the configured transport until the client disconnects
// or a shutdown signal arrives.
//
// Parameters:
//   - ver: Version string to set for the server (e.g., "0.1.0")
//
// Configuration:
//   - Loads config from RADKIT_MCP_CONFIG_FILE environment variable
//   - Falls back to default config if environment variable not set
//   - Transport selection via config or MCP_TRANSPORT (stdio, sse, http)
//
// Server Lifecycle:
//  1. Load configuration from environment
//  2. Create the lazy session manager (no authentication yet)
//  3. Set up signal handling for graceful shutdown
//  4. Build MCP server using ServerBuilder pattern
//  5. Serve over the selected transport with context cancellation support
//  6. Tear the session down on every exit path, deleting any credential
//     files that were materialized from the environment
//
// Graceful Shutdown:
//   - Responds to SIGINT (Ctrl+C) and SIGTERM signals
//   - Cancels context to stop the transport
//   - Session teardown runs before Run returns; teardown errors are logged,
//     not escalated
func Run(ver string) error {
	// Set the version for GetVersion
	appVersion = ver

	// Load configuration
	config, err := loadConfig(os.Getenv("RADKIT_MCP_CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Lifecycle logs go to stderr so stdio transport stays clean
	log := logger.NewMCPLogger(os.Stderr, false)

	// Lazy session manager: authentication happens on the first tool call
	// that needs the RADKit service, never at startup.
	mgr := session.NewManager(session.Options{
		UserAgent: "radkit-mcp-server/" + ver,
		Log:       log,
	})
	defer func() {
		if err := mgr.Teardown(); err != nil {
			log.Printf("session teardown: %v", err)
		}
	}()

	// Create tools (called once and reused)
	tools := createTools()

	// Load server instructions with tool information
	instructions, err := loadInstructions(tools)
	if err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create MCP server using ServerBuilder for better testability
	s, err := NewServerBuilder().
		WithConfig(config).
		WithEmbed(templates.MagicEmbed).
		WithVersion(ver).
		WithSessionManager(mgr).
		WithToolsWithSession(tools...).
		WithResources(createResources(mgr)...).
		WithPrompts(createPrompts()...).
		WithInstructions(instructions).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	// Serve over the selected transport with graceful shutdown support
	errChan := make(chan error, 1)
	switch config.Transport.Mode {
	case "sse":
		addr := fmt.Sprintf("%s:%d", config.Transport.Host, config.Transport.Port)
		sseServer := server.NewSSEServer(s)
		log.Printf("serving SSE on %s", addr)
		go func() {
			errChan <- sseServer.Start(addr)
		}()
		defer sseServer.Shutdown(context.Background())
	case "http":
		addr := fmt.Sprintf("%s:%d", config.Transport.Host, config.Transport.Port)
		httpServer := server.NewStreamableHTTPServer(s)
		log.Printf("serving streamable HTTP on %s", addr)
		go func() {
			errChan <- httpServer.Start(addr)
		}()
		defer httpServer.Shutdown(context.Background())
	default: // stdio
		stdioServer := server.NewStdioServer(s)
		go func() {
			errChan <- stdioServer.Listen(ctx, os.Stdin, os.Stdout)
		}()
	}

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		// Graceful shutdown triggered by signal
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}
