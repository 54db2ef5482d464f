// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit/session"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/version"
	"github.com/mark3labs/mcp-go/mcp"
)

// handleVersionResource handles requests for version information resource.
// It provides server metadata including version and the registered tool,
// resource, and prompt names.
func handleVersionResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	toolNames := make([]string, 0, 8)
	for _, tool := range createTools() {
		toolNames = append(toolNames, string(tool.Tool.Name))
	}
	promptNames := make([]string, 0, 4)
	for _, prompt := range createPrompts() {
		promptNames = append(promptNames, prompt.Prompt.Name)
	}

	versionInfo := map[string]any{
		"name":    "RADKit Device Access",
		"version": version.Version,
		"type":    "MCP Server",
		"capabilities": map[string]any{
			"tools":     toolNames,
			"prompts":   promptNames,
			"resources": []string{"info://version", "radkit://auth", "config://template"},
		},
	}

	jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "info://version",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// makeAuthResourceHandler returns a handler reporting the RADKit session
// lifecycle state. When the session is established it includes the
// authenticated identity, the credential source, and the default service
// serial. It never includes key material or passwords, and reading it
// never triggers an authentication attempt.
func makeAuthResourceHandler(mgr *session.Manager) ResourceHandler {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		authInfo := map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		if mgr == nil {
			authInfo["state"] = "unavailable"
		} else {
			state := mgr.State()
			authInfo["state"] = state.String()

			// Only read session details when already established; Get on
			// the ready fast path does not dial anything.
			if state == session.StateReady {
				if sess, err := mgr.Get(ctx); err == nil {
					authInfo["identity"] = sess.Identity
					authInfo["credential_source"] = sess.Source.String()
					authInfo["default_service_serial"] = sess.DefaultServiceSerial
				}
			}
		}

		jsonData, err := json.MarshalIndent(authInfo, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal auth status: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "radkit://auth",
				MIMEType: "application/json",
				Text:     string(jsonData),
			},
		}, nil
	}
}

// handleConfigTemplateResource handles requests for the configuration template resource.
// It provides a JSON template showing the expected configuration structure for the MCP server.
func handleConfigTemplateResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exampleConfig := map[string]any{
		"defaults": map[string]any{
			"timeoutSeconds":     30,
			"maxLines":           2000,
			"snmpTimeoutSeconds": 10,
		},
		"transport": map[string]any{
			"mode": "stdio",
			"host": "localhost",
			"port": 8080,
		},
	}

	jsonData, err := json.MarshalIndent(exampleConfig, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "config://template",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
