// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates provides embedded filesystem access for MCP server template files.
// It offers a reusable abstraction for accessing embedded markdown templates used
// throughout the MCP server, currently the instructions document rendered for
// MCP clients on initialization.
//
// The package provides thread-safe access to embedded files through the [EmbedFS] interface,
// with [MagicEmbed] serving as the default implementation for convenient template access.
//
// Example usage:
//
//	import "github.com/CiscoDevNet/radkit-mcp-server-community/src/mcp-server/templates"
//
//	// Read the MCP server instructions template
//	content, err := templates.MagicEmbed.ReadFile("RADKIT_instructions.md")
//	if err != nil {
//		return fmt.Errorf("failed to read instructions: %w", err)
//	}
//
//	// List all available template files
//	entries, err := templates.MagicEmbed.ReadDir(".")
//	if err != nil {
//		return fmt.Errorf("failed to list templates: %w", err)
//	}
package templates
