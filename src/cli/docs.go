// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the RADKit MCP server.
// It implements a Cobra-based CLI with subcommands for starting the MCP
// server, inspecting the resolved credential profile, and listing the device
// inventory of a RADKit service as a markdown table. The package integrates
// with the logger package for output and honors context cancellation.
package cli
