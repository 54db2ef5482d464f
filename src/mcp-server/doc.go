// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server for [RADKit] network device access.
// It implements the Model Context Protocol ([MCP]) server with tools for device
// inventory listing, attribute lookup, CLI command execution, and SNMP polling,
// all sharing a single lazily-authenticated RADKit session.
// The package uses a builder pattern for server construction and supports
// stdio, SSE, and streamable HTTP transports.
//
// [RADKit]: https://radkit.cisco.com
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
