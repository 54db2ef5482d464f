// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createTools creates and returns all MCP tool definitions with their handlers.
// Every device tool shares the lazily-authenticated RADKit session, so they are
// all registered as ToolDefinitionWithSession.
//
// The function defines the following tools:
//   - get_device_inventory_names: Lists device names in the service inventory
//   - get_device_attributes: Returns attribute records for one or more devices
//   - exec_cli_commands_in_device: Runs CLI commands and returns raw terminal output
//   - exec_command: Runs CLI commands and returns structured per-command records
//   - snmp_get: Performs SNMP GET queries against one or more devices
//
// Each tool includes proper parameter definitions, descriptions, and default values
// as required by the MCP specification. Parameters documented as accepting "a name
// or a JSON array of names" are normalized by the handlers, so clients can pass
// either form.
func createTools() []ToolDefinitionWithSession {
	return []ToolDefinitionWithSession{
		{
			Tool: mcp.NewTool("get_device_inventory_names",
				mcp.WithDescription("List the names of all devices available in the RADKit service inventory"),
				mcp.WithString("service_serial",
					mcp.Description("RADKit service serial to query (default: the service configured at startup)"),
				),
			),
			Handler: handleGetDeviceInventoryNames,
		},
		{
			Tool: mcp.NewTool("get_device_attributes",
				mcp.WithDescription("Get the full attribute record (host, device type, protocol configuration) for one or more devices"),
				mcp.WithString("target_device",
					mcp.Required(),
					mcp.Description("Device name, or a JSON array of device names"),
				),
				mcp.WithString("service_serial",
					mcp.Description("RADKit service serial to query (default: the service configured at startup)"),
				),
			),
			Handler: handleGetDeviceAttributes,
		},
		{
			Tool: mcp.NewTool("exec_cli_commands_in_device",
				mcp.WithDescription("Execute CLI commands on one or more devices and return the raw terminal output"),
				mcp.WithString("target_device",
					mcp.Required(),
					mcp.Description("Device name, or a JSON array of device names"),
				),
				mcp.WithString("cli_commands",
					mcp.Required(),
					mcp.Description("CLI command, or a JSON array of CLI commands, to run on each device"),
				),
				mcp.WithNumber("timeout",
					mcp.Description("Per-device timeout in seconds (default: server configured timeout)"),
				),
				mcp.WithNumber("max_lines",
					mcp.Description("Maximum output lines per command; 0 means unlimited (default: 0)"),
					mcp.DefaultNumber(0),
				),
				mcp.WithBoolean("reset_before",
					mcp.Description("Reset the terminal session before running the commands (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithBoolean("reset_after",
					mcp.Description("Reset the terminal session after running the commands (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithBoolean("sudo",
					mcp.Description("Run the commands with elevated privileges where the device supports it (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithString("service_serial",
					mcp.Description("RADKit service serial to query (default: the service configured at startup)"),
				),
			),
			Handler: handleExecCLICommands,
		},
		{
			Tool: mcp.NewTool("exec_command",
				mcp.WithDescription("Execute CLI commands on one or more devices and return structured per-command results with status"),
				mcp.WithString("device_name",
					mcp.Required(),
					mcp.Description("Device name, or a JSON array of device names"),
				),
				mcp.WithString("commands",
					mcp.Required(),
					mcp.Description("CLI command, or a JSON array of CLI commands, to run on each device"),
				),
				mcp.WithNumber("timeout",
					mcp.Description("Per-device timeout in seconds (default: server configured timeout)"),
				),
				mcp.WithNumber("max_lines",
					mcp.Description("Maximum output lines per command before truncation (default: 2000)"),
					mcp.DefaultNumber(2000),
				),
				mcp.WithBoolean("reset_before",
					mcp.Description("Reset the terminal session before running the commands (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithBoolean("reset_after",
					mcp.Description("Reset the terminal session after running the commands (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithBoolean("sudo",
					mcp.Description("Run the commands with elevated privileges where the device supports it (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithString("service_serial",
					mcp.Description("RADKit service serial to query (default: the service configured at startup)"),
				),
			),
			Handler: handleExecCommand,
		},
		{
			Tool: mcp.NewTool("snmp_get",
				mcp.WithDescription("Perform SNMP GET queries for one or more OIDs against one or more devices"),
				mcp.WithString("device_name",
					mcp.Required(),
					mcp.Description("Device name, or a JSON array of device names"),
				),
				mcp.WithString("oid",
					mcp.Required(),
					mcp.Description("OID, or a JSON array of OIDs, to query on each device"),
				),
				mcp.WithNumber("timeout",
					mcp.Description("Per-device timeout in seconds (default: 10)"),
					mcp.DefaultNumber(10),
				),
				mcp.WithString("service_serial",
					mcp.Description("RADKit service serial to query (default: the service configured at startup)"),
				),
			),
			Handler: handleSNMPGet,
		},
	}
}
