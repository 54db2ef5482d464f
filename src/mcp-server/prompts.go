// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// createPrompts creates and returns all MCP prompt definitions with their handlers
func createPrompts() []server.ServerPrompt {
	return []server.ServerPrompt{
		{
			Prompt: mcp.NewPrompt("device-triage",
				mcp.WithPromptDescription("Guided health triage workflow for a single network device"),
				mcp.WithArgument("device_name",
					mcp.ArgumentDescription("Name of the device to triage, as listed in the service inventory"),
				),
			),
			Handler: handleDeviceTriagePrompt,
		},
		{
			Prompt: mcp.NewPrompt("inventory-overview",
				mcp.WithPromptDescription("Survey the service inventory and summarize device types and capabilities"),
				mcp.WithArgument("service_serial",
					mcp.ArgumentDescription("RADKit service serial to survey (default: the service configured at startup)"),
				),
			),
			Handler: handleInventoryOverviewPrompt,
		},
		{
			Prompt: mcp.NewPrompt("connectivity-troubleshooting",
				mcp.WithPromptDescription("Troubleshoot reachability between two devices using CLI and SNMP data"),
				mcp.WithArgument("source_device",
					mcp.ArgumentDescription("Device to run diagnostics from"),
				),
				mcp.WithArgument("destination",
					mcp.ArgumentDescription("Destination hostname or IP address to test reachability against"),
				),
			),
			Handler: handleConnectivityTroubleshootingPrompt,
		},
	}
}
