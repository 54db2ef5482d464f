// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleDeviceTriagePrompt handles the single-device triage workflow prompt
func handleDeviceTriagePrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	deviceName := request.Params.Arguments["device_name"]

	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(fmt.Sprintf(`I'll help you triage the health of device: %s

Let's start by confirming the device exists and how it can be reached:`, deviceName)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`1. First, look up the device record to confirm its host, type, and which protocols are configured.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "get_device_attributes" tool to retrieve the device's attribute record.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`2. Next, collect baseline state from the device terminal.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "exec_command" tool to run platform-appropriate commands such as "show version", "show interfaces", and "show logging" and review the structured results.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`3. If the device has SNMP configured, cross-check the terminal data with SNMP counters.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "snmp_get" tool with system and interface OIDs (for example 1.3.6.1.2.1.1.3.0 for uptime).`),
		),
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(`4. Summarize the findings: reachability, uptime, interface errors, and recent log events, with recommended next steps for anything abnormal.`),
		),
	}

	return mcp.NewGetPromptResult(
		"Device Health Triage Workflow",
		messages,
	), nil
}

// handleInventoryOverviewPrompt handles the inventory overview prompt
func handleInventoryOverviewPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	serviceSerial := request.Params.Arguments["service_serial"]
	scope := "the default service"
	if serviceSerial != "" {
		scope = fmt.Sprintf("service %s", serviceSerial)
	}

	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(fmt.Sprintf(`I'll survey the device inventory of %s and summarize what is available.`, scope)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "get_device_inventory_names" tool to list every device onboarded in the service.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Then use the "get_device_attributes" tool with the full name list to pull each device's record in one batch.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(`Key things to summarize:
• Device count and breakdown by device type
• Which devices have terminal, NETCONF, SNMP, or HTTP access configured
• Devices with no management protocol configured at all
• Anything unusual, such as duplicate hosts or missing descriptions`),
		),
	}

	return mcp.NewGetPromptResult(
		"Service Inventory Overview",
		messages,
	), nil
}

// handleConnectivityTroubleshootingPrompt handles the reachability troubleshooting prompt
func handleConnectivityTroubleshootingPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sourceDevice := request.Params.Arguments["source_device"]
	destination := request.Params.Arguments["destination"]

	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(fmt.Sprintf(`Troubleshooting reachability from %s to %s.`, sourceDevice, destination)),
		),
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(`Common reachability issues:
• Interface down or errored on the source device
• Missing or incorrect route toward the destination
• Access lists or firewalls dropping the traffic
• ARP or neighbor resolution failures on the last hop`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(fmt.Sprintf(`Use the "exec_command" tool on %s to run "ping %s" and "traceroute %s", then inspect interface and routing state with "show ip interface brief" and "show ip route %s".`, sourceDevice, destination, destination, destination)),
		),
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(`Based on where the path breaks, I'll identify the failing hop and suggest the configuration to inspect next.`),
		),
	}

	return mcp.NewGetPromptResult(
		"Connectivity Troubleshooting Guide",
		messages,
	), nil
}
