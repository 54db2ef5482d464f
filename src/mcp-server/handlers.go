// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/mcp-server/templates"
)

// instructionData holds the data used to populate the MCP server instructions template.
type instructionData struct {
	Tools []toolInfo
}

// toolInfo represents information about an MCP tool for template rendering.
type toolInfo struct {
	Name        string
	Description string
}

// loadInstructions renders the embedded instructions template with the
// registered tool set and returns the result for MCP client initialization.
//
// The instructions give MCP clients guidance on credential setup, service
// selection, and how the device tools compose into troubleshooting workflows.
func loadInstructions(tools []ToolDefinitionWithSession) (string, error) {
	templateBytes, err := templates.MagicEmbed.ReadFile("RADKIT_instructions.md")
	if err != nil {
		return "", fmt.Errorf("failed to load MCP server instructions template: %w", err)
	}

	toolInfos := make([]toolInfo, 0, len(tools))
	for _, tool := range tools {
		toolInfos = append(toolInfos, toolInfo{
			Name:        string(tool.Tool.Name),
			Description: tool.Tool.Description,
		})
	}

	tmpl, err := template.New("instructions").Parse(string(templateBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse instructions template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, instructionData{Tools: toolInfos}); err != nil {
		return "", fmt.Errorf("failed to execute instructions template: %w", err)
	}

	return buf.String(), nil
}
