// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// createResources creates all MCP resources served by this server.
//
// Resources include server version information, the current RADKit
// authentication status, and a configuration file template. The auth
// resource reports the session manager's lifecycle state without ever
// triggering an authentication attempt itself.
func createResources(mgr *session.Manager) []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource("info://version", "Server Version",
				mcp.WithResourceDescription("Server version, capabilities, and registered tool set"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleVersionResource,
		},
		{
			Resource: mcp.NewResource("radkit://auth", "Authentication Status",
				mcp.WithResourceDescription("Current RADKit session state, credential source, and default service"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: makeAuthResourceHandler(mgr),
		},
		{
			Resource: mcp.NewResource("config://template", "Configuration Template",
				mcp.WithResourceDescription("Example configuration file showing all supported settings and their defaults"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleConfigTemplateResource,
		},
	}
}
