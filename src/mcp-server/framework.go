// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit/session"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerConfig holds configuration for the [MCP] server, including version, config, and embedded filesystem.
// It is used to initialize the server with necessary dependencies and settings.
//
// Fields:
//   - Version: The server version string (e.g., "1.0.0")
//   - Config: Pointer to the server configuration containing timeouts and output limits
//   - Embed: Embedded filesystem for static resources like instructions and templates
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerConfig struct {
	Version string
	Config  *Config
	Embed   templates.EmbedFS
}

// ToolHandler defines the signature for tool handlers that matches [MCP] server expectations.
// It processes tool calls and returns results.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP tool call request containing arguments and metadata
//
// Returns:
//   - The tool execution result or an error if the tool failed
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ToolHandlerWithSession defines tool handlers that require access to the RADKit session
// and server configuration. All device-facing tools use this signature: the session
// manager lazily authenticates on first use, and the config supplies default timeouts
// and output limits.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP tool call request containing arguments and metadata
//   - mgr: The session manager providing the authenticated RADKit client
//   - config: Pointer to the server configuration
//
// Returns:
//   - The tool execution result or an error if the tool failed
type ToolHandlerWithSession func(ctx context.Context, request mcp.CallToolRequest, mgr *session.Manager, config *Config) (*mcp.CallToolResult, error)

// ResourceHandler defines the signature for resource handlers that provide static or dynamic resources.
// It processes resource read requests and returns the resource contents.
//
// Resource handlers can return multiple content items for complex resources.
type ResourceHandler = func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)

// PromptHandler defines the signature for prompt handlers that provide predefined prompts.
// It processes prompt requests and returns prompt content with optional arguments.
//
// Prompt handlers are used for guided workflows like device triage or inventory review.
type PromptHandler = func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error)

// ToolDefinition holds a tool definition and its handler.
// It pairs an MCP tool specification with its implementation function.
//
// This struct is used when registering tools that don't require session access.
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
}

// ToolDefinitionWithSession holds a tool definition that requires session and
// configuration access. It pairs an MCP tool specification with a handler that
// receives the session manager and server configuration.
//
// All five device tools are registered through this struct so they share one
// lazily-established RADKit session.
type ToolDefinitionWithSession struct {
	Tool    mcp.Tool
	Handler ToolHandlerWithSession
}

// ServerDependencies holds all dependencies needed to create the MCP server.
// It consolidates all required components for server initialization using the builder pattern.
//
// This struct is used internally by ServerBuilder and should not be instantiated directly.
type ServerDependencies struct {
	Config           *Config
	Embed            templates.EmbedFS
	Version          string
	Instructions     string
	Session          *session.Manager
	Tools            []ToolDefinition
	ToolsWithSession []ToolDefinitionWithSession
	Resources        []server.ServerResource
	Prompts          []server.ServerPrompt
}

// ServerBuilder helps construct the [MCP] server with proper dependencies using a fluent interface.
// It implements the builder pattern to configure and create MCP servers with all required components.
//
// The builder allows chaining configuration methods and provides default implementations
// for common dependencies. Use NewServerBuilder() to create an instance, chain configuration
// methods, and call Build() to create the server.
//
// Example:
//
//	builder := NewServerBuilder().
//	    WithConfig(config).
//	    WithVersion("1.0.0").
//	    WithSessionManager(mgr).
//	    WithDefaultTools()
//	server, err := builder.Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a new server builder with default empty dependencies.
//
// The returned builder has no dependencies configured and should be chained with
// configuration methods before calling Build().
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the server configuration containing timeouts and output limits.
//
// If config is nil, registered tools fall back to their built-in defaults.
func (b *ServerBuilder) WithConfig(config *Config) *ServerBuilder {
	b.deps.Config = config
	return b
}

// WithEmbed sets the embedded filesystem for static resources and templates.
//
// The embedded filesystem is used to serve static resources like the server
// instructions document. If not set, some resources may not be available.
func (b *ServerBuilder) WithEmbed(embed templates.EmbedFS) *ServerBuilder {
	b.deps.Embed = embed
	return b
}

// WithInstructions sets the instructions text sent to MCP clients during
// initialization. Typically rendered from the embedded instructions template
// via loadInstructions.
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// WithVersion sets the server version string used for identification and User-Agent headers.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithSessionManager sets the RADKit session manager shared by all device tools.
//
// The manager is lazy: no authentication happens at build time. The first tool
// call that needs the session triggers credential resolution and login.
func (b *ServerBuilder) WithSessionManager(mgr *session.Manager) *ServerBuilder {
	b.deps.Session = mgr
	return b
}

// WithTools adds tool definitions to the server that don't require session access.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithToolsWithSession adds tool definitions that require session and configuration access.
//
// Handlers registered this way receive the builder's session manager and config
// on every call.
func (b *ServerBuilder) WithToolsWithSession(tools ...ToolDefinitionWithSession) *ServerBuilder {
	b.deps.ToolsWithSession = append(b.deps.ToolsWithSession, tools...)
	return b
}

// WithResources adds static and dynamic resources to the MCP server.
//
// Resources can provide static content (like auth status) or dynamic content
// (like server version). Clients access resources using URIs like "info://version".
func (b *ServerBuilder) WithResources(resources ...server.ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithPrompts adds predefined prompts to the MCP server for guided workflows.
//
// Prompts are used for workflows like device triage or inventory review,
// providing clients with predefined conversation starters and argument schemas.
func (b *ServerBuilder) WithPrompts(prompts ...server.ServerPrompt) *ServerBuilder {
	b.deps.Prompts = append(b.deps.Prompts, prompts...)
	return b
}

// WithDefaultTools adds the default RADKit device tools to the server.
// It automatically registers the standard device tools using createTools.
//
// This includes tools for inventory listing, device attribute lookup, raw and
// structured CLI execution, and SNMP polling.
func (b *ServerBuilder) WithDefaultTools() *ServerBuilder {
	b.deps.ToolsWithSession = append(b.deps.ToolsWithSession, createTools()...)
	return b
}

// Build creates the [MCP] server with all configured dependencies.
// It validates the configuration and constructs a fully configured MCP server instance.
//
// The method registers all tools, resources, and prompts, and returns a
// ready-to-use server. The server will handle MCP protocol communication and
// route requests to the appropriate handlers.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	}
	if b.deps.Instructions != "" {
		opts = append(opts, server.WithInstructions(b.deps.Instructions))
	}

	s := server.NewMCPServer(
		"RADKit Device Access",
		b.deps.Version,
		opts...,
	)

	// Add tools
	for _, tool := range b.deps.Tools {
		s.AddTool(tool.Tool, tool.Handler)
	}

	// Add tools that need the session (wrap the handler)
	for _, tool := range b.deps.ToolsWithSession {
		handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return tool.Handler(ctx, request, b.deps.Session, b.deps.Config)
		}
		s.AddTool(tool.Tool, handler)
	}

	// Add resources
	for _, resource := range b.deps.Resources {
		s.AddResource(resource.Resource, resource.Handler)
	}

	// Add prompts
	for _, prompt := range b.deps.Prompts {
		s.AddPrompt(prompt.Prompt, prompt.Handler)
	}

	return s, nil
}
