package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server with ngslint tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"ngslint",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("ngslint/validate",
			mcp.WithDescription("Validate an NGSchema onboarding artifact (manifest, transform manifest, KQL or sample data file) or a whole package directory"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the file or package directory")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("ngslint/schema",
			mcp.WithDescription("Export the JSON Schema for a manifest document type"),
			mcp.WithString("type", mcp.Required(), mcp.Description("Schema type: 'manifest' or 'transform'")),
		),
		HandleSchema,
	)

	s.AddTool(
		mcp.NewTool("ngslint/rules",
			mcp.WithDescription("Documentation for ngslint diagnostic kinds"),
			mcp.WithString("kind", mcp.Description("A single diagnostic kind (optional; all kinds when omitted)")),
		),
		HandleRules,
	)

	return s
}
