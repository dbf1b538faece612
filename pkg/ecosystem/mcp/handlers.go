package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ormasoftchile/ngslint/pkg/config"
	"github.com/ormasoftchile/ngslint/pkg/manifest"
	"github.com/ormasoftchile/ngslint/pkg/render"
	"github.com/ormasoftchile/ngslint/pkg/session"
)

// HandleValidate implements the ngslint/validate MCP tool. The response
// is the JSON run result; IsError is set only when the tool itself
// cannot run, never for validation findings.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return errorResult(fmt.Sprintf("stat %s: %v", path, err)), nil
	}

	cfgDir := path
	if !info.IsDir() {
		cfgDir = "."
	}
	cfg, err := config.Load(cfgDir)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	run, err := session.New(cfg).Run([]string{path})
	if err != nil {
		return errorResult(err.Error()), nil
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

// HandleSchema implements the ngslint/schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	schemaType, _ := args["type"].(string)

	var data []byte
	var err error
	switch schemaType {
	case "manifest":
		data, err = manifest.GenerateJSONSchema()
	case "transform":
		data, err = manifest.GenerateTransformJSONSchema()
	default:
		return errorResult(fmt.Sprintf("unknown schema type %q — use 'manifest' or 'transform'", schemaType)), nil
	}
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

// HandleRules implements the ngslint/rules MCP tool. Output is plain
// markdown; agent clients render it themselves.
func HandleRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	kind, _ := args["kind"].(string)

	doc, err := render.RulesDoc(kind)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(doc), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
