// Package main provides the ngslint-mcp binary — MCP server for AI agents.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	nmcp "github.com/ormasoftchile/ngslint/pkg/ecosystem/mcp"
)

var version = "dev"

func main() {
	s := nmcp.NewServer(version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
