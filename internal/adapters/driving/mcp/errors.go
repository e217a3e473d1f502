// Package mcp provides an MCP (Model Context Protocol) server adapter for Vera.
// It lets MCP-compatible AI assistants query the knowledge base and ask questions.
package mcp

import "errors"

// ErrMissingAssistantService is returned when the assistant service is not provided.
var ErrMissingAssistantService = errors.New("mcp: assistant service is required")
