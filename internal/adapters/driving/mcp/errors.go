// Package mcp provides an MCP (Model Context Protocol) server adapter
// for studyhall. It lets AI assistants query the ingested course
// materials directly.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
