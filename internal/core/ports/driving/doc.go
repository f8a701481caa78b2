// Package driving provides interfaces for the application's entry
// points (primary/inbound ports), consumed by the CLI, TUI, and MCP
// adapters.
package driving
