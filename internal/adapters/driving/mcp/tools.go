package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query     string `json:"query" jsonschema:"the question to answer from the course materials"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier for conversational follow-ups (omit to start a new session)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string         `json:"answer"`
	Sources   []SourceOutput `json:"sources,omitempty"`
	SessionID string         `json:"session_id"`
}

// SourceOutput is one citation attached to an answer.
type SourceOutput struct {
	Label string `json:"label"`
	Link  string `json:"link,omitempty"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Path  string `json:"path" jsonschema:"path to a transcript file or a folder of transcripts"`
	Clear bool   `json:"clear,omitempty" jsonschema:"wipe existing courses before ingesting (folders only)"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Courses int `json:"courses"`
	Chunks  int `json:"chunks"`
}

// CatalogInput is the input schema for the catalog tool. It takes no
// arguments.
type CatalogInput struct{}

// CatalogOutput is the output schema for the catalog tool.
type CatalogOutput struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_courses",
		Description: "Answer a question about the ingested course materials, with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_courses",
		Description: "List the ingested courses and their count",
	}, s.handleCatalog)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_transcripts",
			Description: "Ingest a course transcript file or folder into the knowledge base",
		}, s.handleIngest)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Query.Query(ctx, input.Query, input.SessionID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    answer.Text,
		SessionID: answer.SessionID,
	}
	for _, src := range answer.Sources {
		output.Sources = append(output.Sources, SourceOutput{
			Label: src.Label,
			Link:  src.Link,
		})
	}

	return nil, output, nil
}

// handleCatalog handles the catalog tool invocation.
func (s *Server) handleCatalog(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CatalogInput,
) (*mcp.CallToolResult, CatalogOutput, error) {
	analytics, err := s.ports.Query.Analytics(ctx)
	if err != nil {
		return nil, CatalogOutput{}, err
	}
	return nil, CatalogOutput{
		TotalCourses: analytics.TotalCourses,
		CourseTitles: analytics.CourseTitles,
	}, nil
}

// handleIngest handles the ingest tool invocation. A folder path
// ingests every transcript in it; a file path ingests just that file.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if isDir(input.Path) {
		courses, chunks, err := s.ports.Ingest.AddCourseFolder(ctx, input.Path, input.Clear)
		if err != nil {
			return nil, IngestOutput{}, fmt.Errorf("ingesting folder: %w", err)
		}
		return nil, IngestOutput{Courses: courses, Chunks: chunks}, nil
	}

	_, chunks, err := s.ports.Ingest.AddCourseDocument(ctx, input.Path)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("ingesting document: %w", err)
	}
	return nil, IngestOutput{Courses: 1, Chunks: chunks}, nil
}

// isDir reports whether path exists and is a directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
