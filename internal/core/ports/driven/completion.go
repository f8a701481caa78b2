package driven

import "context"

// Content block types exchanged with the completion service.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Stop reasons reported by the completion service.
const (
	StopEndTurn = "end_turn"
	StopToolUse = "tool_use"
)

// ToolDefinition is the machine-readable capability schema advertised
// to the completion service.
type ToolDefinition struct {
	// Name is the tool's unique name.
	Name string

	// Description tells the model when to use the tool.
	Description string

	// InputSchema is the JSON Schema for the tool's arguments.
	InputSchema map[string]any
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	// ID correlates the invocation with its result block.
	ID string

	// Name is the requested tool name.
	Name string

	// Input holds the decoded tool arguments.
	Input map[string]any
}

// ContentBlock is one element of a message's content. Exactly one
// block shape is populated, selected by Type.
type ContentBlock struct {
	Type string

	// Text content (BlockText).
	Text string

	// Tool invocation (BlockToolUse).
	ID    string
	Name  string
	Input map[string]any

	// Tool result (BlockToolResult).
	ToolUseID string
	Content   string
	IsError   bool
}

// Message is a single conversation message in a completion request.
type Message struct {
	// Role is "user" or "assistant".
	Role string

	// Content is the ordered list of content blocks.
	Content []ContentBlock
}

// TextMessage builds a message holding a single text block.
func TextMessage(role, text string) Message {
	return Message{
		Role:    role,
		Content: []ContentBlock{{Type: BlockText, Text: text}},
	}
}

// CompletionRequest is one request to the completion service.
type CompletionRequest struct {
	// System is the system prompt, including any conversation history.
	System string

	// Messages is the conversation so far.
	Messages []Message

	// Tools are the tool definitions advertised for this request.
	// Empty means the model must answer with text only.
	Tools []ToolDefinition

	// MaxTokens caps the generated response length.
	MaxTokens int

	// Temperature controls randomness (0 = deterministic).
	Temperature float64
}

// Completion is the completion service's response: either plain text or
// a request to invoke tools.
type Completion struct {
	// Content is the raw response content, preserved so it can be
	// echoed back verbatim as the assistant turn in a follow-up request.
	Content []ContentBlock

	// StopReason indicates why generation stopped.
	StopReason string
}

// Text returns the concatenated text blocks of the completion.
func (c *Completion) Text() string {
	var out string
	for _, block := range c.Content {
		if block.Type == BlockText {
			out += block.Text
		}
	}
	return out
}

// ToolCalls returns the tool invocations requested by the model, in order.
func (c *Completion) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, block := range c.Content {
		if block.Type == BlockToolUse {
			calls = append(calls, ToolCall{ID: block.ID, Name: block.Name, Input: block.Input})
		}
	}
	return calls
}

// CompletionService is the opaque tool-calling completion endpoint.
// The orchestrator depends only on this request/response shape.
type CompletionService interface {
	// Complete sends one completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// ModelName returns the name of the completion model in use.
	ModelName() string

	// Ping validates the service is reachable without running inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
