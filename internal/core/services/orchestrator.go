package services

import (
	"context"
	"fmt"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driven"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driving"
	"github.com/studyhall-labs/studyhall-cli/internal/core/tools"
	"github.com/studyhall-labs/studyhall-cli/internal/logger"
)

// Completion parameters for course question answering. Temperature is
// pinned to zero so answers stay deterministic for identical material.
const (
	answerMaxTokens   = 800
	answerTemperature = 0.0
)

// systemPrompt instructs the model on tool usage and answer style. It
// allows at most one search per query; follow-up rounds run without
// tools, which enforces the cap mechanically as well.
const systemPrompt = `You are an AI assistant specialized in course materials and educational content with access to a search tool for course information and an outline tool for course structure.

Tool Usage:
- Use the search tool only for questions about specific course content or detailed educational materials
- Use the outline tool for questions about a course's structure, its lesson list, or its links
- One tool use per query maximum
- Synthesize tool results into accurate, fact-based responses
- If a tool yields no results, state this clearly without offering alternatives

Response Protocol:
- General knowledge questions: answer using existing knowledge without using tools
- Course-specific questions: use the appropriate tool first, then answer
- No meta-commentary: provide direct answers only, no reasoning process, no tool explanations

All responses must be:
1. Brief, concise and focused - get to the point quickly
2. Educational - maintain instructional value
3. Clear - use accessible language
4. Example-supported - include relevant examples when they aid understanding
Provide only the direct answer to what was asked.`

var _ driving.QueryService = (*QueryService)(nil)

// QueryService orchestrates a question through the completion service:
// it assembles the prompt with conversation history, runs at most one
// tool round, and collects the answer with its citations.
type QueryService struct {
	completion driven.CompletionService
	registry   *tools.Registry
	sessions   *SessionStore
	store      *CourseStore
}

// NewQueryService creates the orchestrator over its collaborators.
func NewQueryService(
	completion driven.CompletionService,
	registry *tools.Registry,
	sessions *SessionStore,
	store *CourseStore,
) *QueryService {
	return &QueryService{
		completion: completion,
		registry:   registry,
		sessions:   sessions,
		store:      store,
	}
}

// Query answers a question about the ingested course materials. An
// empty sessionID starts a fresh conversation; the (possibly minted)
// session ID is returned on the answer for the caller to reuse.
func (s *QueryService) Query(ctx context.Context, query, sessionID string) (*domain.Answer, error) {
	if query == "" {
		return nil, fmt.Errorf("query: %w: empty question", domain.ErrInvalidInput)
	}
	if sessionID == "" {
		sessionID = s.sessions.CreateSession()
		logger.Debug("Minted session %s", sessionID)
	}

	system := systemPrompt
	if history := s.sessions.History(sessionID); history != "" {
		system += "\n\nPrevious conversation:\n" + history
	}

	prompt := fmt.Sprintf("Answer this question about course materials: %s", query)
	messages := []driven.Message{driven.TextMessage("user", prompt)}

	resp, err := s.completion.Complete(ctx, driven.CompletionRequest{
		System:      system,
		Messages:    messages,
		Tools:       s.registry.Definitions(),
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("completion: %w", err)
	}

	if calls := resp.ToolCalls(); len(calls) > 0 {
		// Sources recorded during the round must not survive into the
		// next query, even when the round fails.
		defer s.registry.ResetSources()
		resp, err = s.runToolRound(ctx, system, messages, resp, calls)
		if err != nil {
			return nil, err
		}
	}

	answer := &domain.Answer{
		Text:      resp.Text(),
		Sources:   s.registry.LastSources(),
		SessionID: sessionID,
	}
	s.sessions.AddExchange(sessionID, query, answer.Text)

	return answer, nil
}

// runToolRound executes the requested tool calls and asks for the final
// answer. The follow-up request carries no tool definitions, so the
// model cannot chain further searches.
func (s *QueryService) runToolRound(
	ctx context.Context,
	system string,
	messages []driven.Message,
	resp *driven.Completion,
	calls []driven.ToolCall,
) (*driven.Completion, error) {
	messages = append(messages, driven.Message{Role: "assistant", Content: resp.Content})

	results := make([]driven.ContentBlock, 0, len(calls))
	for _, call := range calls {
		logger.Debug("Tool call: %s(%v)", call.Name, call.Input)
		output, err := s.registry.Execute(ctx, call.Name, call.Input)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", call.Name, err)
		}
		results = append(results, driven.ContentBlock{
			Type:      driven.BlockToolResult,
			ToolUseID: call.ID,
			Content:   output,
		})
	}
	messages = append(messages, driven.Message{Role: "user", Content: results})

	final, err := s.completion.Complete(ctx, driven.CompletionRequest{
		System:      system,
		Messages:    messages,
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("completion after tools: %w", err)
	}
	return final, nil
}

// Analytics reports how many courses are loaded and their titles.
func (s *QueryService) Analytics(ctx context.Context) (*domain.CourseAnalytics, error) {
	titles, err := s.store.ListCourseTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	if titles == nil {
		titles = []string{}
	}
	return &domain.CourseAnalytics{
		TotalCourses: len(titles),
		CourseTitles: titles,
	}, nil
}
