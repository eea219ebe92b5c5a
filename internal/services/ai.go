package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/agency-project-tracker/internal/constants"
	"github.com/yukikurage/agency-project-tracker/internal/models"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoItemsGenerated     = errors.New("AI did not generate any checklist items")
)

// ChatCompleter is the part of the OpenAI client used by AIService.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client ChatCompleter
}

// BreakdownItem is one suggested step towards delivering a project.
type BreakdownItem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// NewAIService returns nil when no API key is configured.
func NewAIService(apiKey string) *AIService {
	if apiKey == "" {
		return nil
	}
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// NewAIServiceWithClient wraps an existing chat client.
func NewAIServiceWithClient(client ChatCompleter) *AIService {
	return &AIService{client: client}
}

// BreakdownRequirements turns a project's description and requirements into a delivery checklist
func (s *AIService) BreakdownRequirements(ctx context.Context, project models.Project) ([]BreakdownItem, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	prompt := fmt.Sprintf(`You are a delivery lead at a web development agency. Break the client project below into a checklist of concrete development steps.

Client: %s
Description:
%s

Requirements:
%s

Return a JSON array in this format:
[
  {
    "title": "short step title",
    "detail": "one or two sentences describing the work"
  }
]

Rules:
- Return at most %d items
- Return an empty array [] if there is nothing to build
- Return only JSON, no commentary`, project.ClientName, project.Description, project.Requirements, constants.MaxBreakdownItems)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "`\n ")

	var items []BreakdownItem
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	valid := make([]BreakdownItem, 0, len(items))
	for _, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		if item.Title == "" {
			continue
		}
		valid = append(valid, item)
		if len(valid) == constants.MaxBreakdownItems {
			break
		}
	}
	if len(valid) == 0 {
		return nil, ErrAINoItemsGenerated
	}

	return valid, nil
}
