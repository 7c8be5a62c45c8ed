package distractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rafaelv/memoflash/internal/logger"
	openai "github.com/sashabaranov/go-openai"
)

const distractorPrompt = `You are helping build a multiple-choice quiz.
Question: %s
Correct answer: %s

Produce exactly %d answers that are plausible but wrong. They should be
confusable with the correct answer for someone who only half remembers it.
Never repeat or rephrase the correct answer. Respond with a JSON array of
%d strings and nothing else.`

// OpenAIGenerator implements Generator against the OpenAI chat completion API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	log    *logger.Logger
}

// NewOpenAIGenerator creates the generator. The API key must be set; the
// caller decides whether generation is configured at all.
func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name is empty", ErrNotConfigured)
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    logger.Default().WithPrefix("openai"),
	}, nil
}

func (g *OpenAIGenerator) GenerateDistractors(ctx context.Context, front, correctAnswer string, count int) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("openai")
	log.Debug("requesting %d distractors", count)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.8,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(distractorPrompt, front, correctAnswer, count, count),
			},
		},
	})
	if err != nil {
		if apiErr, ok := err.(*openai.APIError); ok && apiErr.HTTPStatusCode == 429 {
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrMalformedResponse
	}

	options, err := parseDistractors(resp.Choices[0].Message.Content, correctAnswer, count)
	if err != nil {
		log.Warn("could not parse completion: %v", err)
		return nil, err
	}
	log.Debug("received %d distractors", len(options))
	return options, nil
}

// parseDistractors extracts the JSON array from the completion, tolerating
// markdown code fences, and validates the result.
func parseDistractors(content, correctAnswer string, count int) ([]string, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	var raw []string
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var options []string
	seen := map[string]struct{}{strings.ToLower(strings.TrimSpace(correctAnswer)): {}}
	for _, o := range raw {
		o = strings.TrimSpace(o)
		key := strings.ToLower(o)
		if o == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		options = append(options, o)
	}
	if len(options) < count {
		return nil, fmt.Errorf("%w: got %d usable options, want %d", ErrMalformedResponse, len(options), count)
	}
	return options[:count], nil
}

var _ Generator = (*OpenAIGenerator)(nil)
