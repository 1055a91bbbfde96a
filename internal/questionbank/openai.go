package questionbank

import (
	"context"
	"encoding/json"
	"fmt"

	"learning-challenge-service/internal/domain"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You write multiple-choice quiz questions for a daily learning challenge.
Respond with JSON only: {"questions":[{"text":...,"options":{"A":...,"B":...,"C":...,"D":...},"correctKey":...,"explanation":...}]}.
Each question has exactly four options keyed A-D and exactly one correct key.`

// OpenAIGenerator produces questions through the chat completions API using
// the JSON response format.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// generatedQuestion is the raw model output before validation.
type generatedQuestion struct {
	Text        string            `json:"text"`
	Options     map[string]string `json:"options"`
	CorrectKey  string            `json:"correctKey"`
	Explanation string            `json:"explanation"`
}

type generatedBatch struct {
	Questions []generatedQuestion `json:"questions"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) ([]domain.Question, error) {
	userMsg := fmt.Sprintf(
		"Write %d %s-level questions about %q for day %d of the %q course.",
		req.Count, req.Difficulty, req.Topic, req.Day, req.CourseID,
	)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMsg},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in generation response")
	}

	var batch generatedBatch
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &batch); err != nil {
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}

	return buildQuestions(batch.Questions, req)
}

// buildQuestions stamps metadata onto raw output and validates each item at
// the boundary so malformed generations never reach the engine.
func buildQuestions(raw []generatedQuestion, req Request) ([]domain.Question, error) {
	out := make([]domain.Question, 0, len(raw))
	for _, item := range raw {
		q := domain.Question{
			ID:          uuid.NewString(),
			Text:        item.Text,
			Options:     item.Options,
			CorrectKey:  item.CorrectKey,
			Explanation: item.Explanation,
			Topic:       req.Topic,
			Difficulty:  req.Difficulty,
			Day:         req.Day,
		}
		if err := q.Validate(); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if len(out) > req.Count && req.Count >= 0 {
		out = out[:req.Count]
	}
	return out, nil
}
