package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/core"
)

// Extractor is an implementation of the core.Extractor interface using OpenAI
type Extractor struct {
	client       *openai.Client
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
	logger       *zap.Logger
	promptFormat string
}

// NewExtractor creates a new OpenAI extractor
func NewExtractor(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Extractor {
	return &Extractor{
		client:       openai.NewClient(apiKey),
		modelName:    modelName,
		maxTokens:    maxTokens,
		temperature:  temperature,
		topP:         topP,
		logger:       logger,
		promptFormat: promptFormat,
	}
}

// Analyze turns free text into structured events, tasks and a summary
func (e *Extractor) Analyze(ctx context.Context, text string, profile *core.FamilyProfile) (*core.Analysis, error) {
	prompt := fmt.Sprintf(e.promptFormat, childrenContext(profile), parentsContext(profile), text)

	req := openai.ChatCompletionRequest{
		Model: e.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are Alto, a family assistant. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
		TopP:        e.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	analysis, err := parseAnalysis(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	analysis.AnalyzedAt = time.Now()
	analysis.ModelUsed = e.modelName
	return analysis, nil
}

// parseAnalysis decodes the model output, scanning for the outermost JSON
// object when the model wraps it in prose
func parseAnalysis(responseText string) (*core.Analysis, error) {
	var analysis core.Analysis
	if err := json.Unmarshal([]byte(responseText), &analysis); err == nil {
		return &analysis, nil
	}

	start := strings.Index(responseText, "{")
	end := strings.LastIndex(responseText, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in OpenAI response")
	}
	if err := json.Unmarshal([]byte(responseText[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI response as JSON: %w", err)
	}
	return &analysis, nil
}

// childrenContext renders the children for the prompt
func childrenContext(profile *core.FamilyProfile) string {
	if profile == nil || len(profile.Children) == 0 {
		return "none listed"
	}
	parts := make([]string, 0, len(profile.Children))
	for _, c := range profile.Children {
		parts = append(parts, fmt.Sprintf("%s (School/Context: %s)", c.Name, c.SchoolName))
	}
	return strings.Join(parts, ", ")
}

// parentsContext renders the parents for the prompt
func parentsContext(profile *core.FamilyProfile) string {
	if profile == nil || len(profile.Parents) == 0 {
		return "none listed"
	}
	return strings.Join(profile.Parents, ", ")
}

const promptFormat = `You are Alto, a smart family assistant. Analyze the provided text (an email, a message, or a note).

FAMILY CONTEXT:
- Children: %s
- Parents: %s

Extract the following structured data and respond with a JSON object containing:
- summary: string, a very short friendly summary (max 1 sentence) for a daily briefing
- events: array of calendar events, each {title, date (YYYY-MM-DD), time (HH:MM or "All day"), location, category (one of school, medical, activity, other), assignedTo}
- tasks: array of to-dos, each {title, priority (one of high, medium, low), deadline (YYYY-MM-DD or "None"), assignedTo}
- learningSuggestions: {newKeywords: 1-3 specific unique keywords (nouns or verbs) that characterize this type of message when it is relevant to family logistics, relevanceReason: string}. Do NOT pick common words.

CRITICAL INSTRUCTIONS:
1. All generated text (summary, titles, locations, deadlines) MUST BE IN FRENCH.
2. Try to assign each event or task to a specific family member based on the context; if unsure, use an empty string for assignedTo.
3. For dates, if not specified, assume the nearest future date.

Text:
%s

Respond only with the JSON object and nothing else.`
