package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/core"
)

// Extractor is an implementation of the core.Extractor interface using
// Amazon Bedrock
type Extractor struct {
	client       *bedrockruntime.Client
	modelID      string
	maxTokens    int
	temperature  float32
	topP         float32
	logger       *zap.Logger
	promptFormat string
}

// NewExtractor creates a new Bedrock extractor
func NewExtractor(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Extractor {
	return &Extractor{
		client:       client,
		modelID:      modelID,
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

	var payload []byte
	var err error

	if e.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": e.maxTokens,
			"temperature":          e.temperature,
			"top_p":                e.topP,
		})
	} else if e.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": e.maxTokens,
				"temperature":   e.temperature,
				"topP":          e.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  e.maxTokens,
			"temperature": e.temperature,
			"top_p":       e.topP,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &e.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := e.responseText(resp.Body)
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(responseText)
	if err != nil {
		return nil, err
	}
	analysis.AnalyzedAt = time.Now()
	analysis.ModelUsed = e.modelID
	return analysis, nil
}

// responseText unwraps the model-specific envelope around the generated text
func (e *Extractor) responseText(body []byte) (string, error) {
	if e.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if e.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	}
	return string(body), nil
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
		return nil, fmt.Errorf("no JSON object in Bedrock response")
	}
	if err := json.Unmarshal([]byte(responseText[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse Bedrock response as JSON: %w", err)
	}
	return &analysis, nil
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (e *Extractor) isAnthropicModel() bool {
	return strings.HasPrefix(e.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (e *Extractor) isAmazonTitanModel() bool {
	return strings.HasPrefix(e.modelID, "amazon.titan")
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
