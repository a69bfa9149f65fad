package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are a security operations analyst. Your task is to transform raw sensor and camera alerts from a perimeter monitoring network into clear, operator-friendly reports.

Instructions:
- Parse the input carefully, extracting only factual details.
- Remove jargon and telemetry shorthand (e.g., "VOLT_LOW 10.9V node-7" → "Battery voltage low on sensor node").
- Infer the threat level from the details (use judgment).
- Recommend a concrete next action for the operator on duty.

Return valid JSON with these exact fields:
- details: Plain-language description of what was detected
- threat_level: "low" | "elevated" | "high" | "critical"
- recommended_action: One concrete action for the operator
- additional_info: Object with key-value string pairs for specific facts
- condensed_summary: 1-line summary (max 120 chars, no location, no times)`

// openaiEnhancer implements Enhancer using OpenAI chat completions.
type openaiEnhancer struct {
	client *openai.Client
	model  string
}

// NewEnhancer creates an OpenAI-backed alert enhancer. An empty API key
// yields an enhancer whose calls fail; callers treat enhancement as
// optional.
func NewEnhancer(apiKey, model string) Enhancer {
	if apiKey == "" {
		return &openaiEnhancer{client: nil, model: model}
	}

	return &openaiEnhancer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// EnhanceAlert enhances an alert using structured JSON output.
func (a *openaiEnhancer) EnhanceAlert(ctx context.Context, alert Alert) (EnhancedAlert, error) {
	if a.client == nil {
		return EnhancedAlert{}, errors.New("OpenAI client not initialized - missing API key")
	}

	userPrompt := fmt.Sprintf(`Parse this security alert and return structured JSON:

Device: %s (%s)
Severity: %s
Message: %s
Location: %s`,
		alert.DeviceName, alert.DeviceID, alert.Severity, alert.Message, alert.Location)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
		MaxTokens:   600,
	})
	if err != nil {
		return EnhancedAlert{}, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return EnhancedAlert{}, errors.New("no response from OpenAI API")
	}

	var structured StructuredSummary
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &structured); err != nil {
		return EnhancedAlert{}, fmt.Errorf("failed to parse OpenAI JSON response: %w", err)
	}

	if structured.Details == "" {
		structured.Details = alert.Message
	}
	if !isValidThreatLevel(structured.ThreatLevel) {
		structured.ThreatLevel = defaultThreatLevel(alert.Severity)
	}
	if structured.CondensedSummary == "" || len(structured.CondensedSummary) > 120 {
		structured.CondensedSummary = condense(structured.Details)
	}

	return EnhancedAlert{
		ID:                alert.ID,
		OriginalMessage:   alert.Message,
		StructuredSummary: structured,
		CondensedSummary:  structured.CondensedSummary,
		ProcessedAt:       time.Now(),
	}, nil
}

// HealthCheck verifies OpenAI API connectivity.
func (a *openaiEnhancer) HealthCheck(ctx context.Context) error {
	if a.client == nil {
		return errors.New("OpenAI client not initialized")
	}

	_, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Test",
			},
		},
		MaxTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("OpenAI API health check failed: %w", err)
	}

	return nil
}

func condense(details string) string {
	if len(details) <= 120 {
		return details
	}
	return details[:117] + "..."
}

func defaultThreatLevel(severity Severity) string {
	switch severity {
	case SeverityCritical:
		return "high"
	case SeverityWarning:
		return "elevated"
	default:
		return "low"
	}
}

func isValidThreatLevel(level string) bool {
	switch level {
	case "low", "elevated", "high", "critical":
		return true
	}
	return false
}
