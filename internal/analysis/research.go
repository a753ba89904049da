package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Evidence levels reported for an ingredient, strongest first.
const (
	EvidenceStrong   = "strong"
	EvidenceModerate = "moderate"
	EvidenceLimited  = "limited"
)

// IngredientEvidence summarizes the scientific consensus on one ingredient.
type IngredientEvidence struct {
	Ingredient      string   `json:"ingredient"`
	HealthEffect    string   `json:"health_effect"`
	EvidenceLevel   string   `json:"evidence_level"`
	Summary         string   `json:"summary"`
	ConfidenceScore float64  `json:"confidence_score"`
	KeyFindings     []string `json:"key_findings"`
}

// EvidenceAnalyzer is the boundary the research handler depends on.
type EvidenceAnalyzer interface {
	AnalyzeEvidence(ctx context.Context, ingredients []string) ([]IngredientEvidence, error)
}

const evidenceSystemPrompt = `You are a nutrition researcher. For each ingredient the user lists,
summarize the published scientific evidence on its health effects. Return a JSON object:
{"results":[{"ingredient":"...","health_effect":"...","evidence_level":"strong|moderate|limited",
"summary":"...","confidence_score":0.0-1.0,"key_findings":["..."]}]}
Base evidence_level on the weight of peer-reviewed literature. Return ONLY the JSON object.`

// AnalyzeEvidence asks the model for an evidence summary per ingredient.
func (c *Client) AnalyzeEvidence(ctx context.Context, ingredients []string) ([]IngredientEvidence, error) {
	if c.api == nil {
		return nil, ErrProviderUnavailable
	}
	if len(ingredients) == 0 {
		return nil, errors.New("at least one ingredient is required")
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: evidenceSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Ingredients: " + strings.Join(ingredients, ", ")},
		},
		Temperature: 0.2,
		MaxTokens:   maxCompletionTokens,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("evidence request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from AI provider")
	}

	return ParseEvidence([]byte(resp.Choices[0].Message.Content))
}

type rawEvidencePayload struct {
	Results []IngredientEvidence `json:"results"`
}

// ParseEvidence normalizes a provider evidence payload: unknown evidence
// levels collapse to limited and confidence is clamped to [0,1].
func ParseEvidence(data []byte) ([]IngredientEvidence, error) {
	content := extractJSON(string(data))
	if content == "" {
		return nil, ErrUnparseable
	}

	var p rawEvidencePayload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	out := make([]IngredientEvidence, 0, len(p.Results))
	for _, e := range p.Results {
		e.EvidenceLevel = normalizeEvidenceLevel(e.EvidenceLevel)
		e.ConfidenceScore = clampConfidence(e.ConfidenceScore)
		if e.KeyFindings == nil {
			e.KeyFindings = []string{}
		}
		out = append(out, e)
	}
	return out, nil
}

func normalizeEvidenceLevel(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case EvidenceStrong:
		return EvidenceStrong
	case EvidenceModerate:
		return EvidenceModerate
	default:
		return EvidenceLimited
	}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
