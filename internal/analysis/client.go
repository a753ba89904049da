package analysis

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const maxCompletionTokens = 2048

var ErrProviderUnavailable = errors.New("no AI provider configured")

// ProfileContext carries the health-profile fields used to personalize an
// analysis. It is deliberately decoupled from the persistence model.
type ProfileContext struct {
	PrimaryGoal    string
	DietType       string
	Conditions     []string
	Allergies      []string
	Restrictions   []string
	ActivityLevel  string
	AgeRange       string
	SecondaryGoals []string
}

// Analyzer is the boundary the scan service depends on.
type Analyzer interface {
	AnalyzeLabel(ctx context.Context, image []byte, mimeType string, profile *ProfileContext, premium bool) (*Result, error)
}

// Client performs label analysis through an OpenAI-compatible vision model.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, baseURL, model string) *Client {
	if apiKey == "" {
		return &Client{}
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

const standardSystemPrompt = `You are a nutritionist and food scientist. The user sends a photo of a food label.
Read the ingredient list and return your analysis as a JSON object with these exact fields:
{"health_score":0-100, "summary":"...", "extracted_ingredients":["..."], "risk_ingredients":["..."],
"recommendations":["..."], "tags":["..."],
"health_risks":[{"type":"...","severity":"low|medium|high","description":"...","affected_ingredients":["..."]}]}
Return ONLY the JSON object, no extra text.`

const premiumSystemPrompt = `You are a nutritionist and food scientist. The user sends a photo of a food label.
Read the ingredient list and return a comprehensive analysis as a JSON object:
{"ingredients_analyzed":["..."], "comprehensive_analysis":{"score":0-100, "summary":"...",
"risk_ingredients":["..."], "recommendations":["..."], "tags":["..."],
"health_risks":[{"type":"...","severity":"low|medium|high","description":"...","affected_ingredients":["..."]}],
"allergen_warnings":["..."], "target_demographics":["..."], "alternative_suggestions":["..."],
"sustainability_score":0-100, "processing_level":1-10, "personalized_insight":"..."}}
Return ONLY the JSON object, no extra text.`

// AnalyzeLabel sends the image to the vision model and normalizes whatever
// shape comes back. The caller owns the timeout via ctx.
func (c *Client) AnalyzeLabel(ctx context.Context, image []byte, mimeType string, profile *ProfileContext, premium bool) (*Result, error) {
	if c.api == nil {
		return nil, ErrProviderUnavailable
	}

	systemPrompt := standardSystemPrompt
	if premium {
		systemPrompt = premiumSystemPrompt
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	req := openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: userPrompt(profile)},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailAuto},
					},
				},
			},
		},
		Temperature: 0.2,
		MaxTokens:   maxCompletionTokens,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from AI provider")
	}

	result, err := Normalize([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		return nil, err
	}
	if premium {
		result.AnalysisType = AnalysisTypePremium
	}
	return result, nil
}

func userPrompt(profile *ProfileContext) string {
	var b strings.Builder
	b.WriteString("Analyze this food label for health impact.")
	if profile == nil {
		return b.String()
	}

	b.WriteString(" Personalize the analysis for this user:")
	if profile.PrimaryGoal != "" {
		fmt.Fprintf(&b, " primary goal %s;", profile.PrimaryGoal)
	}
	if profile.DietType != "" {
		fmt.Fprintf(&b, " diet %s;", profile.DietType)
	}
	if len(profile.Conditions) > 0 {
		fmt.Fprintf(&b, " health conditions: %s;", strings.Join(profile.Conditions, ", "))
	}
	if len(profile.Allergies) > 0 {
		fmt.Fprintf(&b, " allergies: %s;", strings.Join(profile.Allergies, ", "))
	}
	if len(profile.Restrictions) > 0 {
		fmt.Fprintf(&b, " dietary restrictions: %s;", strings.Join(profile.Restrictions, ", "))
	}
	if profile.ActivityLevel != "" {
		fmt.Fprintf(&b, " activity level %s;", profile.ActivityLevel)
	}
	b.WriteString(" Include a personalized_insight field addressing their goals and conditions.")
	return b.String()
}
