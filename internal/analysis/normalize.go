package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// AnalysisTypeStandard and AnalysisTypePremium name the two analysis tiers.
const (
	AnalysisTypeStandard = "standard"
	AnalysisTypePremium  = "premium"
)

// HealthRisk is a single concern flagged by the analysis.
type HealthRisk struct {
	Type                string   `json:"type"`
	Severity            string   `json:"severity"`
	Description         string   `json:"description"`
	AffectedIngredients []string `json:"affected_ingredients"`
}

// Result is the one fixed shape every analysis payload is normalized into.
// All slice fields are non-nil so consumers never branch on missing data.
type Result struct {
	HealthScore          int          `json:"health_score"`
	Summary              string       `json:"summary"`
	HealthRisks          []HealthRisk `json:"health_risks"`
	ExtractedIngredients []string     `json:"extracted_ingredients"`
	RiskIngredients      []string     `json:"risk_ingredients"`
	Recommendations      []string     `json:"recommendations"`
	Tags                 []string     `json:"tags"`
	PersonalizedInsight  *string      `json:"personalized_insight,omitempty"`
	AnalysisType         string       `json:"analysis_type"`

	// Premium-only fields, empty on standard analyses.
	AllergenWarnings       []string `json:"allergen_warnings"`
	TargetDemographics     []string `json:"target_demographics"`
	AlternativeSuggestions []string `json:"alternative_suggestions"`
	SustainabilityScore    int      `json:"sustainability_score"`
	ProcessingLevel        int      `json:"processing_level"`
}

// rawAnalysis covers every field-name variant the provider is known to emit.
type rawAnalysis struct {
	Score                  *float64     `json:"score"`
	HealthScore            *float64     `json:"health_score"`
	Summary                string       `json:"summary"`
	HealthRisks            []HealthRisk `json:"health_risks"`
	Recommendation         string       `json:"recommendation"`
	Recommendations        []string     `json:"recommendations"`
	ExtractedIngredients   []string     `json:"extracted_ingredients"`
	RiskIngredients        []string     `json:"risk_ingredients"`
	Tags                   []string     `json:"tags"`
	PersonalizedInsight    *string      `json:"personalized_insight"`
	AllergenWarnings       []string     `json:"allergen_warnings"`
	TargetDemographics     []string     `json:"target_demographics"`
	AlternativeSuggestions []string     `json:"alternative_suggestions"`
	SustainabilityScore    *float64     `json:"sustainability_score"`
	ProcessingLevel        *float64     `json:"processing_level"`
}

// rawPayload is the envelope: premium responses wrap the analysis in
// comprehensive_analysis, standard responses carry the fields at top level.
type rawPayload struct {
	rawAnalysis
	Status                string       `json:"status"`
	IngredientsAnalyzed   []string     `json:"ingredients_analyzed"`
	ComprehensiveAnalysis *rawAnalysis `json:"comprehensive_analysis"`
}

var ErrUnparseable = errors.New("analysis payload could not be parsed")

// Normalize converts a provider payload into a Result. It accepts raw model
// output, including markdown code fences around the JSON object.
func Normalize(data []byte) (*Result, error) {
	content := extractJSON(string(data))
	if content == "" {
		return nil, ErrUnparseable
	}

	var p rawPayload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	src := &p.rawAnalysis
	analysisType := AnalysisTypeStandard
	if p.ComprehensiveAnalysis != nil {
		src = p.ComprehensiveAnalysis
		analysisType = AnalysisTypePremium
	}

	extracted := src.ExtractedIngredients
	if len(extracted) == 0 {
		extracted = p.IngredientsAnalyzed
	}

	result := &Result{
		HealthScore:            clampScore(firstScore(src.Score, src.HealthScore)),
		Summary:                src.Summary,
		HealthRisks:            normalizeRisks(src.HealthRisks),
		ExtractedIngredients:   orEmpty(extracted),
		RiskIngredients:        orEmpty(src.RiskIngredients),
		Recommendations:        normalizeRecommendations(src.Recommendation, src.Recommendations),
		Tags:                   orEmpty(src.Tags),
		PersonalizedInsight:    normalizeInsight(src.PersonalizedInsight),
		AnalysisType:           analysisType,
		AllergenWarnings:       orEmpty(src.AllergenWarnings),
		TargetDemographics:     orEmpty(src.TargetDemographics),
		AlternativeSuggestions: orEmpty(src.AlternativeSuggestions),
		SustainabilityScore:    clampScore(deref(src.SustainabilityScore)),
		ProcessingLevel:        clampInt(deref(src.ProcessingLevel), 0, 10),
	}

	return result, nil
}

// extractJSON strips code fences and, failing a clean parse candidate, falls
// back to the outermost brace pair.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	if strings.HasPrefix(content, "{") {
		return content
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return ""
}

// normalizeRecommendations merges the singular and plural variants the
// provider alternates between.
func normalizeRecommendations(singular string, plural []string) []string {
	if singular != "" {
		return []string{singular}
	}
	return orEmpty(plural)
}

func normalizeRisks(risks []HealthRisk) []HealthRisk {
	out := make([]HealthRisk, 0, len(risks))
	for _, r := range risks {
		r.Severity = normalizeSeverity(r.Severity)
		r.AffectedIngredients = orEmpty(r.AffectedIngredients)
		out = append(out, r)
	}
	return out
}

func normalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return "high"
	case "medium":
		return "medium"
	default:
		return "low"
	}
}

func normalizeInsight(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	return &trimmed
}

func firstScore(candidates ...*float64) int {
	for _, c := range candidates {
		if c != nil {
			return int(*c)
		}
	}
	return 0
}

func deref(f *float64) int {
	if f == nil {
		return 0
	}
	return int(*f)
}

func clampScore(v int) int {
	return clampInt(v, 0, 100)
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
