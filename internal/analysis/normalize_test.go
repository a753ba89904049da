package analysis

import (
	"testing"
)

func TestNormalize_HealthScoreVariant(t *testing.T) {
	payload := `{"health_score": 72, "summary": "Mostly whole ingredients"}`

	result, err := Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.HealthScore != 72 {
		t.Errorf("expected health score 72, got %d", result.HealthScore)
	}
	if result.Recommendations == nil {
		t.Fatal("recommendations must be an empty slice, not nil")
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("expected no recommendations, got %v", result.Recommendations)
	}
	if result.AnalysisType != AnalysisTypeStandard {
		t.Errorf("expected standard analysis type, got %q", result.AnalysisType)
	}
}

func TestNormalize_ScoreAndSingularRecommendation(t *testing.T) {
	payload := `{"score": 50, "recommendation": "eat less sugar"}`

	result, err := Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.HealthScore != 50 {
		t.Errorf("expected health score 50, got %d", result.HealthScore)
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0] != "eat less sugar" {
		t.Errorf("expected single recommendation, got %v", result.Recommendations)
	}
}

func TestNormalize_SingularWinsOverPlural(t *testing.T) {
	payload := `{"score": 40, "recommendation": "first", "recommendations": ["second", "third"]}`

	result, err := Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Recommendations) != 1 || result.Recommendations[0] != "first" {
		t.Errorf("singular variant should take precedence, got %v", result.Recommendations)
	}
}

func TestNormalize_PremiumEnvelope(t *testing.T) {
	payload := `{
		"status": "success",
		"ingredients_analyzed": ["water", "sugar", "citric acid"],
		"comprehensive_analysis": {
			"score": 38,
			"summary": "Highly processed beverage",
			"risk_ingredients": ["sugar"],
			"recommendations": ["limit to occasional consumption"],
			"allergen_warnings": ["none detected"],
			"sustainability_score": 55,
			"processing_level": 8,
			"personalized_insight": "High sugar conflicts with your weight-loss goal."
		}
	}`

	result, err := Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AnalysisType != AnalysisTypePremium {
		t.Errorf("expected premium analysis type, got %q", result.AnalysisType)
	}
	if result.HealthScore != 38 {
		t.Errorf("expected health score 38, got %d", result.HealthScore)
	}
	if len(result.ExtractedIngredients) != 3 {
		t.Errorf("expected ingredients_analyzed to backfill extracted ingredients, got %v", result.ExtractedIngredients)
	}
	if result.ProcessingLevel != 8 {
		t.Errorf("expected processing level 8, got %d", result.ProcessingLevel)
	}
	if result.PersonalizedInsight == nil || *result.PersonalizedInsight == "" {
		t.Error("expected personalized insight to survive normalization")
	}
}

func TestNormalize_CodeFences(t *testing.T) {
	payload := "```json\n{\"health_score\": 90, \"tags\": [\"organic\"]}\n```"

	result, err := Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HealthScore != 90 {
		t.Errorf("expected health score 90, got %d", result.HealthScore)
	}
	if len(result.Tags) != 1 || result.Tags[0] != "organic" {
		t.Errorf("expected tags to survive fence stripping, got %v", result.Tags)
	}
}

func TestNormalize_SurroundingProse(t *testing.T) {
	payload := `Here is the analysis you asked for: {"score": 64} Hope that helps!`

	result, err := Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HealthScore != 64 {
		t.Errorf("expected health score 64, got %d", result.HealthScore)
	}
}

func TestNormalize_ScoreClamped(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    int
	}{
		{"above range", `{"health_score": 140}`, 100},
		{"below range", `{"health_score": -5}`, 0},
		{"missing", `{"summary": "no score"}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Normalize([]byte(tc.payload))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.HealthScore != tc.want {
				t.Errorf("expected %d, got %d", tc.want, result.HealthScore)
			}
		})
	}
}

func TestNormalize_RiskSeverity(t *testing.T) {
	payload := `{"score": 30, "health_risks": [
		{"type": "sugar", "severity": "HIGH", "description": "very sweet"},
		{"type": "dye", "severity": "unknown", "description": "artificial color"}
	]}`

	result, err := Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.HealthRisks) != 2 {
		t.Fatalf("expected 2 risks, got %d", len(result.HealthRisks))
	}
	if result.HealthRisks[0].Severity != "high" {
		t.Errorf("expected severity normalized to high, got %q", result.HealthRisks[0].Severity)
	}
	if result.HealthRisks[1].Severity != "low" {
		t.Errorf("unrecognized severity should fall back to low, got %q", result.HealthRisks[1].Severity)
	}
	if result.HealthRisks[0].AffectedIngredients == nil {
		t.Error("affected ingredients must be an empty slice, not nil")
	}
}

func TestNormalize_Garbage(t *testing.T) {
	for _, payload := range []string{"", "not json at all", "[]"} {
		if _, err := Normalize([]byte(payload)); err == nil {
			t.Errorf("expected error for payload %q", payload)
		}
	}
}

func TestNormalize_EmptySlicesNeverNil(t *testing.T) {
	result, err := Normalize([]byte(`{"score": 10}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, s := range map[string][]string{
		"extracted_ingredients":   result.ExtractedIngredients,
		"risk_ingredients":        result.RiskIngredients,
		"recommendations":         result.Recommendations,
		"tags":                    result.Tags,
		"allergen_warnings":       result.AllergenWarnings,
		"target_demographics":     result.TargetDemographics,
		"alternative_suggestions": result.AlternativeSuggestions,
	} {
		if s == nil {
			t.Errorf("%s must be an empty slice, not nil", name)
		}
	}
	if result.HealthRisks == nil {
		t.Error("health_risks must be an empty slice, not nil")
	}
}
