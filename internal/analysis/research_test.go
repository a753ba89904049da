package analysis

import (
	"errors"
	"testing"
)

func TestParseEvidence(t *testing.T) {
	payload := `{"results":[
		{"ingredient":"aspartame","health_effect":"metabolic","evidence_level":"MODERATE",
		 "summary":"Mixed findings on glucose response.","confidence_score":0.7,
		 "key_findings":["no effect in short-term trials"]},
		{"ingredient":"red 40","health_effect":"behavioral","evidence_level":"unclear",
		 "summary":"Limited pediatric data.","confidence_score":1.4}
	]}`

	results, err := ParseEvidence([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].EvidenceLevel != EvidenceModerate {
		t.Errorf("expected moderate level, got %q", results[0].EvidenceLevel)
	}
	if results[1].EvidenceLevel != EvidenceLimited {
		t.Errorf("unknown level should collapse to limited, got %q", results[1].EvidenceLevel)
	}
	if results[1].ConfidenceScore != 1.0 {
		t.Errorf("confidence should clamp to 1.0, got %v", results[1].ConfidenceScore)
	}
	if results[1].KeyFindings == nil {
		t.Error("key findings must be an empty slice, not nil")
	}
}

func TestParseEvidenceWithCodeFence(t *testing.T) {
	payload := "```json\n{\"results\":[{\"ingredient\":\"sugar\",\"evidence_level\":\"strong\",\"confidence_score\":0.9}]}\n```"

	results, err := ParseEvidence([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].EvidenceLevel != EvidenceStrong {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestParseEvidenceGarbage(t *testing.T) {
	for _, payload := range []string{"", "not json", "[1,2,3]"} {
		if _, err := ParseEvidence([]byte(payload)); !errors.Is(err, ErrUnparseable) {
			t.Errorf("ParseEvidence(%q) error = %v, want ErrUnparseable", payload, err)
		}
	}
}
