package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutrisight/nutrisight-go/internal/analysis"
)

// ScanRecord is an append-only history entry for one completed analysis.
// Records are created from a fully normalized result and never mutated.
type ScanRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	ImageURL string `gorm:"type:text" json:"image_url,omitempty"`

	HealthScore          int                   `gorm:"type:integer;check:health_score >= 0 AND health_score <= 100" json:"health_score"`
	Summary              string                `gorm:"type:text" json:"summary"`
	HealthRisks          []analysis.HealthRisk `gorm:"type:jsonb;serializer:json;default:'[]'" json:"health_risks"`
	ExtractedIngredients []string              `gorm:"type:jsonb;serializer:json;default:'[]'" json:"extracted_ingredients"`
	RiskIngredients      []string              `gorm:"type:jsonb;serializer:json;default:'[]'" json:"risk_ingredients"`
	Recommendations      []string              `gorm:"type:jsonb;serializer:json;default:'[]'" json:"recommendations"`
	Tags                 []string              `gorm:"type:jsonb;serializer:json;default:'[]'" json:"tags"`
	PersonalizedInsight  *string               `gorm:"type:text" json:"personalized_insight,omitempty"`
	AnalysisType         string                `gorm:"size:20;not null;default:'standard'" json:"analysis_type"`

	AllergenWarnings       []string `gorm:"type:jsonb;serializer:json;default:'[]'" json:"allergen_warnings"`
	TargetDemographics     []string `gorm:"type:jsonb;serializer:json;default:'[]'" json:"target_demographics"`
	AlternativeSuggestions []string `gorm:"type:jsonb;serializer:json;default:'[]'" json:"alternative_suggestions"`
	SustainabilityScore    int      `gorm:"type:integer;default:0" json:"sustainability_score"`
	ProcessingLevel        int      `gorm:"type:integer;default:0" json:"processing_level"`

	AnalyzedAt time.Time      `gorm:"not null;index" json:"analyzed_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ScanRecord) TableName() string {
	return "scan_records"
}
