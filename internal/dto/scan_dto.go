package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/nutrisight/nutrisight-go/internal/analysis"
)

type ScanResponse struct {
	ID             uuid.UUID        `json:"id"`
	Result         *analysis.Result `json:"result"`
	ScansLeft      int              `json:"scans_left"`
	TotalScansUsed int              `json:"total_scans_used"`
	IsSubscribed   bool             `json:"is_subscribed"`
	AnalyzedAt     time.Time        `json:"analyzed_at"`
}

// EligibilityResponse answers "can this user scan right now" before any
// image is uploaded. UpgradeTrigger is set when the answer is no.
type EligibilityResponse struct {
	CanScan        bool   `json:"can_scan"`
	ScansLeft      int    `json:"scans_left"`
	IsSubscribed   bool   `json:"is_subscribed"`
	UpgradeTrigger string `json:"upgrade_trigger,omitempty"`
}

type ScanListItem struct {
	ID          uuid.UUID `json:"id"`
	HealthScore int       `json:"health_score"`
	Summary     string    `json:"summary"`
	Premium     bool      `json:"premium"`
	AnalyzedAt  time.Time `json:"analyzed_at"`
}

type ScanListResponse struct {
	Scans  []ScanListItem `json:"scans"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type ScanStatsResponse struct {
	TotalScans         int64   `json:"total_scans"`
	AverageHealthScore float64 `json:"average_health_score"`
	HighRiskCount      int64   `json:"high_risk_count"`
	TotalIngredients   int64   `json:"total_ingredients"`
}
