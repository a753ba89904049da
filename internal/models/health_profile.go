package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FreeScanAllotment is the number of analyses every account starts with.
// scans_left + total_scans_used always sums to this per allotment period.
const FreeScanAllotment = 50

// HealthProfile is the per-user record of demographic, goal, and condition
// data. A stub row is provisioned at registration; onboarding fills it in.
type HealthProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Gender         string   `gorm:"size:50" json:"gender"`
	AgeRange       string   `gorm:"size:50" json:"age_range"`
	ActivityLevel  string   `gorm:"size:50" json:"activity_level"`
	PrimaryGoal    string   `gorm:"size:100" json:"primary_goal"`
	SecondaryGoals []string `gorm:"type:jsonb;serializer:json;default:'[]'" json:"secondary_goals"`
	DietType       string   `gorm:"size:100" json:"diet_type"`

	Diabetes        bool `gorm:"default:false" json:"diabetes"`
	BloodPressure   bool `gorm:"default:false" json:"blood_pressure"`
	PcosThyroid     bool `gorm:"default:false" json:"pcos_thyroid"`
	HeartConditions bool `gorm:"default:false" json:"heart_conditions"`
	DigestiveIssues bool `gorm:"default:false" json:"digestive_issues"`

	Allergies    []string `gorm:"type:jsonb;serializer:json;default:'[]'" json:"allergies"`
	Restrictions []string `gorm:"type:jsonb;serializer:json;default:'[]'" json:"restrictions"`

	ScansLeft      int `gorm:"type:integer;default:50;check:scans_left >= 0" json:"scans_left"`
	TotalScansUsed int `gorm:"type:integer;default:0;check:total_scans_used >= 0" json:"total_scans_used"`

	TermsAccepted   bool       `gorm:"default:false" json:"terms_accepted"`
	TermsAcceptedAt *time.Time `json:"terms_accepted_at,omitempty"`
	ConsentVersion  string     `gorm:"size:20;default:'v1.0'" json:"consent_version"`
	MarketingOptIn  bool       `gorm:"default:true" json:"marketing_opt_in"`

	OnboardingCompletedAt *time.Time `json:"onboarding_completed_at,omitempty"`
	OnboardingSkippedAt   *time.Time `json:"onboarding_skipped_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (HealthProfile) TableName() string {
	return "health_profiles"
}

// Conditions returns the names of the condition flags that are set, in the
// order the analysis prompt expects them.
func (p *HealthProfile) Conditions() []string {
	conditions := []string{}
	if p.Diabetes {
		conditions = append(conditions, "diabetes")
	}
	if p.BloodPressure {
		conditions = append(conditions, "blood pressure")
	}
	if p.PcosThyroid {
		conditions = append(conditions, "pcos/thyroid")
	}
	if p.HeartConditions {
		conditions = append(conditions, "heart conditions")
	}
	if p.DigestiveIssues {
		conditions = append(conditions, "digestive issues")
	}
	return conditions
}
