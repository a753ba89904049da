package dto

// OnboardingState is the authoritative gate decision for a user.
// The in-flight client request corresponds to the transient "checking" state.
type OnboardingState string

const (
	StateNeedsOnboarding OnboardingState = "needs_onboarding"
	StateOnboarded       OnboardingState = "onboarded"
	StateSkipped         OnboardingState = "skipped"
)

type ProfileStatusResponse struct {
	State          OnboardingState `json:"state"`
	TermsAccepted  bool            `json:"terms_accepted"`
	ScansLeft      int             `json:"scans_left"`
	TotalScansUsed int             `json:"total_scans_used"`
}

// CompleteOnboardingRequest carries the questionnaire answers. Terms must be
// accepted in the same submission; profile save and completion mark are one
// transaction server-side.
type CompleteOnboardingRequest struct {
	Gender          string   `json:"gender"`
	AgeRange        string   `json:"age_range"`
	ActivityLevel   string   `json:"activity_level"`
	PrimaryGoal     string   `json:"primary_goal"`
	SecondaryGoals  []string `json:"secondary_goals"`
	DietType        string   `json:"diet_type"`
	Diabetes        bool     `json:"diabetes"`
	BloodPressure   bool     `json:"blood_pressure"`
	PcosThyroid     bool     `json:"pcos_thyroid"`
	HeartConditions bool     `json:"heart_conditions"`
	DigestiveIssues bool     `json:"digestive_issues"`
	Allergies       []string `json:"allergies"`
	Restrictions    []string `json:"restrictions"`
	AcceptTerms     bool     `json:"accept_terms"`
	MarketingOptIn  *bool    `json:"marketing_opt_in,omitempty"`
}

type AcceptTermsRequest struct {
	ConsentVersion string `json:"consent_version,omitempty"`
}
