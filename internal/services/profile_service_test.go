package services

import (
	"testing"
	"time"

	"github.com/nutrisight/nutrisight-go/internal/dto"
	"github.com/nutrisight/nutrisight-go/internal/models"
)

func TestGateState(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		profile models.HealthProfile
		want    dto.OnboardingState
	}{
		{
			name:    "fresh stub needs onboarding",
			profile: models.HealthProfile{ScansLeft: models.FreeScanAllotment},
			want:    dto.StateNeedsOnboarding,
		},
		{
			name:    "completed profile is onboarded",
			profile: models.HealthProfile{OnboardingCompletedAt: &now},
			want:    dto.StateOnboarded,
		},
		{
			name:    "skipped profile stays skipped",
			profile: models.HealthProfile{OnboardingSkippedAt: &now},
			want:    dto.StateSkipped,
		},
		{
			name: "completion wins over an earlier skip",
			profile: models.HealthProfile{
				OnboardingCompletedAt: &now,
				OnboardingSkippedAt:   &now,
			},
			want: dto.StateOnboarded,
		},
		{
			name: "terms alone do not complete onboarding",
			profile: models.HealthProfile{
				TermsAccepted:   true,
				TermsAcceptedAt: &now,
			},
			want: dto.StateNeedsOnboarding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GateState(&tt.profile); got != tt.want {
				t.Errorf("GateState() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompleteOnboardingRequiresTerms(t *testing.T) {
	svc := NewProfileService(nil)

	_, err := svc.CompleteOnboarding(mustUUID(t), &dto.CompleteOnboardingRequest{
		Gender:      "female",
		PrimaryGoal: "weight_loss",
		AcceptTerms: false,
	})
	if err != ErrTermsRequired {
		t.Fatalf("CompleteOnboarding() error = %v, want ErrTermsRequired", err)
	}
}
