package services

import (
	"testing"
	"time"

	"github.com/nutrisight/nutrisight-go/internal/models"
)

func TestProfileContextFrom(t *testing.T) {
	now := time.Now()

	completed := models.HealthProfile{
		PrimaryGoal:           "weight_loss",
		DietType:              "vegetarian",
		Diabetes:              true,
		Allergies:             []string{"peanuts"},
		TermsAccepted:         true,
		TermsAcceptedAt:       &now,
		OnboardingCompletedAt: &now,
	}

	t.Run("completed profile personalizes", func(t *testing.T) {
		ctx := profileContextFrom(&completed)
		if ctx == nil {
			t.Fatal("expected a profile context for a completed profile")
		}
		if ctx.PrimaryGoal != "weight_loss" || len(ctx.Allergies) != 1 {
			t.Errorf("profile fields not carried over: %+v", ctx)
		}
		if len(ctx.Conditions) != 1 || ctx.Conditions[0] != "diabetes" {
			t.Errorf("expected diabetes condition, got %v", ctx.Conditions)
		}
	})

	t.Run("revoked consent stops personalization", func(t *testing.T) {
		revoked := completed
		revoked.TermsAccepted = false
		revoked.TermsAcceptedAt = nil

		if ctx := profileContextFrom(&revoked); ctx != nil {
			t.Errorf("revoked consent must not feed profile data to analysis, got %+v", ctx)
		}
	})

	t.Run("incomplete onboarding stops personalization", func(t *testing.T) {
		incomplete := completed
		incomplete.OnboardingCompletedAt = nil

		if ctx := profileContextFrom(&incomplete); ctx != nil {
			t.Errorf("expected nil context before onboarding completes, got %+v", ctx)
		}
	})

	t.Run("nil profile", func(t *testing.T) {
		if ctx := profileContextFrom(nil); ctx != nil {
			t.Errorf("expected nil context for nil profile, got %+v", ctx)
		}
	})
}
