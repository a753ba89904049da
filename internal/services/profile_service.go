package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutrisight/nutrisight-go/internal/dto"
	"github.com/nutrisight/nutrisight-go/internal/models"
)

var ErrTermsRequired = errors.New("terms must be accepted to complete onboarding")

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GateState derives the onboarding decision from a profile row. The profile
// row is the single authority: no other table is consulted.
func GateState(p *models.HealthProfile) dto.OnboardingState {
	switch {
	case p.OnboardingCompletedAt != nil:
		return dto.StateOnboarded
	case p.OnboardingSkippedAt != nil:
		return dto.StateSkipped
	default:
		return dto.StateNeedsOnboarding
	}
}

// GetStatus returns the gate decision for a user. A missing profile row means
// the user has not onboarded; any other lookup failure is returned as an
// error so callers retry instead of silently re-running onboarding.
func (s *ProfileService) GetStatus(userID uuid.UUID) (*dto.ProfileStatusResponse, error) {
	profile, err := s.getProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.ProfileStatusResponse{State: dto.StateNeedsOnboarding}, nil
		}
		return nil, fmt.Errorf("failed to load health profile: %w", err)
	}

	return &dto.ProfileStatusResponse{
		State:          GateState(profile),
		TermsAccepted:  profile.TermsAccepted,
		ScansLeft:      profile.ScansLeft,
		TotalScansUsed: profile.TotalScansUsed,
	}, nil
}

func (s *ProfileService) Get(userID uuid.UUID) (*models.HealthProfile, error) {
	return s.getProfile(userID)
}

// CompleteOnboarding saves the questionnaire answers and marks the profile
// complete in one transaction. There is no saved-but-incomplete state.
func (s *ProfileService) CompleteOnboarding(userID uuid.UUID, req *dto.CompleteOnboardingRequest) (*models.HealthProfile, error) {
	if !req.AcceptTerms {
		return nil, ErrTermsRequired
	}

	var profile *models.HealthProfile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := s.getOrCreate(tx, userID)
		if err != nil {
			return err
		}

		now := time.Now()
		p.Gender = req.Gender
		p.AgeRange = req.AgeRange
		p.ActivityLevel = req.ActivityLevel
		p.PrimaryGoal = req.PrimaryGoal
		p.SecondaryGoals = orEmptyList(req.SecondaryGoals)
		p.DietType = req.DietType
		p.Diabetes = req.Diabetes
		p.BloodPressure = req.BloodPressure
		p.PcosThyroid = req.PcosThyroid
		p.HeartConditions = req.HeartConditions
		p.DigestiveIssues = req.DigestiveIssues
		p.Allergies = orEmptyList(req.Allergies)
		p.Restrictions = orEmptyList(req.Restrictions)
		p.TermsAccepted = true
		p.TermsAcceptedAt = &now
		p.OnboardingCompletedAt = &now
		p.OnboardingSkippedAt = nil
		if req.MarketingOptIn != nil {
			p.MarketingOptIn = *req.MarketingOptIn
		}

		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("failed to save health profile: %w", err)
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Skip records that the user declined onboarding. Skipping keeps the scan
// allowance but analyses are not personalized until a profile is completed.
func (s *ProfileService) Skip(userID uuid.UUID) (*models.HealthProfile, error) {
	var profile *models.HealthProfile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := s.getOrCreate(tx, userID)
		if err != nil {
			return err
		}
		if p.OnboardingCompletedAt != nil {
			profile = p
			return nil
		}
		now := time.Now()
		p.OnboardingSkippedAt = &now
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("failed to mark onboarding skipped: %w", err)
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) AcceptTerms(userID uuid.UUID, consentVersion string) error {
	if consentVersion == "" {
		consentVersion = "v1.0"
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		p, err := s.getOrCreate(tx, userID)
		if err != nil {
			return err
		}
		now := time.Now()
		p.TermsAccepted = true
		p.TermsAcceptedAt = &now
		p.ConsentVersion = consentVersion
		return tx.Save(p).Error
	})
}

// RevokeConsent clears terms acceptance. Scanning is blocked until the user
// accepts again; the profile data itself is kept.
func (s *ProfileService) RevokeConsent(userID uuid.UUID) error {
	return s.db.Model(&models.HealthProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"terms_accepted":    false,
			"terms_accepted_at": nil,
		}).Error
}

func (s *ProfileService) getProfile(userID uuid.UUID) (*models.HealthProfile, error) {
	var profile models.HealthProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// getOrCreate covers accounts provisioned before profile stubs existed.
func (s *ProfileService) getOrCreate(tx *gorm.DB, userID uuid.UUID) (*models.HealthProfile, error) {
	var profile models.HealthProfile
	err := tx.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load health profile: %w", err)
	}

	profile = models.HealthProfile{
		ID:             uuid.New(),
		UserID:         userID,
		ScansLeft:      models.FreeScanAllotment,
		ConsentVersion: "v1.0",
		MarketingOptIn: true,
	}
	if err := tx.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create health profile: %w", err)
	}
	return &profile, nil
}

func orEmptyList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
