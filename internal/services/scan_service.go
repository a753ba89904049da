package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutrisight/nutrisight-go/internal/analysis"
	"github.com/nutrisight/nutrisight-go/internal/config"
	"github.com/nutrisight/nutrisight-go/internal/dto"
	"github.com/nutrisight/nutrisight-go/internal/models"
	"github.com/nutrisight/nutrisight-go/internal/storage"
)

var (
	ErrScanInFlight    = errors.New("a scan is already in progress for this user")
	ErrInvalidImage    = errors.New("a non-empty image file is required")
	ErrPremiumRequired = errors.New("an active subscription is required for premium analysis")
	ErrConsentRequired = errors.New("terms must be accepted before scanning")
	ErrScanNotFound    = errors.New("scan not found")
)

// MaxImageBytes caps uploaded label photos.
const MaxImageBytes = 5 * 1024 * 1024

// ScanService runs the full analyze pipeline: eligibility, AI call,
// persistence, and quota consumption. Quota is only consumed after a
// complete normalized result exists; a failed analysis costs nothing.
type ScanService struct {
	db       *gorm.DB
	cfg      *config.Config
	analyzer analysis.Analyzer
	store    *storage.ImageStore
	quota    *QuotaService
	profiles *ProfileService
	subs     *SubscriptionService

	inFlight sync.Map // userID -> struct{}
}

func NewScanService(db *gorm.DB, cfg *config.Config, analyzer analysis.Analyzer, store *storage.ImageStore, quota *QuotaService, profiles *ProfileService, subs *SubscriptionService) *ScanService {
	return &ScanService{
		db:       db,
		cfg:      cfg,
		analyzer: analyzer,
		store:    store,
		quota:    quota,
		profiles: profiles,
		subs:     subs,
	}
}

// Eligibility answers whether a scan would be accepted right now, without
// consuming anything. Subscribers always pass.
func (s *ScanService) Eligibility(userID uuid.UUID) (*dto.EligibilityResponse, error) {
	subscribed := s.subs.IsSubscribed(userID)
	if subscribed {
		scansLeft, _, err := s.quota.Remaining(userID)
		if err != nil {
			slog.Error("quota read failed for subscriber", "error", err, "user_id", userID.String())
		}
		return &dto.EligibilityResponse{CanScan: true, ScansLeft: scansLeft, IsSubscribed: true}, nil
	}

	scansLeft, _, err := s.quota.Remaining(userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.EligibilityResponse{
		CanScan:      scansLeft > 0,
		ScansLeft:    scansLeft,
		IsSubscribed: false,
	}
	if scansLeft <= 0 {
		resp.UpgradeTrigger = "low_scans"
	}
	return resp, nil
}

// Analyze runs one scan end to end. At most one scan per user runs at a
// time; a second request while one is in flight fails fast rather than
// queueing.
func (s *ScanService) Analyze(ctx context.Context, userID uuid.UUID, image []byte, mimeType string, premium bool) (*dto.ScanResponse, error) {
	if _, loaded := s.inFlight.LoadOrStore(userID, struct{}{}); loaded {
		return nil, ErrScanInFlight
	}
	defer s.inFlight.Delete(userID)

	if len(image) == 0 || len(image) > MaxImageBytes || !strings.HasPrefix(mimeType, "image/") {
		return nil, ErrInvalidImage
	}

	// Consent gates every scan, subscriber or not. A missing profile row
	// means terms were never accepted.
	profile, err := s.profiles.Get(userID)
	if err != nil || !profile.TermsAccepted {
		return nil, ErrConsentRequired
	}

	subscribed := s.subs.IsSubscribed(userID)
	if premium && !subscribed {
		return nil, ErrPremiumRequired
	}
	if !subscribed {
		scansLeft, _, err := s.quota.Remaining(userID)
		if err != nil {
			return nil, err
		}
		if scansLeft <= 0 {
			return nil, ErrQuotaExhausted
		}
	}

	profileCtx := profileContextFrom(profile)

	aiCtx, cancel := context.WithTimeout(ctx, s.cfg.AITimeout)
	defer cancel()

	result, err := s.analyzer.AnalyzeLabel(aiCtx, image, mimeType, profileCtx, premium)
	if err != nil {
		return nil, err
	}

	imageURL := s.archive(userID, image, mimeType)

	record := models.ScanRecord{
		ID:                     uuid.New(),
		UserID:                 userID,
		ImageURL:               imageURL,
		HealthScore:            result.HealthScore,
		Summary:                result.Summary,
		HealthRisks:            result.HealthRisks,
		ExtractedIngredients:   result.ExtractedIngredients,
		RiskIngredients:        result.RiskIngredients,
		Recommendations:        result.Recommendations,
		Tags:                   result.Tags,
		PersonalizedInsight:    result.PersonalizedInsight,
		AnalysisType:           result.AnalysisType,
		AllergenWarnings:       result.AllergenWarnings,
		TargetDemographics:     result.TargetDemographics,
		AlternativeSuggestions: result.AlternativeSuggestions,
		SustainabilityScore:    result.SustainabilityScore,
		ProcessingLevel:        result.ProcessingLevel,
		AnalyzedAt:             time.Now(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to save scan record: %w", err)
	}

	var scansLeft, totalUsed int
	if subscribed {
		scansLeft, totalUsed, err = s.quota.Remaining(userID)
		if err != nil {
			slog.Error("quota read failed for subscriber", "error", err, "user_id", userID.String())
		}
	} else {
		scansLeft, totalUsed, err = s.quota.Consume(userID)
		if err != nil {
			// The race between the pre-check and Consume lost; the result
			// is already saved, so report it with a zero balance.
			if errors.Is(err, ErrQuotaExhausted) {
				scansLeft, totalUsed = 0, 0
			} else {
				return nil, err
			}
		}
	}

	return &dto.ScanResponse{
		ID:             record.ID,
		Result:         result,
		ScansLeft:      scansLeft,
		TotalScansUsed: totalUsed,
		IsSubscribed:   subscribed,
		AnalyzedAt:     record.AnalyzedAt,
	}, nil
}

func (s *ScanService) List(userID uuid.UUID, limit, offset int) (*dto.ScanListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.Model(&models.ScanRecord{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count scans: %w", err)
	}

	var records []models.ScanRecord
	if err := s.db.Where("user_id = ?", userID).
		Order("analyzed_at DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}

	items := make([]dto.ScanListItem, 0, len(records))
	for _, r := range records {
		items = append(items, dto.ScanListItem{
			ID:          r.ID,
			HealthScore: r.HealthScore,
			Summary:     r.Summary,
			Premium:     r.AnalysisType == analysis.AnalysisTypePremium,
			AnalyzedAt:  r.AnalyzedAt,
		})
	}

	return &dto.ScanListResponse{Scans: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *ScanService) GetByID(userID, scanID uuid.UUID) (*models.ScanRecord, error) {
	var record models.ScanRecord
	err := s.db.Where("id = ? AND user_id = ?", scanID, userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanNotFound
		}
		return nil, fmt.Errorf("failed to load scan: %w", err)
	}
	return &record, nil
}

func (s *ScanService) Stats(userID uuid.UUID) (*dto.ScanStatsResponse, error) {
	var stats dto.ScanStatsResponse

	row := s.db.Model(&models.ScanRecord{}).
		Select("COUNT(*) AS total, COALESCE(AVG(health_score), 0) AS avg_score").
		Where("user_id = ?", userID).Row()
	if err := row.Scan(&stats.TotalScans, &stats.AverageHealthScore); err != nil {
		return nil, fmt.Errorf("failed to compute scan stats: %w", err)
	}

	if err := s.db.Model(&models.ScanRecord{}).
		Where("user_id = ? AND health_score < 40", userID).
		Count(&stats.HighRiskCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count high risk scans: %w", err)
	}

	var ingredients int64
	err := s.db.Model(&models.ScanRecord{}).
		Select("COALESCE(SUM(jsonb_array_length(extracted_ingredients)), 0)").
		Where("user_id = ?", userID).
		Scan(&ingredients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count ingredients: %w", err)
	}
	stats.TotalIngredients = ingredients

	return &stats, nil
}

// profileContextFrom builds the personalization payload. It returns nil,
// meaning no personalization, unless the user finished onboarding and their
// terms acceptance is currently in force.
func profileContextFrom(profile *models.HealthProfile) *analysis.ProfileContext {
	if profile == nil || profile.OnboardingCompletedAt == nil || !profile.TermsAccepted {
		return nil
	}
	return &analysis.ProfileContext{
		PrimaryGoal:    profile.PrimaryGoal,
		DietType:       profile.DietType,
		Conditions:     profile.Conditions(),
		Allergies:      profile.Allergies,
		Restrictions:   profile.Restrictions,
		ActivityLevel:  profile.ActivityLevel,
		AgeRange:       profile.AgeRange,
		SecondaryGoals: profile.SecondaryGoals,
	}
}

func (s *ScanService) archive(userID uuid.UUID, image []byte, mimeType string) string {
	if s.store == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	url, err := s.store.Archive(ctx, userID, image, mimeType)
	if err != nil {
		slog.Warn("image archive failed", "error", err, "user_id", userID.String())
		return ""
	}
	return url
}
