package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutrisight/nutrisight-go/internal/email"
	"github.com/nutrisight/nutrisight-go/internal/models"
)

var ErrQuotaExhausted = errors.New("no scans remaining")

// LowScanWarnThreshold is the count at or below which clients surface a
// warning banner; zero blocks scanning entirely for free accounts.
const LowScanWarnThreshold = 10

// notifyCounts are the remaining-scan values that trigger an email.
// Exact-match on the post-decrement count, so each tier fires once.
var notifyCounts = map[int]string{
	10: "low_scans",
	5:  "low_scans",
	0:  "scans_exhausted",
}

// QuotaService owns the scan counter pair on health_profiles.
// scans_left never goes negative and is only changed by Consume.
type QuotaService struct {
	db     *gorm.DB
	sender email.Sender
}

func NewQuotaService(db *gorm.DB, sender email.Sender) *QuotaService {
	return &QuotaService{db: db, sender: sender}
}

// Remaining reads the counters without mutating anything.
func (s *QuotaService) Remaining(userID uuid.UUID) (scansLeft, totalUsed int, err error) {
	var profile models.HealthProfile
	if err := s.db.Select("scans_left", "total_scans_used").
		Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to load scan quota: %w", err)
	}
	return profile.ScansLeft, profile.TotalScansUsed, nil
}

// Consume decrements scans_left and increments total_scans_used as a single
// conditional UPDATE guarded by scans_left > 0, so concurrent scans cannot
// drive the counter negative. The returned counts come from a readback of
// the row, not client-side arithmetic.
func (s *QuotaService) Consume(userID uuid.UUID) (scansLeft, totalUsed int, err error) {
	result := s.db.Model(&models.HealthProfile{}).
		Where("user_id = ? AND scans_left > 0", userID).
		Updates(map[string]interface{}{
			"scans_left":       gorm.Expr("scans_left - 1"),
			"total_scans_used": gorm.Expr("total_scans_used + 1"),
		})
	if result.Error != nil {
		return 0, 0, fmt.Errorf("failed to consume scan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, 0, ErrQuotaExhausted
	}

	scansLeft, totalUsed, err = s.Remaining(userID)
	if err != nil {
		return 0, 0, err
	}

	if emailType, ok := shouldNotify(scansLeft); ok {
		go s.notify(userID, scansLeft, emailType)
	}
	return scansLeft, totalUsed, nil
}

func shouldNotify(scansLeft int) (emailType string, ok bool) {
	emailType, ok = notifyCounts[scansLeft]
	return emailType, ok
}

// notify delivers the low-scan email off the request path and records the
// attempt. Delivery failure never affects the scan that triggered it.
func (s *QuotaService) notify(userID uuid.UUID, scansLeft int, emailType string) {
	if s.sender == nil {
		return
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		slog.Error("low scan notify: user lookup failed", "error", err, "user_id", userID.String())
		return
	}

	entry := models.EmailLog{
		ID:        uuid.New(),
		UserID:    userID,
		EmailType: emailType,
		ScansLeft: scansLeft,
		Status:    "sent",
	}
	if err := s.sender.SendLowScanEmail(user.Email, scansLeft); err != nil {
		slog.Error("low scan email failed", "error", err, "user_id", userID.String(), "scans_left", scansLeft)
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	}
	if err := s.db.Create(&entry).Error; err != nil {
		slog.Error("failed to record email log", "error", err)
	}
}
