package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nutrisight/nutrisight-go/internal/analysis"
	"github.com/nutrisight/nutrisight-go/internal/dto"
	"github.com/nutrisight/nutrisight-go/internal/middleware"
	"github.com/nutrisight/nutrisight-go/internal/services"
)

type ScanHandler struct {
	scanService *services.ScanService
}

func NewScanHandler(scanService *services.ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

func (h *ScanHandler) Eligibility(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	resp, err := h.scanService.Eligibility(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to check scan eligibility",
		})
	}
	return c.JSON(resp)
}

// Analyze accepts a multipart upload ("image" field) and runs one standard scan.
func (h *ScanHandler) Analyze(c *fiber.Ctx) error {
	return h.analyze(c, false)
}

// AnalyzePremium runs the comprehensive tier; the service rejects callers
// without an active subscription.
func (h *ScanHandler) AnalyzePremium(c *fiber.Ctx) error {
	return h.analyze(c, true)
}

func (h *ScanHandler) analyze(c *fiber.Ctx, premium bool) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "An image file is required",
		})
	}
	if fileHeader.Size > services.MaxImageBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Error: true, Message: "Image exceeds the 5MB limit",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded image",
		})
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded image",
		})
	}

	mimeType := fileHeader.Header.Get("Content-Type")

	resp, err := h.scanService.Analyze(c.UserContext(), userID, image, mimeType, premium)
	if err != nil {
		return h.mapAnalyzeError(c, err)
	}
	return c.JSON(resp)
}

func (h *ScanHandler) mapAnalyzeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrQuotaExhausted):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":           true,
			"message":         "No scans remaining",
			"upgrade_trigger": "low_scans",
		})
	case errors.Is(err, services.ErrConsentRequired):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Accept the current terms before scanning",
		})
	case errors.Is(err, services.ErrPremiumRequired):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":           true,
			"message":         "Premium analysis requires an active subscription",
			"upgrade_trigger": "feature_limit",
		})
	case errors.Is(err, services.ErrScanInFlight):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "A scan is already in progress",
		})
	case errors.Is(err, services.ErrInvalidImage):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, analysis.ErrUnparseable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Analysis produced an unreadable result, please retry",
		})
	case errors.Is(err, analysis.ErrProviderUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Analysis is temporarily unavailable",
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Analysis failed, please retry",
		})
	}
}

func (h *ScanHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	resp, err := h.scanService.List(userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list scans",
		})
	}
	return c.JSON(resp)
}

func (h *ScanHandler) GetByID(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	scanID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid scan id",
		})
	}

	record, err := h.scanService.GetByID(userID, scanID)
	if err != nil {
		if errors.Is(err, services.ErrScanNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Scan not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load scan",
		})
	}
	return c.JSON(record)
}

func (h *ScanHandler) Stats(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	stats, err := h.scanService.Stats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute scan stats",
		})
	}
	return c.JSON(stats)
}
