package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nutrisight/nutrisight-go/internal/dto"
	"github.com/nutrisight/nutrisight-go/internal/middleware"
	"github.com/nutrisight/nutrisight-go/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Status returns the onboarding gate decision. A storage failure is a 503,
// not needs_onboarding: clients must retry rather than re-run onboarding.
func (h *ProfileHandler) Status(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	status, err := h.profileService.GetStatus(userID)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Profile check failed, please retry",
		})
	}
	return c.JSON(status)
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profileService.Get(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Profile not found",
		})
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) CompleteOnboarding(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.CompleteOnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	profile, err := h.profileService.CompleteOnboarding(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrTermsRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save profile",
		})
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) SkipOnboarding(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profileService.Skip(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to skip onboarding",
		})
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) AcceptTerms(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.AcceptTermsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.profileService.AcceptTerms(userID, req.ConsentVersion); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to record terms acceptance",
		})
	}
	return c.JSON(fiber.Map{"message": "Terms accepted"})
}

func (h *ProfileHandler) RevokeConsent(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	if err := h.profileService.RevokeConsent(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to revoke consent",
		})
	}
	return c.JSON(fiber.Map{"message": "Consent revoked"})
}
