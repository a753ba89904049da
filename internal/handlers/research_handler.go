package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nutrisight/nutrisight-go/internal/analysis"
	"github.com/nutrisight/nutrisight-go/internal/dto"
)

const maxResearchIngredients = 10

type ResearchHandler struct {
	analyzer analysis.EvidenceAnalyzer
	timeout  time.Duration
}

func NewResearchHandler(analyzer analysis.EvidenceAnalyzer, timeout time.Duration) *ResearchHandler {
	return &ResearchHandler{analyzer: analyzer, timeout: timeout}
}

// Analyze returns an evidence summary per submitted ingredient.
func (h *ResearchHandler) Analyze(c *fiber.Ctx) error {
	var req struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if len(req.Ingredients) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "At least one ingredient is required",
		})
	}
	if len(req.Ingredients) > maxResearchIngredients {
		req.Ingredients = req.Ingredients[:maxResearchIngredients]
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	results, err := h.analyzer.AnalyzeEvidence(ctx, req.Ingredients)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrProviderUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Research analysis is temporarily unavailable",
			})
		case errors.Is(err, analysis.ErrUnparseable):
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Research analysis produced an unreadable result, please retry",
			})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Research analysis failed, please retry",
			})
		}
	}

	return c.JSON(fiber.Map{
		"ingredients_analyzed": len(results),
		"results":              results,
	})
}
