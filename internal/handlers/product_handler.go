package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nutrisight/nutrisight-go/internal/dto"
	"github.com/nutrisight/nutrisight-go/internal/middleware"
	"github.com/nutrisight/nutrisight-go/internal/services"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Submit accepts a multipart form: name, optional upc_barcode and
// ingredients_text fields, plus an optional "image" file.
func (h *ProductHandler) Submit(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	req := dto.SubmitProductRequest{
		Name:            c.FormValue("name"),
		UPCBarcode:      c.FormValue("upc_barcode"),
		IngredientsText: c.FormValue("ingredients_text"),
	}

	var image []byte
	mimeType := ""
	if fileHeader, err := c.FormFile("image"); err == nil {
		if fileHeader.Size > services.MaxImageBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
				Error: true, Message: "Image exceeds the 5MB limit",
			})
		}
		file, err := fileHeader.Open()
		if err == nil {
			defer file.Close()
			if data, err := io.ReadAll(file); err == nil {
				image = data
				mimeType = fileHeader.Header.Get("Content-Type")
			}
		}
	}

	resp, err := h.productService.Submit(userID, &req, image, mimeType)
	if err != nil {
		if errors.Is(err, services.ErrProductExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ProductHandler) Rate(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid product id",
		})
	}

	var req dto.RateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.productService.Rate(userID, productID, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Product not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to save rating",
			})
		}
	}
	return c.JSON(fiber.Map{"message": "Rating submitted successfully"})
}

func (h *ProductHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Query parameter q is required",
		})
	}

	resp, err := h.productService.Search(query, c.QueryInt("limit", 10))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to search products",
		})
	}
	return c.JSON(resp)
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid product id",
		})
	}

	resp, err := h.productService.GetByID(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load product",
		})
	}
	return c.JSON(resp)
}
