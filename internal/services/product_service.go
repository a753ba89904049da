package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutrisight/nutrisight-go/internal/dto"
	"github.com/nutrisight/nutrisight-go/internal/models"
	"github.com/nutrisight/nutrisight-go/internal/storage"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidRating   = errors.New("star rating must be between 1 and 5")
	ErrProductExists   = errors.New("product already in the catalog")
)

// ProductService manages the community catalog: submissions, ratings, and
// search. Submitted products stay pending until moderated; ratings are one
// per user per product.
type ProductService struct {
	db    *gorm.DB
	store *storage.ImageStore
}

func NewProductService(db *gorm.DB, store *storage.ImageStore) *ProductService {
	return &ProductService{db: db, store: store}
}

// Submit adds a product to the review queue. A barcode already in the
// catalog rejects the duplicate and points at the existing entry.
func (s *ProductService) Submit(userID uuid.UUID, req *dto.SubmitProductRequest, image []byte, mimeType string) (*dto.SubmitProductResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("product name is required")
	}

	if req.UPCBarcode != "" {
		var existing models.Product
		if err := s.db.Where("upc_barcode = ?", req.UPCBarcode).First(&existing).Error; err == nil {
			return nil, fmt.Errorf("%w: %s", ErrProductExists, existing.ID)
		}
	}

	product := models.Product{
		ID:              uuid.New(),
		SubmittedBy:     userID,
		Name:            strings.TrimSpace(req.Name),
		UPCBarcode:      req.UPCBarcode,
		IngredientsText: req.IngredientsText,
		Status:          "pending",
	}

	if len(image) > 0 && s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		url, err := s.store.Archive(ctx, userID, image, mimeType)
		if err != nil {
			slog.Warn("product image archive failed", "error", err, "user_id", userID.String())
		} else {
			product.ImageURL = url
		}
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to save product submission: %w", err)
	}

	return &dto.SubmitProductResponse{
		ID:      product.ID,
		Status:  product.Status,
		Message: "Product submitted successfully for review",
	}, nil
}

// Rate records or replaces the caller's star rating, then recomputes the
// product's aggregate inside the same transaction so concurrent ratings
// never leave a stale average.
func (s *ProductService) Rate(userID, productID uuid.UUID, req *dto.RateProductRequest) error {
	if req.StarRating < 1 || req.StarRating > 5 {
		return ErrInvalidRating
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to load product: %w", err)
		}

		var rating models.ProductRating
		err := tx.Where("product_id = ? AND user_id = ?", productID, userID).First(&rating).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating = models.ProductRating{
				ID:         uuid.New(),
				ProductID:  productID,
				UserID:     userID,
				StarRating: req.StarRating,
				ReviewText: req.ReviewText,
			}
			if err := tx.Create(&rating).Error; err != nil {
				return fmt.Errorf("failed to save rating: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load rating: %w", err)
		default:
			rating.StarRating = req.StarRating
			rating.ReviewText = req.ReviewText
			if err := tx.Save(&rating).Error; err != nil {
				return fmt.Errorf("failed to update rating: %w", err)
			}
		}

		var stars []int
		if err := tx.Model(&models.ProductRating{}).
			Where("product_id = ?", productID).
			Pluck("star_rating", &stars).Error; err != nil {
			return fmt.Errorf("failed to read ratings: %w", err)
		}

		avg, count := aggregateRatings(stars)
		return tx.Model(&product).Updates(map[string]interface{}{
			"avg_user_rating": avg,
			"total_ratings":   count,
		}).Error
	})
}

// Search matches approved products by name or ingredient text.
func (s *ProductService) Search(query string, limit int) (*dto.ProductSearchResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	pattern := "%" + strings.TrimSpace(query) + "%"
	var products []models.Product
	if err := s.db.Where("status = ?", "approved").
		Where("name ILIKE ? OR ingredients_text ILIKE ?", pattern, pattern).
		Order("total_ratings DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	items := make([]dto.ProductSearchItem, 0, len(products))
	for _, p := range products {
		items = append(items, dto.ProductSearchItem{
			ID:            p.ID,
			Name:          p.Name,
			AIScore:       p.AIScore,
			AvgUserRating: p.AvgUserRating,
			TotalRatings:  p.TotalRatings,
			IsVerified:    p.IsVerified,
		})
	}
	return &dto.ProductSearchResponse{Products: items}, nil
}

func (s *ProductService) GetByID(productID uuid.UUID) (*dto.ProductDetailResponse, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	var ratings []models.ProductRating
	if err := s.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(10).
		Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}

	recent := make([]dto.ProductRatingItem, 0, len(ratings))
	for _, r := range ratings {
		recent = append(recent, dto.ProductRatingItem{
			StarRating: r.StarRating,
			ReviewText: r.ReviewText,
			CreatedAt:  r.CreatedAt,
		})
	}

	return &dto.ProductDetailResponse{
		ID:              product.ID,
		Name:            product.Name,
		UPCBarcode:      product.UPCBarcode,
		IngredientsText: product.IngredientsText,
		ImageURL:        product.ImageURL,
		AIScore:         product.AIScore,
		AvgUserRating:   product.AvgUserRating,
		TotalRatings:    product.TotalRatings,
		IsVerified:      product.IsVerified,
		CreatedAt:       product.CreatedAt,
		RecentRatings:   recent,
	}, nil
}

// aggregateRatings computes the one-decimal average the catalog displays.
func aggregateRatings(stars []int) (avg float64, count int) {
	if len(stars) == 0 {
		return 0, 0
	}
	sum := 0
	for _, s := range stars {
		sum += s
	}
	avg = math.Round(float64(sum)/float64(len(stars))*10) / 10
	return avg, len(stars)
}
