package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitProductRequest struct {
	Name            string `json:"name"`
	UPCBarcode      string `json:"upc_barcode,omitempty"`
	IngredientsText string `json:"ingredients_text,omitempty"`
}

type SubmitProductResponse struct {
	ID      uuid.UUID `json:"id"`
	Status  string    `json:"status"`
	Message string    `json:"message"`
}

type RateProductRequest struct {
	StarRating int    `json:"star_rating"`
	ReviewText string `json:"review_text,omitempty"`
}

type ProductSearchItem struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	AIScore       int       `json:"ai_score"`
	AvgUserRating float64   `json:"avg_user_rating"`
	TotalRatings  int       `json:"total_ratings"`
	IsVerified    bool      `json:"is_verified"`
}

type ProductSearchResponse struct {
	Products []ProductSearchItem `json:"products"`
}

type ProductRatingItem struct {
	StarRating int       `json:"star_rating"`
	ReviewText string    `json:"review_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ProductDetailResponse struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	UPCBarcode      string              `json:"upc_barcode,omitempty"`
	IngredientsText string              `json:"ingredients_text"`
	ImageURL        string              `json:"image_url,omitempty"`
	AIScore         int                 `json:"ai_score"`
	AvgUserRating   float64             `json:"avg_user_rating"`
	TotalRatings    int                 `json:"total_ratings"`
	IsVerified      bool                `json:"is_verified"`
	CreatedAt       time.Time           `json:"created_at"`
	RecentRatings   []ProductRatingItem `json:"recent_ratings"`
}
