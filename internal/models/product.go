package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a community-submitted catalog entry. Submissions start pending
// and become visible in search once a moderator approves them.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubmittedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"submitted_by"`

	Name            string `gorm:"size:255;not null;index" json:"name"`
	UPCBarcode      string `gorm:"size:50;index" json:"upc_barcode,omitempty"`
	IngredientsText string `gorm:"type:text" json:"ingredients_text"`
	ImageURL        string `gorm:"type:text" json:"image_url,omitempty"`

	AIScore       int     `gorm:"type:integer;default:0" json:"ai_score"`
	AvgUserRating float64 `gorm:"type:numeric(2,1);default:0" json:"avg_user_rating"`
	TotalRatings  int     `gorm:"type:integer;default:0" json:"total_ratings"`

	Status     string `gorm:"size:20;not null;default:'pending'" json:"status"` // pending, approved, rejected
	IsVerified bool   `gorm:"default:false" json:"is_verified"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ProductRating holds one user's star rating for a product. A user re-rating
// a product replaces their earlier rating.
type ProductRating struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index:idx_product_user,unique" json:"product_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_product_user,unique" json:"user_id"`
	StarRating int       `gorm:"type:integer;not null;check:star_rating >= 1 AND star_rating <= 5" json:"star_rating"`
	ReviewText string    `gorm:"type:text" json:"review_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ProductRating) TableName() string {
	return "product_ratings"
}
