package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock only moves through catalog edits and sales.
type Product struct {
	BaseModel
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   *Category       `gorm:"foreignKey:CategoryID" json:"-"`
	Code       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_code,where:deleted_at IS NULL" json:"code"`
	Stock      int             `gorm:"not null;check:chk_products_stock,stock >= 0" json:"stock"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null;check:chk_products_price,price >= 0" json:"price"`
}

// ProductResponse keeps the response shape existing clients read: the category
// name is exposed as "type".
type ProductResponse struct {
	ID         uuid.UUID       `json:"id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Stock      int             `json:"stock"`
	Price      decimal.Decimal `json:"price"`
	Type       string          `json:"type"`
	CategoryID uuid.UUID       `json:"category_id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (p *Product) ToResponse() ProductResponse {
	resp := ProductResponse{
		ID:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		Stock:      p.Stock,
		Price:      p.Price,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Category != nil {
		resp.Type = p.Category.Name
	}
	return resp
}

func ToProductResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = products[i].ToResponse()
	}
	return out
}
