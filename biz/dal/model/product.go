package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog item. Slug is immutable once set: it is
// embedded in image storage keys, and rewriting it would orphan every
// stored variant object.
type Product struct {
	ID              uint            `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt       time.Time       `json:"created_at,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at,omitempty"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
	Name            string          `gorm:"column:name;not null" json:"name"`
	Slug            string          `gorm:"column:slug;uniqueIndex:uk_product_slug" json:"slug"`
	SKU             string          `gorm:"column:sku;uniqueIndex:uk_product_sku" json:"sku"`
	Description     string          `gorm:"column:description;type:text" json:"description,omitempty"`
	Brand           string          `gorm:"column:brand;index:idx_product_brand" json:"brand,omitempty"`
	Price           float64         `gorm:"column:price;not null" json:"price"`
	DiscountedPrice *float64        `gorm:"column:discounted_price" json:"discounted_price,omitempty"`
	Published       bool            `gorm:"column:published;default:false;index:idx_product_published" json:"published"`
	CategoryID      *uint           `gorm:"column:category_id;index:idx_product_category" json:"category_id,omitempty"`
	Specifications  json.RawMessage `gorm:"column:specifications;type:json" json:"specifications,omitempty"`
	ImageCount      uint            `gorm:"column:image_count;not null;default:0" json:"image_count"`
}

// TableName overrides gorm to use the product table.
func (Product) TableName() string {
	return "product"
}

// EffectivePrice returns the discounted price when one is set, otherwise the
// list price.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountedPrice != nil && *p.DiscountedPrice > 0 {
		return *p.DiscountedPrice
	}
	return p.Price
}

// OnSale reports whether the product currently has a discount below the
// list price.
func (p *Product) OnSale() bool {
	return p.DiscountedPrice != nil && *p.DiscountedPrice < p.Price
}

// DiscountPercentage returns the rounded discount in percent, 0 when the
// product is not on sale.
func (p *Product) DiscountPercentage() int {
	if !p.OnSale() || p.Price <= 0 {
		return 0
	}
	return int((p.Price-*p.DiscountedPrice)/p.Price*100 + 0.5)
}
