package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ProductType separates physical goods from services; both can appear as
// billing document line items.
type ProductType string

const (
	ProductTypeGoods   ProductType = "goods"
	ProductTypeService ProductType = "service"
)

func (t ProductType) Valid() bool {
	return t == ProductTypeGoods || t == ProductTypeService
}

// Category groups products for filtering; deleting a category leaves its
// products uncategorized.
type Category struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"organizationId"`
	Name        string       `gorm:"not null" json:"name"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Category) TableName() string { return "product_categories" }

// Product is a sellable item. Code holds the HSN or SAC classification;
// UM and TaxCode reference the closed lookup tables used by the calculator.
type Product struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID        snowflake.ID    `gorm:"not null;index" json:"organizationId"`
	CategoryID   *snowflake.ID   `gorm:"index" json:"categoryId,omitempty"`
	Name         string          `gorm:"not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description,omitempty"`
	Type         ProductType     `gorm:"type:text;not null;default:'goods'" json:"type"`
	Code         string          `gorm:"type:text" json:"code,omitempty"`
	UM           string          `gorm:"column:um;type:text;not null;default:'none'" json:"um"`
	TaxCode      string          `gorm:"type:text;not null;default:'none'" json:"taxCode"`
	CostPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"costPrice"`
	SellingPrice decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"sellingPrice"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Product) TableName() string { return "products" }
