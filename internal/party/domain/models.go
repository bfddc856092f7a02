package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PartyType distinguishes the two sides a billing document can face.
type PartyType string

const (
	PartyTypeCustomer PartyType = "customer"
	PartyTypeVendor   PartyType = "vendor"
)

func (t PartyType) Valid() bool {
	return t == PartyTypeCustomer || t == PartyTypeVendor
}

// Party is a customer or vendor owned by one organization.
type Party struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID      `gorm:"not null;index" json:"organizationId"`
	Name           string            `gorm:"not null" json:"name"`
	Type           PartyType         `gorm:"type:text;not null;default:'customer'" json:"type"`
	Email          string            `gorm:"type:text" json:"email,omitempty"`
	Phone          string            `gorm:"type:text" json:"phone,omitempty"`
	GSTNo          string            `gorm:"column:gst_no;type:text" json:"gstNo,omitempty"`
	PANNo          string            `gorm:"column:pan_no;type:text" json:"panNo,omitempty"`
	BillingAddress string            `gorm:"type:text" json:"billingAddress,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Party) TableName() string { return "parties" }
