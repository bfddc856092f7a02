package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Organization struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Slug      string            `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Address   string            `gorm:"type:text" json:"address,omitempty"`
	Email     string            `gorm:"type:text" json:"email,omitempty"`
	Phone     string            `gorm:"type:text" json:"phone,omitempty"`
	GSTNo     string            `gorm:"column:gst_no;type:text" json:"gstNo,omitempty"`
	PANNo     string            `gorm:"column:pan_no;type:text" json:"panNo,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Organization) TableName() string { return "organizations" }

// Setting carries the org's billing configuration: the active financial
// year window that scopes document numbering, and the display prefix per
// document kind.
type Setting struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID      `gorm:"not null;uniqueIndex" json:"organizationId"`
	Currency  string            `gorm:"type:text;not null;default:'INR'" json:"currency"`
	FYStart   time.Time         `gorm:"column:financial_year_start;not null" json:"financialYearStart"`
	FYEnd     time.Time         `gorm:"column:financial_year_end;not null" json:"financialYearEnd"`
	Prefixes  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"transactionPrefix"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Setting) TableName() string { return "organization_settings" }

// PrefixFor returns the configured display prefix for a document kind,
// or "" when unset.
func (s Setting) PrefixFor(kind string) string {
	if s.Prefixes == nil {
		return ""
	}
	if v, ok := s.Prefixes[kind]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}
