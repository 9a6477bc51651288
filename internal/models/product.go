package models

import (
	"time"

	"gorm.io/gorm"
)

// Product catalog models
type Product struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	Name                string            `gorm:"not null;index" json:"name"`
	Description         string            `gorm:"not null" json:"description"`
	DetailedDescription string            `json:"detailedDescription,omitempty"`
	ImageURL            string            `json:"imageUrl,omitempty"`
	BasePrice           float64           `gorm:"not null" json:"basePrice"`
	Category            string            `gorm:"index" json:"category,omitempty"`
	TechnicalSpecs      string            `json:"technicalSpecs,omitempty"`
	ManualContent       string            `json:"manualContent,omitempty"` // HTML installation/usage manual
	IsActive            bool              `gorm:"not null;default:true" json:"isActive"`
	Materials           []ProductMaterial `gorm:"foreignKey:ProductID" json:"materials"`
	DeletedAt           gorm.DeletedAt    `gorm:"index" json:"-"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// ProductMaterial is one bill-of-materials row: how much of a raw material
// goes into assembling one unit of the product.
type ProductMaterial struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	ProductID  uint     `gorm:"not null;index" json:"productId"`
	MaterialID uint     `gorm:"not null" json:"materialId"`
	Material   Material `gorm:"foreignKey:MaterialID" json:"material"`
	Quantity   float64  `gorm:"not null" json:"quantity"`
}

type ProductFAQ struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"productId"`
	Question  string    `gorm:"not null" json:"question"`
	Answer    string    `gorm:"not null" json:"answer"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
