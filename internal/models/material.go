package models

import "time"

// Raw material & supplier models
type Material struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Description string    `json:"description,omitempty"`
	UnitCost    float64   `gorm:"not null" json:"unitCost"`
	Unit        string    `gorm:"not null" json:"unit"` // ex: piece, kg, m
	SupplierID  uint      `gorm:"not null;index" json:"supplierId"`
	Supplier    Supplier  `gorm:"foreignKey:SupplierID" json:"supplier"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Supplier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;unique" json:"name"`
	ContactName string    `json:"contactName,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
