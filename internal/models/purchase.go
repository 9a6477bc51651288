package models

import "time"

// Purchase records an inbound order of raw material from a supplier.
// Inventory levels are a projection over purchases, never stored directly.
type Purchase struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	SupplierID     uint       `gorm:"not null;index" json:"supplierId"`
	Supplier       Supplier   `gorm:"foreignKey:SupplierID" json:"supplier"`
	MaterialID     uint       `gorm:"not null;index" json:"materialId"`
	Material       Material   `gorm:"foreignKey:MaterialID" json:"material"`
	PurchaseNumber string     `gorm:"not null;unique" json:"purchaseNumber"`
	Quantity       float64    `gorm:"not null" json:"quantity"`
	UnitCost       float64    `gorm:"not null" json:"unitCost"`
	TotalCost      float64    `gorm:"not null" json:"totalCost"`
	Status         string     `gorm:"not null;default:'Ordered'" json:"status"`
	Notes          string     `json:"notes,omitempty"`
	PurchaseDate   time.Time  `gorm:"not null" json:"purchaseDate"`
	DeliveryDate   *time.Time `json:"deliveryDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
