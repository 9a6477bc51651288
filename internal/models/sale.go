package models

import "time"

// Sale is the record produced when an approved quote is converted. The quote
// itself survives the conversion (status Completed, never deleted).
type Sale struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       *uint      `gorm:"index" json:"userId,omitempty"`
	QuoteID      *uint      `gorm:"index" json:"quoteId,omitempty"`
	ProductID    uint       `gorm:"not null;index" json:"productId"`
	OrderNumber  string     `gorm:"not null;unique" json:"orderNumber"`
	CustomerName string     `gorm:"not null" json:"customerName"`
	ProductName  string     `gorm:"not null" json:"productName"`
	Quantity     int        `gorm:"not null" json:"quantity"`
	UnitPrice    float64    `gorm:"not null" json:"unitPrice"`
	TotalAmount  float64    `gorm:"not null" json:"totalAmount"`
	Status       string     `gorm:"not null;default:'Confirmed'" json:"status"`
	Notes        string     `json:"notes,omitempty"`
	SaleDate     time.Time  `gorm:"not null" json:"saleDate"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// GetUserID reports the owning user, or 0 for sales converted from
// public quotes that were never linked to an account.
func (s *Sale) GetUserID() uint {
	if s.UserID == nil {
		return 0
	}
	return *s.UserID
}
