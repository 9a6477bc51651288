package models

import "time"

// QuoteStatus is the canonical (string) serialization of a quote's lifecycle
// state. Pending is the initial state; Rejected and Completed are terminal.
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "Pending"
	QuoteStatusApproved  QuoteStatus = "Approved"
	QuoteStatusRejected  QuoteStatus = "Rejected"
	QuoteStatusCompleted QuoteStatus = "Completed"
)

// Valid reports whether s is one of the four known statuses.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusPending, QuoteStatusApproved, QuoteStatusRejected, QuoteStatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s QuoteStatus) Terminal() bool {
	return s == QuoteStatusRejected || s == QuoteStatusCompleted
}

// Quote is a customer's request for a priced offer on a product. Customer and
// product fields are snapshotted at submission time; quantity and pricing are
// immutable after creation, only Status, AdminNotes and ResponseDate change.
type Quote struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          *uint       `gorm:"index" json:"userId,omitempty"` // nil for public (visitor) quotes
	CustomerName    string      `gorm:"not null" json:"customerName"`
	CustomerEmail   string      `gorm:"not null;index" json:"customerEmail"`
	CustomerPhone   string      `json:"customerPhone,omitempty"`
	CustomerCompany string      `json:"customerCompany,omitempty"`
	CustomerAddress string      `json:"customerAddress,omitempty"`
	ProductID       uint        `gorm:"not null;index" json:"productId"`
	ProductName     string      `gorm:"not null" json:"productName"`
	Quantity        int         `gorm:"not null" json:"quantity"`
	UnitPrice       float64     `gorm:"not null" json:"unitPrice"`
	Discount        float64     `gorm:"not null" json:"discount"`
	TotalCost       float64     `gorm:"not null" json:"totalCost"`
	Status          QuoteStatus `gorm:"not null;default:'Pending';index" json:"status"`
	Notes           string      `json:"notes,omitempty"`
	AdminNotes      string      `json:"adminNotes,omitempty"`
	IsPublicQuote   bool        `gorm:"not null;default:false" json:"isPublicQuote"`
	ResponseDate    *time.Time  `json:"responseDate,omitempty"`
	ExpiryDate      *time.Time  `json:"expiryDate,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// GetUserID implements the policy.Ownable interface. Public quotes have no
// owner and resolve to 0, which never matches an authenticated user.
func (q *Quote) GetUserID() uint {
	if q.UserID == nil {
		return 0
	}
	return *q.UserID
}
