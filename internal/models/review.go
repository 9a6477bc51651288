package models

import "time"

// Review is a customer product review. The only mutation after creation is
// the moderation flip IsApproved false -> true (or deletion).
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"not null;index" json:"productId"`
	UserName   string    `gorm:"not null" json:"userName"`
	Rating     int       `gorm:"not null" json:"rating"` // 1..5
	Comment    string    `gorm:"not null" json:"comment"`
	IsApproved bool      `gorm:"not null;default:false" json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}
