package models

import "time"

// User & role related models
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"not null" json:"firstName"`
	LastName  string    `gorm:"not null" json:"lastName"`
	Email     string    `gorm:"unique;not null;index" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"not null;default:'Customer'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
