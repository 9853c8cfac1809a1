package models

import "time"

const (
	RoleAdmin   = "ADMIN"
	RoleBroker  = "BROKER"
	RoleManager = "MANAGER"
)

// User is a broker account. The ID is issued by the identity provider and
// reused as the primary key.
type User struct {
	ID        string    `gorm:"size:64;primaryKey" json:"id"`
	Email     string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null;default:''" json:"-"`
	Name      *string   `gorm:"size:100" json:"name"`
	Company   *string   `gorm:"size:100" json:"company"`
	Phone     *string   `gorm:"size:32" json:"phone"`
	Role      string    `gorm:"size:20;default:'BROKER'" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
