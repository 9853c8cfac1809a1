package models

import "time"

// Client is a prospective or existing buyer owned by a single broker.
// The form's "company" value lives in the state column.
type Client struct {
	ID            string     `gorm:"size:36;primaryKey" json:"id"`
	UserID        string     `gorm:"size:64;not null;index;uniqueIndex:idx_clients_user_email" json:"user_id"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	Email         string     `gorm:"size:255;not null;uniqueIndex:idx_clients_user_email" json:"email"`
	Phone         *string    `gorm:"size:32" json:"phone"`
	State         *string    `gorm:"size:100" json:"company"`
	ModelInterest *string    `gorm:"size:100" json:"model_interest"`
	Budget        *int64     `json:"budget"`
	Communication *string    `gorm:"type:text" json:"communication"`
	ToContact     *time.Time `gorm:"index" json:"to_contact"`
	ToContactText *string    `gorm:"size:500" json:"to_contact_text"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	User          User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c Client) OwnerID() string { return c.UserID }
