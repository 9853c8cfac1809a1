package models

import "time"

// Boat is a listing owned by a single broker. Price holds the display form
// ("EUR 1250000"); PriceCents and Currency hold the structured amount.
type Boat struct {
	ID          string    `gorm:"size:36;primaryKey" json:"id"`
	UserID      string    `gorm:"size:64;not null;index" json:"user_id"`
	Brand       *string   `gorm:"size:100" json:"brand"`
	Model       *string   `gorm:"size:100" json:"model"`
	Year        *int      `json:"year"`
	Size        *int      `json:"size"`
	Price       *string   `gorm:"size:64" json:"price"`
	PriceCents  *int64    `json:"price_cents"`
	Currency    *string   `gorm:"size:3" json:"currency"`
	Location    *string   `gorm:"size:100" json:"location"`
	Description *string   `gorm:"type:text" json:"description"`
	Equipment   *string   `gorm:"type:text" json:"equipment"`
	Owner       *string   `gorm:"size:100" json:"owner"`
	Engine      *string   `gorm:"size:100" json:"engine"`
	EngineHours *int      `json:"engine_hours"`
	Images      []Image   `gorm:"foreignKey:BoatID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (b Boat) OwnerID() string { return b.UserID }

type Image struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	BoatID    string    `gorm:"size:36;not null;index" json:"-"`
	Filename  string    `gorm:"size:255;not null" json:"filename"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	Alt       *string   `gorm:"size:255" json:"alt"`
	CreatedAt time.Time `json:"-"`
}
