package repository

import "gorm.io/gorm"

// ForOwner returns a GORM scope that filters by user_id.
func ForOwner(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", ownerID)
	}
}
