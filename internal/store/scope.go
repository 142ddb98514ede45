package store

import "gorm.io/gorm"

// OwnedBy returns a GORM scope that filters rows by user_id.
func OwnedBy(userID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// NewestFirst orders entries by creation time, newest first, with id as the
// tie breaker.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}
