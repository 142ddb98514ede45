package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side half of a login. The cookie carries its ID.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	Revoked   bool      `gorm:"not null;default:false" json:"revoked"`
	UserAgent string    `gorm:"size:512" json:"-"`
	IP        string    `gorm:"size:64" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Session) Active(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
