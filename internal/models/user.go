package models

import "time"

// User is a journal owner. Password is nil for Google-only accounts.
type User struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Username           string     `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Password           *string    `json:"-"`
	Email              *string    `gorm:"size:255;uniqueIndex" json:"email"`
	GoogleID           *string    `gorm:"size:255;uniqueIndex" json:"googleId"`
	DisplayName        string     `gorm:"size:255" json:"displayName"`
	ProfilePicture     *string    `gorm:"type:text" json:"profilePicture"`
	IsSubscribed       bool       `gorm:"not null;default:false" json:"isSubscribed"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry"`
	StripeCustomerID   *string    `gorm:"size:255;uniqueIndex" json:"-"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// HasActiveSubscription reports whether premium access is currently granted.
// A nil expiry means lifetime access.
func (u *User) HasActiveSubscription(now time.Time) bool {
	if !u.IsSubscribed {
		return false
	}
	return u.SubscriptionExpiry == nil || u.SubscriptionExpiry.After(now)
}
