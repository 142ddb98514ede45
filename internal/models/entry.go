package models

import "time"

type Entry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"userId"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	IsStarred     bool      `gorm:"not null;default:false;index" json:"isStarred"`
	ClarityRating int       `gorm:"not null;default:0" json:"clarityRating"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	User          User      `gorm:"foreignKey:UserID" json:"-"`
}

// Emotion is one labeled intensity attached to an entry by analysis.
type Emotion struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	EntryID uint   `gorm:"not null;index" json:"entryId"`
	Emotion string `gorm:"column:emotion;size:100;not null" json:"emotion"`
	Score   int    `gorm:"not null" json:"score"`
	Entry   Entry  `gorm:"foreignKey:EntryID" json:"-"`
}

type Theme struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	EntryID uint   `gorm:"not null;index" json:"entryId"`
	Theme   string `gorm:"column:theme;size:100;not null" json:"theme"`
	Entry   Entry  `gorm:"foreignKey:EntryID" json:"-"`
}

// EntryWithAnalysis is the read model served to clients: the entry plus its tags.
type EntryWithAnalysis struct {
	Entry
	Emotions []Emotion `json:"emotions"`
	Themes   []Theme   `json:"themes"`
}

// EntryPatch holds optional entry fields for a partial update.
type EntryPatch struct {
	Title         *string
	Content       *string
	IsStarred     *bool
	ClarityRating *int
}

func (p EntryPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.IsStarred == nil && p.ClarityRating == nil
}
