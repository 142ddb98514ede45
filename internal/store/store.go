// Package store persists users, sessions, journal entries and their
// analysis tags. GormStore backs it with Postgres; MemoryStore keeps
// everything in process memory for development and tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type EntryStore interface {
	CreateEntry(ctx context.Context, entry *models.Entry) error
	GetEntry(ctx context.Context, id uint) (*models.Entry, error)
	// ListEntriesByUser returns the user's entries newest first.
	ListEntriesByUser(ctx context.Context, userID uint) ([]models.Entry, error)
	ListStarredEntries(ctx context.Context, userID uint) ([]models.Entry, error)
	UpdateEntry(ctx context.Context, id uint, patch models.EntryPatch) (*models.Entry, error)
	// DeleteEntry removes the entry's tags before the entry itself.
	DeleteEntry(ctx context.Context, id uint) error

	AddEmotions(ctx context.Context, emotions []models.Emotion) ([]models.Emotion, error)
	ListEmotions(ctx context.Context, entryIDs ...uint) ([]models.Emotion, error)
	DeleteEmotions(ctx context.Context, entryID uint) error

	AddThemes(ctx context.Context, themes []models.Theme) ([]models.Theme, error)
	ListThemes(ctx context.Context, entryIDs ...uint) ([]models.Theme, error)
	DeleteThemes(ctx context.Context, entryID uint) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	UpdateSubscription(ctx context.Context, userID uint, isSubscribed bool, expiry *time.Time) (*models.User, error)
	UpdateStripeCustomerID(ctx context.Context, userID uint, customerID string) (*models.User, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	RevokeSession(ctx context.Context, id uuid.UUID) error
	// PurgeSessions deletes sessions that expired before the cutoff or were revoked.
	PurgeSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

type Store interface {
	EntryStore
	UserStore
	SessionStore
	Ping(ctx context.Context) error
}
