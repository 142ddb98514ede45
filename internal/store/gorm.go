package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on a relational database through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// --- entries ---

func (s *GormStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		return translate(err, "create entry")
	}
	return nil
}

func (s *GormStore) GetEntry(ctx context.Context, id uint) (*models.Entry, error) {
	var entry models.Entry
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, translate(err, "get entry")
	}
	return &entry, nil
}

func (s *GormStore) ListEntriesByUser(ctx context.Context, userID uint) ([]models.Entry, error) {
	var entries []models.Entry
	err := s.db.WithContext(ctx).
		Scopes(OwnedBy(userID), NewestFirst).
		Find(&entries).Error
	if err != nil {
		return nil, translate(err, "list entries")
	}
	return entries, nil
}

func (s *GormStore) ListStarredEntries(ctx context.Context, userID uint) ([]models.Entry, error) {
	var entries []models.Entry
	err := s.db.WithContext(ctx).
		Scopes(OwnedBy(userID), NewestFirst).
		Where("is_starred = ?", true).
		Find(&entries).Error
	if err != nil {
		return nil, translate(err, "list starred entries")
	}
	return entries, nil
}

func (s *GormStore) UpdateEntry(ctx context.Context, id uint, patch models.EntryPatch) (*models.Entry, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return entry, nil
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.IsStarred != nil {
		updates["is_starred"] = *patch.IsStarred
	}
	if patch.ClarityRating != nil {
		updates["clarity_rating"] = *patch.ClarityRating
	}

	if err := s.db.WithContext(ctx).Model(entry).Omit(clause.Associations).Updates(updates).Error; err != nil {
		return nil, translate(err, "update entry")
	}
	return s.GetEntry(ctx, id)
}

func (s *GormStore) DeleteEntry(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&models.Emotion{}).Error; err != nil {
			return translate(err, "delete entry emotions")
		}
		if err := tx.Where("entry_id = ?", id).Delete(&models.Theme{}).Error; err != nil {
			return translate(err, "delete entry themes")
		}
		result := tx.Delete(&models.Entry{}, id)
		if result.Error != nil {
			return translate(result.Error, "delete entry")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- tags ---

func (s *GormStore) AddEmotions(ctx context.Context, emotions []models.Emotion) ([]models.Emotion, error) {
	if len(emotions) == 0 {
		return []models.Emotion{}, nil
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&emotions).Error; err != nil {
		return nil, translate(err, "add emotions")
	}
	return emotions, nil
}

func (s *GormStore) ListEmotions(ctx context.Context, entryIDs ...uint) ([]models.Emotion, error) {
	emotions := []models.Emotion{}
	if len(entryIDs) == 0 {
		return emotions, nil
	}
	if err := s.db.WithContext(ctx).Where("entry_id IN ?", entryIDs).Order("id").Find(&emotions).Error; err != nil {
		return nil, translate(err, "list emotions")
	}
	return emotions, nil
}

func (s *GormStore) DeleteEmotions(ctx context.Context, entryID uint) error {
	if err := s.db.WithContext(ctx).Where("entry_id = ?", entryID).Delete(&models.Emotion{}).Error; err != nil {
		return translate(err, "delete emotions")
	}
	return nil
}

func (s *GormStore) AddThemes(ctx context.Context, themes []models.Theme) ([]models.Theme, error) {
	if len(themes) == 0 {
		return []models.Theme{}, nil
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&themes).Error; err != nil {
		return nil, translate(err, "add themes")
	}
	return themes, nil
}

func (s *GormStore) ListThemes(ctx context.Context, entryIDs ...uint) ([]models.Theme, error) {
	themes := []models.Theme{}
	if len(entryIDs) == 0 {
		return themes, nil
	}
	if err := s.db.WithContext(ctx).Where("entry_id IN ?", entryIDs).Order("id").Find(&themes).Error; err != nil {
		return nil, translate(err, "list themes")
	}
	return themes, nil
}

func (s *GormStore) DeleteThemes(ctx context.Context, entryID uint) error {
	if err := s.db.WithContext(ctx).Where("entry_id = ?", entryID).Delete(&models.Theme{}).Error; err != nil {
		return translate(err, "delete themes")
	}
	return nil
}

// --- users ---

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "create user")
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "get user by username")
	}
	return &user, nil
}

func (s *GormStore) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, translate(err, "get user by google id")
	}
	return &user, nil
}

func (s *GormStore) UpdateSubscription(ctx context.Context, userID uint, isSubscribed bool, expiry *time.Time) (*models.User, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_subscribed":       isSubscribed,
		"subscription_expiry": expiry,
	})
	if result.Error != nil {
		return nil, translate(result.Error, "update subscription")
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, userID)
}

func (s *GormStore) UpdateStripeCustomerID(ctx context.Context, userID uint, customerID string) (*models.User, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("stripe_customer_id", customerID)
	if result.Error != nil {
		return nil, translate(result.Error, "update stripe customer")
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, userID)
}

// --- sessions ---

func (s *GormStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error; err != nil {
		return translate(err, "create session")
	}
	return nil
}

func (s *GormStore) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get session")
	}
	return &session, nil
}

func (s *GormStore) RevokeSession(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Update("revoked", true)
	if result.Error != nil {
		return translate(result.Error, "revoke session")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) PurgeSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at < ? OR revoked = ?", cutoff, true).Delete(&models.Session{})
	if result.Error != nil {
		return 0, translate(result.Error, "purge sessions")
	}
	return result.RowsAffected, nil
}

func translate(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
