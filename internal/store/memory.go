package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryStore implements Store with mutex-guarded maps. Values are copied
// on the way in and out so callers never share state with the store.
type MemoryStore struct {
	mu sync.RWMutex

	users    map[uint]models.User
	entries  map[uint]models.Entry
	emotions map[uint]models.Emotion
	themes   map[uint]models.Theme
	sessions map[uuid.UUID]models.Session

	nextUserID    uint
	nextEntryID   uint
	nextEmotionID uint
	nextThemeID   uint

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[uint]models.User),
		entries:       make(map[uint]models.Entry),
		emotions:      make(map[uint]models.Emotion),
		themes:        make(map[uint]models.Theme),
		sessions:      make(map[uuid.UUID]models.Session),
		nextUserID:    1,
		nextEntryID:   1,
		nextEmotionID: 1,
		nextThemeID:   1,
		now:           time.Now,
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// --- entries ---

func (s *MemoryStore) CreateEntry(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[entry.UserID]; !ok {
		return ErrNotFound
	}
	now := s.now()
	entry.ID = s.nextEntryID
	s.nextEntryID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	entry.User = models.User{}
	s.entries[entry.ID] = *entry
	return nil
}

func (s *MemoryStore) GetEntry(_ context.Context, id uint) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

func (s *MemoryStore) ListEntriesByUser(_ context.Context, userID uint) ([]models.Entry, error) {
	return s.filterEntries(func(e models.Entry) bool { return e.UserID == userID }), nil
}

func (s *MemoryStore) ListStarredEntries(_ context.Context, userID uint) ([]models.Entry, error) {
	return s.filterEntries(func(e models.Entry) bool { return e.UserID == userID && e.IsStarred }), nil
}

func (s *MemoryStore) filterEntries(keep func(models.Entry) bool) []models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []models.Entry{}
	for _, e := range s.entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func (s *MemoryStore) UpdateEntry(_ context.Context, id uint, patch models.EntryPatch) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Empty() {
		return &entry, nil
	}
	if patch.Title != nil {
		entry.Title = *patch.Title
	}
	if patch.Content != nil {
		entry.Content = *patch.Content
	}
	if patch.IsStarred != nil {
		entry.IsStarred = *patch.IsStarred
	}
	if patch.ClarityRating != nil {
		entry.ClarityRating = *patch.ClarityRating
	}
	entry.UpdatedAt = s.now()
	s.entries[id] = entry
	return &entry, nil
}

func (s *MemoryStore) DeleteEntry(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	s.deleteEmotionsLocked(id)
	s.deleteThemesLocked(id)
	delete(s.entries, id)
	return nil
}

// --- tags ---

func (s *MemoryStore) AddEmotions(_ context.Context, emotions []models.Emotion) ([]models.Emotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range emotions {
		if _, ok := s.entries[e.EntryID]; !ok {
			return nil, ErrNotFound
		}
	}
	created := make([]models.Emotion, 0, len(emotions))
	for _, e := range emotions {
		e.ID = s.nextEmotionID
		s.nextEmotionID++
		e.Entry = models.Entry{}
		s.emotions[e.ID] = e
		created = append(created, e)
	}
	return created, nil
}

func (s *MemoryStore) ListEmotions(_ context.Context, entryIDs ...uint) ([]models.Emotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := idSet(entryIDs)
	result := []models.Emotion{}
	for _, e := range s.emotions {
		if wanted[e.EntryID] {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) DeleteEmotions(_ context.Context, entryID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteEmotionsLocked(entryID)
	return nil
}

func (s *MemoryStore) deleteEmotionsLocked(entryID uint) {
	for id, e := range s.emotions {
		if e.EntryID == entryID {
			delete(s.emotions, id)
		}
	}
}

func (s *MemoryStore) AddThemes(_ context.Context, themes []models.Theme) ([]models.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range themes {
		if _, ok := s.entries[t.EntryID]; !ok {
			return nil, ErrNotFound
		}
	}
	created := make([]models.Theme, 0, len(themes))
	for _, t := range themes {
		t.ID = s.nextThemeID
		s.nextThemeID++
		t.Entry = models.Entry{}
		s.themes[t.ID] = t
		created = append(created, t)
	}
	return created, nil
}

func (s *MemoryStore) ListThemes(_ context.Context, entryIDs ...uint) ([]models.Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := idSet(entryIDs)
	result := []models.Theme{}
	for _, t := range s.themes {
		if wanted[t.EntryID] {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) DeleteThemes(_ context.Context, entryID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteThemesLocked(entryID)
	return nil
}

func (s *MemoryStore) deleteThemesLocked(entryID uint) {
	for id, t := range s.themes {
		if t.EntryID == entryID {
			delete(s.themes, id)
		}
	}
}

// --- users ---

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username ||
			sameOptional(u.Email, user.Email) ||
			sameOptional(u.GoogleID, user.GoogleID) ||
			sameOptional(u.StripeCustomerID, user.StripeCustomerID) {
			return ErrDuplicate
		}
	}
	now := s.now()
	user.ID = s.nextUserID
	s.nextUserID++
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Username == username })
}

func (s *MemoryStore) GetUserByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (s *MemoryStore) findUser(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateSubscription(_ context.Context, userID uint, isSubscribed bool, expiry *time.Time) (*models.User, error) {
	return s.updateUser(userID, func(u *models.User) error {
		u.IsSubscribed = isSubscribed
		u.SubscriptionExpiry = expiry
		return nil
	})
}

func (s *MemoryStore) UpdateStripeCustomerID(_ context.Context, userID uint, customerID string) (*models.User, error) {
	return s.updateUser(userID, func(u *models.User) error {
		for id, other := range s.users {
			if id != userID && other.StripeCustomerID != nil && *other.StripeCustomerID == customerID {
				return ErrDuplicate
			}
		}
		u.StripeCustomerID = &customerID
		return nil
	})
}

func (s *MemoryStore) updateUser(userID uint, mutate func(*models.User) error) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if err := mutate(&user); err != nil {
		return nil, err
	}
	user.UpdatedAt = s.now()
	s.users[userID] = user
	return &user, nil
}

// --- sessions ---

func (s *MemoryStore) CreateSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[session.UserID]; !ok {
		return ErrNotFound
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if _, exists := s.sessions[session.ID]; exists {
		return ErrDuplicate
	}
	session.CreatedAt = s.now()
	session.User = models.User{}
	s.sessions[session.ID] = *session
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id uuid.UUID) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *MemoryStore) RevokeSession(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	session.Revoked = true
	s.sessions[id] = session
	return nil
}

func (s *MemoryStore) PurgeSessions(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for id, session := range s.sessions {
		if session.Revoked || session.ExpiresAt.Before(cutoff) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged, nil
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sameOptional(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
