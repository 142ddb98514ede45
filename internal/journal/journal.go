// Package journal composes entries with their analysis tags and insights and
// runs the entry write path.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/insights"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/store"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 50000
	MaxClarity       = 5
)

var (
	ErrEntryNotFound  = errors.New("entry not found")
	ErrNotOwner       = errors.New("entry belongs to another user")
	ErrInvalidEntry   = errors.New("invalid entry")
	ErrInvalidClarity = errors.New("clarity rating must be between 0 and 5")
)

type Analyzer interface {
	Analyze(ctx context.Context, text string) analysis.Result
}

type InsightDeriver interface {
	Derive(ctx context.Context, entries []models.EntryWithAnalysis) []insights.Insight
}

// EntryList is the full-list read model.
type EntryList struct {
	Results  []models.EntryWithAnalysis `json:"results"`
	Insights []insights.Insight         `json:"insights"`
}

type Service struct {
	store     store.EntryStore
	analyzer  Analyzer
	insights  InsightDeriver
	sanitizer *security.Sanitizer
}

func NewService(entries store.EntryStore, analyzer Analyzer, deriver InsightDeriver, sanitizer *security.Sanitizer) *Service {
	if sanitizer == nil {
		sanitizer = security.NewSanitizer()
	}
	return &Service{store: entries, analyzer: analyzer, insights: deriver, sanitizer: sanitizer}
}

// --- reads ---

func (s *Service) GetEntryWithAnalysis(ctx context.Context, entryID uint) (*models.EntryWithAnalysis, error) {
	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return s.composeOne(ctx, *entry)
}

// GetEntryForUser is GetEntryWithAnalysis plus the ownership check. A foreign
// entry is ErrNotOwner, not ErrEntryNotFound.
func (s *Service) GetEntryForUser(ctx context.Context, userID, entryID uint) (*models.EntryWithAnalysis, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	return s.composeOne(ctx, *entry)
}

func (s *Service) ListEntries(ctx context.Context, userID uint) (*EntryList, error) {
	results, err := s.listComposed(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &EntryList{Results: results, Insights: s.insights.Derive(ctx, results)}, nil
}

func (s *Service) ListStarred(ctx context.Context, userID uint) ([]models.EntryWithAnalysis, error) {
	entries, err := s.store.ListStarredEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list starred entries: %w", err)
	}
	return s.compose(ctx, entries)
}

// Overview builds the premium insights page from the user's full history.
func (s *Service) Overview(ctx context.Context, userID uint) (*insights.Overview, error) {
	results, err := s.listComposed(ctx, userID)
	if err != nil {
		return nil, err
	}
	overview := insights.BuildOverview(results, s.insights.Derive(ctx, results))
	return &overview, nil
}

func (s *Service) listComposed(ctx context.Context, userID uint) ([]models.EntryWithAnalysis, error) {
	entries, err := s.store.ListEntriesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return s.compose(ctx, entries)
}

// --- writes ---

func (s *Service) CreateEntry(ctx context.Context, userID uint, req *dto.CreateEntryRequest) (*models.EntryWithAnalysis, error) {
	title, err := cleanTitle(req.Title)
	if err != nil {
		return nil, err
	}
	content, plain, err := s.cleanContent(req.Content)
	if err != nil {
		return nil, err
	}

	entry := &models.Entry{UserID: userID, Title: title, Content: content}
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	emotions, themes, err := s.replaceTags(ctx, entry.ID, plain)
	if err != nil {
		return nil, err
	}
	return &models.EntryWithAnalysis{Entry: *entry, Emotions: emotions, Themes: themes}, nil
}

// UpdateEntry applies a partial update. Tags are regenerated only when the
// sanitized content differs from what is stored.
func (s *Service) UpdateEntry(ctx context.Context, userID, entryID uint, req *dto.UpdateEntryRequest) (*models.EntryWithAnalysis, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	patch := models.EntryPatch{IsStarred: req.IsStarred}
	if req.Title != nil {
		title, err := cleanTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	var plain string
	contentChanged := false
	if req.Content != nil {
		content, text, err := s.cleanContent(*req.Content)
		if err != nil {
			return nil, err
		}
		if content != entry.Content {
			patch.Content = &content
			plain = text
			contentChanged = true
		}
	}

	if req.ClarityRating != nil {
		if err := validateClarity(*req.ClarityRating); err != nil {
			return nil, err
		}
		patch.ClarityRating = req.ClarityRating
	}

	updated, err := s.store.UpdateEntry(ctx, entryID, patch)
	if err != nil {
		return nil, s.wrapStoreErr("update entry", err)
	}

	if !contentChanged {
		return s.composeOne(ctx, *updated)
	}
	emotions, themes, err := s.replaceTags(ctx, entryID, plain)
	if err != nil {
		return nil, err
	}
	return &models.EntryWithAnalysis{Entry: *updated, Emotions: emotions, Themes: themes}, nil
}

func (s *Service) DeleteEntry(ctx context.Context, userID, entryID uint) error {
	if _, err := s.ownedEntry(ctx, userID, entryID); err != nil {
		return err
	}
	if err := s.store.DeleteEntry(ctx, entryID); err != nil {
		return s.wrapStoreErr("delete entry", err)
	}
	return nil
}

func (s *Service) ToggleStar(ctx context.Context, userID, entryID uint) (*models.Entry, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	starred := !entry.IsStarred
	updated, err := s.store.UpdateEntry(ctx, entryID, models.EntryPatch{IsStarred: &starred})
	if err != nil {
		return nil, s.wrapStoreErr("toggle star", err)
	}
	return updated, nil
}

func (s *Service) SetClarity(ctx context.Context, userID, entryID uint, rating int) (*models.Entry, error) {
	if err := validateClarity(rating); err != nil {
		return nil, err
	}
	if _, err := s.ownedEntry(ctx, userID, entryID); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateEntry(ctx, entryID, models.EntryPatch{ClarityRating: &rating})
	if err != nil {
		return nil, s.wrapStoreErr("set clarity", err)
	}
	return updated, nil
}

// replaceTags deletes the entry's tags, analyzes the text and inserts the new
// tags. The steps are not atomic; a failure part way leaves the entry with
// fewer tags until its content is saved again.
func (s *Service) replaceTags(ctx context.Context, entryID uint, text string) ([]models.Emotion, []models.Theme, error) {
	if err := s.store.DeleteEmotions(ctx, entryID); err != nil {
		return nil, nil, fmt.Errorf("delete emotions: %w", err)
	}
	if err := s.store.DeleteThemes(ctx, entryID); err != nil {
		return nil, nil, fmt.Errorf("delete themes: %w", err)
	}

	result := s.analyzer.Analyze(ctx, text)

	emotionRows := make([]models.Emotion, 0, len(result.Emotions))
	for _, e := range result.Emotions {
		emotionRows = append(emotionRows, models.Emotion{EntryID: entryID, Emotion: e.Name, Score: e.Score})
	}
	themeRows := make([]models.Theme, 0, len(result.Themes))
	for _, t := range result.Themes {
		themeRows = append(themeRows, models.Theme{EntryID: entryID, Theme: t})
	}

	emotions, err := s.store.AddEmotions(ctx, emotionRows)
	if err != nil {
		slog.Error("failed to store emotions", "entry_id", entryID, "error", err)
		return nil, nil, fmt.Errorf("add emotions: %w", err)
	}
	themes, err := s.store.AddThemes(ctx, themeRows)
	if err != nil {
		slog.Error("failed to store themes", "entry_id", entryID, "error", err)
		return nil, nil, fmt.Errorf("add themes: %w", err)
	}
	return emotions, themes, nil
}

// --- helpers ---

func (s *Service) getEntry(ctx context.Context, entryID uint) (*models.Entry, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, s.wrapStoreErr("get entry", err)
	}
	return entry, nil
}

func (s *Service) ownedEntry(ctx context.Context, userID, entryID uint) (*models.Entry, error) {
	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrNotOwner
	}
	return entry, nil
}

func (s *Service) wrapStoreErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrEntryNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) composeOne(ctx context.Context, entry models.Entry) (*models.EntryWithAnalysis, error) {
	composed, err := s.compose(ctx, []models.Entry{entry})
	if err != nil {
		return nil, err
	}
	return &composed[0], nil
}

// compose joins entries with their tags. Tag slices are never nil.
func (s *Service) compose(ctx context.Context, entries []models.Entry) ([]models.EntryWithAnalysis, error) {
	results := make([]models.EntryWithAnalysis, 0, len(entries))
	if len(entries) == 0 {
		return results, nil
	}

	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	emotions, err := s.store.ListEmotions(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("list emotions: %w", err)
	}
	themes, err := s.store.ListThemes(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}

	emotionsByEntry := make(map[uint][]models.Emotion, len(entries))
	for _, e := range emotions {
		emotionsByEntry[e.EntryID] = append(emotionsByEntry[e.EntryID], e)
	}
	themesByEntry := make(map[uint][]models.Theme, len(entries))
	for _, t := range themes {
		themesByEntry[t.EntryID] = append(themesByEntry[t.EntryID], t)
	}

	for _, e := range entries {
		item := models.EntryWithAnalysis{
			Entry:    e,
			Emotions: emotionsByEntry[e.ID],
			Themes:   themesByEntry[e.ID],
		}
		if item.Emotions == nil {
			item.Emotions = []models.Emotion{}
		}
		if item.Themes == nil {
			item.Themes = []models.Theme{}
		}
		results = append(results, item)
	}
	return results, nil
}

// cleanTitle trims the title and stores it verbatim. Titles are plain text and
// are escaped by whoever renders them.
func cleanTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidEntry)
	}
	if !utf8.ValidString(title) || strings.IndexFunc(title, unicode.IsControl) >= 0 {
		return "", fmt.Errorf("%w: title contains invalid characters", ErrInvalidEntry)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", ErrInvalidEntry, MaxTitleLength)
	}
	return title, nil
}

// cleanContent returns the sanitized HTML to store and its plain text for analysis.
func (s *Service) cleanContent(raw string) (string, string, error) {
	content := s.sanitizer.Sanitize(raw)
	plain := s.sanitizer.PlainText(content)
	if strings.TrimSpace(plain) == "" {
		return "", "", fmt.Errorf("%w: content is required", ErrInvalidEntry)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", "", fmt.Errorf("%w: content must be at most %d characters", ErrInvalidEntry, MaxContentLength)
	}
	return content, plain, nil
}

func validateClarity(rating int) error {
	if rating < 0 || rating > MaxClarity {
		return ErrInvalidClarity
	}
	return nil
}
