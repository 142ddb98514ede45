// Package insights turns theme frequencies across a user's entries into
// short narrative insights.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
)

var (
	ErrNoThemes        = errors.New("no themes to summarize")
	ErrInvalidInsights = errors.New("provider insights failed validation")
)

const maxInsights = 3

// Insight is derived on every request and never stored.
type Insight struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	SuggestedColor    string `json:"suggestedColor"`
	DerivedEntryCount int    `json:"derivedEntryCount"`
}

var fallbackThemes = map[string]bool{
	"Work":            true,
	"Balance":         true,
	"Time Management": true,
}

// ThemeCount is one theme's frequency. Percentage is relative to all theme
// tags and rounded.
type ThemeCount struct {
	Theme      string `json:"theme"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// CountThemes counts theme tags across entries by exact label.
func CountThemes(entries []models.EntryWithAnalysis) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		for _, t := range e.Themes {
			counts[t.Theme]++
		}
	}
	return counts
}

// SortThemeCounts orders themes by count, highest first, then by label.
func SortThemeCounts(counts map[string]int) []ThemeCount {
	total := 0
	for _, n := range counts {
		total += n
	}
	result := make([]ThemeCount, 0, len(counts))
	for theme, n := range counts {
		pct := 0
		if total > 0 {
			pct = int(float64(n)/float64(total)*100 + 0.5)
		}
		result = append(result, ThemeCount{Theme: theme, Count: n, Percentage: pct})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Theme < result[j].Theme
	})
	return result
}

// FormatThemeSummary renders counts as "Work (10), Learning (5)".
func FormatThemeSummary(counts map[string]int) string {
	sorted := SortThemeCounts(counts)
	parts := make([]string, len(sorted))
	for i, tc := range sorted {
		parts[i] = fmt.Sprintf("%s (%d)", tc.Theme, tc.Count)
	}
	return strings.Join(parts, ", ")
}

// FallbackInsights is the static answer used whenever the provider cannot help.
func FallbackInsights(entries []models.EntryWithAnalysis) []Insight {
	count := 0
	for _, e := range entries {
		for _, t := range e.Themes {
			if fallbackThemes[t.Theme] {
				count++
				break
			}
		}
	}
	return []Insight{{
		Title:             "Work-Life Balance",
		Description:       "Your work-related entries show increasing concern about balance. Consider setting boundaries.",
		SuggestedColor:    "blue",
		DerivedEntryCount: count,
	}}
}

type rawInsight struct {
	Title             *string      `json:"title"`
	Description       *string      `json:"description"`
	SuggestedColor    *string      `json:"suggestedColor"`
	DerivedEntryCount *json.Number `json:"derivedEntryCount"`
}

// ParseInsights validates a provider answer: a non-empty JSON array whose
// items carry all four fields, non-empty strings and a non-negative integer
// count. At most three insights are kept.
func ParseInsights(raw string) ([]Insight, error) {
	content := analysis.StripCodeFences(raw)

	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	var items []*rawInsight
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInsights, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidInsights)
	}

	result := make([]Insight, 0, maxInsights)
	for i, item := range items {
		if item == nil || blank(item.Title) || blank(item.Description) || blank(item.SuggestedColor) || item.DerivedEntryCount == nil {
			return nil, fmt.Errorf("%w: insight %d is incomplete", ErrInvalidInsights, i)
		}
		n, err := item.DerivedEntryCount.Int64()
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: insight %d has an invalid entry count", ErrInvalidInsights, i)
		}
		if len(result) < maxInsights {
			result = append(result, Insight{
				Title:             strings.TrimSpace(*item.Title),
				Description:       strings.TrimSpace(*item.Description),
				SuggestedColor:    strings.ToLower(strings.TrimSpace(*item.SuggestedColor)),
				DerivedEntryCount: int(n),
			})
		}
	}
	return result, nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// Aggregator derives insights with the shared provider. A nil provider always
// yields the fallback.
type Aggregator struct {
	provider analysis.Provider
	metrics  metrics.Recorder
	timeout  time.Duration
}

func NewAggregator(provider analysis.Provider, recorder metrics.Recorder, timeout time.Duration) *Aggregator {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Aggregator{provider: provider, metrics: recorder, timeout: timeout}
}

// Derive never fails and never returns an empty list.
func (a *Aggregator) Derive(ctx context.Context, entries []models.EntryWithAnalysis) []Insight {
	result, err := a.derive(ctx, entries)
	if err != nil {
		if !errors.Is(err, ErrNoThemes) && !errors.Is(err, analysis.ErrNoProvider) {
			slog.Warn("insight derivation failed, using fallback", "error", err, "entries", len(entries))
		}
		a.metrics.RecordInsights(metrics.SourceFallback)
		return FallbackInsights(entries)
	}
	a.metrics.RecordInsights(metrics.SourceProvider)
	return result
}

func (a *Aggregator) derive(ctx context.Context, entries []models.EntryWithAnalysis) ([]Insight, error) {
	counts := CountThemes(entries)
	if len(counts) == 0 {
		return nil, ErrNoThemes
	}
	if a.provider == nil {
		return nil, analysis.ErrNoProvider
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	raw, err := a.provider.Generate(ctx, InsightPrompt(FormatThemeSummary(counts)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.provider.Name(), err)
	}
	result, err := ParseInsights(raw)
	if err != nil {
		a.metrics.RecordProviderFailure(a.provider.Name(), "invalid_response")
		return nil, err
	}
	return result, nil
}
