package insights

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoodFor(t *testing.T) {
	tests := map[string]string{
		"Happy":       MoodExcited,
		"Excited":     MoodExcited,
		"Motivated":   MoodPositive,
		"Grateful":    MoodPositive,
		"Calm":        MoodNeutral,
		"Anxious":     MoodConcerned,
		"Sad":         MoodDistressed,
		"Frustrated":  MoodDistressed,
		"Bewildered":  MoodNeutral,
		"very happy!": MoodExcited,
	}
	for emotion, want := range tests {
		assert.Equal(t, want, MoodFor(emotion), emotion)
	}
}

func TestBuildOverview(t *testing.T) {
	base := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	entries := []models.EntryWithAnalysis{
		{
			Entry:    models.Entry{ID: 3, Title: "newest", CreatedAt: base.Add(48 * time.Hour)},
			Emotions: []models.Emotion{{Emotion: "Sad", Score: 40}, {Emotion: "Tired", Score: 70}},
			Themes:   []models.Theme{{Theme: "Work"}},
		},
		{
			Entry:    models.Entry{ID: 2, Title: "no emotions", CreatedAt: base.Add(24 * time.Hour)},
			Emotions: []models.Emotion{},
			Themes:   []models.Theme{},
		},
		{
			Entry:    models.Entry{ID: 1, Title: "oldest", CreatedAt: base},
			Emotions: []models.Emotion{{Emotion: "Happy", Score: 90}},
			Themes:   []models.Theme{{Theme: "Work"}, {Theme: "Family"}},
		},
	}
	insights := []Insight{{Title: "x", Description: "y", SuggestedColor: "blue"}}

	o := BuildOverview(entries, insights)

	assert.Equal(t, 3, o.EntryCount)
	require.Len(t, o.Themes, 2)
	assert.Equal(t, ThemeCount{Theme: "Work", Count: 2, Percentage: 67}, o.Themes[0])

	require.Len(t, o.Timeline, 2)
	assert.Equal(t, uint(1), o.Timeline[0].EntryID)
	assert.Equal(t, MoodExcited, o.Timeline[0].Mood)
	assert.Equal(t, "Tired", o.Timeline[1].Emotion)
	assert.Equal(t, 70, o.Timeline[1].Score)
	assert.Equal(t, MoodConcerned, o.Timeline[1].Mood)

	assert.Equal(t, "Happy", o.MostCommonEmotion)
	assert.Equal(t, insights, o.Insights)
}

func TestBuildOverviewEmpty(t *testing.T) {
	o := BuildOverview(nil, nil)

	assert.Equal(t, 0, o.EntryCount)
	assert.Empty(t, o.Themes)
	assert.NotNil(t, o.Timeline)
	assert.NotNil(t, o.Insights)
	assert.Equal(t, "", o.MostCommonEmotion)
}
