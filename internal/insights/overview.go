package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
)

// Mood bands used to place an entry on the emotional timeline.
const (
	MoodExcited    = "excited"
	MoodPositive   = "positive"
	MoodNeutral    = "neutral"
	MoodConcerned  = "concerned"
	MoodDistressed = "distressed"
)

var moodBands = []struct {
	mood     string
	keywords []string
}{
	{MoodExcited, []string{"happy", "excited", "energetic", "joy", "thrilled"}},
	{MoodPositive, []string{"positive", "motivated", "grateful", "hopeful", "proud", "loved", "optimistic", "content"}},
	{MoodNeutral, []string{"neutral", "calm", "reflective", "curious", "thoughtful"}},
	{MoodConcerned, []string{"concerned", "anxious", "stressed", "worried", "confused", "tired"}},
	{MoodDistressed, []string{"distressed", "sad", "negative", "angry", "frustrated", "lonely", "disappointed"}},
}

// TimelinePoint is one entry's dominant emotion.
type TimelinePoint struct {
	EntryID   uint      `json:"entryId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	Emotion   string    `json:"emotion"`
	Score     int       `json:"score"`
	Mood      string    `json:"mood"`
}

// Overview is the premium insights page payload.
type Overview struct {
	EntryCount        int             `json:"entryCount"`
	Themes            []ThemeCount    `json:"themes"`
	Timeline          []TimelinePoint `json:"timeline"`
	MostCommonEmotion string          `json:"mostCommonEmotion"`
	Insights          []Insight       `json:"insights"`
}

// MoodFor maps an emotion label to a timeline band. Unknown labels are neutral.
func MoodFor(emotion string) string {
	lower := strings.ToLower(emotion)
	for _, band := range moodBands {
		for _, kw := range band.keywords {
			if strings.Contains(lower, kw) {
				return band.mood
			}
		}
	}
	return MoodNeutral
}

// BuildOverview assembles the theme heatmap and the oldest-first emotional
// timeline. Entries without emotions are left off the timeline.
func BuildOverview(entries []models.EntryWithAnalysis, insights []Insight) Overview {
	sorted := make([]models.EntryWithAnalysis, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	timeline := []TimelinePoint{}
	emotionCounts := map[string]int{}
	for _, e := range sorted {
		if len(e.Emotions) == 0 {
			continue
		}
		primary := e.Emotions[0]
		for _, em := range e.Emotions[1:] {
			if em.Score > primary.Score {
				primary = em
			}
		}
		emotionCounts[primary.Emotion]++
		timeline = append(timeline, TimelinePoint{
			EntryID:   e.ID,
			Title:     e.Title,
			CreatedAt: e.CreatedAt,
			Emotion:   primary.Emotion,
			Score:     primary.Score,
			Mood:      MoodFor(primary.Emotion),
		})
	}

	mostCommon := ""
	best := 0
	for emotion, n := range emotionCounts {
		if n > best || (n == best && emotion < mostCommon) {
			mostCommon, best = emotion, n
		}
	}

	if insights == nil {
		insights = []Insight{}
	}
	return Overview{
		EntryCount:        len(entries),
		Themes:            SortThemeCounts(CountThemes(entries)),
		Timeline:          timeline,
		MostCommonEmotion: mostCommon,
		Insights:          insights,
	}
}
