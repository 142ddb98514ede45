package analysis

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	maxTags        = 3
	neutralEmotion = "Neutral"
	neutralScore   = 50
	generalTheme   = "General"
)

// KeywordAnalyzer is the deterministic local substitute for a provider.
type KeywordAnalyzer struct {
	emotions Catalog
	themes   Catalog
}

func NewKeywordAnalyzer(emotions, themes Catalog) *KeywordAnalyzer {
	return &KeywordAnalyzer{emotions: emotions, themes: themes}
}

// DefaultKeywordAnalyzer uses the built-in catalogs.
func DefaultKeywordAnalyzer() *KeywordAnalyzer {
	return NewKeywordAnalyzer(DefaultEmotionCatalog, DefaultThemeCatalog)
}

// Analyze never returns an empty axis: unmatched text yields the
// Neutral/General sentinels.
func (k *KeywordAnalyzer) Analyze(text string) Result {
	tokens := Tokenize(text)

	result := Result{}
	emotions := k.emotions.Score(tokens)
	if len(emotions) == 0 {
		result.Emotions = []Emotion{{Name: neutralEmotion, Score: neutralScore}}
	} else {
		top := emotions[0].Raw
		for _, e := range emotions {
			result.Emotions = append(result.Emotions, Emotion{
				Name:  e.Label,
				Score: int(math.Round(e.Raw / top * 100)),
			})
		}
	}

	themes := k.themes.Score(tokens)
	if len(themes) == 0 {
		result.Themes = []string{generalTheme}
	} else {
		for _, t := range themes {
			result.Themes = append(result.Themes, t.Label)
		}
	}
	return result
}

// ScoredCategory is a category label with its raw keyword score.
type ScoredCategory struct {
	Label string
	Raw   float64
}

// Score returns up to three categories with a non-zero score, highest first.
// Equal scores keep catalog order.
func (c Catalog) Score(tokens []string) []ScoredCategory {
	var scored []ScoredCategory
	for _, cat := range c {
		var raw float64
		for _, term := range cat.Terms {
			raw += term.Weight * float64(countPhrase(tokens, strings.Fields(term.Word)))
		}
		if raw > 0 {
			scored = append(scored, ScoredCategory{Label: cat.Label, Raw: raw})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Raw > scored[j].Raw })
	if len(scored) > maxTags {
		scored = scored[:maxTags]
	}
	return scored
}

// Tokenize lower-cases text and splits it into words of letters, digits and
// inner apostrophes.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, "’", "'")
		f = strings.Trim(f, "'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func countPhrase(tokens, phrase []string) int {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return 0
	}
	count := 0
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j, w := range phrase {
			if tokens[i+j] != w {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}
	return count
}
