package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type rawAnalysis struct {
	Emotions []*struct {
		Name  *string  `json:"name"`
		Score *float64 `json:"score"`
	} `json:"emotions"`
	Themes []*string `json:"themes"`
}

// ParseAnalysis validates a provider answer. Each axis must be non-empty,
// every emotion needs a name and a score within [0,100], and every theme must
// be a non-empty string. Scores are rounded and each axis is capped at three.
func ParseAnalysis(raw string) (*Result, error) {
	content := StripCodeFences(raw)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	var parsed rawAnalysis
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(parsed.Emotions) == 0 {
		return nil, fmt.Errorf("%w: emotions missing", ErrInvalidResponse)
	}
	if len(parsed.Themes) == 0 {
		return nil, fmt.Errorf("%w: themes missing", ErrInvalidResponse)
	}

	result := &Result{}
	for i, e := range parsed.Emotions {
		if e == nil || e.Name == nil || strings.TrimSpace(*e.Name) == "" {
			return nil, fmt.Errorf("%w: emotion %d has no name", ErrInvalidResponse, i)
		}
		if e.Score == nil || *e.Score < 0 || *e.Score > 100 || math.IsNaN(*e.Score) {
			return nil, fmt.Errorf("%w: emotion %d score out of range", ErrInvalidResponse, i)
		}
		if len(result.Emotions) < maxTags {
			result.Emotions = append(result.Emotions, Emotion{
				Name:  strings.TrimSpace(*e.Name),
				Score: int(math.Round(*e.Score)),
			})
		}
	}
	for i, t := range parsed.Themes {
		if t == nil || strings.TrimSpace(*t) == "" {
			return nil, fmt.Errorf("%w: theme %d is empty", ErrInvalidResponse, i)
		}
		if len(result.Themes) < maxTags {
			result.Themes = append(result.Themes, strings.TrimSpace(*t))
		}
	}
	return result, nil
}

// StripCodeFences removes a surrounding markdown code block, if any.
func StripCodeFences(s string) string {
	content := strings.TrimSpace(s)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		content = content[nl+1:]
	} else {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
