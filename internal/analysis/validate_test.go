package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisValid(t *testing.T) {
	r, err := ParseAnalysis(`{"emotions":[{"name":"Joy","score":82.6},{"name":" Calm ","score":40}],"themes":["Family","Rest"]}`)

	require.NoError(t, err)
	assert.Equal(t, []Emotion{{Name: "Joy", Score: 83}, {Name: "Calm", Score: 40}}, r.Emotions)
	assert.Equal(t, []string{"Family", "Rest"}, r.Themes)
}

func TestParseAnalysisStripsFences(t *testing.T) {
	raw := "```json\n{\"emotions\":[{\"name\":\"Sad\",\"score\":70}],\"themes\":[\"Loss\"]}\n```"

	r, err := ParseAnalysis(raw)

	require.NoError(t, err)
	assert.Equal(t, "Sad", r.Emotions[0].Name)
	assert.Equal(t, []string{"Loss"}, r.Themes)
}

func TestParseAnalysisCapsAtThree(t *testing.T) {
	r, err := ParseAnalysis(`{
		"emotions":[{"name":"A","score":1},{"name":"B","score":2},{"name":"C","score":3},{"name":"D","score":4}],
		"themes":["W","X","Y","Z"]}`)

	require.NoError(t, err)
	assert.Len(t, r.Emotions, 3)
	assert.Equal(t, []string{"W", "X", "Y"}, r.Themes)
}

func TestParseAnalysisRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I think the user is happy"},
		{"array", `[{"name":"Joy","score":50}]`},
		{"missing emotions", `{"themes":["Work"]}`},
		{"empty emotions", `{"emotions":[],"themes":["Work"]}`},
		{"missing themes", `{"emotions":[{"name":"Joy","score":50}]}`},
		{"empty themes", `{"emotions":[{"name":"Joy","score":50}],"themes":[]}`},
		{"score too high", `{"emotions":[{"name":"Joy","score":150}],"themes":["Work"]}`},
		{"negative score", `{"emotions":[{"name":"Joy","score":-1}],"themes":["Work"]}`},
		{"score as string", `{"emotions":[{"name":"Joy","score":"high"}],"themes":["Work"]}`},
		{"missing score", `{"emotions":[{"name":"Joy"}],"themes":["Work"]}`},
		{"blank name", `{"emotions":[{"name":"  ","score":10}],"themes":["Work"]}`},
		{"theme not string", `{"emotions":[{"name":"Joy","score":10}],"themes":[3]}`},
		{"blank theme", `{"emotions":[{"name":"Joy","score":10}],"themes":[""]}`},
		{"null theme", `{"emotions":[{"name":"Joy","score":10}],"themes":[null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnalysis(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestParseAnalysisEmpty(t *testing.T) {
	_, err := ParseAnalysis("  ")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}```"))
	assert.Equal(t, `[1]`, StripCodeFences("  [1]  "))
}
