package insights

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/analysis"
)

const insightSystemPrompt = "You are a personal journaling assistant who detects meaningful psychological " +
	"and emotional patterns in recurring journal themes. You answer with JSON only, no markdown."

const insightPromptTemplate = `Recurring themes across the writer's journal entries, with how often each appeared:
%s

Using only this summary, write 2 to 3 personalized insights about possible life patterns, inner conflicts,
emotional states or growth opportunities. Interpret the themes instead of repeating them, the way a
thoughtful coach would.

Each insight has:
- "title": a short, human-readable title such as "Driven but Drained"
- "description": 2 to 4 sentences on what the pattern may reveal about the writer's mindset, values or habits
- "suggestedColor": one of "blue" (introspection), "red" (urgency), "green" (growth), "yellow" (optimism), "purple" (transformation)
- "derivedEntryCount": an integer estimate of how many entries contributed to the pattern

Return ONLY a JSON array of these objects.`

// InsightPrompt embeds a theme summary in the insight request.
func InsightPrompt(summary string) analysis.Prompt {
	return analysis.Prompt{
		System: insightSystemPrompt,
		User:   fmt.Sprintf(insightPromptTemplate, summary),
	}
}
