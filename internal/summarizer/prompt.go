package summarizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ryosukesatoh/vault-digest/internal/batch"
)

// maxEntryChars bounds how much of a single entry body goes into the
// prompt. Longer bodies are cut with an explicit marker rather than
// silently.
const maxEntryChars = 4000

const systemPrompt = `You are a helpful assistant that creates concise, well-structured summaries of journal entries.

Your task is to summarize journal entries tagged with a specific hashtag, focusing on:
- Key activities and events
- Important decisions or insights
- Patterns or recurring themes
- Action items or follow-ups

Guidelines:
- Be concise but comprehensive
- Use bullet points for clarity
- Group related items together
- Maintain chronological order when relevant
- Focus on actionable insights

Format your response as clean markdown with appropriate headings and bullet points. Respond with the summary only, no preamble.`

// BuildPrompt renders one batch into the user prompt for the backend.
// Each entry keeps its date, title, and source path so summaries stay
// traceable to the notes they came from.
func BuildPrompt(b batch.Batch, hashtag string, totalBatches int) string {
	hashtag = strings.TrimPrefix(hashtag, "#")

	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Please summarize the following journal entries tagged with #%s:\n\n", hashtag)

	start, end := b.DateRange()
	switch {
	case !start.IsZero() && start.Equal(end):
		fmt.Fprintf(&sb, "**Date**: %s\n", start.Format("2006-01-02"))
	case !start.IsZero():
		fmt.Fprintf(&sb, "**Date Range**: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if totalBatches > 1 {
		fmt.Fprintf(&sb, "**Batch**: %d of %d\n", b.Index+1, totalBatches)
	}
	fmt.Fprintf(&sb, "**Total Entries**: %d\n\n", len(b.Entries))

	for i, e := range b.Entries {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}

		date := "Unknown date"
		if e.HasDate() {
			date = e.Date.Format("2006-01-02")
		}
		fmt.Fprintf(&sb, "**%s - %s** (%s)\n", date, e.Title, e.SourcePath)

		body := e.Body
		if len(body) > maxEntryChars {
			// Back off to a rune boundary so the cut never splits a
			// multi-byte character.
			cut := maxEntryChars
			for cut > 0 && !utf8.RuneStart(body[cut]) {
				cut--
			}
			body = body[:cut] + "... [truncated]"
		}
		sb.WriteString(body)
		sb.WriteString("\n")
	}

	sb.WriteString("\nPlease provide a structured summary that captures the key points, themes, and insights from these entries.")
	return sb.String()
}
