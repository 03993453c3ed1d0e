package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/totoromaum/h5p-cornell/internal/notes"
)

// buildSessionRecap renders the end-of-session summary that goes into
// the telemetry log. Plain text with simple section headers so it
// reads well both in the log stream and when piped through jq -r.
func buildSessionRecap(title string, started, ended time.Time, fields notes.Snapshot, saves, statements int) string {
	var b strings.Builder
	b.WriteString("Session\n")
	b.WriteString(fmt.Sprintf("%s - %s\n", strings.TrimSpace(title), formatRecapDuration(ended.Sub(started))))
	b.WriteString(fmt.Sprintf("Saves: %d, statements journaled: %d\n", saves, statements))

	b.WriteString("\nNotes coverage\n")
	b.WriteString("- Cues & questions: " + coverageLine(fields.Recall) + "\n")
	b.WriteString("- Notes: " + coverageLine(fields.Notes) + "\n")
	b.WriteString("- Summary: " + coverageLine(fields.Summary) + "\n")

	coach := fieldCoaching(fields)
	if len(coach) > 0 {
		b.WriteString("\nCoaching\n")
		for _, line := range coach {
			b.WriteString("- " + line + "\n")
		}
	}

	return strings.TrimSpace(b.String())
}

func coverageLine(text string) string {
	words := wordCount(text)
	switch words {
	case 0:
		return "empty"
	case 1:
		return "1 word"
	default:
		return fmt.Sprintf("%d words", words)
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// fieldCoaching turns the note coverage into short nudges. The method
// leans on the usual Cornell flow: notes first, cues distilled from
// them, summary last.
func fieldCoaching(fields notes.Snapshot) []string {
	notesWords := wordCount(fields.Notes)
	recallWords := wordCount(fields.Recall)
	summaryWords := wordCount(fields.Summary)

	if notesWords == 0 && recallWords == 0 && summaryWords == 0 {
		return []string{"Nothing captured this session. Open the notes view with F2 and start with the main column."}
	}

	var out []string
	if notesWords > 0 && recallWords == 0 {
		out = append(out, "The cue column is empty. Turn headings from your notes into questions you can quiz yourself with.")
	}
	if notesWords > 0 && summaryWords == 0 {
		out = append(out, "No summary yet. A two-sentence summary in your own words cements what the notes cover.")
	}
	if notesWords > 0 && recallWords > notesWords {
		out = append(out, "Cues outweigh notes. Expand the notes column so each cue has material to point at.")
	}
	if summaryWords > 0 && summaryWords < 5 {
		out = append(out, "The summary is very short. Aim for at least one full sentence.")
	}
	if len(out) == 0 {
		out = append(out, "Good coverage across all three areas. Next session, try answering your cues before rereading the notes.")
	}
	return out
}

func formatRecapDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
