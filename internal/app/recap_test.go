package app

import (
	"strings"
	"testing"
	"time"

	"github.com/totoromaum/h5p-cornell/internal/notes"
)

func TestBuildSessionRecapListsCoverage(t *testing.T) {
	fields := notes.Snapshot{
		Recall:  "What drives evaporation?",
		Notes:   "Solar radiation heats surface water until molecules escape as vapor.",
		Summary: "Evaporation is driven by solar energy input.",
	}
	text := buildSessionRecap("Water Cycle", time.Now().Add(-90*time.Second), time.Now(), fields, 3, 2)
	if !strings.Contains(text, "Water Cycle") {
		t.Fatalf("expected title in recap, got: %s", text)
	}
	if !strings.Contains(text, "Saves: 3, statements journaled: 2") {
		t.Fatalf("expected counters line, got: %s", text)
	}
	if !strings.Contains(text, "Notes coverage") {
		t.Fatalf("expected coverage section, got: %s", text)
	}
	if !strings.Contains(text, "- Cues & questions: 3 words") {
		t.Fatalf("expected cue word count, got: %s", text)
	}
}

func TestBuildSessionRecapCoachesOnMissingSummary(t *testing.T) {
	fields := notes.Snapshot{Notes: "plate tectonics move continents over geological time"}
	text := buildSessionRecap("Geology", time.Now(), time.Now(), fields, 1, 0)
	if !strings.Contains(text, "Coaching") {
		t.Fatalf("expected coaching section, got: %s", text)
	}
	if !strings.Contains(text, "No summary yet") {
		t.Fatalf("expected summary nudge, got: %s", text)
	}
	if !strings.Contains(text, "cue column is empty") {
		t.Fatalf("expected cue nudge, got: %s", text)
	}
}

func TestBuildSessionRecapNudgesEmptySession(t *testing.T) {
	text := buildSessionRecap("Blank", time.Now(), time.Now(), notes.Snapshot{}, 0, 0)
	if !strings.Contains(text, "Nothing captured this session") {
		t.Fatalf("expected empty-session nudge, got: %s", text)
	}
}

func TestBuildSessionRecapPraisesFullCoverage(t *testing.T) {
	fields := notes.Snapshot{
		Recall:  "Why does warm air rise?",
		Notes:   "Warm air is less dense than the cooler air around it, so buoyancy pushes it upward.",
		Summary: "Density differences from heating make warm air rise through cooler air.",
	}
	text := buildSessionRecap("Convection", time.Now(), time.Now(), fields, 2, 1)
	if !strings.Contains(text, "Good coverage across all three areas") {
		t.Fatalf("expected praise line, got: %s", text)
	}
}

func TestFormatRecapDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{3*time.Minute + 5*time.Second, "3m05s"},
		{2*time.Hour + 7*time.Minute, "2h07m"},
		{-10 * time.Second, "0s"},
	}
	for _, tc := range cases {
		if got := formatRecapDuration(tc.in); got != tc.want {
			t.Fatalf("formatRecapDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
