package devtools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/totoromaum/h5p-cornell/internal/notes"
	"github.com/totoromaum/h5p-cornell/internal/reconcile"
)

// Scenario describes a canned widget state used for demos and
// screenshot runs.
type Scenario struct {
	Name       string
	Fields     notes.Snapshot
	View       string
	Fullscreen bool
}

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

func (m *Manager) Resolve(name string) Scenario {
	switch strings.TrimSpace(name) {
	case "blank", "":
		return Scenario{Name: "blank", View: "exercise"}
	case "midway":
		return Scenario{
			Name: "midway",
			View: "notes",
			Fields: notes.Snapshot{
				Recall: "What drives evaporation?",
				Notes:  "Heat from the sun lifts water vapor from oceans and lakes.",
			},
		}
	case "restored":
		return Scenario{
			Name: "restored",
			View: "notes",
			Fields: notes.Snapshot{
				Recall:  "Stages? Energy source?",
				Notes:   "Evaporation, condensation, precipitation, collection.\nSolar energy powers the whole loop.",
				Summary: "Water moves in a closed solar-driven cycle.",
				Extra:   map[string]string{"date": "Monday, May 4, 2026"},
			},
		}
	case "notes-first":
		return Scenario{Name: "notes-first", View: "notes"}
	case "fullscreen":
		return Scenario{Name: "fullscreen", View: "exercise", Fullscreen: true}
	default:
		return Scenario{Name: "blank", View: "exercise"}
	}
}

// SeedCache writes a scenario's fields into the widget cache so the
// next launch restores them like a returning learner.
func (m *Manager) SeedCache(ctx context.Context, states *reconcile.Reconciler, id reconcile.ContentID, name string) (Scenario, error) {
	_ = ctx
	sc := m.Resolve(name)
	if states == nil {
		return sc, fmt.Errorf("no state store configured")
	}
	if !id.Valid() {
		return sc, fmt.Errorf("content id %q cannot be cached", string(id))
	}
	states.WriteLocalCache(id, sc.Fields)
	if got := states.ReadLocalCache(id); got == nil && !sc.Fields.IsEmpty() {
		return sc, fmt.Errorf("scenario %q did not round-trip through the cache", sc.Name)
	}
	return sc, nil
}

// SetState drops a marker file for external capture tooling.
func (m *Manager) SetState(ctx context.Context, cacheDir string, state string, rendered bool) error {
	_ = ctx
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		cacheDir = filepath.Join(home, ".cache", "h5p-cornell")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	payload := map[string]any{
		"state":    strings.TrimSpace(state),
		"rendered": rendered,
	}
	b, _ := json.Marshal(payload)
	return os.WriteFile(filepath.Join(cacheDir, "dev_state.json"), b, 0o644)
}
