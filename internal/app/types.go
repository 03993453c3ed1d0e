package app

import (
	"context"

	"github.com/totoromaum/h5p-cornell/internal/notes"
	"github.com/totoromaum/h5p-cornell/internal/widget"
)

// cellWidthUnits converts terminal columns into the layout units the
// widget's dual-view threshold is expressed in. A 128-column terminal
// reports 1024 units, the default threshold.
const cellWidthUnits = 8

type surfaceHandle struct {
	label string
}

func (s surfaceHandle) Label() string { return s.label }

// tuiRenderer bridges the widget's renderer contract onto the terminal
// view. State reads come from the shell's field mirror, not the view,
// so they work from any goroutine.
type tuiRenderer struct {
	app *App
}

func (r tuiRenderer) Surface() widget.Surface         { return surfaceHandle{label: "tui"} }
func (r tuiRenderer) CurrentState() notes.Snapshot    { return r.app.fieldsSnapshot() }
func (r tuiRenderer) AnswerGiven() bool               { return !r.app.fieldsSnapshot().IsEmpty() }
func (r tuiRenderer) ResetNotes()                     { r.app.clearFields() }
func (r tuiRenderer) Resize()                         { r.app.view.RequestDraw() }
func (r tuiRenderer) EnableFullscreenButton()         { r.app.view.SetFullscreenButtonEnabled(true) }
func (r tuiRenderer) SetFullscreen(active bool)       { r.app.view.SetFullscreen(active) }
func (r tuiRenderer) SetView(v widget.View)           { r.app.applyView(v) }

// hostChrome stands in for the embedding page. It logs transitions and
// echoes resize requests straight back, the way a real container
// broadcasts its resize events to everyone including the sender.
type hostChrome struct {
	app *App
}

func (c hostChrome) EnterFullscreen(s widget.Surface) {
	c.app.logger.Info("chrome.enter_fullscreen", map[string]any{"surface": s.Label()})
}

func (c hostChrome) ExitFullscreen(s widget.Surface) {
	c.app.logger.Info("chrome.exit_fullscreen", map[string]any{"surface": s.Label()})
}

func (c hostChrome) RequestResize(ev widget.ResizeEvent) {
	c.app.logger.Info("chrome.resize_requested", map[string]any{"from_widget": ev.FromWidget})
	c.app.widget.HandleResize(ev)
}

// storeCache adapts the SQLite store to the reconciler's cache
// contract, which has no context plumbing.
type storeCache struct {
	store Store
}

func (s storeCache) Get(key string) (string, error) {
	return s.store.GetCachedSnapshot(context.Background(), key)
}

func (s storeCache) Set(key, value string) error {
	return s.store.PutCachedSnapshot(context.Background(), key, value)
}
