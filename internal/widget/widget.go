// Package widget holds the host-facing core of the Cornell notes
// activity: view and fullscreen state, resize signalling, state
// reconciliation and the question contract reporting hosts call into.
// It is UI-agnostic; the terminal renderer plugs in behind the
// Renderer interface.
package widget

import (
	"strings"

	"github.com/totoromaum/h5p-cornell/internal/notes"
	"github.com/totoromaum/h5p-cornell/internal/reconcile"
	"github.com/totoromaum/h5p-cornell/internal/xapi"
)

// FallbackTitle is reported when the content descriptor has no title.
const FallbackTitle = "Cornell Notes"

// DefaultDualViewMinWidth is the narrowest container, in layout units,
// that shows notes next to the exercise at startup.
const DefaultDualViewMinWidth = 1024

// View names the pane the learner is looking at.
type View int

const (
	ViewExercise View = iota
	ViewNotes
)

func (v View) String() string {
	if v == ViewNotes {
		return "notes"
	}
	return "exercise"
}

// Fullscreen toggle requests. The verbs come from the host protocol
// and name the state being left, not the one being entered: "enter"
// resolves to windowed and "exit" resolves to fullscreen.
const (
	RequestEnter = "enter"
	RequestExit  = "exit"
)

// resolveFullscreenTarget maps a toggle request onto the fullscreen
// flag the widget should end up with. Unrecognized requests flip the
// current flag.
func resolveFullscreenTarget(request string, current bool) bool {
	switch strings.ToLower(strings.TrimSpace(request)) {
	case RequestEnter:
		return false
	case RequestExit:
		return true
	case "true":
		return true
	case "false":
		return false
	default:
		return !current
	}
}

// Metadata identifies one piece of content.
type Metadata struct {
	ContentID   reconcile.ContentID
	Title       string
	Description string
	Language    string
}

// Behaviour carries the author-set switches from the content descriptor.
type Behaviour struct {
	ShowNotesOnStartup bool
	DualViewMinWidth   int
}

// SessionState is the widget's current position, kept for session
// journalling and the dev endpoints.
type SessionState struct {
	CurrentView         View
	Fullscreen          bool
	ContainerWidthKnown bool
}

// Options wires a Widget. Renderer, Chrome, States, Host and Logger
// may each be nil; the widget degrades to no-ops where they are.
type Options struct {
	Meta      Metadata
	Behaviour Behaviour
	Renderer  Renderer
	Chrome    Chrome
	States    *reconcile.Reconciler
	Host      *notes.Snapshot
	Template  xapi.Template
	Logger    Logger
}

// Widget is the activity core. It is not safe for concurrent use; the
// app drives it from a single goroutine.
type Widget struct {
	meta      Metadata
	behaviour Behaviour
	renderer  Renderer
	chrome    Chrome
	states    *reconcile.Reconciler
	template  xapi.Template
	logger    Logger

	initial    notes.Snapshot
	view       View
	fullscreen bool
	mounted    bool
	widthKnown bool
}

// New resolves the initial snapshot (host state first, then the local
// cache, then empty) and returns a widget in the windowed exercise view.
func New(opts Options) *Widget {
	w := &Widget{
		meta:      opts.Meta,
		behaviour: opts.Behaviour,
		renderer:  opts.Renderer,
		chrome:    opts.Chrome,
		states:    opts.States,
		template:  opts.Template,
		logger:    opts.Logger,
	}
	if w.behaviour.DualViewMinWidth <= 0 {
		w.behaviour.DualViewMinWidth = DefaultDualViewMinWidth
	}
	switch {
	case w.states != nil:
		w.initial = w.states.ResolveInitialState(opts.Host, opts.Meta.ContentID)
	case opts.Host != nil:
		w.initial = opts.Host.Clone()
	}
	return w
}

// RendererMounted runs the one-shot setup that needs a live surface:
// the fullscreen button is enabled and the startup view is computed
// from the container width. Later calls are ignored.
func (w *Widget) RendererMounted(width int) {
	if w.mounted || w.renderer == nil {
		return
	}
	w.mounted = true
	w.widthKnown = width > 0
	w.renderer.EnableFullscreenButton()
	w.view = ViewExercise
	if w.behaviour.ShowNotesOnStartup && width >= w.behaviour.DualViewMinWidth {
		w.view = ViewNotes
	}
	w.renderer.SetView(w.view)
	w.info("widget.mounted", map[string]any{"width": width, "view": w.view.String()})
}

// ToggleFullscreen resolves request against the current flag and moves
// the widget to the resulting state.
func (w *Widget) ToggleFullscreen(request string) {
	w.setFullscreenTarget(resolveFullscreenTarget(request, w.fullscreen))
}

// SetFullscreen forces the fullscreen flag to active.
func (w *Widget) SetFullscreen(active bool) {
	w.setFullscreenTarget(active)
}

// setFullscreenTarget drives the chrome and records the new flag.
// Without a surface the toggle did not happen, so the renderer is not
// told and the flag keeps its old value.
func (w *Widget) setFullscreenTarget(target bool) {
	if w.renderer == nil {
		return
	}
	surface := w.renderer.Surface()
	if surface == nil {
		return
	}
	if w.chrome != nil {
		if target {
			w.chrome.EnterFullscreen(surface)
		} else {
			w.chrome.ExitFullscreen(surface)
		}
	}
	w.fullscreen = target
	w.renderer.SetFullscreen(target)
	w.info("widget.fullscreen", map[string]any{"active": target})
}

// HandleHostFullscreen records a fullscreen change the chrome already
// performed on its own. The chrome is not called back.
func (w *Widget) HandleHostFullscreen(active bool) {
	w.fullscreen = active
	if w.renderer != nil {
		w.renderer.SetFullscreen(active)
	}
}

// Fullscreen reports the current fullscreen flag.
func (w *Widget) Fullscreen() bool { return w.fullscreen }

// HandleResize relays a container resize to the renderer. Events
// marked FromWidget are the widget's own resize requests coming back
// around and are dropped without any renderer call.
func (w *Widget) HandleResize(ev ResizeEvent) {
	if ev.FromWidget {
		return
	}
	if w.renderer != nil {
		w.renderer.Resize()
	}
}

// RequestResize asks the chrome for a layout pass. The emitted event
// carries the FromWidget mark.
func (w *Widget) RequestResize() {
	if w.chrome == nil {
		return
	}
	w.chrome.RequestResize(ResizeEvent{FromWidget: true})
}

// CurrentView reports the active pane.
func (w *Widget) CurrentView() View { return w.view }

// SetView switches the active pane and informs the renderer.
func (w *Widget) SetView(v View) {
	w.view = v
	if w.renderer != nil {
		w.renderer.SetView(v)
	}
}

// ToggleView flips between the exercise and the notes pane.
func (w *Widget) ToggleView() {
	if w.view == ViewExercise {
		w.SetView(ViewNotes)
	} else {
		w.SetView(ViewExercise)
	}
}

// SessionState reports the widget's current position.
func (w *Widget) SessionState() SessionState {
	return SessionState{
		CurrentView:         w.view,
		Fullscreen:          w.fullscreen,
		ContainerWidthKnown: w.widthKnown,
	}
}

// InitialState reports a copy of the snapshot resolved at start.
func (w *Widget) InitialState() notes.Snapshot { return w.initial.Clone() }

// AnswerGiven reports whether the learner typed anything at all.
func (w *Widget) AnswerGiven() bool {
	if w.renderer == nil {
		return false
	}
	return w.renderer.AnswerGiven()
}

// Score always reports zero. The activity is never graded; reporting
// hosts see an empty score next to a passed flag.
func (w *Widget) Score() int { return 0 }

// MaxScore always reports zero, matching Score.
func (w *Widget) MaxScore() int { return 0 }

// Passed always reports true.
func (w *Widget) Passed() bool { return true }

// ShowSolutions is part of the question contract. There are no
// solutions to reveal.
func (w *Widget) ShowSolutions() {}

// ResetTask clears every note field through the renderer.
func (w *Widget) ResetTask() {
	if w.renderer == nil {
		return
	}
	w.renderer.ResetNotes()
}

// CurrentState reports the live snapshot and mirrors it into the local
// cache. The cache write is best effort.
func (w *Widget) CurrentState() notes.Snapshot {
	snap := w.initial
	if w.renderer != nil {
		snap = w.renderer.CurrentState()
	}
	if w.states != nil {
		w.states.WriteLocalCache(w.meta.ContentID, snap)
	}
	return snap
}

// Title reports the content title, or FallbackTitle when the
// descriptor left it blank.
func (w *Widget) Title() string {
	if t := strings.TrimSpace(w.meta.Title); t != "" {
		return t
	}
	return FallbackTitle
}

// Description reports the content description.
func (w *Widget) Description() string { return w.meta.Description }

// XAPIData builds the answered statement for this content.
func (w *Widget) XAPIData() xapi.Data {
	b := xapi.Builder{
		Language:    w.meta.Language,
		Title:       w.Title(),
		Description: w.meta.Description,
	}
	return xapi.Data{Statement: b.BuildAnswered(w.template)}
}

func (w *Widget) info(event string, fields map[string]any) {
	if w.logger == nil {
		return
	}
	w.logger.Info(event, fields)
}
