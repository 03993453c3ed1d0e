package widget

import "github.com/totoromaum/h5p-cornell/internal/notes"

// Surface is the opaque handle for the UI container the host chrome
// moves in and out of fullscreen.
type Surface interface {
	Label() string
}

// Renderer is the live UI the widget drives. Operations that need a
// renderer become no-ops while it is nil.
type Renderer interface {
	Surface() Surface
	CurrentState() notes.Snapshot
	AnswerGiven() bool
	ResetNotes()
	Resize()
	EnableFullscreenButton()
	SetFullscreen(active bool)
	SetView(v View)
}

// Chrome is the host shell around the widget: fullscreen control and
// resize signalling.
type Chrome interface {
	EnterFullscreen(s Surface)
	ExitFullscreen(s Surface)
	RequestResize(ev ResizeEvent)
}

// ResizeEvent travels between the widget and the host chrome.
// FromWidget marks events the widget emitted itself; such events must
// never be handled as inbound container resizes.
type ResizeEvent struct {
	Width      int
	Height     int
	FromWidget bool
}

// Logger receives widget lifecycle events.
type Logger interface {
	Info(event string, fields map[string]any)
}
