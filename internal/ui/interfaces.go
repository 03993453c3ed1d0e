package ui

type Controller interface {
	OnViewReady(cols, rows int)
	OnToggleView()
	OnToggleFullscreen()
	OnFieldEdited(fields NoteFields)
	OnSave()
	OnReset()
	OnResize(cols, rows int)
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetContent(info ContentInfo)
	SetFields(fields NoteFields)
	SetScreen(screen Screen)
	SetFullscreen(active bool)
	SetFullscreenButtonEnabled(enabled bool)
	FlashStatus(msg string)
	RequestDraw()
}

type Screen int

const (
	ScreenExercise Screen = iota
	ScreenNotes
)

type LayoutMode int

const (
	LayoutSingle LayoutMode = iota
	LayoutDual
	LayoutTooSmall
)

// NoteFields is the text the learner typed into the three note areas.
type NoteFields struct {
	Recall  string
	Notes   string
	Summary string
}

// ContentInfo is everything the renderer needs about the loaded content.
// DateLine is pre-formatted by the caller; empty hides the stamp.
type ContentInfo struct {
	Title         string
	TaskMD        string
	DescriptionMD string
	Recall        FieldInfo
	Notes         FieldInfo
	Summary       FieldInfo
	DateLine      string
}

type FieldInfo struct {
	Placeholder string
	CharLimit   int
}
