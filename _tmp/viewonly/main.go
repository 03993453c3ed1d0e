package main

import (
	"github.com/totoromaum/h5p-cornell/internal/content"
	"github.com/totoromaum/h5p-cornell/internal/ui"
)

// Runs the terminal view without the app shell, for layout work.
type quitOnly struct{ view ui.View }

func (q quitOnly) OnViewReady(cols, rows int)  {}
func (q quitOnly) OnToggleView()               {}
func (q quitOnly) OnToggleFullscreen()         {}
func (q quitOnly) OnFieldEdited(ui.NoteFields) {}
func (q quitOnly) OnSave()                     {}
func (q quitOnly) OnReset()                    {}
func (q quitOnly) OnResize(cols, rows int)     {}
func (q quitOnly) OnQuit()                     { q.view.Stop() }

func main() {
	c := content.Default()
	v := ui.New(ui.Options{})
	v.SetController(quitOnly{view: v})
	v.SetContent(ui.ContentInfo{
		Title:         c.Title,
		TaskMD:        c.TaskMD,
		DescriptionMD: c.DescriptionMD,
		Recall:        ui.FieldInfo{Placeholder: c.Fields.Recall.Placeholder, CharLimit: c.Fields.Recall.CharLimit},
		Notes:         ui.FieldInfo{Placeholder: c.Fields.Notes.Placeholder, CharLimit: c.Fields.Notes.CharLimit},
		Summary:       ui.FieldInfo{Placeholder: c.Fields.Summary.Placeholder, CharLimit: c.Fields.Summary.CharLimit},
	})
	_ = v.Run()
}
