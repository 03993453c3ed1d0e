package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

type mockController struct {
	mu          sync.Mutex
	readyCalls  int
	readyCols   int
	readyRows   int
	toggleView  int
	toggleFS    int
	saveCalls   int
	resetCalls  int
	quitCalls   int
	resizeCalls int
	fieldEdits  []NoteFields
}

func (m *mockController) OnViewReady(cols, rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readyCalls++
	m.readyCols = cols
	m.readyRows = rows
}

func (m *mockController) OnToggleView() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggleView++
}

func (m *mockController) OnToggleFullscreen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggleFS++
}

func (m *mockController) OnFieldEdited(fields NoteFields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fieldEdits = append(m.fieldEdits, fields)
}

func (m *mockController) OnSave() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
}

func (m *mockController) OnReset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCalls++
}

func (m *mockController) OnResize(cols, rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resizeCalls++
}

func (m *mockController) OnQuit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quitCalls++
}

func (m *mockController) count(pick func(*mockController) int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return pick(m)
}

func (m *mockController) lastEdit() (NoteFields, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.fieldEdits) == 0 {
		return NoteFields{}, false
	}
	return m.fieldEdits[len(m.fieldEdits)-1], true
}

func newTestView(t *testing.T) (*Root, *mockController) {
	t.Helper()
	v := New(Options{MotionLevel: "off"})
	ctrl := &mockController{}
	v.SetController(ctrl)
	return v, ctrl
}

func press(v *Root, code rune, mod tea.KeyMod, text string) {
	_, _ = v.Update(tea.KeyPressMsg{Code: code, Mod: mod, Text: text})
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestWindowSizeFiresReadyOnceThenResize(t *testing.T) {
	v, ctrl := newTestView(t)

	_, _ = v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	waitFor(t, func() bool {
		return ctrl.count(func(m *mockController) int { return m.readyCalls }) == 1
	}, "expected OnViewReady after the first size message")

	ctrl.mu.Lock()
	cols, rows := ctrl.readyCols, ctrl.readyRows
	ctrl.mu.Unlock()
	if cols != 120 || rows != 40 {
		t.Fatalf("ready dims = %dx%d, want 120x40", cols, rows)
	}

	_, _ = v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	waitFor(t, func() bool {
		return ctrl.count(func(m *mockController) int { return m.resizeCalls }) == 1
	}, "expected OnResize after the second size message")

	if got := ctrl.count(func(m *mockController) int { return m.readyCalls }); got != 1 {
		t.Fatalf("OnViewReady fired %d times, want exactly once", got)
	}
}

func TestSwitchViewKeyDispatchesWithoutLocalScreenChange(t *testing.T) {
	v, ctrl := newTestView(t)

	press(v, tea.KeyF2, 0, "")
	waitFor(t, func() bool {
		return ctrl.count(func(m *mockController) int { return m.toggleView }) == 1
	}, "expected OnToggleView after F2")

	if v.screen != ScreenExercise {
		t.Fatalf("screen changed locally to %v; the controller owns screen state", v.screen)
	}
}

func TestCtrlQQuits(t *testing.T) {
	v, ctrl := newTestView(t)

	press(v, 'q', tea.ModCtrl, "")
	waitFor(t, func() bool {
		return ctrl.count(func(m *mockController) int { return m.quitCalls }) == 1
	}, "expected Ctrl+Q to trigger quit")
}

func TestCtrlSSaves(t *testing.T) {
	v, ctrl := newTestView(t)

	press(v, 's', tea.ModCtrl, "")
	waitFor(t, func() bool {
		return ctrl.count(func(m *mockController) int { return m.saveCalls }) == 1
	}, "expected OnSave after Ctrl+S")
}

func TestF6OpensResetConfirmWithoutImmediateReset(t *testing.T) {
	v, ctrl := newTestView(t)

	press(v, tea.KeyF6, 0, "")

	if !v.resetOpen {
		t.Fatalf("expected reset confirm modal to be open")
	}
	time.Sleep(50 * time.Millisecond)
	if got := ctrl.count(func(m *mockController) int { return m.resetCalls }); got != 0 {
		t.Fatalf("expected no immediate reset call, got %d", got)
	}
}

func TestResetConfirmFlow(t *testing.T) {
	v, ctrl := newTestView(t)

	press(v, tea.KeyF6, 0, "")
	press(v, tea.KeyTab, 0, "")
	if v.resetIndex != 1 {
		t.Fatalf("resetIndex = %d after tab, want 1", v.resetIndex)
	}
	press(v, tea.KeyEnter, 0, "")

	waitFor(t, func() bool {
		return ctrl.count(func(m *mockController) int { return m.resetCalls }) == 1
	}, "expected OnReset after confirming")
	if v.resetOpen {
		t.Fatalf("expected confirm modal to close after enter")
	}
}

func TestResetCancelKeepsNotes(t *testing.T) {
	v, ctrl := newTestView(t)

	press(v, tea.KeyF6, 0, "")
	press(v, tea.KeyEsc, 0, "")
	if v.resetOpen {
		t.Fatalf("expected confirm modal to close on escape")
	}

	time.Sleep(50 * time.Millisecond)
	if got := ctrl.count(func(m *mockController) int { return m.resetCalls }); got != 0 {
		t.Fatalf("OnReset fired %d times after cancel", got)
	}
}

func TestFullscreenKeyIgnoredUntilEnabled(t *testing.T) {
	v, ctrl := newTestView(t)

	press(v, tea.KeyF11, 0, "")
	time.Sleep(50 * time.Millisecond)
	if got := ctrl.count(func(m *mockController) int { return m.toggleFS }); got != 0 {
		t.Fatalf("OnToggleFullscreen fired %d times while disabled", got)
	}

	v.SetFullscreenButtonEnabled(true)
	press(v, tea.KeyF11, 0, "")
	waitFor(t, func() bool {
		return ctrl.count(func(m *mockController) int { return m.toggleFS }) == 1
	}, "expected OnToggleFullscreen once the key is enabled")
}

func TestTabCyclesFieldFocus(t *testing.T) {
	v, _ := newTestView(t)
	v.SetScreen(ScreenNotes)

	if v.focus != 0 {
		t.Fatalf("initial focus = %d, want 0", v.focus)
	}
	press(v, tea.KeyTab, 0, "")
	if v.focus != 1 {
		t.Fatalf("focus after tab = %d, want 1", v.focus)
	}
	press(v, tea.KeyTab, tea.ModShift, "")
	if v.focus != 0 {
		t.Fatalf("focus after shift+tab = %d, want 0", v.focus)
	}
	press(v, tea.KeyTab, tea.ModShift, "")
	if v.focus != 2 {
		t.Fatalf("focus after wrap = %d, want 2", v.focus)
	}
	if !v.areas[2].Focused() {
		t.Fatalf("expected the summary area to hold focus")
	}
}

func TestTypingReportsFieldEdits(t *testing.T) {
	v, ctrl := newTestView(t)
	v.SetScreen(ScreenNotes)

	press(v, 'h', 0, "h")
	waitFor(t, func() bool { _, ok := ctrl.lastEdit(); return ok }, "expected OnFieldEdited after typing")

	fields, _ := ctrl.lastEdit()
	if fields.Recall != "h" {
		t.Fatalf("Recall = %q, want %q", fields.Recall, "h")
	}
}

func TestSetFieldsPopulatesAreas(t *testing.T) {
	v, _ := newTestView(t)

	v.SetFields(NoteFields{Recall: "cue", Notes: "body", Summary: "wrap"})
	got := v.noteFields()
	if got.Recall != "cue" || got.Notes != "body" || got.Summary != "wrap" {
		t.Fatalf("noteFields = %+v", got)
	}
}

func TestTaskDrawerTogglesOnSingleLayout(t *testing.T) {
	v, _ := newTestView(t)
	v.SetScreen(ScreenNotes)
	_, _ = v.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	if v.layout != LayoutSingle {
		t.Fatalf("layout = %v at 80x30, want LayoutSingle", v.layout)
	}
	press(v, tea.KeyF3, 0, "")
	if !v.taskOpen {
		t.Fatalf("expected the task drawer to open on F3")
	}
	press(v, tea.KeyEsc, 0, "")
	if v.taskOpen {
		t.Fatalf("expected escape to close the task drawer")
	}
}

func TestTaskDrawerIgnoredOnDualLayout(t *testing.T) {
	v, _ := newTestView(t)
	v.SetScreen(ScreenNotes)
	_, _ = v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	press(v, tea.KeyF3, 0, "")
	if v.taskOpen {
		t.Fatalf("task drawer opened while the task pane was already visible")
	}
}

func TestRenderNotesShowsFieldLabels(t *testing.T) {
	v, _ := newTestView(t)
	v.SetScreen(ScreenNotes)
	_, _ = v.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	v.SetContent(ContentInfo{Title: "Water cycle", TaskMD: "Take notes.", DateLine: "Monday, May 4, 2026"})

	out := ansi.Strip(v.renderNotes())
	for _, want := range []string{"Cues & Questions", "Notes", "Summary", "Monday, May 4, 2026"} {
		if !strings.Contains(out, want) {
			t.Fatalf("notes screen missing %q", want)
		}
	}
}

func TestRenderExerciseShowsTaskText(t *testing.T) {
	v, _ := newTestView(t)
	_, _ = v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	v.SetContent(ContentInfo{Title: "Water cycle", DescriptionMD: "Watch the lecture.", TaskMD: "Write down the stages."})

	out := ansi.Strip(v.renderExercise())
	if !strings.Contains(out, "Water cycle") {
		t.Fatalf("exercise screen missing the content title")
	}
	if !strings.Contains(out, "stages") {
		t.Fatalf("exercise screen missing the task text")
	}
}

func TestFullscreenHidesChrome(t *testing.T) {
	v, _ := newTestView(t)
	v.SetScreen(ScreenNotes)
	_, _ = v.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	windowed := ansi.Strip(v.renderNotes())
	v.SetFullscreen(true)
	chromeless := ansi.Strip(v.renderNotes())

	if !strings.Contains(windowed, "F2") {
		t.Fatalf("windowed render missing the key hints")
	}
	if strings.Contains(chromeless, "F2") {
		t.Fatalf("fullscreen render still shows the key hints")
	}
}

func TestViewImplementsInterfaceCompileTime(t *testing.T) {
	var _ View = New(Options{})
}

func TestWrapIndexBounds(t *testing.T) {
	if got := wrapIndex(3, 3); got != 0 {
		t.Fatalf("wrapIndex(3,3) = %d", got)
	}
	if got := wrapIndex(-1, 3); got != 2 {
		t.Fatalf("wrapIndex(-1,3) = %d", got)
	}
	if got := wrapIndex(1, 3); got != 1 {
		t.Fatalf("wrapIndex(1,3) = %d", got)
	}
}

func TestTrimForWidthEllipsis(t *testing.T) {
	if got := trimForWidth("hello world", 8); got != "hello w…" {
		t.Fatalf("trimForWidth = %q", got)
	}
	if got := trimForWidth("short", 10); got != "short" {
		t.Fatalf("trimForWidth = %q", got)
	}
}

func TestComposeOverlayCenters(t *testing.T) {
	base := strings.TrimRight(strings.Repeat(strings.Repeat(".", 20)+"\n", 5), "\n")
	out := composeOverlay(base, "XX", 20, 5)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("composed %d lines, want 5", len(lines))
	}
	if lines[2][9:11] != "XX" {
		t.Fatalf("overlay row = %q, want XX at center", lines[2])
	}
}
