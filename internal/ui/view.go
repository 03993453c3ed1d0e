package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

type applyMsg struct {
	fn func(*Root)
}

type drawMsg struct{}
type clockMsg time.Time
type animateMsg time.Time

type noteKeyMap struct {
	ToggleView key.Binding
	Task       key.Binding
	Save       key.Binding
	Reset      key.Binding
	Fullscreen key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Quit       key.Binding
}

func (k noteKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleView, k.Task, k.Save, k.Reset, k.Fullscreen, k.Quit}
}

func (k noteKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.ToggleView, k.Task, k.Save, k.Reset}, {k.Fullscreen, k.NextField, k.PrevField, k.Quit}}
}

// noteAreaCount matches the three Cornell regions: cues, notes, summary.
const noteAreaCount = 3

type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	ctrl         Controller
	styleVariant string
	motionLevel  string

	mu      sync.Mutex
	program *tea.Program
	running bool

	screen Screen
	layout LayoutMode
	cols   int
	rows   int

	content     ContentInfo
	areas       [noteAreaCount]textarea.Model
	focus       int
	fullscreen  bool
	fsEnabled   bool
	resetOpen   bool
	resetIndex  int
	taskOpen    bool
	statusFlash string
	readyFired  bool
	startedAt   time.Time

	help       help.Model
	keymap     noteKeyMap
	filled     progress.Model
	markdown   *glamour.TermRenderer
	logger     *clog.Logger
	overlayPos float64
	overlayVel float64
	spring     harmonica.Spring

	drawPending atomic.Bool

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "cornell-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)
	spring := harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8)
	switch motionLevel {
	case "reduced":
		spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 0.92)
	case "off":
		spring = harmonica.NewSpring(harmonica.FPS(60), 1000.0, 1.0)
	}
	filled := progress.New(
		progress.WithWidth(20),
		progress.WithColors(lipgloss.Color("#6FC3FF"), lipgloss.Color("#79E6A6"), lipgloss.Color("#F3C969")),
		progress.WithScaled(true),
	)
	if motionLevel == "off" {
		filled.SetSpringOptions(1000.0, 1.0)
	}

	r := &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		screen:       ScreenExercise,
		layout:       LayoutDual,
		cols:         100,
		rows:         30,
		help:         h,
		filled:       filled,
		markdown:     renderer,
		logger:       logger,
		spring:       spring,
		startedAt:    time.Now(),
		content:      ContentInfo{Title: "Cornell Notes"},
	}
	r.areas[0] = newNoteArea("Cue questions and key words")
	r.areas[1] = newNoteArea("Notes")
	r.areas[2] = newNoteArea("Summary")
	r.areas[0].Focus()
	r.keymap = noteKeyMap{
		ToggleView: key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "Switch view")),
		Task:       key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "Task")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("Ctrl+S", "Save")),
		Reset:      key.NewBinding(key.WithKeys("f6"), key.WithHelp("F6", "Reset")),
		Fullscreen: key.NewBinding(key.WithKeys("f11", "ctrl+f"), key.WithHelp("F11", "Fullscreen"), key.WithDisabled()),
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "Next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("Shift+Tab", "Previous field")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("Ctrl+Q", "Quit")),
	}
	r.syncLayout()
	return r
}

func newNoteArea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetStyles(textarea.DefaultDarkStyles())
	ta.SetWidth(60)
	ta.SetHeight(4)
	return ta
}

func (r *Root) Init() tea.Cmd {
	return tea.Batch(clockTickCmd(), animateTickCmd())
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		r.syncLayout()
		if !r.readyFired {
			r.readyFired = true
			r.dispatchController(func(c Controller) { c.OnViewReady(msg.Width, msg.Height) })
		} else {
			r.dispatchController(func(c Controller) { c.OnResize(msg.Width, msg.Height) })
		}
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case drawMsg:
		r.drawPending.Store(false)
		return r, nil
	case clockMsg:
		return r, clockTickCmd()
	case animateMsg:
		target := 0.0
		if r.taskOpen {
			target = 1.0
		}
		r.overlayPos, r.overlayVel = r.spring.Update(r.overlayPos, r.overlayVel, target)
		if r.shouldAnimate(target) {
			return r, animateTickCmd()
		}
		if target == 0 {
			r.overlayPos = 0
			r.overlayVel = 0
		} else {
			r.overlayPos = 1
			r.overlayVel = 0
		}
		return r, nil
	case tea.PasteMsg:
		r.recordInputEvent(fmt.Sprintf("paste:%d", len(msg.Content)))
		if r.screen != ScreenNotes || r.resetOpen {
			return r, nil
		}
		return r, r.forwardToFocused(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 100
	}
	if r.rows < 1 {
		r.rows = 30
	}
	r.layout = DetermineLayoutMode(r.cols, r.rows)

	var base string
	switch {
	case r.layout == LayoutTooSmall:
		base = r.renderTooSmall()
	case r.screen == ScreenNotes:
		base = r.renderNotes()
	default:
		base = r.renderExercise()
	}

	if overlay := r.renderOverlay(); overlay != "" {
		base = composeOverlay(base, overlay, r.cols, r.rows)
	}
	v := tea.NewView(base)
	v.AltScreen = true
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetContent(info ContentInfo) {
	r.apply(func(m *Root) {
		m.content = info
		specs := [noteAreaCount]FieldInfo{info.Recall, info.Notes, info.Summary}
		for i := range m.areas {
			if strings.TrimSpace(specs[i].Placeholder) != "" {
				m.areas[i].Placeholder = specs[i].Placeholder
			}
			m.areas[i].CharLimit = specs[i].CharLimit
		}
		m.syncLayout()
	})
}

func (r *Root) SetFields(fields NoteFields) {
	r.apply(func(m *Root) {
		m.areas[0].SetValue(fields.Recall)
		m.areas[1].SetValue(fields.Notes)
		m.areas[2].SetValue(fields.Summary)
	})
}

func (r *Root) SetScreen(screen Screen) {
	r.apply(func(m *Root) {
		m.screen = screen
		if screen == ScreenNotes {
			m.areas[m.focus].Focus()
		} else {
			for i := range m.areas {
				m.areas[i].Blur()
			}
		}
		m.syncLayout()
	})
}

func (r *Root) SetFullscreen(active bool) {
	r.apply(func(m *Root) {
		m.fullscreen = active
		m.syncLayout()
	})
}

func (r *Root) SetFullscreenButtonEnabled(enabled bool) {
	r.apply(func(m *Root) {
		m.fsEnabled = enabled
		m.keymap.Fullscreen.SetEnabled(enabled)
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) RequestDraw() {
	r.mu.Lock()
	p := r.program
	running := r.running
	r.mu.Unlock()
	if !running || p == nil {
		return
	}
	if !r.drawPending.CompareAndSwap(false, true) {
		return
	}
	time.AfterFunc(16*time.Millisecond, func() {
		r.mu.Lock()
		p := r.program
		running := r.running
		r.mu.Unlock()
		if !running || p == nil {
			r.drawPending.Store(false)
			return
		}
		p.Send(drawMsg{})
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, r.keymap.Quit) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}
	if r.resetOpen {
		return r.handleResetKey(msg)
	}

	switch {
	case key.Matches(msg, r.keymap.ToggleView):
		r.dispatchController(func(c Controller) { c.OnToggleView() })
		return r, nil
	case key.Matches(msg, r.keymap.Task):
		if r.screen == ScreenNotes && r.layout == LayoutSingle {
			r.taskOpen = !r.taskOpen
			if r.motionLevel == "off" {
				if r.taskOpen {
					r.overlayPos = 1
				} else {
					r.overlayPos = 0
				}
				r.overlayVel = 0
			}
			return r, r.animateIfNeeded()
		}
		return r, nil
	case key.Matches(msg, r.keymap.Save):
		r.dispatchController(func(c Controller) { c.OnSave() })
		return r, nil
	case key.Matches(msg, r.keymap.Reset):
		r.resetOpen = true
		return r, nil
	case key.Matches(msg, r.keymap.Fullscreen):
		if r.fsEnabled {
			r.dispatchController(func(c Controller) { c.OnToggleFullscreen() })
		}
		return r, nil
	}

	if r.screen != ScreenNotes {
		return r, nil
	}
	switch {
	case key.Matches(msg, r.keymap.NextField):
		return r, r.focusArea(wrapIndex(r.focus+1, noteAreaCount))
	case key.Matches(msg, r.keymap.PrevField):
		return r, r.focusArea(wrapIndex(r.focus-1, noteAreaCount))
	}
	if msg.Code == tea.KeyEsc && r.taskOpen {
		r.taskOpen = false
		return r, r.animateIfNeeded()
	}
	return r, r.forwardToFocused(msg)
}

func (r *Root) handleResetKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.Code {
	case tea.KeyEsc, 'n':
		r.resetOpen = false
		r.resetIndex = 0
	case tea.KeyUp, tea.KeyDown, tea.KeyTab:
		r.resetIndex = wrapIndex(r.resetIndex+1, 2)
	case tea.KeyEnter:
		confirmed := r.resetIndex == 1
		r.resetOpen = false
		r.resetIndex = 0
		if confirmed {
			r.dispatchController(func(c Controller) { c.OnReset() })
		}
	case 'y':
		r.resetOpen = false
		r.resetIndex = 0
		r.dispatchController(func(c Controller) { c.OnReset() })
	}
	return r, nil
}

func (r *Root) focusArea(idx int) tea.Cmd {
	if idx < 0 || idx >= noteAreaCount {
		return nil
	}
	r.areas[r.focus].Blur()
	r.focus = idx
	return r.areas[r.focus].Focus()
}

func (r *Root) forwardToFocused(msg tea.Msg) tea.Cmd {
	before := r.areas[r.focus].Value()
	area, cmd := r.areas[r.focus].Update(msg)
	r.areas[r.focus] = area
	if area.Value() != before {
		fields := r.noteFields()
		r.dispatchController(func(c Controller) { c.OnFieldEdited(fields) })
	}
	return cmd
}

func (r *Root) noteFields() NoteFields {
	return NoteFields{
		Recall:  r.areas[0].Value(),
		Notes:   r.areas[1].Value(),
		Summary: r.areas[2].Value(),
	}
}

func (r *Root) syncLayout() {
	cols, rows := r.cols, r.rows
	if cols < 1 || rows < 1 {
		return
	}
	bodyH := rows
	if !r.fullscreen {
		bodyH = max(3, rows-2)
	}
	notesW := cols
	if DetermineLayoutMode(cols, rows) == LayoutDual {
		notesW = cols - r.taskPaneWidth()
	}
	areaW := max(10, notesW-4)

	headRows := 1
	if r.content.DateLine != "" {
		headRows++
	}
	avail := bodyH - headRows - 9
	recallH := min(max(avail/4, 2), 6)
	summaryH := min(max(avail/4, 2), 5)
	notesH := max(3, avail-recallH-summaryH)

	heights := [noteAreaCount]int{recallH, notesH, summaryH}
	for i := range r.areas {
		r.areas[i].SetWidth(areaW)
		r.areas[i].SetHeight(heights[i])
	}
}

func (r *Root) taskPaneWidth() int {
	return min(max(32, r.cols/3), max(32, r.cols-40))
}

func (r *Root) renderTooSmall() string {
	w, h := r.cols, r.rows
	msg := []string{
		"Terminal too small",
		fmt.Sprintf("Current: %dx%d", w, h),
		"Minimum: 60x16",
		"Resize the terminal to continue.",
	}
	panel := r.drawPanel("Resize Required", msg, min(56, w), min(10, h))
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, panel)
}

func (r *Root) renderExercise() string {
	w, h := r.cols, r.rows
	bodyH := h
	if !r.fullscreen {
		bodyH = max(3, h-2)
	}
	panelW := min(w, 96)
	panel := r.renderTaskPanel(panelW, bodyH, r.exerciseMD(), firstNonEmptyStr(r.content.Title, "Exercise"))
	body := lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Top, panel)
	if r.fullscreen {
		return body
	}
	return r.headerText() + "\n" + body + "\n" + r.statusText()
}

func (r *Root) renderNotes() string {
	w, h := r.cols, r.rows
	bodyH := h
	bodyY := 0
	if !r.fullscreen {
		bodyH = max(3, h-2)
		bodyY = 1
	}

	var body string
	if r.layout == LayoutDual {
		taskW := r.taskPaneWidth()
		task := r.renderTaskPanel(taskW, bodyH, r.content.TaskMD, firstNonEmptyStr(r.content.Title, "Task"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, task, r.renderNotesColumn(w-taskW))
	} else {
		body = r.renderNotesColumn(w)
	}

	base := body
	if !r.fullscreen {
		base = r.headerText() + "\n" + body + "\n" + r.statusText()
	}
	if r.layout == LayoutSingle {
		if drawer := r.renderTaskDrawer(bodyH); drawer != "" {
			base = composeOverlayAt(base, drawer, w, h, bodyY, 0)
		}
	}
	return base
}

func (r *Root) renderNotesColumn(width int) string {
	labels := [noteAreaCount]string{"Cues & Questions", "Notes", "Summary"}
	parts := make([]string, 0, 8)
	if r.content.DateLine != "" {
		parts = append(parts, " "+r.theme.Muted.Render(trimForWidth(r.content.DateLine, max(1, width-2))))
	}
	parts = append(parts, " "+r.fillMeterLine(width))
	for i := range r.areas {
		title := r.theme.PanelTitle.Render(labels[i])
		border := r.theme.PanelBorder
		if r.focus == i && r.areas[i].Focused() {
			title = r.theme.FocusTitle.Render(labels[i])
			border = r.theme.FocusBorder
		}
		box := lipgloss.NewStyle().
			Border(r.boxBorder()).
			BorderForeground(border.GetForeground()).
			Padding(0, 1).
			Width(max(4, width-2)).
			Render(r.areas[i].View())
		parts = append(parts, " "+title, box)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r *Root) renderTaskPanel(width, height int, md, title string) string {
	rendered := r.renderMarkdown(md)
	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	innerH := max(1, height-3)
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	innerW := max(1, width-4)
	for i := range lines {
		lines[i] = ansi.Truncate(lines[i], innerW, "…")
	}
	head := " " + r.theme.PanelTitle.Render(trimForWidth(title, innerW))
	box := lipgloss.NewStyle().
		Border(r.boxBorder()).
		BorderForeground(r.theme.PanelBorder.GetForeground()).
		Padding(0, 1).
		Width(max(4, width-2)).
		Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, head, box)
}

// renderTaskDrawer slides the task text over the single-column notes
// screen, driven by the overlay spring.
func (r *Root) renderTaskDrawer(bodyHeight int) string {
	progress := r.overlayPos
	if r.taskOpen && progress < 0.2 {
		progress = 0.2
	}
	if !r.taskOpen && progress < 0.05 {
		return ""
	}
	fullW := min(max(36, r.cols/2), max(36, r.cols-10))
	drawW := int(float64(fullW) * maxFloat(progress, 0))
	if drawW < 20 {
		return ""
	}
	body := ansi.Strip(r.renderMarkdown(r.content.TaskMD))
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	lines = append(lines, "", "Esc closes the task drawer")
	return r.drawPanel("Task", lines, drawW, bodyHeight)
}

func (r *Root) renderOverlay() string {
	if !r.resetOpen {
		return ""
	}
	w := min(max(44, r.cols/2), r.cols)
	keep := "  Keep editing"
	wipe := "  Reset notes"
	if r.resetIndex == 0 {
		keep = "> Keep editing"
	} else {
		wipe = "> Reset notes"
	}
	lines := []string{
		"Clear all note fields?",
		"This cannot be undone.",
		"",
		keep,
		wipe,
		"",
		"Enter confirms, Esc keeps your notes",
	}
	return r.drawPanel("Reset", lines, w, min(11, r.rows))
}

func (r *Root) exerciseMD() string {
	parts := make([]string, 0, 2)
	if strings.TrimSpace(r.content.DescriptionMD) != "" {
		parts = append(parts, strings.TrimSpace(r.content.DescriptionMD))
	}
	if strings.TrimSpace(r.content.TaskMD) != "" {
		parts = append(parts, strings.TrimSpace(r.content.TaskMD))
	}
	return strings.Join(parts, "\n\n")
}

func (r *Root) renderMarkdown(md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		md = "No task text for this content."
	}
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(md); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return md
}

func (r *Root) headerText() string {
	elapsed := time.Since(r.startedAt).Truncate(time.Second).String()
	width := max(1, r.cols-1)
	brand := firstNonEmptyStr(r.content.Title, "Cornell Notes")
	viewName := "Exercise"
	if r.screen == ScreenNotes {
		viewName = "Notes"
	}
	txt := strings.Join([]string{brand, viewName, elapsed}, " | ")
	if len([]rune(txt)) > width {
		txt = strings.Join([]string{brand, elapsed}, " | ")
	}
	txt = trimForWidth(txt, width)
	if r.debug {
		txt = fmt.Sprintf("%s | %dx%d %v", txt, r.cols, r.rows, r.layout)
		txt = trimForWidth(txt, width)
	}
	return r.theme.Header.Width(max(1, r.cols)).Render(txt)
}

func (r *Root) statusText() string {
	keys := r.help.View(r.keymap)
	if keys == "" {
		keys = "F2 Switch view  F3 Task  Ctrl+S Save  F6 Reset  Ctrl+Q Quit"
	}
	if r.statusFlash != "" {
		keys += " | " + r.statusFlash
	}
	keys = trimForWidth(keys, max(1, r.cols-1))
	return r.theme.Status.Width(max(1, r.cols)).Render(keys)
}

func (r *Root) fillMeterLine(width int) string {
	bar := r.filled
	bar.SetWidth(min(24, max(8, width-12)))
	return r.theme.Accent.Render("Filled ") + bar.ViewAs(r.filledPercent())
}

func (r *Root) filledPercent() float64 {
	done := 0
	for i := range r.areas {
		if strings.TrimSpace(r.areas[i].Value()) != "" {
			done++
		}
	}
	return float64(done) / float64(noteAreaCount)
}

func (r *Root) boxBorder() lipgloss.Border {
	if r.ascii {
		return lipgloss.Border{
			Top: "-", Bottom: "-", Left: "|", Right: "|",
			TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
		}
	}
	return lipgloss.RoundedBorder()
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		t := " " + title + " "
		runes := []rune(top)
		start := 1
		for i, ch := range []rune(t) {
			pos := start + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		line = padRune(line, innerW)
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(line)+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

func (r *Root) animateIfNeeded() tea.Cmd {
	target := 0.0
	if r.taskOpen {
		target = 1.0
	}
	if r.shouldAnimate(target) {
		return animateTickCmd()
	}
	return nil
}

func (r *Root) shouldAnimate(target float64) bool {
	if r.motionLevel == "off" {
		return false
	}
	if target > 0 {
		return r.overlayPos < 0.999 || abs(r.overlayVel) > 0.001
	}
	return r.overlayPos > 0.001 || abs(r.overlayVel) > 0.001
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func firstNonEmptyStr(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		i = n - 1
	}
	if i >= n {
		i = 0
	}
	return i
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	if len(overlayLines) == 0 {
		return strings.Join(baseLines[:rows], "\n")
	}
	ow := 1
	for _, line := range overlayLines {
		lw := len([]rune(line))
		if lw > ow {
			ow = lw
		}
	}
	if ow > cols {
		ow = cols
	}
	oh := len(overlayLines)
	if oh > rows {
		oh = rows
	}
	startRow := (rows - oh) / 2
	startCol := (cols - ow) / 2
	if startCol < 0 {
		startCol = 0
	}

	for i := 0; i < oh; i++ {
		row := startRow + i
		if row < 0 || row >= rows {
			continue
		}
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func composeOverlayAt(base, overlay string, cols, rows, startRow, startCol int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	if len(overlayLines) == 0 {
		return strings.Join(baseLines[:rows], "\n")
	}
	ow := 1
	for _, line := range overlayLines {
		lw := len([]rune(line))
		if lw > ow {
			ow = lw
		}
	}
	if ow > cols {
		ow = cols
	}
	if startRow < 0 {
		startRow = 0
	}
	if startCol < 0 {
		startCol = 0
	}

	for i, line := range overlayLines {
		row := startRow + i
		if row < 0 || row >= rows {
			continue
		}
		dst := []rune(baseLines[row])
		src := []rune(line)
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case "ink", "parchment", "mocha":
		return strings.TrimSpace(v)
	default:
		return "ink"
	}
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}

	message := fmt.Sprintf("%v", recovered)
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered", map[string]any{
		"where":       where,
		"panic":       message,
		"messageType": msgType,
		"screen":      r.screen,
		"layout":      r.layout,
		"cols":        r.cols,
		"rows":        r.rows,
		"reset_open":  r.resetOpen,
		"last_input":  r.lastInputEvent,
		"stack":       string(debug.Stack()),
	})
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
