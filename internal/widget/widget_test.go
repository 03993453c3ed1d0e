package widget

import (
	"testing"

	"github.com/totoromaum/h5p-cornell/internal/notes"
	"github.com/totoromaum/h5p-cornell/internal/reconcile"
)

type fakeSurface struct{ label string }

func (s *fakeSurface) Label() string { return s.label }

type fakeRenderer struct {
	surface       Surface
	state         notes.Snapshot
	answered      bool
	resets        int
	resizes       int
	buttonEnables int
	fullscreen    []bool
	views         []View
}

func (r *fakeRenderer) Surface() Surface             { return r.surface }
func (r *fakeRenderer) CurrentState() notes.Snapshot { return r.state }
func (r *fakeRenderer) AnswerGiven() bool            { return r.answered }
func (r *fakeRenderer) ResetNotes()                  { r.resets++ }
func (r *fakeRenderer) Resize()                      { r.resizes++ }
func (r *fakeRenderer) EnableFullscreenButton()      { r.buttonEnables++ }
func (r *fakeRenderer) SetFullscreen(active bool)    { r.fullscreen = append(r.fullscreen, active) }
func (r *fakeRenderer) SetView(v View)               { r.views = append(r.views, v) }

type fakeChrome struct {
	enters   []string
	exits    []string
	requests []ResizeEvent
	echo     *Widget
}

func (c *fakeChrome) EnterFullscreen(s Surface) { c.enters = append(c.enters, s.Label()) }
func (c *fakeChrome) ExitFullscreen(s Surface)  { c.exits = append(c.exits, s.Label()) }
func (c *fakeChrome) RequestResize(ev ResizeEvent) {
	c.requests = append(c.requests, ev)
	if c.echo != nil {
		c.echo.HandleResize(ev)
	}
}

func newTestWidget(tweak func(*Options)) (*Widget, *fakeRenderer, *fakeChrome) {
	r := &fakeRenderer{surface: &fakeSurface{label: "root"}}
	c := &fakeChrome{}
	o := Options{
		Meta:      Metadata{ContentID: "7", Title: "Water cycle", Description: "Take notes on the lecture", Language: "en"},
		Behaviour: Behaviour{ShowNotesOnStartup: true, DualViewMinWidth: 1024},
		Renderer:  r,
		Chrome:    c,
	}
	if tweak != nil {
		tweak(&o)
	}
	return New(o), r, c
}

func TestResolveFullscreenTarget(t *testing.T) {
	cases := []struct {
		name    string
		request string
		current bool
		want    bool
	}{
		{"enter verb lands windowed", "enter", false, false},
		{"enter verb lands windowed even from fullscreen", "enter", true, false},
		{"exit verb lands fullscreen", "exit", false, true},
		{"exit verb lands fullscreen even when already there", "exit", true, true},
		{"boolean true", "true", false, true},
		{"boolean false", "false", true, false},
		{"empty request flips windowed to fullscreen", "", false, true},
		{"empty request flips fullscreen to windowed", "", true, false},
		{"unknown request flips", "sideways", false, true},
		{"request is trimmed and lowercased", "  Enter ", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveFullscreenTarget(tc.request, tc.current); got != tc.want {
				t.Fatalf("resolveFullscreenTarget(%q, %v) = %v, want %v", tc.request, tc.current, got, tc.want)
			}
		})
	}
}

func TestToggleFullscreenUnknownRequestTwiceRestoresState(t *testing.T) {
	w, r, c := newTestWidget(nil)

	w.ToggleFullscreen("")
	if !w.Fullscreen() {
		t.Fatalf("first toggle should land fullscreen")
	}
	w.ToggleFullscreen("")
	if w.Fullscreen() {
		t.Fatalf("second toggle should restore windowed")
	}
	if len(c.enters) != 1 || len(c.exits) != 1 {
		t.Fatalf("chrome calls: enters=%d exits=%d", len(c.enters), len(c.exits))
	}
	if len(r.fullscreen) != 2 || r.fullscreen[0] != true || r.fullscreen[1] != false {
		t.Fatalf("renderer not informed per toggle: %v", r.fullscreen)
	}
}

func TestToggleFullscreenWithoutSurfaceIsNoOp(t *testing.T) {
	w, r, c := newTestWidget(nil)
	r.surface = nil

	w.ToggleFullscreen("exit")
	if w.Fullscreen() {
		t.Fatalf("flag must not change without a surface")
	}
	if len(c.enters) != 0 || len(c.exits) != 0 {
		t.Fatalf("chrome must not be called without a surface")
	}
	if len(r.fullscreen) != 0 {
		t.Fatalf("renderer must not be informed when the toggle did not happen")
	}
}

func TestSetFullscreenDrivesChromeAndRenderer(t *testing.T) {
	w, r, c := newTestWidget(nil)

	w.SetFullscreen(true)
	if !w.Fullscreen() || len(c.enters) != 1 || c.enters[0] != "root" {
		t.Fatalf("enter not forwarded: flag=%v enters=%v", w.Fullscreen(), c.enters)
	}
	w.SetFullscreen(false)
	if w.Fullscreen() || len(c.exits) != 1 {
		t.Fatalf("exit not forwarded: flag=%v exits=%v", w.Fullscreen(), c.exits)
	}
	if len(r.fullscreen) != 2 {
		t.Fatalf("renderer informed %d times, want 2", len(r.fullscreen))
	}
}

func TestHandleHostFullscreenNeverCallsChromeBack(t *testing.T) {
	w, r, c := newTestWidget(nil)

	w.HandleHostFullscreen(true)
	if !w.Fullscreen() {
		t.Fatalf("flag should follow the host")
	}
	if len(c.enters) != 0 && len(c.exits) != 0 {
		t.Fatalf("chrome called back: enters=%v exits=%v", c.enters, c.exits)
	}
	if len(r.fullscreen) != 1 || !r.fullscreen[0] {
		t.Fatalf("renderer should mirror the host change: %v", r.fullscreen)
	}
}

func TestRendererMountedPicksStartupView(t *testing.T) {
	wide, wideR, _ := newTestWidget(nil)
	wide.RendererMounted(1200)
	if wide.CurrentView() != ViewNotes {
		t.Fatalf("1200 wide container should start on notes, got %v", wide.CurrentView())
	}
	if wideR.buttonEnables != 1 {
		t.Fatalf("fullscreen button enables = %d, want 1", wideR.buttonEnables)
	}
	if len(wideR.views) != 1 || wideR.views[0] != ViewNotes {
		t.Fatalf("renderer views = %v", wideR.views)
	}

	narrow, _, _ := newTestWidget(nil)
	narrow.RendererMounted(800)
	if narrow.CurrentView() != ViewExercise {
		t.Fatalf("800 wide container should start on the exercise, got %v", narrow.CurrentView())
	}

	off, _, _ := newTestWidget(func(o *Options) {
		o.Behaviour.ShowNotesOnStartup = false
	})
	off.RendererMounted(1200)
	if off.CurrentView() != ViewExercise {
		t.Fatalf("notes on startup disabled, got %v", off.CurrentView())
	}
}

func TestRendererMountedFiresOnce(t *testing.T) {
	w, r, _ := newTestWidget(nil)
	w.RendererMounted(1200)
	w.RendererMounted(400)

	if r.buttonEnables != 1 {
		t.Fatalf("button enabled %d times, want 1", r.buttonEnables)
	}
	if len(r.views) != 1 {
		t.Fatalf("views set %d times, want 1", len(r.views))
	}
	if w.CurrentView() != ViewNotes {
		t.Fatalf("second mount must not recompute the view, got %v", w.CurrentView())
	}
}

func TestOwnResizeRequestNeverEchoes(t *testing.T) {
	w, r, c := newTestWidget(nil)
	c.echo = w

	w.RequestResize()
	if len(c.requests) != 1 || !c.requests[0].FromWidget {
		t.Fatalf("request not marked: %v", c.requests)
	}
	if r.resizes != 0 {
		t.Fatalf("echoed request reached the renderer %d times", r.resizes)
	}

	w.HandleResize(ResizeEvent{Width: 120, Height: 40})
	if r.resizes != 1 {
		t.Fatalf("container resize should reach the renderer once, got %d", r.resizes)
	}
}

func TestReportingContractIsInert(t *testing.T) {
	w, r, _ := newTestWidget(nil)

	if w.Score() != 0 || w.MaxScore() != 0 {
		t.Fatalf("score = %d/%d, want 0/0", w.Score(), w.MaxScore())
	}
	if !w.Passed() {
		t.Fatalf("activity must always count as passed")
	}
	w.ShowSolutions()

	r.answered = true
	if !w.AnswerGiven() {
		t.Fatalf("answered flag should come from the renderer")
	}

	detached := New(Options{Meta: Metadata{ContentID: "7"}})
	if detached.AnswerGiven() {
		t.Fatalf("no renderer means no answer")
	}
}

func TestResetTaskDelegatesToRenderer(t *testing.T) {
	w, r, _ := newTestWidget(nil)
	w.ResetTask()
	if r.resets != 1 {
		t.Fatalf("resets = %d, want 1", r.resets)
	}
}

func TestCurrentStateWritesThroughToCache(t *testing.T) {
	states := reconcile.New(reconcile.NewMemoryCache(), nil)
	w, r, _ := newTestWidget(func(o *Options) {
		o.States = states
	})
	r.state = notes.Snapshot{Recall: "cue", Notes: "body", Summary: "wrap"}

	got := w.CurrentState()
	if got.Notes != "body" {
		t.Fatalf("unexpected snapshot: %#v", got)
	}

	cached := states.ReadLocalCache("7")
	if cached == nil || cached.Notes != "body" || cached.Summary != "wrap" {
		t.Fatalf("state query should mirror into the cache, got %#v", cached)
	}
}

func TestNewPrefersHostSnapshotOverCache(t *testing.T) {
	states := reconcile.New(reconcile.NewMemoryCache(), nil)
	states.WriteLocalCache("7", notes.Snapshot{Notes: "stale local"})

	host := &notes.Snapshot{Notes: "host copy"}
	w, _, _ := newTestWidget(func(o *Options) {
		o.States = states
		o.Host = host
	})

	if got := w.InitialState(); got.Notes != "host copy" {
		t.Fatalf("host snapshot should win, got %#v", got)
	}
}

func TestTitleFallsBackWhenBlank(t *testing.T) {
	blank, _, _ := newTestWidget(func(o *Options) { o.Meta.Title = "   " })
	if blank.Title() != FallbackTitle {
		t.Fatalf("blank title should fall back, got %q", blank.Title())
	}
	named, _, _ := newTestWidget(nil)
	if named.Title() != "Water cycle" {
		t.Fatalf("title lost: %q", named.Title())
	}
}

func TestXAPIDataCarriesContentMetadata(t *testing.T) {
	w, _, _ := newTestWidget(func(o *Options) { o.Meta.Language = "de" })

	data := w.XAPIData()
	st := data.Statement
	if st.Verb.ID != "http://adlnet.gov/expapi/verbs/answered" {
		t.Fatalf("verb = %q", st.Verb.ID)
	}
	def := st.Object.Definition
	if def == nil {
		t.Fatalf("definition missing")
	}
	if def.Name["de"] != "Water cycle" || def.Name["en-US"] != "Water cycle" {
		t.Fatalf("name map = %#v", def.Name)
	}
	if !st.Result.Success || !st.Result.Completion {
		t.Fatalf("result must report success and completion: %#v", st.Result)
	}
	if st.Result.Score.Raw != 0 || st.Result.Score.Max != 0 {
		t.Fatalf("score must stay empty: %#v", st.Result.Score)
	}
}

func TestViewToggleRoundTrip(t *testing.T) {
	w, r, _ := newTestWidget(nil)

	w.ToggleView()
	if w.CurrentView() != ViewNotes {
		t.Fatalf("first toggle should show notes")
	}
	w.ToggleView()
	if w.CurrentView() != ViewExercise {
		t.Fatalf("second toggle should restore the exercise")
	}
	if len(r.views) != 2 {
		t.Fatalf("renderer views = %v", r.views)
	}

	st := w.SessionState()
	if st.CurrentView != ViewExercise || st.Fullscreen || st.ContainerWidthKnown {
		t.Fatalf("unexpected session state: %#v", st)
	}
}
