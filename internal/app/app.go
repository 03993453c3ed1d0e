package app

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/totoromaum/h5p-cornell/internal/content"
	"github.com/totoromaum/h5p-cornell/internal/devtools"
	"github.com/totoromaum/h5p-cornell/internal/notes"
	"github.com/totoromaum/h5p-cornell/internal/reconcile"
	"github.com/totoromaum/h5p-cornell/internal/state"
	"github.com/totoromaum/h5p-cornell/internal/telemetry"
	"github.com/totoromaum/h5p-cornell/internal/ui"
	"github.com/totoromaum/h5p-cornell/internal/widget"
	"github.com/totoromaum/h5p-cornell/internal/xapi"

	"github.com/google/uuid"
)

// App is the host shell: it owns the widget, the terminal view, and
// the persistence stack, and it implements the view's controller.
type App struct {
	cfg Config

	logger *telemetry.JSONLogger
	store  Store
	states *reconcile.Reconciler
	demo   *devtools.Manager

	view    ui.View
	widget  *widget.Widget
	content content.Content

	sessionID string
	startedAt time.Time

	// opMu serializes controller callbacks; the view dispatches each
	// one on its own goroutine.
	opMu sync.Mutex

	fieldsMu   sync.Mutex
	fields     notes.Snapshot
	dateStamp  string
	saves      int
	statements int
	autosave   *time.Timer

	devMu     sync.Mutex
	devServer *http.Server
	demoMu    sync.Mutex
	devState  struct {
		State     string
		Scenario  string
		RenderSeq int
		Rendered  bool
		Pending   bool
		Error     string
	}
}

func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	var store Store
	if sqlStore, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db")); err != nil {
		logger.Warn("state.sqlite_unavailable", map[string]any{"error": err.Error()})
	} else if err := sqlStore.EnsureSchema(context.Background()); err != nil {
		logger.Warn("state.schema_failed", map[string]any{"error": err.Error()})
		_ = sqlStore.Close()
	} else {
		store = sqlStore
	}

	loader := content.NewLoader()
	list, err := loader.LoadDir(cfg.ContentDir)
	if err != nil {
		logger.Warn("content.load_failed", map[string]any{"dir": cfg.ContentDir, "error": err.Error()})
		list = nil
	}
	if len(list) == 0 {
		list = []content.Content{content.Default()}
	}
	contentID := cfg.ContentID
	if contentID == "" && store != nil {
		if settings, err := store.LoadSettings(context.Background()); err == nil {
			contentID = settings["last_content_id"]
		}
	}
	cnt, err := loader.Find(list, contentID)
	if err != nil {
		if cfg.ContentID != "" {
			if store != nil {
				_ = store.Close()
			}
			_ = logger.Close()
			return nil, err
		}
		cnt = list[0]
	}

	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.ASCIIOnly,
		Debug:        cfg.DebugLayout,
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
	})

	a := &App{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		demo:      devtools.NewManager(),
		view:      view,
		content:   cnt,
		sessionID: uuid.NewString(),
		startedAt: time.Now(),
	}
	view.SetController(a)

	var cache reconcile.Cache = reconcile.NewMemoryCache()
	if store != nil {
		cache = storeCache{store: store}
	}
	a.states = reconcile.New(cache, logger)

	host := a.loadHostSnapshot()
	a.widget = widget.New(widget.Options{
		Meta: widget.Metadata{
			ContentID:   reconcile.ContentID(cnt.ContentID),
			Title:       cnt.Title,
			Description: cnt.DescriptionMD,
			Language:    cnt.Language,
		},
		Behaviour: widget.Behaviour{
			ShowNotesOnStartup: cnt.Behaviour.ShowNotesOnStartup != nil && *cnt.Behaviour.ShowNotesOnStartup,
			DualViewMinWidth:   cnt.Behaviour.DualViewMinWidth,
		},
		Renderer: tuiRenderer{app: a},
		Chrome:   hostChrome{app: a},
		States:   a.states,
		Host:     host,
		Template: a.statementTemplate(),
		Logger:   logger,
	})

	initial := a.widget.InitialState()
	a.fields = initial.Clone()
	a.dateStamp = dateStampFor(cnt, initial, time.Now)

	view.SetContent(a.contentInfo())
	view.SetFields(noteFieldsFromSnapshot(initial))
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{
		"session": a.sessionID,
		"content": a.content.ContentID,
		"title":   a.content.Title,
	})

	if a.store != nil {
		err := a.store.StartSession(ctx, state.Session{
			SessionID: a.sessionID,
			ContentID: a.content.ContentID,
			StartTS:   time.Now().UTC(),
			LastView:  a.widget.CurrentView().String(),
		})
		if err != nil {
			a.logger.Warn("state.session_start_failed", map[string]any{"error": err.Error()})
		}
	}

	if a.cfg.Dev {
		if err := a.startDevHTTP(); err != nil {
			return err
		}
		if a.cfg.DemoScenario != "" {
			if _, err := a.runDemoScenario(context.Background(), a.cfg.DemoScenario); err != nil {
				a.logger.Error("dev.scenario.initial_failed", map[string]any{"scenario": a.cfg.DemoScenario, "error": err.Error()})
			}
		} else {
			a.setDevState("exercise", "")
			_ = a.demo.SetState(context.Background(), a.cfg.DataDir, "exercise", true)
		}
	}

	err := a.view.Run()
	a.finishSession()
	return err
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.devServer != nil {
		_ = a.devServer.Shutdown(ctx)
	}
	a.cancelAutosave()
	if a.store != nil {
		_ = a.store.Close()
	}
	_ = a.logger.Close()
}

func (a *App) finishSession() {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.cancelAutosave()
	snap := a.persistFields(ctx, "exit")

	if a.store != nil {
		st := a.widget.SessionState()
		if err := a.store.EndSession(ctx, a.sessionID, state.SessionEnd{
			EndTS:      time.Now().UTC(),
			LastView:   st.CurrentView.String(),
			Fullscreen: st.Fullscreen,
			Saves:      a.saveCount(),
		}); err != nil {
			a.logger.Warn("state.session_end_failed", map[string]any{"error": err.Error()})
		}
		if err := a.store.SaveSettings(ctx, map[string]string{
			"last_content_id": a.content.ContentID,
			"last_session_id": a.sessionID,
		}); err != nil {
			a.logger.Warn("state.settings_save_failed", map[string]any{"error": err.Error()})
		}
	}

	recap := buildSessionRecap(a.widget.Title(), a.startedAt, time.Now(), snap, a.saveCount(), a.statementCount())
	a.logger.Info("session.recap", map[string]any{"text": recap})
}

func (a *App) OnViewReady(cols, rows int) {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	a.logger.Info("view.ready", map[string]any{"cols": cols, "rows": rows})
	a.widget.RendererMounted(cols * cellWidthUnits)
	a.markDevRendered()
}

func (a *App) OnToggleView() {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	a.widget.ToggleView()
	a.widget.RequestResize()
}

func (a *App) OnToggleFullscreen() {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	request := widget.RequestExit
	if a.widget.Fullscreen() {
		request = widget.RequestEnter
	}
	a.widget.ToggleFullscreen(request)
}

func (a *App) OnFieldEdited(fields ui.NoteFields) {
	a.fieldsMu.Lock()
	a.fields.Recall = fields.Recall
	a.fields.Notes = fields.Notes
	a.fields.Summary = fields.Summary
	a.fieldsMu.Unlock()
	a.scheduleAutosave()
}

func (a *App) OnSave() {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	a.cancelAutosave()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.persistFields(ctx, "manual")
	a.view.FlashStatus("Saved")
}

func (a *App) OnReset() {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	a.widget.ResetTask()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.persistFields(ctx, "reset")
	a.view.FlashStatus("Notes cleared")
}

func (a *App) OnResize(cols, rows int) {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	a.widget.HandleResize(widget.ResizeEvent{Width: cols * cellWidthUnits, Height: rows})
}

func (a *App) OnQuit() {
	a.view.Stop()
}

// applyView runs when the widget switches panes; the renderer adapter
// routes SetView calls here.
func (a *App) applyView(v widget.View) {
	screen := ui.ScreenExercise
	if v == widget.ViewNotes {
		screen = ui.ScreenNotes
	}
	a.view.SetScreen(screen)
	a.setDevView(v.String())
}

func (a *App) loadHostSnapshot() *notes.Snapshot {
	if a.store == nil {
		return nil
	}
	payload, found, err := a.store.GetHostState(context.Background(), a.content.ContentID)
	if err != nil {
		a.logger.Warn("state.host_read_failed", map[string]any{"error": err.Error()})
		return nil
	}
	if !found {
		return nil
	}
	snap, err := notes.Decode(payload)
	if err != nil {
		a.logger.Warn("state.host_payload_invalid", map[string]any{"error": err.Error()})
		return nil
	}
	return &snap
}

func (a *App) statementTemplate() xapi.Template {
	actor := map[string]any{
		"objectType": "Agent",
		"name":       "Local Learner",
		"account": map[string]any{
			"homePage": "local://cornell",
			"name":     a.sessionID,
		},
	}
	raw, _ := json.Marshal(actor)
	return xapi.Template{
		Actor:      raw,
		ActivityID: "local://cornell/content/" + a.content.ContentID,
	}
}

func (a *App) contentInfo() ui.ContentInfo {
	a.fieldsMu.Lock()
	stamp := a.dateStamp
	a.fieldsMu.Unlock()
	return ui.ContentInfo{
		Title:         a.content.Title,
		TaskMD:        a.content.TaskMD,
		DescriptionMD: a.content.DescriptionMD,
		Recall:        ui.FieldInfo{Placeholder: a.content.Fields.Recall.Placeholder, CharLimit: a.content.Fields.Recall.CharLimit},
		Notes:         ui.FieldInfo{Placeholder: a.content.Fields.Notes.Placeholder, CharLimit: a.content.Fields.Notes.CharLimit},
		Summary:       ui.FieldInfo{Placeholder: a.content.Fields.Summary.Placeholder, CharLimit: a.content.Fields.Summary.CharLimit},
		DateLine:      stamp,
	}
}

func (a *App) fieldsSnapshot() notes.Snapshot {
	a.fieldsMu.Lock()
	defer a.fieldsMu.Unlock()
	snap := a.fields.Clone()
	if a.dateStamp != "" && !snap.IsEmpty() {
		if snap.Extra == nil {
			snap.Extra = map[string]string{}
		}
		snap.Extra["date"] = a.dateStamp
	}
	return snap
}

func (a *App) clearFields() {
	a.fieldsMu.Lock()
	a.fields = notes.Snapshot{}
	a.fieldsMu.Unlock()
	a.view.SetFields(ui.NoteFields{})
}

// persistFields mirrors the live fields through the widget (which
// keeps the local cache fresh) and, for deliberate saves, into the
// host state channel and the statement journal.
func (a *App) persistFields(ctx context.Context, reason string) notes.Snapshot {
	snap := a.widget.CurrentState()
	a.fieldsMu.Lock()
	a.saves++
	saves := a.saves
	a.fieldsMu.Unlock()

	switch reason {
	case "manual", "exit":
		a.putHostState(ctx, snap)
		a.journalStatement(ctx)
	case "reset":
		a.putHostState(ctx, snap)
	}
	a.logger.Info("notes.saved", map[string]any{"reason": reason, "saves": saves, "empty": snap.IsEmpty()})
	return snap
}

func (a *App) putHostState(ctx context.Context, snap notes.Snapshot) {
	if a.store == nil {
		return
	}
	payload, err := snap.Encode()
	if err != nil {
		a.logger.Warn("state.host_encode_failed", map[string]any{"error": err.Error()})
		return
	}
	if err := a.store.PutHostState(ctx, a.content.ContentID, payload); err != nil {
		a.logger.Warn("state.host_write_failed", map[string]any{"error": err.Error()})
	}
}

func (a *App) journalStatement(ctx context.Context) {
	if a.store == nil {
		return
	}
	rec, err := buildStatementRecord(a.sessionID, a.content.ContentID, a.widget.XAPIData())
	if err != nil {
		a.logger.Warn("xapi.encode_failed", map[string]any{"error": err.Error()})
		return
	}
	if _, err := a.store.AppendStatement(ctx, rec); err != nil {
		a.logger.Warn("xapi.journal_failed", map[string]any{"error": err.Error()})
		return
	}
	a.fieldsMu.Lock()
	a.statements++
	a.fieldsMu.Unlock()
}

func (a *App) scheduleAutosave() {
	a.fieldsMu.Lock()
	defer a.fieldsMu.Unlock()
	if a.autosave != nil {
		a.autosave.Stop()
	}
	d := time.Duration(a.cfg.Editing.AutosaveDebounceMS) * time.Millisecond
	if d <= 0 {
		d = 800 * time.Millisecond
	}
	a.autosave = time.AfterFunc(d, func() {
		a.opMu.Lock()
		defer a.opMu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.persistFields(ctx, "auto")
	})
}

func (a *App) cancelAutosave() {
	a.fieldsMu.Lock()
	defer a.fieldsMu.Unlock()
	if a.autosave != nil {
		a.autosave.Stop()
		a.autosave = nil
	}
}

func (a *App) saveCount() int {
	a.fieldsMu.Lock()
	defer a.fieldsMu.Unlock()
	return a.saves
}

func (a *App) statementCount() int {
	a.fieldsMu.Lock()
	defer a.fieldsMu.Unlock()
	return a.statements
}

func (a *App) setDevState(stateName, scenario string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = stateName
	a.devState.Scenario = scenario
	a.devState.Rendered = true
	a.devState.Pending = false
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevPending(stateName, scenario string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = stateName
	a.devState.Scenario = scenario
	a.devState.Rendered = false
	a.devState.Pending = true
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevError(stateName, scenario, errText string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = stateName
	a.devState.Scenario = scenario
	a.devState.Rendered = false
	a.devState.Pending = false
	a.devState.Error = errText
	a.devState.RenderSeq++
}

func (a *App) setDevView(viewName string) {
	if !a.cfg.Dev {
		return
	}
	a.devMu.Lock()
	a.devState.State = viewName
	a.devState.RenderSeq++
	a.devMu.Unlock()
}

func (a *App) markDevRendered() {
	if !a.cfg.Dev {
		return
	}
	a.devMu.Lock()
	a.devState.Rendered = true
	a.devState.Pending = false
	a.devState.RenderSeq++
	a.devMu.Unlock()
}

func (a *App) getDevState() map[string]any {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	return map[string]any{
		"ok":         true,
		"state":      a.devState.State,
		"scenario":   a.devState.Scenario,
		"render_seq": a.devState.RenderSeq,
		"rendered":   a.devState.Rendered,
		"pending":    a.devState.Pending,
		"error":      a.devState.Error,
	}
}

func (a *App) runDemoScenario(ctx context.Context, requested string) (string, error) {
	resolved := a.demo.Resolve(requested).Name
	a.logger.Info("dev.scenario.begin", map[string]any{"requested": requested, "resolved": resolved})
	a.setDevPending(resolved, requested)

	a.demoMu.Lock()
	defer a.demoMu.Unlock()

	if err := a.applyDemoScenario(ctx, requested); err != nil {
		a.logger.Error("dev.scenario.apply_failed", map[string]any{"requested": requested, "resolved": resolved, "error": err.Error()})
		a.setDevError(resolved, requested, err.Error())
		_ = a.demo.SetState(ctx, a.cfg.DataDir, resolved, false)
		return resolved, err
	}
	a.view.RequestDraw()
	a.setDevState(resolved, resolved)
	if err := a.demo.SetState(ctx, a.cfg.DataDir, resolved, true); err != nil {
		a.logger.Error("dev_state.write_failed", map[string]any{"state": resolved, "error": err.Error()})
	}
	a.logger.Info("dev.scenario.done", map[string]any{"requested": requested, "resolved": resolved})
	return resolved, nil
}

func (a *App) applyDemoScenario(ctx context.Context, requested string) error {
	sc := a.demo.Resolve(requested)
	a.opMu.Lock()
	defer a.opMu.Unlock()

	id := reconcile.ContentID(a.content.ContentID)
	if !sc.Fields.IsEmpty() {
		if _, err := a.demo.SeedCache(ctx, a.states, id, sc.Name); err != nil {
			a.logger.Warn("dev.scenario.seed_failed", map[string]any{"scenario": sc.Name, "error": err.Error()})
		}
	}

	a.fieldsMu.Lock()
	a.fields = sc.Fields.Clone()
	if sc.Fields.Extra != nil {
		if d := strings.TrimSpace(sc.Fields.Extra["date"]); d != "" {
			a.dateStamp = d
		}
	}
	a.fieldsMu.Unlock()
	a.view.SetContent(a.contentInfo())
	a.view.SetFields(noteFieldsFromSnapshot(sc.Fields))

	if sc.View == "notes" {
		a.widget.SetView(widget.ViewNotes)
	} else {
		a.widget.SetView(widget.ViewExercise)
	}
	if sc.Fullscreen != a.widget.Fullscreen() {
		a.widget.SetFullscreen(sc.Fullscreen)
	}
	a.logger.Info("dev.scenario.ready", map[string]any{"scenario": sc.Name})
	return nil
}

func (a *App) startDevHTTP() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/__dev/ready", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		status := a.getDevState()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":       true,
			"rendered": status["rendered"],
			"pending":  status["pending"],
		})
	})
	mux.HandleFunc("/__dev/state", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(a.getDevState())
	})
	mux.HandleFunc("/__dev/demo", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Scenario string `json:"scenario"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "invalid json"})
			return
		}
		req.Scenario = strings.TrimSpace(req.Scenario)
		if req.Scenario == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "scenario is required"})
			return
		}
		a.logger.Info("dev.scenario.request", map[string]any{"scenario": req.Scenario})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resolved, err := a.runDemoScenario(ctx, req.Scenario)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": err.Error(), "state": resolved})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "state": resolved, "requested": req.Scenario})
	})

	a.devServer = &http.Server{Addr: a.cfg.DevHTTP, Handler: mux}
	a.setDevState("exercise", a.cfg.DemoScenario)
	go func() {
		if err := a.devServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("dev_http.listen_failed", map[string]any{"error": err.Error(), "addr": a.cfg.DevHTTP})
		}
	}()
	return nil
}

func noteFieldsFromSnapshot(s notes.Snapshot) ui.NoteFields {
	return ui.NoteFields{Recall: s.Recall, Notes: s.Notes, Summary: s.Summary}
}

func dateStampFor(c content.Content, initial notes.Snapshot, now func() time.Time) string {
	if c.Behaviour.DateStamp == nil || !*c.Behaviour.DateStamp {
		return ""
	}
	if initial.Extra != nil {
		if d := strings.TrimSpace(initial.Extra["date"]); d != "" {
			return d
		}
	}
	return now().Format("Monday, January 2, 2006")
}

func buildStatementRecord(sessionID, contentID string, data xapi.Data) (state.StatementRecord, error) {
	data.Statement.ID = uuid.NewString()
	payload, err := json.Marshal(data.Statement)
	if err != nil {
		return state.StatementRecord{}, err
	}
	return state.StatementRecord{
		Kind:          state.StatementKind,
		SchemaVersion: state.StatementSchemaVersion,
		SessionID:     sessionID,
		ContentID:     contentID,
		Verb:          "answered",
		Payload:       string(payload),
		CreatedTS:     time.Now().UTC(),
	}, nil
}

var _ ui.Controller = (*App)(nil)
