package app

import (
	"cockpitview/config"
	"cockpitview/display"
	"cockpitview/inspect"
	"cockpitview/keys"
	"cockpitview/log"
	"cockpitview/panel"
	"cockpitview/ui"
	"cockpitview/ui/layout"
	"cockpitview/ui/overlay"
	"cockpitview/ui/scale"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// uiScaleStep is how much one key press changes the UI-scale multiplier.
const uiScaleStep = 0.1

// reloadInterval is how often the settings record is checked for changes
// written by another process.
const reloadInterval = 2 * time.Second

// Options wires the preview to its collaborators. Zero values select the
// process defaults.
type Options struct {
	Config *config.Config
	// Store persists settings and preview state. Nil uses the file store in
	// the config directory.
	Store config.Store
	// Surface receives published display states. Nil uses display.Global.
	Surface   *display.Surface
	Scheduler display.Scheduler
	Registry  *panel.Registry
	// ExportDir is where 'e' writes snapshots and 'i' starts browsing.
	ExportDir string
	// Clipboard receives copied snapshots. Nil uses the system clipboard.
	Clipboard func(string) error
}

// Run is the main entrypoint into the application.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(
		New(ctx, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Mouse clicks
	)
	_, err := p.Run()
	return err
}

type state int

const (
	stateDefault state = iota
	// statePicker is the state when the resolution picker is open.
	statePicker
	// stateHelp is the state when a help screen is displayed.
	stateHelp
	// stateBrowse is the state when the snapshot browser is open.
	stateBrowse
	// stateLoading is the state while a snapshot import runs.
	stateLoading
)

func (s state) String() string {
	switch s {
	case statePicker:
		return "picker"
	case stateHelp:
		return "help"
	case stateBrowse:
		return "browse"
	case stateLoading:
		return "loading"
	default:
		return "default"
	}
}

type home struct {
	ctx context.Context

	// -- Storage and Configuration --

	// appConfig stores persistent application configuration
	appConfig *config.Config
	// appState stores persistent application state like seen help screens
	appState  *config.State
	exportDir string
	clipboard func(string) error

	// -- Display pipeline --

	manager  *display.Manager
	registry *panel.Registry
	started  bool
	// scaleEvents is signalled whenever the manager publishes a new state.
	scaleEvents chan struct{}

	// -- State --

	// state is the current discrete state of the application
	state         state
	width, height int
	// layout splits the terminal between the canvas and the chrome rows.
	layout  layout.Constraints
	layouts []panel.Layout

	// -- UI Components --

	canvas *ui.Canvas
	status *ui.StatusBar
	// menu displays the bottom menu
	menu *ui.Menu
	// errBox displays error messages
	errBox *ui.ErrBox
	// global spinner instance. we plumb this down to where it's needed
	spinner spinner.Model

	picker         *overlay.ResolutionPickerOverlay
	helpOverlay    *overlay.HelpOverlay
	helpDismiss    func()
	browser        *overlay.FileBrowserOverlay
	loadingOverlay *overlay.LoadingOverlay
}

// New returns the preview model. The SSH host builds one per session.
func New(ctx context.Context, opts Options) tea.Model {
	return newHome(ctx, opts)
}

func newHome(ctx context.Context, opts Options) *home {
	appConfig := opts.Config
	if appConfig == nil {
		appConfig = config.LoadConfig()
	}

	store := opts.Store
	if store == nil {
		fs, err := config.DefaultFileStore()
		if err != nil {
			log.ErrorLog.Printf("settings store unavailable, keeping settings in memory: %v", err)
			store = config.NewMemoryStore()
		} else {
			store = fs
		}
	}

	exportDir := opts.ExportDir
	if exportDir == "" {
		if dir, err := config.GetConfigDir(); err == nil {
			exportDir = filepath.Join(dir, "exports")
		} else {
			exportDir = os.TempDir()
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = panel.DefaultRegistry()
	}

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	dopts := display.OptionsFromConfig(appConfig)
	dopts.Store = store
	dopts.Surface = opts.Surface
	dopts.Scheduler = opts.Scheduler

	h := &home{
		ctx:         ctx,
		appConfig:   appConfig,
		appState:    config.LoadState(store),
		exportDir:   exportDir,
		clipboard:   copyFn,
		manager:     display.NewManager(dopts),
		registry:    registry,
		scaleEvents: make(chan struct{}, 1),
		state:       stateDefault,
		canvas:      ui.NewCanvas(appConfig.CellWidthPx, appConfig.CellHeightPx),
		status:      ui.NewStatusBar(),
		menu:        ui.NewMenu(),
		errBox:      ui.NewErrBox(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}

	h.manager.OnScaleChanged(func(display.ScaleChanged) {
		select {
		case h.scaleEvents <- struct{}{}:
		default:
		}
	})

	h.showHelpScreen(helpTypeIntro, nil)
	return h
}

// updateHandleWindowSizeEvent sets the sizes of the components and feeds
// the new pixel size to the display manager.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) tea.Cmd {
	m.width, m.height = msg.Width, msg.Height
	m.layout = layout.ComputeConstraints(msg.Width, msg.Height)
	degrade := layout.ComputeDegradation(m.layout)

	m.canvas.SetSize(m.layout.CanvasWidth, m.layout.CanvasHeight)
	m.canvas.SetOverlayMarks(!degrade.HideOverlayMarks)
	m.status.SetSize(msg.Width)
	m.status.SetDegradation(degrade)
	m.menu.SetSize(msg.Width, layout.MenuHeight)
	m.errBox.SetSize(msg.Width, layout.ErrBoxHeight)
	if m.helpOverlay != nil {
		m.helpOverlay.SetWidth(m.overlayWidth(msg.Width * 3 / 5))
	}
	if m.browser != nil {
		m.browser.SetSize(m.overlaySize(msg.Width*3/5, msg.Height-4))
	}
	if m.picker != nil {
		m.picker.SetWidth(m.overlayWidth(60))
	}

	w, h := m.canvas.PixelSize()
	log.InputTrace("window %dx%d cells -> %.0fx%.0f px", msg.Width, msg.Height, w, h)

	var cmd tea.Cmd
	if !m.started {
		m.started = true
		if err := m.manager.Start(w, h); err != nil {
			cmd = m.handleError(fmt.Errorf("stored settings partly ignored: %w", err))
		}
	} else {
		m.manager.Resize(w, h)
	}
	m.refresh()
	return cmd
}

func (m *home) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForScale(),
		tickReloadCmd,
	)
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case hideErrMsg:
		m.errBox.Clear()
	case keyupMsg:
		m.menu.ClearKeydown()
		return m, nil
	case scaleChangedMsg:
		m.refresh()
		return m, m.waitForScale()
	case tickReloadMsg:
		changed, err := m.manager.Reload()
		var cmd tea.Cmd
		if err != nil {
			cmd = m.handleError(err)
		} else if changed {
			m.refresh()
			cmd = m.showInfo("settings reloaded from disk")
		}
		return m, tea.Batch(cmd, tickReloadCmd)
	case importCompleteMsg:
		m.loadingOverlay = nil
		m.state = stateDefault
		m.menu.SetState(ui.StateDefault)
		if msg.err != nil {
			return m, m.handleError(msg.err)
		}
		m.refresh()
		return m, m.showInfo("imported " + filepath.Base(msg.path))
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.state == stateDefault {
			return m, m.handleClick(msg.X, msg.Y)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		return m, m.updateHandleWindowSizeEvent(msg)
	case error:
		return m, m.handleError(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh pulls the published state and places the panels for it.
func (m *home) refresh() {
	st, ok := m.manager.State()
	if !ok {
		return
	}
	m.layouts = m.placePanels(st)
	m.canvas.SetState(&st, m.layouts)
	m.status.SetState(&st, m.manager.Tolerance())

	if inspect.IsEnabled() {
		if err := inspect.WriteSnapshot(m.inspectSnapshot(st)); err != nil {
			log.WarningLog.Printf("failed to write inspect snapshot: %v", err)
		}
	}
}

// placePanels maps the built-in slots, authored for the default design
// canvas, onto the active resolution and fits each panel into its slot.
func (m *home) placePanels(st display.State) []panel.Layout {
	defer log.GetProfiler().StartRender("panels")()

	slots := panel.ScaleSlots(panel.DefaultSlots, scale.DefaultResolution, st.Resolution)
	mapper := m.manager.Mapper()
	layouts := make([]panel.Layout, 0, len(slots))
	for _, slot := range slots {
		l, err := m.registry.Place(mapper, slot)
		if err != nil {
			log.WarningLog.Printf("panel %s not placed: %v", slot.Name, err)
			continue
		}
		layouts = append(layouts, l)
	}
	return layouts
}

// overlaySize fits an overlay's preferred size into the terminal.
func (m *home) overlaySize(w, h int) (int, int) {
	return layout.ComputeOverlaySize(m.width, m.height, w, h)
}

func (m *home) overlayWidth(w int) int {
	w, _ = m.overlaySize(w, 0)
	return w
}

func (m *home) handleClick(x, y int) tea.Cmd {
	if !m.layout.InCanvas(y) {
		return nil
	}
	px := m.canvas.CellToPixel(x, y)
	v, err := m.manager.Mapper().ScreenToVirtual(px)
	if err != nil {
		return m.handleError(err)
	}
	log.InputTrace("click cell %d,%d -> screen %.0f,%.0f -> virtual %.1f,%.1f", x, y, px.X, px.Y, v.X, v.Y)
	m.canvas.SetCursor(&px)
	m.status.SetPointer(&v)
	return nil
}

func (m *home) handleQuit() (tea.Model, tea.Cmd) {
	m.manager.Stop()
	log.GetProfiler().LogStats()
	return m, tea.Quit
}

// handleMenuHighlighting returns a command to highlight the pressed key in the menu.
// This is purely visual - it briefly underlines the corresponding menu item.
func (m *home) handleMenuHighlighting(msg tea.KeyMsg) tea.Cmd {
	if m.state == stateHelp || m.state == stateBrowse {
		return nil
	}
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return nil
	}
	return m.keydownCallback(name)
}

func (m *home) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	highlightCmd := m.handleMenuHighlighting(msg)

	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}

	switch m.state {
	case stateHelp:
		if m.helpOverlay.HandleKeyPress(msg) {
			m.helpOverlay = nil
			m.state = stateDefault
			if fn := m.helpDismiss; fn != nil {
				m.helpDismiss = nil
				fn()
			}
		}
		return m, nil
	case statePicker:
		return m, tea.Batch(highlightCmd, m.handlePickerKey(msg))
	case stateBrowse:
		return m, m.handleBrowserKey(msg)
	case stateLoading:
		if name, ok := keys.GlobalKeyStringsMap[msg.String()]; ok && name == keys.KeyQuit {
			return m.handleQuit()
		}
		return m, nil
	}

	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}

	var cmd tea.Cmd
	switch name {
	case keys.KeyQuit:
		return m.handleQuit()
	case keys.KeyHelp:
		m.showHelpScreen(helpTypeGeneral, nil)
	case keys.KeyPolicy:
		next := m.manager.Policy().Next()
		if err := m.manager.SetFitPolicy(next.String()); err != nil {
			cmd = m.handleError(err)
		}
	case keys.KeyResolution:
		key, _ := m.manager.Resolution()
		vw, vh := m.manager.Viewport()
		m.picker = overlay.NewResolutionPickerOverlay(key, vw, vh, m.manager.Settings().CustomSize())
		m.picker.SetWidth(m.overlayWidth(60))
		m.state = statePicker
		m.menu.SetState(ui.StatePicker)
	case keys.KeyUIScaleUp, keys.KeyUIScaleDown:
		step := uiScaleStep
		if name == keys.KeyUIScaleDown {
			step = -step
		}
		next := math.Round((m.manager.UIScaleMultiplier()+step)*10) / 10
		if err := m.manager.SetUIScaleMultiplier(next); err != nil {
			cmd = m.handleError(err)
		}
	case keys.KeyExport:
		cmd = m.handleExport()
	case keys.KeyImport:
		cmd = m.openBrowser()
	case keys.KeyCopy:
		cmd = m.handleCopy()
	case keys.KeyReset:
		if err := m.manager.Reset(); err != nil {
			cmd = m.handleError(err)
		} else {
			cmd = m.showInfo("settings reset to defaults")
		}
	}
	m.refresh()
	return m, tea.Batch(highlightCmd, cmd)
}

func (m *home) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	if !m.picker.HandleKeyPress(msg) {
		return nil
	}
	selected := m.picker.GetSelected()
	m.picker = nil
	m.state = stateDefault
	m.menu.SetState(ui.StateDefault)
	if selected == "" {
		return nil
	}
	if err := m.manager.SetVirtualResolution(selected, 0, 0); err != nil {
		return m.handleError(err)
	}
	m.refresh()
	return nil
}

func (m *home) handleExport() tea.Cmd {
	path := filepath.Join(m.exportDir, "cockpit-"+time.Now().Format("20060102-150405")+".json")
	if err := m.manager.ExportFile(path); err != nil {
		return m.handleError(err)
	}
	if err := m.appState.SetLastExportPath(path); err != nil {
		log.WarningLog.Printf("failed to remember export path: %v", err)
	}
	return m.showInfo("exported to " + path)
}

func (m *home) handleCopy() tea.Cmd {
	data, err := m.manager.Export()
	if err != nil {
		return m.handleError(err)
	}
	if err := m.clipboard(string(data)); err != nil {
		return m.handleError(fmt.Errorf("failed to copy snapshot: %w", err))
	}
	return m.showInfo("snapshot copied to clipboard")
}

// openBrowser shows the snapshot browser in the directory of the last
// export, falling back to the export directory.
func (m *home) openBrowser() tea.Cmd {
	dir := m.exportDir
	if last := m.appState.LastExportPath; last != "" {
		dir = filepath.Dir(last)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return m.handleError(fmt.Errorf("failed to create export directory: %w", err))
	}
	browser, err := overlay.NewFileBrowserOverlay(dir)
	if err != nil {
		return m.handleError(err)
	}
	browser.SetSize(m.overlaySize(m.width*3/5, m.height-4))
	m.browser = browser
	m.state = stateBrowse
	return nil
}

func (m *home) handleBrowserKey(msg tea.KeyMsg) tea.Cmd {
	if !m.browser.HandleKeyPress(msg) {
		return nil
	}
	browser := m.browser
	m.browser = nil
	m.state = stateDefault
	if !browser.IsSubmitted() {
		return nil
	}

	path := browser.GetSelectedPath()
	m.state = stateLoading
	m.menu.SetState(ui.StateBusy)
	m.loadingOverlay = overlay.NewLoadingOverlay("Importing snapshot", &m.spinner)
	m.loadingOverlay.SetWidth(50)
	m.loadingOverlay.SetStatus(filepath.Base(path))
	return m.importAsync(path)
}

// importAsync imports a snapshot file off the UI goroutine.
func (m *home) importAsync(path string) tea.Cmd {
	return func() tea.Msg {
		return importCompleteMsg{path: path, err: m.manager.ImportFile(m.ctx, path)}
	}
}

// waitForScale delivers a scaleChangedMsg once the manager publishes a new
// state, including recomputes fired by the resize throttle.
func (m *home) waitForScale() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case <-m.scaleEvents:
			return scaleChangedMsg{}
		}
	}
}

type keyupMsg struct{}

// keydownCallback clears the menu option highlighting after 500ms.
func (m *home) keydownCallback(name keys.KeyName) tea.Cmd {
	m.menu.Keydown(name)
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(500 * time.Millisecond):
		}

		return keyupMsg{}
	}
}

// hideErrMsg implements tea.Msg and clears the error text from the screen.
type hideErrMsg struct{}

// scaleChangedMsg is sent when the display manager published a new state.
type scaleChangedMsg struct{}

type tickReloadMsg struct{}

// importCompleteMsg is sent when a snapshot import finishes.
type importCompleteMsg struct {
	path string
	err  error
}

// tickReloadCmd picks up settings written by another process, such as the
// import subcommand, every reloadInterval.
var tickReloadCmd = func() tea.Msg {
	time.Sleep(reloadInterval)
	return tickReloadMsg{}
}

// handleError handles all errors which get bubbled up to the app. sets the error message. We return a callback tea.Cmd that returns a hideErrMsg message
// which clears the error message after 3 seconds.
func (m *home) handleError(err error) tea.Cmd {
	log.ErrorLog.Printf("%v", err)
	m.errBox.SetError(err)
	return m.hideMessageAfter(3 * time.Second)
}

// showInfo shows a transient confirmation in the error box.
func (m *home) showInfo(msg string) tea.Cmd {
	log.InfoLog.Print(msg)
	m.errBox.SetInfo(msg)
	return m.hideMessageAfter(3 * time.Second)
}

func (m *home) hideMessageAfter(d time.Duration) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(d):
		}

		return hideErrMsg{}
	}
}

func (m *home) View() string {
	start := time.Now()
	defer func() { log.GetProfiler().RecordFrame(time.Since(start)) }()

	rows := []string{m.canvas.String(), m.status.String()}
	if m.layout.MenuVisible() {
		rows = append(rows, m.menu.String())
	}
	rows = append(rows, m.errBox.String())
	mainView := lipgloss.JoinVertical(lipgloss.Left, rows...)

	switch m.state {
	case statePicker:
		return overlay.PlaceOverlay(0, 0, m.picker.Render(), mainView, true)
	case stateHelp:
		return overlay.PlaceOverlay(0, 0, m.helpOverlay.Render(), mainView, true)
	case stateBrowse:
		return overlay.PlaceOverlay(0, 0, m.browser.Render(), mainView, true)
	case stateLoading:
		if m.loadingOverlay == nil {
			log.ErrorLog.Printf("loading overlay is nil")
			return mainView
		}
		return overlay.PlaceOverlay(0, 0, m.loadingOverlay.Render(), mainView, true)
	}
	return mainView
}
