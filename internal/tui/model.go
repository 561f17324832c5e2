// Package tui is the interactive terminal viewer. Everything that touches
// the scene runs inside Update on bubbletea's event goroutine; the only
// background work is model loading, which reports back as a message.
package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"asset-previewer/internal/framing"
	"asset-previewer/internal/model"
	"asset-previewer/internal/preset"
	"asset-previewer/internal/scene"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	orbitStep = 0.08 // radians of velocity per key press
	zoomStep  = 1.15
)

// Loader loads a model file for display.
type Loader func(path string) (*scene.Model, error)

// Options wires the viewer to an already-built runtime and controller.
type Options struct {
	Store        *preset.Store
	Runtime      *scene.Runtime
	Controller   *framing.Controller
	Load         Loader
	CameraPreset string
	GridPreset   string
	FPS          int
	StartDir     string
	InitialModel string
	Logger       *log.Logger
}

type focus int

const (
	focusViewport focus = iota
	focusControls
	focusPicker
)

type (
	tickMsg        time.Time
	applyCameraMsg struct{}
	modelLoadedMsg struct {
		path  string
		model *scene.Model
	}
	modelFailedMsg struct {
		path string
		err  error
	}
)

type status struct {
	text string
	err  bool
}

// Model is the bubbletea model of the viewer.
type Model struct {
	rt     *scene.Runtime
	ctl    *framing.Controller
	store  *preset.Store
	load   Loader
	logger *log.Logger
	fps    int

	keys   keyMap
	help   help.Model
	picker filepicker.Model
	entry  textinput.Model

	controls []slider
	selected int
	editing  bool

	cameras []string
	camIdx  int
	grids   []string
	gridIdx int // == len(grids) means no grid

	focus     focus
	status    status
	loading   string
	modelPath string
	initial   string

	width, height int
}

// New builds the viewer and selects the configured presets. The grid preset
// is shown immediately; the camera preset is applied on Init.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}

	fp := filepicker.New()
	fp.AllowedTypes = model.Extensions
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory = "."
	}

	ti := textinput.New()
	ti.Prompt = "= "
	ti.CharLimit = 12
	ti.Width = 10

	m := Model{
		rt:       opts.Runtime,
		ctl:      opts.Controller,
		store:    opts.Store,
		load:     opts.Load,
		logger:   logger.WithPrefix("tui"),
		fps:      fps,
		keys:     defaultKeyMap(),
		help:     help.New(),
		picker:   fp,
		entry:    ti,
		controls: sliders(),
		cameras:  opts.Store.CameraNames(),
		grids:    opts.Store.GridNames(),
		initial:  opts.InitialModel,
		width:    80,
		height:   24,
	}

	if m.initial != "" {
		m.loading = filepath.Base(m.initial)
	}
	m.camIdx = indexOf(m.cameras, opts.CameraPreset)
	m.gridIdx = indexOf(m.grids, opts.GridPreset)
	if m.gridIdx < 0 {
		m.gridIdx = len(m.grids)
	}
	m.applyGrid()
	return m
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model. It only schedules work: the initial model (its
// loading label is set by New) or, without one, the configured camera.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(m.fps)}
	if m.initial != "" {
		cmds = append(cmds, loadCmd(m.load, m.initial))
	} else {
		cmds = append(cmds, func() tea.Msg { return applyCameraMsg{} })
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadModel(path string) tea.Cmd {
	m.loading = filepath.Base(path)
	return loadCmd(m.load, path)
}

func loadCmd(load Loader, path string) tea.Cmd {
	return func() tea.Msg {
		mdl, err := load(path)
		if err != nil {
			return modelFailedMsg{path: path, err: err}
		}
		return modelLoadedMsg{path: path, model: mdl}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tickMsg:
		m.advance(time.Time(msg))
		return m, tick(m.fps)

	case applyCameraMsg:
		m.applyCamera()
		return m, nil

	case modelLoadedMsg:
		m.loading = ""
		m.modelPath = msg.path
		m.rt.SetModel(msg.model)
		m.setStatus(fmt.Sprintf("loaded %s: %d vertices, %d triangles",
			filepath.Base(msg.path), msg.model.VertexCount(), msg.model.TriangleCount()))
		m.applyCamera()
		return m, nil

	case modelFailedMsg:
		m.loading = ""
		m.logger.Error("model load failed", "path", msg.path, "err", msg.err)
		m.setError(fmt.Sprintf("cannot load %s: %v", filepath.Base(msg.path), msg.err))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusPicker:
			return m.updatePicker(msg)
		case focusControls:
			return m.updateControls(msg)
		}
		return m.updateViewport(msg)
	}

	if m.focus == focusPicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

// advance is the per-frame driver: the framing controller owns the camera
// while a transition runs, orbit inertia applies otherwise.
func (m *Model) advance(now time.Time) {
	if m.ctl.Busy() {
		m.ctl.Tick(now)
		return
	}
	m.rt.Orbit.Update(m.rt.Camera)
}

func (m Model) updateViewport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Focus):
		m.focus = focusControls
	case key.Matches(msg, k.Open):
		m.focus = focusPicker
		return m, m.picker.Init()
	case key.Matches(msg, k.NextCamera):
		m.cycleCamera(1)
	case key.Matches(msg, k.PrevCamera):
		m.cycleCamera(-1)
	case key.Matches(msg, k.ApplyCamera):
		m.applyCamera()
	case key.Matches(msg, k.NextGrid):
		m.gridIdx = (m.gridIdx + 1) % (len(m.grids) + 1)
		m.applyGrid()
	case key.Matches(msg, k.Background):
		bg := &m.rt.Scene.Background
		bg.Custom = !bg.Custom
	case key.Matches(msg, k.OrbitLeft):
		m.orbit(-orbitStep, 0)
	case key.Matches(msg, k.OrbitRight):
		m.orbit(orbitStep, 0)
	case key.Matches(msg, k.OrbitUp):
		m.orbit(0, -orbitStep)
	case key.Matches(msg, k.OrbitDown):
		m.orbit(0, orbitStep)
	case key.Matches(msg, k.ZoomIn):
		m.zoom(1 / zoomStep)
	case key.Matches(msg, k.ZoomOut):
		m.zoom(zoomStep)
	}
	return m, nil
}

// orbit input is dropped while a transition owns the camera.
func (m *Model) orbit(dAz, dPolar float64) {
	if m.ctl.Busy() {
		return
	}
	m.rt.Orbit.Nudge(dAz, dPolar)
}

func (m *Model) zoom(factor float64) {
	if m.ctl.Busy() {
		return
	}
	m.rt.Orbit.Dolly(m.rt.Camera, factor)
}

func (m *Model) cycleCamera(d int) {
	if len(m.cameras) == 0 {
		return
	}
	if m.camIdx < 0 {
		m.camIdx = 0
	} else {
		m.camIdx = (m.camIdx + d + len(m.cameras)) % len(m.cameras)
	}
	m.setStatus("camera: " + m.cameraTitle())
}

// applyCamera frames the current model with the selected camera preset,
// aimed at the model's center.
func (m *Model) applyCamera() {
	name := ""
	if m.camIdx >= 0 && m.camIdx < len(m.cameras) {
		name = m.cameras[m.camIdx]
	}
	target := mgl64.Vec3{}
	if mdl := m.rt.CurrentModel(); mdl != nil {
		target = scene.MeasureExtent(mdl).Center()
	}
	m.rt.Orbit.Stop()
	if err := m.ctl.Apply(name, target); err != nil {
		m.setError(err.Error())
	}
}

func (m *Model) applyGrid() {
	if m.gridIdx >= len(m.grids) {
		m.rt.SetGrid(nil)
		return
	}
	g, ok := m.store.Grid(m.grids[m.gridIdx])
	if !ok {
		m.rt.SetGrid(nil)
		return
	}
	m.rt.SetGrid(&g)
}

func (m Model) updateControls(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	cur := m.controls[m.selected]

	if m.editing {
		switch {
		case key.Matches(msg, k.Commit):
			v, err := cur.parse(m.entry.Value())
			if err != nil {
				m.setError(err.Error())
			} else {
				got := cur.apply(m.rt, v)
				m.setStatus(fmt.Sprintf("%s set to %s", cur.label, cur.format(got)))
			}
			m.stopEditing()
			return m, nil
		case key.Matches(msg, k.Cancel):
			m.stopEditing()
			return m, nil
		}
		var cmd tea.Cmd
		m.entry, cmd = m.entry.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Focus), key.Matches(msg, k.Cancel):
		m.focus = focusViewport
	case key.Matches(msg, k.Up):
		m.selected = (m.selected - 1 + len(m.controls)) % len(m.controls)
	case key.Matches(msg, k.Down):
		m.selected = (m.selected + 1) % len(m.controls)
	case key.Matches(msg, k.Decrease):
		cur.nudge(m.rt, -1)
	case key.Matches(msg, k.Increase):
		cur.nudge(m.rt, 1)
	case msg.Type == tea.KeyRunes && isNumeric(msg.Runes):
		m.editing = true
		m.entry.SetValue("")
		m.entry.Focus()
		var cmd tea.Cmd
		m.entry, cmd = m.entry.Update(msg)
		return m, cmd
	}
	return m, nil
}

func isNumeric(rs []rune) bool {
	for _, r := range rs {
		if (r < '0' || r > '9') && r != '-' && r != '.' {
			return false
		}
	}
	return len(rs) > 0
}

func (m *Model) stopEditing() {
	m.editing = false
	m.entry.Blur()
	m.entry.SetValue("")
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.focus = focusViewport
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.focus = focusViewport
		return m, m.loadModel(path)
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setError(fmt.Sprintf("%s is not a glTF model", filepath.Base(path)))
	}
	return m, cmd
}

func (m *Model) setStatus(s string) { m.status = status{text: s} }

func (m *Model) setError(s string) { m.status = status{text: s, err: true} }

func (m Model) cameraTitle() string {
	if m.camIdx < 0 || m.camIdx >= len(m.cameras) {
		return "none"
	}
	if c, ok := m.store.Camera(m.cameras[m.camIdx]); ok {
		return c.Title()
	}
	return m.cameras[m.camIdx]
}

func (m Model) gridTitle() string {
	if m.gridIdx >= len(m.grids) {
		return "off"
	}
	if g, ok := m.store.Grid(m.grids[m.gridIdx]); ok {
		return g.Title()
	}
	return m.grids[m.gridIdx]
}
