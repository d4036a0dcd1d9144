package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/reel/internal/carousel"
	"github.com/ensigniasec/reel/internal/config"
	"github.com/ensigniasec/reel/internal/source"
)

// Options configures a picker session.
type Options struct {
	Title string
	// Source is shown directly when Load is nil.
	Source source.Source
	// Load opens the source asynchronously; it is called again on reload.
	Load func(ctx context.Context) (source.Source, error)
	// WatchPath, when set, reloads the source whenever it changes on disk.
	WatchPath string
	// Start is the index centered once the source is loaded.
	Start  int
	Config *config.Config
	Logger logrus.FieldLogger
}

// Choice is the item centered when the session ended.
type Choice struct {
	Index int    `json:"index"`
	Item  string `json:"item"`
}

type mode int

const (
	modeBrowse mode = iota
	modeJump
	modeSearch
)

type dragState struct {
	active bool
	lastY  int
	moved  bool
	target uuid.UUID
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	opts Options
	cfg  *config.Config

	board *board
	view  *carousel.View[uuid.UUID]
	zone  *zone.Manager

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	jump     textinput.Model
	search   list.Model

	mode    mode
	loading bool
	loadErr error
	width   int
	height  int

	frameInterval time.Duration
	ticking       bool
	lastFrame     time.Time
	drag          dragState
	hasTarget     bool
	targetIndex   int

	status   string
	statusAt time.Time
	statusCh chan string
	reloadCh chan struct{}

	chosen   bool
	quitting bool
}

// NewModel constructs a Model with initial state.
func NewModel(ctx context.Context, opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	curves, err := cfg.CurveSet()
	if err != nil {
		return Model{}, err
	}
	viewOpts, err := cfg.ViewOptions()
	if err != nil {
		return Model{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	viewOpts = append(viewOpts, carousel.WithLogger(logger))

	rows := cfg.UI.Height
	if rows <= 0 {
		rows = minCanvasRows
	}
	b := newBoard(cfg.UI.Width, rows, cfg.UI.RowPixels)
	view, err := carousel.New[uuid.UUID](b, curves, viewOpts...)
	if err != nil {
		return Model{}, err
	}

	jump := textinput.New()
	jump.Prompt = "jump to: "
	jump.Placeholder = "index"
	jump.CharLimit = jumpCharLimit

	search := list.New(nil, searchDelegate{}, cfg.UI.Width, searchMinRows)
	search.Title = "Search"
	search.SetShowHelp(false)
	search.SetShowStatusBar(true)
	search.SetFilteringEnabled(true)
	search.DisableQuitKeybindings()

	return Model{
		ctx:           ctx,
		opts:          opts,
		cfg:           cfg,
		board:         b,
		view:          view,
		zone:          zone.New(),
		keys:          newKeyMap(),
		help:          help.New(),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(cfg.UI.Width), progress.WithoutPercentage()),
		jump:          jump,
		search:        search,
		loading:       true,
		frameInterval: time.Second / time.Duration(cfg.UI.FPS),
		statusCh:      make(chan string, statusBufferSize),
		reloadCh:      make(chan struct{}, reloadBufferSize),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.load(false),
		m.listenForStatus(),
		m.listenForReload(),
	)
}

// Close releases the carousel pool and the zone manager.
func (m Model) Close() {
	m.view.Close()
	m.zone.Close()
}

// Choice returns the centered item and whether the user chose it.
func (m Model) Choice() (Choice, bool) {
	idx := m.view.CenterIndex()
	return Choice{Index: idx, Item: m.board.item(idx)}, m.chosen
}

// Position returns the centered index. ok is false until the source has
// loaded, when there is no position to report.
func (m Model) Position() (int, bool) {
	if !m.ready() {
		return 0, false
	}
	return m.view.CenterIndex(), true
}

// load opens the source off the update loop.
func (m Model) load(reload bool) tea.Cmd {
	ctx, opts := m.ctx, m.opts
	return func() tea.Msg {
		if opts.Load == nil {
			if opts.Source == nil {
				return loadedMsg{Err: errNoSource, Reload: reload}
			}
			return loadedMsg{Source: opts.Source, Reload: reload}
		}
		src, err := opts.Load(ctx)
		return loadedMsg{Source: src, Err: err, Reload: reload}
	}
}

// listenForStatus returns a Tea command that waits for a status line.
func (m Model) listenForStatus() tea.Cmd {
	return func() tea.Msg {
		return statusMsg{Text: <-m.statusCh}
	}
}

// listenForReload returns a Tea command that waits for a source change.
func (m Model) listenForReload() tea.Cmd {
	return func() tea.Msg {
		<-m.reloadCh
		return reloadMsg{}
	}
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// notifyReload queues a reload without blocking the watcher.
func (m Model) notifyReload() {
	select {
	case m.reloadCh <- struct{}{}:
	default:
	}
}
