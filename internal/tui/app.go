package tui

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/reel/internal/controller"
	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/present"
	"github.com/tessro/reel/internal/tui/components"
	"github.com/tessro/reel/internal/tui/styles"
)

// barRows is the transport bar plus the help line.
const barRows = 2

// Options configures the transport bar UI.
type Options struct {
	Title           string
	RefreshInterval time.Duration
	SeekStep        float64 // percent
	VolumeStep      float64 // [0,1]
	Theme           string

	// Done, when closed, ends the UI; adapters close it when the media
	// goes away.
	Done <-chan struct{}

	Controller controller.Options
}

// Model is the main TUI model
type Model struct {
	ctrl    *controller.Controller
	opts    Options
	keys    keyMap
	help    help.Model
	bar     *components.TransportBar
	surface *components.Surface

	width  int
	height int

	mounted  bool
	gone     bool
	quitting bool
}

// NewModel creates a new TUI model around ctrl. ctrl must run its
// callbacks through the program the model is used in.
func NewModel(ctrl *controller.Controller, opts Options) Model {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 250 * time.Millisecond
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = 5
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = 0.05
	}

	return Model{
		ctrl:    ctrl,
		opts:    opts,
		keys:    newKeyMap(),
		help:    help.New(),
		bar:     components.NewTransportBar(),
		surface: components.NewSurface(),
	}
}

// Messages
type tickMsg time.Time
type mountMsg struct{}
type mediaGoneMsg struct{}

// runMsg carries a controller callback onto the update goroutine.
type runMsg func()

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) watchDone() tea.Cmd {
	if m.opts.Done == nil {
		return nil
	}
	done := m.opts.Done
	return func() tea.Msg {
		<-done
		return mediaGoneMsg{}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return mountMsg{} },
		m.tick(),
		m.watchDone(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case mountMsg:
		m.ctrl.Mount()
		m.mounted = true
		return m, nil

	case runMsg:
		msg()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		// The readout shows the media's own position, so redraw on a timer
		// even when no event arrived.
		return m, m.tick()

	case mediaGoneMsg:
		m.gone = true
		return m.quit()
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Unmount()
	m.quitting = true
	return m, tea.Quit
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if !m.mounted {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.playPause):
		m.ctrl.Dispatch(controller.Intent{Kind: controller.IntentTogglePlay})
	case key.Matches(msg, m.keys.seekBack):
		m.ctrl.Dispatch(controller.Intent{Kind: controller.IntentSeekBy, Value: -m.opts.SeekStep})
	case key.Matches(msg, m.keys.seekForward):
		m.ctrl.Dispatch(controller.Intent{Kind: controller.IntentSeekBy, Value: m.opts.SeekStep})
	case key.Matches(msg, m.keys.volumeUp):
		m.ctrl.Dispatch(controller.Intent{Kind: controller.IntentAdjustVolume, Value: m.opts.VolumeStep})
	case key.Matches(msg, m.keys.volumeDown):
		m.ctrl.Dispatch(controller.Intent{Kind: controller.IntentAdjustVolume, Value: -m.opts.VolumeStep})
	case key.Matches(msg, m.keys.mute):
		m.ctrl.Dispatch(controller.Intent{Kind: controller.IntentToggleMute})
	case key.Matches(msg, m.keys.fullscreen):
		m.ctrl.Dispatch(controller.Intent{Kind: controller.IntentToggleFullscreen})
	case key.Matches(msg, m.keys.exitFullscreen):
		m.ctrl.Dispatch(controller.Intent{Kind: controller.IntentExitFullscreen})
	case key.Matches(msg, m.keys.resync):
		m.ctrl.Resync()
	}
	return m, nil
}

// handleMouse routes left clicks. Clicks above the bar hit the surface;
// clicks on the bar are consumed by the control under the pointer.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if !m.mounted || msg.Action != tea.MouseActionPress {
		return m
	}

	intent, ok := m.intentAt(msg)
	if ok {
		m.ctrl.Dispatch(intent)
	}
	return m
}

// intentAt maps a mouse event to the intent it expresses.
func (m Model) intentAt(msg tea.MouseMsg) (controller.Intent, bool) {
	barRow := m.height - barRows
	state := m.ctrl.State()

	switch {
	case msg.Y < barRow:
		if msg.Button != tea.MouseButtonLeft {
			return controller.Intent{}, false
		}
		return controller.Intent{Kind: controller.IntentSurfaceClick}, true
	case msg.Y > barRow:
		return controller.Intent{}, false
	}

	_, layout := m.bar.Render(state, m.ctrl.Position(), m.width)
	region, span, offset := layout.Hit(msg.X)

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if region != components.RegionVolume {
			return controller.Intent{}, false
		}
		step := m.opts.VolumeStep
		if msg.Button == tea.MouseButtonWheelDown {
			step = -step
		}
		return controller.Intent{Kind: controller.IntentAdjustVolume, Value: step}, true
	case tea.MouseButtonLeft:
	default:
		return controller.Intent{}, false
	}

	switch region {
	case components.RegionPlay:
		return controller.Intent{Kind: controller.IntentTogglePlay}, true
	case components.RegionSeek:
		return controller.Intent{Kind: controller.IntentSeek, Value: present.FractionAt(offset, span.Width)}, true
	case components.RegionMute:
		return controller.Intent{Kind: controller.IntentToggleMute}, true
	case components.RegionVolume:
		// Volume moves in steps of 0.01.
		v := math.Round(present.FractionAt(offset, span.Width)) / 100
		return controller.Intent{Kind: controller.IntentSetVolume, Value: v}, true
	case components.RegionFullscreen:
		return controller.Intent{Kind: controller.IntentToggleFullscreen}, true
	}
	return controller.Intent{}, false
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	state := m.ctrl.State()
	barLine, _ := m.bar.Render(state, m.ctrl.Position(), m.width)

	surfaceHeight := m.height - barRows

	var surface string
	if m.help.ShowAll {
		full := m.help.FullHelpView(m.keys.FullHelp())
		surface = lipgloss.Place(m.width, surfaceHeight, lipgloss.Center, lipgloss.Center,
			styles.BorderStyle.Padding(0, 1).Render(full))
	} else {
		surface = m.surface.Render(m.opts.Title, state, m.width, surfaceHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		surface,
		barLine,
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)
}

// Run starts the TUI for media shown on platform and blocks until the user
// quits, the media goes away or ctx is done.
func Run(ctx context.Context, media core.Media, platform core.Platform, opts Options) error {
	styles.ApplyTheme(opts.Theme)

	// Callbacks only arrive after Mount, which runs inside p.Run.
	var p *tea.Program
	ctrlOpts := opts.Controller
	ctrlOpts.Executor = func(fn func()) { p.Send(runMsg(fn)) }
	ctrl := controller.New(media, platform, ctrlOpts)

	p = tea.NewProgram(NewModel(ctrl, opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	ctrl.Unmount()
	return err
}
