package wizard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/reel/internal/mpris"
)

// PlayerModel is the bubbletea model for the MPRIS player picker.
type PlayerModel struct {
	players  []mpris.Info
	cursor   int
	selected *mpris.Info
	width    int
	height   int
}

// Styles for player picker
var (
	playerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	playerItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	playerSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	playerActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))

	playerInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	playerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// NewPlayerModel creates a new player picker model.
func NewPlayerModel(players []mpris.Info) PlayerModel {
	return PlayerModel{
		players: players,
		width:   80,
		height:  20,
	}
}

// Init initializes the model.
func (m PlayerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if len(m.players) > 0 && m.cursor < len(m.players) {
				m.selected = &m.players[m.cursor]
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < len(m.players)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			if len(m.players) > 0 {
				m.cursor = len(m.players) - 1
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the model.
func (m PlayerModel) View() string {
	var b strings.Builder

	// Title
	b.WriteString(playerTitleStyle.Render("🎬 Select Player"))
	b.WriteString("\n\n")

	if len(m.players) == 0 {
		b.WriteString(playerInactiveStyle.Render("No players found"))
		b.WriteString("\n\n")
		b.WriteString(playerInfoStyle.Render("Start a player that speaks MPRIS, such as VLC or mpv with mpv-mpris."))
	} else {
		for i, p := range m.players {
			var line strings.Builder

			// Status indicator
			if p.Status == "Playing" {
				line.WriteString(playerActiveStyle.Render("● "))
			} else {
				line.WriteString(playerInactiveStyle.Render("○ "))
			}

			name := p.Identity
			if name == "" {
				name = p.ShortName()
			}
			line.WriteString(name)
			line.WriteString(" " + playerInfoStyle.Render("("+p.ShortName()+")"))
			if p.Status != "" {
				line.WriteString(playerInfoStyle.Render(" - " + strings.ToLower(p.Status)))
			}

			// Render with selection style
			if i == m.cursor {
				b.WriteString(playerSelectedStyle.Render("▸ " + line.String()))
			} else {
				b.WriteString(playerItemStyle.Render("  " + line.String()))
			}
			b.WriteString("\n")
		}
	}

	// Help
	b.WriteString("\n")
	b.WriteString(playerInfoStyle.Render("↑/↓ navigate • enter select • esc quit"))
	b.WriteString("\n")
	b.WriteString(playerInfoStyle.Render("● playing  ○ paused or stopped"))

	return b.String()
}

// Selected returns the selected player, or nil if none.
func (m PlayerModel) Selected() *mpris.Info {
	return m.selected
}

// RunPlayerPicker runs the player picker and returns the selected player.
func RunPlayerPicker(players []mpris.Info) (*mpris.Info, error) {
	model := NewPlayerModel(players)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(PlayerModel).Selected(), nil
}
