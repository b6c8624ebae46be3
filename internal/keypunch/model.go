package keypunch

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const boxWidth = 90

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(1, 2).
			Width(boxWidth)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	counterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("13"))
	typedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	mistakeStyle  = lipgloss.NewStyle().Background(lipgloss.Color("1"))
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("14"))
	previousStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("2"))
	upcomingStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("5"))
	helpKeyStyle  = lipgloss.NewStyle().Bold(true)
)

var helpEntries = []struct {
	key, desc string
	color     lipgloss.Color
}{
	{"<Esc>", "Quit", "2"},
	{"<Tab>", "Clear", "3"},
	{"<Up>", "Last", "1"},
	{"<Down>", "Next", "6"},
}

// Model is the bubbletea model driving a Session.
type Model struct {
	session       *Session
	width, height int
}

// NewModel wraps s for use with tea.NewProgram.
func NewModel(s *Session) Model {
	return Model{session: s}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyUp:
			m.session.Previous()
		case tea.KeyDown:
			m.session.Skip()
		case tea.KeyTab:
			m.session.Clear()
		case tea.KeyBackspace:
			m.session.Backspace()
		case tea.KeyLeft:
			m.session.Back()
		case tea.KeyRight:
			m.session.Hint()
		case tea.KeySpace:
			m.session.Type(' ')
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				m.session.Type(r)
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	s := m.session

	title := " " + nameStyle.Render(s.Name()) + " " +
		counterStyle.Render(fmt.Sprintf("[%d/%d]", s.Number(), s.Total()))

	var lines []string
	if prev, ok := s.PreviousParagraph(); ok {
		lines = append(lines, previousStyle.Render(prev))
	}
	lines = append(lines, "", renderTarget(s.Target(), s.Input()), "")
	if next, ok := s.NextParagraph(); ok {
		lines = append(lines, upcomingStyle.Render(next))
	}

	help := make([]string, 0, len(helpEntries))
	for _, e := range helpEntries {
		style := lipgloss.NewStyle().Foreground(e.color)
		help = append(help, helpKeyStyle.Inherit(style).Render(e.key)+style.Render(": "+e.desc))
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		title,
		frameStyle.Render(strings.Join(lines, "\n")),
		lipgloss.PlaceHorizontal(boxWidth, lipgloss.Center, strings.Join(help, ", ")),
	)
	if m.width == 0 || m.height == 0 {
		return view
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}

// renderTarget colors typed characters by correctness and marks the cursor.
func renderTarget(target, input []rune) string {
	var b strings.Builder
	for i, r := range target {
		ch := string(r)
		switch {
		case i < len(input) && input[i] == r:
			b.WriteString(typedStyle.Render(ch))
		case i < len(input):
			b.WriteString(mistakeStyle.Render(ch))
		case i == len(input):
			b.WriteString(cursorStyle.Render(ch))
		default:
			b.WriteString(ch)
		}
	}
	return b.String()
}
