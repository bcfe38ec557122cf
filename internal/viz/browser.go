package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/framesim/internal/storage"
)

var fields = []storage.Field{storage.Moment, storage.Shear, storage.Normal}

// Browser steps through the elements of a stored run.
type Browser struct {
	title   string
	result  *storage.Result
	cursor  int
	field   int
	amplify float64
	theme   int
	width   int
	height  int
}

func NewBrowser(title string, r *storage.Result) Browser {
	return Browser{
		title:   title,
		result:  r,
		amplify: AutoAmplification(r),
		theme:   themeIndex(CurrentTheme.Name),
		width:   80,
		height:  24,
	}
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
		case "down", "j":
			if b.cursor < len(b.result.Elements)-1 {
				b.cursor++
			}
		case "tab":
			b.field = (b.field + 1) % len(fields)
		case "+", "=":
			b.amplify *= 2
		case "-":
			b.amplify /= 2
		case "t":
			b.theme = (b.theme + 1) % len(Themes)
		}
	}
	return b, nil
}

func (b Browser) Cursor() int { return b.cursor }

func (b Browser) Field() storage.Field { return fields[b.field] }

func (b Browser) Theme() Theme { return Themes[b.theme] }

func (b Browser) View() string {
	th := b.Theme()
	field := b.Field()
	var s strings.Builder

	head := lipgloss.NewStyle().Foreground(th.Primary).Bold(true)
	s.WriteString("\n  " + head.Render(strings.ToUpper(b.title)) + "  " +
		Subtle.Render(fmt.Sprintf("%d nodes, %d elements", len(b.result.Nodes), len(b.result.Elements))) + "\n\n")

	peak := 0.0
	for i := range b.result.Elements {
		for _, v := range b.result.Elements[i].Values(field) {
			peak = max(peak, abs(v))
		}
	}

	list := &strings.Builder{}
	for i := range b.result.Elements {
		e := &b.result.Elements[i]
		name := fmt.Sprintf("%-3d %-4s", e.Index, e.Kind)
		if i == b.cursor {
			list.WriteString(lipgloss.NewStyle().Foreground(th.Accent).Bold(true).Render("▸ ") + Selected.Render(name))
		} else {
			list.WriteString("  " + Subtle.Render(name))
		}
		list.WriteString(" " + Sparkline(e.Values(field), peak) + "\n")
	}

	canvasW := max(b.width/2-4, 10)
	canvas := NewCanvas(canvasW, max(canvasW/4, 6))
	DrawFrame(canvas, b.result, b.amplify)
	shape := lipgloss.NewStyle().Foreground(th.Deformed).Render(canvas.String())

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		Panel.Render(strings.TrimRight(list.String(), "\n")),
		Panel.Render(shape),
	))
	s.WriteString("\n")

	if len(b.result.Elements) > 0 {
		e := &b.result.Elements[b.cursor]
		graph := Diagram(e, field, max(b.width-20, 20), 8)
		s.WriteString(lipgloss.NewStyle().Foreground(th.FieldColor(field.String())).Render(graph) + "\n")
		s.WriteString("  " + MetricLabel.Render("peak "+field.String()) + " " + MetricValue.Render(fmt.Sprintf("%.4g", peak)) +
			"  " + MetricLabel.Render("amplification") + " " + MetricValue.Render(fmt.Sprintf("%.3g", b.amplify)) + "\n")
	}

	s.WriteString("\n  " + KeyHints("j/k", "element", "tab", "field", "+/-", "amplify", "t", "theme", "q", "quit") + "\n")
	return s.String()
}

// RunBrowser opens the browser on the alternate screen.
func RunBrowser(title string, r *storage.Result) error {
	_, err := tea.NewProgram(NewBrowser(title, r), tea.WithAltScreen()).Run()
	return err
}
