package terminal

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const bannerWidth = 60

var bannerHelp = []string{
	"Type 'quit', 'exit', or 'bye' to end the conversation",
	"Type 'history' to see recent chat history",
	"Type 'clear' to clear the screen",
}

// Screen dibuja el encabezado y limpia la terminal.
// Sin TTY el perfil es ASCII y el texto sale sin secuencias de color.
type Screen struct {
	out   io.Writer
	term  *termenv.Output
	title lipgloss.Style
	rule  lipgloss.Style
	hint  lipgloss.Style
}

func NewScreen(out io.Writer) *Screen {
	renderer := lipgloss.NewRenderer(out)
	return &Screen{
		out:   out,
		term:  termenv.NewOutput(out),
		title: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		rule:  renderer.NewStyle().Foreground(lipgloss.Color("8")),
		hint:  renderer.NewStyle().Faint(true),
	}
}

func (s *Screen) Banner() {
	heavy := strings.Repeat("=", bannerWidth)
	lines := []string{
		s.rule.Render(heavy),
		s.title.Render("🤖 WELCOME TO TERMINAL CHATBOT CLIENT 🤖"),
		s.rule.Render(heavy),
	}
	for _, h := range bannerHelp {
		lines = append(lines, s.hint.Render(h))
	}
	lines = append(lines, s.rule.Render(strings.Repeat("-", bannerWidth)))
	io.WriteString(s.out, strings.Join(lines, "\n")+"\n")
}

// Clear borra la pantalla y deja el cursor arriba a la izquierda.
func (s *Screen) Clear() {
	s.term.ClearScreen()
}
