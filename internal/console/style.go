package console

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorBlue    = lipgloss.Color("#5F87FF")
	colorYellow  = lipgloss.Color("#FFD700")
	colorCyan    = lipgloss.Color("#00D4AA")
	colorGreen   = lipgloss.Color("#00C832")
	colorRed     = lipgloss.Color("#FF5F5F")
	colorMagenta = lipgloss.Color("#D75FD7")
)

// styles are bound to the output's renderer so colour is dropped when the
// output is not a terminal.
type styles struct {
	heading lipgloss.Style
	item    lipgloss.Style
	prompt  lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	banner  lipgloss.Style
	credit  lipgloss.Style
	border  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().Foreground(colorBlue).Bold(true),
		item:    r.NewStyle().Foreground(colorYellow),
		prompt:  r.NewStyle().Foreground(colorCyan),
		ok:      r.NewStyle().Foreground(colorGreen),
		err:     r.NewStyle().Foreground(colorRed),
		info:    r.NewStyle().Foreground(colorCyan),
		banner: r.NewStyle().
			Foreground(colorGreen).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorCyan).
			Padding(0, 2).
			Align(lipgloss.Center),
		credit: r.NewStyle().Foreground(colorMagenta),
		border: r.NewStyle().Foreground(colorCyan),
	}
}

const bannerArt = `   ______                   __        ____             __
  / ____/___  ____  ____ _/ /__     / __ \____  _____/ /_______
 / / __/ __ \/ __ \/ __ '/ / _ \   / / / / __ \/ ___/ //_/ ___/
/ /_/ / /_/ / /_/ / /_/ / /  __/  / /_/ / /_/ / /  / ,< (__  )
\____/\____/\____/\__, /_/\___/  /_____/\____/_/  /_/|_/____/
                 /____/`

func (a *App) banner() string {
	title := strings.Join([]string{
		bannerArt,
		"",
		"Welcome to the Ultimate Google Dorks Generator",
	}, "\n")
	return a.st.banner.Render(title) + "\n" + a.st.credit.Render("session "+a.deps.Session.ID) + "\n"
}

// table renders rows under headers with the console's border colour.
func (a *App) table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(a.st.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := a.renderer.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Bold(true).Foreground(colorYellow)
			case col == 0:
				return s.Foreground(colorYellow)
			default:
				return s.Foreground(colorCyan)
			}
		})
	return t.String()
}

// numbered renders dorks as an index/dork table.
func (a *App) numbered(title string, dorks []string) string {
	rows := make([][]string, len(dorks))
	for i, d := range dorks {
		rows[i] = []string{strconv.Itoa(i + 1), d}
	}
	return a.table([]string{"Index", title}, rows)
}
