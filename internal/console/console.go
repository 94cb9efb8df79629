// Package console is the interactive menu loop: it reads a numbered
// command, dispatches it to the session, the coordinator and the
// collaborators, and prints the outcome.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/0x6d61/dorkgen/internal/engine"
	"github.com/0x6d61/dorkgen/internal/logging"
	"github.com/0x6d61/dorkgen/internal/session"
	"github.com/0x6d61/dorkgen/internal/shodan"
	"github.com/0x6d61/dorkgen/internal/store"
	"github.com/0x6d61/dorkgen/internal/tutorial"
)

// Searcher runs one dork against the web search and returns result titles.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// IndexSearcher queries the device index.
type IndexSearcher interface {
	Search(ctx context.Context, apiKey, query string) (*shodan.SearchResult, error)
}

// GeneratorFactory builds the text generator for an API key. An empty key
// means "use the configured one".
type GeneratorFactory func(apiKey string) (engine.TextGenerator, error)

// Deps are the collaborators of an App.
type Deps struct {
	Session     *session.State
	Store       store.Store
	Coordinator *engine.Coordinator

	NewGenerator GeneratorFactory
	// GeneratorService is the credential name holding the generation key.
	GeneratorService string

	Search Searcher

	Index IndexSearcher
	// IndexAPIKey is used when no "Shodan" credential is saved.
	IndexAPIKey string

	Tutorials *tutorial.Renderer
	Logger    *slog.Logger
}

// App is one interactive session bound to an input and an output.
type App struct {
	deps     Deps
	out      io.Writer
	renderer *lipgloss.Renderer
	st       styles
	lines    <-chan string
	done     chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger
}

// errQuit ends the loop normally.
var errQuit = errors.New("quit")

// New creates an App reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if deps.GeneratorService == "" {
		deps.GeneratorService = "Gemini"
	}
	r := lipgloss.NewRenderer(out)
	done := make(chan struct{})
	a := &App{
		deps:     deps,
		out:      out,
		renderer: r,
		st:       newStyles(r),
		lines:    scanLines(in, done),
		done:     done,
		logger:   logger,
	}
	if deps.Coordinator != nil {
		deps.Coordinator.SetProgressCallback(a.showOutcome)
	}
	return a
}

// scanLines feeds input lines to a channel so a blocked read never holds
// up cancellation. The channel is closed at end of input or once done is
// closed.
func scanLines(in io.Reader, done <-chan struct{}) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-done:
				return
			}
		}
	}()
	return ch
}

// stopInput releases the input reader. Safe to call more than once.
func (a *App) stopInput() {
	a.stopOnce.Do(func() { close(a.done) })
}

// Run shows the banner and processes commands until exit, end of input or
// cancellation of ctx. All three end the session normally.
func (a *App) Run(ctx context.Context) error {
	defer a.stopInput()

	fmt.Fprintln(a.out, a.banner())
	a.logger.Info("session started")

	for {
		a.showMenu()
		line, err := a.ask(ctx, "Enter your choice (1-13): ")
		if err == nil {
			err = a.dispatch(ctx, line)
		}

		switch {
		case err == nil:
			if ctx.Err() != nil {
				return a.interrupted()
			}
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			a.farewell()
			return nil
		case ctx.Err() != nil:
			return a.interrupted()
		default:
			return err
		}
	}
}

func (a *App) dispatch(ctx context.Context, line string) error {
	cmd, err := ParseCommand(line)
	if err != nil {
		a.fail("Invalid choice. Please select a valid option.")
		a.logger.Warn("invalid menu choice", "input", strings.TrimSpace(line))
		return nil
	}

	switch cmd {
	case CmdGenerate:
		return a.generate(ctx)
	case CmdView:
		a.viewGenerated()
	case CmdSave:
		return a.saveText(ctx)
	case CmdClear:
		a.clear()
	case CmdFilter:
		return a.filter(ctx)
	case CmdCustom:
		return a.custom(ctx)
	case CmdSearch:
		a.search(ctx)
	case CmdIndexSearch:
		return a.indexSearch(ctx)
	case CmdCredentials:
		return a.credentials(ctx)
	case CmdExport:
		return a.export(ctx)
	case CmdTutorials:
		return a.tutorials(ctx)
	case CmdViewStored:
		a.viewStored(ctx)
	case CmdExit:
		return errQuit
	}
	return nil
}

// ---------------------------------------------------------------------------
// I/O helpers
// ---------------------------------------------------------------------------

// ask prints prompt and waits for one trimmed line.
func (a *App) ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(a.out, a.st.prompt.Render(prompt))
	select {
	case line, ok := <-a.lines:
		if !ok {
			fmt.Fprintln(a.out)
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	case <-ctx.Done():
		fmt.Fprintln(a.out)
		return "", ctx.Err()
	}
}

func (a *App) showMenu() {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, a.st.heading.Render("Main Menu:"))
	for c := CmdGenerate; c <= CmdExit; c++ {
		fmt.Fprintln(a.out, a.st.item.Render(fmt.Sprintf("%d. %s", int(c), c)))
	}
}

func (a *App) heading(s string) {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, a.st.heading.Render(s))
}

func (a *App) success(format string, args ...any) {
	fmt.Fprintln(a.out, a.st.ok.Render(fmt.Sprintf(format, args...)))
}

func (a *App) fail(format string, args ...any) {
	fmt.Fprintln(a.out, a.st.err.Render(fmt.Sprintf(format, args...)))
}

func (a *App) farewell() {
	fmt.Fprintln(a.out, a.st.err.Render("Exiting the Program.........."))
	fmt.Fprintln(a.out, a.st.ok.Render("Thank You for using the Google Dorks Generator"))
	a.logger.Info("program exited by user")
}

func (a *App) interrupted() error {
	fmt.Fprintln(a.out, a.st.err.Render("Interrupted."))
	fmt.Fprintln(a.out, a.st.ok.Render("Thank You for using the Google Dorks Generator"))
	a.logger.Info("program interrupted")
	return nil
}
