package console

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/0x6d61/dorkgen/internal/engine"
	"github.com/0x6d61/dorkgen/internal/export"
	"github.com/0x6d61/dorkgen/internal/tutorial"
)

// ---------------------------------------------------------------------------
// 1. Generate
// ---------------------------------------------------------------------------

func (a *App) generate(ctx context.Context) error {
	a.heading(fmt.Sprintf("Please Select your choice (you can select multiple like 1, 3, 5; %d to start generating):", stopSelecting))
	rows := make([][]string, 0, stopSelecting)
	for i, cat := range engine.Catalog {
		rows = append(rows, []string{strconv.Itoa(i + 1), string(cat)})
	}
	rows = append(rows, []string{strconv.Itoa(stopSelecting), "Exit"})
	fmt.Fprintln(a.out, a.table([]string{"Index", "Choice"}, rows))

	if err := a.selectInterests(ctx); err != nil {
		return err
	}
	a.runBatch(ctx)
	return nil
}

// selectInterests reads selection lines until one of them contains the
// stop index. Each valid line is applied left to right; an invalid line is
// rejected whole.
func (a *App) selectInterests(ctx context.Context) error {
	for {
		line, err := a.ask(ctx, "Enter the Choice (you can choose multiple like 1, 3, 5): ")
		if err != nil {
			return err
		}
		indices, invalid := parseSelection(line)
		if len(invalid) > 0 {
			a.fail("Invalid Choices: %s", strings.Join(invalid, ", "))
			a.logger.Warn("invalid selection", "input", line)
			continue
		}

		for _, idx := range indices {
			if idx == stopSelecting {
				a.logger.Info("selection finished", "selected", len(a.deps.Session.Selected()))
				return nil
			}
			cat, err := a.deps.Session.SelectInterest(idx)
			switch {
			case errors.Is(err, engine.ErrAlreadySelected):
				a.fail("You have already selected %s", cat)
			case err != nil:
				a.fail("%v", err)
			default:
				a.success("You selected %s", cat)
				a.logger.Info("interest selected", "category", string(cat))
			}
		}
	}
}

func (a *App) runBatch(ctx context.Context) {
	selected := a.deps.Session.Selected()
	if len(selected) == 0 {
		a.fail("No choices selected. Please select at least one choice.")
		return
	}

	key, _ := a.deps.Session.Credential(a.deps.GeneratorService)
	gen, err := a.deps.NewGenerator(key)
	if err != nil {
		a.fail("Cannot generate dorks: %v", err)
		a.logger.Error("generator unavailable", "service", a.deps.GeneratorService, "error", err)
		return
	}

	a.success("\nGenerating Google Dorks using %s...", a.deps.GeneratorService)
	results := a.deps.Coordinator.GenerateForSelections(ctx, selected,
		engine.LLMGenerator(gen, a.deps.Coordinator.BatchSize()))
	a.logger.Info("generation batch finished",
		"requested", len(selected),
		"succeeded", results.Len(),
		"dorks", results.Total(),
	)
}

// showOutcome is the coordinator's progress callback.
func (a *App) showOutcome(o engine.Outcome) {
	if o.Err != nil {
		cause := o.Err
		var ce *engine.CategoryError
		if errors.As(o.Err, &ce) {
			cause = ce.Err
		}
		a.fail("Error generating dorks for '%s': %v", o.Category, cause)
		return
	}
	fmt.Fprintln(a.out, a.st.item.Render(fmt.Sprintf("\nGenerated Dorks for '%s':", o.Category)))
	fmt.Fprintln(a.out, a.numbered("Generated Google Dorks", o.Dorks))
	for _, err := range o.StoreErrors {
		a.fail("Error saving dork to database: %v", err)
	}
}

// ---------------------------------------------------------------------------
// 2. View, 3. Save, 4. Clear
// ---------------------------------------------------------------------------

func (a *App) viewGenerated() {
	results := a.deps.Session.Results()
	if results.Len() == 0 {
		a.fail("No dorks have been generated yet.")
		return
	}
	a.success("\nViewing Generated Dorks:")
	for _, cat := range results.Categories() {
		dorks, _ := results.Get(cat)
		fmt.Fprintln(a.out, a.st.item.Render(fmt.Sprintf("\nGenerated Dorks for '%s':", cat)))
		fmt.Fprintln(a.out, a.numbered("Generated Google Dorks", dorks))
	}
}

func (a *App) saveText(ctx context.Context) error {
	results := a.deps.Session.Results()
	if results.Len() == 0 {
		a.fail("No dorks have been generated yet.")
		return nil
	}
	name, err := a.ask(ctx, "Enter the filename to save the dorks (e.g., dorks.txt): ")
	if err != nil {
		return err
	}
	if name == "" {
		a.fail("Filename cannot be empty.")
		a.logger.Warn("save skipped", "error", engine.ErrInvalidInput)
		return nil
	}
	if err := export.WriteFile(ctx, name, &export.TextExporter{}, results); err != nil {
		a.fail("Error saving dorks to file: %v", err)
		a.logger.Error("error saving dorks to file", "path", name, "error", err)
		return nil
	}
	a.success("Dorks saved to '%s' successfully.", name)
	a.logger.Info("dorks saved to file", "path", name)
	return nil
}

func (a *App) clear() {
	a.deps.Session.Clear()
	a.success("Selections and generated dorks cleared.")
	a.logger.Info("selections and generated dorks cleared")
}

// ---------------------------------------------------------------------------
// 5. Advanced filtering
// ---------------------------------------------------------------------------

var filters = []struct {
	label  string
	prompt string
	noun   string
}{
	{"Domain", "Enter the domain (e.g., example.com): ", "Domain"},
	{"File Type", "Enter the file type (e.g., pdf, doc): ", "File type"},
	{"Date Range", "Enter the date range (e.g., 2023-01-01..2023-12-31): ", "Date range"},
}

func (a *App) filter(ctx context.Context) error {
	a.heading("Advanced Filtering Options:")
	for i, f := range filters {
		fmt.Fprintln(a.out, a.st.item.Render(fmt.Sprintf("%d. %s Filtering", i+1, f.label)))
	}
	n, ok, err := a.askIndex(ctx, len(filters))
	if err != nil || !ok {
		return err
	}
	f := filters[n-1]

	value, err := a.ask(ctx, f.prompt)
	if err != nil {
		return err
	}
	var label engine.Category
	if value != "" {
		label = engine.Category(f.label + ": " + value)
	}
	switch err := a.deps.Session.AddFilter(label); {
	case errors.Is(err, engine.ErrInvalidInput):
		a.fail("A value is required.")
		a.logger.Warn("empty filter value", "filter", f.label)
	case errors.Is(err, engine.ErrAlreadySelected):
		a.fail("You have already selected %s", label)
	case err != nil:
		a.fail("%v", err)
	default:
		a.success("%s '%s' added to filters.", f.noun, value)
		a.logger.Info("filter added", "filter", f.label, "value", value)
	}
	return nil
}

// askIndex reads a sub-menu choice in 1..n. ok is false (and the user told
// so) when the answer is not a valid index.
func (a *App) askIndex(ctx context.Context, n int) (idx int, ok bool, err error) {
	line, err := a.ask(ctx, fmt.Sprintf("Enter your choice (1-%d): ", n))
	if err != nil {
		return 0, false, err
	}
	idx, convErr := strconv.Atoi(line)
	if convErr != nil || idx < 1 || idx > n {
		a.fail("Invalid choice.")
		a.logger.Warn("invalid sub-menu choice", "input", line)
		return 0, false, nil
	}
	return idx, true, nil
}

// ---------------------------------------------------------------------------
// 6. Custom generation
// ---------------------------------------------------------------------------

func (a *App) custom(ctx context.Context) error {
	a.heading("Custom Dork Generation:")
	kw, err := a.ask(ctx, "Enter custom keywords (comma-separated): ")
	if err != nil {
		return err
	}
	ops, err := a.ask(ctx, "Enter custom operators (comma-separated, e.g., site:, intitle:): ")
	if err != nil {
		return err
	}

	dorks, err := a.deps.Coordinator.GenerateCustom(ctx, splitList(kw), splitList(ops))
	if err != nil {
		a.fail("Keywords and operators are required.")
		a.logger.Warn("custom dork generation failed", "error", err)
		return nil
	}
	fmt.Fprintln(a.out, a.st.item.Render("\nGenerated Custom Dorks:"))
	fmt.Fprintln(a.out, a.numbered("Custom Google Dorks", dorks))
	return nil
}

// ---------------------------------------------------------------------------
// 7. Automated search, 8. Index search
// ---------------------------------------------------------------------------

func (a *App) search(ctx context.Context) {
	results := a.deps.Session.Results()
	if results.Len() == 0 {
		a.fail("No dorks have been generated yet.")
		return
	}
	for _, cat := range results.Categories() {
		a.success("\nSearching for '%s':", cat)
		dorks, _ := results.Get(cat)
		for _, dork := range dorks {
			if ctx.Err() != nil {
				return
			}
			fmt.Fprintln(a.out, a.st.item.Render("Searching for: "+dork))
			titles, err := a.deps.Search.Search(ctx, dork)
			if err != nil {
				a.fail("Error searching for '%s': %v", dork, err)
				a.logger.Error("search failed", "dork", dork, "error", err)
				continue
			}
			for _, t := range titles {
				fmt.Fprintln(a.out, a.st.info.Render(t))
			}
			a.logger.Info("automated search completed", "dork", dork, "titles", len(titles))
		}
	}
}

func (a *App) indexSearch(ctx context.Context) error {
	a.heading("Shodan Integration:")
	query, err := a.ask(ctx, "Enter your Shodan query (e.g., 'apache'): ")
	if err != nil {
		return err
	}
	if query == "" {
		a.fail("Query cannot be empty.")
		a.logger.Warn("shodan query cannot be empty")
		return nil
	}

	key, ok := a.deps.Session.Credential("Shodan")
	if !ok {
		key = a.deps.IndexAPIKey
	}
	res, err := a.deps.Index.Search(ctx, key, query)
	if err != nil {
		a.fail("Shodan API Error: %v", err)
		a.logger.Error("shodan search failed", "query", query, "error", err)
		return nil
	}

	a.success("Total results found: %d", res.Total)
	for _, m := range res.Matches {
		fmt.Fprintln(a.out, a.st.item.Render("IP: "+m.IPStr))
		fmt.Fprintln(a.out, a.st.info.Render("Data: "+m.Data))
		fmt.Fprintln(a.out)
	}
	a.logger.Info("shodan search completed", "query", query, "total", res.Total)
	return nil
}

// ---------------------------------------------------------------------------
// 9. Credentials
// ---------------------------------------------------------------------------

func (a *App) credentials(ctx context.Context) error {
	a.heading("API Keys:")
	fmt.Fprintln(a.out, a.st.item.Render("1. Save API Key"))
	fmt.Fprintln(a.out, a.st.item.Render("2. View Saved API Keys"))
	n, ok, err := a.askIndex(ctx, 2)
	if err != nil || !ok {
		return err
	}

	if n == 2 {
		saved := a.deps.Session.Credentials()
		if len(saved) == 0 {
			a.fail("No API keys saved yet.")
			return nil
		}
		rows := make([][]string, 0, len(saved))
		for _, service := range slices.Sorted(maps.Keys(saved)) {
			rows = append(rows, []string{service, maskKey(saved[service])})
		}
		a.success("\nSaved API Keys:")
		fmt.Fprintln(a.out, a.table([]string{"Service", "Key"}, rows))
		a.logger.Info("saved API keys viewed", "count", len(saved))
		return nil
	}

	service, err := a.ask(ctx, "Enter the service name (e.g., Gemini, Shodan): ")
	if err != nil {
		return err
	}
	key, err := a.ask(ctx, "Enter the API key: ")
	if err != nil {
		return err
	}
	if service == "" || key == "" {
		a.fail("Service name and API key are required.")
		a.logger.Warn("API key not saved", "error", engine.ErrInvalidInput)
		return nil
	}
	a.deps.Session.SetCredential(service, key)
	a.success("API key for '%s' saved successfully.", service)
	a.logger.Info("API key saved", "service", service)
	return nil
}

// ---------------------------------------------------------------------------
// 10. Structured export
// ---------------------------------------------------------------------------

var exportChoices = []struct {
	label   string
	format  string
	example string
}{
	{"Export to CSV", "csv", "dorks.csv"},
	{"Export to JSON", "json", "dorks.json"},
	{"Export to Excel", "xlsx", "dorks.xlsx"},
}

func (a *App) export(ctx context.Context) error {
	a.heading("Enhanced Output Options:")
	for i, c := range exportChoices {
		fmt.Fprintln(a.out, a.st.item.Render(fmt.Sprintf("%d. %s", i+1, c.label)))
	}
	n, ok, err := a.askIndex(ctx, len(exportChoices))
	if err != nil || !ok {
		return err
	}
	choice := exportChoices[n-1]

	name, err := a.ask(ctx, fmt.Sprintf("Enter the filename (e.g., %s): ", choice.example))
	if err != nil {
		return err
	}
	if name == "" {
		a.fail("Filename cannot be empty.")
		a.logger.Warn("export skipped", "error", engine.ErrInvalidInput)
		return nil
	}

	exp, err := export.New(choice.format)
	if err != nil {
		return err
	}
	if err := export.WriteFile(ctx, name, exp, a.deps.Session.Results()); err != nil {
		a.fail("Error exporting to %s: %v", strings.ToUpper(choice.format), err)
		a.logger.Error("export failed", "format", choice.format, "path", name, "error", err)
		return nil
	}
	a.success("Dorks exported to '%s' successfully.", name)
	a.logger.Info("dorks exported", "format", choice.format, "path", name)
	return nil
}

// ---------------------------------------------------------------------------
// 11. Tutorials, 12. View stored
// ---------------------------------------------------------------------------

func (a *App) tutorials(ctx context.Context) error {
	a.heading("Interactive Tutorials:")
	for i, t := range tutorial.Topics {
		fmt.Fprintln(a.out, a.st.item.Render(fmt.Sprintf("%d. %s", i+1, t.Title)))
	}
	n, ok, err := a.askIndex(ctx, len(tutorial.Topics))
	if err != nil || !ok {
		return err
	}
	topic, _ := tutorial.Lookup(n)
	out, err := a.deps.Tutorials.Render(topic)
	if err != nil {
		a.logger.Warn("tutorial rendering failed", "topic", topic.Title, "error", err)
	}
	fmt.Fprintln(a.out, out)
	a.logger.Info("tutorial viewed", "topic", topic.Title)
	return nil
}

func (a *App) viewStored(ctx context.Context) {
	entries, err := a.deps.Store.ListAll(ctx)
	if err != nil {
		a.fail("Error retrieving dorks from database: %v", err)
		a.logger.Error("error retrieving dorks from database", "error", err)
		return
	}
	if len(entries) == 0 {
		a.fail("No dorks found in the database.")
		return
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Category, e.Dork}
	}
	fmt.Fprintln(a.out, a.st.item.Render("\nDorks in Database:"))
	fmt.Fprintln(a.out, a.table([]string{"Category", "Dork"}, rows))
	a.logger.Info("stored dorks viewed", "count", len(entries))
}
