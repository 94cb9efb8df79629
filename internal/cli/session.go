package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/0x6d61/dorkgen/internal/config"
	"github.com/0x6d61/dorkgen/internal/console"
	"github.com/0x6d61/dorkgen/internal/engine"
	"github.com/0x6d61/dorkgen/internal/llm"
	"github.com/0x6d61/dorkgen/internal/logging"
	"github.com/0x6d61/dorkgen/internal/search"
	"github.com/0x6d61/dorkgen/internal/session"
	"github.com/0x6d61/dorkgen/internal/shodan"
	"github.com/0x6d61/dorkgen/internal/store"
	"github.com/0x6d61/dorkgen/internal/transport"
	"github.com/0x6d61/dorkgen/internal/tutorial"
)

// runSession wires every component from cfg and runs the menu loop on in
// and out. Only failures to set up logging, the store or the HTTP clients
// are returned; everything after that is reported inside the session.
func runSession(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	// ------------------------------------------------------------------ //
	// 1. Logging and storage
	// ------------------------------------------------------------------ //
	logger, logFile, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()
	fmt.Fprintf(out, "Logging initialized at: %s/%s\n", cfg.Log.Dir, cfg.Log.File)

	st, err := store.NewSQLiteStore(ctx, cfg.Storage.DBPath)
	if err != nil {
		logger.Error("error initializing database", "path", cfg.Storage.DBPath, "error", err)
		return fmt.Errorf("failed to open database %q: %w", cfg.Storage.DBPath, err)
	}
	defer st.Close()
	fmt.Fprintf(out, "Database initialized at: %s\n", cfg.Storage.DBPath)
	logger.Info("database initialized", "path", cfg.Storage.DBPath)

	// ------------------------------------------------------------------ //
	// 2. Transport clients (one per collaborator)
	// ------------------------------------------------------------------ //
	llmClient, err := transport.NewClient(transport.ClientOptions{Timeout: cfg.LLM.Timeout})
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	searchClient, err := transport.NewClient(transport.ClientOptions{
		Timeout:         cfg.Search.Timeout,
		ProxyURL:        cfg.Search.Proxy,
		RandomUserAgent: cfg.Search.RandomAgent,
		MaxRPS:          transport.RateForInterval(cfg.Search.Delay),
	})
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}
	shodanClient, err := transport.NewClient(transport.ClientOptions{Timeout: cfg.Shodan.Timeout})
	if err != nil {
		return fmt.Errorf("failed to create shodan client: %w", err)
	}

	// ------------------------------------------------------------------ //
	// 3. Session, coordinator, console
	// ------------------------------------------------------------------ //
	state := session.New()
	logger = logger.With("session", state.ID)

	coord := engine.NewCoordinator(state, st,
		engine.WithBatchSize(cfg.Generation.BatchSize),
		engine.WithDelay(cfg.Generation.Delay),
		engine.WithLogger(logger),
	)

	renderer, err := tutorial.NewRenderer(80, "")
	if err != nil {
		logger.Warn("tutorials will be shown as plain markdown", "error", err)
	}

	app := console.New(in, out, console.Deps{
		Session:     state,
		Store:       st,
		Coordinator: coord,
		NewGenerator: func(apiKey string) (engine.TextGenerator, error) {
			p, err := llm.New(cfg.LLM, apiKey, llmClient)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		GeneratorService: llm.ServiceName(cfg.LLM.Provider),
		Search:           search.New(searchClient, cfg.Search.BaseURL),
		Index:            shodan.New(shodanClient, cfg.Shodan.BaseURL),
		IndexAPIKey:      cfg.Shodan.APIKey,
		Tutorials:        renderer,
		Logger:           logger,
	})

	err = app.Run(ctx)

	logger.Info("session finished",
		"generation_requests", llmClient.Stats().TotalRequests,
		"search_requests", searchClient.Stats().TotalRequests,
		"shodan_requests", shodanClient.Stats().TotalRequests,
	)
	return err
}
