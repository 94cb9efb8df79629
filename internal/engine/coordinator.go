package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/0x6d61/dorkgen/internal/logging"
)

// DefaultDelay is the pause between two categories of a batch.
const DefaultDelay = 2 * time.Second

// --------------------------------------------------------------------------
// Collaborators (kept as interfaces so the session and store packages can
// depend on engine, not the other way round)
// --------------------------------------------------------------------------

// GenerateFunc produces the dorks for one category.
type GenerateFunc func(ctx context.Context, cat Category) ([]string, error)

// Recorder keeps the latest dorks per category in memory.
type Recorder interface {
	RecordResults(cat Category, dorks []string)
}

// Appender persists one dork row.
type Appender interface {
	Append(ctx context.Context, category, dork string) error
}

// Outcome describes what happened to one category of a batch.
type Outcome struct {
	Category Category
	Dorks    []string
	// Err is a *CategoryError when generation failed; the category was
	// then neither recorded nor persisted.
	Err error
	// StoreErrors holds one entry per dork that could not be persisted.
	StoreErrors []error
}

// --------------------------------------------------------------------------
// Coordinator
// --------------------------------------------------------------------------

// Coordinator runs generation batches and commits every successful
// category to the in-memory recorder and the persistent appender.
type Coordinator struct {
	recorder  Recorder
	appender  Appender
	batchSize int
	limiter   *rate.Limiter
	logger    *slog.Logger

	// Progress callback, called once per category.
	onProgress func(Outcome)
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithBatchSize sets the number of dorks requested per category.
func WithBatchSize(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithDelay sets the minimum spacing between two generation calls.
// Zero disables pacing.
func WithDelay(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.limiter = newLimiter(d)
	}
}

// WithLogger sets the logger used for failures and commits.
func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCoordinator creates a coordinator committing to rec and app.
func NewCoordinator(rec Recorder, app Appender, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		recorder:  rec,
		appender:  app,
		batchSize: DefaultBatchSize,
		limiter:   newLimiter(DefaultDelay),
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// BatchSize returns the number of dorks requested per category.
func (c *Coordinator) BatchSize() int {
	return c.batchSize
}

// SetProgressCallback sets a function called after each category of a
// batch, successful or not.
func (c *Coordinator) SetProgressCallback(fn func(Outcome)) {
	c.onProgress = fn
}

func (c *Coordinator) progress(o Outcome) {
	if c.onProgress != nil {
		c.onProgress(o)
	}
}

// GenerateForSelections calls gen for each category in order and returns
// the dorks of every category that succeeded.
//
// Per category:
//  1. Wait for the pacing limiter
//  2. Call gen (panics are recovered and treated as failures)
//  3. On failure: log, report, continue with the next category
//  4. On success: record in memory (replacing older results), then append
//     every dork to the store; a failed append is logged and skipped
//
// Only context cancellation ends the batch early.
func (c *Coordinator) GenerateForSelections(ctx context.Context, cats []Category, gen GenerateFunc) *Results {
	results := NewResults()

	for i, cat := range cats {
		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.Warn("generation batch stopped",
				"remaining", len(cats)-i,
				"error", err,
			)
			break
		}

		dorks, err := runIsolated(ctx, c.logger, cat, gen)
		if err != nil {
			cerr := &CategoryError{Category: cat, Err: err}
			c.logger.Error("error generating dorks",
				"category", string(cat),
				"error", err,
			)
			c.progress(Outcome{Category: cat, Err: cerr})
			continue
		}

		storeErrs := c.commit(ctx, cat, dorks)
		results.Set(cat, dorks)
		c.logger.Info("dorks generated",
			"category", string(cat),
			"count", len(dorks),
			"store_failures", len(storeErrs),
		)
		c.progress(Outcome{Category: cat, Dorks: dorks, StoreErrors: storeErrs})
	}

	return results
}

// GenerateCustom builds every operator+keyword combination, operator-major,
// and commits them under CustomCategory. Both lists must be non-empty.
func (c *Coordinator) GenerateCustom(ctx context.Context, keywords, operators []string) ([]string, error) {
	if len(keywords) == 0 || len(operators) == 0 {
		return nil, fmt.Errorf("%w: keywords and operators are required", ErrInvalidInput)
	}

	dorks := make([]string, 0, len(operators)*len(keywords))
	for _, op := range operators {
		for _, kw := range keywords {
			dorks = append(dorks, op+kw)
		}
	}

	storeErrs := c.commit(ctx, CustomCategory, dorks)
	c.logger.Info("custom dorks generated",
		"count", len(dorks),
		"store_failures", len(storeErrs),
	)
	return dorks, nil
}

// commit records dorks in memory and appends them to the store in order.
func (c *Coordinator) commit(ctx context.Context, cat Category, dorks []string) []error {
	if c.recorder != nil {
		c.recorder.RecordResults(cat, dorks)
	}
	if c.appender == nil {
		return nil
	}

	var errs []error
	for _, d := range dorks {
		if err := c.appender.Append(ctx, string(cat), d); err != nil {
			c.logger.Error("error saving dork to database",
				"category", string(cat),
				"dork", d,
				"error", err,
			)
			errs = append(errs, err)
			continue
		}
		c.logger.Debug("dork saved to database", "category", string(cat), "dork", d)
	}
	return errs
}
