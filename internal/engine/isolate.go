package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// runIsolated calls gen for one category, recovering from panics so one bad
// category does not take down the batch.
func runIsolated(ctx context.Context, logger *slog.Logger, cat Category, gen GenerateFunc) (dorks []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("generator recovered from panic",
				"category", string(cat),
				"panic", fmt.Sprintf("%v", r),
			)
			dorks = nil
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()

	if gen == nil {
		return nil, fmt.Errorf("no generator configured")
	}
	return gen(ctx, cat)
}
