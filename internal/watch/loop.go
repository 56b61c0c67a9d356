package watch

import (
	"context"
	"fmt"
	"strings"
)

// Logger receives loop diagnostics.
type Logger interface {
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Loop calls rebuild once per Change until ctx is done. Rebuild failures are
// logged and the loop keeps going. It returns ctx.Err() on cancellation.
func Loop(ctx context.Context, w *Watcher, rebuild func() error, log Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change := <-w.Changes():
			log.LogInfo(fmt.Sprintf("change detected: %s", describe(change.Paths)))
			if err := rebuild(); err != nil {
				log.LogError(fmt.Sprintf("rebuild failed: %v", err))
			}
		case err := <-w.Errors():
			log.LogWarn(fmt.Sprintf("watcher error: %v", err))
		}
	}
}

func describe(paths []string) string {
	const limit = 3
	if len(paths) <= limit {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(paths[:limit], ", "), len(paths)-limit)
}
