package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/event"
)

// InitializeEventSystem creates the in-process bus and the publisher the
// services write through. Subscribers attach to the bus; failed deliveries
// are retried by the publisher and end up in the dead-letter file.
func InitializeEventSystem(cfg *config.Config) (*event.MemoryBus, *event.ResilientPublisher, error) {
	if dir := filepath.Dir(cfg.EventDeadLetterPath); dir != "." {
		if err := os.MkdirAll(dir, DirPermission); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrMsgCreateDeadLetterDir, err)
		}
	}

	bus := event.NewMemoryBus()
	publisher, err := event.NewResilientPublisher(bus, cfg.EventMaxRetries, cfg.EventRetryDelay, cfg.EventDeadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgEventPublisher, err)
	}

	slog.Default().Info(LogMsgEventSystemReady,
		"max_retries", cfg.EventMaxRetries,
		"retry_delay", cfg.EventRetryDelay,
		"deadletter", cfg.EventDeadLetterPath)
	return bus, publisher, nil
}
