package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/BrandishIdle_Go/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown
type ShutdownComponents struct {
	Server     *server.Server
	Engine     *Engine
	CloseStore func()
	LogFile    interface{ Close() error }
}

// GracefulShutdown stops components in dependency order:
// 1. event streams, so open SSE requests return
// 2. admin server (no new reads)
// 3. engine (maintenance, production tasks, pending events)
// 4. store connections
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Default().Info(LogMsgShuttingDown)

	if components.Engine != nil {
		components.Engine.Hub.Stop()
	}

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Default().Error(LogMsgServerForcedStop, "error", err)
		}
	}

	if components.Engine != nil {
		if err := components.Engine.Stop(ctx); err != nil {
			slog.Default().Error(LogMsgRegistryStopFailed, "error", err)
		}
	}

	if components.CloseStore != nil {
		components.CloseStore()
	}

	slog.Default().Info(LogMsgStopped)

	if components.LogFile != nil {
		_ = components.LogFile.Close()
	}
}
