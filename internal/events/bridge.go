package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

// Reloadable is the part of the dataset cache the bridge drives.
type Reloadable interface {
	Reload(ctx context.Context) (*dataset.Dataset, error)
	OnLoad(fn func(*dataset.Dataset))
}

// Bridge subscribes to reload requests and publishes a LoadedEvent after
// every successful load.
func Bridge(client Client, cache Reloadable, reloadSubject, loadedSubject string, logger *slog.Logger) error {
	if reloadSubject == "" {
		reloadSubject = DefaultReloadSubject
	}
	if loadedSubject == "" {
		loadedSubject = DefaultLoadedSubject
	}

	cache.OnLoad(func(ds *dataset.Dataset) {
		if err := client.Publish(loadedSubject, NewLoadedEvent(ds)); err != nil {
			logger.Warn("failed to publish loaded event", "subject", loadedSubject, "error", err)
		}
	})

	return client.Subscribe(reloadSubject, func(subject string, data []byte) {
		var req ReloadRequest
		if len(data) > 0 {
			if err := json.Unmarshal(data, &req); err != nil {
				logger.Warn("ignoring malformed reload request", "subject", subject, "error", err)
				return
			}
		}
		logger.Info("reload requested", "subject", subject, "reason", req.Reason, "by", req.RequestedBy)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := cache.Reload(ctx); err != nil {
			logger.Error("reload failed", "error", err)
		}
	})
}
