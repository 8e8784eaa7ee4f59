// Package discovery maps logical service names to live base URLs.
// The registry caches its table and refreshes it in the background; lookups
// never block on a refresh, only the resolved call itself does.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

type Resolver interface {
	Resolve(service string) (string, error)
}

// Table is one immutable snapshot of name→address mappings.
type Table map[string]string

// Source produces a fresh table. In production it re-reads configuration;
// a registry-backed source would query the discovery server instead.
type Source func(ctx context.Context) (Table, error)

type Registry struct {
	source   Source
	interval time.Duration
	logger   *slog.Logger

	table atomic.Value // Table
}

func NewRegistry(source Source, interval time.Duration, logger *slog.Logger) *Registry {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{source: source, interval: interval, logger: logger}
	r.table.Store(Table{})
	return r
}

// NewStatic returns a resolver over a fixed table, for wiring and tests.
func NewStatic(table Table) *Registry {
	r := &Registry{logger: slog.Default()}
	snapshot := make(Table, len(table))
	for name, addr := range table {
		snapshot[name] = addr
	}
	r.table.Store(snapshot)
	return r
}

func (r *Registry) Resolve(service string) (string, error) {
	table := r.table.Load().(Table)
	addr, ok := table[service]
	if !ok || addr == "" {
		return "", fmt.Errorf("no address for service %q", service)
	}
	return addr, nil
}

// Refresh swaps in a fresh snapshot. A failed source keeps the last good
// table in place.
func (r *Registry) Refresh(ctx context.Context) error {
	if r.source == nil {
		return nil
	}
	table, err := r.source(ctx)
	if err != nil {
		r.logger.Warn("service table refresh failed",
			"event", "discovery_refresh_failed",
			"module", "internal/platform/discovery",
			"layer", "platform",
			"error", err,
		)
		return err
	}
	r.table.Store(table)
	return nil
}

// Start refreshes once immediately, then periodically until ctx is done.
func (r *Registry) Start(ctx context.Context) {
	_ = r.Refresh(ctx)
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = r.Refresh(ctx)
			}
		}
	}()
}
