package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopmate/storefront/internal/domain"
	"github.com/shopmate/storefront/internal/store"
)

// DefaultHeartbeat is how often an idle event stream sends a comment line.
const DefaultHeartbeat = 15 * time.Second

// SnapshotSource is the part of the storefront service the event stream
// needs.
type SnapshotSource interface {
	Subscribe(fn store.Observer) (unsubscribe func())
	Cart(ctx context.Context) domain.Snapshot
}

// EventsHandler streams store snapshots as server-sent events.
type EventsHandler struct {
	source    SnapshotSource
	heartbeat time.Duration
	logger    *slog.Logger
	// done ends every open stream when closed.
	done <-chan struct{}
}

// NewEventsHandler creates an SSE handler. A non-positive heartbeat uses
// DefaultHeartbeat.
func NewEventsHandler(source SnapshotSource, heartbeat time.Duration, logger *slog.Logger) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &EventsHandler{
		source:    source,
		heartbeat: heartbeat,
		logger:    logger,
	}
}

// ServeHTTP handles GET /api/v1/store/events. The current snapshot is sent
// first; later snapshots are coalesced so a slow client only ever receives
// the newest state.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := http.NewResponseController(w)

	latest := make(chan domain.Snapshot, 1)
	unsubscribe := h.source.Subscribe(func(snap domain.Snapshot) {
		offerLatest(latest, snap)
	})
	defer unsubscribe()

	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	var lastVersion uint64
	send := func(snap domain.Snapshot) error {
		if snap.Version < lastVersion {
			return nil
		}
		lastVersion = snap.Version
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		if _, err := fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snap.Version, data); err != nil {
			return err
		}
		return rc.Flush()
	}

	if err := send(h.source.Cart(ctx)); err != nil {
		h.logger.DebugContext(ctx, "event stream closed", slog.String("error", err.Error()))
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case snap := <-latest:
			if snap.Version == lastVersion {
				continue
			}
			if err := send(snap); err != nil {
				h.logger.DebugContext(ctx, "event stream closed", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// offerLatest leaves the newest snapshot by version in ch without blocking.
func offerLatest(ch chan domain.Snapshot, snap domain.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case old := <-ch:
			if old.Version > snap.Version {
				snap = old
			}
		default:
		}
	}
}
