package sse

import (
	"net/http"
	"strings"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/logger"
)

// Handler streams engine events to the caller until it disconnects or the hub stops.
// ?types=a,b narrows by event type, ?owner=id narrows to one owner.
// @Summary Production event stream
// @Description Server-sent events for assignments, unassignments, ticks and reconciliation removals
// @Tags events
// @Produce text/event-stream
// @Param types query string false "Comma-separated event types"
// @Param owner query string false "Owner ID"
// @Success 200 {object} Event
// @Router /api/v1/events [get]
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, ErrMsgStreamingUnsupported, http.StatusInternalServerError)
			return
		}

		w.Header().Set(HeaderContentType, ContentTypeEventStream)
		w.Header().Set(HeaderCacheControl, CacheControlNoCache)
		w.Header().Set(HeaderConnection, ConnectionKeepAlive)

		eventTypes := parseTypes(r.URL.Query().Get(ParamTypes))
		ownerID := strings.TrimSpace(r.URL.Query().Get(ParamOwner))

		ctx := r.Context()
		log := logger.FromContext(ctx)

		client := hub.Register(eventTypes, ownerID)
		log.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"types", eventTypes,
			"owner_id", ownerID)

		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		send := func(evt Event) bool {
			msg, err := FormatSSEMessage(evt)
			if err != nil {
				log.Error(LogMsgFormatError, "type", evt.Type, "error", err)
				return true
			}
			if _, err := w.Write(msg); err != nil {
				log.Warn(LogMsgWriteError, "client_id", client.ID, "error", err)
				return false
			}
			flusher.Flush()
			return true
		}

		if !send(Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   ConnectedPayload{ClientID: client.ID, Types: eventTypes, Owner: ownerID},
		}) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case evt, ok := <-client.EventChannel:
				if !ok {
					return
				}
				if !send(evt) {
					return
				}

			case <-ticker.C:
				if !send(Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}

func parseTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	var types []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}
