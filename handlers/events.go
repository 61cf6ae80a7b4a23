package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"mediashelf/services/reviews"
)

type reviewEvents interface {
	Subscribe() chan reviews.Event
	Unsubscribe(ch chan reviews.Event)
}

var _ reviewEvents = (*reviews.Service)(nil)

// EventsHandler streams review change events over server-sent events, so an
// open review list can refresh the moment a review is deleted elsewhere.
type EventsHandler struct {
	Events reviewEvents
}

func NewEventsHandler(events reviewEvents) *EventsHandler {
	return &EventsHandler{Events: events}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := h.Events.Subscribe()
	defer h.Events.Unsubscribe(ch)

	userID := UserIDFrom(r.Context())
	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			// Each subscriber only sees their own review activity.
			if ev.UserID != userID {
				continue
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()
		}
	}
}
