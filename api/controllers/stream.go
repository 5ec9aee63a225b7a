package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/carspace/carspace-backend/api/responses"
	"github.com/carspace/carspace-backend/internal/live"
	pkgerrors "github.com/carspace/carspace-backend/pkg/errors"
	"github.com/carspace/carspace-backend/pkg/logger"
)

// keepAliveInterval paces SSE comment lines so intermediaries do not
// reap an idle stream.
const keepAliveInterval = 25 * time.Second

// StreamSnapshots serves a collection's live feed over SSE. The first
// event is the current snapshot; each subsequent event is a complete
// replacement.
func StreamSnapshots(hub *live.Hub, collection string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "live feed unavailable"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		sub, err := hub.Subscribe(r.Context(), collection)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open feed"))
			return
		}
		defer sub.Close()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-keepAlive.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			case snapshot, open := <-sub.C:
				if !open {
					return
				}
				data, err := json.Marshal(snapshot)
				if err != nil {
					if logg != nil {
						logg.Error(r.Context(), "encode snapshot", err)
					}
					return
				}
				fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
				flusher.Flush()
			}
		}
	}
}
