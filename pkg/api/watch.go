package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// watchInterval is how often a watcher receives a fresh job snapshot
const watchInterval = 200 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The engine assumes a single trusted local caller.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWatchJob upgrades to a websocket and pushes job snapshots until
// the job reaches a terminal state. The final snapshot is always sent
// before the connection closes.
func (s *Server) handleWatchJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	if _, err := s.manager.Get(jobID); err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		job, err := s.manager.Get(jobID)
		if err != nil {
			// Job records are never evicted, so this only happens if
			// the engine is shutting down.
			return
		}

		if err := conn.WriteJSON(job); err != nil {
			return
		}
		if job.Status.IsTerminal() {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(job.Status.State)))
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
