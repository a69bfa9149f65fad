package api

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/safence/sentinelguard/internal/bus"
	"github.com/safence/sentinelguard/internal/metrics"
)

// wsMessage is sent from client to narrow the event types it receives.
type wsMessage struct {
	Action string   `json:"action"` // "subscribe" | "unsubscribe"
	Types  []string `json:"types"`  // event types; empty = all
}

// WebSocketHandler relays realtime bus events to connected dashboard
// clients. Clients receive every event type by default and may narrow the
// set with JSON messages: {"action":"subscribe","types":["alert","log"]}.
func WebSocketHandler(events *bus.Bus, logger *slog.Logger) func(*websocket.Conn) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		logger.Info("ws client connected", "remote", remoteAddr)
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		// nil wanted set means every event type.
		var wantedMu sync.Mutex
		var wanted map[bus.EventType]bool

		wants := func(t bus.EventType) bool {
			wantedMu.Lock()
			defer wantedMu.Unlock()
			return wanted == nil || wanted[t]
		}

		ch, cancel := events.Subscribe(64)
		defer cancel()

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case event, ok := <-ch:
					if !ok {
						return
					}
					if !wants(event.Type) {
						continue
					}
					if err := writeJSON(event); err != nil {
						return
					}
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Read client messages for subscribe/unsubscribe.
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "subscribe":
				wantedMu.Lock()
				if len(m.Types) == 0 {
					wanted = nil
				} else {
					wanted = make(map[bus.EventType]bool, len(m.Types))
					for _, t := range m.Types {
						wanted[bus.EventType(t)] = true
					}
				}
				wantedMu.Unlock()
				_ = writeJSON(map[string]interface{}{"status": "subscribed", "types": m.Types})

			case "unsubscribe":
				wantedMu.Lock()
				wanted = map[bus.EventType]bool{}
				wantedMu.Unlock()
				_ = writeJSON(map[string]string{"status": "unsubscribed"})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		logger.Info("ws client disconnected", "remote", remoteAddr)
	}
}
