package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/harroway/housemate/internal/auth"
)

// Handler upgrades authenticated requests to WebSocket connections and runs
// them as hub clients scoped to the caller's house.
func Handler(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		houseID := auth.HouseID(r.Context())
		if houseID == 0 {
			http.Error(w, "no house membership", http.StatusForbidden)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // browser clients connect from the app origin or LAN
		})
		if err != nil {
			logger.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, houseID)
		client.Run(r.Context())
	}
}
