package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/gorilla/websocket"
)

const statsDays = 7

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// StatsResponse is the public /api/stats payload
type StatsResponse struct {
	PilotsOnline  int                `json:"pilots_online"`
	ActiveFlights int                `json:"active_flights"`
	Connections   int                `json:"connections"`
	DAU           int                `json:"dau"`
	Events        map[string]int     `json:"events"`
	Outcomes      map[string]int     `json:"outcomes"`
	PopularParts  []PartAnalytics    `json:"popular_parts"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, clientDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(clientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fs.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Log.WithError(err).WithField("remote", ip).Warn("upgrade")
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("/qr", qrHandler(hub))
	mux.HandleFunc("/api/stats", statsHandler(hub))

	return mux
}

func statsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatsResponse{
			PilotsOnline:  hub.sessions.PilotCount(),
			ActiveFlights: hub.sessions.FlightCount(),
			Connections:   hub.TotalConns(),
		}
		a := hub.analytics
		if a != nil {
			var err error
			if resp.DAU, err = a.DAUCount(); err != nil {
				logger.Log.WithError(err).Warn("stats: dau")
			}
			if resp.Events, err = a.EventCounts(statsDays); err != nil {
				logger.Log.WithError(err).Warn("stats: events")
			}
			if resp.Outcomes, err = a.OutcomeCounts(statsDays); err != nil {
				logger.Log.WithError(err).Warn("stats: outcomes")
			}
			if resp.PopularParts, err = a.PopularParts(5); err != nil {
				logger.Log.WithError(err).Warn("stats: parts")
			}
		}
		if hub.db != nil {
			var err error
			if resp.Leaderboard, err = hub.db.GetLeaderboard(10); err != nil {
				logger.Log.WithError(err).Warn("stats: leaderboard")
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		json.NewEncoder(w).Encode(resp)
	}
}
