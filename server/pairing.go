package main

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/skip2/go-qrcode"
)

const (
	pairCodeTTL = 5 * time.Minute
	qrSize      = 256
)

var ErrUnknownPairing = errors.New("unknown or expired pairing code")

// Pairings maps short-lived codes to the pilot a phone controller should drive
type Pairings struct {
	mu    sync.Mutex
	codes map[string]pairing
}

type pairing struct {
	pilotID int64
	expires time.Time
}

func NewPairings() *Pairings {
	return &Pairings{codes: make(map[string]pairing)}
}

// Issue creates a fresh code for a pilot, dropping expired ones
func (ps *Pairings) Issue(pilotID int64) string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	now := time.Now()
	for code, p := range ps.codes {
		if now.After(p.expires) || p.pilotID == pilotID {
			delete(ps.codes, code)
		}
	}
	code := GenerateID(4)
	ps.codes[code] = pairing{pilotID: pilotID, expires: now.Add(pairCodeTTL)}
	return code
}

// Lookup returns the pilot for a live code
func (ps *Pairings) Lookup(code string) (int64, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	p, ok := ps.codes[code]
	if !ok || time.Now().After(p.expires) {
		return 0, false
	}
	return p.pilotID, true
}

// ControllerURL is the address a phone opens to pair
func ControllerURL(base, code string) string {
	return strings.TrimRight(base, "/") + "/?pair=" + code
}

// qrHandler serves the pairing code as a PNG
func qrHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if _, ok := hub.pairings.Lookup(code); !ok {
			http.Error(w, "unknown or expired code", http.StatusNotFound)
			return
		}
		base := hub.publicURL
		if base == "" {
			base = "http://" + r.Host
		}
		png, err := qrcode.Encode(ControllerURL(base, code), qrcode.Medium, qrSize)
		if err != nil {
			logger.Log.WithError(err).Error("qr encode")
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	}
}
