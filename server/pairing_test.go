package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPairingIssueLookup(t *testing.T) {
	ps := NewPairings()
	code := ps.Issue(7)
	if len(code) != 8 {
		t.Errorf("expected 8 hex chars, got %q", code)
	}
	if id, ok := ps.Lookup(code); !ok || id != 7 {
		t.Errorf("lookup: id=%d ok=%v", id, ok)
	}
	if _, ok := ps.Lookup("deadbeef"); ok {
		t.Error("unknown code should fail")
	}

	again := ps.Issue(7)
	if _, ok := ps.Lookup(code); ok && again != code {
		t.Error("reissuing should invalidate the previous code")
	}
	if _, ok := ps.Lookup(again); !ok {
		t.Error("new code should be live")
	}
}

func TestPairingExpires(t *testing.T) {
	ps := NewPairings()
	code := ps.Issue(1)
	ps.mu.Lock()
	p := ps.codes[code]
	p.expires = time.Now().Add(-time.Second)
	ps.codes[code] = p
	ps.mu.Unlock()

	if _, ok := ps.Lookup(code); ok {
		t.Error("expired code should fail")
	}
	ps.Issue(2)
	ps.mu.Lock()
	_, kept := ps.codes[code]
	ps.mu.Unlock()
	if kept {
		t.Error("expired code should be swept on issue")
	}
}

func TestControllerURL(t *testing.T) {
	if got := ControllerURL("https://play.example/", "abc"); got != "https://play.example/?pair=abc" {
		t.Errorf("got %q", got)
	}
}

func TestQRHandler(t *testing.T) {
	hub := &Hub{pairings: NewPairings()}
	h := qrHandler(hub)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/qr?code=nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	code := hub.pairings.Issue(3)
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/qr?code="+code, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}
