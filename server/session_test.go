package main

import (
	"errors"
	"testing"
	"time"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
)

func newTestSessions(t *testing.T) (*SessionManager, *DB, int64) {
	t.Helper()
	db := openTestDB(t)
	id, err := db.CreateGuest("Guest_session")
	if err != nil {
		t.Fatalf("create guest: %v", err)
	}
	return NewSessionManager(testCatalog(t), db, nil), db, id
}

func waitForPhase(t *testing.T, p *Pilot, want PilotPhase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for p.Phase() != want {
		if time.Now().After(deadline) {
			t.Fatalf("phase stuck at %s, want %s", p.Phase(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHangarEditPersists(t *testing.T) {
	sm, _, id := newTestSessions(t)
	mock := &mockBroadcaster{}

	p, err := sm.Attach(id, "pilot", mock)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := p.BuyPart("Collector"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if got := p.Hangar().Money; got != 3000 {
		t.Errorf("expected 3000 after purchase, got %d", got)
	}
	if !mock.has(MsgCue) || !mock.has(MsgHangar) {
		t.Errorf("expected cue and hangar, got %v", mock.types())
	}
	if err := p.BuyPart("Collector"); !errors.Is(err, game.ErrAlreadyOwned) {
		t.Errorf("expected ErrAlreadyOwned, got %v", err)
	}

	sm.Release(p, mock)
	if sm.PilotCount() != 0 {
		t.Fatal("pilot should be dropped when its display leaves")
	}
	p, _ = sm.Attach(id, "pilot", &mockBroadcaster{})
	if got := p.Hangar().Money; got != 3000 {
		t.Errorf("record not reloaded, money=%d", got)
	}
}

func TestAttachReplacesDisplay(t *testing.T) {
	sm, _, id := newTestSessions(t)
	first := &mockBroadcaster{}
	second := &mockBroadcaster{}

	p1, _ := sm.Attach(id, "pilot", first)
	p2, _ := sm.Attach(id, "pilot", second)
	if p1 != p2 {
		t.Error("both displays should share one pilot")
	}
	if !first.has(MsgReplaced) {
		t.Error("old display should be told it was replaced")
	}

	// A stale display leaving must not drop the pilot
	sm.Release(p1, first)
	if sm.GetPilot(id) == nil {
		t.Error("stale release removed the pilot")
	}
}

func TestLaunchAndRetire(t *testing.T) {
	sm, db, id := newTestSessions(t)
	mock := &mockBroadcaster{}
	p, _ := sm.Attach(id, "pilot", mock)

	if _, err := p.Launch("nope"); !errors.Is(err, game.ErrUnknownMission) {
		t.Errorf("expected ErrUnknownMission, got %v", err)
	}
	if err := p.Retire(); !errors.Is(err, ErrNotFlying) {
		t.Errorf("expected ErrNotFlying, got %v", err)
	}

	missions := p.Hangar().Missions
	msg, err := p.Launch(missions[0].ID)
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if msg.Mission.ID != missions[0].ID || msg.Stats.MaxHP <= 0 {
		t.Errorf("unexpected launch reply %+v", msg)
	}
	if p.Phase() != PhaseFlying || sm.FlightCount() != 1 {
		t.Fatalf("expected flying, got %s", p.Phase())
	}
	if err := p.BuyPart("Collector"); !errors.Is(err, ErrInFlight) {
		t.Errorf("expected ErrInFlight, got %v", err)
	}
	if _, err := p.Launch(missions[1].ID); !errors.Is(err, ErrInFlight) {
		t.Errorf("second launch should fail, got %v", err)
	}

	if err := p.Retire(); err != nil {
		t.Fatalf("retire: %v", err)
	}
	waitForPhase(t, p, PhaseDebrief)

	if !mock.has(MsgResult) {
		t.Error("expected a result message")
	}
	_, career := p.Profile()
	if career.Started != 1 || career.Failed != 1 {
		t.Errorf("unexpected career %+v", career)
	}
	runs, _ := db.RunHistory(id, 10)
	if len(runs) != 1 || runs[0].Outcome != game.OutcomeFailure || runs[0].Cause != game.CauseRetired {
		t.Errorf("unexpected history %+v", runs)
	}

	// Any hangar edit closes the debrief
	if err := p.BuyPart("Collector"); err != nil {
		t.Fatalf("buy after flight: %v", err)
	}
	if p.Phase() != PhaseHangar {
		t.Errorf("expected hangar, got %s", p.Phase())
	}
}

func TestReleaseDuringFlightRetires(t *testing.T) {
	sm, db, id := newTestSessions(t)
	mock := &mockBroadcaster{}
	p, _ := sm.Attach(id, "pilot", mock)
	if _, err := p.Launch(p.Hangar().Missions[0].ID); err != nil {
		t.Fatalf("launch: %v", err)
	}

	sm.Release(p, mock)

	deadline := time.Now().Add(2 * time.Second)
	for sm.PilotCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("orphaned pilot was not removed after its flight")
		}
		time.Sleep(5 * time.Millisecond)
	}
	runs, _ := db.RunHistory(id, 10)
	if len(runs) != 1 {
		t.Errorf("abandoned flight should still be recorded, got %d runs", len(runs))
	}
}

func TestControllerLink(t *testing.T) {
	sm, _, id := newTestSessions(t)
	display := &mockBroadcaster{}
	phone := &mockBroadcaster{}
	p, _ := sm.Attach(id, "pilot", display)

	p.SetController(phone)
	if !display.has(MsgCtrlOn) {
		t.Error("display should learn about the controller")
	}
	p.RemoveController(&mockBroadcaster{})
	if display.has(MsgCtrlOff) {
		t.Error("removing an unknown controller must be ignored")
	}
	p.RemoveController(phone)
	if !display.has(MsgCtrlOff) {
		t.Error("display should learn the controller left")
	}
}

func TestStopAllHaltsFlights(t *testing.T) {
	sm, _, id := newTestSessions(t)
	p, _ := sm.Attach(id, "pilot", &mockBroadcaster{})
	if _, err := p.Launch(p.Hangar().Missions[0].ID); err != nil {
		t.Fatalf("launch: %v", err)
	}
	sm.StopAll()
	time.Sleep(50 * time.Millisecond)
	if p.Phase() != PhaseFlying {
		t.Errorf("stopped flight should not report, phase=%s", p.Phase())
	}
}
