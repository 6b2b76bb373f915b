package main

import "errors"

// PilotPhase is where a pilot is in the hangar/flight cycle
type PilotPhase int

const (
	PhaseHangar  PilotPhase = 0
	PhaseFlying  PilotPhase = 1
	PhaseDebrief PilotPhase = 2 // result shown, hangar editable again
)

var (
	ErrInFlight      = errors.New("not available during a flight")
	ErrNotFlying     = errors.New("no flight in progress")
	ErrNoPilot       = errors.New("not signed in")
	ErrTooManyPilots = errors.New("server is full")
)

func (p PilotPhase) String() string {
	switch p {
	case PhaseFlying:
		return "flying"
	case PhaseDebrief:
		return "debrief"
	default:
		return "hangar"
	}
}

// CanEdit reports whether hangar operations are allowed
func (p PilotPhase) CanEdit() bool {
	return p != PhaseFlying
}

// Next returns the phase after an event; invalid transitions keep the phase
func (p PilotPhase) Next(event string) PilotPhase {
	switch {
	case p != PhaseFlying && event == MsgLaunch:
		return PhaseFlying
	case p == PhaseFlying && event == MsgResult:
		return PhaseDebrief
	case p == PhaseDebrief && event == MsgHangar:
		return PhaseHangar
	}
	return p
}
