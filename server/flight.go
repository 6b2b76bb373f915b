package main

import (
	"sync"
	"time"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = game.TicksPerSecond // simulation ticks per second
	BroadcastRate  = 30                  // snapshots per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

// Broadcaster sends messages to whatever is displaying a pilot
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Flight drives one game.Run on its own goroutine
type Flight struct {
	mu       sync.Mutex
	run      *game.Run
	out      Broadcaster
	onEnd    func(*game.Result)
	ticks    uint64
	stop     chan struct{}
	stopOnce sync.Once
	log      *logrus.Entry
}

// NewFlight wraps a run. onEnd is called once, from the flight goroutine,
// with the terminal result.
func NewFlight(run *game.Run, out Broadcaster, onEnd func(*game.Result)) *Flight {
	return &Flight{
		run:   run,
		out:   out,
		onEnd: onEnd,
		stop:  make(chan struct{}),
		log:   logger.Log.WithField("mission", run.Mission().ID),
	}
}

// Run starts the tick loop and returns when the run ends or Stop is called
func (f *Flight) Run() {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if f.step() {
				return
			}
		case <-f.stop:
			return
		}
	}
}

// Stop terminates the loop without reporting a result
func (f *Flight) Stop() {
	f.stopOnce.Do(func() { close(f.stop) })
}

// SetInput hands the pilot's latest control state to the run
func (f *Flight) SetInput(in ClientInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.run.SetInput(game.Input{
		X:     game.Clamp(in.X, 0, game.FieldWidth),
		Y:     game.Clamp(in.Y, 0, game.FieldHeight),
		Brake: in.Brake,
	})
	if in.Retire {
		f.run.Retire()
	}
}

// Retire abandons the mission; the next tick reports the failure
func (f *Flight) Retire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.run.Retire()
}

// step advances one tick and publishes its output. It reports true once the
// run has ended and onEnd has been called.
func (f *Flight) step() bool {
	f.mu.Lock()
	f.run.Tick()
	f.ticks++
	cues := f.run.DrainEvents()
	done := f.run.Done()
	var snap *game.Snapshot
	if done || f.ticks%BroadcastEvery == 0 {
		s := f.run.Snapshot()
		snap = &s
	}
	res := f.run.Result()
	f.mu.Unlock()

	if len(cues) > 0 {
		f.out.SendJSON(Envelope{T: MsgCue, Data: CueMsg{Cues: cues}})
	}
	if snap != nil {
		f.broadcastState(snap)
	}
	if !done {
		return false
	}

	entry := f.log.WithFields(logrus.Fields{"outcome": res.Outcome, "cause": res.Cause, "elapsed": res.Elapsed})
	if res.Outcome == game.OutcomeFault {
		entry.Error("flight faulted")
	} else {
		entry.Info("flight ended")
	}
	if f.onEnd != nil {
		f.onEnd(res)
	}
	return true
}

// broadcastState sends a snapshot as a binary msgpack frame
func (f *Flight) broadcastState(snap *game.Snapshot) {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		f.log.WithError(err).Warn("encode snapshot")
		return
	}
	f.out.SendBinary(data)
}
