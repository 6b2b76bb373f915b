package main

import (
	"sync"
	"time"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/sirupsen/logrus"
)

const maxSessions = 100

// Pilot is one signed-in player: their progression record, current mission
// offers and, while flying, the flight that owns their run.
type Pilot struct {
	ID   int64
	Name string

	mu         sync.Mutex
	prog       *game.Progression
	missions   []game.Mission
	gen        *game.MissionGenerator
	phase      PilotPhase
	flight     *Flight
	lastResult *game.Result

	// outMu guards the connections; the flight goroutine sends without mu
	outMu      sync.RWMutex
	display    Broadcaster
	controller Broadcaster

	sm *SessionManager
}

// SessionManager owns every live pilot and the shared game services
type SessionManager struct {
	mu        sync.RWMutex
	pilots    map[int64]*Pilot
	cat       *game.Catalog
	engine    *game.GridEngine
	db        *DB
	analytics *Analytics
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(cat *game.Catalog, db *DB, analytics *Analytics) *SessionManager {
	return &SessionManager{
		pilots:    make(map[int64]*Pilot),
		cat:       cat,
		engine:    game.NewGridEngine(cat),
		db:        db,
		analytics: analytics,
	}
}

// Attach returns the pilot for a player, loading their record on first use,
// and makes display the pilot's screen. A previous display is told it was replaced.
func (sm *SessionManager) Attach(playerID int64, name string, display Broadcaster) (*Pilot, error) {
	sm.mu.Lock()
	p, ok := sm.pilots[playerID]
	if !ok {
		if len(sm.pilots) >= maxSessions {
			sm.mu.Unlock()
			return nil, ErrTooManyPilots
		}
		p = sm.newPilot(playerID, name)
		sm.pilots[playerID] = p
	}
	sm.mu.Unlock()

	p.outMu.Lock()
	prev := p.display
	p.display = display
	p.outMu.Unlock()
	if prev != nil && prev != display {
		prev.SendJSON(Envelope{T: MsgReplaced})
	}

	if !ok {
		sm.analytics.Track(EvtSessionStart, playerID, "", nil)
	}
	return p, nil
}

func (sm *SessionManager) newPilot(playerID int64, name string) *Pilot {
	var data []byte
	if sm.db != nil {
		var err error
		data, err = sm.db.LoadProgression(playerID)
		if err != nil {
			logger.Log.WithFields(logrus.Fields{"player": playerID, "error": err}).Warn("load progression, starting fresh")
		}
	}
	prog := game.NewProgression(sm.cat)
	if data != nil {
		prog = game.DecodeProgression(sm.cat, data)
	}

	p := &Pilot{
		ID:   playerID,
		Name: name,
		prog: prog,
		gen:  game.NewMissionGenerator(sm.cat, game.NewRand(time.Now().UnixNano())),
		sm:   sm,
	}
	p.missions = p.gen.Generate(prog.UpgradeLevelSum())
	return p
}

// GetPilot returns a live pilot by player ID
func (sm *SessionManager) GetPilot(playerID int64) *Pilot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.pilots[playerID]
}

// Release detaches a display. A pilot left without a display abandons any
// flight in progress and is dropped once the flight has reported.
func (sm *SessionManager) Release(p *Pilot, display Broadcaster) {
	p.outMu.Lock()
	if p.display != display {
		p.outMu.Unlock()
		return
	}
	p.display = nil
	ctrl := p.controller
	p.controller = nil
	p.outMu.Unlock()
	if ctrl != nil {
		ctrl.SendJSON(Envelope{T: MsgCtrlOff})
	}

	p.mu.Lock()
	flying := p.flight != nil
	if flying {
		p.flight.Retire()
	}
	p.mu.Unlock()

	if !flying {
		sm.remove(p)
	}
}

func (sm *SessionManager) remove(p *Pilot) {
	sm.mu.Lock()
	if sm.pilots[p.ID] == p {
		delete(sm.pilots, p.ID)
	}
	sm.mu.Unlock()
	sm.analytics.Track(EvtSessionEnd, p.ID, "", nil)
}

// PilotCount returns the number of live pilots
func (sm *SessionManager) PilotCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.pilots)
}

// FlightCount returns the number of pilots currently flying
func (sm *SessionManager) FlightCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	n := 0
	for _, p := range sm.pilots {
		if p.Phase() == PhaseFlying {
			n++
		}
	}
	return n
}

// StopAll halts every flight without applying results
func (sm *SessionManager) StopAll() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for _, p := range sm.pilots {
		p.mu.Lock()
		if p.flight != nil {
			p.flight.Stop()
		}
		p.mu.Unlock()
	}
}

// Phase returns the pilot's current phase
func (p *Pilot) Phase() PilotPhase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// SendJSON forwards to the pilot's display
func (p *Pilot) SendJSON(msg interface{}) {
	p.outMu.RLock()
	d := p.display
	p.outMu.RUnlock()
	if d != nil {
		d.SendJSON(msg)
	}
}

// SendBinary forwards to the pilot's display
func (p *Pilot) SendBinary(data []byte) {
	p.outMu.RLock()
	d := p.display
	p.outMu.RUnlock()
	if d != nil {
		d.SendBinary(data)
	}
}

// SetController links a paired phone; the display is notified
func (p *Pilot) SetController(c Broadcaster) {
	p.outMu.Lock()
	prev := p.controller
	p.controller = c
	p.outMu.Unlock()
	if prev != nil && prev != c {
		prev.SendJSON(Envelope{T: MsgReplaced})
	}
	p.SendJSON(Envelope{T: MsgCtrlOn})
}

// RemoveController unlinks a phone if it is still the active one
func (p *Pilot) RemoveController(c Broadcaster) {
	p.outMu.Lock()
	if p.controller != c {
		p.outMu.Unlock()
		return
	}
	p.controller = nil
	p.outMu.Unlock()
	p.SendJSON(Envelope{T: MsgCtrlOff})
}

// HandleInput forwards control state to the flight, if any
func (p *Pilot) HandleInput(in ClientInput) {
	p.mu.Lock()
	f := p.flight
	p.mu.Unlock()
	if f != nil {
		f.SetInput(in)
	}
}

// Retire abandons the current flight
func (p *Pilot) Retire() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.flight == nil {
		return ErrNotFlying
	}
	p.flight.Retire()
	return nil
}

// Launch starts the offered mission with the given ID
func (p *Pilot) Launch(missionID string) (LaunchedMsg, error) {
	msg, err := p.launch(missionID)
	if err != nil {
		return msg, err
	}
	p.sm.analytics.Track(EvtLaunch, p.ID, "", map[string]interface{}{"mission": msg.Mission.ID, "stars": msg.Mission.Stars})
	logger.Log.WithFields(logrus.Fields{"player": p.ID, "mission": msg.Mission.ID, "stars": msg.Mission.Stars}).Info("flight launched")
	return msg, nil
}

func (p *Pilot) launch(missionID string) (LaunchedMsg, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.phase.CanEdit() {
		return LaunchedMsg{}, ErrInFlight
	}

	var mission *game.Mission
	for i := range p.missions {
		if p.missions[i].ID == missionID {
			mission = &p.missions[i]
			break
		}
	}
	if mission == nil {
		return LaunchedMsg{}, game.ErrUnknownMission
	}

	cfg, err := p.prog.Launch(p.sm.cat, *mission, time.Now().UnixNano())
	if err != nil {
		return LaunchedMsg{}, err
	}
	p.persistLocked()

	p.flight = NewFlight(game.NewRun(p.sm.cat, cfg), p, p.finishFlight)
	p.phase = p.phase.Next(MsgLaunch)
	p.lastResult = nil
	go p.flight.Run()
	return LaunchedMsg{Mission: cfg.Mission, Stats: cfg.Stats}, nil
}

// finishFlight runs on the flight goroutine once the run has ended
func (p *Pilot) finishFlight(res *game.Result) {
	p.mu.Lock()
	p.prog.ApplyResult(res)
	p.persistLocked()
	p.flight = nil
	p.phase = p.phase.Next(MsgResult)
	p.lastResult = res
	p.missions = p.gen.Generate(p.prog.UpgradeLevelSum())
	snapshot := *p.prog
	p.mu.Unlock()

	var unlocked []AchievementDef
	if db := p.sm.db; db != nil && res.Outcome != game.OutcomeFault {
		if _, err := db.RecordRun(p.ID, res); err != nil {
			logger.Log.WithFields(logrus.Fields{"player": p.ID, "error": err}).Warn("record run")
		}
		unlocked = CheckAchievements(db, p.ID, &snapshot, res)
	}
	p.sm.analytics.Track(EvtRunEnd, p.ID, "", map[string]interface{}{
		"mission": res.MissionID, "outcome": res.Outcome, "payout": res.Payout, "elapsed": res.Elapsed,
	})
	for _, a := range unlocked {
		p.sm.analytics.Track(EvtAchievement, p.ID, "", map[string]interface{}{"id": a.ID})
	}

	p.SendJSON(Envelope{T: MsgResult, Data: ResultMsg{Result: res, Achievements: unlocked}})
	p.SendJSON(Envelope{T: MsgHangar, Data: p.Hangar()})

	p.outMu.RLock()
	orphaned := p.display == nil
	p.outMu.RUnlock()
	if orphaned {
		p.sm.remove(p)
	}
}

// persistLocked saves the record; callers hold mu
func (p *Pilot) persistLocked() {
	if p.sm.db == nil {
		return
	}
	data, err := p.prog.Encode()
	if err == nil {
		err = p.sm.db.SaveProgression(p.ID, data)
	}
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"player": p.ID, "error": err}).Error("save progression")
	}
}
