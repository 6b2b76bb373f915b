package game

// Cue is a named audio trigger emitted by the simulation or the hangar
type Cue string

const (
	CueShoot     Cue = "shoot"
	CueMissile   Cue = "missile"
	CueHit       Cue = "hit"
	CueExplosion Cue = "explosion"
	CueCollect   Cue = "collect"
	CueBlock     Cue = "block"
	CueWeather   Cue = "weather"
	CueClear     Cue = "clear"
	CueFail      Cue = "fail"
	CueBuy       Cue = "buy"
	CueSell      Cue = "sell"
	CueUpgrade   Cue = "upgrade"
	CuePlace     Cue = "place"
	CueUnlock    Cue = "unlock"
	CueError     Cue = "error"
	CueClick     Cue = "click"
)

func (r *Run) emit(c Cue) {
	r.events = append(r.events, c)
}

// DrainEvents returns the cues emitted since the last drain
func (r *Run) DrainEvents() []Cue {
	out := r.events
	r.events = nil
	return out
}
