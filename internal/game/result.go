package game

import "math"

const (
	MaxTimeBonus     = 0.3 // share of reward added for an early arrival
	MaxLateReduction = 0.2 // share of reward withheld for a late arrival
)

// Result is the terminal report of a run
type Result struct {
	Outcome    Outcome `json:"outcome"`
	Cause      string  `json:"cause"`
	MissionID  string  `json:"mission_id"`
	Stars      int     `json:"stars"`
	Reward     int     `json:"reward"`
	TimeBonus  int     `json:"time_bonus"` // negative when late
	Payout     int     `json:"payout"`
	Penalty    int     `json:"penalty"`
	Elapsed    float64 `json:"elapsed"`
	TargetTime int     `json:"target_time"`
	Score      int     `json:"score"`
	Destroyed  int     `json:"destroyed"`
	HullDamage float64 `json:"hull_damage"`
	Loot       Loot    `json:"loot"`
}

// TimeAdjustment returns the bonus (positive) or reduction (negative) of a
// delivery that took elapsed seconds against a target.
func TimeAdjustment(reward int, elapsed float64, target int) int {
	if target <= 0 {
		return 0
	}
	diff := float64(target) - elapsed
	ratio := math.Abs(diff) / float64(target)
	if diff > 0 {
		return int(math.Floor(float64(reward) * math.Min(MaxTimeBonus, ratio)))
	}
	return -int(math.Floor(float64(reward) * math.Min(MaxLateReduction, ratio)))
}

// finish records the terminal state once
func (r *Run) finish(o Outcome, cause string) {
	if r.result != nil {
		return
	}
	r.outcome = o
	res := &Result{
		Outcome:    o,
		Cause:      cause,
		MissionID:  r.mission.ID,
		Stars:      r.mission.Stars,
		Reward:     r.mission.Reward,
		Elapsed:    r.elapsed,
		TargetTime: r.mission.TargetTime,
		Score:      r.score,
		Destroyed:  r.destroyed,
		HullDamage: math.Max(0, r.maxHP-math.Max(0, r.hp)),
		Loot:       r.loot,
	}
	switch o {
	case OutcomeSuccess:
		res.TimeBonus = TimeAdjustment(r.mission.Reward, r.elapsed, r.mission.TargetTime)
		res.Payout = r.mission.Reward + res.TimeBonus
		r.emit(CueClear)
	case OutcomeFailure:
		res.Penalty = r.mission.Penalty
		r.emit(CueFail)
	case OutcomeFault:
		r.emit(CueError)
	}
	r.result = res
}
