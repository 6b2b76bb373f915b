package main

import (
	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/sirupsen/logrus"
)

// AchievementDef describes one unlockable
type AchievementDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var Achievements = []AchievementDef{
	{"first_delivery", "First Delivery", "Complete a mission"},
	{"courier", "Courier", "Complete 10 missions"},
	{"express", "Express", "Deliver ahead of the target time"},
	{"untouched", "Untouched", "Deliver without hull damage"},
	{"five_star", "Five Star", "Complete a 5-star mission"},
	{"demolition", "Demolition", "Destroy 100 enemies"},
	{"scrapper", "Scrapper", "Destroy 1000 enemies"},
	{"stubborn", "Stubborn", "Fail 10 missions"},
	{"tycoon", "Tycoon", "Hold 100000 credits"},
	{"frequent_flyer", "Frequent Flyer", "Launch 50 missions"},
}

// earned reports whether a record (and the run that just ended) meets an achievement
func earned(id string, p *game.Progression, res *game.Result) bool {
	delivered := res != nil && res.Outcome == game.OutcomeSuccess
	switch id {
	case "first_delivery":
		return p.Career.Cleared >= 1
	case "courier":
		return p.Career.Cleared >= 10
	case "express":
		return delivered && res.TimeBonus > 0
	case "untouched":
		return delivered && res.HullDamage == 0
	case "five_star":
		return delivered && res.Stars >= 5
	case "demolition":
		return p.Career.Destroyed >= 100
	case "scrapper":
		return p.Career.Destroyed >= 1000
	case "stubborn":
		return p.Career.Failed >= 10
	case "tycoon":
		return p.Money >= 100000
	case "frequent_flyer":
		return p.Career.Started >= 50
	}
	return false
}

// CheckAchievements unlocks whatever the record now qualifies for and
// returns the newly unlocked definitions.
func CheckAchievements(db *DB, playerID int64, p *game.Progression, res *game.Result) []AchievementDef {
	if db == nil {
		return nil
	}
	existing, err := db.GetAchievements(playerID)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"player": playerID, "error": err}).Warn("load achievements")
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, id := range existing {
		has[id] = true
	}

	var unlocked []AchievementDef
	for _, def := range Achievements {
		if has[def.ID] || !earned(def.ID, p, res) {
			continue
		}
		if ok, err := db.UnlockAchievement(playerID, def.ID); err == nil && ok {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}
