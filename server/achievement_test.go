package main

import (
	"testing"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
)

func TestEarned(t *testing.T) {
	cat := testCatalog(t)
	success := &game.Result{Outcome: game.OutcomeSuccess, Stars: 5, TimeBonus: 10}
	bruised := &game.Result{Outcome: game.OutcomeSuccess, Stars: 2, HullDamage: 3}
	failed := &game.Result{Outcome: game.OutcomeFailure, Stars: 5, TimeBonus: 10}

	rich := game.NewProgression(cat)
	rich.Money = 100000
	veteran := game.NewProgression(cat)
	veteran.Career = game.CareerStats{Started: 50, Cleared: 10, Failed: 10, Destroyed: 1000}

	tests := []struct {
		id   string
		p    *game.Progression
		res  *game.Result
		want bool
	}{
		{"first_delivery", game.NewProgression(cat), success, false},
		{"first_delivery", veteran, nil, true},
		{"express", game.NewProgression(cat), success, true},
		{"express", game.NewProgression(cat), failed, false},
		{"untouched", game.NewProgression(cat), success, true},
		{"untouched", game.NewProgression(cat), bruised, false},
		{"five_star", game.NewProgression(cat), failed, false},
		{"five_star", game.NewProgression(cat), success, true},
		{"tycoon", rich, nil, true},
		{"scrapper", veteran, nil, true},
		{"stubborn", veteran, nil, true},
		{"frequent_flyer", veteran, nil, true},
		{"no_such", veteran, success, false},
	}
	for _, tt := range tests {
		if got := earned(tt.id, tt.p, tt.res); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestCheckAchievementsUnlocksOnce(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateGuest("Guest_ach")
	p := game.NewProgression(testCatalog(t))
	p.Career.Cleared = 1
	res := &game.Result{Outcome: game.OutcomeSuccess, Stars: 1, HullDamage: 1}

	got := CheckAchievements(db, id, p, res)
	if len(got) != 1 || got[0].ID != "first_delivery" {
		t.Fatalf("expected first_delivery, got %+v", got)
	}
	if again := CheckAchievements(db, id, p, res); len(again) != 0 {
		t.Errorf("achievement unlocked twice: %+v", again)
	}
	if CheckAchievements(nil, id, p, res) != nil {
		t.Error("nil db should unlock nothing")
	}
}
