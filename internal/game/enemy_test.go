package game

import (
	"math"
	"testing"
)

func TestTakeDamageShieldFirst(t *testing.T) {
	e := &Enemy{HP: 10, MaxHP: 10, Shield: 5, MaxShield: 5}
	if e.TakeDamage(8) {
		t.Fatal("should survive 8 damage")
	}
	if e.Shield != 0 || e.HP != 7 {
		t.Errorf("expected shield 0 hp 7, got %.0f %.0f", e.Shield, e.HP)
	}

	e = &Enemy{HP: 10, MaxHP: 10, Shield: 5, MaxShield: 5}
	e.TakeDamage(3)
	if e.Shield != 2 || e.HP != 10 {
		t.Errorf("expected shield 2 hp 10, got %.0f %.0f", e.Shield, e.HP)
	}

	if !e.TakeDamage(100) {
		t.Error("expected killing blow")
	}
	if !e.Dead || e.HP != 0 {
		t.Errorf("expected dead with 0 hp, got %+v", e)
	}
	if e.TakeDamage(1) {
		t.Error("dead enemy cannot die twice")
	}
}

func TestNewEnemyScaling(t *testing.T) {
	cat := testCatalog(t)
	tier := &EnemyTier{ID: "T", HP: 15, Shield: 5, Movement: "MP001"}
	e := newEnemy(cat, 1, tier, 100, -50, 1.5, 2)

	if e.MaxShield != 7 || e.Shield != 7 {
		t.Errorf("expected shield floor(7.5)=7, got %.1f", e.Shield)
	}
	if e.MaxHP != 30 || e.HP != 30 {
		t.Errorf("expected hp 30, got %.1f", e.HP)
	}
	if e.Speed != 2 || e.Turn != 2 {
		t.Errorf("expected default speed and turn, got %.1f %.1f", e.Speed, e.Turn)
	}
}

func TestNewEnemyUnknownMovement(t *testing.T) {
	cat := testCatalog(t)
	e := newEnemy(cat, 1, &EnemyTier{ID: "T", HP: 10, Movement: "MP999"}, 100, 100, 1, 1)
	if e.Movement != straightDown {
		t.Errorf("expected straight down fallback, got %+v", e.Movement)
	}
	e.Update(0, 0, NewRand(1))
	if e.X != 100 || e.Y != 102 {
		t.Errorf("expected (100,102), got (%.1f,%.1f)", e.X, e.Y)
	}
}

func testEnemy(kind MovementKind, h Heading) *Enemy {
	return &Enemy{
		X: 100, Y: 100, Speed: 2, Turn: 3, HP: 10, MaxHP: 10,
		Movement: MovementPattern{Kind: kind, Heading: h},
		move:     movers[kind],
	}
}

func TestMoveStraightHeadings(t *testing.T) {
	tests := []struct {
		h      Heading
		dx, dy float64
	}{
		{HeadDown, 0, 2},
		{HeadUp, 0, -2},
		{HeadLeft, -2, 0},
		{HeadRight, 2, 0},
	}
	for _, tt := range tests {
		e := testEnemy(MoveStraight, tt.h)
		e.Update(0, 0, NewRand(1))
		if e.X != 100+tt.dx || e.Y != 100+tt.dy {
			t.Errorf("%s: expected (%.0f,%.0f), got (%.1f,%.1f)", tt.h, 100+tt.dx, 100+tt.dy, e.X, e.Y)
		}
	}
}

func TestMoveHomingHalfSpeed(t *testing.T) {
	e := testEnemy(MoveHoming, "")
	e.Update(130, 140, NewRand(1))
	if math.Abs(e.X-100.6) > 1e-9 || math.Abs(e.Y-100.8) > 1e-9 {
		t.Errorf("expected (100.6,100.8), got (%.3f,%.3f)", e.X, e.Y)
	}
}

func TestMoveReflectBounces(t *testing.T) {
	e := testEnemy(MoveReflect, "")
	e.X = FieldWidth - 1
	e.Update(0, 0, NewRand(1))
	if e.VX != -3 {
		t.Errorf("expected reversed VX after crossing the wall, got %.1f", e.VX)
	}
	e.Update(0, 0, NewRand(1))
	if e.X != FieldWidth-1 {
		t.Errorf("expected to head back in, got x=%.1f", e.X)
	}
}

func TestMoveZigzagSways(t *testing.T) {
	e := testEnemy(MoveZigzag, HeadDown)
	for i := 0; i < 20; i++ {
		e.Update(0, 0, NewRand(1))
	}
	if e.Y != 140 {
		t.Errorf("expected y=140 after 20 ticks, got %.1f", e.Y)
	}
	if e.X == 100 {
		t.Error("zigzag should drift sideways")
	}
}

func TestEnemyDespawnAfterGrace(t *testing.T) {
	e := testEnemy(MoveStraight, HeadDown)
	e.Y = FieldHeight + 400
	e.Age = 10
	e.Update(0, 0, NewRand(1))
	if e.Dead {
		t.Error("young enemy should linger off screen")
	}

	e.Age = EnemyGraceTicks
	e.Update(0, 0, NewRand(1))
	if !e.Dead {
		t.Error("old enemy off screen should despawn")
	}
}

func TestFanVolleyAimsAtPlayer(t *testing.T) {
	e := &Enemy{X: 0, Y: 0, Weapon: &EnemyWeapon{Damage: 6, Speed: 4, Cooldown: 100, Shots: 3, Angle: AngleFan}}
	shots := e.fire(0, 100, NewRand(1))
	if len(shots) != 3 {
		t.Fatalf("expected 3 shots, got %d", len(shots))
	}
	want := []float64{math.Pi/2 - FanArc/2, math.Pi / 2, math.Pi/2 + FanArc/2}
	for i, s := range shots {
		if got := math.Atan2(s.VY, s.VX); math.Abs(got-want[i]) > 1e-9 {
			t.Errorf("shot %d: expected angle %.3f, got %.3f", i, want[i], got)
		}
		if s.Damage != 6 || s.Life != EnemyShotLife {
			t.Errorf("shot %d: unexpected %+v", i, s)
		}
	}
	if e.Cooldown != 100 {
		t.Errorf("expected cooldown 100, got %d", e.Cooldown)
	}
	if again := e.fire(0, 100, NewRand(1)); again != nil {
		t.Error("weapon should be cooling down")
	}
}

func TestSingleFanShotAims(t *testing.T) {
	e := &Enemy{X: 0, Y: 0, Weapon: &EnemyWeapon{Speed: 4, Shots: 1, Angle: AngleFan}}
	shots := e.fire(100, 0, NewRand(1))
	if len(shots) != 1 || math.Abs(shots[0].VX-4) > 1e-9 || math.Abs(shots[0].VY) > 1e-9 {
		t.Errorf("single fan shot should go at the player, got %+v", shots)
	}
	if e.Cooldown != DefaultEnemyCooldown {
		t.Errorf("expected default cooldown, got %d", e.Cooldown)
	}
}

func TestSpiralVolley(t *testing.T) {
	w := &EnemyWeapon{Shots: 2, Angle: AngleSpiral}
	e := &Enemy{Age: 10}
	got := volleyAngles(w, e, 0, 0, NewRand(1))
	want := []float64{math.Pi/2 + 2.0, math.Pi/2 + 2.2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("shot %d: expected %.3f, got %.3f", i, want[i], got[i])
		}
	}
}

func TestSprayStaysNearAim(t *testing.T) {
	w := &EnemyWeapon{Shots: 20, Angle: AngleSpray}
	e := &Enemy{}
	for _, a := range volleyAngles(w, e, 0, 100, NewRand(7)) {
		if math.Abs(a-math.Pi/2) > 0.5 {
			t.Errorf("spray angle %.3f strays past 0.5 rad", a)
		}
	}
}
