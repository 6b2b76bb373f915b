package game

import "testing"

func TestBuffApplyMerge(t *testing.T) {
	tests := []struct {
		name      string
		first     Buff
		mag       float64
		ticks     int
		wantMag   float64
		wantTicks int
	}{
		{"weaker but longer keeps magnitude", Buff{Magnitude: 5, Remaining: 10}, 3, 20, 5, 20},
		{"stronger but shorter keeps duration", Buff{Magnitude: 5, Remaining: 10}, 8, 5, 8, 10},
		{"stronger and longer replaces", Buff{Magnitude: 1, Remaining: 1}, 2, 2, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make(Buffs)
			b.Apply(BuffPower, tt.first.Magnitude, tt.first.Remaining)
			b.Apply(BuffPower, tt.mag, tt.ticks)
			got := b[BuffPower]
			if got.Magnitude != tt.wantMag || got.Remaining != tt.wantTicks {
				t.Errorf("got (%.0f, %d), want (%.0f, %d)", got.Magnitude, got.Remaining, tt.wantMag, tt.wantTicks)
			}
		})
	}
}

func TestBuffTickExpires(t *testing.T) {
	b := make(Buffs)
	b.Apply(BuffSpeed, 1.3, 2)
	b.Apply(BuffInvincible, 1, 0)

	if b.Active(BuffInvincible) {
		t.Error("zero-duration buff should not apply")
	}
	b.Tick()
	if !b.Active(BuffSpeed) {
		t.Fatal("buff expired early")
	}
	b.Tick()
	if b.Active(BuffSpeed) {
		t.Error("buff should expire after its duration")
	}
	if m := b.Magnitude(BuffSpeed, 1); m != 1 {
		t.Errorf("expected default magnitude, got %.2f", m)
	}
}
