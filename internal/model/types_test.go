package model

import "testing"

func ringConfig(custom int, usingCustom bool) RateConfig {
	return RateConfig{
		Presets:     []int{20, 30, 40, 50},
		Custom:      custom,
		UsingCustom: usingCustom,
	}
}

func TestMoveUpWrapsWithoutCustom(t *testing.T) {
	r := ringConfig(0, false)
	r.SelectedPreset = 0
	r.MoveUp()
	if r.UsingCustom {
		t.Fatalf("expected preset selection, got custom")
	}
	if r.SelectedPreset != 3 {
		t.Fatalf("SelectedPreset = %d, want 3", r.SelectedPreset)
	}
}

func TestMoveDownWrapsWithoutCustom(t *testing.T) {
	r := ringConfig(0, false)
	r.SelectedPreset = 3
	r.MoveDown()
	if r.UsingCustom {
		t.Fatalf("expected preset selection, got custom")
	}
	if r.SelectedPreset != 0 {
		t.Fatalf("SelectedPreset = %d, want 0", r.SelectedPreset)
	}
}

func TestMoveDownFromCustomLandsOnFirstPreset(t *testing.T) {
	r := ringConfig(75, true)
	r.MoveDown()
	if r.UsingCustom {
		t.Fatalf("expected custom cleared")
	}
	if r.SelectedPreset != 0 {
		t.Fatalf("SelectedPreset = %d, want 0", r.SelectedPreset)
	}
	if r.Current() != 20 {
		t.Fatalf("Current() = %d, want 20", r.Current())
	}
}

func TestMoveUpFromFirstPresetEntersCustom(t *testing.T) {
	r := ringConfig(75, false)
	r.SelectedPreset = 0
	r.MoveUp()
	if !r.UsingCustom {
		t.Fatalf("expected custom selection")
	}
	if r.Current() != 75 {
		t.Fatalf("Current() = %d, want 75", r.Current())
	}
}

func TestMoveDownFromLastPresetEntersCustom(t *testing.T) {
	r := ringConfig(75, false)
	r.SelectedPreset = 3
	r.MoveDown()
	if !r.UsingCustom {
		t.Fatalf("expected custom selection")
	}
}

func TestSetCustomBounds(t *testing.T) {
	tests := []struct {
		value int
		ok    bool
	}{
		{0, false},
		{1, true},
		{500, true},
		{1000, true},
		{1001, false},
		{-5, false},
	}
	for _, tt := range tests {
		r := ringConfig(0, false)
		if got := r.SetCustom(tt.value); got != tt.ok {
			t.Errorf("SetCustom(%d) = %v, want %v", tt.value, got, tt.ok)
		}
		if tt.ok && !r.UsingCustom {
			t.Errorf("SetCustom(%d) did not activate custom mode", tt.value)
		}
	}
}

func TestTargetCycleNeverInvalid(t *testing.T) {
	target := ButtonPrimary
	for i := 0; i < 5; i++ {
		target = target.Next()
		if target != ButtonPrimary && target != ButtonSecondary {
			t.Fatalf("invalid target after %d cycles: %d", i+1, target)
		}
	}
	if ButtonPrimary.Next() != ButtonSecondary {
		t.Fatalf("primary should cycle to secondary")
	}
	if ButtonSecondary.Next() != ButtonPrimary {
		t.Fatalf("secondary should cycle to primary")
	}
}

func TestCurrentFallsBackToFirstPreset(t *testing.T) {
	r := RateConfig{Presets: []int{20, 30}, SelectedPreset: 9}
	if r.Current() != 20 {
		t.Fatalf("Current() = %d, want fallback 20", r.Current())
	}
}
