package systems

import (
	"testing"

	"github.com/pthm-cable/warren/config"
)

func TestSeasonAdvance(t *testing.T) {
	table := config.Default().Seasons
	s := NewSeason(table, 3)

	var changes []int
	for tick := 1; tick <= 3*len(table); tick++ {
		if s.Advance() {
			changes = append(changes, tick)
		}
	}

	want := []int{3, 6, 9, 12}
	if len(changes) != len(want) {
		t.Fatalf("changes at %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d at tick %d, want %d", i, changes[i], want[i])
		}
	}
	if s.Index() != 0 || s.Tick() != 0 {
		t.Errorf("after a full year: index %d tick %d, want 0 0", s.Index(), s.Tick())
	}
}

func TestSeasonModifiers(t *testing.T) {
	table := []config.SeasonConfig{
		{Name: "Dry", Hunger: 1.5, Thirst: 2, Breeding: 0.5, Berry: 0.25},
		{Name: "Wet", Hunger: 1, Thirst: 1, Breeding: 1, Berry: 2},
	}
	s := NewSeason(table, 1)

	if got := s.Modifiers(); got != (Modifiers{Hunger: 1.5, Thirst: 2, Breeding: 0.5, Berry: 0.25}) {
		t.Errorf("Dry modifiers = %+v", got)
	}
	s.Advance()
	if s.Name() != "Wet" || s.Modifiers().Berry != 2 {
		t.Errorf("after Advance: %s %+v", s.Name(), s.Modifiers())
	}
}

func TestSeasonSetTickClamps(t *testing.T) {
	s := NewSeason(config.Default().Seasons, 10)

	tests := []struct{ in, want int }{
		{-5, 0},
		{4, 4},
		{10, 9},
		{99, 9},
	}
	for _, tt := range tests {
		s.SetTick(tt.in)
		if s.Tick() != tt.want {
			t.Errorf("SetTick(%d): Tick = %d, want %d", tt.in, s.Tick(), tt.want)
		}
	}
}

func TestNewSeasonEmptyTablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewSeason with an empty table did not panic")
		}
	}()
	NewSeason(nil, 10)
}

func TestSeasonSetIndexWraps(t *testing.T) {
	table := config.Default().Seasons
	s := NewSeason(table, 10)
	s.SetTick(5)

	s.SetIndex(2)
	if s.Index() != 2 || s.Tick() != 0 || s.Name() != table[2].Name {
		t.Errorf("SetIndex(2): index %d tick %d name %s", s.Index(), s.Tick(), s.Name())
	}
	s.SetIndex(len(table) + 1)
	if s.Index() != 1 {
		t.Errorf("SetIndex(len+1): index %d, want 1", s.Index())
	}
	s.SetIndex(-1)
	if s.Index() != len(table)-1 {
		t.Errorf("SetIndex(-1): index %d, want %d", s.Index(), len(table)-1)
	}
}
