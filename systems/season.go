package systems

import (
	"log/slog"

	"github.com/pthm-cable/warren/config"
)

// Modifiers are the season multipliers applied to agents for one tick.
// They are never stored on agents.
type Modifiers struct {
	Hunger   float64 // hunger rate multiplier
	Thirst   float64 // thirst rate multiplier
	Breeding float64 // mating cooldown advances by 1/Breeding per tick
	Berry    float64 // regrowth volume multiplier
}

// NoModifiers leaves every rate unchanged.
var NoModifiers = Modifiers{Hunger: 1, Thirst: 1, Breeding: 1, Berry: 1}

// Season is the cyclic season clock.
type Season struct {
	table  []config.SeasonConfig
	length int
	index  int
	tick   int
}

// NewSeason creates a clock at tick 0 of the first season in the table.
func NewSeason(table []config.SeasonConfig, length int) *Season {
	if len(table) == 0 {
		panic("systems: season table is empty")
	}
	if length < 1 {
		length = 1
	}
	return &Season{table: table, length: length}
}

// Advance moves the clock one tick. It returns true when the season changed.
func (s *Season) Advance() bool {
	s.tick++
	if s.tick < s.length {
		return false
	}
	s.tick = 0
	s.index = (s.index + 1) % len(s.table)
	return true
}

// Index returns the current season's position in the table.
func (s *Season) Index() int {
	return s.index
}

// Name returns the current season's name.
func (s *Season) Name() string {
	return s.table[s.index].Name
}

// Tick returns the tick within the current season.
func (s *Season) Tick() int {
	return s.tick
}

// Length returns the ticks per season.
func (s *Season) Length() int {
	return s.length
}

// SetTick moves the clock within the current season.
func (s *Season) SetTick(tick int) {
	if tick < 0 {
		tick = 0
	}
	if tick >= s.length {
		tick = s.length - 1
	}
	s.tick = tick
}

// SetIndex moves the clock to the start of season i. Out-of-range indexes wrap.
func (s *Season) SetIndex(i int) {
	n := len(s.table)
	s.index = ((i % n) + n) % n
	s.tick = 0
}

// Modifiers returns the multipliers for the current season.
func (s *Season) Modifiers() Modifiers {
	row := s.table[s.index]
	return Modifiers{
		Hunger:   row.Hunger,
		Thirst:   row.Thirst,
		Breeding: row.Breeding,
		Berry:    row.Berry,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s *Season) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", s.Name()),
		slog.Int("tick", s.tick),
	)
}
