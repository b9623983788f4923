package components

import "github.com/pthm-cable/warren/traits"

// Organism bundles identity, genome, and life-cycle timers.
type Organism struct {
	Ref    AgentRef
	Genome traits.Genome
	MaxAge float64 // expressed max age
	Age    int

	Satiation int     // ticks of rest left after eating, drinking or mating
	Cooldown  float64 // mating cooldown; 0 means ready

	BerryPreference int // omnivores: berry searches preferred after a hunt
	HuntCooldown    int // omnivores: ticks until hunting again

	Born int32 // tick of birth
}

// Needs tracks hunger and thirst accumulators and their per-tick rates.
// Rates may be season-scaled for the duration of one tick.
type Needs struct {
	Hunger     float64
	Thirst     float64
	HungerRate float64
	ThirstRate float64
}

// Bonds holds references to other agents and the mating rendezvous.
type Bonds struct {
	Mate          AgentRef
	Rendezvous    Position
	HasRendezvous bool
	HuntedBy      AgentRef // prey: claiming hunter
	Prey          AgentRef // hunters: claimed prey
}

// ClearRendezvous drops the meeting point.
func (b *Bonds) ClearRendezvous() {
	b.Rendezvous = Position{}
	b.HasRendezvous = false
}
