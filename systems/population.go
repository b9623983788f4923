package systems

import (
	"fmt"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/traits"
)

// Registry maps one species' ids to entities. Ids start at 1 and are never reused.
type Registry struct {
	species traits.Species
	ids     map[uint32]ecs.Entity
	nextID  uint32
}

// NewRegistry creates an empty registry for a species.
func NewRegistry(species traits.Species) *Registry {
	return &Registry{
		species: species,
		ids:     make(map[uint32]ecs.Entity),
		nextID:  1,
	}
}

// allocate reserves the next id.
func (r *Registry) allocate() components.AgentRef {
	ref := components.AgentRef{Species: r.species, ID: r.nextID}
	r.nextID++
	return ref
}

// Len returns the number of live agents.
func (r *Registry) Len() int {
	return len(r.ids)
}

// NextID returns the id the next agent will receive.
func (r *Registry) NextID() uint32 {
	return r.nextID
}

// IDs returns live ids in ascending order.
func (r *Registry) IDs() []uint32 {
	ids := make([]uint32, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Agent is a set of component pointers for one live agent.
// Pointers are valid until the next entity is created or removed.
type Agent struct {
	Ref   components.AgentRef
	Pos   *components.Position
	Org   *components.Organism
	Needs *components.Needs
	Nav   *components.Navigation
	Bonds *components.Bonds
}

// AgentView is the read-only drawing view of an agent.
type AgentView struct {
	Ref     components.AgentRef
	Species traits.Species
	Pos     components.Position
}

// Population stores agents as ECS entities with one registry per species.
type Population struct {
	world *ecs.World

	mapper *ecs.Map5[
		components.Position,
		components.Organism,
		components.Needs,
		components.Navigation,
		components.Bonds,
	]
	viewFilter *ecs.Filter2[components.Position, components.Organism]

	registries [traits.SpeciesCount]*Registry
	occupancy  *Occupancy
}

// NewPopulation creates an empty population.
func NewPopulation() *Population {
	world := ecs.NewWorld()
	p := &Population{
		world: world,
		mapper: ecs.NewMap5[
			components.Position,
			components.Organism,
			components.Needs,
			components.Navigation,
			components.Bonds,
		](world),
		viewFilter: ecs.NewFilter2[components.Position, components.Organism](world),
		occupancy:  NewOccupancy(),
	}
	for _, s := range traits.AllSpecies {
		p.registries[s] = NewRegistry(s)
	}
	return p
}

func (p *Population) registry(s traits.Species) *Registry {
	s.MustValid()
	return p.registries[s]
}

// Spawn creates an agent with a fresh id at pos.
func (p *Population) Spawn(genome traits.Genome, pos components.Position, born int32) components.AgentRef {
	reg := p.registry(genome.Species)
	ref := reg.allocate()

	org := components.Organism{
		Ref:    ref,
		Genome: genome,
		MaxAge: genome.MaxAge.Dominant,
		Born:   born,
	}
	needs := components.Needs{
		HungerRate: genome.HungerRate.Dominant,
		ThirstRate: genome.ThirstRate.Dominant,
	}
	nav := components.Navigation{}
	bonds := components.Bonds{}

	entity := p.mapper.NewEntity(&pos, &org, &needs, &nav, &bonds)
	reg.ids[ref.ID] = entity
	p.occupancy.Add(pos, ref)
	return ref
}

// Remove deletes an agent. It returns false if the ref was not live.
func (p *Population) Remove(ref components.AgentRef) bool {
	reg := p.registry(ref.Species)
	entity, ok := reg.ids[ref.ID]
	if !ok {
		return false
	}
	if p.world.Alive(entity) {
		pos, _, _, _, _ := p.mapper.Get(entity)
		p.occupancy.Remove(*pos, ref)
		p.world.RemoveEntity(entity)
	}
	delete(reg.ids, ref.ID)
	return true
}

// Get resolves a ref. Stale and empty refs resolve to false.
func (p *Population) Get(ref components.AgentRef) (Agent, bool) {
	if !ref.Valid() || !ref.Species.Valid() {
		return Agent{}, false
	}
	entity, ok := p.registries[ref.Species].ids[ref.ID]
	if !ok || !p.world.Alive(entity) {
		return Agent{}, false
	}
	pos, org, needs, nav, bonds := p.mapper.Get(entity)
	return Agent{Ref: ref, Pos: pos, Org: org, Needs: needs, Nav: nav, Bonds: bonds}, true
}

// MustGet is like Get but panics on a stale ref.
func (p *Population) MustGet(ref components.AgentRef) Agent {
	a, ok := p.Get(ref)
	if !ok {
		panic(fmt.Sprintf("systems: agent %v is not live", ref))
	}
	return a
}

// Alive reports whether ref names a live agent.
func (p *Population) Alive(ref components.AgentRef) bool {
	if !ref.Valid() || !ref.Species.Valid() {
		return false
	}
	_, ok := p.registries[ref.Species].ids[ref.ID]
	return ok
}

// MoveTo relocates an agent and keeps the occupancy index current.
func (p *Population) MoveTo(a Agent, to components.Position) {
	p.occupancy.Move(*a.Pos, to, a.Ref)
	*a.Pos = to
}

// Count returns the number of live agents of a species.
func (p *Population) Count(s traits.Species) int {
	return p.registry(s).Len()
}

// Counts returns live agents per species, indexed by species.
func (p *Population) Counts() [traits.SpeciesCount]int {
	var out [traits.SpeciesCount]int
	for _, s := range traits.AllSpecies {
		out[s] = p.registries[s].Len()
	}
	return out
}

// Total returns the number of live agents.
func (p *Population) Total() int {
	n := 0
	for _, r := range p.registries {
		n += r.Len()
	}
	return n
}

// Refs returns every live agent in tick order: species order, then ascending id.
func (p *Population) Refs() []components.AgentRef {
	refs := make([]components.AgentRef, 0, p.Total())
	for _, s := range traits.AllSpecies {
		for _, id := range p.registries[s].IDs() {
			refs = append(refs, components.AgentRef{Species: s, ID: id})
		}
	}
	return refs
}

// Views returns the drawing view of every live agent in tick order.
func (p *Population) Views() []AgentView {
	views := make([]AgentView, 0, p.Total())

	query := p.viewFilter.Query()
	for query.Next() {
		pos, org := query.Get()
		views = append(views, AgentView{Ref: org.Ref, Species: org.Ref.Species, Pos: *pos})
	}

	slices.SortFunc(views, func(a, b AgentView) int { return compareRef(a.Ref, b.Ref) })
	return views
}

// Occupancy returns the tile index of live agents.
func (p *Population) Occupancy() *Occupancy {
	return p.occupancy
}

// Registry returns the registry for a species.
func (p *Population) Registry(s traits.Species) *Registry {
	return p.registry(s)
}
