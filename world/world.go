package world

import (
	"log"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/common"
	"github.com/milk9111/caveflyer/ecs"
)

// World owns everything in one round: the object stores, the chipmunk
// space, the terrain collaborator, the global scheduler, and the effect
// queue. A world lives for exactly one round; a new round gets a fresh
// world, which is what resets the global scheduler and the id generator.
type World struct {
	space *cp.Space
	level Level

	store   ecs.EntityStore
	byClass [classCount][]*Object
	handles map[ecs.Entity]*Object

	ids ecs.IDGen

	global      *ecs.Timers[*World]
	globalWake  float64
	globalAccum float64
	globalAwake bool

	effects []Effect
	fields  map[int64]Forcefield
	hud     []HUDNote

	wind   float64
	winner int
	time   float64
}

const classCount = int(ClassParticle) + 1

// NewWorld creates an empty world over the given terrain.
func NewWorld(level Level) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	space.SetDamping(1)

	w := &World{
		space:   space,
		level:   level,
		handles: make(map[ecs.Entity]*Object),
		fields:  make(map[int64]Forcefield),
		global:  ecs.NewTimers[*World](),
		// Round start: the global scheduler wakes immediately so queued
		// startup behavior (terrain regen, level scripts) begins at once.
		globalAwake: true,
	}
	return w
}

// Level returns the terrain collaborator.
func (w *World) Level() Level {
	if w == nil {
		return nil
	}
	return w.level
}

// Time returns the elapsed simulation time in seconds.
func (w *World) Time() float64 {
	if w == nil {
		return 0
	}
	return w.time
}

// Wind returns the current horizontal wind speed.
func (w *World) Wind() float64 {
	if w == nil {
		return 0
	}
	return w.wind
}

// Winner returns the declared round winner, 0 while the round runs.
func (w *World) Winner() int {
	if w == nil {
		return 0
	}
	return w.winner
}

// NextEffectID issues a fresh unique id for forcefields, patches, and
// similar cross-tick effects.
func (w *World) NextEffectID() int64 {
	if w == nil {
		return 0
	}
	return w.ids.Next()
}

// Forcefield looks up a live forcefield by id.
func (w *World) Forcefield(id int64) (Forcefield, bool) {
	if w == nil {
		return Forcefield{}, false
	}
	f, ok := w.fields[id]
	return f, ok
}

// HUD returns the live overlay messages for a player (notes addressed to
// player 0 go to everyone).
func (w *World) HUD(player int) []HUDNote {
	if w == nil {
		return nil
	}
	out := make([]HUDNote, 0, len(w.hud))
	for _, n := range w.hud {
		if n.Player == 0 || n.Player == player {
			out = append(out, n)
		}
	}
	return out
}

// Queue accumulates an effect for application at the end of the step.
func (w *World) Queue(e Effect) {
	if w == nil || e == nil {
		return
	}
	w.effects = append(w.effects, e)
}

// Flush applies all accumulated effects. Step calls this once per tick;
// the host may call it directly after out-of-band event dispatch.
func (w *World) Flush() {
	if w == nil {
		return
	}
	// Applying an effect may queue more (a spawn whose scheduler fires at
	// insertion never does, but scripted spawn chains can). Drain fully.
	for len(w.effects) > 0 {
		pending := w.effects
		w.effects = nil
		for _, e := range pending {
			e.apply(w)
		}
	}
}

// SpawnNow inserts an object immediately, bypassing the effect queue.
// Hosts use it for round setup; behaviors should go through Queue.
func (w *World) SpawnNow(sp Spawn) *Object {
	if w == nil {
		return nil
	}
	return w.insert(sp)
}

func (w *World) insert(sp Spawn) *Object {
	o := newObject(sp)
	o.w = w
	o.handle = w.store.Create()
	if int(sp.Class) >= classCount || sp.Class < 0 {
		log.Printf("world: spawn with unknown class %d dropped", sp.Class)
		w.store.Destroy(o.handle)
		return nil
	}
	w.space.AddBody(o.body)
	w.byClass[sp.Class] = append(w.byClass[sp.Class], o)
	w.handles[o.handle] = o
	return o
}

// Lookup resolves an entity handle, returning nil for dead or stale ones.
func (w *World) Lookup(e ecs.Entity) *Object {
	if w == nil || !w.store.Alive(e) {
		return nil
	}
	o := w.handles[e]
	if o == nil || o.destroyed {
		return nil
	}
	return o
}

// Class iteration is delete-safe: behaviors may destroy any object
// mid-iteration, destroyed entries are skipped and reclaimed at the end
// of the step.

// EachShip visits live ships until fn returns false.
func (w *World) EachShip(fn func(*Object) bool) {
	w.each(ClassShip, fn)
}

// EachClass visits live objects of one class until fn returns false.
func (w *World) EachClass(c Class, fn func(*Object) bool) {
	if c < 0 || int(c) >= classCount {
		return
	}
	w.each(c, fn)
}

// EachMine visits live mines, filtered by owner when owner != 0.
func (w *World) EachMine(owner int, fn func(*Object) bool) {
	w.each(ClassMine, func(o *Object) bool {
		if owner != 0 && o.owner != owner {
			return true
		}
		return fn(o)
	})
}

// EachCritterNear visits live critters within radius of pos, skipping the
// given handle (a critter excludes itself when scanning its flock).
func (w *World) EachCritterNear(pos cp.Vector, radius float64, except ecs.Entity, fn func(*Object) bool) {
	rr := radius * radius
	w.each(ClassCritter, func(o *Object) bool {
		if o.handle == except {
			return true
		}
		if o.Pos().Sub(pos).LengthSq() >= rr {
			return true
		}
		return fn(o)
	})
}

func (w *World) each(c Class, fn func(*Object) bool) {
	if w == nil || fn == nil {
		return
	}
	objs := w.byClass[c]
	for _, o := range objs {
		if o.destroyed {
			continue
		}
		if !fn(o) {
			return
		}
	}
}

// NearestShip returns the closest live ship to pos not owned by
// excludeOwner, or nil.
func (w *World) NearestShip(pos cp.Vector, excludeOwner int) *Object {
	var best *Object
	bestDist := 0.0
	w.each(ClassShip, func(o *Object) bool {
		if excludeOwner != 0 && o.owner == excludeOwner {
			return true
		}
		d := o.Pos().Sub(pos).LengthSq()
		if best == nil || d < bestDist {
			best = o
			bestDist = d
		}
		return true
	})
	return best
}

// Count reports the number of live objects of a class.
func (w *World) Count(c Class) int {
	n := 0
	w.each(c, func(*Object) bool {
		n++
		return true
	})
	return n
}

// ScheduleGlobal adds a timed behavior to the world-level scheduler,
// driving effects not tied to a single object (wind, terrain regen,
// snowfall, scripted level events).
func (w *World) ScheduleGlobal(delay float64, fn ecs.TimerFunc[*World]) {
	if w == nil || fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	w.global.Add(delay+w.globalAccum, fn)
	if !w.globalAwake || delay < w.globalWake {
		w.globalWake = delay
		w.globalAwake = true
	}
}

// GlobalNextWake reports the global scheduler's activation value.
func (w *World) GlobalNextWake() (float64, bool) {
	if w == nil || !w.globalAwake {
		return 0, false
	}
	return w.globalWake, true
}
