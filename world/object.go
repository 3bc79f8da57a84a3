package world

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/ecs"
)

// Class sorts objects into the host's collision and update categories.
type Class int

const (
	ClassShip Class = iota
	ClassBullet
	ClassMine
	ClassCritter
	ClassFixed
	ClassParticle
)

func (c Class) String() string {
	switch c {
	case ClassShip:
		return "ship"
	case ClassBullet:
		return "bullet"
	case ClassMine:
		return "mine"
	case ClassCritter:
		return "critter"
	case ClassFixed:
		return "fixed"
	case ClassParticle:
		return "particle"
	}
	return "unknown"
}

// Control is the per-ship input state set by the host each frame.
type Control struct {
	Thrust        bool
	Turn          float64 // -1..1
	FirePrimary   bool
	FireSecondary bool
	Recall        bool
}

// ShipState carries the ship-only fields of an Object.
type ShipState struct {
	Control           Control
	PrimaryCooldown   float64
	SecondaryCooldown float64
	Health            float64
	onBase            bool
}

// CritterState carries the critter-only fields of an Object.
type CritterState struct {
	Walking   int8 // -1, 0, 1
	Facing    int8
	WalkSpeed float64
	Action    bool
	actionEnd float64
	grounded  bool
}

// Spawn is the free-form attribute record a spawn command carries. Zero
// values fall back to the host defaults (mass 30, drag 0.0025, radius 2).
type Spawn struct {
	Class   Class
	Pos     cp.Vector
	Vel     cp.Vector
	Mass    float64
	Radius  float64
	Drag    float64
	Owner   int
	Color   uint32
	Texture string

	// Damage is what this object deals on contact; Health is what it can
	// absorb before destruction. Both land in the object scratch fields.
	Damage float64
	Health float64

	Behaviors Behaviors
	Timers    *ecs.Timers[*Object]

	Ship    *ShipState
	Critter *CritterState
}

// Object is one live game object: physics body, dispatch table, optional
// scheduler, and the cached activation value the tick loop uses to skip
// dormant objects.
type Object struct {
	w      *World
	handle ecs.Entity
	class  Class
	owner  int

	body   *cp.Body
	radius float64
	drag   float64

	color   uint32
	texture string

	behaviors Behaviors

	timers    *ecs.Timers[*Object]
	nextWake  float64
	wakeAccum float64
	awake     bool

	destroyed bool

	// Content scratch. Damage is dealt on impact; Health gates destruction
	// for critters and fixed objects; FieldID ties an object to an effect
	// created through the id generator.
	Damage  float64
	Health  float64
	FieldID int64
	Target  ecs.Entity

	ship    *ShipState
	critter *CritterState
}

// World returns the world this object lives in, or nil before insertion.
func (o *Object) World() *World {
	if o == nil {
		return nil
	}
	return o.w
}

// Handle returns the object's entity handle.
func (o *Object) Handle() ecs.Entity {
	if o == nil {
		return 0
	}
	return o.handle
}

func (o *Object) Class() Class { return o.class }

func (o *Object) Owner() int { return o.owner }

func (o *Object) Radius() float64 { return o.radius }

func (o *Object) Color() uint32 { return o.color }

func (o *Object) Texture() string { return o.texture }

// Disown clears the owner so the object can harm its former owner.
func (o *Object) Disown() {
	if o != nil {
		o.owner = 0
	}
}

func (o *Object) Pos() cp.Vector {
	if o == nil || o.body == nil {
		return cp.Vector{}
	}
	return o.body.Position()
}

func (o *Object) Vel() cp.Vector {
	if o == nil || o.body == nil {
		return cp.Vector{}
	}
	return o.body.Velocity()
}

// SetPos teleports the object. Safe from behavior callbacks; the physics
// space is never mid-step while behaviors run.
func (o *Object) SetPos(v cp.Vector) {
	if o == nil || o.body == nil {
		return
	}
	o.body.SetPosition(v)
}

func (o *Object) SetVel(v cp.Vector) {
	if o == nil || o.body == nil {
		return
	}
	o.body.SetVelocity(v.X, v.Y)
}

func (o *Object) Angle() float64 {
	if o == nil || o.body == nil {
		return 0
	}
	return o.body.Angle()
}

// Impulse applies an instantaneous momentum change at the center of mass.
func (o *Object) Impulse(v cp.Vector) {
	if o == nil || o.body == nil {
		return
	}
	o.body.ApplyImpulseAtWorldPoint(v, o.body.Position())
}

// Ship returns the ship-only state, or nil for other classes.
func (o *Object) Ship() *ShipState {
	if o == nil {
		return nil
	}
	return o.ship
}

// Critter returns the critter-only state, or nil for other classes.
func (o *Object) Critter() *CritterState {
	if o == nil {
		return nil
	}
	return o.critter
}

// Behaviors returns the dispatch table for direct composition.
func (o *Object) Behaviors() *Behaviors {
	if o == nil {
		return nil
	}
	return &o.behaviors
}

// Destroyed reports whether the object is flagged for removal.
func (o *Object) Destroyed() bool {
	return o == nil || o.destroyed
}

// Destroy flags the object for removal at the end of the step and fires
// its OnDestroy slot once. Any pending timers are dropped; destruction is
// the only cancellation primitive.
func (o *Object) Destroy() {
	if o == nil || o.destroyed {
		return
	}
	o.destroyed = true
	// Stop is visible to a Service call currently iterating the set, so
	// no sibling entry runs against the dead owner.
	o.timers.Stop()
	o.timers = nil
	o.awake = false
	if o.behaviors.OnDestroy != nil {
		o.behaviors.OnDestroy(o)
	}
}

// Schedule adds a timed behavior to this object's scheduler, creating the
// scheduler on first use. The cached activation value is lowered when the
// new delay is sooner; this is the only way a dormant object transitions
// back into the tick loop.
func (o *Object) Schedule(delay float64, fn ecs.TimerFunc[*Object]) {
	if o == nil || o.destroyed || fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	if o.timers == nil {
		o.timers = ecs.NewTimers[*Object]()
	}
	// Entry countdowns are relative to the owner's last service, so
	// compensate for the time already accumulated since then.
	o.timers.Add(delay+o.wakeAccum, fn)
	if !o.awake || delay < o.nextWake {
		o.nextWake = delay
		o.awake = true
	}
}

// NextWake reports the cached activation value. ok=false means dormant.
func (o *Object) NextWake() (float64, bool) {
	if o == nil || !o.awake {
		return 0, false
	}
	return o.nextWake, true
}

func defaultMass(m float64) float64 {
	if m <= 0 {
		return 30
	}
	return m
}

func defaultRadius(r float64) float64 {
	if r <= 0 {
		return 2
	}
	return r
}

func defaultDrag(d float64) float64 {
	if d <= 0 {
		return 0.0025
	}
	return d
}

func newObject(sp Spawn) *Object {
	var body *cp.Body
	if sp.Class == ClassFixed {
		body = cp.NewStaticBody()
		body.SetPosition(sp.Pos)
	} else {
		body = cp.NewBody(defaultMass(sp.Mass), math.Inf(1))
		body.SetPosition(sp.Pos)
		body.SetVelocity(sp.Vel.X, sp.Vel.Y)
		if sp.Vel.X != 0 || sp.Vel.Y != 0 {
			body.SetAngle(math.Atan2(sp.Vel.Y, sp.Vel.X))
		}
	}

	o := &Object{
		class:     sp.Class,
		owner:     sp.Owner,
		body:      body,
		radius:    defaultRadius(sp.Radius),
		drag:      defaultDrag(sp.Drag),
		color:     sp.Color,
		texture:   sp.Texture,
		behaviors: sp.Behaviors,
		Damage:    sp.Damage,
		Health:    sp.Health,
		ship:      sp.Ship,
		critter:   sp.Critter,
	}
	if sp.Timers != nil && sp.Timers.Len() > 0 {
		o.timers = sp.Timers
		// The initial activation value is the soonest pending entry.
		if next, ok := sp.Timers.NextWake(); ok {
			o.nextWake = next
			o.awake = true
		}
	}
	return o
}
