package world

import (
	"log"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/common"
	"github.com/milk9111/caveflyer/ecs"
)

// Step advances the world by dt seconds: ship control, forces, physics,
// collision dispatch, timer servicing, the global scheduler, and finally
// the accumulated effects. The whole step runs on one goroutine; behavior
// callbacks run to completion and never block.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	w.time += dt

	w.stepShips(dt)
	w.applyForces(dt)
	w.space.Step(dt)
	w.stepTerrainContact(dt)
	w.stepCollisions()
	w.stepCritters(dt)
	w.serviceTimers(dt)
	w.serviceGlobal(dt)
	w.stepHUD(dt)
	w.Flush()
	w.sweep()
}

func (w *World) stepShips(dt float64) {
	w.each(ClassShip, func(o *Object) bool {
		sh := o.ship
		if sh == nil {
			return true
		}
		if sh.PrimaryCooldown > 0 {
			sh.PrimaryCooldown -= dt
		}
		if sh.SecondaryCooldown > 0 {
			sh.SecondaryCooldown -= dt
		}

		if sh.Control.Turn != 0 {
			o.body.SetAngle(o.body.Angle() + sh.Control.Turn*shipTurnRate*dt)
		}
		if sh.Control.Thrust {
			thrust := cp.ForAngle(o.body.Angle()).Mult(shipThrust)
			o.body.ApplyForceAtWorldPoint(thrust, o.body.Position())
			if o.behaviors.OnThrust != nil {
				o.behaviors.OnThrust(o)
			}
		}
		if sh.Control.FirePrimary && sh.PrimaryCooldown <= 0 && o.behaviors.OnFirePrimary != nil {
			// The slot sets the next cooldown itself; a weapon decides
			// its own rate of fire.
			o.behaviors.OnFirePrimary(o)
		}
		if sh.Control.FireSecondary && sh.SecondaryCooldown <= 0 && o.behaviors.OnFireSecondary != nil {
			o.behaviors.OnFireSecondary(o)
		}
		if sh.Control.Recall && o.behaviors.OnShipRecall != nil {
			sh.Control.Recall = false
			o.behaviors.OnShipRecall(o, w.level.ClassifyAt(o.Pos()))
		}
		return true
	})
}

const (
	shipTurnRate = 3.5
	shipThrust   = 9000.0
	shipLandMax  = 25.0 // max landing speed for base contact
)

func (w *World) applyForces(dt float64) {
	for c := 0; c < classCount; c++ {
		if Class(c) == ClassFixed {
			continue
		}
		for _, o := range w.byClass[c] {
			if o.destroyed {
				continue
			}
			vel := o.body.Velocity()

			// Drag pulls horizontal velocity toward the wind speed, so
			// light objects drift and heavy ones barely notice.
			if o.drag > 0 {
				vel.X += (w.wind - vel.X) * o.drag * dt * 60
				vel.Y -= vel.Y * o.drag * dt * 60
				o.body.SetVelocity(vel.X, vel.Y)
			}

			// Water cancels gravity, so swimmers hold their depth.
			if w.level.ClassifyAt(o.body.Position()) == TerrainWater {
				lift := cp.Vector{Y: -common.Gravity * o.body.Mass()}
				o.body.ApplyForceAtWorldPoint(lift, o.body.Position())
			}

			// Grounded critters get ground support, so walkers do not
			// sink through the floor.
			if o.critter != nil {
				below := w.level.ClassifyAt(o.body.Position().Add(cp.Vector{Y: o.radius + 1}))
				if (below.Solid() || below == TerrainBase) && o.body.Velocity().Y >= 0 {
					if v := o.body.Velocity(); v.Y > 0 {
						o.body.SetVelocity(v.X, 0)
					}
					support := cp.Vector{Y: -common.Gravity * o.body.Mass()}
					o.body.ApplyForceAtWorldPoint(support, o.body.Position())
				}
			}

			for _, f := range w.fields {
				if !f.Bounds.ContainsVect(o.body.Position()) {
					continue
				}
				force := f.UniformForce
				if f.PointForce != 0 {
					center := f.Bounds.Center()
					away := o.body.Position().Sub(center)
					d := away.Length()
					if d > 1 {
						force = force.Add(away.Mult(f.PointForce / (d * d)))
					}
				}
				o.body.ApplyForceAtWorldPoint(force, o.body.Position())
			}
		}
	}
}

func (w *World) stepTerrainContact(dt float64) {
	// Projectiles explode on solid terrain; particles melt into it.
	for _, c := range []Class{ClassBullet, ClassMine, ClassParticle} {
		w.each(c, func(o *Object) bool {
			ter := w.level.ClassifyAt(o.Pos())
			if ter.Solid() {
				o.impact(ter, nil)
			}
			return true
		})
	}

	// Ships bounce off solid terrain and land on bases.
	w.each(ClassShip, func(o *Object) bool {
		ter := w.level.ClassifyAt(o.Pos())
		if ter.Solid() {
			vel := o.body.Velocity()
			o.body.SetVelocity(-vel.X*0.5, -vel.Y*0.5)
			o.body.SetPosition(o.body.Position().Add(vel.Mult(-dt)))
		}
		if sh := o.ship; sh != nil {
			below := w.level.ClassifyAt(o.Pos().Add(cp.Vector{Y: o.radius + 1}))
			onBase := below == TerrainBase && o.body.Velocity().Length() < shipLandMax
			if onBase && !sh.onBase && o.behaviors.OnBase != nil {
				o.behaviors.OnBase(o)
			}
			sh.onBase = onBase
		}
		return true
	})
}

func checkOverlap(a, b *Object) bool {
	r := a.radius + b.radius
	return b.Pos().Sub(a.Pos()).LengthSq() < r*r
}

// collisionImpulse returns the impulse to apply to a (negated for b) for
// an inelastic bump, or false when the pair is separating.
func collisionImpulse(a, b *Object) (cp.Vector, bool) {
	if !checkOverlap(a, b) {
		return cp.Vector{}, false
	}
	n := b.Pos().Sub(a.Pos())
	if n.LengthSq() == 0 {
		n = cp.Vector{X: 1}
	} else {
		n = n.Normalize()
	}
	rel := a.Vel().Sub(b.Vel())
	approach := rel.Dot(n)
	if approach <= 0 {
		return cp.Vector{}, false
	}
	ma, mb := a.body.Mass(), b.body.Mass()
	return n.Mult(-approach * (ma * mb) / (ma + mb)), true
}

func (w *World) stepCollisions() {
	ships := w.byClass[ClassShip]
	bullets := w.byClass[ClassBullet]
	mines := w.byClass[ClassMine]
	critters := w.byClass[ClassCritter]
	fixed := w.byClass[ClassFixed]

	live := func(o *Object) bool { return !o.destroyed }

	// Ship to ship, ship to bullet, ship to mine, ship to fixed.
	for i, ship := range ships {
		if !live(ship) {
			continue
		}
		for _, other := range ships[i+1:] {
			if !live(other) {
				continue
			}
			if imp, ok := collisionImpulse(ship, other); ok {
				ship.Impulse(imp)
				other.Impulse(imp.Neg())
			}
		}
		for _, b := range bullets {
			if !live(b) || !live(ship) || b.owner == ship.owner {
				continue
			}
			if imp, ok := collisionImpulse(ship, b); ok {
				ship.Impulse(imp)
				b.impact(w.level.ClassifyAt(b.Pos()), ship)
			}
		}
		for _, m := range mines {
			if !live(m) || !live(ship) || m.owner == ship.owner {
				continue
			}
			if checkOverlap(ship, m) {
				m.impact(w.level.ClassifyAt(m.Pos()), ship)
			}
		}
		for _, f := range fixed {
			if !live(f) || !live(ship) {
				continue
			}
			if checkOverlap(ship, f) {
				f.objectHit(ship)
			}
		}
	}

	// Mine to mine and mine to bullet: both sides detonate.
	for i, m := range mines {
		if !live(m) {
			continue
		}
		for _, other := range mines[i+1:] {
			if !live(other) || !live(m) {
				continue
			}
			if checkOverlap(m, other) {
				ter := w.level.ClassifyAt(m.Pos())
				m.impact(ter, nil)
				other.impact(ter, nil)
			}
		}
		for _, b := range bullets {
			if !live(b) || !live(m) {
				continue
			}
			if checkOverlap(m, b) {
				ter := w.level.ClassifyAt(m.Pos())
				b.impact(ter, nil)
				m.impact(ter, nil)
			}
		}
	}

	// Critters: bullets and mines may be intercepted by the critter's own
	// bullet-hit slot (consumer wins); fixed objects and other critters
	// just bump.
	for i, cr := range critters {
		if !live(cr) {
			continue
		}
		for _, other := range critters[i+1:] {
			if !live(other) || !live(cr) {
				continue
			}
			if imp, ok := collisionImpulse(cr, other); ok {
				cr.Impulse(imp)
				other.Impulse(imp.Neg())
			}
		}
		for _, b := range bullets {
			if !live(b) || !live(cr) {
				continue
			}
			// Drones shoot each other far too easily, so friendly fire
			// is only checked for owned critters.
			if cr.owner != 0 && cr.owner == b.owner {
				continue
			}
			if checkOverlap(cr, b) {
				if cr.bulletHit(b) == Continue {
					b.impact(w.level.ClassifyAt(b.Pos()), cr)
				}
			}
		}
		for _, m := range mines {
			if !live(m) || !live(cr) {
				continue
			}
			if checkOverlap(cr, m) {
				if cr.bulletHit(m) == Continue {
					m.impact(w.level.ClassifyAt(m.Pos()), cr)
				}
			}
		}
	}

	// Fixed objects can swallow bullets (shields, portals).
	for _, f := range fixed {
		if !live(f) {
			continue
		}
		for _, b := range bullets {
			if !live(b) || !live(f) {
				continue
			}
			if checkOverlap(f, b) {
				if f.bulletHit(b) == Continue {
					b.impact(w.level.ClassifyAt(b.Pos()), f)
				}
			}
		}
	}
}

func (w *World) stepCritters(dt float64) {
	w.each(ClassCritter, func(o *Object) bool {
		cs := o.critter
		if cs == nil {
			return true
		}
		below := w.level.ClassifyAt(o.Pos().Add(cp.Vector{Y: o.radius + 1}))
		grounded := below.Solid() || below == TerrainBase
		if grounded && !cs.grounded {
			ter := w.level.ClassifyAt(o.Pos())
			if o.behaviors.OnTouchGround != nil {
				o.behaviors.OnTouchGround(o, ter)
			}
		}
		cs.grounded = grounded

		if grounded && cs.Walking != 0 {
			ahead := o.Pos().Add(cp.Vector{X: float64(cs.Walking) * o.radius * 2})
			aheadBelow := w.level.ClassifyAt(ahead.Add(cp.Vector{Y: o.radius + 1}))
			if !aheadBelow.Solid() && aheadBelow != TerrainBase {
				if o.behaviors.OnTouchLedge != nil {
					o.behaviors.OnTouchLedge(o)
				}
			} else if cs.WalkSpeed > 0 {
				vel := o.body.Velocity()
				o.body.SetVelocity(float64(cs.Walking)*cs.WalkSpeed, vel.Y)
			}
		}

		if cs.Action && cs.actionEnd > 0 && w.time >= cs.actionEnd {
			cs.Action = false
			cs.actionEnd = 0
			if o.behaviors.OnActionComplete != nil {
				o.behaviors.OnActionComplete(o)
			}
		}
		return true
	})
}

// StartAction begins the critter's action state for the given duration;
// OnActionComplete fires when it ends.
func (o *Object) StartAction(duration float64) {
	if o == nil || o.critter == nil || o.w == nil {
		return
	}
	o.critter.Action = true
	o.critter.actionEnd = o.w.time + duration
}

func (w *World) serviceTimers(dt float64) {
	for c := 0; c < classCount; c++ {
		// Snapshot: objects scheduled into existence this tick wait for
		// the next one.
		objs := w.byClass[c]
		for _, o := range objs {
			if o.destroyed || !o.awake {
				continue
			}
			o.wakeAccum += dt
			o.nextWake -= dt
			if o.nextWake > 0 {
				continue
			}
			w.serviceObject(o)
		}
	}
}

// serviceObject runs one object's due timers with per-owner isolation: a
// panicking callback is logged and its owner deactivated, but servicing of
// independent objects and the global scheduler continues.
func (w *World) serviceObject(o *Object) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("world: %s %s timer callback panicked: %v", o.class, o.handle, r)
			o.timers = nil
			o.awake = false
		}
	}()
	elapsed := o.wakeAccum
	o.wakeAccum = 0
	next, ok := o.timers.Service(o, elapsed)
	if o.destroyed {
		// A callback destroyed its own object; Destroy already dropped
		// the scheduler.
		return
	}
	o.nextWake = next
	o.awake = ok
}

func (w *World) serviceGlobal(dt float64) {
	if !w.globalAwake {
		return
	}
	w.globalAccum += dt
	w.globalWake -= dt
	if w.globalWake > 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("world: global timer callback panicked: %v", r)
			w.global = ecs.NewTimers[*World]()
			w.globalAwake = false
		}
	}()
	elapsed := w.globalAccum
	w.globalAccum = 0
	next, ok := w.global.Service(w, elapsed)
	w.globalWake = next
	w.globalAwake = ok
}

func (w *World) stepHUD(dt float64) {
	kept := w.hud[:0]
	for _, n := range w.hud {
		n.Life -= dt
		if n.Life > 0 {
			kept = append(kept, n)
		}
	}
	w.hud = kept
}

// sweep reclaims destroyed objects at the end of the step so no callback
// ever runs against a dangling owner.
func (w *World) sweep() {
	for c := 0; c < classCount; c++ {
		objs := w.byClass[c]
		kept := objs[:0]
		for _, o := range objs {
			if !o.destroyed {
				kept = append(kept, o)
				continue
			}
			w.space.RemoveBody(o.body)
			delete(w.handles, o.handle)
			w.store.Destroy(o.handle)
			o.w = nil
		}
		w.byClass[c] = kept
	}
}
