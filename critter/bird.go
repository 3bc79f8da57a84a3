package critter

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/common"
	"github.com/milk9111/caveflyer/ecs"
	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/world"
)

// birdSpawn builds a cave bird. Birds wander on a decision loop, scatter
// from nearby flockmates, and dodge bullets: a hit bird absorbs the
// round itself and suppresses the bullet's impact, so panicking birds do
// not chip the cave apart.
func birdSpawn(spec prefabs.CritterSpec, pos cp.Vector) world.Spawn {
	timers := ecs.NewTimers[*world.Object]()
	timers.Add(decideDelay(spec), func(o *world.Object) (float64, bool) {
		if o.Destroyed() {
			return 0, false
		}
		birdDecide(o, spec)
		return decideDelay(spec), true
	})

	return world.Spawn{
		Class:   world.ClassCritter,
		Pos:     pos,
		Mass:    spec.Mass,
		Radius:  spec.Radius,
		Color:   spec.Color,
		Texture: spec.Texture,
		Health:  spec.Health,
		Timers:  timers,
		Critter: &world.CritterState{WalkSpeed: spec.WalkSpeed},
		Behaviors: world.Behaviors{
			OnBulletHit: func(obj, bullet *world.Object) world.Outcome {
				birdFlee(obj, bullet.Pos(), spec.FleeSpeed)
				obj.Health -= bullet.Damage
				bullet.Destroy()
				if obj.Health <= 0 {
					obj.Destroy()
				}
				return world.Handled
			},
			OnTouchGround: func(obj *world.Object, ter world.Terrain) {
				// Half the landings become a short perch-and-strut; the
				// rest bounce straight back into the air.
				if cs := obj.Critter(); cs != nil && spec.WalkSpeed > 0 && ter != world.TerrainWater && rand.Intn(2) == 0 {
					birdPerch(obj, cs)
					return
				}
				obj.SetVel(cp.Vector{X: obj.Vel().X, Y: -spec.FlySpeed})
			},
			OnTouchLedge: func(obj *world.Object) {
				// Strutting birds turn around at a drop.
				if cs := obj.Critter(); cs != nil {
					cs.Walking = -cs.Walking
					cs.Facing = cs.Walking
				}
			},
			OnActionComplete: func(obj *world.Object) {
				// Perch over, take off.
				if cs := obj.Critter(); cs != nil {
					cs.Walking = 0
				}
				obj.SetVel(cp.Vector{Y: -spec.FlySpeed})
			},
		},
	}
}

func birdPerch(o *world.Object, cs *world.CritterState) {
	if rand.Intn(2) == 0 {
		cs.Walking = 1
	} else {
		cs.Walking = -1
	}
	cs.Facing = cs.Walking
	o.SetVel(cp.Vector{})
	o.StartAction(1 + rand.Float64()*2)
}

func birdDecide(o *world.Object, spec prefabs.CritterSpec) {
	w := o.World()

	// Perched birds sit out the wander loop until the strut ends.
	if cs := o.Critter(); cs != nil && cs.Walking != 0 {
		return
	}

	// A crowded flock spreads out; otherwise pick a fresh direction,
	// biased upward so birds stay off the cave floor.
	var away cp.Vector
	crowded := false
	w.EachCritterNear(o.Pos(), spec.Radius*6, o.Handle(), func(other *world.Object) bool {
		away = away.Add(o.Pos().Sub(other.Pos()))
		crowded = true
		return true
	})
	if crowded && away.LengthSq() > 0 {
		o.SetVel(away.Normalize().Mult(spec.FlySpeed))
		return
	}

	angle := rand.Float64() * 2 * math.Pi
	vel := common.ForAngle(angle, spec.FlySpeed)
	if vel.Y > spec.FlySpeed*0.5 {
		vel.Y = -vel.Y
	}
	o.SetVel(vel)
}

func birdFlee(o *world.Object, from cp.Vector, speed float64) {
	away := o.Pos().Sub(from)
	if away.LengthSq() == 0 {
		away = cp.Vector{X: 1}
	}
	o.SetVel(away.Normalize().Mult(speed))
}
