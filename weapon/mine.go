package weapon

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/ecs"
	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/world"
)

// mineSpawn builds a proximity mine. The mine is inert until the arm
// timer fires; arming installs the contact slots and starts the
// proximity decision loop. A second pending timer detonates the mine at
// the end of its lifetime, so the two countdowns coexist on the same
// scheduler from birth.
func mineSpawn(spec prefabs.WeaponSpec, pos, vel cp.Vector, owner int) world.Spawn {
	timers := ecs.NewTimers[*world.Object]()
	timers.Add(spec.ArmDelay, func(o *world.Object) (float64, bool) {
		arm(o, spec)
		return 0, false
	})
	timers.Add(spec.Lifetime, func(o *world.Object) (float64, bool) {
		detonate(o, spec)
		return 0, false
	})

	return world.Spawn{
		Class:   world.ClassMine,
		Pos:     pos,
		Vel:     vel,
		Mass:    spec.Mass,
		Radius:  spec.Radius,
		Drag:    spec.Drag,
		Owner:   owner,
		Color:   spec.Color,
		Texture: spec.Texture,
		Damage:  spec.Damage,
		Health:  1,
		Timers:  timers,
		Behaviors: world.Behaviors{
			// Unarmed mines just settle where they land.
			OnImpact: func(obj *world.Object, ter world.Terrain, other *world.Object) {
				obj.SetVel(cp.Vector{})
			},
		},
	}
}

func arm(o *world.Object, spec prefabs.WeaponSpec) {
	if o.Destroyed() {
		return
	}
	// Armed mines no longer remember who laid them, so a careless owner
	// can fly into their own field.
	o.Disown()

	b := o.Behaviors()
	b.OnBulletHit = func(obj, bullet *world.Object) world.Outcome {
		detonate(obj, spec)
		return world.Continue
	}
	b.OnObjectHit = func(obj, other *world.Object) world.Outcome {
		detonate(obj, spec)
		return world.Continue
	}
	b.OnImpact = func(obj *world.Object, ter world.Terrain, other *world.Object) {
		// Settling onto terrain still does not set the mine off.
		if other != nil {
			detonate(obj, spec)
			return
		}
		obj.SetVel(cp.Vector{})
	}

	o.Schedule(spec.ProximityCheck, func(obj *world.Object) (float64, bool) {
		if obj.Destroyed() {
			return 0, false
		}
		ship := obj.World().NearestShip(obj.Pos(), 0)
		if ship != nil && ship.Pos().Sub(obj.Pos()).Length() <= spec.ProximityRadius {
			detonate(obj, spec)
			return 0, false
		}
		return spec.ProximityCheck, true
	})
}

func detonate(o *world.Object, spec prefabs.WeaponSpec) {
	if o.Destroyed() {
		return
	}
	w := o.World()
	pos := o.Pos()

	r := spec.HoleRadius
	if r <= 0 {
		r = 16
	}
	w.Queue(world.MakeBigHole{Pos: pos, R: r})

	// Blast damage falls off linearly out to twice the crater radius.
	blast := 2 * r
	w.EachShip(func(ship *world.Object) bool {
		d := ship.Pos().Sub(pos).Length()
		if d < blast {
			damage(ship, spec.Damage*(1-d/blast))
		}
		return true
	})

	o.Destroy()
}
