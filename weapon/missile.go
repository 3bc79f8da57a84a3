package weapon

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/common"
	"github.com/milk9111/caveflyer/ecs"
	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/world"
)

// missileSpawn builds a homing missile. The retarget loop reacquires the
// nearest enemy ship on each tick and bends the flight path toward it,
// limited by the spec's turn rate. Losing the target keeps the missile
// flying straight; it still detonates on whatever it hits.
func missileSpawn(spec prefabs.WeaponSpec, pos, vel cp.Vector, owner int) world.Spawn {
	timers := ecs.NewTimers[*world.Object]()
	timers.Add(spec.Retarget, func(o *world.Object) (float64, bool) {
		if o.Destroyed() {
			return 0, false
		}
		steer(o, spec)
		return spec.Retarget, true
	})
	if spec.Lifetime > 0 {
		timers.Add(spec.Lifetime, func(o *world.Object) (float64, bool) {
			o.Destroy()
			return 0, false
		})
	}

	return world.Spawn{
		Class:   world.ClassBullet,
		Pos:     pos,
		Vel:     vel,
		Mass:    spec.Mass,
		Radius:  spec.Radius,
		Drag:    spec.Drag,
		Owner:   owner,
		Color:   spec.Color,
		Texture: spec.Texture,
		Damage:  spec.Damage,
		Timers:  timers,
		Behaviors: world.Behaviors{
			OnImpact: BulletImpact(spec.Damage),
		},
	}
}

func steer(o *world.Object, spec prefabs.WeaponSpec) {
	w := o.World()

	// Resolve the remembered target first; a stale handle falls through
	// to reacquisition.
	target := w.Lookup(o.Target)
	if target == nil {
		target = w.NearestShip(o.Pos(), o.Owner())
		if target == nil {
			return
		}
		o.Target = target.Handle()
	}

	vel := o.Vel()
	heading := math.Atan2(vel.Y, vel.X)
	want := target.Pos().Sub(o.Pos())
	wantAngle := math.Atan2(want.Y, want.X)

	// Shortest signed angle from heading to target, clamped to what the
	// missile can turn in one retarget interval.
	diff := math.Mod(wantAngle-heading+3*math.Pi, 2*math.Pi) - math.Pi
	maxTurn := spec.TurnRate * spec.Retarget
	diff = common.Clamp(diff, -maxTurn, maxTurn)

	speed := vel.Length()
	if speed < spec.Speed {
		speed = spec.Speed
	}
	o.SetVel(common.ForAngle(heading+diff, speed))
}
