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

// fishSpawn builds a fish. Fish drift on their decision loop but never
// leave the water: a heading that would beach the fish gets reflected
// back in. No bullet-hit slot, so bullets treat fish like anything else.
func fishSpawn(spec prefabs.CritterSpec, pos cp.Vector) world.Spawn {
	timers := ecs.NewTimers[*world.Object]()
	timers.Add(decideDelay(spec), func(o *world.Object) (float64, bool) {
		if o.Destroyed() {
			return 0, false
		}
		fishDecide(o, spec)
		return decideDelay(spec), true
	})

	return world.Spawn{
		Class:   world.ClassCritter,
		Pos:     pos,
		Mass:    spec.Mass,
		Radius:  spec.Radius,
		Drag:    0.05, // water resistance
		Color:   spec.Color,
		Texture: spec.Texture,
		Health:  spec.Health,
		Timers:  timers,
		Critter: &world.CritterState{},
	}
}

func fishDecide(o *world.Object, spec prefabs.CritterSpec) {
	level := o.World().Level()

	angle := rand.Float64() * 2 * math.Pi
	vel := common.ForAngle(angle, spec.FlySpeed)

	// Probe half a second ahead; turn back when the heading leaves the
	// water.
	probe := o.Pos().Add(vel.Mult(0.5))
	if level.ClassifyAt(probe) != world.TerrainWater {
		vel = vel.Neg()
		if level.ClassifyAt(o.Pos().Add(vel.Mult(0.5))) != world.TerrainWater {
			// Boxed in. Stay put until the next decision.
			vel = cp.Vector{}
		}
	}
	o.SetVel(vel)
}
