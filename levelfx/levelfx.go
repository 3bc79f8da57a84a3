// Package levelfx drives the ambient level effects that live on the
// world's global scheduler: wind drift, snowfall, terrain regrowth, and
// pulsing forcefields. Each effect is one self-rearming timer installed
// at round start.
package levelfx

import (
	"fmt"
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/common"
	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/world"
)

// Install loads the level-effect tuning and arms every effect on the
// world's global scheduler.
func Install(w *world.World) error {
	spec, err := prefabs.LoadLevelFXSpec()
	if err != nil {
		return fmt.Errorf("levelfx: %w", err)
	}
	InstallFrom(w, spec)
	return nil
}

// InstallFrom arms the effects from an already-loaded spec. Effects with
// a zero interval stay off.
func InstallFrom(w *world.World, spec *prefabs.LevelFXSpec) {
	if w == nil || spec == nil {
		return
	}
	if spec.Wind.Interval > 0 {
		w.ScheduleGlobal(spec.Wind.Interval, windDrift(spec))
	}
	if spec.Snow.Interval > 0 {
		w.ScheduleGlobal(spec.Snow.Interval, snowfall(spec))
	}
	if spec.Regen.Interval > 0 {
		w.ScheduleGlobal(spec.Regen.Interval, terrainRegen(spec))
	}
}

// windDrift nudges the wind by a bounded random step each interval, so
// the wind wanders instead of jumping.
func windDrift(spec *prefabs.LevelFXSpec) func(*world.World) (float64, bool) {
	return func(w *world.World) (float64, bool) {
		step := (rand.Float64()*2 - 1) * spec.Wind.Step
		next := common.Clamp(w.Wind()+step, -spec.Wind.MaxSpeed, spec.Wind.MaxSpeed)
		w.Queue(world.SetWindSpeed{Speed: next})
		return spec.Wind.Interval, true
	}
}

// snowfall drops a handful of flakes from the top edge each interval.
// Flakes are light particles; the wind drag carries them sideways.
func snowfall(spec *prefabs.LevelFXSpec) func(*world.World) (float64, bool) {
	return func(w *world.World) (float64, bool) {
		width, _ := w.Level().Size()
		for i := 0; i < spec.Snow.Flakes; i++ {
			// Just below the solid ceiling border.
			pos := cp.Vector{X: rand.Float64() * width, Y: 20}
			w.Queue(world.SpawnObject{Spec: flakeSpawn(pos)})
		}
		return spec.Snow.Interval, true
	}
}

func flakeSpawn(pos cp.Vector) world.Spawn {
	return world.Spawn{
		Class:  world.ClassParticle,
		Pos:    pos,
		Vel:    cp.Vector{Y: 10 + rand.Float64()*20},
		Mass:   0.1,
		Radius: 1,
		Drag:   0.2,
		Color:  0xffffffff,
		Behaviors: world.Behaviors{
			OnImpact: func(obj *world.Object, ter world.Terrain, other *world.Object) {
				obj.Destroy()
			},
		},
	}
}

// terrainRegen grows a budget of blasted cells back each interval.
func terrainRegen(spec *prefabs.LevelFXSpec) func(*world.World) (float64, bool) {
	return func(w *world.World) (float64, bool) {
		w.Level().Regrow(spec.Regen.Budget)
		return spec.Regen.Interval, true
	}
}

// PulseField installs a forcefield that flips its push direction every
// interval. The field id is returned so level teardown can remove it.
func PulseField(w *world.World, bounds cp.BB, force cp.Vector, interval float64) int64 {
	if w == nil || interval <= 0 {
		return 0
	}
	id := w.NextEffectID()
	w.Queue(world.UpdateForcefield{Field: world.Forcefield{
		ID:           id,
		Bounds:       bounds,
		UniformForce: force,
	}})

	current := force
	w.ScheduleGlobal(interval, func(w *world.World) (float64, bool) {
		if _, ok := w.Forcefield(id); !ok {
			// Torn down; stop pulsing.
			return 0, false
		}
		current = current.Neg()
		w.Queue(world.UpdateForcefield{Field: world.Forcefield{
			ID:           id,
			Bounds:       bounds,
			UniformForce: current,
		}})
		return interval, true
	})
	return id
}
