package critter

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/ecs"
	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/world"
)

// turretSpawn builds a wall turret: a fixed emplacement whose fire loop
// shoots the nearest ship it can actually see. Terrain blocks line of
// sight, so ships duck behind rock to break the lock.
func (b *Bestiary) turretSpawn(spec prefabs.CritterSpec, pos cp.Vector) world.Spawn {
	timers := ecs.NewTimers[*world.Object]()
	timers.Add(spec.FireInterval, func(o *world.Object) (float64, bool) {
		if o.Destroyed() {
			return 0, false
		}
		b.turretFire(o, spec)
		return spec.FireInterval, true
	})

	return world.Spawn{
		Class:   world.ClassFixed,
		Pos:     pos,
		Mass:    spec.Mass,
		Radius:  spec.Radius,
		Color:   spec.Color,
		Texture: spec.Texture,
		Health:  spec.Health,
		Timers:  timers,
	}
}

func (b *Bestiary) turretFire(o *world.Object, spec prefabs.CritterSpec) {
	if b.arsenal == nil {
		return
	}
	w := o.World()

	ship := w.NearestShip(o.Pos(), 0)
	if ship == nil {
		return
	}
	to := ship.Pos().Sub(o.Pos())
	if to.Length() > spec.Range {
		return
	}
	if _, _, blocked := w.Level().ClassifyLine(o.Pos(), ship.Pos()); blocked {
		return
	}

	wspec, ok := b.arsenal.Spec(spec.Weapon)
	if !ok {
		return
	}
	dir := to.Normalize()
	muzzle := o.Pos().Add(dir.Mult(o.Radius() + wspec.Radius + 1))
	sp, ok := b.arsenal.Spawn(spec.Weapon, muzzle, dir.Mult(wspec.Speed), 0)
	if !ok {
		return
	}
	w.Queue(world.SpawnObject{Spec: sp})
}
